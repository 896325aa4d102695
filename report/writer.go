// Package report opens the simulation's output streams and formats the
// per-load-point result table, grounded on sim_output.h's REAL_STREAM
// family (WARN/CONF/INFO/RSLT) and test_001.h's PrintResult.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Writer owns the four output streams a run produces: warnings,
// configuration echo, informational progress, and the final result table.
// Each is a plain file opened once at startup, matching sim_output.h's
// one-file-per-stream-kind convention.
type Writer struct {
	Warning io.Writer
	Config  io.Writer
	Info    io.Writer
	Result  io.Writer

	files []*os.File
}

// Open creates the four output files named
// <prefix>_<stamp>_<kind>.csv, where stamp is caller-supplied (typically
// MMDDYY_HHMMSS, stamped once per run by the caller — see cmd/eponsim).
func Open(prefix, stamp string) (*Writer, error) {
	w := &Writer{}
	kinds := map[string]*io.Writer{
		"warning": &w.Warning,
		"config":  &w.Config,
		"info":    &w.Info,
		"result":  &w.Result,
	}
	for kind, dst := range kinds {
		name := fmt.Sprintf("%s_%s_%s.csv", prefix, stamp, kind)
		f, err := os.Create(name)
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("report: creating %s: %w", name, err)
		}
		w.files = append(w.files, f)
		*dst = f
	}
	return w, nil
}

// Close closes every stream opened by Open.
func (w *Writer) Close() error {
	var first error
	for _, f := range w.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// WriteConfigHeader writes a one-line banner identifying the scenario,
// reproducing sim_output.h's _FILE_ATTRIBUTES macro, which stamped every
// compiled-in configuration/simulation file with a kind and number; here
// the equivalent identifying line is written once to the configuration
// stream instead of baked into the binary.
func (w *Writer) WriteConfigHeader(scenarioName string) error {
	_, err := fmt.Fprintf(w.Config, "CONFIGURATION,%s\n", scenarioName)
	return err
}

// WriteCSV renders rows (one metric per row, values already formatted) to
// dst using the standard library's CSV writer — per DESIGN.md, no pack
// dependency covers delimited-text writing, so this one corner of the
// ambient stack is stdlib by necessity rather than by default.
func WriteCSV(dst io.Writer, rows [][]string) error {
	cw := csv.NewWriter(dst)
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("report: writing row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
