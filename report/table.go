package report

import (
	"strconv"

	"github.com/gkramer/eponsim/epon"
)

// metric is one row of the PER_PON table: a label and a function pulling
// that row's value out of one load point's Result.
type metric struct {
	label string
	value func(epon.Result) float64
}

// metrics lists every row test_001.h's PrintResult emits, in the same
// order, via the same PER_PON macro invocations.
var metrics = []metric{
	{"TARGET LOAD", func(r epon.Result) float64 { return r.TargetLoad }},
	{"SIM TIME (sec)", func(r epon.Result) float64 { return r.RunTime.Seconds() }},
	{"RECV PACKETS", func(r epon.Result) float64 { return float64(r.RecvPckt) }},
	{"SENT PACKETS", func(r epon.Result) float64 { return float64(r.SentPckt) }},
	{"DROP PACKETS", func(r epon.Result) float64 { return float64(r.DropPckt) }},
	{"RECV BYTES", func(r epon.Result) float64 { return float64(r.RecvByte) }},
	{"SENT BYTES", func(r epon.Result) float64 { return float64(r.SentByte) }},
	{"DROP BYTES", func(r epon.Result) float64 { return float64(r.DropByte) }},
	{"SCHD BYTES", func(r epon.Result) float64 { return float64(r.SchdByte) }},
	{"SCHD PACKETS", func(r epon.Result) float64 { return float64(r.SchdPckt) }},
	{"ONU LOAD", func(r epon.Result) float64 { return r.OnuLoad }},
	{"OFFERED LOAD", func(r epon.Result) float64 { return r.OfferedLoad }},
	{"CARRIED LOAD", func(r epon.Result) float64 { return r.CarriedLoad }},
	{"PACKET LOSS RATIO", func(r epon.Result) float64 { return ratio(r.DropPckt, r.RecvPckt) }},
	{"BYTE LOSS RATIO", func(r epon.Result) float64 { return ratio(r.DropByte, r.RecvByte) }},
	{"AVG DELAY (us)", func(r epon.Result) float64 { return r.AvgDelayUs }},
	{"MAX DELAY (us)", func(r epon.Result) float64 { return r.MaxDelayUs }},
	{"AVG QUEUE LENGTH (bytes)", func(r epon.Result) float64 { return r.AvgQueueByte }},
	{"AVG CYCLE TIME (us)", func(r epon.Result) float64 { return r.AvgCycleUs }},
	{"MAX CYCLE TIME (us)", func(r epon.Result) float64 { return r.MaxCycleUs }},
	{"TOTAL CYCLES", func(r epon.Result) float64 { return float64(r.Cycles) }},
}

func ratio(num, den int64) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// ResultTable renders results into the row layout described by test_001.h:
// one row per metric, one column per load point, metric label in column 1
// and an empty column 2 (matching PER_PON's "name,," prefix, which the
// original used to leave room for a units sub-header that was never
// filled in — reproduced here unchanged so existing downstream spreadsheet
// tooling built against that column offset keeps working).
func ResultTable(results []epon.Result) [][]string {
	rows := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		row := make([]string, 0, len(results)+2)
		row = append(row, m.label, "")
		for _, r := range results {
			row = append(row, strconv.FormatFloat(m.value(r), 'f', 6, 64))
		}
		rows = append(rows, row)
	}
	return rows
}
