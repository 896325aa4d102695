// Package netmodel implements the channel and clock layer: propagation-delayed
// links between simulation objects and per-object local clocks that may drift
// relative to the simulator's global virtual time.
package netmodel

import (
	"fmt"

	"github.com/gkramer/eponsim/engine"
)

// MultiPort manages the output ports of a network element with one or more
// interfaces (an OLT's per-LLID ports, a switch's per-link ports). It
// generalizes the original's MultiPort<PORTS> template into a slice-backed
// Go type sized at construction rather than compile time.
type MultiPort struct {
	ports []engine.Handler
}

// NewMultiPort constructs a MultiPort with n unconnected ports.
func NewMultiPort(n int) *MultiPort {
	return &MultiPort{ports: make([]engine.Handler, n)}
}

// PortCount returns the number of ports.
func (m *MultiPort) PortCount() int { return len(m.ports) }

// SetPort connects port index to dst. It panics on an out-of-range index,
// matching the original's debug-build assertion — a wiring mistake here is a
// programming error discovered at construction time, not a runtime
// condition callers should be expected to handle.
func (m *MultiPort) SetPort(index int, dst engine.Handler) {
	if index < 0 || index >= len(m.ports) {
		panic(fmt.Sprintf("netmodel: port index %d out of range [0,%d)", index, len(m.ports)))
	}
	m.ports[index] = dst
}

// GetPort returns the handler connected to port index, or nil if unset.
func (m *MultiPort) GetPort(index int) engine.Handler {
	if index < 0 || index >= len(m.ports) {
		panic(fmt.Sprintf("netmodel: port index %d out of range [0,%d)", index, len(m.ports)))
	}
	return m.ports[index]
}
