// Package epon implements the MPCP protocol state machines (ONU grant
// handling, OLT scheduling and discovery) and the driver/observer that wires
// them, together with traffic sources and links, into a runnable simulation.
package epon

import "github.com/gkramer/eponsim/engine"

// Params collects the PON's physical and protocol constants. A single value
// is shared by every ONU and the OLT in one scenario, grounded on the
// compile-time constants conf_001.h defines for the same purpose — made
// runtime-configurable here since config.Scenario fills one of these per
// run instead of recompiling.
type Params struct {
	NumLLID int

	BufferSize int // per-ONU FIFO capacity, bytes
	MaxSlot    int // maximum bytes granted per GATE

	OLTHWProcessDelay engine.Time
	ONUHWProcessDelay engine.Time
	GuardBandTime     engine.Time

	PONMaxLinkDistance int // meters
	FiberDelay         engine.Time // ns per meter

	PONByteTime engine.Time // ns per byte on the PON
	UNIByteTime engine.Time // ns per byte on the ONU's user-facing interface

	PacketOverhead int // preamble + minimum inter-frame gap, bytes
	MinPacketSize  int
	MaxPacketSize  int
	MPCPPacketSize int
}

// Overhead returns size plus the fixed per-frame preamble/IFG overhead —
// the original's _OVERHEAD(size) macro.
func (p *Params) Overhead(size int) int { return size + p.PacketOverhead }

// PonPcktTime returns how long a size-byte frame, including overhead,
// occupies the PON — the original's _PON_PCKT_TIME(size) macro.
func (p *Params) PonPcktTime(size int) engine.Time {
	return engine.Time(int64(p.Overhead(size)) * int64(p.PONByteTime))
}

// PonTime returns how long a given number of raw bytes occupies the PON,
// with no overhead added — the original's _PON_TIME(bytes) macro, used when
// bytes already includes overhead (e.g. a granted slot length).
func (p *Params) PonTime(bytes int) engine.Time {
	return engine.Time(int64(bytes) * int64(p.PONByteTime))
}

// DefaultParams returns the reference PON parameters from conf_001.h.
func DefaultParams() *Params {
	return &Params{
		NumLLID:            16,
		BufferSize:         1 << 20,
		MaxSlot:            15500,
		OLTHWProcessDelay:  16384,
		ONUHWProcessDelay:  16384,
		GuardBandTime:      1000,
		PONMaxLinkDistance: 20000,
		FiberDelay:         5,
		PONByteTime:        8,
		UNIByteTime:        80,
		PacketOverhead:     20,
		MinPacketSize:      64,
		MaxPacketSize:      1518,
		MPCPPacketSize:     64,
	}
}
