// Package traffic implements the synthetic offered-load generator: renewal
// ON/OFF streams (Pareto, exponential, CBR, token-bucketed video) merged by
// an Aggregator into a single packet sequence whose size is drawn from a
// histogram.
package traffic

import (
	"math"

	"github.com/gkramer/eponsim/engine"
)

const (
	minAlpha = 1.001
	maxAlpha = 1.999
	minLoad  = 1.0e-10
	maxLoad  = 0.99999
)

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func roundToInt64(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}

// Stream is a renewal process producing alternating (burst, pause) byte-
// length pairs. ArrivalBytestamp is the byte-count timeline position, in
// bytes since the stream's last reset, at which the current burst starts.
type Stream interface {
	ArrivalBytestamp() int64
	BurstSize() int64
	ExtractBurst()
	Reset()
	SetLoad(load float64)
}

// sizer is implemented by each concrete stream and drives streamBase's
// shared Reset/ExtractBurst logic — the Go equivalent of the original's
// pure-virtual NextBurstSize/NextPauseSize, without needing a base class
// pointer back into a vtable.
type sizer interface {
	nextBurstSize() int64
	nextPauseSize() int64
}

// streamBase implements the Reset/ExtractBurst/accessor logic common to
// every stream variant, grounded on trf_gen_v3.h's Stream base class.
// Concrete variants embed it and set sizer to themselves.
type streamBase struct {
	rng     *engine.RandSource
	sizer   sizer
	arrival int64
	burst   int64
}

func (s *streamBase) ArrivalBytestamp() int64 { return s.arrival }
func (s *streamBase) BurstSize() int64        { return s.burst }

// Reset draws a fresh (burst, pause) pair, then picks a uniform random point
// within it to simulate the stream having started at an arbitrary phase.
// This is the "quick start" algorithm: without it, every stream reset by
// SetLoadReset would begin its OFF period in lockstep, understating the
// offered load until the longest OFF period in the pool elapses.
func (s *streamBase) Reset() {
	s.burst = s.sizer.nextBurstSize()
	burstTime := s.sizer.nextPauseSize() + s.burst

	startTime := s.rng.UniformInt(0, int(burstTime))

	if int64(startTime) < s.burst {
		// zero time fell within the ON period
		s.burst -= int64(startTime)
		burstTime = 0
	} else {
		// zero time fell within the OFF period
		s.burst = s.sizer.nextBurstSize()
		burstTime -= int64(startTime)
	}
	s.arrival = burstTime
}

// ExtractBurst advances the arrival bytestamp past the current burst and the pause that
// follows it, then draws the next burst size.
func (s *streamBase) ExtractBurst() {
	s.arrival += s.burst + s.sizer.nextPauseSize()
	s.burst = s.sizer.nextBurstSize()
}
