package traffic

import "github.com/gkramer/eponsim/engine"

// ParetoStream is a self-similar (long-range-dependent) ON/OFF source: both
// burst and pause durations are drawn from a Pareto distribution, so no
// single timescale dominates its variance.
type ParetoStream struct {
	streamBase
	shape          float64
	minBurst       float64
	minPause       float64
}

// NewParetoStream constructs a Pareto stream at the given load (fraction of
// link capacity), with meanBurst bytes average burst size and the given
// Pareto shape parameter (clamped to [1.001, 1.999]).
func NewParetoStream(rng *engine.RandSource, load, meanBurst, shape float64) *ParetoStream {
	s := &ParetoStream{shape: clamp(shape, minAlpha, maxAlpha)}
	s.minBurst = meanBurst * (1.0 - 1.0/s.shape)
	s.rng = rng
	s.sizer = s
	s.SetLoad(load)
	s.Reset()
	return s
}

func (s *ParetoStream) nextBurstSize() int64 {
	return roundToInt64(s.rng.Pareto(s.shape) * s.minBurst)
}
func (s *ParetoStream) nextPauseSize() int64 {
	return roundToInt64(s.rng.Pareto(s.shape) * s.minPause)
}

// SetLoad recomputes the minimum pause length so the stream's long-run
// average rate equals load.
func (s *ParetoStream) SetLoad(load float64) {
	load = clamp(load, minLoad, maxLoad)
	s.minPause = s.minBurst * (1.0/load - 1.0)
}

// ExponStream is a short-range-dependent (bursty but not self-similar)
// ON/OFF source: both burst and pause durations are exponentially
// distributed.
type ExponStream struct {
	streamBase
	meanBurst float64
	meanPause float64
}

// NewExponStream constructs an exponential ON/OFF stream.
func NewExponStream(rng *engine.RandSource, load, meanBurst float64) *ExponStream {
	s := &ExponStream{meanBurst: meanBurst}
	s.rng = rng
	s.sizer = s
	s.SetLoad(load)
	s.Reset()
	return s
}

func (s *ExponStream) nextBurstSize() int64 {
	return roundToInt64(s.rng.Exponential() * s.meanBurst)
}
func (s *ExponStream) nextPauseSize() int64 {
	return roundToInt64(s.rng.Exponential() * s.meanPause)
}
func (s *ExponStream) SetLoad(load float64) {
	load = clamp(load, minLoad, maxLoad)
	s.meanPause = s.meanBurst * (1.0/load - 1.0)
}

// CBRStream is a constant-bit-rate source: every burst and every pause has
// exactly the same length.
type CBRStream struct {
	streamBase
	burstSize int64
	pauseSize int64
}

// NewCBRStream constructs a constant-bit-rate stream.
func NewCBRStream(rng *engine.RandSource, load, meanBurst float64) *CBRStream {
	s := &CBRStream{burstSize: roundToInt64(meanBurst)}
	s.rng = rng
	s.sizer = s
	s.SetLoad(load)
	s.Reset()
	return s
}

func (s *CBRStream) nextBurstSize() int64 { return s.burstSize }
func (s *CBRStream) nextPauseSize() int64 { return s.pauseSize }
func (s *CBRStream) SetLoad(load float64) {
	load = clamp(load, minLoad, maxLoad)
	s.pauseSize = roundToInt64(float64(s.burstSize) * (1.0/load - 1.0))
}

// VideoStream is a token-bucketed Pareto source: each burst period accrues
// Pareto-distributed credit, and the emitted burst is capped at MaxBurst —
// modeling a video encoder whose instantaneous rate is bursty but whose peak
// is shaped by a leaky bucket.
type VideoStream struct {
	streamBase
	shape     float64
	burstPrd  int64
	minBurst  int64
	maxBurst  int64
	tokens    int64
	lastBurst int64
}

// NewVideoStream constructs a token-bucketed video stream with the given
// peak burst size (bytes) and burst period (bytestamp units).
func NewVideoStream(rng *engine.RandSource, load, maxBurst float64, burstPeriod int64, shape float64) *VideoStream {
	s := &VideoStream{
		shape:    clamp(shape, minAlpha, maxAlpha),
		maxBurst: roundToInt64(maxBurst),
		burstPrd: burstPeriod,
	}
	s.rng = rng
	s.sizer = s
	s.SetLoad(load)
	s.Reset()
	return s
}

func (s *VideoStream) nextBurstSize() int64 {
	s.tokens += roundToInt64(s.rng.Pareto(s.shape) * float64(s.minBurst))
	if s.tokens < s.maxBurst {
		s.lastBurst = s.tokens
	} else {
		s.lastBurst = s.maxBurst
	}
	s.tokens -= s.lastBurst
	return s.lastBurst
}

func (s *VideoStream) nextPauseSize() int64 {
	return s.burstPrd - s.lastBurst
}

func (s *VideoStream) SetLoad(load float64) {
	load = clamp(load, minLoad, maxLoad)
	s.minBurst = roundToInt64((1.0 - 1.0/s.shape) * load * float64(s.burstPrd))
}
