package epon

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/gkramer/eponsim/engine"
)

// SampleStat accumulates unweighted float64 samples and reports running
// mean/max/quantile over them via gonum's stat package — the Go
// replacement for stats.h's Distrib accumulator.
type SampleStat struct {
	samples []float64
}

// Add records one sample.
func (s *SampleStat) Add(x float64) { s.samples = append(s.samples, x) }

// Count returns the number of samples recorded.
func (s *SampleStat) Count() int { return len(s.samples) }

// Mean returns the sample mean, or 0 if no samples were recorded.
func (s *SampleStat) Mean() float64 {
	if len(s.samples) == 0 {
		return 0
	}
	return stat.Mean(s.samples, nil)
}

// Max returns the largest sample recorded, or 0 if none were.
func (s *SampleStat) Max() float64 {
	var m float64
	for _, v := range s.samples {
		if v > m {
			m = v
		}
	}
	return m
}

// Quantile returns the p-quantile (0 <= p <= 1) of the recorded samples
// under gonum's empirical interpolation.
func (s *SampleStat) Quantile(p float64) float64 {
	if len(s.samples) == 0 {
		return 0
	}
	cp := append([]float64(nil), s.samples...)
	sort.Float64s(cp)
	return stat.Quantile(p, stat.Empirical, cp, nil)
}

// Reset discards every recorded sample.
func (s *SampleStat) Reset() { s.samples = s.samples[:0] }

// WeightedStat accumulates a time-weighted running average — used for the
// ONU queue-length sample, which must be weighted by how long it held that
// value rather than sampled once per change, to report a precise
// average-in-time.
type WeightedStat struct {
	sumWeighted float64
	totalWeight float64
}

// Sample records value held for the given weight (elapsed time).
func (w *WeightedStat) Sample(value, weight float64) {
	w.sumWeighted += value * weight
	w.totalWeight += weight
}

// Avg returns the time-weighted average, or 0 if no weight was recorded.
func (w *WeightedStat) Avg() float64 {
	if w.totalWeight == 0 {
		return 0
	}
	return w.sumWeighted / w.totalWeight
}

// Reset discards accumulated weight.
func (w *WeightedStat) Reset() { *w = WeightedStat{} }

// Result holds one load point's measurements, in the units PER_PON prints
// them in in test_001.h.
type Result struct {
	TargetLoad float64
	RunTime    engine.Time

	RecvPckt, SentPckt, DropPckt int64
	RecvByte, SentByte, DropByte int64
	SchdByte                     int64
	SchdPckt                     int64

	AvgDelayUs   float64
	MaxDelayUs   float64
	AvgQueueByte float64

	AvgCycleUs float64
	MaxCycleUs float64
	Cycles     int64

	// OnuLoad, OfferedLoad and CarriedLoad are fractions of line capacity,
	// not byte counts — grounded on test_001.h's PER_PON(ONU_LOAD, ...)/
	// PER_PON(OFFERED_LOAD, ...)/PER_PON(CARRIED_LOAD, ...) calls, which
	// divide a byte count through by the run time to get a utilization.
	OnuLoad     float64
	OfferedLoad float64
	CarriedLoad float64
}

// Observer taps every event the Simulator pops, before dispatch, and
// accumulates the statistics one load point needs — grounded on
// test_001.h's Monitor function. It is stateful per load point; Driver
// calls Reset between loads.
type Observer struct {
	onus []*ONU

	delay SampleStat
	queue WeightedStat
	cycle SampleStat

	recvPckt, sentPckt, dropPckt int64
	recvByte, sentByte, dropByte int64
	schdByte                     int64
	schdPckt                     int64

	lastQueueLength int64
	lastQueueChange engine.Time
	lastCycleStart  engine.Time

	now func() engine.Time
}

// NewObserver constructs an Observer over the given ONUs, whose
// QueueLength feeds the very first weighted queue sample.
func NewObserver(onus []*ONU, now func() engine.Time) *Observer {
	return &Observer{onus: onus, now: now}
}

// referenceLLID is the single LLID whose GATE arrivals this Observer
// samples for cycle length. Any LLID works as the reference since
// discovery and every subsequent REPORT/GATE round visits all LLIDs in the
// same order, spaced by the same schedule — sampling one is equivalent to
// sampling the full round, the same simplification test_001.h's Monitor
// makes by checking a single fixed object ID.
const referenceLLID = 0

// OnEvent is installed as the Simulator's Observer hook.
func (o *Observer) OnEvent(e *engine.Event) {
	switch {
	case e.Type == engine.PcktArrival:
		if _, ok := e.Consumer.(*ONU); ok {
			o.recvPckt++
			o.recvByte += int64(e.SizeBytes)
		} else if _, ok := e.Producer.(*ONU); ok {
			delayUs := float64(o.now()-e.Birth) / 1000
			o.delay.Add(delayUs)
			o.sentPckt++
			o.sentByte += int64(e.SizeBytes)
		}

	case e.Type == engine.PcktDrop:
		o.dropPckt++
		o.dropByte += int64(e.SizeBytes)

	case e.Type == engine.PcktEnque || e.Type == engine.PcktDeque:
		o.sampleQueueLength(e)

	case e.Type == engine.MpcpGate && e.SourceID == referenceLLID:
		if o.lastCycleStart != 0 {
			o.cycle.Add(float64(e.GateStart-o.lastCycleStart) / 1000)
		}
		o.lastCycleStart = e.GateStart
		o.schdByte += int64(e.GateLength)
		o.schdPckt++
	}
}

func (o *Observer) sampleQueueLength(e *engine.Event) {
	if o.lastQueueChange == 0 {
		var total int64
		for _, onu := range o.onus {
			total += int64(onu.QueueLength())
		}
		o.lastQueueLength = total
	} else {
		weight := float64(o.now() - o.lastQueueChange)
		o.queue.Sample(float64(o.lastQueueLength), weight)

		if e.Type == engine.PcktEnque {
			o.lastQueueLength += int64(e.SizeBytes)
		} else {
			o.lastQueueLength -= int64(e.SizeBytes)
		}
	}
	o.lastQueueChange = o.now()
}

// Reset clears every counter and statistic, ready for the next load point.
func (o *Observer) Reset() {
	o.delay.Reset()
	o.queue.Reset()
	o.cycle.Reset()
	o.recvPckt, o.sentPckt, o.dropPckt = 0, 0, 0
	o.recvByte, o.sentByte, o.dropByte = 0, 0, 0
	o.schdByte = 0
	o.schdPckt = 0
	o.lastQueueLength = 0
	o.lastQueueChange = 0
	o.lastCycleStart = 0
}

// SentPackets returns the running count of packets that have departed an
// ONU upstream — the Driver's per-load stop condition.
func (o *Observer) SentPackets() int64 { return o.sentPckt }

// Result snapshots the accumulated statistics for the given target load
// and elapsed run time, in the units PER_PON prints them in. uniByteTime and
// ponByteTime are the ONU-facing and PON-facing per-byte transmission times
// the derived load fractions are scaled by.
func (o *Observer) Result(targetLoad float64, runTime engine.Time, numLLID int, uniByteTime, ponByteTime engine.Time) Result {
	return Result{
		TargetLoad: targetLoad,
		RunTime:    runTime,

		RecvPckt: o.recvPckt, SentPckt: o.sentPckt, DropPckt: o.dropPckt,
		RecvByte: o.recvByte, SentByte: o.sentByte, DropByte: o.dropByte,
		SchdByte: o.schdByte, SchdPckt: o.schdPckt,

		AvgDelayUs:   o.delay.Mean(),
		MaxDelayUs:   o.delay.Max(),
		AvgQueueByte: o.queue.Avg() / float64(numLLID),

		AvgCycleUs: o.cycle.Mean(),
		MaxCycleUs: o.cycle.Max(),
		Cycles:     int64(o.cycle.Count()),

		OnuLoad:     loadFraction(o.recvByte, uniByteTime, runTime) / float64(numLLID),
		OfferedLoad: loadFraction(o.recvByte, ponByteTime, runTime),
		CarriedLoad: loadFraction(o.sentByte, ponByteTime, runTime),
	}
}

// loadFraction returns bytes·byteTime/runTime, the fraction of runTime spent
// transmitting bytes at one byte taking byteTime — 0 if runTime is zero
// rather than a division by zero.
func loadFraction(bytes int64, byteTime, runTime engine.Time) float64 {
	if runTime == 0 {
		return 0
	}
	return float64(bytes) * float64(byteTime) / float64(runTime)
}
