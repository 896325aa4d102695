package epon

import (
	"github.com/sirupsen/logrus"

	"github.com/gkramer/eponsim/engine"
	"github.com/gkramer/eponsim/traffic"
)

// Source turns a traffic.Aggregator's byte-interval packet sequence into
// timed PcktArrival events toward one ONU, self-clocking via a
// TimerNextPacket event the way pktsrc.h's PacketSource does with its
// SClock member.
type Source struct {
	sim      *engine.Simulator
	agg      *traffic.Aggregator
	byteTime engine.Time // ns per byte, e.g. UNI_BYTE_TIME
	sourceID int
	log      *logrus.Entry

	out   engine.Handler
	timer *engine.Event
}

// NewSource constructs a Source drawing from agg, registers it, and arms
// its first self-clock timer.
func NewSource(sim *engine.Simulator, agg *traffic.Aggregator, byteTime engine.Time, sourceID int, log *logrus.Entry) *Source {
	s := &Source{sim: sim, agg: agg, byteTime: byteTime, sourceID: sourceID, log: log}
	sim.Register(s)
	s.setNextPacketTimer()
	return s
}

// SetOut connects the Source's single downstream port (the ONU).
func (s *Source) SetOut(h engine.Handler) { s.out = h }

func (s *Source) setNextPacketTimer() {
	pkt := s.agg.NextPacket()
	interval := engine.Time(pkt.Interval) * s.byteTime

	s.timer = s.sim.AllocateEvent()
	s.timer.Consumer = s
	s.timer.Type = engine.TimerNextPacket
	s.timer.SizeBytes = pkt.Size
	s.timer.SourceID = s.sourceID
	s.timer.Birth = s.sim.CurrentTime() + interval

	s.sim.RegisterEvent(s.timer, interval, s)
}

// outputPacket fires only for the timer this Source itself armed; a Source
// registers exactly one self-clock event at a time, so identity is enough
// to guard against a stale timer surviving a SetLoad cancellation.
func (s *Source) outputPacket(e *engine.Event) {
	if e != s.timer {
		return
	}
	e.Type = engine.PcktArrival
	e.Consumer = s.out
	s.sim.RegisterEvent(e, 0, s)

	s.setNextPacketTimer()
}

// SetLoad cancels the pending timer, rebalances and resets every stream in
// the aggregator at the new load, and arms a fresh timer.
func (s *Source) SetLoad(load float64) {
	s.sim.CancelEvent(s.timer)
	s.agg.SetLoadReset(load)
	s.setNextPacketTimer()
}

// OnEvent dispatches e to the handler matching its type.
func (s *Source) OnEvent(e *engine.Event) {
	switch e.Type {
	case engine.TimerNextPacket:
		s.outputPacket(e)
	default:
		s.log.WithFields(logrus.Fields{"source_id": s.sourceID, "event_type": e.Type.String()}).Warn("unhandled event in Source")
	}
}

// Reset rewinds the aggregator's phase (without changing load) and rearms
// the self-clock timer.
func (s *Source) Reset() {
	s.agg.Reset()
	s.setNextPacketTimer()
}

// Free is a no-op; the aggregator owns no external resources.
func (s *Source) Free() {}
