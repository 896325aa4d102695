package netmodel

import "github.com/gkramer/eponsim/engine"

// Link is anything the engine can dispatch an in-flight event to that
// forwards it, after some delay, toward its destination. Every variant
// below is itself an engine.Handler: OnEvent redirects the event's consumer
// and re-registers it, which is how a "link" participates in the dispatch
// loop without the engine needing to know links exist.
type Link interface {
	engine.Handler
}

// LossLessLink redirects every arriving event to a single output port after
// a fixed propagation delay.
type LossLessLink struct {
	Sim   *engine.Simulator
	Delay engine.Time
	Out   engine.Handler
}

func NewLossLessLink(sim *engine.Simulator, delay engine.Time, out engine.Handler) *LossLessLink {
	l := &LossLessLink{Sim: sim, Delay: delay, Out: out}
	sim.Register(l)
	return l
}

func (l *LossLessLink) OnEvent(e *engine.Event) {
	e.Consumer = l.Out
	l.Sim.RegisterEvent(e, l.Delay, l)
}
func (l *LossLessLink) Reset() {}
func (l *LossLessLink) Free()  {}

// LossyLink behaves like LossLessLink but destroys the event with
// probability PLoss instead of forwarding it.
type LossyLink struct {
	Sim   *engine.Simulator
	Delay engine.Time
	PLoss float64
	Out   engine.Handler
	Rng   *engine.RandSource
}

func NewLossyLink(sim *engine.Simulator, delay engine.Time, pLoss float64, out engine.Handler, rng *engine.RandSource) *LossyLink {
	l := &LossyLink{Sim: sim, Delay: delay, PLoss: pLoss, Out: out, Rng: rng}
	sim.Register(l)
	return l
}

func (l *LossyLink) OnEvent(e *engine.Event) {
	if l.PLoss > 0 && l.Rng.UniformReal01() < l.PLoss {
		l.Sim.DestroyEvent(e)
		return
	}
	e.Consumer = l.Out
	l.Sim.RegisterEvent(e, l.Delay, l)
}
func (l *LossyLink) Reset() {}
func (l *LossyLink) Free()  {}

// BiDirLink carries traffic between exactly two endpoints without ever
// reflecting an event back toward the port it arrived from.
type BiDirLink struct {
	Sim   *engine.Simulator
	Delay engine.Time
	Ports *MultiPort
}

func NewBiDirLink(sim *engine.Simulator, delay engine.Time, a, b engine.Handler) *BiDirLink {
	ports := NewMultiPort(2)
	ports.SetPort(0, a)
	ports.SetPort(1, b)
	l := &BiDirLink{Sim: sim, Delay: delay, Ports: ports}
	sim.Register(l)
	return l
}

func (l *BiDirLink) OnEvent(e *engine.Event) {
	if e.Producer == l.Ports.GetPort(0) {
		e.Consumer = l.Ports.GetPort(1)
	} else {
		e.Consumer = l.Ports.GetPort(0)
	}
	l.Sim.RegisterEvent(e, l.Delay, l)
}
func (l *BiDirLink) Reset() {}
func (l *BiDirLink) Free()  {}

// JitterLink adds a caller-supplied jitter on top of its base delay. Jitter
// may be negative; the engine clamps any resulting negative interval to
// zero (B1), so a jitter function drawing from a centered distribution is
// safe to use as-is.
type JitterLink struct {
	Sim    *engine.Simulator
	Delay  engine.Time
	Jitter func() engine.Time
	Out    engine.Handler
}

func NewJitterLink(sim *engine.Simulator, delay engine.Time, jitter func() engine.Time, out engine.Handler) *JitterLink {
	l := &JitterLink{Sim: sim, Delay: delay, Jitter: jitter, Out: out}
	sim.Register(l)
	return l
}

func (l *JitterLink) OnEvent(e *engine.Event) {
	e.Consumer = l.Out
	l.Sim.RegisterEvent(e, l.Delay+l.Jitter(), l)
}
func (l *JitterLink) Reset() {}
func (l *JitterLink) Free()  {}
