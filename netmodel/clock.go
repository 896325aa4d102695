package netmodel

import "github.com/gkramer/eponsim/engine"

// DriftPeriod is the tick window over which DriftingClock's drift_ppm is
// expressed (local ticks per DriftPeriod global ticks).
const DriftPeriod engine.Time = 1_000_000

// Clock is a local clock synchronized with the global clock (zero drift)
// but possibly offset from it. RegisterEvent/RegisterEventAbs schedule
// through sim using local-time semantics while the engine itself only ever
// sees global time.
type Clock struct {
	sim    *engine.Simulator
	offset engine.Time
}

// NewClock constructs a Clock with zero offset (local time equals global
// time until SetLocalTime is called).
func NewClock(sim *engine.Simulator) *Clock {
	return &Clock{sim: sim}
}

// LocalTime returns the clock's current local time.
func (c *Clock) LocalTime() engine.Time {
	return c.sim.CurrentTime() + c.offset
}

// SetLocalTime recomputes the offset so LocalTime() immediately reads t.
func (c *Clock) SetLocalTime(t engine.Time) {
	c.offset = t - c.sim.CurrentTime()
}

// RegisterEvent schedules e, under producer, to fire after a local-time
// interval.
func (c *Clock) RegisterEvent(e *engine.Event, interval engine.Time, producer engine.Handler) {
	c.sim.RegisterEvent(e, interval, producer)
}

// RegisterEventAbs schedules e to fire at an absolute local time.
func (c *Clock) RegisterEventAbs(e *engine.Event, localTime engine.Time, producer engine.Handler) {
	c.RegisterEvent(e, localTime-c.LocalTime(), producer)
}

// DriftingClock is a local clock with both an offset and a drift relative to
// the global clock, expressed in local ticks per DriftPeriod global ticks —
// ported directly from clock.h's CClock.
type DriftingClock struct {
	sim        *engine.Simulator
	offset     engine.Time
	driftTicks engine.Time // local ticks per DriftPeriod global ticks
}

// NewDriftingClock constructs a DriftingClock with the given drift in parts
// per million (ppm) relative to the global clock.
func NewDriftingClock(sim *engine.Simulator, driftPPM int64) *DriftingClock {
	return &DriftingClock{sim: sim, driftTicks: DriftPeriod + engine.Time(driftPPM)}
}

func (c *DriftingClock) globalToLocal(g engine.Time) engine.Time {
	return (g * c.driftTicks) / DriftPeriod
}

func (c *DriftingClock) localToGlobal(l engine.Time) engine.Time {
	return (l * DriftPeriod) / c.driftTicks
}

// LocalTime returns the clock's current local time.
func (c *DriftingClock) LocalTime() engine.Time {
	return c.globalToLocal(c.sim.CurrentTime()) + c.offset
}

// SetLocalTime recomputes the offset so LocalTime() immediately reads t.
func (c *DriftingClock) SetLocalTime(t engine.Time) {
	c.offset = t - c.globalToLocal(c.sim.CurrentTime())
}

// RegisterEvent interprets interval as a local-time duration, converts it to
// a global-time duration, and schedules through the underlying simulator.
func (c *DriftingClock) RegisterEvent(e *engine.Event, interval engine.Time, producer engine.Handler) {
	c.sim.RegisterEvent(e, c.localToGlobal(interval), producer)
}

// RegisterEventAbs schedules e to fire at an absolute local time.
func (c *DriftingClock) RegisterEventAbs(e *engine.Event, localTime engine.Time, producer engine.Handler) {
	c.RegisterEvent(e, localTime-c.LocalTime(), producer)
}
