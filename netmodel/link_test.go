package netmodel

import (
	"testing"

	"github.com/gkramer/eponsim/engine"
	"github.com/stretchr/testify/require"
)

type sink struct {
	got []engine.Time
}

func (s *sink) OnEvent(e *engine.Event) { s.got = append(s.got, e.ActivationTime) }
func (s *sink) Reset()                  {}
func (s *sink) Free()                   {}

func TestLossLessLinkAppliesDelay(t *testing.T) {
	sim := engine.NewSimulator(nil)
	dst := &sink{}
	link := NewLossLessLink(sim, 500, dst)

	e := sim.AllocateEvent()
	e.Consumer = link
	sim.RegisterEvent(e, 0, nil)

	popped := sim.PopNextEvent()
	sim.Dispatch(popped)

	next := sim.PopNextEvent()
	require.NotNil(t, next)
	require.Equal(t, engine.Time(500), next.ActivationTime)
	require.Same(t, dst, next.Consumer)
}

func TestBiDirLinkNeverLoopsBack(t *testing.T) {
	sim := engine.NewSimulator(nil)
	a := &sink{}
	b := &sink{}
	link := NewBiDirLink(sim, 10, a, b)

	e := sim.AllocateEvent()
	e.Producer = a
	e.Consumer = link
	sim.RegisterEvent(e, 0, a)
	sim.Dispatch(sim.PopNextEvent())

	next := sim.PopNextEvent()
	require.Same(t, b, next.Consumer)
}

func TestLossyLinkDropsAtP1(t *testing.T) {
	sim := engine.NewSimulator(nil)
	engine.SeedGlobal(3)
	rng := engine.NewRandSource("lossy-test")
	dst := &sink{}
	link := NewLossyLink(sim, 10, 1.0, dst, rng)

	e := sim.AllocateEvent()
	e.Consumer = link
	sim.RegisterEvent(e, 0, nil)
	sim.Dispatch(sim.PopNextEvent())

	require.Nil(t, sim.PopNextEvent(), "event with p_loss=1 must be dropped, not forwarded")
}
