package epon

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gkramer/eponsim/engine"
	"github.com/gkramer/eponsim/traffic"
)

func newTestAggregator(rng *engine.RandSource) *traffic.Aggregator {
	sizeRng := engine.NewRandSource("source-test-sizes")
	sizes, freq := traffic.DefaultEthernetSizes()
	sizeDist := traffic.NewSizeDistribution(sizeRng, sizes, freq)
	agg := traffic.NewAggregator(0, 20, sizeDist.Sample)
	agg.AddStream(traffic.NewCBRStream(rng, 0.2, 1000))
	return agg
}

func TestSourceEmitsOnePacketArrivalPerTimer(t *testing.T) {
	sim := engine.NewSimulator(nil)
	engine.SeedGlobal(1)
	rng := engine.NewRandSource("source-test")
	agg := newTestAggregator(rng)

	src := NewSource(sim, agg, 8, 0, testLog())
	out := &recordingHandler{}
	src.SetOut(out)

	for i := 0; i < 5; i++ {
		e := sim.PopNextEvent()
		require.NotNil(t, e)
		sim.Dispatch(e)
	}

	require.NotEmpty(t, out.events)
	for _, e := range out.events {
		require.Equal(t, engine.PcktArrival, e.Type)
	}
}

func TestSourceSetLoadCancelsPendingTimer(t *testing.T) {
	sim := engine.NewSimulator(nil)
	engine.SeedGlobal(2)
	rng := engine.NewRandSource("source-test-load")
	agg := newTestAggregator(rng)

	src := NewSource(sim, agg, 8, 0, testLog())
	staleTimer := src.timer

	src.SetLoad(0.5)

	require.NotSame(t, staleTimer, src.timer, "SetLoad must arm a fresh timer rather than reuse the cancelled one")
	require.Nil(t, staleTimer.Consumer, "the cancelled timer must not be dispatched")
}

func TestSourceResetRearmsWithoutChangingLoad(t *testing.T) {
	sim := engine.NewSimulator(nil)
	engine.SeedGlobal(3)
	rng := engine.NewRandSource("source-test-reset")
	agg := newTestAggregator(rng)

	src := NewSource(sim, agg, 8, 0, testLog())
	staleTimer := src.timer

	src.Reset()

	require.NotSame(t, staleTimer, src.timer)
}
