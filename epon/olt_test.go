package epon

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gkramer/eponsim/engine"
)

func TestOLTResetBroadcastsOneDiscoveryGatePerLLID(t *testing.T) {
	sim := engine.NewSimulator(nil)
	params := DefaultParams()
	params.NumLLID = 4
	olt := NewOLT(sim, params, nil, testLog())

	ports := make([]*recordingHandler, params.NumLLID)
	for i := range ports {
		ports[i] = &recordingHandler{}
		olt.Ports().SetPort(i, ports[i])
	}

	olt.Reset()

	seen := make(map[int]bool)
	for {
		e := sim.PopNextEvent()
		if e == nil {
			break
		}
		require.Equal(t, engine.MpcpGate, e.Type)
		seen[e.SourceID] = true
		sim.Dispatch(e)
	}
	require.Len(t, seen, params.NumLLID, "every LLID must receive exactly one discovery GATE")
}

func TestOLTDefaultsToLimitedPolicy(t *testing.T) {
	sim := engine.NewSimulator(nil)
	params := DefaultParams()
	olt := NewOLT(sim, params, nil, testLog())
	require.IsType(t, LimitedPolicy{}, olt.policy)
}

func TestOLTReceiveREPORTGrantsViaPolicyAndRepliesThroughProducer(t *testing.T) {
	sim := engine.NewSimulator(nil)
	params := DefaultParams()
	olt := NewOLT(sim, params, FixedPolicy{}, testLog())
	olt.Reset()
	for sim.PopNextEvent() != nil {
	} // drain discovery GATEs, whose consumers are the unwired (nil) ports

	link := &recordingHandler{}

	report := sim.AllocateEvent()
	report.Type = engine.MpcpReport
	report.Consumer = olt
	report.Producer = link
	report.SourceID = 5
	report.ReportLength = 1000
	sim.RegisterEvent(report, 0, link)
	sim.Dispatch(sim.PopNextEvent())

	next := sim.PopNextEvent()
	require.NotNil(t, next)
	require.Equal(t, engine.MpcpGate, next.Type)
	require.Equal(t, 5, next.SourceID)
	require.Same(t, link, next.Consumer, "the GATE must bounce back through the REPORT's own producer")
	require.Equal(t, params.MaxSlot, next.GateLength)
}

func TestOLTCollisionWarningDoesNotBlockProcessing(t *testing.T) {
	sim := engine.NewSimulator(nil)
	params := DefaultParams()
	olt := NewOLT(sim, params, nil, testLog())
	olt.Reset()
	for sim.PopNextEvent() != nil {
	}

	e1 := sim.AllocateEvent()
	e1.Type = engine.PcktArrival
	e1.Consumer = olt
	e1.SizeBytes = 64
	sim.RegisterEvent(e1, 0, nil)
	sim.Dispatch(sim.PopNextEvent())

	e2 := sim.AllocateEvent()
	e2.Type = engine.PcktArrival
	e2.Consumer = olt
	e2.SizeBytes = 64
	sim.RegisterEvent(e2, 0, nil) // same tick: guaranteed collision
	sim.Dispatch(sim.PopNextEvent())

	require.Nil(t, sim.PopNextEvent())
}
