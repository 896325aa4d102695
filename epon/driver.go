package epon

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/gkramer/eponsim/config"
	"github.com/gkramer/eponsim/engine"
	"github.com/gkramer/eponsim/netmodel"
	"github.com/gkramer/eponsim/traffic"
)

// Driver owns one fully wired simulation (one OLT, NumONU ONUs, one
// BiDirLink and one Source per ONU) and runs the warm-up plus per-load
// measurement sweep, grounded on test_001.h's InitializeEPON/Execute/
// DestroyEPON.
type Driver struct {
	scn    *config.Scenario
	params *Params
	log    *logrus.Entry

	sim      *engine.Simulator
	olt      *OLT
	onus     []*ONU
	sources  []*Source
	links    []*netmodel.BiDirLink
	observer *Observer
}

func paramsFromScenario(scn *config.Scenario) *Params {
	return &Params{
		NumLLID:            scn.NumLLID,
		BufferSize:         scn.BufferSize,
		MaxSlot:            scn.MaxSlot,
		OLTHWProcessDelay:  engine.Time(scn.OLTHWProcessDelay),
		ONUHWProcessDelay:  engine.Time(scn.ONUHWProcessDelay),
		GuardBandTime:      engine.Time(scn.GuardBandTime),
		PONMaxLinkDistance: scn.PONMaxLinkDistance,
		FiberDelay:         engine.Time(scn.FiberDelay),
		PONByteTime:        engine.Time(scn.PONByteTime),
		UNIByteTime:        engine.Time(scn.UNIByteTime),
		PacketOverhead:     scn.PacketOverhead,
		MinPacketSize:      scn.MinPacketSize,
		MaxPacketSize:      scn.MaxPacketSize,
		MPCPPacketSize:     scn.MPCPPacketSize,
	}
}

func policyFromName(name string) GrantPolicy {
	switch name {
	case "fixed":
		return FixedPolicy{}
	case "gated":
		return GatedPolicy{}
	case "constant_credit":
		return ConstantCreditPolicy{}
	case "linear_credit":
		return LinearCreditPolicy{}
	case "elastic":
		return ElasticPolicy{}
	default:
		return LimitedPolicy{}
	}
}

// buildAggregator pools BurstPoolSize independent ON/OFF streams of the
// configured variant, each carrying an equal share of load, behind a
// shared packet-size histogram — grounded on conf_001.h's SRC_CTOR macro
// (PacketGeneratorDist parameterized by one of CreateParetoStream/
// CreateExponStream/CreateCBRStream/CreateVideoStream).
func buildAggregator(rng *engine.RandSource, scn *config.Scenario, sourceID int, sizeDist *traffic.SizeDistribution) *traffic.Aggregator {
	agg := traffic.NewAggregator(sourceID, int64(scn.PacketOverhead), sizeDist.Sample)

	perStreamLoad := scn.LLIDLoad / float64(scn.BurstPoolSize)
	for i := 0; i < scn.BurstPoolSize; i++ {
		var s traffic.Stream
		switch scn.TrafficType {
		case "exponential":
			s = traffic.NewExponStream(rng, perStreamLoad, scn.MeanBurstSize)
		case "cbr":
			s = traffic.NewCBRStream(rng, perStreamLoad, scn.MeanBurstSize)
		case "video":
			s = traffic.NewVideoStream(rng, perStreamLoad, scn.MeanBurstSize, 10000, 1.4)
		default:
			s = traffic.NewParetoStream(rng, perStreamLoad, scn.MeanBurstSize, 1.4)
		}
		agg.AddStream(s)
	}
	return agg
}

// NewDriver constructs the full topology: one OLT, NumONU ONUs each fed by
// its own Source, connected through a BiDirLink whose propagation delay is
// drawn uniformly from [PONMinLinkDistance, PONMaxLinkDistance] meters.
func NewDriver(scn *config.Scenario, log *logrus.Entry) *Driver {
	sim := engine.NewSimulator(log)
	engine.SeedGlobal(scn.Seed)

	params := paramsFromScenario(scn)
	policy := policyFromName(scn.GrantPolicy)

	olt := NewOLT(sim, params, policy, log)

	topoRng := engine.NewRandSource("topology")

	d := &Driver{scn: scn, params: params, log: log, sim: sim, olt: olt}

	for n := 0; n < scn.NumONU; n++ {
		onu := NewONU(sim, params, n, log)

		sizeRng := engine.NewRandSource(fmt.Sprintf("sizes-%d", n))
		sizes, freq := traffic.DefaultEthernetSizes()
		sizeDist := traffic.NewSizeDistribution(sizeRng, sizes, freq)

		streamRng := engine.NewRandSource(fmt.Sprintf("streams-%d", n))
		agg := buildAggregator(streamRng, scn, n, sizeDist)
		src := NewSource(sim, agg, engine.Time(scn.UNIByteTime), n, log)
		src.SetOut(onu)

		distance := topoRng.UniformInt(scn.PONMinLinkDistance, scn.PONMaxLinkDistance)
		delay := engine.Time(distance) * params.FiberDelay
		link := netmodel.NewBiDirLink(sim, delay, onu, olt)

		olt.Ports().SetPort(n, link)
		onu.SetOut(link)

		d.onus = append(d.onus, onu)
		d.sources = append(d.sources, src)
		d.links = append(d.links, link)
	}

	d.observer = NewObserver(d.onus, sim.CurrentTime)
	sim.Observer = d.observer.OnEvent

	return d
}

// Run drives the warm-up period followed by the NumTest-point load sweep,
// returning one Result per load point in ascending load order.
func (d *Driver) Run() []Result {
	d.sim.GlobalReset()

	d.log.Info("warming up")
	d.sim.Run(func(e *engine.Event) bool {
		return d.sim.CurrentTime() >= engine.Time(d.scn.WarmupTime)
	})
	d.log.Info("warm-up complete")

	results := make([]Result, 0, d.scn.NumTest)
	loadStep := (d.scn.MaxLoad - d.scn.MinLoad) / float64(maxInt(d.scn.NumTest-1, 1))

	for t := 0; t < d.scn.NumTest; t++ {
		targetLoad := d.scn.MinLoad + float64(t)*loadStep
		d.log.WithFields(logrus.Fields{"load": targetLoad}).Info("starting load point")

		for _, src := range d.sources {
			src.SetLoad(targetLoad)
		}
		d.observer.Reset()

		start := d.sim.CurrentTime()
		limit := int64(d.scn.PacketLimit)
		d.sim.Run(func(e *engine.Event) bool {
			return d.observer.SentPackets() >= limit
		})
		runTime := d.sim.CurrentTime() - start

		results = append(results, d.observer.Result(targetLoad, runTime, d.scn.NumLLID, d.params.UNIByteTime, d.params.PONByteTime))
	}

	return results
}

// Close tears down every registered simulation object.
func (d *Driver) Close() {
	d.sim.GlobalFree()
}
