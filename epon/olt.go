package epon

import (
	"github.com/sirupsen/logrus"

	"github.com/gkramer/eponsim/engine"
	"github.com/gkramer/eponsim/netmodel"
)

// OLT is the Optical Line Terminal: the single arbiter of upstream
// transmission for every ONU on the PON. It discovers LLIDs at startup,
// issues a GATE for each REPORT it receives, and sizes that GATE through a
// pluggable GrantPolicy. Grounded on olt.h's OLT class.
type OLT struct {
	sim    *engine.Simulator
	clock  *netmodel.Clock
	params *Params
	log    *logrus.Entry

	policy      GrantPolicy
	policyState *PolicyState

	ports *netmodel.MultiPort // per-LLID link toward each ONU

	scheduleEnd       engine.Time
	lastPacketArrival engine.Time
	maxSlot           int
}

// NewOLT constructs an OLT with params.NumLLID unconnected ports and the
// given grant policy (LimitedPolicy if policy is nil, matching olt.h's only
// non-commented-out discipline). Discovery does not run until Reset is
// called — deliberately deferred past construction, since the caller wires
// Ports() after NewOLT returns and discovery needs every port connected to
// reach its ONU.
func NewOLT(sim *engine.Simulator, params *Params, policy GrantPolicy, log *logrus.Entry) *OLT {
	if policy == nil {
		policy = LimitedPolicy{}
	}
	o := &OLT{
		sim:         sim,
		clock:       netmodel.NewClock(sim),
		params:      params,
		log:         log,
		policy:      policy,
		policyState: NewPolicyState(params.NumLLID),
		ports:       netmodel.NewMultiPort(params.NumLLID),
		maxSlot:     params.MaxSlot,
	}
	sim.Register(o)
	return o
}

// Ports returns the per-LLID MultiPort so the caller can wire each LLID's
// link (expected to be a netmodel.BiDirLink: the GATE reply path below
// relies on e.Producer still being that shared link object, not a one-way
// forwarding link, so the bounce back to the originating ONU resolves
// correctly).
func (o *OLT) Ports() *netmodel.MultiPort { return o.ports }

// SetMaxSlot overrides the maximum granted slot length.
func (o *OLT) SetMaxSlot(slot int) { o.maxSlot = slot }

func (o *OLT) checkPacketCollision(pcktSize int) {
	if o.lastPacketArrival+o.params.PonPcktTime(pcktSize) > o.clock.LocalTime() {
		o.log.Warn("OLT detected collided packets")
	}
	o.lastPacketArrival = o.clock.LocalTime()
}

func (o *OLT) receiveDataPacket(e *engine.Event) {
	o.checkPacketCollision(e.SizeBytes)
	o.sim.DestroyEvent(e)
}

// receiveREPORTPacket measures RTT against the REPORT's own timestamp, asks
// the grant policy how large the next GATE should be, and schedules it
// back toward the reporting ONU via the link that delivered the REPORT.
func (o *OLT) receiveREPORTPacket(e *engine.Event) {
	o.checkPacketCollision(o.params.MPCPPacketSize)

	rtt := o.clock.LocalTime() - e.ReportTimestamp
	llid := e.SourceID

	ptr := o.sim.AllocateEvent()
	ptr.Type = engine.MpcpGate
	ptr.Consumer = e.Producer
	ptr.SourceID = llid
	ptr.GateTimestamp = o.clock.LocalTime() + o.params.PonPcktTime(o.params.MPCPPacketSize) + o.params.OLTHWProcessDelay
	ptr.GateStart = engine.Max(ptr.GateTimestamp+o.params.ONUHWProcessDelay, o.scheduleEnd-rtt)

	params := *o.params
	params.MaxSlot = o.maxSlot
	ptr.GateLength = o.policy.GrantLength(llid, ReportInfo{Length: e.ReportLength}, &params, o.policyState)

	o.clock.RegisterEventAbs(ptr, ptr.GateTimestamp, o)
	o.scheduleEnd = ptr.GateStart + rtt + o.params.PonTime(ptr.GateLength) + o.params.GuardBandTime

	o.sim.DestroyEvent(e)
}

// simplifiedDiscovery sends one unicast discovery GATE per LLID, each
// granting only enough space for a REPORT, spaced far enough apart on the
// wire that two ONUs never overlap on their first transmission.
func (o *OLT) simplifiedDiscovery() {
	timestamp := o.clock.LocalTime()

	for llid := 0; llid < o.params.NumLLID; llid++ {
		ptr := o.sim.AllocateEvent()
		ptr.Type = engine.MpcpGate
		ptr.Consumer = o.ports.GetPort(llid)
		ptr.SourceID = llid
		ptr.GateTimestamp = timestamp
		ptr.GateLength = o.params.Overhead(o.params.MPCPPacketSize)
		ptr.GateStart = engine.Max(ptr.GateTimestamp+o.params.ONUHWProcessDelay, o.scheduleEnd)

		o.clock.RegisterEventAbs(ptr, ptr.GateTimestamp, o)

		o.scheduleEnd = ptr.GateStart + 2*engine.Time(o.params.PONMaxLinkDistance)*o.params.FiberDelay + o.params.GuardBandTime
		timestamp += o.params.PonPcktTime(o.params.MPCPPacketSize) + o.params.OLTHWProcessDelay
	}
}

// OnEvent dispatches e to the handler matching its type.
func (o *OLT) OnEvent(e *engine.Event) {
	switch e.Type {
	case engine.MpcpReport:
		o.receiveREPORTPacket(e)
	case engine.PcktArrival:
		o.receiveDataPacket(e)
	default:
		o.log.WithFields(logrus.Fields{"event_type": e.Type.String()}).Warn("unhandled event in OLT")
	}
}

// Reset rewinds the schedule to the current local time and re-runs
// discovery across every connected LLID.
func (o *OLT) Reset() {
	o.scheduleEnd = o.clock.LocalTime()
	o.lastPacketArrival = o.clock.LocalTime()
	o.simplifiedDiscovery()
}

// Free releases the OLT's resources; olt.h's Free is likewise a no-op.
func (o *OLT) Free() {}
