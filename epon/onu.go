package epon

import (
	"github.com/sirupsen/logrus"

	"github.com/gkramer/eponsim/engine"
	"github.com/gkramer/eponsim/netmodel"
)

// onuPacket is one queued frame, pooled by value in a plain slice rather
// than an intrusive list node — the FIFO has no need for O(1) arbitrary
// removal, only append-at-tail and remove-at-head, which a slice gives for
// free.
type onuPacket struct {
	Size     int
	Birth    engine.Time
	SourceID int
}

// ONU is one Optical Network Unit's MPCP grant handler: a bounded FIFO fed
// by PcktArrival events, drained only while a granted slot is open, and a
// REPORT/GATE state machine driven by the OLT's timing. Grounded on
// onu.h's ONU class.
type ONU struct {
	sim    *engine.Simulator
	clock  *netmodel.Clock
	params *Params
	log    *logrus.Entry

	llid int
	out  engine.Handler // OutPort[0]: the link toward the OLT

	fifo       []onuPacket
	queueBytes int

	slotEnd engine.Time
	sending bool
}

// NewONU constructs an ONU identified by llid, registers it with sim, and
// leaves it in the Reset state (empty queue, closed slot). The caller must
// wire Out before any traffic flows.
func NewONU(sim *engine.Simulator, params *Params, llid int, log *logrus.Entry) *ONU {
	o := &ONU{
		sim:    sim,
		clock:  netmodel.NewClock(sim),
		params: params,
		llid:   llid,
		log:    log,
	}
	sim.Register(o)
	return o
}

// SetOut connects the ONU's single upstream port.
func (o *ONU) SetOut(h engine.Handler) { o.out = h }

// QueueLength returns the number of bytes currently buffered.
func (o *ONU) QueueLength() int { return o.queueBytes }

func (o *ONU) enqueue(p onuPacket) {
	o.fifo = append(o.fifo, p)
	o.queueBytes += p.Size
}

func (o *ONU) dequeue() onuPacket {
	p := o.fifo[0]
	o.fifo = o.fifo[1:]
	o.queueBytes -= p.Size
	return p
}

// receiveDataPacket enqueues an arriving frame if the buffer has room, else
// drops it; either way it retypes e in place and re-registers it as an
// immediate event with no consumer so the observer sees the outcome before
// the event is recycled.
func (o *ONU) receiveDataPacket(e *engine.Event) {
	if o.queueBytes+e.SizeBytes <= o.params.BufferSize {
		o.enqueue(onuPacket{Size: e.SizeBytes, Birth: e.Birth, SourceID: e.SourceID})
		e.Type = engine.PcktEnque
	} else {
		e.Type = engine.PcktDrop
	}
	e.Consumer = nil
	o.sim.RegisterEvent(e, 0, o)
}

// processGATE resyncs the local clock to the GATE's timestamp, rejects a
// grant that starts too soon to act on, and otherwise schedules the two
// timers the grant implies: when to send the REPORT it carves out of the
// slot, and when the data portion of the slot opens.
func (o *ONU) processGATE(e *engine.Event) {
	length := e.GateLength

	o.clock.SetLocalTime(e.GateTimestamp)

	if e.GateStart < o.clock.LocalTime()+o.params.ONUHWProcessDelay {
		o.log.WithFields(logrus.Fields{"llid": o.llid}).Warn("late grant")
		return
	}

	if length >= o.params.Overhead(o.params.MPCPPacketSize) {
		reportLen := length - o.params.Overhead(o.params.MPCPPacketSize)
		ptr := o.sim.AllocateEvent()
		ptr.Type = engine.TimerGrantReport
		o.clock.RegisterEventAbs(ptr, e.GateStart+o.params.PonTime(reportLen), o)
	} else {
		o.log.WithFields(logrus.Fields{"llid": o.llid}).Warn("grant too small for REPORT")
	}

	if length >= o.params.Overhead(o.params.MinPacketSize) {
		ptr := o.sim.AllocateEvent()
		ptr.Type = engine.TimerGrantData
		ptr.GateLength = length
		o.clock.RegisterEventAbs(ptr, e.GateStart, o)
	}

	o.sim.DestroyEvent(e)
}

// startSendingPacket begins transmission of the head-of-queue frame if the
// ONU is idle, the queue is non-empty, and the frame fits before the slot
// closes.
func (o *ONU) startSendingPacket() {
	if o.sending || len(o.fifo) == 0 {
		return
	}
	head := o.fifo[0]
	if o.clock.LocalTime()+o.params.PonPcktTime(head.Size) > o.slotEnd {
		return
	}
	o.sending = true
	pkt := o.dequeue()

	ptr := o.sim.AllocateEvent()
	ptr.Consumer = o
	ptr.Type = engine.PcktDeque
	ptr.SizeBytes = pkt.Size
	ptr.Birth = pkt.Birth
	ptr.SourceID = pkt.SourceID
	o.clock.RegisterEvent(ptr, o.params.PonPcktTime(pkt.Size), o)
}

// finishSendingPacket turns the completed transmission timer into the data
// frame's PcktArrival at the OLT, then tries to start the next one.
func (o *ONU) finishSendingPacket(e *engine.Event) {
	e.Type = engine.PcktArrival
	e.Consumer = o.out
	o.sim.RegisterEvent(e, 0, o)

	o.sending = false
	o.startSendingPacket()
}

// openSlot is the TIMER_GRANT_DATA handler: it opens the data portion of
// the granted slot and attempts to start transmission immediately.
func (o *ONU) openSlot(e *engine.Event) {
	o.slotEnd = o.clock.LocalTime() + o.params.PonTime(e.GateLength)
	o.startSendingPacket()
}

// sendREPORT is the TIMER_GRANT_REPORT handler: it reuses the timer event
// itself as the outgoing REPORT, stamping the LLID into SourceID so the OLT
// can attribute the reply and drive LLID-keyed grant policies.
func (o *ONU) sendREPORT(e *engine.Event) {
	e.Consumer = o.out
	e.Type = engine.MpcpReport
	e.SourceID = o.llid
	e.ReportTimestamp = o.clock.LocalTime() + o.params.PonPcktTime(o.params.MPCPPacketSize)
	e.ReportLength = o.queueBytes + len(o.fifo)*o.params.PacketOverhead

	o.clock.RegisterEvent(e, o.params.PonPcktTime(o.params.MPCPPacketSize), o)
}

// OnEvent dispatches e to the handler matching its type.
func (o *ONU) OnEvent(e *engine.Event) {
	switch e.Type {
	case engine.MpcpGate:
		o.processGATE(e)
	case engine.TimerGrantReport:
		o.sendREPORT(e)
	case engine.TimerGrantData:
		o.openSlot(e)
	case engine.PcktArrival:
		o.receiveDataPacket(e)
	case engine.PcktDeque:
		o.finishSendingPacket(e)
	default:
		o.log.WithFields(logrus.Fields{"llid": o.llid, "event_type": e.Type.String()}).Warn("unhandled event in ONU")
	}
}

// Reset clears the queue and closes the slot.
func (o *ONU) Reset() {
	o.sending = false
	o.slotEnd = 0
	o.queueBytes = 0
	o.fifo = o.fifo[:0]
}

// Free releases the ONU's resources.
func (o *ONU) Free() {
	o.Reset()
}
