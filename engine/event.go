package engine

// EventType tags the reason an Event was scheduled. Dispatch never branches
// on it directly — that is each Handler's job — but the observer (epon
// package) taps every event before dispatch and needs to classify it cheaply.
type EventType int

const (
	PcktArrival EventType = iota
	PcktEnque
	PcktDeque
	PcktDrop
	MpcpGate
	MpcpReport
	TimerGrantReport
	TimerGrantData
	TimerNextPacket
)

func (t EventType) String() string {
	switch t {
	case PcktArrival:
		return "PCKT_ARRIVAL"
	case PcktEnque:
		return "PCKT_ENQUE"
	case PcktDeque:
		return "PCKT_DEQUE"
	case PcktDrop:
		return "PCKT_DROP"
	case MpcpGate:
		return "MPCP_GATE"
	case MpcpReport:
		return "MPCP_REPORT"
	case TimerGrantReport:
		return "TIMER_GRANT_REPORT"
	case TimerGrantData:
		return "TIMER_GRANT_DATA"
	case TimerNextPacket:
		return "TIMER_NEXT_PACKET"
	default:
		return "UNKNOWN"
	}
}

// Handler is implemented by every simulation object the engine can dispatch
// events to. It replaces the original's CRTP/virtual-dispatch base class with
// a capability interface the engine iterates homogeneously.
type Handler interface {
	OnEvent(e *Event)
	Reset()
	Free()
}

// Event is a dispatchable record owned exclusively by the Simulator that
// allocated it. A single concrete struct carries every payload field
// directly rather than a tagged union — collapsing the original's template
// parameterization, which bought nothing but compile-time genericity for a
// fixed set of payload shapes.
type Event struct {
	Type           EventType
	Producer       Handler
	Consumer       Handler
	ActivationTime Time

	// packet meta
	Birth     Time
	SizeBytes int
	SourceID  int

	// GATE meta
	GateTimestamp Time
	GateStart     Time
	GateLength    int

	// REPORT meta
	ReportTimestamp Time
	ReportLength    int

	// detached is true when the event is neither queued, on the immediate
	// stack, nor in flight inside Dispatch. RegisterEvent requires it;
	// DestroyEvent requires it.
	detached bool
	// node is non-nil while the event sits in the ordered AVL queue, so
	// CancelEvent and internal bookkeeping never need to search for it.
	node *avlNode
}

// reset clears every field to its zero value before the event returns to the
// free pool, so a recycled Event never leaks state from its previous use.
func (e *Event) reset() {
	*e = Event{detached: true}
}
