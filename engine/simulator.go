package engine

import (
	"github.com/sirupsen/logrus"
)

// Simulator is the explicit value threading engine state through every
// simulation object's construction, replacing the original's global static
// event queue and stream pool (per design note: global statics become one
// value passed to constructors, observer hooks attach to that value).
type Simulator struct {
	current Time

	tree      avlTree
	immediate []*Event // zero-interval events, drained LIFO before tree

	pool *Pool[*Event]

	objects []Handler

	// Observer, if set, is invoked with every event popped from the queue
	// before it is dispatched. It never mutates the event; it only taps it
	// for statistics.
	Observer func(*Event)

	Log *logrus.Entry
}

// NewSimulator constructs a Simulator with an empty queue and event pool.
func NewSimulator(log *logrus.Entry) *Simulator {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	s := &Simulator{Log: log}
	s.pool = NewPool(func() *Event { return &Event{detached: true} })
	return s
}

// CurrentTime returns the virtual time as of the most recently popped event.
func (s *Simulator) CurrentTime() Time { return s.current }

// Register adds h to the set of objects the engine walks for global reset
// and teardown. It is the explicit replacement for the original's
// construction-time registration into a global intrusive list.
func (s *Simulator) Register(h Handler) {
	s.objects = append(s.objects, h)
}

// AllocateEvent returns a fresh or recycled, zero-valued Event marked
// detached.
func (s *Simulator) AllocateEvent() *Event {
	e := s.pool.Get()
	e.reset()
	return e
}

// RegisterEvent schedules e to activate interval ticks from now, under
// producer. Negative intervals are clamped to zero (B1). Registering an
// event that is not currently detached is silently ignored — this matches
// the idempotent-against-double-register contract in the distilled spec.
func (s *Simulator) RegisterEvent(e *Event, interval Time, producer Handler) {
	if e == nil || !e.detached {
		return
	}
	if interval < 0 {
		interval = 0
	}
	e.Producer = producer
	e.ActivationTime = s.current + interval
	e.detached = false

	if interval == 0 {
		s.immediate = append(s.immediate, e)
		return
	}
	e.node = s.tree.add(e.ActivationTime, e)
}

// CancelEvent marks e cancelled without removing it from the queue. It will
// still consume a dispatch slot when popped, but the dispatcher will be a
// no-op for it.
func (s *Simulator) CancelEvent(e *Event) {
	if e == nil {
		return
	}
	e.Consumer = nil
}

// DestroyEvent returns a detached event to the free pool. It clears
// detached on the way in, so a handler that destroys e itself and a
// Dispatch that then sees e still marked detached don't both Put the same
// pointer: the second call's !e.detached guard makes the pair idempotent.
func (s *Simulator) DestroyEvent(e *Event) {
	if e == nil || !e.detached {
		return
	}
	e.detached = false
	s.pool.Put(e)
}

// PopNextEvent pops the immediate stack if non-empty, else removes the
// minimum-activation-time event from the ordered queue. CurrentTime is
// advanced to the popped event's activation time (I1: never decreases).
// The popped event is marked detached.
func (s *Simulator) PopNextEvent() *Event {
	n := len(s.immediate)
	if n > 0 {
		e := s.immediate[n-1]
		s.immediate = s.immediate[:n-1]
		s.current = Max(s.current, e.ActivationTime)
		e.detached = true
		e.node = nil
		return e
	}

	node := s.tree.removeMin()
	if node == nil {
		return nil
	}
	e := node.event
	s.current = Max(s.current, e.ActivationTime)
	e.detached = true
	e.node = nil
	return e
}

// Dispatch invokes e's consumer, if any, then destroys e unless the handler
// re-registered it (the dispatch contract: "consumed" means re-registered or
// destroyed; anything else is destroyed automatically here).
func (s *Simulator) Dispatch(e *Event) {
	defer func() {
		if r := recover(); r != nil {
			s.Log.WithFields(logrus.Fields{
				"event_type": e.Type.String(),
				"sim_time":   s.current,
			}).Errorf("handler panic recovered: %v", r)
		}
	}()

	if e.Consumer != nil {
		e.Consumer.OnEvent(e)
	}
	if e.detached {
		s.DestroyEvent(e)
	}
}

// Run drains the queue by repeatedly popping and dispatching, optionally
// tapping the observer first, until the queue is empty or until stop
// returns true for the event about to be dispatched (checked after the
// observer tap, before dispatch, so a driver can halt exactly at a
// packet-count threshold without missing the observer's count of the
// triggering event).
func (s *Simulator) Run(stop func(*Event) bool) {
	for {
		e := s.PopNextEvent()
		if e == nil {
			return
		}
		if s.Observer != nil {
			s.Observer(e)
		}
		halt := stop != nil && stop(e)
		s.Dispatch(e)
		if halt {
			return
		}
	}
}

// GlobalReset drains the ordered queue and the immediate stack into the free
// pool and resets CurrentTime to zero, then calls Reset on every registered
// object.
func (s *Simulator) GlobalReset() {
	drained := make([]*Event, 0, s.tree.Len()+len(s.immediate))
	drained = s.tree.drainInto(drained)
	drained = append(drained, s.immediate...)
	s.immediate = nil

	for _, e := range drained {
		e.detached = true
		e.node = nil
		s.pool.Put(e)
	}
	s.current = 0

	for _, obj := range s.objects {
		obj.Reset()
	}
}

// GlobalFree performs GlobalReset, additionally emptying the event pool and
// freeing every registered object.
func (s *Simulator) GlobalFree() {
	s.GlobalReset()
	s.pool.Clear()
	for _, obj := range s.objects {
		obj.Free()
	}
	s.objects = nil
}
