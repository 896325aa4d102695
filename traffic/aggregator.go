package traffic

// Aggregator merges a pool of independent ON/OFF streams into a single
// packet sequence, drawing each packet's size from sizeFunc and advancing a
// byte-count cursor (elapsed) rather than virtual time — the driver is
// responsible for converting byte intervals into ticks. Grounded on
// trf_gen_v3.h's PacketGenerator.
type Aggregator struct {
	sourceID int
	minIFG   int64
	sizeFunc func() int

	busy *streamPool
	idle *streamPool

	tokens  int64
	elapsed int64
	next    Packet
}

// NewAggregator constructs an empty Aggregator; streams are added with
// AddStream.
func NewAggregator(sourceID int, interPacketGap int64, sizeFunc func() int) *Aggregator {
	a := &Aggregator{
		sourceID: sourceID,
		minIFG:   interPacketGap,
		sizeFunc: sizeFunc,
		busy:     &streamPool{},
		idle:     &streamPool{},
	}
	size := int64(sizeFunc())
	a.next = Packet{SourceID: sourceID, Size: int(size), Interval: size + interPacketGap}
	return a
}

// AddStream adds s to the busy pool.
func (a *Aggregator) AddStream(s Stream) { a.busy.add(s) }

// StreamCount returns how many streams are currently in the busy pool.
func (a *Aggregator) StreamCount() int { return a.busy.count() }

// PeekNextPacket returns the packet that NextPacket will return, without
// consuming it.
func (a *Aggregator) PeekNextPacket() Packet { return a.next }

// NextPacket returns the next packet in the aggregated sequence, pulling in
// additional bursts from the busy pool until enough tokens have accrued to
// cover the drawn packet size.
func (a *Aggregator) NextPacket() Packet {
	prev := a.next
	pcktSize := int64(a.sizeFunc())
	pcktTime := a.elapsed

	for a.tokens < pcktSize {
		s, ok := a.busy.removeHead()
		if !ok {
			break
		}
		if s.ArrivalBytestamp() > pcktTime+a.tokens {
			pcktTime = s.ArrivalBytestamp() - a.tokens
		}
		a.tokens += s.BurstSize()
		s.ExtractBurst()
		a.busy.add(s)
	}

	a.tokens -= pcktSize
	pcktTime += pcktSize + a.minIFG

	a.next = Packet{SourceID: a.sourceID, Size: int(pcktSize), Interval: pcktTime - a.elapsed}
	a.elapsed = pcktTime
	return prev
}

// SetLoad divides load equally among the streams currently in the busy pool
// and applies it to each, without resetting their phase.
func (a *Aggregator) SetLoad(load float64) {
	n := a.busy.count()
	if n == 0 {
		return
	}
	per := load / float64(n)
	for _, s := range a.busy.items {
		s.SetLoad(per)
	}
}

// SetLoadReset divides load equally among the busy streams, applies it, and
// resets each stream's phase (moving every stream through idle back into
// busy). Without the reset, a stream mid-way through a long OFF period drawn
// under the old load would delay the new load from taking effect — see
// streamBase.Reset.
func (a *Aggregator) SetLoadReset(load float64) {
	n := a.busy.count()
	if n == 0 {
		return
	}
	per := load / float64(n)
	for {
		s, ok := a.busy.removeHead()
		if !ok {
			break
		}
		s.SetLoad(per)
		s.Reset()
		a.idle.add(s)
	}
	a.busy, a.idle = a.idle, a.busy
	a.elapsed = 0
}

// Reset moves every busy stream through idle, resetting each stream's phase
// without changing its load.
func (a *Aggregator) Reset() {
	for {
		s, ok := a.busy.removeHead()
		if !ok {
			break
		}
		s.Reset()
		a.idle.add(s)
	}
	a.busy, a.idle = a.idle, a.busy
	a.elapsed = 0
}
