package traffic

// Packet is a size/source/interval record drawn from an Aggregator, not yet
// attached to virtual time — the driver stamps Birth when it turns this into
// an engine.Event.
type Packet struct {
	SourceID int
	Size     int
	// Interval is the bytestamp gap between this packet and the one
	// preceding it, i.e. how far NextPacket's internal cursor advanced
	// to produce it.
	Interval int64
}
