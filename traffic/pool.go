package traffic

import "slices"

// streamPool is an ordered collection of streams keyed by ArrivalBytestamp,
// supporting sorted insert and remove-minimum — the Go replacement for the
// original's AVLTree<bytestamp_t> StreamPool, which needed tree balancing
// only because C++ gave it no sorted-slice primitive. The standard library's
// slices package gives the same O(log N) search with O(N) insert/delete, which is the right
// tradeoff at the small pool sizes (BURST_POOL_SIZE ~128) this models.
type streamPool struct {
	items []Stream
}

func (p *streamPool) add(s Stream) {
	idx, _ := slices.BinarySearchFunc(p.items, s, func(a, b Stream) int {
		return cmpInt64(a.ArrivalBytestamp(), b.ArrivalBytestamp())
	})
	p.items = slices.Insert(p.items, idx, s)
}

func (p *streamPool) removeHead() (Stream, bool) {
	if len(p.items) == 0 {
		return nil, false
	}
	s := p.items[0]
	p.items = slices.Delete(p.items, 0, 1)
	return s, true
}

func (p *streamPool) count() int { return len(p.items) }

// drain removes and returns every stream currently held, leaving the pool
// empty.
func (p *streamPool) drain() []Stream {
	out := p.items
	p.items = nil
	return out
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
