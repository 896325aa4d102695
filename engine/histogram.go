package engine

import "sort"

// Histogram builds a cumulative-frequency table once from a caller-supplied
// integer frequency function and samples indices from it in proportion to
// those frequencies. It is the Go equivalent of the original's
// GenericDistribByIndex<N,F> template: the CDF is built once from exact
// integer frequencies, and sampling draws U*cdf[N-1] and binary-searches for
// the smallest index whose CDF strictly exceeds the draw.
type Histogram struct {
	cdf []int64
}

// NewHistogram builds a Histogram over n indices [0, n), with freq(i) giving
// the (non-negative) relative frequency of index i.
func NewHistogram(n int, freq func(i int) int64) *Histogram {
	cdf := make([]int64, n)
	var running int64
	for i := 0; i < n; i++ {
		running += freq(i)
		cdf[i] = running
	}
	return &Histogram{cdf: cdf}
}

// Sample draws one index in proportion to the frequencies the Histogram was
// built from.
func (h *Histogram) Sample(rng *RandSource) int {
	if len(h.cdf) == 0 {
		return 0
	}
	total := h.cdf[len(h.cdf)-1]
	if total <= 0 {
		return 0
	}
	draw := int64(rng.UniformReal0x1() * float64(total))
	// smallest index i such that cdf[i] > draw
	idx := sort.Search(len(h.cdf), func(i int) bool {
		return h.cdf[i] > draw
	})
	if idx >= len(h.cdf) {
		idx = len(h.cdf) - 1
	}
	return idx
}

// Len returns the number of indices the Histogram was built over.
func (h *Histogram) Len() int { return len(h.cdf) }
