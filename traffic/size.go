package traffic

import "github.com/gkramer/eponsim/engine"

// SizeDistribution draws packet sizes (in bytes) from a histogram, the Go
// equivalent of the original's PacketGeneratorDist<T,N,F> mixin — collapsed
// from a compile-time template into a runtime-configurable value, per the
// design note on dropping source templates parameterized by a compile-time
// constant.
type SizeDistribution struct {
	hist  *engine.Histogram
	sizes []int
	rng   *engine.RandSource
}

// NewSizeDistribution builds a distribution over the given (size, frequency)
// pairs.
func NewSizeDistribution(rng *engine.RandSource, sizes []int, freq []int64) *SizeDistribution {
	h := engine.NewHistogram(len(sizes), func(i int) int64 { return freq[i] })
	return &SizeDistribution{hist: h, sizes: append([]int(nil), sizes...), rng: rng}
}

// DefaultEthernetSizes returns a representative Ethernet frame-size
// histogram (minimum frame, a mid-size cluster, and maximum frame), used
// when a scenario does not supply its own.
func DefaultEthernetSizes() ([]int, []int64) {
	return []int{64, 128, 256, 512, 1024, 1518},
		[]int64{40, 15, 10, 4, 4, 27}
}

// Sample draws one packet size.
func (d *SizeDistribution) Sample() int {
	idx := d.hist.Sample(d.rng)
	return d.sizes[idx]
}
