package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestHistogramConvergesToFrequencies exercises L2: sampling many draws from
// a Histogram and binning by index should converge to freq(i)/sum(freq).
func TestHistogramConvergesToFrequencies(t *testing.T) {
	freqs := []int64{1, 2, 3, 4}
	h := NewHistogram(len(freqs), func(i int) int64 { return freqs[i] })

	SeedGlobal(99)
	rng := NewRandSource("histogram-test")

	const draws = 200_000
	counts := make([]int, len(freqs))
	for i := 0; i < draws; i++ {
		counts[h.Sample(rng)]++
	}

	var total int64
	for _, f := range freqs {
		total += f
	}
	for i, f := range freqs {
		want := float64(f) / float64(total)
		got := float64(counts[i]) / float64(draws)
		require.InDelta(t, want, got, 0.01)
	}
}

func TestHistogramSingleBucketAlwaysZero(t *testing.T) {
	h := NewHistogram(1, func(i int) int64 { return 5 })
	SeedGlobal(1)
	rng := NewRandSource("single-bucket")
	for i := 0; i < 10; i++ {
		require.Equal(t, 0, h.Sample(rng))
	}
}
