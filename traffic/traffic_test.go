package traffic

import (
	"testing"

	"github.com/gkramer/eponsim/engine"
	"github.com/stretchr/testify/require"
)

func newRng(t *testing.T, name string) *engine.RandSource {
	engine.SeedGlobal(123)
	return engine.NewRandSource(name)
}

func TestParetoStreamBurstAndPauseStayPositive(t *testing.T) {
	rng := newRng(t, "pareto-stream")
	s := NewParetoStream(rng, 0.3, 3200, 1.4)
	for i := 0; i < 1000; i++ {
		require.GreaterOrEqual(t, s.BurstSize(), int64(0))
		s.ExtractBurst()
	}
}

func TestCBRStreamConstantBurst(t *testing.T) {
	rng := newRng(t, "cbr-stream")
	s := NewCBRStream(rng, 0.5, 1000)
	// Step past the very first burst: the reset phase offset, applied once,
	// can shrink it.
	s.ExtractBurst()
	first := s.BurstSize()
	s.ExtractBurst()
	// CBR bursts are identical in size every cycle after that.
	require.Equal(t, first, s.BurstSize())
}

// TestLoadResetFairness exercises scenario 6: after SetLoadReset(rho), each
// stream's average rate over a long horizon should track rho/N.
func TestLoadResetFairness(t *testing.T) {
	rng := newRng(t, "load-fairness")
	agg := NewAggregator(1, 20, func() int { return 512 })

	const n = 8
	for i := 0; i < n; i++ {
		agg.AddStream(NewExponStream(rng, 0.1, 3200))
	}
	rho := 0.4
	agg.SetLoadReset(rho)

	var totalBurst, totalPauseAndBurst int64
	for _, s := range agg.busy.items {
		es := s.(*ExponStream)
		start := es.ArrivalBytestamp()
		for i := 0; i < 2000; i++ {
			totalBurst += es.BurstSize()
			es.ExtractBurst()
		}
		// ExtractBurst advances the arrival bytestamp by burst + pause, so the
		// distance travelled is the total ON plus OFF length.
		totalPauseAndBurst += es.ArrivalBytestamp() - start
	}

	require.Greater(t, totalBurst, int64(0))
	// 2000 cycles of mean 3200 + 60800 bytes each give every stream about
	// 1.3e8 bytestamps; the pooled ON fraction must lie within 5% of rho/N.
	perStream := rho / n
	require.InDelta(t, perStream, float64(totalBurst)/float64(totalPauseAndBurst), 0.05*perStream)
}

func TestAggregatorNextPacketAdvancesElapsed(t *testing.T) {
	rng := newRng(t, "aggregator")
	agg := NewAggregator(7, 20, func() int { return 64 })
	agg.AddStream(NewCBRStream(rng, 0.5, 1000))

	p1 := agg.NextPacket()
	p2 := agg.NextPacket()
	require.Equal(t, 7, p1.SourceID)
	require.Equal(t, 64, p1.Size)
	require.Greater(t, p2.Interval, int64(0))
}

func TestVideoStreamCapsAtMaxBurst(t *testing.T) {
	rng := newRng(t, "video-stream")
	s := NewVideoStream(rng, 0.8, 5000, 10000, 1.2)
	for i := 0; i < 2000; i++ {
		require.LessOrEqual(t, s.BurstSize(), int64(5000))
		s.ExtractBurst()
	}
}

func TestSizeDistributionSamplesWithinTable(t *testing.T) {
	rng := newRng(t, "size-dist")
	sizes, freq := DefaultEthernetSizes()
	d := NewSizeDistribution(rng, sizes, freq)
	seen := map[int]bool{}
	for i := 0; i < 500; i++ {
		v := d.Sample()
		found := false
		for _, s := range sizes {
			if v == s {
				found = true
			}
		}
		require.True(t, found)
		seen[v] = true
	}
	require.Greater(t, len(seen), 1)
}
