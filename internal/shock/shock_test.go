package shock

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameSeedSameDraws(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Normal(), b.Normal(), "draw %d differs", i)
		require.Equal(t, a.Uniform(), b.Uniform(), "uniform %d differs", i)
	}
	assert.Equal(t, int64(42), a.Seed())
}

func TestNormalMoments(t *testing.T) {
	src := New(7)
	const n = 20000
	var sum, sumSq float64
	for i := 0; i < n; i++ {
		z := src.Normal()
		require.False(t, math.IsNaN(z) || math.IsInf(z, 0))
		sum += z
		sumSq += z * z
	}
	mean := sum / n
	variance := sumSq/n - mean*mean
	assert.InDelta(t, 0.0, mean, 0.05)
	assert.InDelta(t, 1.0, variance, 0.05)
}

func TestUniformRange(t *testing.T) {
	src := New(1)
	for i := 0; i < 1000; i++ {
		u := src.Uniform()
		assert.GreaterOrEqual(t, u, 0.0)
		assert.Less(t, u, 1.0)
	}
}
