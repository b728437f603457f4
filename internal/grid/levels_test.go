package grid

import (
	"errors"
	"math"
	"testing"

	"grid-sim-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithmeticLevels(t *testing.T) {
	levels, err := CalculateLevels(900, 1100, 20, models.GridArithmetic)
	require.NoError(t, err)
	require.Len(t, levels, 21)

	assert.Equal(t, 900.0, levels[0])
	assert.Equal(t, 1100.0, levels[20])
	assert.Equal(t, 1000.0, levels[10])
	for i := 1; i < len(levels); i++ {
		assert.InDelta(t, 10.0, levels[i]-levels[i-1], 1e-9)
	}
}

func TestGeometricLevels(t *testing.T) {
	levels, err := CalculateLevels(900, 1100, 2, models.GridGeometric)
	require.NoError(t, err)
	require.Len(t, levels, 3)

	assert.Equal(t, 900.0, levels[0])
	assert.InDelta(t, 900*math.Sqrt(1100.0/900.0), levels[1], 1e-9)
	assert.InDelta(t, 1100.0, levels[2], 1e-9)
}

func TestLevelsStrictlyIncreasing(t *testing.T) {
	for _, gridType := range []models.GridType{models.GridArithmetic, models.GridGeometric} {
		for _, count := range []int{1, 2, 7, 50, 200} {
			levels, err := CalculateLevels(12.5, 13.75, count, gridType)
			require.NoError(t, err)
			require.Len(t, levels, count+1)
			for i := 1; i < len(levels); i++ {
				assert.Greater(t, levels[i], levels[i-1], "%s count=%d i=%d", gridType, count, i)
			}
		}
	}
}

func TestCalculateLevelsRejectsBadInput(t *testing.T) {
	cases := []struct {
		name     string
		lower    float64
		upper    float64
		count    int
		gridType models.GridType
	}{
		{"zero count", 900, 1100, 0, models.GridArithmetic},
		{"inverted range", 1100, 900, 10, models.GridArithmetic},
		{"geometric non-positive lower", 0, 1100, 10, models.GridGeometric},
		{"unknown type", 900, 1100, 10, "Fibonacci"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CalculateLevels(tc.lower, tc.upper, tc.count, tc.gridType)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidLevels))
		})
	}
}

func TestZone(t *testing.T) {
	levels := []float64{900, 950, 1000, 1050, 1100}

	assert.Equal(t, -1, Zone(levels, 899.99))
	assert.Equal(t, 0, Zone(levels, 900))
	assert.Equal(t, 0, Zone(levels, 949.99))
	assert.Equal(t, 1, Zone(levels, 950))
	assert.Equal(t, 2, Zone(levels, 1000))
	assert.Equal(t, 3, Zone(levels, 1099.99))
	assert.Equal(t, 4, Zone(levels, 1100))
	assert.Equal(t, 5, Zone(levels, 1100.01))
	assert.Equal(t, -1, Zone(nil, 1000))
}
