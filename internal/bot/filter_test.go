package bot

import (
	"errors"
	"testing"

	"grid-sim-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoFilterAcceptsEverything(t *testing.T) {
	f, err := NewEntryFilter(models.FilterNone, nil)
	require.NoError(t, err)
	assert.True(t, f.Allow(0, 1, models.Long))
	assert.True(t, f.Allow(99, 1, models.Short))
}

func TestTrendFilter(t *testing.T) {
	f := trendFilter{sma: []float64{100, 100}}

	assert.True(t, f.Allow(0, 101, models.Long))
	assert.False(t, f.Allow(0, 100, models.Long))
	assert.True(t, f.Allow(1, 99, models.Short))
	assert.False(t, f.Allow(1, 101, models.Short))
	assert.False(t, f.Allow(5, 101, models.Long), "out of range steps never pass")
}

func TestRSIFilter(t *testing.T) {
	f := rsiFilter{rsi: []float64{25, 50, 75}}

	assert.True(t, f.Allow(0, 0, models.Long))
	assert.False(t, f.Allow(0, 0, models.Short))
	assert.False(t, f.Allow(1, 0, models.Long))
	assert.False(t, f.Allow(1, 0, models.Short))
	assert.True(t, f.Allow(2, 0, models.Short))
}

func TestNewEntryFilterBuildsIndicatorSeries(t *testing.T) {
	prices := make([]float64, 80)
	for i := range prices {
		prices[i] = 1000 - float64(i)
	}

	trend, err := NewEntryFilter(models.FilterTrend, prices)
	require.NoError(t, err)
	// 下跌行情中价格低于均线
	assert.False(t, trend.Allow(70, prices[70], models.Long))
	assert.True(t, trend.Allow(70, prices[70], models.Short))

	rsi, err := NewEntryFilter(models.FilterRSI, prices)
	require.NoError(t, err)
	assert.True(t, rsi.Allow(20, prices[20], models.Long))
	assert.False(t, rsi.Allow(10, prices[10], models.Long), "warm-up RSI is neutral")

	_, err = NewEntryFilter("MACD", prices)
	assert.True(t, errors.Is(err, models.ErrInvalidGridConfig))
}
