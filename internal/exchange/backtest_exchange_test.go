package exchange

import (
	"testing"

	"grid-sim-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestExchange() *BacktestExchange {
	return NewBacktestExchange(10000, 10, zap.NewNop())
}

func TestOpenAndCloseLong(t *testing.T) {
	e := newTestExchange()

	open := e.Open(3, 950, 0.5, models.Long)
	assert.Equal(t, "O-L-3", open.ID)
	assert.Equal(t, models.Buy, open.Type)
	assert.Equal(t, 0.0, open.RealizedPnL)
	assert.False(t, open.IsClose())
	assert.InDelta(t, 10000-475.0, e.Cash, 1e-9)
	assert.True(t, e.HasOpen(models.Long))

	top, ok := e.Top()
	require.True(t, ok)
	assert.Equal(t, "POS-L-3", top.ID)

	closeTrade, ok := e.CloseLast(7, 1000, models.Long)
	require.True(t, ok)
	assert.Equal(t, "C-L-7", closeTrade.ID)
	assert.Equal(t, models.Sell, closeTrade.Type)
	assert.Equal(t, "POS-L-3", closeTrade.PositionID)
	assert.InDelta(t, 25.0, closeTrade.RealizedPnL, 1e-9)
	assert.InDelta(t, 10025.0, e.Cash, 1e-9)
	assert.InDelta(t, 25.0, e.GridProfit, 1e-9)
	assert.False(t, e.HasOpen(models.Long))
	assert.Len(t, e.TradeLog, 2)
}

func TestShortSaleCreditsCashAndCoverDebits(t *testing.T) {
	e := newTestExchange()

	open := e.Open(1, 1050, 1, models.Short)
	assert.Equal(t, models.Sell, open.Type)
	assert.InDelta(t, 11050.0, e.Cash, 1e-9)

	sample := e.Mark(1, 1060)
	assert.Equal(t, -1.0, sample.Inventory)
	assert.InDelta(t, -10.0, sample.UnrealizedPnL, 1e-9)
	assert.InDelta(t, 9990.0, sample.Equity, 1e-9)

	cover, ok := e.CloseLast(2, 1000, models.Short)
	require.True(t, ok)
	assert.Equal(t, models.Buy, cover.Type)
	assert.Equal(t, "C-S-2", cover.ID)
	assert.InDelta(t, 50.0, cover.RealizedPnL, 1e-9)
	assert.InDelta(t, 10050.0, e.Cash, 1e-9)
}

func TestCloseIsLIFO(t *testing.T) {
	e := newTestExchange()
	e.Open(1, 990, 0.1, models.Long)
	e.Open(2, 980, 0.1, models.Long)
	e.Open(3, 970, 0.1, models.Long)

	trade, ok := e.CloseLast(4, 980, models.Long)
	require.True(t, ok)
	assert.Equal(t, "POS-L-3", trade.PositionID)
	assert.InDelta(t, 1.0, trade.RealizedPnL, 1e-9)

	top, ok := e.Top()
	require.True(t, ok)
	assert.Equal(t, "POS-L-2", top.ID)

	_, ok = e.CloseLast(5, 1000, models.Short)
	assert.False(t, ok, "no short to close")
}

func TestTopReturnsMostRecentAcrossSides(t *testing.T) {
	e := newTestExchange()
	e.Open(1, 1000, 0.1, models.Long)
	e.Open(2, 1010, 0.1, models.Short)

	top, ok := e.Top()
	require.True(t, ok)
	assert.Equal(t, models.Short, top.Side)

	positions := e.OpenPositions()
	require.Len(t, positions, 2)
	assert.Equal(t, "POS-L-1", positions[0].ID)
	assert.Equal(t, "POS-S-2", positions[1].ID)
}

func TestStopOutClosesAllLongs(t *testing.T) {
	e := newTestExchange()
	e.Open(1, 990, 0.1, models.Long)
	e.Open(2, 980, 0.1, models.Long)

	trades := e.StopOut(5, 900, models.Long)
	require.Len(t, trades, 2)
	assert.Equal(t, "SL-L-5-POS-L-1", trades[0].ID)
	assert.Equal(t, "SL-L-5-POS-L-2", trades[1].ID)
	assert.InDelta(t, -9.0, trades[0].RealizedPnL, 1e-9)
	assert.InDelta(t, -8.0, trades[1].RealizedPnL, 1e-9)
	assert.InDelta(t, -17.0, e.GridProfit, 1e-9)
	assert.False(t, e.HasOpen(models.Long))
	assert.InDelta(t, 10000-17.0, e.Cash, 1e-9)

	assert.Nil(t, e.StopOut(6, 900, models.Long))
}

func TestCanAfford(t *testing.T) {
	e := NewBacktestExchange(100, 1, nil)
	assert.True(t, e.CanAfford(1000, 0.1))
	assert.False(t, e.CanAfford(1000, 0.2))
}

func TestMarkEquityIdentity(t *testing.T) {
	e := newTestExchange()
	e.Open(1, 993.3, 0.3, models.Long)
	e.Open(2, 987.1, 0.7, models.Long)

	for step, price := range []float64{991.7, 1003.9, 950.01} {
		s := e.Mark(step, price)
		assert.Equal(t, s.Balance+s.Inventory*s.Price, s.Equity)
	}
	assert.Len(t, e.EquityCurve, 3)
}
