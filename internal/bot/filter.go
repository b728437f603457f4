package bot

import (
	"fmt"

	"grid-sim-go/internal/indicators"
	"grid-sim-go/internal/models"
)

const (
	TrendSMAPeriod = 50
	RSIPeriod      = 14
	RSIOversold    = 30.0
	RSIOverbought  = 70.0
)

// EntryFilter 决定某一步是否允许在 side 方向开新仓。平仓不经过过滤器。
type EntryFilter interface {
	Allow(step int, price float64, side models.PositionSide) bool
}

// NewEntryFilter 按配置构建过滤器, 只在需要时计算指标序列
func NewEntryFilter(kind models.EntryFilter, prices []float64) (EntryFilter, error) {
	switch kind {
	case models.FilterNone, "":
		return noFilter{}, nil
	case models.FilterTrend:
		return trendFilter{sma: indicators.SMA(prices, TrendSMAPeriod)}, nil
	case models.FilterRSI:
		return rsiFilter{rsi: indicators.RSI(prices, RSIPeriod)}, nil
	default:
		return nil, fmt.Errorf("%w: unknown entry filter %q", models.ErrInvalidGridConfig, kind)
	}
}

type noFilter struct{}

func (noFilter) Allow(int, float64, models.PositionSide) bool { return true }

// trendFilter 顺势: 价格在 SMA50 之上才开多, 之下才开空
type trendFilter struct {
	sma []float64
}

func (f trendFilter) Allow(step int, price float64, side models.PositionSide) bool {
	if step < 0 || step >= len(f.sma) {
		return false
	}
	if side == models.Long {
		return price > f.sma[step]
	}
	return price < f.sma[step]
}

// rsiFilter 均值回归: 超卖开多, 超买开空
type rsiFilter struct {
	rsi []float64
}

func (f rsiFilter) Allow(step int, _ float64, side models.PositionSide) bool {
	if step < 0 || step >= len(f.rsi) {
		return false
	}
	if side == models.Long {
		return f.rsi[step] < RSIOversold
	}
	return f.rsi[step] > RSIOverbought
}
