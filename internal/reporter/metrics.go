package reporter

import (
	"math"

	"grid-sim-go/internal/models"
)

// CalculateMetrics 把权益曲线和成交记录归约为汇总指标
func CalculateMetrics(initialCapital float64, curve []models.EquitySample, trades []models.Trade, open []models.Position, gridProfit float64) models.Metrics {
	m := models.Metrics{
		TotalTrades:         len(trades),
		GridProfit:          gridProfit,
		ActivePositionCount: len(open),
		FinalBalance:        initialCapital,
		FinalEquity:         initialCapital,
	}

	if n := len(curve); n > 0 {
		last := curve[n-1]
		m.FinalBalance = last.Balance
		m.FinalEquity = last.Equity
		m.FloatingPnL = last.UnrealizedPnL
	}

	m.TotalReturn = m.FinalEquity - initialCapital
	if initialCapital != 0 {
		m.TotalReturnPercent = m.TotalReturn / initialCapital * 100
	}

	m.MaxDrawdown, m.MaxDrawdownPercent = calculateMaxDrawdown(curve)

	var grossProfit, grossLoss float64
	var closing int
	for _, trade := range trades {
		if trade.RealizedPnL > 0 {
			m.WinningTrades++
			grossProfit += trade.RealizedPnL
		} else if trade.RealizedPnL < 0 {
			m.LosingTrades++
			grossLoss -= trade.RealizedPnL
		}
		if trade.IsClose() {
			closing++
		}
	}
	if closing > 0 {
		m.WinRate = float64(m.WinningTrades) / float64(closing) * 100
	}
	if grossLoss > 0 {
		m.ProfitFactor = grossProfit / grossLoss
	}

	if len(open) > 0 {
		var sum float64
		for _, pos := range open {
			sum += pos.EntryPrice
		}
		m.AvgEntryPrice = sum / float64(len(open))
	}

	return m
}

// calculateMaxDrawdown 返回最大回撤的绝对值和相对整条曲线最高权益的百分比
func calculateMaxDrawdown(curve []models.EquitySample) (float64, float64) {
	peak := math.Inf(-1)
	var maxDrawdown float64

	for _, s := range curve {
		if s.Equity > peak {
			peak = s.Equity
		}
		if drawdown := peak - s.Equity; drawdown > maxDrawdown {
			maxDrawdown = drawdown
		}
	}

	var maxDrawdownPercent float64
	if peak > 0 {
		maxDrawdownPercent = maxDrawdown / peak * 100
	}
	return maxDrawdown, maxDrawdownPercent
}
