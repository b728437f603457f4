package reporter

import (
	"fmt"
	"io"

	"grid-sim-go/internal/models"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"
)

// SweepRow 是参数扫描中一次运行的摘要
type SweepRow struct {
	JobID      string
	Grids      int
	Volatility float64
	Seed       int64
	Metrics    models.Metrics
	Err        error
}

// GenerateReport 打印一次模拟的结果报告
func GenerateReport(w io.Writer, result *models.SimulationResult) {
	m := result.Metrics

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("Grid Simulation %s", result.RunID))
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Model", result.Market.Model},
		{"Steps", result.Market.Steps},
		{"Seed", result.Seed},
		{"Grid", fmt.Sprintf("%s %s-%s x%d", result.Grid.GridType, money(result.Grid.LowerPrice), money(result.Grid.UpperPrice), result.Grid.Grids)},
		{"Direction / Filter", fmt.Sprintf("%s / %s", result.Grid.StrategyDirection, result.Grid.EntryFilter)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Initial Capital", money(result.Grid.InitialCapital)},
		{"Final Balance", money(m.FinalBalance)},
		{"Final Equity", money(m.FinalEquity)},
		{"Total Return", fmt.Sprintf("%s (%s%%)", money(m.TotalReturn), percent(m.TotalReturnPercent))},
		{"Max Drawdown", fmt.Sprintf("%s (%s%%)", money(m.MaxDrawdown), percent(m.MaxDrawdownPercent))},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Trades", m.TotalTrades},
		{"Winning / Losing", fmt.Sprintf("%d / %d", m.WinningTrades, m.LosingTrades)},
		{"Win Rate", percent(m.WinRate) + "%"},
		{"Profit Factor", percent(m.ProfitFactor)},
		{"Grid Profit (realized)", money(m.GridProfit)},
		{"Floating PnL", money(m.FloatingPnL)},
		{"Open Positions", m.ActivePositionCount},
		{"Avg Entry Price", money(m.AvgEntryPrice)},
	})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	t.Render()
}

// PrintTrades 打印最近的 limit 笔成交, limit <= 0 表示全部
func PrintTrades(w io.Writer, trades []models.Trade, limit int) {
	if limit > 0 && len(trades) > limit {
		trades = trades[len(trades)-limit:]
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Trades")
	t.AppendHeader(table.Row{"ID", "Step", "Type", "Side", "Price", "Amount", "Realized PnL", "Closes"})
	for _, trade := range trades {
		t.AppendRow(table.Row{
			trade.ID, trade.Step, trade.Type, trade.Side,
			money(trade.Price), trade.Amount, money(trade.RealizedPnL), trade.PositionID,
		})
	}
	t.Render()
}

// PrintSweep 打印参数扫描结果
func PrintSweep(w io.Writer, rows []SweepRow) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Parameter Sweep")
	t.AppendHeader(table.Row{"Job", "Grids", "Volatility", "Seed", "Return %", "Max DD %", "Trades", "Grid Profit", "Open"})
	for _, r := range rows {
		if r.Err != nil {
			t.AppendRow(table.Row{r.JobID, r.Grids, r.Volatility, r.Seed, "error: " + r.Err.Error()})
			continue
		}
		t.AppendRow(table.Row{
			r.JobID, r.Grids, r.Volatility, r.Seed,
			percent(r.Metrics.TotalReturnPercent), percent(r.Metrics.MaxDrawdownPercent),
			r.Metrics.TotalTrades, money(r.Metrics.GridProfit), r.Metrics.ActivePositionCount,
		})
	}
	t.Render()
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func percent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// PrintPresets 打印可用的场景预设
func PrintPresets(w io.Writer, presets []models.Preset) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Presets")
	t.AppendHeader(table.Row{"Name", "Source", "Model", "Drift", "Volatility", "Grid", "Description"})
	for _, p := range presets {
		source := "saved"
		if p.Builtin {
			source = "builtin"
		}
		gridDesc := "-"
		if p.Grid != nil {
			gridDesc = fmt.Sprintf("%s-%s x%d", money(p.Grid.LowerPrice), money(p.Grid.UpperPrice), p.Grid.Grids)
		}
		t.AppendRow(table.Row{p.Name, source, p.Market.Model, p.Market.Drift, p.Market.Volatility, gridDesc, p.Description})
	}
	t.Render()
}
