package models

// PositionSide 定义了持仓方向
type PositionSide string

const (
	Long  PositionSide = "LONG"
	Short PositionSide = "SHORT"
)

// TradeType 定义了成交方向
type TradeType string

const (
	Buy  TradeType = "BUY"
	Sell TradeType = "SELL"
)

// PriceTick 是价格路径上的一个点, Step 从 0 开始
type PriceTick struct {
	Step  int     `json:"step"`
	Price float64 `json:"price"`
}

// Position 是一笔未平仓的网格仓位
type Position struct {
	ID         string       `json:"id"`
	EntryPrice float64      `json:"entry_price"`
	Amount     float64      `json:"amount"`
	StepOpened int          `json:"step_opened"`
	Side       PositionSide `json:"side"`
}

// Trade 记录一次成交。开仓成交的 RealizedPnL 为 0。
type Trade struct {
	ID          string       `json:"id"`
	Step        int          `json:"step"`
	Price       float64      `json:"price"`
	Type        TradeType    `json:"type"`
	Amount      float64      `json:"amount"`
	RealizedPnL float64      `json:"realized_pnl"`
	PositionID  string       `json:"position_id,omitempty"` // 平仓成交关联的仓位
	Side        PositionSide `json:"side"`
}

// IsClose 判断该成交是否为平仓成交
func (t Trade) IsClose() bool {
	return t.PositionID != ""
}

// EquitySample 是每一步的账户快照。
// Equity == Balance + Inventory*Price 在每个样本上精确成立。
type EquitySample struct {
	Step          int     `json:"step"`
	Price         float64 `json:"price"`
	Equity        float64 `json:"equity"`
	Balance       float64 `json:"balance"`
	Inventory     float64 `json:"inventory"`
	UnrealizedPnL float64 `json:"unrealized_pnl"`
}

// Metrics 汇总了一次模拟的表现指标
type Metrics struct {
	TotalReturn         float64 `json:"total_return"`
	TotalReturnPercent  float64 `json:"total_return_percent"`
	MaxDrawdown         float64 `json:"max_drawdown"`
	MaxDrawdownPercent  float64 `json:"max_drawdown_percent"`
	TotalTrades         int     `json:"total_trades"`
	WinningTrades       int     `json:"winning_trades"`
	LosingTrades        int     `json:"losing_trades"`
	WinRate             float64 `json:"win_rate"` // 平仓成交中盈利的比例 (%)
	ProfitFactor        float64 `json:"profit_factor"`
	FinalBalance        float64 `json:"final_balance"`
	FinalEquity         float64 `json:"final_equity"`
	GridProfit          float64 `json:"grid_profit"`  // 已实现
	FloatingPnL         float64 `json:"floating_pnl"` // 未实现
	ActivePositionCount int     `json:"active_position_count"`
	AvgEntryPrice       float64 `json:"avg_entry_price"`
}

// SimulationResult 是一次模拟的全部产出, 运行结束后不再修改
type SimulationResult struct {
	RunID         string         `json:"run_id"`
	Seed          int64          `json:"seed"`
	Market        MarketConfig   `json:"market"`
	Grid          GridConfig     `json:"grid"`
	PricePath     []PriceTick    `json:"price_path"`
	EquityCurve   []EquitySample `json:"equity_curve"`
	Trades        []Trade        `json:"trades"`
	OpenPositions []Position     `json:"open_positions"`
	GridLevels    []float64      `json:"grid_levels"`
	Metrics       Metrics        `json:"metrics"`
}
