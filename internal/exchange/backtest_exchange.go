package exchange

import (
	"fmt"

	"grid-sim-go/internal/models"

	"go.uber.org/zap"
)

// lot 是栈中的一笔仓位, seq 记录全局开仓顺序
type lot struct {
	models.Position
	seq int64
}

// BacktestExchange 实现了 Exchange 接口, 在内存中模拟现金账户。
// 多空各自维护一个 LIFO 栈。实例只属于一次模拟, 不支持并发访问。
type BacktestExchange struct {
	InitialBalance float64
	Cash           float64
	GridProfit     float64 // 累计已实现盈亏
	TradeLog       []models.Trade
	EquityCurve    []models.EquitySample

	stacks  map[models.PositionSide][]lot
	nextSeq int64
	logger  *zap.SugaredLogger
}

// NewBacktestExchange 创建一个新的 BacktestExchange 实例。
func NewBacktestExchange(initialBalance float64, steps int, logger *zap.Logger) *BacktestExchange {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BacktestExchange{
		InitialBalance: initialBalance,
		Cash:           initialBalance,
		TradeLog:       make([]models.Trade, 0),
		EquityCurve:    make([]models.EquitySample, 0, steps+1),
		stacks: map[models.PositionSide][]lot{
			models.Long:  nil,
			models.Short: nil,
		},
		logger: logger.Sugar(),
	}
}

func (e *BacktestExchange) Top() (models.Position, bool) {
	var top *lot
	for _, side := range []models.PositionSide{models.Long, models.Short} {
		stack := e.stacks[side]
		if len(stack) == 0 {
			continue
		}
		last := &stack[len(stack)-1]
		if top == nil || last.seq > top.seq {
			top = last
		}
	}
	if top == nil {
		return models.Position{}, false
	}
	return top.Position, true
}

func (e *BacktestExchange) HasOpen(side models.PositionSide) bool {
	return len(e.stacks[side]) > 0
}

func (e *BacktestExchange) CanAfford(price, amount float64) bool {
	return e.Cash >= amount*price
}

func (e *BacktestExchange) Open(step int, price, amount float64, side models.PositionSide) models.Trade {
	pos := models.Position{
		ID:         fmt.Sprintf("POS-%s-%d", sideCode(side), step),
		EntryPrice: price,
		Amount:     amount,
		StepOpened: step,
		Side:       side,
	}
	e.stacks[side] = append(e.stacks[side], lot{Position: pos, seq: e.nextSeq})
	e.nextSeq++

	trade := models.Trade{
		ID:     fmt.Sprintf("O-%s-%d", sideCode(side), step),
		Step:   step,
		Price:  price,
		Amount: amount,
		Side:   side,
	}
	if side == models.Long {
		e.Cash -= amount * price
		trade.Type = models.Buy
	} else {
		// 卖空所得计入现金, 负债体现在负库存上
		e.Cash += amount * price
		trade.Type = models.Sell
	}

	e.TradeLog = append(e.TradeLog, trade)
	e.logger.Debugw("opened position",
		"step", step, "side", side, "price", price, "amount", amount, "cash", e.Cash)
	return trade
}

func (e *BacktestExchange) CloseLast(step int, price float64, side models.PositionSide) (models.Trade, bool) {
	stack := e.stacks[side]
	if len(stack) == 0 {
		return models.Trade{}, false
	}
	pos := stack[len(stack)-1].Position
	e.stacks[side] = stack[:len(stack)-1]

	trade := e.settle(step, price, pos)
	trade.ID = fmt.Sprintf("C-%s-%d", sideCode(side), step)
	e.TradeLog = append(e.TradeLog, trade)
	e.logger.Debugw("closed position",
		"step", step, "position", pos.ID, "entry", pos.EntryPrice, "price", price, "pnl", trade.RealizedPnL)
	return trade, true
}

func (e *BacktestExchange) StopOut(step int, price float64, side models.PositionSide) []models.Trade {
	stack := e.stacks[side]
	if len(stack) == 0 {
		return nil
	}
	e.stacks[side] = nil

	trades := make([]models.Trade, 0, len(stack))
	for _, l := range stack {
		trade := e.settle(step, price, l.Position)
		trade.ID = fmt.Sprintf("SL-%s-%d-%s", sideCode(side), step, l.ID)
		trades = append(trades, trade)
	}
	e.TradeLog = append(e.TradeLog, trades...)
	e.logger.Debugw("stop loss triggered",
		"step", step, "side", side, "price", price, "closed", len(trades), "cash", e.Cash)
	return trades
}

// settle 结算一笔平仓, 更新现金和已实现盈亏
func (e *BacktestExchange) settle(step int, price float64, pos models.Position) models.Trade {
	var pnl float64
	trade := models.Trade{
		Step:       step,
		Price:      price,
		Amount:     pos.Amount,
		PositionID: pos.ID,
		Side:       pos.Side,
	}
	if pos.Side == models.Long {
		e.Cash += pos.Amount * price
		pnl = (price - pos.EntryPrice) * pos.Amount
		trade.Type = models.Sell
	} else {
		// 买回平空
		e.Cash -= pos.Amount * price
		pnl = (pos.EntryPrice - price) * pos.Amount
		trade.Type = models.Buy
	}
	trade.RealizedPnL = pnl
	e.GridProfit += pnl
	return trade
}

// Mark 计算净库存、浮动盈亏与权益, 并追加到权益曲线
func (e *BacktestExchange) Mark(step int, price float64) models.EquitySample {
	var inventory, unrealized float64
	for _, l := range e.stacks[models.Long] {
		inventory += l.Amount
		unrealized += (price - l.EntryPrice) * l.Amount
	}
	for _, l := range e.stacks[models.Short] {
		inventory -= l.Amount
		unrealized += (l.EntryPrice - price) * l.Amount
	}

	sample := models.EquitySample{
		Step:          step,
		Price:         price,
		Equity:        e.Cash + inventory*price,
		Balance:       e.Cash,
		Inventory:     inventory,
		UnrealizedPnL: unrealized,
	}
	e.EquityCurve = append(e.EquityCurve, sample)
	return sample
}

// OpenPositions 按开仓顺序返回所有未平仓位的副本
func (e *BacktestExchange) OpenPositions() []models.Position {
	longs, shorts := e.stacks[models.Long], e.stacks[models.Short]
	positions := make([]models.Position, 0, len(longs)+len(shorts))
	i, j := 0, 0
	for i < len(longs) || j < len(shorts) {
		if j >= len(shorts) || (i < len(longs) && longs[i].seq < shorts[j].seq) {
			positions = append(positions, longs[i].Position)
			i++
		} else {
			positions = append(positions, shorts[j].Position)
			j++
		}
	}
	return positions
}

func sideCode(side models.PositionSide) string {
	if side == models.Short {
		return "S"
	}
	return "L"
}
