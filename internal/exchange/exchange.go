package exchange

import "grid-sim-go/internal/models"

// Exchange 定义了网格机器人所需的账户操作。
// 机器人只负责决策, 现金、持仓和成交记录都由 Exchange 维护。
type Exchange interface {
	// Top 返回最近一次开仓且仍未平仓的仓位
	Top() (models.Position, bool)
	// HasOpen 判断某个方向上是否有未平仓位
	HasOpen(side models.PositionSide) bool
	// CanAfford 判断现金是否足够以 price 买入 amount
	CanAfford(price, amount float64) bool
	// Open 开仓; 多单扣减现金, 空单增加现金
	Open(step int, price, amount float64, side models.PositionSide) models.Trade
	// CloseLast 按 LIFO 平掉 side 方向最近的仓位
	CloseLast(step int, price float64, side models.PositionSide) (models.Trade, bool)
	// StopOut 以市价平掉 side 方向的全部仓位
	StopOut(step int, price float64, side models.PositionSide) []models.Trade
	// Mark 按 price 记录一个权益样本
	Mark(step int, price float64) models.EquitySample
}
