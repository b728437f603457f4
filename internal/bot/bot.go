package bot

import (
	"grid-sim-go/internal/exchange"
	"grid-sim-go/internal/grid"
	"grid-sim-go/internal/models"

	"go.uber.org/zap"
)

// GridTradingBot 是网格交易的状态机。
// 它只对价格穿越网格线做出反应, 每次穿越最多执行一笔成交。
type GridTradingBot struct {
	market      models.MarketConfig
	config      models.GridConfig
	levels      []float64
	exchange    exchange.Exchange
	filter      EntryFilter
	currentZone int
	logger      *zap.SugaredLogger
}

// NewGridTradingBot 创建一个新的网格交易机器人实例, 初始区间由起始价格决定
func NewGridTradingBot(market models.MarketConfig, config models.GridConfig, levels []float64, ex exchange.Exchange, filter EntryFilter, logger *zap.Logger) *GridTradingBot {
	if logger == nil {
		logger = zap.NewNop()
	}
	if filter == nil {
		filter = noFilter{}
	}
	return &GridTradingBot{
		market:      market,
		config:      config,
		levels:      levels,
		exchange:    ex,
		filter:      filter,
		currentZone: grid.Zone(levels, market.StartPrice),
		logger:      logger.Sugar(),
	}
}

// CurrentZone 返回最近一次处理后的价格区间
func (b *GridTradingBot) CurrentZone() int {
	return b.currentZone
}

// ProcessTick 处理一个价格点: 止损检查, 穿越检测与成交, 最后记录权益样本
func (b *GridTradingBot) ProcessTick(step int, price float64) models.EquitySample {
	b.checkStopLoss(step, price)

	newZone := grid.Zone(b.levels, price)
	if newZone != b.currentZone {
		if newZone < b.currentZone {
			b.onCrossDown(step, price)
		} else {
			b.onCrossUp(step, price)
		}
		b.currentZone = newZone
	}

	return b.exchange.Mark(step, price)
}

// checkStopLoss 价格跌破止损价时市价平掉所有多单; 空单不受止损影响
func (b *GridTradingBot) checkStopLoss(step int, price float64) {
	if b.config.StopLoss <= 0 || price > b.config.StopLoss {
		return
	}
	if !b.exchange.HasOpen(models.Long) {
		return
	}
	trades := b.exchange.StopOut(step, price, models.Long)
	b.logger.Infof("止损触发: step %d 价格 %.4f <= %.4f, 平掉 %d 笔多单", step, price, b.config.StopLoss, len(trades))
}

// onCrossDown 价格下穿: 优先平最近的空单, 否则尝试开多
func (b *GridTradingBot) onCrossDown(step int, price float64) {
	if top, ok := b.exchange.Top(); ok && top.Side == models.Short {
		b.exchange.CloseLast(step, price, models.Short)
		return
	}

	if !b.longAllowed(price) {
		return
	}
	if b.config.MaxBuyPrice > 0 && price > b.config.MaxBuyPrice {
		return
	}
	if !b.filter.Allow(step, price, models.Long) {
		return
	}
	if !b.exchange.CanAfford(price, b.config.AmountPerGrid) {
		b.logger.Debugf("现金不足, 跳过开多: step %d 价格 %.4f", step, price)
		return
	}
	b.exchange.Open(step, price, b.config.AmountPerGrid, models.Long)
}

// onCrossUp 价格上穿: 优先平最近的多单, 否则尝试开空
func (b *GridTradingBot) onCrossUp(step int, price float64) {
	if top, ok := b.exchange.Top(); ok && top.Side == models.Long {
		b.exchange.CloseLast(step, price, models.Long)
		return
	}

	if !b.shortAllowed(price) {
		return
	}
	if b.config.MinSellPrice > 0 && price < b.config.MinSellPrice {
		return
	}
	if !b.filter.Allow(step, price, models.Short) {
		return
	}
	b.exchange.Open(step, price, b.config.AmountPerGrid, models.Short)
}

// longAllowed 中性策略只在起始价之下做多
func (b *GridTradingBot) longAllowed(price float64) bool {
	switch b.config.StrategyDirection {
	case models.DirectionLongOnly:
		return true
	case models.DirectionNeutral:
		return price < b.market.StartPrice
	default:
		return false
	}
}

// shortAllowed 中性策略只在起始价之上做空
func (b *GridTradingBot) shortAllowed(price float64) bool {
	switch b.config.StrategyDirection {
	case models.DirectionShortOnly:
		return true
	case models.DirectionNeutral:
		return price > b.market.StartPrice
	default:
		return false
	}
}
