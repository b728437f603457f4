// Package engine runs one complete grid simulation: price path, ladder, bot loop and metrics.
package engine

import (
	"encoding/binary"
	"fmt"

	"grid-sim-go/internal/bot"
	"grid-sim-go/internal/exchange"
	"grid-sim-go/internal/grid"
	"grid-sim-go/internal/models"
	"grid-sim-go/internal/pricepath"
	"grid-sim-go/internal/reporter"
	"grid-sim-go/internal/shock"

	"github.com/jxskiss/base62"
	"go.uber.org/zap"
)

type options struct {
	source shock.Source
	seed   int64
	logger *zap.Logger
}

// Option configures a single Run.
type Option func(*options)

// WithSource injects the shock source. It takes precedence over WithSeed.
func WithSource(src shock.Source) Option {
	return func(o *options) { o.source = src }
}

// WithSeed seeds the default Box-Muller source. 0 means time-seeded.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Run validates both configs (the market config inside pricepath.Generate) and simulates the grid strategy over a freshly generated path.
// The returned result is owned by the caller.
func Run(market models.MarketConfig, gridCfg models.GridConfig, opts ...Option) (*models.SimulationResult, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	// 行情配置由 pricepath.Generate 校验
	if err := gridCfg.Validate(); err != nil {
		return nil, err
	}

	src, seed := resolveSource(o)

	prices, err := pricepath.Generate(market, src)
	if err != nil {
		return nil, fmt.Errorf("failed to generate price path: %w", err)
	}
	levels, err := grid.CalculateLevels(gridCfg.LowerPrice, gridCfg.UpperPrice, gridCfg.Grids, gridCfg.GridType)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate grid levels: %w", err)
	}
	filter, err := bot.NewEntryFilter(gridCfg.EntryFilter, prices)
	if err != nil {
		return nil, err
	}

	runID := RunID(seed)
	logger := o.logger.With(zap.String("run", runID))

	ex := exchange.NewBacktestExchange(gridCfg.InitialCapital, market.Steps, logger)
	gridBot := bot.NewGridTradingBot(market, gridCfg, levels, ex, filter, logger)

	// step 0 也会被处理: 起始价已经决定了初始区间, 这里只记录权益
	for step, price := range prices {
		gridBot.ProcessTick(step, price)
	}

	open := ex.OpenPositions()
	metrics := reporter.CalculateMetrics(gridCfg.InitialCapital, ex.EquityCurve, ex.TradeLog, open, ex.GridProfit)

	path := make([]models.PriceTick, len(prices))
	for i, p := range prices {
		path[i] = models.PriceTick{Step: i, Price: p}
	}

	logger.Info("simulation finished",
		zap.String("model", string(market.Model)),
		zap.Int("steps", market.Steps),
		zap.Int("trades", metrics.TotalTrades),
		zap.Float64("final_equity", metrics.FinalEquity),
		zap.Float64("grid_profit", metrics.GridProfit),
	)

	return &models.SimulationResult{
		RunID:         runID,
		Seed:          seed,
		Market:        market,
		Grid:          gridCfg,
		PricePath:     path,
		EquityCurve:   ex.EquityCurve,
		Trades:        ex.TradeLog,
		OpenPositions: open,
		GridLevels:    levels,
		Metrics:       metrics,
	}, nil
}

// resolveSource 返回本次运行使用的随机源及其种子; 注入的非 BoxMuller 源种子记为 0
func resolveSource(o options) (shock.Source, int64) {
	if o.source != nil {
		if bm, ok := o.source.(*shock.BoxMuller); ok {
			return bm, bm.Seed()
		}
		return o.source, 0
	}
	if o.seed != 0 {
		return shock.New(o.seed), o.seed
	}
	bm := shock.NewRandom()
	return bm, bm.Seed()
}

// RunID encodes a seed as a compact base62 identifier.
func RunID(seed int64) string {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(seed))
	return base62.EncodeToString(buf)
}
