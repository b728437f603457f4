package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrInvalidMarketConfig 行情配置不合法
	ErrInvalidMarketConfig = errors.New("invalid market config")
	// ErrInvalidGridConfig 网格配置不合法
	ErrInvalidGridConfig = errors.New("invalid grid config")
)

// Config 结构体定义了模拟器的所有配置参数
type Config struct {
	Market    MarketConfig `json:"market"`  // 行情生成参数
	Grid      GridConfig   `json:"grid"`    // 网格策略参数
	Seed      int64        `json:"seed"`    // 随机种子, 0 表示按时间播种
	DBPath    string       `json:"db_path"` // 预设数据库路径, 为空则只使用内置预设
	Sweep     SweepConfig  `json:"sweep"`   // 参数扫描配置
	LogConfig LogConfig    `json:"log"`     // 日志配置
}

// LogConfig 定义了日志相关的配置
type LogConfig struct {
	Level      string `json:"level"`       // 日志级别, e.g., "debug", "info", "warn", "error"
	Output     string `json:"output"`      // 输出模式: "console", "file", "both"
	File       string `json:"file"`        // 日志文件路径
	MaxSize    int    `json:"max_size"`    // 单个日志文件的最大大小 (MB)
	MaxBackups int    `json:"max_backups"` // 保留的旧日志文件最大数量
	MaxAge     int    `json:"max_age"`     // 旧日志文件的最大保留天数
	Compress   bool   `json:"compress"`    // 是否压缩旧日志文件
}

// SweepConfig 定义了参数扫描的维度
type SweepConfig struct {
	Workers      int       `json:"workers"`      // 并发 worker 数量
	GridCounts   []int     `json:"grid_counts"`  // 扫描的网格数量
	Volatilities []float64 `json:"volatilities"` // 扫描的波动率
	Repetitions  int       `json:"repetitions"`  // 每组参数重复次数 (不同种子)
}

// PricingModel 价格路径模型
type PricingModel string

const (
	ModelGBM PricingModel = "GBM" // 几何布朗运动
	ModelOU  PricingModel = "OU"  // 对数价格上的均值回归
	ModelJD  PricingModel = "JD"  // 跳跃扩散
)

// GridType 网格间距模式
type GridType string

const (
	GridArithmetic GridType = "Arithmetic" // 等差
	GridGeometric  GridType = "Geometric"  // 等比
)

// StrategyDirection 策略方向
type StrategyDirection string

const (
	DirectionLongOnly  StrategyDirection = "LONG_ONLY"
	DirectionShortOnly StrategyDirection = "SHORT_ONLY"
	DirectionNeutral   StrategyDirection = "NEUTRAL"
)

// EntryFilter 开仓过滤器
type EntryFilter string

const (
	FilterNone  EntryFilter = "NONE"
	FilterTrend EntryFilter = "TREND" // 价格相对 SMA50
	FilterRSI   EntryFilter = "RSI"   // RSI14 超买超卖
)

// MarketConfig 行情生成配置, 运行期间不可变
type MarketConfig struct {
	StartPrice         float64      `json:"start_price"`
	Steps              int          `json:"steps"`
	Model              PricingModel `json:"model"`
	Drift              float64      `json:"drift"`                // GBM / JD 每步趋势
	Volatility         float64      `json:"volatility"`           // 每步噪声
	MeanReversionSpeed float64      `json:"mean_reversion_speed"` // OU
	LongTermMean       float64      `json:"long_term_mean"`       // OU
	JumpIntensity      float64      `json:"jump_intensity"`       // JD, 每步跳跃概率
	JumpMean           float64      `json:"jump_mean"`            // JD
	JumpStd            float64      `json:"jump_std"`             // JD
}

// Validate 检查行情配置, 避免 NaN/Inf 在模拟中传播
func (m MarketConfig) Validate() error {
	switch {
	case m.Steps < 1:
		return fmt.Errorf("%w: steps must be >= 1, got %d", ErrInvalidMarketConfig, m.Steps)
	case !(m.StartPrice > 0) || math.IsInf(m.StartPrice, 0):
		return fmt.Errorf("%w: start price must be > 0, got %v", ErrInvalidMarketConfig, m.StartPrice)
	case !(m.Volatility >= 0):
		return fmt.Errorf("%w: volatility must be >= 0, got %v", ErrInvalidMarketConfig, m.Volatility)
	}

	switch m.Model {
	case ModelGBM:
	case ModelOU:
		if !(m.LongTermMean > 0) {
			return fmt.Errorf("%w: long term mean must be > 0 for the OU model, got %v", ErrInvalidMarketConfig, m.LongTermMean)
		}
	case ModelJD:
		if m.JumpIntensity < 0 || m.JumpIntensity > 1 {
			return fmt.Errorf("%w: jump intensity must be within [0, 1], got %v", ErrInvalidMarketConfig, m.JumpIntensity)
		}
		if m.JumpStd < 0 {
			return fmt.Errorf("%w: jump std must be >= 0, got %v", ErrInvalidMarketConfig, m.JumpStd)
		}
	default:
		return fmt.Errorf("%w: unknown pricing model %q", ErrInvalidMarketConfig, m.Model)
	}
	return nil
}

// GridConfig 网格策略配置, 运行期间不可变
type GridConfig struct {
	LowerPrice        float64           `json:"lower_price"`
	UpperPrice        float64           `json:"upper_price"`
	Grids             int               `json:"grids"`
	InitialCapital    float64           `json:"initial_capital"`
	AmountPerGrid     float64           `json:"amount_per_grid"`
	GridType          GridType          `json:"grid_type"`
	StopLoss          float64           `json:"stop_loss"`      // 0 表示不启用
	MaxBuyPrice       float64           `json:"max_buy_price"`  // 0 表示不限制
	MinSellPrice      float64           `json:"min_sell_price"` // 0 表示不限制
	StrategyDirection StrategyDirection `json:"strategy_direction"`
	EntryFilter       EntryFilter       `json:"entry_filter"`
}

// Validate 检查网格配置
func (g GridConfig) Validate() error {
	switch {
	case !(g.LowerPrice >= 0):
		return fmt.Errorf("%w: lower price must be >= 0, got %v", ErrInvalidGridConfig, g.LowerPrice)
	case !(g.LowerPrice < g.UpperPrice) || math.IsInf(g.UpperPrice, 0):
		return fmt.Errorf("%w: lower price %v must be below upper price %v", ErrInvalidGridConfig, g.LowerPrice, g.UpperPrice)
	case g.Grids < 2:
		return fmt.Errorf("%w: grids must be >= 2, got %d", ErrInvalidGridConfig, g.Grids)
	case !(g.InitialCapital >= 0):
		return fmt.Errorf("%w: initial capital must be >= 0, got %v", ErrInvalidGridConfig, g.InitialCapital)
	case !(g.AmountPerGrid > 0):
		return fmt.Errorf("%w: amount per grid must be > 0, got %v", ErrInvalidGridConfig, g.AmountPerGrid)
	case g.StopLoss < 0 || g.MaxBuyPrice < 0 || g.MinSellPrice < 0:
		return fmt.Errorf("%w: stop loss and trigger prices must not be negative", ErrInvalidGridConfig)
	}

	switch g.GridType {
	case GridArithmetic:
	case GridGeometric:
		// 等比网格需要计算 upper/lower
		if !(g.LowerPrice > 0) {
			return fmt.Errorf("%w: geometric grid needs lower price > 0, got %v", ErrInvalidGridConfig, g.LowerPrice)
		}
	default:
		return fmt.Errorf("%w: unknown grid type %q", ErrInvalidGridConfig, g.GridType)
	}
	switch g.StrategyDirection {
	case DirectionLongOnly, DirectionShortOnly, DirectionNeutral:
	default:
		return fmt.Errorf("%w: unknown strategy direction %q", ErrInvalidGridConfig, g.StrategyDirection)
	}
	// 空值等同于 NONE
	switch g.EntryFilter {
	case "", FilterNone, FilterTrend, FilterRSI:
	default:
		return fmt.Errorf("%w: unknown entry filter %q", ErrInvalidGridConfig, g.EntryFilter)
	}
	return nil
}

// Preset 是一个命名的场景配置, 保存在预设仓库中
type Preset struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Market      MarketConfig `json:"market"`
	Grid        *GridConfig  `json:"grid,omitempty"` // 为空时沿用当前网格配置
	Builtin     bool         `json:"builtin"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
