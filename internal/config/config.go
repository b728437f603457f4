package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"grid-sim-go/internal/models"
)

// Default 返回默认配置: 1000 步 GBM 行情, 900-1100 区间 20 格的纯多网格
func Default() *models.Config {
	return &models.Config{
		Market: models.MarketConfig{
			StartPrice:         1000,
			Steps:              1000,
			Model:              models.ModelGBM,
			Drift:              0,
			Volatility:         0.005,
			MeanReversionSpeed: 0.05,
			LongTermMean:       1000,
			JumpIntensity:      0.02,
			JumpMean:           -0.05,
			JumpStd:            0.02,
		},
		Grid: models.GridConfig{
			LowerPrice:        900,
			UpperPrice:        1100,
			Grids:             20,
			InitialCapital:    10000,
			AmountPerGrid:     0.1,
			GridType:          models.GridArithmetic,
			StrategyDirection: models.DirectionLongOnly,
			EntryFilter:       models.FilterNone,
		},
		Sweep: models.SweepConfig{
			Workers:      4,
			GridCounts:   []int{10, 20, 40},
			Volatilities: []float64{0.005, 0.01, 0.02},
			Repetitions:  5,
		},
		LogConfig: models.LogConfig{
			Level:  "info",
			Output: "console",
		},
	}
}

// LoadConfig 从指定路径加载JSON配置文件, 未出现的字段保留默认值。
// 文件不存在时直接返回默认配置。
func LoadConfig(path string) (*models.Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv 用环境变量覆盖配置 (GRIDSIM_SEED, GRIDSIM_DB_PATH, GRIDSIM_LOG_LEVEL)
func ApplyEnv(cfg *models.Config) error {
	if v := strings.TrimSpace(os.Getenv("GRIDSIM_SEED")); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid GRIDSIM_SEED %q: %w", v, err)
		}
		cfg.Seed = seed
	}
	if v := os.Getenv("GRIDSIM_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("GRIDSIM_LOG_LEVEL"); v != "" {
		cfg.LogConfig.Level = v
	}
	return nil
}
