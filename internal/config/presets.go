package config

import (
	"errors"
	"fmt"

	"grid-sim-go/internal/models"
	"grid-sim-go/internal/persistence"
)

// BuiltinPresets 返回内置行情场景。
// 每个场景都切换到 GBM 模型, 只改变趋势和波动率, 其余行情参数沿用 base。
func BuiltinPresets(base models.MarketConfig) []models.Preset {
	gbm := func(drift, volatility float64) models.MarketConfig {
		m := base
		m.Model = models.ModelGBM
		m.Drift = drift
		m.Volatility = volatility
		return m
	}

	return []models.Preset{
		{Name: "uptrend", Description: "steady upward drift", Market: gbm(0.0008, 0.008), Builtin: true},
		{Name: "downtrend", Description: "steady downward drift", Market: gbm(-0.0008, 0.008), Builtin: true},
		{Name: "sideways", Description: "no trend, low noise", Market: gbm(0, 0.005), Builtin: true},
		{Name: "volatile", Description: "no trend, high noise", Market: gbm(0, 0.02), Builtin: true},
	}
}

// FindBuiltin 按名称查找内置场景
func FindBuiltin(name string, base models.MarketConfig) (models.Preset, bool) {
	for _, p := range BuiltinPresets(base) {
		if p.Name == name {
			return p, true
		}
	}
	return models.Preset{}, false
}

// ResolvePreset 先查预设仓库, 再查内置场景; repo 为 nil 时只查内置
func ResolvePreset(name string, repo persistence.PresetRepository, base models.MarketConfig) (models.Preset, error) {
	if repo != nil {
		p, err := repo.LoadPreset(name)
		if err == nil {
			return *p, nil
		}
		if !errors.Is(err, persistence.ErrPresetNotFound) {
			return models.Preset{}, fmt.Errorf("failed to load preset %s: %w", name, err)
		}
	}
	if p, ok := FindBuiltin(name, base); ok {
		return p, nil
	}
	return models.Preset{}, fmt.Errorf("%w: %s", persistence.ErrPresetNotFound, name)
}

// ApplyPreset 用预设覆盖行情配置, 预设带网格配置时一并覆盖
func ApplyPreset(cfg *models.Config, p models.Preset) {
	cfg.Market = p.Market
	if p.Grid != nil {
		cfg.Grid = *p.Grid
	}
}
