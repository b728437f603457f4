package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validGrid() GridConfig {
	return GridConfig{
		LowerPrice:        900,
		UpperPrice:        1100,
		Grids:             20,
		InitialCapital:    10000,
		AmountPerGrid:     0.1,
		GridType:          GridArithmetic,
		StrategyDirection: DirectionLongOnly,
		EntryFilter:       FilterNone,
	}
}

func TestGridValidateLowerBoundDependsOnGridType(t *testing.T) {
	g := validGrid()
	g.LowerPrice = 0
	assert.NoError(t, g.Validate(), "arithmetic grids may start at zero")

	g.GridType = GridGeometric
	assert.True(t, errors.Is(g.Validate(), ErrInvalidGridConfig))

	g.GridType = GridArithmetic
	g.LowerPrice = -1
	assert.True(t, errors.Is(g.Validate(), ErrInvalidGridConfig))
}

func TestGridValidateEmptyFilterMeansNone(t *testing.T) {
	g := validGrid()
	g.EntryFilter = ""
	assert.NoError(t, g.Validate())

	g.EntryFilter = "MACD"
	assert.True(t, errors.Is(g.Validate(), ErrInvalidGridConfig))
}

func TestGridValidateRejectsBadRanges(t *testing.T) {
	cases := map[string]func(*GridConfig){
		"inverted bounds": func(g *GridConfig) { g.UpperPrice = 800 },
		"too few grids":   func(g *GridConfig) { g.Grids = 1 },
		"zero lot":        func(g *GridConfig) { g.AmountPerGrid = 0 },
		"negative stop":   func(g *GridConfig) { g.StopLoss = -5 },
		"unknown type":    func(g *GridConfig) { g.GridType = "Log" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			g := validGrid()
			mutate(&g)
			assert.True(t, errors.Is(g.Validate(), ErrInvalidGridConfig))
		})
	}
}

func TestMarketValidate(t *testing.T) {
	m := MarketConfig{StartPrice: 1000, Steps: 10, Model: ModelGBM}
	assert.NoError(t, m.Validate())

	m.Model = ModelOU
	assert.True(t, errors.Is(m.Validate(), ErrInvalidMarketConfig), "OU needs a long term mean")
	m.LongTermMean = 1000
	assert.NoError(t, m.Validate())

	m.Steps = 0
	assert.True(t, errors.Is(m.Validate(), ErrInvalidMarketConfig))
}
