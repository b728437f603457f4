// Package pricepath generates synthetic price paths for the supported stochastic models.
package pricepath

import (
	"fmt"
	"math"

	"grid-sim-go/internal/models"
	"grid-sim-go/internal/shock"
)

// MinPrice is the floor applied by the additive-return models.
const MinPrice = 0.01

// Generator produces Steps+1 prices starting at cfg.StartPrice.
type Generator func(cfg models.MarketConfig, src shock.Source) []float64

var generators = map[models.PricingModel]Generator{
	models.ModelGBM: GBM,
	models.ModelOU:  MeanReverting,
	models.ModelJD:  JumpDiffusion,
}

// Generate validates cfg and dispatches to the generator of cfg.Model.
func Generate(cfg models.MarketConfig, src shock.Source) ([]float64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	gen, ok := generators[cfg.Model]
	if !ok {
		return nil, fmt.Errorf("%w: no generator for model %q", models.ErrInvalidMarketConfig, cfg.Model)
	}
	return gen(cfg, src), nil
}

// GBM: price[i] = price[i-1] * (1 + drift + volatility*Z), floored at MinPrice.
func GBM(cfg models.MarketConfig, src shock.Source) []float64 {
	prices := make([]float64, 0, cfg.Steps+1)
	price := cfg.StartPrice
	prices = append(prices, price)

	for i := 1; i <= cfg.Steps; i++ {
		z := src.Normal()
		price = floor(price + price*(cfg.Drift+cfg.Volatility*z))
		prices = append(prices, price)
	}
	return prices
}

// MeanReverting is an Ornstein-Uhlenbeck process on log price, so it needs no floor.
// Speed acts as theta*dt.
func MeanReverting(cfg models.MarketConfig, src shock.Source) []float64 {
	prices := make([]float64, 0, cfg.Steps+1)
	prices = append(prices, cfg.StartPrice)

	logMean := math.Log(cfg.LongTermMean)
	logPrice := math.Log(cfg.StartPrice)
	for i := 1; i <= cfg.Steps; i++ {
		z := src.Normal()
		logPrice += cfg.MeanReversionSpeed*(logMean-logPrice) + cfg.Volatility*z
		prices = append(prices, math.Exp(logPrice))
	}
	return prices
}

// JumpDiffusion is GBM plus a Bernoulli(JumpIntensity) jump of size N(JumpMean, JumpStd) per step.
func JumpDiffusion(cfg models.MarketConfig, src shock.Source) []float64 {
	prices := make([]float64, 0, cfg.Steps+1)
	price := cfg.StartPrice
	prices = append(prices, price)

	for i := 1; i <= cfg.Steps; i++ {
		ret := cfg.Drift + cfg.Volatility*src.Normal()
		if src.Uniform() < cfg.JumpIntensity {
			ret += src.Normal()*cfg.JumpStd + cfg.JumpMean
		}
		price = floor(price + price*ret)
		prices = append(prices, price)
	}
	return prices
}

func floor(price float64) float64 {
	if price < MinPrice {
		return MinPrice
	}
	return price
}
