// Package grid computes grid level prices and maps prices to grid zones.
package grid

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"grid-sim-go/internal/models"
)

// ErrInvalidLevels is returned when the inputs cannot produce a finite, increasing ladder.
var ErrInvalidLevels = errors.New("invalid grid levels")

// CalculateLevels returns count+1 ascending boundary prices between lower and upper.
func CalculateLevels(lower, upper float64, count int, gridType models.GridType) ([]float64, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: count must be >= 1, got %d", ErrInvalidLevels, count)
	}
	if !(lower < upper) {
		return nil, fmt.Errorf("%w: lower %v must be below upper %v", ErrInvalidLevels, lower, upper)
	}

	levels := make([]float64, count+1)
	switch gridType {
	case models.GridArithmetic:
		step := (upper - lower) / float64(count)
		for i := range levels {
			levels[i] = lower + float64(i)*step
		}
	case models.GridGeometric:
		if lower <= 0 {
			return nil, fmt.Errorf("%w: geometric grid needs lower > 0, got %v", ErrInvalidLevels, lower)
		}
		r := math.Pow(upper/lower, 1/float64(count))
		for i := range levels {
			levels[i] = lower * math.Pow(r, float64(i))
		}
	default:
		return nil, fmt.Errorf("%w: unknown grid type %q", ErrInvalidLevels, gridType)
	}

	for i, l := range levels {
		if math.IsNaN(l) || math.IsInf(l, 0) {
			return nil, fmt.Errorf("%w: level %d is not finite", ErrInvalidLevels, i)
		}
		if i > 0 && !(l > levels[i-1]) {
			return nil, fmt.Errorf("%w: level %d (%v) does not exceed level %d (%v)", ErrInvalidLevels, i, l, i-1, levels[i-1])
		}
	}
	return levels, nil
}

// Zone maps price to its grid zone: -1 below the ladder, len(levels) above it,
// otherwise i with levels[i] <= price < levels[i+1]. A price exactly on the top
// level belongs to zone len(levels)-1.
func Zone(levels []float64, price float64) int {
	n := len(levels)
	if n == 0 {
		return -1
	}
	if price < levels[0] {
		return -1
	}
	if price > levels[n-1] {
		return n
	}
	// 第一个大于 price 的档位的前一个区间
	i := sort.Search(n, func(i int) bool { return levels[i] > price })
	if i == n {
		return n - 1
	}
	return i - 1
}
