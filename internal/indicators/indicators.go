// Package indicators computes the technical series used by the entry filters.
package indicators

// NeutralRSI is reported while there is not enough history.
const NeutralRSI = 50.0

// SMA returns the simple moving average of data over period using a rolling sum.
// Indices with fewer than period samples carry the raw price.
func SMA(data []float64, period int) []float64 {
	sma := make([]float64, len(data))
	if period <= 1 {
		copy(sma, data)
		return sma
	}

	var sum float64
	for i, v := range data {
		sum += v
		if i >= period {
			sum -= data[i-period]
		}
		if i < period-1 {
			sma[i] = v
			continue
		}
		sma[i] = sum / float64(period)
	}
	return sma
}

// RSI returns Wilder's relative strength index.
// Averages are seeded from the first period deltas and smoothed with weight
// (period-1)/period afterwards. Values up to and including index period stay
// neutral; a zero average loss yields 100.
func RSI(data []float64, period int) []float64 {
	rsi := make([]float64, len(data))
	for i := range rsi {
		rsi[i] = NeutralRSI
	}
	if period < 1 || len(data) < period+1 {
		return rsi
	}

	var gains, losses float64
	for i := 1; i <= period; i++ {
		change := data[i] - data[i-1]
		if change >= 0 {
			gains += change
		} else {
			losses -= change
		}
	}
	p := float64(period)
	avgGain := gains / p
	avgLoss := losses / p

	for i := period + 1; i < len(data); i++ {
		change := data[i] - data[i-1]
		var gain, loss float64
		if change >= 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p

		if avgLoss == 0 {
			rsi[i] = 100
			continue
		}
		rs := avgGain / avgLoss
		rsi[i] = 100 - 100/(1+rs)
	}
	return rsi
}
