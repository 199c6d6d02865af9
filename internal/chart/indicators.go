package chart

import "math"

// rollingMean computes the window-sized moving average. The first
// window-1 slots are nil.
func rollingMean(values []float64, window int) []*float64 {
	out := make([]*float64, len(values))
	if window <= 0 || len(values) < window {
		return out
	}

	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			mean := sum / float64(window)
			out[i] = &mean
		}
	}
	return out
}

// rollingBollinger computes the upper/lower bands at k sample standard
// deviations around the window-sized moving average.
func rollingBollinger(values []float64, window int, k float64) (upper, lower []*float64) {
	upper = make([]*float64, len(values))
	lower = make([]*float64, len(values))
	if window <= 1 || len(values) < window {
		return upper, lower
	}

	for i := window - 1; i < len(values); i++ {
		slice := values[i-window+1 : i+1]

		var sum float64
		for _, v := range slice {
			sum += v
		}
		mean := sum / float64(window)

		var variance float64
		for _, v := range slice {
			variance += (v - mean) * (v - mean)
		}
		std := math.Sqrt(variance / float64(window-1))

		u := mean + k*std
		l := mean - k*std
		upper[i] = &u
		lower[i] = &l
	}
	return upper, lower
}

// rollingRSI computes the simple-rolling-mean RSI series. Slots before
// the first full window are nil; a zero average loss reads 100.
func rollingRSI(values []float64, period int) []*float64 {
	out := make([]*float64, len(values))
	if period <= 0 || len(values) < period+1 {
		return out
	}

	gains := make([]float64, len(values))
	losses := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	for i := period; i < len(values); i++ {
		var gainSum, lossSum float64
		for j := i - period + 1; j <= i; j++ {
			gainSum += gains[j]
			lossSum += losses[j]
		}

		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)

		var rsi float64
		if avgLoss == 0 {
			rsi = 100
		} else {
			rs := avgGain / avgLoss
			rsi = 100 - 100/(1+rs)
		}
		out[i] = &rsi
	}
	return out
}
