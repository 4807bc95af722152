package indicator

import (
	"math"
	"sort"
)

// ewm computes an exponentially weighted mean with alpha = 2/(span+1),
// seeded with the first value. Matches the recursive (non-adjusted) form.
func ewm(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	alpha := 2.0 / (float64(span) + 1.0)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// sma computes a simple moving average. Positions before the window fills,
// or windows containing NaN, yield NaN.
func sma(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if window <= 0 || len(values) < window {
		return out
	}

	for i := window - 1; i < len(values); i++ {
		sum := 0.0
		valid := true
		for j := i - window + 1; j <= i; j++ {
			if math.IsNaN(values[j]) {
				valid = false
				break
			}
			sum += values[j]
		}
		if valid {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// rollingQuantile computes a rolling quantile with linear interpolation
// between order statistics.
func rollingQuantile(values []float64, window int, q float64) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if window <= 0 || len(values) < window {
		return out
	}

	buf := make([]float64, window)
	for i := window - 1; i < len(values); i++ {
		valid := true
		for j := 0; j < window; j++ {
			v := values[i-window+1+j]
			if math.IsNaN(v) {
				valid = false
				break
			}
			buf[j] = v
		}
		if !valid {
			continue
		}

		sort.Float64s(buf)
		pos := q * float64(window-1)
		lo := int(math.Floor(pos))
		frac := pos - float64(lo)
		if lo+1 < window {
			out[i] = buf[lo] + frac*(buf[lo+1]-buf[lo])
		} else {
			out[i] = buf[lo]
		}
	}
	return out
}

// rollingRankPct computes the percentage rank of the last value within each
// rolling window, averaging ranks across ties.
func rollingRankPct(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if window <= 0 || len(values) < window {
		return out
	}

	for i := window - 1; i < len(values); i++ {
		last := values[i]
		if math.IsNaN(last) {
			continue
		}

		less, equal := 0, 0
		valid := true
		for j := i - window + 1; j <= i; j++ {
			v := values[j]
			if math.IsNaN(v) {
				valid = false
				break
			}
			if v < last {
				less++
			} else if v == last {
				equal++
			}
		}
		if !valid {
			continue
		}

		rank := float64(less) + (float64(equal)+1.0)/2.0
		out[i] = rank / float64(window)
	}
	return out
}

// shift returns the series delayed by n positions, padding the front with NaN.
func shift(values []float64, n int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		if i < n {
			out[i] = math.NaN()
		} else {
			out[i] = values[i-n]
		}
	}
	return out
}
