// Package technical implements technical indicator computation over daily
// price series. All functions return slices the same length as the input,
// with math.NaN() marking points that cannot be computed (indicator warm-up,
// zero rolling deviation). Alignment with the source series is positional;
// the caller carries the matching dates.
package technical

import "math"

// SMA calculates the Simple Moving Average for the given window.
// The first window-1 points are NaN. A series shorter than the window
// yields an entirely-NaN result.
func SMA(data []float64, window int) []float64 {
	n := len(data)
	result := nanSlice(n)
	if window <= 0 || n < window {
		return result
	}

	sum := 0.0
	for i := 0; i < window; i++ {
		sum += data[i]
	}
	result[window-1] = sum / float64(window)

	for i := window; i < n; i++ {
		sum += data[i] - data[i-window]
		result[i] = sum / float64(window)
	}

	return result
}

// EMA calculates the Exponential Moving Average with smoothing factor
// α = 2/(window+1), seeded by the SMA of the first window points.
// The first window-1 points are NaN.
func EMA(data []float64, window int) []float64 {
	n := len(data)
	result := nanSlice(n)
	if window <= 0 || n < window {
		return result
	}

	k := 2.0 / float64(window+1)

	sum := 0.0
	for i := 0; i < window; i++ {
		sum += data[i]
	}
	result[window-1] = sum / float64(window)

	for i := window; i < n; i++ {
		result[i] = data[i]*k + result[i-1]*(1-k)
	}

	return result
}

// WMA calculates the Weighted Moving Average for the given window.
// More recent prices get higher weight.
func WMA(data []float64, window int) []float64 {
	n := len(data)
	result := nanSlice(n)
	if window <= 0 || n < window {
		return result
	}

	denominator := float64(window * (window + 1) / 2)
	for i := window - 1; i < n; i++ {
		weightedSum := 0.0
		for j := 0; j < window; j++ {
			weightedSum += data[i-window+1+j] * float64(j+1)
		}
		result[i] = weightedSum / denominator
	}

	return result
}

// SMALatest returns the most recent SMA value, or NaN if undefined.
func SMALatest(data []float64, window int) float64 {
	return latest(SMA(data, window))
}

// EMALatest returns the most recent EMA value, or NaN if undefined.
func EMALatest(data []float64, window int) float64 {
	return latest(EMA(data, window))
}

// --- helpers ---

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

func latest(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	return vals[len(vals)-1]
}

func mean(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// sampleStddev returns the sample standard deviation (n-1 denominator).
func sampleStddev(data []float64) float64 {
	if len(data) < 2 {
		return math.NaN()
	}
	m := mean(data)
	sumSq := 0.0
	for _, v := range data {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(data)-1))
}

func hasNaN(data []float64) bool {
	for _, v := range data {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
