package technical

import (
	"fmt"
	"math"

	"github.com/devashah/stockscope/pkg/models"
)

// Default indicator windows, matching common charting conventions.
const (
	DefaultSMAWindow  = 20
	DefaultEMAFast    = 20
	DefaultEMASlow    = 50
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9
	DefaultVolWindow  = 20
	DefaultZWindow    = 20
)

// Config holds the window sizes for a full indicator computation.
type Config struct {
	SMAWindow    int
	EMAFast      int
	EMASlow      int
	MACDFast     int
	MACDSlow     int
	MACDSignal   int
	VolWindow    int
	ZWindow      int
	AnnualizeVol bool
}

// DefaultConfig returns the standard windows: SMA 20, EMA 20/50,
// MACD 12/26/9, 20-day volatility and Z-score, annualized volatility.
func DefaultConfig() Config {
	return Config{
		SMAWindow:    DefaultSMAWindow,
		EMAFast:      DefaultEMAFast,
		EMASlow:      DefaultEMASlow,
		MACDFast:     DefaultMACDFast,
		MACDSlow:     DefaultMACDSlow,
		MACDSignal:   DefaultMACDSignal,
		VolWindow:    DefaultVolWindow,
		ZWindow:      DefaultZWindow,
		AnnualizeVol: true,
	}
}

// MACDSeries holds the three MACD component series.
type MACDSeries struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// MACD calculates the Moving Average Convergence Divergence.
// Line = EMA(fast) − EMA(slow); Signal = EMA(signal) of the line;
// Histogram = Line − Signal. NaN marks warm-up points throughout.
func MACD(closes []float64, fast, slow, signal int) MACDSeries {
	if fast <= 0 {
		fast = DefaultMACDFast
	}
	if slow <= 0 {
		slow = DefaultMACDSlow
	}
	if signal <= 0 {
		signal = DefaultMACDSignal
	}

	n := len(closes)
	res := MACDSeries{
		Line:      nanSlice(n),
		Signal:    nanSlice(n),
		Histogram: nanSlice(n),
	}

	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)
	for i := 0; i < n; i++ {
		res.Line[i] = fastEMA[i] - slowEMA[i]
	}

	// The signal line smooths only the defined portion of the MACD line;
	// its own warm-up extends the NaN prefix by signal-1 points.
	start := slow - 1
	if start < n {
		sig := EMA(res.Line[start:], signal)
		copy(res.Signal[start:], sig)
	}

	for i := 0; i < n; i++ {
		res.Histogram[i] = res.Line[i] - res.Signal[i]
	}

	return res
}

// DailyReturns calculates simple day-over-day returns from closing prices.
// The first point is NaN; a zero previous close yields NaN, not Inf.
func DailyReturns(closes []float64) []float64 {
	n := len(closes)
	returns := nanSlice(n)
	for i := 1; i < n; i++ {
		if closes[i-1] != 0 {
			returns[i] = closes[i]/closes[i-1] - 1
		}
	}
	return returns
}

// CumulativeReturns calculates the running return relative to the first
// close: cum[i] = closes[i]/closes[0] − 1. The first point is 0.
func CumulativeReturns(closes []float64) []float64 {
	n := len(closes)
	cum := nanSlice(n)
	if n == 0 || closes[0] == 0 {
		return cum
	}
	for i := 0; i < n; i++ {
		cum[i] = closes[i]/closes[0] - 1
	}
	return cum
}

// RollingVolatility calculates the sample standard deviation of returns
// over a trailing window, optionally annualized by √252. Points whose
// window contains a NaN return are NaN.
func RollingVolatility(returns []float64, window int, annualize bool) []float64 {
	n := len(returns)
	result := nanSlice(n)
	if window <= 1 || n < window {
		return result
	}

	factor := 1.0
	if annualize {
		factor = math.Sqrt(252)
	}

	for i := window - 1; i < n; i++ {
		w := returns[i-window+1 : i+1]
		if hasNaN(w) {
			continue
		}
		result[i] = sampleStddev(w) * factor
	}
	return result
}

// ZScore calculates how many standard deviations each value lies from its
// trailing rolling mean. A zero rolling deviation yields NaN; this is the
// divide-by-zero guard for flat windows.
func ZScore(data []float64, window int) []float64 {
	n := len(data)
	result := nanSlice(n)
	if window <= 1 || n < window {
		return result
	}

	for i := window - 1; i < n; i++ {
		w := data[i-window+1 : i+1]
		if hasNaN(w) {
			continue
		}
		m := mean(w)
		sd := sampleStddev(w)
		if sd == 0 || math.IsNaN(sd) {
			continue
		}
		result[i] = (data[i] - m) / sd
	}
	return result
}

// Compute runs the full indicator suite over a price series. A series too
// short for a given window produces an all-NaN indicator and a warning,
// never an error.
func Compute(series *models.PriceSeries, cfg Config) *models.IndicatorSet {
	closes := series.Closes()
	n := len(closes)

	set := &models.IndicatorSet{
		Ticker: series.Ticker,
		Dates:  series.Dates(),
	}

	warn := func(name string, window int) {
		if n < window {
			set.Warnings = append(set.Warnings,
				fmt.Sprintf("%s: %d bars, need %d for %s(%d)", series.Ticker, n, window, name, window))
		}
	}
	warn("SMA", cfg.SMAWindow)
	warn("EMA", cfg.EMAFast)
	warn("EMA", cfg.EMASlow)
	warn("MACD", cfg.MACDSlow)
	warn("volatility", cfg.VolWindow+1)
	warn("zscore", cfg.ZWindow)

	set.SMA = SMA(closes, cfg.SMAWindow)
	set.EMAFast = EMA(closes, cfg.EMAFast)
	set.EMASlow = EMA(closes, cfg.EMASlow)

	macd := MACD(closes, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)
	set.MACDLine = macd.Line
	set.SignalLine = macd.Signal
	set.Histogram = macd.Histogram

	set.DailyReturns = DailyReturns(closes)
	set.CumulativeReturn = CumulativeReturns(closes)
	set.RollingVolatility = RollingVolatility(set.DailyReturns, cfg.VolWindow, cfg.AnnualizeVol)
	set.ZScore = ZScore(closes, cfg.ZWindow)

	return set
}
