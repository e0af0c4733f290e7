// Package portfolio computes scalar performance metrics over finalized
// price series: total and annualized return, Sharpe ratio, and maximum
// drawdown. All functions are pure; undefined ratios come back as NaN.
package portfolio

import (
	"math"

	"github.com/devashah/stockscope/internal/analysis/technical"
	"github.com/devashah/stockscope/pkg/models"
	"github.com/devashah/stockscope/pkg/utils"
)

// TotalReturn calculates (last / first) − 1 over the closes.
func TotalReturn(closes []float64) float64 {
	if len(closes) == 0 || closes[0] == 0 {
		return math.NaN()
	}
	return closes[len(closes)-1]/closes[0] - 1
}

// AnnualizedReturn compounds a total return over n trading days to a
// 252-day year: (1 + total)^(252/n) − 1.
func AnnualizedReturn(totalReturn float64, tradingDays int) float64 {
	if tradingDays <= 0 || math.IsNaN(totalReturn) {
		return math.NaN()
	}
	return math.Pow(1+totalReturn, float64(utils.TradingDaysPerYear)/float64(tradingDays)) - 1
}

// AnnualizedVolatility calculates the sample standard deviation of daily
// returns scaled by √252. NaN returns (the leading warm-up point) are
// skipped; fewer than two usable returns yields NaN.
func AnnualizedVolatility(returns []float64) float64 {
	clean := dropNaN(returns)
	if len(clean) < 2 {
		return math.NaN()
	}
	return stddev(clean) * math.Sqrt(utils.TradingDaysPerYear)
}

// SharpeRatio calculates the annualized risk-adjusted return:
// (annualized mean return − riskFreeRate) / annualized volatility.
// Zero volatility makes the ratio undefined; the result is NaN, never
// a panic or Inf.
func SharpeRatio(returns []float64, riskFreeRate float64) float64 {
	clean := dropNaN(returns)
	if len(clean) < 2 {
		return math.NaN()
	}

	annReturn := math.Pow(1+mean(clean), utils.TradingDaysPerYear) - 1
	annVol := stddev(clean) * math.Sqrt(utils.TradingDaysPerYear)
	if annVol == 0 {
		return math.NaN()
	}
	return (annReturn - riskFreeRate) / annVol
}

// MaxDrawdown calculates the largest peak-to-trough decline as a ratio
// in [−1, 0]: the minimum over time of close/runningPeak − 1.
func MaxDrawdown(closes []float64) float64 {
	if len(closes) == 0 {
		return math.NaN()
	}

	peak := closes[0]
	maxDD := 0.0
	for _, c := range closes {
		if c > peak {
			peak = c
		}
		if peak > 0 {
			if dd := c/peak - 1; dd < maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// Compute calculates the full metrics summary for one price series.
func Compute(series *models.PriceSeries, riskFreeRate float64) *models.PortfolioMetrics {
	closes := series.Closes()
	returns := technical.DailyReturns(closes)

	m := &models.PortfolioMetrics{
		Ticker:      series.Ticker,
		TradingDays: series.Len(),
	}
	if first, ok := series.First(); ok {
		m.From = first.Date
	}
	if last, ok := series.Last(); ok {
		m.To = last.Date
	}

	m.TotalReturn = TotalReturn(closes)
	m.AnnualizedReturn = AnnualizedReturn(m.TotalReturn, m.TradingDays)
	m.Volatility = AnnualizedVolatility(returns)
	m.SharpeRatio = SharpeRatio(returns, riskFreeRate)
	m.MaxDrawdown = MaxDrawdown(closes)

	return m
}

// --- helpers ---

func dropNaN(data []float64) []float64 {
	clean := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	return clean
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

// stddev returns the sample standard deviation (n−1 denominator).
func stddev(data []float64) float64 {
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
