package models

import "time"

// IndicatorSet holds the derived series for one ticker. Every slice is the
// same length as the source series and aligned 1:1 with Dates; points that
// cannot be computed (indicator warm-up, zero rolling deviation) are NaN.
type IndicatorSet struct {
	Ticker string      `json:"ticker"`
	Dates  []time.Time `json:"dates"`

	SMA        []float64 `json:"sma"`
	EMAFast    []float64 `json:"ema_fast"`
	EMASlow    []float64 `json:"ema_slow"`
	MACDLine   []float64 `json:"macd_line"`
	SignalLine []float64 `json:"signal_line"`
	Histogram  []float64 `json:"histogram"`

	DailyReturns      []float64 `json:"daily_returns"`
	CumulativeReturn  []float64 `json:"cumulative_return"`
	RollingVolatility []float64 `json:"rolling_volatility"`
	ZScore            []float64 `json:"z_score"`

	// Warnings collects non-fatal computation notes, e.g. a series too
	// short for a requested window.
	Warnings []string `json:"warnings,omitempty"`
}

// PortfolioMetrics holds scalar performance summaries for one ticker
// (or the combined portfolio). Ratio metrics that are undefined for the
// input (zero volatility, empty series) are NaN.
type PortfolioMetrics struct {
	Ticker           string    `json:"ticker"`
	TotalReturn      float64   `json:"total_return"`
	AnnualizedReturn float64   `json:"annualized_return"`
	Volatility       float64   `json:"volatility"`
	SharpeRatio      float64   `json:"sharpe_ratio"`
	MaxDrawdown      float64   `json:"max_drawdown"`
	TradingDays      int       `json:"trading_days"`
	From             time.Time `json:"from,omitzero"`
	To               time.Time `json:"to,omitzero"`
}

// Analysis bundles everything computed for one ticker in a single run.
type Analysis struct {
	Ticker          string                `json:"ticker"`
	Series          *PriceSeries          `json:"series,omitempty"`
	Indicators      *IndicatorSet         `json:"indicators,omitempty"`
	Metrics         *PortfolioMetrics     `json:"metrics,omitempty"`
	Quote           *Quote                `json:"quote,omitempty"`
	Profile         *CompanyProfile       `json:"profile,omitempty"`
	Recommendations []RecommendationTrend `json:"recommendations,omitempty"`
	Earnings        *EarningsCalendar     `json:"earnings,omitempty"`
	News            []NewsArticle         `json:"news,omitempty"`
	FetchedAt       time.Time             `json:"fetched_at"`
}

// PortfolioSummary aggregates metrics across all analyzed tickers.
type PortfolioSummary struct {
	Tickers    []string           `json:"tickers"`
	PerTicker  []PortfolioMetrics `json:"per_ticker"`
	Combined   *PortfolioMetrics  `json:"combined,omitempty"`
	CommonDays int                `json:"common_days"`
}
