package models

import "time"

// Quote represents a near-real-time stock quote.
type Quote struct {
	Ticker        string    `json:"ticker"`
	Name          string    `json:"name"`
	Exchange      string    `json:"exchange,omitempty"`
	Currency      string    `json:"currency,omitempty"`
	LastPrice     float64   `json:"last_price"`
	Change        float64   `json:"change"`
	ChangePct     float64   `json:"change_pct"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	PrevClose     float64   `json:"prev_close"`
	Volume        int64     `json:"volume"`
	WeekHigh52    float64   `json:"week_high_52"`
	WeekLow52     float64   `json:"week_low_52"`
	MarketCap     float64   `json:"market_cap"`
	PE            float64   `json:"pe,omitempty"`
	DividendYield float64   `json:"dividend_yield,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// CompanyProfile holds descriptive company information.
type CompanyProfile struct {
	Ticker    string  `json:"ticker"`
	Name      string  `json:"name"`
	Exchange  string  `json:"exchange,omitempty"`
	Sector    string  `json:"sector,omitempty"`
	Industry  string  `json:"industry,omitempty"`
	Website   string  `json:"website,omitempty"`
	Country   string  `json:"country,omitempty"`
	Summary   string  `json:"summary,omitempty"`
	Employees int     `json:"employees,omitempty"`
	MarketCap float64 `json:"market_cap,omitempty"`
}

// RecommendationTrend is one period of aggregated analyst recommendations.
// Period is relative to now, e.g. "0m" (current month), "-1m", "-2m".
type RecommendationTrend struct {
	Period     string `json:"period"`
	StrongBuy  int    `json:"strong_buy"`
	Buy        int    `json:"buy"`
	Hold       int    `json:"hold"`
	Sell       int    `json:"sell"`
	StrongSell int    `json:"strong_sell"`
}

// Total returns the number of analysts covering the period.
func (r RecommendationTrend) Total() int {
	return r.StrongBuy + r.Buy + r.Hold + r.Sell + r.StrongSell
}

// EarningsCalendar holds upcoming earnings dates and consensus estimates.
type EarningsCalendar struct {
	Ticker          string      `json:"ticker"`
	EarningsDates   []time.Time `json:"earnings_dates,omitempty"`
	EPSAverage      float64     `json:"eps_average,omitempty"`
	EPSLow          float64     `json:"eps_low,omitempty"`
	EPSHigh         float64     `json:"eps_high,omitempty"`
	RevenueAverage  float64     `json:"revenue_average,omitempty"`
	ExDividendDate  time.Time   `json:"ex_dividend_date,omitzero"`
	DividendDate    time.Time   `json:"dividend_date,omitzero"`
}

// NewsArticle represents a single news headline for a ticker.
type NewsArticle struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Source      string    `json:"source,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}
