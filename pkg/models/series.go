// Package models defines the core data structures used throughout StockScope.
package models

import (
	"fmt"
	"sort"
	"time"
)

// PriceBar represents one trading day of OHLCV price data.
type PriceBar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   int64     `json:"volume"`
	AdjClose float64   `json:"adj_close,omitempty"`
}

// PriceSeries is an ordered sequence of daily bars for a single ticker.
// Bars are sorted by date, strictly increasing, with no duplicate dates.
// A series is immutable once fetched; derived data lives elsewhere.
type PriceSeries struct {
	Ticker string     `json:"ticker"`
	Bars   []PriceBar `json:"bars"`
}

// NewPriceSeries builds a series from raw bars, sorting by date and
// dropping duplicate dates (the later bar wins).
func NewPriceSeries(ticker string, bars []PriceBar) *PriceSeries {
	sorted := make([]PriceBar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	deduped := sorted[:0]
	for _, b := range sorted {
		if len(deduped) > 0 && sameDay(deduped[len(deduped)-1].Date, b.Date) {
			deduped[len(deduped)-1] = b
			continue
		}
		deduped = append(deduped, b)
	}

	return &PriceSeries{Ticker: ticker, Bars: deduped}
}

// Len returns the number of bars in the series.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

// Validate checks the series invariants: dates strictly increasing,
// no duplicates, non-negative volume.
func (s *PriceSeries) Validate() error {
	for i := 1; i < len(s.Bars); i++ {
		prev, cur := s.Bars[i-1].Date, s.Bars[i].Date
		if !cur.After(prev) {
			return fmt.Errorf("series %s: bar %d date %s not after %s",
				s.Ticker, i, cur.Format("2006-01-02"), prev.Format("2006-01-02"))
		}
	}
	for i, b := range s.Bars {
		if b.Volume < 0 {
			return fmt.Errorf("series %s: bar %d has negative volume", s.Ticker, i)
		}
	}
	return nil
}

// Closes returns the closing prices in date order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Dates returns the bar dates in order.
func (s *PriceSeries) Dates() []time.Time {
	dates := make([]time.Time, len(s.Bars))
	for i, b := range s.Bars {
		dates[i] = b.Date
	}
	return dates
}

// First returns the earliest bar. The second return is false for an empty series.
func (s *PriceSeries) First() (PriceBar, bool) {
	if s.Len() == 0 {
		return PriceBar{}, false
	}
	return s.Bars[0], true
}

// Last returns the most recent bar. The second return is false for an empty series.
func (s *PriceSeries) Last() (PriceBar, bool) {
	if s.Len() == 0 {
		return PriceBar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// IndexByDate returns a lookup from calendar day (yyyy-mm-dd) to bar position.
// Alignment across tickers is by date, not positional index, so that missing
// trading days in one series do not shift another.
func (s *PriceSeries) IndexByDate() map[string]int {
	idx := make(map[string]int, len(s.Bars))
	for i, b := range s.Bars {
		idx[b.Date.Format("2006-01-02")] = i
	}
	return idx
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
