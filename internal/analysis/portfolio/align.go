package portfolio

import (
	"sort"
	"time"

	"github.com/devashah/stockscope/pkg/models"
)

// AlignedCloses holds closing prices for several tickers restricted to
// the trading days they all share.
type AlignedCloses struct {
	Tickers []string
	Dates   []time.Time
	// Closes[i] is the close matrix row for Tickers[i], parallel to Dates.
	Closes [][]float64
}

// Align inner-joins multiple price series on their common trading days.
// Holidays and halts present in only some series are dropped, so every
// row of the result describes the same calendar day for every ticker.
func Align(series []*models.PriceSeries) *AlignedCloses {
	aligned := &AlignedCloses{}
	if len(series) == 0 {
		return aligned
	}

	indexes := make([]map[string]int, len(series))
	for i, s := range series {
		aligned.Tickers = append(aligned.Tickers, s.Ticker)
		indexes[i] = s.IndexByDate()
	}

	// Candidate days come from the first series; keep those all share.
	var keys []string
	byKey := make(map[string]time.Time)
	for _, b := range series[0].Bars {
		key := b.Date.Format("2006-01-02")
		shared := true
		for _, idx := range indexes[1:] {
			if _, ok := idx[key]; !ok {
				shared = false
				break
			}
		}
		if shared {
			keys = append(keys, key)
			byKey[key] = b.Date
		}
	}
	sort.Strings(keys)

	aligned.Closes = make([][]float64, len(series))
	for i := range aligned.Closes {
		aligned.Closes[i] = make([]float64, 0, len(keys))
	}
	for _, key := range keys {
		aligned.Dates = append(aligned.Dates, byKey[key])
		for i, s := range series {
			aligned.Closes[i] = append(aligned.Closes[i], s.Bars[indexes[i][key]].Close)
		}
	}

	return aligned
}

// Len returns the number of shared trading days.
func (a *AlignedCloses) Len() int { return len(a.Dates) }

// EqualWeightCurve builds a combined portfolio value series from aligned
// closes: each asset is normalized to 1.0 at the first shared day and the
// portfolio value is their average. Assets with a zero first close are
// excluded.
func (a *AlignedCloses) EqualWeightCurve() []float64 {
	if a.Len() == 0 {
		return nil
	}

	curve := make([]float64, a.Len())
	assets := 0
	for _, closes := range a.Closes {
		if closes[0] == 0 {
			continue
		}
		assets++
		for j, c := range closes {
			curve[j] += c / closes[0]
		}
	}
	if assets == 0 {
		return nil
	}
	for j := range curve {
		curve[j] /= float64(assets)
	}
	return curve
}

// Summarize computes per-ticker metrics plus combined equal-weight
// portfolio metrics over the tickers' common trading days.
func Summarize(series []*models.PriceSeries, riskFreeRate float64) *models.PortfolioSummary {
	summary := &models.PortfolioSummary{}
	for _, s := range series {
		summary.Tickers = append(summary.Tickers, s.Ticker)
		summary.PerTicker = append(summary.PerTicker, *Compute(s, riskFreeRate))
	}

	if len(series) < 2 {
		return summary
	}

	aligned := Align(series)
	summary.CommonDays = aligned.Len()
	curve := aligned.EqualWeightCurve()
	if len(curve) == 0 {
		return summary
	}

	combined := models.NewPriceSeries("PORTFOLIO", curveToBars(aligned.Dates, curve))
	summary.Combined = Compute(combined, riskFreeRate)
	return summary
}

func curveToBars(dates []time.Time, values []float64) []models.PriceBar {
	bars := make([]models.PriceBar, len(values))
	for i, v := range values {
		bars[i] = models.PriceBar{
			Date:  dates[i],
			Open:  v,
			High:  v,
			Low:   v,
			Close: v,
		}
	}
	return bars
}
