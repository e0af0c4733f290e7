package report

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/devashah/stockscope/pkg/models"
)

func testAnalysis() *models.Analysis {
	bars := make([]models.PriceBar, 40)
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		price := 100.0 + float64(i)*0.5
		bars[i] = models.PriceBar{
			Date:   base.AddDate(0, 0, i),
			Open:   price - 0.3,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 1_000_000 + int64(i)*1000,
		}
	}
	series := models.NewPriceSeries("TEST", bars)

	n := len(bars)
	ind := &models.IndicatorSet{
		Ticker:            "TEST",
		Dates:             series.Dates(),
		SMA:               nanThen(n, 19, 104),
		EMAFast:           nanThen(n, 19, 105),
		EMASlow:           nanSliceN(n),
		MACDLine:          nanThen(n, 25, 0.4),
		SignalLine:        nanThen(n, 33, 0.3),
		Histogram:         nanThen(n, 33, 0.1),
		RollingVolatility: nanThen(n, 20, 0.18),
	}

	return &models.Analysis{
		Ticker:     "TEST",
		Series:     series,
		Indicators: ind,
		Metrics: &models.PortfolioMetrics{
			Ticker:           "TEST",
			TotalReturn:      0.195,
			AnnualizedReturn: 2.1,
			Volatility:       0.18,
			SharpeRatio:      1.4,
			MaxDrawdown:      -0.02,
			TradingDays:      n,
			From:             bars[0].Date,
			To:               bars[n-1].Date,
		},
		Quote: &models.Quote{
			Ticker:    "TEST",
			Name:      "Test Corp",
			Exchange:  "NasdaqGS",
			LastPrice: 119.5,
			Change:    0.5,
			ChangePct: 0.42,
			Volume:    1_200_000,
			MarketCap: 5_000_000_000,
		},
		Profile: &models.CompanyProfile{
			Ticker:   "TEST",
			Sector:   "Technology",
			Industry: "Software",
			Summary:  "Test Corp builds testing software.",
		},
		Recommendations: []models.RecommendationTrend{
			{Period: "0m", StrongBuy: 5, Buy: 10, Hold: 3, Sell: 1},
		},
		News: []models.NewsArticle{
			{Title: "Test Corp ships v2", Link: "https://example.com/a", PublishedAt: base},
		},
		FetchedAt: time.Now(),
	}
}

func nanSliceN(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// nanThen returns a slice of n values, NaN for the first warmup entries
// and a constant after.
func nanThen(n, warmup int, value float64) []float64 {
	out := nanSliceN(n)
	for i := warmup; i < n; i++ {
		out[i] = value
	}
	return out
}

func TestGenerateHTML(t *testing.T) {
	html, err := GenerateHTML(testAnalysis(), DefaultReportConfig())
	if err != nil {
		t.Fatalf("GenerateHTML: %v", err)
	}

	for _, want := range []string{
		"<!DOCTYPE html>",
		"TEST",
		"Test Corp",
		// html/template escapes the leading "+" to &#43; in text nodes.
		"&#43;19.50%", // total return
		"Sharpe",
		"<svg",
		"Analyst Recommendations",
		"Test Corp ships v2",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestGenerateHTMLNilAnalysis(t *testing.T) {
	if _, err := GenerateHTML(nil, DefaultReportConfig()); err == nil {
		t.Error("expected error for nil analysis")
	}
}

func TestGenerateHTMLMinimal(t *testing.T) {
	// Only ticker and metrics, no quote/profile/charts.
	a := &models.Analysis{
		Ticker:  "BARE",
		Metrics: &models.PortfolioMetrics{Ticker: "BARE", TotalReturn: 0.1, SharpeRatio: math.NaN()},
	}
	html, err := GenerateHTML(a, DefaultReportConfig())
	if err != nil {
		t.Fatalf("GenerateHTML: %v", err)
	}
	if !strings.Contains(html, "BARE") {
		t.Error("HTML missing ticker")
	}
	// NaN Sharpe renders as a placeholder, not "NaN".
	if strings.Contains(html, "NaN") {
		t.Error("HTML leaked NaN")
	}
}

func TestGenerateText(t *testing.T) {
	text, err := GenerateText(testAnalysis(), DefaultReportConfig())
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	for _, want := range []string{"PERFORMANCE", "Total Return", "ANALYST RECOMMENDATIONS", "RECENT NEWS"} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q", want)
		}
	}
}

func TestPortfolioText(t *testing.T) {
	summary := &models.PortfolioSummary{
		Tickers: []string{"AAA", "BBB"},
		PerTicker: []models.PortfolioMetrics{
			{Ticker: "AAA", TotalReturn: 0.10, SharpeRatio: 1.2, MaxDrawdown: -0.05},
			{Ticker: "BBB", TotalReturn: -0.02, SharpeRatio: math.NaN(), MaxDrawdown: -0.12},
		},
		Combined:   &models.PortfolioMetrics{Ticker: "PORTFOLIO", TotalReturn: 0.04},
		CommonDays: 250,
	}

	text := PortfolioText(summary)
	for _, want := range []string{"AAA", "BBB", "PORTFOLIO", "250 common trading days"} {
		if !strings.Contains(text, want) {
			t.Errorf("portfolio text missing %q", want)
		}
	}
	// Undefined Sharpe shows the placeholder.
	if !strings.Contains(text, "—") {
		t.Error("expected placeholder for NaN Sharpe")
	}
}

func TestPortfolioTextEmpty(t *testing.T) {
	if got := PortfolioText(nil); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
	if got := PortfolioText(&models.PortfolioSummary{}); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestCandlestickChartEmpty(t *testing.T) {
	svg := CandlestickChart(nil, nil, ChartConfig{})
	if !strings.Contains(svg, "No data") {
		t.Error("expected empty-state SVG")
	}
}

func TestCandlestickChartSkipsNaNOverlay(t *testing.T) {
	a := testAnalysis()
	cfg := DefaultChartConfig()
	cfg.Title = "t"
	svg := CandlestickChart(a.Series.Bars, map[string][]float64{
		"EMA fast": a.Indicators.EMAFast,
	}, cfg)
	if !strings.Contains(svg, "EMA fast") {
		t.Error("expected overlay legend")
	}
	if strings.Contains(svg, "NaN") {
		t.Error("SVG leaked NaN")
	}
}

func TestMACDChartAllNaN(t *testing.T) {
	a := testAnalysis()
	n := a.Series.Len()
	svg := MACDChart(a.Series.Bars, nanSliceN(n), nanSliceN(n), nanSliceN(n), DefaultChartConfig())
	if !strings.Contains(svg, "not yet defined") {
		t.Error("expected empty-state SVG for all-NaN MACD")
	}
}

func TestLineChartRendersSeries(t *testing.T) {
	svg := LineChart([]LineChartSeries{
		{Name: "Volatility", Values: []float64{math.NaN(), 0.2, 0.25, 0.22}},
	}, []string{"a", "b", "c", "d"}, DefaultChartConfig())
	if !strings.Contains(svg, "Volatility") {
		t.Error("expected series legend")
	}
	if !strings.Contains(svg, "<path") {
		t.Error("expected a line path")
	}
}

func TestRecommendationChart(t *testing.T) {
	svg := RecommendationChart(models.RecommendationTrend{
		Period: "0m", StrongBuy: 3, Buy: 7, Hold: 2,
	}, ChartConfig{})
	for _, want := range []string{"Strong Buy", "Hold", "0m"} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
}

func TestEscapeXML(t *testing.T) {
	got := escapeXML(`a<b>&"c"`)
	if got != "a&lt;b&gt;&amp;&quot;c&quot;" {
		t.Errorf("escapeXML = %q", got)
	}
}
