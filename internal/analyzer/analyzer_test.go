package analyzer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/devashah/stockscope/internal/datasource"
	"github.com/devashah/stockscope/internal/report"
	"github.com/devashah/stockscope/pkg/models"
)

// fakeSource serves canned series and fails for tickers listed in failing.
type fakeSource struct {
	failing map[string]error
	bars    int
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) GetHistoricalData(_ context.Context, ticker string, from, _ time.Time) (*models.PriceSeries, error) {
	if err, ok := f.failing[ticker]; ok {
		return nil, err
	}
	n := f.bars
	if n == 0 {
		n = 60
	}
	bars := make([]models.PriceBar, n)
	for i := range bars {
		price := 100.0 + float64(i)
		bars[i] = models.PriceBar{
			Date:   from.AddDate(0, 0, i),
			Open:   price,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 1000,
		}
	}
	return models.NewPriceSeries(ticker, bars), nil
}

func (f *fakeSource) GetQuote(_ context.Context, ticker string) (*models.Quote, error) {
	return &models.Quote{Ticker: ticker, Name: ticker + " Inc.", LastPrice: 150}, nil
}

func (f *fakeSource) GetCompanyProfile(_ context.Context, ticker string) (*models.CompanyProfile, error) {
	return &models.CompanyProfile{Ticker: ticker, Sector: "Technology"}, nil
}

func (f *fakeSource) GetRecommendations(_ context.Context, _ string) ([]models.RecommendationTrend, error) {
	return []models.RecommendationTrend{{Period: "0m", Buy: 5}}, nil
}

func (f *fakeSource) GetEarnings(_ context.Context, _ string) (*models.EarningsCalendar, error) {
	return nil, datasource.ErrNotSupported
}

type fakeNews struct{ calls int }

func (f *fakeNews) GetNews(_ context.Context, ticker string, _ int) ([]models.NewsArticle, error) {
	f.calls++
	return []models.NewsArticle{{Title: ticker + " in the news", Link: "https://example.com"}}, nil
}

func runRange() (time.Time, time.Time) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 3, 0)
}

func TestRunMultipleTickers(t *testing.T) {
	src := &fakeSource{}
	news := &fakeNews{}
	a := New(src, news, DefaultOptions(), nil)

	from, to := runRange()
	result, err := a.Run(context.Background(), []string{"aaa", "BBB"}, from, to)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Analyses) != 2 {
		t.Fatalf("analyses = %d, want 2", len(result.Analyses))
	}
	// Input order preserved, tickers normalized.
	if result.Analyses[0].Ticker != "AAA" || result.Analyses[1].Ticker != "BBB" {
		t.Errorf("order = %s, %s", result.Analyses[0].Ticker, result.Analyses[1].Ticker)
	}

	first := result.Analyses[0]
	if first.Indicators == nil || first.Metrics == nil {
		t.Fatal("expected indicators and metrics")
	}
	if first.Quote == nil || first.Profile == nil {
		t.Error("expected metadata")
	}
	if len(first.News) != 1 {
		t.Errorf("news = %d, want 1", len(first.News))
	}

	if result.Summary == nil || result.Summary.Combined == nil {
		t.Fatal("expected combined portfolio summary for 2 tickers")
	}
	if len(result.Summary.PerTicker) != 2 {
		t.Errorf("per-ticker metrics = %d, want 2", len(result.Summary.PerTicker))
	}
}

func TestRunPartialFailure(t *testing.T) {
	src := &fakeSource{failing: map[string]error{
		"BAD": datasource.ErrTickerNotFound,
	}}
	a := New(src, nil, DefaultOptions(), nil)

	from, to := runRange()
	result, err := a.Run(context.Background(), []string{"GOOD", "BAD"}, from, to)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Analyses) != 1 || result.Analyses[0].Ticker != "GOOD" {
		t.Fatalf("expected only GOOD to succeed, got %d analyses", len(result.Analyses))
	}
	if !errors.Is(result.Errors["BAD"], datasource.ErrTickerNotFound) {
		t.Errorf("errors[BAD] = %v", result.Errors["BAD"])
	}
	// Single survivor: per-ticker metrics but no combined row.
	if result.Summary.Combined != nil {
		t.Error("expected no combined metrics for a single ticker")
	}
}

func TestRunAllFail(t *testing.T) {
	src := &fakeSource{failing: map[string]error{
		"AAA": datasource.ErrTickerNotFound,
		"BBB": fmt.Errorf("connection refused"),
	}}
	a := New(src, nil, DefaultOptions(), nil)

	from, to := runRange()
	_, err := a.Run(context.Background(), []string{"AAA", "BBB"}, from, to)
	if err == nil {
		t.Fatal("expected error when every ticker fails")
	}
	if !errors.Is(err, datasource.ErrTickerNotFound) {
		t.Errorf("joined error should preserve causes, got %v", err)
	}
}

func TestRunNoTickers(t *testing.T) {
	a := New(&fakeSource{}, nil, DefaultOptions(), nil)
	from, to := runRange()
	if _, err := a.Run(context.Background(), nil, from, to); err == nil {
		t.Error("expected error for empty ticker list")
	}
}

func TestRunSkipMetadata(t *testing.T) {
	src := &fakeSource{}
	news := &fakeNews{}
	opts := DefaultOptions()
	opts.SkipMetadata = true
	a := New(src, news, opts, nil)

	from, to := runRange()
	result, err := a.Run(context.Background(), []string{"AAA"}, from, to)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Analyses[0].Quote != nil {
		t.Error("expected no quote with SkipMetadata")
	}
	if news.calls != 0 {
		t.Errorf("news fetched %d times, want 0", news.calls)
	}
}

func TestWriteHTMLReports(t *testing.T) {
	a := New(&fakeSource{}, nil, DefaultOptions(), nil)
	from, to := runRange()
	result, err := a.Run(context.Background(), []string{"AAA", "BBB"}, from, to)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	dir := t.TempDir()
	paths, err := a.WriteHTMLReports(result, dir, report.DefaultReportConfig())
	if err != nil {
		t.Fatalf("WriteHTMLReports: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %d, want 2", len(paths))
	}
	if filepath.Base(paths[0]) != "aaa_analysis.html" {
		t.Errorf("first path = %s", paths[0])
	}

	content, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(content), "AAA") {
		t.Error("report missing ticker")
	}
}
