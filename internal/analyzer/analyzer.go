// Package analyzer orchestrates a full analysis run: fetch price history
// and metadata for each ticker, compute indicator series and performance
// metrics, align tickers into a portfolio view, and render reports.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"

	"github.com/devashah/stockscope/internal/analysis/portfolio"
	"github.com/devashah/stockscope/internal/analysis/technical"
	"github.com/devashah/stockscope/internal/datasource"
	"github.com/devashah/stockscope/internal/report"
	"github.com/devashah/stockscope/pkg/models"
	"github.com/devashah/stockscope/pkg/utils"
)

// NewsProvider fetches recent headlines for a ticker.
type NewsProvider interface {
	GetNews(ctx context.Context, ticker string, limit int) ([]models.NewsArticle, error)
}

// Options configures an analysis run.
type Options struct {
	Indicators   technical.Config
	RiskFreeRate float64
	NewsLimit    int

	// SkipMetadata disables quote/profile/recommendation/earnings/news
	// fetches, leaving only price history and derived series.
	SkipMetadata bool

	// MaxConcurrent caps ticker fan-out. Zero means 4.
	MaxConcurrent int
}

// DefaultOptions returns the standard run configuration.
func DefaultOptions() Options {
	return Options{
		Indicators:   technical.DefaultConfig(),
		RiskFreeRate: 0.02,
		NewsLimit:    10,
	}
}

// Analyzer runs the fetch-compute-report pipeline.
type Analyzer struct {
	source datasource.DataSource
	news   NewsProvider
	opts   Options
	logger *log.Logger
}

// New creates an Analyzer. news may be nil, in which case headlines are
// skipped.
func New(source datasource.DataSource, news NewsProvider, opts Options, logger *log.Logger) *Analyzer {
	if logger == nil {
		logger = &log.DefaultLogger
	}
	if opts.NewsLimit <= 0 {
		opts.NewsLimit = 10
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 4
	}
	return &Analyzer{source: source, news: news, opts: opts, logger: logger}
}

// Result holds everything produced by one run.
type Result struct {
	// Analyses holds successful per-ticker results in input order.
	Analyses []*models.Analysis

	// Summary aggregates metrics across the successful tickers.
	Summary *models.PortfolioSummary

	// Errors maps failed tickers to their fetch errors. A ticker appears
	// either in Analyses or in Errors, never both.
	Errors map[string]error
}

// Run analyzes all tickers concurrently over [from, to]. A failure on one
// ticker is recorded in Result.Errors and does not abort the others; Run
// returns an error only when every ticker fails.
func (a *Analyzer) Run(ctx context.Context, tickers []string, from, to time.Time) (*Result, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("no tickers given")
	}

	normalized := make([]string, len(tickers))
	for i, t := range tickers {
		normalized[i] = utils.NormalizeTicker(t)
	}

	var (
		mu       sync.Mutex
		byTicker = make(map[string]*models.Analysis, len(normalized))
		errs     = make(map[string]error)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.MaxConcurrent)
	for _, ticker := range normalized {
		ticker := ticker
		g.Go(func() error {
			analysis, err := a.analyzeOne(gctx, ticker, from, to)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				a.logger.Warn().Str("ticker", ticker).Err(err).Msg("analysis failed")
				errs[ticker] = err
				return nil
			}
			byTicker[ticker] = analysis
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{Errors: errs}
	var series []*models.PriceSeries
	for _, ticker := range normalized {
		if analysis, ok := byTicker[ticker]; ok {
			result.Analyses = append(result.Analyses, analysis)
			series = append(series, analysis.Series)
		}
	}

	if len(result.Analyses) == 0 {
		joined := make([]error, 0, len(errs))
		for ticker, err := range errs {
			joined = append(joined, fmt.Errorf("%s: %w", ticker, err))
		}
		return nil, fmt.Errorf("all tickers failed: %w", errors.Join(joined...))
	}

	result.Summary = portfolio.Summarize(series, a.opts.RiskFreeRate)
	return result, nil
}

// analyzeOne runs the full pipeline for a single ticker. Price history is
// required; metadata fetches are best-effort and only logged on failure.
func (a *Analyzer) analyzeOne(ctx context.Context, ticker string, from, to time.Time) (*models.Analysis, error) {
	series, err := a.source.GetHistoricalData(ctx, ticker, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("invalid series: %w", err)
	}

	a.logger.Info().Str("ticker", ticker).Int("bars", series.Len()).Msg("fetched price history")

	analysis := &models.Analysis{
		Ticker:     ticker,
		Series:     series,
		Indicators: technical.Compute(series, a.opts.Indicators),
		Metrics:    portfolio.Compute(series, a.opts.RiskFreeRate),
		FetchedAt:  time.Now().UTC(),
	}

	if !a.opts.SkipMetadata {
		a.fetchMetadata(ctx, analysis)
	}
	return analysis, nil
}

// fetchMetadata fills in quote, profile, recommendations, earnings, and
// news. Each fetch fails independently.
func (a *Analyzer) fetchMetadata(ctx context.Context, analysis *models.Analysis) {
	ticker := analysis.Ticker

	if quote, err := a.source.GetQuote(ctx, ticker); err != nil {
		a.logger.Debug().Str("ticker", ticker).Err(err).Msg("quote unavailable")
	} else {
		analysis.Quote = quote
	}

	if profile, err := a.source.GetCompanyProfile(ctx, ticker); err != nil {
		a.logger.Debug().Str("ticker", ticker).Err(err).Msg("profile unavailable")
	} else {
		analysis.Profile = profile
	}

	if trends, err := a.source.GetRecommendations(ctx, ticker); err != nil {
		a.logger.Debug().Str("ticker", ticker).Err(err).Msg("recommendations unavailable")
	} else {
		analysis.Recommendations = trends
	}

	if earnings, err := a.source.GetEarnings(ctx, ticker); err != nil {
		a.logger.Debug().Str("ticker", ticker).Err(err).Msg("earnings unavailable")
	} else {
		analysis.Earnings = earnings
	}

	if a.news != nil {
		if articles, err := a.news.GetNews(ctx, ticker, a.opts.NewsLimit); err != nil {
			a.logger.Debug().Str("ticker", ticker).Err(err).Msg("news unavailable")
		} else {
			analysis.News = articles
		}
	}
}

// WriteHTMLReports renders one HTML page per analyzed ticker into dir and
// returns the written paths.
func (a *Analyzer) WriteHTMLReports(result *Result, dir string, cfg report.ReportConfig) ([]string, error) {
	if result == nil || len(result.Analyses) == 0 {
		return nil, fmt.Errorf("nothing to report")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var paths []string
	for _, analysis := range result.Analyses {
		html, err := report.GenerateHTML(analysis, cfg)
		if err != nil {
			return paths, fmt.Errorf("render %s: %w", analysis.Ticker, err)
		}
		name := fmt.Sprintf("%s_analysis.html", strings.ToLower(analysis.Ticker))
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		a.logger.Info().Str("ticker", analysis.Ticker).Str("path", path).Msg("wrote report")
		paths = append(paths, path)
	}
	return paths, nil
}
