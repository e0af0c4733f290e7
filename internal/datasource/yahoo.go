package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/phuslu/log"

	"github.com/devashah/stockscope/pkg/models"
	"github.com/devashah/stockscope/pkg/utils"
)

// DefaultYahooBaseURL is the production Yahoo Finance API host.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// Yahoo fetches market data from the Yahoo Finance public API.
// It serves historical bars via the v8 chart endpoint, quotes via v7,
// and company metadata via the v10 quoteSummary endpoint.
type Yahoo struct {
	// BaseURL allows overriding the API host, mainly for tests.
	BaseURL string

	client  *http.Client
	cache   *Cache
	limiter *RateLimiter
	logger  *log.Logger
}

// YahooOptions configures a Yahoo data source.
type YahooOptions struct {
	BaseURL        string
	Timeout        time.Duration
	CacheTTL       time.Duration
	RequestsPerSec int
	Logger         *log.Logger
}

// NewYahoo creates a Yahoo data source with the given options.
// Zero-valued fields fall back to sensible defaults.
func NewYahoo(opts YahooOptions) *Yahoo {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultYahooBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 15 * time.Minute
	}
	if opts.RequestsPerSec <= 0 {
		opts.RequestsPerSec = 5
	}
	if opts.Logger == nil {
		opts.Logger = &log.DefaultLogger
	}
	return &Yahoo{
		BaseURL: opts.BaseURL,
		client:  &http.Client{Timeout: opts.Timeout},
		cache:   NewCache(opts.CacheTTL),
		limiter: NewRateLimiter(opts.RequestsPerSec, time.Second),
		logger:  opts.Logger,
	}
}

// Name returns the data source name.
func (y *Yahoo) Name() string { return "Yahoo Finance" }

// --- Chart (historical bars) ---

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol   string `json:"symbol"`
				Currency string `json:"currency"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
				Adjclose []struct {
					Adjclose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetHistoricalData fetches daily OHLCV bars for the ticker over [from, to].
func (y *Yahoo) GetHistoricalData(ctx context.Context, ticker string, from, to time.Time) (*models.PriceSeries, error) {
	ticker = utils.NormalizeTicker(ticker)
	cacheKey := fmt.Sprintf("yahoo:chart:%s:%d:%d", ticker, from.Unix(), to.Unix())
	if cached, ok := y.cache.Get(cacheKey); ok {
		return cached.(*models.PriceSeries), nil
	}

	if err := y.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	// End of day on the "to" date so the last bar is included.
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=div%%2Csplit",
		y.BaseURL, url.PathEscape(ticker), from.Unix(), to.Add(24*time.Hour).Unix())

	y.logger.Debug().Str("ticker", ticker).Str("endpoint", "chart").Msg("fetching historical data")

	body, status, err := doGet(ctx, y.client, endpoint, nil)
	if err != nil {
		if status == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
		}
		return nil, err
	}
	defer body.Close()

	var parsed yahooChartResponse
	if err := json.NewDecoder(body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode chart response for %s: %w", ticker, err)
	}
	if parsed.Chart.Error != nil {
		if parsed.Chart.Error.Code == "Not Found" {
			return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
		}
		return nil, fmt.Errorf("chart API error for %s: %s", ticker, parsed.Chart.Error.Description)
	}
	if len(parsed.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}

	bars := parseChartBars(&parsed)
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s %s..%s", ErrEmptyRange, ticker,
			from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	series := models.NewPriceSeries(ticker, bars)
	y.cache.Set(cacheKey, series)
	return series, nil
}

// parseChartBars converts a chart response into bars, skipping entries
// where any OHLC field is null (Yahoo emits nulls for holidays and halts).
func parseChartBars(parsed *yahooChartResponse) []models.PriceBar {
	result := parsed.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil
	}
	quote := result.Indicators.Quote[0]

	var adj []*float64
	if len(result.Indicators.Adjclose) > 0 {
		adj = result.Indicators.Adjclose[0].Adjclose
	}

	bars := make([]models.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Open) || quote.Open[i] == nil ||
			i >= len(quote.High) || quote.High[i] == nil ||
			i >= len(quote.Low) || quote.Low[i] == nil ||
			i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bar := models.PriceBar{
			Date:  time.Unix(ts, 0).UTC(),
			Open:  *quote.Open[i],
			High:  *quote.High[i],
			Low:   *quote.Low[i],
			Close: *quote.Close[i],
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		if i < len(adj) && adj[i] != nil {
			bar.AdjClose = *adj[i]
		} else {
			bar.AdjClose = bar.Close
		}
		bars = append(bars, bar)
	}
	return bars
}

// --- Quote ---

type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol                     string  `json:"symbol"`
			ShortName                  string  `json:"shortName"`
			LongName                   string  `json:"longName"`
			FullExchangeName           string  `json:"fullExchangeName"`
			Currency                   string  `json:"currency"`
			RegularMarketPrice         float64 `json:"regularMarketPrice"`
			RegularMarketOpen          float64 `json:"regularMarketOpen"`
			RegularMarketChange        float64 `json:"regularMarketChange"`
			RegularMarketChangePercent float64 `json:"regularMarketChangePercent"`
			RegularMarketVolume        int64   `json:"regularMarketVolume"`
			RegularMarketDayHigh       float64 `json:"regularMarketDayHigh"`
			RegularMarketDayLow        float64 `json:"regularMarketDayLow"`
			RegularMarketPreviousClose float64 `json:"regularMarketPreviousClose"`
			MarketCap                  float64 `json:"marketCap"`
			TrailingPE                 float64 `json:"trailingPE"`
			FiftyTwoWeekHigh           float64 `json:"fiftyTwoWeekHigh"`
			FiftyTwoWeekLow            float64 `json:"fiftyTwoWeekLow"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

// GetQuote fetches a near-real-time quote for the ticker.
func (y *Yahoo) GetQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	ticker = utils.NormalizeTicker(ticker)
	cacheKey := "yahoo:quote:" + ticker
	if cached, ok := y.cache.Get(cacheKey); ok {
		return cached.(*models.Quote), nil
	}

	if err := y.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", y.BaseURL, url.QueryEscape(ticker))
	body, _, err := doGet(ctx, y.client, endpoint, nil)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var parsed yahooQuoteResponse
	if err := json.NewDecoder(body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode quote response for %s: %w", ticker, err)
	}
	if len(parsed.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}

	r := parsed.QuoteResponse.Result[0]
	name := r.LongName
	if name == "" {
		name = r.ShortName
	}
	quote := &models.Quote{
		Ticker:     r.Symbol,
		Name:       name,
		Exchange:   r.FullExchangeName,
		Currency:   r.Currency,
		LastPrice:  r.RegularMarketPrice,
		Change:     r.RegularMarketChange,
		ChangePct:  r.RegularMarketChangePercent,
		Open:       r.RegularMarketOpen,
		High:       r.RegularMarketDayHigh,
		Low:        r.RegularMarketDayLow,
		PrevClose:  r.RegularMarketPreviousClose,
		Volume:     r.RegularMarketVolume,
		WeekHigh52: r.FiftyTwoWeekHigh,
		WeekLow52:  r.FiftyTwoWeekLow,
		MarketCap:  r.MarketCap,
		PE:         r.TrailingPE,
		Timestamp:  time.Now().UTC(),
	}
	// Quotes go stale fast, cache briefly.
	y.cache.SetWithTTL(cacheKey, quote, time.Minute)
	return quote, nil
}

// --- quoteSummary (profile, recommendations, earnings) ---

type yahooRawValue struct {
	Raw float64 `json:"raw"`
	Fmt string  `json:"fmt"`
}

type yahooSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile *struct {
				LongBusinessSummary string `json:"longBusinessSummary"`
				Sector              string `json:"sector"`
				Industry            string `json:"industry"`
				Website             string `json:"website"`
				Country             string `json:"country"`
				City                string `json:"city"`
				FullTimeEmployees   int64  `json:"fullTimeEmployees"`
			} `json:"assetProfile"`
			SummaryDetail *struct {
				MarketCap     *yahooRawValue `json:"marketCap"`
				DividendYield *yahooRawValue `json:"dividendYield"`
			} `json:"summaryDetail"`
			RecommendationTrend *struct {
				Trend []struct {
					Period     string `json:"period"`
					StrongBuy  int    `json:"strongBuy"`
					Buy        int    `json:"buy"`
					Hold       int    `json:"hold"`
					Sell       int    `json:"sell"`
					StrongSell int    `json:"strongSell"`
				} `json:"trend"`
			} `json:"recommendationTrend"`
			CalendarEvents *struct {
				Earnings struct {
					EarningsDate    []yahooRawValue `json:"earningsDate"`
					EarningsAverage *yahooRawValue  `json:"earningsAverage"`
					EarningsLow     *yahooRawValue  `json:"earningsLow"`
					EarningsHigh    *yahooRawValue  `json:"earningsHigh"`
					RevenueAverage  *yahooRawValue  `json:"revenueAverage"`
				} `json:"earnings"`
				ExDividendDate *yahooRawValue `json:"exDividendDate"`
				DividendDate   *yahooRawValue `json:"dividendDate"`
			} `json:"calendarEvents"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

const summaryModules = "assetProfile,summaryDetail,recommendationTrend,calendarEvents"

// fetchSummary fetches and caches the quoteSummary payload for a ticker.
func (y *Yahoo) fetchSummary(ctx context.Context, ticker string) (*yahooSummaryResponse, error) {
	ticker = utils.NormalizeTicker(ticker)
	cacheKey := "yahoo:summary:" + ticker
	if cached, ok := y.cache.Get(cacheKey); ok {
		return cached.(*yahooSummaryResponse), nil
	}

	if err := y.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		y.BaseURL, url.PathEscape(ticker), url.QueryEscape(summaryModules))

	y.logger.Debug().Str("ticker", ticker).Str("endpoint", "quoteSummary").Msg("fetching company metadata")

	body, status, err := doGet(ctx, y.client, endpoint, nil)
	if err != nil {
		if status == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
		}
		return nil, err
	}
	defer body.Close()

	var parsed yahooSummaryResponse
	if err := json.NewDecoder(body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode quoteSummary for %s: %w", ticker, err)
	}
	if parsed.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quoteSummary API error for %s: %s", ticker, parsed.QuoteSummary.Error.Description)
	}
	if len(parsed.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}

	y.cache.Set(cacheKey, &parsed)
	return &parsed, nil
}

// GetCompanyProfile fetches descriptive company information.
func (y *Yahoo) GetCompanyProfile(ctx context.Context, ticker string) (*models.CompanyProfile, error) {
	parsed, err := y.fetchSummary(ctx, ticker)
	if err != nil {
		return nil, err
	}
	r := parsed.QuoteSummary.Result[0]
	if r.AssetProfile == nil {
		return nil, fmt.Errorf("%w: no profile for %s", ErrNotSupported, ticker)
	}

	profile := &models.CompanyProfile{
		Ticker:    utils.NormalizeTicker(ticker),
		Sector:    r.AssetProfile.Sector,
		Industry:  r.AssetProfile.Industry,
		Website:   r.AssetProfile.Website,
		Country:   r.AssetProfile.Country,
		Employees: int(r.AssetProfile.FullTimeEmployees),
		Summary:   strings.TrimSpace(r.AssetProfile.LongBusinessSummary),
	}
	if r.SummaryDetail != nil && r.SummaryDetail.MarketCap != nil {
		profile.MarketCap = r.SummaryDetail.MarketCap.Raw
	}
	return profile, nil
}

// GetRecommendations fetches aggregated analyst recommendation trends.
func (y *Yahoo) GetRecommendations(ctx context.Context, ticker string) ([]models.RecommendationTrend, error) {
	parsed, err := y.fetchSummary(ctx, ticker)
	if err != nil {
		return nil, err
	}
	r := parsed.QuoteSummary.Result[0]
	if r.RecommendationTrend == nil {
		return nil, nil
	}

	trends := make([]models.RecommendationTrend, 0, len(r.RecommendationTrend.Trend))
	for _, t := range r.RecommendationTrend.Trend {
		trends = append(trends, models.RecommendationTrend{
			Period:     t.Period,
			StrongBuy:  t.StrongBuy,
			Buy:        t.Buy,
			Hold:       t.Hold,
			Sell:       t.Sell,
			StrongSell: t.StrongSell,
		})
	}
	return trends, nil
}

// GetEarnings fetches upcoming earnings dates and consensus estimates.
func (y *Yahoo) GetEarnings(ctx context.Context, ticker string) (*models.EarningsCalendar, error) {
	parsed, err := y.fetchSummary(ctx, ticker)
	if err != nil {
		return nil, err
	}
	r := parsed.QuoteSummary.Result[0]
	if r.CalendarEvents == nil {
		return nil, nil
	}

	cal := &models.EarningsCalendar{Ticker: utils.NormalizeTicker(ticker)}
	ev := r.CalendarEvents
	for _, d := range ev.Earnings.EarningsDate {
		cal.EarningsDates = append(cal.EarningsDates, time.Unix(int64(d.Raw), 0).UTC())
	}
	if ev.Earnings.EarningsAverage != nil {
		cal.EPSAverage = ev.Earnings.EarningsAverage.Raw
	}
	if ev.Earnings.EarningsLow != nil {
		cal.EPSLow = ev.Earnings.EarningsLow.Raw
	}
	if ev.Earnings.EarningsHigh != nil {
		cal.EPSHigh = ev.Earnings.EarningsHigh.Raw
	}
	if ev.Earnings.RevenueAverage != nil {
		cal.RevenueAverage = ev.Earnings.RevenueAverage.Raw
	}
	if ev.ExDividendDate != nil {
		cal.ExDividendDate = time.Unix(int64(ev.ExDividendDate.Raw), 0).UTC()
	}
	if ev.DividendDate != nil {
		cal.DividendDate = time.Unix(int64(ev.DividendDate.Raw), 0).UTC()
	}
	return cal, nil
}
