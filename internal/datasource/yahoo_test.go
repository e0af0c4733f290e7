package datasource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const chartFixture = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "AAPL", "currency": "USD"},
      "timestamp": [1704153600, 1704240000, 1704326400],
      "indicators": {
        "quote": [{
          "open":   [185.0, 186.5, null],
          "high":   [187.0, 188.0, 189.0],
          "low":    [184.0, 185.5, 186.0],
          "close":  [186.0, 187.5, 188.0],
          "volume": [50000000, 48000000, 47000000]
        }],
        "adjclose": [{"adjclose": [185.8, 187.3, 187.8]}]
      }
    }],
    "error": null
  }
}`

const quoteFixture = `{
  "quoteResponse": {
    "result": [{
      "symbol": "AAPL",
      "shortName": "Apple Inc.",
      "longName": "Apple Inc.",
      "fullExchangeName": "NasdaqGS",
      "currency": "USD",
      "regularMarketPrice": 188.0,
      "regularMarketChange": 0.5,
      "regularMarketChangePercent": 0.27,
      "regularMarketOpen": 187.2,
      "regularMarketVolume": 47000000,
      "regularMarketDayHigh": 189.0,
      "regularMarketDayLow": 186.0,
      "regularMarketPreviousClose": 187.5,
      "marketCap": 2900000000000,
      "trailingPE": 31.2,
      "fiftyTwoWeekHigh": 199.6,
      "fiftyTwoWeekLow": 164.1
    }]
  }
}`

const summaryFixture = `{
  "quoteSummary": {
    "result": [{
      "assetProfile": {
        "longBusinessSummary": "Apple Inc. designs consumer electronics.",
        "sector": "Technology",
        "industry": "Consumer Electronics",
        "website": "https://www.apple.com",
        "country": "United States",
        "fullTimeEmployees": 161000
      },
      "summaryDetail": {
        "marketCap": {"raw": 2900000000000, "fmt": "2.9T"}
      },
      "recommendationTrend": {
        "trend": [
          {"period": "0m", "strongBuy": 10, "buy": 20, "hold": 8, "sell": 1, "strongSell": 0},
          {"period": "-1m", "strongBuy": 11, "buy": 19, "hold": 9, "sell": 1, "strongSell": 1}
        ]
      },
      "calendarEvents": {
        "earnings": {
          "earningsDate": [{"raw": 1706832000, "fmt": "2024-02-02"}],
          "earningsAverage": {"raw": 2.10, "fmt": "2.10"},
          "earningsLow": {"raw": 1.95, "fmt": "1.95"},
          "earningsHigh": {"raw": 2.25, "fmt": "2.25"},
          "revenueAverage": {"raw": 117900000000, "fmt": "117.9B"}
        },
        "exDividendDate": {"raw": 1707436800, "fmt": "2024-02-09"},
        "dividendDate": {"raw": 1708041600, "fmt": "2024-02-16"}
      }
    }],
    "error": null
  }
}`

// newTestYahoo spins up a fixture server routing by endpoint prefix and
// returns a Yahoo source pointed at it.
func newTestYahoo(t *testing.T, handler http.HandlerFunc) *Yahoo {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewYahoo(YahooOptions{
		BaseURL:        srv.URL,
		Timeout:        5 * time.Second,
		CacheTTL:       time.Minute,
		RequestsPerSec: 100,
	})
}

func fixtureHandler(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/v8/finance/chart/"):
			fmt.Fprint(w, chartFixture)
		case strings.HasPrefix(r.URL.Path, "/v7/finance/quote"):
			fmt.Fprint(w, quoteFixture)
		case strings.HasPrefix(r.URL.Path, "/v10/finance/quoteSummary/"):
			fmt.Fprint(w, summaryFixture)
		default:
			http.NotFound(w, r)
		}
	}
}

func TestYahooGetHistoricalData(t *testing.T) {
	y := newTestYahoo(t, fixtureHandler(t))

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	series, err := y.GetHistoricalData(context.Background(), "aapl", from, to)
	if err != nil {
		t.Fatalf("GetHistoricalData: %v", err)
	}
	if series.Ticker != "AAPL" {
		t.Errorf("ticker = %q, want AAPL", series.Ticker)
	}
	// Third bar has a null open and must be dropped.
	if series.Len() != 2 {
		t.Fatalf("len = %d, want 2", series.Len())
	}
	if series.Bars[0].Close != 186.0 || series.Bars[1].Close != 187.5 {
		t.Errorf("closes = %v, %v", series.Bars[0].Close, series.Bars[1].Close)
	}
	if series.Bars[0].AdjClose != 185.8 {
		t.Errorf("adjclose = %v, want 185.8", series.Bars[0].AdjClose)
	}
	if series.Bars[0].Volume != 50000000 {
		t.Errorf("volume = %d", series.Bars[0].Volume)
	}
}

func TestYahooGetHistoricalDataRaggedArrays(t *testing.T) {
	// Providers occasionally ship quote arrays shorter than the
	// timestamp list. Only fully-populated bars survive.
	const ragged = `{
	  "chart": {
	    "result": [{
	      "meta": {"symbol": "AAPL", "currency": "USD"},
	      "timestamp": [1704153600, 1704240000, 1704326400],
	      "indicators": {
	        "quote": [{
	          "open":   [185.0],
	          "high":   [187.0, 188.0, 189.0],
	          "low":    [184.0, 185.5],
	          "close":  [186.0, 187.5, 188.0],
	          "volume": [50000000]
	        }]
	      }
	    }],
	    "error": null
	  }
	}`
	y := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, ragged)
	})

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	series, err := y.GetHistoricalData(context.Background(), "AAPL", from, to)
	if err != nil {
		t.Fatalf("GetHistoricalData: %v", err)
	}
	if series.Len() != 1 {
		t.Fatalf("len = %d, want 1", series.Len())
	}
	if series.Bars[0].Open != 185.0 || series.Bars[0].Close != 186.0 {
		t.Errorf("bar = %+v", series.Bars[0])
	}
}

func TestYahooGetHistoricalDataCaches(t *testing.T) {
	var hits int
	y := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, chartFixture)
	})

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := y.GetHistoricalData(context.Background(), "AAPL", from, to); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if hits != 1 {
		t.Errorf("server hits = %d, want 1 (cached)", hits)
	}
}

func TestYahooTickerNotFound(t *testing.T) {
	y := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	_, err := y.GetHistoricalData(context.Background(), "NOPE", from, to)
	if !errors.Is(err, ErrTickerNotFound) {
		t.Errorf("got %v, want ErrTickerNotFound", err)
	}
}

func TestYahooRateLimitedResponse(t *testing.T) {
	y := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := y.GetQuote(context.Background(), "AAPL")
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("got %v, want ErrRateLimited", err)
	}
}

func TestYahooGetQuote(t *testing.T) {
	y := newTestYahoo(t, fixtureHandler(t))

	quote, err := y.GetQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}
	if quote.Name != "Apple Inc." {
		t.Errorf("name = %q", quote.Name)
	}
	if quote.LastPrice != 188.0 {
		t.Errorf("last price = %v", quote.LastPrice)
	}
	if quote.Exchange != "NasdaqGS" {
		t.Errorf("exchange = %q", quote.Exchange)
	}
	if quote.WeekHigh52 != 199.6 {
		t.Errorf("52w high = %v", quote.WeekHigh52)
	}
}

func TestYahooGetCompanyProfile(t *testing.T) {
	y := newTestYahoo(t, fixtureHandler(t))

	profile, err := y.GetCompanyProfile(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetCompanyProfile: %v", err)
	}
	if profile.Sector != "Technology" {
		t.Errorf("sector = %q", profile.Sector)
	}
	if profile.Employees != 161000 {
		t.Errorf("employees = %d", profile.Employees)
	}
	if profile.MarketCap != 2900000000000 {
		t.Errorf("market cap = %v", profile.MarketCap)
	}
}

func TestYahooGetRecommendations(t *testing.T) {
	y := newTestYahoo(t, fixtureHandler(t))

	trends, err := y.GetRecommendations(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if len(trends) != 2 {
		t.Fatalf("len = %d, want 2", len(trends))
	}
	if trends[0].Period != "0m" || trends[0].StrongBuy != 10 {
		t.Errorf("first trend = %+v", trends[0])
	}
	if got := trends[0].Total(); got != 39 {
		t.Errorf("total = %d, want 39", got)
	}
}

func TestYahooGetEarnings(t *testing.T) {
	y := newTestYahoo(t, fixtureHandler(t))

	cal, err := y.GetEarnings(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetEarnings: %v", err)
	}
	if len(cal.EarningsDates) != 1 {
		t.Fatalf("earnings dates = %d, want 1", len(cal.EarningsDates))
	}
	if cal.EPSAverage != 2.10 {
		t.Errorf("eps average = %v", cal.EPSAverage)
	}
	if cal.ExDividendDate.IsZero() {
		t.Error("expected ex-dividend date")
	}
}

func TestYahooSummaryFetchedOnce(t *testing.T) {
	var summaryHits int
	y := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/v10/finance/quoteSummary/") {
			summaryHits++
		}
		fixtureHandler(t)(w, r)
	})

	ctx := context.Background()
	if _, err := y.GetCompanyProfile(ctx, "AAPL"); err != nil {
		t.Fatal(err)
	}
	if _, err := y.GetRecommendations(ctx, "AAPL"); err != nil {
		t.Fatal(err)
	}
	if _, err := y.GetEarnings(ctx, "AAPL"); err != nil {
		t.Fatal(err)
	}
	if summaryHits != 1 {
		t.Errorf("quoteSummary hits = %d, want 1 (shared cache)", summaryHits)
	}
}

func TestStripHTML(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain text", "plain text"},
		{"<p>Hello <b>world</b></p>", "Hello world"},
		{"  padded  ", "padded"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := stripHTML(tc.in); got != tc.want {
			t.Errorf("stripHTML(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
