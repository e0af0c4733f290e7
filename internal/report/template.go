package report

// ReportTemplate is the HTML template for the per-ticker analysis page.
// It is embedded as a Go constant so the binary has no file dependencies.
const ReportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
  :root {
    --bg: #ffffff;
    --text: #1a1a2e;
    --muted: #6b7280;
    --border: #e5e7eb;
    --accent: #2563eb;
    --green: #16a34a;
    --red: #dc2626;
    --section-bg: #f8fafc;
  }
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    color: var(--text);
    background: var(--bg);
    line-height: 1.6;
    max-width: 960px;
    margin: 0 auto;
    padding: 20px;
  }
  h1, h2 { font-weight: 600; }
  h1 { font-size: 1.5rem; margin-bottom: 4px; }
  h2 { font-size: 1.2rem; margin: 24px 0 12px; padding-bottom: 6px; border-bottom: 2px solid var(--accent); }
  p { margin: 6px 0; }
  .muted { color: var(--muted); font-size: 0.85rem; }

  .header {
    display: flex;
    justify-content: space-between;
    align-items: flex-start;
    border-bottom: 3px solid var(--accent);
    padding-bottom: 12px;
    margin-bottom: 16px;
  }
  .header-left h1 { color: var(--accent); }
  .header-right { text-align: right; }
  .ticker-badge {
    display: inline-block;
    background: var(--accent);
    color: white;
    padding: 2px 12px;
    border-radius: 4px;
    font-weight: 700;
    font-size: 1.1rem;
    margin-right: 8px;
  }

  .quote-bar {
    display: grid;
    grid-template-columns: repeat(auto-fill, minmax(140px, 1fr));
    gap: 8px;
    background: var(--section-bg);
    padding: 12px;
    border-radius: 8px;
    margin-bottom: 16px;
  }
  .quote-item { text-align: center; }
  .quote-item .label { font-size: 0.75rem; color: var(--muted); text-transform: uppercase; }
  .quote-item .value { font-size: 1rem; font-weight: 600; }
  .positive { color: var(--green); }
  .negative { color: var(--red); }

  .metrics-grid {
    display: grid;
    grid-template-columns: repeat(auto-fill, minmax(160px, 1fr));
    gap: 10px;
    margin-bottom: 16px;
  }
  .metric-card {
    background: var(--section-bg);
    border: 1px solid var(--border);
    border-radius: 8px;
    padding: 12px;
    text-align: center;
  }
  .metric-card .label { font-size: 0.75rem; color: var(--muted); text-transform: uppercase; }
  .metric-card .value { font-size: 1.25rem; font-weight: 700; }

  .chart-panel { margin: 16px 0; overflow-x: auto; }
  .chart-panel svg { max-width: 100%; height: auto; }

  table {
    width: 100%;
    border-collapse: collapse;
    font-size: 0.9rem;
    margin-bottom: 16px;
  }
  th, td { padding: 8px 10px; text-align: left; border-bottom: 1px solid var(--border); }
  th { background: var(--section-bg); font-weight: 600; }
  td.num, th.num { text-align: right; }

  .news-item { padding: 8px 0; border-bottom: 1px solid var(--border); }
  .news-item a { color: var(--accent); text-decoration: none; }
  .news-item a:hover { text-decoration: underline; }

  .warning {
    background: #fef9c3;
    border: 1px solid #fde047;
    border-radius: 6px;
    padding: 8px 12px;
    margin: 8px 0;
    font-size: 0.85rem;
  }

  .footer {
    margin-top: 32px;
    padding-top: 12px;
    border-top: 1px solid var(--border);
    font-size: 0.75rem;
    color: var(--muted);
    text-align: center;
  }
</style>
</head>
<body>

<div class="header">
  <div class="header-left">
    <h1>{{.Title}}</h1>
    <p class="muted">
      <span class="ticker-badge">{{.Ticker}}</span>
      {{if .CompanyName}}{{.CompanyName}}{{end}}
      {{if .Exchange}} · {{.Exchange}}{{end}}
    </p>
  </div>
  <div class="header-right">
    <p class="muted">Generated {{.GeneratedAt}}</p>
    {{if .Sector}}<p class="muted">{{.Sector}} · {{.Industry}}</p>{{end}}
  </div>
</div>

{{if .HasQuote}}
<div class="quote-bar">
  <div class="quote-item"><div class="label">Last Price</div><div class="value">{{.LastPrice}}</div></div>
  <div class="quote-item"><div class="label">Change</div>
    <div class="value {{if .ChangeUp}}positive{{else}}negative{{end}}">{{.Change}} ({{.ChangePct}})</div></div>
  <div class="quote-item"><div class="label">Day Range</div><div class="value">{{.DayLow}} – {{.DayHigh}}</div></div>
  <div class="quote-item"><div class="label">52W Range</div><div class="value">{{.WeekLow52}} – {{.WeekHigh52}}</div></div>
  <div class="quote-item"><div class="label">Volume</div><div class="value">{{.Volume}}</div></div>
  <div class="quote-item"><div class="label">Market Cap</div><div class="value">{{.MarketCap}}</div></div>
  {{if .PE}}<div class="quote-item"><div class="label">P/E</div><div class="value">{{.PE}}</div></div>{{end}}
</div>
{{end}}

{{range .Warnings}}<div class="warning">{{.}}</div>{{end}}

{{if .HasMetrics}}
<h2>Performance{{if .PeriodFrom}} <span class="muted">({{.PeriodFrom}} to {{.PeriodTo}}, {{.TradingDays}} trading days)</span>{{end}}</h2>
<div class="metrics-grid">
  <div class="metric-card"><div class="label">Total Return</div>
    <div class="value {{if .TotalReturnUp}}positive{{else}}negative{{end}}">{{.TotalReturn}}</div></div>
  <div class="metric-card"><div class="label">Annualized Return</div><div class="value">{{.AnnualizedReturn}}</div></div>
  <div class="metric-card"><div class="label">Volatility</div><div class="value">{{.Volatility}}</div></div>
  <div class="metric-card"><div class="label">Sharpe Ratio</div><div class="value">{{.SharpeRatio}}</div></div>
  <div class="metric-card"><div class="label">Max Drawdown</div><div class="value negative">{{.MaxDrawdown}}</div></div>
</div>
{{end}}

{{if .PriceChart}}
<h2>Price &amp; Moving Averages</h2>
<div class="chart-panel">{{.PriceChart}}</div>
{{end}}

{{if .MACDChart}}
<h2>MACD</h2>
<div class="chart-panel">{{.MACDChart}}</div>
{{end}}

{{if .VolatilityChart}}
<h2>Rolling Volatility</h2>
<div class="chart-panel">{{.VolatilityChart}}</div>
{{end}}

{{if .Recommendations}}
<h2>Analyst Recommendations</h2>
{{if .RecommendationChart}}<div class="chart-panel">{{.RecommendationChart}}</div>{{end}}
<table>
  <tr><th>Period</th><th class="num">Strong Buy</th><th class="num">Buy</th><th class="num">Hold</th><th class="num">Sell</th><th class="num">Strong Sell</th><th class="num">Analysts</th></tr>
  {{range .Recommendations}}
  <tr>
    <td>{{.Period}}</td>
    <td class="num">{{.StrongBuy}}</td>
    <td class="num">{{.Buy}}</td>
    <td class="num">{{.Hold}}</td>
    <td class="num">{{.Sell}}</td>
    <td class="num">{{.StrongSell}}</td>
    <td class="num">{{.Total}}</td>
  </tr>
  {{end}}
</table>
{{end}}

{{if .HasEarnings}}
<h2>Earnings</h2>
<table>
  {{if .EarningsDates}}<tr><th>Next Earnings Date</th><td>{{.EarningsDates}}</td></tr>{{end}}
  {{if .EPSEstimate}}<tr><th>EPS Estimate</th><td>{{.EPSEstimate}}</td></tr>{{end}}
  {{if .RevenueAverage}}<tr><th>Revenue Estimate</th><td>{{.RevenueAverage}}</td></tr>{{end}}
  {{if .ExDividendDate}}<tr><th>Ex-Dividend Date</th><td>{{.ExDividendDate}}</td></tr>{{end}}
</table>
{{end}}

{{if .Summary}}
<h2>Company Profile</h2>
<p>{{.Summary}}</p>
<p class="muted">
  {{if .Country}}{{.Country}}{{end}}
  {{if .Employees}} · {{.Employees}} employees{{end}}
  {{if .Website}} · <a href="{{.Website}}">{{.Website}}</a>{{end}}
</p>
{{end}}

{{if .News}}
<h2>Recent News</h2>
{{range .News}}
<div class="news-item">
  <a href="{{.Link}}">{{.Title}}</a>
  <p class="muted">{{.Published}}{{if .Source}} · {{.Source}}{{end}}</p>
</div>
{{end}}
{{end}}

<div class="footer">
  Generated by stockscope. Data from public market data feeds. Not financial advice.
</div>

</body>
</html>`
