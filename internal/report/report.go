package report

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"strings"
	"time"

	"github.com/devashah/stockscope/pkg/models"
	"github.com/devashah/stockscope/pkg/utils"
)

// ReportFormat specifies the output format.
type ReportFormat string

const (
	FormatHTML ReportFormat = "html"
	FormatText ReportFormat = "text"
)

// ReportConfig controls report generation behaviour.
type ReportConfig struct {
	Format   ReportFormat
	Title    string
	ChartCfg ChartConfig
}

// DefaultReportConfig returns sensible defaults.
func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		Format:   FormatHTML,
		ChartCfg: DefaultChartConfig(),
	}
}

// ReportData is the template model passed to the HTML template. All
// numeric fields are pre-formatted strings so the template stays dumb.
type ReportData struct {
	Title       string
	Ticker      string
	CompanyName string
	Exchange    string
	Sector      string
	Industry    string
	Website     string
	Country     string
	Employees   string
	Summary     string
	GeneratedAt string

	// Quote
	HasQuote   bool
	LastPrice  string
	Change     string
	ChangePct  string
	ChangeUp   bool
	DayHigh    string
	DayLow     string
	WeekHigh52 string
	WeekLow52  string
	Volume     string
	MarketCap  string
	PE         string

	// Performance metrics
	HasMetrics       bool
	TotalReturn      string
	TotalReturnUp    bool
	AnnualizedReturn string
	Volatility       string
	SharpeRatio      string
	MaxDrawdown      string
	TradingDays      string
	PeriodFrom       string
	PeriodTo         string

	// Analyst recommendations, newest period first
	Recommendations []RecommendationRow

	// Earnings calendar
	HasEarnings    bool
	EarningsDates  string
	EPSEstimate    string
	RevenueAverage string
	ExDividendDate string

	// News headlines
	News []NewsRow

	// Charts (embedded SVG)
	PriceChart          template.HTML
	MACDChart           template.HTML
	VolatilityChart     template.HTML
	RecommendationChart template.HTML

	Warnings []string
}

// RecommendationRow is a flattened recommendation period for rendering.
type RecommendationRow struct {
	Period     string
	StrongBuy  int
	Buy        int
	Hold       int
	Sell       int
	StrongSell int
	Total      int
}

// NewsRow is a flattened article for rendering.
type NewsRow struct {
	Title     string
	Link      string
	Source    string
	Published string
}

// GenerateHTML renders a single-ticker analysis as a standalone HTML page.
func GenerateHTML(analysis *models.Analysis, cfg ReportConfig) (string, error) {
	if analysis == nil {
		return "", fmt.Errorf("analysis is nil")
	}

	data := buildReportData(analysis, cfg)

	tmpl, err := template.New("report").Parse(ReportTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

// GenerateText renders a single-ticker analysis as a terminal-friendly
// plain-text summary.
func GenerateText(analysis *models.Analysis, cfg ReportConfig) (string, error) {
	if analysis == nil {
		return "", fmt.Errorf("analysis is nil")
	}
	return renderTextReport(buildReportData(analysis, cfg)), nil
}

// PortfolioText renders the cross-ticker metrics table for terminals.
func PortfolioText(summary *models.PortfolioSummary) string {
	if summary == nil || len(summary.PerTicker) == 0 {
		return ""
	}

	var sb strings.Builder
	line := strings.Repeat("─", 86)

	sb.WriteString("\n  PORTFOLIO METRICS\n")
	sb.WriteString("  " + line + "\n")
	sb.WriteString(fmt.Sprintf("  %-10s %12s %12s %12s %10s %12s\n",
		"Ticker", "Total Ret", "Annual Ret", "Volatility", "Sharpe", "Max DD"))
	sb.WriteString("  " + line + "\n")

	writeRow := func(m models.PortfolioMetrics) {
		sb.WriteString(fmt.Sprintf("  %-10s %12s %12s %12s %10s %12s\n",
			m.Ticker,
			utils.FormatPct(m.TotalReturn),
			utils.FormatPct(m.AnnualizedReturn),
			utils.FormatPct(m.Volatility),
			utils.FormatRatio(m.SharpeRatio),
			utils.FormatPct(m.MaxDrawdown)))
	}

	for _, m := range summary.PerTicker {
		writeRow(m)
	}
	if summary.Combined != nil {
		sb.WriteString("  " + line + "\n")
		writeRow(*summary.Combined)
		sb.WriteString(fmt.Sprintf("  Aligned on %d common trading days\n", summary.CommonDays))
	}
	sb.WriteString("  " + line + "\n")
	return sb.String()
}

func buildReportData(a *models.Analysis, cfg ReportConfig) ReportData {
	data := ReportData{
		Title:       cfg.Title,
		Ticker:      a.Ticker,
		GeneratedAt: time.Now().Format("02 Jan 2006, 15:04 MST"),
	}
	if data.Title == "" {
		data.Title = fmt.Sprintf("%s — Stock Analysis", a.Ticker)
	}

	if p := a.Profile; p != nil {
		data.Sector = p.Sector
		data.Industry = p.Industry
		data.Website = p.Website
		data.Country = p.Country
		data.Summary = p.Summary
		if p.Employees > 0 {
			data.Employees = utils.FormatVolume(int64(p.Employees))
		}
		if data.CompanyName == "" {
			data.CompanyName = p.Name
		}
	}

	if q := a.Quote; q != nil {
		data.HasQuote = true
		if data.CompanyName == "" {
			data.CompanyName = q.Name
		}
		data.Exchange = q.Exchange
		data.LastPrice = utils.FormatUSD(q.LastPrice)
		data.Change = utils.FormatUSD(q.Change)
		data.ChangePct = utils.FormatPct(q.ChangePct / 100)
		data.ChangeUp = q.Change >= 0
		data.DayHigh = utils.FormatUSD(q.High)
		data.DayLow = utils.FormatUSD(q.Low)
		data.WeekHigh52 = utils.FormatUSD(q.WeekHigh52)
		data.WeekLow52 = utils.FormatUSD(q.WeekLow52)
		data.Volume = utils.FormatVolume(q.Volume)
		data.MarketCap = utils.FormatUSDCompact(q.MarketCap)
		if q.PE > 0 {
			data.PE = fmt.Sprintf("%.2f", q.PE)
		}
	}

	if m := a.Metrics; m != nil {
		data.HasMetrics = true
		data.TotalReturn = utils.FormatPct(m.TotalReturn)
		data.TotalReturnUp = m.TotalReturn >= 0
		data.AnnualizedReturn = utils.FormatPct(m.AnnualizedReturn)
		data.Volatility = utils.FormatPct(m.Volatility)
		data.SharpeRatio = utils.FormatRatio(m.SharpeRatio)
		data.MaxDrawdown = utils.FormatPct(m.MaxDrawdown)
		data.TradingDays = fmt.Sprintf("%d", m.TradingDays)
		if !m.From.IsZero() {
			data.PeriodFrom = utils.FormatDate(m.From)
			data.PeriodTo = utils.FormatDate(m.To)
		}
	}

	for _, r := range a.Recommendations {
		data.Recommendations = append(data.Recommendations, RecommendationRow{
			Period:     r.Period,
			StrongBuy:  r.StrongBuy,
			Buy:        r.Buy,
			Hold:       r.Hold,
			Sell:       r.Sell,
			StrongSell: r.StrongSell,
			Total:      r.Total(),
		})
	}

	if e := a.Earnings; e != nil && (len(e.EarningsDates) > 0 || e.EPSAverage != 0) {
		data.HasEarnings = true
		dates := make([]string, len(e.EarningsDates))
		for i, d := range e.EarningsDates {
			dates[i] = utils.FormatDate(d)
		}
		data.EarningsDates = strings.Join(dates, ", ")
		if e.EPSAverage != 0 {
			data.EPSEstimate = fmt.Sprintf("%.2f (%.2f – %.2f)", e.EPSAverage, e.EPSLow, e.EPSHigh)
		}
		if e.RevenueAverage > 0 {
			data.RevenueAverage = utils.FormatUSDCompact(e.RevenueAverage)
		}
		if !e.ExDividendDate.IsZero() {
			data.ExDividendDate = utils.FormatDate(e.ExDividendDate)
		}
	}

	for _, n := range a.News {
		data.News = append(data.News, NewsRow{
			Title:     n.Title,
			Link:      n.Link,
			Source:    n.Source,
			Published: n.PublishedAt.Format("02 Jan 2006"),
		})
	}

	if a.Indicators != nil {
		data.Warnings = a.Indicators.Warnings
	}

	buildCharts(a, cfg, &data)
	return data
}

// buildCharts renders the SVG panels from the series and indicator set.
func buildCharts(a *models.Analysis, cfg ReportConfig, data *ReportData) {
	if a.Series == nil || a.Series.Len() == 0 || a.Indicators == nil {
		return
	}
	bars := a.Series.Bars
	ind := a.Indicators

	chartCfg := cfg.ChartCfg
	if chartCfg.Width == 0 {
		chartCfg = DefaultChartConfig()
	}

	priceCfg := chartCfg
	priceCfg.Title = fmt.Sprintf("%s Daily Price", a.Ticker)
	overlays := map[string][]float64{}
	if len(ind.SMA) == len(bars) {
		overlays["SMA"] = ind.SMA
	}
	if len(ind.EMAFast) == len(bars) {
		overlays["EMA fast"] = ind.EMAFast
	}
	if len(ind.EMASlow) == len(bars) {
		overlays["EMA slow"] = ind.EMASlow
	}
	data.PriceChart = template.HTML(CandlestickChart(bars, overlays, priceCfg))

	macdCfg := chartCfg
	macdCfg.Height = 260
	macdCfg.Title = fmt.Sprintf("%s MACD", a.Ticker)
	data.MACDChart = template.HTML(MACDChart(bars, ind.MACDLine, ind.SignalLine, ind.Histogram, macdCfg))

	if hasDefined(ind.RollingVolatility) {
		volCfg := chartCfg
		volCfg.Height = 260
		volCfg.Title = fmt.Sprintf("%s Annualized Rolling Volatility", a.Ticker)
		labels := make([]string, len(bars))
		for i, b := range bars {
			labels[i] = b.Date.Format("02 Jan")
		}
		data.VolatilityChart = template.HTML(LineChart([]LineChartSeries{
			{Name: "Volatility", Values: ind.RollingVolatility, Color: "#9c27b0"},
		}, labels, volCfg))
	}

	if len(a.Recommendations) > 0 {
		recCfg := chartCfg
		recCfg.Height = 240
		data.RecommendationChart = template.HTML(RecommendationChart(a.Recommendations[0], recCfg))
	}
}

// hasDefined reports whether any value in the slice is non-NaN.
func hasDefined(values []float64) bool {
	for _, v := range values {
		if !math.IsNaN(v) {
			return true
		}
	}
	return false
}

func renderTextReport(d ReportData) string {
	var sb strings.Builder
	line := strings.Repeat("═", 60)
	thinLine := strings.Repeat("─", 60)

	sb.WriteString("\n" + line + "\n")
	sb.WriteString(fmt.Sprintf("  %s\n", d.Title))
	sb.WriteString(fmt.Sprintf("  Generated: %s\n", d.GeneratedAt))
	sb.WriteString(line + "\n\n")

	if d.CompanyName != "" {
		sb.WriteString(fmt.Sprintf("  %s (%s)", d.CompanyName, d.Ticker))
		if d.Exchange != "" {
			sb.WriteString(" — " + d.Exchange)
		}
		sb.WriteString("\n")
	}
	if d.Sector != "" {
		sb.WriteString(fmt.Sprintf("  Sector: %s | Industry: %s\n", d.Sector, d.Industry))
	}
	sb.WriteString(thinLine + "\n")

	if d.HasQuote {
		sb.WriteString(fmt.Sprintf("  Price: %s (%s, %s)\n", d.LastPrice, d.Change, d.ChangePct))
		sb.WriteString(fmt.Sprintf("  Day: %s — %s | 52W: %s — %s\n", d.DayLow, d.DayHigh, d.WeekLow52, d.WeekHigh52))
		sb.WriteString(fmt.Sprintf("  Volume: %s | Market Cap: %s\n", d.Volume, d.MarketCap))
		sb.WriteString(thinLine + "\n")
	}

	if d.HasMetrics {
		sb.WriteString("\n  ■ PERFORMANCE\n")
		if d.PeriodFrom != "" {
			sb.WriteString(fmt.Sprintf("  Period: %s to %s (%s trading days)\n", d.PeriodFrom, d.PeriodTo, d.TradingDays))
		}
		sb.WriteString(fmt.Sprintf("  Total Return:      %s\n", d.TotalReturn))
		sb.WriteString(fmt.Sprintf("  Annualized Return: %s\n", d.AnnualizedReturn))
		sb.WriteString(fmt.Sprintf("  Volatility:        %s\n", d.Volatility))
		sb.WriteString(fmt.Sprintf("  Sharpe Ratio:      %s\n", d.SharpeRatio))
		sb.WriteString(fmt.Sprintf("  Max Drawdown:      %s\n", d.MaxDrawdown))
		sb.WriteString(thinLine + "\n")
	}

	if len(d.Recommendations) > 0 {
		sb.WriteString("\n  ■ ANALYST RECOMMENDATIONS\n")
		sb.WriteString(fmt.Sprintf("  %-6s %10s %6s %6s %6s %11s\n",
			"Period", "StrongBuy", "Buy", "Hold", "Sell", "StrongSell"))
		for _, r := range d.Recommendations {
			sb.WriteString(fmt.Sprintf("  %-6s %10d %6d %6d %6d %11d\n",
				r.Period, r.StrongBuy, r.Buy, r.Hold, r.Sell, r.StrongSell))
		}
		sb.WriteString(thinLine + "\n")
	}

	if d.HasEarnings {
		sb.WriteString("\n  ■ EARNINGS\n")
		if d.EarningsDates != "" {
			sb.WriteString(fmt.Sprintf("  Next earnings: %s\n", d.EarningsDates))
		}
		if d.EPSEstimate != "" {
			sb.WriteString(fmt.Sprintf("  EPS estimate:  %s\n", d.EPSEstimate))
		}
		if d.RevenueAverage != "" {
			sb.WriteString(fmt.Sprintf("  Revenue est.:  %s\n", d.RevenueAverage))
		}
		sb.WriteString(thinLine + "\n")
	}

	if len(d.News) > 0 {
		sb.WriteString("\n  ■ RECENT NEWS\n")
		for _, n := range d.News {
			sb.WriteString(fmt.Sprintf("  [%s] %s\n", n.Published, n.Title))
		}
		sb.WriteString(thinLine + "\n")
	}

	for _, w := range d.Warnings {
		sb.WriteString(fmt.Sprintf("  ⚠ %s\n", w))
	}

	sb.WriteString("\n" + line + "\n")
	return sb.String()
}
