// Package report renders analysis results as multi-panel HTML reports
// with embedded SVG charts, plus a plain-text summary for terminals.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/devashah/stockscope/pkg/models"
	"github.com/devashah/stockscope/pkg/utils"
)

// ChartConfig holds rendering parameters for SVG charts.
type ChartConfig struct {
	Width        int
	Height       int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	MarginLeft   int
	BgColor      string
	GridColor    string
	TextColor    string
	FontSize     int
	Title        string
}

// DefaultChartConfig returns sensible defaults for chart rendering.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:        900,
		Height:       420,
		MarginTop:    40,
		MarginRight:  60,
		MarginBottom: 50,
		MarginLeft:   70,
		BgColor:      "#ffffff",
		GridColor:    "#e8e8e8",
		TextColor:    "#333333",
		FontSize:     11,
	}
}

// plotArea returns the usable drawing area dimensions.
func (c ChartConfig) plotArea() (x, y, w, h int) {
	return c.MarginLeft, c.MarginTop,
		c.Width - c.MarginLeft - c.MarginRight,
		c.Height - c.MarginTop - c.MarginBottom
}

// CandlestickChart generates an SVG candlestick chart from daily bars,
// overlaying named indicator lines (moving averages) and volume bars. Overlay values
// that are NaN are skipped, so warm-up gaps simply start the line later.
func CandlestickChart(bars []models.PriceBar, overlays map[string][]float64, cfg ChartConfig) string {
	if len(bars) == 0 {
		return emptySVG(cfg, "No data available")
	}

	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	if cfg.Title == "" {
		cfg.Title = "Price Chart"
	}

	px, py, pw, ph := cfg.plotArea()

	minPrice, maxPrice := bars[0].Low, bars[0].High
	for _, b := range bars {
		if b.Low < minPrice {
			minPrice = b.Low
		}
		if b.High > maxPrice {
			maxPrice = b.High
		}
	}
	// 5% padding above and below
	priceRange := maxPrice - minPrice
	if priceRange < 0.01 {
		priceRange = 1
	}
	minPrice -= priceRange * 0.05
	maxPrice += priceRange * 0.05
	priceRange = maxPrice - minPrice

	var maxVol int64
	for _, b := range bars {
		if b.Volume > maxVol {
			maxVol = b.Volume
		}
	}

	n := len(bars)
	candleWidth := float64(pw) / float64(n)
	if candleWidth > 12 {
		candleWidth = 12
	}
	bodyWidth := candleWidth * 0.7
	volHeight := float64(ph) * 0.2 // bottom 20% for volume

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	priceToY := func(p float64) int {
		ratio := (p - minPrice) / priceRange
		return py + ph - int(volHeight) - int(ratio*float64(ph-int(volHeight)))
	}

	// Y-axis grid lines and price labels
	gridLines := 6
	for i := 0; i <= gridLines; i++ {
		price := minPrice + priceRange*float64(i)/float64(gridLines)
		y := priceToY(price)
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-dasharray="3,3"/>`,
			px, y, px+pw, y, cfg.GridColor))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="end">%s</text>`,
			px-5, y+4, cfg.FontSize, cfg.TextColor, utils.FormatUSD(price)))
	}

	// Volume bars
	if maxVol > 0 {
		for i, b := range bars {
			cx := float64(px) + float64(i)*float64(pw)/float64(n) + float64(pw)/float64(n)/2
			vRatio := float64(b.Volume) / float64(maxVol)
			vh := vRatio * volHeight
			vy := float64(py+ph) - vh
			color := "#c8e6c9"
			if b.Close < b.Open {
				color = "#ffcdd2"
			}
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" opacity="0.6"/>`,
				cx-bodyWidth/2, vy, bodyWidth, vh, color))
		}
	}

	// Candles
	for i, b := range bars {
		cx := float64(px) + float64(i)*float64(pw)/float64(n) + float64(pw)/float64(n)/2

		color := "#26a69a"
		if b.Close < b.Open {
			color = "#ef5350"
		}

		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%d" x2="%.1f" y2="%d" stroke="%s" stroke-width="1"/>`,
			cx, priceToY(b.High), cx, priceToY(b.Low), color))

		openY := priceToY(b.Open)
		closeY := priceToY(b.Close)
		bodyTop := openY
		bodyH := closeY - openY
		if bodyH < 0 {
			bodyTop = closeY
			bodyH = -bodyH
		}
		if bodyH < 1 {
			bodyH = 1
		}
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%d" width="%.1f" height="%d" fill="%s"/>`,
			cx-bodyWidth/2, bodyTop, bodyWidth, bodyH, color))
	}

	// Overlay lines (moving averages)
	colors := []string{"#ff9800", "#2196f3", "#9c27b0", "#4caf50"}
	colorIdx := 0
	for _, name := range sortedOverlayNames(overlays) {
		values := overlays[name]
		if len(values) != n {
			continue
		}
		color := colors[colorIdx%len(colors)]
		colorIdx++

		var pathParts []string
		for i, v := range values {
			if math.IsNaN(v) {
				continue
			}
			cx := float64(px) + float64(i)*float64(pw)/float64(n) + float64(pw)/float64(n)/2
			y := priceToY(v)
			cmd := "L"
			if len(pathParts) == 0 {
				cmd = "M"
			}
			pathParts = append(pathParts, fmt.Sprintf("%s%.1f,%d", cmd, cx, y))
		}
		if len(pathParts) > 1 {
			sb.WriteString(fmt.Sprintf(`<path d="%s" fill="none" stroke="%s" stroke-width="1.5" opacity="0.8"/>`,
				strings.Join(pathParts, " "), color))
			ly := py + 15 + colorIdx*16
			sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="2"/>`,
				px+10, ly, px+30, ly, color))
			sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="10" fill="%s">%s</text>`,
				px+35, ly+4, cfg.TextColor, escapeXML(name)))
		}
	}

	writeDateLabels(&sb, bars, cfg, px, py, pw, ph, n)

	sb.WriteString("</svg>")
	return sb.String()
}

// MACDChart generates an SVG panel with the MACD and signal lines plus a
// histogram colored by sign. All three slices must be date-aligned with
// the chart's bars; NaN warm-up values are skipped.
func MACDChart(bars []models.PriceBar, line, signal, histogram []float64, cfg ChartConfig) string {
	n := len(bars)
	if n == 0 || len(line) != n || len(signal) != n || len(histogram) != n {
		return emptySVG(cfg, "No MACD data")
	}

	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
		cfg.Height = 260
	}
	if cfg.Title == "" {
		cfg.Title = "MACD (12, 26, 9)"
	}

	px, py, pw, ph := cfg.plotArea()

	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for i := 0; i < n; i++ {
		for _, v := range [3]float64{line[i], signal[i], histogram[i]} {
			if math.IsNaN(v) {
				continue
			}
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}
	if math.IsInf(minVal, 1) {
		return emptySVG(cfg, "MACD not yet defined")
	}

	vRange := maxVal - minVal
	if vRange < 0.001 {
		vRange = 1
	}
	minVal -= vRange * 0.1
	maxVal += vRange * 0.1
	vRange = maxVal - minVal

	valToY := func(v float64) float64 {
		return float64(py+ph) - ((v-minVal)/vRange)*float64(ph)
	}

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	// Y-axis grid with zero line emphasized
	gridLines := 4
	for i := 0; i <= gridLines; i++ {
		val := minVal + vRange*float64(i)/float64(gridLines)
		y := valToY(val)
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-dasharray="3,3"/>`,
			px, y, px+pw, y, cfg.GridColor))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%.1f" font-size="%d" fill="%s" text-anchor="end">%.2f</text>`,
			px-5, y+4, cfg.FontSize, cfg.TextColor, val))
	}
	if minVal < 0 && maxVal > 0 {
		zeroY := valToY(0)
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="#999" stroke-width="1"/>`,
			px, zeroY, px+pw, zeroY))
	}

	// Histogram bars, green above zero and red below
	barWidth := float64(pw) / float64(n) * 0.7
	if barWidth > 8 {
		barWidth = 8
	}
	zeroY := valToY(0)
	for i, v := range histogram {
		if math.IsNaN(v) {
			continue
		}
		cx := float64(px) + float64(i)*float64(pw)/float64(n) + float64(pw)/float64(n)/2
		vy := valToY(v)
		top, h := vy, zeroY-vy
		color := "#26a69a"
		if v < 0 {
			top, h = zeroY, vy-zeroY
			color = "#ef5350"
		}
		if h < 0.5 {
			h = 0.5
		}
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" opacity="0.7"/>`,
			cx-barWidth/2, top, barWidth, h, color))
	}

	// MACD and signal lines
	for _, ln := range []struct {
		values []float64
		name   string
		color  string
	}{
		{line, "MACD", "#2196f3"},
		{signal, "Signal", "#ff9800"},
	} {
		var pathParts []string
		for i, v := range ln.values {
			if math.IsNaN(v) {
				continue
			}
			cx := float64(px) + float64(i)*float64(pw)/float64(n) + float64(pw)/float64(n)/2
			cmd := "L"
			if len(pathParts) == 0 {
				cmd = "M"
			}
			pathParts = append(pathParts, fmt.Sprintf("%s%.1f,%.1f", cmd, cx, valToY(v)))
		}
		if len(pathParts) > 1 {
			sb.WriteString(fmt.Sprintf(`<path d="%s" fill="none" stroke="%s" stroke-width="1.5"/>`,
				strings.Join(pathParts, " "), ln.color))
		}
	}

	// Legend
	legend := []struct{ name, color string }{
		{"MACD", "#2196f3"}, {"Signal", "#ff9800"}, {"Histogram", "#26a69a"},
	}
	for i, l := range legend {
		ly := py + 15 + i*16
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="2"/>`,
			px+10, ly, px+30, ly, l.color))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="10" fill="%s">%s</text>`,
			px+35, ly+4, cfg.TextColor, l.name))
	}

	writeDateLabels(&sb, bars, cfg, px, py, pw, ph, n)

	sb.WriteString("</svg>")
	return sb.String()
}

// LineChartSeries represents a named data series for line charts.
type LineChartSeries struct {
	Name   string
	Values []float64
	Color  string
}

// LineChart generates an SVG line chart with one or more series.
// Labels are optional X-axis labels corresponding to data points.
// NaN values are skipped so partially defined series render cleanly.
func LineChart(series []LineChartSeries, labels []string, cfg ChartConfig) string {
	if len(series) == 0 {
		return emptySVG(cfg, "No data")
	}

	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	if cfg.Title == "" {
		cfg.Title = "Line Chart"
	}

	px, py, pw, ph := cfg.plotArea()

	minVal, maxVal := math.MaxFloat64, -math.MaxFloat64
	maxLen := 0
	for _, s := range series {
		if len(s.Values) > maxLen {
			maxLen = len(s.Values)
		}
		for _, v := range s.Values {
			if math.IsNaN(v) {
				continue
			}
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}
	if maxLen == 0 || minVal > maxVal {
		return emptySVG(cfg, "No data points")
	}

	vRange := maxVal - minVal
	if vRange < 0.001 {
		vRange = 1
	}
	minVal -= vRange * 0.05
	maxVal += vRange * 0.05
	vRange = maxVal - minVal

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	gridLines := 5
	for i := 0; i <= gridLines; i++ {
		val := minVal + vRange*float64(i)/float64(gridLines)
		y := py + ph - int(float64(ph)*float64(i)/float64(gridLines))
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-dasharray="3,3"/>`,
			px, y, px+pw, y, cfg.GridColor))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="end">%.2f</text>`,
			px-5, y+4, cfg.FontSize, cfg.TextColor, val))
	}

	defaultColors := []string{"#2196f3", "#ff9800", "#4caf50", "#e91e63", "#9c27b0", "#00bcd4"}
	denom := maxLen - 1
	if denom < 1 {
		denom = 1
	}
	for si, s := range series {
		color := s.Color
		if color == "" {
			color = defaultColors[si%len(defaultColors)]
		}

		var pathParts []string
		for i, v := range s.Values {
			if math.IsNaN(v) {
				continue
			}
			cx := float64(px) + float64(i)*float64(pw)/float64(denom)
			ratio := (v - minVal) / vRange
			cy := float64(py+ph) - ratio*float64(ph)
			cmd := "L"
			if len(pathParts) == 0 {
				cmd = "M"
			}
			pathParts = append(pathParts, fmt.Sprintf("%s%.1f,%.1f", cmd, cx, cy))
		}
		if len(pathParts) > 1 {
			sb.WriteString(fmt.Sprintf(`<path d="%s" fill="none" stroke="%s" stroke-width="2"/>`,
				strings.Join(pathParts, " "), color))
		}

		ly := py + 10 + si*16
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="2"/>`,
			px+10, ly, px+30, ly, color))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="10" fill="%s">%s</text>`,
			px+35, ly+4, cfg.TextColor, escapeXML(s.Name)))
	}

	if len(labels) > 0 {
		interval := maxLen / 6
		if interval < 1 {
			interval = 1
		}
		for i := 0; i < len(labels) && i < maxLen; i += interval {
			cx := float64(px) + float64(i)*float64(pw)/float64(denom)
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="%d" fill="%s" text-anchor="middle">%s</text>`,
				cx, py+ph+18, cfg.FontSize-1, cfg.TextColor, escapeXML(labels[i])))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// RecommendationChart generates an SVG horizontal bar chart of analyst
// recommendation counts for the most recent period.
func RecommendationChart(trend models.RecommendationTrend, cfg ChartConfig) string {
	items := []struct {
		label string
		value int
		color string
	}{
		{"Strong Buy", trend.StrongBuy, "#2e7d32"},
		{"Buy", trend.Buy, "#66bb6a"},
		{"Hold", trend.Hold, "#ffc107"},
		{"Sell", trend.Sell, "#ef6c00"},
		{"Strong Sell", trend.StrongSell, "#c62828"},
	}

	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
		cfg.Height = 240
	}
	cfg.MarginLeft = 120
	if cfg.Title == "" {
		cfg.Title = fmt.Sprintf("Analyst Recommendations (%s)", trend.Period)
	}

	px, py, pw, ph := cfg.plotArea()

	maxVal := 1
	for _, item := range items {
		if item.value > maxVal {
			maxVal = item.value
		}
	}

	barH := float64(ph) / float64(len(items)) * 0.7
	if barH > 30 {
		barH = 30
	}
	gap := (float64(ph) - barH*float64(len(items))) / float64(len(items)+1)

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	for i, item := range items {
		by := float64(py) + gap + float64(i)*(barH+gap)
		bw := float64(item.value) / float64(maxVal) * float64(pw)

		sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%.1f" width="%.1f" height="%.1f" fill="%s" rx="2"/>`,
			px, by, bw, barH, item.color))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%.1f" font-size="%d" fill="%s" text-anchor="end">%s</text>`,
			px-5, by+barH/2+4, cfg.FontSize, cfg.TextColor, item.label))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%d" fill="%s">%d</text>`,
			float64(px)+bw+5, by+barH/2+4, cfg.FontSize, cfg.TextColor, item.value))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// writeDateLabels draws rotated X-axis date labels under a bar panel.
func writeDateLabels(sb *strings.Builder, bars []models.PriceBar, cfg ChartConfig, px, py, pw, ph, n int) {
	labelInterval := n / 6
	if labelInterval < 1 {
		labelInterval = 1
	}
	for i := 0; i < n; i += labelInterval {
		cx := float64(px) + float64(i)*float64(pw)/float64(n) + float64(pw)/float64(n)/2
		label := bars[i].Date.Format("02 Jan")
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="%d" fill="%s" text-anchor="middle" transform="rotate(-45,%.1f,%d)">%s</text>`,
			cx, py+ph+15, cfg.FontSize-1, cfg.TextColor, cx, py+ph+15, label))
	}
}

// sortedOverlayNames returns overlay keys in a stable order so colors
// and legends do not shuffle between renders.
func sortedOverlayNames(overlays map[string][]float64) []string {
	names := make([]string, 0, len(overlays))
	for name := range overlays {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func svgHeader(cfg ChartConfig) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height)
}

func emptySVG(cfg ChartConfig, msg string) string {
	if cfg.Width == 0 {
		cfg.Width = 400
	}
	if cfg.Height == 0 {
		cfg.Height = 200
	}
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"><rect width="%d" height="%d" fill="#f5f5f5"/><text x="%d" y="%d" text-anchor="middle" fill="#999" font-size="14">%s</text></svg>`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height, cfg.Width/2, cfg.Height/2, escapeXML(msg))
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
