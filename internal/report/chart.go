// Package report renders an analysis into an HTML report with inline
// SVG charts, and optionally exports it as a PDF.
package report

import (
	"fmt"
	"math"
	"strings"
)

// ════════════════════════════════════════════════════════════════════
// SVG Chart Generator — Pure Go, Zero Dependencies
// ════════════════════════════════════════════════════════════════════

// ChartItem is a single labeled value in a chart series.
type ChartItem struct {
	Label string
	Value float64
	Color string // hex color (optional, auto-assigned if empty)
}

// ChartConfig holds rendering parameters for SVG charts.
type ChartConfig struct {
	Width        int    // SVG width in pixels (default: 600)
	Height       int    // SVG height in pixels (default: 340)
	MarginTop    int    // top margin (default: 40)
	MarginRight  int    // right margin (default: 30)
	MarginBottom int    // bottom margin (default: 50)
	MarginLeft   int    // left margin (default: 60)
	BgColor      string // background color (default: "#ffffff")
	GridColor    string // grid line color (default: "#e8e8e8")
	TextColor    string // axis label color (default: "#333333")
	FontSize     int    // axis label font size (default: 11)
	Title        string // chart title
}

// DefaultChartConfig returns sensible defaults for chart rendering.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:        600,
		Height:       340,
		MarginTop:    40,
		MarginRight:  30,
		MarginBottom: 50,
		MarginLeft:   60,
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

var defaultPalette = []string{"#2196f3", "#ff9800", "#4caf50", "#e91e63", "#9c27b0", "#00bcd4", "#ffc107", "#607d8b"}

func itemColor(item ChartItem, i int) string {
	if item.Color != "" {
		return item.Color
	}
	return defaultPalette[i%len(defaultPalette)]
}

// ════════════════════════════════════════════════════════════════════
// Pie Chart
// ════════════════════════════════════════════════════════════════════

// PieChart generates an SVG pie chart. The full turn is partitioned
// proportionally to each value's share of the total, starting at the
// top (-90°); each label sits at the slice's mid-angle outside the arc.
func PieChart(items []ChartItem, cfg ChartConfig) string {
	items = positiveItems(items)
	if len(items) == 0 {
		return emptySVG(cfg, "Sem dados")
	}

	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	if cfg.Title == "" {
		cfg.Title = "Distribuição"
	}

	var total float64
	for _, item := range items {
		total += item.Value
	}

	cx := float64(cfg.Width) / 2
	cy := float64(cfg.Height)/2 + 10
	radius := math.Min(cx, cy) - 60
	if radius < 40 {
		radius = 40
	}

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	// Start at the top of the circle.
	angle := -math.Pi / 2
	for i, item := range items {
		sweep := (item.Value / total) * 2 * math.Pi
		end := angle + sweep

		x1 := cx + radius*math.Cos(angle)
		y1 := cy + radius*math.Sin(angle)
		x2 := cx + radius*math.Cos(end)
		y2 := cy + radius*math.Sin(end)

		largeArc := 0
		if sweep > math.Pi {
			largeArc = 1
		}

		if len(items) == 1 {
			// A single slice is the whole circle; an arc with identical
			// endpoints renders as nothing.
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s" stroke-width="1"/>`,
				cx, cy, radius, itemColor(item, i), cfg.BgColor))
		} else {
			sb.WriteString(fmt.Sprintf(`<path d="M%.1f,%.1f L%.1f,%.1f A%.1f,%.1f 0 %d,1 %.1f,%.1f Z" fill="%s" stroke="%s" stroke-width="1"/>`,
				cx, cy, x1, y1, radius, radius, largeArc, x2, y2, itemColor(item, i), cfg.BgColor))
		}

		// Label outside the arc at the slice mid-angle.
		mid := angle + sweep/2
		lx := cx + (radius+18)*math.Cos(mid)
		ly := cy + (radius+18)*math.Sin(mid)
		anchor := "start"
		if math.Cos(mid) < -0.1 {
			anchor = "end"
		} else if math.Abs(math.Cos(mid)) <= 0.1 {
			anchor = "middle"
		}
		pct := item.Value / total * 100
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%d" fill="%s" text-anchor="%s">%s (%.0f%%)</text>`,
			lx, ly, cfg.FontSize, cfg.TextColor, anchor, escapeXML(item.Label), pct))

		angle = end
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// PieSliceSweep returns the arc sweep in degrees that PieChart assigns
// to items[i].
func PieSliceSweep(items []ChartItem, i int) float64 {
	items = positiveItems(items)
	if i < 0 || i >= len(items) {
		return 0
	}
	var total float64
	for _, item := range items {
		total += item.Value
	}
	if total == 0 {
		return 0
	}
	return items[i].Value / total * 360
}

// ════════════════════════════════════════════════════════════════════
// Bar Chart (Vertical)
// ════════════════════════════════════════════════════════════════════

// BarChart generates an SVG vertical bar chart. Each value is
// normalized against the series maximum; bars rise from a fixed
// baseline with uniform width and gaps, label below, value above.
func BarChart(items []ChartItem, cfg ChartConfig) string {
	items = positiveItems(items)
	if len(items) == 0 {
		return emptySVG(cfg, "Sem dados")
	}

	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	if cfg.Title == "" {
		cfg.Title = "Comparativo"
	}

	px, py, pw, ph := cfg.plotArea()

	maxVal := 0.0
	for _, item := range items {
		if item.Value > maxVal {
			maxVal = item.Value
		}
	}
	if maxVal <= 0 {
		maxVal = 1
	}

	n := len(items)
	slot := float64(pw) / float64(n)
	barW := slot * 0.6
	gap := slot * 0.4

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	// Baseline
	sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="1"/>`,
		px, py+ph, px+pw, py+ph, cfg.GridColor))

	for i, item := range items {
		bh := (item.Value / maxVal) * float64(ph)
		bx := float64(px) + float64(i)*slot + gap/2
		by := float64(py+ph) - bh

		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" rx="2"/>`,
			bx, by, barW, bh, itemColor(item, i)))

		// Value above the bar
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%d" fill="%s" text-anchor="middle">%s</text>`,
			bx+barW/2, by-5, cfg.FontSize, cfg.TextColor, formatChartValue(item.Value)))

		// Label below the baseline
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="%d" fill="%s" text-anchor="middle">%s</text>`,
			bx+barW/2, py+ph+16, cfg.FontSize, cfg.TextColor, escapeXML(item.Label)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// BarHeight returns the pixel height BarChart assigns to items[i].
func BarHeight(items []ChartItem, i int, cfg ChartConfig) float64 {
	items = positiveItems(items)
	if i < 0 || i >= len(items) {
		return 0
	}
	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	_, _, _, ph := cfg.plotArea()
	maxVal := 0.0
	for _, item := range items {
		if item.Value > maxVal {
			maxVal = item.Value
		}
	}
	if maxVal <= 0 {
		return 0
	}
	return items[i].Value / maxVal * float64(ph)
}

// ════════════════════════════════════════════════════════════════════
// Line Chart
// ════════════════════════════════════════════════════════════════════

// LineChart generates an SVG line chart. Points are placed at uniform
// horizontal spacing, vertically interpolated between the series min
// and max, connected sequentially with a marker at each point.
func LineChart(items []ChartItem, cfg ChartConfig) string {
	if len(items) == 0 {
		return emptySVG(cfg, "Sem dados")
	}

	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	if cfg.Title == "" {
		cfg.Title = "Evolução"
	}

	px, py, pw, ph := cfg.plotArea()

	minVal, maxVal := items[0].Value, items[0].Value
	for _, item := range items {
		if item.Value < minVal {
			minVal = item.Value
		}
		if item.Value > maxVal {
			maxVal = item.Value
		}
	}
	vRange := maxVal - minVal
	if vRange < 0.001 {
		vRange = 1
	}

	n := len(items)
	step := 0.0
	if n > 1 {
		step = float64(pw) / float64(n-1)
	}

	lineColor := items[0].Color
	if lineColor == "" {
		lineColor = defaultPalette[0]
	}

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	// Y-axis grid
	gridLines := 4
	for i := 0; i <= gridLines; i++ {
		val := minVal + vRange*float64(i)/float64(gridLines)
		y := py + ph - int(float64(ph)*float64(i)/float64(gridLines))
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-dasharray="3,3"/>`,
			px, y, px+pw, y, cfg.GridColor))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" font-size="%d" fill="%s" text-anchor="end">%s</text>`,
			px-5, y+4, cfg.FontSize, cfg.TextColor, formatChartValue(val)))
	}

	pointXY := func(i int) (float64, float64) {
		x := float64(px) + float64(i)*step
		if n == 1 {
			x = float64(px) + float64(pw)/2
		}
		ratio := (items[i].Value - minVal) / vRange
		y := float64(py+ph) - ratio*float64(ph)
		return x, y
	}

	var pathParts []string
	for i := range items {
		x, y := pointXY(i)
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		pathParts = append(pathParts, fmt.Sprintf("%s%.1f,%.1f", cmd, x, y))
	}
	if len(pathParts) > 1 {
		sb.WriteString(fmt.Sprintf(`<path d="%s" fill="none" stroke="%s" stroke-width="2"/>`,
			strings.Join(pathParts, " "), lineColor))
	}

	// Markers and X labels
	for i, item := range items {
		x, y := pointXY(i)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3.5" fill="%s"/>`, x, y, lineColor))
		if item.Label != "" {
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="%d" fill="%s" text-anchor="middle">%s</text>`,
				x, py+ph+16, cfg.FontSize, cfg.TextColor, escapeXML(item.Label)))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// ════════════════════════════════════════════════════════════════════
// Funnel Chart
// ════════════════════════════════════════════════════════════════════

// FunnelChart generates an SVG conversion funnel. Stages are stacked
// top-to-bottom as horizontally centered bars whose width is
// proportional to the stage value relative to the first (100%) stage.
func FunnelChart(items []ChartItem, cfg ChartConfig) string {
	if len(items) == 0 {
		return emptySVG(cfg, "Sem dados")
	}

	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	if cfg.Title == "" {
		cfg.Title = "Funil de Conversão"
	}

	px, py, pw, ph := cfg.plotArea()

	first := items[0].Value
	if first <= 0 {
		first = 1
	}

	n := len(items)
	slot := float64(ph) / float64(n)
	barH := slot * 0.7
	center := float64(px) + float64(pw)/2

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	for i, item := range items {
		ratio := item.Value / first
		if ratio < 0 {
			ratio = 0
		}
		bw := ratio * float64(pw)
		bx := center - bw/2
		by := float64(py) + float64(i)*slot + (slot-barH)/2

		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" rx="3"/>`,
			bx, by, bw, barH, itemColor(item, i)))

		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%d" fill="%s" text-anchor="middle">%s — %.0f%%</text>`,
			center, by+barH/2+4, cfg.FontSize, cfg.TextColor, escapeXML(item.Label), ratio*100))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// FunnelWidth returns the pixel width FunnelChart assigns to items[i].
func FunnelWidth(items []ChartItem, i int, cfg ChartConfig) float64 {
	if i < 0 || i >= len(items) {
		return 0
	}
	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	_, _, pw, _ := cfg.plotArea()
	first := items[0].Value
	if first <= 0 {
		return 0
	}
	ratio := items[i].Value / first
	if ratio < 0 {
		ratio = 0
	}
	return ratio * float64(pw)
}

// ════════════════════════════════════════════════════════════════════
// SVG Helpers
// ════════════════════════════════════════════════════════════════════

func positiveItems(items []ChartItem) []ChartItem {
	out := items[:0:0]
	for _, item := range items {
		if item.Value > 0 {
			out = append(out, item)
		}
	}
	return out
}

func formatChartValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%.0f", v)
	}
	return strings.Replace(fmt.Sprintf("%.1f", v), ".", ",", 1)
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
