package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"

	svgo "github.com/ajstarks/svgo"
)

// Line renders the trend chart: one point per label joined by a polyline
// path, over a zero-based value axis. With ShowDots each point becomes a
// hoverable mark whose tooltip reads "label: value".
func Line(width, height int, series []float64, labels []string, opts LineOpts) (template.HTML, error) {
	if len(series) != len(labels) {
		return "", fmt.Errorf("svg: labels length must match series")
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	title := fallback(opts.Title, "Line chart")
	if len(series) == 0 {
		return Empty(width, height, title), nil
	}
	padding := opts.Padding
	if padding <= 0 {
		padding = DefaultPadding
	}
	ticks := opts.TickCount
	if ticks <= 0 {
		ticks = DefaultTicks
	}
	plotW := float64(width) - 2*padding
	plotH := float64(height) - 2*padding
	if plotW <= 0 || plotH <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}

	lo, hi := bounds(series)
	lo, hi = math.Min(lo, 0), math.Max(hi, 0)
	if almostEqual(hi, lo) {
		hi = lo + 1
	}
	bottom := padding + plotH
	x := func(i int) float64 {
		if len(series) == 1 {
			return padding + plotW/2
		}
		return padding + float64(i)*plotW/float64(len(series)-1)
	}
	y := func(v float64) float64 { return bottom - (v-lo)/(hi-lo)*plotH }

	var path strings.Builder
	for i, v := range series {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&path, "%s%d %d ", cmd, px(x(i)), px(y(v)))
	}
	d := strings.TrimSpace(path.String())

	stroke := fallback(opts.StrokeColor, "#3b82f6")
	axis := attr("stroke", fallback(opts.AxisColor, "#475569"))
	axisText := attr("fill", fallback(opts.AxisColor, "#475569"))
	grid := attr("stroke", fallback(opts.GridColor, "#e2e8f0"))

	return document(width, height, title, fallback(opts.Description, "Trend data"), func(canvas *svgo.SVG) {
		for i := 0; i <= ticks; i++ {
			ratio := float64(i) / float64(ticks)
			gy := px(bottom - ratio*plotH)
			canvas.Line(px(padding), gy, px(padding+plotW), gy, grid, `stroke-width="0.5"`, `stroke-dasharray="2,4"`)
			canvas.Text(px(padding)-6, gy+4, formatTick(lo+(hi-lo)*ratio), axisText, `font-size="10"`, `text-anchor="end"`)
		}
		canvas.Line(px(padding), px(padding), px(padding), px(bottom), axis)
		canvas.Line(px(padding), px(bottom), px(padding+plotW), px(bottom), axis)

		if opts.FillColor != "" {
			area := fmt.Sprintf("%s L%d %d L%d %d Z", d, px(x(len(series)-1)), px(bottom), px(x(0)), px(bottom))
			canvas.Path(area, attr("fill", opts.FillColor), `stroke="none"`)
		}
		canvas.Path(d, `fill="none"`, attr("stroke", stroke), `stroke-width="2"`, `stroke-linejoin="round"`, `stroke-linecap="round"`)

		if opts.ShowDots {
			for i, v := range series {
				tooltipMark(canvas, "trend", labels[i]+": "+formatTick(v))
				canvas.Circle(px(x(i)), px(y(v)), 5, attr("fill", stroke))
				canvas.Gend()
			}
		}
		for i, label := range labels {
			canvas.Text(px(x(i)), px(bottom)+14, label, axisText, `font-size="10"`, `text-anchor="middle"`)
		}
	}), nil
}

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}

func bounds(series []float64) (float64, float64) {
	minVal := series[0]
	maxVal := series[0]
	for _, v := range series[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func makeID(base, suffix string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		if r == '-' || r == '_' {
			return r
		}
		return '-'
	}, strings.ToLower(strings.TrimSpace(base)))
	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		cleaned = "chart"
	}
	return fmt.Sprintf("%s-%s", cleaned, suffix)
}

func formatTick(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", v/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fk", v/1_000)
	default:
		if almostEqual(v, math.Round(v)) {
			return fmt.Sprintf("%.0f", v)
		}
		return fmt.Sprintf("%.2f", v)
	}
}
