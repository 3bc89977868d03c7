package svg

import (
	"fmt"
	"html/template"
	"strings"
)

// Bars renders one bar per datum, vertical by default or horizontal when
// opts.Horizontal is set. An empty data set renders the empty state.
func Bars(width, height int, data []Datum, opts BarOpts) (template.HTML, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if len(data) == 0 {
		return Empty(width, height, fallback(opts.Title, "Bar chart")), nil
	}
	padding := opts.Padding
	if padding <= 0 {
		padding = DefaultPadding
	}
	tickCount := opts.TickCount
	if tickCount <= 0 {
		tickCount = DefaultTicks
	}
	axisColor := fallback(opts.AxisColor, "#475569")
	gridColor := fallback(opts.GridColor, "#e2e8f0")

	left := padding
	if opts.Horizontal {
		left = padding + labelGutter(data)
	}
	chartWidth := float64(width) - left - padding
	chartHeight := float64(height) - 2*padding
	if chartWidth <= 0 || chartHeight <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}

	values := make([]float64, len(data))
	for i, d := range data {
		values[i] = d.Value
	}
	_, maxVal := bounds(values)
	if maxVal <= 0 || almostEqual(maxVal, 0) {
		maxVal = 1
	}

	titleID := makeID(opts.Title, "bar-title")
	descID := makeID(opts.Title, "bar-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, height, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Bar chart"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Distribution by category"))))
	b.WriteString(hoverStyle)

	bottom := padding + chartHeight
	for i := 0; i <= tickCount; i++ {
		ratio := float64(i) / float64(tickCount)
		value := maxVal * ratio
		if opts.Horizontal {
			x := left + ratio*chartWidth
			b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"0.5\" stroke-dasharray=\"2,4\" aria-hidden=\"true\"></line>", x, padding, x, bottom, gridColor))
			b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>", x, bottom+14, axisColor, template.HTMLEscapeString(formatTick(value))))
			continue
		}
		y := bottom - ratio*chartHeight
		b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"0.5\" stroke-dasharray=\"2,4\" aria-hidden=\"true\"></line>", left, y, left+chartWidth, y, gridColor))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"end\">%s</text>", left-6, y+4, axisColor, template.HTMLEscapeString(formatTick(value))))
	}

	// Axes
	b.WriteString(fmt.Sprintf("<g stroke=\"%s\" aria-label=\"Axes\">", axisColor))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", left, padding, left, bottom))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", left, bottom, left+chartWidth, bottom))
	b.WriteString("</g>")

	band := chartWidth / float64(len(data))
	if opts.Horizontal {
		band = chartHeight / float64(len(data))
	}
	inner := band * 0.8
	offset := band * 0.1

	for i, d := range data {
		color := fallback(d.Color, "#3b82f6")
		tooltip := fallback(d.Tooltip, fmt.Sprintf("%s: %s", d.Label, formatTick(d.Value)))
		b.WriteString("<g class=\"mark bar\">")
		b.WriteString(fmt.Sprintf("<title>%s</title>", template.HTMLEscapeString(tooltip)))
		if opts.Horizontal {
			y := padding + float64(i)*band + offset
			w := d.Value / maxVal * chartWidth
			b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\"></rect>", left, y, w, inner, color))
			b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"11\" text-anchor=\"end\">%s</text>", left-6, y+inner/2+4, axisColor, template.HTMLEscapeString(d.Label)))
			if opts.ShowValues {
				b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"start\">%s</text>", left+w+4, y+inner/2+4, axisColor, template.HTMLEscapeString(formatTick(d.Value))))
			}
		} else {
			x := left + float64(i)*band + offset
			h := d.Value / maxVal * chartHeight
			b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\"></rect>", x, bottom-h, inner, h, color))
			b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>", x+inner/2, bottom+14, axisColor, template.HTMLEscapeString(d.Label)))
			if opts.ShowValues {
				b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>", x+inner/2, bottom-h-4, axisColor, template.HTMLEscapeString(formatTick(d.Value))))
			}
		}
		b.WriteString("</g>")
	}

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

// labelGutter sizes the left margin of horizontal bars to the longest label.
func labelGutter(data []Datum) float64 {
	longest := 0
	for _, d := range data {
		if n := len([]rune(d.Label)); n > longest {
			longest = n
		}
	}
	if longest > 24 {
		longest = 24
	}
	return float64(longest) * 6
}
