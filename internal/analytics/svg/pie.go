package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"

	svgo "github.com/ajstarks/svgo"
)

const legendWidth = 170

// Pie renders a pie, or a donut when opts.InnerRatio is positive. Slices are
// drawn clockwise from twelve o'clock in the given order.
func Pie(data []Datum, opts PieOpts) (template.HTML, error) {
	title := fallback(opts.Title, "Pie chart")
	width := PieSize
	if opts.ShowLegend {
		width += legendWidth
	}
	height := PieSize
	total := 0.0
	for _, d := range data {
		if d.Value < 0 {
			return "", fmt.Errorf("svg: negative slice %q", d.Label)
		}
		total += d.Value
	}
	if len(data) == 0 || almostEqual(total, 0) {
		return Empty(width, height, title), nil
	}
	if opts.InnerRatio < 0 || opts.InnerRatio >= 1 {
		return "", fmt.Errorf("svg: inner ratio must be in [0, 1)")
	}

	cx, cy := float64(PieSize)/2, float64(height)/2
	radius := float64(PieSize)/2 - 16
	if opts.Outside {
		radius = float64(PieSize)/2 - 56
	}
	inner := radius * opts.InnerRatio
	labelRatio := opts.LabelRatio
	if labelRatio <= 0 {
		labelRatio = 0.7
	}

	return document(width, height, title, fallback(opts.Description, "Share by category"), func(canvas *svgo.SVG) {
		start := 0.0
		for _, d := range data {
			span := d.Value / total * 2 * math.Pi
			end := start + span
			color := fallback(d.Color, "#3b82f6")
			tooltip := fallback(d.Tooltip, fmt.Sprintf("%s: %s", d.Label, formatTick(d.Value)))

			tooltipMark(canvas, "slice", tooltip)
			canvas.Path(arcPath(cx, cy, inner, radius, start, end), attr("fill", color), `stroke="#ffffff"`, `stroke-width="2"`)
			mid := start + span/2
			if opts.Outside {
				ax, ay := polar(cx, cy, radius, mid)
				bx, by := polar(cx, cy, radius*1.12, mid)
				side := 1.0
				anchor := "start"
				if math.Sin(mid) < 0 {
					side, anchor = -1, "end"
				}
				lx := cx + side*(radius*1.25)
				canvas.Polyline([]int{px(ax), px(bx), px(lx)}, []int{px(ay), px(by), px(by)}, `fill="none"`, `stroke="#94a3b8"`)
				canvas.Text(px(lx+side*4), px(by+4), d.Label, attr("text-anchor", anchor), `font-size="11"`, `fill="#334155"`)
			} else if span > 0.25 {
				tx, ty := polar(cx, cy, radius*labelRatio, mid)
				canvas.Text(px(tx), px(ty+4), d.Label, `text-anchor="middle"`, `font-size="11"`, `fill="#1f2937"`)
			}
			canvas.Gend()
			start = end
		}

		if opts.ShowLegend {
			x := PieSize + 8
			y := 24
			for _, d := range data {
				canvas.Rect(x, y-10, 12, 12, attr("fill", fallback(d.Color, "#3b82f6")))
				canvas.Text(x+18, y, fmt.Sprintf("%s (%s)", d.Label, formatTick(d.Value)), `font-size="11"`, `fill="#334155"`)
				y += 20
			}
		}
	}), nil
}

func polar(cx, cy, r, angle float64) (float64, float64) {
	return cx + r*math.Sin(angle), cy - r*math.Cos(angle)
}

// arcPath builds an annular sector between start and end radians. A zero
// inner radius gives a pie wedge; a full turn is drawn as two half arcs.
func arcPath(cx, cy, inner, outer, start, end float64) string {
	if end-start >= 2*math.Pi-1e-9 {
		mid := start + math.Pi
		return arcPath(cx, cy, inner, outer, start, mid) + " " + arcPath(cx, cy, inner, outer, mid, end)
	}
	large := 0
	if end-start > math.Pi {
		large = 1
	}
	ox0, oy0 := polar(cx, cy, outer, start)
	ox1, oy1 := polar(cx, cy, outer, end)
	var b strings.Builder
	b.WriteString(fmt.Sprintf("M%.2f %.2f A%.2f %.2f 0 %d 1 %.2f %.2f", ox0, oy0, outer, outer, large, ox1, oy1))
	if inner <= 0 {
		b.WriteString(fmt.Sprintf(" L%.2f %.2f Z", cx, cy))
		return b.String()
	}
	ix1, iy1 := polar(cx, cy, inner, end)
	ix0, iy0 := polar(cx, cy, inner, start)
	b.WriteString(fmt.Sprintf(" L%.2f %.2f A%.2f %.2f 0 %d 0 %.2f %.2f Z", ix1, iy1, inner, inner, large, ix0, iy0))
	return b.String()
}
