package svg

import (
	"fmt"
	"html/template"

	svgo "github.com/ajstarks/svgo"
)

// Scatter margins; the right margin holds the legend.
const (
	scatterTop    = 20
	scatterRight  = 150
	scatterBottom = 50
	scatterLeft   = 50
)

// Scatter plots points on linear axes starting at zero, with dashed quadrant
// guides and a colour legend.
func Scatter(width, height int, points []Point, opts ScatterOpts) (template.HTML, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight + 80
	}
	title := fallback(opts.Title, "Scatter plot")
	if len(points) == 0 {
		return Empty(width, height, title), nil
	}
	plotW := float64(width - scatterLeft - scatterRight)
	plotH := float64(height - scatterTop - scatterBottom)
	if plotW <= 0 || plotH <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}
	maxX, maxY := opts.MaxX, opts.MaxY
	if maxX <= 0 {
		maxX = 5
	}
	if maxY <= 0 {
		maxY = 10
	}
	x := func(v float64) float64 { return scatterLeft + v/maxX*plotW }
	y := func(v float64) float64 { return scatterTop + plotH - v/maxY*plotH }
	bottom := scatterTop + plotH
	right := scatterLeft + plotW

	return document(width, height, title, fallback(opts.Description, "Intensity against likelihood"), func(canvas *svgo.SVG) {
		for i := 0; i <= DefaultTicks; i++ {
			ratio := float64(i) / DefaultTicks
			gx := scatterLeft + ratio*plotW
			gy := scatterTop + plotH - ratio*plotH
			canvas.Line(px(gx), scatterTop, px(gx), px(bottom), `stroke="#e2e8f0"`, `stroke-width="0.5"`)
			canvas.Line(scatterLeft, px(gy), px(right), px(gy), `stroke="#e2e8f0"`, `stroke-width="0.5"`)
			canvas.Text(px(gx), px(bottom)+14, formatTick(maxX*ratio), `text-anchor="middle"`, `font-size="10"`, `fill="#475569"`)
			canvas.Text(scatterLeft-6, px(gy)+4, formatTick(maxY*ratio), `text-anchor="end"`, `font-size="10"`, `fill="#475569"`)
		}
		canvas.Line(scatterLeft, px(bottom), px(right), px(bottom), `stroke="#475569"`)
		canvas.Line(scatterLeft, scatterTop, scatterLeft, px(bottom), `stroke="#475569"`)
		canvas.Text(px(scatterLeft+plotW/2), height-12, fallback(opts.XLabel, "Likelihood"), `text-anchor="middle"`, `font-size="12"`, `fill="#334155"`)
		canvas.Text(14, px(scatterTop+plotH/2), fallback(opts.YLabel, "Intensity"), `text-anchor="middle"`, `font-size="12"`, `fill="#334155"`,
			fmt.Sprintf(`transform="rotate(-90 14 %d)"`, px(scatterTop+plotH/2)))

		for _, p := range points {
			tooltipMark(canvas, "dot", p.Tooltip)
			canvas.Circle(px(x(p.X)), px(y(p.Y)), 6, attr("fill", fallback(p.Color, "#3b82f6")), `stroke="#ffffff"`, `stroke-width="1"`)
			canvas.Gend()
		}

		if opts.QuadrantX > 0 && opts.QuadrantX < maxX && opts.QuadrantY > 0 && opts.QuadrantY < maxY {
			mx, my := px(x(opts.QuadrantX)), px(y(opts.QuadrantY))
			guide := []string{`stroke="gray"`, `stroke-dasharray="4"`, `stroke-width="1"`}
			canvas.Line(scatterLeft, my, px(right), my, guide...)
			canvas.Line(mx, scatterTop, mx, px(bottom), guide...)
			label := []string{`font-size="10"`, `fill="gray"`}
			canvas.Text(mx-10, my-10, "Low Impact, Low Likelihood", append(label, `text-anchor="end"`)...)
			canvas.Text(mx+10, my-10, "Low Impact, High Likelihood", append(label, `text-anchor="start"`)...)
			canvas.Text(mx-10, my+20, "High Impact, Low Likelihood", append(label, `text-anchor="end"`)...)
			canvas.Text(mx+10, my+20, "High Impact, High Likelihood", append(label, `text-anchor="start"`)...)
		}

		lx := px(right) + 16
		for i, d := range opts.Legend {
			ly := scatterTop + i*20
			canvas.Circle(lx+6, ly+6, 6, attr("fill", d.Color))
			canvas.Text(lx+18, ly+10, d.Label, `font-size="11"`, `fill="#334155"`)
		}
	}), nil
}
