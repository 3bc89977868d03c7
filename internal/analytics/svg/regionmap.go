package svg

import (
	"fmt"
	"html/template"
	"strings"

	svgo "github.com/ajstarks/svgo"
)

// Marker is a circle placed at a geographic position.
type Marker struct {
	Lon     float64
	Lat     float64
	Radius  float64
	Color   string
	Label   string
	Tooltip string
}

// Project maps lon/lat onto the map viewport with an equirectangular
// projection.
func Project(lon, lat float64) (float64, float64) {
	return (lon + 180) / 360 * MapWidth, (90 - lat) / 180 * MapHeight
}

// ClampZoom bounds a zoom factor to [MinZoom, MaxZoom].
func ClampZoom(z float64) float64 {
	switch {
	case z < MinZoom:
		return MinZoom
	case z > MaxZoom:
		return MaxZoom
	default:
		return z
	}
}

// RegionMap draws country outlines beneath one labelled circle per marker.
// Zoom and pan only change the view transform of the map group.
func RegionMap(markers []Marker, outlines []Outline, opts MapOpts) (template.HTML, error) {
	title := fallback(opts.Title, "Insights by region")
	if len(markers) == 0 && len(outlines) == 0 {
		return Empty(MapWidth, MapHeight, title), nil
	}
	zoom := opts.Zoom
	if zoom == 0 {
		zoom = 1
	}
	if zoom < MinZoom || zoom > MaxZoom {
		return "", fmt.Errorf("svg: zoom %.2f outside [%.0f, %.0f]", zoom, MinZoom, MaxZoom)
	}
	transform := fmt.Sprintf("translate(%.2f %.2f) scale(%.3f) translate(%.2f %.2f)",
		MapWidth/2+opts.PanX, MapHeight/2+opts.PanY, zoom, -MapWidth/2.0, -MapHeight/2.0)

	return document(MapWidth, MapHeight, title, fallback(opts.Description, "Record counts per region"), func(canvas *svgo.SVG) {
		canvas.Rect(0, 0, MapWidth, MapHeight, `fill="#f8fafc"`)
		canvas.Gtransform(transform)
		canvas.Group(`class="countries"`, `fill="#e2e8f0"`, `stroke="#ffffff"`, `stroke-width="0.5"`)
		for _, o := range outlines {
			d := outlinePath(o)
			if d == "" {
				continue
			}
			canvas.Path(d, attr("data-name", o.Name))
		}
		canvas.Gend()
		for _, m := range markers {
			x, y := Project(m.Lon, m.Lat)
			tooltipMark(canvas, "bubble", m.Tooltip)
			canvas.Circle(px(x), px(y), px(m.Radius), attr("fill", m.Color), `fill-opacity="0.8"`, `stroke="#1e40af"`, `stroke-width="1"`)
			canvas.Text(px(x), px(y-m.Radius-4), m.Label, `text-anchor="middle"`, `font-size="11"`, `fill="#0f172a"`)
			canvas.Gend()
		}
		canvas.Gend()
	}), nil
}

func outlinePath(o Outline) string {
	var b strings.Builder
	for _, ring := range o.Rings {
		if len(ring) < 3 {
			continue
		}
		for i, p := range ring {
			x, y := Project(p[0], p[1])
			if i == 0 {
				b.WriteString(fmt.Sprintf("M%.1f %.1f", x, y))
				continue
			}
			b.WriteString(fmt.Sprintf("L%.1f %.1f", x, y))
		}
		b.WriteString("Z")
	}
	return b.String()
}
