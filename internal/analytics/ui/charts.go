package ui

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strconv"
	"strings"

	"github.com/insightboard/insightboard/internal/analytics"
	"github.com/insightboard/insightboard/internal/analytics/svg"
)

// PanelMeta describes a dashboard panel.
type PanelMeta struct {
	ID          analytics.ChartID
	Title       string
	Description string
	Wide        bool
}

// Panels lists the dashboard charts in page order.
var Panels = []PanelMeta{
	{ID: analytics.ChartIntensity, Title: "Intensity Distribution", Description: "Number of insights per intensity level"},
	{ID: analytics.ChartLikelihood, Title: "Likelihood Distribution", Description: "Number of insights per likelihood level"},
	{ID: analytics.ChartRelevance, Title: "Relevance Distribution", Description: "Number of insights per relevance level"},
	{ID: analytics.ChartYears, Title: "Insights by Year", Description: "Insights per start year"},
	{ID: analytics.ChartTopics, Title: "Top Topics", Description: "Most frequent topics"},
	{ID: analytics.ChartSectors, Title: "Sector Analysis", Description: "Insights per sector"},
	{ID: analytics.ChartPestle, Title: "PESTLE Analysis", Description: "Political, economic, social, technological, legal and environmental split"},
	{ID: analytics.ChartRegions, Title: "Regional Distribution", Description: "Insights per region", Wide: true},
	{ID: analytics.ChartScatter, Title: "Intensity vs Likelihood", Description: "Each insight positioned by likelihood and intensity", Wide: true},
}

// Renderer draws every dashboard chart from aggregated data.
type Renderer struct {
	outlines OutlineSource
	logger   *slog.Logger
}

// NewRenderer constructs a Renderer. outlines may be nil, in which case the
// region map is drawn without countries.
func NewRenderer(outlines OutlineSource, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{outlines: outlines, logger: logger}
}

// Render draws chart id.
func (r *Renderer) Render(ctx context.Context, id analytics.ChartID, dash analytics.Dashboard, view MapView) (template.HTML, error) {
	meta := metaFor(id)
	switch id {
	case analytics.ChartIntensity:
		groups := dash.Charts[id]
		lo, hi := valueRange(groups)
		return r.scoreBars(groups, svg.IntensityGradient.Over(lo, hi), "Intensity", meta)
	case analytics.ChartLikelihood:
		return r.scoreBars(dash.Charts[id], svg.LikelihoodGradient, "Likelihood", meta)
	case analytics.ChartRelevance:
		return r.scoreBars(dash.Charts[id], svg.RelevanceGradient, "Relevance", meta)
	case analytics.ChartYears:
		groups := dash.Charts[id]
		series := make([]float64, 0, len(groups))
		labels := make([]string, 0, len(groups))
		for _, g := range groups {
			series = append(series, float64(g.Count))
			labels = append(labels, g.Key)
		}
		return svg.Line(svg.DefaultWidth, svg.DefaultHeight, series, labels, svg.LineOpts{
			Title:       meta.Title,
			Description: meta.Description,
			ShowDots:    true,
		})
	case analytics.ChartTopics:
		return svg.Pie(ordinalData(dash.Charts[id], svg.Category10), svg.PieOpts{
			Title:       meta.Title,
			Description: meta.Description,
			Outside:     true,
			ShowLegend:  true,
		})
	case analytics.ChartSectors:
		return svg.Bars(svg.DefaultWidth, svg.DefaultHeight+80, ordinalData(dash.Charts[id], svg.Category10), svg.BarOpts{
			Title:       meta.Title,
			Description: meta.Description,
			Horizontal:  true,
			ShowValues:  true,
		})
	case analytics.ChartPestle:
		return svg.Pie(ordinalData(dash.Charts[id], svg.Set2), svg.PieOpts{
			Title:       meta.Title,
			Description: meta.Description,
			InnerRatio:  0.5,
			LabelRatio:  0.7,
		})
	case analytics.ChartRegions:
		return r.regionMap(ctx, dash.Regions, view, meta)
	case analytics.ChartScatter:
		return scatter(dash.Scatter, meta)
	default:
		return "", fmt.Errorf("%w: %q", analytics.ErrUnknownChart, id)
	}
}

func metaFor(id analytics.ChartID) PanelMeta {
	for _, p := range Panels {
		if p.ID == id {
			return p
		}
	}
	return PanelMeta{ID: id, Title: string(id)}
}

func (r *Renderer) scoreBars(groups []analytics.Group, gradient svg.Gradient, label string, meta PanelMeta) (template.HTML, error) {
	data := make([]svg.Datum, 0, len(groups))
	for _, g := range groups {
		data = append(data, svg.Datum{
			Label:   g.Key,
			Value:   float64(g.Count),
			Color:   gradient.At(groupValue(g)),
			Tooltip: fmt.Sprintf("%s %s: %d insights", label, g.Key, g.Count),
		})
	}
	return svg.Bars(svg.DefaultWidth, svg.DefaultHeight, data, svg.BarOpts{
		Title:       meta.Title,
		Description: meta.Description,
		ShowValues:  true,
	})
}

func (r *Renderer) regionMap(ctx context.Context, regions analytics.RegionMap, view MapView, meta PanelMeta) (template.HTML, error) {
	var outlines []svg.Outline
	if r.outlines != nil {
		loaded, err := r.outlines.Outlines(ctx)
		if err != nil {
			r.logger.Warn("region map without outlines", slog.Any("error", err))
		} else {
			outlines = loaded
		}
	}
	markers := make([]svg.Marker, 0, len(regions.Bubbles))
	for _, b := range regions.Bubbles {
		t := 0.0
		if regions.MaxCount > 0 {
			t = float64(b.Count) / float64(regions.MaxCount)
		}
		label := fmt.Sprintf("%s: %d", b.Region, b.Count)
		markers = append(markers, svg.Marker{
			Lon:     b.At.Lon,
			Lat:     b.At.Lat,
			Radius:  b.Radius,
			Color:   svg.Blues(t),
			Label:   label,
			Tooltip: label,
		})
	}
	return svg.RegionMap(markers, outlines, svg.MapOpts{
		Title:       meta.Title,
		Description: meta.Description,
		Zoom:        view.Zoom,
		PanX:        view.PanX,
		PanY:        view.PanY,
	})
}

func scatter(data analytics.ScatterData, meta PanelMeta) (template.HTML, error) {
	colors := make(map[string]string, len(data.Categories))
	for i, c := range data.Categories {
		colors[c] = svg.Ordinal(svg.Category10, i)
	}
	categoryLabel := "Sector"
	if data.ColorBy == analytics.ColorByPestle {
		categoryLabel = "PESTLE"
	}
	points := make([]svg.Point, 0, len(data.Points))
	for _, p := range data.Points {
		tip := p.Tooltip
		points = append(points, svg.Point{
			X:     p.X,
			Y:     p.Y,
			Color: colors[p.Category],
			Tooltip: strings.Join([]string{
				"Title: " + tip.Title,
				"Intensity: " + formatScore(tip.Intensity),
				"Likelihood: " + formatScore(tip.Likelihood),
				categoryLabel + ": " + tip.Category,
				"Country: " + tip.Country,
				"Year: " + tip.Year,
			}, "\n"),
		})
	}
	legend := make([]svg.Datum, 0, len(data.Legend))
	for _, c := range data.Legend {
		legend = append(legend, svg.Datum{Label: c, Color: colors[c]})
	}
	return svg.Scatter(svg.DefaultWidth, svg.DefaultHeight+80, points, svg.ScatterOpts{
		Title:       meta.Title,
		Description: meta.Description,
		XLabel:      "Likelihood",
		YLabel:      "Intensity",
		MaxX:        data.MaxX,
		MaxY:        data.MaxY,
		QuadrantX:   analytics.QuadrantLikelihood,
		QuadrantY:   analytics.QuadrantIntensity,
		Legend:      legend,
	})
}

func ordinalData(groups []analytics.Group, palette []string) []svg.Datum {
	data := make([]svg.Datum, 0, len(groups))
	for i, g := range groups {
		data = append(data, svg.Datum{
			Label:   g.Key,
			Value:   float64(g.Count),
			Color:   svg.Ordinal(palette, i),
			Tooltip: fmt.Sprintf("%s: %d", g.Key, g.Count),
		})
	}
	return data
}

func groupValue(g analytics.Group) float64 {
	if v, err := strconv.ParseFloat(g.Key, 64); err == nil {
		return v
	}
	return g.Value
}

func valueRange(groups []analytics.Group) (float64, float64) {
	if len(groups) == 0 {
		return 0, 0
	}
	lo, hi := groupValue(groups[0]), groupValue(groups[0])
	for _, g := range groups[1:] {
		v := groupValue(g)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
