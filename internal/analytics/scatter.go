package analytics

import (
	"fmt"

	"github.com/insightboard/insightboard/internal/insight"
)

// ColorBy selects the categorical field that colours scatter points.
type ColorBy string

// Scatter colour keys.
const (
	ColorBySector ColorBy = "sector"
	ColorByPestle ColorBy = "pestle"
)

// Scatter layout constants.
const (
	LegendLimit        = 10
	QuadrantLikelihood = 3.0
	QuadrantIntensity  = 5.0
	defaultMaxX        = 5.0
	defaultMaxY        = 10.0
	titleLimit         = 50
)

// ParseColorBy validates a colour key; empty means sector.
func ParseColorBy(raw string) (ColorBy, error) {
	switch ColorBy(raw) {
	case "", ColorBySector:
		return ColorBySector, nil
	case ColorByPestle:
		return ColorByPestle, nil
	default:
		return "", fmt.Errorf("analytics: unsupported colorBy %q", raw)
	}
}

// ScatterPoint is one record positioned by likelihood (x) and intensity (y).
type ScatterPoint struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Category string  `json:"category"`
	Tooltip  Tooltip `json:"tooltip"`
}

// Tooltip carries the hover details of a scatter point.
type Tooltip struct {
	Title      string  `json:"title"`
	Intensity  float64 `json:"intensity"`
	Likelihood float64 `json:"likelihood"`
	Category   string  `json:"category"`
	Country    string  `json:"country"`
	Year       string  `json:"year"`
}

// ScatterData is the full input of the scatter renderer.
type ScatterData struct {
	ColorBy    ColorBy        `json:"color_by"`
	Points     []ScatterPoint `json:"points"`
	Categories []string       `json:"categories"`
	Legend     []string       `json:"legend"`
	MaxX       float64        `json:"max_x"`
	MaxY       float64        `json:"max_y"`
}

// Scatter builds scatter points for records carrying both likelihood and
// intensity.
func Scatter(items []insight.Insight, colorBy ColorBy) ScatterData {
	if colorBy == "" {
		colorBy = ColorBySector
	}
	data := ScatterData{ColorBy: colorBy, Points: make([]ScatterPoint, 0, len(items)), Categories: []string{}}
	seen := make(map[string]struct{})
	for _, item := range items {
		if !item.Likelihood.Valid || !item.Intensity.Valid {
			continue
		}
		category := item.Sector
		if colorBy == ColorByPestle {
			category = item.Pestle
		}
		if category == "" {
			category = insight.Unknown
		}
		if _, ok := seen[category]; !ok {
			seen[category] = struct{}{}
			data.Categories = append(data.Categories, category)
		}
		x, y := item.Likelihood.Value, item.Intensity.Value
		if x > data.MaxX {
			data.MaxX = x
		}
		if y > data.MaxY {
			data.MaxY = y
		}
		data.Points = append(data.Points, ScatterPoint{
			X:        x,
			Y:        y,
			Category: category,
			Tooltip: Tooltip{
				Title:      truncateTitle(item.Title),
				Intensity:  y,
				Likelihood: x,
				Category:   category,
				Country:    orDefault(item.Country, "Global"),
				Year:       orDefault(string(item.StartYear), "N/A"),
			},
		})
	}
	if data.MaxX <= 0 {
		data.MaxX = defaultMaxX
	}
	if data.MaxY <= 0 {
		data.MaxY = defaultMaxY
	}
	data.Legend = data.Categories
	if len(data.Legend) > LegendLimit {
		data.Legend = data.Legend[:LegendLimit]
	}
	return data
}

func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= titleLimit {
		return title
	}
	return string(runes[:titleLimit]) + "..."
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
