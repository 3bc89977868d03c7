package svg

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Category10 is the ten colour categorical palette used by sector, topic and
// scatter marks.
var Category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Set2 is the pastel palette used by the PESTLE donut.
var Set2 = []string{
	"#66c2a5", "#fc8d62", "#8da0cb", "#e78ac3",
	"#a6d854", "#ffd92f", "#e5c494", "#b3b3b3",
}

var blues = []string{
	"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6",
	"#4292c6", "#2171b5", "#08519c", "#08306b",
}

// Gradient linearly interpolates between two colours over a numeric domain.
type Gradient struct {
	From string
	To   string
	Min  float64
	Max  float64
}

// Chart gradients.
var (
	IntensityGradient  = Gradient{From: "#60a5fa", To: "#2563eb"}
	LikelihoodGradient = Gradient{From: "#10b981", To: "#047857", Min: 1, Max: 5}
	RelevanceGradient  = Gradient{From: "#f59e0b", To: "#d97706", Min: 1, Max: 5}
)

// Over returns a copy of g spanning [min, max].
func (g Gradient) Over(min, max float64) Gradient {
	g.Min, g.Max = min, max
	return g
}

// At returns the colour for v. Values outside the domain are clamped and a
// degenerate domain maps everything to the start colour.
func (g Gradient) At(v float64) string {
	t := 0.0
	if !almostEqual(g.Max, g.Min) {
		t = (v - g.Min) / (g.Max - g.Min)
	}
	return blend(g.From, g.To, t)
}

// Ordinal assigns palette colours by position, cycling when the domain is
// longer than the palette.
func Ordinal(palette []string, i int) string {
	if len(palette) == 0 {
		return "#000000"
	}
	if i < 0 {
		i = -i
	}
	return palette[i%len(palette)]
}

// Blues maps t in [0, 1] onto the sequential blue ramp.
func Blues(t float64) string {
	t = clamp01(t)
	segments := float64(len(blues) - 1)
	pos := t * segments
	idx := int(math.Floor(pos))
	if idx >= len(blues)-1 {
		return blues[len(blues)-1]
	}
	return blend(blues[idx], blues[idx+1], pos-float64(idx))
}

func blend(from, to string, t float64) string {
	a, err := colorful.Hex(from)
	if err != nil {
		return from
	}
	b, err := colorful.Hex(to)
	if err != nil {
		return from
	}
	return a.BlendRgb(b, clamp01(t)).Clamped().Hex()
}

func clamp01(t float64) float64 {
	switch {
	case math.IsNaN(t), t < 0:
		return 0
	case t > 1:
		return 1
	default:
		return t
	}
}
