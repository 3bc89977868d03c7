package svg

// Datum is one labelled mark. Tooltip becomes the mark's <title>.
type Datum struct {
	Label   string
	Value   float64
	Color   string
	Tooltip string
}

// LineOpts customises the line chart renderer.
type LineOpts struct {
	Title       string
	Description string
	StrokeColor string
	FillColor   string
	AxisColor   string
	GridColor   string
	Padding     float64
	ShowDots    bool
	TickCount   int
}

// BarOpts customises the bar chart renderer.
type BarOpts struct {
	Title       string
	Description string
	Horizontal  bool
	ShowValues  bool
	AxisColor   string
	GridColor   string
	Padding     float64
	TickCount   int
}

// PieOpts customises the pie and donut renderer. InnerRatio 0 draws a pie,
// 0.5 a donut with a hole half the radius.
type PieOpts struct {
	Title       string
	Description string
	InnerRatio  float64
	LabelRatio  float64
	ShowLegend  bool
	Outside     bool
}

// Point is one scatter mark in data coordinates.
type Point struct {
	X       float64
	Y       float64
	Color   string
	Tooltip string
}

// ScatterOpts customises the scatter renderer. Quadrant lines are drawn at
// QuadrantX and QuadrantY when they fall inside the domain.
type ScatterOpts struct {
	Title       string
	Description string
	XLabel      string
	YLabel      string
	MaxX        float64
	MaxY        float64
	QuadrantX   float64
	QuadrantY   float64
	Legend      []Datum
}

// MapOpts customises the region map renderer.
type MapOpts struct {
	Title       string
	Description string
	Zoom        float64
	PanX        float64
	PanY        float64
}

// Defaults for the dashboard charts.
const (
	DefaultWidth   = 720
	DefaultHeight  = 320
	DefaultPadding = 36.0
	DefaultTicks   = 5
	PieSize        = 360
	MapWidth       = 960
	MapHeight      = 480
	MinZoom        = 1.0
	MaxZoom        = 8.0
)

// hoverStyle gives every mark a pointer-hover emphasis.
const hoverStyle = `<style>` +
	`.mark{cursor:pointer;transition:opacity .15s}` +
	`.bar:hover rect{opacity:.8}` +
	`.slice:hover path{opacity:.8;stroke-width:3}` +
	`.dot circle{opacity:.7}` +
	`.dot:hover circle{opacity:1;r:8px;stroke:#1f2937;stroke-width:1}` +
	`.trend:hover circle{r:7px;fill:#2563eb}` +
	`.bubble:hover circle{stroke:#1e3a8a;stroke-width:2;opacity:1}` +
	`</style>`
