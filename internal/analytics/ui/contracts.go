package ui

import (
	"context"
	"html/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/insightboard/insightboard/internal/analytics"
	"github.com/insightboard/insightboard/internal/analytics/svg"
	"github.com/insightboard/insightboard/internal/insight"
)

// SummaryCard is one headline figure above the charts.
type SummaryCard struct {
	Label string
	Value string
	Hint  string
}

// ChartPanel is a rendered chart with its heading.
type ChartPanel struct {
	ID          analytics.ChartID
	Title       string
	Description string
	SVG         template.HTML
	Wide        bool
}

// MapView is the pan/zoom state of the region map.
type MapView struct {
	Zoom float64 `json:"zoom" validate:"gte=1,lte=8"`
	PanX float64 `json:"panX" validate:"gte=-4000,lte=4000"`
	PanY float64 `json:"panY" validate:"gte=-4000,lte=4000"`
}

// DefaultMapView is the unzoomed, centred map.
var DefaultMapView = MapView{Zoom: 1}

// FilterSelect is one dropdown of the filters sidebar.
type FilterSelect struct {
	Name     string
	Label    string
	Values   []string
	Selected string
}

// DashboardViewModel combines all dashboard data for rendering.
type DashboardViewModel struct {
	Filters   insight.FilterState
	Options   insight.FilterOptions
	Selects   []FilterSelect
	ColorBy   analytics.ColorBy
	MapView   MapView
	Summary   analytics.Summary
	Cards     []SummaryCard
	ScopeNote string
	Charts    []ChartPanel
	Loaded    bool
}

// OutlineSource supplies country outlines for the region map.
type OutlineSource interface {
	Outlines(ctx context.Context) ([]svg.Outline, error)
}

// ChartRenderer turns aggregated dashboard data into chart SVG.
type ChartRenderer interface {
	Render(ctx context.Context, id analytics.ChartID, dash analytics.Dashboard, view MapView) (template.HTML, error)
}

var printer = message.NewPrinter(language.English)

// ToSummaryCards formats the summary statistics for the cards.
func ToSummaryCards(s analytics.Summary) []SummaryCard {
	return []SummaryCard{
		{Label: "Total Insights", Value: printer.Sprintf("%d", s.Count), Hint: ScopeNote(s)},
		{Label: "Avg. Intensity", Value: printer.Sprintf("%.2f", s.AvgIntensity), Hint: "Average impact level"},
		{Label: "Avg. Likelihood", Value: printer.Sprintf("%.2f", s.AvgLikelihood), Hint: "Probability of occurrence"},
		{Label: "Avg. Relevance", Value: printer.Sprintf("%.2f", s.AvgRelevance), Hint: "Importance to business"},
	}
}

// ScopeNote tells whether the figures cover everything or a filtered subset.
func ScopeNote(s analytics.Summary) string {
	if s.Filtered() {
		return printer.Sprintf("Filtered from %d total", s.Total)
	}
	return "Showing all insights"
}

// ToViewModel assembles the page model; charts are attached by the caller.
func ToViewModel(dash analytics.Dashboard, view MapView) DashboardViewModel {
	return DashboardViewModel{
		Filters:   dash.Filters,
		Options:   dash.Options,
		Selects:   ToFilterSelects(dash.Filters, dash.Options),
		ColorBy:   dash.ColorBy,
		MapView:   view,
		Summary:   dash.Summary,
		Cards:     ToSummaryCards(dash.Summary),
		ScopeNote: ScopeNote(dash.Summary),
		Loaded:    dash.Loaded,
	}
}

// ToFilterSelects lays out the sidebar dropdowns in display order.
func ToFilterSelects(f insight.FilterState, o insight.FilterOptions) []FilterSelect {
	return []FilterSelect{
		{Name: "endYear", Label: "End Year", Values: o.EndYears, Selected: f.EndYear},
		{Name: "topics", Label: "Topic", Values: o.Topics, Selected: f.Topics},
		{Name: "sector", Label: "Sector", Values: o.Sectors, Selected: f.Sector},
		{Name: "region", Label: "Region", Values: o.Regions, Selected: f.Region},
		{Name: "pestle", Label: "PESTLE", Values: o.Pestles, Selected: f.Pestle},
		{Name: "source", Label: "Source", Values: o.Sources, Selected: f.Source},
		{Name: "country", Label: "Country", Values: o.Countries, Selected: f.Country},
		{Name: "city", Label: "City", Values: o.Cities, Selected: f.City},
	}
}
