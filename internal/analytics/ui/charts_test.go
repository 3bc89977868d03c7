package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightboard/insightboard/internal/analytics"
	"github.com/insightboard/insightboard/internal/analytics/svg"
	"github.com/insightboard/insightboard/internal/insight"
)

type outlineStub struct {
	outlines []svg.Outline
	err      error
	calls    int
}

func (o *outlineStub) Outlines(context.Context) ([]svg.Outline, error) {
	o.calls++
	return o.outlines, o.err
}

func sampleDashboard() analytics.Dashboard {
	items := []insight.Insight{
		{Sector: "Energy", Pestle: "Economic", Region: "Asia", Topic: "oil", StartYear: "2017", Intensity: insight.NewScore(3), Likelihood: insight.NewScore(2), Relevance: insight.NewScore(4), Title: "first"},
		{Sector: "Energy", Pestle: "Political", Region: "Europe", Topic: "gas", StartYear: "2018", Intensity: insight.NewScore(3), Likelihood: insight.NewScore(4), Relevance: insight.NewScore(1), Title: "second"},
		{Sector: "Health", Region: "Asia", Topic: "oil", Intensity: insight.NewScore(7), Likelihood: insight.NewScore(1), Relevance: insight.NewScore(5), Title: "third"},
	}
	dash := analytics.Dashboard{
		Summary: analytics.Summarize(items, 3),
		Charts:  map[analytics.ChartID][]analytics.Group{},
		Scatter: analytics.Scatter(items, analytics.ColorBySector),
		Regions: analytics.RegionBubbles(items),
		Loaded:  true,
	}
	for _, id := range analytics.FrequencyCharts {
		groups, _ := analytics.Aggregate(id, items)
		dash.Charts[id] = groups
	}
	return dash
}

func TestRenderEveryPanel(t *testing.T) {
	r := NewRenderer(&outlineStub{}, nil)
	dash := sampleDashboard()
	for _, p := range Panels {
		html, err := r.Render(context.Background(), p.ID, dash, MapView{Zoom: 1})
		require.NoError(t, err, p.ID)
		assert.True(t, strings.HasPrefix(string(html), "<svg"), p.ID)
		assert.NotContains(t, string(html), svg.EmptyMessage, p.ID)
	}
}

func TestRenderTooltips(t *testing.T) {
	r := NewRenderer(nil, nil)
	dash := sampleDashboard()

	html, err := r.Render(context.Background(), analytics.ChartIntensity, dash, MapView{})
	require.NoError(t, err)
	assert.Contains(t, string(html), "Intensity 3: 2 insights")

	html, err = r.Render(context.Background(), analytics.ChartScatter, dash, MapView{})
	require.NoError(t, err)
	assert.Contains(t, string(html), "Country: Global")
	assert.Contains(t, string(html), "Year: N/A")
	assert.Contains(t, string(html), "Sector: Health")

	html, err = r.Render(context.Background(), analytics.ChartRegions, dash, MapView{Zoom: 1})
	require.NoError(t, err)
	assert.Contains(t, string(html), "Asia: 2")
}

func TestRenderMapSurvivesTopologyFailure(t *testing.T) {
	stub := &outlineStub{err: errors.New("offline")}
	r := NewRenderer(stub, nil)
	html, err := r.Render(context.Background(), analytics.ChartRegions, sampleDashboard(), MapView{Zoom: 2})
	require.NoError(t, err)
	assert.Contains(t, string(html), "Europe: 1")
	assert.Equal(t, 1, stub.calls)
}

func TestRenderEmptyDashboard(t *testing.T) {
	r := NewRenderer(nil, nil)
	html, err := r.Render(context.Background(), analytics.ChartSectors, analytics.Dashboard{}, MapView{})
	require.NoError(t, err)
	assert.Contains(t, string(html), svg.EmptyMessage)

	_, err = r.Render(context.Background(), "aging", analytics.Dashboard{}, MapView{})
	assert.ErrorIs(t, err, analytics.ErrUnknownChart)
}

func TestSummaryCards(t *testing.T) {
	cards := ToSummaryCards(analytics.Summary{Count: 1200, Total: 1200, AvgIntensity: 3})
	require.Len(t, cards, 4)
	assert.Equal(t, "1,200", cards[0].Value)
	assert.Equal(t, "Showing all insights", cards[0].Hint)
	assert.Equal(t, "3.00", cards[1].Value)

	assert.Equal(t, "Filtered from 1,200 total", ScopeNote(analytics.Summary{Count: 2, Total: 1200}))
}
