package svg

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradientEndpoints(t *testing.T) {
	assert.Equal(t, "#60a5fa", IntensityGradient.Over(1, 10).At(1))
	assert.Equal(t, "#2563eb", IntensityGradient.Over(1, 10).At(10))
	assert.Equal(t, "#10b981", LikelihoodGradient.At(0))
	assert.Equal(t, "#d97706", RelevanceGradient.At(7))
	// degenerate domain
	assert.Equal(t, "#60a5fa", IntensityGradient.Over(3, 3).At(3))
}

func TestOrdinalCycles(t *testing.T) {
	assert.Equal(t, Category10[0], Ordinal(Category10, 10))
	assert.Equal(t, Set2[2], Ordinal(Set2, 2))
	assert.Equal(t, "#000000", Ordinal(nil, 1))
}

func TestBluesRamp(t *testing.T) {
	assert.Equal(t, "#f7fbff", Blues(0))
	assert.Equal(t, "#08306b", Blues(1))
	assert.Equal(t, "#08306b", Blues(3))
	assert.Equal(t, "#f7fbff", Blues(math.NaN()))
}

func TestPieAndDonut(t *testing.T) {
	data := []Datum{{Label: "Economic", Value: 3, Color: Set2[0]}, {Label: "Political", Value: 1, Color: Set2[1]}}
	donut, err := Pie(data, PieOpts{Title: "PESTLE", InnerRatio: 0.5})
	require.NoError(t, err)
	out := string(donut)
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.NotContains(t, out, "<?xml")
	assert.Equal(t, 2, strings.Count(out, "<path"))
	assert.Contains(t, out, "<title>Economic: 3</title>")

	pie, err := Pie(data, PieOpts{Title: "Topics", Outside: true, ShowLegend: true})
	require.NoError(t, err)
	assert.Contains(t, string(pie), "<polyline")
	assert.Contains(t, string(pie), "Political (1)")

	_, err = Pie(data, PieOpts{InnerRatio: 1})
	assert.Error(t, err)

	empty, err := Pie(nil, PieOpts{Title: "Topics"})
	require.NoError(t, err)
	assert.Contains(t, string(empty), EmptyMessage)
}

func TestArcPathFullTurn(t *testing.T) {
	d := arcPath(100, 100, 0, 50, 0, 2*math.Pi)
	assert.Equal(t, 2, strings.Count(d, "A"))
}

func TestScatterQuadrantsAndLegend(t *testing.T) {
	html, err := Scatter(0, 0, []Point{{X: 2, Y: 4, Color: Category10[0], Tooltip: "Title: a"}}, ScatterOpts{
		MaxX: 5, MaxY: 10, QuadrantX: 3, QuadrantY: 5,
		Legend: []Datum{{Label: "Energy", Color: Category10[0]}},
	})
	require.NoError(t, err)
	out := string(html)
	assert.Contains(t, out, "High Impact, High Likelihood")
	assert.Contains(t, out, "Energy")
	assert.Contains(t, out, "<title>Title: a</title>")
}

func TestRegionMapZoom(t *testing.T) {
	markers := []Marker{{Lon: 100, Lat: 30, Radius: 10, Color: "#08306b", Label: "Asia: 4", Tooltip: "Asia: 4"}}
	html, err := RegionMap(markers, nil, MapOpts{Zoom: 2, PanX: 10})
	require.NoError(t, err)
	assert.Contains(t, string(html), "scale(2.000)")
	assert.Contains(t, string(html), "Asia: 4")

	_, err = RegionMap(markers, nil, MapOpts{Zoom: 9})
	assert.Error(t, err)
	assert.Equal(t, MaxZoom, ClampZoom(20))
}

func TestProject(t *testing.T) {
	x, y := Project(0, 0)
	assert.InDelta(t, MapWidth/2.0, x, 1e-9)
	assert.InDelta(t, MapHeight/2.0, y, 1e-9)
}

const sampleTopology = `{
  "type": "Topology",
  "transform": {"scale": [1, 1], "translate": [0, 0]},
  "objects": {"countries": {"type": "GeometryCollection", "geometries": [
    {"type": "Polygon", "arcs": [[0, 1]], "properties": {"name": "Square"}},
    {"type": "MultiPolygon", "arcs": [[[-2, -1]]], "properties": {"name": "Reversed"}},
    {"type": "Point", "coordinates": [0, 0]}
  ]}},
  "arcs": [[[0, 0], [10, 0], [0, 10]], [[10, 10], [-10, 0], [0, -10]]]
}`

func TestDecodeTopology(t *testing.T) {
	outlines, err := DecodeTopology(strings.NewReader(sampleTopology), CountriesObject)
	require.NoError(t, err)
	require.Len(t, outlines, 2)
	assert.Equal(t, "Square", outlines[0].Name)
	assert.Equal(t, [][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}, outlines[0].Rings[0])
	assert.Equal(t, [][2]float64{{0, 0}, {0, 10}, {10, 10}, {10, 0}, {0, 0}}, outlines[1].Rings[0])

	_, err = DecodeTopology(strings.NewReader(`{"type":"FeatureCollection"}`), CountriesObject)
	assert.Error(t, err)
}

func TestTopologyLoaderCachesAndSharesFetch(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(sampleTopology))
	}))
	defer srv.Close()

	loader := NewTopologyLoader(srv.URL, srv.Client(), nil)
	for i := 0; i < 3; i++ {
		outlines, err := loader.Outlines(context.Background())
		require.NoError(t, err)
		assert.Len(t, outlines, 2)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestTopologyLoaderBacksOffAfterFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loader := NewTopologyLoader(srv.URL, srv.Client(), nil)
	loader.now = func() time.Time { return now }

	_, err := loader.Outlines(context.Background())
	require.Error(t, err)
	_, err = loader.Outlines(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())

	now = now.Add(2 * time.Minute)
	_, err = loader.Outlines(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestTopologyLoaderDisabled(t *testing.T) {
	outlines, err := NewTopologyLoader("", nil, nil).Outlines(context.Background())
	require.NoError(t, err)
	assert.Nil(t, outlines)
}
