package analytics

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightboard/insightboard/internal/insight"
)

func TestScatterDefaults(t *testing.T) {
	items := []insight.Insight{
		{Intensity: insight.NewScore(6), Likelihood: insight.NewScore(3), Title: strings.Repeat("a", 60)},
		{Intensity: insight.NewScore(2), Likelihood: insight.NewScore(1), Sector: "Energy", Country: "India", StartYear: "2018", Title: "short"},
		{Intensity: insight.NewScore(2)},
	}
	data := Scatter(items, "")
	require.Len(t, data.Points, 2)
	assert.Equal(t, ColorBySector, data.ColorBy)
	assert.Equal(t, []string{insight.Unknown, "Energy"}, data.Categories)
	assert.Equal(t, 3.0, data.MaxX)
	assert.Equal(t, 6.0, data.MaxY)

	tip := data.Points[0].Tooltip
	assert.Equal(t, strings.Repeat("a", 50)+"...", tip.Title)
	assert.Equal(t, "Global", tip.Country)
	assert.Equal(t, "N/A", tip.Year)

	tip = data.Points[1].Tooltip
	assert.Equal(t, "short", tip.Title)
	assert.Equal(t, "India", tip.Country)
	assert.Equal(t, "2018", tip.Year)
}

func TestScatterEmptyDomains(t *testing.T) {
	data := Scatter(nil, ColorByPestle)
	assert.Empty(t, data.Points)
	assert.Equal(t, 5.0, data.MaxX)
	assert.Equal(t, 10.0, data.MaxY)
}

func TestScatterLegendCap(t *testing.T) {
	var items []insight.Insight
	for i := 0; i < 14; i++ {
		items = append(items, insight.Insight{Pestle: fmt.Sprintf("p%d", i), Intensity: insight.NewScore(1), Likelihood: insight.NewScore(1)})
	}
	data := Scatter(items, ColorByPestle)
	assert.Len(t, data.Categories, 14)
	assert.Len(t, data.Legend, LegendLimit)
	assert.Equal(t, "p0", data.Legend[0])
}

func TestParseColorBy(t *testing.T) {
	c, err := ParseColorBy("")
	require.NoError(t, err)
	assert.Equal(t, ColorBySector, c)
	c, err = ParseColorBy("pestle")
	require.NoError(t, err)
	assert.Equal(t, ColorByPestle, c)
	_, err = ParseColorBy("topic")
	assert.Error(t, err)
}

func TestRegionBubbles(t *testing.T) {
	items := []insight.Insight{{Region: "Asia"}, {Region: "Asia"}, {Region: "Asia"}, {Region: "Asia"}, {Region: "Atlantis"}, {Region: "Europe"}, {}}
	m := RegionBubbles(items)
	require.Len(t, m.Bubbles, 2)
	assert.Equal(t, 4, m.MaxCount)
	assert.Equal(t, Bubble{Region: "Asia", Count: 4, Radius: 10, At: Coordinate{Lon: 100, Lat: 30}}, m.Bubbles[0])
	assert.Equal(t, "Europe", m.Bubbles[1].Region)
	assert.InDelta(t, 5.0, m.Bubbles[1].Radius, 1e-9)
}
