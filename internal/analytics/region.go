package analytics

import (
	"math"

	"github.com/insightboard/insightboard/internal/insight"
)

// Coordinate is a longitude/latitude pair in degrees.
type Coordinate struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// RegionCoordinates places the known regions on the map. Regions outside this
// table are counted but not drawn.
var RegionCoordinates = map[string]Coordinate{
	"Northern America": {Lon: -100, Lat: 40},
	"South America":    {Lon: -60, Lat: -20},
	"Europe":           {Lon: 15, Lat: 50},
	"Asia":             {Lon: 100, Lat: 30},
	"Africa":           {Lon: 20, Lat: 0},
	"World":            {Lon: 0, Lat: 0},
	"Oceania":          {Lon: 130, Lat: -25},
}

// Bubble is a region marker sized by its record count.
type Bubble struct {
	Region string     `json:"region"`
	Count  int        `json:"count"`
	Radius float64    `json:"radius"`
	At     Coordinate `json:"at"`
}

// RegionMap holds the bubbles plus the count range used by the colour scale.
type RegionMap struct {
	Bubbles  []Bubble `json:"bubbles"`
	MaxCount int      `json:"max_count"`
}

// BubbleRadius maps a count to a circle radius.
func BubbleRadius(count int) float64 {
	return math.Sqrt(float64(count)) * 5
}

// RegionBubbles aggregates records per region and keeps the regions that have
// coordinates.
func RegionBubbles(items []insight.Insight) RegionMap {
	groups := Frequency(items, Specs[ChartRegions])
	out := RegionMap{Bubbles: make([]Bubble, 0, len(groups)), MaxCount: MaxCount(groups)}
	for _, g := range groups {
		at, ok := RegionCoordinates[g.Key]
		if !ok {
			continue
		}
		out.Bubbles = append(out.Bubbles, Bubble{Region: g.Key, Count: g.Count, Radius: BubbleRadius(g.Count), At: at})
	}
	return out
}
