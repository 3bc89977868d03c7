package svg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"
)

// CountriesObject is the TopoJSON object holding country geometries.
const CountriesObject = "countries"

const topologyRetryAfter = time.Minute

// Outline is one country as closed rings of (lon, lat) pairs.
type Outline struct {
	Name  string
	Rings [][][2]float64
}

type topology struct {
	Type      string                `json:"type"`
	Transform *topoTransform        `json:"transform"`
	Objects   map[string]topoObject `json:"objects"`
	Arcs      [][][]float64         `json:"arcs"`
}

type topoTransform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

type topoObject struct {
	Type       string          `json:"type"`
	Geometries []topoObject    `json:"geometries"`
	Arcs       json.RawMessage `json:"arcs"`
	Properties map[string]any  `json:"properties"`
}

// DecodeTopology reads a TopoJSON document and returns the polygons of the
// named object as outlines. Geometries other than Polygon and MultiPolygon
// are skipped.
func DecodeTopology(r io.Reader, object string) ([]Outline, error) {
	var topo topology
	if err := json.NewDecoder(r).Decode(&topo); err != nil {
		return nil, fmt.Errorf("svg: decode topology: %w", err)
	}
	if topo.Type != "Topology" {
		return nil, fmt.Errorf("svg: unexpected topology type %q", topo.Type)
	}
	obj, ok := topo.Objects[object]
	if !ok {
		return nil, fmt.Errorf("svg: topology object %q missing", object)
	}
	arcs := decodeArcs(topo)
	geometries := obj.Geometries
	if obj.Type != "GeometryCollection" {
		geometries = []topoObject{obj}
	}

	outlines := make([]Outline, 0, len(geometries))
	for _, g := range geometries {
		var polygons [][][]int
		switch g.Type {
		case "Polygon":
			var rings [][]int
			if err := json.Unmarshal(g.Arcs, &rings); err != nil {
				return nil, fmt.Errorf("svg: polygon arcs: %w", err)
			}
			polygons = [][][]int{rings}
		case "MultiPolygon":
			if err := json.Unmarshal(g.Arcs, &polygons); err != nil {
				return nil, fmt.Errorf("svg: multipolygon arcs: %w", err)
			}
		default:
			continue
		}
		outline := Outline{}
		if name, ok := g.Properties["name"].(string); ok {
			outline.Name = name
		}
		for _, rings := range polygons {
			for _, ring := range rings {
				points, err := stitch(arcs, ring)
				if err != nil {
					return nil, err
				}
				if len(points) > 0 {
					outline.Rings = append(outline.Rings, points)
				}
			}
		}
		outlines = append(outlines, outline)
	}
	return outlines, nil
}

// decodeArcs resolves delta encoded, quantised arcs into absolute positions.
func decodeArcs(topo topology) [][][2]float64 {
	out := make([][][2]float64, len(topo.Arcs))
	for i, arc := range topo.Arcs {
		positions := make([][2]float64, 0, len(arc))
		var x, y float64
		for _, p := range arc {
			if len(p) < 2 {
				continue
			}
			if topo.Transform != nil {
				x += p[0]
				y += p[1]
				positions = append(positions, [2]float64{
					x*topo.Transform.Scale[0] + topo.Transform.Translate[0],
					y*topo.Transform.Scale[1] + topo.Transform.Translate[1],
				})
				continue
			}
			positions = append(positions, [2]float64{p[0], p[1]})
		}
		out[i] = positions
	}
	return out
}

// stitch joins arcs into one ring. A negative index ~i walks arc i backwards.
func stitch(arcs [][][2]float64, indexes []int) ([][2]float64, error) {
	var ring [][2]float64
	for n, idx := range indexes {
		reversed := idx < 0
		if reversed {
			idx = ^idx
		}
		if idx >= len(arcs) {
			return nil, fmt.Errorf("svg: arc index %d out of range", idx)
		}
		arc := arcs[idx]
		points := make([][2]float64, len(arc))
		copy(points, arc)
		if reversed {
			for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
				points[i], points[j] = points[j], points[i]
			}
		}
		if n > 0 && len(points) > 0 {
			points = points[1:]
		}
		ring = append(ring, points...)
	}
	return ring, nil
}

// TopologyLoader fetches country outlines once and keeps them for the life of
// the process. Concurrent first renders share one fetch. A failed fetch is
// retried no sooner than a minute later.
type TopologyLoader struct {
	URL    string
	Client *http.Client
	Logger *slog.Logger

	mu       sync.RWMutex
	outlines []Outline
	loaded   bool
	failedAt time.Time
	group    singleflight.Group
	now      func() time.Time
}

// NewTopologyLoader constructs a loader for url. An empty url disables
// outlines.
func NewTopologyLoader(url string, client *http.Client, logger *slog.Logger) *TopologyLoader {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TopologyLoader{URL: url, Client: client, Logger: logger, now: time.Now}
}

// Outlines returns the cached outlines, fetching them on first use.
func (l *TopologyLoader) Outlines(ctx context.Context) ([]Outline, error) {
	if l == nil || l.URL == "" {
		return nil, nil
	}
	l.mu.RLock()
	outlines, loaded, failedAt := l.outlines, l.loaded, l.failedAt
	l.mu.RUnlock()
	if loaded {
		return outlines, nil
	}
	if !failedAt.IsZero() && l.clock().Sub(failedAt) < topologyRetryAfter {
		return nil, errTopologyUnavailable
	}

	// Detached from the caller; other renders wait on the same fetch.
	resultChan := l.group.DoChan("topology", func() (interface{}, error) {
		return l.fetch(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]Outline), nil
	}
}

var errTopologyUnavailable = errors.New("svg: world topology unavailable")

func (l *TopologyLoader) fetch(ctx context.Context) ([]Outline, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("svg: topology request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, l.fail(fmt.Errorf("svg: fetch topology: %w", err))
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, l.fail(fmt.Errorf("svg: fetch topology: status %d", resp.StatusCode))
	}
	outlines, err := DecodeTopology(resp.Body, CountriesObject)
	if err != nil {
		return nil, l.fail(err)
	}
	l.mu.Lock()
	l.outlines, l.loaded, l.failedAt = outlines, true, time.Time{}
	l.mu.Unlock()
	l.log().Info("world topology loaded", slog.Int("countries", len(outlines)))
	return outlines, nil
}

func (l *TopologyLoader) fail(err error) error {
	l.mu.Lock()
	l.failedAt = l.clock()
	l.mu.Unlock()
	l.log().Warn("world topology unavailable", slog.Any("error", err))
	return err
}

func (l *TopologyLoader) clock() time.Time {
	if l.now == nil {
		return time.Now()
	}
	return l.now()
}

func (l *TopologyLoader) log() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}
