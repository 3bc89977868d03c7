package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/insightboard/insightboard/internal/insight"
)

// Reader exposes the loaded base collection.
type Reader interface {
	All() []insight.Insight
	Loaded() bool
}

// Dashboard is the aggregated state behind one dashboard page.
type Dashboard struct {
	Filters     insight.FilterState   `json:"filters"`
	ColorBy     ColorBy               `json:"color_by"`
	Summary     Summary               `json:"summary"`
	Charts      map[ChartID][]Group   `json:"charts"`
	Scatter     ScatterData           `json:"scatter"`
	Regions     RegionMap             `json:"regions"`
	Options     insight.FilterOptions `json:"options"`
	Loaded      bool                  `json:"loaded"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// FrequencyCharts lists the charts backed by Frequency, in page order.
var FrequencyCharts = []ChartID{
	ChartIntensity, ChartLikelihood, ChartRelevance, ChartTopics,
	ChartYears, ChartSectors, ChartPestle, ChartRegions,
}

// Service coordinates filtering and aggregation with the cache layer.
type Service struct {
	store  Reader
	cache  *Cache
	flight singleflight.Group
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires a Reader with a Cache helper. cache may be nil.
func NewService(store Reader, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, cache: cache, logger: logger, now: time.Now}
}

// Loaded reports whether the base collection is available.
func (s *Service) Loaded() bool {
	return s.store.Loaded()
}

// Base returns the unfiltered collection.
func (s *Service) Base() []insight.Insight {
	return s.store.All()
}

// Filtered recomputes the filtered collection.
func (s *Service) Filtered(filters insight.FilterState) []insight.Insight {
	return insight.ApplyFilters(s.store.All(), filters)
}

// Options returns the dropdown options derived from the base collection.
func (s *Service) Options(ctx context.Context) (insight.FilterOptions, error) {
	return cached(ctx, s, "options", "all", func() insight.FilterOptions {
		return insight.OptionsFor(s.store.All())
	})
}

// Summary computes the summary cards for filters.
func (s *Service) Summary(ctx context.Context, filters insight.FilterState) (Summary, error) {
	return cached(ctx, s, "summary", filters.CacheKey(), func() Summary {
		return Summarize(s.Filtered(filters), len(s.store.All()))
	})
}

// Chart aggregates one frequency chart for filters.
func (s *Service) Chart(ctx context.Context, id ChartID, filters insight.FilterState) ([]Group, error) {
	spec, ok := Specs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChart, id)
	}
	return cached(ctx, s, "chart:"+string(id), filters.CacheKey(), func() []Group {
		return Frequency(s.Filtered(filters), spec)
	})
}

// Scatter builds the scatter data for filters.
func (s *Service) Scatter(ctx context.Context, filters insight.FilterState, colorBy ColorBy) (ScatterData, error) {
	return cached(ctx, s, "scatter:"+string(colorBy), filters.CacheKey(), func() ScatterData {
		return Scatter(s.Filtered(filters), colorBy)
	})
}

// Regions builds the region bubbles for filters.
func (s *Service) Regions(ctx context.Context, filters insight.FilterState) (RegionMap, error) {
	return cached(ctx, s, "regions", filters.CacheKey(), func() RegionMap {
		return RegionBubbles(s.Filtered(filters))
	})
}

// Dashboard aggregates every chart for filters in one pass. Identical
// concurrent requests share a single build.
func (s *Service) Dashboard(ctx context.Context, filters insight.FilterState, colorBy ColorBy) (Dashboard, error) {
	if colorBy == "" {
		colorBy = ColorBySector
	}
	key := filters.CacheKey() + "|" + string(colorBy)
	// The shared build outlives any single waiter.
	buildCtx := context.WithoutCancel(ctx)
	resultChan := s.flight.DoChan(key, func() (interface{}, error) {
		return cached(buildCtx, s, "dashboard:"+string(colorBy), filters.CacheKey(), func() Dashboard {
			return s.build(filters, colorBy)
		})
	})
	select {
	case <-ctx.Done():
		return Dashboard{}, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return Dashboard{}, res.Err
		}
		return res.Val.(Dashboard), nil
	}
}

func (s *Service) build(filters insight.FilterState, colorBy ColorBy) Dashboard {
	start := time.Now()
	base := s.store.All()
	filtered := insight.ApplyFilters(base, filters)
	dash := Dashboard{
		Filters:     filters,
		ColorBy:     colorBy,
		Summary:     Summarize(filtered, len(base)),
		Charts:      make(map[ChartID][]Group, len(FrequencyCharts)),
		Scatter:     Scatter(filtered, colorBy),
		Regions:     RegionBubbles(filtered),
		Options:     insight.OptionsFor(base),
		Loaded:      s.store.Loaded(),
		GeneratedAt: s.now().UTC(),
	}
	for _, id := range FrequencyCharts {
		dash.Charts[id] = Frequency(filtered, Specs[id])
	}
	scope := "filtered"
	if filters.IsEmpty() {
		scope = "all"
	}
	observeBuildDuration(scope, time.Since(start))
	return dash
}

// Warm pre-populates the cache with the unfiltered dashboard and every
// single-key filter state. It returns the number of states warmed.
func (s *Service) Warm(ctx context.Context) (int, error) {
	if !s.store.Loaded() {
		return 0, nil
	}
	states := append([]insight.FilterState{{}}, insight.OptionsFor(s.store.All()).Singles()...)
	for i, state := range states {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if _, err := s.Dashboard(ctx, state, ColorBySector); err != nil {
			return i, fmt.Errorf("analytics: warm %s: %w", state.CacheKey(), err)
		}
	}
	s.logger.Info("dashboard cache warmed", slog.Int("states", len(states)))
	return len(states), nil
}

// cached serves a value from the versioned cache. Nothing is cached until the
// base collection has loaded, so an empty startup state never sticks. Redis
// failures degrade to an uncached build.
func cached[T any](ctx context.Context, s *Service, kind, token string, build func() T) (T, error) {
	var out T
	if s.cache == nil || !s.store.Loaded() {
		return build(), nil
	}
	key, err := s.cache.BuildKey(ctx, "insightboard", kind, token)
	if err != nil {
		return uncached(ctx, s, kind, err, build)
	}
	var built *T
	hit, err := s.cache.FetchJSON(ctx, key, &out, func(context.Context) (interface{}, error) {
		v := build()
		built = &v
		return v, nil
	})
	if err != nil {
		if built != nil {
			build = func() T { return *built }
		}
		return uncached(ctx, s, kind, err, build)
	}
	recordCacheResult(kind, hit)
	return out, nil
}

func uncached[T any](ctx context.Context, s *Service, kind string, cacheErr error, build func() T) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	s.logger.Warn("cache unavailable, building directly", slog.String("kind", kind), slog.Any("error", cacheErr))
	recordCacheResult(kind, false)
	return build(), nil
}
