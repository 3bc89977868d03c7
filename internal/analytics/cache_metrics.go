package analytics

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	cacheMetricsMu          sync.Mutex
	cacheMetricsInitialized bool

	cacheHitCounter   *prometheus.CounterVec
	cacheMissCounter  *prometheus.CounterVec
	buildHistogram    *prometheus.HistogramVec
	cacheMetricsError error
)

// SetupCacheMetrics registers Prometheus metrics for the aggregation cache.
// The registration is performed once and subsequent calls are ignored.
func SetupCacheMetrics(reg prometheus.Registerer) error {
	cacheMetricsMu.Lock()
	defer cacheMetricsMu.Unlock()
	if cacheMetricsInitialized {
		return cacheMetricsError
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	hits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "insightboard_cache_hits_total",
		Help: "Number of cache hits for aggregated dashboard data.",
	}, []string{"kind"})
	misses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "insightboard_cache_miss_total",
		Help: "Number of cache misses for aggregated dashboard data.",
	}, []string{"kind"})
	builds := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "insightboard_dashboard_build_duration_seconds",
		Help:    "Duration required to aggregate a dashboard.",
		Buckets: prometheus.DefBuckets,
	}, []string{"scope"})

	cacheHitCounter, cacheMissCounter, buildHistogram = hits, misses, builds
	for _, collector := range []prometheus.Collector{hits, misses, builds} {
		if err := reg.Register(collector); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				switch c := already.ExistingCollector.(type) {
				case *prometheus.CounterVec:
					if collector == hits {
						cacheHitCounter = c
					} else {
						cacheMissCounter = c
					}
				case *prometheus.HistogramVec:
					buildHistogram = c
				default:
					cacheMetricsError = fmt.Errorf("analytics cache metrics: unexpected collector type %T", c)
				}
				continue
			}
			cacheMetricsError = err
			cacheHitCounter = nil
			cacheMissCounter = nil
			buildHistogram = nil
			cacheMetricsInitialized = true
			return cacheMetricsError
		}
	}

	cacheMetricsInitialized = true
	return cacheMetricsError
}

func recordCacheResult(kind string, hit bool) {
	counter := cacheMissCounter
	if hit {
		counter = cacheHitCounter
	}
	if counter == nil {
		return
	}
	counter.WithLabelValues(kind).Inc()
}

func observeBuildDuration(scope string, duration time.Duration) {
	if buildHistogram == nil {
		return
	}
	buildHistogram.WithLabelValues(scope).Observe(duration.Seconds())
}
