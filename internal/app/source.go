package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/insightboard/insightboard/internal/insight"
	"github.com/insightboard/insightboard/internal/platform/db"
)

// NewInsightSource builds the configured insight source. The returned close
// function releases any pool it opened and is never nil.
func NewInsightSource(ctx context.Context, cfg *Config, logger *slog.Logger) (insight.Source, func(), error) {
	noop := func() {}
	switch cfg.InsightsSource {
	case SourceHTTP:
		return &insight.HTTPSource{
			Endpoint: cfg.InsightsURL,
			Client:   &http.Client{Timeout: cfg.InsightsFetchTimeout},
		}, noop, nil
	case SourcePostgres:
		pool, err := db.New(ctx, cfg.PGDSN)
		if err != nil {
			return nil, noop, err
		}
		if err := db.Migrate(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, noop, err
		}
		return insight.NewPostgresSource(pool), pool.Close, nil
	default:
		return nil, noop, fmt.Errorf("app: unsupported insight source %q", cfg.InsightsSource)
	}
}

// LoadInsights fetches the base collection in the background, bounded by
// INSIGHTS_FETCH_TIMEOUT. Failures are logged by the store and leave the
// dashboard empty.
func LoadInsights(ctx context.Context, cfg *Config, store *insight.Store, src insight.Source) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		loadCtx, cancel := context.WithTimeout(ctx, cfg.InsightsFetchTimeout)
		defer cancel()
		_ = store.Load(loadCtx, src)
	}()
	return done
}
