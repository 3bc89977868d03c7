package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/insightboard/insightboard/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// ErrNotLoaded is returned while the insight collection is still loading so
// the task is retried later.
var ErrNotLoaded = errors.New("dashboard warmup: insights not loaded")

// Warmer pre-populates the dashboard cache.
type Warmer interface {
	Loaded() bool
	Warm(ctx context.Context) (int, error)
}

// DashboardWarmupJob caches the unfiltered dashboard and every single-key
// filter state.
type DashboardWarmupJob struct {
	Warmer  Warmer
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewDashboardWarmupJob wires dependencies for the warmup handler.
func NewDashboardWarmupJob(warmer Warmer, logger *slog.Logger, metrics *jobmetrics.Metrics) *DashboardWarmupJob {
	return &DashboardWarmupJob{Warmer: warmer, Logger: logger, Metrics: metrics}
}

// Handle processes dashboard warmup tasks.
func (j *DashboardWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Warmer == nil {
		return errors.New("dashboard warmup: handler not configured")
	}
	payload, err := DecodeWarmupPayload(t)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	tracker := j.metrics().Track(TaskDashboardWarmup)
	logger := j.logger().With(slog.String("request_id", payload.RequestID), slog.String("reason", payload.Reason))

	if !j.Warmer.Loaded() {
		logger.Warn("insights not loaded, retrying later")
		return tracker.End(ErrNotLoaded)
	}

	start := time.Now()
	logger.Info("starting dashboard warmup")
	warmed, err := j.Warmer.Warm(ctx)
	if err != nil {
		logger.Error("dashboard warmup", slog.Int("states", warmed), slog.Any("error", err))
		return tracker.End(err)
	}
	j.metrics().SetWarmedStates(warmed)
	logger.Info("completed dashboard warmup", slog.Int("states", warmed), slog.Duration("duration", time.Since(start)))
	return tracker.End(nil)
}

func (j *DashboardWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskDashboardWarmup))
	}
	return slog.Default().With(slog.String("job", TaskDashboardWarmup))
}

func (j *DashboardWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
