package jobs

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDashboardWarmup pre-populates the dashboard cache.
	TaskDashboardWarmup = "dashboard:warmup"
)

// Warmup reasons recorded in the payload.
const (
	ReasonScheduled = "scheduled"
	ReasonManual    = "manual"
)

const warmupTimeout = 2 * time.Minute

// WarmupPayload describes a single warmup request.
type WarmupPayload struct {
	RequestID string `json:"request_id"`
	Reason    string `json:"reason"`
}

// NewWarmupPayload stamps a payload with a fresh request ID.
func NewWarmupPayload(reason string) WarmupPayload {
	if reason == "" {
		reason = ReasonScheduled
	}
	return WarmupPayload{RequestID: uuid.NewString(), Reason: reason}
}

// NewWarmupTask constructs a dashboard warmup task.
func NewWarmupTask(payload WarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("jobs: encode warmup payload: %w", err)
	}
	return asynq.NewTask(TaskDashboardWarmup, data,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(3),
		asynq.Timeout(warmupTimeout),
	), nil
}

// DecodeWarmupPayload reads a warmup payload from a task.
func DecodeWarmupPayload(t *asynq.Task) (WarmupPayload, error) {
	var payload WarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return WarmupPayload{}, fmt.Errorf("jobs: decode warmup payload: %w", err)
	}
	return payload, nil
}
