package insight

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// LoadListener is notified once the base collection has been stored.
type LoadListener func(ctx context.Context, count int)

// Store holds the base collection. It is written at most once and read-only
// afterwards.
type Store struct {
	mu        sync.RWMutex
	items     []Insight
	loaded    bool
	loadedAt  time.Time
	listeners []LoadListener
	logger    *slog.Logger
}

// NewStore constructs an empty Store.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{logger: logger}
}

// OnLoad registers a listener invoked after a successful load.
func (s *Store) OnLoad(fn LoadListener) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Load fetches the base collection from src. Failures are logged and leave
// the collection empty; there is no retry. Once a load succeeds, later calls
// are no-ops.
func (s *Store) Load(ctx context.Context, src Source) error {
	if s.Loaded() {
		return nil
	}
	start := time.Now()
	items, err := src.Fetch(ctx)
	if err != nil {
		s.logger.Error("fetch insights", slog.Any("error", err))
		return err
	}

	s.mu.Lock()
	if s.loaded {
		s.mu.Unlock()
		return nil
	}
	s.items = items
	s.loaded = true
	s.loadedAt = time.Now().UTC()
	listeners := append([]LoadListener(nil), s.listeners...)
	s.mu.Unlock()

	s.logger.Info("insights loaded", slog.Int("count", len(items)), slog.Duration("duration", time.Since(start)))
	for _, fn := range listeners {
		fn(ctx, len(items))
	}
	return nil
}

// All returns the base collection. Callers must not modify it.
func (s *Store) All() []Insight {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items
}

// Loaded reports whether the base collection has been stored.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// LoadedAt returns the time of the successful load, zero before it.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
