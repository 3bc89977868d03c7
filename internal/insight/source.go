package insight

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

// Source produces the base insight collection.
type Source interface {
	Fetch(ctx context.Context) ([]Insight, error)
}

// HTTPSource fetches the collection with a single GET against Endpoint.
type HTTPSource struct {
	Endpoint string
	Client   *http.Client
}

// Fetch issues the request and decodes a JSON array of insights.
func (s *HTTPSource) Fetch(ctx context.Context) ([]Insight, error) {
	if s == nil {
		return nil, fmt.Errorf("insight: http source not initialised")
	}
	endpoint := strings.TrimSpace(s.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("insight: endpoint required")
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("insight: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("insight: fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("insight: upstream response %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var items []Insight
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("insight: decode: %w", err)
	}
	return items, nil
}

// StaticSource serves a fixed in-memory collection.
type StaticSource []Insight

// Fetch returns a copy of the collection.
func (s StaticSource) Fetch(ctx context.Context) ([]Insight, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]Insight(nil), s...), nil
}
