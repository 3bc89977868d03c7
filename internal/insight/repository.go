package insight

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
)

const selectInsightDocs = `SELECT doc FROM insights ORDER BY id`

var insightsTable = pgx.Identifier{"insights"}

// DBTX is the subset of pgxpool.Pool and pgx.Tx used by the Postgres source.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// PostgresSource reads insight documents mirrored into the insights table.
type PostgresSource struct {
	db DBTX
}

// NewPostgresSource wraps a pgx pool or connection.
func NewPostgresSource(db DBTX) *PostgresSource {
	return &PostgresSource{db: db}
}

// Fetch loads every stored document in insertion order.
func (s *PostgresSource) Fetch(ctx context.Context) ([]Insight, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("insight: postgres source not configured")
	}
	rows, err := s.db.Query(ctx, selectInsightDocs)
	if err != nil {
		return nil, fmt.Errorf("insight: query insights: %w", err)
	}
	defer rows.Close()

	items := make([]Insight, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("insight: scan insight: %w", err)
		}
		var item Insight
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("insight: decode insight: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("insight: iterate insights: %w", err)
	}
	return items, nil
}

// Insert stores the given insights as JSON documents in one COPY. Used by the
// seed script.
func (s *PostgresSource) Insert(ctx context.Context, items []Insight) (int, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("insight: postgres source not configured")
	}
	rows := make([][]any, 0, len(items))
	for _, item := range items {
		doc, err := json.Marshal(item)
		if err != nil {
			return 0, fmt.Errorf("insight: encode insight: %w", err)
		}
		rows = append(rows, []any{doc})
	}
	n, err := s.db.CopyFrom(ctx, insightsTable, []string{"doc"}, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("insight: copy insights: %w", err)
	}
	return int(n), nil
}
