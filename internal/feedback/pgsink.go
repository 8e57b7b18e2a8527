package feedback

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PgSink inserts entries into the feedback table.
type PgSink struct {
	db *sqlx.DB
}

// NewPgSink wraps an open pool.
func NewPgSink(db *sqlx.DB) *PgSink {
	return &PgSink{db: db}
}

func (s *PgSink) Append(ctx context.Context, e Entry) error {
	const q = `INSERT INTO feedback (id, user_id, username, text, created_at)
VALUES (:id, :user_id, :username, :text, :created_at)`
	if _, err := s.db.NamedExecContext(ctx, q, e); err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}
