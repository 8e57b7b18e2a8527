package stats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const statsColumns = `user_id, quizzes_taken, total_correct, total_questions, total_points,
	best_score, best_total, best_points, last_score, last_total, last_mode, last_date,
	last_points, display_name, username, first_name, last_name`

const upsertStats = `INSERT INTO user_stats (` + statsColumns + `)
VALUES (:user_id, :quizzes_taken, :total_correct, :total_questions, :total_points,
	:best_score, :best_total, :best_points, :last_score, :last_total, :last_mode, :last_date,
	:last_points, :display_name, :username, :first_name, :last_name)
ON CONFLICT (user_id) DO UPDATE SET
	quizzes_taken = EXCLUDED.quizzes_taken,
	total_correct = EXCLUDED.total_correct,
	total_questions = EXCLUDED.total_questions,
	total_points = EXCLUDED.total_points,
	best_score = EXCLUDED.best_score,
	best_total = EXCLUDED.best_total,
	best_points = EXCLUDED.best_points,
	last_score = EXCLUDED.last_score,
	last_total = EXCLUDED.last_total,
	last_mode = EXCLUDED.last_mode,
	last_date = EXCLUDED.last_date,
	last_points = EXCLUDED.last_points,
	display_name = EXCLUDED.display_name,
	username = EXCLUDED.username,
	first_name = EXCLUDED.first_name,
	last_name = EXCLUDED.last_name,
	updated_at = now()`

type statsRow struct {
	UserID int64 `db:"user_id"`
	UserStats
}

// PgStore keeps records in the user_stats table. Update serialises
// writers of the same user through a transaction-scoped advisory lock.
type PgStore struct {
	db          *sqlx.DB
	lockTimeout time.Duration
}

// NewPgStore wraps an open connection pool.
func NewPgStore(db *sqlx.DB, lockTimeout time.Duration) *PgStore {
	return &PgStore{db: db, lockTimeout: lockTimeout}
}

func (s *PgStore) LoadAll(ctx context.Context) (map[int64]UserStats, error) {
	var rows []statsRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT `+statsColumns+` FROM user_stats`); err != nil {
		return nil, fmt.Errorf("select user_stats: %w", err)
	}
	all := make(map[int64]UserStats, len(rows))
	for _, r := range rows {
		all[r.UserID] = r.UserStats
	}
	return all, nil
}

func (s *PgStore) SaveAll(ctx context.Context, all map[int64]UserStats) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_stats`); err != nil {
		return fmt.Errorf("clear user_stats: %w", err)
	}
	for id, u := range all {
		if _, err := tx.NamedExecContext(ctx, upsertStats, statsRow{UserID: id, UserStats: u}); err != nil {
			return fmt.Errorf("upsert user %d: %w", id, err)
		}
	}
	return tx.Commit()
}

func (s *PgStore) Get(ctx context.Context, userID int64) (UserStats, bool, error) {
	var r statsRow
	err := s.db.GetContext(ctx, &r, `SELECT `+statsColumns+` FROM user_stats WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return UserStats{}, false, nil
	}
	if err != nil {
		return UserStats{}, false, fmt.Errorf("select user %d: %w", userID, err)
	}
	return r.UserStats, true, nil
}

func (s *PgStore) Update(ctx context.Context, userID int64, fn func(UserStats) UserStats) (UserStats, error) {
	if s.lockTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.lockTimeout)
		defer cancel()
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return UserStats{}, lockErr(ctx, fmt.Errorf("begin: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, userID); err != nil {
		return UserStats{}, lockErr(ctx, fmt.Errorf("lock user %d: %w", userID, err))
	}

	r := statsRow{UserID: userID}
	err = tx.GetContext(ctx, &r, `SELECT `+statsColumns+` FROM user_stats WHERE user_id = $1`, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		r.UserStats = NewUserStats()
	case err != nil:
		return UserStats{}, fmt.Errorf("select user %d: %w", userID, err)
	}

	r.UserStats = fn(r.UserStats)
	if _, err := tx.NamedExecContext(ctx, upsertStats, r); err != nil {
		return UserStats{}, fmt.Errorf("upsert user %d: %w", userID, err)
	}
	if err := tx.Commit(); err != nil {
		return UserStats{}, fmt.Errorf("commit: %w", err)
	}
	return r.UserStats, nil
}

func lockErr(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrLockTimeout
	}
	return err
}
