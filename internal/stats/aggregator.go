package stats

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/commedeschamps/KieliSan/core/logger"
	"github.com/commedeschamps/KieliSan/internal/quiz"
)

// Aggregator records finished quizzes and serves the stored records.
type Aggregator struct {
	store Store
	now   func() time.Time
}

// AggregatorOption customises an Aggregator.
type AggregatorOption func(*Aggregator)

// WithClock overrides the time source used for last_date.
func WithClock(now func() time.Time) AggregatorOption {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAggregator wraps store.
func NewAggregator(store Store, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{store: store, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RecordResult folds attempt into the record of userID and persists it
// before returning.
func (a *Aggregator) RecordResult(ctx context.Context, userID int64, id Identity, attempt Attempt) (UserStats, error) {
	at := a.now()
	updated, err := a.store.Update(ctx, userID, func(u UserStats) UserStats {
		return Apply(u, id, attempt, at)
	})
	if err != nil {
		return UserStats{}, err
	}
	logger.Info(ctx, "service.stats", "stats.recorded",
		slog.Int64("stats_user_id", userID),
		slog.Int("quizzes_taken", updated.QuizzesTaken),
		slog.Int("total_points", updated.TotalPoints),
	)
	return updated, nil
}

// Record adapts a quiz result to RecordResult.
func (a *Aggregator) Record(ctx context.Context, p quiz.Player, r quiz.Result) error {
	_, err := a.RecordResult(ctx, p.ID, IdentityOf(p), Attempt{
		Correct: r.Correct,
		Total:   r.Total,
		Points:  r.Points,
		Mode:    r.Mode.Label(),
	})
	return err
}

// Get returns the record of userID.
func (a *Aggregator) Get(ctx context.Context, userID int64) (UserStats, bool, error) {
	return a.store.Get(ctx, userID)
}

// Leaderboard ranks every record and cuts it at limit for viewer.
func (a *Aggregator) Leaderboard(ctx context.Context, limit int, viewer int64) (Board, error) {
	all, err := a.store.LoadAll(ctx)
	if err != nil {
		return Board{}, err
	}
	return BuildBoard(all, limit, viewer), nil
}

// IdentityOf derives the stored identity of a player. The display name
// falls back to first and last name.
func IdentityOf(p quiz.Player) Identity {
	display := strings.TrimSpace(p.DisplayName)
	if display == "" {
		display = strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
	}
	return Identity{
		DisplayName: display,
		Username:    strings.TrimPrefix(strings.TrimSpace(p.Username), "@"),
		FirstName:   p.FirstName,
		LastName:    p.LastName,
	}
}
