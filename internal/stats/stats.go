// Package stats aggregates finished quiz results into per-user records and
// derives the leaderboard from them.
package stats

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/commedeschamps/KieliSan/internal/storage"
)

// DateLayout formats UserStats.LastDate.
const DateLayout = "2006-01-02 15:04"

// NoValue is shown for last_mode and last_date before the first attempt.
const NoValue = "-"

// ErrLockTimeout is returned when the store could not be locked in time.
var ErrLockTimeout = storage.ErrLockTimeout

// UserStats is the persisted record of one user.
type UserStats struct {
	QuizzesTaken   int    `json:"quizzes_taken" db:"quizzes_taken"`
	TotalCorrect   int    `json:"total_correct" db:"total_correct"`
	TotalQuestions int    `json:"total_questions" db:"total_questions"`
	TotalPoints    int    `json:"total_points" db:"total_points"`
	BestScore      int    `json:"best_score" db:"best_score"`
	BestTotal      int    `json:"best_total" db:"best_total"`
	BestPoints     int    `json:"best_points" db:"best_points"`
	LastScore      int    `json:"last_score" db:"last_score"`
	LastTotal      int    `json:"last_total" db:"last_total"`
	LastMode       string `json:"last_mode" db:"last_mode"`
	LastDate       string `json:"last_date" db:"last_date"`
	LastPoints     int    `json:"last_points" db:"last_points"`
	DisplayName    string `json:"display_name,omitempty" db:"display_name"`
	Username       string `json:"username,omitempty" db:"username"`
	FirstName      string `json:"first_name,omitempty" db:"first_name"`
	LastName       string `json:"last_name,omitempty" db:"last_name"`
}

// NewUserStats returns the zero record of a user with no attempts.
func NewUserStats() UserStats {
	return UserStats{LastMode: NoValue, LastDate: NoValue}
}

// BestRatio is best_score/best_total, 0 when nothing was recorded.
func (u UserStats) BestRatio() float64 {
	return ratio(u.BestScore, u.BestTotal)
}

// AveragePercent is the rounded share of correct answers over all quizzes.
func (u UserStats) AveragePercent() int {
	if u.TotalQuestions == 0 {
		return 0
	}
	return int(math.Round(ratio(u.TotalCorrect, u.TotalQuestions) * 100))
}

// Name picks the best known human-readable name of the user.
func (u UserStats) Name(userID int64) string {
	if n := strings.TrimSpace(u.DisplayName); n != "" {
		return n
	}
	if n := strings.TrimSpace(u.Username); n != "" {
		return "@" + strings.TrimPrefix(n, "@")
	}
	full := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if full != "" {
		return full
	}
	return fmt.Sprintf("ID %d", userID)
}

// Identity is the latest known naming data of a user.
type Identity struct {
	DisplayName string
	Username    string
	FirstName   string
	LastName    string
}

// Attempt is one finished quiz as seen by the aggregator.
type Attempt struct {
	Correct int
	Total   int
	Points  int
	Mode    string
}

// Apply folds attempt into u and returns the updated record.
//
// Counters accumulate and the last snapshot is overwritten. The best
// ratio changes only when strictly exceeded; best_points is tracked on its
// own, so both may refer to different attempts. Empty identity fields keep
// the previously known value.
func Apply(u UserStats, id Identity, a Attempt, at time.Time) UserStats {
	u.QuizzesTaken++
	u.TotalCorrect += a.Correct
	u.TotalQuestions += a.Total
	u.TotalPoints += a.Points

	u.LastScore = a.Correct
	u.LastTotal = a.Total
	u.LastPoints = a.Points
	u.LastMode = a.Mode
	if u.LastMode == "" {
		u.LastMode = NoValue
	}
	u.LastDate = at.Format(DateLayout)

	if ratio(a.Correct, a.Total) > u.BestRatio() {
		u.BestScore = a.Correct
		u.BestTotal = a.Total
	}
	if a.Points > u.BestPoints {
		u.BestPoints = a.Points
	}

	u.DisplayName = pick(id.DisplayName, u.DisplayName)
	u.Username = pick(id.Username, u.Username)
	u.FirstName = pick(id.FirstName, u.FirstName)
	u.LastName = pick(id.LastName, u.LastName)
	return u
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}

func pick(incoming, known string) string {
	if v := strings.TrimSpace(incoming); v != "" {
		return v
	}
	return known
}

// Store persists user records.
type Store interface {
	// LoadAll returns every stored record keyed by user id.
	LoadAll(ctx context.Context) (map[int64]UserStats, error)
	// SaveAll replaces the stored document with all.
	SaveAll(ctx context.Context, all map[int64]UserStats) error
	// Get returns the record of userID.
	Get(ctx context.Context, userID int64) (UserStats, bool, error)
	// Update applies fn to the record of userID inside one locked
	// read-modify-write cycle. Missing records start from NewUserStats.
	Update(ctx context.Context, userID int64, fn func(UserStats) UserStats) (UserStats, error)
}
