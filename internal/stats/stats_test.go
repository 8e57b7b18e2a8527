package stats

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commedeschamps/KieliSan/internal/quiz"
)

var fixedNow = time.Date(2025, 3, 22, 14, 5, 0, 0, time.UTC)

func newAggregator(t *testing.T) (*Aggregator, *JSONStore) {
	t.Helper()
	store := NewJSONStore(filepath.Join(t.TempDir(), "stats.json"), time.Second)
	return NewAggregator(store, WithClock(func() time.Time { return fixedNow })), store
}

func TestRecordResultBestRatio(t *testing.T) {
	agg, _ := newAggregator(t)
	ctx := context.Background()

	_, err := agg.RecordResult(ctx, 1, Identity{}, Attempt{Correct: 3, Total: 5, Points: 6, Mode: "a"})
	require.NoError(t, err)
	u, err := agg.RecordResult(ctx, 1, Identity{}, Attempt{Correct: 4, Total: 5, Points: 4, Mode: "b"})
	require.NoError(t, err)
	assert.Equal(t, 4, u.BestScore)
	assert.Equal(t, 5, u.BestTotal)

	u, err = agg.RecordResult(ctx, 1, Identity{}, Attempt{Correct: 2, Total: 5, Points: 9, Mode: "c"})
	require.NoError(t, err)
	assert.Equal(t, 4, u.BestScore)
	assert.Equal(t, 5, u.BestTotal)
	assert.Equal(t, 9, u.BestPoints)

	assert.Equal(t, 3, u.QuizzesTaken)
	assert.Equal(t, 9, u.TotalCorrect)
	assert.Equal(t, 15, u.TotalQuestions)
	assert.Equal(t, 19, u.TotalPoints)
	assert.Equal(t, 2, u.LastScore)
	assert.Equal(t, 9, u.LastPoints)
	assert.Equal(t, "c", u.LastMode)
	assert.Equal(t, "2025-03-22 14:05", u.LastDate)
	assert.Equal(t, 60, u.AveragePercent())
}

func TestApplyTieKeepsBest(t *testing.T) {
	u := NewUserStats()
	u = Apply(u, Identity{}, Attempt{Correct: 2, Total: 4}, fixedNow)
	assert.Equal(t, 2, u.BestScore)
	u = Apply(u, Identity{}, Attempt{Correct: 1, Total: 2}, fixedNow)
	assert.Equal(t, 4, u.BestTotal)
}

func TestApplyZeroTotal(t *testing.T) {
	u := Apply(NewUserStats(), Identity{}, Attempt{}, fixedNow)
	assert.Zero(t, u.BestScore)
	assert.Zero(t, u.BestTotal)
	assert.Equal(t, NoValue, u.LastMode)
	assert.Zero(t, u.AveragePercent())
}

func TestApplyIdentity(t *testing.T) {
	u := Apply(NewUserStats(), Identity{DisplayName: "Aru", Username: "aru"}, Attempt{Total: 1}, fixedNow)
	u = Apply(u, Identity{DisplayName: "Aruzhan", FirstName: "Aruzhan"}, Attempt{Total: 1}, fixedNow)
	assert.Equal(t, "Aruzhan", u.DisplayName)
	assert.Equal(t, "aru", u.Username)
	assert.Equal(t, "Aruzhan", u.FirstName)
}

func TestName(t *testing.T) {
	assert.Equal(t, "Aru", UserStats{DisplayName: "Aru", Username: "x"}.Name(1))
	assert.Equal(t, "@aru", UserStats{Username: "aru"}.Name(1))
	assert.Equal(t, "Aru Bek", UserStats{FirstName: "Aru", LastName: "Bek"}.Name(1))
	assert.Equal(t, "ID 42", UserStats{}.Name(42))
}

func TestIdentityOf(t *testing.T) {
	id := IdentityOf(quiz.Player{ID: 1, Username: "@aru", FirstName: "Aru", LastName: "Bek"})
	assert.Equal(t, "Aru Bek", id.DisplayName)
	assert.Equal(t, "aru", id.Username)
}

func TestRankTieBreaks(t *testing.T) {
	all := map[int64]UserStats{
		1: {TotalPoints: 10, TotalCorrect: 4, QuizzesTaken: 5},
		2: {TotalPoints: 10, TotalCorrect: 5, QuizzesTaken: 4},
		3: {TotalPoints: 10, TotalCorrect: 5, QuizzesTaken: 5},
		4: {TotalPoints: 12},
	}
	ranked := Rank(all)
	require.Len(t, ranked, 4)
	var order []int64
	for _, e := range ranked {
		order = append(order, e.UserID)
	}
	assert.Equal(t, []int64{4, 3, 2, 1}, order)
	assert.Equal(t, 1, ranked[0].Position)
	assert.Equal(t, 4, ranked[3].Position)
}

func TestRankEqualRecordsByID(t *testing.T) {
	ranked := Rank(map[int64]UserStats{9: {TotalPoints: 1}, 3: {TotalPoints: 1}})
	assert.Equal(t, int64(3), ranked[0].UserID)
}

func TestBuildBoard(t *testing.T) {
	all := map[int64]UserStats{}
	for i := int64(1); i <= 12; i++ {
		all[i] = UserStats{TotalPoints: int(100 - i)}
	}
	board := BuildBoard(all, 10, 12)
	assert.Len(t, board.Top, 10)
	assert.Equal(t, 12, board.Total)
	require.NotNil(t, board.Self)
	assert.Equal(t, 12, board.Self.Position)

	board = BuildBoard(all, 10, 3)
	assert.Nil(t, board.Self)

	board = BuildBoard(all, 10, 999)
	assert.Nil(t, board.Self)

	board = BuildBoard(nil, 10, 1)
	assert.Empty(t, board.Top)
}

func TestJSONStoreRoundTrip(t *testing.T) {
	agg, store := newAggregator(t)
	ctx := context.Background()
	_, err := agg.RecordResult(ctx, 5, Identity{DisplayName: "Дана <3"}, Attempt{Correct: 1, Total: 2, Points: 1, Mode: "🟢 Жеңіл"})
	require.NoError(t, err)
	_, err = agg.RecordResult(ctx, 17, Identity{Username: "bek"}, Attempt{Correct: 2, Total: 2, Points: 4, Mode: "🔴 Қиын"})
	require.NoError(t, err)

	before, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	all, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.NoError(t, store.SaveAll(ctx, all))

	after, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
	assert.Contains(t, string(after), "Дана <3")
	assert.Contains(t, string(after), `"last_date": "2025-03-22 14:05"`)
}

func TestJSONStoreMalformedDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))
	store := NewJSONStore(path, time.Second)

	all, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	u, err := store.Update(context.Background(), 1, func(u UserStats) UserStats {
		u.QuizzesTaken++
		return u
	})
	require.NoError(t, err)
	assert.Equal(t, 1, u.QuizzesTaken)
	assert.Equal(t, NoValue, u.LastDate)
}

func TestJSONStoreConcurrentUsers(t *testing.T) {
	agg, store := newAggregator(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := int64(1); i <= 20; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := agg.RecordResult(ctx, id, Identity{}, Attempt{Correct: 1, Total: 1, Points: 1})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 20)
}

func TestJSONStoreLockTimeout(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "stats.json"), 10*time.Millisecond)
	release, err := store.lock.Acquire(context.Background())
	require.NoError(t, err)
	defer release()

	_, err = store.Update(context.Background(), 1, func(u UserStats) UserStats { return u })
	assert.ErrorIs(t, err, ErrLockTimeout)
}

func TestAggregatorRecordsQuizResult(t *testing.T) {
	agg, _ := newAggregator(t)
	ctx := context.Background()
	err := agg.Record(ctx, quiz.Player{ID: 3, FirstName: "Ержан"}, quiz.Result{Mode: quiz.ModeHard, Correct: 2, Total: 3, Points: 6})
	require.NoError(t, err)

	u, ok, err := agg.Get(ctx, 3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "🔴 Қиын", u.LastMode)
	assert.Equal(t, "Ержан", u.DisplayName)

	board, err := agg.Leaderboard(ctx, 10, 3)
	require.NoError(t, err)
	require.Len(t, board.Top, 1)
	assert.Equal(t, int64(3), board.Top[0].UserID)
}
