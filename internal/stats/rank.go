package stats

import (
	"cmp"
	"slices"

	"github.com/samber/lo"
)

// Entry is one row of the leaderboard. Position starts at 1.
type Entry struct {
	Position int
	UserID   int64
	Stats    UserStats
}

// Rank orders all records by total points, then total correct answers,
// then quizzes taken, all descending. Remaining ties go to the lower user
// id.
func Rank(all map[int64]UserStats) []Entry {
	entries := lo.MapToSlice(all, func(id int64, u UserStats) Entry {
		return Entry{UserID: id, Stats: u}
	})
	slices.SortFunc(entries, func(a, b Entry) int {
		if c := cmp.Compare(b.Stats.TotalPoints, a.Stats.TotalPoints); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Stats.TotalCorrect, a.Stats.TotalCorrect); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Stats.QuizzesTaken, a.Stats.QuizzesTaken); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})
	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries
}

// Board is the leaderboard as shown to one user.
type Board struct {
	Top []Entry
	// Self is set when the viewer has a record but is outside Top.
	Self  *Entry
	Total int
}

// BuildBoard takes the first limit entries of Rank(all) and locates
// viewer in the full ordering.
func BuildBoard(all map[int64]UserStats, limit int, viewer int64) Board {
	ranked := Rank(all)
	if limit <= 0 || limit > len(ranked) {
		limit = len(ranked)
	}
	board := Board{Top: ranked[:limit], Total: len(ranked)}
	if _, idx, ok := lo.FindIndexOf(ranked, func(e Entry) bool { return e.UserID == viewer }); ok && idx >= limit {
		self := ranked[idx]
		board.Self = &self
	}
	return board
}
