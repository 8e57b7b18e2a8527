package quiz

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Level is the difficulty label carried by a question.
type Level string

const (
	LevelEasy   Level = "easy"
	LevelMedium Level = "medium"
	LevelHard   Level = "hard"
)

// Question is an immutable quiz item. Options maps a choice key ("A", "B",
// ...) to its label; Correct lists the keys that make up the right answer.
type Question struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Level       Level             `json:"level"`
	Text        string            `json:"question"`
	Options     map[string]string `json:"options"`
	Correct     []string          `json:"correct"`
	Multi       bool              `json:"multi"`
	Explanation string            `json:"explanation"`
}

// IsMulti reports whether the question needs multi-select UI. Both the
// explicit flag and more than one correct key count.
func (q Question) IsMulti() bool {
	return q.Multi || len(q.Correct) > 1
}

// Keys returns option keys in display order.
func (q Question) Keys() []string {
	keys := lo.Keys(q.Options)
	slices.Sort(keys)
	return keys
}

// HasOption reports whether key is one of the question's options.
func (q Question) HasOption(key string) bool {
	_, ok := q.Options[key]
	return ok
}

// Matches reports whether selected equals the correct set exactly.
func (q Question) Matches(selected []string) bool {
	want := lo.Uniq(q.Correct)
	got := lo.Uniq(selected)
	if len(want) != len(got) {
		return false
	}
	return lo.Every(want, got)
}

// CorrectKeys returns the correct keys sorted for display.
func (q Question) CorrectKeys() []string {
	keys := slices.Clone(q.Correct)
	slices.Sort(keys)
	return keys
}

// Validate checks the invariants a question must satisfy to be playable.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("question %q: empty text", q.ID)
	}
	if len(q.Options) == 0 {
		return fmt.Errorf("question %q: no options", q.ID)
	}
	if len(q.Correct) == 0 {
		return fmt.Errorf("question %q: no correct keys", q.ID)
	}
	for _, key := range q.Correct {
		if !q.HasOption(key) {
			return fmt.Errorf("question %q: correct key %q is not an option", q.ID, key)
		}
	}
	return nil
}
