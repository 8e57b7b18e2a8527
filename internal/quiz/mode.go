package quiz

import "strings"

// Mode selects which questions of a pool a session draws from.
type Mode string

const (
	ModeEasy   Mode = "easy"
	ModeMedium Mode = "medium"
	ModeHard   Mode = "hard"
	// ModeMixed takes every question of the pool.
	ModeMixed Mode = "mixed"
)

// Modes lists the selectable modes in keyboard order.
var Modes = []Mode{ModeEasy, ModeMedium, ModeHard, ModeMixed}

var modeLabels = map[Mode]string{
	ModeEasy:   "🟢 Жеңіл",
	ModeMedium: "🟡 Орташа",
	ModeHard:   "🔴 Қиын",
	ModeMixed:  "🎲 Аралас",
}

// ParseMode maps a raw mode id to a Mode.
func ParseMode(raw string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := modeLabels[m]; !ok {
		return "", ErrUnknownMode
	}
	return m, nil
}

// Label is the button and stats caption for the mode.
func (m Mode) Label() string {
	if l, ok := modeLabels[m]; ok {
		return l
	}
	return string(m)
}

// Level returns the question level the mode filters by. Mixed has none.
func (m Mode) Level() (Level, bool) {
	switch m {
	case ModeEasy:
		return LevelEasy, true
	case ModeMedium:
		return LevelMedium, true
	case ModeHard:
		return LevelHard, true
	}
	return "", false
}

// Pool identifies a question bank. The value doubles as the callback
// namespace of the pool's buttons.
type Pool string

const (
	PoolNumbers Pool = "quiz"
	PoolCompare Pool = "cmpquiz"
)

// Valid reports whether p is a known pool.
func (p Pool) Valid() bool {
	return p == PoolNumbers || p == PoolCompare
}
