package quiz

import (
	"math/rand"
	"slices"

	"github.com/samber/lo"
)

// PointTable holds the reward for a correct answer per question level.
type PointTable struct {
	Levels  map[Level]int
	Default int
}

// DefaultPoints rewards harder questions more.
func DefaultPoints() PointTable {
	return PointTable{
		Levels:  map[Level]int{LevelEasy: 1, LevelMedium: 2, LevelHard: 3},
		Default: 1,
	}
}

// For returns the reward for level, falling back to Default.
func (p PointTable) For(level Level) int {
	if v, ok := p.Levels[level]; ok {
		return v
	}
	return p.Default
}

// Session is the in-progress quiz of one conversation. Questions are
// copied at start so content reloads never affect it.
type Session struct {
	Pool      Pool
	Mode      Mode
	Questions []Question
	Current   int
	Selected  map[string]bool
	Correct   int
	Points    int
}

// Total returns the number of questions in the session.
func (s *Session) Total() int { return len(s.Questions) }

// Finished reports whether every question has been answered.
func (s *Session) Finished() bool { return s.Current >= len(s.Questions) }

// SelectedKeys returns the current multi-select choices sorted.
func (s *Session) SelectedKeys() []string {
	keys := lo.Keys(lo.PickBy(s.Selected, func(_ string, on bool) bool { return on }))
	slices.Sort(keys)
	return keys
}

func (s *Session) clone() *Session {
	cp := *s
	cp.Selected = make(map[string]bool, len(s.Selected))
	for k, v := range s.Selected {
		cp.Selected[k] = v
	}
	return &cp
}

// View is what the presentation layer needs to draw the current question.
type View struct {
	Pool     Pool
	Mode     Mode
	Question Question
	Index    int
	Number   int
	Total    int
	Multi    bool
	Selected []string
}

// Outcome describes an accepted answer.
type Outcome struct {
	Question  Question
	Selected  []string
	IsCorrect bool
	Awarded   int
	Finished  bool
}

// Result is the summary of a finished session.
type Result struct {
	Pool    Pool
	Mode    Mode
	Correct int
	Total   int
	Points  int
}

// Engine implements the quiz state machine. It holds no per-session
// state; callers own the Session and serialise access to it.
type Engine struct {
	points  PointTable
	shuffle func([]Question)
}

// Option customises an Engine.
type Option func(*Engine)

// WithShuffle replaces the random permutation used by Start.
func WithShuffle(fn func([]Question)) Option {
	return func(e *Engine) {
		if fn != nil {
			e.shuffle = fn
		}
	}
}

// NewEngine builds an engine with the given rewards.
func NewEngine(points PointTable, opts ...Option) *Engine {
	e := &Engine{
		points: points,
		shuffle: func(qs []Question) {
			rand.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Points exposes the reward table.
func (e *Engine) Points() PointTable { return e.points }

// Start filters bank by mode and returns a new session over a shuffled
// copy of the matching questions.
func (e *Engine) Start(pool Pool, mode Mode, bank []Question) (*Session, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}
	selected := bank
	if level, ok := mode.Level(); ok {
		selected = lo.Filter(bank, func(q Question, _ int) bool { return q.Level == level })
	}
	if len(selected) == 0 {
		return nil, ErrNoQuestionsAvailable
	}
	questions := slices.Clone(selected)
	e.shuffle(questions)
	return &Session{
		Pool:      pool,
		Mode:      mode,
		Questions: questions,
		Selected:  map[string]bool{},
	}, nil
}

// Current returns the question the session is waiting on.
func (e *Engine) Current(s *Session) (View, error) {
	if s == nil {
		return View{}, ErrNoSession
	}
	if s.Current < 0 || s.Finished() {
		return View{}, ErrSessionFinished
	}
	q := s.Questions[s.Current]
	return View{
		Pool:     s.Pool,
		Mode:     s.Mode,
		Question: q,
		Index:    s.Current,
		Number:   s.Current + 1,
		Total:    s.Total(),
		Multi:    q.IsMulti(),
		Selected: s.SelectedKeys(),
	}, nil
}

// SubmitSingle answers the current question with one choice. An index
// other than the current one is rejected without touching the session.
func (e *Engine) SubmitSingle(s *Session, idx int, choice string) (Outcome, error) {
	if s == nil {
		return Outcome{}, ErrNoSession
	}
	if idx != s.Current {
		return Outcome{}, ErrStaleAnswer
	}
	if s.Finished() {
		return Outcome{}, ErrSessionFinished
	}
	return e.score(s, []string{choice}), nil
}

// Toggle flips choice in the selection of a multi-select question and
// returns the updated selection. Unknown keys are ignored.
func (e *Engine) Toggle(s *Session, idx int, choice string) ([]string, error) {
	if s == nil {
		return nil, ErrNoSession
	}
	if idx != s.Current {
		return nil, ErrStaleQuestion
	}
	if s.Finished() {
		return nil, ErrSessionFinished
	}
	q := s.Questions[s.Current]
	if !q.IsMulti() {
		return nil, ErrNotMultiSelect
	}
	if q.HasOption(choice) {
		if s.Selected[choice] {
			delete(s.Selected, choice)
		} else {
			s.Selected[choice] = true
		}
	}
	return s.SelectedKeys(), nil
}

// SubmitMulti answers the current multi-select question with the
// accumulated selection.
func (e *Engine) SubmitMulti(s *Session, idx int) (Outcome, error) {
	if s == nil {
		return Outcome{}, ErrNoSession
	}
	if idx != s.Current {
		return Outcome{}, ErrStaleQuestion
	}
	if s.Finished() {
		return Outcome{}, ErrSessionFinished
	}
	if !s.Questions[s.Current].IsMulti() {
		return Outcome{}, ErrNotMultiSelect
	}
	selected := s.SelectedKeys()
	if len(selected) == 0 {
		return Outcome{}, ErrEmptySelection
	}
	return e.score(s, selected), nil
}

func (e *Engine) score(s *Session, selected []string) Outcome {
	q := s.Questions[s.Current]
	out := Outcome{Question: q, Selected: selected, IsCorrect: q.Matches(selected)}
	if out.IsCorrect {
		out.Awarded = e.points.For(q.Level)
		s.Correct++
		s.Points += out.Awarded
	}
	s.Current++
	s.Selected = map[string]bool{}
	out.Finished = s.Finished()
	return out
}

// Finish summarises the session. The caller discards it afterwards.
func (e *Engine) Finish(s *Session) Result {
	if s == nil {
		return Result{}
	}
	return Result{
		Pool:    s.Pool,
		Mode:    s.Mode,
		Correct: s.Correct,
		Total:   s.Total(),
		Points:  s.Points,
	}
}
