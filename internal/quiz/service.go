package quiz

import (
	"context"
	"log/slog"

	"github.com/commedeschamps/KieliSan/core/logger"
)

// Source supplies the question bank of a pool.
type Source interface {
	Questions(pool Pool) []Question
}

// Player is the identity attached to a finished result.
type Player struct {
	ID          int64
	Username    string
	FirstName   string
	LastName    string
	DisplayName string
}

// Recorder persists finished results.
type Recorder interface {
	Record(ctx context.Context, player Player, result Result) error
}

// Step is the outcome of an accepted answer. Next is set while the quiz
// continues; Result once it is finished.
type Step struct {
	Outcome   Outcome
	Next      *View
	Result    *Result
	RecordErr error
}

// Service binds the engine to the session store and content.
type Service struct {
	engine   *Engine
	sessions *SessionStore
	source   Source
	recorder Recorder
}

// NewService wires a quiz service. recorder may be nil.
func NewService(engine *Engine, sessions *SessionStore, source Source, recorder Recorder) *Service {
	return &Service{engine: engine, sessions: sessions, source: source, recorder: recorder}
}

// Start begins a new session for chatID, replacing any running one.
func (s *Service) Start(ctx context.Context, chatID int64, pool Pool, mode Mode) (View, error) {
	sess, err := s.engine.Start(pool, mode, s.source.Questions(pool))
	if err != nil {
		logger.Info(ctx, "service.quiz", "quiz.start_rejected",
			slog.String("pool", string(pool)), slog.String("mode", string(mode)), slog.String("reason", err.Error()))
		return View{}, err
	}
	s.sessions.Set(chatID, sess)
	logger.Info(ctx, "service.quiz", "quiz.started",
		slog.String("pool", string(pool)), slog.String("mode", string(mode)), slog.Int("total", sess.Total()))
	return s.engine.Current(sess)
}

// Current returns the question chatID is waiting on.
func (s *Service) Current(chatID int64) (View, error) {
	sess, ok := s.sessions.Get(chatID)
	if !ok {
		return View{}, ErrNoSession
	}
	return s.engine.Current(sess)
}

// Active reports the pool of the running session, if any.
func (s *Service) Active(chatID int64) (Pool, bool) {
	sess, ok := s.sessions.Get(chatID)
	if !ok {
		return "", false
	}
	return sess.Pool, true
}

// Answer submits a single choice for question idx of pool.
func (s *Service) Answer(ctx context.Context, chatID int64, player Player, pool Pool, idx int, choice string) (Step, error) {
	return s.advance(ctx, chatID, player, pool, ErrStaleAnswer, func(sess *Session) (Outcome, error) {
		return s.engine.SubmitSingle(sess, idx, choice)
	})
}

// Submit confirms the multi-select answer for question idx of pool.
func (s *Service) Submit(ctx context.Context, chatID int64, player Player, pool Pool, idx int) (Step, error) {
	return s.advance(ctx, chatID, player, pool, ErrStaleQuestion, func(sess *Session) (Outcome, error) {
		return s.engine.SubmitMulti(sess, idx)
	})
}

// Toggle flips a multi-select choice and returns the refreshed view.
func (s *Service) Toggle(chatID int64, pool Pool, idx int, choice string) (View, error) {
	var view View
	err := s.sessions.Update(chatID, func(sess *Session) error {
		if sess.Pool != pool {
			return ErrStaleQuestion
		}
		if _, err := s.engine.Toggle(sess, idx, choice); err != nil {
			return err
		}
		v, err := s.engine.Current(sess)
		view = v
		return err
	})
	return view, err
}

// Cancel drops the running session and reports whether there was one.
func (s *Service) Cancel(ctx context.Context, chatID int64) bool {
	ok := s.sessions.Clear(chatID)
	if ok {
		logger.Debug(ctx, "service.quiz", "quiz.cancelled")
	}
	return ok
}

func (s *Service) advance(ctx context.Context, chatID int64, player Player, pool Pool, stale error, submit func(*Session) (Outcome, error)) (Step, error) {
	var (
		step   Step
		result *Result
	)
	err := s.sessions.Mutate(chatID, func(sess *Session) (bool, error) {
		if sess.Pool != pool {
			return true, stale
		}
		out, err := submit(sess)
		if err != nil {
			return true, err
		}
		step.Outcome = out
		if out.Finished {
			r := s.engine.Finish(sess)
			result = &r
			return false, nil
		}
		next, err := s.engine.Current(sess)
		if err != nil {
			return true, err
		}
		step.Next = &next
		return true, nil
	})
	if err != nil {
		return Step{}, err
	}
	if result == nil {
		return step, nil
	}

	step.Result = result
	logger.Info(ctx, "service.quiz", "quiz.finished",
		slog.String("pool", string(result.Pool)),
		slog.String("mode", string(result.Mode)),
		slog.Int("correct", result.Correct),
		slog.Int("total", result.Total),
		slog.Int("points", result.Points),
	)
	if s.recorder != nil {
		if err := s.recorder.Record(ctx, player, *result); err != nil {
			step.RecordErr = err
			logger.Error(ctx, "service.quiz", "quiz.record_failed", slog.String("err", err.Error()))
		}
	}
	return step, nil
}
