package bot

import (
	"errors"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/commedeschamps/KieliSan/core/logger"
	"github.com/commedeschamps/KieliSan/core/telegram/callbacks"
	tghelpers "github.com/commedeschamps/KieliSan/core/telegram/helpers"
	"github.com/commedeschamps/KieliSan/internal/quiz"
)

func (b *Bot) handleQuizMenu(c tele.Context) error {
	return b.showModes(c, quiz.PoolNumbers)
}

// showModes ends any running quiz of the chat, so buttons under its last
// question go stale, and offers the levels of pool.
func (b *Bot) showModes(c tele.Context, pool quiz.Pool) error {
	b.quiz.Cancel(tghelpers.BuildContext(c), chatID(c))
	return tghelpers.SendHTML(c, textChooseLevel, modeKeyboard(pool))
}

func (b *Bot) startQuiz(c tele.Context, pool quiz.Pool, mode quiz.Mode) error {
	view, err := b.quiz.Start(ctxOf(c), chatID(c), pool, mode)
	if errors.Is(err, quiz.ErrNoQuestionsAvailable) {
		return tghelpers.SendHTML(c, textNoQuestions, modeKeyboard(pool))
	}
	if err != nil {
		return err
	}
	if err := tghelpers.EditMarkup(c, nil); err != nil {
		logger.Debug(ctxOf(c), "tg", "quiz.modes_keep", slog.String("err", err.Error()))
	}
	if err := tghelpers.SendHTML(c, renderQuizStarted(pool, view.Total)); err != nil {
		return err
	}
	return tghelpers.SendHTML(c, renderQuestion(view), questionKeyboard(view))
}

// answerQuiz handles both single answers and multi-select submits.
func (b *Bot) answerQuiz(c tele.Context, a Action) error {
	var (
		step quiz.Step
		err  error
	)
	if a.Kind == KindQuizSubmit {
		step, err = b.quiz.Submit(ctxOf(c), chatID(c), playerOf(c.Sender()), a.Pool, a.Index)
	} else {
		step, err = b.quiz.Answer(ctxOf(c), chatID(c), playerOf(c.Sender()), a.Pool, a.Index, a.Choice)
	}
	if err != nil {
		return b.quizError(c, err)
	}

	if err := tghelpers.EditMarkup(c, nil); err != nil {
		logger.Debug(ctxOf(c), "tg", "quiz.markup_keep", slog.String("err", err.Error()))
	}
	if err := tghelpers.SendHTML(c, renderExplanation(step.Outcome)); err != nil {
		return err
	}
	if step.Next != nil {
		return tghelpers.SendHTML(c, renderQuestion(*step.Next), questionKeyboard(*step.Next))
	}
	if step.Result == nil {
		return nil
	}

	summary := renderQuizFinished(*step.Result)
	if step.RecordErr != nil {
		logger.Warn(ctxOf(c), "tg", "quiz.record_failed",
			slog.Bool("lock_timeout", isLockTimeout(step.RecordErr)),
			slog.String("err", step.RecordErr.Error()),
		)
		if isLockTimeout(step.RecordErr) {
			summary += "\n\n" + textStorageBusy
		}
	}
	return tghelpers.SendHTML(c, summary, mainMenuKeyboard())
}

func (b *Bot) toggleQuiz(c tele.Context, a Action) error {
	view, err := b.quiz.Toggle(chatID(c), a.Pool, a.Index, a.Choice)
	if err != nil {
		return b.quizError(c, err)
	}
	return tghelpers.EditMarkup(c, questionKeyboard(view))
}

// quizError turns recoverable quiz errors into callback toasts.
func (b *Bot) quizError(c tele.Context, err error) error {
	switch {
	case errors.Is(err, quiz.ErrStaleAnswer):
		return callbacks.Answer(c, textStaleAnswer, false)
	case errors.Is(err, quiz.ErrStaleQuestion), errors.Is(err, quiz.ErrNotMultiSelect):
		return callbacks.Answer(c, textStaleQuestion, false)
	case errors.Is(err, quiz.ErrEmptySelection):
		return callbacks.Answer(c, textEmptySelection, true)
	case errors.Is(err, quiz.ErrNoSession), errors.Is(err, quiz.ErrSessionFinished):
		return callbacks.Answer(c, textNoActiveQuiz, false)
	}
	return err
}
