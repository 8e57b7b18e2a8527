package bot

import (
	"errors"
	"fmt"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/commedeschamps/KieliSan/core/logger"
	"github.com/commedeschamps/KieliSan/core/telegram/format"
	tghelpers "github.com/commedeschamps/KieliSan/core/telegram/helpers"
	"github.com/commedeschamps/KieliSan/internal/feedback"
)

func (b *Bot) handleStats(c tele.Context) error {
	u, ok, err := b.stats.Get(ctxOf(c), userID(c))
	if isLockTimeout(err) {
		return tghelpers.SendHTML(c, textStorageBusy, mainMenuKeyboard())
	}
	if err != nil {
		return err
	}
	if !ok || u.QuizzesTaken == 0 {
		return tghelpers.SendHTML(c, textNoStats, mainMenuKeyboard())
	}
	return tghelpers.SendHTML(c, renderStats(u), mainMenuKeyboard())
}

func (b *Bot) handleLeaderboard(c tele.Context) error {
	board, err := b.stats.Leaderboard(ctxOf(c), b.topLimit, userID(c))
	if isLockTimeout(err) {
		return tghelpers.SendHTML(c, textStorageBusy, mainMenuKeyboard())
	}
	if err != nil {
		return err
	}
	return tghelpers.SendHTML(c, renderLeaderboard(board), mainMenuKeyboard())
}

func (b *Bot) handleFeedbackPrompt(c tele.Context) error {
	if c.Sender() == nil {
		return nil
	}
	b.fsm.SetState(c.Sender().ID, stateFeedback)
	return tghelpers.SendHTML(c, textFeedbackPrompt, backMenuKeyboard())
}

// handleFeedbackText receives the message typed while waiting for feedback.
func (b *Bot) handleFeedbackText(c tele.Context) error {
	u := c.Sender()
	if u == nil {
		return nil
	}
	if msg := c.Message(); msg == nil || msg.Text == "" {
		return tghelpers.SendHTML(c, textFeedbackText, backMenuKeyboard())
	}

	_, err := b.feedback.Submit(ctxOf(c), u.ID, u.Username, c.Text())
	switch {
	case errors.Is(err, feedback.ErrEmptyText):
		return tghelpers.SendHTML(c, textFeedbackEmpty, backMenuKeyboard())
	case err != nil:
		logger.Error(ctxOf(c), "service.feedback", "feedback.save_failed", slog.String("err", err.Error()))
		b.fsm.ClearState(u.ID)
		return tghelpers.SendHTML(c, textFeedbackFailed, mainMenuKeyboard())
	}
	b.fsm.ClearState(u.ID)
	return tghelpers.SendHTML(c, textFeedbackThanks, mainMenuKeyboard())
}

func (b *Bot) handleReload(c tele.Context) error {
	if err := b.content.Reload(ctxOf(c)); err != nil {
		return tghelpers.SendHTML(c, fmt.Sprintf(textReloadFailed, format.Escape(err.Error())))
	}
	n := b.content.Counts()
	return tghelpers.SendHTML(c, fmt.Sprintf(textReloaded, n.Questions, n.CompareQuestions, n.Numbers))
}
