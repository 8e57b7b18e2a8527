// Package bot is the Telegram face of KieliSan: reply menu, commands,
// inline callbacks and the feedback conversation.
package bot

import (
	"context"
	"errors"
	"time"

	tele "gopkg.in/telebot.v4"

	tg "github.com/commedeschamps/KieliSan/core/telegram"
	"github.com/commedeschamps/KieliSan/core/telegram/callbacks"
	tghelpers "github.com/commedeschamps/KieliSan/core/telegram/helpers"
	"github.com/commedeschamps/KieliSan/core/telegram/state"
	"github.com/commedeschamps/KieliSan/internal/content"
	"github.com/commedeschamps/KieliSan/internal/feedback"
	"github.com/commedeschamps/KieliSan/internal/quiz"
	"github.com/commedeschamps/KieliSan/internal/stats"
)

const (
	stateFeedback state.State = "feedback.waiting"
	// feedbackTTL drops a forgotten feedback prompt.
	feedbackTTL = 30 * time.Minute
)

// Deps are the services the handlers talk to.
type Deps struct {
	Quiz     *quiz.Service
	Content  *content.Provider
	Stats    *stats.Aggregator
	Feedback *feedback.Service
	FSM      state.Manager
	TopLimit int
}

// Bot holds the handlers.
type Bot struct {
	quiz     *quiz.Service
	content  *content.Provider
	stats    *stats.Aggregator
	feedback *feedback.Service
	fsm      state.Manager
	topLimit int
	answered *answeredSet
}

// New builds the handler set.
func New(d Deps) *Bot {
	fsm := d.FSM
	if fsm == nil {
		fsm = state.NewMemoryManager(state.WithTTL(feedbackTTL))
	}
	return &Bot{
		quiz:     d.Quiz,
		content:  d.Content,
		stats:    d.Stats,
		feedback: d.Feedback,
		fsm:      fsm,
		topLimit: d.TopLimit,
		answered: newAnsweredSet(answeredLimit),
	}
}

// FSM returns the conversation state manager used for feedback.
func (b *Bot) FSM() state.Manager { return b.fsm }

// Register binds every command, menu button and callback to reg.
func (b *Bot) Register(reg *tg.Registry) error {
	cmds := []struct {
		name string
		cmd  tg.Command
	}{
		{"/start", tg.Command{Handler: b.handleStart, Description: "Бастау"}},
		{"/menu", tg.Command{Handler: b.handleMenu, Description: "Басты мәзір"}},
		{"/help", tg.Command{Handler: b.handleHelp, Description: "Көмек"}},
		{"/stats", tg.Command{Handler: b.handleStats, Description: "Менің статистикам"}},
		{"/leaderboard", tg.Command{Handler: b.handleLeaderboard, Description: "Лидерборд", Aliases: []string{"top"}}},
		{"/cancel", tg.Command{Handler: b.handleCancel, Description: "Викторинаны тоқтату"}},
		{"/reload", tg.Command{Handler: b.handleReload, Description: "Контентті қайта жүктеу", AdminOnly: true, Hidden: true}},
	}
	buttons := map[string]tele.HandlerFunc{
		MenuInfo:        b.handleNumbersMenu,
		MenuCompare:     b.handleCompareMenu,
		MenuQuiz:        b.handleQuizMenu,
		MenuStats:       b.handleStats,
		MenuLeaderboard: b.handleLeaderboard,
		MenuFeedback:    b.handleFeedbackPrompt,
		MenuHelp:        b.handleHelp,
		MenuAbout:       b.handleAbout,
		MenuBack:        b.handleMenu,
	}

	var errs []error
	for _, c := range cmds {
		errs = append(errs, reg.RegisterCommand(c.name, c.cmd))
	}
	for label, h := range buttons {
		errs = append(errs, reg.RegisterButton(label, h))
	}
	for _, unique := range Uniques() {
		errs = append(errs, reg.RegisterCallback(unique, b.handleCallback))
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	reg.SetCallbackNotFound(b.UnknownCallback())
	reg.SetTextFallback(b.handleText)

	b.fsm.Handle(stateFeedback, b.handleFeedbackText)
	return nil
}

func (b *Bot) handleCallback(c tele.Context) error {
	unique, payload := callbacks.ParseCallbackData(c.Callback())
	a, err := DecodeAction(unique, payload)
	if err != nil {
		return callbacks.Answer(c, textUnsupported, false)
	}

	switch a.Kind {
	case KindMenu:
		return b.handleMenu(c)
	case KindNumberList:
		return b.handleNumbersMenu(c)
	case KindNumber:
		return b.sendNumber(c, a.Number)
	case KindNumberRandom:
		return b.sendRandomNumber(c, "")
	case KindNumberNext:
		return b.sendRandomNumber(c, a.Number)
	case KindNumberToggle:
		return b.toggleNumberCard(c, a.Number, a.View)
	case KindNumberQuiz:
		return b.answerNumberQuiz(c, a.Number, a.Choice)
	case KindCompareList:
		return b.handleCompareMenu(c)
	case KindCompareNumber:
		return b.sendCompare(c, a.Number, CultureView(content.CultureKazakh))
	case KindCompareView:
		return b.sendCompare(c, a.Number, a.View)
	case KindQuizModes:
		return b.showModes(c, a.Pool)
	case KindQuizStart:
		return b.startQuiz(c, a.Pool, a.Mode)
	case KindQuizAnswer:
		return b.answerQuiz(c, a)
	case KindQuizToggle:
		return b.toggleQuiz(c, a)
	case KindQuizSubmit:
		return b.answerQuiz(c, a)
	}
	return callbacks.Answer(c, textUnsupported, false)
}

func (b *Bot) handleStart(c tele.Context) error {
	b.reset(c)
	return tghelpers.SendHTML(c, textWelcome, mainMenuKeyboard())
}

func (b *Bot) handleMenu(c tele.Context) error {
	b.reset(c)
	return tghelpers.SendHTML(c, textBackToMenu, mainMenuKeyboard())
}

func (b *Bot) handleHelp(c tele.Context) error {
	return tghelpers.SendHTML(c, textHelp, mainMenuKeyboard())
}

func (b *Bot) handleAbout(c tele.Context) error {
	return tghelpers.SendHTML(c, textAbout, mainMenuKeyboard())
}

func (b *Bot) handleCancel(c tele.Context) error {
	if c.Sender() != nil {
		b.fsm.ClearState(c.Sender().ID)
	}
	if !b.quiz.Cancel(tghelpers.BuildContext(c), chatID(c)) {
		return tghelpers.SendHTML(c, textNothingToCancel, mainMenuKeyboard())
	}
	return tghelpers.SendHTML(c, textCancelled, mainMenuKeyboard())
}

// reset drops the feedback state and any running quiz of the chat.
func (b *Bot) reset(c tele.Context) {
	if c.Sender() != nil {
		b.fsm.ClearState(c.Sender().ID)
	}
	b.quiz.Cancel(tghelpers.BuildContext(c), chatID(c))
}

func chatID(c tele.Context) int64 {
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	if u := c.Sender(); u != nil {
		return u.ID
	}
	return 0
}

func userID(c tele.Context) int64 {
	if u := c.Sender(); u != nil {
		return u.ID
	}
	return 0
}

func playerOf(u *tele.User) quiz.Player {
	if u == nil {
		return quiz.Player{}
	}
	return quiz.Player{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func isLockTimeout(err error) bool {
	return errors.Is(err, stats.ErrLockTimeout)
}

func ctxOf(c tele.Context) context.Context {
	return tghelpers.BuildContext(c)
}
