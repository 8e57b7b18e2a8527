package router

import (
	tg "github.com/commedeschamps/KieliSan/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// FSM is the part of state.Manager the text router needs.
type FSM interface {
	InProgress(userID int64) bool
	ManagerHandler(c tele.Context) error
}

// TextOptions sets the replies for text and files nothing else claimed.
type TextOptions struct {
	UnknownText     tele.HandlerFunc
	UnknownDocument tele.HandlerFunc
}

// TextRoutes routes plain text, documents and photos. Text is matched in
// order: command aliases, reply-keyboard buttons, the user's active state,
// the registry fallback and finally UnknownText. Admin-only commands never
// match as text.
func TextRoutes(fsm FSM, reg *tg.Registry, opts TextOptions) []tg.Route {
	if reg == nil {
		reg = tg.NewRegistry()
	}
	inState := func(c tele.Context) bool {
		return fsm != nil && c.Sender() != nil && fsm.InProgress(c.Sender().ID)
	}

	text := func(c tele.Context) error {
		if key, cmd, ok := reg.LookupCommand(c.Text()); ok && cmd.Handler != nil && !cmd.AdminOnly {
			return track(normalizeHandlerName(key)).run(c, cmd.Handler)
		}
		if h, ok := reg.LookupButton(c.Text()); ok {
			return track("button").run(c, h)
		}
		if inState(c) {
			return track("fsm").run(c, fsm.ManagerHandler)
		}
		if fb := reg.TextFallback(); fb != nil {
			return track("fallback").run(c, fb)
		}
		s := track("unknown_text")
		if opts.UnknownText == nil {
			s.skipped()
		}
		return s.run(c, opts.UnknownText)
	}

	file := func(c tele.Context) error {
		if inState(c) {
			return track("fsm_document").run(c, fsm.ManagerHandler)
		}
		s := track("unexpected_document")
		if opts.UnknownDocument == nil {
			s.skipped()
		}
		return s.run(c, opts.UnknownDocument)
	}

	return []tg.Route{
		{Endpoint: tele.OnText, Handler: wrap(text)},
		{Endpoint: tele.OnDocument, Handler: wrap(file)},
		{Endpoint: tele.OnPhoto, Handler: wrap(file)},
	}
}
