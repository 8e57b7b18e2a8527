package router

import (
	"log/slog"

	tg "github.com/commedeschamps/KieliSan/core/telegram"
	"github.com/commedeschamps/KieliSan/core/telegram/callbacks"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions sets the handler for callbacks with an unknown key. When
// nil the registry's CallbackNotFound is used.
type CallbackOptions struct {
	NotFound tele.HandlerFunc
}

// CallbackRoute dispatches inline button presses by their unique key.
// Handlers may answer with a toast or alert through callbacks.Answer; an
// unanswered callback is acknowledged afterwards so the client spinner
// stops.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	handler := func(c tele.Context) error {
		if c.Callback() == nil {
			return nil
		}
		defer func() { _ = callbacks.Answer(c, "", false) }()

		key, _ := callbacks.ParseCallbackData(c.Callback())
		name := "callback." + normalizeHandlerName(key)
		keyAttr := slog.String("cb_key", key)

		if h, ok := reg.GetCallback(key); ok && h != nil {
			return track(name, keyAttr).run(c, h)
		}
		fallback := opts.NotFound
		if fallback == nil {
			fallback = reg.CallbackNotFound()
		}
		return track(name, keyAttr, slog.String("reason", "not_found")).skipped().run(c, fallback)
	}
	return tg.Route{Endpoint: tele.OnCallback, Handler: wrap(handler)}
}
