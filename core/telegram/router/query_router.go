package router

import (
	"log/slog"
	"unicode/utf8"

	tg "github.com/commedeschamps/KieliSan/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// QueryRoute routes inline queries to h. A nil h yields no route, which
// leaves inline mode unanswered.
func QueryRoute(h tele.HandlerFunc) []tg.Route {
	if h == nil {
		return nil
	}
	handler := func(c tele.Context) error {
		q := c.Query()
		if q == nil {
			return nil
		}
		return track("inline_query", slog.Int("query_len", utf8.RuneCountInString(q.Text))).run(c, h)
	}
	return []tg.Route{{Endpoint: tele.OnQuery, Handler: wrap(handler)}}
}
