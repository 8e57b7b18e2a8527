package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/commedeschamps/KieliSan/core/logger"
	"github.com/commedeschamps/KieliSan/core/telegram/callbacks"
	tghelpers "github.com/commedeschamps/KieliSan/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// seenUpdates remembers recently logged update ids. The logger runs on
// both the global chain and the per-route chain, so one update reaches it
// more than once.
type seenUpdates struct {
	mu   sync.Mutex
	at   map[int]time.Time
	keep time.Duration
}

var receipts = &seenUpdates{at: make(map[int]time.Time), keep: 10 * time.Second}

// markSeen reports whether id was already recorded, recording it if not.
func (s *seenUpdates) markSeen(id int) bool {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, ts := range s.at {
		if now.Sub(ts) > s.keep {
			delete(s.at, k)
		}
	}
	if _, ok := s.at[id]; ok {
		return true
	}
	s.at[id] = now
	return false
}

// LoggerMiddleware sets the update context and logs one receipt line per
// update at debug level.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := tghelpers.NewContext(c)
		if logger.ShouldSampleDebug() && !receipts.markSeen(c.Update().ID) {
			logger.LogEvent(ctx, logger.Component("tg"), slog.LevelDebug, "update.received",
				receiptAttrs(c, logger.RIDFrom(ctx))...)
		}
		return next(c)
	}
}

// receiptAttrs lists who sent the update and a trimmed view of its payload.
func receiptAttrs(c tele.Context, rid string) []slog.Attr {
	upd := c.Update()
	attrs := []slog.Attr{
		slog.String("status", "ok"),
		slog.String("rid", rid),
		slog.Int("update_id", upd.ID),
	}
	str := func(key, val string, limit int) {
		if val != "" {
			attrs = append(attrs, slog.String(key, logger.SanitizeLimit(val, limit)))
		}
	}

	chatID, userID := tghelpers.IDs(c)
	if chat := c.Chat(); chatID != 0 && chat != nil {
		attrs = append(attrs, slog.Int64("chat_id", chatID), slog.String("chat_type", string(chat.Type)))
	}
	if u := c.Sender(); userID != 0 && u != nil {
		attrs = append(attrs, slog.Int64("user_id", userID))
		str("username", u.Username, 64)
		str("lang", u.LanguageCode, 8)
	}

	switch {
	case upd.Callback != nil:
		key, payload := callbacks.ParseCallbackData(upd.Callback)
		str("cb_key", key, 128)
		str("payload", payload, 256)
	case upd.Query != nil:
		str("payload", upd.Query.Text, 64)
	case upd.Message != nil:
		str("payload", c.Text(), 256)
	}
	return attrs
}
