// Package router turns the registry into telebot routes. Every route logs
// one handler.handled summary per update.
package router

import (
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/commedeschamps/KieliSan/core/logger"
	tghelpers "github.com/commedeschamps/KieliSan/core/telegram/helpers"
	"github.com/commedeschamps/KieliSan/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// summary collects what the handler.handled line reports.
type summary struct {
	name   string
	start  time.Time
	status string
	extras []slog.Attr
}

func track(name string, extras ...slog.Attr) *summary {
	return &summary{name: name, start: time.Now(), extras: extras}
}

// skipped marks updates that reached no real handler.
func (s *summary) skipped() *summary {
	s.status = "skip"
	return s
}

// run calls h, or nothing when h is nil, and logs the result.
func (s *summary) run(c tele.Context, h tele.HandlerFunc) error {
	tghelpers.WithHandler(c, s.name)
	var err error
	if h != nil {
		err = h(c)
	}
	s.log(c, err)
	return err
}

func (s *summary) log(c tele.Context, err error) {
	ctx := tghelpers.WithHandler(c, s.name)
	msgs, kb := tghelpers.Counters(c)

	outcome := "ok"
	if err != nil {
		outcome = "fail"
	}
	status := s.status
	if status == "" {
		status = outcome
	}
	attrs := []slog.Attr{
		slog.String("status", status),
		slog.String("handler", s.name),
		slog.String("outcome", outcome),
		slog.Int("messages", msgs),
		slog.Bool("kb", kb),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(s.start)).Milliseconds()),
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", deriveErrorCode(err)),
		)
	}
	logger.LogEvent(ctx, logger.Component("tg"), slog.LevelInfo, "handler.handled", append(attrs, s.extras...)...)
}

// wrap adds panic recovery and the update context to a route handler.
func wrap(h tele.HandlerFunc) tele.HandlerFunc {
	return middleware.RecoverMiddleware(middleware.LoggerMiddleware(h))
}

func normalizeHandlerName(name string) string {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "/"))
	if name == "" {
		return "unknown"
	}
	return strings.ReplaceAll(name, " ", "_")
}

// deriveErrorCode prefers a Code() method anywhere in the chain and falls
// back to the error's type name.
func deriveErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		if code := strings.TrimSpace(coded.Code()); code != "" {
			return strings.ToUpper(strings.ReplaceAll(code, " ", "_"))
		}
	}
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return "UNKNOWN_ERROR"
	}
	return strings.ToUpper(t.Name())
}
