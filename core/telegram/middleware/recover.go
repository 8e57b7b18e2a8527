package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/commedeschamps/KieliSan/core/logger"
	tghelpers "github.com/commedeschamps/KieliSan/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// PanicError replaces a recovered handler panic.
type PanicError struct {
	Value any
	Kind  string
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic in %s handler: %v", e.Kind, e.Value) }

// Code feeds the err_code field of handler summaries.
func (e *PanicError) Code() string { return "panic" }

// RecoverMiddleware turns a handler panic into a *PanicError so the bot
// keeps serving other chats.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			kind := UpdateKind(c.Update())
			logger.Error(tghelpers.BuildContext(c), "tg", "tg.panic",
				slog.String("kind", kind),
				slog.Any("err", r),
				slog.String("stack", string(debug.Stack())),
			)
			err = &PanicError{Value: r, Kind: kind}
		}()
		return next(c)
	}
}
