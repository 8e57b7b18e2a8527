package middleware

import (
	"log/slog"

	"github.com/commedeschamps/KieliSan/core/logger"
	tghelpers "github.com/commedeschamps/KieliSan/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// AdminOptions configures AdminOnlyMiddleware. An unset AdminID denies
// everyone.
type AdminOptions struct {
	AdminID  int64
	OnReject tele.HandlerFunc
}

func (o AdminOptions) allows(c tele.Context) bool {
	u := c.Sender()
	return o.AdminID != 0 && u != nil && u.ID == o.AdminID
}

// AdminOnlyMiddleware lets only the configured admin through; anyone else
// gets OnReject, if set.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if opts.allows(c) {
				return next(c)
			}
			logger.Warn(tghelpers.BuildContext(c), "tg", "tg.admin_denied",
				slog.Bool("admin_set", opts.AdminID != 0),
			)
			if opts.OnReject == nil {
				return nil
			}
			return opts.OnReject(c)
		}
	}
}
