package router

import (
	"log/slog"

	"github.com/commedeschamps/KieliSan/core/logger"
	tg "github.com/commedeschamps/KieliSan/core/telegram"
	"github.com/commedeschamps/KieliSan/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CommandRouteOptions configures the admin guard for AdminOnly commands.
type CommandRouteOptions struct {
	AdminID       int64
	OnAdminReject tele.HandlerFunc
}

// CommandRoutes returns one route per registered slash command.
func CommandRoutes(reg *tg.Registry, opts CommandRouteOptions) []tg.Route {
	if reg == nil {
		return nil
	}
	guard := middleware.AdminOnlyMiddleware(middleware.AdminOptions{
		AdminID:  opts.AdminID,
		OnReject: opts.OnAdminReject,
	})

	cmds := reg.Commands()
	routes := make([]tg.Route, 0, len(cmds))
	for endpoint, cmd := range cmds {
		name := normalizeHandlerName(endpoint)
		h := cmd.Handler
		if cmd.AdminOnly {
			h = guard(h)
		}
		routes = append(routes, tg.Route{
			Endpoint: endpoint,
			Handler: wrap(func(c tele.Context) error {
				return track(name).run(c, h)
			}),
		})
	}

	logger.Info(logger.Background(), "tg.wire", "complete",
		slog.Int("commands", len(cmds)),
		slog.Int("callbacks", len(reg.ListCallbacks())),
	)
	return routes
}
