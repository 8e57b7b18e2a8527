package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	coreconfig "github.com/commedeschamps/KieliSan/core/config"
	"github.com/commedeschamps/KieliSan/core/logger"
	tghelpers "github.com/commedeschamps/KieliSan/core/telegram/helpers"
	tgsender "github.com/commedeschamps/KieliSan/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

// stopHookTimeout bounds OnStop once the run context is already cancelled.
const stopHookTimeout = 10 * time.Second

// Middleware is a named global middleware; the name only shows up in logs.
type Middleware struct {
	Name string
	Use  func(next tele.HandlerFunc) tele.HandlerFunc
}

// Route binds a handler to a telebot endpoint (a command string, a
// tele.OnText style constant or a *tele.Btn).
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// RunOptions is everything RunTelegram needs besides the context.
type RunOptions struct {
	Config            *coreconfig.Config
	Registry          *Registry
	DispatcherOptions tgsender.Options
	Middlewares       []Middleware
	Routes            []Route

	OnStart func(ctx context.Context, rt Runtime) error
	OnStop  func(ctx context.Context, rt Runtime) error
}

// Runtime is handed to the lifecycle hooks.
type Runtime struct {
	Bot        *tele.Bot
	Dispatcher *tgsender.Dispatcher
	Registry   *Registry
}

// RunTelegram builds the bot, wires routes and serves updates until ctx is
// cancelled. Cancellation is a clean exit and returns nil.
func RunTelegram(ctx context.Context, opts RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Config == nil {
		return errors.New("telegram: nil config provided")
	}
	reg := opts.Registry
	if reg == nil {
		reg = NewRegistry()
	}

	bot, err := newBot(ctx, opts.Config)
	if err != nil {
		return err
	}
	rt := Runtime{Bot: bot, Dispatcher: tgsender.NewDispatcher(opts.DispatcherOptions), Registry: reg}
	tghelpers.SetDispatcher(rt.Dispatcher)
	defer func() {
		rt.Dispatcher.Close()
		tghelpers.SetDispatcher(nil)
	}()

	for _, mw := range opts.Middlewares {
		if mw.Use != nil {
			bot.Use(mw.Use)
		}
	}
	for _, r := range opts.Routes {
		if r.Endpoint != nil && r.Handler != nil {
			bot.Handle(r.Endpoint, r.Handler)
		}
	}
	InitBotCommands(bot, reg)

	if opts.OnStart != nil {
		if err := opts.OnStart(ctx, rt); err != nil {
			return err
		}
	}

	runErr := serve(ctx, bot)

	if opts.OnStop != nil {
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopHookTimeout)
		defer cancel()
		if err := opts.OnStop(stopCtx, rt); err != nil {
			return err
		}
	}
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

// serve runs the poller until ctx ends or the bot stops by itself.
func serve(ctx context.Context, bot *tele.Bot) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		bot.Start()
	}()
	select {
	case <-ctx.Done():
		bot.Stop()
		<-done
		return ctx.Err()
	case <-done:
		return nil
	}
}

// newBot creates the telebot instance for the configured run mode. In long
// polling mode a leftover webhook is removed first, since Telegram refuses
// getUpdates while one is set.
func newBot(ctx context.Context, cfg *coreconfig.Config) (*tele.Bot, error) {
	popts := PollerOptionsFrom(cfg)
	poller := BuildPoller(popts)

	start := time.Now()
	bot, err := tele.NewBot(tele.Settings{
		Token:     cfg.Telegram.Token,
		Poller:    poller,
		Client:    BuildHTTPClient(popts.LongPollTimeout()),
		ParseMode: tele.ModeHTML,
		OnError:   logBotError,
	})
	if err != nil {
		return nil, fmt.Errorf("telegram: bot initialization failed: %w", err)
	}
	took := slog.Duration("duration", logger.RoundMS(time.Since(start)))

	if wh, ok := poller.(*tele.Webhook); ok {
		logger.Info(ctx, "tg", "mode",
			slog.String("mode", "webhook"),
			slog.String("listen", wh.Listen),
			slog.String("public_url", wh.Endpoint.PublicURL),
			took,
		)
		return bot, nil
	}
	logger.Info(ctx, "tg", "mode",
		slog.String("mode", "polling"),
		slog.Int("timeout_seconds", int(popts.LongPollTimeout()/time.Second)),
		took,
	)
	if err := bot.RemoveWebhook(false); err != nil {
		logger.Warn(ctx, "tg", "delete_webhook", slog.String("status", "fail"), slog.String("err", err.Error()))
	} else {
		logger.Debug(ctx, "tg", "delete_webhook", slog.String("status", "ok"))
	}
	return bot, nil
}

// logBotError reports errors that escape handlers; telebot would otherwise
// print them with the standard logger.
func logBotError(err error, c tele.Context) {
	if err == nil {
		return
	}
	ctx := logger.Background()
	if c != nil {
		ctx = tghelpers.BuildContext(c)
	}
	logger.Error(ctx, "tg", "bot.error",
		slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
	)
}
