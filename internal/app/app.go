// Package app assembles KieliSan from configuration: storage, content,
// services and Telegram routes.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/commedeschamps/KieliSan/core/bootstrap"
	"github.com/commedeschamps/KieliSan/core/logger"
	tg "github.com/commedeschamps/KieliSan/core/telegram"
	"github.com/commedeschamps/KieliSan/core/telegram/router"
	tgsender "github.com/commedeschamps/KieliSan/core/telegram/sender"
	"github.com/commedeschamps/KieliSan/internal/bot"
	"github.com/commedeschamps/KieliSan/internal/config"
	"github.com/commedeschamps/KieliSan/internal/content"
	"github.com/commedeschamps/KieliSan/internal/feedback"
	"github.com/commedeschamps/KieliSan/internal/quiz"
	"github.com/commedeschamps/KieliSan/internal/stats"
	"github.com/commedeschamps/KieliSan/migrations"
)

// App is a bootstrapped bot ready to run.
type App struct {
	cfg      *config.Config
	infra    *bootstrap.Result
	registry *tg.Registry
	bot      *bot.Bot
	content  *content.Provider
}

// Options overrides pieces of the bootstrap, mainly for tests.
type Options struct {
	Bootstrap func(bootstrap.Options) (*bootstrap.Result, error)
}

// New initialises logging, storage and content, then registers handlers.
func New(cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}
	run := opts.Bootstrap
	if run == nil {
		run = bootstrap.Run
	}
	db := cfg.Database
	db.Source = migrations.Files
	infra, err := run(bootstrap.Options{
		Config:      cfg.CoreConfig(),
		Database:    db,
		UseDatabase: cfg.UseDatabase(),
	})
	if err != nil {
		return nil, err
	}

	ctx := logger.Background()
	provider, err := content.NewProvider(ctx, cfg.Content.Dir, cfg.Content.AssetsDir)
	if err != nil {
		_ = infra.Close()
		return nil, fmt.Errorf("app: content: %w", err)
	}

	store, sink, err := newStores(cfg, infra.DB)
	if err != nil {
		_ = infra.Close()
		return nil, err
	}
	aggregator := stats.NewAggregator(store)
	quizzes := quiz.NewService(
		quiz.NewEngine(cfg.Quiz.PointTable()),
		quiz.NewSessionStore(),
		provider,
		aggregator,
	)

	b := bot.New(bot.Deps{
		Quiz:     quizzes,
		Content:  provider,
		Stats:    aggregator,
		Feedback: feedback.NewService(sink),
		TopLimit: cfg.Leaderboard.TopLimit,
	})
	reg := tg.NewRegistry()
	if err := b.Register(reg); err != nil {
		_ = infra.Close()
		return nil, fmt.Errorf("app: register handlers: %w", err)
	}

	logger.Info(ctx, "app", "bootstrap.complete",
		slog.String("storage", cfg.Storage.Driver),
		slog.String("content_dir", cfg.Content.Dir),
	)
	return &App{cfg: cfg, infra: infra, registry: reg, bot: b, content: provider}, nil
}

// newStores picks the statistics store and feedback sink for the
// configured driver.
func newStores(cfg *config.Config, db *sqlx.DB) (stats.Store, feedback.Sink, error) {
	timeout := cfg.Storage.LockTimeout()
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		if db == nil {
			return nil, nil, fmt.Errorf("app: postgres storage without a database connection")
		}
		return stats.NewPgStore(db, timeout), feedback.NewPgSink(db), nil
	default:
		return stats.NewJSONStore(cfg.Storage.StatsPath(), timeout),
			feedback.NewJSONSink(cfg.Storage.FeedbackPath(), timeout), nil
	}
}

// TelegramRunOptions builds routes and middlewares for the runtime.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	core := a.cfg.CoreConfig()

	routes := router.CommandRoutes(a.registry, router.CommandRouteOptions{
		AdminID:       core.Telegram.AdminID,
		OnAdminReject: a.bot.AdminRejected,
	})
	routes = append(routes, router.CallbackRoute(a.registry, router.CallbackOptions{
		NotFound: a.bot.UnknownCallback(),
	}))
	routes = append(routes, router.TextRoutes(a.bot.FSM(), a.registry, router.TextOptions{
		UnknownText:     a.bot.UnknownText(),
		UnknownDocument: a.bot.UnknownDocument(),
	})...)
	routes = append(routes, router.QueryRoute(a.bot.HandleQuery)...)

	return tg.RunOptions{
		Config:            core,
		Registry:          a.registry,
		DispatcherOptions: tgsender.Options{MaxRetries: 2},
		Middlewares:       tg.DefaultMiddlewares(core, a.bot.RateLimited()),
		Routes:            routes,
		OnStart: func(ctx context.Context, _ tg.Runtime) error {
			n := a.content.Counts()
			logger.Info(ctx, "app", "content.ready",
				slog.Int("questions", n.Questions),
				slog.Int("compare_questions", n.CompareQuestions),
				slog.Int("numbers", n.Numbers),
				slog.Int("compare_sections", n.CompareSections),
			)
			return nil
		},
	}, nil
}

// Close releases the database connection, if any.
func (a *App) Close() error {
	return a.infra.Close()
}
