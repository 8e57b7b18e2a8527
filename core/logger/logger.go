// Package logger is the bot's structured logging layer: a slog handler with
// a fixed key order, request ids derived from Telegram updates, debug
// sampling and an asynchronous fan-out writer.
package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/commedeschamps/KieliSan/core/buildinfo"
	coreconfig "github.com/commedeschamps/KieliSan/core/config"
)

// sinks owns the writer and the files opened for it.
type sinks struct {
	mu      sync.Mutex
	writer  *asyncWriter
	closers []io.Closer
	closed  bool
}

var (
	initOnce sync.Once
	active   sinks
	levelVar slog.LevelVar

	debugSampler  = newRatioSampler(1, 50)
	traceOverride bool

	// L is the root logger. It stays nil until InitLogger runs and every
	// helper in this package tolerates that.
	L *slog.Logger

	DB       *slog.Logger
	TG       *slog.Logger
	MIG      *slog.Logger
	TWire    *slog.Logger
	Quiz     *slog.Logger
	Stats    *slog.Logger
	Content  *slog.Logger
	Feedback *slog.Logger
)

// components maps each package-level logger to its component name.
var components = []struct {
	dst  **slog.Logger
	name string
}{
	{&DB, "db"},
	{&TG, "tg"},
	{&MIG, "db.migrate"},
	{&TWire, "tg.wire"},
	{&Quiz, "service.quiz"},
	{&Stats, "service.stats"},
	{&Content, "service.content"},
	{&Feedback, "service.feedback"},
}

// InitLogger installs the structured logger as the slog default. Only the
// first call has any effect.
func InitLogger(cfg *coreconfig.Config) error {
	var initErr error
	initOnce.Do(func() {
		opts := optionsFrom(cfg)
		levelVar.Set(opts.level)
		debugSampler.Set(opts.sampleNum, opts.sampleDen)
		traceOverride = isTruthy(os.Getenv("TRACE")) || isTruthy(os.Getenv("LOG_TRACE"))

		outputs, closers, err := openOutputs(opts)
		if err != nil {
			initErr = err
			return
		}
		active.closers = closers
		active.writer = newAsyncWriter(outputs, 64*1024)

		L = slog.New(newStructuredHandler(handlerConfig{
			level:    &levelVar,
			writer:   active.writer,
			format:   opts.format,
			keyOrder: opts.keyOrder,
			stacks:   opts.stacks,
		}))
		slog.SetDefault(L)
		for _, c := range components {
			*c.dst = L.With("component", c.name)
		}

		L.LogAttrs(context.Background(), slog.LevelInfo, "startup",
			slog.String("component", "app"),
			slog.String("event", "startup"),
			slog.String("go_version", runtime.Version()),
			slog.String("build", buildinfo.String()),
			slog.String("cfg_profile", opts.profile),
		)
	})
	return initErr
}

// Shutdown drains queued records and closes the log files. Later calls
// return nil.
func Shutdown() error {
	active.mu.Lock()
	defer active.mu.Unlock()
	if active.closed {
		return nil
	}
	active.closed = true

	var errs []error
	if w := active.writer; w != nil {
		errs = append(errs, w.Flush(), w.Close())
	}
	for _, c := range active.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// Background returns a bare context for code running outside an update.
func Background() context.Context {
	return context.Background()
}

// LogEvent writes one record with an event attribute. A nil logg falls back
// to the context logger and then to L.
func LogEvent(ctx context.Context, logg *slog.Logger, level slog.Level, event string, attrs ...slog.Attr) {
	if logg == nil {
		logg = FromContext(ctx)
	}
	if logg == nil {
		return
	}
	if event != "" {
		attrs = append([]slog.Attr{slog.String("event", event)}, attrs...)
	}
	logg.LogAttrs(ctx, level, "", attrs...)
}

// Component returns L tagged with the component name, or nil before init.
func Component(name string) *slog.Logger {
	if L == nil {
		return nil
	}
	if name = strings.TrimSpace(name); name == "" {
		return L
	}
	return L.With("component", name)
}

// Event logs under component, falling back to the context logger.
func Event(ctx context.Context, component string, level slog.Level, event string, attrs ...slog.Attr) {
	logg := Component(component)
	if logg == nil {
		if logg = FromContext(ctx); logg != nil && strings.TrimSpace(component) != "" {
			logg = logg.With("component", strings.TrimSpace(component))
		}
	}
	LogEvent(ctx, logg, level, event, attrs...)
}

func Debug(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelDebug, event, attrs...)
}

func Info(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelInfo, event, attrs...)
}

func Warn(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelWarn, event, attrs...)
}

func Error(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelError, event, attrs...)
}

// ShouldSampleDebug reports whether a high-volume debug line should be
// written. TRACE=1 lets every line through.
func ShouldSampleDebug() bool {
	return traceOverride || debugSampler.Allow()
}
