package telegram

import (
	"time"

	coreconfig "github.com/commedeschamps/KieliSan/core/config"
	"github.com/commedeschamps/KieliSan/core/telegram/middleware"
	"github.com/samber/lo"

	tele "gopkg.in/telebot.v4"
)

// DefaultMiddlewares returns the global chain: panic recovery, the per-user
// rate limiter when rate_limit.interval_ms is set, the update logger and the
// per-update send counters. onLimited may be nil.
func DefaultMiddlewares(cfg *coreconfig.Config, onLimited tele.HandlerFunc) []Middleware {
	chain := []Middleware{{Name: "recover", Use: middleware.RecoverMiddleware}}
	if limiter, ok := rateLimiter(cfg, onLimited); ok {
		chain = append(chain, limiter)
	}
	return append(chain,
		Middleware{Name: "logger", Use: middleware.LoggerMiddleware},
		Middleware{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	)
}

func rateLimiter(cfg *coreconfig.Config, onLimited tele.HandlerFunc) (Middleware, bool) {
	if cfg == nil || cfg.RateLimit.IntervalMS <= 0 {
		return Middleware{}, false
	}
	// Normalize already lower-cased and validated the kinds.
	exclude := lo.SliceToMap(cfg.RateLimit.ExcludeUpdates, func(kind string) (string, struct{}) {
		return kind, struct{}{}
	})
	opts := middleware.RateLimitOptions{
		Interval:  time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond,
		Exclude:   exclude,
		OnLimited: onLimited,
	}
	return Middleware{Name: "rate_limit", Use: middleware.RateLimitMiddleware(opts)}, true
}
