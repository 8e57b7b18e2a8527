package logger

import (
	"context"
	"log/slog"
)

type ctxKey int

const (
	keyRID ctxKey = iota
	keyUpdate
	keyLogger
	keyHandler
)

// updateMeta identifies the Telegram update a context was built for.
type updateMeta struct {
	updateID int
	userID   int64
	chatID   int64
}

func lookup[T any](ctx context.Context, key ctxKey) (T, bool) {
	var zero T
	if ctx == nil {
		return zero, false
	}
	v, ok := ctx.Value(key).(T)
	return v, ok
}

func orBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// WithLogger stores log in ctx; nil leaves ctx unchanged.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	ctx = orBackground(ctx)
	if log == nil {
		return ctx
	}
	return context.WithValue(ctx, keyLogger, log)
}

// FromContext returns the logger stored in ctx, or L.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := lookup[*slog.Logger](ctx, keyLogger); ok && l != nil {
		return l
	}
	return L
}

// WithRID attaches the request correlation id.
func WithRID(ctx context.Context, rid string) context.Context {
	return context.WithValue(orBackground(ctx), keyRID, rid)
}

// RIDFrom returns the correlation id, if any.
func RIDFrom(ctx context.Context) string {
	rid, _ := lookup[string](ctx, keyRID)
	return rid
}

// WithUpdateMeta attaches the update, user and chat ids.
func WithUpdateMeta(ctx context.Context, updateID int, userID, chatID int64) context.Context {
	return context.WithValue(orBackground(ctx), keyUpdate, updateMeta{updateID: updateID, userID: userID, chatID: chatID})
}

// UpdateIDFrom returns the Telegram update id.
func UpdateIDFrom(ctx context.Context) int {
	m, _ := lookup[updateMeta](ctx, keyUpdate)
	return m.updateID
}

// UserIDFrom returns the Telegram user id.
func UserIDFrom(ctx context.Context) int64 {
	m, _ := lookup[updateMeta](ctx, keyUpdate)
	return m.userID
}

// ChatIDFrom returns the chat id. The outbound dispatcher shards on it.
func ChatIDFrom(ctx context.Context) int64 {
	m, _ := lookup[updateMeta](ctx, keyUpdate)
	return m.chatID
}

// WithHandler names the handler serving ctx; empty names are ignored.
func WithHandler(ctx context.Context, handler string) context.Context {
	ctx = orBackground(ctx)
	if handler == "" {
		return ctx
	}
	return context.WithValue(ctx, keyHandler, handler)
}

// HandlerFrom returns the handler name, if any.
func HandlerFrom(ctx context.Context) string {
	h, _ := lookup[string](ctx, keyHandler)
	return h
}
