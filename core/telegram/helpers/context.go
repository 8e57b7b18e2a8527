package helpers

import (
	"context"

	"github.com/commedeschamps/KieliSan/core/logger"

	tele "gopkg.in/telebot.v4"
)

const (
	ctxStoreKey = "kielisan.ctx"
	ridStoreKey = "rid"
)

// IDs returns the chat and sender ids of the update; zero when absent.
func IDs(c tele.Context) (chatID, userID int64) {
	if chat := c.Chat(); chat != nil {
		chatID = chat.ID
	}
	if user := c.Sender(); user != nil {
		userID = user.ID
	}
	return chatID, userID
}

// NewContext builds a fresh logging context for the update and stores it
// on c, replacing any earlier one.
func NewContext(c tele.Context) context.Context {
	updateID := c.Update().ID
	chatID, userID := IDs(c)
	rid, _ := c.Get(ridStoreKey).(string)
	if rid == "" {
		rid = logger.BuildRID(updateID, chatID, userID)
		c.Set(ridStoreKey, rid)
	}
	ctx := logger.WithRID(logger.Background(), rid)
	ctx = logger.WithUpdateMeta(ctx, updateID, userID, chatID)
	ctx = logger.WithLogger(ctx, logger.Component("tg"))
	c.Set(ctxStoreKey, ctx)
	return ctx
}

// BuildContext returns the context stored on c, building it on first use.
// Service calls take it so their logs carry the update's rid.
func BuildContext(c tele.Context) context.Context {
	if ctx, ok := c.Get(ctxStoreKey).(context.Context); ok && ctx != nil {
		return ctx
	}
	return NewContext(c)
}

// WithHandler tags the stored context with the handler name.
func WithHandler(c tele.Context, handler string) context.Context {
	ctx := BuildContext(c)
	if handler == "" {
		return ctx
	}
	ctx = logger.WithHandler(ctx, handler)
	c.Set(ctxStoreKey, ctx)
	return ctx
}
