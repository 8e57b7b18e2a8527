package helpers

import (
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/commedeschamps/KieliSan/core/logger"
	"github.com/commedeschamps/KieliSan/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the asynchronous sender used by helper functions.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

func currentDispatcher() *sender.Dispatcher {
	return globalDispatcher.Load()
}

func sendAsync(c tele.Context, action, endpoint string, withKeyboard bool, run func() error) error {
	CountMessage(c, withKeyboard)
	disp := currentDispatcher()
	if disp == nil {
		return run()
	}

	ctx := BuildContext(c)
	if err := disp.Enqueue(ctx, action, endpoint, run); err != nil {
		if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
			logger.Warn(ctx, "tg.sender", "queue.fallback",
				slog.String("action", action),
				slog.String("endpoint", endpoint),
				slog.String("err", err.Error()),
			)
			return run()
		}
		return err
	}
	return nil
}

// SendHTML queues an HTML message with an optional reply markup.
func SendHTML(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	opts := &tele.SendOptions{ParseMode: tele.ModeHTML, DisableWebPagePreview: true}
	if len(markup) > 0 {
		opts.ReplyMarkup = markup[0]
	}
	return sendAsync(c, "send.text", "sendMessage", opts.ReplyMarkup != nil, func() error {
		return c.Send(text, opts)
	})
}

// SendPhoto queues a photo with an HTML caption.
func SendPhoto(c tele.Context, photo *tele.Photo, markup ...*tele.ReplyMarkup) error {
	opts := &tele.SendOptions{ParseMode: tele.ModeHTML}
	if len(markup) > 0 {
		opts.ReplyMarkup = markup[0]
	}
	return sendAsync(c, "send.photo", "sendPhoto", opts.ReplyMarkup != nil, func() error {
		return c.Send(photo, opts)
	})
}

// EditHTML edits the callback message text. A "message is not modified"
// reply counts as success.
func EditHTML(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	opts := &tele.SendOptions{ParseMode: tele.ModeHTML, DisableWebPagePreview: true}
	if len(markup) > 0 {
		opts.ReplyMarkup = markup[0]
	}
	CountMessage(c, opts.ReplyMarkup != nil)
	return ignoreNotModified(c.Edit(text, opts))
}

// EditCaptionHTML edits the caption of the callback media message.
func EditCaptionHTML(c tele.Context, caption string, markup ...*tele.ReplyMarkup) error {
	opts := &tele.SendOptions{ParseMode: tele.ModeHTML}
	if len(markup) > 0 {
		opts.ReplyMarkup = markup[0]
	}
	CountMessage(c, opts.ReplyMarkup != nil)
	return ignoreNotModified(c.EditCaption(caption, opts))
}

// EditMarkup replaces only the inline keyboard of the callback message;
// a nil markup removes it.
func EditMarkup(c tele.Context, markup *tele.ReplyMarkup) error {
	msg := c.Message()
	if msg == nil {
		return nil
	}
	if markup == nil {
		markup = &tele.ReplyMarkup{}
	}
	CountMessage(c, len(markup.InlineKeyboard) > 0)
	_, err := c.Bot().EditReplyMarkup(msg, markup)
	return ignoreNotModified(err)
}

func ignoreNotModified(err error) error {
	if err == nil || errors.Is(err, tele.ErrSameMessageContent) {
		return nil
	}
	if strings.Contains(err.Error(), "message is not modified") {
		return nil
	}
	return err
}
