// Package callbacks decodes inline button data and acknowledges callback
// queries at most once per update.
package callbacks

import (
	"errors"
	"strings"

	tele "gopkg.in/telebot.v4"
)

const (
	answeredKey = "cb_answered"
	uniqueSep   = "|"
)

// ErrBadPayload is returned by SplitPayload when the shape does not match.
var ErrBadPayload = errors.New("callbacks: malformed payload")

// ParseCallbackData returns the button unique and its payload. Telebot
// either splits them already or leaves the raw "\f<unique>|<payload>".
func ParseCallbackData(cb *tele.Callback) (unique, payload string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	unique, payload, _ = strings.Cut(strings.TrimPrefix(cb.Data, "\f"), uniqueSep)
	return strings.TrimSpace(unique), payload
}

// SplitPayload cuts payload by sep and requires n non-empty parts
// (any count when n <= 0).
func SplitPayload(payload, sep string, n int) ([]string, error) {
	if payload == "" {
		return nil, ErrBadPayload
	}
	parts := strings.Split(payload, sep)
	if n > 0 && len(parts) != n {
		return nil, ErrBadPayload
	}
	for _, p := range parts {
		if p == "" {
			return nil, ErrBadPayload
		}
	}
	return parts, nil
}

// Answer acknowledges the current callback. Only the first call per update
// reaches Telegram; routers call it again after the handler as a catch-all.
func Answer(c tele.Context, text string, alert bool) error {
	if c.Callback() == nil || answered(c) {
		return nil
	}
	c.Set(answeredKey, true)
	if text == "" {
		return c.Respond()
	}
	return c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: alert})
}

func answered(c tele.Context) bool {
	v, _ := c.Get(answeredKey).(bool)
	return v
}
