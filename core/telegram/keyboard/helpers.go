// Package keyboard builds reply and inline markups from plain descriptions.
package keyboard

import (
	"github.com/samber/lo"

	tele "gopkg.in/telebot.v4"
)

// InlineBtn is one inline button. Data is the payload telebot appends
// after "\f<Unique>|".
type InlineBtn struct {
	Text   string
	Unique string
	Data   string
}

// ReplyButtons builds a resized reply keyboard, one row per argument.
func ReplyButtons(rows ...[]string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	markup.Reply(lo.Map(rows, func(row []string, _ int) tele.Row {
		return markup.Row(lo.Map(row, func(label string, _ int) tele.Btn {
			return markup.Text(label)
		})...)
	})...)
	return markup
}

// InlineButtonsRows builds an inline keyboard, skipping empty rows.
func InlineButtonsRows(rows ...[]InlineBtn) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		markup.InlineKeyboard = append(markup.InlineKeyboard, lo.Map(row, func(b InlineBtn, _ int) tele.InlineButton {
			return *markup.Data(b.Text, b.Unique, b.Data).Inline()
		}))
	}
	return markup
}

// Chunk splits buttons into rows of at most n; n < 1 means one per row.
func Chunk(buttons []InlineBtn, n int) [][]InlineBtn {
	if len(buttons) == 0 {
		return nil
	}
	return lo.Chunk(buttons, max(n, 1))
}
