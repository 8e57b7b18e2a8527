package bot

import (
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/commedeschamps/KieliSan/core/telegram/callbacks"
	"github.com/commedeschamps/KieliSan/core/telegram/format"
	tghelpers "github.com/commedeschamps/KieliSan/core/telegram/helpers"
	"github.com/commedeschamps/KieliSan/core/telegram/ui"
)

const inlineResultLimit = 20

var _ ui.FallbackProvider = (*Bot)(nil)

// handleText catches free text: a typed number opens its card, anything
// else during a quiz points back to the buttons.
func (b *Bot) handleText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	if isNumber(text) {
		if _, ok := b.content.Number(text); ok {
			return b.sendNumber(c, text)
		}
	}
	if _, active := b.quiz.Active(chatID(c)); active {
		return tghelpers.SendHTML(c, textUseButtons)
	}
	return tghelpers.SendHTML(c, textUnknown, mainMenuKeyboard())
}

// HandleQuery answers inline queries with number cards.
func (b *Bot) HandleQuery(c tele.Context) error {
	hits := b.content.Search(c.Query().Text, inlineResultLimit)
	articles := make([]ui.Article, 0, len(hits))
	for _, h := range hits {
		desc := h.Item.Short
		if desc == "" {
			desc = h.Item.Description
		}
		articles = append(articles, ui.Article{
			ID:          "num-" + h.Number,
			Title:       h.Number + " саны",
			Description: format.Shorten(desc, 100),
			HTML:        renderNumberCard(h.Number, h.Item, CardShort),
		})
	}
	none := ui.Article{ID: "none", Title: textInlineNoResults, HTML: textInlineNoResults}
	results := ui.Articles(articles, none)
	return c.Answer(&tele.QueryResponse{Results: results, CacheTime: 60})
}

// UnknownText replies to text nothing else handled.
func (b *Bot) UnknownText() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendHTML(c, textUnknown, mainMenuKeyboard())
	}
}

// UnknownDocument replies to files and photos.
func (b *Bot) UnknownDocument() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendHTML(c, textUnknownDocument, mainMenuKeyboard())
	}
}

// UnknownCallback answers buttons from old keyboards.
func (b *Bot) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		return callbacks.Answer(c, textUnsupported, false)
	}
}

// RateLimited tells a user to slow down.
func (b *Bot) RateLimited() tele.HandlerFunc {
	return func(c tele.Context) error {
		switch {
		case c.Callback() != nil:
			return callbacks.Answer(c, textRateLimited, false)
		case c.Query() != nil:
			return nil
		}
		return tghelpers.SendHTML(c, textRateLimited)
	}
}

// AdminRejected answers admin commands sent by anyone else.
func (b *Bot) AdminRejected(c tele.Context) error {
	return tghelpers.SendHTML(c, textAdminOnly)
}
