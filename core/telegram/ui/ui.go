// Package ui holds reusable Telegram response pieces.
package ui

import tele "gopkg.in/telebot.v4"

// FallbackProvider answers what no route claimed, plus the updates the
// rate limiter and the admin guard turn away.
type FallbackProvider interface {
	UnknownText() tele.HandlerFunc
	UnknownDocument() tele.HandlerFunc
	UnknownCallback() tele.HandlerFunc
	RateLimited() tele.HandlerFunc
	AdminRejected(c tele.Context) error
}

// Article is one inline-mode result whose message body is HTML.
type Article struct {
	ID          string
	Title       string
	Description string
	HTML        string
}

// Result converts the article into a telebot inline result.
func (a Article) Result() *tele.ArticleResult {
	result := &tele.ArticleResult{
		Title:       a.Title,
		Description: a.Description,
		Text:        a.HTML,
	}
	result.SetResultID(a.ID)
	result.SetContent(&tele.InputTextMessageContent{
		Text:      a.HTML,
		ParseMode: tele.ModeHTML,
	})
	return result
}

// Articles builds inline results. When items is empty the placeholder is
// returned alone so the client shows something instead of a blank list.
func Articles(items []Article, placeholder Article) tele.Results {
	if len(items) == 0 {
		return tele.Results{placeholder.Result()}
	}
	results := make(tele.Results, 0, len(items))
	for _, it := range items {
		results = append(results, it.Result())
	}
	return results
}
