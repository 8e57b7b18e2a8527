package bot

import (
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/commedeschamps/KieliSan/core/logger"
	"github.com/commedeschamps/KieliSan/core/telegram/callbacks"
	"github.com/commedeschamps/KieliSan/core/telegram/format"
	tghelpers "github.com/commedeschamps/KieliSan/core/telegram/helpers"
	"github.com/commedeschamps/KieliSan/internal/content"
)

func (b *Bot) handleNumbersMenu(c tele.Context) error {
	keys := b.content.NumberKeys()
	if len(keys) == 0 {
		return tghelpers.SendHTML(c, textNoContent, mainMenuKeyboard())
	}
	return tghelpers.SendHTML(c, textChooseNumber, numbersKeyboard(keys))
}

func (b *Bot) sendRandomNumber(c tele.Context, exclude string) error {
	n, ok := b.content.RandomNumber(exclude)
	if !ok {
		return tghelpers.SendHTML(c, textNoContent, mainMenuKeyboard())
	}
	return b.sendNumber(c, n)
}

// sendNumber sends the short card of number followed by its mini quiz.
func (b *Bot) sendNumber(c tele.Context, number string) error {
	n, ok := b.content.Number(number)
	if !ok {
		return tghelpers.SendHTML(c, textNoNumber, numbersKeyboard(b.content.NumberKeys()))
	}
	if err := b.sendCard(c, number, n, CardShort); err != nil {
		return err
	}
	if n.Quiz == nil {
		return nil
	}
	return tghelpers.SendHTML(c, renderNumberQuiz(*n.Quiz), numberQuizKeyboard(number, *n.Quiz))
}

// sendCard sends the card as a photo when an image exists, otherwise as
// text split to the message limit.
func (b *Bot) sendCard(c tele.Context, number string, n content.Number, view string) error {
	markup := numberCardKeyboard(number, flipCard(view))
	if path, ok := b.content.NumberImage(number); ok {
		caption, overflow := renderNumberCaption(number, n, view)
		photo := &tele.Photo{File: tele.FromDisk(path), Caption: caption}
		if err := tghelpers.SendPhoto(c, photo, markup); err != nil {
			return err
		}
		if !overflow {
			return nil
		}
		return sendParts(c, renderNumberCard(number, n, view), format.MessageLimit, nil)
	}
	return sendParts(c, renderNumberCard(number, n, view), format.MessageLimit, markup)
}

// toggleNumberCard edits the card in place to view. A card that cannot be
// edited is sent again.
func (b *Bot) toggleNumberCard(c tele.Context, number, view string) error {
	n, ok := b.content.Number(number)
	if !ok {
		return callbacks.Answer(c, textNoNumber, false)
	}
	markup := numberCardKeyboard(number, flipCard(view))

	msg := c.Message()
	var err error
	switch {
	case msg != nil && msg.Photo != nil:
		caption, overflow := renderNumberCaption(number, n, view)
		if err = tghelpers.EditCaptionHTML(c, caption, markup); err == nil && overflow {
			return sendParts(c, renderNumberCard(number, n, view), format.MessageLimit, nil)
		}
	default:
		text := renderNumberCard(number, n, view)
		if format.Len(text) > format.MessageLimit {
			return b.sendCard(c, number, n, view)
		}
		err = tghelpers.EditHTML(c, text, markup)
	}
	if err != nil {
		logger.Debug(ctxOf(c), "tg", "number.edit_failed", slog.String("err", err.Error()))
		return b.sendCard(c, number, n, view)
	}
	return nil
}

func (b *Bot) answerNumberQuiz(c tele.Context, number, choice string) error {
	msgID := 0
	if msg := c.Message(); msg != nil {
		msgID = msg.ID
	}
	if !b.answered.Mark(chatID(c), msgID) {
		return callbacks.Answer(c, textMiniAnswered, false)
	}
	n, ok := b.content.Number(number)
	if !ok || n.Quiz == nil {
		return callbacks.Answer(c, textNoNumber, false)
	}
	if err := tghelpers.EditMarkup(c, nil); err != nil {
		logger.Debug(ctxOf(c), "tg", "number.quiz_markup_keep", slog.String("err", err.Error()))
	}
	return tghelpers.SendHTML(c, renderNumberQuizReply(*n.Quiz, choice), numberActionsKeyboard(number))
}

func flipCard(view string) string {
	if view == CardFull {
		return CardShort
	}
	return CardFull
}

// sendParts sends text in chunks of at most limit runes; markup goes on
// the last one.
func sendParts(c tele.Context, text string, limit int, markup *tele.ReplyMarkup) error {
	parts := format.Split(text, limit)
	for i, part := range parts {
		if i == len(parts)-1 && markup != nil {
			return tghelpers.SendHTML(c, part, markup)
		}
		if err := tghelpers.SendHTML(c, part); err != nil {
			return err
		}
	}
	return nil
}
