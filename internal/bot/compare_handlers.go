package bot

import (
	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/commedeschamps/KieliSan/core/telegram/helpers"
)

func (b *Bot) handleCompareMenu(c tele.Context) error {
	return tghelpers.SendHTML(c, textChooseCompare, compareNumbersKeyboard())
}

func (b *Bot) sendCompare(c tele.Context, number, view string) error {
	text := renderCompare(b.content.DescriptiveText(number), view)
	if text == "" {
		return tghelpers.SendHTML(c, textNoContent, compareNumbersKeyboard())
	}
	return sendParts(c, text, comparePartLimit, compareInfoKeyboard(number))
}
