package bot

import (
	"github.com/samber/lo"
	tele "gopkg.in/telebot.v4"

	"github.com/commedeschamps/KieliSan/core/telegram/keyboard"
	"github.com/commedeschamps/KieliSan/internal/content"
	"github.com/commedeschamps/KieliSan/internal/quiz"
)

func mainMenuKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{MenuInfo, MenuCompare},
		[]string{MenuQuiz, MenuStats},
		[]string{MenuLeaderboard, MenuFeedback},
		[]string{MenuHelp, MenuAbout},
	)
}

func backMenuKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyButtons([]string{MenuBack})
}

func menuButton() keyboard.InlineBtn {
	return Action{Kind: KindMenu}.Button(btnMenu)
}

func numbersKeyboard(numbers []string) *tele.ReplyMarkup {
	buttons := lo.Map(numbers, func(n string, _ int) keyboard.InlineBtn {
		return Action{Kind: KindNumber, Number: n}.Button(n)
	})
	rows := keyboard.Chunk(buttons, 3)
	rows = append(rows, []keyboard.InlineBtn{Action{Kind: KindNumberRandom}.Button(btnRandomNumber)})
	return keyboard.InlineButtonsRows(rows...)
}

func numberCardKeyboard(number, view string) *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{Action{Kind: KindNumberToggle, Number: number, View: view}.Button(btnToggleInfo)},
		[]keyboard.InlineBtn{Action{Kind: KindNumberNext, Number: number}.Button(btnNextNumber)},
		[]keyboard.InlineBtn{Action{Kind: KindNumberList}.Button(btnNumberList), menuButton()},
	)
}

func numberQuizKeyboard(number string, q content.NumberQuiz) *tele.ReplyMarkup {
	buttons := lo.Map(q.Keys(), func(key string, _ int) keyboard.InlineBtn {
		return Action{Kind: KindNumberQuiz, Number: number, Choice: key}.Button(key)
	})
	return keyboard.InlineButtonsRows(buttons)
}

func numberActionsKeyboard(number string) *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{Action{Kind: KindNumberNext, Number: number}.Button(btnNextNumber)},
		[]keyboard.InlineBtn{Action{Kind: KindNumberList}.Button(btnNumberList), menuButton()},
	)
}

func compareNumbersKeyboard() *tele.ReplyMarkup {
	buttons := lo.Map(content.CompareNumbers, func(n string, _ int) keyboard.InlineBtn {
		return Action{Kind: KindCompareNumber, Number: n}.Button(n)
	})
	rows := keyboard.Chunk(buttons, 3)
	rows = append(rows,
		[]keyboard.InlineBtn{Action{Kind: KindQuizModes, Pool: quiz.PoolCompare}.Button(btnCompareQuiz)},
		[]keyboard.InlineBtn{menuButton()},
	)
	return keyboard.InlineButtonsRows(rows...)
}

func compareInfoKeyboard(number string) *tele.ReplyMarkup {
	cultures := lo.Map(content.Cultures, func(c content.Culture, _ int) keyboard.InlineBtn {
		return Action{Kind: KindCompareView, Number: number, View: CultureView(c.Code)}.Button(c.Button)
	})
	rows := keyboard.Chunk(cultures, 2)
	rows = append(rows,
		[]keyboard.InlineBtn{
			Action{Kind: KindCompareView, Number: number, View: ViewCompare}.Button(btnCompareShort),
			Action{Kind: KindCompareView, Number: number, View: ViewFull}.Button(btnCompareFull),
		},
		[]keyboard.InlineBtn{
			Action{Kind: KindCompareList}.Button(btnNumberList),
			Action{Kind: KindQuizModes, Pool: quiz.PoolCompare}.Button(btnCompareQuiz),
		},
		[]keyboard.InlineBtn{menuButton()},
	)
	return keyboard.InlineButtonsRows(rows...)
}

func modeKeyboard(pool quiz.Pool) *tele.ReplyMarkup {
	buttons := lo.Map(quiz.Modes, func(m quiz.Mode, _ int) keyboard.InlineBtn {
		return Action{Kind: KindQuizStart, Pool: pool, Mode: m}.Button(m.Label())
	})
	rows := keyboard.Chunk(buttons, 2)
	rows = append(rows, []keyboard.InlineBtn{menuButton()})
	return keyboard.InlineButtonsRows(rows...)
}

func questionKeyboard(v quiz.View) *tele.ReplyMarkup {
	q := v.Question
	if !v.Multi {
		rows := lo.Map(q.Keys(), func(key string, _ int) []keyboard.InlineBtn {
			a := Action{Kind: KindQuizAnswer, Pool: v.Pool, Index: v.Index, Choice: key}
			return []keyboard.InlineBtn{a.Button(key + ") " + q.Options[key])}
		})
		rows = append(rows, []keyboard.InlineBtn{menuButton()})
		return keyboard.InlineButtonsRows(rows...)
	}

	rows := lo.Map(q.Keys(), func(key string, _ int) []keyboard.InlineBtn {
		mark := btnUnselected
		if lo.Contains(v.Selected, key) {
			mark = btnSelected
		}
		a := Action{Kind: KindQuizToggle, Pool: v.Pool, Index: v.Index, Choice: key}
		return []keyboard.InlineBtn{a.Button(mark + " " + key + ") " + q.Options[key])}
	})
	rows = append(rows,
		[]keyboard.InlineBtn{Action{Kind: KindQuizSubmit, Pool: v.Pool, Index: v.Index}.Button(btnSubmitAnswer)},
		[]keyboard.InlineBtn{menuButton()},
	)
	return keyboard.InlineButtonsRows(rows...)
}
