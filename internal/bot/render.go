package bot

import (
	"fmt"
	"strings"

	"github.com/commedeschamps/KieliSan/core/telegram/format"
	"github.com/commedeschamps/KieliSan/internal/content"
	"github.com/commedeschamps/KieliSan/internal/quiz"
	"github.com/commedeschamps/KieliSan/internal/stats"
)

const (
	otherCultureLimit = 320
	comparePartLimit  = 4000
)

func renderQuestion(v quiz.View) string {
	q := v.Question
	var lines []string
	if q.Title != "" {
		lines = append(lines, format.Bold(format.Escape(q.Title)))
	}
	lines = append(lines,
		fmt.Sprintf("Сұрақ %d/%d • Деңгей: %s", v.Number, v.Total, format.Escape(string(q.Level))),
		"",
		format.Escape(q.Text),
		"",
	)
	for _, key := range q.Keys() {
		lines = append(lines, key+") "+format.Escape(q.Options[key]))
	}
	if v.Multi {
		lines = append(lines, "", textMultiHint)
	}
	return strings.Join(lines, "\n")
}

func renderExplanation(out quiz.Outcome) string {
	prefix := "❌ Қате."
	if out.IsCorrect {
		prefix = "✅ Дұрыс!"
	}
	text := prefix + "\nДұрыс жауап: " + strings.Join(out.Question.CorrectKeys(), ", ")
	if out.Question.Explanation != "" {
		text += "\n" + format.Escape(out.Question.Explanation)
	}
	return text
}

func renderQuizStarted(pool quiz.Pool, total int) string {
	if pool == quiz.PoolCompare {
		return fmt.Sprintf("Салыстырмалы викторина басталды! Сұрақ саны: %d.", total)
	}
	return fmt.Sprintf("Викторина басталды! Сұрақ саны: %d.", total)
}

func renderQuizFinished(r quiz.Result) string {
	if r.Pool == quiz.PoolCompare {
		return fmt.Sprintf("Салыстырмалы викторина аяқталды!\nНәтиже: %d/%d дұрыс жауап.\nҰпай: %d", r.Correct, r.Total, r.Points)
	}
	return fmt.Sprintf("Викторина аяқталды!\nНәтиже: %d/%d дұрыс жауап бердіңіз.\nҰпай: %d", r.Correct, r.Total, r.Points)
}

func renderNumberShort(n content.Number) string {
	text := n.Short
	if text == "" {
		text = n.Description
	}
	if text == "" {
		return ""
	}
	return format.LabelBlock(format.Escape(text))
}

func renderNumberFull(n content.Number) string {
	blocks := make([]string, 0, 4)
	for _, b := range []string{n.Description, n.Expressions, n.Example, n.Fact} {
		if b != "" {
			blocks = append(blocks, format.LabelBlock(format.Escape(b)))
		}
	}
	return format.Paragraphs(blocks...)
}

func renderNumberCard(number string, n content.Number, view string) string {
	body := renderNumberShort(n)
	if view == CardFull {
		body = renderNumberFull(n)
	}
	return format.Paragraphs(format.Bold(format.Escape(number)+" саны"), body)
}

// renderNumberCaption fits the card into a photo caption. When the card
// is too long the short card is used; overflow reports whether the full
// text must follow as a separate message.
func renderNumberCaption(number string, n content.Number, view string) (caption string, overflow bool) {
	card := renderNumberCard(number, n, view)
	if format.Len(card) <= format.CaptionLimit {
		return card, false
	}
	caption = renderNumberCard(number, n, CardShort)
	if view == CardFull {
		caption = format.Paragraphs(caption, textFullBelow)
	}
	if format.Len(caption) > format.CaptionLimit {
		caption = format.Bold(format.Escape(number) + " саны")
	}
	return caption, view == CardFull
}

func renderNumberQuiz(q content.NumberQuiz) string {
	lines := []string{"🧠 Сұрақ:", format.Escape(q.Question), ""}
	for _, key := range q.Keys() {
		lines = append(lines, key+") "+format.Escape(q.Options[key]))
	}
	return strings.Join(lines, "\n")
}

func renderNumberQuizReply(q content.NumberQuiz, choice string) string {
	prefix := "❌ Қате."
	if choice == q.Correct {
		prefix = "✅ Дұрыс!"
	}
	answer := "Дұрыс жауап: " + q.Correct
	if label := q.Options[q.Correct]; label != "" {
		answer += ") " + format.Escape(label)
	}
	lines := []string{prefix, answer}
	if q.Explanation != "" {
		lines = append(lines, format.Escape(q.Explanation))
	}
	return strings.Join(lines, "\n")
}

func renderBlock(b content.Block, short bool) string {
	text := b.Text
	if short {
		text = format.Shorten(text, otherCultureLimit)
	}
	return format.Paragraphs(format.Bold(format.Escape(b.Label)), format.Escape(text))
}

// renderCompare formats a comparison section for view. Sections without
// recognisable culture blocks are shown as is with a bold first line.
func renderCompare(section, view string) string {
	if section == "" {
		return ""
	}
	header, blocks := content.ParseCultures(section)
	if len(blocks) == 0 {
		first, rest, _ := strings.Cut(section, "\n")
		return strings.TrimRight(format.Bold(format.Escape(first))+"\n"+format.Escape(rest), "\n")
	}

	var parts []string
	if header != "" {
		parts = append(parts, format.Bold(format.Escape(header)))
	}

	if code, ok := strings.CutPrefix(view, viewCulture); ok {
		if b, found := content.FindBlock(blocks, code); found {
			parts = append(parts, renderBlock(b, false))
		}
		return format.Paragraphs(parts...)
	}

	kazakh, hasKazakh := content.FindBlock(blocks, content.CultureKazakh)
	switch view {
	case ViewLocal:
		if !hasKazakh {
			kazakh = blocks[0]
		}
		return format.Paragraphs(append(parts, renderBlock(kazakh, false))...)
	case ViewFull:
		for _, b := range blocks {
			parts = append(parts, renderBlock(b, false))
		}
		return format.Paragraphs(parts...)
	}

	if hasKazakh {
		parts = append(parts, renderBlock(kazakh, false))
	}
	var others []string
	for _, b := range blocks {
		if b.Code != content.CultureKazakh && b.Code != content.CultureSummary {
			others = append(others, renderBlock(b, true))
		}
	}
	if len(others) > 0 {
		parts = append(parts, format.Bold(textOtherCultures))
		parts = append(parts, others...)
	}
	if summary, ok := content.FindBlock(blocks, content.CultureSummary); ok {
		parts = append(parts, renderBlock(summary, true))
	}
	return format.Paragraphs(parts...)
}

func renderStats(u stats.UserStats) string {
	return fmt.Sprintf("📊 Сіздің статистикаңыз:\n"+
		"• Викторина саны: %d\n"+
		"• Орташа нәтиже: %d%%\n"+
		"• Жалпы ұпай: %d\n"+
		"• Ең жоғары ұпай: %d\n"+
		"• Ең жақсы нәтиже: %d/%d\n"+
		"• Соңғы нәтиже: %d/%d (%s)\n"+
		"• Соңғы ұпай: %d\n"+
		"• Соңғы өту уақыты: %s",
		u.QuizzesTaken,
		u.AveragePercent(),
		u.TotalPoints,
		u.BestPoints,
		u.BestScore, u.BestTotal,
		u.LastScore, u.LastTotal, format.Escape(u.LastMode),
		u.LastPoints,
		format.Escape(u.LastDate),
	)
}

func renderLeaderboard(board stats.Board) string {
	if len(board.Top) == 0 {
		return textEmptyBoard
	}
	lines := []string{"🏆 Лидерборд (ұпай бойынша):"}
	for _, e := range board.Top {
		lines = append(lines, fmt.Sprintf("%d. %s — %d ұпай (%d викт.)",
			e.Position, format.Escape(e.Stats.Name(e.UserID)), e.Stats.TotalPoints, e.Stats.QuizzesTaken))
	}
	if board.Self != nil {
		lines = append(lines, "", fmt.Sprintf("Сіздің орныңыз: %d • %d ұпай", board.Self.Position, board.Self.Stats.TotalPoints))
	}
	return strings.Join(lines, "\n")
}
