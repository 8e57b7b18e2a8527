package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/commedeschamps/KieliSan/internal/content"
	"github.com/commedeschamps/KieliSan/internal/quiz"
	"github.com/commedeschamps/KieliSan/internal/stats"
)

func sampleQuestion() quiz.Question {
	return quiz.Question{
		ID:          "quiz-1",
		Title:       "Жеті <ата>",
		Level:       quiz.LevelEasy,
		Text:        "Неше ата білу керек?",
		Options:     map[string]string{"B": "Бес", "A": "Жеті"},
		Correct:     []string{"A"},
		Explanation: "Жеті атаны білу парыз.",
	}
}

func TestRenderQuestion(t *testing.T) {
	v := quiz.View{Question: sampleQuestion(), Number: 2, Total: 5}
	got := renderQuestion(v)

	assert.True(t, strings.HasPrefix(got, "<b>Жеті &lt;ата&gt;</b>\n"))
	assert.Contains(t, got, "Сұрақ 2/5 • Деңгей: easy")
	assert.Less(t, strings.Index(got, "A) Жеті"), strings.Index(got, "B) Бес"))
	assert.NotContains(t, got, textMultiHint)

	v.Multi = true
	assert.True(t, strings.HasSuffix(renderQuestion(v), textMultiHint))
}

func TestRenderExplanation(t *testing.T) {
	q := sampleQuestion()
	q.Correct = []string{"B", "A"}

	got := renderExplanation(quiz.Outcome{Question: q, IsCorrect: true})
	assert.Equal(t, "✅ Дұрыс!\nДұрыс жауап: A, B\nЖеті атаны білу парыз.", got)

	q.Explanation = ""
	got = renderExplanation(quiz.Outcome{Question: q})
	assert.Equal(t, "❌ Қате.\nДұрыс жауап: A, B", got)
}

func TestRenderQuizStartAndFinish(t *testing.T) {
	assert.Equal(t, "Викторина басталды! Сұрақ саны: 4.", renderQuizStarted(quiz.PoolNumbers, 4))
	assert.True(t, strings.HasPrefix(renderQuizStarted(quiz.PoolCompare, 4), "Салыстырмалы"))

	got := renderQuizFinished(quiz.Result{Pool: quiz.PoolNumbers, Correct: 3, Total: 4, Points: 5})
	assert.Contains(t, got, "Нәтиже: 3/4 дұрыс жауап бердіңіз.")
	assert.Contains(t, got, "Ұпай: 5")

	got = renderQuizFinished(quiz.Result{Pool: quiz.PoolCompare, Correct: 1, Total: 2})
	assert.True(t, strings.HasPrefix(got, "Салыстырмалы викторина аяқталды!"))
}

func TestRenderNumberCard(t *testing.T) {
	n := content.Number{
		Short:       "Қысқаша: жеті қазына",
		Description: "Мағынасы: толық мәтін",
		Fact:        "Дерек: жеті күн",
	}
	short := renderNumberCard("7", n, CardShort)
	assert.Equal(t, "<b>7 саны</b>\n\n<b>Қысқаша:</b> жеті қазына", short)

	full := renderNumberCard("7", n, CardFull)
	assert.Equal(t, "<b>7 саны</b>\n\n<b>Мағынасы:</b> толық мәтін\n\n<b>Дерек:</b> жеті күн", full)

	n.Short = ""
	assert.Contains(t, renderNumberCard("7", n, CardShort), "толық мәтін")
}

func TestRenderNumberCaptionOverflow(t *testing.T) {
	n := content.Number{Short: "қысқа", Description: strings.Repeat("ұзын ", 400)}

	caption, overflow := renderNumberCaption("9", n, CardShort)
	assert.False(t, overflow)
	assert.Equal(t, "<b>9 саны</b>\n\nқысқа", caption)

	caption, overflow = renderNumberCaption("9", n, CardFull)
	assert.True(t, overflow)
	assert.Equal(t, "<b>9 саны</b>\n\nқысқа\n\n"+textFullBelow, caption)
}

func TestRenderNumberQuizReply(t *testing.T) {
	q := content.NumberQuiz{
		Question:    "Қанша?",
		Options:     map[string]string{"A": "Үш", "B": "Жеті"},
		Correct:     "B",
		Explanation: "Жеті қазына.",
	}
	assert.Equal(t, "🧠 Сұрақ:\nҚанша?\n\nA) Үш\nB) Жеті", renderNumberQuiz(q))
	assert.Equal(t, "✅ Дұрыс!\nДұрыс жауап: B) Жеті\nЖеті қазына.", renderNumberQuizReply(q, "B"))
	assert.True(t, strings.HasPrefix(renderNumberQuizReply(q, "A"), "❌ Қате."))
}

const compareSection = "3 саны: әлемнің үш қабаты\n" +
	"Қазақ / Түркі: Жоғарғы, орта және төменгі әлем.\n" +
	"Ислам: Үш рет сәлем беру сүннет.\n" +
	"Қысқаша салыстыру: Үш толықтықты білдіреді."

func TestRenderCompareViews(t *testing.T) {
	culture := renderCompare(compareSection, CultureView("islam"))
	assert.Equal(t, "<b>3 саны: әлемнің үш қабаты</b>\n\n<b>Ислам</b>\n\nҮш рет сәлем беру сүннет.", culture)

	local := renderCompare(compareSection, ViewLocal)
	assert.Contains(t, local, "Жоғарғы, орта және төменгі әлем.")
	assert.NotContains(t, local, "Ислам")

	short := renderCompare(compareSection, ViewCompare)
	assert.Less(t, strings.Index(short, "Қазақ / Түркі"), strings.Index(short, textOtherCultures))
	assert.Less(t, strings.Index(short, textOtherCultures), strings.Index(short, "<b>Ислам</b>"))
	assert.True(t, strings.HasSuffix(short, "Үш толықтықты білдіреді."))

	full := renderCompare(compareSection, ViewFull)
	assert.NotContains(t, full, textOtherCultures)
	assert.Contains(t, full, "<b>Қысқаша салыстыру</b>")
}

func TestRenderCompareShortensOtherCultures(t *testing.T) {
	long := strings.Repeat("Ұзын сөйлем мұнда жазылған. ", 30)
	section := "5 саны\nҚазақ / Түркі: бес.\nҚытай: " + long
	got := renderCompare(section, ViewCompare)
	assert.Contains(t, got, "...")
	assert.NotContains(t, got, strings.TrimSpace(long))
}

func TestRenderCompareWithoutBlocks(t *testing.T) {
	assert.Equal(t, "<b>9 саны</b>\nжай мәтін", renderCompare("9 саны\nжай мәтін", ViewCompare))
	assert.Empty(t, renderCompare("", ViewCompare))
}

func TestRenderLeaderboard(t *testing.T) {
	assert.Equal(t, textEmptyBoard, renderLeaderboard(stats.Board{}))

	board := stats.Board{
		Top: []stats.Entry{
			{Position: 1, UserID: 1, Stats: stats.UserStats{DisplayName: "Аружан", TotalPoints: 9, QuizzesTaken: 2}},
			{Position: 2, UserID: 2, Stats: stats.UserStats{Username: "bek", TotalPoints: 4, QuizzesTaken: 1}},
		},
		Self: &stats.Entry{Position: 14, UserID: 3, Stats: stats.UserStats{TotalPoints: 1}},
	}
	got := renderLeaderboard(board)
	assert.Contains(t, got, "1. Аружан — 9 ұпай (2 викт.)")
	assert.Contains(t, got, "2. @bek — 4 ұпай (1 викт.)")
	assert.True(t, strings.HasSuffix(got, "\n\nСіздің орныңыз: 14 • 1 ұпай"))
}

func TestRenderStats(t *testing.T) {
	u := stats.UserStats{
		QuizzesTaken: 2, TotalCorrect: 3, TotalQuestions: 4, TotalPoints: 6,
		BestScore: 2, BestTotal: 2, BestPoints: 4,
		LastScore: 1, LastTotal: 2, LastMode: "🟢 Жеңіл", LastDate: "2026-10-18 10:00", LastPoints: 2,
	}
	got := renderStats(u)
	assert.Contains(t, got, "Орташа нәтиже: 75%")
	assert.Contains(t, got, "Ең жақсы нәтиже: 2/2")
	assert.Contains(t, got, "Соңғы нәтиже: 1/2 (🟢 Жеңіл)")
}
