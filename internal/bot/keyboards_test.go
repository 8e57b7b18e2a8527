package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commedeschamps/KieliSan/internal/content"
	"github.com/commedeschamps/KieliSan/internal/quiz"
)

func TestMainMenuLayout(t *testing.T) {
	m := mainMenuKeyboard()
	require.Len(t, m.ReplyKeyboard, 4)
	assert.Equal(t, MenuInfo, m.ReplyKeyboard[0][0].Text)
	assert.Equal(t, MenuAbout, m.ReplyKeyboard[3][1].Text)
}

func TestNumbersKeyboardRows(t *testing.T) {
	m := numbersKeyboard([]string{"3", "5", "7", "9", "40"})
	require.Len(t, m.InlineKeyboard, 3)
	assert.Len(t, m.InlineKeyboard[0], 3)
	assert.Len(t, m.InlineKeyboard[1], 2)

	random := m.InlineKeyboard[2][0]
	a, err := DecodeAction(random.Unique, random.Data)
	require.NoError(t, err)
	assert.Equal(t, KindNumberRandom, a.Kind)
}

func TestQuestionKeyboardMultiMarksSelection(t *testing.T) {
	v := quiz.View{
		Pool:     quiz.PoolCompare,
		Index:    2,
		Multi:    true,
		Selected: []string{"B"},
		Question: quiz.Question{Options: map[string]string{"A": "бір", "B": "екі"}, Correct: []string{"A", "B"}},
	}
	m := questionKeyboard(v)
	require.Len(t, m.InlineKeyboard, 4)
	assert.Equal(t, btnUnselected+" A) бір", m.InlineKeyboard[0][0].Text)
	assert.Equal(t, btnSelected+" B) екі", m.InlineKeyboard[1][0].Text)

	submit := m.InlineKeyboard[2][0]
	a, err := DecodeAction(submit.Unique, submit.Data)
	require.NoError(t, err)
	assert.Equal(t, Action{Kind: KindQuizSubmit, Pool: quiz.PoolCompare, Index: 2}, a)
}

func TestQuestionKeyboardSingle(t *testing.T) {
	v := quiz.View{
		Pool:     quiz.PoolNumbers,
		Question: quiz.Question{Options: map[string]string{"A": "бір", "B": "екі"}, Correct: []string{"A"}},
	}
	m := questionKeyboard(v)
	require.Len(t, m.InlineKeyboard, 3)
	a, err := DecodeAction(m.InlineKeyboard[1][0].Unique, m.InlineKeyboard[1][0].Data)
	require.NoError(t, err)
	assert.Equal(t, Action{Kind: KindQuizAnswer, Pool: quiz.PoolNumbers, Choice: "B"}, a)
}

func TestQuestionKeyboardsEndWithMenu(t *testing.T) {
	q := quiz.Question{Options: map[string]string{"A": "бір", "B": "екі"}, Correct: []string{"A"}}
	for _, multi := range []bool{false, true} {
		m := questionKeyboard(quiz.View{Pool: quiz.PoolNumbers, Multi: multi, Question: q})
		last := m.InlineKeyboard[len(m.InlineKeyboard)-1]
		require.Len(t, last, 1)
		a, err := DecodeAction(last[0].Unique, last[0].Data)
		require.NoError(t, err)
		assert.Equal(t, KindMenu, a.Kind, "multi=%v", multi)
	}
}

func TestCompareInfoKeyboard(t *testing.T) {
	m := compareInfoKeyboard("7")
	cultureRows := (len(content.Cultures) + 1) / 2
	require.Len(t, m.InlineKeyboard, cultureRows+3)

	first := m.InlineKeyboard[0][0]
	a, err := DecodeAction(first.Unique, first.Data)
	require.NoError(t, err)
	assert.Equal(t, CultureView(content.CultureKazakh), a.View)
}

func TestModeKeyboardStartsPool(t *testing.T) {
	m := modeKeyboard(quiz.PoolCompare)
	require.Len(t, m.InlineKeyboard, 3)
	btn := m.InlineKeyboard[1][1]
	a, err := DecodeAction(btn.Unique, btn.Data)
	require.NoError(t, err)
	assert.Equal(t, Action{Kind: KindQuizStart, Pool: quiz.PoolCompare, Mode: quiz.ModeMixed}, a)
}
