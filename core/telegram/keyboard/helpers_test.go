package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk(t *testing.T) {
	btns := make([]InlineBtn, 7)
	rows := Chunk(btns, 3)
	require.Len(t, rows, 3)
	assert.Len(t, rows[0], 3)
	assert.Len(t, rows[2], 1)
	assert.Len(t, Chunk(btns, 0), 7)
}

func TestInlineButtonsRowsSkipsEmptyRows(t *testing.T) {
	m := InlineButtonsRows(
		[]InlineBtn{{Text: "7", Unique: "num.show", Data: "7"}},
		nil,
		[]InlineBtn{{Text: "menu", Unique: "menu.back"}},
	)
	require.Len(t, m.InlineKeyboard, 2)
	assert.Equal(t, "num.show", m.InlineKeyboard[0][0].Unique)
	assert.Equal(t, "7", m.InlineKeyboard[0][0].Text)
	assert.Equal(t, "menu.back", m.InlineKeyboard[1][0].Unique)
}

func TestReplyButtons(t *testing.T) {
	m := ReplyButtons([]string{"a", "b"}, []string{"c"})
	require.Len(t, m.ReplyKeyboard, 2)
	assert.Equal(t, "b", m.ReplyKeyboard[0][1].Text)
	assert.True(t, m.ResizeKeyboard)
}
