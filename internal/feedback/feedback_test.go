package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSink struct{}

func (failingSink) Append(context.Context, Entry) error { return errors.New("boom") }

func readEntries(t *testing.T, path string) []Entry {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out []Entry
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestSubmitAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback.json")
	svc := NewService(NewJSONSink(path, time.Second))
	svc.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	ctx := context.Background()

	first, err := svc.Submit(ctx, 1, "aru", "  Керемет бот!  ")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, 2, "", "Тағы сұрақ қосыңыз")
	require.NoError(t, err)

	entries := readEntries(t, path)
	require.Len(t, entries, 2)
	assert.Equal(t, first.ID, entries[0].ID)
	assert.Equal(t, "Керемет бот!", entries[0].Text)
	assert.Equal(t, "aru", entries[0].Username)
	assert.Equal(t, int64(2), entries[1].UserID)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
	assert.True(t, entries[0].CreatedAt.Equal(svc.now()))
}

func TestSubmitRejectsEmpty(t *testing.T) {
	svc := NewService(NewJSONSink(filepath.Join(t.TempDir(), "f.json"), time.Second))
	_, err := svc.Submit(context.Background(), 1, "", "   ")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestSubmitTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.json")
	svc := NewService(NewJSONSink(path, time.Second))
	e, err := svc.Submit(context.Background(), 1, "", strings.Repeat("ә", MaxTextLength+10))
	require.NoError(t, err)
	assert.Equal(t, MaxTextLength, len([]rune(e.Text)))
}

func TestSubmitSinkError(t *testing.T) {
	svc := NewService(failingSink{})
	_, err := svc.Submit(context.Background(), 1, "", "hi")
	assert.EqualError(t, err, "boom")
}

func TestJSONSinkRecoversFromMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	sink := NewJSONSink(path, time.Second)
	require.NoError(t, sink.Append(context.Background(), Entry{UserID: 1, Text: "ok"}))
	assert.Len(t, readEntries(t, path), 1)
}

func TestJSONSinkKeepsEarlierLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback.json")
	legacy := `[
  {"user_id": 11, "username": null, "text": "Рақмет!", "created_at": "2024-05-01 12:30"},
  {"user_id": 12, "username": "dana", "text": "40 саны туралы көбірек", "created_at": "2024-05-02 09:05"}
]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))

	svc := NewService(NewJSONSink(path, time.Second))
	_, err := svc.Submit(context.Background(), 13, "aru", "Жаңа пікір")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var docs []map[string]any
	require.NoError(t, json.Unmarshal(data, &docs))
	require.Len(t, docs, 3)

	assert.Equal(t, "2024-05-01 12:30", docs[0]["created_at"])
	assert.Nil(t, docs[0]["username"])
	assert.Equal(t, "Рақмет!", docs[0]["text"])
	assert.Equal(t, "dana", docs[1]["username"])
	assert.Equal(t, "Жаңа пікір", docs[2]["text"])
	assert.EqualValues(t, 13, docs[2]["user_id"])
	assert.NotEmpty(t, docs[2]["id"])
}
