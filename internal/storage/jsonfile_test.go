package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadJSONMissingAndEmpty(t *testing.T) {
	dir := t.TempDir()
	var v map[string]int
	require.NoError(t, ReadJSON(filepath.Join(dir, "nope.json"), &v))
	assert.Nil(t, v)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte("  \n"), 0o600))
	require.NoError(t, ReadJSON(empty, &v))
	assert.Nil(t, v)
}

func TestReadJSONMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0o600))
	var v map[string]int
	assert.ErrorIs(t, ReadJSON(path, &v), ErrMalformed)
}

func TestWriteJSONAtomicReplace(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "runtime")
	path := filepath.Join(dir, "doc.json")
	require.NoError(t, WriteJSON(path, map[string]string{"name": "Әлем <b>"}))
	require.NoError(t, WriteJSON(path, map[string]string{"name": "жеті"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"жеті\"\n}\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestEncodeKeepsHTML(t *testing.T) {
	data, err := Encode([]string{"<hr>"})
	require.NoError(t, err)
	assert.Equal(t, "[\n  \"<hr>\"\n]\n", string(data))
}

func TestLockTimeout(t *testing.T) {
	l := NewLock(20 * time.Millisecond)
	release, err := l.Acquire(context.Background())
	require.NoError(t, err)

	_, err = l.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrLockTimeout)

	release()
	release2, err := l.Acquire(context.Background())
	require.NoError(t, err)
	release2()
}

func TestLockCancelled(t *testing.T) {
	l := NewLock(0)
	release, err := l.Acquire(context.Background())
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
