package logger

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// emit writes one record through a fresh handler and returns the line.
func emit(t *testing.T, format logFormat, stacks bool, ctx context.Context, component, event string, level slog.Level, attrs ...slog.Attr) string {
	t.Helper()
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	h := newStructuredHandler(handlerConfig{level: slog.LevelDebug, writer: aw, format: format, stacks: stacks})
	LogEvent(ctx, slog.New(h).With("component", component), level, event, attrs...)
	require.NoError(t, aw.Close())
	return strings.TrimSpace(buf.String())
}

func TestHandlerKVOrder(t *testing.T) {
	ctx := WithUpdateMeta(WithRID(Background(), "rid-123"), 42, 7, 9)
	line := emit(t, formatKV, false, ctx, "service.quiz", "quiz.started", slog.LevelInfo,
		slog.String("pool", "numbers"),
		slog.String("status", "OK"),
	)

	tokens := strings.Split(line, " ")
	want := []string{"ts=", "level=INFO", "component=service.quiz", "event=quiz.started", "status=ok", "rid=rid-123"}
	require.GreaterOrEqual(t, len(tokens), len(want), line)
	for i, prefix := range want {
		assert.True(t, strings.HasPrefix(tokens[i], prefix), "token %d = %s, want prefix %s", i, tokens[i], prefix)
	}
	assert.Contains(t, line, "update_id=42")
	assert.Contains(t, line, "pool=numbers")
}

func TestHandlerJSONOrder(t *testing.T) {
	ctx := WithUpdateMeta(WithRID(Background(), "rid-json"), 11, 22, 33)
	line := emit(t, formatJSON, false, ctx, "service.stats", "stats.save", slog.LevelError,
		slog.String("status", "fail"),
		slog.String("err", "lock timeout"),
	)

	require.True(t, strings.HasPrefix(line, "{"), line)
	pos := -1
	for _, part := range []string{`{"ts":`, `"level":"ERROR"`, `"component":"service.stats"`, `"event":"stats.save"`, `"status":"fail"`, `"rid":"rid-json"`} {
		idx := strings.Index(line, part)
		require.Greater(t, idx, pos, "%s out of order in %s", part, line)
		pos = idx
	}
	assert.Contains(t, line, `"ts_unix_nano"`)
}

func TestHandlerCompactsRID(t *testing.T) {
	raw := "123:456:789"
	ctx := WithRID(Background(), raw)

	kv := emit(t, formatKV, false, ctx, "tg", "rid.test", slog.LevelInfo)
	assert.Contains(t, kv, "rid="+CompactRID(raw))
	assert.NotContains(t, kv, "rid_full=")

	js := emit(t, formatJSON, false, ctx, "tg", "rid.test", slog.LevelInfo)
	assert.Contains(t, js, `"rid":"`+CompactRID(raw)+`"`)
	assert.Contains(t, js, `"rid_full":"`+raw+`"`)
}

func TestHandlerStacksAndDurations(t *testing.T) {
	attrs := []slog.Attr{
		slog.String("stack", "goroutine 1 [running]"),
		slog.Duration("duration", 1500*time.Microsecond),
	}
	line := emit(t, formatKV, false, Background(), "tg", "tg.panic", slog.LevelError, attrs...)
	assert.NotContains(t, line, "stack=")
	assert.Contains(t, line, "duration_ms=2")

	line = emit(t, formatKV, true, Background(), "tg", "tg.panic", slog.LevelError, attrs...)
	assert.Contains(t, line, `stack="goroutine 1 [running]"`)
}

func TestHandlerSanitizesEnums(t *testing.T) {
	line := emit(t, formatKV, false, Background(), "tg", "handler.handled", slog.LevelInfo,
		slog.String("outcome", "exploded"),
		slog.String("cache", "HIT"),
		slog.String("username", ""),
	)
	assert.NotContains(t, line, "outcome=")
	assert.Contains(t, line, "cache=hit")
	assert.NotContains(t, line, "username=")
}

func TestHandlerGroups(t *testing.T) {
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	h := newStructuredHandler(handlerConfig{writer: aw, format: formatKV})
	slog.New(h).WithGroup("quiz").Info("", slog.String("event", "x"), slog.Int("total", 5))
	require.NoError(t, aw.Close())

	assert.Contains(t, buf.String(), "quiz.total=5")
}

func TestDurationKey(t *testing.T) {
	cases := map[string]string{
		"duration":         "duration_ms",
		"startup_duration": "startup_duration_ms",
		"delay":            "delay_ms",
		"elapsed_ms":       "elapsed_ms",
	}
	for in, want := range cases {
		assert.Equal(t, want, durationKey(in), in)
	}
}
