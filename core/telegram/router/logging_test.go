package router

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type codedErr struct{ code string }

func (e *codedErr) Error() string { return e.code }
func (e *codedErr) Code() string { return e.code }

type plainErr struct{}

func (plainErr) Error() string { return "plain" }

func TestDeriveErrorCode(t *testing.T) {
	assert.Equal(t, "", deriveErrorCode(nil))
	assert.Equal(t, "STALE_ANSWER", deriveErrorCode(&codedErr{code: "stale answer"}))
	wrapped := fmt.Errorf("quiz: %w", &codedErr{code: "lock_timeout"})
	assert.Equal(t, "LOCK_TIMEOUT", deriveErrorCode(wrapped))
	assert.Equal(t, "PLAINERR", deriveErrorCode(plainErr{}))
	assert.NotEmpty(t, deriveErrorCode(errors.New("x")))
}

func TestNormalizeHandlerName(t *testing.T) {
	assert.Equal(t, "unknown", normalizeHandlerName("  "))
	assert.Equal(t, "start", normalizeHandlerName("/Start"))
	assert.Equal(t, "quiz.ans", normalizeHandlerName("quiz.ans"))
}
