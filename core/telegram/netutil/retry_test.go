package netutil

import (
	"context"
	"errors"
	"net"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v4"
)

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain", err: errors.New("boom"), want: false},
		{name: "dial", err: &net.OpError{Op: "dial", Err: errors.New("refused")}, want: true},
		{name: "url timeout", err: &url.Error{Op: "Post", URL: "x", Err: context.DeadlineExceeded}, want: true},
		{name: "flood", err: tele.FloodError{RetryAfter: 3}, want: true},
		{name: "bad request", err: tele.ErrSameMessageContent, want: false},
		{name: "server error", err: errors.New("telegram: Internal Server Error (502)"), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldRetry(tt.err))
		})
	}
}

func TestRetryAfterCapsWait(t *testing.T) {
	wait, ok := RetryAfter(tele.FloodError{RetryAfter: 5})
	assert.True(t, ok)
	assert.Equal(t, 5*time.Second, wait)

	wait, ok = RetryAfter(tele.FloodError{RetryAfter: 600})
	assert.True(t, ok)
	assert.Equal(t, maxFloodWait, wait)

	_, ok = RetryAfter(errors.New("x"))
	assert.False(t, ok)
}
