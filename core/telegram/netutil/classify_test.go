package netutil

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{context.DeadlineExceeded, "timeout"},
		{&net.OpError{Op: "dial", Err: errors.New("x")}, "dial"},
		{&net.DNSError{Err: "no such host", Name: "api.telegram.org"}, "dns"},
		{errors.New("Bad Request (400)"), "http_4xx"},
		{errors.New("boom"), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.err), "%v", tt.err)
	}
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "bot<redacted>/getMe", Redact(errors.New("bot123:AbC_d-9/getMe")))
	assert.Empty(t, Redact(nil))
}
