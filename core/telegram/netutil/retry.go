// Package netutil classifies transport errors returned while talking to the Bot API.
package netutil

import (
	"errors"
	"time"

	tele "gopkg.in/telebot.v4"
)

// maxFloodWait caps how long a single retry honours a 429 retry_after.
const maxFloodWait = 30 * time.Second

// retryable lists the Classify kinds that a second attempt can fix.
var retryable = map[string]bool{
	"timeout":  true,
	"dial":     true,
	"http_5xx": true,
}

// ShouldRetry reports whether err is transient: a timeout, a failed dial,
// a Bot API 5xx or a flood-control reply.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := RetryAfter(err); ok {
		return true
	}
	return retryable[Classify(err)]
}

// RetryAfter extracts the flood-control wait from a 429 reply.
func RetryAfter(err error) (time.Duration, bool) {
	var flood tele.FloodError
	if !errors.As(err, &flood) {
		return 0, false
	}
	return min(time.Duration(flood.RetryAfter)*time.Second, maxFloodWait), true
}
