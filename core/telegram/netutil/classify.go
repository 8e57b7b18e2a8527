package netutil

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"regexp"
	"strconv"

	tele "gopkg.in/telebot.v4"
)

var (
	tokenRe      = regexp.MustCompile(`bot[0-9]+:[A-Za-z0-9_-]+`)
	statusTailRe = regexp.MustCompile(`\(\s*(\d{3})\s*\)\s*$`)
)

// Redact returns the error text with any bot token masked.
func Redact(err error) string {
	if err == nil {
		return ""
	}
	return tokenRe.ReplaceAllString(err.Error(), "bot<redacted>")
}

// kindRules are tried in order; the first match names the failure.
var kindRules = []struct {
	kind  string
	match func(error) bool
}{
	{"timeout", isTimeout},
	{"dns", func(err error) bool {
		var dnsErr *net.DNSError
		return errors.As(err, &dnsErr)
	}},
	{"dial", func(err error) bool {
		var opErr *net.OpError
		return errors.As(err, &opErr) && opErr.Op == "dial"
	}},
	{"tls", func(err error) bool {
		var alert tls.AlertError
		var verify *tls.CertificateVerificationError
		return errors.As(err, &alert) || errors.As(err, &verify)
	}},
	{"http_5xx", func(err error) bool { return StatusCode(err) >= 500 }},
	{"http_4xx", func(err error) bool { return StatusCode(err) >= 400 }},
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Classify names the failure for the error_kind log field: timeout, dns,
// dial, tls, http_4xx, http_5xx or unknown.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	for _, r := range kindRules {
		if r.match(err) {
			return r.kind
		}
	}
	return "unknown"
}

// StatusCode extracts the HTTP status of a Bot API failure. Errors that only
// carry the code as a trailing "(NNN)" in their text are parsed too.
func StatusCode(err error) int {
	if err == nil {
		return 0
	}
	var apiErr *tele.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var floodErr tele.FloodError
	if errors.As(err, &floodErr) {
		return http.StatusTooManyRequests
	}
	var groupErr tele.GroupError
	if errors.As(err, &groupErr) {
		return http.StatusBadRequest
	}
	m := statusTailRe.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	code, _ := strconv.Atoi(m[1])
	return code
}
