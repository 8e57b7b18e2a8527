package telegram

import (
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/commedeschamps/KieliSan/core/telegram/netutil"
)

const (
	dialTimeout      = 5 * time.Second
	keepAlive        = 30 * time.Second
	tlsTimeout       = 5 * time.Second
	idleConnTimeout  = 30 * time.Second
	headerTimeout    = 5 * time.Second
	clientTimeout    = 30 * time.Second
	pollHeadroom     = 10 * time.Second
	transportRetries = 3
	transportBackoff = 2 * time.Second
)

var errBodyNotReplayable = errors.New("telegram: request body cannot be replayed")

// BuildHTTPClient returns the client telebot talks to the Bot API with.
// getUpdates holds the response for up to pollTimeout, so the header and
// overall timeouts are stretched past it.
func BuildHTTPClient(pollTimeout time.Duration) *http.Client {
	header, overall := headerTimeout, clientTimeout
	if pollTimeout > 0 {
		header = max(header, pollTimeout+pollHeadroom)
		overall = max(overall, pollTimeout+2*pollHeadroom)
	}
	dialer := &net.Dialer{Timeout: dialTimeout, KeepAlive: keepAlive}
	base := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       idleConnTimeout,
		TLSHandshakeTimeout:   tlsTimeout,
		ResponseHeaderTimeout: header,
		ExpectContinueTimeout: time.Second,
	}
	return &http.Client{
		Timeout:   overall,
		Transport: &retryTransport{base: base, retries: transportRetries, backoff: transportBackoff},
	}
}

// retryTransport repeats a request after dial failures and timeouts, with
// a linearly growing pause.
type retryTransport struct {
	base    http.RoundTripper
	retries int
	backoff time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	for attempt := 1; err != nil && attempt <= t.retries && netutil.ShouldRetry(err); attempt++ {
		if waitErr := sleepCtx(req, t.backoff*time.Duration(attempt)); waitErr != nil {
			return nil, waitErr
		}
		retry, rewindErr := rewind(req)
		if rewindErr != nil {
			return nil, err
		}
		resp, err = t.base.RoundTrip(retry)
	}
	return resp, err
}

// rewind clones req with a fresh body for another attempt.
func rewind(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return clone, nil
	}
	if req.GetBody == nil {
		return nil, errBodyNotReplayable
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	clone.Body = body
	return clone, nil
}

func sleepCtx(req *http.Request, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-req.Context().Done():
		return req.Context().Err()
	case <-timer.C:
		return nil
	}
}
