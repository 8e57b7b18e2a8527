package telegram

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	coreconfig "github.com/commedeschamps/KieliSan/core/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

func TestBuildPoller(t *testing.T) {
	p := BuildPoller(PollerOptions{RunMode: "longpoll"})
	lp, ok := p.(*tele.LongPoller)
	require.True(t, ok)
	assert.Equal(t, 10*time.Second, lp.Timeout)

	p = BuildPoller(PollerOptions{
		RunMode: " Webhook ",
		Webhook: WebhookOptions{Listen: "0.0.0.0", Port: 8443, URL: "https://example.org/hook"},
	})
	wh, ok := p.(*tele.Webhook)
	require.True(t, ok)
	assert.Equal(t, "0.0.0.0:8443", wh.Listen)
	assert.Equal(t, "https://example.org/hook", wh.Endpoint.PublicURL)
}

func TestBuildHTTPClientOutlastsLongPoll(t *testing.T) {
	c := BuildHTTPClient(25 * time.Second)
	assert.Equal(t, 45*time.Second, c.Timeout)
	rt, ok := c.Transport.(*retryTransport)
	require.True(t, ok)
	tr, ok := rt.base.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 35*time.Second, tr.ResponseHeaderTimeout)

	c = BuildHTTPClient(0)
	assert.Equal(t, 30*time.Second, c.Timeout)
}

func TestPollerOptionsFrom(t *testing.T) {
	cfg := &coreconfig.Config{
		Telegram: coreconfig.TelegramConfig{RunMode: "webhook", LongPollTimeoutSeconds: 30},
		Webhook:  coreconfig.WebhookConfig{Listen: "127.0.0.1", Port: 8080, URL: "https://bot.example.kz/hook"},
	}
	opts := PollerOptionsFrom(cfg)
	assert.Equal(t, "webhook", opts.RunMode)
	assert.Equal(t, 30*time.Second, opts.LongPollTimeout())
	assert.Equal(t, 8080, opts.Webhook.Port)
}

type flakyTransport struct {
	fails int
	calls int
}

func (f *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.calls++
	if f.calls <= f.fails {
		return nil, &net.OpError{Op: "dial", Err: errors.New("refused")}
	}
	return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: req}, nil
}

func TestRetryTransportRetriesDialErrors(t *testing.T) {
	base := &flakyTransport{fails: 2}
	rt := &retryTransport{base: base, retries: 3, backoff: time.Millisecond}
	req, err := http.NewRequest(http.MethodPost, "https://api.telegram.org/botX/getMe", strings.NewReader("{}"))
	require.NoError(t, err)

	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, base.calls)
}

func TestRetryTransportGivesUp(t *testing.T) {
	base := &flakyTransport{fails: 10}
	rt := &retryTransport{base: base, retries: 2, backoff: time.Millisecond}
	req, err := http.NewRequest(http.MethodGet, "https://api.telegram.org/botX/getMe", nil)
	require.NoError(t, err)

	_, err = rt.RoundTrip(req)
	assert.Error(t, err)
	assert.Equal(t, 3, base.calls)
}
