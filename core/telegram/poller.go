package telegram

import (
	"net"
	"strconv"
	"strings"
	"time"

	coreconfig "github.com/commedeschamps/KieliSan/core/config"

	tele "gopkg.in/telebot.v4"
)

// defaultLongPollTimeout applies when telegram.longpoll_timeout_seconds is unset.
const defaultLongPollTimeout = 10 * time.Second

// WebhookOptions is where the webhook listens and the URL Telegram posts to.
type WebhookOptions struct {
	Listen string
	Port   int
	URL    string
}

// PollerOptions selects and tunes the update source.
type PollerOptions struct {
	RunMode                string
	LongPollTimeoutSeconds int
	Webhook                WebhookOptions
}

// LongPollTimeout is the getUpdates hold time, defaulting to 10s.
func (o PollerOptions) LongPollTimeout() time.Duration {
	if n := o.LongPollTimeoutSeconds; n > 0 {
		return time.Duration(n) * time.Second
	}
	return defaultLongPollTimeout
}

// PollerOptionsFrom copies the telegram and webhook sections of cfg.
func PollerOptionsFrom(cfg *coreconfig.Config) PollerOptions {
	return PollerOptions{
		RunMode:                cfg.Telegram.RunMode,
		LongPollTimeoutSeconds: cfg.Telegram.LongPollTimeoutSeconds,
		Webhook: WebhookOptions{
			Listen: cfg.Webhook.Listen,
			Port:   cfg.Webhook.Port,
			URL:    cfg.Webhook.URL,
		},
	}
}

// Addr joins Listen and Port into a listener address.
func (w WebhookOptions) Addr() string {
	return net.JoinHostPort(w.Listen, strconv.Itoa(w.Port))
}

// BuildPoller picks a webhook listener in webhook mode and a long poller
// for anything else.
func BuildPoller(opts PollerOptions) tele.Poller {
	if !strings.EqualFold(strings.TrimSpace(opts.RunMode), coreconfig.RunModeWebhook) {
		return &tele.LongPoller{Timeout: opts.LongPollTimeout()}
	}
	return &tele.Webhook{
		Listen:   opts.Webhook.Addr(),
		Endpoint: &tele.WebhookEndpoint{PublicURL: opts.Webhook.URL},
	}
}
