package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/commedeschamps/KieliSan/core/bootstrap"
	"github.com/commedeschamps/KieliSan/internal/bot"
	"github.com/commedeschamps/KieliSan/internal/config"
	"github.com/commedeschamps/KieliSan/internal/feedback"
	"github.com/commedeschamps/KieliSan/internal/stats"
)

func testConfig(t *testing.T, contentDir string) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Telegram.Token = "test-token"
	cfg.Telegram.AdminID = 42
	cfg.Storage = config.StorageConfig{Driver: config.DriverJSON, RuntimeDir: t.TempDir(), LockTimeoutMS: 200}
	cfg.Content = config.ContentConfig{Dir: contentDir}
	cfg.Leaderboard.TopLimit = 5
	return cfg
}

func noBootstrap(bootstrap.Options) (*bootstrap.Result, error) {
	return &bootstrap.Result{}, nil
}

func TestNewWiresRoutes(t *testing.T) {
	a, err := New(testConfig(t, "../content/testdata/valid"), Options{Bootstrap: noBootstrap})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	opts, err := a.TelegramRunOptions()
	require.NoError(t, err)
	assert.Equal(t, "test-token", opts.Config.Telegram.Token)
	assert.NotEmpty(t, opts.Middlewares)

	endpoints := make(map[any]bool, len(opts.Routes))
	for _, r := range opts.Routes {
		endpoints[r.Endpoint] = true
	}
	for _, ep := range []any{"/start", "/stats", "/reload", tele.OnText, tele.OnCallback, tele.OnQuery} {
		assert.True(t, endpoints[ep], "missing route %v", ep)
	}
	assert.Len(t, opts.Registry.ListCallbacks(), len(bot.Uniques()))
}

func TestNewFailsOnBadContent(t *testing.T) {
	_, err := New(testConfig(t, "../content/testdata/bad"), Options{Bootstrap: noBootstrap})
	assert.Error(t, err)
}

func TestNewStoresByDriver(t *testing.T) {
	cfg := testConfig(t, "")
	store, sink, err := newStores(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &stats.JSONStore{}, store)
	assert.IsType(t, &feedback.JSONSink{}, sink)

	cfg.Storage.Driver = config.DriverPostgres
	_, _, err = newStores(cfg, nil)
	assert.Error(t, err)
}
