package ops

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"marketlink/internal/candlestick"
	"marketlink/internal/model/enum"
	"marketlink/pkg/exception"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
endpoints:
  http: https://api.example.com
  ping_interval: 20s
quote:
  cache_ttl: 5m
  series_capacity: 200
  refresh_calendar: false
markets:
  hk:
    sessions:
      intraday:
        normal: ["09:30-12:00", "13:00-16:10"]
        half_day: ["09:30-12:00"]
    half_days: ["2024-12-24", "2024-12-31"]
    trade_types:
      D: all
      Z: none
postgres:
  host: db
  database: marketlink
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvAppKey, "key")
	t.Setenv(EnvAppSecret, "secret")
	t.Setenv(EnvAccessToken, "token")
	t.Setenv(EnvPostgresPassword, "pw")

	cfg, err := Load(writeConfig(t, sampleConfig), "")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "https://api.example.com", cfg.HTTPURL)
	assert.Equal(t, defaultQuoteURL, cfg.QuoteURL)
	assert.Equal(t, 5*time.Minute, cfg.Quote.CacheTTL)
	assert.Equal(t, 200, cfg.Quote.SeriesCapacity)
	assert.False(t, cfg.Quote.RefreshCalendar)

	hk := cfg.Quote.Markets[enum.MarketHK]
	require.NotNil(t, hk)
	table := hk.Table(enum.TradeSessionsIntraday)
	assert.Equal(t, candlestick.NewWindow(13, 0, 16, 10), table.Normal[1])
	assert.Len(t, table.HalfDay, 1)
	assert.Equal(t, candlestick.UpdateFields{Price: true, Volume: true}, hk.UpdateFields("D"))
	assert.Equal(t, candlestick.UpdateFields{}, hk.UpdateFields("Z"))
	assert.Equal(t, candlestick.UpdateFields{Volume: true}, hk.UpdateFields("P"))
	assert.Len(t, cfg.Quote.HalfDays[enum.MarketHK], 2)

	assert.Equal(t, "db", cfg.Postgres.Host)
	assert.Equal(t, "pw", cfg.Postgres.Password)

	stream := cfg.QuoteStream()
	assert.Equal(t, defaultQuoteURL, stream.URL)
	assert.Equal(t, 20*time.Second, stream.PingInterval)
	assert.NotNil(t, stream.OnConnect)
	assert.Equal(t, defaultTradeURL, cfg.TradeStream().URL)

	r := cfg.Rest()
	assert.Equal(t, "key", r.AppKey)
	assert.Equal(t, "token", r.AccessToken)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := resolve(FileConfig{}, func(string) string { return "" })
	require.NoError(t, err)

	assert.Equal(t, defaultHTTPURL, cfg.HTTPURL)
	assert.Equal(t, defaultTradeURL, cfg.TradeURL)
	assert.True(t, cfg.Quote.RefreshCalendar)
	assert.Contains(t, cfg.Quote.Markets, enum.MarketUS)
	assert.ErrorIs(t, cfg.Validate(), exception.ErrMissingCredential)
}

func TestLoadRejectsBadValues(t *testing.T) {
	testCases := []struct {
		desc   string
		config string
	}{
		{desc: "unknown market", config: "markets:\n  XX: {}\n"},
		{desc: "unknown session set", config: "markets:\n  HK:\n    sessions:\n      night:\n        normal: [\"09:00-10:00\"]\n"},
		{desc: "inverted window", config: "markets:\n  HK:\n    sessions:\n      intraday:\n        normal: [\"12:00-09:30\"]\n"},
		{desc: "bad clock", config: "markets:\n  HK:\n    sessions:\n      intraday:\n        normal: [\"9h30-12:00\"]\n"},
		{desc: "bad rule", config: "markets:\n  US:\n    trade_types:\n      A: price\n"},
		{desc: "bad half day", config: "markets:\n  US:\n    half_days: [\"20241129\"]\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.config), "")
			assert.ErrorIs(t, err, exception.ErrInvalidArgument)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(env, []byte("MARKETLINK_APP_KEY=from-file\n"), 0o600))
	t.Setenv(EnvAppKey, "")
	require.NoError(t, os.Unsetenv(EnvAppKey))

	cfg, err := Load("", env)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Credentials.AppKey)
}
