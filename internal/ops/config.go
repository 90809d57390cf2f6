package ops

import (
	"os"
	"strconv"
	"strings"
	"time"

	"marketlink/internal/candlestick"
	"marketlink/internal/model/enum"
	"marketlink/internal/quote"
	"marketlink/pkg/conn"
	"marketlink/pkg/exception"
	"marketlink/pkg/rest"
	"marketlink/pkg/websocket"

	"github.com/joho/godotenv"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"gopkg.in/yaml.v3"
)

// Environment variables holding secrets. They are never read from the file.
const (
	EnvAppKey           = "MARKETLINK_APP_KEY"
	EnvAppSecret        = "MARKETLINK_APP_SECRET"
	EnvAccessToken      = "MARKETLINK_ACCESS_TOKEN"
	EnvPostgresPassword = "MARKETLINK_PG_PASSWORD"
)

const (
	defaultHTTPURL  = "https://openapi.longportapp.com"
	defaultQuoteURL = "wss://openapi-quote.longportapp.com/v2"
	defaultTradeURL = "wss://openapi-trade.longportapp.com/v2"
)

// FileConfig mirrors the YAML config layout.
type FileConfig struct {
	Endpoints EndpointsConfig         `yaml:"endpoints"`
	Quote     QuoteConfig             `yaml:"quote"`
	Markets   map[string]MarketConfig `yaml:"markets"`
	Postgres  PostgresConfig          `yaml:"postgres"`
}

type EndpointsConfig struct {
	HTTP  string `yaml:"http"`
	Quote string `yaml:"quote"`
	Trade string `yaml:"trade"`

	// PingInterval keeps idle streams alive. Zero uses the client default.
	PingInterval time.Duration `yaml:"ping_interval"`
}

type QuoteConfig struct {
	CacheTTL        time.Duration `yaml:"cache_ttl"`
	TradesCapacity  int           `yaml:"trades_capacity"`
	SeriesCapacity  int           `yaml:"series_capacity"`
	PushQueueSize   int           `yaml:"push_queue_size"`
	RefreshCalendar *bool         `yaml:"refresh_calendar"`
}

// MarketConfig overrides the built-in tables of one market. Windows are
// written as "HH:MM-HH:MM" in market-local time.
type MarketConfig struct {
	Timezone   string                        `yaml:"timezone"`
	Sessions   map[string]SessionTableConfig `yaml:"sessions"`
	HalfDays   []string                      `yaml:"half_days"`
	TradeTypes map[string]string             `yaml:"trade_types"`
}

type SessionTableConfig struct {
	Normal  []string `yaml:"normal"`
	HalfDay []string `yaml:"half_day"`
}

type PostgresConfig struct {
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	User     string            `yaml:"user"`
	Database string            `yaml:"database"`
	SSLMode  string            `yaml:"ssl_mode"`
	Params   map[string]string `yaml:"params"`
}

// Credentials authenticate both the REST API and the streams.
type Credentials struct {
	AppKey      string
	AppSecret   string
	AccessToken string
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	HTTPURL      string
	QuoteURL     string
	TradeURL     string
	PingInterval time.Duration
	Credentials  Credentials
	Quote        quote.Config
	Postgres     conn.Option
}

// Rest returns the REST client config.
func (l Loaded) Rest() rest.Config {
	return rest.Config{
		BaseURL:     l.HTTPURL,
		AppKey:      l.Credentials.AppKey,
		AppSecret:   l.Credentials.AppSecret,
		AccessToken: l.Credentials.AccessToken,
	}
}

// QuoteStream returns the options of the quote stream connection.
func (l Loaded) QuoteStream() websocket.Option {
	return l.stream(l.QuoteURL)
}

// TradeStream returns the options of the trade stream connection.
func (l Loaded) TradeStream() websocket.Option {
	return l.stream(l.TradeURL)
}

func (l Loaded) stream(url string) websocket.Option {
	return websocket.Option{
		URL:          url,
		PingInterval: l.PingInterval,
		OnConnect:    websocket.TokenAuth(l.Credentials.AccessToken, nil),
	}
}

// Load reads the YAML file at path, or uses the defaults when path is empty,
// then takes the credentials from the environment. A non-empty envPath is
// loaded into the environment first.
func Load(path, envPath string) (Loaded, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			logs.Warnf("ops: load env file %s, err: %+v", envPath, err)
		}
	}

	var cfg FileConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Loaded{}, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Loaded{}, errors.Wrapf(err, "parse config %s", path)
		}
	}
	return resolve(cfg, os.Getenv)
}

func resolve(cfg FileConfig, getenv func(string) string) (Loaded, error) {
	quoteCfg, err := resolveQuote(cfg.Quote, cfg.Markets)
	if err != nil {
		return Loaded{}, err
	}

	loaded := Loaded{
		HTTPURL:      firstNonEmpty(cfg.Endpoints.HTTP, defaultHTTPURL),
		QuoteURL:     firstNonEmpty(cfg.Endpoints.Quote, defaultQuoteURL),
		TradeURL:     firstNonEmpty(cfg.Endpoints.Trade, defaultTradeURL),
		PingInterval: cfg.Endpoints.PingInterval,
		Credentials: Credentials{
			AppKey:      getenv(EnvAppKey),
			AppSecret:   getenv(EnvAppSecret),
			AccessToken: getenv(EnvAccessToken),
		},
		Quote: quoteCfg,
		Postgres: conn.Option{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: getenv(EnvPostgresPassword),
			Database: cfg.Postgres.Database,
			SSLMode:  cfg.Postgres.SSLMode,
			Params:   cfg.Postgres.Params,
		},
	}
	return loaded, nil
}

// Validate reports missing credentials.
func (l Loaded) Validate() error {
	var missing []string
	if l.Credentials.AppKey == "" {
		missing = append(missing, EnvAppKey)
	}
	if l.Credentials.AppSecret == "" {
		missing = append(missing, EnvAppSecret)
	}
	if l.Credentials.AccessToken == "" {
		missing = append(missing, EnvAccessToken)
	}
	if len(missing) != 0 {
		return errors.Wrap(exception.ErrMissingCredential, strings.Join(missing, ", "))
	}
	return nil
}

func resolveQuote(cfg QuoteConfig, markets map[string]MarketConfig) (quote.Config, error) {
	out := quote.DefaultConfig()
	if cfg.CacheTTL > 0 {
		out.CacheTTL = cfg.CacheTTL
	}
	if cfg.TradesCapacity > 0 {
		out.TradesCapacity = cfg.TradesCapacity
	}
	if cfg.SeriesCapacity > 0 {
		out.SeriesCapacity = cfg.SeriesCapacity
	}
	if cfg.PushQueueSize > 0 {
		out.PushQueueSize = cfg.PushQueueSize
	}
	if cfg.RefreshCalendar != nil {
		out.RefreshCalendar = *cfg.RefreshCalendar
	}

	for name, mc := range markets {
		m, ok := enum.ParseMarket(strings.ToUpper(name))
		if !ok {
			return quote.Config{}, errors.Wrapf(exception.ErrInvalidArgument, "unknown market %q", name)
		}
		market, ok := out.Markets[m]
		if !ok {
			market = &candlestick.Market{Market: m, Location: time.UTC}
			out.Markets[m] = market
		}
		if err := applyMarket(market, mc); err != nil {
			return quote.Config{}, errors.Wrapf(err, "market %s", name)
		}
		if len(mc.HalfDays) != 0 {
			days, err := parseDates(mc.HalfDays)
			if err != nil {
				return quote.Config{}, errors.Wrapf(err, "market %s", name)
			}
			if out.HalfDays == nil {
				out.HalfDays = make(map[enum.Market][]time.Time)
			}
			out.HalfDays[m] = days
		}
	}
	return out, nil
}

func applyMarket(market *candlestick.Market, mc MarketConfig) error {
	if mc.Timezone != "" {
		loc, err := time.LoadLocation(mc.Timezone)
		if err != nil {
			return errors.Wrapf(err, "timezone %s", mc.Timezone)
		}
		market.Location = loc
	}

	if market.Tables == nil {
		market.Tables = make(map[enum.TradeSessions]candlestick.SessionTable)
	}
	if market.Rules == nil {
		market.Rules = make(map[string]candlestick.UpdateFields)
	}

	for name, tc := range mc.Sessions {
		var sessions enum.TradeSessions
		switch name {
		case "intraday":
			sessions = enum.TradeSessionsIntraday
		case "all":
			sessions = enum.TradeSessionsAll
		default:
			return errors.Wrapf(exception.ErrInvalidArgument, "unknown session set %q", name)
		}
		normal, err := parseWindows(tc.Normal)
		if err != nil {
			return err
		}
		halfDay, err := parseWindows(tc.HalfDay)
		if err != nil {
			return err
		}
		market.Tables[sessions] = candlestick.NewSessionTable(normal, halfDay)
	}

	for code, rule := range mc.TradeTypes {
		fields, err := parseRule(rule)
		if err != nil {
			return errors.Wrapf(err, "trade type %q", code)
		}
		market.Rules[code] = fields
	}
	return nil
}

func parseWindows(list []string) ([]candlestick.Window, error) {
	if len(list) == 0 {
		return nil, nil
	}
	out := make([]candlestick.Window, 0, len(list))
	for _, s := range list {
		start, end, ok := strings.Cut(s, "-")
		if !ok {
			return nil, errors.Wrapf(exception.ErrInvalidArgument, "window %q", s)
		}
		from, err := parseClock(start)
		if err != nil {
			return nil, errors.Wrapf(err, "window %q", s)
		}
		to, err := parseClock(end)
		if err != nil {
			return nil, errors.Wrapf(err, "window %q", s)
		}
		if to < from {
			return nil, errors.Wrapf(exception.ErrInvalidArgument, "window %q ends before it starts", s)
		}
		out = append(out, candlestick.Window{Start: from, End: to})
	}
	return out, nil
}

func parseClock(s string) (time.Duration, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, errors.Wrapf(exception.ErrInvalidArgument, "clock %q", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, errors.Wrapf(exception.ErrInvalidArgument, "clock %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, errors.Wrapf(exception.ErrInvalidArgument, "clock %q", s)
	}
	if h < 0 || h > 24 || m < 0 || m >= 60 || (h == 24 && m != 0) {
		return 0, errors.Wrapf(exception.ErrInvalidArgument, "clock %q", s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}

func parseRule(s string) (candlestick.UpdateFields, error) {
	switch strings.ToLower(s) {
	case "all":
		return candlestick.UpdateFields{Price: true, Volume: true}, nil
	case "volume":
		return candlestick.UpdateFields{Volume: true}, nil
	case "none":
		return candlestick.UpdateFields{}, nil
	default:
		return candlestick.UpdateFields{}, errors.Wrapf(exception.ErrInvalidArgument, "rule %q", s)
	}
}

func parseDates(list []string) ([]time.Time, error) {
	out := make([]time.Time, 0, len(list))
	for _, s := range list {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, errors.Wrapf(exception.ErrInvalidArgument, "date %q", s)
		}
		out = append(out, d)
	}
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
