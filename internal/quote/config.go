package quote

import (
	"time"

	"marketlink/internal/candlestick"
	"marketlink/internal/model/enum"
	"marketlink/internal/obs"
)

const (
	DefaultCacheTTL         = 30 * time.Minute
	DefaultTradesCapacity   = 500
	DefaultSeriesCapacity   = 1000
	DefaultCommandQueueSize = 64
	DefaultPushQueueSize    = 4096
)

// Config tunes a QuoteContext. Zero fields take the defaults.
type Config struct {
	// Markets holds the session tables and trade type rules per market.
	Markets map[enum.Market]*candlestick.Market
	// HalfDays lists known half trading days per market as market-local dates.
	HalfDays map[enum.Market][]time.Time

	CacheTTL         time.Duration
	TradesCapacity   int
	SeriesCapacity   int
	CommandQueueSize int
	PushQueueSize    int

	// Metrics receives push and request counters when set.
	Metrics *obs.Metrics

	// RefreshCalendar pulls trading sessions and half trading days from the
	// venue when the core starts. Configured values stay on failure.
	RefreshCalendar bool
}

// DefaultConfig returns the built-in market tables and capacities.
func DefaultConfig() Config {
	return Config{
		Markets:          candlestick.DefaultMarkets(),
		CacheTTL:         DefaultCacheTTL,
		TradesCapacity:   DefaultTradesCapacity,
		SeriesCapacity:   DefaultSeriesCapacity,
		CommandQueueSize: DefaultCommandQueueSize,
		PushQueueSize:    DefaultPushQueueSize,
		RefreshCalendar:  true,
	}
}

func (c Config) normalize() Config {
	if c.Markets == nil {
		c.Markets = candlestick.DefaultMarkets()
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.TradesCapacity <= 0 {
		c.TradesCapacity = DefaultTradesCapacity
	}
	if c.SeriesCapacity <= 0 {
		c.SeriesCapacity = DefaultSeriesCapacity
	}
	if c.CommandQueueSize <= 0 {
		c.CommandQueueSize = DefaultCommandQueueSize
	}
	if c.PushQueueSize <= 0 {
		c.PushQueueSize = DefaultPushQueueSize
	}
	return c
}
