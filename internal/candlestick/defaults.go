package candlestick

import (
	"time"
	_ "time/tzdata"

	"marketlink/internal/model/enum"
)

var volumeOnly = UpdateFields{Volume: true}

// DefaultMarkets returns the built-in tables of every supported market.
// Callers own the returned values and may override any of them.
func DefaultMarkets() map[enum.Market]*Market {
	return map[enum.Market]*Market{
		enum.MarketHK: {
			Market:   enum.MarketHK,
			Location: loadLocation("Asia/Hong_Kong", 8),
			Tables: map[enum.TradeSessions]SessionTable{
				enum.TradeSessionsIntraday: NewSessionTable(
					[]Window{NewWindow(9, 30, 12, 0), NewWindow(13, 0, 16, 0)},
					[]Window{NewWindow(9, 30, 12, 0)},
				),
			},
			Rules: map[string]UpdateFields{
				"":  updateAll,
				"*": volumeOnly,
				"D": volumeOnly,
				"M": volumeOnly,
				"P": volumeOnly,
				"U": updateAll,
				"X": volumeOnly,
				"Y": updateAll,
			},
		},
		enum.MarketUS: {
			Market:   enum.MarketUS,
			Location: loadLocation("America/New_York", -5),
			Tables: map[enum.TradeSessions]SessionTable{
				enum.TradeSessionsIntraday: NewSessionTable(
					[]Window{NewWindow(9, 30, 16, 0)},
					[]Window{NewWindow(9, 30, 13, 0)},
				),
				enum.TradeSessionsAll: NewSessionTable(
					[]Window{NewWindow(4, 0, 9, 30), NewWindow(9, 30, 16, 0), NewWindow(16, 0, 20, 0)},
					[]Window{NewWindow(4, 0, 9, 30), NewWindow(9, 30, 13, 0), NewWindow(13, 0, 17, 0)},
				),
			},
			Rules: map[string]UpdateFields{
				"":  updateAll,
				"I": volumeOnly,
				"M": volumeOnly,
				"Q": volumeOnly,
				"W": volumeOnly,
				"Z": volumeOnly,
				"4": volumeOnly,
				"7": volumeOnly,
				"9": volumeOnly,
			},
		},
		enum.MarketCN: {
			Market:   enum.MarketCN,
			Location: loadLocation("Asia/Shanghai", 8),
			Tables: map[enum.TradeSessions]SessionTable{
				enum.TradeSessionsIntraday: NewSessionTable(
					[]Window{NewWindow(9, 30, 11, 30), NewWindow(13, 0, 15, 0)},
					nil,
				),
			},
			Rules: map[string]UpdateFields{},
		},
		enum.MarketSG: {
			Market:   enum.MarketSG,
			Location: loadLocation("Asia/Singapore", 8),
			Tables: map[enum.TradeSessions]SessionTable{
				enum.TradeSessionsIntraday: NewSessionTable(
					[]Window{NewWindow(9, 0, 12, 0), NewWindow(13, 0, 17, 0)},
					[]Window{NewWindow(9, 0, 12, 0)},
				),
			},
			Rules: map[string]UpdateFields{},
		},
	}
}

func loadLocation(name string, fallbackHours int) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, fallbackHours*int(time.Hour/time.Second))
	}
	return loc
}
