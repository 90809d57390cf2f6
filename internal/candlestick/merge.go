package candlestick

import (
	"time"

	"marketlink/internal/model"
	"marketlink/internal/model/enum"

	"github.com/shopspring/decimal"
)

// ActionKind tells the caller what to do with the series.
type ActionKind uint8

const (
	// ActionNone leaves the series untouched.
	ActionNone ActionKind = iota
	// ActionUpdateLast replaces the last candle of the series.
	ActionUpdateLast
	// ActionAppendNew appends a new candle; the previous one is final.
	ActionAppendNew
)

func (k ActionKind) String() string {
	switch k {
	case ActionUpdateLast:
		return "update_last"
	case ActionAppendNew:
		return "append_new"
	default:
		return "none"
	}
}

// Action is the result of folding one trade into a series.
type Action struct {
	Kind        ActionKind
	Candlestick model.Candlestick
}

// UpdateFields says which candle fields a trade type contributes to.
type UpdateFields struct {
	Price  bool
	Volume bool
}

var updateAll = UpdateFields{Price: true, Volume: true}

// Market is the injected per-market configuration the merger consumes.
type Market struct {
	Market   enum.Market
	Location *time.Location
	// Tables holds the session table per admitted session set. A missing
	// TradeSessionsAll entry falls back to the intraday table.
	Tables map[enum.TradeSessions]SessionTable
	// Rules maps a venue trade-type code to the fields it updates.
	// Unknown codes update everything.
	Rules map[string]UpdateFields
}

// Table returns the session table for the given session set.
func (m *Market) Table(sessions enum.TradeSessions) SessionTable {
	if t, ok := m.Tables[sessions]; ok {
		return t
	}
	return m.Tables[enum.TradeSessionsIntraday]
}

// UpdateFields returns the inclusion rule of a trade type.
func (m *Market) UpdateFields(tradeType string) UpdateFields {
	if f, ok := m.Rules[tradeType]; ok {
		return f
	}
	return updateAll
}

// Local converts t into the market's location.
func (m *Market) Local(t time.Time) time.Time {
	if m.Location == nil {
		return t
	}
	return t.In(m.Location)
}

// BucketTime maps a raw timestamp to its bucket time in this market.
func (m *Market) BucketTime(sessions enum.TradeSessions, halfDay bool, period enum.Period, t time.Time) time.Time {
	return BucketTime(m.Table(sessions), halfDay, period, m.Local(t))
}

// Merge folds trade into the series whose last candle is prev (nil for an
// empty series). Late trades never rewrite history.
func (m *Market) Merge(sessions enum.TradeSessions, halfDay bool, period enum.Period, prev *model.Candlestick, trade model.Trade) Action {
	if !sessions.Admits(trade.TradeSession) {
		return Action{Kind: ActionNone}
	}

	bucket := m.BucketTime(sessions, halfDay, period, trade.Timestamp)
	fields := m.UpdateFields(trade.TradeType)

	if prev != nil && bucket.Equal(prev.Timestamp) {
		candle := *prev
		if fields.Volume {
			if fields.Price {
				if trade.Price.GreaterThan(candle.High) {
					candle.High = trade.Price
				}
				if trade.Price.LessThan(candle.Low) {
					candle.Low = trade.Price
				}
				candle.Close = trade.Price
			}
			candle.Volume += trade.Volume
			candle.Turnover = candle.Turnover.Add(turnover(trade))
		}
		return Action{Kind: ActionUpdateLast, Candlestick: candle}
	}

	if prev != nil && bucket.Before(prev.Timestamp) {
		return Action{Kind: ActionNone}
	}

	if !fields.Price {
		return Action{Kind: ActionNone}
	}

	candle := model.Candlestick{
		Timestamp:    bucket,
		Open:         trade.Price,
		High:         trade.Price,
		Low:          trade.Price,
		Close:        trade.Price,
		Turnover:     decimal.Zero,
		TradeSession: trade.TradeSession,
	}
	if fields.Volume {
		candle.Volume = trade.Volume
		candle.Turnover = turnover(trade)
	}
	return Action{Kind: ActionAppendNew, Candlestick: candle}
}

func turnover(trade model.Trade) decimal.Decimal {
	return trade.Price.Mul(decimal.NewFromInt(trade.Volume))
}
