package enum

// TradeSession intraday, pre-market, post-market, overnight
type TradeSession uint8

const (
	TradeSessionIntraday TradeSession = iota
	TradeSessionPre
	TradeSessionPost
	TradeSessionOvernight
	_trade_session_end
)

func (s TradeSession) IsAvailable() bool {
	return s < _trade_session_end
}

func (s TradeSession) String() string {
	switch s {
	case TradeSessionIntraday:
		return "intraday"
	case TradeSessionPre:
		return "pre"
	case TradeSessionPost:
		return "post"
	case TradeSessionOvernight:
		return "overnight"
	default:
		return "unknown"
	}
}

// TradeSessions selects which sessions a candlestick series admits.
type TradeSessions uint8

const (
	TradeSessionsIntraday TradeSessions = iota
	TradeSessionsAll
)

// Admits reports whether a trade printed in s belongs to the series.
func (ts TradeSessions) Admits(s TradeSession) bool {
	if ts == TradeSessionsAll {
		return s.IsAvailable()
	}
	return s == TradeSessionIntraday
}

// TradeDirection neutral, down, up
type TradeDirection uint8

const (
	TradeDirectionNeutral TradeDirection = iota
	TradeDirectionDown
	TradeDirectionUp
)

// TradeStatus of a security
type TradeStatus uint8

const (
	TradeStatusNormal TradeStatus = iota
	TradeStatusHalted
	TradeStatusDelisted
	TradeStatusFuse
	TradeStatusPrepareList
	TradeStatusCodeMoved
	TradeStatusToBeOpened
	TradeStatusSplitStockHalts
	TradeStatusExpired
	TradeStatusWarrantPrepareList
	TradeStatusSuspendTrade
)

// AdjustType no adjust, forward adjust
type AdjustType uint8

const (
	AdjustTypeNoAdjust AdjustType = iota
	AdjustTypeForward
)
