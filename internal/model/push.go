package model

import (
	"time"

	"marketlink/internal/model/enum"

	"github.com/shopspring/decimal"
)

// PushQuote is a real-time quote update.
type PushQuote struct {
	LastDone        decimal.Decimal
	Open            decimal.Decimal
	High            decimal.Decimal
	Low             decimal.Decimal
	Timestamp       time.Time
	Volume          int64
	Turnover        decimal.Decimal
	TradeStatus     enum.TradeStatus
	TradeSession    enum.TradeSession
	CurrentVolume   int64
	CurrentTurnover decimal.Decimal
}

// PushDepth replaces the order book of a symbol.
type PushDepth struct {
	Asks []DepthLevel
	Bids []DepthLevel
}

// PushBrokers replaces the broker queue of a symbol.
type PushBrokers struct {
	AskBrokers []BrokerLevel
	BidBrokers []BrokerLevel
}

// PushTrades carries new prints in arrival order.
type PushTrades struct {
	Trades []Trade
}

// PushCandlestick is a locally merged candlestick. IsConfirmed marks the last
// update of a bucket that has rolled over.
type PushCandlestick struct {
	Period      enum.Period
	Candlestick Candlestick
	IsConfirmed bool
}
