package codec

import (
	"marketlink/internal/model"
)

type wirePushQuote struct {
	Symbol          string `json:"symbol"`
	Sequence        int64  `json:"sequence"`
	LastDone        string `json:"last_done"`
	Open            string `json:"open"`
	High            string `json:"high"`
	Low             string `json:"low"`
	Timestamp       string `json:"timestamp"`
	Volume          string `json:"volume"`
	Turnover        string `json:"turnover"`
	TradeStatus     int32  `json:"trade_status"`
	TradeSession    int32  `json:"trade_session"`
	CurrentVolume   string `json:"current_volume"`
	CurrentTurnover string `json:"current_turnover"`
}

// DecodePushQuote decodes a quote push and returns its symbol.
func DecodePushQuote(body []byte) (string, model.PushQuote, error) {
	var w wirePushQuote
	if err := unmarshal(body, &w); err != nil {
		return "", model.PushQuote{}, err
	}
	ts, err := Timestamp("timestamp", w.Timestamp)
	if err != nil {
		return w.Symbol, model.PushQuote{}, err
	}
	status, err := TradeStatus("trade_status", w.TradeStatus)
	if err != nil {
		return w.Symbol, model.PushQuote{}, err
	}
	session, err := TradeSession("trade_session", w.TradeSession)
	if err != nil {
		return w.Symbol, model.PushQuote{}, err
	}
	return w.Symbol, model.PushQuote{
		LastDone:        Decimal(w.LastDone),
		Open:            Decimal(w.Open),
		High:            Decimal(w.High),
		Low:             Decimal(w.Low),
		Timestamp:       ts,
		Volume:          Int64(w.Volume),
		Turnover:        Decimal(w.Turnover),
		TradeStatus:     status,
		TradeSession:    session,
		CurrentVolume:   Int64(w.CurrentVolume),
		CurrentTurnover: Decimal(w.CurrentTurnover),
	}, nil
}

// DecodePushDepth decodes an order book push and returns its symbol.
func DecodePushDepth(body []byte) (string, model.PushDepth, error) {
	var w wireSecurityDepth
	if err := unmarshal(body, &w); err != nil {
		return "", model.PushDepth{}, err
	}
	depth := w.model()
	return w.Symbol, model.PushDepth{Asks: depth.Asks, Bids: depth.Bids}, nil
}

// DecodePushBrokers decodes a broker queue push and returns its symbol.
func DecodePushBrokers(body []byte) (string, model.PushBrokers, error) {
	var w wireSecurityBrokers
	if err := unmarshal(body, &w); err != nil {
		return "", model.PushBrokers{}, err
	}
	brokers := w.model()
	return w.Symbol, model.PushBrokers{AskBrokers: brokers.AskBrokers, BidBrokers: brokers.BidBrokers}, nil
}

type wirePushTrades struct {
	Symbol   string      `json:"symbol"`
	Sequence int64       `json:"sequence"`
	Trades   []wireTrade `json:"trade"`
}

// DecodePushTrades decodes a trade push and returns its symbol.
func DecodePushTrades(body []byte) (string, model.PushTrades, error) {
	var w wirePushTrades
	if err := unmarshal(body, &w); err != nil {
		return "", model.PushTrades{}, err
	}
	trades, err := convertAll(w.Trades, wireTrade.model)
	if err != nil {
		return w.Symbol, model.PushTrades{}, err
	}
	return w.Symbol, model.PushTrades{Trades: trades}, nil
}
