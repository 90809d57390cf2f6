package model

import (
	"time"

	"marketlink/internal/model/enum"

	"github.com/shopspring/decimal"
)

// Candlestick is an OHLCV summary of one bucket. Timestamp is the canonical
// bucket time of the series it belongs to.
type Candlestick struct {
	Timestamp    time.Time
	Open         decimal.Decimal
	High         decimal.Decimal
	Low          decimal.Decimal
	Close        decimal.Decimal
	Volume       int64
	Turnover     decimal.Decimal
	TradeSession enum.TradeSession
}

// Trade is a single print.
type Trade struct {
	Price        decimal.Decimal
	Volume       int64
	Timestamp    time.Time
	TradeType    string
	Direction    enum.TradeDirection
	TradeSession enum.TradeSession
}

// SecurityStaticInfo is the slow-changing reference data of a security.
type SecurityStaticInfo struct {
	Symbol            string
	NameCN            string
	NameEN            string
	NameHK            string
	Exchange          string
	Currency          string
	LotSize           int32
	TotalShares       int64
	CirculatingShares int64
	HKShares          int64
	EPS               decimal.Decimal
	EPSTTM            decimal.Decimal
	BPS               decimal.Decimal
	DividendYield     decimal.Decimal
	StockDerivatives  []int32
	Board             string
}

// PrePostQuote is the extended-hours quote of a US security.
type PrePostQuote struct {
	LastDone  decimal.Decimal
	Timestamp time.Time
	Volume    int64
	Turnover  decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	PrevClose decimal.Decimal
}

// SecurityQuote is the pulled quote of a security.
type SecurityQuote struct {
	Symbol          string
	LastDone        decimal.Decimal
	PrevClose       decimal.Decimal
	Open            decimal.Decimal
	High            decimal.Decimal
	Low             decimal.Decimal
	Timestamp       time.Time
	Volume          int64
	Turnover        decimal.Decimal
	TradeStatus     enum.TradeStatus
	PreMarketQuote  *PrePostQuote
	PostMarketQuote *PrePostQuote
	OvernightQuote  *PrePostQuote
}

// OptionQuote is the quote of an option contract.
type OptionQuote struct {
	SecurityQuote
	ImpliedVolatility    decimal.Decimal
	OpenInterest         int64
	ExpiryDate           time.Time
	StrikePrice          decimal.Decimal
	ContractMultiplier   decimal.Decimal
	ContractType         string
	ContractSize         decimal.Decimal
	Direction            string
	HistoricalVolatility decimal.Decimal
	UnderlyingSymbol     string
}

// WarrantQuote is the quote of a warrant.
type WarrantQuote struct {
	SecurityQuote
	ImpliedVolatility decimal.Decimal
	ExpiryDate        time.Time
	LastTradeDate     time.Time
	OutstandingRatio  decimal.Decimal
	OutstandingQty    int64
	ConversionRatio   decimal.Decimal
	Category          string
	StrikePrice       decimal.Decimal
	UpperStrikePrice  decimal.Decimal
	LowerStrikePrice  decimal.Decimal
	CallPrice         decimal.Decimal
	UnderlyingSymbol  string
}

// DepthLevel is one price level of the order book.
type DepthLevel struct {
	Position int32
	Price    decimal.Decimal
	Volume   int64
	OrderNum int64
}

// SecurityDepth is the order book of a security.
type SecurityDepth struct {
	Asks []DepthLevel
	Bids []DepthLevel
}

// BrokerLevel lists the broker ids queued at one position.
type BrokerLevel struct {
	Position  int32
	BrokerIDs []int32
}

// SecurityBrokers is the broker queue of a HK security.
type SecurityBrokers struct {
	AskBrokers []BrokerLevel
	BidBrokers []BrokerLevel
}

// ParticipantInfo maps broker ids to a participant.
type ParticipantInfo struct {
	BrokerIDs         []int32
	ParticipantNameCN string
	ParticipantNameEN string
	ParticipantNameHK string
}

// IntradayLine is one minute of the intraday chart.
type IntradayLine struct {
	Price     decimal.Decimal
	Timestamp time.Time
	Volume    int64
	Turnover  decimal.Decimal
	AvgPrice  decimal.Decimal
}

// StrikePriceInfo is one row of an option chain.
type StrikePriceInfo struct {
	Price      decimal.Decimal
	CallSymbol string
	PutSymbol  string
	Standard   bool
}

// IssuerInfo is a warrant issuer.
type IssuerInfo struct {
	IssuerID int32
	NameCN   string
	NameEN   string
	NameHK   string
}

// WarrantInfo is one row of the warrant screener.
type WarrantInfo struct {
	Symbol            string
	WarrantType       string
	Name              string
	LastDone          decimal.Decimal
	ChangeRate        decimal.Decimal
	ChangeValue       decimal.Decimal
	Volume            int64
	Turnover          decimal.Decimal
	ExpiryDate        time.Time
	StrikePrice       decimal.Decimal
	ImpliedVolatility decimal.Decimal
	LeverageRatio     decimal.Decimal
	Premium           decimal.Decimal
	Status            string
}

// TradingSessionInfo is one trading window in market-local wall time.
type TradingSessionInfo struct {
	BeginTime    time.Duration
	EndTime      time.Duration
	TradeSession enum.TradeSession
}

// MarketTradingSession lists the trading windows of a market.
type MarketTradingSession struct {
	Market        enum.Market
	TradeSessions []TradingSessionInfo
}

// MarketTradingDays lists trading and half trading days between two dates.
type MarketTradingDays struct {
	TradingDays     []time.Time
	HalfTradingDays []time.Time
}

// CapitalFlowLine is one minute of net capital inflow.
type CapitalFlowLine struct {
	Inflow    decimal.Decimal
	Timestamp time.Time
}

// CapitalDistribution splits turnover by order size.
type CapitalDistribution struct {
	Large  decimal.Decimal
	Medium decimal.Decimal
	Small  decimal.Decimal
}

// CapitalDistributionResponse is the capital distribution of a security.
type CapitalDistributionResponse struct {
	Timestamp  time.Time
	CapitalIn  CapitalDistribution
	CapitalOut CapitalDistribution
}

// SecurityCalcIndex holds calculated indexes; absent indexes stay zero.
type SecurityCalcIndex struct {
	Symbol                string
	LastDone              decimal.Decimal
	ChangeValue           decimal.Decimal
	ChangeRate            decimal.Decimal
	Volume                int64
	Turnover              decimal.Decimal
	YtdChangeRate         decimal.Decimal
	TurnoverRate          decimal.Decimal
	TotalMarketValue      decimal.Decimal
	CapitalFlow           decimal.Decimal
	Amplitude             decimal.Decimal
	VolumeRatio           decimal.Decimal
	PeTTMRatio            decimal.Decimal
	PbRatio               decimal.Decimal
	DividendRatioTTM      decimal.Decimal
	FiveDayChangeRate     decimal.Decimal
	TenDayChangeRate      decimal.Decimal
	HalfYearChangeRate    decimal.Decimal
	FiveMinutesChangeRate decimal.Decimal
}

// RealtimeQuote is the locally maintained quote of a subscribed symbol.
type RealtimeQuote struct {
	Symbol      string
	LastDone    decimal.Decimal
	Open        decimal.Decimal
	High        decimal.Decimal
	Low         decimal.Decimal
	Timestamp   time.Time
	Volume      int64
	Turnover    decimal.Decimal
	TradeStatus enum.TradeStatus
}

// Subscription is the current subscription state of a symbol.
type Subscription struct {
	Symbol       string
	SubFlags     enum.SubFlags
	Candlesticks []enum.Period
}

// WatchlistSecurity is a security inside a watchlist group.
type WatchlistSecurity struct {
	Symbol       string
	Market       enum.Market
	Name         string
	WatchedPrice decimal.Decimal
	WatchedAt    time.Time
}

// WatchlistGroup is a named list of securities.
type WatchlistGroup struct {
	ID         int64
	Name       string
	Securities []WatchlistSecurity
}

// WarrantFilter narrows and sorts the warrant screener.
type WarrantFilter struct {
	SortBy     int32
	SortOrder  int32
	Offset     int32
	Count      int32
	Types      []int32
	Issuers    []int32
	ExpiryDate []int32
	Status     []int32
	Language   int32
}
