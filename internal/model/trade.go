package model

import (
	"time"

	"marketlink/internal/model/enum"

	"github.com/shopspring/decimal"
)

// Order is an order as reported by the venue.
type Order struct {
	OrderID          string
	Status           enum.OrderStatus
	StockName        string
	Quantity         int64
	ExecutedQuantity int64
	Price            decimal.Decimal
	ExecutedPrice    decimal.Decimal
	SubmittedAt      time.Time
	Side             enum.OrderSide
	Symbol           string
	OrderType        enum.OrderType
	LastDone         decimal.Decimal
	TriggerPrice     decimal.Decimal
	Msg              string
	TimeInForce      enum.TimeInForce
	ExpireDate       time.Time
	UpdatedAt        time.Time
	Currency         string
	Remark           string
}

// Execution is a fill of an order.
type Execution struct {
	OrderID     string
	TradeID     string
	Symbol      string
	TradeDoneAt time.Time
	Quantity    int64
	Price       decimal.Decimal
}

// PushOrderChanged is the private push sent on every order transition.
type PushOrderChanged struct {
	Side              enum.OrderSide
	StockName         string
	SubmittedQuantity int64
	Symbol            string
	OrderType         enum.OrderType
	SubmittedPrice    decimal.Decimal
	ExecutedQuantity  int64
	ExecutedPrice     decimal.Decimal
	OrderID           string
	Currency          string
	Status            enum.OrderStatus
	SubmittedAt       time.Time
	UpdatedAt         time.Time
	TriggerPrice      decimal.Decimal
	Msg               string
	AccountNo         string
	Remark            string
}

// CashInfo is the cash of one currency.
type CashInfo struct {
	WithdrawCash  decimal.Decimal
	AvailableCash decimal.Decimal
	FrozenCash    decimal.Decimal
	SettlingCash  decimal.Decimal
	Currency      string
}

// AccountBalance is the balance of one account currency.
type AccountBalance struct {
	TotalCash              decimal.Decimal
	MaxFinanceAmount       decimal.Decimal
	RemainingFinanceAmount decimal.Decimal
	RiskLevel              int32
	MarginCall             decimal.Decimal
	Currency               string
	CashInfos              []CashInfo
	NetAssets              decimal.Decimal
	InitMargin             decimal.Decimal
	MaintenanceMargin      decimal.Decimal
	BuyPower               decimal.Decimal
}

// CashFlow is one cash movement.
type CashFlow struct {
	TransactionFlowName string
	Direction           int32
	BusinessType        int32
	Balance             decimal.Decimal
	Currency            string
	BusinessTime        time.Time
	Symbol              string
	Description         string
}

// StockPosition is a holding of a security.
type StockPosition struct {
	Symbol            string
	SymbolName        string
	Quantity          int64
	AvailableQuantity int64
	Currency          string
	CostPrice         decimal.Decimal
	Market            enum.Market
	InitQuantity      int64
}

// StockPositionChannel groups positions by account channel.
type StockPositionChannel struct {
	AccountChannel string
	Positions      []StockPosition
}

// FundPosition is a holding of a fund.
type FundPosition struct {
	Symbol               string
	CurrentNetAssetValue decimal.Decimal
	NetAssetValueDay     time.Time
	SymbolName           string
	Currency             string
	CostNetAssetValue    decimal.Decimal
	HoldingUnits         decimal.Decimal
}

// FundPositionChannel groups fund holdings by account channel.
type FundPositionChannel struct {
	AccountChannel string
	Positions      []FundPosition
}

// MarginRatio of a security.
type MarginRatio struct {
	InitialMarginRatio     decimal.Decimal
	MaintenanceMarginRatio decimal.Decimal
	ForcedLiquidationRatio decimal.Decimal
}

// EstimateMaxPurchaseQuantityResponse is the buying capacity of a security.
type EstimateMaxPurchaseQuantityResponse struct {
	CashMaxQty   int64
	MarginMaxQty int64
}

// SubmitOrderResponse carries the id of a newly submitted order.
type SubmitOrderResponse struct {
	OrderID string
}
