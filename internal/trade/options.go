package trade

import (
	"time"

	"marketlink/internal/codec"
	"marketlink/internal/model/enum"
	"marketlink/pkg/exception"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"
)

// SubmitOrder describes a new order. Zero decimals are left out of the
// request.
type SubmitOrder struct {
	Symbol          string
	OrderType       enum.OrderType
	Side            enum.OrderSide
	Quantity        int64
	Price           decimal.Decimal
	TriggerPrice    decimal.Decimal
	LimitOffset     decimal.Decimal
	TrailingAmount  decimal.Decimal
	TrailingPercent decimal.Decimal
	TimeInForce     enum.TimeInForce
	ExpireDate      time.Time
	OutsideRTH      enum.OutsideRTH
	Remark          string
}

func (o SubmitOrder) body() (codec.SubmitOrderBody, error) {
	switch {
	case o.Symbol == "":
		return codec.SubmitOrderBody{}, errors.Wrap(exception.ErrOrderInvalidRequest, "empty symbol")
	case !o.OrderType.IsAvailable():
		return codec.SubmitOrderBody{}, errors.Wrapf(exception.ErrOrderUnsupportedType, "order type: %d", o.OrderType)
	case !o.Side.IsAvailable():
		return codec.SubmitOrderBody{}, errors.Wrapf(exception.ErrOrderInvalidRequest, "side: %d", o.Side)
	case o.Quantity <= 0:
		return codec.SubmitOrderBody{}, errors.Wrapf(exception.ErrOrderInvalidRequest, "quantity: %d", o.Quantity)
	case !o.TimeInForce.IsAvailable():
		return codec.SubmitOrderBody{}, errors.Wrapf(exception.ErrOrderInvalidRequest, "time in force: %d", o.TimeInForce)
	case o.OrderType.HasPrice() && !o.Price.IsPositive():
		return codec.SubmitOrderBody{}, errors.Wrapf(exception.ErrOrderInvalidRequest, "%s order needs a price", o.OrderType)
	case o.OrderType.HasTrigger() && !o.TriggerPrice.IsPositive():
		return codec.SubmitOrderBody{}, errors.Wrapf(exception.ErrOrderInvalidRequest, "%s order needs a trigger price", o.OrderType)
	case o.TimeInForce == enum.TimeInForceGTD && o.ExpireDate.IsZero():
		return codec.SubmitOrderBody{}, errors.Wrap(exception.ErrOrderInvalidRequest, "GTD order needs an expire date")
	}

	return codec.SubmitOrderBody{
		Symbol:            o.Symbol,
		OrderType:         o.OrderType.String(),
		SubmittedPrice:    optionalDecimal(o.Price),
		SubmittedQuantity: decimal.NewFromInt(o.Quantity).String(),
		TriggerPrice:      optionalDecimal(o.TriggerPrice),
		LimitOffset:       optionalDecimal(o.LimitOffset),
		TrailingAmount:    optionalDecimal(o.TrailingAmount),
		TrailingPercent:   optionalDecimal(o.TrailingPercent),
		ExpireDate:        dashDate(o.ExpireDate),
		Side:              o.Side.String(),
		OutsideRTH:        o.OutsideRTH.String(),
		TimeInForce:       o.TimeInForce.String(),
		Remark:            o.Remark,
	}, nil
}

// ReplaceOrder changes the quantity and prices of an open order.
type ReplaceOrder struct {
	OrderID         string
	Quantity        int64
	Price           decimal.Decimal
	TriggerPrice    decimal.Decimal
	LimitOffset     decimal.Decimal
	TrailingAmount  decimal.Decimal
	TrailingPercent decimal.Decimal
	Remark          string
}

func (o ReplaceOrder) body() (codec.ReplaceOrderBody, error) {
	if o.OrderID == "" {
		return codec.ReplaceOrderBody{}, exception.ErrOrderEmptyOrderID
	}
	if o.Quantity <= 0 {
		return codec.ReplaceOrderBody{}, errors.Wrapf(exception.ErrOrderInvalidRequest, "quantity: %d", o.Quantity)
	}
	return codec.ReplaceOrderBody{
		OrderID:         o.OrderID,
		Quantity:        decimal.NewFromInt(o.Quantity).String(),
		Price:           optionalDecimal(o.Price),
		TriggerPrice:    optionalDecimal(o.TriggerPrice),
		LimitOffset:     optionalDecimal(o.LimitOffset),
		TrailingAmount:  optionalDecimal(o.TrailingAmount),
		TrailingPercent: optionalDecimal(o.TrailingPercent),
		Remark:          o.Remark,
	}, nil
}

// TodayOrdersFilter narrows TodayOrders. Zero fields match everything.
type TodayOrdersFilter struct {
	Symbol  string
	Status  []enum.OrderStatus
	Side    enum.OrderSide
	Market  enum.Market
	OrderID string
}

func (f TodayOrdersFilter) query() codec.TodayOrdersQuery {
	return codec.TodayOrdersQuery{
		Symbol:  f.Symbol,
		Status:  statusNames(f.Status),
		Side:    f.Side.String(),
		Market:  f.Market.String(),
		OrderID: f.OrderID,
	}
}

// HistoryOrdersFilter narrows HistoryOrders. Zero times leave that end open.
type HistoryOrdersFilter struct {
	Symbol string
	Status []enum.OrderStatus
	Side   enum.OrderSide
	Market enum.Market
	Start  time.Time
	End    time.Time
}

func (f HistoryOrdersFilter) query() codec.HistoryOrdersQuery {
	return codec.HistoryOrdersQuery{
		Symbol:  f.Symbol,
		Status:  statusNames(f.Status),
		Side:    f.Side.String(),
		Market:  f.Market.String(),
		StartAt: unix(f.Start),
		EndAt:   unix(f.End),
	}
}

// ExecutionsFilter narrows the execution queries. Start and End only apply
// to HistoryExecutions.
type ExecutionsFilter struct {
	Symbol  string
	OrderID string
	Start   time.Time
	End     time.Time
}

func (f ExecutionsFilter) query() codec.ExecutionsQuery {
	return codec.ExecutionsQuery{
		Symbol:  f.Symbol,
		OrderID: f.OrderID,
		StartAt: unix(f.Start),
		EndAt:   unix(f.End),
	}
}

// CashFlowFilter selects cash movements between Start and End.
type CashFlowFilter struct {
	Start        time.Time
	End          time.Time
	BusinessType int32
	Symbol       string
	Page         int32
	Size         int32
}

func (f CashFlowFilter) query() (codec.CashFlowQuery, error) {
	if f.Start.IsZero() || f.End.IsZero() || f.End.Before(f.Start) {
		return codec.CashFlowQuery{}, errors.Wrapf(exception.ErrInvalidArgument, "cash flow range: %s - %s", f.Start, f.End)
	}
	return codec.CashFlowQuery{
		StartTime:    f.Start.Unix(),
		EndTime:      f.End.Unix(),
		BusinessType: f.BusinessType,
		Symbol:       f.Symbol,
		Page:         f.Page,
		Size:         f.Size,
	}, nil
}

// EstimateMaxPurchaseQuantity asks how much of a security can be bought or
// sold. OrderID is set when estimating a replacement.
type EstimateMaxPurchaseQuantity struct {
	Symbol    string
	OrderType enum.OrderType
	Side      enum.OrderSide
	Price     decimal.Decimal
	Currency  string
	OrderID   string
}

func (o EstimateMaxPurchaseQuantity) query() (codec.EstimateMaxPurchaseQuery, error) {
	if o.Symbol == "" || !o.OrderType.IsAvailable() || !o.Side.IsAvailable() {
		return codec.EstimateMaxPurchaseQuery{}, errors.Wrapf(exception.ErrInvalidArgument, "estimate %s %s %s", o.Symbol, o.OrderType, o.Side)
	}
	return codec.EstimateMaxPurchaseQuery{
		Symbol:    o.Symbol,
		OrderType: o.OrderType.String(),
		Price:     optionalDecimal(o.Price),
		Side:      o.Side.String(),
		Currency:  o.Currency,
		OrderID:   o.OrderID,
	}, nil
}

func optionalDecimal(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func statusNames(status []enum.OrderStatus) []string {
	out := make([]string, 0, len(status))
	for _, s := range status {
		if s.IsAvailable() {
			out = append(out, s.String())
		}
	}
	return out
}

func unix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func dashDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
