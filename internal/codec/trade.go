package codec

import (
	"marketlink/internal/model"
	"marketlink/internal/model/enum"
)

// Query strings of the trade endpoints.

type TodayOrdersQuery struct {
	Symbol  string   `url:"symbol,omitempty"`
	Status  []string `url:"status,omitempty"`
	Side    string   `url:"side,omitempty"`
	Market  string   `url:"market,omitempty"`
	OrderID string   `url:"order_id,omitempty"`
}

type HistoryOrdersQuery struct {
	Symbol  string   `url:"symbol,omitempty"`
	Status  []string `url:"status,omitempty"`
	Side    string   `url:"side,omitempty"`
	Market  string   `url:"market,omitempty"`
	StartAt int64    `url:"start_at,omitempty"`
	EndAt   int64    `url:"end_at,omitempty"`
}

type OrderIDQuery struct {
	OrderID string `url:"order_id"`
}

type ExecutionsQuery struct {
	Symbol  string `url:"symbol,omitempty"`
	OrderID string `url:"order_id,omitempty"`
	StartAt int64  `url:"start_at,omitempty"`
	EndAt   int64  `url:"end_at,omitempty"`
}

type AccountBalanceQuery struct {
	Currency string `url:"currency,omitempty"`
}

type CashFlowQuery struct {
	StartTime    int64  `url:"start_time"`
	EndTime      int64  `url:"end_time"`
	BusinessType int32  `url:"business_type,omitempty"`
	Symbol       string `url:"symbol,omitempty"`
	Page         int32  `url:"page,omitempty"`
	Size         int32  `url:"size,omitempty"`
}

type PositionsQuery struct {
	Symbols []string `url:"symbol,omitempty"`
}

type SymbolQuery struct {
	Symbol string `url:"symbol"`
}

type EstimateMaxPurchaseQuery struct {
	Symbol    string `url:"symbol"`
	OrderType string `url:"order_type"`
	Price     string `url:"price,omitempty"`
	Side      string `url:"side"`
	Currency  string `url:"currency,omitempty"`
	OrderID   string `url:"order_id,omitempty"`
}

// Request bodies of the trade endpoints.

type SubmitOrderBody struct {
	Symbol            string `json:"symbol"`
	OrderType         string `json:"order_type"`
	SubmittedPrice    string `json:"submitted_price,omitempty"`
	SubmittedQuantity string `json:"submitted_quantity"`
	TriggerPrice      string `json:"trigger_price,omitempty"`
	LimitOffset       string `json:"limit_offset,omitempty"`
	TrailingAmount    string `json:"trailing_amount,omitempty"`
	TrailingPercent   string `json:"trailing_percent,omitempty"`
	ExpireDate        string `json:"expire_date,omitempty"`
	Side              string `json:"side"`
	OutsideRTH        string `json:"outside_rth,omitempty"`
	TimeInForce       string `json:"time_in_force"`
	Remark            string `json:"remark,omitempty"`
}

type ReplaceOrderBody struct {
	OrderID         string `json:"order_id"`
	Quantity        string `json:"quantity"`
	Price           string `json:"price,omitempty"`
	TriggerPrice    string `json:"trigger_price,omitempty"`
	LimitOffset     string `json:"limit_offset,omitempty"`
	TrailingAmount  string `json:"trailing_amount,omitempty"`
	TrailingPercent string `json:"trailing_percent,omitempty"`
	Remark          string `json:"remark,omitempty"`
}

// Response data of the trade endpoints.

type WireOrder struct {
	OrderID          string `json:"order_id"`
	Status           string `json:"status"`
	StockName        string `json:"stock_name"`
	Quantity         string `json:"quantity"`
	ExecutedQuantity string `json:"executed_quantity"`
	Price            string `json:"price"`
	ExecutedPrice    string `json:"executed_price"`
	SubmittedAt      string `json:"submitted_at"`
	Side             string `json:"side"`
	Symbol           string `json:"symbol"`
	OrderType        string `json:"order_type"`
	LastDone         string `json:"last_done"`
	TriggerPrice     string `json:"trigger_price"`
	Msg              string `json:"msg"`
	TimeInForce      string `json:"time_in_force"`
	ExpireDate       string `json:"expire_date"`
	UpdatedAt        string `json:"updated_at"`
	Currency         string `json:"currency"`
	Remark           string `json:"remark"`
}

func (w WireOrder) Model() (model.Order, error) {
	var o model.Order
	status, err := Text[enum.OrderStatus]("status", w.Status)
	if err != nil {
		return o, err
	}
	side, err := Text[enum.OrderSide]("side", w.Side)
	if err != nil {
		return o, err
	}
	orderType, err := Text[enum.OrderType]("order_type", w.OrderType)
	if err != nil {
		return o, err
	}
	tif, err := Text[enum.TimeInForce]("time_in_force", w.TimeInForce)
	if err != nil {
		return o, err
	}
	submittedAt, err := Timestamp("submitted_at", w.SubmittedAt)
	if err != nil {
		return o, err
	}
	updatedAt, err := OptionalTimestamp("updated_at", w.UpdatedAt)
	if err != nil {
		return o, err
	}
	expireDate, err := OptionalDate("expire_date", w.ExpireDate)
	if err != nil {
		return o, err
	}
	return model.Order{
		OrderID:          w.OrderID,
		Status:           status,
		StockName:        w.StockName,
		Quantity:         Int64(w.Quantity),
		ExecutedQuantity: Int64(w.ExecutedQuantity),
		Price:            Decimal(w.Price),
		ExecutedPrice:    Decimal(w.ExecutedPrice),
		SubmittedAt:      submittedAt,
		Side:             side,
		Symbol:           w.Symbol,
		OrderType:        orderType,
		LastDone:         Decimal(w.LastDone),
		TriggerPrice:     Decimal(w.TriggerPrice),
		Msg:              w.Msg,
		TimeInForce:      tif,
		ExpireDate:       expireDate,
		UpdatedAt:        updatedAt,
		Currency:         w.Currency,
		Remark:           w.Remark,
	}, nil
}

type OrderList struct {
	Orders  []WireOrder `json:"orders"`
	HasMore bool        `json:"has_more"`
}

func (l OrderList) Model() ([]model.Order, error) {
	return convertAll(l.Orders, WireOrder.Model)
}

type WireExecution struct {
	OrderID     string `json:"order_id"`
	TradeID     string `json:"trade_id"`
	Symbol      string `json:"symbol"`
	TradeDoneAt string `json:"trade_done_at"`
	Quantity    string `json:"quantity"`
	Price       string `json:"price"`
}

func (w WireExecution) Model() (model.Execution, error) {
	doneAt, err := Timestamp("trade_done_at", w.TradeDoneAt)
	if err != nil {
		return model.Execution{}, err
	}
	return model.Execution{
		OrderID:     w.OrderID,
		TradeID:     w.TradeID,
		Symbol:      w.Symbol,
		TradeDoneAt: doneAt,
		Quantity:    Int64(w.Quantity),
		Price:       Decimal(w.Price),
	}, nil
}

type ExecutionList struct {
	Trades  []WireExecution `json:"trades"`
	HasMore bool            `json:"has_more"`
}

func (l ExecutionList) Model() ([]model.Execution, error) {
	return convertAll(l.Trades, WireExecution.Model)
}

type WireCashInfo struct {
	WithdrawCash  string `json:"withdraw_cash"`
	AvailableCash string `json:"available_cash"`
	FrozenCash    string `json:"frozen_cash"`
	SettlingCash  string `json:"settling_cash"`
	Currency      string `json:"currency"`
}

type WireAccountBalance struct {
	TotalCash              string         `json:"total_cash"`
	MaxFinanceAmount       string         `json:"max_finance_amount"`
	RemainingFinanceAmount string         `json:"remaining_finance_amount"`
	RiskLevel              int32          `json:"risk_level"`
	MarginCall             string         `json:"margin_call"`
	Currency               string         `json:"currency"`
	CashInfos              []WireCashInfo `json:"cash_infos"`
	NetAssets              string         `json:"net_assets"`
	InitMargin             string         `json:"init_margin"`
	MaintenanceMargin      string         `json:"maintenance_margin"`
	BuyPower               string         `json:"buy_power"`
}

func (w WireAccountBalance) Model() (model.AccountBalance, error) {
	infos := mapAll(w.CashInfos, func(c WireCashInfo) model.CashInfo {
		return model.CashInfo{
			WithdrawCash:  Decimal(c.WithdrawCash),
			AvailableCash: Decimal(c.AvailableCash),
			FrozenCash:    Decimal(c.FrozenCash),
			SettlingCash:  Decimal(c.SettlingCash),
			Currency:      c.Currency,
		}
	})
	return model.AccountBalance{
		TotalCash:              Decimal(w.TotalCash),
		MaxFinanceAmount:       Decimal(w.MaxFinanceAmount),
		RemainingFinanceAmount: Decimal(w.RemainingFinanceAmount),
		RiskLevel:              w.RiskLevel,
		MarginCall:             Decimal(w.MarginCall),
		Currency:               w.Currency,
		CashInfos:              infos,
		NetAssets:              Decimal(w.NetAssets),
		InitMargin:             Decimal(w.InitMargin),
		MaintenanceMargin:      Decimal(w.MaintenanceMargin),
		BuyPower:               Decimal(w.BuyPower),
	}, nil
}

type AccountBalanceList struct {
	List []WireAccountBalance `json:"list"`
}

func (l AccountBalanceList) Model() ([]model.AccountBalance, error) {
	return convertAll(l.List, WireAccountBalance.Model)
}

type WireCashFlow struct {
	TransactionFlowName string `json:"transaction_flow_name"`
	Direction           int32  `json:"direction"`
	BusinessType        int32  `json:"business_type"`
	Balance             string `json:"balance"`
	Currency            string `json:"currency"`
	BusinessTime        string `json:"business_time"`
	Symbol              string `json:"symbol"`
	Description         string `json:"description"`
}

func (w WireCashFlow) Model() (model.CashFlow, error) {
	at, err := Timestamp("business_time", w.BusinessTime)
	if err != nil {
		return model.CashFlow{}, err
	}
	return model.CashFlow{
		TransactionFlowName: w.TransactionFlowName,
		Direction:           w.Direction,
		BusinessType:        w.BusinessType,
		Balance:             Decimal(w.Balance),
		Currency:            w.Currency,
		BusinessTime:        at,
		Symbol:              w.Symbol,
		Description:         w.Description,
	}, nil
}

type CashFlowList struct {
	List []WireCashFlow `json:"list"`
}

func (l CashFlowList) Model() ([]model.CashFlow, error) {
	return convertAll(l.List, WireCashFlow.Model)
}

type WireStockPosition struct {
	Symbol            string `json:"symbol"`
	SymbolName        string `json:"symbol_name"`
	Quantity          string `json:"quantity"`
	AvailableQuantity string `json:"available_quantity"`
	Currency          string `json:"currency"`
	CostPrice         string `json:"cost_price"`
	Market            string `json:"market"`
	InitQuantity      string `json:"init_quantity"`
}

type WireStockPositionChannel struct {
	AccountChannel string              `json:"account_channel"`
	Positions      []WireStockPosition `json:"stock_info"`
}

type StockPositionList struct {
	List []WireStockPositionChannel `json:"list"`
}

func (l StockPositionList) Model() ([]model.StockPositionChannel, error) {
	return convertAll(l.List, func(ch WireStockPositionChannel) (model.StockPositionChannel, error) {
		positions, err := convertAll(ch.Positions, func(w WireStockPosition) (model.StockPosition, error) {
			market, err := Market("market", w.Market)
			if err != nil {
				return model.StockPosition{}, err
			}
			return model.StockPosition{
				Symbol:            w.Symbol,
				SymbolName:        w.SymbolName,
				Quantity:          Int64(w.Quantity),
				AvailableQuantity: Int64(w.AvailableQuantity),
				Currency:          w.Currency,
				CostPrice:         Decimal(w.CostPrice),
				Market:            market,
				InitQuantity:      Int64(w.InitQuantity),
			}, nil
		})
		if err != nil {
			return model.StockPositionChannel{}, err
		}
		return model.StockPositionChannel{AccountChannel: ch.AccountChannel, Positions: positions}, nil
	})
}

type WireFundPosition struct {
	Symbol               string `json:"symbol"`
	CurrentNetAssetValue string `json:"current_net_asset_value"`
	NetAssetValueDay     string `json:"net_asset_value_day"`
	SymbolName           string `json:"symbol_name"`
	Currency             string `json:"currency"`
	CostNetAssetValue    string `json:"cost_net_asset_value"`
	HoldingUnits         string `json:"holding_units"`
}

type WireFundPositionChannel struct {
	AccountChannel string             `json:"account_channel"`
	Positions      []WireFundPosition `json:"fund_info"`
}

type FundPositionList struct {
	List []WireFundPositionChannel `json:"list"`
}

func (l FundPositionList) Model() ([]model.FundPositionChannel, error) {
	return convertAll(l.List, func(ch WireFundPositionChannel) (model.FundPositionChannel, error) {
		positions, err := convertAll(ch.Positions, func(w WireFundPosition) (model.FundPosition, error) {
			day, err := OptionalTimestamp("net_asset_value_day", w.NetAssetValueDay)
			if err != nil {
				return model.FundPosition{}, err
			}
			return model.FundPosition{
				Symbol:               w.Symbol,
				CurrentNetAssetValue: Decimal(w.CurrentNetAssetValue),
				NetAssetValueDay:     day,
				SymbolName:           w.SymbolName,
				Currency:             w.Currency,
				CostNetAssetValue:    Decimal(w.CostNetAssetValue),
				HoldingUnits:         Decimal(w.HoldingUnits),
			}, nil
		})
		if err != nil {
			return model.FundPositionChannel{}, err
		}
		return model.FundPositionChannel{AccountChannel: ch.AccountChannel, Positions: positions}, nil
	})
}

type WireMarginRatio struct {
	ImFactor string `json:"im_factor"`
	MmFactor string `json:"mm_factor"`
	FmFactor string `json:"fm_factor"`
}

func (w WireMarginRatio) Model() model.MarginRatio {
	return model.MarginRatio{
		InitialMarginRatio:     Decimal(w.ImFactor),
		MaintenanceMarginRatio: Decimal(w.MmFactor),
		ForcedLiquidationRatio: Decimal(w.FmFactor),
	}
}

type WireMaxPurchaseQuantity struct {
	CashMaxQty   string `json:"cash_max_qty"`
	MarginMaxQty string `json:"margin_max_qty"`
}

func (w WireMaxPurchaseQuantity) Model() model.EstimateMaxPurchaseQuantityResponse {
	return model.EstimateMaxPurchaseQuantityResponse{
		CashMaxQty:   Int64(w.CashMaxQty),
		MarginMaxQty: Int64(w.MarginMaxQty),
	}
}

type WireSubmitOrder struct {
	OrderID string `json:"order_id"`
}

// Trade stream bodies.

type TradeSubscribeRequest struct {
	Topics []string `json:"topics"`
}

type TradeSubscribeResponse struct {
	Success []string `json:"success"`
	Fail    []struct {
		Topic  string `json:"topic"`
		Reason string `json:"reason"`
	} `json:"fail"`
	Current []string `json:"current"`
}

type wireOrderChanged struct {
	Side              string `json:"side"`
	StockName         string `json:"stock_name"`
	SubmittedQuantity string `json:"submitted_quantity"`
	Symbol            string `json:"symbol"`
	OrderType         string `json:"order_type"`
	SubmittedPrice    string `json:"submitted_price"`
	ExecutedQuantity  string `json:"executed_quantity"`
	ExecutedPrice     string `json:"executed_price"`
	OrderID           string `json:"order_id"`
	Currency          string `json:"currency"`
	Status            string `json:"status"`
	SubmittedAt       string `json:"submitted_at"`
	UpdatedAt         string `json:"updated_at"`
	TriggerPrice      string `json:"trigger_price"`
	Msg               string `json:"msg"`
	AccountNo         string `json:"account_no"`
	Remark            string `json:"remark"`
}

type wireTradeNotification struct {
	Topic string           `json:"topic"`
	Data  wireOrderChanged `json:"data"`
}

// DecodePushOrderChanged decodes an order changed notification.
func DecodePushOrderChanged(body []byte) (model.PushOrderChanged, error) {
	var n wireTradeNotification
	if err := unmarshal(body, &n); err != nil {
		return model.PushOrderChanged{}, err
	}
	w := n.Data
	side, err := Text[enum.OrderSide]("side", w.Side)
	if err != nil {
		return model.PushOrderChanged{}, err
	}
	orderType, err := Text[enum.OrderType]("order_type", w.OrderType)
	if err != nil {
		return model.PushOrderChanged{}, err
	}
	status, err := Text[enum.OrderStatus]("status", w.Status)
	if err != nil {
		return model.PushOrderChanged{}, err
	}
	submittedAt, err := Timestamp("submitted_at", w.SubmittedAt)
	if err != nil {
		return model.PushOrderChanged{}, err
	}
	updatedAt, err := OptionalTimestamp("updated_at", w.UpdatedAt)
	if err != nil {
		return model.PushOrderChanged{}, err
	}
	return model.PushOrderChanged{
		Side:              side,
		StockName:         w.StockName,
		SubmittedQuantity: Int64(w.SubmittedQuantity),
		Symbol:            w.Symbol,
		OrderType:         orderType,
		SubmittedPrice:    Decimal(w.SubmittedPrice),
		ExecutedQuantity:  Int64(w.ExecutedQuantity),
		ExecutedPrice:     Decimal(w.ExecutedPrice),
		OrderID:           w.OrderID,
		Currency:          w.Currency,
		Status:            status,
		SubmittedAt:       submittedAt,
		UpdatedAt:         updatedAt,
		TriggerPrice:      Decimal(w.TriggerPrice),
		Msg:               w.Msg,
		AccountNo:         w.AccountNo,
		Remark:            w.Remark,
	}, nil
}
