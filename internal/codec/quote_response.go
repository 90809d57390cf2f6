package codec

import (
	"time"

	"marketlink/internal/model"
	"marketlink/internal/model/enum"

	"github.com/bytedance/sonic"
	"github.com/yanun0323/errors"
)

type listBody[W any] struct {
	List []W `json:"list"`
}

func unmarshal(body []byte, v any) error {
	if err := sonic.ConfigFastest.Unmarshal(body, v); err != nil {
		return errors.Wrap(err, "unmarshal body")
	}
	return nil
}

func decodeList[W, M any](body []byte, conv func(W) (M, error)) ([]M, error) {
	var b listBody[W]
	if err := unmarshal(body, &b); err != nil {
		return nil, err
	}
	return convertAll(b.List, conv)
}

func convertAll[W, M any](list []W, conv func(W) (M, error)) ([]M, error) {
	out := make([]M, 0, len(list))
	for _, w := range list {
		m, err := conv(w)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func mapAll[W, M any](list []W, conv func(W) M) []M {
	out := make([]M, 0, len(list))
	for _, w := range list {
		out = append(out, conv(w))
	}
	return out
}

// Marshal encodes a request body.
func Marshal(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	b, err := sonic.ConfigFastest.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "marshal body")
	}
	return b, nil
}

// Unmarshal decodes a body that needs no field conversion.
func Unmarshal(body []byte, v any) error {
	return unmarshal(body, v)
}

type wireStaticInfo struct {
	Symbol            string  `json:"symbol"`
	NameCN            string  `json:"name_cn"`
	NameEN            string  `json:"name_en"`
	NameHK            string  `json:"name_hk"`
	Exchange          string  `json:"exchange"`
	Currency          string  `json:"currency"`
	LotSize           int32   `json:"lot_size"`
	TotalShares       string  `json:"total_shares"`
	CirculatingShares string  `json:"circulating_shares"`
	HKShares          string  `json:"hk_shares"`
	EPS               string  `json:"eps"`
	EPSTTM            string  `json:"eps_ttm"`
	BPS               string  `json:"bps"`
	DividendYield     string  `json:"dividend_yield"`
	StockDerivatives  []int32 `json:"stock_derivatives"`
	Board             string  `json:"board"`
}

// DecodeStaticInfos decodes a static info list.
func DecodeStaticInfos(body []byte) ([]model.SecurityStaticInfo, error) {
	return decodeList(body, func(w wireStaticInfo) (model.SecurityStaticInfo, error) {
		return model.SecurityStaticInfo{
			Symbol:            w.Symbol,
			NameCN:            w.NameCN,
			NameEN:            w.NameEN,
			NameHK:            w.NameHK,
			Exchange:          w.Exchange,
			Currency:          w.Currency,
			LotSize:           w.LotSize,
			TotalShares:       Int64(w.TotalShares),
			CirculatingShares: Int64(w.CirculatingShares),
			HKShares:          Int64(w.HKShares),
			EPS:               Decimal(w.EPS),
			EPSTTM:            Decimal(w.EPSTTM),
			BPS:               Decimal(w.BPS),
			DividendYield:     Decimal(w.DividendYield),
			StockDerivatives:  w.StockDerivatives,
			Board:             w.Board,
		}, nil
	})
}

type wirePrePostQuote struct {
	LastDone  string `json:"last_done"`
	Timestamp string `json:"timestamp"`
	Volume    string `json:"volume"`
	Turnover  string `json:"turnover"`
	High      string `json:"high"`
	Low       string `json:"low"`
	PrevClose string `json:"prev_close"`
}

func (w *wirePrePostQuote) model(field string) (*model.PrePostQuote, error) {
	if w == nil {
		return nil, nil
	}
	ts, err := Timestamp(field+".timestamp", w.Timestamp)
	if err != nil {
		return nil, err
	}
	return &model.PrePostQuote{
		LastDone:  Decimal(w.LastDone),
		Timestamp: ts,
		Volume:    Int64(w.Volume),
		Turnover:  Decimal(w.Turnover),
		High:      Decimal(w.High),
		Low:       Decimal(w.Low),
		PrevClose: Decimal(w.PrevClose),
	}, nil
}

type wireQuote struct {
	Symbol          string            `json:"symbol"`
	LastDone        string            `json:"last_done"`
	PrevClose       string            `json:"prev_close"`
	Open            string            `json:"open"`
	High            string            `json:"high"`
	Low             string            `json:"low"`
	Timestamp       string            `json:"timestamp"`
	Volume          string            `json:"volume"`
	Turnover        string            `json:"turnover"`
	TradeStatus     int32             `json:"trade_status"`
	PreMarketQuote  *wirePrePostQuote `json:"pre_market_quote,omitempty"`
	PostMarketQuote *wirePrePostQuote `json:"post_market_quote,omitempty"`
	OvernightQuote  *wirePrePostQuote `json:"over_night_quote,omitempty"`
}

func (w wireQuote) model() (model.SecurityQuote, error) {
	var q model.SecurityQuote
	ts, err := Timestamp("timestamp", w.Timestamp)
	if err != nil {
		return q, err
	}
	status, err := TradeStatus("trade_status", w.TradeStatus)
	if err != nil {
		return q, err
	}
	pre, err := w.PreMarketQuote.model("pre_market_quote")
	if err != nil {
		return q, err
	}
	post, err := w.PostMarketQuote.model("post_market_quote")
	if err != nil {
		return q, err
	}
	overnight, err := w.OvernightQuote.model("over_night_quote")
	if err != nil {
		return q, err
	}
	return model.SecurityQuote{
		Symbol:          w.Symbol,
		LastDone:        Decimal(w.LastDone),
		PrevClose:       Decimal(w.PrevClose),
		Open:            Decimal(w.Open),
		High:            Decimal(w.High),
		Low:             Decimal(w.Low),
		Timestamp:       ts,
		Volume:          Int64(w.Volume),
		Turnover:        Decimal(w.Turnover),
		TradeStatus:     status,
		PreMarketQuote:  pre,
		PostMarketQuote: post,
		OvernightQuote:  overnight,
	}, nil
}

// DecodeQuotes decodes a security quote list.
func DecodeQuotes(body []byte) ([]model.SecurityQuote, error) {
	return decodeList(body, wireQuote.model)
}

type wireOptionExtend struct {
	ImpliedVolatility    string `json:"implied_volatility"`
	OpenInterest         string `json:"open_interest"`
	ExpiryDate           string `json:"expiry_date"`
	StrikePrice          string `json:"strike_price"`
	ContractMultiplier   string `json:"contract_multiplier"`
	ContractType         string `json:"contract_type"`
	ContractSize         string `json:"contract_size"`
	Direction            string `json:"direction"`
	HistoricalVolatility string `json:"historical_volatility"`
	UnderlyingSymbol     string `json:"underlying_symbol"`
}

type wireOptionQuote struct {
	wireQuote
	OptionExtend wireOptionExtend `json:"option_extend"`
}

// DecodeOptionQuotes decodes an option quote list.
func DecodeOptionQuotes(body []byte) ([]model.OptionQuote, error) {
	return decodeList(body, func(w wireOptionQuote) (model.OptionQuote, error) {
		q, err := w.wireQuote.model()
		if err != nil {
			return model.OptionQuote{}, err
		}
		ext := w.OptionExtend
		expiry, err := OptionalDate("option_extend.expiry_date", ext.ExpiryDate)
		if err != nil {
			return model.OptionQuote{}, err
		}
		return model.OptionQuote{
			SecurityQuote:        q,
			ImpliedVolatility:    Decimal(ext.ImpliedVolatility),
			OpenInterest:         Int64(ext.OpenInterest),
			ExpiryDate:           expiry,
			StrikePrice:          Decimal(ext.StrikePrice),
			ContractMultiplier:   Decimal(ext.ContractMultiplier),
			ContractType:         ext.ContractType,
			ContractSize:         Decimal(ext.ContractSize),
			Direction:            ext.Direction,
			HistoricalVolatility: Decimal(ext.HistoricalVolatility),
			UnderlyingSymbol:     ext.UnderlyingSymbol,
		}, nil
	})
}

type wireWarrantExtend struct {
	ImpliedVolatility string `json:"implied_volatility"`
	ExpiryDate        string `json:"expiry_date"`
	LastTradeDate     string `json:"last_trade_date"`
	OutstandingRatio  string `json:"outstanding_ratio"`
	OutstandingQty    string `json:"outstanding_qty"`
	ConversionRatio   string `json:"conversion_ratio"`
	Category          string `json:"category"`
	StrikePrice       string `json:"strike_price"`
	UpperStrikePrice  string `json:"upper_strike_price"`
	LowerStrikePrice  string `json:"lower_strike_price"`
	CallPrice         string `json:"call_price"`
	UnderlyingSymbol  string `json:"underlying_symbol"`
}

type wireWarrantQuote struct {
	wireQuote
	WarrantExtend wireWarrantExtend `json:"warrant_extend"`
}

// DecodeWarrantQuotes decodes a warrant quote list.
func DecodeWarrantQuotes(body []byte) ([]model.WarrantQuote, error) {
	return decodeList(body, func(w wireWarrantQuote) (model.WarrantQuote, error) {
		q, err := w.wireQuote.model()
		if err != nil {
			return model.WarrantQuote{}, err
		}
		ext := w.WarrantExtend
		expiry, err := OptionalDate("warrant_extend.expiry_date", ext.ExpiryDate)
		if err != nil {
			return model.WarrantQuote{}, err
		}
		lastTrade, err := OptionalDate("warrant_extend.last_trade_date", ext.LastTradeDate)
		if err != nil {
			return model.WarrantQuote{}, err
		}
		return model.WarrantQuote{
			SecurityQuote:     q,
			ImpliedVolatility: Decimal(ext.ImpliedVolatility),
			ExpiryDate:        expiry,
			LastTradeDate:     lastTrade,
			OutstandingRatio:  Decimal(ext.OutstandingRatio),
			OutstandingQty:    Int64(ext.OutstandingQty),
			ConversionRatio:   Decimal(ext.ConversionRatio),
			Category:          ext.Category,
			StrikePrice:       Decimal(ext.StrikePrice),
			UpperStrikePrice:  Decimal(ext.UpperStrikePrice),
			LowerStrikePrice:  Decimal(ext.LowerStrikePrice),
			CallPrice:         Decimal(ext.CallPrice),
			UnderlyingSymbol:  ext.UnderlyingSymbol,
		}, nil
	})
}

type wireDepth struct {
	Position int32  `json:"position"`
	Price    string `json:"price"`
	Volume   string `json:"volume"`
	OrderNum string `json:"order_num"`
}

func (w wireDepth) model() model.DepthLevel {
	return model.DepthLevel{
		Position: w.Position,
		Price:    Decimal(w.Price),
		Volume:   Int64(w.Volume),
		OrderNum: Int64(w.OrderNum),
	}
}

type wireSecurityDepth struct {
	Symbol string      `json:"symbol"`
	Ask    []wireDepth `json:"ask"`
	Bid    []wireDepth `json:"bid"`
}

func (w wireSecurityDepth) model() model.SecurityDepth {
	return model.SecurityDepth{
		Asks: mapAll(w.Ask, wireDepth.model),
		Bids: mapAll(w.Bid, wireDepth.model),
	}
}

// DecodeDepth decodes an order book snapshot.
func DecodeDepth(body []byte) (model.SecurityDepth, error) {
	var w wireSecurityDepth
	if err := unmarshal(body, &w); err != nil {
		return model.SecurityDepth{}, err
	}
	return w.model(), nil
}

type wireBroker struct {
	Position  int32   `json:"position"`
	BrokerIDs []int32 `json:"broker_ids"`
}

func (w wireBroker) model() model.BrokerLevel {
	return model.BrokerLevel{Position: w.Position, BrokerIDs: w.BrokerIDs}
}

type wireSecurityBrokers struct {
	Symbol     string       `json:"symbol"`
	AskBrokers []wireBroker `json:"ask_brokers"`
	BidBrokers []wireBroker `json:"bid_brokers"`
}

func (w wireSecurityBrokers) model() model.SecurityBrokers {
	return model.SecurityBrokers{
		AskBrokers: mapAll(w.AskBrokers, wireBroker.model),
		BidBrokers: mapAll(w.BidBrokers, wireBroker.model),
	}
}

// DecodeBrokers decodes a broker queue snapshot.
func DecodeBrokers(body []byte) (model.SecurityBrokers, error) {
	var w wireSecurityBrokers
	if err := unmarshal(body, &w); err != nil {
		return model.SecurityBrokers{}, err
	}
	return w.model(), nil
}

type wireParticipant struct {
	BrokerIDs         []int32 `json:"broker_ids"`
	ParticipantNameCN string  `json:"participant_name_cn"`
	ParticipantNameEN string  `json:"participant_name_en"`
	ParticipantNameHK string  `json:"participant_name_hk"`
}

// DecodeParticipants decodes the broker participant list.
func DecodeParticipants(body []byte) ([]model.ParticipantInfo, error) {
	return decodeList(body, func(w wireParticipant) (model.ParticipantInfo, error) {
		return model.ParticipantInfo(w), nil
	})
}

type wireTrade struct {
	Price        string `json:"price"`
	Volume       string `json:"volume"`
	Timestamp    string `json:"timestamp"`
	TradeType    string `json:"trade_type"`
	Direction    int32  `json:"direction"`
	TradeSession int32  `json:"trade_session"`
}

func (w wireTrade) model() (model.Trade, error) {
	ts, err := Timestamp("timestamp", w.Timestamp)
	if err != nil {
		return model.Trade{}, err
	}
	session, err := TradeSession("trade_session", w.TradeSession)
	if err != nil {
		return model.Trade{}, err
	}
	return model.Trade{
		Price:        Decimal(w.Price),
		Volume:       Int64(w.Volume),
		Timestamp:    ts,
		TradeType:    w.TradeType,
		Direction:    Direction(w.Direction),
		TradeSession: session,
	}, nil
}

// DecodeTrades decodes a trade list.
func DecodeTrades(body []byte) ([]model.Trade, error) {
	return decodeList(body, wireTrade.model)
}

type wireIntradayLine struct {
	Price     string `json:"price"`
	Timestamp string `json:"timestamp"`
	Volume    string `json:"volume"`
	Turnover  string `json:"turnover"`
	AvgPrice  string `json:"avg_price"`
}

// DecodeIntraday decodes intraday lines.
func DecodeIntraday(body []byte) ([]model.IntradayLine, error) {
	return decodeList(body, func(w wireIntradayLine) (model.IntradayLine, error) {
		ts, err := Timestamp("timestamp", w.Timestamp)
		if err != nil {
			return model.IntradayLine{}, err
		}
		return model.IntradayLine{
			Price:     Decimal(w.Price),
			Timestamp: ts,
			Volume:    Int64(w.Volume),
			Turnover:  Decimal(w.Turnover),
			AvgPrice:  Decimal(w.AvgPrice),
		}, nil
	})
}

type wireCandlestick struct {
	Close        string `json:"close"`
	Open         string `json:"open"`
	Low          string `json:"low"`
	High         string `json:"high"`
	Volume       string `json:"volume"`
	Turnover     string `json:"turnover"`
	Timestamp    string `json:"timestamp"`
	TradeSession int32  `json:"trade_session"`
}

func (w wireCandlestick) model() (model.Candlestick, error) {
	ts, err := Timestamp("timestamp", w.Timestamp)
	if err != nil {
		return model.Candlestick{}, err
	}
	session, err := TradeSession("trade_session", w.TradeSession)
	if err != nil {
		return model.Candlestick{}, err
	}
	return model.Candlestick{
		Timestamp:    ts,
		Open:         Decimal(w.Open),
		High:         Decimal(w.High),
		Low:          Decimal(w.Low),
		Close:        Decimal(w.Close),
		Volume:       Int64(w.Volume),
		Turnover:     Decimal(w.Turnover),
		TradeSession: session,
	}, nil
}

// DecodeCandlesticks decodes a candlestick list.
func DecodeCandlesticks(body []byte) ([]model.Candlestick, error) {
	return decodeList(body, wireCandlestick.model)
}

type wireExpiryDates struct {
	ExpiryDate []string `json:"expiry_date"`
}

// DecodeExpiryDates decodes the option chain expiry dates.
func DecodeExpiryDates(body []byte) ([]time.Time, error) {
	var w wireExpiryDates
	if err := unmarshal(body, &w); err != nil {
		return nil, err
	}
	return convertAll(w.ExpiryDate, func(s string) (time.Time, error) {
		return Date("expiry_date", s)
	})
}

type wireStrikePrice struct {
	Price      string `json:"price"`
	CallSymbol string `json:"call_symbol"`
	PutSymbol  string `json:"put_symbol"`
	Standard   bool   `json:"standard"`
}

// DecodeStrikePrices decodes one expiry of an option chain.
func DecodeStrikePrices(body []byte) ([]model.StrikePriceInfo, error) {
	return decodeList(body, func(w wireStrikePrice) (model.StrikePriceInfo, error) {
		return model.StrikePriceInfo{
			Price:      Decimal(w.Price),
			CallSymbol: w.CallSymbol,
			PutSymbol:  w.PutSymbol,
			Standard:   w.Standard,
		}, nil
	})
}

type wireIssuer struct {
	ID     int32  `json:"id"`
	NameCN string `json:"name_cn"`
	NameEN string `json:"name_en"`
	NameHK string `json:"name_hk"`
}

// DecodeIssuers decodes the warrant issuer list.
func DecodeIssuers(body []byte) ([]model.IssuerInfo, error) {
	return decodeList(body, func(w wireIssuer) (model.IssuerInfo, error) {
		return model.IssuerInfo{IssuerID: w.ID, NameCN: w.NameCN, NameEN: w.NameEN, NameHK: w.NameHK}, nil
	})
}

type wireWarrant struct {
	Symbol            string `json:"symbol"`
	WarrantType       string `json:"warrant_type"`
	Name              string `json:"name"`
	LastDone          string `json:"last_done"`
	ChangeRate        string `json:"change_rate"`
	ChangeValue       string `json:"change_value"`
	Volume            string `json:"volume"`
	Turnover          string `json:"turnover"`
	ExpiryDate        string `json:"expiry_date"`
	StrikePrice       string `json:"strike_price"`
	ImpliedVolatility string `json:"implied_volatility"`
	LeverageRatio     string `json:"leverage_ratio"`
	Premium           string `json:"premium"`
	Status            string `json:"status"`
}

// DecodeWarrants decodes a warrant screener page.
func DecodeWarrants(body []byte) ([]model.WarrantInfo, error) {
	return decodeList(body, func(w wireWarrant) (model.WarrantInfo, error) {
		expiry, err := OptionalDate("expiry_date", w.ExpiryDate)
		if err != nil {
			return model.WarrantInfo{}, err
		}
		return model.WarrantInfo{
			Symbol:            w.Symbol,
			WarrantType:       w.WarrantType,
			Name:              w.Name,
			LastDone:          Decimal(w.LastDone),
			ChangeRate:        Decimal(w.ChangeRate),
			ChangeValue:       Decimal(w.ChangeValue),
			Volume:            Int64(w.Volume),
			Turnover:          Decimal(w.Turnover),
			ExpiryDate:        expiry,
			StrikePrice:       Decimal(w.StrikePrice),
			ImpliedVolatility: Decimal(w.ImpliedVolatility),
			LeverageRatio:     Decimal(w.LeverageRatio),
			Premium:           Decimal(w.Premium),
			Status:            w.Status,
		}, nil
	})
}

type wireTradePeriod struct {
	BegTime      int32 `json:"beg_time"`
	EndTime      int32 `json:"end_time"`
	TradeSession int32 `json:"trade_session"`
}

type wireMarketTradePeriod struct {
	Market       string            `json:"market"`
	TradeSession []wireTradePeriod `json:"trade_session"`
}

// DecodeTradingSessions decodes the trading windows of every market.
func DecodeTradingSessions(body []byte) ([]model.MarketTradingSession, error) {
	return decodeList(body, func(w wireMarketTradePeriod) (model.MarketTradingSession, error) {
		market, err := Market("market", w.Market)
		if err != nil {
			return model.MarketTradingSession{}, err
		}
		sessions, err := convertAll(w.TradeSession, func(p wireTradePeriod) (model.TradingSessionInfo, error) {
			begin, err := Clock("beg_time", p.BegTime)
			if err != nil {
				return model.TradingSessionInfo{}, err
			}
			end, err := Clock("end_time", p.EndTime)
			if err != nil {
				return model.TradingSessionInfo{}, err
			}
			session, err := TradeSession("trade_session", p.TradeSession)
			if err != nil {
				return model.TradingSessionInfo{}, err
			}
			return model.TradingSessionInfo{BeginTime: begin, EndTime: end, TradeSession: session}, nil
		})
		if err != nil {
			return model.MarketTradingSession{}, err
		}
		return model.MarketTradingSession{Market: market, TradeSessions: sessions}, nil
	})
}

type wireTradeDays struct {
	TradeDay     []string `json:"trade_day"`
	HalfTradeDay []string `json:"half_trade_day"`
}

// DecodeTradingDays decodes trading and half trading days.
func DecodeTradingDays(body []byte) (model.MarketTradingDays, error) {
	var w wireTradeDays
	if err := unmarshal(body, &w); err != nil {
		return model.MarketTradingDays{}, err
	}
	date := func(s string) (time.Time, error) { return Date("trade_day", s) }
	days, err := convertAll(w.TradeDay, date)
	if err != nil {
		return model.MarketTradingDays{}, err
	}
	half, err := convertAll(w.HalfTradeDay, date)
	if err != nil {
		return model.MarketTradingDays{}, err
	}
	return model.MarketTradingDays{TradingDays: days, HalfTradingDays: half}, nil
}

type wireCapitalFlow struct {
	Inflow    string `json:"inflow"`
	Timestamp string `json:"timestamp"`
}

// DecodeCapitalFlow decodes intraday capital flow lines.
func DecodeCapitalFlow(body []byte) ([]model.CapitalFlowLine, error) {
	return decodeList(body, func(w wireCapitalFlow) (model.CapitalFlowLine, error) {
		ts, err := Timestamp("timestamp", w.Timestamp)
		if err != nil {
			return model.CapitalFlowLine{}, err
		}
		return model.CapitalFlowLine{Inflow: Decimal(w.Inflow), Timestamp: ts}, nil
	})
}

type wireCapitalDistribution struct {
	Large  string `json:"large"`
	Medium string `json:"medium"`
	Small  string `json:"small"`
}

func (w wireCapitalDistribution) model() model.CapitalDistribution {
	return model.CapitalDistribution{Large: Decimal(w.Large), Medium: Decimal(w.Medium), Small: Decimal(w.Small)}
}

type wireCapitalDistributionResponse struct {
	Timestamp  string                  `json:"timestamp"`
	CapitalIn  wireCapitalDistribution `json:"capital_in"`
	CapitalOut wireCapitalDistribution `json:"capital_out"`
}

// DecodeCapitalDistribution decodes the capital distribution of a security.
func DecodeCapitalDistribution(body []byte) (model.CapitalDistributionResponse, error) {
	var w wireCapitalDistributionResponse
	if err := unmarshal(body, &w); err != nil {
		return model.CapitalDistributionResponse{}, err
	}
	ts, err := Timestamp("timestamp", w.Timestamp)
	if err != nil {
		return model.CapitalDistributionResponse{}, err
	}
	return model.CapitalDistributionResponse{
		Timestamp:  ts,
		CapitalIn:  w.CapitalIn.model(),
		CapitalOut: w.CapitalOut.model(),
	}, nil
}

type wireCalcIndex struct {
	Symbol                string `json:"symbol"`
	LastDone              string `json:"last_done"`
	ChangeValue           string `json:"change_val"`
	ChangeRate            string `json:"change_rate"`
	Volume                string `json:"volume"`
	Turnover              string `json:"turnover"`
	YtdChangeRate         string `json:"ytd_change_rate"`
	TurnoverRate          string `json:"turnover_rate"`
	TotalMarketValue      string `json:"total_market_value"`
	CapitalFlow           string `json:"capital_flow"`
	Amplitude             string `json:"amplitude"`
	VolumeRatio           string `json:"volume_ratio"`
	PeTTMRatio            string `json:"pe_ttm_ratio"`
	PbRatio               string `json:"pb_ratio"`
	DividendRatioTTM      string `json:"dividend_ratio_ttm"`
	FiveDayChangeRate     string `json:"five_day_change_rate"`
	TenDayChangeRate      string `json:"ten_day_change_rate"`
	HalfYearChangeRate    string `json:"half_year_change_rate"`
	FiveMinutesChangeRate string `json:"five_minutes_change_rate"`
}

// DecodeCalcIndexes decodes calculated indexes; indexes absent from the body stay zero.
func DecodeCalcIndexes(body []byte) ([]model.SecurityCalcIndex, error) {
	return decodeList(body, func(w wireCalcIndex) (model.SecurityCalcIndex, error) {
		return model.SecurityCalcIndex{
			Symbol:                w.Symbol,
			LastDone:              Decimal(w.LastDone),
			ChangeValue:           Decimal(w.ChangeValue),
			ChangeRate:            Decimal(w.ChangeRate),
			Volume:                Int64(w.Volume),
			Turnover:              Decimal(w.Turnover),
			YtdChangeRate:         Decimal(w.YtdChangeRate),
			TurnoverRate:          Decimal(w.TurnoverRate),
			TotalMarketValue:      Decimal(w.TotalMarketValue),
			CapitalFlow:           Decimal(w.CapitalFlow),
			Amplitude:             Decimal(w.Amplitude),
			VolumeRatio:           Decimal(w.VolumeRatio),
			PeTTMRatio:            Decimal(w.PeTTMRatio),
			PbRatio:               Decimal(w.PbRatio),
			DividendRatioTTM:      Decimal(w.DividendRatioTTM),
			FiveDayChangeRate:     Decimal(w.FiveDayChangeRate),
			TenDayChangeRate:      Decimal(w.TenDayChangeRate),
			HalfYearChangeRate:    Decimal(w.HalfYearChangeRate),
			FiveMinutesChangeRate: Decimal(w.FiveMinutesChangeRate),
		}, nil
	})
}

// TradeSessionsWire is the request code of a session set.
func TradeSessionsWire(ts enum.TradeSessions) int32 {
	if ts == enum.TradeSessionsAll {
		return 100
	}
	return 0
}

// CalcIndexCodes maps indexes to their wire codes.
func CalcIndexCodes(indexes []enum.CalcIndex) []int32 {
	out := make([]int32, 0, len(indexes))
	for _, idx := range indexes {
		if idx.IsAvailable() {
			out = append(out, int32(idx))
		}
	}
	return out
}
