package codec

// Request bodies of the quote stream.

type AuthRequest struct {
	Token    string            `json:"token"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type ReconnectRequest struct {
	SessionID string `json:"session_id"`
}

type AuthResponse struct {
	SessionID string `json:"session_id"`
	Expires   int64  `json:"expires"`
}

type SymbolRequest struct {
	Symbol string `json:"symbol"`
}

type MultiSymbolRequest struct {
	Symbols []string `json:"symbols"`
}

type SubscribeRequest struct {
	Symbols     []string `json:"symbols"`
	SubTypes    []string `json:"sub_types"`
	IsFirstPush bool     `json:"is_first_push"`
}

type UnsubscribeRequest struct {
	Symbols  []string `json:"symbols"`
	SubTypes []string `json:"sub_types"`
	UnsubAll bool     `json:"unsub_all,omitempty"`
}

type TradesRequest struct {
	Symbol string `json:"symbol"`
	Count  int32  `json:"count"`
}

type IntradayRequest struct {
	Symbol       string `json:"symbol"`
	TradeSession int32  `json:"trade_session"`
}

type CandlestickRequest struct {
	Symbol       string `json:"symbol"`
	Period       int32  `json:"period"`
	Count        int32  `json:"count"`
	AdjustType   int32  `json:"adjust_type"`
	TradeSession int32  `json:"trade_session"`
}

const (
	HistoryQueryByOffset int32 = 1
	HistoryQueryByDate   int32 = 2
)

type HistoryOffsetQuery struct {
	Direction int32  `json:"direction"`
	Date      string `json:"date,omitempty"`
	Minute    string `json:"minute,omitempty"`
	Count     int32  `json:"count"`
}

type HistoryDateQuery struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

type HistoryCandlestickRequest struct {
	Symbol       string              `json:"symbol"`
	Period       int32               `json:"period"`
	AdjustType   int32               `json:"adjust_type"`
	QueryType    int32               `json:"query_type"`
	TradeSession int32               `json:"trade_session"`
	OffsetQuery  *HistoryOffsetQuery `json:"offset_request,omitempty"`
	DateQuery    *HistoryDateQuery   `json:"date_request,omitempty"`
}

type OptionChainDateStrikeRequest struct {
	Symbol     string `json:"symbol"`
	ExpiryDate string `json:"expiry_date"`
}

type WarrantFilterConfig struct {
	SortBy     int32   `json:"sort_by"`
	SortOrder  int32   `json:"sort_order"`
	SortOffset int32   `json:"sort_offset"`
	SortCount  int32   `json:"sort_count"`
	Type       []int32 `json:"type,omitempty"`
	Issuer     []int32 `json:"issuer,omitempty"`
	ExpiryDate []int32 `json:"expiry_date,omitempty"`
	Status     []int32 `json:"status,omitempty"`
}

type WarrantFilterRequest struct {
	Symbol       string              `json:"symbol"`
	FilterConfig WarrantFilterConfig `json:"filter_config"`
	Language     int32               `json:"language"`
}

type MarketTradeDayRequest struct {
	Market string `json:"market"`
	BegDay string `json:"beg_day"`
	EndDay string `json:"end_day"`
}

type CalcIndexRequest struct {
	Symbols   []string `json:"symbols"`
	CalcIndex []int32  `json:"calc_index"`
}
