package enum

// PushKind is the handler category of a push event.
type PushKind uint8

const (
	_push_kind_beg PushKind = iota
	PushKindQuote
	PushKindDepth
	PushKindBrokers
	PushKindTrade
	PushKindCandlestick
	PushKindOrderChanged
	_push_kind_end
)

func (k PushKind) IsAvailable() bool {
	return k > _push_kind_beg && k < _push_kind_end
}

func (k PushKind) String() string {
	switch k {
	case PushKindQuote:
		return "quote"
	case PushKindDepth:
		return "depth"
	case PushKindBrokers:
		return "brokers"
	case PushKindTrade:
		return "trade"
	case PushKindCandlestick:
		return "candlestick"
	case PushKindOrderChanged:
		return "order_changed"
	default:
		return "unknown"
	}
}
