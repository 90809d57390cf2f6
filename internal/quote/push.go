package quote

import (
	"sync"

	"marketlink/internal/model"
	"marketlink/internal/model/enum"
)

// PushEvent is one real-time update of a symbol. Kind selects which of the
// detail fields is set.
type PushEvent struct {
	Symbol      string
	Kind        enum.PushKind
	Quote       model.PushQuote
	Depth       model.PushDepth
	Brokers     model.PushBrokers
	Trades      model.PushTrades
	Candlestick model.PushCandlestick
}

type (
	QuoteHandler       func(symbol string, event model.PushQuote)
	DepthHandler       func(symbol string, event model.PushDepth)
	BrokersHandler     func(symbol string, event model.PushBrokers)
	TradesHandler      func(symbol string, event model.PushTrades)
	CandlestickHandler func(symbol string, event model.PushCandlestick)
)

// handlers holds one callback per push kind. Setting replaces the previous
// callback; dispatch reads under the lock and calls outside it.
type handlers struct {
	mu          sync.Mutex
	quote       QuoteHandler
	depth       DepthHandler
	brokers     BrokersHandler
	trades      TradesHandler
	candlestick CandlestickHandler
}

func (h *handlers) setQuote(fn QuoteHandler) {
	h.mu.Lock()
	h.quote = fn
	h.mu.Unlock()
}

func (h *handlers) setDepth(fn DepthHandler) {
	h.mu.Lock()
	h.depth = fn
	h.mu.Unlock()
}

func (h *handlers) setBrokers(fn BrokersHandler) {
	h.mu.Lock()
	h.brokers = fn
	h.mu.Unlock()
}

func (h *handlers) setTrades(fn TradesHandler) {
	h.mu.Lock()
	h.trades = fn
	h.mu.Unlock()
}

func (h *handlers) setCandlestick(fn CandlestickHandler) {
	h.mu.Lock()
	h.candlestick = fn
	h.mu.Unlock()
}

func (h *handlers) dispatch(e PushEvent) {
	switch e.Kind {
	case enum.PushKindQuote:
		h.mu.Lock()
		fn := h.quote
		h.mu.Unlock()
		if fn != nil {
			fn(e.Symbol, e.Quote)
		}
	case enum.PushKindDepth:
		h.mu.Lock()
		fn := h.depth
		h.mu.Unlock()
		if fn != nil {
			fn(e.Symbol, e.Depth)
		}
	case enum.PushKindBrokers:
		h.mu.Lock()
		fn := h.brokers
		h.mu.Unlock()
		if fn != nil {
			fn(e.Symbol, e.Brokers)
		}
	case enum.PushKindTrade:
		h.mu.Lock()
		fn := h.trades
		h.mu.Unlock()
		if fn != nil {
			fn(e.Symbol, e.Trades)
		}
	case enum.PushKindCandlestick:
		h.mu.Lock()
		fn := h.candlestick
		h.mu.Unlock()
		if fn != nil {
			fn(e.Symbol, e.Candlestick)
		}
	}
}
