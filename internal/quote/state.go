package quote

import (
	"slices"

	"marketlink/internal/model"
	"marketlink/internal/model/enum"
)

// tradeRing keeps the most recent trades of a symbol.
type tradeRing struct {
	buf   []model.Trade
	start int
	size  int
}

func newTradeRing(capacity int) *tradeRing {
	return &tradeRing{buf: make([]model.Trade, capacity)}
}

func (r *tradeRing) push(t model.Trade) {
	if len(r.buf) == 0 {
		return
	}
	if r.size < len(r.buf) {
		r.buf[(r.start+r.size)%len(r.buf)] = t
		r.size++
		return
	}
	r.buf[r.start] = t
	r.start = (r.start + 1) % len(r.buf)
}

func (r *tradeRing) reset() {
	clear(r.buf)
	r.start, r.size = 0, 0
}

// last returns up to n of the newest trades, oldest first.
func (r *tradeRing) last(n int) []model.Trade {
	if n <= 0 || n > r.size {
		n = r.size
	}
	out := make([]model.Trade, n)
	skip := r.size - n
	for i := range n {
		out[i] = r.buf[(r.start+skip+i)%len(r.buf)]
	}
	return out
}

// series is one candlestick series kept up to date from trades. A loading
// series is waiting for its initial pull and ignores trades.
type series struct {
	sessions enum.TradeSessions
	candles  []model.Candlestick
	loading  bool
}

func (s *series) lastCandle() *model.Candlestick {
	if len(s.candles) == 0 {
		return nil
	}
	return &s.candles[len(s.candles)-1]
}

func (s *series) appendCapped(c model.Candlestick, capacity int) {
	s.candles = append(s.candles, c)
	if over := len(s.candles) - capacity; over > 0 {
		s.candles = slices.Delete(s.candles, 0, over)
	}
}

func (s *series) tail(n int) []model.Candlestick {
	if n <= 0 || n > len(s.candles) {
		n = len(s.candles)
	}
	return slices.Clone(s.candles[len(s.candles)-n:])
}

// security is the real-time state of one subscribed symbol. flags is what
// callers asked for; confirmed is the part the venue accepted.
type security struct {
	flags     enum.SubFlags
	confirmed enum.SubFlags
	inflight  [subFlagBits]int

	quote    model.RealtimeQuote
	hasQuote bool
	depth    model.SecurityDepth
	brokers  model.SecurityBrokers
	trades   *tradeRing
	series   map[enum.Period]*series
}

func newSecurity(tradesCapacity int) *security {
	return &security{
		trades: newTradeRing(tradesCapacity),
		series: make(map[enum.Period]*series),
	}
}

// remoteFlags is what the venue must stream for this symbol. Candlestick
// series need trades even when the caller did not ask for them.
func (s *security) remoteFlags() enum.SubFlags {
	if len(s.series) != 0 {
		return s.flags | enum.SubFlagTrade
	}
	return s.flags
}

const subFlagBits = 4

// begin marks flags as requested from the venue and not yet answered.
func (s *security) begin(flags enum.SubFlags) {
	for i := range subFlagBits {
		if flags.Has(enum.SubFlags(1) << i) {
			s.inflight[i]++
		}
	}
}

func (s *security) finish(flags enum.SubFlags) {
	for i := range subFlagBits {
		if flags.Has(enum.SubFlags(1)<<i) && s.inflight[i] > 0 {
			s.inflight[i]--
		}
	}
}

func (s *security) pending() enum.SubFlags {
	var out enum.SubFlags
	for i, n := range s.inflight {
		if n > 0 {
			out |= enum.SubFlags(1) << i
		}
	}
	return out
}

// drop removes flags and forgets the state they fed.
func (s *security) drop(flags enum.SubFlags) {
	s.flags &^= flags
	s.confirmed &^= flags
	if flags.Has(enum.SubFlagQuote) {
		s.quote = model.RealtimeQuote{}
		s.hasQuote = false
	}
	if flags.Has(enum.SubFlagDepth) {
		s.depth = model.SecurityDepth{}
	}
	if flags.Has(enum.SubFlagBrokers) {
		s.brokers = model.SecurityBrokers{}
	}
	if flags.Has(enum.SubFlagTrade) {
		s.trades.reset()
	}
}

func (s *security) isRetired() bool {
	return s.flags.IsEmpty() && len(s.series) == 0
}

func (s *security) periods() []enum.Period {
	out := make([]enum.Period, 0, len(s.series))
	for p := range s.series {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

func (s *security) applyQuote(symbol string, q model.PushQuote) {
	s.quote = model.RealtimeQuote{
		Symbol:      symbol,
		LastDone:    q.LastDone,
		Open:        q.Open,
		High:        q.High,
		Low:         q.Low,
		Timestamp:   q.Timestamp,
		Volume:      q.Volume,
		Turnover:    q.Turnover,
		TradeStatus: q.TradeStatus,
	}
	s.hasQuote = true
}
