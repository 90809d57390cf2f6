package quote

import (
	"context"
	"sync"
	"time"

	"marketlink/internal/bus"
	"marketlink/internal/cache"
	"marketlink/internal/codec"
	"marketlink/internal/model"
	"marketlink/internal/model/enum"
	"marketlink/pkg/exception"
	"marketlink/pkg/rest"

	"github.com/yanun0323/errors"
)

// QuoteContext is the quote API. It is safe for concurrent use and cheap to
// share; every call is a message to the core goroutine.
type QuoteContext struct {
	core      *core
	transport Transport
	http      *rest.Client
	events    *bus.Queue[PushEvent]
	handlers  handlers

	cancel    context.CancelFunc
	closeOnce sync.Once
	fanout    chan struct{}

	participants *cache.Cache[[]model.ParticipantInfo]
	issuers      *cache.Cache[[]model.IssuerInfo]
	sessions     *cache.Cache[[]model.MarketTradingSession]
	expiryDates  *cache.KeyedCache[string, []time.Time]
	strikes      *cache.KeyedCache[chainKey, []model.StrikePriceInfo]
}

type chainKey struct {
	symbol string
	date   string
}

// New starts the core on transport. The http client serves the watchlist
// operations and may be nil when they are not used.
func New(transport Transport, http *rest.Client, cfg Config) (*QuoteContext, error) {
	if transport == nil {
		return nil, errors.Wrap(exception.ErrNilInstance, "quote transport")
	}
	cfg = cfg.normalize()

	ctx, cancel := context.WithCancel(context.Background())
	events := bus.NewQueue[PushEvent](cfg.PushQueueSize)
	q := &QuoteContext{
		core:         newCore(cfg, transport, events),
		transport:    transport,
		http:         http,
		events:       events,
		cancel:       cancel,
		fanout:       make(chan struct{}),
		participants: cache.New[[]model.ParticipantInfo](cfg.CacheTTL),
		issuers:      cache.New[[]model.IssuerInfo](cfg.CacheTTL),
		sessions:     cache.New[[]model.MarketTradingSession](cfg.CacheTTL),
		expiryDates:  cache.NewKeyed[string, []time.Time](cfg.CacheTTL),
		strikes:      cache.NewKeyed[chainKey, []model.StrikePriceInfo](cfg.CacheTTL),
	}

	go q.core.run(ctx)
	go func() {
		defer close(q.fanout)
		events.Run(ctx, q.handlers.dispatch)
	}()
	return q, nil
}

// Close stops the core and the handler goroutine, then closes the transport.
// Later calls fail with exception.ErrClientClosed.
func (q *QuoteContext) Close() error {
	var err error
	q.closeOnce.Do(func() {
		q.cancel()
		<-q.core.done
		q.events.Close()
		<-q.fanout
		err = q.transport.Close()
	})
	return err
}

func call[T any](ctx context.Context, q *QuoteContext, cmd command, r *reply[T]) (T, error) {
	var zero T
	select {
	case <-q.core.done:
		return zero, exception.ErrClientClosed
	default:
	}

	select {
	case q.core.commands <- cmd:
	case <-q.core.done:
		return zero, exception.ErrClientClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	}

	select {
	case res := <-r.ch:
		return res.value, res.err
	case <-q.core.done:
		select {
		case res := <-r.ch:
			return res.value, res.err
		default:
			return zero, exception.ErrClientClosed
		}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Subscribe adds real-time channels for symbols. With isFirstPush the venue
// sends the current state right away.
func (q *QuoteContext) Subscribe(ctx context.Context, symbols []string, flags enum.SubFlags, isFirstPush bool) error {
	r := newReply[struct{}]()
	_, err := call(ctx, q, &subscribeCommand{ctx: ctx, symbols: symbols, flags: flags, isFirstPush: isFirstPush, reply: r}, r)
	return err
}

func (q *QuoteContext) Unsubscribe(ctx context.Context, symbols []string, flags enum.SubFlags) error {
	r := newReply[struct{}]()
	_, err := call(ctx, q, &unsubscribeCommand{ctx: ctx, symbols: symbols, flags: flags, reply: r}, r)
	return err
}

// SubscribeCandlesticks starts a locally merged candlestick series and
// returns its initial candles, oldest first.
func (q *QuoteContext) SubscribeCandlesticks(ctx context.Context, symbol string, period enum.Period, sessions enum.TradeSessions) ([]model.Candlestick, error) {
	r := newReply[[]model.Candlestick]()
	return call(ctx, q, &subscribeCandlesticksCommand{ctx: ctx, symbol: symbol, period: period, sessions: sessions, reply: r}, r)
}

func (q *QuoteContext) UnsubscribeCandlesticks(ctx context.Context, symbol string, period enum.Period) error {
	r := newReply[struct{}]()
	_, err := call(ctx, q, &unsubscribeCandlesticksCommand{ctx: ctx, symbol: symbol, period: period, reply: r}, r)
	return err
}

// Subscriptions lists the current subscriptions sorted by symbol.
func (q *QuoteContext) Subscriptions(ctx context.Context) ([]model.Subscription, error) {
	r := newReply[[]model.Subscription]()
	return call(ctx, q, &subscriptionsCommand{reply: r}, r)
}

// Request sends a raw stream request and returns the raw response body.
func (q *QuoteContext) Request(ctx context.Context, cmd codec.Command, body []byte) ([]byte, error) {
	r := newReply[[]byte]()
	return call(ctx, q, &requestCommand{ctx: ctx, cmd: cmd, body: body, reply: r}, r)
}

func query[T any](ctx context.Context, q *QuoteContext, cmd codec.Command, req any, decode func([]byte) (T, error)) (T, error) {
	var zero T
	body, err := codec.Marshal(req)
	if err != nil {
		return zero, err
	}
	resp, err := q.Request(ctx, cmd, body)
	if err != nil {
		return zero, err
	}
	return decode(resp)
}

func (q *QuoteContext) StaticInfo(ctx context.Context, symbols []string) ([]model.SecurityStaticInfo, error) {
	return query(ctx, q, codec.CmdQuerySecurityStaticInfo, codec.MultiSymbolRequest{Symbols: symbols}, codec.DecodeStaticInfos)
}

func (q *QuoteContext) Quote(ctx context.Context, symbols []string) ([]model.SecurityQuote, error) {
	return query(ctx, q, codec.CmdQuerySecurityQuote, codec.MultiSymbolRequest{Symbols: symbols}, codec.DecodeQuotes)
}

func (q *QuoteContext) OptionQuote(ctx context.Context, symbols []string) ([]model.OptionQuote, error) {
	return query(ctx, q, codec.CmdQueryOptionQuote, codec.MultiSymbolRequest{Symbols: symbols}, codec.DecodeOptionQuotes)
}

func (q *QuoteContext) WarrantQuote(ctx context.Context, symbols []string) ([]model.WarrantQuote, error) {
	return query(ctx, q, codec.CmdQueryWarrantQuote, codec.MultiSymbolRequest{Symbols: symbols}, codec.DecodeWarrantQuotes)
}

func (q *QuoteContext) Depth(ctx context.Context, symbol string) (model.SecurityDepth, error) {
	return query(ctx, q, codec.CmdQueryDepth, codec.SymbolRequest{Symbol: symbol}, codec.DecodeDepth)
}

func (q *QuoteContext) Brokers(ctx context.Context, symbol string) (model.SecurityBrokers, error) {
	return query(ctx, q, codec.CmdQueryBrokers, codec.SymbolRequest{Symbol: symbol}, codec.DecodeBrokers)
}

// Participants returns broker participant ids. Cached.
func (q *QuoteContext) Participants(ctx context.Context) ([]model.ParticipantInfo, error) {
	return q.participants.GetOrUpdate(ctx, func(ctx context.Context) ([]model.ParticipantInfo, error) {
		return query(ctx, q, codec.CmdQueryParticipantBrokerIDs, nil, codec.DecodeParticipants)
	})
}

func (q *QuoteContext) Trades(ctx context.Context, symbol string, count int) ([]model.Trade, error) {
	return query(ctx, q, codec.CmdQueryTrade, codec.TradesRequest{Symbol: symbol, Count: int32(count)}, codec.DecodeTrades)
}

func (q *QuoteContext) Intraday(ctx context.Context, symbol string, sessions enum.TradeSessions) ([]model.IntradayLine, error) {
	return query(ctx, q, codec.CmdQueryIntraday, codec.IntradayRequest{
		Symbol:       symbol,
		TradeSession: codec.TradeSessionsWire(sessions),
	}, codec.DecodeIntraday)
}

func (q *QuoteContext) Candlesticks(ctx context.Context, symbol string, period enum.Period, count int, adjust enum.AdjustType, sessions enum.TradeSessions) ([]model.Candlestick, error) {
	if !period.IsAvailable() {
		return nil, errors.Wrapf(exception.ErrQuoteInvalidPeriod, "period: %d", period)
	}
	return query(ctx, q, codec.CmdQueryCandlestick, codec.CandlestickRequest{
		Symbol:       symbol,
		Period:       period.Wire(),
		Count:        int32(count),
		AdjustType:   int32(adjust),
		TradeSession: codec.TradeSessionsWire(sessions),
	}, codec.DecodeCandlesticks)
}

// HistoryCandlesticksByOffset returns count candles before (or with forward,
// after) at. A zero at means the latest candle.
func (q *QuoteContext) HistoryCandlesticksByOffset(ctx context.Context, symbol string, period enum.Period, adjust enum.AdjustType, forward bool, at time.Time, count int, sessions enum.TradeSessions) ([]model.Candlestick, error) {
	if !period.IsAvailable() {
		return nil, errors.Wrapf(exception.ErrQuoteInvalidPeriod, "period: %d", period)
	}
	offset := &codec.HistoryOffsetQuery{Count: int32(count)}
	if forward {
		offset.Direction = 1
	}
	if !at.IsZero() {
		offset.Date = at.Format("20060102")
		offset.Minute = at.Format("1504")
	}
	return query(ctx, q, codec.CmdQueryHistoryCandlestick, codec.HistoryCandlestickRequest{
		Symbol:       symbol,
		Period:       period.Wire(),
		AdjustType:   int32(adjust),
		QueryType:    codec.HistoryQueryByOffset,
		TradeSession: codec.TradeSessionsWire(sessions),
		OffsetQuery:  offset,
	}, codec.DecodeCandlesticks)
}

// HistoryCandlesticksByDate returns the candles between two dates. Zero
// dates leave that end open.
func (q *QuoteContext) HistoryCandlesticksByDate(ctx context.Context, symbol string, period enum.Period, adjust enum.AdjustType, start, end time.Time, sessions enum.TradeSessions) ([]model.Candlestick, error) {
	if !period.IsAvailable() {
		return nil, errors.Wrapf(exception.ErrQuoteInvalidPeriod, "period: %d", period)
	}
	return query(ctx, q, codec.CmdQueryHistoryCandlestick, codec.HistoryCandlestickRequest{
		Symbol:       symbol,
		Period:       period.Wire(),
		AdjustType:   int32(adjust),
		QueryType:    codec.HistoryQueryByDate,
		TradeSession: codec.TradeSessionsWire(sessions),
		DateQuery: &codec.HistoryDateQuery{
			StartDate: codec.FormatDate(start),
			EndDate:   codec.FormatDate(end),
		},
	}, codec.DecodeCandlesticks)
}

// OptionChainExpiryDateList returns the expiry dates of the options on
// symbol. Cached per symbol.
func (q *QuoteContext) OptionChainExpiryDateList(ctx context.Context, symbol string) ([]time.Time, error) {
	return q.expiryDates.GetOrUpdate(ctx, symbol, func(ctx context.Context, symbol string) ([]time.Time, error) {
		return query(ctx, q, codec.CmdQueryOptionChainDate, codec.SymbolRequest{Symbol: symbol}, codec.DecodeExpiryDates)
	})
}

// OptionChainInfoByDate returns the strike prices expiring on date. Cached
// per symbol and date.
func (q *QuoteContext) OptionChainInfoByDate(ctx context.Context, symbol string, date time.Time) ([]model.StrikePriceInfo, error) {
	key := chainKey{symbol: symbol, date: codec.FormatDate(date)}
	return q.strikes.GetOrUpdate(ctx, key, func(ctx context.Context, key chainKey) ([]model.StrikePriceInfo, error) {
		return query(ctx, q, codec.CmdQueryOptionChainDateStrikeInfo, codec.OptionChainDateStrikeRequest{
			Symbol:     key.symbol,
			ExpiryDate: key.date,
		}, codec.DecodeStrikePrices)
	})
}

// WarrantIssuers is cached.
func (q *QuoteContext) WarrantIssuers(ctx context.Context) ([]model.IssuerInfo, error) {
	return q.issuers.GetOrUpdate(ctx, func(ctx context.Context) ([]model.IssuerInfo, error) {
		return query(ctx, q, codec.CmdQueryWarrantIssuerInfo, nil, codec.DecodeIssuers)
	})
}

func (q *QuoteContext) WarrantList(ctx context.Context, symbol string, filter model.WarrantFilter) ([]model.WarrantInfo, error) {
	return query(ctx, q, codec.CmdQueryWarrantFilterList, codec.WarrantFilterRequest{
		Symbol: symbol,
		FilterConfig: codec.WarrantFilterConfig{
			SortBy:     filter.SortBy,
			SortOrder:  filter.SortOrder,
			SortOffset: filter.Offset,
			SortCount:  filter.Count,
			Type:       filter.Types,
			Issuer:     filter.Issuers,
			ExpiryDate: filter.ExpiryDate,
			Status:     filter.Status,
		},
		Language: filter.Language,
	}, codec.DecodeWarrants)
}

// TradingSession returns the trading windows of every market. Cached.
func (q *QuoteContext) TradingSession(ctx context.Context) ([]model.MarketTradingSession, error) {
	return q.sessions.GetOrUpdate(ctx, func(ctx context.Context) ([]model.MarketTradingSession, error) {
		return query(ctx, q, codec.CmdQueryMarketTradePeriod, nil, codec.DecodeTradingSessions)
	})
}

func (q *QuoteContext) TradingDays(ctx context.Context, market enum.Market, begin, end time.Time) (model.MarketTradingDays, error) {
	if !market.IsAvailable() {
		return model.MarketTradingDays{}, errors.Wrapf(exception.ErrInvalidArgument, "market: %d", market)
	}
	return query(ctx, q, codec.CmdQueryMarketTradeDay, codec.MarketTradeDayRequest{
		Market: market.String(),
		BegDay: codec.FormatDate(begin),
		EndDay: codec.FormatDate(end),
	}, codec.DecodeTradingDays)
}

func (q *QuoteContext) CapitalFlow(ctx context.Context, symbol string) ([]model.CapitalFlowLine, error) {
	return query(ctx, q, codec.CmdQueryCapitalFlowIntraday, codec.SymbolRequest{Symbol: symbol}, codec.DecodeCapitalFlow)
}

func (q *QuoteContext) CapitalDistribution(ctx context.Context, symbol string) (model.CapitalDistributionResponse, error) {
	return query(ctx, q, codec.CmdQueryCapitalFlowDistribution, codec.SymbolRequest{Symbol: symbol}, codec.DecodeCapitalDistribution)
}

func (q *QuoteContext) CalcIndexes(ctx context.Context, symbols []string, indexes []enum.CalcIndex) ([]model.SecurityCalcIndex, error) {
	return query(ctx, q, codec.CmdQuerySecurityCalcIndex, codec.CalcIndexRequest{
		Symbols:   symbols,
		CalcIndex: codec.CalcIndexCodes(indexes),
	}, codec.DecodeCalcIndexes)
}

// RealtimeQuote returns the local quotes of the symbols subscribed to
// quotes, in request order. Symbols without a quote yet are left out.
func (q *QuoteContext) RealtimeQuote(ctx context.Context, symbols []string) ([]model.RealtimeQuote, error) {
	r := newReply[[]model.RealtimeQuote]()
	return call(ctx, q, &realtimeQuoteCommand{symbols: symbols, reply: r}, r)
}

func (q *QuoteContext) RealtimeDepth(ctx context.Context, symbol string) (model.SecurityDepth, error) {
	r := newReply[model.SecurityDepth]()
	return call(ctx, q, &realtimeDepthCommand{symbol: symbol, reply: r}, r)
}

func (q *QuoteContext) RealtimeBrokers(ctx context.Context, symbol string) (model.SecurityBrokers, error) {
	r := newReply[model.SecurityBrokers]()
	return call(ctx, q, &realtimeBrokersCommand{symbol: symbol, reply: r}, r)
}

// RealtimeTrades returns up to count of the latest trades, oldest first.
// A non-positive count returns all retained trades.
func (q *QuoteContext) RealtimeTrades(ctx context.Context, symbol string, count int) ([]model.Trade, error) {
	r := newReply[[]model.Trade]()
	return call(ctx, q, &realtimeTradesCommand{symbol: symbol, count: count, reply: r}, r)
}

func (q *QuoteContext) RealtimeCandlesticks(ctx context.Context, symbol string, period enum.Period, count int) ([]model.Candlestick, error) {
	r := newReply[[]model.Candlestick]()
	return call(ctx, q, &realtimeCandlesticksCommand{symbol: symbol, period: period, count: count, reply: r}, r)
}

// SetOnQuote replaces the quote handler. A nil handler drops quote pushes.
func (q *QuoteContext) SetOnQuote(fn QuoteHandler) { q.handlers.setQuote(fn) }

func (q *QuoteContext) SetOnDepth(fn DepthHandler) { q.handlers.setDepth(fn) }

func (q *QuoteContext) SetOnBrokers(fn BrokersHandler) { q.handlers.setBrokers(fn) }

func (q *QuoteContext) SetOnTrades(fn TradesHandler) { q.handlers.setTrades(fn) }

func (q *QuoteContext) SetOnCandlestick(fn CandlestickHandler) { q.handlers.setCandlestick(fn) }
