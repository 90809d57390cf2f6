package quote

import (
	"context"
	"maps"
	"slices"
	"time"

	"marketlink/internal/bus"
	"marketlink/internal/candlestick"
	"marketlink/internal/codec"
	"marketlink/internal/model"
	"marketlink/internal/model/enum"
	"marketlink/pkg/exception"
	"marketlink/pkg/websocket"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

const halfDayKeyLayout = "20060102"

// core owns every piece of real-time state. Only the run goroutine touches
// securities, markets and halfDays; remote calls run on their own goroutines
// and post their results back as closures.
type core struct {
	cfg       Config
	transport Transport
	events    *bus.Queue[PushEvent]

	commands chan command
	internal chan func()
	done     chan struct{}
	ctx      context.Context

	securities map[string]*security
	markets    map[enum.Market]*candlestick.Market
	halfDays   map[enum.Market]map[string]struct{}
}

func newCore(cfg Config, transport Transport, events *bus.Queue[PushEvent]) *core {
	c := &core{
		cfg:        cfg,
		transport:  transport,
		events:     events,
		commands:   make(chan command, cfg.CommandQueueSize),
		internal:   make(chan func(), cfg.CommandQueueSize),
		done:       make(chan struct{}),
		securities: make(map[string]*security),
		markets:    make(map[enum.Market]*candlestick.Market, len(cfg.Markets)),
		halfDays:   make(map[enum.Market]map[string]struct{}, len(cfg.HalfDays)),
	}
	for m, market := range cfg.Markets {
		if market == nil {
			continue
		}
		clone := *market
		clone.Tables = maps.Clone(market.Tables)
		c.markets[m] = &clone
	}
	for m, days := range cfg.HalfDays {
		c.setHalfDays(m, days)
	}
	return c
}

func (c *core) run(ctx context.Context) {
	defer close(c.done)
	c.ctx = ctx

	if c.cfg.RefreshCalendar {
		go c.refreshCalendar(ctx)
	}

	pushes, events := c.transport.Pushes(), c.transport.Events()
	for {
		select {
		case <-ctx.Done():
			c.drain()
			return
		case cmd := <-c.commands:
			c.handle(cmd)
		case fn := <-c.internal:
			fn()
		case f, ok := <-pushes:
			if !ok {
				pushes = nil
				continue
			}
			c.handlePush(f)
		case e, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			c.handleEvent(e)
		}
	}
}

// drain fails whatever is still queued so no caller waits forever.
func (c *core) drain() {
	for {
		select {
		case cmd := <-c.commands:
			cmd.abort(exception.ErrClientClosed)
		default:
			return
		}
	}
}

// post hands fn to the run goroutine. It gives up once the core stops.
func (c *core) post(fn func()) {
	select {
	case c.internal <- fn:
	case <-c.ctx.Done():
	}
}

func (c *core) handle(cmd command) {
	switch cmd := cmd.(type) {
	case *subscribeCommand:
		c.subscribe(cmd)
	case *unsubscribeCommand:
		c.unsubscribe(cmd)
	case *subscribeCandlesticksCommand:
		c.subscribeCandlesticks(cmd)
	case *unsubscribeCandlesticksCommand:
		c.unsubscribeCandlesticks(cmd)
	case *subscriptionsCommand:
		cmd.reply.send(c.subscriptions(), nil)
	case *requestCommand:
		go func() {
			start := time.Now()
			body, err := c.transport.Request(cmd.ctx, cmd.cmd, cmd.body)
			c.cfg.Metrics.ObserveRequest(time.Since(start))
			cmd.reply.send(body, err)
		}()
	case *realtimeQuoteCommand:
		cmd.reply.send(c.realtimeQuote(cmd.symbols), nil)
	case *realtimeDepthCommand:
		var depth model.SecurityDepth
		if st := c.securities[cmd.symbol]; st != nil && st.flags.Has(enum.SubFlagDepth) {
			depth = st.depth
		}
		cmd.reply.send(depth, nil)
	case *realtimeBrokersCommand:
		var brokers model.SecurityBrokers
		if st := c.securities[cmd.symbol]; st != nil && st.flags.Has(enum.SubFlagBrokers) {
			brokers = st.brokers
		}
		cmd.reply.send(brokers, nil)
	case *realtimeTradesCommand:
		var trades []model.Trade
		if st := c.securities[cmd.symbol]; st != nil && st.flags.Has(enum.SubFlagTrade) {
			trades = st.trades.last(cmd.count)
		}
		cmd.reply.send(trades, nil)
	case *realtimeCandlesticksCommand:
		var candles []model.Candlestick
		if st := c.securities[cmd.symbol]; st != nil {
			if s := st.series[cmd.period]; s != nil {
				candles = s.tail(cmd.count)
			}
		}
		cmd.reply.send(candles, nil)
	default:
		logs.Errorf("quote: unknown command %T", cmd)
	}
}

func (c *core) security(symbol string) *security {
	st := c.securities[symbol]
	if st == nil {
		st = newSecurity(c.cfg.TradesCapacity)
		c.securities[symbol] = st
	}
	return st
}

func (c *core) retire(symbol string, st *security) {
	if st.isRetired() {
		delete(c.securities, symbol)
	}
}

// subscribe records the flags before the venue confirms so the first push
// is not dropped. A refusal takes back only the flags that no other
// subscribe has confirmed or is still waiting on.
func (c *core) subscribe(cmd *subscribeCommand) {
	symbols := uniqueSymbols(cmd.symbols)
	if len(symbols) == 0 || cmd.flags.IsEmpty() {
		cmd.reply.send(struct{}{}, nil)
		return
	}

	for _, symbol := range symbols {
		st := c.security(symbol)
		st.flags |= cmd.flags
		st.begin(cmd.flags)
	}

	go func() {
		err := c.remoteSubscribe(cmd.ctx, symbols, cmd.flags, cmd.isFirstPush)
		c.post(func() {
			for _, symbol := range symbols {
				st := c.securities[symbol]
				if st == nil {
					continue
				}
				st.finish(cmd.flags)
				if err == nil {
					st.confirmed |= cmd.flags & st.flags
					continue
				}
				st.drop(cmd.flags &^ st.confirmed &^ st.pending())
				c.retire(symbol, st)
			}
			cmd.reply.send(struct{}{}, err)
		})
	}()
}

func (c *core) unsubscribe(cmd *unsubscribeCommand) {
	groups := make(map[enum.SubFlags][]string)
	for _, symbol := range uniqueSymbols(cmd.symbols) {
		st := c.securities[symbol]
		if st == nil {
			continue
		}
		before := st.remoteFlags()
		st.drop(cmd.flags)
		if removed := before &^ st.remoteFlags(); !removed.IsEmpty() {
			groups[removed] = append(groups[removed], symbol)
		}
		c.retire(symbol, st)
	}

	if len(groups) == 0 {
		cmd.reply.send(struct{}{}, nil)
		return
	}

	go func() {
		var first error
		for _, flags := range slices.Sorted(maps.Keys(groups)) {
			if err := c.remoteUnsubscribe(cmd.ctx, groups[flags], flags); err != nil && first == nil {
				first = err
			}
		}
		cmd.reply.send(struct{}{}, first)
	}()
}

func (c *core) subscribeCandlesticks(cmd *subscribeCandlesticksCommand) {
	m, ok := enum.MarketOfSymbol(cmd.symbol)
	if !ok || c.markets[m] == nil {
		cmd.reply.fail(errors.Wrapf(exception.ErrQuoteInvalidSymbol, "symbol: %s", cmd.symbol))
		return
	}
	if !cmd.period.IsAvailable() {
		cmd.reply.fail(errors.Wrapf(exception.ErrQuoteInvalidPeriod, "period: %d", cmd.period))
		return
	}

	st := c.security(cmd.symbol)
	needTrade := !st.remoteFlags().Has(enum.SubFlagTrade)
	s := &series{sessions: cmd.sessions, loading: true}
	st.series[cmd.period] = s

	go func() {
		candles, err := c.pullCandlesticks(cmd.ctx, cmd.symbol, cmd.period, cmd.sessions)
		if err == nil && needTrade {
			err = c.remoteSubscribe(cmd.ctx, []string{cmd.symbol}, enum.SubFlagTrade, false)
		}
		c.post(func() {
			st := c.securities[cmd.symbol]
			if st == nil || st.series[cmd.period] != s {
				// unsubscribed or replaced while loading
				if err != nil {
					cmd.reply.fail(err)
					return
				}
				cmd.reply.send(lastN(candles, c.cfg.SeriesCapacity), nil)
				return
			}
			if err != nil {
				delete(st.series, cmd.period)
				c.retire(cmd.symbol, st)
				cmd.reply.fail(err)
				return
			}
			s.candles = lastN(candles, c.cfg.SeriesCapacity)
			s.loading = false
			cmd.reply.send(s.tail(0), nil)
		})
	}()
}

func (c *core) unsubscribeCandlesticks(cmd *unsubscribeCandlesticksCommand) {
	st := c.securities[cmd.symbol]
	if st == nil || st.series[cmd.period] == nil {
		cmd.reply.send(struct{}{}, nil)
		return
	}

	before := st.remoteFlags()
	delete(st.series, cmd.period)
	removed := before &^ st.remoteFlags()
	c.retire(cmd.symbol, st)

	if removed.IsEmpty() {
		cmd.reply.send(struct{}{}, nil)
		return
	}
	go func() {
		cmd.reply.send(struct{}{}, c.remoteUnsubscribe(cmd.ctx, []string{cmd.symbol}, removed))
	}()
}

func (c *core) subscriptions() []model.Subscription {
	out := make([]model.Subscription, 0, len(c.securities))
	for _, symbol := range slices.Sorted(maps.Keys(c.securities)) {
		st := c.securities[symbol]
		if st.isRetired() {
			continue
		}
		out = append(out, model.Subscription{
			Symbol:       symbol,
			SubFlags:     st.flags,
			Candlesticks: st.periods(),
		})
	}
	return out
}

// realtimeQuote keeps the requested order and skips symbols without a
// subscribed and received quote.
func (c *core) realtimeQuote(symbols []string) []model.RealtimeQuote {
	out := make([]model.RealtimeQuote, 0, len(symbols))
	for _, symbol := range symbols {
		st := c.securities[symbol]
		if st == nil || !st.flags.Has(enum.SubFlagQuote) || !st.hasQuote {
			continue
		}
		out = append(out, st.quote)
	}
	return out
}

func (c *core) remoteSubscribe(ctx context.Context, symbols []string, flags enum.SubFlags, isFirstPush bool) error {
	body, err := codec.Marshal(codec.SubscribeRequest{
		Symbols:     symbols,
		SubTypes:    flags.Wire(),
		IsFirstPush: isFirstPush,
	})
	if err != nil {
		return err
	}
	if _, err := c.transport.Request(ctx, codec.CmdSubscribe, body); err != nil {
		return errors.Wrapf(err, "subscribe %s %v", flags, symbols)
	}
	return nil
}

func (c *core) remoteUnsubscribe(ctx context.Context, symbols []string, flags enum.SubFlags) error {
	body, err := codec.Marshal(codec.UnsubscribeRequest{
		Symbols:  symbols,
		SubTypes: flags.Wire(),
	})
	if err != nil {
		return err
	}
	if _, err := c.transport.Request(ctx, codec.CmdUnsubscribe, body); err != nil {
		return errors.Wrapf(err, "unsubscribe %s %v", flags, symbols)
	}
	return nil
}

func (c *core) pullCandlesticks(ctx context.Context, symbol string, period enum.Period, sessions enum.TradeSessions) ([]model.Candlestick, error) {
	body, err := codec.Marshal(codec.CandlestickRequest{
		Symbol:       symbol,
		Period:       period.Wire(),
		Count:        int32(c.cfg.SeriesCapacity),
		AdjustType:   int32(enum.AdjustTypeNoAdjust),
		TradeSession: codec.TradeSessionsWire(sessions),
	})
	if err != nil {
		return nil, err
	}
	resp, err := c.transport.Request(ctx, codec.CmdQueryCandlestick, body)
	if err != nil {
		return nil, errors.Wrapf(err, "pull %s candlesticks of %s", period, symbol)
	}
	return codec.DecodeCandlesticks(resp)
}

func (c *core) handlePush(f codec.Frame) {
	switch f.Command {
	case codec.CmdPushQuote:
		symbol, push, err := codec.DecodePushQuote(f.Body)
		if err != nil {
			logs.Warnf("quote: decode quote push, err: %+v", err)
			return
		}
		st := c.securities[symbol]
		if st == nil || !st.flags.Has(enum.SubFlagQuote) {
			return
		}
		st.applyQuote(symbol, push)
		c.cfg.Metrics.ObservePushDelay(push.Timestamp, time.Now())
		c.emit(PushEvent{Symbol: symbol, Kind: enum.PushKindQuote, Quote: push})
	case codec.CmdPushDepth:
		symbol, push, err := codec.DecodePushDepth(f.Body)
		if err != nil {
			logs.Warnf("quote: decode depth push, err: %+v", err)
			return
		}
		st := c.securities[symbol]
		if st == nil || !st.flags.Has(enum.SubFlagDepth) {
			return
		}
		st.depth = model.SecurityDepth{Asks: push.Asks, Bids: push.Bids}
		c.emit(PushEvent{Symbol: symbol, Kind: enum.PushKindDepth, Depth: push})
	case codec.CmdPushBrokers:
		symbol, push, err := codec.DecodePushBrokers(f.Body)
		if err != nil {
			logs.Warnf("quote: decode brokers push, err: %+v", err)
			return
		}
		st := c.securities[symbol]
		if st == nil || !st.flags.Has(enum.SubFlagBrokers) {
			return
		}
		st.brokers = model.SecurityBrokers{AskBrokers: push.AskBrokers, BidBrokers: push.BidBrokers}
		c.emit(PushEvent{Symbol: symbol, Kind: enum.PushKindBrokers, Brokers: push})
	case codec.CmdPushTrade:
		symbol, push, err := codec.DecodePushTrades(f.Body)
		if err != nil {
			logs.Warnf("quote: decode trade push, err: %+v", err)
			return
		}
		st := c.securities[symbol]
		if st == nil {
			return
		}
		if st.flags.Has(enum.SubFlagTrade) {
			for _, t := range push.Trades {
				st.trades.push(t)
			}
			c.emit(PushEvent{Symbol: symbol, Kind: enum.PushKindTrade, Trades: push})
		}
		c.mergeTrades(symbol, st, push.Trades)
	default:
		logs.Debugf("quote: ignore push %s", f.Command)
	}
}

func (c *core) mergeTrades(symbol string, st *security, trades []model.Trade) {
	if len(st.series) == 0 || len(trades) == 0 {
		return
	}
	m, ok := enum.MarketOfSymbol(symbol)
	if !ok {
		return
	}
	market := c.markets[m]
	if market == nil {
		return
	}

	for _, period := range st.periods() {
		s := st.series[period]
		if s.loading {
			continue
		}
		for _, t := range trades {
			action := market.Merge(s.sessions, c.isHalfDay(market, t.Timestamp), period, s.lastCandle(), t)
			switch action.Kind {
			case candlestick.ActionUpdateLast:
				s.candles[len(s.candles)-1] = action.Candlestick
				c.emitCandlestick(symbol, period, action.Candlestick, false)
			case candlestick.ActionAppendNew:
				if last := s.lastCandle(); last != nil {
					c.emitCandlestick(symbol, period, *last, true)
				}
				s.appendCapped(action.Candlestick, c.cfg.SeriesCapacity)
				c.emitCandlestick(symbol, period, action.Candlestick, false)
			}
		}
	}
}

func (c *core) emitCandlestick(symbol string, period enum.Period, candle model.Candlestick, confirmed bool) {
	c.emit(PushEvent{
		Symbol: symbol,
		Kind:   enum.PushKindCandlestick,
		Candlestick: model.PushCandlestick{
			Period:      period,
			Candlestick: candle,
			IsConfirmed: confirmed,
		},
	})
}

func (c *core) emit(e PushEvent) {
	if err := c.events.TryPublish(e); err != nil {
		c.cfg.Metrics.ObservePublishError(err)
		logs.Warnf("quote: drop %s push of %s, err: %+v", e.Kind, e.Symbol, err)
		return
	}
	c.cfg.Metrics.ObservePush(e.Kind)
}

func (c *core) handleEvent(e websocket.Event) {
	switch e.Kind {
	case websocket.EventConnected:
		if e.Reconnect {
			c.cfg.Metrics.IncReconnect()
			c.resubscribe()
		}
	case websocket.EventDisconnected:
		logs.Warnf("quote: stream disconnected, err: %+v", e.Err)
	}
}

// resubscribe restores the venue side after a reconnect: one subscribe per
// distinct flag set, then a fresh pull of every candlestick series.
func (c *core) resubscribe() {
	groups := make(map[enum.SubFlags][]string)
	type pending struct {
		symbol string
		period enum.Period
		series *series
	}
	var pulls []pending

	for _, symbol := range slices.Sorted(maps.Keys(c.securities)) {
		st := c.securities[symbol]
		if flags := st.remoteFlags(); !flags.IsEmpty() {
			groups[flags] = append(groups[flags], symbol)
		}
		for _, period := range st.periods() {
			pulls = append(pulls, pending{symbol: symbol, period: period, series: st.series[period]})
		}
	}
	if len(groups) == 0 {
		return
	}

	ctx := c.ctx
	go func() {
		for _, flags := range slices.Sorted(maps.Keys(groups)) {
			if err := c.remoteSubscribe(ctx, groups[flags], flags, false); err != nil {
				logs.Errorf("quote: resubscribe, err: %+v", err)
			}
		}
		for _, p := range pulls {
			candles, err := c.pullCandlesticks(ctx, p.symbol, p.period, p.series.sessions)
			if err != nil {
				logs.Errorf("quote: reload candlesticks, err: %+v", err)
				continue
			}
			c.post(func() {
				st := c.securities[p.symbol]
				if st == nil || st.series[p.period] != p.series {
					return
				}
				p.series.candles = lastN(candles, c.cfg.SeriesCapacity)
				p.series.loading = false
			})
		}
	}()
}

// refreshCalendar replaces the configured trading sessions and half days
// with what the venue reports. Failures keep the configured values.
func (c *core) refreshCalendar(ctx context.Context) {
	body, err := c.transport.Request(ctx, codec.CmdQueryMarketTradePeriod, nil)
	if err == nil {
		var sessions []model.MarketTradingSession
		if sessions, err = codec.DecodeTradingSessions(body); err == nil {
			c.post(func() { c.applyTradingSessions(sessions) })
		}
	}
	if err != nil {
		logs.Warnf("quote: refresh trading sessions, err: %+v", err)
	}

	now := time.Now()
	for _, m := range slices.Sorted(maps.Keys(c.cfg.Markets)) {
		body, err := codec.Marshal(codec.MarketTradeDayRequest{
			Market: m.String(),
			BegDay: codec.FormatDate(now.AddDate(0, 0, -1)),
			EndDay: codec.FormatDate(now.AddDate(0, 0, 30)),
		})
		if err != nil {
			continue
		}
		resp, err := c.transport.Request(ctx, codec.CmdQueryMarketTradeDay, body)
		if err != nil {
			logs.Warnf("quote: refresh %s trading days, err: %+v", m, err)
			continue
		}
		days, err := codec.DecodeTradingDays(resp)
		if err != nil {
			logs.Warnf("quote: decode %s trading days, err: %+v", m, err)
			continue
		}
		c.post(func() { c.setHalfDays(m, days.HalfTradingDays) })
	}
}

func (c *core) applyTradingSessions(list []model.MarketTradingSession) {
	for _, ms := range list {
		market := c.markets[ms.Market]
		if market == nil {
			continue
		}
		var intraday, all []candlestick.Window
		for _, info := range ms.TradeSessions {
			w := candlestick.Window{Start: info.BeginTime, End: info.EndTime}
			all = append(all, w)
			if info.TradeSession == enum.TradeSessionIntraday {
				intraday = append(intraday, w)
			}
		}
		if len(intraday) == 0 {
			continue
		}
		market.Tables[enum.TradeSessionsIntraday] = candlestick.NewSessionTable(intraday, market.Table(enum.TradeSessionsIntraday).HalfDay)
		if len(all) > len(intraday) {
			market.Tables[enum.TradeSessionsAll] = candlestick.NewSessionTable(all, market.Table(enum.TradeSessionsAll).HalfDay)
		}
	}
}

func (c *core) setHalfDays(m enum.Market, days []time.Time) {
	set := make(map[string]struct{}, len(days))
	for _, d := range days {
		set[d.Format(halfDayKeyLayout)] = struct{}{}
	}
	c.halfDays[m] = set
}

func (c *core) isHalfDay(market *candlestick.Market, t time.Time) bool {
	_, ok := c.halfDays[market.Market][market.Local(t).Format(halfDayKeyLayout)]
	return ok
}

func uniqueSymbols(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func lastN[T any](list []T, n int) []T {
	if len(list) > n {
		return slices.Clone(list[len(list)-n:])
	}
	return list
}
