package quote

import (
	"context"
	"sync/atomic"

	"marketlink/internal/codec"
	"marketlink/internal/model"
	"marketlink/internal/model/enum"
)

type result[T any] struct {
	value T
	err   error
}

// reply is a single-use slot. Only the first send lands; a caller that
// stopped waiting leaves the value in the buffer for the collector.
type reply[T any] struct {
	ch   chan result[T]
	sent atomic.Bool
}

func newReply[T any]() *reply[T] {
	return &reply[T]{ch: make(chan result[T], 1)}
}

func (r *reply[T]) send(value T, err error) {
	if r.sent.CompareAndSwap(false, true) {
		r.ch <- result[T]{value: value, err: err}
	}
}

func (r *reply[T]) fail(err error) {
	var zero T
	r.send(zero, err)
}

// command is the closed set of messages QuoteContext sends to the core.
type command interface {
	// abort fulfills the reply with err when the command cannot run.
	abort(err error)
}

type subscribeCommand struct {
	ctx         context.Context
	symbols     []string
	flags       enum.SubFlags
	isFirstPush bool
	reply       *reply[struct{}]
}

type unsubscribeCommand struct {
	ctx     context.Context
	symbols []string
	flags   enum.SubFlags
	reply   *reply[struct{}]
}

type subscribeCandlesticksCommand struct {
	ctx      context.Context
	symbol   string
	period   enum.Period
	sessions enum.TradeSessions
	reply    *reply[[]model.Candlestick]
}

type unsubscribeCandlesticksCommand struct {
	ctx    context.Context
	symbol string
	period enum.Period
	reply  *reply[struct{}]
}

type subscriptionsCommand struct {
	reply *reply[[]model.Subscription]
}

type requestCommand struct {
	ctx   context.Context
	cmd   codec.Command
	body  []byte
	reply *reply[[]byte]
}

type realtimeQuoteCommand struct {
	symbols []string
	reply   *reply[[]model.RealtimeQuote]
}

type realtimeDepthCommand struct {
	symbol string
	reply  *reply[model.SecurityDepth]
}

type realtimeBrokersCommand struct {
	symbol string
	reply  *reply[model.SecurityBrokers]
}

type realtimeTradesCommand struct {
	symbol string
	count  int
	reply  *reply[[]model.Trade]
}

type realtimeCandlesticksCommand struct {
	symbol string
	period enum.Period
	count  int
	reply  *reply[[]model.Candlestick]
}

func (c *subscribeCommand) abort(err error)               { c.reply.fail(err) }
func (c *unsubscribeCommand) abort(err error)             { c.reply.fail(err) }
func (c *subscribeCandlesticksCommand) abort(err error)   { c.reply.fail(err) }
func (c *unsubscribeCandlesticksCommand) abort(err error) { c.reply.fail(err) }
func (c *subscriptionsCommand) abort(err error)           { c.reply.fail(err) }
func (c *requestCommand) abort(err error)                 { c.reply.fail(err) }
func (c *realtimeQuoteCommand) abort(err error)           { c.reply.fail(err) }
func (c *realtimeDepthCommand) abort(err error)           { c.reply.fail(err) }
func (c *realtimeBrokersCommand) abort(err error)         { c.reply.fail(err) }
func (c *realtimeTradesCommand) abort(err error)          { c.reply.fail(err) }
func (c *realtimeCandlesticksCommand) abort(err error)    { c.reply.fail(err) }
