package trade

import (
	"context"
	"maps"
	"slices"
	"strings"

	"marketlink/internal/bus"
	"marketlink/internal/codec"
	"marketlink/internal/model"
	"marketlink/pkg/exception"
	"marketlink/pkg/websocket"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

// Transport is the trade stream connection. *websocket.Client implements it.
type Transport interface {
	Request(ctx context.Context, cmd codec.Command, body []byte) ([]byte, error)
	Pushes() <-chan codec.Frame
	Events() <-chan websocket.Event
	Close() error
}

var _ Transport = (*websocket.Client)(nil)

type topicCommand struct {
	ctx       context.Context
	topics    []string
	subscribe bool
	reply     chan error
}

// stream owns the subscribed topic set and turns order notifications into
// events. Only its run goroutine touches topics.
type stream struct {
	transport Transport
	events    *bus.Queue[model.PushOrderChanged]

	commands chan topicCommand
	internal chan func()
	done     chan struct{}
	ctx      context.Context

	topics map[string]struct{}
}

func newStream(transport Transport, events *bus.Queue[model.PushOrderChanged]) *stream {
	return &stream{
		transport: transport,
		events:    events,
		commands:  make(chan topicCommand, 16),
		internal:  make(chan func(), 16),
		done:      make(chan struct{}),
		topics:    make(map[string]struct{}),
	}
}

func (s *stream) run(ctx context.Context) {
	defer close(s.done)
	s.ctx = ctx

	pushes, events := s.transport.Pushes(), s.transport.Events()
	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case cmd := <-s.commands:
					cmd.reply <- exception.ErrClientClosed
				default:
					return
				}
			}
		case cmd := <-s.commands:
			s.handle(cmd)
		case fn := <-s.internal:
			fn()
		case f, ok := <-pushes:
			if !ok {
				pushes = nil
				continue
			}
			s.handlePush(f)
		case e, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if e.Kind == websocket.EventConnected && e.Reconnect {
				s.resubscribe()
			}
		}
	}
}

func (s *stream) post(fn func()) {
	select {
	case s.internal <- fn:
	case <-s.ctx.Done():
	}
}

func (s *stream) handle(cmd topicCommand) {
	if len(cmd.topics) == 0 {
		cmd.reply <- nil
		return
	}
	go func() {
		if !cmd.subscribe {
			err := s.request(cmd.ctx, codec.CmdTradeUnsubscribe, cmd.topics)
			if err == nil {
				s.post(func() {
					for _, t := range cmd.topics {
						delete(s.topics, t)
					}
				})
			}
			cmd.reply <- err
			return
		}

		resp, err := s.subscribe(cmd.ctx, cmd.topics)
		if err != nil {
			cmd.reply <- err
			return
		}
		s.post(func() {
			for _, t := range resp.Success {
				s.topics[t] = struct{}{}
			}
		})
		cmd.reply <- failedTopics(resp)
	}()
}

func (s *stream) subscribe(ctx context.Context, topics []string) (codec.TradeSubscribeResponse, error) {
	body, err := codec.Marshal(codec.TradeSubscribeRequest{Topics: topics})
	if err != nil {
		return codec.TradeSubscribeResponse{}, err
	}
	raw, err := s.transport.Request(ctx, codec.CmdTradeSubscribe, body)
	if err != nil {
		return codec.TradeSubscribeResponse{}, errors.Wrapf(err, "subscribe topics %v", topics)
	}
	var resp codec.TradeSubscribeResponse
	if len(raw) == 0 {
		resp.Success = topics
		return resp, nil
	}
	if err := codec.Unmarshal(raw, &resp); err != nil {
		return codec.TradeSubscribeResponse{}, err
	}
	return resp, nil
}

func (s *stream) request(ctx context.Context, cmd codec.Command, topics []string) error {
	body, err := codec.Marshal(codec.TradeSubscribeRequest{Topics: topics})
	if err != nil {
		return err
	}
	if _, err := s.transport.Request(ctx, cmd, body); err != nil {
		return errors.Wrapf(err, "%s %v", cmd, topics)
	}
	return nil
}

func failedTopics(resp codec.TradeSubscribeResponse) error {
	if len(resp.Fail) == 0 {
		return nil
	}
	reasons := make([]string, 0, len(resp.Fail))
	for _, f := range resp.Fail {
		reasons = append(reasons, f.Topic+": "+f.Reason)
	}
	return errors.Wrap(exception.ErrArgumentUnsupported, strings.Join(reasons, "; "))
}

func (s *stream) resubscribe() {
	if len(s.topics) == 0 {
		return
	}
	topics := slices.Sorted(maps.Keys(s.topics))
	go func() {
		resp, err := s.subscribe(s.ctx, topics)
		if err == nil {
			err = failedTopics(resp)
		}
		if err != nil {
			logs.Errorf("trade: resubscribe %v, err: %+v", topics, err)
		}
	}()
}

func (s *stream) handlePush(f codec.Frame) {
	if f.Command != codec.CmdTradeNotify {
		logs.Debugf("trade: ignore push %s", f.Command)
		return
	}
	event, err := codec.DecodePushOrderChanged(f.Body)
	if err != nil {
		logs.Warnf("trade: decode order changed, err: %+v", err)
		return
	}
	if err := s.events.TryPublish(event); err != nil {
		logs.Warnf("trade: drop order changed of %s, err: %+v", event.OrderID, err)
	}
}
