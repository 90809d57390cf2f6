package websocket

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"marketlink/internal/codec"
	"marketlink/pkg/exception"

	"github.com/gorilla/websocket"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

var ErrBadConfig = errors.New("websocket: invalid config")

// Client keeps one binary stream connection alive, reconnecting with backoff.
// Requests wait for a ready connection; pushes and connection events are
// delivered on channels that the owner must drain.
type Client struct {
	opt    Option
	dialer *websocket.Dialer
	nextID atomic.Uint32

	pushes chan codec.Frame
	events chan Event

	mu      sync.Mutex
	current *session
	ready   chan struct{}
	cancel  context.CancelFunc
	started bool
	closed  bool

	done chan struct{}
}

// New validates opt and builds an idle client.
func New(opt Option) (*Client, error) {
	if opt.URL == "" {
		return nil, errors.Wrap(ErrBadConfig, "empty url")
	}
	opt.normalize()
	return &Client{
		opt: opt,
		dialer: &websocket.Dialer{
			Proxy:            websocket.DefaultDialer.Proxy,
			HandshakeTimeout: opt.HandshakeTimeout,
		},
		pushes: make(chan codec.Frame, opt.PushQueueSize),
		events: make(chan Event, opt.EventQueueSize),
		ready:  make(chan struct{}),
		done:   make(chan struct{}),
	}, nil
}

// Start runs the connection loop until ctx ends or Close is called.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started || c.closed {
		return
	}
	c.started = true
	ctx, c.cancel = context.WithCancel(ctx)
	go func() {
		defer close(c.done)
		c.run(ctx)
	}()
}

// Close stops the connection loop and fails every waiting request.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	started := c.started
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()

	if started {
		<-c.done
	} else {
		close(c.done)
	}
	return nil
}

// Pushes delivers push frames in arrival order.
func (c *Client) Pushes() <-chan codec.Frame {
	return c.pushes
}

// Events delivers connection state changes.
func (c *Client) Events() <-chan Event {
	return c.events
}

// Request sends cmd and waits for its reply body. A rejected request returns
// *exception.RemoteError.
func (c *Client) Request(ctx context.Context, cmd codec.Command, body []byte) ([]byte, error) {
	s, err := c.waitSession(ctx)
	if err != nil {
		return nil, err
	}
	return s.request(ctx, cmd, body)
}

func (c *Client) waitSession(ctx context.Context) (*session, error) {
	for {
		c.mu.Lock()
		s, ready := c.current, c.ready
		c.mu.Unlock()
		if s != nil {
			return s, nil
		}

		select {
		case <-ready:
		case <-c.done:
			return nil, exception.ErrClientClosed
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (c *Client) setCurrent(s *session) {
	c.mu.Lock()
	c.current = s
	close(c.ready)
	c.mu.Unlock()
}

func (c *Client) clearCurrent() {
	c.mu.Lock()
	c.current = nil
	c.ready = make(chan struct{})
	c.mu.Unlock()
}

func (c *Client) run(ctx context.Context) {
	attempt := 0
	connects := 0
	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := c.dialer.DialContext(ctx, c.opt.URL, c.opt.Header)
		if err != nil {
			attempt++
			logs.Warnf("websocket: dial %s, attempt: %d, err: %+v", c.opt.URL, attempt, err)
			if !c.opt.Backoff.sleep(ctx, attempt) {
				return
			}
			continue
		}

		served, err := c.serve(ctx, newSession(conn, &c.nextID), connects > 0)
		if served {
			connects++
			attempt = 0
		}
		if ctx.Err() != nil {
			return
		}
		attempt++
		logs.Warnf("websocket: connection lost, attempt: %d, err: %+v", attempt, err)
		if !c.opt.Backoff.sleep(ctx, attempt) {
			return
		}
	}
}

// serve runs one connection to its end. It reports whether the connection
// became ready.
func (c *Client) serve(ctx context.Context, s *session, reconnect bool) (bool, error) {
	sctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer s.close()

	readErr := make(chan error, 1)
	go func() {
		readErr <- s.readLoop(sctx, c.pushes)
	}()
	s.keepAlive(c.opt.PingInterval)

	if c.opt.OnConnect != nil {
		if err := c.opt.OnConnect(sctx, s.request); err != nil {
			return false, errors.Wrap(err, "on connect")
		}
	}

	c.setCurrent(s)
	logs.Infof("websocket: connected to %s, reconnect: %t", c.opt.URL, reconnect)
	c.emit(ctx, Event{Kind: EventConnected, Reconnect: reconnect})

	err := c.wait(sctx, s, readErr)
	c.clearCurrent()
	c.emit(ctx, Event{Kind: EventDisconnected, Err: err})
	return true, err
}

func (c *Client) wait(ctx context.Context, s *session, readErr <-chan error) error {
	var ping <-chan time.Time
	if c.opt.PingInterval > 0 {
		ticker := time.NewTicker(c.opt.PingInterval)
		defer ticker.Stop()
		ping = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			return err
		case <-ping:
			if err := s.ping(); err != nil {
				return err
			}
		}
	}
}

func (c *Client) emit(ctx context.Context, e Event) {
	select {
	case c.events <- e:
	case <-ctx.Done():
	}
}
