package websocket

import (
	"context"
	"net/http"
	"time"

	"marketlink/internal/codec"
)

// RequestFunc sends one request on a specific connection.
type RequestFunc func(ctx context.Context, cmd codec.Command, body []byte) ([]byte, error)

// Option configures a Client.
type Option struct {
	URL    string
	Header http.Header

	Backoff          Backoff
	HandshakeTimeout time.Duration
	// PingInterval enables control pings; the read deadline is three intervals.
	PingInterval time.Duration

	PushQueueSize  int
	EventQueueSize int

	// OnConnect runs on every new connection before it serves requests,
	// typically to authenticate. An error drops the connection.
	OnConnect func(ctx context.Context, request RequestFunc) error
}

func (o *Option) normalize() {
	if o.Backoff == (Backoff{}) {
		o.Backoff = DefaultBackoff()
	}
	if o.HandshakeTimeout <= 0 {
		o.HandshakeTimeout = 10 * time.Second
	}
	if o.PushQueueSize <= 0 {
		o.PushQueueSize = 1024
	}
	if o.EventQueueSize <= 0 {
		o.EventQueueSize = 16
	}
}

// EventKind is a connection state change.
type EventKind uint8

const (
	EventConnected EventKind = iota + 1
	EventDisconnected
)

func (k EventKind) String() string {
	switch k {
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Event reports a connection state change. Reconnect is set on every
// connection after the first one.
type Event struct {
	Kind      EventKind
	Reconnect bool
	Err       error
}
