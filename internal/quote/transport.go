package quote

import (
	"context"

	"marketlink/internal/codec"
	"marketlink/pkg/websocket"
)

// Transport is the stream connection the core talks through.
// *websocket.Client implements it.
type Transport interface {
	Request(ctx context.Context, cmd codec.Command, body []byte) ([]byte, error)
	Pushes() <-chan codec.Frame
	Events() <-chan websocket.Event
	Close() error
}

var _ Transport = (*websocket.Client)(nil)
