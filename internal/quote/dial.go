package quote

import (
	"context"

	"marketlink/pkg/rest"
	"marketlink/pkg/websocket"
)

// Dial opens the quote stream described by opt, authenticates every
// connection with token and starts a QuoteContext on it. ctx bounds the
// lifetime of the connection loop.
func Dial(ctx context.Context, opt websocket.Option, token string, http *rest.Client, cfg Config) (*QuoteContext, error) {
	if opt.OnConnect == nil {
		opt.OnConnect = websocket.TokenAuth(token, nil)
	}
	client, err := websocket.New(opt)
	if err != nil {
		return nil, err
	}
	client.Start(ctx)

	q, err := New(client, http, cfg)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return q, nil
}
