package exception

import "errors"

// WS errors
var (
	ErrWebSocketFrameTooShort = errors.New("websocket: frame too short")
	ErrWebSocketUnknownFrame  = errors.New("websocket: unknown frame type")
)
