package exception

import "github.com/yanun0323/errors"

var (
	// ErrClientClosed is returned by every context call once the background
	// actor has exited or the command channel is severed.
	ErrClientClosed = errors.New("client closed")

	ErrConnectionClose   = errors.New("connection closed")
	ErrNotConnected      = errors.New("not connected")
	ErrMissingCredential = errors.New("missing credential")
)
