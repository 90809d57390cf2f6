package websocket

import (
	"context"
	"sync"

	"marketlink/internal/codec"
	"marketlink/pkg/exception"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

// TokenAuth returns an OnConnect hook that authenticates with token on the
// first connection and resumes the session on later ones, falling back to a
// fresh authentication when the venue no longer knows the session.
func TokenAuth(token string, metadata map[string]string) func(ctx context.Context, request RequestFunc) error {
	var (
		mu        sync.Mutex
		sessionID string
	)

	return func(ctx context.Context, request RequestFunc) error {
		if token == "" {
			return exception.ErrMissingCredential
		}

		mu.Lock()
		resume := sessionID
		mu.Unlock()

		if resume != "" {
			id, err := authenticate(ctx, request, codec.CmdReconnect, codec.ReconnectRequest{SessionID: resume})
			if err == nil {
				mu.Lock()
				sessionID = id
				mu.Unlock()
				return nil
			}
			if _, ok := exception.IsRemote(err); !ok {
				return err
			}
			logs.Warnf("websocket: resume session, err: %+v", err)
		}

		id, err := authenticate(ctx, request, codec.CmdAuth, codec.AuthRequest{Token: token, Metadata: metadata})
		if err != nil {
			return err
		}
		mu.Lock()
		sessionID = id
		mu.Unlock()
		return nil
	}
}

func authenticate(ctx context.Context, request RequestFunc, cmd codec.Command, req any) (string, error) {
	body, err := codec.Marshal(req)
	if err != nil {
		return "", err
	}
	resp, err := request(ctx, cmd, body)
	if err != nil {
		return "", errors.Wrapf(err, "%s", cmd)
	}
	var out codec.AuthResponse
	if err := codec.Unmarshal(resp, &out); err != nil {
		return "", err
	}
	return out.SessionID, nil
}
