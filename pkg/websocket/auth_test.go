package websocket

import (
	"context"
	"testing"

	"marketlink/internal/codec"
	"marketlink/pkg/exception"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authCall struct {
	cmd  codec.Command
	body string
}

func TestTokenAuthResumesSession(t *testing.T) {
	var (
		calls   []authCall
		respond func(cmd codec.Command) ([]byte, error)
	)
	request := func(ctx context.Context, cmd codec.Command, body []byte) ([]byte, error) {
		calls = append(calls, authCall{cmd: cmd, body: string(body)})
		return respond(cmd)
	}
	auth := TokenAuth("token", nil)
	ctx := context.Background()

	respond = func(codec.Command) ([]byte, error) { return []byte(`{"session_id":"s1","expires":1}`), nil }
	require.NoError(t, auth(ctx, request))
	require.Len(t, calls, 1)
	assert.Equal(t, codec.CmdAuth, calls[0].cmd)
	assert.JSONEq(t, `{"token":"token"}`, calls[0].body)

	respond = func(codec.Command) ([]byte, error) { return []byte(`{"session_id":"s2"}`), nil }
	require.NoError(t, auth(ctx, request))
	require.Len(t, calls, 2)
	assert.Equal(t, codec.CmdReconnect, calls[1].cmd)
	assert.JSONEq(t, `{"session_id":"s1"}`, calls[1].body)

	respond = func(cmd codec.Command) ([]byte, error) {
		if cmd == codec.CmdReconnect {
			return nil, &exception.RemoteError{Code: 401, Message: "session expired"}
		}
		return []byte(`{"session_id":"s3"}`), nil
	}
	require.NoError(t, auth(ctx, request))
	require.Len(t, calls, 4)
	assert.Equal(t, codec.CmdReconnect, calls[2].cmd)
	assert.JSONEq(t, `{"session_id":"s2"}`, calls[2].body)
	assert.Equal(t, codec.CmdAuth, calls[3].cmd)
}

func TestTokenAuthErrors(t *testing.T) {
	ctx := context.Background()

	err := TokenAuth("", nil)(ctx, func(context.Context, codec.Command, []byte) ([]byte, error) {
		t.Error("no request expected without a token")
		return nil, nil
	})
	assert.ErrorIs(t, err, exception.ErrMissingCredential)

	err = TokenAuth("token", nil)(ctx, func(context.Context, codec.Command, []byte) ([]byte, error) {
		return nil, exception.ErrConnectionClose
	})
	assert.ErrorIs(t, err, exception.ErrConnectionClose)
}
