package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"marketlink/internal/codec"
	"marketlink/pkg/exception"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handle func(conn *websocket.Conn)) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		handle(conn)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

// serveRequests answers every request with reply(cmd, body) until the client goes away.
func serveRequests(conn *websocket.Conn, reply func(f codec.Frame) (uint8, []byte)) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		f, err := codec.DecodeFrame(data)
		if err != nil || f.Type != codec.FrameRequest {
			continue
		}
		status, body := reply(f)
		if err := conn.WriteMessage(websocket.BinaryMessage, codec.EncodeResponse(nil, f.Command, f.RequestID, status, body)); err != nil {
			return
		}
	}
}

func fastBackoff() Backoff {
	return Backoff{Min: time.Millisecond, Max: 5 * time.Millisecond, Factor: 2}
}

func startClient(t *testing.T, opt Option) *Client {
	t.Helper()
	opt.Backoff = fastBackoff()
	c, err := New(opt)
	require.NoError(t, err)
	c.Start(context.Background())
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestClientRequestAndPush(t *testing.T) {
	url := newServer(t, func(conn *websocket.Conn) {
		serveRequests(conn, func(f codec.Frame) (uint8, []byte) {
			if f.Command == codec.CmdSubscribe {
				_ = conn.WriteMessage(websocket.BinaryMessage, codec.EncodePush(nil, codec.CmdPushQuote, []byte(`{"symbol":"700.HK"}`)))
			}
			return codec.StatusOK, append([]byte("echo:"), f.Body...)
		})
	})
	c := startClient(t, Option{URL: url})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	body, err := c.Request(ctx, codec.CmdSubscribe, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "echo:hello", string(body))

	select {
	case f := <-c.Pushes():
		assert.Equal(t, codec.CmdPushQuote, f.Command)
		assert.JSONEq(t, `{"symbol":"700.HK"}`, string(f.Body))
	case <-ctx.Done():
		t.Fatal("push not delivered")
	}
}

func TestClientConcurrentRequestsAreCorrelated(t *testing.T) {
	url := newServer(t, func(conn *websocket.Conn) {
		serveRequests(conn, func(f codec.Frame) (uint8, []byte) {
			return codec.StatusOK, f.Body
		})
	})
	c := startClient(t, Option{URL: url})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	const n = 32
	errs := make(chan error, n)
	for i := range n {
		go func() {
			want := []byte{byte(i)}
			got, err := c.Request(ctx, codec.CmdQueryDepth, want)
			if err == nil && string(got) != string(want) {
				err = assert.AnError
			}
			errs <- err
		}()
	}
	for range n {
		require.NoError(t, <-errs)
	}
}

func TestClientRemoteError(t *testing.T) {
	url := newServer(t, func(conn *websocket.Conn) {
		serveRequests(conn, func(codec.Frame) (uint8, []byte) {
			return 3, codec.EncodeError(301600, "invalid symbol")
		})
	})
	c := startClient(t, Option{URL: url})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := c.Request(ctx, codec.CmdQueryDepth, nil)
	re, ok := exception.IsRemote(err)
	require.True(t, ok, "%v", err)
	assert.Equal(t, int64(301600), re.Code)
}

func TestClientReconnects(t *testing.T) {
	var conns atomic.Int32
	url := newServer(t, func(conn *websocket.Conn) {
		if conns.Add(1) == 1 {
			return
		}
		serveRequests(conn, func(f codec.Frame) (uint8, []byte) {
			return codec.StatusOK, nil
		})
	})
	c := startClient(t, Option{URL: url})

	expect := []Event{
		{Kind: EventConnected, Reconnect: false},
		{Kind: EventDisconnected},
		{Kind: EventConnected, Reconnect: true},
	}
	for _, want := range expect {
		select {
		case e := <-c.Events():
			assert.Equal(t, want.Kind, e.Kind)
			assert.Equal(t, want.Reconnect, e.Reconnect)
		case <-time.After(5 * time.Second):
			t.Fatalf("missing %s event", want.Kind)
		}
	}
	assert.Equal(t, int32(2), conns.Load())
}

func TestClientOnConnectAuthenticates(t *testing.T) {
	var authed atomic.Bool
	url := newServer(t, func(conn *websocket.Conn) {
		serveRequests(conn, func(f codec.Frame) (uint8, []byte) {
			if f.Command == codec.CmdAuth {
				authed.Store(string(f.Body) == "token")
				return codec.StatusOK, nil
			}
			if !authed.Load() {
				return 1, codec.EncodeError(401, "unauthorized")
			}
			return codec.StatusOK, []byte("ok")
		})
	})
	c := startClient(t, Option{
		URL: url,
		OnConnect: func(ctx context.Context, request RequestFunc) error {
			_, err := request(ctx, codec.CmdAuth, []byte("token"))
			return err
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	body, err := c.Request(ctx, codec.CmdQuerySecurityQuote, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
}

func TestClientClosed(t *testing.T) {
	testCases := []struct {
		desc  string
		start bool
	}{
		{desc: "after start", start: true},
		{desc: "never started", start: false},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			c, err := New(Option{URL: "ws://127.0.0.1:1", Backoff: fastBackoff()})
			require.NoError(t, err)
			if tc.start {
				c.Start(context.Background())
			}
			require.NoError(t, c.Close())
			require.NoError(t, c.Close())

			_, err = c.Request(context.Background(), codec.CmdQueryDepth, nil)
			assert.ErrorIs(t, err, exception.ErrClientClosed)
		})
	}
}

func TestNewRejectsEmptyURL(t *testing.T) {
	_, err := New(Option{})
	assert.ErrorIs(t, err, ErrBadConfig)
}
