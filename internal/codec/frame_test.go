package codec

import (
	"errors"
	"testing"

	"marketlink/pkg/exception"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	testCases := []struct {
		desc   string
		encode func() []byte
		want   Frame
	}{
		{
			desc:   "request",
			encode: func() []byte { return EncodeRequest(nil, CmdQuerySecurityQuote, 7, []byte(`{"symbols":["700.HK"]}`)) },
			want:   Frame{Type: FrameRequest, Command: CmdQuerySecurityQuote, RequestID: 7, Body: []byte(`{"symbols":["700.HK"]}`)},
		},
		{
			desc:   "response",
			encode: func() []byte { return EncodeResponse(nil, CmdSubscribe, 1<<31+3, StatusOK, []byte(`{}`)) },
			want:   Frame{Type: FrameResponse, Command: CmdSubscribe, RequestID: 1<<31 + 3, Body: []byte(`{}`)},
		},
		{
			desc:   "push",
			encode: func() []byte { return EncodePush(nil, CmdPushTrade, []byte(`{"symbol":"AAPL.US"}`)) },
			want:   Frame{Type: FramePush, Command: CmdPushTrade, Body: []byte(`{"symbol":"AAPL.US"}`)},
		},
		{
			desc:   "empty body",
			encode: func() []byte { return EncodeRequest(nil, CmdHeartbeat, 0, nil) },
			want:   Frame{Type: FrameRequest, Command: CmdHeartbeat, Body: []byte{}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			f, err := DecodeFrame(tc.encode())
			require.NoError(t, err)
			assert.Equal(t, tc.want, f)
			assert.NoError(t, f.Err())
		})
	}
}

func TestEncodeReusesBuffer(t *testing.T) {
	buf := make([]byte, 0, 64)
	out := EncodeRequest(buf, CmdAuth, 1, []byte("token"))
	require.Len(t, out, RequestHeaderSize+5)
	assert.Same(t, &buf[:1][0], &out[0])
}

func TestDecodeFrameRejects(t *testing.T) {
	testCases := []struct {
		desc string
		src  []byte
		err  error
	}{
		{desc: "empty", src: nil, err: exception.ErrWebSocketFrameTooShort},
		{desc: "short request", src: []byte{1, 2, 0, 0}, err: exception.ErrWebSocketFrameTooShort},
		{desc: "short response", src: []byte{2, 2, 0, 0, 0, 1}, err: exception.ErrWebSocketFrameTooShort},
		{desc: "unknown type", src: []byte{9, 1, 0}, err: exception.ErrWebSocketUnknownFrame},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := DecodeFrame(tc.src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.err))
		})
	}
}

func TestFrameErr(t *testing.T) {
	f, err := DecodeFrame(EncodeResponse(nil, CmdQueryDepth, 2, 3, EncodeError(301600, "invalid symbol")))
	require.NoError(t, err)

	re, ok := exception.IsRemote(f.Err())
	require.True(t, ok)
	assert.Equal(t, int64(301600), re.Code)
	assert.Equal(t, "invalid symbol", re.Message)

	f, err = DecodeFrame(EncodeResponse(nil, CmdQueryDepth, 2, 5, []byte("gateway timeout")))
	require.NoError(t, err)

	re, ok = exception.IsRemote(f.Err())
	require.True(t, ok)
	assert.Equal(t, int64(5), re.Code)
	assert.Equal(t, "gateway timeout", re.Message)
}
