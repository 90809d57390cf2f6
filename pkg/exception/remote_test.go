package exception

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yanun0323/errors"
)

func TestIsClosed(t *testing.T) {
	testCases := []struct {
		desc     string
		err      error
		expected bool
	}{
		{desc: "nil", err: nil, expected: false},
		{desc: "client closed", err: ErrClientClosed, expected: true},
		{desc: "connection dropped", err: ErrConnectionClose, expected: true},
		{desc: "wrapped connection dropped", err: errors.Wrap(ErrConnectionClose, "write quote"), expected: true},
		{desc: "not connected", err: ErrNotConnected, expected: true},
		{desc: "remote rejection", err: &RemoteError{Code: 1, Message: "denied"}, expected: false},
		{desc: "deadline", err: context.DeadlineExceeded, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsClosed(tc.err))
		})
	}
}

func TestIsRemote(t *testing.T) {
	re, ok := IsRemote(errors.Wrap(&RemoteError{Code: 301606, Message: "rate limit"}, "quote"))
	assert.True(t, ok)
	assert.Equal(t, int64(301606), re.Code)

	_, ok = IsRemote(ErrConnectionClose)
	assert.False(t, ok)
}
