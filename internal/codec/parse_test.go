package codec

import (
	"testing"
	"time"

	"marketlink/internal/model/enum"
	"marketlink/pkg/exception"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLenientNumbers(t *testing.T) {
	testCases := []struct {
		desc    string
		in      string
		decimal string
		integer int64
	}{
		{desc: "empty", in: "", decimal: "0", integer: 0},
		{desc: "integer", in: "1200", decimal: "1200", integer: 1200},
		{desc: "fraction", in: "388.40", decimal: "388.4", integer: 388},
		{desc: "garbage", in: "n/a", decimal: "0", integer: 0},
		{desc: "negative", in: "-0.5", decimal: "-0.5", integer: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.True(t, decimal.RequireFromString(tc.decimal).Equal(Decimal(tc.in)))
			assert.Equal(t, tc.integer, Int64(tc.in))
		})
	}
}

func TestStrictTimestamp(t *testing.T) {
	ts, err := Timestamp("timestamp", "1704159025")
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 1, 2, 1, 30, 25, 0, time.UTC).Equal(ts))

	_, err = Timestamp("timestamp", "")
	require.True(t, exception.IsParse(err))

	_, err = Timestamp("timestamp", "2024-01-02")
	require.True(t, exception.IsParse(err))

	ts, err = OptionalTimestamp("updated_at", "0")
	require.NoError(t, err)
	assert.True(t, ts.IsZero())
}

func TestStrictDate(t *testing.T) {
	for _, s := range []string{"20240102", "2024-01-02"} {
		d, err := Date("date", s)
		require.NoError(t, err, s)
		assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), d)
	}

	_, err := Date("date", "2024/01/02")
	require.True(t, exception.IsParse(err))

	d, err := OptionalDate("date", "")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	assert.Equal(t, "20240102", FormatDate(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", FormatDate(time.Time{}))
}

func TestClock(t *testing.T) {
	testCases := []struct {
		desc string
		in   int32
		want time.Duration
		ok   bool
	}{
		{desc: "morning open", in: 930, want: 9*time.Hour + 30*time.Minute, ok: true},
		{desc: "midnight", in: 0, want: 0, ok: true},
		{desc: "end of day", in: 2400, want: 24 * time.Hour, ok: true},
		{desc: "bad minute", in: 975, ok: false},
		{desc: "past end of day", in: 2430, ok: false},
		{desc: "negative", in: -1, ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := Clock("beg_time", tc.in)
			if !tc.ok {
				require.True(t, exception.IsParse(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestStrictEnums(t *testing.T) {
	s, err := TradeSession("trade_session", 2)
	require.NoError(t, err)
	assert.Equal(t, enum.TradeSessionPost, s)

	_, err = TradeSession("trade_session", 9)
	assert.True(t, exception.IsParse(err))

	p, err := Period("period", 1000)
	require.NoError(t, err)
	assert.Equal(t, enum.PeriodDay, p)

	_, err = Period("period", 7)
	assert.True(t, exception.IsParse(err))

	m, err := Market("market", "SZ")
	require.NoError(t, err)
	assert.Equal(t, enum.MarketCN, m)

	status, err := Text[enum.OrderStatus]("status", "FilledStatus")
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusFilled, status)

	_, err = Text[enum.OrderStatus]("status", "Filled")
	assert.True(t, exception.IsParse(err))

	assert.Equal(t, enum.TradeDirectionNeutral, Direction(42))
}
