package codec

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleQuery struct {
	Symbol  string   `url:"symbol"`
	Status  []string `url:"status,omitempty"`
	Remark  string   `url:"remark,omitempty"`
	Count   int32    `url:"count,omitempty"`
	OrderID *string  `url:"order_id,omitempty"`
}

func TestEncodeQueryRoundTrip(t *testing.T) {
	orderID := "701276261045858304"
	in := sampleQuery{
		Symbol:  "700.HK",
		Status:  []string{"NewStatus", "FilledStatus", "CanceledStatus"},
		Remark:  "hello world & more",
		Count:   10,
		OrderID: &orderID,
	}

	s, err := EncodeQuery(in)
	require.NoError(t, err)
	assert.Contains(t, s, "remark=hello+world+%26+more")

	values, err := url.ParseQuery(s)
	require.NoError(t, err)
	assert.Equal(t, []string{"700.HK"}, values["symbol"])
	assert.Equal(t, in.Status, values["status"])
	assert.Equal(t, in.Remark, values.Get("remark"))
	assert.Equal(t, "10", values.Get("count"))
	assert.Equal(t, orderID, values.Get("order_id"))
}

func TestEncodeQueryOmitsAbsent(t *testing.T) {
	testCases := []struct {
		desc string
		in   any
		want string
	}{
		{desc: "only required", in: sampleQuery{Symbol: "AAPL.US"}, want: "symbol=AAPL.US"},
		{desc: "empty slice omitted", in: sampleQuery{Symbol: "AAPL.US", Status: []string{}}, want: "symbol=AAPL.US"},
		{desc: "nil", in: nil, want: ""},
		{desc: "trade query", in: OrderIDQuery{OrderID: "1"}, want: "order_id=1"},
		{
			desc: "positions",
			in:   PositionsQuery{Symbols: []string{"700.HK", "AAPL.US"}},
			want: "symbol=700.HK&symbol=AAPL.US",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			s, err := EncodeQuery(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, s)
		})
	}
}

func TestEncodeQueryRejectsNonStruct(t *testing.T) {
	_, err := EncodeQuery(42)
	assert.Error(t, err)
}
