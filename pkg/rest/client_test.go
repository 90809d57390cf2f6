package rest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketlink/pkg/exception"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ordersQuery struct {
	Symbol string   `url:"symbol,omitempty"`
	Status []string `url:"status,omitempty"`
}

type orderBody struct {
	Symbol string `json:"symbol"`
}

type orderData struct {
	OrderID string `json:"order_id"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL + "/", AppKey: "key", AppSecret: "secret", AccessToken: "token"}, srv.Client())
	require.NoError(t, err)
	c.now = func() time.Time { return time.UnixMilli(1704159025000) }
	return c
}

func TestDoSignsAndDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/trade/order", r.URL.Path)
		assert.Equal(t, []string{"NewStatus", "FilledStatus"}, r.URL.Query()["status"])
		assert.Equal(t, "key", r.Header.Get(HeaderAppKey))
		assert.Equal(t, "token", r.Header.Get(HeaderAuthorize))
		assert.Equal(t, "1704159025000", r.Header.Get(HeaderTimestamp))
		_, err := uuid.Parse(r.Header.Get(HeaderRequestID))
		assert.NoError(t, err)
		assert.Equal(t,
			Sign("secret", r.Method, r.URL.Path, r.URL.RawQuery, body, "1704159025000"),
			r.Header.Get(HeaderSignature),
		)
		assert.JSONEq(t, `{"symbol":"700.HK"}`, string(body))

		_, _ = w.Write([]byte(`{"code":0,"message":"success","data":{"order_id":"701276261045858304"}}`))
	})

	data, err := Do[orderData](context.Background(), c.Request(http.MethodPost, "/v1/trade/order").
		QueryParams(ordersQuery{Status: []string{"NewStatus", "FilledStatus"}}).
		Body(orderBody{Symbol: "700.HK"}))
	require.NoError(t, err)
	assert.Equal(t, "701276261045858304", data.OrderID)
}

func TestDoRemoteErrors(t *testing.T) {
	testCases := []struct {
		desc    string
		status  int
		body    string
		code    int64
		message string
	}{
		{desc: "business code", status: http.StatusOK, body: `{"code":602001,"message":"order not found"}`, code: 602001, message: "order not found"},
		{desc: "http status with envelope", status: http.StatusUnauthorized, body: `{"code":401004,"message":"token expired"}`, code: 401004, message: "token expired"},
		{desc: "http status without envelope", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, code: http.StatusBadGateway, message: "Bad Gateway"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set(HeaderTraceID, "trace-1")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := Do[Empty](context.Background(), c.Request(http.MethodGet, "/v1/trade/order"))
			re, ok := exception.IsRemote(err)
			require.True(t, ok, "%v", err)
			assert.Equal(t, tc.code, re.Code)
			assert.Equal(t, tc.message, re.Message)
			assert.Equal(t, "trace-1", re.TraceID)
		})
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(Config{BaseURL: "https://example.com"}, nil)
	assert.ErrorIs(t, err, exception.ErrMissingCredential)

	_, err = New(Config{AppKey: "k", AppSecret: "s", AccessToken: "t"}, nil)
	assert.ErrorIs(t, err, exception.ErrInvalidArgument)
}

func TestSignIsStable(t *testing.T) {
	a := Sign("secret", "get", "/v1/asset/account", "currency=HKD", nil, "1")
	b := Sign("secret", "GET", "/v1/asset/account", "currency=HKD", nil, "1")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, Sign("other", "GET", "/v1/asset/account", "currency=HKD", nil, "1"))
	assert.Len(t, a, 64)
}
