package trade

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"marketlink/internal/codec"
	"marketlink/internal/model"
	"marketlink/internal/model/enum"
	"marketlink/pkg/exception"
	"marketlink/pkg/rest"
	"marketlink/pkg/websocket"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	mu       sync.Mutex
	requests []codec.Command
	bodies   [][]byte
	respond  func(cmd codec.Command, body []byte) ([]byte, error)

	pushes chan codec.Frame
	events chan websocket.Event
}

func newFakeTransport(respond func(cmd codec.Command, body []byte) ([]byte, error)) *fakeTransport {
	return &fakeTransport{
		respond: respond,
		pushes:  make(chan codec.Frame, 8),
		events:  make(chan websocket.Event, 2),
	}
}

func (f *fakeTransport) Request(ctx context.Context, cmd codec.Command, body []byte) ([]byte, error) {
	f.mu.Lock()
	f.requests = append(f.requests, cmd)
	f.bodies = append(f.bodies, body)
	f.mu.Unlock()
	if f.respond == nil {
		return nil, nil
	}
	return f.respond(cmd, body)
}

func (f *fakeTransport) Pushes() <-chan codec.Frame     { return f.pushes }
func (f *fakeTransport) Events() <-chan websocket.Event { return f.events }
func (f *fakeTransport) Close() error                   { return nil }

func (f *fakeTransport) sent() []codec.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]codec.Command(nil), f.requests...)
}

func newTestContext(t *testing.T, handler http.HandlerFunc, transport Transport) *TradeContext {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := rest.New(rest.Config{BaseURL: srv.URL, AppKey: "key", AppSecret: "secret", AccessToken: "token"}, srv.Client())
	require.NoError(t, err)

	tc, err := New(client, transport)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tc.Close() })
	return tc
}

func TestSubmitOrderValidation(t *testing.T) {
	valid := SubmitOrder{
		Symbol:      "700.HK",
		OrderType:   enum.OrderTypeLO,
		Side:        enum.OrderSideBuy,
		Quantity:    200,
		Price:       decimal.RequireFromString("320.2"),
		TimeInForce: enum.TimeInForceDay,
	}

	testCases := []struct {
		desc   string
		modify func(o *SubmitOrder)
		err    error
	}{
		{desc: "valid", modify: func(o *SubmitOrder) {}},
		{desc: "market order needs no price", modify: func(o *SubmitOrder) { o.OrderType, o.Price = enum.OrderTypeMO, decimal.Zero }},
		{desc: "empty symbol", modify: func(o *SubmitOrder) { o.Symbol = "" }, err: exception.ErrOrderInvalidRequest},
		{desc: "unknown type", modify: func(o *SubmitOrder) { o.OrderType = 0 }, err: exception.ErrOrderUnsupportedType},
		{desc: "zero quantity", modify: func(o *SubmitOrder) { o.Quantity = 0 }, err: exception.ErrOrderInvalidRequest},
		{desc: "limit order without price", modify: func(o *SubmitOrder) { o.Price = decimal.Zero }, err: exception.ErrOrderInvalidRequest},
		{desc: "touched order without trigger", modify: func(o *SubmitOrder) { o.OrderType = enum.OrderTypeLIT }, err: exception.ErrOrderInvalidRequest},
		{desc: "GTD without expire date", modify: func(o *SubmitOrder) { o.TimeInForce = enum.TimeInForceGTD }, err: exception.ErrOrderInvalidRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			o := valid
			tc.modify(&o)
			_, err := o.body()
			if tc.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestSubmitOrder(t *testing.T) {
	tc := newTestContext(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/trade/order", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{
			"symbol":"700.HK","order_type":"LO","submitted_price":"320.2","submitted_quantity":"200",
			"side":"Buy","time_in_force":"GTD","expire_date":"2024-01-31","outside_rth":"RTH_ONLY"
		}`, string(body))
		_, _ = w.Write([]byte(`{"code":0,"message":"success","data":{"order_id":"701276261045858304"}}`))
	}, nil)

	resp, err := tc.SubmitOrder(context.Background(), SubmitOrder{
		Symbol:      "700.HK",
		OrderType:   enum.OrderTypeLO,
		Side:        enum.OrderSideBuy,
		Quantity:    200,
		Price:       decimal.RequireFromString("320.2"),
		TimeInForce: enum.TimeInForceGTD,
		ExpireDate:  time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
		OutsideRTH:  enum.OutsideRTHOnly,
	})
	require.NoError(t, err)
	assert.Equal(t, "701276261045858304", resp.OrderID)
}

func TestTodayOrders(t *testing.T) {
	tc := newTestContext(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/trade/order/today", r.URL.Path)
		assert.Equal(t, []string{"NewStatus", "FilledStatus"}, r.URL.Query()["status"])
		assert.Equal(t, "HK", r.URL.Query().Get("market"))
		_, _ = w.Write([]byte(`{"code":0,"data":{"orders":[{
			"order_id":"1","status":"FilledStatus","stock_name":"Tencent","quantity":"200","executed_quantity":"200",
			"price":"320.2","executed_price":"320","submitted_at":"1704159025","side":"Sell","symbol":"700.HK",
			"order_type":"LO","time_in_force":"Day","expire_date":"","updated_at":"0","currency":"HKD"
		}]}}`))
	}, nil)

	orders, err := tc.TodayOrders(context.Background(), TodayOrdersFilter{
		Status: []enum.OrderStatus{enum.OrderStatusNew, enum.OrderStatusFilled},
		Market: enum.MarketHK,
	})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	o := orders[0]
	assert.Equal(t, enum.OrderStatusFilled, o.Status)
	assert.Equal(t, enum.OrderSideSell, o.Side)
	assert.Equal(t, int64(200), o.ExecutedQuantity)
	assert.Equal(t, int64(1704159025), o.SubmittedAt.Unix())
	assert.True(t, o.UpdatedAt.IsZero())
}

func TestRemoteErrorIsVerbatim(t *testing.T) {
	tc := newTestContext(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":602023,"message":"order not found"}`))
	}, nil)

	_, err := tc.OrderDetail(context.Background(), "42")
	re, ok := exception.IsRemote(err)
	require.True(t, ok, "%v", err)
	assert.Equal(t, int64(602023), re.Code)
	assert.Equal(t, "order not found", re.Message)

	assert.ErrorIs(t, tc.CancelOrder(context.Background(), ""), exception.ErrOrderEmptyOrderID)

	_, err = tc.CashFlow(context.Background(), CashFlowFilter{})
	assert.ErrorIs(t, err, exception.ErrInvalidArgument)
}

func TestOrderChangedPush(t *testing.T) {
	transport := newFakeTransport(func(cmd codec.Command, body []byte) ([]byte, error) {
		return []byte(`{"success":["private"],"current":["private"]}`), nil
	})
	tc := newTestContext(t, func(w http.ResponseWriter, r *http.Request) {}, transport)

	got := make(chan model.PushOrderChanged, 1)
	tc.SetOnOrderChanged(func(e model.PushOrderChanged) { got <- e })

	require.NoError(t, tc.Subscribe(context.Background(), []string{TopicPrivate}))
	assert.Equal(t, []codec.Command{codec.CmdTradeSubscribe}, transport.sent())

	transport.pushes <- codec.Frame{Type: codec.FramePush, Command: codec.CmdTradeNotify, Body: []byte(`{"topic":"private","data":{
		"side":"Buy","stock_name":"Tencent","submitted_quantity":"200","symbol":"700.HK","order_type":"LO",
		"submitted_price":"320.2","executed_quantity":"100","executed_price":"320","order_id":"7",
		"currency":"HKD","status":"PartialFilledStatus","submitted_at":"1704159025","updated_at":"1704159030"
	}}`)}

	select {
	case e := <-got:
		assert.Equal(t, "7", e.OrderID)
		assert.Equal(t, enum.OrderStatusPartialFilled, e.Status)
		assert.Equal(t, int64(100), e.ExecutedQuantity)
	case <-time.After(2 * time.Second):
		t.Fatal("order changed handler not called")
	}
}

func TestSubscribeReportsFailedTopics(t *testing.T) {
	transport := newFakeTransport(func(cmd codec.Command, body []byte) ([]byte, error) {
		return []byte(`{"success":[],"fail":[{"topic":"public","reason":"unknown topic"}]}`), nil
	})
	tc := newTestContext(t, func(w http.ResponseWriter, r *http.Request) {}, transport)

	err := tc.Subscribe(context.Background(), []string{"public"})
	assert.ErrorIs(t, err, exception.ErrArgumentUnsupported)
}

func TestClosedTradeContext(t *testing.T) {
	transport := newFakeTransport(nil)
	tc := newTestContext(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected after close")
	}, transport)
	require.NoError(t, tc.Close())

	_, err := tc.AccountBalance(context.Background(), "")
	assert.ErrorIs(t, err, exception.ErrClientClosed)
	assert.ErrorIs(t, tc.Subscribe(context.Background(), []string{TopicPrivate}), exception.ErrClientClosed)
}

func TestSubscribeWithoutStream(t *testing.T) {
	tc := newTestContext(t, func(w http.ResponseWriter, r *http.Request) {}, nil)
	assert.ErrorIs(t, tc.Subscribe(context.Background(), []string{TopicPrivate}), exception.ErrNotConnected)
}
