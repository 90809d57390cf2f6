// Package trade is the order management API.
//
// # Module
//
// TradeContext sends orders and account queries over the signed REST
// client and follows order transitions on the trade stream.
//
// # Source
//
//   - pkg/rest (orders, executions, account)
//   - pkg/websocket (order changed notifications)
//
// # Produce
//
//   - model.PushOrderChanged to the handler set with SetOnOrderChanged
package trade

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"marketlink/internal/bus"
	"marketlink/internal/codec"
	"marketlink/internal/model"
	"marketlink/pkg/exception"
	"marketlink/pkg/rest"
	"marketlink/pkg/websocket"

	"github.com/yanun0323/errors"
)

const (
	TopicPrivate = "private"

	pushQueueSize = 1024
)

const (
	pathOrder             = "/v1/trade/order"
	pathTodayOrders       = "/v1/trade/order/today"
	pathHistoryOrders     = "/v1/trade/order/history"
	pathTodayExecutions   = "/v1/trade/execution/today"
	pathHistoryExecutions = "/v1/trade/execution/history"
	pathAccountBalance    = "/v1/asset/account"
	pathCashFlow          = "/v1/asset/cashflow"
	pathStockPositions    = "/v1/asset/stock"
	pathFundPositions     = "/v1/asset/fund"
	pathMarginRatio       = "/v1/risk/margin-ratio"
	pathEstimateBuyLimit  = "/v1/trade/estimate/buy_limit"
)

type OrderChangedHandler func(event model.PushOrderChanged)

// TradeContext is safe for concurrent use.
type TradeContext struct {
	http   *rest.Client
	stream *stream
	events *bus.Queue[model.PushOrderChanged]

	mu      sync.Mutex
	handler OrderChangedHandler

	closed    atomic.Bool
	cancel    context.CancelFunc
	closeOnce sync.Once
	fanout    chan struct{}
}

// New builds a TradeContext. transport may be nil when order pushes are not
// needed; Subscribe then fails with exception.ErrNotConnected.
func New(http *rest.Client, transport Transport) (*TradeContext, error) {
	if http == nil {
		return nil, errors.Wrap(exception.ErrNilInstance, "trade rest client")
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &TradeContext{
		http:   http,
		events: bus.NewQueue[model.PushOrderChanged](pushQueueSize),
		cancel: cancel,
		fanout: make(chan struct{}),
	}
	if transport != nil {
		t.stream = newStream(transport, t.events)
		go t.stream.run(ctx)
	}
	go func() {
		defer close(t.fanout)
		t.events.Run(ctx, t.dispatch)
	}()
	return t, nil
}

// Dial opens the trade stream described by opt and builds a TradeContext on
// it. ctx bounds the lifetime of the connection loop.
func Dial(ctx context.Context, http *rest.Client, opt websocket.Option, token string) (*TradeContext, error) {
	if opt.OnConnect == nil {
		opt.OnConnect = websocket.TokenAuth(token, nil)
	}
	client, err := websocket.New(opt)
	if err != nil {
		return nil, err
	}
	client.Start(ctx)

	t, err := New(http, client)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return t, nil
}

// Close stops the stream and the handler goroutine. Later calls fail with
// exception.ErrClientClosed.
func (t *TradeContext) Close() error {
	var err error
	t.closeOnce.Do(func() {
		t.closed.Store(true)
		t.cancel()
		if t.stream != nil {
			<-t.stream.done
			err = t.stream.transport.Close()
		}
		t.events.Close()
		<-t.fanout
	})
	return err
}

// SetOnOrderChanged replaces the order changed handler.
func (t *TradeContext) SetOnOrderChanged(fn OrderChangedHandler) {
	t.mu.Lock()
	t.handler = fn
	t.mu.Unlock()
}

func (t *TradeContext) dispatch(e model.PushOrderChanged) {
	t.mu.Lock()
	fn := t.handler
	t.mu.Unlock()
	if fn != nil {
		fn(e)
	}
}

func (t *TradeContext) Subscribe(ctx context.Context, topics []string) error {
	return t.topics(ctx, topics, true)
}

func (t *TradeContext) Unsubscribe(ctx context.Context, topics []string) error {
	return t.topics(ctx, topics, false)
}

func (t *TradeContext) topics(ctx context.Context, topics []string, subscribe bool) error {
	if t.closed.Load() {
		return exception.ErrClientClosed
	}
	if t.stream == nil {
		return errors.Wrap(exception.ErrNotConnected, "trade stream")
	}

	cmd := topicCommand{ctx: ctx, topics: topics, subscribe: subscribe, reply: make(chan error, 1)}
	select {
	case t.stream.commands <- cmd:
	case <-t.stream.done:
		return exception.ErrClientClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-cmd.reply:
		return err
	case <-t.stream.done:
		select {
		case err := <-cmd.reply:
			return err
		default:
			return exception.ErrClientClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func do[R any](ctx context.Context, t *TradeContext, req *rest.Request) (R, error) {
	if t.closed.Load() {
		var zero R
		return zero, exception.ErrClientClosed
	}
	return rest.Do[R](ctx, req)
}

// SubmitOrder returns the id of the new order.
func (t *TradeContext) SubmitOrder(ctx context.Context, o SubmitOrder) (model.SubmitOrderResponse, error) {
	body, err := o.body()
	if err != nil {
		return model.SubmitOrderResponse{}, err
	}
	resp, err := do[codec.WireSubmitOrder](ctx, t, t.http.Request(http.MethodPost, pathOrder).Body(body))
	if err != nil {
		return model.SubmitOrderResponse{}, err
	}
	return model.SubmitOrderResponse{OrderID: resp.OrderID}, nil
}

func (t *TradeContext) ReplaceOrder(ctx context.Context, o ReplaceOrder) error {
	body, err := o.body()
	if err != nil {
		return err
	}
	_, err = do[rest.Empty](ctx, t, t.http.Request(http.MethodPut, pathOrder).Body(body))
	return err
}

func (t *TradeContext) CancelOrder(ctx context.Context, orderID string) error {
	if orderID == "" {
		return exception.ErrOrderEmptyOrderID
	}
	_, err := do[rest.Empty](ctx, t, t.http.Request(http.MethodDelete, pathOrder).
		QueryParams(codec.OrderIDQuery{OrderID: orderID}))
	return err
}

func (t *TradeContext) TodayOrders(ctx context.Context, filter TodayOrdersFilter) ([]model.Order, error) {
	list, err := do[codec.OrderList](ctx, t, t.http.Request(http.MethodGet, pathTodayOrders).QueryParams(filter.query()))
	if err != nil {
		return nil, err
	}
	return list.Model()
}

// HistoryOrders returns orders before today. The venue pages the result;
// the second value reports whether more orders are available.
func (t *TradeContext) HistoryOrders(ctx context.Context, filter HistoryOrdersFilter) ([]model.Order, bool, error) {
	list, err := do[codec.OrderList](ctx, t, t.http.Request(http.MethodGet, pathHistoryOrders).QueryParams(filter.query()))
	if err != nil {
		return nil, false, err
	}
	orders, err := list.Model()
	return orders, list.HasMore, err
}

func (t *TradeContext) OrderDetail(ctx context.Context, orderID string) (model.Order, error) {
	if orderID == "" {
		return model.Order{}, exception.ErrOrderEmptyOrderID
	}
	w, err := do[codec.WireOrder](ctx, t, t.http.Request(http.MethodGet, pathOrder).
		QueryParams(codec.OrderIDQuery{OrderID: orderID}))
	if err != nil {
		return model.Order{}, err
	}
	return w.Model()
}

func (t *TradeContext) TodayExecutions(ctx context.Context, filter ExecutionsFilter) ([]model.Execution, error) {
	filter.Start, filter.End = time.Time{}, time.Time{}
	return t.executions(ctx, pathTodayExecutions, filter)
}

func (t *TradeContext) HistoryExecutions(ctx context.Context, filter ExecutionsFilter) ([]model.Execution, error) {
	return t.executions(ctx, pathHistoryExecutions, filter)
}

func (t *TradeContext) executions(ctx context.Context, path string, filter ExecutionsFilter) ([]model.Execution, error) {
	list, err := do[codec.ExecutionList](ctx, t, t.http.Request(http.MethodGet, path).QueryParams(filter.query()))
	if err != nil {
		return nil, err
	}
	return list.Model()
}

// AccountBalance returns one entry per account currency, or only currency
// when it is set.
func (t *TradeContext) AccountBalance(ctx context.Context, currency string) ([]model.AccountBalance, error) {
	list, err := do[codec.AccountBalanceList](ctx, t, t.http.Request(http.MethodGet, pathAccountBalance).
		QueryParams(codec.AccountBalanceQuery{Currency: currency}))
	if err != nil {
		return nil, err
	}
	return list.Model()
}

func (t *TradeContext) CashFlow(ctx context.Context, filter CashFlowFilter) ([]model.CashFlow, error) {
	q, err := filter.query()
	if err != nil {
		return nil, err
	}
	list, err := do[codec.CashFlowList](ctx, t, t.http.Request(http.MethodGet, pathCashFlow).QueryParams(q))
	if err != nil {
		return nil, err
	}
	return list.Model()
}

func (t *TradeContext) StockPositions(ctx context.Context, symbols []string) ([]model.StockPositionChannel, error) {
	list, err := do[codec.StockPositionList](ctx, t, t.http.Request(http.MethodGet, pathStockPositions).
		QueryParams(codec.PositionsQuery{Symbols: symbols}))
	if err != nil {
		return nil, err
	}
	return list.Model()
}

func (t *TradeContext) FundPositions(ctx context.Context, symbols []string) ([]model.FundPositionChannel, error) {
	list, err := do[codec.FundPositionList](ctx, t, t.http.Request(http.MethodGet, pathFundPositions).
		QueryParams(codec.PositionsQuery{Symbols: symbols}))
	if err != nil {
		return nil, err
	}
	return list.Model()
}

func (t *TradeContext) MarginRatio(ctx context.Context, symbol string) (model.MarginRatio, error) {
	w, err := do[codec.WireMarginRatio](ctx, t, t.http.Request(http.MethodGet, pathMarginRatio).
		QueryParams(codec.SymbolQuery{Symbol: symbol}))
	if err != nil {
		return model.MarginRatio{}, err
	}
	return w.Model(), nil
}

func (t *TradeContext) EstimateMaxPurchaseQuantity(ctx context.Context, o EstimateMaxPurchaseQuantity) (model.EstimateMaxPurchaseQuantityResponse, error) {
	q, err := o.query()
	if err != nil {
		return model.EstimateMaxPurchaseQuantityResponse{}, err
	}
	w, err := do[codec.WireMaxPurchaseQuantity](ctx, t, t.http.Request(http.MethodGet, pathEstimateBuyLimit).QueryParams(q))
	if err != nil {
		return model.EstimateMaxPurchaseQuantityResponse{}, err
	}
	return w.Model(), nil
}
