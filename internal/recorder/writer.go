// Package recorder persists confirmed candlesticks.
//
// # Module
//
// Writer receives candlestick pushes from a QuoteContext handler, keeps the
// confirmed ones and writes them to a Store in batches.
//
// # Source
//
//   - quote.QuoteContext candlestick handler
//
// # Produce
//
//   - rows in the candlesticks table
package recorder

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"marketlink/internal/model"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

var (
	ErrQueueFull      = errors.New("recorder queue full")
	ErrClosed         = errors.New("recorder closed")
	ErrNotStarted     = errors.New("recorder not started")
	ErrAlreadyStarted = errors.New("recorder already started")
)

// Writer batches candles from a buffered queue.
type Writer struct {
	cfg   Config
	store Store
	now   func() time.Time
	ch    chan Candle
	wg    sync.WaitGroup

	errMu   sync.Mutex
	lastErr error

	started atomic.Bool
	closed  atomic.Bool
	dropped atomic.Uint64
}

func NewWriter(store Store, cfg Config) (*Writer, error) {
	if store == nil {
		return nil, errors.New("recorder: nil store")
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Writer{
		cfg:   cfg,
		store: store,
		now:   time.Now,
		ch:    make(chan Candle, cfg.QueueSize),
	}, nil
}

// Start runs the writer loop in a new goroutine.
func (w *Writer) Start(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()
	return nil
}

// Close stops the writer and flushes the queued candles.
func (w *Writer) Close() error {
	if w.closed.CompareAndSwap(false, true) {
		close(w.ch)
	}
	w.wg.Wait()
	return w.Err()
}

// Err returns the last store error, if any.
func (w *Writer) Err() error {
	w.errMu.Lock()
	defer w.errMu.Unlock()
	return w.lastErr
}

// Dropped counts candles rejected because the queue was full.
func (w *Writer) Dropped() uint64 {
	return w.dropped.Load()
}

// TryAppend enqueues a confirmed candle without blocking. Unconfirmed
// candles are ignored.
func (w *Writer) TryAppend(symbol string, e model.PushCandlestick) error {
	if !e.IsConfirmed {
		return nil
	}
	if w.closed.Load() {
		return ErrClosed
	}
	if !w.started.Load() {
		return ErrNotStarted
	}

	row := NewCandle(symbol, e)
	row.RecordedAt = w.now().UTC()
	select {
	case w.ch <- row:
		return nil
	default:
		w.dropped.Add(1)
		return ErrQueueFull
	}
}

// OnCandlestick has the shape of a candlestick handler and logs what
// TryAppend rejects.
func (w *Writer) OnCandlestick(symbol string, e model.PushCandlestick) {
	if err := w.TryAppend(symbol, e); err != nil {
		logs.Warnf("recorder: drop %s %s at %s, err: %+v", symbol, e.Period, e.Candlestick.Timestamp, err)
	}
}

func (w *Writer) run(ctx context.Context) {
	var (
		batch  = make([]Candle, 0, w.cfg.BatchSize)
		flushC <-chan time.Time
	)
	if w.cfg.FlushInterval > 0 {
		ticker := time.NewTicker(w.cfg.FlushInterval)
		defer ticker.Stop()
		flushC = ticker.C
	}

	flush := func() {
		if len(batch) == 0 {
			return
		}
		w.save(batch)
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			w.drainNonBlocking(&batch)
			flush()
			return
		case row, ok := <-w.ch:
			if !ok {
				flush()
				return
			}
			batch = append(batch, row)
			if len(batch) >= w.cfg.BatchSize {
				flush()
			}
		case <-flushC:
			flush()
		}
	}
}

func (w *Writer) drainNonBlocking(batch *[]Candle) {
	for {
		select {
		case row, ok := <-w.ch:
			if !ok {
				return
			}
			*batch = append(*batch, row)
		default:
			return
		}
	}
}

// save uses its own timeout so the final flush still runs after the run
// context is cancelled. A failed batch is logged and dropped.
func (w *Writer) save(batch []Candle) {
	ctx, cancel := context.WithTimeout(context.Background(), w.cfg.WriteTimeout)
	defer cancel()

	rows := make([]Candle, len(batch))
	copy(rows, batch)
	if err := w.store.Save(ctx, rows); err != nil {
		err = errors.Wrapf(err, "save %d candles", len(rows))
		w.errMu.Lock()
		w.lastErr = err
		w.errMu.Unlock()
		logs.Errorf("recorder: %+v", err)
	}
}
