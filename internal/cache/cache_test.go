package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestCacheSingleFlight(t *testing.T) {
	const callers = 64
	c := New[[]string](time.Minute)

	var fetches atomic.Int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) ([]string, error) {
		fetches.Add(1)
		<-release
		return []string{"700.HK", "9988.HK"}, nil
	}

	results := make([][]string, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.GetOrUpdate(t.Context(), fetch)
			assert.NoError(t, err)
			results[i] = v
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int32(1), fetches.Load())
	for _, r := range results {
		require.Equal(t, []string{"700.HK", "9988.HK"}, r)
		require.Same(t, &results[0][0], &r[0])
	}
}

func TestCacheExpires(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	c := New[int](time.Minute)
	c.now = clock.Now

	var fetches int
	fetch := func(ctx context.Context) (int, error) {
		fetches++
		return fetches, nil
	}

	v, err := c.GetOrUpdate(t.Context(), fetch)
	require.NoError(t, err)
	require.Equal(t, 1, v)

	clock.Advance(59 * time.Second)
	v, err = c.GetOrUpdate(t.Context(), fetch)
	require.NoError(t, err)
	require.Equal(t, 1, v)

	clock.Advance(time.Second)
	v, err = c.GetOrUpdate(t.Context(), fetch)
	require.NoError(t, err)
	require.Equal(t, 2, v)
}

func TestCacheErrorReachesEveryWaiter(t *testing.T) {
	const callers = 16
	errFetch := errors.New("fetch failed")
	c := New[int](time.Minute)

	var fetches atomic.Int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (int, error) {
		fetches.Add(1)
		<-release
		return 0, errFetch
	}

	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = c.GetOrUpdate(t.Context(), fetch)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int32(1), fetches.Load())
	for _, err := range errs {
		require.ErrorIs(t, err, errFetch)
	}

	v, err := c.GetOrUpdate(t.Context(), func(ctx context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	require.Equal(t, 7, v)
}

func TestCacheAbandonedWaiterKeepsFetch(t *testing.T) {
	c := New[string](time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})
	var fetchCtxErr atomic.Value

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() {
		_, err := c.GetOrUpdate(ctx, func(ctx context.Context) (string, error) {
			close(started)
			<-release
			if ctx.Err() != nil {
				fetchCtxErr.Store(ctx.Err())
			}
			return "value", nil
		})
		done <- err
	}()

	<-started
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	close(release)
	require.Eventually(t, func() bool {
		v, ok := c.load()
		return ok && v == "value"
	}, time.Second, 5*time.Millisecond)
	require.Nil(t, fetchCtxErr.Load())
}

func TestKeyedCache(t *testing.T) {
	type key struct {
		Symbol string
		Date   string
	}

	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	c := NewKeyed[key, string](time.Minute)
	c.now = clock.Now

	var fetches atomic.Int32
	fetch := func(ctx context.Context, k key) (string, error) {
		fetches.Add(1)
		return k.Symbol + "@" + k.Date, nil
	}

	a, err := c.GetOrUpdate(t.Context(), key{"AAPL.US", "20240119"}, fetch)
	require.NoError(t, err)
	require.Equal(t, "AAPL.US@20240119", a)

	b, err := c.GetOrUpdate(t.Context(), key{"AAPL.US", "20240126"}, fetch)
	require.NoError(t, err)
	require.Equal(t, "AAPL.US@20240126", b)

	_, err = c.GetOrUpdate(t.Context(), key{"AAPL.US", "20240119"}, fetch)
	require.NoError(t, err)
	require.Equal(t, int32(2), fetches.Load())
	require.Equal(t, 2, c.Len())

	clock.Advance(time.Minute)
	_, err = c.GetOrUpdate(t.Context(), key{"AAPL.US", "20240119"}, fetch)
	require.NoError(t, err)
	require.Equal(t, int32(3), fetches.Load())

	c.Invalidate(key{"AAPL.US", "20240126"})
	_, err = c.GetOrUpdate(t.Context(), key{"AAPL.US", "20240126"}, fetch)
	require.NoError(t, err)
	require.Equal(t, int32(4), fetches.Load())
}

func TestKeyedCacheSingleFlightPerKey(t *testing.T) {
	const callers = 32
	c := NewKeyed[string, int](time.Minute)

	var fetches atomic.Int32
	release := make(chan struct{})
	fetch := func(ctx context.Context, k string) (int, error) {
		fetches.Add(1)
		<-release
		return len(k), nil
	}

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			k := "700.HK"
			if i%2 == 1 {
				k = "TSLA.US"
			}
			v, err := c.GetOrUpdate(t.Context(), k, fetch)
			assert.NoError(t, err)
			assert.Equal(t, len(k), v)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int32(2), fetches.Load())
}
