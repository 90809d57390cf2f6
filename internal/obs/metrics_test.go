package obs

import (
	"testing"
	"time"

	"marketlink/internal/bus"
	"marketlink/internal/model/enum"

	"github.com/stretchr/testify/assert"
	"github.com/yanun0323/errors"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	m.ObservePush(enum.PushKindQuote)
	m.ObservePush(enum.PushKindQuote)
	m.ObservePush(enum.PushKindCandlestick)
	m.ObservePush(enum.PushKind(0))
	m.ObservePublishError(bus.ErrQueueFull)
	m.ObservePublishError(errors.Wrap(bus.ErrQueueClosed, "quote"))
	m.ObservePublishError(errors.New("other"))
	m.IncReconnect()

	now := time.Now()
	m.ObservePushDelay(now.Add(-20*time.Millisecond), now)
	m.ObservePushDelay(now.Add(-40*time.Millisecond), now)
	m.ObservePushDelay(time.Time{}, now)
	m.ObserveRequest(-time.Second)

	s := m.Snapshot()
	assert.Equal(t, map[enum.PushKind]uint64{enum.PushKindQuote: 2, enum.PushKindCandlestick: 1}, s.PushCounts)
	assert.Equal(t, uint64(1), s.QueueDrops)
	assert.Equal(t, uint64(1), s.QueueClosed)
	assert.Equal(t, uint64(1), s.Reconnects)
	assert.Equal(t, LatencySnapshot{Count: 2, Min: 20 * time.Millisecond, Max: 40 * time.Millisecond, Avg: 30 * time.Millisecond}, s.PushDelay)
	assert.Equal(t, LatencySnapshot{}, s.RequestLatency)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObservePush(enum.PushKindDepth)
	m.ObservePublishError(bus.ErrQueueFull)
	m.ObserveRequest(time.Millisecond)
	m.IncReconnect()
	assert.Equal(t, Snapshot{}, m.Snapshot())
}
