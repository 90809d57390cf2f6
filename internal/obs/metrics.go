// Package obs holds lightweight runtime counters of the quote runtime.
package obs

import (
	"errors"
	"sync/atomic"
	"time"

	"marketlink/internal/bus"
	"marketlink/internal/model/enum"
)

const maxPushKind = 16

// Metrics collects lightweight counters and latency stats. A nil *Metrics
// ignores every observation.
type Metrics struct {
	pushCounts  [maxPushKind]uint64
	queueDrops  uint64
	queueClosed uint64
	reconnects  uint64

	pushDelay      LatencyStats
	requestLatency LatencyStats
}

// LatencyStats aggregates duration samples in nanoseconds.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// Snapshot captures the current metrics values.
type Snapshot struct {
	PushCounts     map[enum.PushKind]uint64
	QueueDrops     uint64
	QueueClosed    uint64
	Reconnects     uint64
	PushDelay      LatencySnapshot
	RequestLatency LatencySnapshot
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// ObservePush counts a push handed to the handler queue.
func (m *Metrics) ObservePush(kind enum.PushKind) {
	if m == nil {
		return
	}
	if idx := int(kind); kind.IsAvailable() && idx < len(m.pushCounts) {
		atomic.AddUint64(&m.pushCounts[idx], 1)
	}
}

// ObservePublishError classifies a failed queue publish.
func (m *Metrics) ObservePublishError(err error) {
	if m == nil {
		return
	}
	switch {
	case errors.Is(err, bus.ErrQueueFull):
		atomic.AddUint64(&m.queueDrops, 1)
	case errors.Is(err, bus.ErrQueueClosed):
		atomic.AddUint64(&m.queueClosed, 1)
	}
}

// ObservePushDelay records the gap between the venue timestamp of a push and
// its arrival.
func (m *Metrics) ObservePushDelay(venue time.Time, now time.Time) {
	if m == nil || venue.IsZero() {
		return
	}
	m.pushDelay.Observe(now.Sub(venue))
}

// ObserveRequest records the round trip of one stream request.
func (m *Metrics) ObserveRequest(d time.Duration) {
	if m == nil {
		return
	}
	m.requestLatency.Observe(d)
}

func (m *Metrics) IncReconnect() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.reconnects, 1)
}

// Snapshot returns a copy of the current metrics values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	counts := make(map[enum.PushKind]uint64)
	for i := range m.pushCounts {
		if v := atomic.LoadUint64(&m.pushCounts[i]); v > 0 {
			counts[enum.PushKind(i)] = v
		}
	}
	return Snapshot{
		PushCounts:     counts,
		QueueDrops:     atomic.LoadUint64(&m.queueDrops),
		QueueClosed:    atomic.LoadUint64(&m.queueClosed),
		Reconnects:     atomic.LoadUint64(&m.reconnects),
		PushDelay:      m.pushDelay.Snapshot(),
		RequestLatency: m.requestLatency.Snapshot(),
	}
}

// Observe records a duration sample. Negative samples are dropped.
func (l *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	nanos := uint64(d)
	atomic.AddUint64(&l.count, 1)
	atomic.AddUint64(&l.sum, nanos)

	for {
		cur := atomic.LoadUint64(&l.min)
		if cur != 0 && nanos >= cur {
			break
		}
		if atomic.CompareAndSwapUint64(&l.min, cur, nanos) {
			break
		}
	}

	for {
		cur := atomic.LoadUint64(&l.max)
		if nanos <= cur {
			break
		}
		if atomic.CompareAndSwapUint64(&l.max, cur, nanos) {
			break
		}
	}
}

func (l *LatencyStats) Snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&l.count)
	if count == 0 {
		return LatencySnapshot{}
	}
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(atomic.LoadUint64(&l.min)),
		Max:   time.Duration(atomic.LoadUint64(&l.max)),
		Avg:   time.Duration(atomic.LoadUint64(&l.sum) / count),
	}
}
