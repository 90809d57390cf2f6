package candlestick

import (
	"time"

	"marketlink/internal/model/enum"
)

// BucketTime maps t, already expressed in the market's location, to the
// canonical time of the bucket it belongs to.
//
// Minute periods are clamped into the active session table and labelled with
// the bucket close: the N-minute grid is measured from local midnight, a trade
// on the session open belongs to the first bucket, and no bucket runs past the
// end of its window. Day and longer periods ignore sessions and are labelled
// with the local midnight that opens them.
func BucketTime(table SessionTable, halfDay bool, period enum.Period, t time.Time) time.Time {
	if !period.IsMinute() {
		return calendarBucket(period, t)
	}

	year, month, day := t.Date()
	offset := sinceMidnight(t)
	size := period.Duration()

	ws := table.windows(halfDay)
	if len(ws) == 0 {
		return atOffset(year, month, day, ceilDuration(offset, size), t.Location())
	}

	w, clamped := clamp(ws, offset)
	var bucket time.Duration
	if clamped == w.Start {
		bucket = clamped - clamped%size + size
	} else {
		bucket = ceilDuration(clamped, size)
	}
	if bucket > w.End {
		bucket = w.End
	}

	return atOffset(year, month, day, bucket, t.Location())
}

func calendarBucket(period enum.Period, t time.Time) time.Time {
	year, month, day := t.Date()
	loc := t.Location()
	switch period {
	case enum.PeriodWeek:
		back := (int(t.Weekday()) + 6) % 7
		return time.Date(year, month, day-back, 0, 0, 0, 0, loc)
	case enum.PeriodMonth:
		return time.Date(year, month, 1, 0, 0, 0, 0, loc)
	case enum.PeriodQuarter:
		first := time.Month((int(month)-1)/3*3 + 1)
		return time.Date(year, first, 1, 0, 0, 0, 0, loc)
	case enum.PeriodYear:
		return time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(year, month, day, 0, 0, 0, 0, loc)
	}
}

func sinceMidnight(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())
}

func ceilDuration(d, size time.Duration) time.Duration {
	if rem := d % size; rem != 0 {
		return d - rem + size
	}
	return d
}

// atOffset rebuilds wall-clock time so DST days keep their local labels.
func atOffset(year int, month time.Month, day int, offset time.Duration, loc *time.Location) time.Time {
	minutes := int(offset / time.Minute)
	return time.Date(year, month, day, 0, minutes, 0, 0, loc)
}
