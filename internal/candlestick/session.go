package candlestick

import (
	"sort"
	"time"
)

// Window is one trading window expressed as offsets from local midnight.
// Both ends are inclusive.
type Window struct {
	Start time.Duration
	End   time.Duration
}

// NewWindow builds a window from wall-clock hours and minutes.
func NewWindow(startHour, startMinute, endHour, endMinute int) Window {
	return Window{
		Start: time.Duration(startHour)*time.Hour + time.Duration(startMinute)*time.Minute,
		End:   time.Duration(endHour)*time.Hour + time.Duration(endMinute)*time.Minute,
	}
}

// SessionTable holds the windows of a normal day and of a half trading day.
type SessionTable struct {
	Normal  []Window
	HalfDay []Window
}

// NewSessionTable sorts both tables and merges overlapping or touching windows.
// A nil halfDay table reuses the normal one.
func NewSessionTable(normal, halfDay []Window) SessionTable {
	n := normalizeWindows(normal)
	if halfDay == nil {
		return SessionTable{Normal: n, HalfDay: n}
	}
	return SessionTable{Normal: n, HalfDay: normalizeWindows(halfDay)}
}

func (t SessionTable) windows(halfDay bool) []Window {
	if halfDay && len(t.HalfDay) != 0 {
		return t.HalfDay
	}
	return t.Normal
}

// IsEmpty reports whether no window is configured.
func (t SessionTable) IsEmpty() bool {
	return len(t.Normal) == 0
}

func normalizeWindows(ws []Window) []Window {
	if len(ws) == 0 {
		return nil
	}
	sorted := make([]Window, 0, len(ws))
	for _, w := range ws {
		if w.End < w.Start {
			continue
		}
		sorted = append(sorted, w)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	merged := sorted[:0]
	for _, w := range sorted {
		if n := len(merged); n != 0 && w.Start <= merged[n-1].End {
			if w.End > merged[n-1].End {
				merged[n-1].End = w.End
			}
			continue
		}
		merged = append(merged, w)
	}
	return merged
}

// clamp moves offset into the nearest window and returns that window.
func clamp(ws []Window, offset time.Duration) (Window, time.Duration) {
	for i, w := range ws {
		if offset < w.Start {
			if i == 0 {
				return w, w.Start
			}
			prev := ws[i-1]
			if offset-prev.End <= w.Start-offset {
				return prev, prev.End
			}
			return w, w.Start
		}
		if offset <= w.End {
			return w, offset
		}
	}
	last := ws[len(ws)-1]
	return last, last.End
}
