package enum

import (
	"strconv"
	"time"
)

// Period is the candlestick bucket granularity.
type Period uint8

const (
	_period_beg Period = iota
	PeriodMin1
	PeriodMin2
	PeriodMin3
	PeriodMin5
	PeriodMin10
	PeriodMin15
	PeriodMin20
	PeriodMin30
	PeriodMin45
	PeriodMin60
	PeriodMin120
	PeriodMin180
	PeriodMin240
	PeriodDay
	PeriodWeek
	PeriodMonth
	PeriodQuarter
	PeriodYear
	_period_end
)

var periodMinutes = [...]int{
	PeriodMin1:   1,
	PeriodMin2:   2,
	PeriodMin3:   3,
	PeriodMin5:   5,
	PeriodMin10:  10,
	PeriodMin15:  15,
	PeriodMin20:  20,
	PeriodMin30:  30,
	PeriodMin45:  45,
	PeriodMin60:  60,
	PeriodMin120: 120,
	PeriodMin180: 180,
	PeriodMin240: 240,
}

var periodWire = [...]int32{
	PeriodMin1:    1,
	PeriodMin2:    2,
	PeriodMin3:    3,
	PeriodMin5:    5,
	PeriodMin10:   10,
	PeriodMin15:   15,
	PeriodMin20:   20,
	PeriodMin30:   30,
	PeriodMin45:   45,
	PeriodMin60:   60,
	PeriodMin120:  120,
	PeriodMin180:  180,
	PeriodMin240:  240,
	PeriodDay:     1000,
	PeriodWeek:    2000,
	PeriodMonth:   3000,
	PeriodQuarter: 3500,
	PeriodYear:    4000,
}

func (p Period) IsAvailable() bool {
	return p > _period_beg && p < _period_end
}

// IsMinute reports whether the period buckets by N minutes inside trading sessions.
func (p Period) IsMinute() bool {
	return p >= PeriodMin1 && p <= PeriodMin240
}

// Minutes returns N for minute periods and 0 otherwise.
func (p Period) Minutes() int {
	if !p.IsMinute() {
		return 0
	}
	return periodMinutes[p]
}

// Duration returns the bucket width of minute periods.
func (p Period) Duration() time.Duration {
	return time.Duration(p.Minutes()) * time.Minute
}

// Wire returns the numeric code used on the wire.
func (p Period) Wire() int32 {
	if !p.IsAvailable() {
		return 0
	}
	return periodWire[p]
}

// PeriodFromWire is the inverse of Period.Wire.
func PeriodFromWire(code int32) (Period, bool) {
	for p := PeriodMin1; p < _period_end; p++ {
		if periodWire[p] == code {
			return p, true
		}
	}
	return 0, false
}

func (p Period) String() string {
	switch p {
	case PeriodDay:
		return "day"
	case PeriodWeek:
		return "week"
	case PeriodMonth:
		return "month"
	case PeriodQuarter:
		return "quarter"
	case PeriodYear:
		return "year"
	}
	if p.IsMinute() {
		return strconv.Itoa(p.Minutes()) + "m"
	}
	return "unknown"
}

// ParsePeriod accepts the String form, e.g. "5m" or "day".
func ParsePeriod(s string) (Period, bool) {
	for p := PeriodMin1; p < _period_end; p++ {
		if p.String() == s {
			return p, true
		}
	}
	return 0, false
}
