package codec

import (
	"strconv"
	"time"

	"marketlink/internal/model/enum"
	"marketlink/pkg/exception"

	"github.com/shopspring/decimal"
)

const (
	dateLayout     = "20060102"
	dateLayoutDash = "2006-01-02"
)

// Decimal parses a numeric string. Empty or malformed input yields zero.
func Decimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Int64 parses an integer string. Empty or malformed input yields zero.
func Int64(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return v
	}
	// volumes occasionally arrive as "1200.0"
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.IntPart()
}

// Timestamp parses unix seconds.
func Timestamp(field, s string) (time.Time, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, exception.NewParseError(field, s, err)
	}
	return time.Unix(v, 0).UTC(), nil
}

// OptionalTimestamp is Timestamp where "" and "0" mean absent.
func OptionalTimestamp(field, s string) (time.Time, error) {
	if s == "" || s == "0" {
		return time.Time{}, nil
	}
	return Timestamp(field, s)
}

// Date parses a YYYYMMDD or YYYY-MM-DD calendar date at UTC midnight.
func Date(field, s string) (time.Time, error) {
	layout := dateLayout
	if len(s) == len(dateLayoutDash) {
		layout = dateLayoutDash
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, exception.NewParseError(field, s, err)
	}
	return t, nil
}

// OptionalDate is Date where "" means absent.
func OptionalDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return Date(field, s)
}

// FormatDate renders a calendar date the way requests expect it.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// Clock parses an hhmm wall clock into an offset from midnight.
func Clock(field string, hhmm int32) (time.Duration, error) {
	h, m := hhmm/100, hhmm%100
	if hhmm < 0 || h > 24 || m >= 60 || (h == 24 && m != 0) {
		return 0, exception.NewParseError(field, strconv.Itoa(int(hhmm)), nil)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}

// Market parses a market code.
func Market(field, s string) (enum.Market, error) {
	m, ok := enum.ParseMarket(s)
	if !ok {
		return 0, exception.NewParseError(field, s, nil)
	}
	return m, nil
}

// TradeSession parses a session code.
func TradeSession(field string, v int32) (enum.TradeSession, error) {
	s := enum.TradeSession(v)
	if v < 0 || !s.IsAvailable() {
		return 0, exception.NewParseError(field, strconv.Itoa(int(v)), nil)
	}
	return s, nil
}

// Period parses a wire period code.
func Period(field string, v int32) (enum.Period, error) {
	p, ok := enum.PeriodFromWire(v)
	if !ok {
		return 0, exception.NewParseError(field, strconv.Itoa(int(v)), nil)
	}
	return p, nil
}

// TradeStatus parses a security trade status.
func TradeStatus(field string, v int32) (enum.TradeStatus, error) {
	if v < 0 || v > int32(enum.TradeStatusSuspendTrade) {
		return 0, exception.NewParseError(field, strconv.Itoa(int(v)), nil)
	}
	return enum.TradeStatus(v), nil
}

// Direction maps a trade direction. Unknown codes read as neutral.
func Direction(v int32) enum.TradeDirection {
	switch v {
	case 1:
		return enum.TradeDirectionDown
	case 2:
		return enum.TradeDirectionUp
	default:
		return enum.TradeDirectionNeutral
	}
}

// Text parses a name-keyed enum such as OrderStatus.
func Text[T any, P interface {
	*T
	UnmarshalText([]byte) error
}](field, s string) (T, error) {
	var v T
	if err := P(&v).UnmarshalText([]byte(s)); err != nil {
		return v, exception.NewParseError(field, s, err)
	}
	return v, nil
}

func parseErr(field, value string, err error) error {
	return exception.NewParseError(field, value, err)
}
