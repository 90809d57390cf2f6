package candlestick

import (
	"testing"
	"time"

	"marketlink/internal/model/enum"

	"github.com/stretchr/testify/require"
)

func hkTime(t *testing.T, day, hour, minute, second int) time.Time {
	t.Helper()
	hk := DefaultMarkets()[enum.MarketHK]
	return time.Date(2024, time.January, day, hour, minute, second, 0, hk.Location)
}

func TestBucketTimeMinute(t *testing.T) {
	hk := DefaultMarkets()[enum.MarketHK]
	table := hk.Table(enum.TradeSessionsIntraday)

	testCases := []struct {
		desc     string
		halfDay  bool
		period   enum.Period
		input    [3]int
		expected [2]int
	}{
		{"before open clamps to first bucket", false, enum.PeriodMin5, [3]int{9, 28, 0}, [2]int{9, 35}},
		{"on open", false, enum.PeriodMin5, [3]int{9, 30, 0}, [2]int{9, 35}},
		{"inside first bucket", false, enum.PeriodMin5, [3]int{9, 30, 25}, [2]int{9, 35}},
		{"on grid point", false, enum.PeriodMin5, [3]int{9, 35, 0}, [2]int{9, 35}},
		{"just after grid point", false, enum.PeriodMin5, [3]int{9, 35, 1}, [2]int{9, 40}},
		{"second bucket", false, enum.PeriodMin5, [3]int{9, 36, 0}, [2]int{9, 40}},
		{"lunch near morning close", false, enum.PeriodMin5, [3]int{12, 10, 0}, [2]int{12, 0}},
		{"lunch tie goes to morning close", false, enum.PeriodMin5, [3]int{12, 30, 0}, [2]int{12, 0}},
		{"lunch near afternoon open", false, enum.PeriodMin5, [3]int{12, 50, 0}, [2]int{13, 5}},
		{"after close", false, enum.PeriodMin5, [3]int{16, 30, 0}, [2]int{16, 0}},
		{"on close", false, enum.PeriodMin1, [3]int{16, 0, 0}, [2]int{16, 0}},
		{"hour bucket pulled back to morning close", false, enum.PeriodMin60, [3]int{11, 58, 0}, [2]int{12, 0}},
		{"hour bucket from afternoon open", false, enum.PeriodMin60, [3]int{13, 0, 0}, [2]int{14, 0}},
		{"half day afternoon clamps to noon", true, enum.PeriodMin5, [3]int{14, 0, 0}, [2]int{12, 0}},
		{"two hour bucket ends at morning close", false, enum.PeriodMin120, [3]int{10, 5, 0}, [2]int{12, 0}},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			input := hkTime(t, 2, tc.input[0], tc.input[1], tc.input[2])
			expected := hkTime(t, 2, tc.expected[0], tc.expected[1], 0)
			got := BucketTime(table, tc.halfDay, tc.period, input)
			require.Truef(t, expected.Equal(got), "expected %s, got %s", expected, got)
		})
	}
}

func TestBucketTimeCalendar(t *testing.T) {
	hk := DefaultMarkets()[enum.MarketHK]
	table := hk.Table(enum.TradeSessionsIntraday)
	loc := hk.Location
	input := time.Date(2024, time.May, 16, 15, 12, 30, 0, loc) // Thursday

	testCases := []struct {
		desc     string
		period   enum.Period
		expected time.Time
	}{
		{"day", enum.PeriodDay, time.Date(2024, time.May, 16, 0, 0, 0, 0, loc)},
		{"week starts monday", enum.PeriodWeek, time.Date(2024, time.May, 13, 0, 0, 0, 0, loc)},
		{"month", enum.PeriodMonth, time.Date(2024, time.May, 1, 0, 0, 0, 0, loc)},
		{"quarter", enum.PeriodQuarter, time.Date(2024, time.April, 1, 0, 0, 0, 0, loc)},
		{"year", enum.PeriodYear, time.Date(2024, time.January, 1, 0, 0, 0, 0, loc)},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got := BucketTime(table, false, tc.period, input)
			require.True(t, tc.expected.Equal(got), "expected %s, got %s", tc.expected, got)
		})
	}

	sunday := time.Date(2024, time.May, 19, 23, 0, 0, 0, loc)
	require.True(t, time.Date(2024, time.May, 13, 0, 0, 0, 0, loc).Equal(BucketTime(table, false, enum.PeriodWeek, sunday)))
}

func TestBucketTimeIdempotent(t *testing.T) {
	markets := DefaultMarkets()
	periods := []enum.Period{
		enum.PeriodMin1, enum.PeriodMin3, enum.PeriodMin5, enum.PeriodMin15, enum.PeriodMin30,
		enum.PeriodMin45, enum.PeriodMin60, enum.PeriodMin120, enum.PeriodMin240,
		enum.PeriodDay, enum.PeriodWeek, enum.PeriodMonth, enum.PeriodQuarter, enum.PeriodYear,
	}

	for _, m := range []enum.Market{enum.MarketHK, enum.MarketUS, enum.MarketCN, enum.MarketSG} {
		market := markets[m]
		for _, sessions := range []enum.TradeSessions{enum.TradeSessionsIntraday, enum.TradeSessionsAll} {
			table := market.Table(sessions)
			for _, halfDay := range []bool{false, true} {
				for _, period := range periods {
					start := time.Date(2024, time.March, 4, 0, 0, 0, 0, market.Location)
					for ts := start; ts.Before(start.Add(24 * time.Hour)); ts = ts.Add(7*time.Minute + 13*time.Second) {
						once := BucketTime(table, halfDay, period, ts)
						twice := BucketTime(table, halfDay, period, once)
						require.Truef(t, once.Equal(twice),
							"market %s period %s half %v input %s: once %s twice %s",
							m, period, halfDay, ts, once, twice)
					}
				}
			}
		}
	}
}

func TestBucketTimeWithoutSessions(t *testing.T) {
	loc := time.UTC
	table := NewSessionTable(nil, nil)
	got := BucketTime(table, false, enum.PeriodMin15, time.Date(2024, time.March, 4, 3, 7, 0, 0, loc))
	require.True(t, time.Date(2024, time.March, 4, 3, 15, 0, 0, loc).Equal(got))
}

func TestNewSessionTableMergesTouchingWindows(t *testing.T) {
	table := NewSessionTable([]Window{NewWindow(9, 30, 16, 0), NewWindow(4, 0, 9, 30), NewWindow(16, 0, 20, 0)}, nil)
	require.Equal(t, []Window{NewWindow(4, 0, 20, 0)}, table.Normal)
	require.Equal(t, table.Normal, table.HalfDay)
}
