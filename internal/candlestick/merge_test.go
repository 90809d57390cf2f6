package candlestick

import (
	"testing"
	"time"

	"marketlink/internal/model"
	"marketlink/internal/model/enum"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTrade(ts time.Time, price string, volume int64, tradeType string) model.Trade {
	return model.Trade{
		Price:        decimal.RequireFromString(price),
		Volume:       volume,
		Timestamp:    ts,
		TradeType:    tradeType,
		TradeSession: enum.TradeSessionIntraday,
	}
}

func requireDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func TestMergeHKFiveMinuteScenario(t *testing.T) {
	hk := DefaultMarkets()[enum.MarketHK]
	period := enum.PeriodMin5

	first := hk.Merge(enum.TradeSessionsIntraday, false, period, nil, newTrade(hkTime(t, 2, 9, 28, 0), "100", 10, ""))
	require.Equal(t, ActionAppendNew, first.Kind)
	require.True(t, hkTime(t, 2, 9, 35, 0).Equal(first.Candlestick.Timestamp))
	requireDecimal(t, "1000", first.Candlestick.Turnover)

	prev := first.Candlestick
	second := hk.Merge(enum.TradeSessionsIntraday, false, period, &prev, newTrade(hkTime(t, 2, 9, 30, 25), "101.5", 20, ""))
	require.Equal(t, ActionUpdateLast, second.Kind)
	c := second.Candlestick
	require.True(t, hkTime(t, 2, 9, 35, 0).Equal(c.Timestamp))
	requireDecimal(t, "100", c.Open)
	requireDecimal(t, "101.5", c.High)
	requireDecimal(t, "100", c.Low)
	requireDecimal(t, "101.5", c.Close)
	assert.Equal(t, int64(30), c.Volume)
	requireDecimal(t, "3030", c.Turnover)

	prev = c
	third := hk.Merge(enum.TradeSessionsIntraday, false, period, &prev, newTrade(hkTime(t, 2, 9, 36, 0), "99", 5, ""))
	require.Equal(t, ActionAppendNew, third.Kind)
	require.True(t, hkTime(t, 2, 9, 40, 0).Equal(third.Candlestick.Timestamp))
	requireDecimal(t, "99", third.Candlestick.Open)
	assert.Equal(t, int64(5), third.Candlestick.Volume)
}

func TestMergeLateTradeIsIgnored(t *testing.T) {
	hk := DefaultMarkets()[enum.MarketHK]
	prev := model.Candlestick{
		Timestamp: hkTime(t, 2, 9, 40, 0),
		Open:      decimal.NewFromInt(10),
		High:      decimal.NewFromInt(11),
		Low:       decimal.NewFromInt(9),
		Close:     decimal.NewFromInt(10),
		Volume:    100,
		Turnover:  decimal.NewFromInt(1000),
	}
	snapshot := prev

	action := hk.Merge(enum.TradeSessionsIntraday, false, enum.PeriodMin5, &prev, newTrade(hkTime(t, 2, 9, 31, 0), "50", 1, ""))
	require.Equal(t, ActionNone, action.Kind)
	require.Equal(t, snapshot, prev)
}

func TestMergeTradeTypeRules(t *testing.T) {
	hk := DefaultMarkets()[enum.MarketHK]
	hk.Rules["PO"] = UpdateFields{Price: true}
	prev := model.Candlestick{
		Timestamp: hkTime(t, 2, 9, 35, 0),
		Open:      decimal.NewFromInt(10),
		High:      decimal.NewFromInt(10),
		Low:       decimal.NewFromInt(10),
		Close:     decimal.NewFromInt(10),
		Volume:    100,
		Turnover:  decimal.NewFromInt(1000),
	}

	testCases := []struct {
		desc         string
		trade        model.Trade
		expectedKind ActionKind
		expectedHigh string
		expectedVol  int64
	}{
		{"price only type leaves candle identical", newTrade(hkTime(t, 2, 9, 33, 0), "20", 7, "PO"), ActionUpdateLast, "10", 100},
		{"odd lot adds volume only", newTrade(hkTime(t, 2, 9, 33, 0), "20", 7, "D"), ActionUpdateLast, "10", 107},
		{"automatch updates everything", newTrade(hkTime(t, 2, 9, 33, 0), "20", 7, ""), ActionUpdateLast, "20", 107},
		{"odd lot cannot open a bucket", newTrade(hkTime(t, 2, 9, 37, 0), "20", 7, "D"), ActionNone, "", 0},
		{"price only type opens a bucket", newTrade(hkTime(t, 2, 9, 37, 0), "20", 7, "PO"), ActionAppendNew, "20", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			last := prev
			action := hk.Merge(enum.TradeSessionsIntraday, false, enum.PeriodMin5, &last, tc.trade)
			require.Equal(t, tc.expectedKind, action.Kind)
			if tc.expectedKind == ActionNone {
				return
			}
			requireDecimal(t, tc.expectedHigh, action.Candlestick.High)
			assert.Equal(t, tc.expectedVol, action.Candlestick.Volume)
		})
	}
}

func TestMergeSessionAdmission(t *testing.T) {
	us := DefaultMarkets()[enum.MarketUS]
	pre := newTrade(time.Date(2024, time.March, 5, 8, 1, 0, 0, us.Location), "10", 1, "")
	pre.TradeSession = enum.TradeSessionPre

	none := us.Merge(enum.TradeSessionsIntraday, false, enum.PeriodMin1, nil, pre)
	require.Equal(t, ActionNone, none.Kind)

	all := us.Merge(enum.TradeSessionsAll, false, enum.PeriodMin1, nil, pre)
	require.Equal(t, ActionAppendNew, all.Kind)
	require.True(t, time.Date(2024, time.March, 5, 8, 2, 0, 0, us.Location).Equal(all.Candlestick.Timestamp))
	require.Equal(t, enum.TradeSessionPre, all.Candlestick.TradeSession)
}

func TestMergeBucketsNeverDecrease(t *testing.T) {
	hk := DefaultMarkets()[enum.MarketHK]
	for _, period := range []enum.Period{enum.PeriodMin1, enum.PeriodMin5, enum.PeriodMin15, enum.PeriodMin60, enum.PeriodDay} {
		var series []model.Candlestick
		ts := hkTime(t, 2, 9, 0, 0)
		end := hkTime(t, 2, 16, 30, 0)
		for i := 0; ts.Before(end); i++ {
			var last *model.Candlestick
			if n := len(series); n != 0 {
				last = &series[n-1]
			}
			action := hk.Merge(enum.TradeSessionsIntraday, false, period, last, newTrade(ts, "10", 1, ""))
			switch action.Kind {
			case ActionUpdateLast:
				series[len(series)-1] = action.Candlestick
			case ActionAppendNew:
				if last != nil {
					require.True(t, action.Candlestick.Timestamp.After(last.Timestamp))
				}
				series = append(series, action.Candlestick)
			}
			ts = ts.Add(time.Duration(17+i%5) * time.Second)
		}
		require.NotEmpty(t, series)
		for i := 1; i < len(series); i++ {
			require.True(t, series[i].Timestamp.After(series[i-1].Timestamp), "period %s index %d", period, i)
		}
	}
}
