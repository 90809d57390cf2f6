package recorder

import (
	"context"
	"time"

	"marketlink/internal/model"
	"marketlink/internal/model/enum"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Candle is one confirmed candlestick row, keyed by symbol, period and
// bucket time.
type Candle struct {
	Symbol       string          `gorm:"primaryKey;size:32"`
	Period       string          `gorm:"primaryKey;size:16"`
	Timestamp    time.Time       `gorm:"primaryKey"`
	Open         decimal.Decimal `gorm:"type:numeric"`
	High         decimal.Decimal `gorm:"type:numeric"`
	Low          decimal.Decimal `gorm:"type:numeric"`
	Close        decimal.Decimal `gorm:"type:numeric"`
	Volume       int64
	Turnover     decimal.Decimal `gorm:"type:numeric"`
	TradeSession string          `gorm:"size:16"`
	RecordedAt   time.Time
}

func (Candle) TableName() string {
	return "candlesticks"
}

// NewCandle converts a pushed candlestick into a row.
func NewCandle(symbol string, e model.PushCandlestick) Candle {
	c := e.Candlestick
	return Candle{
		Symbol:       symbol,
		Period:       e.Period.String(),
		Timestamp:    c.Timestamp.UTC(),
		Open:         c.Open,
		High:         c.High,
		Low:          c.Low,
		Close:        c.Close,
		Volume:       c.Volume,
		Turnover:     c.Turnover,
		TradeSession: c.TradeSession.String(),
	}
}

// Model converts the row back. Unknown periods fail.
func (c Candle) Model() (enum.Period, model.Candlestick, error) {
	p, ok := enum.ParsePeriod(c.Period)
	if !ok {
		return 0, model.Candlestick{}, errors.Errorf("recorder: unknown period %q", c.Period)
	}
	return p, model.Candlestick{
		Timestamp:    c.Timestamp,
		Open:         c.Open,
		High:         c.High,
		Low:          c.Low,
		Close:        c.Close,
		Volume:       c.Volume,
		Turnover:     c.Turnover,
		TradeSession: parseTradeSession(c.TradeSession),
	}, nil
}

func parseTradeSession(s string) enum.TradeSession {
	for ts := enum.TradeSessionIntraday; ts.IsAvailable(); ts++ {
		if ts.String() == s {
			return ts
		}
	}
	return enum.TradeSessionIntraday
}

// Store persists candle batches.
type Store interface {
	Save(ctx context.Context, rows []Candle) error
}

// GormStore upserts candles into PostgreSQL.
type GormStore struct {
	db        *gorm.DB
	batchSize int
}

func NewGormStore(db *gorm.DB, batchSize int) *GormStore {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &GormStore{db: db, batchSize: batchSize}
}

// Migrate creates or updates the candlesticks table.
func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Candle{}); err != nil {
		return errors.Wrap(err, "migrate candlesticks")
	}
	return nil
}

// Save replaces rows that share a key, so a candle confirmed twice after a
// reconnect keeps its latest values.
func (s *GormStore) Save(ctx context.Context, rows []Candle) error {
	db := s.db.WithContext(ctx)
	for start := 0; start < len(rows); start += s.batchSize {
		end := min(start+s.batchSize, len(rows))
		if err := s.upsert(db, rows[start:end]).Error; err != nil {
			return errors.Wrapf(err, "upsert candlesticks %d-%d", start, end)
		}
	}
	return nil
}

func (s *GormStore) upsert(tx *gorm.DB, rows []Candle) *gorm.DB {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "period"}, {Name: "timestamp"}},
		UpdateAll: true,
	}).Create(&rows)
}

// Range returns the stored candles of symbol and period with from <= ts < to,
// oldest first.
func (s *GormStore) Range(ctx context.Context, symbol string, period enum.Period, from, to time.Time) ([]model.Candlestick, error) {
	var rows []Candle
	err := s.db.WithContext(ctx).
		Where("symbol = ? AND period = ? AND timestamp >= ? AND timestamp < ?", symbol, period.String(), from.UTC(), to.UTC()).
		Order("timestamp").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrapf(err, "load candlesticks %s %s", symbol, period)
	}

	out := make([]model.Candlestick, 0, len(rows))
	for _, r := range rows {
		_, c, err := r.Model()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
