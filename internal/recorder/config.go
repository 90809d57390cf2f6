package recorder

import (
	"time"

	"marketlink/pkg/exception"

	"github.com/yanun0323/errors"
)

const (
	defaultQueueSize     = 4096
	defaultBatchSize     = 256
	defaultFlushInterval = time.Second
	defaultWriteTimeout  = 10 * time.Second
)

// Config controls the candlestick writer.
type Config struct {
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	WriteTimeout  time.Duration
}

// DefaultConfig returns a baseline configuration for the writer.
func DefaultConfig() Config {
	return Config{
		QueueSize:     defaultQueueSize,
		BatchSize:     defaultBatchSize,
		FlushInterval: defaultFlushInterval,
		WriteTimeout:  defaultWriteTimeout,
	}
}

func (c Config) withDefaults() Config {
	if c.QueueSize == 0 {
		c.QueueSize = defaultQueueSize
	}
	if c.BatchSize == 0 {
		c.BatchSize = defaultBatchSize
	}
	if c.FlushInterval == 0 {
		c.FlushInterval = defaultFlushInterval
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = defaultWriteTimeout
	}
	return c
}

// Validate checks if the configuration is usable.
func (c Config) Validate() error {
	if c.QueueSize <= 0 {
		return errors.Wrap(exception.ErrInvalidArgument, "recorder: QueueSize must be > 0")
	}
	if c.BatchSize <= 0 {
		return errors.Wrap(exception.ErrInvalidArgument, "recorder: BatchSize must be > 0")
	}
	if c.FlushInterval < 0 {
		return errors.Wrap(exception.ErrInvalidArgument, "recorder: FlushInterval must be >= 0")
	}
	if c.WriteTimeout < 0 {
		return errors.Wrap(exception.ErrInvalidArgument, "recorder: WriteTimeout must be >= 0")
	}
	return nil
}
