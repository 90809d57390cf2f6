package conn

import (
	"context"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	defaultHost            = "localhost"
	defaultPort            = 5432
	defaultSSLMode         = "disable"
	defaultMaxOpenConns    = 8
	defaultConnMaxIdleTime = 5 * time.Minute
)

// Option describes the PostgreSQL database the recorder writes to. An empty
// Host and ConnString means no database is configured.
type Option struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	Params   map[string]string

	// ConnString, when set, is passed to the driver as is.
	ConnString string
	MaxOpen    int
	Config     *gorm.Config
}

// Enabled reports whether a database is configured.
func (opt Option) Enabled() bool {
	return opt.Host != "" || opt.ConnString != ""
}

func (opt Option) withDefaults() Option {
	if opt.Host == "" {
		opt.Host = defaultHost
	}
	if opt.Port == 0 {
		opt.Port = defaultPort
	}
	if opt.SSLMode == "" {
		opt.SSLMode = defaultSSLMode
	}
	if opt.MaxOpen <= 0 {
		opt.MaxOpen = defaultMaxOpenConns
	}
	if opt.Config == nil {
		opt.Config = &gorm.Config{
			SkipDefaultTransaction: true,
			Logger:                 logger.Default.LogMode(logger.Warn),
		}
	}
	return opt
}

// dsn renders the options as a postgres URL. Params are added next to
// sslmode; empty keys are skipped.
func (opt Option) dsn() (string, error) {
	if opt.ConnString != "" {
		return opt.ConnString, nil
	}
	opt = opt.withDefaults()
	if opt.Port < 0 || opt.Port > 65535 {
		return "", errors.Errorf("postgres port out of range: %d", opt.Port)
	}

	q := make(url.Values, len(opt.Params)+1)
	q.Set("sslmode", opt.SSLMode)
	for k, v := range opt.Params {
		if k != "" {
			q.Set(k, v)
		}
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(opt.Host, strconv.Itoa(opt.Port)),
		RawQuery: q.Encode(),
	}
	switch {
	case opt.User != "" && opt.Password != "":
		u.User = url.UserPassword(opt.User, opt.Password)
	case opt.User != "":
		u.User = url.User(opt.User)
	}
	if opt.Database != "" {
		u.Path = "/" + opt.Database
	}
	return u.String(), nil
}

// Client owns a gorm handle over a pgx pool.
type Client struct {
	opt Option
	db  *gorm.DB
}

func New(option Option) (*Client, error) {
	dsn, err := option.dsn()
	if err != nil {
		return nil, err
	}
	option = option.withDefaults()

	db, err := gorm.Open(postgres.Open(dsn), option.Config)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	pool, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "postgres pool")
	}
	pool.SetMaxOpenConns(option.MaxOpen)
	pool.SetConnMaxIdleTime(defaultConnMaxIdleTime)

	logs.Infof("conn: postgres %s:%d/%s ready", option.Host, option.Port, option.Database)
	return &Client{opt: option, db: db}, nil
}

// DB returns the gorm handle. A nil client returns nil.
func (c *Client) DB() *gorm.DB {
	if c == nil {
		return nil
	}
	return c.db
}

func (c *Client) Ping(ctx context.Context) error {
	pool, err := c.db.DB()
	if err != nil {
		return err
	}
	return pool.PingContext(ctx)
}

// Close releases the pool. It is safe on a nil client.
func (c *Client) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	pool, err := c.db.DB()
	if err != nil {
		return err
	}
	return pool.Close()
}
