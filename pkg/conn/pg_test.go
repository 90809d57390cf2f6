package conn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	testCases := []struct {
		desc string
		opt  Option
		dsn  string
	}{
		{
			desc: "defaults",
			opt:  Option{},
			dsn:  "postgres://localhost:5432?sslmode=disable",
		},
		{
			desc: "full",
			opt: Option{
				Host:     "db",
				Port:     6432,
				User:     "marketlink",
				Password: "p@ss",
				Database: "quotes",
				SSLMode:  "require",
				Params:   map[string]string{"application_name": "recorder", "": "ignored"},
			},
			dsn: "postgres://marketlink:p%40ss@db:6432/quotes?application_name=recorder&sslmode=require",
		},
		{
			desc: "connection string wins",
			opt:  Option{Host: "db", ConnString: "host=other dbname=x"},
			dsn:  "host=other dbname=x",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			dsn, err := tc.opt.dsn()
			require.NoError(t, err)
			assert.Equal(t, tc.dsn, dsn)
		})
	}
}

func TestDSNRejectsBadPort(t *testing.T) {
	_, err := Option{Host: "db", Port: 70000}.dsn()
	assert.Error(t, err)
}

func TestNilClient(t *testing.T) {
	var c *Client
	assert.Nil(t, c.DB())
	assert.NoError(t, c.Close())
}

func TestEnabled(t *testing.T) {
	assert.False(t, Option{Database: "quotes"}.Enabled())
	assert.True(t, Option{Host: "db"}.Enabled())
	assert.True(t, Option{ConnString: "host=db"}.Enabled())
}
