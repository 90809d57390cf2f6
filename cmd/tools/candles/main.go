package main

import (
	"context"
	"flag"
	"os"
	"time"

	"marketlink/internal/model/enum"
	"marketlink/internal/ops"
	"marketlink/internal/recorder"
	"marketlink/pkg/conn"

	"github.com/yanun0323/logs"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config holding the postgres section")
	envPath := flag.String("env", ".env", "Optional env file holding the postgres password")
	symbol := flag.String("symbol", "700.HK", "Symbol to dump")
	period := flag.String("period", "1m", "Candlestick period, e.g. 1m or day")
	since := flag.Duration("since", 24*time.Hour, "How far back to read")
	flag.Parse()

	cfg, err := ops.Load(*configPath, *envPath)
	if err != nil {
		fatalf("load config, err: %+v", err)
	}
	if !cfg.Postgres.Enabled() {
		fatalf("config has no postgres host")
	}
	p, ok := enum.ParsePeriod(*period)
	if !ok {
		fatalf("unknown period %q", *period)
	}

	db, err := conn.New(cfg.Postgres)
	if err != nil {
		fatalf("connect postgres, err: %+v", err)
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	to := time.Now()
	candles, err := recorder.NewGormStore(db.DB(), 0).Range(ctx, *symbol, p, to.Add(-*since), to)
	if err != nil {
		fatalf("%+v", err)
	}
	for _, c := range candles {
		logs.Infof("%s o=%s h=%s l=%s c=%s v=%d turnover=%s %s",
			c.Timestamp.Format(time.RFC3339), c.Open, c.High, c.Low, c.Close, c.Volume, c.Turnover, c.TradeSession)
	}
	logs.Infof("%d candlesticks of %s %s", len(candles), *symbol, p)
}

func fatalf(format string, args ...any) {
	logs.Errorf(format, args...)
	os.Exit(1)
}
