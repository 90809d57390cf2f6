package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"marketlink/internal/model"
	"marketlink/internal/model/enum"
	"marketlink/internal/obs"
	"marketlink/internal/ops"
	"marketlink/internal/quote"
	"marketlink/internal/recorder"
	"marketlink/pkg/conn"
	"marketlink/pkg/rest"

	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (default: built-in endpoints and markets)")
	envPath := flag.String("env", ".env", "Optional env file holding credentials")
	symbols := flag.String("symbols", "700.HK,AAPL.US", "Comma separated symbols to follow")
	periods := flag.String("periods", "1m", "Comma separated candlestick periods, e.g. 1m,5m,day")
	allSessions := flag.Bool("all-sessions", false, "Include pre, post and overnight trades in candlesticks")
	record := flag.Bool("record", false, "Persist confirmed candlesticks to postgres")
	profileServer := flag.String("pyroscope", "", "Pyroscope server address (empty disables profiling)")
	statsInterval := flag.Duration("stats-interval", time.Minute, "Interval of push statistics logs (0=disable)")
	flag.Parse()

	cfg, err := ops.Load(*configPath, *envPath)
	if err != nil {
		fatalf("load config, err: %+v", err)
	}
	if err := cfg.Validate(); err != nil {
		fatalf("validate config, err: %+v", err)
	}

	stopProfiler, err := ops.StartProfiler("marketlink.quote", *profileServer, map[string]string{"symbols": *symbols})
	if err != nil {
		fatalf("%+v", err)
	}
	defer stopProfiler()

	list := splitList(*symbols)
	periodList := make([]enum.Period, 0)
	for _, s := range splitList(*periods) {
		p, ok := enum.ParsePeriod(s)
		if !ok {
			fatalf("unknown period %q", s)
		}
		periodList = append(periodList, p)
	}
	sessions := enum.TradeSessionsIntraday
	if *allSessions {
		sessions = enum.TradeSessionsAll
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := obs.NewMetrics()
	cfg.Quote.Metrics = metrics
	defer logStats(metrics)
	if *statsInterval > 0 {
		go func() {
			ticker := time.NewTicker(*statsInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					logStats(metrics)
				}
			}
		}()
	}

	onCandle := func(symbol string, e model.PushCandlestick) {
		c := e.Candlestick
		logs.Infof("%s %s %s o=%s h=%s l=%s c=%s v=%d confirmed=%t",
			symbol, e.Period, c.Timestamp.Format("2006-01-02 15:04"), c.Open, c.High, c.Low, c.Close, c.Volume, e.IsConfirmed)
	}

	if *record {
		writer, db := startRecorder(ctx, cfg.Postgres)
		defer func() {
			if err := writer.Close(); err != nil {
				logs.Errorf("close recorder, err: %+v", err)
			}
			if err := db.Close(); err != nil {
				logs.Errorf("close postgres, err: %+v", err)
			}
		}()
		logCandle := onCandle
		onCandle = func(symbol string, e model.PushCandlestick) {
			logCandle(symbol, e)
			writer.OnCandlestick(symbol, e)
		}
	}

	http, err := rest.New(cfg.Rest(), nil)
	if err != nil {
		fatalf("rest client, err: %+v", err)
	}

	qc, err := quote.Dial(ctx, cfg.QuoteStream(), cfg.Credentials.AccessToken, http, cfg.Quote)
	if err != nil {
		fatalf("dial quote stream, err: %+v", err)
	}
	defer func() {
		if err := qc.Close(); err != nil {
			logs.Errorf("close quote context, err: %+v", err)
		}
	}()

	qc.SetOnQuote(func(symbol string, e model.PushQuote) {
		logs.Infof("%s last=%s vol=%d at %s", symbol, e.LastDone, e.Volume, e.Timestamp.Format("15:04:05"))
	})
	qc.SetOnCandlestick(onCandle)

	if err := qc.Subscribe(ctx, list, enum.SubFlagQuote, true); err != nil {
		fatalf("subscribe %v, err: %+v", list, err)
	}
	for _, symbol := range list {
		for _, p := range periodList {
			history, err := qc.SubscribeCandlesticks(ctx, symbol, p, sessions)
			if err != nil {
				logs.Errorf("subscribe candlesticks %s %s, err: %+v", symbol, p, err)
				continue
			}
			logs.Infof("following %s %s with %d candlesticks of history", symbol, p, len(history))
		}
	}

	<-sys.Shutdown()
	logs.Info("shutting down")
}

func startRecorder(ctx context.Context, opt conn.Option) (*recorder.Writer, *conn.Client) {
	if !opt.Enabled() {
		fatalf("record needs a postgres host in the config")
	}
	db, err := conn.New(opt)
	if err != nil {
		fatalf("connect postgres, err: %+v", err)
	}
	store := recorder.NewGormStore(db.DB(), 0)
	if err := store.Migrate(ctx); err != nil {
		fatalf("%+v", err)
	}
	writer, err := recorder.NewWriter(store, recorder.DefaultConfig())
	if err != nil {
		fatalf("recorder, err: %+v", err)
	}
	if err := writer.Start(ctx); err != nil {
		fatalf("start recorder, err: %+v", err)
	}
	return writer, db
}

func logStats(metrics *obs.Metrics) {
	s := metrics.Snapshot()
	logs.Infof("stats: pushes=%v drops=%d reconnects=%d push_delay=%+v request_latency=%+v",
		s.PushCounts, s.QueueDrops, s.Reconnects, s.PushDelay, s.RequestLatency)
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func fatalf(format string, args ...any) {
	logs.Errorf(format, args...)
	os.Exit(1)
}
