package main

import (
	"context"
	"flag"
	"os"
	"time"

	"marketlink/internal/model"
	"marketlink/internal/ops"
	"marketlink/internal/trade"
	"marketlink/pkg/rest"

	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (default: built-in endpoints)")
	envPath := flag.String("env", ".env", "Optional env file holding credentials")
	currency := flag.String("currency", "", "Only report the balance in this currency")
	follow := flag.Bool("follow", true, "Keep running and log order changes")
	timeout := flag.Duration("timeout", 10*time.Second, "Timeout of each account query")
	profileServer := flag.String("pyroscope", "", "Pyroscope server address (empty disables profiling)")
	flag.Parse()

	cfg, err := ops.Load(*configPath, *envPath)
	if err != nil {
		fatalf("load config, err: %+v", err)
	}
	if err := cfg.Validate(); err != nil {
		fatalf("validate config, err: %+v", err)
	}

	stopProfiler, err := ops.StartProfiler("marketlink.trader", *profileServer, nil)
	if err != nil {
		fatalf("%+v", err)
	}
	defer stopProfiler()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	http, err := rest.New(cfg.Rest(), nil)
	if err != nil {
		fatalf("rest client, err: %+v", err)
	}

	var tc *trade.TradeContext
	if *follow {
		tc, err = trade.Dial(ctx, http, cfg.TradeStream(), cfg.Credentials.AccessToken)
	} else {
		tc, err = trade.New(http, nil)
	}
	if err != nil {
		fatalf("trade context, err: %+v", err)
	}
	defer func() {
		if err := tc.Close(); err != nil {
			logs.Errorf("close trade context, err: %+v", err)
		}
	}()

	report(ctx, tc, *currency, *timeout)

	if !*follow {
		return
	}

	tc.SetOnOrderChanged(func(e model.PushOrderChanged) {
		logs.Infof("order %s %s %s %s executed %d/%d at %s",
			e.OrderID, e.Symbol, e.Side, e.Status, e.ExecutedQuantity, e.SubmittedQuantity, e.ExecutedPrice)
	})
	if err := tc.Subscribe(ctx, []string{trade.TopicPrivate}); err != nil {
		fatalf("subscribe order changes, err: %+v", err)
	}

	<-sys.Shutdown()
	logs.Info("shutting down")
}

func report(ctx context.Context, tc *trade.TradeContext, currency string, timeout time.Duration) {
	qctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	balances, err := tc.AccountBalance(qctx, currency)
	if err != nil {
		logs.Errorf("account balance, err: %+v", err)
	}
	for _, b := range balances {
		logs.Infof("balance %s net assets=%s total cash=%s buy power=%s risk level=%d",
			b.Currency, b.NetAssets, b.TotalCash, b.BuyPower, b.RiskLevel)
	}

	channels, err := tc.StockPositions(qctx, nil)
	if err != nil {
		logs.Errorf("stock positions, err: %+v", err)
	}
	for _, ch := range channels {
		for _, p := range ch.Positions {
			logs.Infof("position [%s] %s qty=%d available=%d cost=%s %s",
				ch.AccountChannel, p.Symbol, p.Quantity, p.AvailableQuantity, p.CostPrice, p.Currency)
		}
	}

	orders, err := tc.TodayOrders(qctx, trade.TodayOrdersFilter{})
	if err != nil {
		logs.Errorf("today orders, err: %+v", err)
	}
	for _, o := range orders {
		logs.Infof("today order %s %s %s %s %d@%s", o.OrderID, o.Symbol, o.Side, o.Status, o.Quantity, o.Price)
	}
}

func fatalf(format string, args ...any) {
	logs.Errorf(format, args...)
	os.Exit(1)
}
