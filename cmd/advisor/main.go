package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"TradeAdvisor/internal/advisor"
	"TradeAdvisor/internal/collector"
	"TradeAdvisor/internal/config"
	"TradeAdvisor/internal/metrics"
	"TradeAdvisor/internal/notifier"
	"TradeAdvisor/internal/recorder"
	"TradeAdvisor/internal/scheduler"
	"TradeAdvisor/internal/strategy"
)

const historyRows = 10

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cmd := "analyze"
	args := os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	cfgPath := fs.String("config", "", "config file (default $CONFIG_PATH or configs/config.yaml)")
	symbol := fs.String("symbol", "", "trading pair, e.g. BTC-USDT")
	timeframe := fs.String("timeframe", "", "bar interval: 1m,5m,15m,30m,1h,4h,1d")
	capital := fs.Float64("capital", 0, "capital in USDT (>= 10)")
	leverage := fs.Int("leverage", 0, "leverage (1-100)")
	fs.Parse(args)

	// Load config
	path := *cfgPath
	if path == "" {
		path = "configs/config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "symbol":
			cfg.Analysis.Symbol = strings.ToUpper(*symbol)
		case "timeframe":
			cfg.Analysis.Timeframe = *timeframe
		case "capital":
			cfg.Analysis.Capital = *capital
		case "leverage":
			cfg.Analysis.Leverage = *leverage
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	store, err := recorder.Open(cfg.Log.Backend, cfg.LogPath())
	if err != nil {
		log.Fatalf("[FATAL] open signal log: %v", err)
	}

	code := 0
	switch cmd {
	case "analyze":
		code = runAnalyze(cfg, store)
	case "history":
		code = runHistory(store)
	case "serve":
		code = runServe(cfg, store)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (want analyze, history or serve)\n", cmd)
		code = 2
	}
	if err := store.Close(); err != nil {
		log.Printf("[WARN] close signal log: %v", err)
	}
	os.Exit(code)
}

func newAdvisor(cfg *config.Config, store recorder.Store, m *metrics.Metrics) (*advisor.Advisor, advisor.Request, error) {
	fetcher, err := collector.New(cfg.Exchange.Name, cfg.Exchange.BaseURL, cfg.Exchange.APIKey,
		cfg.Exchange.SecretKey, cfg.Proxy, cfg.Exchange.RatePerSec)
	if err != nil {
		return nil, advisor.Request{}, fmt.Errorf("init fetcher: %w", err)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	policy, err := strategy.ParseStopPolicy(cfg.Analysis.StopPolicy)
	if err != nil {
		return nil, advisor.Request{}, err
	}
	params := strategy.Params{
		Capital:       cfg.Analysis.Capital,
		Leverage:      cfg.Analysis.Leverage,
		StopLossPct:   cfg.Analysis.StopLossPct,
		TakeProfitPct: cfg.Analysis.TakeProfitPct,
		Policy:        policy,
	}
	adv := advisor.New(collector.NewCollector(fetcher, cfg.Exchange.Limit), strategy.NewGenerator(), store, m)
	return adv, advisor.Request{Symbol: cfg.Analysis.Symbol, Timeframe: cfg.Analysis.Timeframe, Params: params}, nil
}

func runAnalyze(cfg *config.Config, store recorder.Store) int {
	adv, req, err := newAdvisor(cfg, store, nil)
	if err != nil {
		log.Printf("[ERROR] %v", err)
		return 1
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := adv.Run(ctx, req)
	if err != nil {
		log.Printf("[ERROR] analysis %s %s: %v", req.Symbol, req.Timeframe, err)
		fmt.Fprintln(os.Stderr, notifier.Failure)
		return 1
	}
	log.Printf("[INFO] %s", res)
	f := notifier.Formatter{Format: notifier.Text}
	fmt.Println(f.SignalReport(res.Entry, res.Signal))
	return runHistory(store)
}

func runHistory(store recorder.Store) int {
	entries, err := store.ReadAll()
	if err != nil {
		log.Printf("[ERROR] read signal log: %v", err)
		return 1
	}
	f := notifier.Formatter{Format: notifier.Text}
	fmt.Println(f.History(entries, historyRows))
	fmt.Print(f.Summary(recorder.Summarize(entries)))
	return 0
}

func runServe(cfg *config.Config, store recorder.Store) int {
	log.Println("[INFO] TradeAdvisor starting...")

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()
	if cfg.Metrics.Listen != "" {
		go func() {
			if err := m.Serve(ctx, cfg.Metrics.Listen); err != nil {
				log.Printf("[ERROR] metrics server: %v", err)
			}
		}()
	}

	adv, req, err := newAdvisor(cfg, store, m)
	if err != nil {
		log.Printf("[ERROR] %v", err)
		return 1
	}

	var sender scheduler.Sender
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sender = tn
	}

	sched := scheduler.NewScheduler(ctx, adv, store, sender, req)
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Printf("[ERROR] register cron task: %v", err)
		return 1
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing analysis now")
		go sched.RunNow()
	}

	log.Println("[INFO] TradeAdvisor is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] TradeAdvisor stopped")
	return 0
}
