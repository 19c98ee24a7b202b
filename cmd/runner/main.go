package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bitwyre-ws-maker/config"
	"bitwyre-ws-maker/gateway"
	"bitwyre-ws-maker/infrastructure/logger"
	hotconfig "bitwyre-ws-maker/internal/config"
	"bitwyre-ws-maker/internal/engine"
	"bitwyre-ws-maker/metrics"
	"bitwyre-ws-maker/order"
	"bitwyre-ws-maker/strategy"
)

func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "config file path")
	metricsAddr := flag.String("metricsAddr", ":9100", "Prometheus metrics listen address, empty disables")
	logLevel := flag.String("logLevel", "info", "log level (debug, info, warn, error)")
	staticMid := flag.Bool("staticMid", false, "keep the reference price fixed at the configured mid")
	flag.Parse()

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	inst, err := config.ParseInstrument(cfg.Instrument)
	if err != nil {
		log.Fatalf("parse instrument: %v", err)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = *logLevel
	zlog, err := logger.New(logCfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	metrics.Serve(*metricsAddr)
	collector := metrics.New(nil)

	// Both authenticated sessions must come up before the loop starts. A bot
	// with no control channel cannot safely operate, so any handshake failure
	// is fatal: diagnostic and non-zero exit, no retry, no degraded mode.
	timeout := time.Duration(cfg.Gateway.HandshakeTimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	controlSess, err := gateway.Dial(
		cfg.Gateway.BaseURL, gateway.URIOrderControl,
		cfg.Gateway.APIKey, cfg.Gateway.APISecret, timeout, zlog)
	if err != nil {
		zlog.Fatal("order control handshake failed", zap.Error(err))
	}
	defer controlSess.Close()
	statusSess, err := gateway.Dial(
		cfg.Gateway.BaseURL, gateway.URIOrderStatus,
		cfg.Gateway.APIKey, cfg.Gateway.APISecret, timeout, zlog)
	if err != nil {
		zlog.Fatal("order status handshake failed", zap.Error(err))
	}
	defer statusSess.Close()

	midPrice, _ := decimal.NewFromString(cfg.Strategy.MidPrice)
	qty, _ := decimal.NewFromString(cfg.Strategy.Qty)
	var pricer strategy.MidPricer = strategy.BookMid{}
	if *staticMid {
		pricer = strategy.StaticMid{}
	}
	proposer := strategy.NewProposer(strategy.Params{
		MidPrice:       midPrice,
		Qty:            qty,
		PricePrecision: cfg.Strategy.PricePrecision,
		QtyPrecision:   cfg.Strategy.QtyPrecision,
		MinSpread:      cfg.Strategy.MinSpread,
		MaxSpread:      cfg.Strategy.MaxSpread,
	}, pricer, nil)
	book := order.NewBook(rand.New(rand.NewSource(time.Now().UnixNano())))

	bot, err := engine.New(engine.Config{
		Instrument: cfg.Instrument,
		Futures:    inst.IsFutures(),
		Leverage:   cfg.Strategy.Leverage,
		Pause:      time.Duration(cfg.Strategy.SleepMs) * time.Millisecond,
		CancelMax:  cfg.Strategy.CancelMax,
	}, engine.Components{
		Control:  gateway.NewClient(controlSess, zlog.Named("control")),
		Status:   gateway.NewClient(statusSess, zlog.Named("status")),
		Book:     book,
		Proposer: proposer,
		Logger:   zlog,
		Metrics:  collector,
	})
	if err != nil {
		zlog.Fatal("build engine failed", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	applyStrategy := func(s config.StrategyParams) error {
		proposer.UpdateSpread(s.MinSpread, s.MaxSpread)
		bot.UpdateParams(time.Duration(s.SleepMs)*time.Millisecond, s.CancelMax)
		return nil
	}
	// When the fsnotify reloader cannot run, fall back to polling the file
	// mtime so live parameter changes still apply.
	pollFallback := func(why string, err error) {
		zlog.Warn(why+", falling back to mtime polling", zap.Error(err))
		watcher := config.Watcher{Path: *cfgPath}
		go func() {
			_ = watcher.Start(ctx, func(c config.AppConfig) {
				_ = applyStrategy(c.Strategy)
			})
		}()
	}
	reloader, err := hotconfig.NewHotReloader(*cfgPath, hotconfig.DefaultHotReloadConfig(), zlog)
	if err != nil {
		pollFallback("config hot reload unavailable", err)
	} else {
		reloader.SetReloadHandler(applyStrategy)
		if err := reloader.Start(ctx); err != nil {
			pollFallback("config hot reload start failed", err)
		} else {
			defer reloader.Stop()
		}
	}

	go bot.Run(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down")
	cancel()
}
