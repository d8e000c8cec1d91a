package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/holderscan/config"
	"github.com/alejandrodnm/holderscan/internal/adapters/coingecko"
	"github.com/alejandrodnm/holderscan/internal/adapters/etherscan"
	"github.com/alejandrodnm/holderscan/internal/adapters/httpclient"
	"github.com/alejandrodnm/holderscan/internal/adapters/notify"
	"github.com/alejandrodnm/holderscan/internal/domain"
	"github.com/alejandrodnm/holderscan/internal/scanner"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	workers := flag.Int("workers", 0, "wallets to compute PnL for in parallel (overrides config)")
	minAge := flag.Int("min-age", -1, "minimum wallet age in days, 0 disables (overrides config)")
	minUSD := flag.Float64("min-usd", -1, "minimum transfer value in USD, 0 disables (overrides config)")
	limit := flag.Int("limit", 0, "recent transfers to scan (overrides config)")
	compact := flag.Bool("compact", false, "print one line per wallet instead of the table")
	details := flag.Bool("details", false, "print per-window totals for every wallet")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *workers > 0 {
		cfg.Scanner.PnLWorkers = *workers
	}
	if *minAge >= 0 {
		cfg.Scanner.MinAgeDays = *minAge
	}
	if *minUSD >= 0 {
		cfg.Scanner.MinValueUSD = *minUSD
	}
	if *limit > 0 {
		cfg.Scanner.RecentLimit = *limit
	}
	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "err", err)
		os.Exit(1)
	}

	contract, err := domain.ParseAddress(cfg.Token.ContractAddress)
	if err != nil {
		slog.Error("invalid contract address", "err", err)
		os.Exit(1)
	}

	slog.Info("holderscan starting",
		"config", *configPath,
		"token", cfg.Token.CoinID,
		"contract", contract,
		"limit", cfg.Scanner.RecentLimit,
		"min_age_days", cfg.Scanner.MinAgeDays,
		"min_value_usd", cfg.Scanner.MinValueUSD,
		"workers", cfg.Scanner.PnLWorkers,
	)

	explorer := etherscan.NewClient(cfg.API.ExplorerBase, cfg.API.ExplorerKey, cfg.API.ChainID,
		httpConfig(cfg, "etherscan", cfg.HTTP.ExplorerRatePerSec))
	prices := coingecko.NewClient(cfg.API.PriceBase, cfg.API.PriceKey,
		httpConfig(cfg, "coingecko", cfg.HTTP.PriceRatePerSec))
	notifier := notify.NewConsole(*compact, *details)

	scanCfg := scanner.DefaultConfig()
	scanCfg.TokenID = cfg.Token.CoinID
	scanCfg.Currency = cfg.Token.Currency
	scanCfg.Contract = contract
	scanCfg.RecentLimit = cfg.Scanner.RecentLimit
	scanCfg.PnLWorkers = cfg.Scanner.PnLWorkers
	scanCfg.Filter = scanner.FilterConfig{
		MinAgeDays:  cfg.Scanner.MinAgeDays,
		MinValueUSD: cfg.Scanner.MinValueUSD,
	}

	s := scanner.New(scanCfg, prices, explorer, explorer, explorer, notifier)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	report, err := s.Run(ctx)
	if err != nil {
		slog.Error("scan failed", "err", err)
		os.Exit(1)
	}

	slog.Info("holderscan finished",
		"run_id", report.RunID,
		"wallets", len(report.Wallets),
		"failed", report.Failed(),
		"duration", report.Duration,
	)
}

func httpConfig(cfg *config.Config, name string, ratePerSec float64) httpclient.Config {
	hc := httpclient.DefaultConfig()
	hc.Name = name
	hc.Retries = cfg.HTTP.Retries
	hc.BackoffFactor = cfg.HTTP.BackoffFactor
	hc.Timeout = cfg.Timeout()
	hc.RatePerSec = ratePerSec
	return hc
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	// stderr: stdout queda para el reporte
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
