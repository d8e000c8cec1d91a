package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/holderscan/internal/domain"
	"github.com/alejandrodnm/holderscan/internal/ports"
)

const defaultRecentLimit = 100

// Config contiene la configuración del scanner.
type Config struct {
	TokenID     string
	Currency    string
	Contract    domain.Address
	RecentLimit int
	Filter      FilterConfig
	// PnLWorkers > 1 calcula el PnL de varias wallets en paralelo.
	PnLWorkers int
}

// DefaultConfig devuelve una configuración secuencial con los umbrales por defecto.
func DefaultConfig() Config {
	return Config{
		Currency:    "usd",
		RecentLimit: defaultRecentLimit,
		Filter:      DefaultFilterConfig(),
		PnLWorkers:  1,
	}
}

// Option configura un Scanner.
type Option func(*Scanner)

// WithClock fija el reloj usado para edades y ventanas de PnL (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) { s.now = now }
}

// WithAgeCache reemplaza la cache de edades por defecto.
func WithAgeCache(cache AgeCache) Option {
	return func(s *Scanner) { s.ageCache = cache }
}

// Scanner es el orquestador: precio → transferencias → filtro → PnL → notificación.
type Scanner struct {
	cfg       Config
	oracle    ports.PriceOracle
	transfers ports.TransferProvider
	notifier  ports.Notifier
	filter    *Filter
	pnl       *PnLCalculator
	ageCache  AgeCache
	now       func() time.Time
}

// New crea un Scanner con todas las dependencias inyectadas.
func New(
	cfg Config,
	oracle ports.PriceOracle,
	transfers ports.TransferProvider,
	inspector ports.ContractInspector,
	history ports.AccountHistory,
	notifier ports.Notifier,
	opts ...Option,
) *Scanner {
	s := &Scanner{
		cfg:       cfg,
		oracle:    oracle,
		transfers: transfers,
		notifier:  notifier,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.Currency == "" {
		s.cfg.Currency = "usd"
	}
	if s.cfg.RecentLimit <= 0 {
		s.cfg.RecentLimit = defaultRecentLimit
	}

	ages := NewAgeResolver(history, s.ageCache, s.now)
	s.filter = NewFilter(s.cfg.Filter, NewClassifier(inspector), ages)
	s.pnl = NewPnLCalculator(transfers, oracle, s.now)
	return s
}

// Run ejecuta una pasada completa y devuelve el reporte.
// Solo fallan la ejecución el precio actual y el fetch de transferencias;
// un fallo de PnL queda registrado en la fila de esa wallet.
func (s *Scanner) Run(ctx context.Context) (domain.ScanReport, error) {
	start := s.now()
	report := domain.ScanReport{
		RunID:     uuid.NewString(),
		TokenID:   s.cfg.TokenID,
		Contract:  s.cfg.Contract,
		StartedAt: start,
	}
	log := slog.With("run_id", report.RunID)

	log.Info("scan starting",
		"token", s.cfg.TokenID,
		"contract", s.cfg.Contract,
		"limit", s.cfg.RecentLimit,
		"min_age_days", s.cfg.Filter.MinAgeDays,
		"min_value_usd", s.cfg.Filter.MinValueUSD,
		"workers", s.cfg.PnLWorkers,
	)

	price, err := s.oracle.CurrentPrice(ctx, s.cfg.TokenID, s.cfg.Currency)
	if err != nil {
		return report, fmt.Errorf("scanner.Run: current price: %w", err)
	}
	report.CurrentPrice = price
	log.Info("current price", "token", s.cfg.TokenID, "price", price)

	txs, err := s.transfers.RecentTransfers(ctx, s.cfg.Contract, s.cfg.RecentLimit)
	if err != nil {
		return report, fmt.Errorf("scanner.Run: recent transfers: %w", err)
	}
	report.TransfersSeen = len(txs)

	records := s.filter.Select(ctx, txs, price)
	log.Info("wallets selected", "transfers", len(txs), "wallets", len(records))

	if s.cfg.PnLWorkers > 1 {
		report.Wallets = s.computeConcurrent(ctx, records, price, s.cfg.PnLWorkers)
	} else {
		report.Wallets = s.computeSequential(ctx, records, price)
	}
	report.Duration = s.now().Sub(start)

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, report); err != nil {
			log.Warn("notifier error", "err", err)
		}
	}

	log.Info("scan complete",
		"wallets", len(report.Wallets),
		"failed", report.Failed(),
		"duration", report.Duration.Round(time.Millisecond),
	)
	return report, ctx.Err()
}

// computeSequential calcula el PnL wallet por wallet.
func (s *Scanner) computeSequential(ctx context.Context, records []domain.WalletRecord, price float64) []domain.WalletReport {
	out := make([]domain.WalletReport, 0, len(records))
	for _, rec := range records {
		if ctx.Err() != nil {
			break
		}
		out = append(out, s.computeOne(ctx, rec, price))
	}
	return out
}

// computeOne calcula el PnL de una wallet; el error queda en la fila.
func (s *Scanner) computeOne(ctx context.Context, rec domain.WalletRecord, price float64) domain.WalletReport {
	res, err := s.pnl.Compute(ctx, rec.Address, s.cfg.TokenID, s.cfg.Contract, price)
	if err != nil {
		slog.Warn("pnl failed, continuing", "wallet", rec.Address, "err", err)
		return domain.WalletReport{Record: rec, Err: err}
	}
	return domain.WalletReport{Record: rec, PnL: &res}
}
