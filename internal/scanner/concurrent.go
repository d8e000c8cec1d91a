package scanner

// concurrent.go: cálculo de PnL en paralelo, opcional (PnLWorkers > 1).
//
// La cache de edades ya es thread-safe y la cache de precios vive dentro de
// cada Compute, así que las wallets no comparten estado mutable.

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/alejandrodnm/holderscan/internal/domain"
)

// computeConcurrent calcula el PnL de las wallets con hasta `workers` goroutines.
// El orden del resultado es el mismo que el de records.
func (s *Scanner) computeConcurrent(
	ctx context.Context,
	records []domain.WalletRecord,
	price float64,
	workers int,
) []domain.WalletReport {
	results := make([]domain.WalletReport, len(records))
	done := make([]bool, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, rec := range records {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			// Los errores por wallet no cancelan al resto.
			results[i] = s.computeOne(gctx, rec, price)
			done[i] = true
			return nil
		})
	}
	_ = g.Wait()

	out := make([]domain.WalletReport, 0, len(records))
	for i := range results {
		if done[i] {
			out = append(out, results[i])
		}
	}

	slog.Debug("concurrent pnl complete",
		"wallets", len(records),
		"computed", len(out),
		"workers", workers,
	)
	return out
}
