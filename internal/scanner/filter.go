package scanner

import (
	"context"
	"log/slog"

	"github.com/alejandrodnm/holderscan/internal/domain"
)

const (
	defaultMinAgeDays  = 100
	defaultMinValueUSD = 2000.0
)

// FilterConfig contiene los umbrales de selección de wallets.
type FilterConfig struct {
	// MinAgeDays descarta wallets cuya primera transacción tiene menos de X días.
	MinAgeDays int
	// MinValueUSD descarta transferencias cuyo valor USD no supera este monto.
	MinValueUSD float64
}

// DefaultFilterConfig devuelve los umbrales por defecto: 100 días, $2000.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		MinAgeDays:  defaultMinAgeDays,
		MinValueUSD: defaultMinValueUSD,
	}
}

// Filter selecciona los destinatarios de transferencias grandes que son EOAs con antigüedad.
type Filter struct {
	cfg        FilterConfig
	classifier *Classifier
	ages       *AgeResolver
}

// NewFilter crea un Filter con la configuración dada.
func NewFilter(cfg FilterConfig, classifier *Classifier, ages *AgeResolver) *Filter {
	return &Filter{cfg: cfg, classifier: classifier, ages: ages}
}

// Select devuelve las wallets que califican, sin duplicados, en el orden de su
// primera transferencia calificada.
//
// Los chequeos van en este orden y cortan al primer fallo:
// destinatario/valor vacío → contrato → edad → valor USD.
func (f *Filter) Select(ctx context.Context, txs []domain.Transaction, currentPrice float64) []domain.WalletRecord {
	selected := make(map[domain.Address]bool)
	// ineligible recuerda, dentro de esta llamada, contratos y wallets jóvenes o
	// sin edad: no dependen de la transferencia.
	ineligible := make(map[domain.Address]bool)
	var records []domain.WalletRecord

	var skippedEmpty, skippedContract, skippedAge, skippedValue int
	for _, tx := range txs {
		if ctx.Err() != nil {
			break
		}

		to := domain.NormalizeAddress(tx.To.String())
		if to.IsZero() || tx.IsZero() {
			skippedEmpty++
			continue
		}
		if selected[to] {
			continue
		}
		if ineligible[to] {
			continue
		}

		if f.classifier.IsContract(ctx, to) {
			ineligible[to] = true
			skippedContract++
			continue
		}

		age, err := f.ages.AgeInDays(ctx, to)
		if err != nil {
			slog.Warn("skipping wallet, age unavailable", "address", to, "err", err)
			ineligible[to] = true
			skippedAge++
			continue
		}
		if age < f.cfg.MinAgeDays {
			ineligible[to] = true
			skippedAge++
			continue
		}

		usd, err := tx.USDValue(currentPrice)
		if err != nil {
			slog.Warn("skipping transfer with invalid value", "hash", tx.Hash, "err", err)
			skippedValue++
			continue
		}
		if usd <= f.cfg.MinValueUSD {
			skippedValue++
			continue
		}

		selected[to] = true
		records = append(records, domain.WalletRecord{
			Address:     to,
			AgeDays:     age,
			TransferUSD: usd,
			TxHash:      tx.Hash,
			SeenAt:      tx.Timestamp,
		})
	}

	slog.Debug("wallet filter complete",
		"transfers", len(txs),
		"selected", len(records),
		"skipped_empty", skippedEmpty,
		"skipped_contract", skippedContract,
		"skipped_age", skippedAge,
		"skipped_value", skippedValue,
	)
	return records
}
