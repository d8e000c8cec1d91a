package etherscan

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/alejandrodnm/holderscan/internal/domain"
)

// mapTransfers convierte los DTOs de tokentx a domain.Transaction.
// Las filas que no se pueden parsear se descartan con un log.
func mapTransfers(raw []tokenTransfer) []domain.Transaction {
	txs := make([]domain.Transaction, 0, len(raw))
	for _, r := range raw {
		tx, err := mapTransfer(r)
		if err != nil {
			slog.Warn("skipping malformed transfer", "hash", r.Hash, "err", err)
			continue
		}
		txs = append(txs, tx)
	}
	return txs
}

func mapTransfer(r tokenTransfer) (domain.Transaction, error) {
	ts, err := parseUnix(r.TimeStamp)
	if err != nil {
		return domain.Transaction{}, err
	}
	dec, err := strconv.Atoi(strings.TrimSpace(r.TokenDecimal))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("tokenDecimal %q: %w", r.TokenDecimal, err)
	}
	return domain.Transaction{
		Hash:         r.Hash,
		From:         domain.NormalizeAddress(r.From),
		To:           domain.NormalizeAddress(r.To),
		Value:        strings.TrimSpace(r.Value),
		TokenDecimal: dec,
		Timestamp:    ts,
	}, nil
}

func parseUnix(s string) (time.Time, error) {
	sec, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("timeStamp %q: %w", s, err)
	}
	return time.Unix(sec, 0).UTC(), nil
}
