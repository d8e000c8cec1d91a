package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction es una transferencia de token tal como la reporta el explorer.
// Value está en unidades raw (base 10) para no perder precisión.
type Transaction struct {
	Hash         string
	From         Address
	To           Address
	Value        string
	TokenDecimal int
	Timestamp    time.Time
}

// Amount convierte el valor raw a unidades de token usando TokenDecimal.
func (t Transaction) Amount() (decimal.Decimal, error) {
	raw, err := decimal.NewFromString(t.Value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("domain.Transaction.Amount: value %q: %w", t.Value, err)
	}
	return raw.Shift(-int32(t.TokenDecimal)), nil
}

// IsZero devuelve true si la transferencia no mueve tokens.
// Un valor no parseable no se considera cero; Amount reportará el error.
func (t Transaction) IsZero() bool {
	if t.Value == "" {
		return true
	}
	raw, err := decimal.NewFromString(t.Value)
	if err != nil {
		return false
	}
	return raw.IsZero()
}

// USDValue devuelve el valor de la transferencia al precio dado.
func (t Transaction) USDValue(price float64) (float64, error) {
	amount, err := t.Amount()
	if err != nil {
		return 0, err
	}
	return amount.Mul(decimal.NewFromFloat(price)).InexactFloat64(), nil
}

// ElapsedDays devuelve los días completos transcurridos desde la transferencia.
func (t Transaction) ElapsedDays(now time.Time) int {
	return int(now.Sub(t.Timestamp) / (24 * time.Hour))
}
