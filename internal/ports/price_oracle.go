package ports

import (
	"context"
	"time"
)

// PriceOracle devuelve precios spot del token.
type PriceOracle interface {
	// CurrentPrice devuelve el precio actual en la moneda dada.
	// Si la respuesta no contiene el par (tokenID, currency) devuelve domain.ErrPriceUnavailable.
	CurrentPrice(ctx context.Context, tokenID, currency string) (float64, error)

	// HistoricalPrice devuelve el precio USD del día calendario de date.
	// No cachea: la memoización por día es responsabilidad del llamador.
	HistoricalPrice(ctx context.Context, date time.Time, tokenID string) (float64, error)
}
