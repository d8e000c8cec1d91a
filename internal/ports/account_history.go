package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/holderscan/internal/domain"
)

// AccountHistory expone la primera actividad on-chain de una dirección.
type AccountHistory interface {
	// FirstTransactionTime devuelve el timestamp de la primera transacción.
	// found=false si la dirección nunca tuvo actividad.
	FirstTransactionTime(ctx context.Context, addr domain.Address) (ts time.Time, found bool, err error)
}
