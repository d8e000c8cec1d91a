package ports

import (
	"context"

	"github.com/alejandrodnm/holderscan/internal/domain"
)

// Notifier presenta el resultado de una ejecución al operador.
type Notifier interface {
	// Notify muestra las wallets seleccionadas con su PnL.
	// En la implementación de consola, imprime una tabla formateada.
	Notify(ctx context.Context, report domain.ScanReport) error
}
