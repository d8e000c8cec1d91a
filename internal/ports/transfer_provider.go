package ports

import (
	"context"

	"github.com/alejandrodnm/holderscan/internal/domain"
)

// TransferProvider obtiene transferencias de un token desde el explorer.
type TransferProvider interface {
	// RecentTransfers devuelve las últimas `limit` transferencias del contrato, más recientes primero.
	RecentTransfers(ctx context.Context, contract domain.Address, limit int) ([]domain.Transaction, error)

	// WalletTransfers devuelve todo el historial wallet↔contrato, en orden ascendente.
	WalletTransfers(ctx context.Context, wallet, contract domain.Address) ([]domain.Transaction, error)
}
