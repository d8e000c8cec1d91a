package ports

import (
	"context"

	"github.com/alejandrodnm/holderscan/internal/domain"
)

// ContractInspector consulta la metadata de código fuente de una dirección.
type ContractInspector interface {
	// ContractName devuelve el nombre del contrato verificado, o "" si la dirección no es un contrato.
	ContractName(ctx context.Context, addr domain.Address) (string, error)
}
