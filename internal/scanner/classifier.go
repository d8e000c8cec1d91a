package scanner

import (
	"context"
	"log/slog"

	"github.com/alejandrodnm/holderscan/internal/domain"
	"github.com/alejandrodnm/holderscan/internal/ports"
)

// Classifier distingue contratos de EOAs usando la metadata de código fuente.
type Classifier struct {
	inspector ports.ContractInspector
}

// NewClassifier crea un Classifier sobre el inspector dado.
func NewClassifier(inspector ports.ContractInspector) *Classifier {
	return &Classifier{inspector: inspector}
}

// IsContract devuelve true si la dirección tiene un contrato con nombre.
//
// Si la consulta falla devuelve false: preferimos incluir un contrato por error
// a excluir una wallet real.
func (c *Classifier) IsContract(ctx context.Context, addr domain.Address) bool {
	name, err := c.inspector.ContractName(ctx, addr)
	if err != nil {
		slog.Warn("contract check failed, assuming EOA",
			"address", addr,
			"err", err,
		)
		return false
	}
	return name != ""
}
