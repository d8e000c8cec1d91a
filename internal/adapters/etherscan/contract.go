package etherscan

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/alejandrodnm/holderscan/internal/domain"
)

// ContractName devuelve el nombre del contrato verificado en addr.
// Para EOAs (y contratos sin verificar) Etherscan devuelve ContractName vacío.
func (c *Client) ContractName(ctx context.Context, addr domain.Address) (string, error) {
	params := url.Values{"address": {addr.String()}}

	var raw []sourceCode
	if err := c.call(ctx, "contract", "getsourcecode", params, &raw); err != nil {
		return "", fmt.Errorf("etherscan.ContractName: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("etherscan.ContractName: %s: empty result", addr)
	}
	return strings.TrimSpace(raw[0].ContractName), nil
}
