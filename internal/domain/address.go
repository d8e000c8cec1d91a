package domain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Address es una dirección EVM en forma canónica (minúsculas, con prefijo 0x).
// El valor vacío representa un destinatario ausente.
type Address string

// ParseAddress valida y normaliza una dirección hex de 20 bytes.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return "", fmt.Errorf("domain.ParseAddress: invalid address %q", s)
	}
	return Address(strings.ToLower(common.HexToAddress(s).Hex())), nil
}

// NormalizeAddress pasa a forma canónica sin validar. Se usa con datos que
// vienen del explorer, donde la dirección puede llegar vacía.
func NormalizeAddress(s string) Address {
	return Address(strings.ToLower(strings.TrimSpace(s)))
}

// Equal compara ignorando mayúsculas.
func (a Address) Equal(other Address) bool {
	return strings.EqualFold(string(a), string(other))
}

// IsZero devuelve true si la dirección está vacía.
func (a Address) IsZero() bool {
	return a == ""
}

func (a Address) String() string {
	return string(a)
}

// Short devuelve 0x1234…abcd para logs y tablas.
func (a Address) Short() string {
	s := string(a)
	if len(s) <= 12 {
		return s
	}
	return s[:6] + "…" + s[len(s)-4:]
}
