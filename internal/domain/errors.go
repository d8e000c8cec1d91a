package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrPriceUnavailable: la respuesta era válida pero no contiene el precio pedido.
	ErrPriceUnavailable = errors.New("price unavailable")

	// ErrAgeUnavailable: no se pudo determinar la edad de la wallet.
	// Distinto de edad 0, que significa wallet sin transacciones.
	ErrAgeUnavailable = errors.New("wallet age unavailable")
)

// TransientFetchError se devuelve cuando se agotan los reintentos por errores de red o 5xx.
type TransientFetchError struct {
	URL        string
	Attempts   int
	StatusCode int // 0 si el último intento falló a nivel de red
	Err        error
}

func (e *TransientFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transient fetch error: %s: status %d after %d attempts", e.URL, e.StatusCode, e.Attempts)
	}
	return fmt.Sprintf("transient fetch error: %s: %v after %d attempts", e.URL, e.Err, e.Attempts)
}

func (e *TransientFetchError) Unwrap() error {
	return e.Err
}

// HTTPStatusError es una respuesta no-2xx que no se reintenta (4xx y similares).
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("http status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

// APIError es un 200 cuyo payload reporta un error (p.ej. Etherscan status "0").
type APIError struct {
	Status  string
	Message string
	Result  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%s message=%q result=%q", e.Status, e.Message, e.Result)
}
