package coingecko

// DTOs raw de la API de CoinGecko. Solo se usan dentro de este paquete.

// simplePriceResponse es la respuesta de GET /simple/price: {id: {currency: price}}.
// Los punteros distinguen "precio 0" de "clave ausente".
type simplePriceResponse map[string]map[string]*float64

// historyResponse es la respuesta de GET /coins/{id}/history.
// market_data falta cuando no hay datos para esa fecha.
type historyResponse struct {
	ID         string      `json:"id"`
	Symbol     string      `json:"symbol"`
	MarketData *marketData `json:"market_data"`
}

type marketData struct {
	CurrentPrice struct {
		USD *float64 `json:"usd"`
	} `json:"current_price"`
}
