package domain

import "time"

// PnL windows in days.
const (
	Window7D  = 7
	Window14D = 14
)

// Windows es la lista de ventanas que se calculan, de menor a mayor.
var Windows = []int{Window7D, Window14D}

// WalletRecord es una wallet que pasó el filtro, con los datos que la justificaron.
type WalletRecord struct {
	Address     Address
	AgeDays     int
	TransferUSD float64 // valor USD de la transferencia que la calificó
	TxHash      string
	SeenAt      time.Time
}

// WindowTotals acumula compras y ventas dentro de una ventana.
type WindowTotals struct {
	BoughtQty float64
	SoldQty   float64
	BoughtUSD float64 // cost basis al precio del día de cada compra
	SoldUSD   float64 // proceeds al precio del día de cada venta
	Trades    int
}

// Balance devuelve la cantidad neta que queda en la wallet dentro de la ventana.
func (w WindowTotals) Balance() float64 {
	return w.BoughtQty - w.SoldQty
}

// PnL devuelve (vendido + valor actual del balance) − invertido.
func (w WindowTotals) PnL(currentPrice float64) float64 {
	currentValue := w.Balance() * currentPrice
	totalReceived := w.SoldUSD + currentValue
	return totalReceived - w.BoughtUSD
}

// PnLResult es el resultado del cálculo para una wallet.
type PnLResult struct {
	Address Address
	PnL7D   float64
	PnL14D  float64
	Windows map[int]WindowTotals
}

// WalletReport es una fila del reporte final. Err != nil si el PnL no se pudo calcular.
type WalletReport struct {
	Record WalletRecord
	PnL    *PnLResult
	Err    error
}

// ScanReport es el resultado completo de una ejecución.
type ScanReport struct {
	RunID         string
	TokenID       string
	Contract      Address
	CurrentPrice  float64
	StartedAt     time.Time
	Duration      time.Duration
	TransfersSeen int
	Wallets       []WalletReport
}

// Failed devuelve cuántas wallets no pudieron calcular PnL.
func (r ScanReport) Failed() int {
	n := 0
	for _, w := range r.Wallets {
		if w.Err != nil {
			n++
		}
	}
	return n
}
