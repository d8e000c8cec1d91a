package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/holderscan/internal/domain"
	"github.com/alejandrodnm/holderscan/internal/ports"
)

// PnLCalculator reconstruye el PnL de una wallet en las ventanas de 7 y 14 días
// a partir de su historial de transferencias y los precios diarios.
type PnLCalculator struct {
	transfers ports.TransferProvider
	oracle    ports.PriceOracle
	now       func() time.Time
}

// NewPnLCalculator crea un PnLCalculator. now == nil usa time.Now.
func NewPnLCalculator(transfers ports.TransferProvider, oracle ports.PriceOracle, now func() time.Time) *PnLCalculator {
	if now == nil {
		now = time.Now
	}
	return &PnLCalculator{transfers: transfers, oracle: oracle, now: now}
}

// Compute calcula el PnL de addr para el token dado.
//
// Por ventana W: compras y ventas con antigüedad ≤ W días, valoradas al precio
// de su día; pnl = vendido + balance × precioActual − invertido.
// Cualquier error de fetch, de valor o de precio aborta el cálculo de esta wallet.
func (p *PnLCalculator) Compute(
	ctx context.Context,
	addr domain.Address,
	tokenID string,
	contract domain.Address,
	currentPrice float64,
) (domain.PnLResult, error) {
	txs, err := p.transfers.WalletTransfers(ctx, addr, contract)
	if err != nil {
		return domain.PnLResult{}, fmt.Errorf("scanner.Compute: %s: fetch history: %w", addr, err)
	}

	now := p.now().UTC()
	prices := newDailyPrices(p.oracle, tokenID, now, currentPrice)
	maxWindow := domain.Windows[len(domain.Windows)-1]

	totals := make(map[int]domain.WindowTotals, len(domain.Windows))
	for _, w := range domain.Windows {
		totals[w] = domain.WindowTotals{}
	}

	for _, tx := range txs {
		days := tx.ElapsedDays(now)
		if days > maxWindow {
			continue
		}

		buy := tx.To.Equal(addr)
		sell := !buy && tx.From.Equal(addr)
		if !buy && !sell {
			continue
		}

		amount, err := tx.Amount()
		if err != nil {
			return domain.PnLResult{}, fmt.Errorf("scanner.Compute: %s: tx %s: %w", addr, tx.Hash, err)
		}
		qty := amount.InexactFloat64()

		price, err := prices.at(ctx, tx.Timestamp)
		if err != nil {
			return domain.PnLResult{}, fmt.Errorf("scanner.Compute: %s: %w", addr, err)
		}

		for _, w := range domain.Windows {
			if days > w {
				continue
			}
			t := totals[w]
			if buy {
				t.BoughtQty += qty
				t.BoughtUSD += qty * price
			} else {
				t.SoldQty += qty
				t.SoldUSD += qty * price
			}
			t.Trades++
			totals[w] = t
		}
	}

	result := domain.PnLResult{
		Address: addr,
		PnL7D:   totals[domain.Window7D].PnL(currentPrice),
		PnL14D:  totals[domain.Window14D].PnL(currentPrice),
		Windows: totals,
	}

	slog.Debug("pnl computed",
		"wallet", addr,
		"transfers", len(txs),
		"price_lookups", prices.lookups,
		"pnl_7d", result.PnL7D,
		"pnl_14d", result.PnL14D,
	)
	return result, nil
}

// dayKey identifica un día calendario UTC completo.
type dayKey struct {
	year  int
	month time.Month
	day   int
}

func keyOf(t time.Time) dayKey {
	y, m, d := t.UTC().Date()
	return dayKey{year: y, month: m, day: d}
}

// dailyPrices memoiza precios históricos por día durante un único cálculo.
// Se descarta al terminar: nunca se comparte entre wallets.
type dailyPrices struct {
	oracle  ports.PriceOracle
	tokenID string
	today   dayKey
	current float64
	cache   map[dayKey]float64
	lookups int
}

func newDailyPrices(oracle ports.PriceOracle, tokenID string, now time.Time, current float64) *dailyPrices {
	return &dailyPrices{
		oracle:  oracle,
		tokenID: tokenID,
		today:   keyOf(now),
		current: current,
		cache:   make(map[dayKey]float64),
	}
}

// at devuelve el precio del día de ts: el actual si es hoy, si no el histórico.
func (d *dailyPrices) at(ctx context.Context, ts time.Time) (float64, error) {
	key := keyOf(ts)
	if key == d.today {
		return d.current, nil
	}
	if price, ok := d.cache[key]; ok {
		return price, nil
	}

	price, err := d.oracle.HistoricalPrice(ctx, ts, d.tokenID)
	if err != nil {
		return 0, fmt.Errorf("price for %04d-%02d-%02d: %w", key.year, key.month, key.day, err)
	}
	d.lookups++
	d.cache[key] = price
	return price, nil
}
