package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/holderscan/internal/adapters/httpclient"
	"github.com/alejandrodnm/holderscan/internal/domain"
)

// Console implementa ports.Notifier.
type Console struct {
	out     io.Writer
	compact bool
	details bool
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(compact, details bool) *Console {
	return &Console{out: os.Stdout, compact: compact, details: details}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, compact, details bool) *Console {
	return &Console{out: w, compact: compact, details: details}
}

// Notify imprime el reporte en el modo configurado.
func (c *Console) Notify(_ context.Context, report domain.ScanReport) error {
	c.printHeader(report)

	if len(report.Wallets) == 0 {
		fmt.Fprintf(c.out, "no wallets matched (%d transfers scanned)\n", report.TransfersSeen)
		return nil
	}

	if c.compact {
		c.printCompact(report)
	} else if err := c.printTable(report); err != nil {
		return fmt.Errorf("notify.Notify: %w", err)
	}

	if c.details {
		c.printDetails(report)
	}
	return nil
}

func (c *Console) printHeader(r domain.ScanReport) {
	fmt.Fprintf(c.out, "\n[%s] run %s | %s @ $%s | %d transfers → %d wallets",
		r.StartedAt.Format("15:04:05"), shortID(r.RunID), r.TokenID,
		formatPrice(r.CurrentPrice), r.TransfersSeen, len(r.Wallets))
	if failed := r.Failed(); failed > 0 {
		fmt.Fprintf(c.out, " (%d failed)", failed)
	}
	fmt.Fprintln(c.out)
}

// printCompact imprime una línea por wallet.
func (c *Console) printCompact(r domain.ScanReport) {
	for _, w := range r.Wallets {
		if w.Err != nil {
			fmt.Fprintf(c.out, "  %s  error: %s\n", w.Record.Address, errorSummary(w.Err))
			continue
		}
		fmt.Fprintf(c.out, "  %s  7d: %d USD  14d: %d USD\n",
			w.Record.Address, int(w.PnL.PnL7D), int(w.PnL.PnL14D))
	}
}

// printTable imprime la tabla completa. El PnL se trunca a USD enteros.
func (c *Console) printTable(r domain.ScanReport) error {
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Wallet", "Age (d)", "Transfer $", "PnL 7d", "PnL 14d", "Status")

	for i, w := range r.Wallets {
		pnl7, pnl14, status := "-", "-", "ok"
		if w.Err != nil {
			status = "error: " + errorSummary(w.Err)
		} else if w.PnL != nil {
			pnl7 = fmt.Sprintf("%d", int(w.PnL.PnL7D))
			pnl14 = fmt.Sprintf("%d", int(w.PnL.PnL14D))
		}

		table.Append(
			fmt.Sprintf("%d", i+1),
			w.Record.Address.String(),
			fmt.Sprintf("%d", w.Record.AgeDays),
			fmt.Sprintf("%.0f", w.Record.TransferUSD),
			pnl7,
			pnl14,
			status,
		)
	}

	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "  PnL = (sold $ + balance × current price) − bought $, per window")
	return nil
}

// printDetails imprime los acumulados por ventana de cada wallet.
func (c *Console) printDetails(r domain.ScanReport) {
	fmt.Fprintln(c.out, "=== WINDOW DETAILS ===")
	for i, w := range r.Wallets {
		fmt.Fprintf(c.out, "\n--- #%d: %s (age %dd, tx %s) ---\n",
			i+1, w.Record.Address, w.Record.AgeDays, truncate(w.Record.TxHash, 14))
		if w.PnL == nil {
			fmt.Fprintf(c.out, "  no data: %v\n", w.Err)
			continue
		}
		for _, days := range domain.Windows {
			t := w.PnL.Windows[days]
			fmt.Fprintf(c.out, "  %2dd: trades=%d bought=%.4f ($%.2f) sold=%.4f ($%.2f) balance=%.4f pnl=$%.2f\n",
				days, t.Trades, t.BoughtQty, t.BoughtUSD, t.SoldQty, t.SoldUSD,
				t.Balance(), t.PnL(r.CurrentPrice))
		}
	}
	fmt.Fprintln(c.out)
}

// --- helpers ---

// errorSummary reduce un error a su tipo reconocible para la columna Status.
func errorSummary(err error) string {
	var apiErr *domain.APIError
	switch {
	case errors.Is(err, domain.ErrPriceUnavailable):
		return "price unavailable"
	case httpclient.IsTransient(err):
		return "fetch failed"
	case errors.As(err, &apiErr):
		return "api: " + truncate(apiErr.Result, 30)
	default:
		return truncate(err.Error(), 40)
	}
}

func formatPrice(p float64) string {
	if p >= 1 {
		return fmt.Sprintf("%.4f", p)
	}
	return fmt.Sprintf("%.6f", p)
}

func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
