package etherscan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/alejandrodnm/holderscan/internal/domain"
)

const (
	startBlock = "0"
	endBlock   = "99999999"
)

// RecentTransfers devuelve las últimas `limit` transferencias del contrato, más recientes primero.
func (c *Client) RecentTransfers(ctx context.Context, contract domain.Address, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}
	params := url.Values{
		"contractaddress": {contract.String()},
		"page":            {"1"},
		"offset":          {strconv.Itoa(limit)},
		"sort":            {"desc"},
	}

	var raw []tokenTransfer
	if err := c.call(ctx, "account", "tokentx", params, &raw); err != nil {
		if isNoTransactions(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("etherscan.RecentTransfers: %w", err)
	}

	txs := mapTransfers(raw)
	slog.Debug("fetched recent transfers",
		"contract", contract.Short(),
		"count", len(txs),
	)
	return txs, nil
}

// WalletTransfers devuelve el historial completo wallet↔contrato en orden ascendente.
func (c *Client) WalletTransfers(ctx context.Context, wallet, contract domain.Address) ([]domain.Transaction, error) {
	params := url.Values{
		"address":         {wallet.String()},
		"contractaddress": {contract.String()},
		"startblock":      {startBlock},
		"endblock":        {endBlock},
		"sort":            {"asc"},
	}

	var raw []tokenTransfer
	if err := c.call(ctx, "account", "tokentx", params, &raw); err != nil {
		if isNoTransactions(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("etherscan.WalletTransfers: %w", err)
	}

	txs := mapTransfers(raw)
	slog.Debug("fetched wallet transfers",
		"wallet", wallet.Short(),
		"count", len(txs),
	)
	return txs, nil
}

// isNoTransactions detecta el "No transactions found" que algunas cadenas devuelven como string.
func isNoTransactions(err error) bool {
	var apiErr *domain.APIError
	return errors.As(err, &apiErr) && apiErr.Message == msgNoTransactions
}
