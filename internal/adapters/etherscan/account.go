package etherscan

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/alejandrodnm/holderscan/internal/domain"
)

// FirstTransactionTime devuelve el timestamp de la primera transacción normal de addr.
func (c *Client) FirstTransactionTime(ctx context.Context, addr domain.Address) (time.Time, bool, error) {
	params := url.Values{
		"address": {addr.String()},
		"page":    {"1"},
		"offset":  {"1"},
		"sort":    {"asc"},
	}

	var raw []normalTx
	if err := c.call(ctx, "account", "txlist", params, &raw); err != nil {
		if isNoTransactions(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("etherscan.FirstTransactionTime: %w", err)
	}
	if len(raw) == 0 {
		return time.Time{}, false, nil
	}

	ts, err := parseUnix(raw[0].TimeStamp)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("etherscan.FirstTransactionTime: %s: %w", addr, err)
	}
	return ts, true, nil
}
