package etherscan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/alejandrodnm/holderscan/internal/adapters/httpclient"
	"github.com/alejandrodnm/holderscan/internal/domain"
)

const (
	defaultBase    = "https://api.etherscan.io/v2/api"
	defaultChainID = 1

	// Etherscan responde status "0" con este mensaje y result [] cuando no hay datos.
	msgNoTransactions = "No transactions found"
)

// Client implementa ports.TransferProvider, ports.ContractInspector y
// ports.AccountHistory sobre el endpoint único de Etherscan.
type Client struct {
	http    *httpclient.Client
	base    string
	apiKey  string
	chainID int
}

// NewClient crea un Client. Si base está vacío usa la API v2 de producción.
// chainID 0 significa mainnet.
func NewClient(base, apiKey string, chainID int, cfg httpclient.Config, opts ...httpclient.Option) *Client {
	if base == "" {
		base = defaultBase
	}
	if chainID == 0 {
		chainID = defaultChainID
	}
	if cfg.Name == "" {
		cfg.Name = "etherscan"
	}
	return &Client{
		http:    httpclient.New(cfg, opts...),
		base:    base,
		apiKey:  apiKey,
		chainID: chainID,
	}
}

// call ejecuta una acción y decodifica `result` en out cuando es una lista.
// Un result string (rate limit, API key inválida) se devuelve como *domain.APIError.
func (c *Client) call(ctx context.Context, module, action string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("module", module)
	params.Set("action", action)
	params.Set("chainid", strconv.Itoa(c.chainID))
	if c.apiKey != "" {
		params.Set("apikey", c.apiKey)
	}

	var env envelope
	if err := c.http.Get(ctx, c.base, params, &env); err != nil {
		return err
	}

	raw := bytes.TrimSpace(env.Result)
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode %s result: %w", action, err)
		}
		return nil
	}

	apiErr := &domain.APIError{Status: env.Status, Message: env.Message}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		apiErr.Result = s
	} else {
		apiErr.Result = string(raw)
	}
	return apiErr
}
