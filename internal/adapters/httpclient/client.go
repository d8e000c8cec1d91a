package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/holderscan/internal/domain"
)

const (
	defaultRetries       = 3
	defaultBackoffFactor = 0.3
	defaultTimeout       = 30 * time.Second

	maxErrorBody = 512
)

// Config controla reintentos, timeout y rate limit de un Client.
type Config struct {
	Name              string  // etiqueta para logs ("etherscan", "coingecko")
	Retries           int     // reintentos tras el primer intento
	BackoffFactor     float64 // espera = factor × 2^intento, en segundos
	RetryableStatuses []int
	Timeout           time.Duration
	RatePerSec        float64 // 0 = sin límite
	Burst             int
}

// DefaultConfig devuelve la política de reintentos estándar: 3 reintentos,
// backoff 0.3s exponencial, 500/502/504 reintentables, timeout 30s.
func DefaultConfig() Config {
	return Config{
		Name:              "http",
		Retries:           defaultRetries,
		BackoffFactor:     defaultBackoffFactor,
		RetryableStatuses: []int{http.StatusInternalServerError, http.StatusBadGateway, http.StatusGatewayTimeout},
		Timeout:           defaultTimeout,
	}
}

// Sleeper espera d o hasta que el contexto se cancele.
type Sleeper func(ctx context.Context, d time.Duration)

// Option configura un Client.
type Option func(*Client)

// WithHTTPClient reemplaza el *http.Client subyacente.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithSleeper reemplaza la espera entre reintentos (tests).
func WithSleeper(s Sleeper) Option {
	return func(c *Client) { c.sleep = s }
}

// WithHeader añade un header fijo a cada request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers.Set(key, value) }
}

// Client hace GETs JSON con rate limiting y reintentos acotados.
// Es el único camino de salida HTTP del módulo.
type Client struct {
	cfg       Config
	http      *http.Client
	limiter   *rate.Limiter
	retryable map[int]bool
	headers   http.Header
	sleep     Sleeper
}

// New crea un Client. Los campos cero de cfg toman el valor de DefaultConfig.
func New(cfg Config, opts ...Option) *Client {
	def := DefaultConfig()
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.BackoffFactor < 0 {
		cfg.BackoffFactor = def.BackoffFactor
	}
	if cfg.RetryableStatuses == nil {
		cfg.RetryableStatuses = def.RetryableStatuses
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RatePerSec > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), burst)
	}

	retryable := make(map[int]bool, len(cfg.RetryableStatuses))
	for _, s := range cfg.RetryableStatuses {
		retryable[s] = true
	}

	c := &Client{
		cfg:       cfg,
		http:      &http.Client{Timeout: cfg.Timeout},
		limiter:   limiter,
		retryable: retryable,
		headers:   make(http.Header),
		sleep:     sleepCtx,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get hace GET endpoint?params y decodifica el JSON en out.
//
// Reintenta errores de red y los status reintentables; 4xx y otros no-2xx
// fallan al primer intento con *domain.HTTPStatusError. Un 200 con payload de
// error no se interpreta aquí. Al agotar reintentos devuelve *domain.TransientFetchError.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values, out any) error {
	full := endpoint
	if len(params) > 0 {
		full = endpoint + "?" + params.Encode()
	}

	attempts := c.cfg.Retries + 1
	var (
		lastErr    error
		lastStatus int
	)
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			c.sleep(ctx, c.backoff(attempt-1))
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("httpclient.Get: %w", err)
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("httpclient.Get: rate limiter: %w", err)
		}

		resp, err := c.do(ctx, full)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("httpclient.Get: %w", ctx.Err())
			}
			lastErr, lastStatus = err, 0
			slog.Debug("request failed, retrying",
				"client", c.cfg.Name,
				"attempt", attempt+1,
				"err", err,
			)
			continue
		}

		if c.retryable[resp.StatusCode] {
			drain(resp)
			lastErr, lastStatus = fmt.Errorf("server error %d", resp.StatusCode), resp.StatusCode
			slog.Debug("retryable status",
				"client", c.cfg.Name,
				"attempt", attempt+1,
				"status", resp.StatusCode,
			)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			resp.Body.Close()
			return &domain.HTTPStatusError{URL: redact(endpoint), StatusCode: resp.StatusCode, Body: string(body)}
		}

		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("httpclient.Get: decode %s: %w", redact(endpoint), err)
		}
		return nil
	}

	slog.Warn("retries exhausted",
		"client", c.cfg.Name,
		"attempts", attempts,
		"status", lastStatus,
		"err", lastErr,
	)
	return &domain.TransientFetchError{
		URL:        redact(endpoint),
		Attempts:   attempts,
		StatusCode: lastStatus,
		Err:        lastErr,
	}
}

func (c *Client) do(ctx context.Context, full string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = redact(uerr.URL)
		}
		return nil, err
	}
	return resp, nil
}

// backoff devuelve la espera antes del reintento n (0-based): factor × 2^n.
func (c *Client) backoff(n int) time.Duration {
	secs := c.cfg.BackoffFactor * math.Pow(2, float64(n))
	return time.Duration(secs * float64(time.Second))
}

// sleepCtx espera d respetando el contexto.
func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}

// redact quita la query string para no filtrar API keys en errores y logs.
func redact(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint
	}
	u.RawQuery = ""
	return u.String()
}

// IsTransient reporta si err viene de agotar reintentos.
func IsTransient(err error) bool {
	var tfe *domain.TransientFetchError
	return errors.As(err, &tfe)
}
