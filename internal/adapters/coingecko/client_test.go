package coingecko_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alejandrodnm/holderscan/internal/adapters/coingecko"
	"github.com/alejandrodnm/holderscan/internal/adapters/httpclient"
	"github.com/alejandrodnm/holderscan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(srv *httptest.Server, apiKey string) *coingecko.Client {
	noSleep := httpclient.WithSleeper(func(context.Context, time.Duration) {})
	return coingecko.NewClient(srv.URL, apiKey, httpclient.DefaultConfig(), noSleep)
}

func TestCurrentPrice_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "symbiosis-finance", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		w.Write([]byte(`{"symbiosis-finance":{"usd":0.4215}}`))
	}))
	defer srv.Close()

	price, err := newTestClient(srv, "").CurrentPrice(context.Background(), "symbiosis-finance", "usd")
	require.NoError(t, err)
	assert.InDelta(t, 0.4215, price, 1e-9)
}

func TestCurrentPrice_MissingKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv, "").CurrentPrice(context.Background(), "symbiosis-finance", "usd")
	assert.ErrorIs(t, err, domain.ErrPriceUnavailable)
}

func TestCurrentPrice_MissingCurrency(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbiosis-finance":{"eur":0.39}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv, "").CurrentPrice(context.Background(), "symbiosis-finance", "usd")
	assert.ErrorIs(t, err, domain.ErrPriceUnavailable)
}

func TestCurrentPrice_SendsDemoKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "demo-123", r.Header.Get("x-cg-demo-api-key"))
		w.Write([]byte(`{"symbiosis-finance":{"usd":1}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv, "demo-123").CurrentPrice(context.Background(), "symbiosis-finance", "usd")
	require.NoError(t, err)
}

func TestHistoricalPrice_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/symbiosis-finance/history", r.URL.Path)
		assert.Equal(t, "05-03-2024", r.URL.Query().Get("date"))
		w.Write([]byte(`{"id":"symbiosis-finance","market_data":{"current_price":{"usd":1.87,"eur":1.71}}}`))
	}))
	defer srv.Close()

	date := time.Date(2024, 3, 5, 18, 30, 0, 0, time.UTC)
	price, err := newTestClient(srv, "").HistoricalPrice(context.Background(), date, "symbiosis-finance")
	require.NoError(t, err)
	assert.InDelta(t, 1.87, price, 1e-9)
}

func TestHistoricalPrice_NoMarketData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"symbiosis-finance"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv, "").HistoricalPrice(context.Background(), time.Now(), "symbiosis-finance")
	assert.ErrorIs(t, err, domain.ErrPriceUnavailable)
}

func TestHistoricalPrice_ServerErrorIsTransient(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv, "").HistoricalPrice(context.Background(), time.Now(), "symbiosis-finance")
	require.Error(t, err)

	var tfe *domain.TransientFetchError
	assert.True(t, errors.As(err, &tfe))
	assert.False(t, errors.Is(err, domain.ErrPriceUnavailable))
	assert.Equal(t, int32(4), calls.Load())
}
