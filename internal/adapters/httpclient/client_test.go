package httpclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alejandrodnm/holderscan/internal/adapters/httpclient"
	"github.com/alejandrodnm/holderscan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedSleeps struct {
	waits []time.Duration
}

func (r *recordedSleeps) sleep(_ context.Context, d time.Duration) {
	r.waits = append(r.waits, d)
}

func newTestClient(rec *recordedSleeps) *httpclient.Client {
	return httpclient.New(httpclient.DefaultConfig(), httpclient.WithSleeper(rec.sleep))
}

func TestGet_RetriesBadGatewayThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	rec := &recordedSleeps{}
	client := newTestClient(rec)

	var out struct {
		OK bool `json:"ok"`
	}
	err := client.Get(context.Background(), srv.URL, nil, &out)

	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Equal(t, int32(3), calls.Load(), "502, 502, 200 → 3 intentos")
	require.Len(t, rec.waits, 2)
	assert.Equal(t, 300*time.Millisecond, rec.waits[0])
	assert.Equal(t, 600*time.Millisecond, rec.waits[1])
	assert.Greater(t, rec.waits[1], rec.waits[0], "la espera debe crecer")
}

func TestGet_NotFoundIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("nope"))
	}))
	defer srv.Close()

	rec := &recordedSleeps{}
	client := newTestClient(rec)

	var out map[string]any
	err := client.Get(context.Background(), srv.URL, nil, &out)

	require.Error(t, err)
	var statusErr *domain.HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "nope", statusErr.Body)
	assert.Equal(t, int32(1), calls.Load())
	assert.Empty(t, rec.waits)
	assert.False(t, httpclient.IsTransient(err))
}

func TestGet_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusGatewayTimeout)
	}))
	defer srv.Close()

	rec := &recordedSleeps{}
	client := newTestClient(rec)

	var out map[string]any
	err := client.Get(context.Background(), srv.URL, nil, &out)

	require.Error(t, err)
	var tfe *domain.TransientFetchError
	require.True(t, errors.As(err, &tfe))
	assert.Equal(t, 4, tfe.Attempts, "1 intento + 3 reintentos")
	assert.Equal(t, http.StatusGatewayTimeout, tfe.StatusCode)
	assert.Equal(t, int32(4), calls.Load())
	assert.Equal(t, []time.Duration{300 * time.Millisecond, 600 * time.Millisecond, 1200 * time.Millisecond}, rec.waits)
	assert.True(t, httpclient.IsTransient(err))
}

func TestGet_TooManyRequestsIsNotRetriedByDefault(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := newTestClient(&recordedSleeps{})
	var out map[string]any
	err := client.Get(context.Background(), srv.URL, nil, &out)

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGet_NetworkErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	rec := &recordedSleeps{}
	client := newTestClient(rec)

	var out map[string]any
	err := client.Get(context.Background(), endpoint, url.Values{"apikey": {"secret"}}, &out)

	require.Error(t, err)
	var tfe *domain.TransientFetchError
	require.True(t, errors.As(err, &tfe))
	assert.Zero(t, tfe.StatusCode)
	assert.Equal(t, 4, tfe.Attempts)
	assert.NotContains(t, err.Error(), "secret", "la API key no debe aparecer en errores")
}

func TestGet_EncodesParamsAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "symbiosis-finance", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "k1", r.Header.Get("X-Api-Key"))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := httpclient.New(httpclient.DefaultConfig(), httpclient.WithHeader("X-Api-Key", "k1"))
	params := url.Values{"ids": {"symbiosis-finance"}, "vs_currencies": {"usd"}}

	var out map[string]any
	require.NoError(t, client.Get(context.Background(), srv.URL+"/simple/price", params, &out))
}

func TestGet_DecodeErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := newTestClient(&recordedSleeps{})
	var out map[string]any
	err := client.Get(context.Background(), srv.URL, nil, &out)

	require.Error(t, err)
	assert.False(t, httpclient.IsTransient(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestGet_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(&recordedSleeps{})
	var out map[string]any
	err := client.Get(ctx, srv.URL, nil, &out)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
