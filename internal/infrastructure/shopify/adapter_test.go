package shopify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chafiq1992/order-scanner/internal/domain/store"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) (*Adapter, *httptest.Server) {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	adapter, err := NewAdapter(&Config{
		Name:          "irrakids",
		Domain:        "irrakids.myshopify.com",
		APIKey:        "key",
		Password:      "secret",
		BaseURL:       srv.URL,
		Timeout:       2 * time.Second,
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
	})
	require.NoError(t, err)
	return adapter, srv
}

func TestNewAdapterValidatesConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{"missing name", Config{Domain: "d", APIKey: "k", Password: "p"}, ErrConfigMissingName},
		{"missing domain", Config{Name: "n", APIKey: "k", Password: "p"}, ErrConfigMissingDomain},
		{"missing credentials", Config{Name: "n", Domain: "d"}, ErrConfigMissingCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAdapter(&tt.config)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFindOrder(t *testing.T) {
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, "/admin/api/2023-07/orders.json", r.URL.Path)
		assert.Equal(t, "#1234", r.URL.Query().Get("name"))
		assert.Equal(t, "any", r.URL.Query().Get("status"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"orders":[{
			"name":"#1234",
			"tags":"cod, fast",
			"fulfillment_status":"fulfilled",
			"financial_status":"paid",
			"created_at":"2026-08-20T10:00:00Z",
			"phone":"",
			"total_price":"199.00",
			"currency":"MAD",
			"shipping_address":{"phone":"+212612345678"}
		}]}`))
	})

	snapshot, err := adapter.FindOrder(context.Background(), "#1234")
	require.NoError(t, err)
	assert.Equal(t, "#1234", snapshot.OrderName)
	assert.Equal(t, "irrakids", snapshot.Store)
	assert.Equal(t, "cod, fast", snapshot.Tags)
	assert.True(t, snapshot.Fulfilled())
	assert.False(t, snapshot.Cancelled)
	assert.Equal(t, "+212612345678", snapshot.Phone)
	assert.True(t, snapshot.TotalPrice.Equal(decimal.RequireFromString("199.00")))
	assert.Equal(t, "MAD", snapshot.Currency)
}

func TestFindOrderNewestExactMatchWins(t *testing.T) {
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		// name filtering is a prefix match on Shopify's side
		w.Write([]byte(`{"orders":[
			{"name":"#1234","tags":"old","created_at":"2026-01-01T00:00:00Z","total_price":"10.00"},
			{"name":"#12345","tags":"prefix","created_at":"2026-08-01T00:00:00Z","total_price":"10.00"},
			{"name":"#1234","tags":"new","created_at":"2026-06-01T00:00:00Z","total_price":"10.00"}
		]}`))
	})

	snapshot, err := adapter.FindOrder(context.Background(), "#1234")
	require.NoError(t, err)
	assert.Equal(t, "new", snapshot.Tags)
}

func TestFindOrderCancelled(t *testing.T) {
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"orders":[{
			"name":"#1234",
			"cancelled_at":"2026-08-21T09:00:00Z",
			"created_at":"2026-08-20T10:00:00Z",
			"total_price":"0.00"
		}]}`))
	})

	snapshot, err := adapter.FindOrder(context.Background(), "#1234")
	require.NoError(t, err)
	assert.True(t, snapshot.Cancelled)
}

func TestFindOrderNotFound(t *testing.T) {
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"orders":[]}`))
	})

	_, err := adapter.FindOrder(context.Background(), "#1234")
	assert.ErrorIs(t, err, store.ErrOrderNotFound)
}

func TestFindOrderAuthFailure(t *testing.T) {
	var calls atomic.Int32
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := adapter.FindOrder(context.Background(), "#1234")
	assert.ErrorIs(t, err, store.ErrStoreAuthFailed)
	// auth failures must not be retried
	assert.Equal(t, int32(1), calls.Load())
}

func TestFindOrderRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"orders":[{"name":"#1234","created_at":"2026-08-20T10:00:00Z","total_price":"5.00"}]}`))
	})

	snapshot, err := adapter.FindOrder(context.Background(), "#1234")
	require.NoError(t, err)
	assert.Equal(t, "#1234", snapshot.OrderName)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFindOrderExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := adapter.FindOrder(context.Background(), "#1234")
	assert.ErrorIs(t, err, store.ErrStoreUnavailable)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFindOrderInvalidJSON(t *testing.T) {
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"orders": not-json`))
	})

	_, err := adapter.FindOrder(context.Background(), "#1234")
	assert.ErrorIs(t, err, store.ErrStoreInvalidResponse)
}

func TestFindOrderContextCancelled(t *testing.T) {
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := adapter.FindOrder(ctx, "#1234")
	assert.Error(t, err)
}

func TestBestPhoneFallbackOrder(t *testing.T) {
	tests := []struct {
		name  string
		order orderPayload
		want  string
	}{
		{"order phone wins", orderPayload{Phone: "1", ShippingAddress: &addressPayload{Phone: "2"}, Customer: &customerInfo{Phone: "3"}}, "1"},
		{"shipping address next", orderPayload{ShippingAddress: &addressPayload{Phone: "2"}, Customer: &customerInfo{Phone: "3"}}, "2"},
		{"customer last", orderPayload{Customer: &customerInfo{Phone: "3"}}, "3"},
		{"all empty", orderPayload{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.order.bestPhone())
		})
	}
}
