package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chafiq1992/order-scanner/internal/domain/store"
)

// maxResponseSize is the maximum allowed response size from the Shopify API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Adapter implements store.Client against the Shopify Admin REST API.
// One adapter serves one store account.
type Adapter struct {
	config     *Config
	httpClient *http.Client
}

// NewAdapter creates a Shopify adapter for one store account
func NewAdapter(config *Config) (*Adapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.applyDefaults()

	return &Adapter{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// Name returns the configured account name
func (a *Adapter) Name() string {
	return a.config.Name
}

// FindOrder looks up one order by its canonical "#<digits>" identifier.
// Shopify's name filter is a prefix match, so the response is scanned
// for an exact name before anything is returned. When several orders
// share the name the newest one wins.
func (a *Adapter) FindOrder(ctx context.Context, orderName string) (*store.OrderSnapshot, error) {
	query := url.Values{}
	query.Set("status", "any")
	query.Set("name", orderName)

	base := a.config.BaseURL
	if base == "" {
		base = "https://" + a.config.Domain
	}
	endpoint := fmt.Sprintf("%s/admin/api/%s/orders.json?%s",
		base, APIVersion, query.Encode())

	body, err := a.doRequest(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var resp ordersResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", store.ErrStoreInvalidResponse, a.config.Name, err)
	}

	var best *orderPayload
	for i := range resp.Orders {
		order := &resp.Orders[i]
		if order.Name != orderName {
			continue
		}
		if best == nil || order.CreatedAt.After(best.CreatedAt) {
			best = order
		}
	}
	if best == nil {
		return nil, store.ErrOrderNotFound
	}

	return a.toSnapshot(best), nil
}

// doRequest performs the HTTP call with linear-backoff retries. Auth
// failures and client errors are terminal; transport errors, 429s and
// 5xx responses are retried.
func (a *Adapter) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= a.config.RetryAttempts; attempt++ {
		if attempt > 1 {
			delay := time.Duration(attempt-1) * a.config.RetryDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, err := a.doRequestOnce(ctx, endpoint)
		if err == nil {
			return body, nil
		}
		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

func (a *Adapter) doRequestOnce(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("shopify: failed to create request: %w", err)
	}
	req.SetBasicAuth(a.config.APIKey, a.config.Password)
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", store.ErrStoreUnavailable, a.config.Name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", store.ErrStoreUnavailable, a.config.Name, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", store.ErrStoreAuthFailed, a.config.Name)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: %s: HTTP %d", store.ErrStoreUnavailable, a.config.Name, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: %s: HTTP %d", store.ErrStoreRequestFailed, a.config.Name, resp.StatusCode)
	}

	return body, nil
}

// isRetryable reports whether the lookup should be tried again
func isRetryable(err error) bool {
	return errors.Is(err, store.ErrStoreUnavailable)
}

// toSnapshot converts a Shopify order payload to the domain snapshot
func (a *Adapter) toSnapshot(order *orderPayload) *store.OrderSnapshot {
	price, err := decimal.NewFromString(order.TotalPrice)
	if err != nil {
		price = decimal.Zero
	}

	return &store.OrderSnapshot{
		OrderName:         order.Name,
		Store:             a.config.Name,
		Tags:              order.Tags,
		FulfillmentStatus: order.FulfillmentStatus,
		FinancialStatus:   order.FinancialStatus,
		Phone:             order.bestPhone(),
		Cancelled:         order.CancelledAt != nil,
		TotalPrice:        price,
		Currency:          order.Currency,
		CreatedAt:         order.CreatedAt,
	}
}

// Ensure Adapter implements the store client port
var _ store.Client = (*Adapter)(nil)
