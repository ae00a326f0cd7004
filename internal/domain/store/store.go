package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Store Errors
// ---------------------------------------------------------------------------

var (
	// ErrOrderNotFound means the store answered but has no such order
	ErrOrderNotFound = errors.New("store: order not found")
	// ErrStoreUnavailable means the store could not be reached
	ErrStoreUnavailable = errors.New("store: temporarily unavailable")
	// ErrStoreRequestFailed means the store rejected the request
	ErrStoreRequestFailed = errors.New("store: request failed")
	// ErrStoreInvalidResponse means the store returned an unparseable body
	ErrStoreInvalidResponse = errors.New("store: invalid response")
	// ErrStoreAuthFailed means the store rejected the credentials
	ErrStoreAuthFailed = errors.New("store: authentication failed")

	// ErrLookupFailed means every configured store errored: the order's
	// existence is unknown, distinct from not found. Retryable.
	ErrLookupFailed = errors.New("store: lookup failed on all stores")
)

// ---------------------------------------------------------------------------
// Value Objects
// ---------------------------------------------------------------------------

// OrderSnapshot is a transient view of one order as a store reports it
// at lookup time. It is produced fresh per lookup and never cached;
// duplicate detection relies on the scan ledger instead.
type OrderSnapshot struct {
	// OrderName is the canonical order identifier, e.g. "#123456"
	OrderName string
	// Store is the account name the order was found in
	Store string
	// Tags is the store's free-text tag field
	Tags string
	// FulfillmentStatus as the store reports it ("fulfilled",
	// "unfulfilled", "partial")
	FulfillmentStatus string
	// FinancialStatus as the store reports it ("paid", "pending",
	// "refunded", ...)
	FinancialStatus string
	// Phone is the recipient phone as the store reports it
	Phone string
	// Cancelled is true when the order was cancelled on the store
	Cancelled bool
	// TotalPrice is the order total
	TotalPrice decimal.Decimal
	// Currency is the order currency code
	Currency string
	// CreatedAt is when the order was created on the store
	CreatedAt time.Time
}

// Fulfilled returns true when the store reports the order fully fulfilled
func (s *OrderSnapshot) Fulfilled() bool {
	return s.FulfillmentStatus == "fulfilled"
}

// ---------------------------------------------------------------------------
// Client Port Interface
// ---------------------------------------------------------------------------

// Client is the port interface for a single store account. Concrete
// adapters live in the infrastructure layer; the lookup service holds
// an ordered list of clients, one per configured account.
type Client interface {
	// Name returns the configured account name
	Name() string

	// FindOrder looks up one order by its canonical identifier.
	// Returns ErrOrderNotFound when the store answers but has no such
	// order; other errors mean the store could not answer.
	FindOrder(ctx context.Context, orderName string) (*OrderSnapshot, error)
}
