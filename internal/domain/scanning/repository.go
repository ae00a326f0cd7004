package scanning

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TagCount is the number of accepted scans carrying one canonical
// delivery tag.
type TagCount struct {
	Tag   string
	Count int64
}

// StoreTagCount is a delivery-tag count within one store account
type StoreTagCount struct {
	Store string
	Tag   string
	Count int64
}

// ListFilter narrows ledger listings. Date selects the UTC calendar
// day; empty Tag/Store match everything.
type ListFilter struct {
	Date  time.Time
	Tag   string
	Store string
}

// ScanRepository is the scan ledger port. Window queries are bounded
// to (now-window, now]: a record exactly window old is outside, and
// future timestamps are never returned.
type ScanRepository interface {
	// Insert appends an accepted scan to the ledger
	Insert(ctx context.Context, record *ScanRecord) error

	// FindByID returns a single record
	FindByID(ctx context.Context, id uuid.UUID) (*ScanRecord, error)

	// FindRecentByOrderName returns records for the order within the window,
	// newest first
	FindRecentByOrderName(ctx context.Context, orderName string, window time.Duration) ([]ScanRecord, error)

	// FindRecentByPhone returns records for the phone within the window,
	// newest first
	FindRecentByPhone(ctx context.Context, phone string, window time.Duration) ([]ScanRecord, error)

	// ListByDate returns records for one UTC day, optionally filtered by
	// delivery tag and store, newest first
	ListByDate(ctx context.Context, filter ListFilter) ([]ScanRecord, error)

	// Update persists operator corrections to an existing record
	Update(ctx context.Context, id uuid.UUID, update ScanUpdate) (*ScanRecord, error)

	// Delete removes a record from the ledger
	Delete(ctx context.Context, id uuid.UUID) error

	// CountTagsByDate counts accepted scans per canonical delivery tag
	// for one UTC day
	CountTagsByDate(ctx context.Context, date time.Time) ([]TagCount, error)

	// CountTagsByStore counts accepted scans per store and delivery tag
	// across the whole ledger
	CountTagsByStore(ctx context.Context) ([]StoreTagCount, error)
}
