package shared

import (
	"context"
	"time"
)

// ScanLock provides mutual exclusion keyed by order identifier. The
// scan pipeline wraps its check-then-write sequence in a lock on the
// normalized order name so two concurrent scans of the same barcode
// cannot both pass the "not yet scanned" check.
type ScanLock interface {
	// Acquire attempts to take the lock for the given key with a TTL.
	// Returns true if the lock was newly acquired, false if another
	// holder already owns it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release frees the lock for the given key.
	Release(ctx context.Context, key string) error

	// Close releases any resources held by the lock backend.
	Close() error
}

// ScanLockConfig holds configuration for scan locking
type ScanLockConfig struct {
	// TTL bounds how long a lock may be held before it expires on its
	// own. A crashed request must not block its order forever.
	TTL time.Duration
}

// DefaultScanLockConfig returns the default scan lock configuration
func DefaultScanLockConfig() ScanLockConfig {
	return ScanLockConfig{
		TTL: 30 * time.Second,
	}
}
