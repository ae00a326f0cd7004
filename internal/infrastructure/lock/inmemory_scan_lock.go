package lock

import (
	"context"
	"sync"
	"time"

	"github.com/chafiq1992/order-scanner/internal/domain/shared"
)

// entry is a held lock with its expiry
type entry struct {
	expiresAt time.Time
}

// InMemoryScanLock implements shared.ScanLock with a mutex-guarded map.
// Suitable for single-instance deployments and testing. Locks held by a
// crashed request expire through their TTL.
type InMemoryScanLock struct {
	mu        sync.Mutex
	entries   map[string]entry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryScanLock creates an in-memory scan lock with a background
// sweeper for expired entries
func NewInMemoryScanLock() *InMemoryScanLock {
	l := &InMemoryScanLock{
		entries:  make(map[string]entry),
		stopChan: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupLoop()

	return l
}

// Acquire takes the lock for key if nobody holds it
func (l *InMemoryScanLock) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, exists := l.entries[key]; exists && time.Now().Before(e.expiresAt) {
		return false, nil
	}

	l.entries[key] = entry{expiresAt: time.Now().Add(ttl)}
	return true, nil
}

// Release frees the lock for key
func (l *InMemoryScanLock) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
	return nil
}

// Close stops the cleanup goroutine
func (l *InMemoryScanLock) Close() error {
	l.closeOnce.Do(func() {
		close(l.stopChan)
	})
	l.wg.Wait()
	return nil
}

func (l *InMemoryScanLock) cleanupLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.removeExpired()
		case <-l.stopChan:
			return
		}
	}
}

func (l *InMemoryScanLock) removeExpired() {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, e := range l.entries {
		if now.After(e.expiresAt) {
			delete(l.entries, key)
		}
	}
}

// Ensure InMemoryScanLock implements ScanLock
var _ shared.ScanLock = (*InMemoryScanLock)(nil)
