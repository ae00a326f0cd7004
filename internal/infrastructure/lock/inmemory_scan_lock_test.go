package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryScanLock_AcquireRelease(t *testing.T) {
	l := NewInMemoryScanLock()
	defer l.Close()
	ctx := context.Background()

	ok, err := l.Acquire(ctx, "#1234", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	// second acquire of the same key fails while held
	ok, err = l.Acquire(ctx, "#1234", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// a different key is independent
	ok, err = l.Acquire(ctx, "#5678", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, l.Release(ctx, "#1234"))

	ok, err = l.Acquire(ctx, "#1234", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInMemoryScanLock_TTLExpiry(t *testing.T) {
	l := NewInMemoryScanLock()
	defer l.Close()
	ctx := context.Background()

	ok, err := l.Acquire(ctx, "#1234", 10*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(20 * time.Millisecond)

	// expired hold no longer blocks
	ok, err = l.Acquire(ctx, "#1234", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInMemoryScanLock_ConcurrentAcquire(t *testing.T) {
	l := NewInMemoryScanLock()
	defer l.Close()
	ctx := context.Background()

	const goroutines = 50
	var wins int64
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := l.Acquire(ctx, "#1234", time.Minute)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), wins, "exactly one goroutine may hold the lock")
}

func TestInMemoryScanLock_CloseIsIdempotent(t *testing.T) {
	l := NewInMemoryScanLock()
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())
}

func TestInMemoryScanLock_RemoveExpired(t *testing.T) {
	l := NewInMemoryScanLock()
	defer l.Close()
	ctx := context.Background()

	_, err := l.Acquire(ctx, "a", time.Nanosecond)
	require.NoError(t, err)
	_, err = l.Acquire(ctx, "b", time.Hour)
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	l.removeExpired()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.entries, "a")
	assert.Contains(t, l.entries, "b")
}
