package scanning

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chafiq1992/order-scanner/internal/domain/store"
)

type fakeClient struct {
	name     string
	snapshot *store.OrderSnapshot
	err      error
}

func (f *fakeClient) Name() string { return f.name }

func (f *fakeClient) FindOrder(_ context.Context, _ string) (*store.OrderSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

func snapshotAt(storeName string, createdAt time.Time) *store.OrderSnapshot {
	return &store.OrderSnapshot{
		OrderName: "#1234",
		Store:     storeName,
		CreatedAt: createdAt,
	}
}

func newLookup(clients ...store.Client) *OrderLookupService {
	return NewOrderLookupService(clients, 50*24*time.Hour, time.Second, nil)
}

func TestFindOrder_SingleMatch(t *testing.T) {
	lookup := newLookup(
		&fakeClient{name: "a", err: store.ErrOrderNotFound},
		&fakeClient{name: "b", snapshot: snapshotAt("b", time.Now().UTC().Add(-time.Hour))},
	)

	snapshot, err := lookup.FindOrder(context.Background(), "#1234")
	require.NoError(t, err)
	assert.Equal(t, "b", snapshot.Store)
}

func TestFindOrder_NewestMatchWins(t *testing.T) {
	now := time.Now().UTC()
	lookup := newLookup(
		&fakeClient{name: "old", snapshot: snapshotAt("old", now.Add(-30*24*time.Hour))},
		&fakeClient{name: "new", snapshot: snapshotAt("new", now.Add(-time.Hour))},
	)

	snapshot, err := lookup.FindOrder(context.Background(), "#1234")
	require.NoError(t, err)
	assert.Equal(t, "new", snapshot.Store)
}

func TestFindOrder_CutoffExcludesStaleOrders(t *testing.T) {
	now := time.Now().UTC()
	lookup := newLookup(
		&fakeClient{name: "stale", snapshot: snapshotAt("stale", now.Add(-60*24*time.Hour))},
	)

	_, err := lookup.FindOrder(context.Background(), "#1234")
	assert.ErrorIs(t, err, store.ErrOrderNotFound)
}

func TestFindOrder_AllNotFound(t *testing.T) {
	lookup := newLookup(
		&fakeClient{name: "a", err: store.ErrOrderNotFound},
		&fakeClient{name: "b", err: store.ErrOrderNotFound},
	)

	_, err := lookup.FindOrder(context.Background(), "#1234")
	assert.ErrorIs(t, err, store.ErrOrderNotFound)
}

func TestFindOrder_FailureWithoutMatchIsLookupFailed(t *testing.T) {
	// one store down, the other has no match: the order's existence is
	// unknown, which must not read as a definitive not-found
	lookup := newLookup(
		&fakeClient{name: "a", err: store.ErrStoreUnavailable},
		&fakeClient{name: "b", err: store.ErrOrderNotFound},
	)

	_, err := lookup.FindOrder(context.Background(), "#1234")
	assert.ErrorIs(t, err, store.ErrLookupFailed)
}

func TestFindOrder_MatchSurvivesOtherStoreFailure(t *testing.T) {
	lookup := newLookup(
		&fakeClient{name: "a", err: store.ErrStoreUnavailable},
		&fakeClient{name: "b", snapshot: snapshotAt("b", time.Now().UTC().Add(-time.Hour))},
	)

	snapshot, err := lookup.FindOrder(context.Background(), "#1234")
	require.NoError(t, err)
	assert.Equal(t, "b", snapshot.Store)
}

func TestFindOrder_NoClientsConfigured(t *testing.T) {
	lookup := newLookup()

	_, err := lookup.FindOrder(context.Background(), "#1234")
	assert.ErrorIs(t, err, store.ErrOrderNotFound)
}
