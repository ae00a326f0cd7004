package scanning

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chafiq1992/order-scanner/internal/domain/store"
)

// OrderLookupService queries every configured store account for an
// order. Stores are queried concurrently; when several stores know the
// order, the newest one wins. Orders older than the cutoff are treated
// as not found so stale barcodes never match.
type OrderLookupService struct {
	clients []store.Client
	cutoff  time.Duration
	timeout time.Duration
	logger  *zap.Logger
}

// NewOrderLookupService creates a lookup service over the given store clients
func NewOrderLookupService(clients []store.Client, cutoff, timeout time.Duration, logger *zap.Logger) *OrderLookupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderLookupService{
		clients: clients,
		cutoff:  cutoff,
		timeout: timeout,
		logger:  logger,
	}
}

// FindOrder looks the order up across all stores. Returns
// store.ErrOrderNotFound only when every store definitively answered
// that it has no such order; when any store failed to answer and no
// match was found the result is store.ErrLookupFailed, since the
// order's existence is unknown.
func (s *OrderLookupService) FindOrder(ctx context.Context, orderName string) (*store.OrderSnapshot, error) {
	// Running with no stores configured is legal; every order is
	// simply unknown.
	if len(s.clients) == 0 {
		return nil, store.ErrOrderNotFound
	}

	type result struct {
		snapshot *store.OrderSnapshot
		err      error
	}

	results := make([]result, len(s.clients))
	var wg sync.WaitGroup
	for i, client := range s.clients {
		wg.Add(1)
		go func(i int, client store.Client) {
			defer wg.Done()
			callCtx := ctx
			if s.timeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(ctx, s.timeout)
				defer cancel()
			}
			snapshot, err := client.FindOrder(callCtx, orderName)
			results[i] = result{snapshot: snapshot, err: err}
		}(i, client)
	}
	wg.Wait()

	var best *store.OrderSnapshot
	lookupFailed := false
	cutoffAt := time.Now().UTC().Add(-s.cutoff)

	for i, res := range results {
		if res.err != nil {
			if errors.Is(res.err, store.ErrOrderNotFound) {
				continue
			}
			lookupFailed = true
			s.logger.Warn("store lookup failed",
				zap.String("store", s.clients[i].Name()),
				zap.String("order", orderName),
				zap.Error(res.err),
			)
			continue
		}
		if s.cutoff > 0 && res.snapshot.CreatedAt.Before(cutoffAt) {
			continue
		}
		if best == nil || res.snapshot.CreatedAt.After(best.CreatedAt) {
			best = res.snapshot
		}
	}

	if best != nil {
		return best, nil
	}
	if lookupFailed {
		return nil, store.ErrLookupFailed
	}
	return nil, store.ErrOrderNotFound
}
