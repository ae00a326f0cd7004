package scanning

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/chafiq1992/order-scanner/internal/domain/scanning"
	"github.com/chafiq1992/order-scanner/internal/domain/shared"
	"github.com/chafiq1992/order-scanner/internal/domain/store"
)

// resultNotFound is reported to the operator when no store knows the
// order. Nothing is written to the ledger in that case.
const resultNotFound = "Not Found"

// OrderLookup is the lookup port the scan pipeline depends on
type OrderLookup interface {
	FindOrder(ctx context.Context, orderName string) (*store.OrderSnapshot, error)
}

// ScanServiceConfig holds the scan pipeline tunables
type ScanServiceConfig struct {
	MaxBarcodeDigits int
	PhoneCountryCode string
	LockTTL          time.Duration
}

// ScanService runs the scan pipeline: normalize the barcode, look the
// order up, classify against recent history, and record accepted scans.
// The check-then-write sequence runs under a per-order lock so two
// concurrent scans of one barcode cannot both pass the duplicate check.
type ScanService struct {
	repo   scanning.ScanRepository
	lookup OrderLookup
	lock   shared.ScanLock
	policy *scanning.DuplicatePolicy
	cfg    ScanServiceConfig
	logger *zap.Logger
}

// NewScanService creates a new ScanService
func NewScanService(
	repo scanning.ScanRepository,
	lookup OrderLookup,
	lock shared.ScanLock,
	policy *scanning.DuplicatePolicy,
	cfg ScanServiceConfig,
	logger *zap.Logger,
) *ScanService {
	if cfg.MaxBarcodeDigits <= 0 {
		cfg.MaxBarcodeDigits = scanning.DefaultMaxBarcodeDigits
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = shared.DefaultScanLockConfig().TTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScanService{
		repo:   repo,
		lookup: lookup,
		lock:   lock,
		policy: policy,
		cfg:    cfg,
		logger: logger,
	}
}

// Scan processes one barcode scan attempt
func (s *ScanService) Scan(ctx context.Context, req ScanRequest) (*ScanResponse, error) {
	orderName, err := scanning.NormalizeBarcode(req.Barcode, s.cfg.MaxBarcodeDigits)
	if err != nil {
		return nil, err
	}

	acquired, err := s.lock.Acquire(ctx, orderName, s.cfg.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("scan lock: %w", err)
	}
	if !acquired {
		return &ScanResponse{
			Decision:  scanning.DecisionReject.String(),
			Reason:    fmt.Sprintf("another scan of order %s is in progress", orderName),
			OrderName: orderName,
		}, nil
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx), orderName); err != nil {
			s.logger.Warn("failed to release scan lock",
				zap.String("order", orderName), zap.Error(err))
		}
	}()

	// Same-order check first: a repeat scan must be refused without
	// spending a store API call.
	sameOrder, err := s.repo.FindRecentByOrderName(ctx, orderName, s.policy.OrderWindow())
	if err != nil {
		return nil, err
	}
	if verdict := s.policy.Classify(scanning.ClassifyInput{
		OrderName:       orderName,
		RecentSameOrder: sameOrder,
	}); !verdict.Accepted() {
		return &ScanResponse{
			Decision:  verdict.Decision.String(),
			Reason:    verdict.Reason,
			OrderName: orderName,
		}, nil
	}

	snapshot, err := s.lookup.FindOrder(ctx, orderName)
	if err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			return &ScanResponse{
				Decision:  scanning.DecisionReject.String(),
				Reason:    fmt.Sprintf("order %s not found in any store", orderName),
				OrderName: orderName,
				Result:    resultNotFound,
			}, nil
		}
		return nil, err
	}

	deliveryTag := scanning.DetectDeliveryTag(snapshot.Tags)
	result := scanResult(snapshot)

	// An unfulfilled order with no delivery tag is not ready to ship;
	// scanning it is an operator mistake.
	if result == scanning.ResultUnfulfilled && deliveryTag == "" {
		return &ScanResponse{
			Decision:          scanning.DecisionReject.String(),
			Reason:            fmt.Sprintf("order %s is unfulfilled and has no delivery tag", orderName),
			OrderName:         orderName,
			Store:             snapshot.Store,
			Tags:              snapshot.Tags,
			FulfillmentStatus: snapshot.FulfillmentStatus,
			FinancialStatus:   snapshot.FinancialStatus,
			Result:            result,
		}, nil
	}

	phone := scanning.NormalizePhone(snapshot.Phone, s.cfg.PhoneCountryCode)

	var samePhone []scanning.ScanRecord
	if phone != "" {
		samePhone, err = s.repo.FindRecentByPhone(ctx, phone, s.policy.PhoneWindow())
		if err != nil {
			return nil, err
		}
	}

	verdict := s.policy.Classify(scanning.ClassifyInput{
		OrderName:        orderName,
		Phone:            phone,
		ConfirmDuplicate: req.ConfirmDuplicate,
		RecentSameOrder:  sameOrder,
		RecentSamePhone:  samePhone,
	})
	if !verdict.Accepted() {
		return &ScanResponse{
			Decision:    verdict.Decision.String(),
			Reason:      verdict.Reason,
			OrderName:   orderName,
			Store:       snapshot.Store,
			Tags:        snapshot.Tags,
			DeliveryTag: deliveryTag,
			Result:      result,
		}, nil
	}

	record, err := scanning.NewScanRecord(orderName, req.Barcode)
	if err != nil {
		return nil, err
	}
	record.Store = snapshot.Store
	record.Phone = phone
	record.Tags = snapshot.Tags
	record.DeliveryTag = deliveryTag
	record.FulfillmentStatus = snapshot.FulfillmentStatus
	record.FinancialStatus = snapshot.FinancialStatus
	record.Result = result
	record.COD = hasCODTag(snapshot.Tags)

	if err := s.repo.Insert(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("scan accepted",
		zap.String("order", orderName),
		zap.String("store", snapshot.Store),
		zap.String("delivery_tag", deliveryTag),
		zap.String("result", result),
	)

	return &ScanResponse{
		Decision:          scanning.DecisionAccept.String(),
		OrderName:         orderName,
		Store:             snapshot.Store,
		Tags:              snapshot.Tags,
		DeliveryTag:       deliveryTag,
		FulfillmentStatus: snapshot.FulfillmentStatus,
		FinancialStatus:   snapshot.FinancialStatus,
		Result:            result,
		ScanID:            &record.ID,
		ScannedAt:         &record.CreatedAt,
	}, nil
}

// scanResult maps the store's view of the order to the result string
// shown on the scanner screen
func scanResult(snapshot *store.OrderSnapshot) string {
	switch {
	case snapshot.Cancelled:
		return scanning.ResultCancelled
	case snapshot.Fulfilled():
		return scanning.ResultOK
	default:
		return scanning.ResultUnfulfilled
	}
}

// hasCODTag reports whether the order is tagged cash-on-delivery
func hasCODTag(tags string) bool {
	for _, tok := range strings.FieldsFunc(strings.ToLower(tags), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	}) {
		if tok == "cod" {
			return true
		}
	}
	return false
}
