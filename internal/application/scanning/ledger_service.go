package scanning

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/chafiq1992/order-scanner/internal/domain/scanning"
	"github.com/chafiq1992/order-scanner/internal/domain/shared"
)

// LedgerService exposes the scan ledger to operators: listing a day's
// scans, correcting records after the fact, and the routing summaries.
type LedgerService struct {
	repo scanning.ScanRepository
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(repo scanning.ScanRepository) *LedgerService {
	return &LedgerService{repo: repo}
}

// ListQuery narrows a ledger listing
type ListQuery struct {
	Date  time.Time
	Tag   string
	Store string
}

// List returns the scans of one UTC day, newest first
func (s *LedgerService) List(ctx context.Context, query ListQuery) ([]ScanRecordResponse, error) {
	records, err := s.repo.ListByDate(ctx, scanning.ListFilter{
		Date:  query.Date,
		Tag:   query.Tag,
		Store: query.Store,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]ScanRecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, *toScanRecordResponse(&records[i]))
	}
	return responses, nil
}

// Get returns a single ledger entry
func (s *LedgerService) Get(ctx context.Context, id uuid.UUID) (*ScanRecordResponse, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toScanRecordResponse(record), nil
}

// Update applies operator corrections to a recorded scan
func (s *LedgerService) Update(ctx context.Context, id uuid.UUID, req UpdateScanRequest) (*ScanRecordResponse, error) {
	update := scanning.ScanUpdate{
		Tags:   req.Tags,
		Driver: req.Driver,
		Result: req.Result,
		COD:    req.COD,
	}
	if update.IsEmpty() {
		return nil, shared.NewDomainError("EMPTY_UPDATE", "Update contains no fields")
	}

	record, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}
	return toScanRecordResponse(record), nil
}

// Delete removes a scan from the ledger
func (s *LedgerService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// TagSummary returns delivery-tag counts for one UTC day
func (s *LedgerService) TagSummary(ctx context.Context, date time.Time) (*TagSummaryResponse, error) {
	counts, err := s.repo.CountTagsByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	resp := &TagSummaryResponse{
		Date:   date.UTC().Format("2006-01-02"),
		Counts: make([]TagCountResponse, 0, len(counts)),
	}
	for _, c := range counts {
		resp.Counts = append(resp.Counts, TagCountResponse{Tag: c.Tag, Count: c.Count})
	}
	return resp, nil
}

// StoreSummary returns delivery-tag counts per store across the ledger
func (s *LedgerService) StoreSummary(ctx context.Context) (*StoreSummaryResponse, error) {
	counts, err := s.repo.CountTagsByStore(ctx)
	if err != nil {
		return nil, err
	}

	resp := &StoreSummaryResponse{
		Counts: make([]StoreTagCountResponse, 0, len(counts)),
	}
	for _, c := range counts {
		resp.Counts = append(resp.Counts, StoreTagCountResponse{
			Store: c.Store,
			Tag:   c.Tag,
			Count: c.Count,
		})
	}
	return resp, nil
}
