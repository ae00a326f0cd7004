package scanning

import (
	"time"

	"github.com/google/uuid"

	"github.com/chafiq1992/order-scanner/internal/domain/scanning"
)

// ScanRequest represents a barcode scan attempt
type ScanRequest struct {
	Barcode string `json:"barcode" binding:"required,max=100,barcode"`
	// ConfirmDuplicate resubmits a scan the pipeline previously answered
	// with needs_confirmation
	ConfirmDuplicate bool `json:"confirm_duplicate"`
}

// ScanResponse represents the outcome of a scan attempt
type ScanResponse struct {
	Decision          string     `json:"decision"`
	Reason            string     `json:"reason,omitempty"`
	OrderName         string     `json:"order_name"`
	Store             string     `json:"store,omitempty"`
	Tags              string     `json:"tags,omitempty"`
	DeliveryTag       string     `json:"delivery_tag,omitempty"`
	FulfillmentStatus string     `json:"fulfillment_status,omitempty"`
	FinancialStatus   string     `json:"financial_status,omitempty"`
	Result            string     `json:"result,omitempty"`
	ScanID            *uuid.UUID `json:"scan_id,omitempty"`
	ScannedAt         *time.Time `json:"scanned_at,omitempty"`
}

// UpdateScanRequest represents operator corrections to a recorded scan
type UpdateScanRequest struct {
	Tags   *string `json:"tags" binding:"omitempty,max=500"`
	Driver *string `json:"driver" binding:"omitempty,max=100"`
	Result *string `json:"result" binding:"omitempty,max=100"`
	COD    *bool   `json:"cod"`
}

// ScanRecordResponse represents a ledger entry in API responses
type ScanRecordResponse struct {
	ID                uuid.UUID `json:"id"`
	OrderName         string    `json:"order_name"`
	RawBarcode        string    `json:"raw_barcode"`
	Store             string    `json:"store"`
	Phone             string    `json:"phone"`
	Tags              string    `json:"tags"`
	DeliveryTag       string    `json:"delivery_tag"`
	FulfillmentStatus string    `json:"fulfillment_status"`
	FinancialStatus   string    `json:"financial_status"`
	Result            string    `json:"result"`
	Driver            string    `json:"driver"`
	COD               bool      `json:"cod"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TagSummaryResponse represents delivery-tag counts for one day
type TagSummaryResponse struct {
	Date   string             `json:"date"`
	Counts []TagCountResponse `json:"counts"`
}

// TagCountResponse is one delivery tag with its scan count
type TagCountResponse struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

// StoreSummaryResponse represents delivery-tag counts per store
type StoreSummaryResponse struct {
	Counts []StoreTagCountResponse `json:"counts"`
}

// StoreTagCountResponse is one store/tag pair with its scan count
type StoreTagCountResponse struct {
	Store string `json:"store"`
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

// toScanRecordResponse converts a domain record to its API shape
func toScanRecordResponse(r *scanning.ScanRecord) *ScanRecordResponse {
	return &ScanRecordResponse{
		ID:                r.ID,
		OrderName:         r.OrderName,
		RawBarcode:        r.RawBarcode,
		Store:             r.Store,
		Phone:             r.Phone,
		Tags:              r.Tags,
		DeliveryTag:       r.DeliveryTag,
		FulfillmentStatus: r.FulfillmentStatus,
		FinancialStatus:   r.FinancialStatus,
		Result:            r.Result,
		Driver:            r.Driver,
		COD:               r.COD,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}
