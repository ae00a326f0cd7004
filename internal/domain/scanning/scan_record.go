package scanning

import (
	"strings"
	"time"

	"github.com/chafiq1992/order-scanner/internal/domain/shared"
)

// Scan outcome strings recorded on accepted scans. These mirror what
// the operator sees on the scanner screen.
const (
	ResultOK          = "OK"
	ResultCancelled   = "Cancelled"
	ResultUnfulfilled = "Unfulfilled"
)

// ScanRecord is one accepted scan in the ledger. It is the aggregate
// root of the scanning context: created when a scan is accepted,
// changed afterwards only through ApplyCorrection or deletion by an
// operator.
type ScanRecord struct {
	shared.BaseEntity
	OrderName         string `gorm:"column:order_name;type:varchar(20);not null;index"`
	RawBarcode        string `gorm:"column:raw_barcode;type:varchar(100)"`
	Store             string `gorm:"column:store;type:varchar(100);index"`
	Phone             string `gorm:"column:phone;type:varchar(30);index"`
	Tags              string `gorm:"column:tags;type:text"`
	DeliveryTag       string `gorm:"column:delivery_tag;type:varchar(20);index"`
	FulfillmentStatus string `gorm:"column:fulfillment_status;type:varchar(30)"`
	FinancialStatus   string `gorm:"column:financial_status;type:varchar(30)"`
	Result            string `gorm:"column:result;type:varchar(100)"`
	Driver            string `gorm:"column:driver;type:varchar(100)"`
	COD               bool   `gorm:"column:cod;not null;default:false"`
}

// TableName returns the table name for GORM
func (ScanRecord) TableName() string {
	return "scans"
}

// NewScanRecord creates a ledger entry for an accepted scan. orderName
// must already be in canonical "#<digits>" form and phone in normalized
// digits-only form; the record never re-normalizes.
func NewScanRecord(orderName, rawBarcode string) (*ScanRecord, error) {
	if !strings.HasPrefix(orderName, "#") || len(orderName) < 2 {
		return nil, shared.NewDomainError("INVALID_ORDER_NAME", "Order name must be in canonical #<digits> form")
	}
	return &ScanRecord{
		BaseEntity: shared.NewBaseEntity(),
		OrderName:  orderName,
		RawBarcode: rawBarcode,
	}, nil
}

// ScanUpdate carries the fields an operator may correct after the fact.
// Nil fields are left untouched.
type ScanUpdate struct {
	Tags   *string
	Driver *string
	Result *string
	COD    *bool
}

// IsEmpty returns true when the update would change nothing
func (u ScanUpdate) IsEmpty() bool {
	return u.Tags == nil && u.Driver == nil && u.Result == nil && u.COD == nil
}

// ApplyCorrection mutates the record through the explicit correction
// path. Changing tags re-derives the delivery tag so routing summaries
// stay consistent.
func (r *ScanRecord) ApplyCorrection(update ScanUpdate) {
	if update.Tags != nil {
		r.Tags = *update.Tags
		r.DeliveryTag = DetectDeliveryTag(*update.Tags)
	}
	if update.Driver != nil {
		r.Driver = *update.Driver
	}
	if update.Result != nil {
		r.Result = *update.Result
	}
	if update.COD != nil {
		r.COD = *update.COD
	}
	r.UpdatedAt = time.Now().UTC()
}
