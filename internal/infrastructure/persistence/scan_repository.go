package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/chafiq1992/order-scanner/internal/domain/scanning"
	"github.com/chafiq1992/order-scanner/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormScanRepository implements scanning.ScanRepository using GORM
type GormScanRepository struct {
	db *gorm.DB
}

// NewGormScanRepository creates a new GormScanRepository
func NewGormScanRepository(db *gorm.DB) *GormScanRepository {
	return &GormScanRepository{db: db}
}

var _ scanning.ScanRepository = (*GormScanRepository)(nil)

// Insert appends an accepted scan to the ledger
func (r *GormScanRepository) Insert(ctx context.Context, record *scanning.ScanRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID finds a scan record by its ID
func (r *GormScanRepository) FindByID(ctx context.Context, id uuid.UUID) (*scanning.ScanRecord, error) {
	var record scanning.ScanRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindRecentByOrderName returns scans of the given order inside the
// window, newest first. The window is half-open: a record exactly
// window old no longer matches.
func (r *GormScanRepository) FindRecentByOrderName(ctx context.Context, orderName string, window time.Duration) ([]scanning.ScanRecord, error) {
	now := time.Now().UTC()
	var records []scanning.ScanRecord
	err := r.db.WithContext(ctx).
		Where("order_name = ? AND created_at > ? AND created_at <= ?", orderName, now.Add(-window), now).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// FindRecentByPhone returns scans carrying the given phone inside the
// window, newest first
func (r *GormScanRepository) FindRecentByPhone(ctx context.Context, phone string, window time.Duration) ([]scanning.ScanRecord, error) {
	now := time.Now().UTC()
	var records []scanning.ScanRecord
	err := r.db.WithContext(ctx).
		Where("phone = ? AND created_at > ? AND created_at <= ?", phone, now.Add(-window), now).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListByDate returns scans for one UTC calendar day, optionally
// filtered by delivery tag and store, newest first
func (r *GormScanRepository) ListByDate(ctx context.Context, filter scanning.ListFilter) ([]scanning.ScanRecord, error) {
	from, to := dayBounds(filter.Date)
	q := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to)
	if filter.Tag != "" {
		q = q.Where("delivery_tag = ?", filter.Tag)
	}
	if filter.Store != "" {
		q = q.Where("store = ?", filter.Store)
	}

	var records []scanning.ScanRecord
	if err := q.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Update persists operator corrections to an existing record
func (r *GormScanRepository) Update(ctx context.Context, id uuid.UUID, update scanning.ScanUpdate) (*scanning.ScanRecord, error) {
	var record scanning.ScanRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&record, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}
		record.ApplyCorrection(update)
		return tx.Save(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Delete removes a scan record from the ledger
func (r *GormScanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&scanning.ScanRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountTagsByDate counts scans per canonical delivery tag for one UTC day.
// Scans without a recognized tag are grouped under the empty string.
func (r *GormScanRepository) CountTagsByDate(ctx context.Context, date time.Time) ([]scanning.TagCount, error) {
	from, to := dayBounds(date)
	var counts []scanning.TagCount
	err := r.db.WithContext(ctx).
		Model(&scanning.ScanRecord{}).
		Select("delivery_tag AS tag, COUNT(*) AS count").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("delivery_tag").
		Order("count DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// CountTagsByStore counts scans per store and delivery tag across the
// whole ledger
func (r *GormScanRepository) CountTagsByStore(ctx context.Context) ([]scanning.StoreTagCount, error) {
	var counts []scanning.StoreTagCount
	err := r.db.WithContext(ctx).
		Model(&scanning.ScanRecord{}).
		Select("store, delivery_tag AS tag, COUNT(*) AS count").
		Group("store").
		Group("delivery_tag").
		Order("store").
		Order("count DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// dayBounds returns the [start, end) bounds of the UTC calendar day
// containing t.
func dayBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return from, from.Add(24 * time.Hour)
}
