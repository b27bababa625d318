package scanrepo

import (
	"context"
	"errors"
	"fmt"

	"routesync/internal/core/domain/model/kernel"
	"routesync/internal/core/domain/model/order"
	"routesync/internal/core/domain/model/scan"
	"routesync/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormScanEventRepository implements ScanEventRepository using GORM.
type GormScanEventRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormScanEventRepository creates a new GORM scan event repository.
func NewGormScanEventRepository(db *gorm.DB, tracker aggregateTracker) *GormScanEventRepository {
	return &GormScanEventRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new scan event to the database.
func (r *GormScanEventRepository) Add(ctx context.Context, aggregate *scan.Event) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := eventFromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Find retrieves the scan event matching the deduplication triple.
func (r *GormScanEventRepository) Find(
	ctx context.Context,
	orderID kernel.UUID,
	driverID kernel.UUID,
	scanType scan.Type,
) (*scan.Event, error) {
	if err := errors.Join(orderID.Validate(), driverID.Validate(), scanType.Validate()); err != nil {
		return nil, err
	}

	var dto ScanEventDTO
	err := r.db.WithContext(ctx).
		First(&dto, "order_id = ? AND driver_id = ? AND scan_type = ?",
			orderID.Bytes(), driverID.Bytes(), scanType.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("scan event",
				fmt.Sprintf("%s/%s/%s", orderID, driverID, scanType))
		}
		return nil, err
	}

	return eventToDomain(dto)
}

// GormStatusHistoryRepository implements StatusHistoryRepository using GORM.
type GormStatusHistoryRepository struct {
	db *gorm.DB
}

// NewGormStatusHistoryRepository creates a new GORM status history repository.
func NewGormStatusHistoryRepository(db *gorm.DB) *GormStatusHistoryRepository {
	return &GormStatusHistoryRepository{db: db}
}

// Add appends a status history entry.
func (r *GormStatusHistoryRepository) Add(ctx context.Context, entry order.StatusHistoryEntry) error {
	if err := errors.Join(entry.ID.Validate(), entry.OrderID.Validate(), entry.ActorID.Validate()); err != nil {
		return err
	}

	dto := historyFromDomain(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}
