// Package scanrepo provides data transfer objects and mapping functions for
// scan event and status history persistence. Scan events carry a unique index
// over the (order, driver, scan type) triple so the database enforces the
// deduplication invariant even under concurrent writers.
package scanrepo

import (
	"time"

	"routesync/internal/core/domain/model/kernel"
	"routesync/internal/core/domain/model/order"
	"routesync/internal/core/domain/model/scan"

	"github.com/google/uuid"
)

// ScanEventDTO represents the database structure for persisting scan events.
type ScanEventDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_scan_dedupe"`
	DriverID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_scan_dedupe"`
	ScanType    string    `gorm:"uniqueIndex:idx_scan_dedupe"`
	BarcodeData string
	Lat         *float64
	Lng         *float64
	Notes       string
	ScannedAt   time.Time `gorm:"index"`
}

// TableName specifies the database table name for scan events.
func (ScanEventDTO) TableName() string {
	return "parcel_scans"
}

// StatusHistoryDTO represents the database structure for the order status
// audit trail.
type StatusHistoryDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;index"`
	PreviousStatus string
	NewStatus      string
	ActorID        uuid.UUID `gorm:"type:uuid"`
	ScanEventID    *uuid.UUID
	Notes          string
	CreatedAt      time.Time
}

// TableName specifies the database table name for status history entries.
func (StatusHistoryDTO) TableName() string {
	return "order_updates"
}

// eventFromDomain converts a scan event aggregate to its database representation.
func eventFromDomain(aggregate *scan.Event) ScanEventDTO {
	var lat, lng *float64
	if loc := aggregate.Location(); loc != nil {
		latVal, lngVal := loc.Latitude(), loc.Longitude()
		lat, lng = &latVal, &lngVal
	}

	return ScanEventDTO{
		ID:          aggregate.ID().Bytes(),
		OrderID:     aggregate.OrderID().Bytes(),
		DriverID:    aggregate.DriverID().Bytes(),
		ScanType:    aggregate.ScanType().String(),
		BarcodeData: aggregate.BarcodeData(),
		Lat:         lat,
		Lng:         lng,
		Notes:       aggregate.Notes(),
		ScannedAt:   aggregate.ScannedAt(),
	}
}

// eventToDomain converts a database row to a scan event aggregate.
func eventToDomain(dto ScanEventDTO) (*scan.Event, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return nil, err
	}

	var location *kernel.Location
	if dto.Lat != nil && dto.Lng != nil {
		loc, locErr := kernel.NewLocation(*dto.Lat, *dto.Lng)
		if locErr != nil {
			return nil, locErr
		}
		location = &loc
	}

	return scan.RestoreEvent(
		id, orderID, driverID,
		scan.Type(dto.ScanType), dto.BarcodeData, location,
		dto.Notes, dto.ScannedAt,
	)
}

// historyFromDomain converts a status history entry to its database representation.
func historyFromDomain(entry order.StatusHistoryEntry) StatusHistoryDTO {
	var scanEventID *uuid.UUID
	if entry.ScanEventID != nil {
		raw := entry.ScanEventID.Bytes()
		scanEventID = &raw
	}

	return StatusHistoryDTO{
		ID:             entry.ID.Bytes(),
		OrderID:        entry.OrderID.Bytes(),
		PreviousStatus: entry.PreviousStatus.String(),
		NewStatus:      entry.NewStatus.String(),
		ActorID:        entry.ActorID.Bytes(),
		ScanEventID:    scanEventID,
		Notes:          entry.Notes,
		CreatedAt:      entry.CreatedAt,
	}
}
