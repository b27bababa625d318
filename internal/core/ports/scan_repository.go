package ports

import (
	"context"

	"routesync/internal/core/domain/model/kernel"
	"routesync/internal/core/domain/model/order"
	"routesync/internal/core/domain/model/scan"
)

// ScanEventRepository defines the persistence contract for scan events.
// Events are append-only: once recorded they are never updated or deleted.
type ScanEventRepository interface {
	// Add persists a new scan event.
	Add(ctx context.Context, aggregate *scan.Event) error

	// Find retrieves the event matching the deduplication triple, or an
	// errs.ObjectNotFoundError when the combination has not been scanned.
	Find(ctx context.Context, orderID kernel.UUID, driverID kernel.UUID, scanType scan.Type) (*scan.Event, error)
}

// StatusHistoryRepository defines the persistence contract for the order
// status audit trail.
type StatusHistoryRepository interface {
	// Add appends a status history entry.
	Add(ctx context.Context, entry order.StatusHistoryEntry) error
}
