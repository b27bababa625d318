package ports

import (
	"context"

	"routesync/internal/core/domain/model/kernel"
	"routesync/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying order entities
// based on their status and driver assignment.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByReference resolves an order from a scanner payload. The reference
	// is matched against the order number first, then the barcode, then
	// parsed as an order ID. Returns errs.ObjectNotFoundError when nothing
	// matches.
	GetByReference(ctx context.Context, reference string) (*order.Order, error)

	// GetAllForDriver retrieves the driver's orders in the given statuses,
	// ordered by creation time. An empty status list matches all statuses.
	GetAllForDriver(ctx context.Context, driverID kernel.UUID, statuses ...order.Status) ([]*order.Order, error)
}
