package ports

import (
	"context"
	"time"

	"routesync/internal/core/domain/model/kernel"
	"routesync/internal/core/domain/model/route"
)

// RouteStore defines the durable per-driver route snapshot contract.
// At most one route is stored per driver; saving replaces any previous one.
type RouteStore interface {
	// Save persists the route as the driver's current snapshot, replacing
	// any existing one.
	Save(ctx context.Context, aggregate *route.Route) error

	// Load retrieves the driver's current route. Returns an
	// errs.ObjectNotFoundError when no snapshot exists or the stored one has
	// gone stale.
	Load(ctx context.Context, driverID kernel.UUID) (*route.Route, error)

	// Clear removes the driver's snapshot. Clearing an absent snapshot is
	// not an error.
	Clear(ctx context.Context, driverID kernel.UUID) error

	// CleanupStale deletes snapshots older than maxAge and reports how many
	// were removed.
	CleanupStale(ctx context.Context, maxAge time.Duration) (int, error)
}
