// Package route contains the optimized route aggregate: one driver's planned
// visiting sequence. Sequence numbers are minted once when a route is planned
// and never renumbered afterwards, so a stop's number always denotes its
// position in the original plan even after earlier stops complete.
package route

import (
	"errors"
	"fmt"
	"time"

	"routesync/internal/core/domain/model/kernel"
	"routesync/internal/pkg/errs"
)

var (
	// ErrRouteIsNotConstructed is returned when a Route instance was not
	// created through NewRoute or RestoreRoute.
	ErrRouteIsNotConstructed = errors.New("Route must be created via NewRoute or RestoreRoute")

	// ErrRouteHasNoStops rejects construction of an empty route. A route with
	// zero stops is always a bug signal, never a valid state.
	ErrRouteHasNoStops = errs.NewValueIsRequiredError("route requires at least one stop")
)

// Stop is one position within a route: a reference to an order plus a snapshot
// of its capability flags. The snapshot is only trustworthy at the moment it
// was reconciled against the live order; readers must refresh it before acting
// on it.
type Stop struct {
	OrderID  kernel.UUID
	Sequence int

	CanStart    bool
	CanDeliver  bool
	CanComplete bool
}

// Route is a driver's current optimized plan. Stops are held in visiting
// order with strictly increasing sequence numbers.
type Route struct {
	id        kernel.UUID
	driverID  kernel.UUID
	stops     []Stop
	createdAt time.Time
	updatedAt time.Time
	isActive  bool

	isConstructed bool
}

// NewRoute creates an active route from a freshly planned stop sequence.
// The stop list must be non-empty with strictly increasing sequence numbers
// starting at or above 1.
func NewRoute(id kernel.UUID, driverID kernel.UUID, stops []Stop) (*Route, error) {
	now := time.Now().UTC()
	return RestoreRoute(id, driverID, stops, now, now, true)
}

// RestoreRoute reconstructs a route from a persisted snapshot. Unlike NewRoute
// it accepts sequence gaps, because completing stops removes entries without
// renumbering the remainder.
func RestoreRoute(
	id kernel.UUID,
	driverID kernel.UUID,
	stops []Stop,
	createdAt time.Time,
	updatedAt time.Time,
	isActive bool,
) (*Route, error) {
	if err := errors.Join(id.Validate(), driverID.Validate()); err != nil {
		return nil, err
	}
	if len(stops) == 0 {
		return nil, ErrRouteHasNoStops
	}
	if err := validateStops(stops); err != nil {
		return nil, err
	}

	r := &Route{
		id:            id,
		driverID:      driverID,
		stops:         make([]Stop, len(stops)),
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isActive:      isActive,
		isConstructed: true,
	}
	copy(r.stops, stops)
	return r, nil
}

// validateStops checks that sequence numbers are >= 1, strictly increasing,
// and that no order appears twice.
func validateStops(stops []Stop) error {
	seen := make(map[kernel.UUID]struct{}, len(stops))
	prev := 0
	for _, s := range stops {
		if err := s.OrderID.Validate(); err != nil {
			return err
		}
		if s.Sequence <= prev {
			return errs.NewValueIsInvalidErrorWithCause("stops",
				fmt.Errorf("sequence %d is not strictly increasing", s.Sequence))
		}
		if _, dup := seen[s.OrderID]; dup {
			return errs.NewValueIsInvalidErrorWithCause("stops",
				fmt.Errorf("order %s appears more than once", s.OrderID))
		}
		seen[s.OrderID] = struct{}{}
		prev = s.Sequence
	}
	return nil
}

// Validate ensures the Route was created through a factory function.
func (r *Route) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRouteIsNotConstructed
	}
	return nil
}

// ID returns the route identifier.
func (r *Route) ID() kernel.UUID {
	return r.id
}

// DriverID returns the owning driver's identifier.
func (r *Route) DriverID() kernel.UUID {
	return r.driverID
}

// Stops returns a copy of the stop list in visiting order.
func (r *Route) Stops() []Stop {
	out := make([]Stop, len(r.stops))
	copy(out, r.stops)
	return out
}

// StopCount returns the number of remaining stops.
func (r *Route) StopCount() int {
	return len(r.stops)
}

// FindStop returns the stop referencing the given order, if present.
func (r *Route) FindStop(orderID kernel.UUID) (Stop, bool) {
	for _, s := range r.stops {
		if s.OrderID.IsEqual(orderID) {
			return s, true
		}
	}
	return Stop{}, false
}

// CreatedAt returns the planning timestamp.
func (r *Route) CreatedAt() time.Time {
	return r.createdAt
}

// UpdatedAt returns the last-modification timestamp.
func (r *Route) UpdatedAt() time.Time {
	return r.updatedAt
}

// IsActive reports whether the route is still being driven.
func (r *Route) IsActive() bool {
	return r.isActive
}

// Deactivate ends the route. Safe to call repeatedly.
func (r *Route) Deactivate() {
	if !r.isActive {
		return
	}
	r.isActive = false
	r.updatedAt = time.Now().UTC()
}

// CompleteStop removes the stop for a delivered order, leaving the remaining
// sequence numbers untouched. Returns false when the order is not on the
// route, which callers treat as an already-advanced no-op rather than an
// error. When the last stop completes the route deactivates itself.
func (r *Route) CompleteStop(orderID kernel.UUID) bool {
	for i, s := range r.stops {
		if !s.OrderID.IsEqual(orderID) {
			continue
		}
		r.stops = append(r.stops[:i], r.stops[i+1:]...)
		r.updatedAt = time.Now().UTC()
		if len(r.stops) == 0 {
			r.isActive = false
		}
		return true
	}
	return false
}
