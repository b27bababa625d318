// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"
	"time"

	"routesync/internal/core/domain/model/kernel"
	"routesync/internal/core/domain/model/order"
	"routesync/internal/pkg/guard"
)

var ErrGetRouteQueryIsNotConstructed = errors.New(
	"GetRouteQuery must be created via NewGetRouteQuery constructor",
)

// GetRouteQuery retrieves a driver's current route, reconciled against live
// order state.
//
// Example:
//
//	query, _ := NewGetRouteQuery(driverID)
//	view, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	if !view.Optimized {
//	    // no stored route survived, stops are in creation order
//	}
type GetRouteQuery struct {
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetRouteQuery creates a query for the driver's current route.
func NewGetRouteQuery(driverID kernel.UUID) (GetRouteQuery, error) {
	if err := driverID.Validate(); err != nil {
		return GetRouteQuery{}, err
	}

	return GetRouteQuery{
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetRouteQuery) Validate() error {
	return q.guard.Validate(ErrGetRouteQueryIsNotConstructed)
}

// DriverID returns the driver whose route is requested.
func (q GetRouteQuery) DriverID() kernel.UUID {
	return q.driverID
}

// RouteStopView is one stop joined with live order details. The capability
// flags are recomputed from the order's current status at read time, never
// served from the stored snapshot. Sequence is nil in the unsequenced
// fallback: only the optimizer mints stop numbers.
type RouteStopView struct {
	OrderID         kernel.UUID
	Sequence        *int
	OrderNumber     string
	CustomerName    string
	DeliveryAddress string
	Location        *kernel.Location
	Priority        order.Priority
	Status          order.Status

	CanStart    bool
	CanDeliver  bool
	CanComplete bool
}

// GetRouteQueryResponse is the reconciled route view. When no stored route
// survives reconciliation, Optimized is false and Stops lists the driver's
// open orders in creation order.
type GetRouteQueryResponse struct {
	RouteID   *kernel.UUID
	Optimized bool
	Stops     []RouteStopView
	UpdatedAt time.Time
}
