package commands

import (
	"context"
	"errors"
	"log/slog"

	"routesync/internal/core/domain/model/kernel"
	"routesync/internal/core/domain/model/order"
	"routesync/internal/core/domain/model/route"
	"routesync/internal/core/domain/services"
	"routesync/internal/core/ports"
	"routesync/internal/pkg/locker"
)

// ErrNothingToOptimize is returned when the driver has no sequenceable orders:
// nothing assigned, or every assigned order lacks delivery coordinates.
var ErrNothingToOptimize = errors.New("nothing to optimize")

// OptimizeRouteResult carries the freshly planned route and the orders the
// planner had to leave out.
type OptimizeRouteResult struct {
	Route   *route.Route
	Skipped []services.SkippedOrder
}

// OptimizeRouteCommandHandler plans a driver's visiting sequence over their
// open orders and stores it as the driver's current route, replacing any
// previous one.
type OptimizeRouteCommandHandler struct {
	uowFactory    OrderUoWFactory
	routeStore    ports.RouteStore
	planner       services.RoutePlanner
	locks         *locker.KeyedMutex
	defaultOrigin kernel.Location
}

// NewOptimizeRouteCommandHandler creates a handler for route planning
// operations. defaultOrigin is used when the command carries no driver
// position, typically the depot.
func NewOptimizeRouteCommandHandler(
	uowFactory OrderUoWFactory,
	routeStore ports.RouteStore,
	planner services.RoutePlanner,
	locks *locker.KeyedMutex,
	defaultOrigin kernel.Location,
) OptimizeRouteCommandHandler {
	return OptimizeRouteCommandHandler{
		uowFactory:    uowFactory,
		routeStore:    routeStore,
		planner:       planner,
		locks:         locks,
		defaultOrigin: defaultOrigin,
	}
}

// Handle plans and persists the route. Orders in assigned, picked_up, or
// in_transit status are candidates; the planner reports the rest as skipped.
// Returns ErrNothingToOptimize when no candidate can be sequenced.
func (h *OptimizeRouteCommandHandler) Handle(
	ctx context.Context,
	cmd OptimizeRouteCommand,
) (OptimizeRouteResult, error) {
	if err := cmd.Validate(); err != nil {
		return OptimizeRouteResult{}, err
	}

	key := cmd.DriverID().String()
	h.locks.Lock(key)
	defer h.locks.Unlock(key)

	candidates, err := h.loadCandidates(ctx, cmd.DriverID())
	if err != nil {
		return OptimizeRouteResult{}, err
	}

	origin := h.defaultOrigin
	if cmd.Origin() != nil {
		origin = *cmd.Origin()
	} else {
		slog.Info("optimize route: no driver position, planning from default origin",
			"driver_id", key)
	}

	sequence, skipped, err := h.planner.Plan(origin, candidates)
	if err != nil {
		if errors.Is(err, services.ErrNothingToPlan) {
			return OptimizeRouteResult{Skipped: skipped}, ErrNothingToOptimize
		}
		return OptimizeRouteResult{}, err
	}

	stops := make([]route.Stop, 0, len(sequence))
	for i, o := range sequence {
		stops = append(stops, route.Stop{
			OrderID:     o.ID(),
			Sequence:    i + 1,
			CanStart:    o.CanStart(),
			CanDeliver:  o.CanDeliver(),
			CanComplete: o.CanComplete(),
		})
	}

	planned, err := route.NewRoute(kernel.NewUUID(), cmd.DriverID(), stops)
	if err != nil {
		return OptimizeRouteResult{}, err
	}

	if err = h.routeStore.Save(ctx, planned); err != nil {
		return OptimizeRouteResult{}, err
	}

	return OptimizeRouteResult{Route: planned, Skipped: skipped}, nil
}

// loadCandidates fetches the driver's orders still in play.
func (h *OptimizeRouteCommandHandler) loadCandidates(
	ctx context.Context,
	driverID kernel.UUID,
) ([]*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	candidates, err := uow.OrderRepository().GetAllForDriver(ctx, driverID,
		order.Assigned, order.PickedUp, order.InTransit)
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return candidates, nil
}
