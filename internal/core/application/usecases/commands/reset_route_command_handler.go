package commands

import (
	"context"

	"routesync/internal/core/domain/model/order"
	"routesync/internal/core/ports"
	"routesync/internal/pkg/locker"
)

// ResetRouteResult carries the driver's open orders left after the route was
// discarded, in creation order rather than any planned sequence.
type ResetRouteResult struct {
	RemainingOrders []*order.Order
}

// ResetRouteCommandHandler discards a driver's stored route. Resetting when
// no route exists succeeds: the outcome the driver asked for already holds.
type ResetRouteCommandHandler struct {
	uowFactory OrderUoWFactory
	routeStore ports.RouteStore
	locks      *locker.KeyedMutex
}

// NewResetRouteCommandHandler creates a handler for route reset operations.
func NewResetRouteCommandHandler(
	uowFactory OrderUoWFactory,
	routeStore ports.RouteStore,
	locks *locker.KeyedMutex,
) ResetRouteCommandHandler {
	return ResetRouteCommandHandler{
		uowFactory: uowFactory,
		routeStore: routeStore,
		locks:      locks,
	}
}

// Handle clears the stored route and returns the driver's still-open orders.
func (h *ResetRouteCommandHandler) Handle(ctx context.Context, cmd ResetRouteCommand) (ResetRouteResult, error) {
	if err := cmd.Validate(); err != nil {
		return ResetRouteResult{}, err
	}

	key := cmd.DriverID().String()
	h.locks.Lock(key)
	defer h.locks.Unlock(key)

	if err := h.routeStore.Clear(ctx, cmd.DriverID()); err != nil {
		return ResetRouteResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ResetRouteResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	remaining, err := uow.OrderRepository().GetAllForDriver(ctx, cmd.DriverID(),
		order.Assigned, order.PickedUp, order.InTransit)
	if err != nil {
		return ResetRouteResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ResetRouteResult{}, err
	}

	return ResetRouteResult{RemainingOrders: remaining}, nil
}
