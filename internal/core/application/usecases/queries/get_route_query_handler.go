package queries

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"routesync/internal/core/domain/model/kernel"
	"routesync/internal/core/domain/model/order"
	"routesync/internal/core/domain/model/route"
	"routesync/internal/core/ports"
	"routesync/internal/pkg/errs"
)

// OrderReader is the read-side slice of the order repository the route view
// needs.
type OrderReader interface {
	GetAllForDriver(ctx context.Context, driverID kernel.UUID, statuses ...order.Status) ([]*order.Order, error)
}

// GetRouteQueryHandler serves a driver's route reconciled against live order
// state. Stops whose orders completed, were cancelled, or moved to another
// driver are dropped, and the repaired snapshot is written back so the next
// read starts clean.
//
// Concurrent requests for the same driver are collapsed through singleflight:
// route screens poll aggressively and every poll would otherwise repeat the
// same reconciliation work.
type GetRouteQueryHandler struct {
	routeStore ports.RouteStore
	orders     OrderReader
	group      singleflight.Group
}

// NewGetRouteQueryHandler creates a handler for route view queries.
func NewGetRouteQueryHandler(routeStore ports.RouteStore, orders OrderReader) *GetRouteQueryHandler {
	return &GetRouteQueryHandler{
		routeStore: routeStore,
		orders:     orders,
	}
}

// Handle builds the reconciled route view. Falls back to the driver's open
// orders in creation order when no stored route survives.
func (h *GetRouteQueryHandler) Handle(ctx context.Context, query GetRouteQuery) (GetRouteQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetRouteQueryResponse{}, err
	}

	view, err, _ := h.group.Do(query.DriverID().String(), func() (any, error) {
		return h.buildView(ctx, query.DriverID())
	})
	if err != nil {
		return GetRouteQueryResponse{}, err
	}

	return view.(GetRouteQueryResponse), nil
}

func (h *GetRouteQueryHandler) buildView(ctx context.Context, driverID kernel.UUID) (GetRouteQueryResponse, error) {
	open, err := h.orders.GetAllForDriver(ctx, driverID,
		order.Assigned, order.PickedUp, order.InTransit)
	if err != nil {
		return GetRouteQueryResponse{}, err
	}

	stored, err := h.routeStore.Load(ctx, driverID)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return unsequencedView(open), nil
		}
		return GetRouteQueryResponse{}, err
	}

	byID := make(map[kernel.UUID]*order.Order, len(open))
	for _, o := range open {
		byID[o.ID()] = o
	}

	var stops []RouteStopView
	dropped := 0
	for _, stop := range stored.Stops() {
		live, ok := byID[stop.OrderID]
		if !ok {
			stored.CompleteStop(stop.OrderID)
			dropped++
			continue
		}
		sequence := stop.Sequence
		stops = append(stops, stopView(live, &sequence))
	}

	if dropped > 0 {
		h.persistRepair(ctx, driverID, stored)
	}

	if len(stops) == 0 {
		return unsequencedView(open), nil
	}

	routeID := stored.ID()
	return GetRouteQueryResponse{
		RouteID:   &routeID,
		Optimized: true,
		Stops:     stops,
		UpdatedAt: stored.UpdatedAt(),
	}, nil
}

// persistRepair writes the pruned snapshot back. Read repair is best effort;
// failing it only means the next read repeats the pruning.
func (h *GetRouteQueryHandler) persistRepair(ctx context.Context, driverID kernel.UUID, repaired *route.Route) {
	var err error
	if repaired.StopCount() == 0 {
		err = h.routeStore.Clear(ctx, driverID)
	} else {
		err = h.routeStore.Save(ctx, repaired)
	}
	if err != nil {
		slog.Warn("route read repair failed",
			"driver_id", driverID.String(), "error", err)
	}
}

func unsequencedView(open []*order.Order) GetRouteQueryResponse {
	stops := make([]RouteStopView, 0, len(open))
	for _, o := range open {
		stops = append(stops, stopView(o, nil))
	}
	return GetRouteQueryResponse{
		Optimized: false,
		Stops:     stops,
		UpdatedAt: time.Now().UTC(),
	}
}

func stopView(o *order.Order, sequence *int) RouteStopView {
	return RouteStopView{
		OrderID:         o.ID(),
		Sequence:        sequence,
		OrderNumber:     o.OrderNumber(),
		CustomerName:    o.CustomerName(),
		DeliveryAddress: o.DeliveryAddress(),
		Location:        o.Location(),
		Priority:        o.Priority(),
		Status:          o.Status(),
		CanStart:        o.CanStart(),
		CanDeliver:      o.CanDeliver(),
		CanComplete:     o.CanComplete(),
	}
}
