package commands

import (
	"context"
	"errors"
	"log/slog"

	"routesync/internal/core/domain/model/kernel"
	"routesync/internal/core/domain/model/order"
	"routesync/internal/core/domain/model/scan"
	"routesync/internal/core/ports"
	"routesync/internal/pkg/errs"
	"routesync/internal/pkg/locker"
)

// RecordScanResult reports what a scan changed.
type RecordScanResult struct {
	ScanEventID kernel.UUID
	OrderID     kernel.UUID
	OrderStatus order.Status

	// AlreadyScanned is set when the (order, driver, type) triple was scanned
	// before. Nothing is recorded in that case and ScanEventID refers to the
	// original event.
	AlreadyScanned bool

	// StatusChanged is set when the scan advanced the order lifecycle.
	// Checkpoint, return, and damage scans never set it.
	StatusChanged bool

	// RouteAdvanced is set when a delivery scan removed the order's stop from
	// the driver's stored route.
	RouteAdvanced bool
}

// RecordScanCommandHandler handles the business logic for parcel scans:
// deduplication, the scan event audit trail, and the resulting order lifecycle
// transition.
//
// The scan event commits in its own transaction before the status transition
// is attempted. A scan that arrives in an impossible lifecycle state therefore
// still leaves its audit record behind; only the transition is rejected.
type RecordScanCommandHandler struct {
	uowFactory UoWFactory
	routeStore ports.RouteStore
	locks      *locker.KeyedMutex
}

// NewRecordScanCommandHandler creates a handler for scan recording operations.
func NewRecordScanCommandHandler(
	uowFactory UoWFactory,
	routeStore ports.RouteStore,
	locks *locker.KeyedMutex,
) RecordScanCommandHandler {
	return RecordScanCommandHandler{
		uowFactory: uowFactory,
		routeStore: routeStore,
		locks:      locks,
	}
}

// Handle processes the scan. Duplicate scans return the original event with
// AlreadyScanned set rather than an error. Route maintenance after a delivery
// scan is best effort: a failure there is logged and never fails the scan.
func (h *RecordScanCommandHandler) Handle(ctx context.Context, cmd RecordScanCommand) (RecordScanResult, error) {
	if err := cmd.Validate(); err != nil {
		return RecordScanResult{}, err
	}

	key := cmd.DriverID().String()
	h.locks.Lock(key)
	defer h.locks.Unlock(key)

	resolved, event, duplicate, err := h.recordEvent(ctx, cmd)
	if err != nil {
		return RecordScanResult{}, err
	}

	result := RecordScanResult{
		ScanEventID:    event.ID(),
		OrderID:        resolved.ID(),
		OrderStatus:    resolved.Status(),
		AlreadyScanned: duplicate,
	}
	if duplicate {
		return result, nil
	}

	target, drivesStatus := cmd.ScanType().TargetStatus()
	if !drivesStatus {
		return result, nil
	}

	newStatus, err := h.applyTransition(ctx, cmd, resolved.ID(), event, target)
	if err != nil {
		return result, err
	}
	result.OrderStatus = newStatus
	result.StatusChanged = true

	if cmd.ScanType() == scan.Delivery {
		result.RouteAdvanced = h.advanceRoute(ctx, cmd.DriverID(), resolved.ID())
	}

	return result, nil
}

// recordEvent resolves the order and commits the scan event, or returns the
// existing event when the deduplication triple was seen before.
func (h *RecordScanCommandHandler) recordEvent(
	ctx context.Context,
	cmd RecordScanCommand,
) (resolved *order.Order, event *scan.Event, duplicate bool, err error) {
	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, nil, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	resolved, err = uow.OrderRepository().GetByReference(ctx, cmd.OrderReference())
	if err != nil {
		return nil, nil, false, err
	}

	existing, err := uow.ScanEventRepository().Find(ctx, resolved.ID(), cmd.DriverID(), cmd.ScanType())
	if err == nil {
		return resolved, existing, true, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil, false, err
	}

	event, err = scan.NewEvent(
		kernel.NewUUID(),
		resolved.ID(),
		cmd.DriverID(),
		cmd.ScanType(),
		cmd.OrderReference(),
		cmd.Location(),
		cmd.Notes(),
	)
	if err != nil {
		return nil, nil, false, err
	}

	if err = uow.ScanEventRepository().Add(ctx, event); err != nil {
		return nil, nil, false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, nil, false, err
	}

	return resolved, event, false, nil
}

// applyTransition moves the order to the scan's target status in a second
// transaction, reloading the order so the transition runs against current
// state.
func (h *RecordScanCommandHandler) applyTransition(
	ctx context.Context,
	cmd RecordScanCommand,
	orderID kernel.UUID,
	event *scan.Event,
	target order.Status,
) (order.Status, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.Unknown, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	current, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return order.Unknown, err
	}

	entry, err := current.ChangeStatus(target, cmd.DriverID(), event.Notes())
	if err != nil {
		return order.Unknown, err
	}
	entry = entry.WithScanEvent(event.ID())

	if err = uow.OrderRepository().Update(ctx, current); err != nil {
		return order.Unknown, err
	}

	if err = uow.StatusHistoryRepository().Add(ctx, entry); err != nil {
		return order.Unknown, err
	}

	if err = uow.Commit(ctx); err != nil {
		return order.Unknown, err
	}

	return current.Status(), nil
}

// advanceRoute drops the delivered order from the driver's stored route.
// Failures here must not undo an already-recorded delivery, so they are
// logged and swallowed.
func (h *RecordScanCommandHandler) advanceRoute(ctx context.Context, driverID kernel.UUID, orderID kernel.UUID) bool {
	stored, err := h.routeStore.Load(ctx, driverID)
	if err != nil {
		if !errors.Is(err, errs.ErrObjectNotFound) {
			slog.Warn("route advance: load failed",
				"driver_id", driverID.String(), "error", err)
		}
		return false
	}

	if !stored.CompleteStop(orderID) {
		return false
	}

	if stored.StopCount() == 0 {
		err = h.routeStore.Clear(ctx, driverID)
	} else {
		err = h.routeStore.Save(ctx, stored)
	}
	if err != nil {
		slog.Warn("route advance: persist failed",
			"driver_id", driverID.String(), "error", err)
		return false
	}

	return true
}
