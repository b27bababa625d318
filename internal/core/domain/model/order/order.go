package order

import (
	"errors"
	"time"

	"routesync/internal/core/domain/model/kernel"
	"routesync/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through the NewOrder or RestoreOrder factory functions.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// Order is the aggregate root for one delivery job. It owns the lifecycle
// status and derives the driver-facing capability flags from it; nothing else
// in the system is allowed to decide what a driver may do with an order.
//
// Invariants:
//   - valid unique identifier and non-empty order number
//   - status changes only through ChangeStatus (lifecycle graph) or AssignTo
//   - delivery location, when present, is a validated coordinate pair
type Order struct {
	id              kernel.UUID
	orderNumber     string
	barcode         string
	customerName    string
	customerPhone   string
	customerEmail   string
	pickupAddress   string
	deliveryAddress string

	// location is the geocoded delivery address, nil until geocoding succeeds.
	location *kernel.Location

	priority Priority
	status   Status

	// driverID is the assigned driver, nil while the order is pending.
	driverID *kernel.UUID

	notes     string
	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewOrder creates a pending Order with the given identity and customer data.
// The order number doubles as the scan/barcode key and must be non-empty.
func NewOrder(
	id kernel.UUID,
	orderNumber string,
	customerName string,
	pickupAddress string,
	deliveryAddress string,
	priority Priority,
) (*Order, error) {
	now := time.Now().UTC()
	o := &Order{
		status:        Pending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderNumber(orderNumber),
		o.setPriority(priority),
	); err != nil {
		return nil, err
	}

	o.customerName = customerName
	o.pickupAddress = pickupAddress
	o.deliveryAddress = deliveryAddress
	return o, nil
}

// RestoreOrder reconstructs an Order from persistence without running the
// creation-time defaults. The status and priority still have to be valid; a
// driver reference, when present, has to be a constructed UUID.
func RestoreOrder(
	id kernel.UUID,
	orderNumber string,
	barcode string,
	customerName string,
	customerPhone string,
	customerEmail string,
	pickupAddress string,
	deliveryAddress string,
	location *kernel.Location,
	priority Priority,
	status Status,
	driverID *kernel.UUID,
	notes string,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	o := &Order{
		customerName:    customerName,
		customerPhone:   customerPhone,
		customerEmail:   customerEmail,
		pickupAddress:   pickupAddress,
		deliveryAddress: deliveryAddress,
		barcode:         barcode,
		notes:           notes,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
		isConstructed:   true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderNumber(orderNumber),
		o.setPriority(priority),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	o.status = status

	if location != nil {
		if err := location.Validate(); err != nil {
			return nil, err
		}
		loc := *location
		o.location = &loc
	}

	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return nil, err
		}
		d := *driverID
		o.driverID = &d
	}

	return o, nil
}

// Validate ensures the Order was created through a factory function.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// OrderNumber returns the human-readable order number used as the scan key.
func (o *Order) OrderNumber() string {
	return o.orderNumber
}

// Barcode returns the dedicated barcode payload, empty when none was printed.
func (o *Order) Barcode() string {
	return o.barcode
}

// CustomerName returns the recipient name.
func (o *Order) CustomerName() string {
	return o.customerName
}

// CustomerPhone returns the recipient phone number.
func (o *Order) CustomerPhone() string {
	return o.customerPhone
}

// CustomerEmail returns the recipient email address.
func (o *Order) CustomerEmail() string {
	return o.customerEmail
}

// PickupAddress returns the pickup address text.
func (o *Order) PickupAddress() string {
	return o.pickupAddress
}

// DeliveryAddress returns the delivery address text.
func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

// Location returns the geocoded delivery coordinate, nil when not geocoded.
func (o *Order) Location() *kernel.Location {
	return o.location
}

// Priority returns the order priority.
func (o *Order) Priority() Priority {
	return o.priority
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Driver returns the assigned driver's ID, nil while unassigned.
func (o *Order) Driver() *kernel.UUID {
	return o.driverID
}

// Notes returns the free-text delivery notes.
func (o *Order) Notes() string {
	return o.notes
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the last-modification timestamp.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// CanStart reports whether the driver may begin the delivery run.
func (o *Order) CanStart() bool {
	return o.status == Assigned
}

// CanDeliver reports whether the order is eligible for a delivery attempt.
func (o *Order) CanDeliver() bool {
	return o.status == Assigned
}

// CanComplete reports whether the driver may complete the delivery.
func (o *Order) CanComplete() bool {
	return o.status == InTransit
}

// AssignTo assigns the order to a driver, moving it to Assigned. Works from
// Pending (initial assignment) and Failed (retry); any other status is an
// invalid transition and leaves the order untouched.
func (o *Order) AssignTo(driverID kernel.UUID, actorID kernel.UUID) (StatusHistoryEntry, error) {
	if err := driverID.Validate(); err != nil {
		return StatusHistoryEntry{}, err
	}

	entry, err := o.ChangeStatus(Assigned, actorID, "")
	if err != nil {
		return StatusHistoryEntry{}, err
	}

	o.driverID = &driverID
	return entry, nil
}

// ChangeStatus applies a lifecycle transition and returns the audit entry to
// append. On an invalid transition the error carries the rejected edge and the
// order is left completely unchanged.
func (o *Order) ChangeStatus(target Status, actorID kernel.UUID, notes string) (StatusHistoryEntry, error) {
	if err := actorID.Validate(); err != nil {
		return StatusHistoryEntry{}, err
	}

	newStatus, err := o.status.TransitionTo(target)
	if err != nil {
		return StatusHistoryEntry{}, err
	}

	previous := o.status
	o.status = newStatus
	o.updatedAt = time.Now().UTC()

	return NewStatusHistoryEntry(o.id, previous, newStatus, actorID, notes), nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOrderNumber(orderNumber string) error {
	if orderNumber == "" {
		return errs.NewValueIsRequiredError("orderNumber")
	}
	o.orderNumber = orderNumber
	return nil
}

func (o *Order) setPriority(priority Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	o.priority = priority
	return nil
}
