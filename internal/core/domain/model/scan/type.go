// Package scan contains the immutable scan event record and the scan type
// enum that maps physical parcel interactions onto order lifecycle targets.
package scan

import (
	"fmt"

	"routesync/internal/core/domain/model/order"
	"routesync/internal/pkg/errs"
)

// Type classifies one physical or manual parcel scan.
type Type string

const (
	// Pickup marks the parcel as collected from the sender.
	Pickup Type = "pickup"
	// Delivery marks the parcel as handed to the recipient.
	Delivery Type = "delivery"
	// Checkpoint records an intermediate touch without a status change.
	Checkpoint Type = "checkpoint"
	// Return records the parcel heading back to the sender.
	Return Type = "return"
	// Damage records a damage report against the parcel.
	Damage Type = "damage"
)

func validTypes() map[Type]struct{} {
	return map[Type]struct{}{
		Pickup:     {},
		Delivery:   {},
		Checkpoint: {},
		Return:     {},
		Damage:     {},
	}
}

// Validate checks that the Type is one of the defined scan types.
func (t Type) Validate() error {
	if _, ok := validTypes()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("scanType",
			fmt.Errorf("%q is not a valid scan type", string(t)))
	}
	return nil
}

// String returns the persisted representation of the scan type.
func (t Type) String() string {
	return string(t)
}

// TargetStatus returns the lifecycle status a scan of this type drives the
// order towards. Checkpoint, return, and damage scans only produce an audit
// trail, reported by ok == false.
func (t Type) TargetStatus() (target order.Status, ok bool) {
	switch t {
	case Pickup:
		return order.PickedUp, true
	case Delivery:
		return order.Delivered, true
	default:
		return order.Unknown, false
	}
}

// DefaultNotes returns the note text recorded when the caller supplies none.
func (t Type) DefaultNotes() string {
	return fmt.Sprintf("%s scan", string(t))
}
