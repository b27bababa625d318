package order

import (
	"fmt"

	"routesync/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery order. It implements a
// state machine with a fixed transition graph:
//
//	pending ──> assigned ──> picked_up ──> in_transit ──> delivered
//
// with side exits from assigned, picked_up, and in_transit to failed or
// cancelled, and a retry edge failed ──> assigned.
//
// delivered and cancelled are terminal. failed is deliberately non-terminal:
// a failed delivery can be retried by moving the order back to assigned.
//
// Status values are persisted as their literal strings because admin tooling
// filters order rows on them directly.
type Status string

const (
	// Unknown represents an invalid or undefined status. The empty string
	// helps catch uninitialized values coming from external records.
	Unknown Status = ""

	// Pending is the initial status of a freshly created order, before any
	// driver has been assigned.
	Pending Status = "pending"

	// Assigned indicates the order has a driver and is waiting for pickup.
	Assigned Status = "assigned"

	// PickedUp indicates the driver has collected the parcel.
	PickedUp Status = "picked_up"

	// InTransit indicates the parcel is on its way to the delivery address.
	InTransit Status = "in_transit"

	// Delivered is the terminal success state.
	Delivered Status = "delivered"

	// Failed indicates a delivery attempt failed. Non-terminal: the order can
	// be re-assigned for another attempt.
	Failed Status = "failed"

	// Cancelled is the terminal state for orders withdrawn before delivery.
	Cancelled Status = "cancelled"
)

// validStatuses lists every status accepted from external sources.
func validStatuses() map[Status]struct{} {
	return map[Status]struct{}{
		Pending:   {},
		Assigned:  {},
		PickedUp:  {},
		InTransit: {},
		Delivered: {},
		Failed:    {},
		Cancelled: {},
	}
}

// transitions is the complete edge set of the lifecycle graph. Anything not
// listed here is an invalid transition.
func transitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:   {Assigned},
		Assigned:  {PickedUp, Failed, Cancelled},
		PickedUp:  {InTransit, Failed, Cancelled},
		InTransit: {Delivered, Failed, Cancelled},
		Failed:    {Assigned},
	}
}

// Validate checks that the Status is one of the defined lifecycle states.
func (s Status) Validate() error {
	if _, ok := validStatuses()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%q is not a valid status", string(s)))
	}
	return nil
}

// String returns the persisted representation of the status.
func (s Status) String() string {
	if _, ok := validStatuses()[s]; ok {
		return string(s)
	}
	return "unknown"
}

// IsTerminal reports whether no further lifecycle transition is expected.
// Failed is not terminal because it is retryable.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// CanTransitionTo reports whether the lifecycle graph contains an edge from
// this status to target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions()[s] {
		if next == target {
			return true
		}
	}
	return false
}

// TransitionTo returns the target status when the edge exists, or an invalid
// value error describing the rejected transition. The receiver is never
// mutated; callers apply the returned value.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(target) {
		return Unknown, errs.NewValueIsInvalidErrorWithCause("status transition",
			fmt.Errorf("%s -> %s is not allowed", s.String(), target.String()))
	}
	return target, nil
}
