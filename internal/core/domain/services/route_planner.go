package services

import (
	"errors"
	"sort"

	"routesync/internal/core/domain/model/kernel"
	"routesync/internal/core/domain/model/order"
)

// ErrNothingToPlan is returned when no provided order is eligible for
// sequencing. This occurs when the order slice is empty or every order was
// skipped for missing coordinates or an ineligible status.
var ErrNothingToPlan = errors.New("nothing to plan")

// Two candidates closer together than this are treated as equidistant and
// resolved by the deterministic tie-break instead of float noise.
const tieBreakEpsilonMeters = 1.0

// SkippedOrder explains why an order was excluded from the planned sequence.
type SkippedOrder struct {
	OrderID kernel.UUID
	Reason  string
}

const (
	// SkipReasonNoLocation marks orders without delivery coordinates.
	SkipReasonNoLocation = "no delivery coordinates"
	// SkipReasonTerminalStatus marks orders already delivered or cancelled.
	SkipReasonTerminalStatus = "terminal status"
	// SkipReasonFailedStatus marks orders awaiting a retry decision. A failed
	// order must go back through assignment before it can be sequenced again.
	SkipReasonFailedStatus = "failed status"
)

// RoutePlanner is a domain service that sequences a driver's open orders into
// a visiting plan.
//
// Selection algorithm:
//   - Starts from the provided origin
//   - Repeatedly visits the nearest unvisited eligible order
//   - Each visited order becomes the origin for the next selection
//
// Ties within tieBreakEpsilonMeters resolve by priority rank (urgent first),
// then creation time (oldest first), then order ID. Identical input therefore
// always yields an identical sequence.
type RoutePlanner struct{}

// NewRoutePlanner creates a new RoutePlanner instance.
func NewRoutePlanner() RoutePlanner {
	return RoutePlanner{}
}

// Plan sequences the eligible orders by iterative nearest-neighbor selection
// from the origin. Orders without coordinates, in a terminal status, or in the
// failed status are reported in skipped rather than failing the plan. Returns
// ErrNothingToPlan when no order is eligible.
func (p RoutePlanner) Plan(
	origin kernel.Location,
	orders []*order.Order,
) (sequence []*order.Order, skipped []SkippedOrder, err error) {
	if err := origin.Validate(); err != nil {
		return nil, nil, err
	}

	var candidates []*order.Order
	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return nil, nil, err
		}
		switch {
		case o.Status().IsTerminal():
			skipped = append(skipped, SkippedOrder{OrderID: o.ID(), Reason: SkipReasonTerminalStatus})
		case o.Status() == order.Failed:
			skipped = append(skipped, SkippedOrder{OrderID: o.ID(), Reason: SkipReasonFailedStatus})
		case o.Location() == nil:
			skipped = append(skipped, SkippedOrder{OrderID: o.ID(), Reason: SkipReasonNoLocation})
		default:
			candidates = append(candidates, o)
		}
	}

	if len(candidates) == 0 {
		return nil, skipped, ErrNothingToPlan
	}

	// Pre-sorting by the tie-break criteria makes the first
	// within-epsilon candidate encountered the winner.
	sortByTieBreak(candidates)

	sequence = make([]*order.Order, 0, len(candidates))
	current := origin
	for len(candidates) > 0 {
		idx, err := nearestTo(current, candidates)
		if err != nil {
			return nil, nil, err
		}
		next := candidates[idx]
		sequence = append(sequence, next)
		current = *next.Location()
		candidates = append(candidates[:idx], candidates[idx+1:]...)
	}

	return sequence, skipped, nil
}

// nearestTo returns the index of the candidate closest to from. Candidates
// within tieBreakEpsilonMeters of the best distance lose to the earlier entry,
// which sortByTieBreak has already ordered by preference.
func nearestTo(from kernel.Location, candidates []*order.Order) (int, error) {
	best := 0
	bestDistance, err := from.DistanceTo(*candidates[0].Location())
	if err != nil {
		return 0, err
	}
	for i := 1; i < len(candidates); i++ {
		d, err := from.DistanceTo(*candidates[i].Location())
		if err != nil {
			return 0, err
		}
		if d < bestDistance-tieBreakEpsilonMeters {
			best = i
			bestDistance = d
		}
	}
	return best, nil
}

func sortByTieBreak(orders []*order.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].Priority().Rank() != orders[j].Priority().Rank() {
			return orders[i].Priority().Rank() > orders[j].Priority().Rank()
		}
		if !orders[i].CreatedAt().Equal(orders[j].CreatedAt()) {
			return orders[i].CreatedAt().Before(orders[j].CreatedAt())
		}
		return orders[i].ID().String() < orders[j].ID().String()
	})
}
