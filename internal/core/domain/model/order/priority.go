package order

import (
	"fmt"

	"routesync/internal/pkg/errs"
)

// Priority represents the urgency of an order. It participates in route
// planning as a tie-breaker: among equidistant candidates the higher priority
// is visited first.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// priorityRanks maps priorities to a comparable rank, higher is more urgent.
func priorityRanks() map[Priority]int {
	return map[Priority]int{
		PriorityLow:    0,
		PriorityNormal: 1,
		PriorityHigh:   2,
		PriorityUrgent: 3,
	}
}

// Validate checks that the Priority is one of the defined levels.
func (p Priority) Validate() error {
	if _, ok := priorityRanks()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("priority",
			fmt.Errorf("%q is not a valid priority", string(p)))
	}
	return nil
}

// Rank returns the numeric urgency of the priority, higher meaning more
// urgent. Unknown priorities rank below low.
func (p Priority) Rank() int {
	if rank, ok := priorityRanks()[p]; ok {
		return rank
	}
	return -1
}

// String returns the persisted representation of the priority.
func (p Priority) String() string {
	return string(p)
}
