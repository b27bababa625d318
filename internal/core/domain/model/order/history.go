package order

import (
	"time"

	"routesync/internal/core/domain/model/kernel"
)

// StatusHistoryEntry is the append-only audit record of one accepted lifecycle
// transition. Entries are plain value records: once created they are written
// and never read back for decisions, so they carry exported fields instead of
// aggregate-style encapsulation.
type StatusHistoryEntry struct {
	ID             kernel.UUID
	OrderID        kernel.UUID
	PreviousStatus Status
	NewStatus      Status
	ActorID        kernel.UUID

	// ScanEventID links the transition to the scan that caused it, nil for
	// transitions applied through explicit driver or admin actions.
	ScanEventID *kernel.UUID

	Notes     string
	CreatedAt time.Time
}

// NewStatusHistoryEntry creates an audit entry for a transition. The entry is
// stamped with the current time.
func NewStatusHistoryEntry(
	orderID kernel.UUID,
	previous Status,
	next Status,
	actorID kernel.UUID,
	notes string,
) StatusHistoryEntry {
	return StatusHistoryEntry{
		ID:             kernel.NewUUID(),
		OrderID:        orderID,
		PreviousStatus: previous,
		NewStatus:      next,
		ActorID:        actorID,
		Notes:          notes,
		CreatedAt:      time.Now().UTC(),
	}
}

// WithScanEvent returns a copy of the entry linked to the originating scan.
func (e StatusHistoryEntry) WithScanEvent(scanEventID kernel.UUID) StatusHistoryEntry {
	e.ScanEventID = &scanEventID
	return e
}
