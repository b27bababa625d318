package queries

import (
	"errors"
	"time"

	"routesync/internal/core/domain/model/kernel"
	"routesync/internal/pkg/guard"
)

var ErrGetScanHistoryQueryIsNotConstructed = errors.New(
	"GetScanHistoryQuery must be created via NewGetScanHistoryQuery constructor",
)

const (
	// DefaultScanHistoryLimit applies when the caller passes limit <= 0.
	DefaultScanHistoryLimit = 10
	// MaxScanHistoryLimit caps the page size.
	MaxScanHistoryLimit = 100
)

// GetScanHistoryQuery retrieves a driver's most recent scans, newest first.
//
// Example:
//
//	query, _ := NewGetScanHistoryQuery(driverID, 25)
//	scans, err := handler.Handle(ctx, query)
type GetScanHistoryQuery struct {
	driverID kernel.UUID
	limit    int

	guard guard.ConstructorGuard
}

// NewGetScanHistoryQuery creates a query for a driver's scan history.
// A non-positive limit falls back to DefaultScanHistoryLimit; anything above
// MaxScanHistoryLimit is clamped.
func NewGetScanHistoryQuery(driverID kernel.UUID, limit int) (GetScanHistoryQuery, error) {
	if err := driverID.Validate(); err != nil {
		return GetScanHistoryQuery{}, err
	}

	if limit <= 0 {
		limit = DefaultScanHistoryLimit
	}
	if limit > MaxScanHistoryLimit {
		limit = MaxScanHistoryLimit
	}

	return GetScanHistoryQuery{
		driverID: driverID,
		limit:    limit,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetScanHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetScanHistoryQueryIsNotConstructed)
}

// DriverID returns the driver whose history is requested.
func (q GetScanHistoryQuery) DriverID() kernel.UUID {
	return q.driverID
}

// Limit returns the effective page size.
func (q GetScanHistoryQuery) Limit() int {
	return q.limit
}

// GetScanHistoryQueryResponse represents one scan in the history read model,
// joined with the order's number for display.
type GetScanHistoryQueryResponse struct {
	ID          kernel.UUID
	OrderID     kernel.UUID
	OrderNumber string
	ScanType    string
	BarcodeData string
	Notes       string
	ScannedAt   time.Time
}
