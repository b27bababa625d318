package queries

import (
	"context"

	"routesync/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetScanHistoryQueryHandler retrieves a driver's recent scans from the
// database, newest first, joined with the scanned order's number.
type GetScanHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetScanHistoryQueryHandler creates a handler for scan history queries.
// Requires a GORM database connection for query execution.
func NewGetScanHistoryQueryHandler(db *gorm.DB) GetScanHistoryQueryHandler {
	return GetScanHistoryQueryHandler{db: db}
}

// Handle executes the history query for the driver.
func (h GetScanHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetScanHistoryQuery,
) ([]GetScanHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	scans := make([]GetScanHistoryQueryResponse, 0, query.Limit())

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			s.id,
			s.order_id,
			o.order_number,
			s.scan_type,
			s.barcode_data,
			s.notes,
			s.scanned_at
		FROM parcel_scans s
		JOIN orders o ON o.id = s.order_id
		WHERE s.driver_id = ?
		ORDER BY s.scanned_at DESC
		LIMIT ?
	`, query.DriverID().Bytes(), query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item GetScanHistoryQueryResponse
		var id, orderID uuid.UUID

		err = rows.Scan(
			&id,
			&orderID,
			&item.OrderNumber,
			&item.ScanType,
			&item.BarcodeData,
			&item.Notes,
			&item.ScannedAt,
		)
		if err != nil {
			return nil, err
		}

		scanID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		item.ID = scanID

		scanOrderID, idErr := kernel.UUIDFromBytes(orderID[:])
		if idErr != nil {
			return nil, idErr
		}
		item.OrderID = scanOrderID

		scans = append(scans, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return scans, nil
}
