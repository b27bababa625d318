package http

import (
	"time"

	"routesync/internal/core/application/usecases/commands"
	"routesync/internal/core/application/usecases/queries"
)

// Error is the JSON error shape returned by every endpoint.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ScanRequest is the body of POST /api/v1/scans.
type ScanRequest struct {
	DriverID       string   `json:"driver_id"`
	OrderReference string   `json:"order_reference"`
	ScanType       string   `json:"scan_type"`
	Lat            *float64 `json:"lat,omitempty"`
	Lng            *float64 `json:"lng,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

// ScanResponse reports what a scan changed.
type ScanResponse struct {
	ScanEventID    string `json:"scan_event_id"`
	OrderID        string `json:"order_id"`
	OrderStatus    string `json:"order_status"`
	AlreadyScanned bool   `json:"already_scanned"`
	StatusChanged  bool   `json:"status_changed"`
	RouteAdvanced  bool   `json:"route_advanced"`
}

func scanResponseFrom(result commands.RecordScanResult) ScanResponse {
	return ScanResponse{
		ScanEventID:    result.ScanEventID.String(),
		OrderID:        result.OrderID.String(),
		OrderStatus:    result.OrderStatus.String(),
		AlreadyScanned: result.AlreadyScanned,
		StatusChanged:  result.StatusChanged,
		RouteAdvanced:  result.RouteAdvanced,
	}
}

// OptimizeRequest is the optional body of POST /api/v1/drivers/:driverId/route/optimize.
// Omitting the position plans from the configured depot.
type OptimizeRequest struct {
	Lat *float64 `json:"lat,omitempty"`
	Lng *float64 `json:"lng,omitempty"`
}

// RouteStop is one stop in the route view. Sequence is omitted for the
// unsequenced fallback view, where no stop numbers exist.
type RouteStop struct {
	OrderID         string   `json:"order_id"`
	Sequence        *int     `json:"sequence,omitempty"`
	OrderNumber     string   `json:"order_number"`
	CustomerName    string   `json:"customer_name"`
	DeliveryAddress string   `json:"delivery_address"`
	Lat             *float64 `json:"lat,omitempty"`
	Lng             *float64 `json:"lng,omitempty"`
	Priority        string   `json:"priority"`
	Status          string   `json:"status"`
	CanStart        bool     `json:"can_start"`
	CanDeliver      bool     `json:"can_deliver"`
	CanComplete     bool     `json:"can_complete"`
}

// SkippedStop explains why an order was left out of a planned route.
type SkippedStop struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

// RouteResponse is the reconciled route view. RouteID is empty and Optimized
// false when the driver has no stored route. Skipped is populated only by the
// optimize endpoint.
type RouteResponse struct {
	RouteID   string        `json:"route_id,omitempty"`
	Optimized bool          `json:"optimized"`
	Stops     []RouteStop   `json:"stops"`
	Skipped   []SkippedStop `json:"skipped,omitempty"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func routeResponseFrom(view queries.GetRouteQueryResponse) RouteResponse {
	resp := RouteResponse{
		Optimized: view.Optimized,
		Stops:     make([]RouteStop, 0, len(view.Stops)),
		UpdatedAt: view.UpdatedAt,
	}
	if view.RouteID != nil {
		resp.RouteID = view.RouteID.String()
	}

	for _, stop := range view.Stops {
		dto := RouteStop{
			OrderID:         stop.OrderID.String(),
			Sequence:        stop.Sequence,
			OrderNumber:     stop.OrderNumber,
			CustomerName:    stop.CustomerName,
			DeliveryAddress: stop.DeliveryAddress,
			Priority:        stop.Priority.String(),
			Status:          stop.Status.String(),
			CanStart:        stop.CanStart,
			CanDeliver:      stop.CanDeliver,
			CanComplete:     stop.CanComplete,
		}
		if stop.Location != nil {
			lat, lng := stop.Location.Latitude(), stop.Location.Longitude()
			dto.Lat, dto.Lng = &lat, &lng
		}
		resp.Stops = append(resp.Stops, dto)
	}

	return resp
}

// ScanHistoryItem is one scan in the history view.
type ScanHistoryItem struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	ScanType    string    `json:"scan_type"`
	BarcodeData string    `json:"barcode_data"`
	Notes       string    `json:"notes"`
	ScannedAt   time.Time `json:"scanned_at"`
}

func scanHistoryFrom(items []queries.GetScanHistoryQueryResponse) []ScanHistoryItem {
	out := make([]ScanHistoryItem, 0, len(items))
	for _, item := range items {
		out = append(out, ScanHistoryItem{
			ID:          item.ID.String(),
			OrderID:     item.OrderID.String(),
			OrderNumber: item.OrderNumber,
			ScanType:    item.ScanType,
			BarcodeData: item.BarcodeData,
			Notes:       item.Notes,
			ScannedAt:   item.ScannedAt,
		})
	}
	return out
}
