// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, handling the conversion between domain entities and database rows.
package orderrepo

import (
	"time"

	"routesync/internal/core/domain/model/kernel"
	"routesync/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Order number and barcode are indexed because the scan flow resolves orders
// by either reference; status and driver are indexed for route planning
// queries.
type OrderDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderNumber   string    `gorm:"uniqueIndex"`
	Barcode       string    `gorm:"index"`
	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	PickupAddress   string
	DeliveryAddress string
	DeliveryLat     *float64
	DeliveryLng     *float64

	Priority string
	Status   string     `gorm:"index"`
	DriverID *uuid.UUID `gorm:"type:uuid;index"`
	Notes    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var driverID *uuid.UUID
	if id := aggregate.Driver(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	var lat, lng *float64
	if loc := aggregate.Location(); loc != nil {
		latVal, lngVal := loc.Latitude(), loc.Longitude()
		lat, lng = &latVal, &lngVal
	}

	return OrderDTO{
		ID:              aggregate.ID().Bytes(),
		OrderNumber:     aggregate.OrderNumber(),
		Barcode:         aggregate.Barcode(),
		CustomerName:    aggregate.CustomerName(),
		CustomerPhone:   aggregate.CustomerPhone(),
		CustomerEmail:   aggregate.CustomerEmail(),
		PickupAddress:   aggregate.PickupAddress(),
		DeliveryAddress: aggregate.DeliveryAddress(),
		DeliveryLat:     lat,
		DeliveryLng:     lng,
		Priority:        aggregate.Priority().String(),
		Status:          aggregate.Status().String(),
		DriverID:        driverID,
		Notes:           aggregate.Notes(),
		CreatedAt:       aggregate.CreatedAt(),
		UpdatedAt:       aggregate.UpdatedAt(),
	}
}

// toDomain converts a database row to an order domain aggregate using
// RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	var location *kernel.Location
	if dto.DeliveryLat != nil && dto.DeliveryLng != nil {
		loc, locErr := kernel.NewLocation(*dto.DeliveryLat, *dto.DeliveryLng)
		if locErr != nil {
			return nil, locErr
		}
		location = &loc
	}

	return order.RestoreOrder(
		id,
		dto.OrderNumber,
		dto.Barcode,
		dto.CustomerName,
		dto.CustomerPhone,
		dto.CustomerEmail,
		dto.PickupAddress,
		dto.DeliveryAddress,
		location,
		order.Priority(dto.Priority),
		order.Status(dto.Status),
		driverID,
		dto.Notes,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}
