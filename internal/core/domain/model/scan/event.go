package scan

import (
	"errors"
	"time"

	"routesync/internal/core/domain/model/kernel"
	"routesync/internal/pkg/errs"
)

// ErrEventIsNotConstructed is returned when an Event instance was not created
// through NewEvent or RestoreEvent.
var ErrEventIsNotConstructed = errors.New("Event must be created via NewEvent or RestoreEvent")

// Event is the immutable record of one accepted scan. Together with the
// (order, driver, type) triple it is the deduplication key: a second scan with
// the same triple must never produce a second Event.
type Event struct {
	id          kernel.UUID
	orderID     kernel.UUID
	driverID    kernel.UUID
	scanType    Type
	barcodeData string

	// location is the coordinate reported by the scanning device, nil when
	// the sensor was unavailable.
	location *kernel.Location

	notes     string
	scannedAt time.Time

	isConstructed bool
}

// NewEvent creates a scan event stamped with the current time. Empty notes
// default to "<type> scan".
func NewEvent(
	id kernel.UUID,
	orderID kernel.UUID,
	driverID kernel.UUID,
	scanType Type,
	barcodeData string,
	location *kernel.Location,
	notes string,
) (*Event, error) {
	if notes == "" {
		notes = scanType.DefaultNotes()
	}
	return RestoreEvent(id, orderID, driverID, scanType, barcodeData, location, notes, time.Now().UTC())
}

// RestoreEvent reconstructs an Event from persistence.
func RestoreEvent(
	id kernel.UUID,
	orderID kernel.UUID,
	driverID kernel.UUID,
	scanType Type,
	barcodeData string,
	location *kernel.Location,
	notes string,
	scannedAt time.Time,
) (*Event, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		driverID.Validate(),
		scanType.Validate(),
	); err != nil {
		return nil, err
	}

	if barcodeData == "" {
		return nil, errs.NewValueIsRequiredError("barcodeData")
	}

	e := &Event{
		id:            id,
		orderID:       orderID,
		driverID:      driverID,
		scanType:      scanType,
		barcodeData:   barcodeData,
		notes:         notes,
		scannedAt:     scannedAt,
		isConstructed: true,
	}

	if location != nil {
		if err := location.Validate(); err != nil {
			return nil, err
		}
		loc := *location
		e.location = &loc
	}

	return e, nil
}

// Validate ensures the Event was created through a factory function.
func (e *Event) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEventIsNotConstructed
	}
	return nil
}

// ID returns the event identifier.
func (e *Event) ID() kernel.UUID {
	return e.id
}

// OrderID returns the scanned order's identifier.
func (e *Event) OrderID() kernel.UUID {
	return e.orderID
}

// DriverID returns the scanning driver's identifier.
func (e *Event) DriverID() kernel.UUID {
	return e.driverID
}

// ScanType returns the kind of scan performed.
func (e *Event) ScanType() Type {
	return e.scanType
}

// BarcodeData returns the raw payload the scanner produced.
func (e *Event) BarcodeData() string {
	return e.barcodeData
}

// Location returns the coordinate captured at scan time, nil when absent.
func (e *Event) Location() *kernel.Location {
	return e.location
}

// Notes returns the free-text notes attached to the scan.
func (e *Event) Notes() string {
	return e.notes
}

// ScannedAt returns the scan timestamp.
func (e *Event) ScannedAt() time.Time {
	return e.scannedAt
}
