package commands

import (
	"errors"

	"routesync/internal/core/domain/model/kernel"
	"routesync/internal/core/domain/model/scan"
	"routesync/internal/pkg/guard"
)

var (
	ErrRecordScanCommandIsNotConstructed = errors.New(
		"RecordScanCommand must be created via NewRecordScanCommand constructor",
	)
	ErrOrderReferenceIsRequired = errors.New("order reference is required")
)

// RecordScanCommand represents a driver scanning a parcel. The order reference
// is whatever the scanner produced: an order number, a barcode, or a raw order
// ID.
//
// Example:
//
//	cmd, err := NewRecordScanCommand(driverID, "ORD-12345", scan.Delivery, &loc, "")
//	if err != nil {
//	    return fmt.Errorf("invalid scan data: %w", err)
//	}
//
//	result, err := handler.Handle(ctx, cmd)
//	if result.AlreadyScanned {
//	    // duplicate scan, nothing was recorded
//	}
type RecordScanCommand struct { //nolint:recvcheck //using for validation
	driverID       kernel.UUID
	orderReference string
	scanType       scan.Type
	location       *kernel.Location
	notes          string

	guard guard.ConstructorGuard
}

// NewRecordScanCommand creates a command to record a parcel scan.
// The location is optional; notes default downstream to "<type> scan".
func NewRecordScanCommand(
	driverID kernel.UUID,
	orderReference string,
	scanType scan.Type,
	location *kernel.Location,
	notes string,
) (RecordScanCommand, error) {
	cmd := RecordScanCommand{
		guard: guard.NewConstructorGuard(),
		notes: notes,
	}

	if err := errors.Join(
		cmd.setDriverID(driverID),
		cmd.setOrderReference(orderReference),
		cmd.setScanType(scanType),
		cmd.setLocation(location),
	); err != nil {
		return RecordScanCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordScanCommand) Validate() error {
	return c.guard.Validate(ErrRecordScanCommandIsNotConstructed)
}

// DriverID returns the scanning driver's identifier.
func (c RecordScanCommand) DriverID() kernel.UUID {
	return c.driverID
}

// OrderReference returns the scanner payload used to resolve the order.
func (c RecordScanCommand) OrderReference() string {
	return c.orderReference
}

// ScanType returns the kind of scan performed.
func (c RecordScanCommand) ScanType() scan.Type {
	return c.scanType
}

// Location returns the coordinate reported by the device, nil when absent.
func (c RecordScanCommand) Location() *kernel.Location {
	return c.location
}

// Notes returns the free-text notes attached to the scan.
func (c RecordScanCommand) Notes() string {
	return c.notes
}

func (c *RecordScanCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *RecordScanCommand) setOrderReference(reference string) error {
	if reference == "" {
		return ErrOrderReferenceIsRequired
	}

	c.orderReference = reference
	return nil
}

func (c *RecordScanCommand) setScanType(scanType scan.Type) error {
	if err := scanType.Validate(); err != nil {
		return err
	}

	c.scanType = scanType
	return nil
}

func (c *RecordScanCommand) setLocation(location *kernel.Location) error {
	if location == nil {
		return nil
	}
	if err := location.Validate(); err != nil {
		return err
	}

	loc := *location
	c.location = &loc
	return nil
}
