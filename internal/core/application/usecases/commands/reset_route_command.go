package commands

import (
	"errors"

	"routesync/internal/core/domain/model/kernel"
	"routesync/internal/pkg/guard"
)

var ErrResetRouteCommandIsNotConstructed = errors.New(
	"ResetRouteCommand must be created via NewResetRouteCommand constructor",
)

// ResetRouteCommand represents a request to discard a driver's stored route.
// The driver falls back to the unsequenced order list until the next
// optimization.
type ResetRouteCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewResetRouteCommand creates a command to discard a driver's route.
func NewResetRouteCommand(driverID kernel.UUID) (ResetRouteCommand, error) {
	cmd := ResetRouteCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setDriverID(driverID); err != nil {
		return ResetRouteCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ResetRouteCommand) Validate() error {
	return c.guard.Validate(ErrResetRouteCommandIsNotConstructed)
}

// DriverID returns the driver whose route is being discarded.
func (c ResetRouteCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c *ResetRouteCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}
