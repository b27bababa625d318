package commands

import (
	"errors"

	"routesync/internal/core/domain/model/kernel"
	"routesync/internal/pkg/guard"
)

var ErrOptimizeRouteCommandIsNotConstructed = errors.New(
	"OptimizeRouteCommand must be created via NewOptimizeRouteCommand constructor",
)

// OptimizeRouteCommand represents a request to plan a fresh route over a
// driver's open orders. The origin is the driver's reported position; when nil
// the handler plans from the configured depot location.
type OptimizeRouteCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID
	origin   *kernel.Location

	guard guard.ConstructorGuard
}

// NewOptimizeRouteCommand creates a command to plan a driver's route.
func NewOptimizeRouteCommand(driverID kernel.UUID, origin *kernel.Location) (OptimizeRouteCommand, error) {
	cmd := OptimizeRouteCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDriverID(driverID),
		cmd.setOrigin(origin),
	); err != nil {
		return OptimizeRouteCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c OptimizeRouteCommand) Validate() error {
	return c.guard.Validate(ErrOptimizeRouteCommandIsNotConstructed)
}

// DriverID returns the driver whose route is being planned.
func (c OptimizeRouteCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Origin returns the driver's reported position, nil when unknown.
func (c OptimizeRouteCommand) Origin() *kernel.Location {
	return c.origin
}

func (c *OptimizeRouteCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *OptimizeRouteCommand) setOrigin(origin *kernel.Location) error {
	if origin == nil {
		return nil
	}
	if err := origin.Validate(); err != nil {
		return err
	}

	loc := *origin
	c.origin = &loc
	return nil
}
