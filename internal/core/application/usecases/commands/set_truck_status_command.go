package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/truck"
	"freight/internal/pkg/guard"
)

var ErrSetTruckStatusCommandIsNotConstructed = errors.New(
	"SetTruckStatusCommand must be created via NewSetTruckStatusCommand constructor",
)

// SetTruckStatusCommand moves a truck between Available, Maintenance and
// OutOfService.
type SetTruckStatusCommand struct {
	truckID kernel.UUID
	target  truck.Status

	guard guard.ConstructorGuard
}

// NewSetTruckStatusCommand rejects Loading and InTransit, which only
// allocations may set.
func NewSetTruckStatusCommand(truckID kernel.UUID, target truck.Status) (SetTruckStatusCommand, error) {
	if err := truckID.Validate(); err != nil {
		return SetTruckStatusCommand{}, err
	}
	if _, err := truck.Available.SetOperational(target); err != nil {
		return SetTruckStatusCommand{}, err
	}
	return SetTruckStatusCommand{truckID: truckID, target: target, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c SetTruckStatusCommand) Validate() error {
	return c.guard.Validate(ErrSetTruckStatusCommandIsNotConstructed)
}

// TruckID returns the truck to change.
func (c SetTruckStatusCommand) TruckID() kernel.UUID {
	return c.truckID
}

// Target returns the requested status.
func (c SetTruckStatusCommand) Target() truck.Status {
	return c.target
}
