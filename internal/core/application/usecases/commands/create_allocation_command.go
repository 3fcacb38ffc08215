package commands

import (
	"errors"
	"fmt"

	"freight/internal/core/domain/model/allocation"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrCreateAllocationCommandIsNotConstructed = errors.New(
	"CreateAllocationCommand must be created via NewCreateAllocationCommand constructor",
)

// CreateAllocationCommand is an operator's explicit choice of a truck and a
// consignment set for one route, bypassing the volume trigger.
type CreateAllocationCommand struct { //nolint:recvcheck //using for validation
	truckID      kernel.UUID
	route        kernel.Route
	consignments []kernel.UUID
	details      allocation.Details

	guard guard.ConstructorGuard
}

// NewCreateAllocationCommand validates identifiers, the route and the
// details. The consignment list must be non-empty and free of duplicates.
func NewCreateAllocationCommand(
	truckID kernel.UUID,
	source kernel.UUID,
	destination kernel.UUID,
	consignments []kernel.UUID,
	details allocation.Details,
) (CreateAllocationCommand, error) {
	cmd := CreateAllocationCommand{
		details: details,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setTruck(truckID),
		cmd.setRoute(source, destination),
		cmd.setConsignments(consignments),
	); err != nil {
		return CreateAllocationCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateAllocationCommand) Validate() error {
	return c.guard.Validate(ErrCreateAllocationCommandIsNotConstructed)
}

func (c CreateAllocationCommand) Truck() kernel.UUID          { return c.truckID }
func (c CreateAllocationCommand) Route() kernel.Route         { return c.route }
func (c CreateAllocationCommand) Details() allocation.Details { return c.details }

// Consignments returns a copy of the requested consignment ids.
func (c CreateAllocationCommand) Consignments() []kernel.UUID {
	return append([]kernel.UUID(nil), c.consignments...)
}

func (c *CreateAllocationCommand) setTruck(truckID kernel.UUID) error {
	if err := truckID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("truck", err)
	}
	c.truckID = truckID
	return nil
}

func (c *CreateAllocationCommand) setRoute(source, destination kernel.UUID) error {
	route, err := kernel.NewRoute(source, destination)
	if err != nil {
		return err
	}
	c.route = route
	return nil
}

func (c *CreateAllocationCommand) setConsignments(ids []kernel.UUID) error {
	if len(ids) == 0 {
		return errs.NewValueIsRequiredError("consignments")
	}
	seen := make(map[kernel.UUID]struct{}, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("consignments", err)
		}
		if _, dup := seen[id]; dup {
			return errs.NewValueIsInvalidErrorWithCause("consignments", fmt.Errorf("%s is listed twice", id))
		}
		seen[id] = struct{}{}
	}
	c.consignments = append([]kernel.UUID(nil), ids...)
	return nil
}
