package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrDeleteAllocationCommandIsNotConstructed = errors.New(
	"DeleteAllocationCommand must be created via NewDeleteAllocationCommand constructor",
)

// DeleteAllocationCommand removes a Planned allocation and frees its truck
// and consignments.
type DeleteAllocationCommand struct {
	allocationID kernel.UUID

	guard guard.ConstructorGuard
}

// NewDeleteAllocationCommand requires a valid allocation id.
func NewDeleteAllocationCommand(allocationID kernel.UUID) (DeleteAllocationCommand, error) {
	if err := allocationID.Validate(); err != nil {
		return DeleteAllocationCommand{}, err
	}
	return DeleteAllocationCommand{allocationID: allocationID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c DeleteAllocationCommand) Validate() error {
	return c.guard.Validate(ErrDeleteAllocationCommandIsNotConstructed)
}

// AllocationID returns the allocation to delete.
func (c DeleteAllocationCommand) AllocationID() kernel.UUID {
	return c.allocationID
}
