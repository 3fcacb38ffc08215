package commands

import (
	"errors"

	"freight/internal/core/domain/model/allocation"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrUpdateAllocationDetailsCommandIsNotConstructed = errors.New(
	"UpdateAllocationDetailsCommand must be created via NewUpdateAllocationDetailsCommand constructor",
)

// UpdateAllocationDetailsCommand edits the notes, idle time or waiting time
// of an allocation. Fields left nil keep their stored value. It never changes
// status.
type UpdateAllocationDetailsCommand struct {
	allocationID kernel.UUID
	patch        allocation.DetailsPatch

	guard guard.ConstructorGuard
}

// NewUpdateAllocationDetailsCommand requires a valid allocation id and at
// least one edited field.
func NewUpdateAllocationDetailsCommand(
	allocationID kernel.UUID,
	patch allocation.DetailsPatch,
) (UpdateAllocationDetailsCommand, error) {
	if err := allocationID.Validate(); err != nil {
		return UpdateAllocationDetailsCommand{}, err
	}
	if patch.IsEmpty() {
		return UpdateAllocationDetailsCommand{}, errs.NewValueIsRequiredError("details")
	}
	return UpdateAllocationDetailsCommand{
		allocationID: allocationID,
		patch:        patch,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateAllocationDetailsCommand) Validate() error {
	return c.guard.Validate(ErrUpdateAllocationDetailsCommandIsNotConstructed)
}

func (c UpdateAllocationDetailsCommand) AllocationID() kernel.UUID {
	return c.allocationID
}

func (c UpdateAllocationDetailsCommand) Patch() allocation.DetailsPatch {
	return c.patch
}
