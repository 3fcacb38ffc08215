package commands

import (
	"errors"

	"freight/internal/core/domain/model/allocation"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrChangeAllocationStatusCommandIsNotConstructed = errors.New(
	"ChangeAllocationStatusCommand must be created via NewChangeAllocationStatusCommand constructor",
)

// ChangeAllocationStatusCommand asks for an allocation to move to a new
// status: InProgress (dispatch), Completed (arrive) or Cancelled. A details
// edit may ride along and is written in the same transaction.
type ChangeAllocationStatusCommand struct { //nolint:recvcheck //using for validation
	allocationID kernel.UUID
	requested    allocation.Status
	details      allocation.DetailsPatch

	guard guard.ConstructorGuard
}

// NewChangeAllocationStatusCommand only checks that the id and status are
// well formed. Whether the transition is allowed is decided by the handler
// against the current status.
func NewChangeAllocationStatusCommand(
	allocationID kernel.UUID,
	requested allocation.Status,
) (ChangeAllocationStatusCommand, error) {
	cmd := ChangeAllocationStatusCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setAllocationID(allocationID),
		cmd.setRequested(requested),
	); err != nil {
		return ChangeAllocationStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeAllocationStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeAllocationStatusCommandIsNotConstructed)
}

// AllocationID returns the allocation to transition.
func (c ChangeAllocationStatusCommand) AllocationID() kernel.UUID {
	return c.allocationID
}

// WithDetails returns a copy of the command that also applies patch.
func (c ChangeAllocationStatusCommand) WithDetails(patch allocation.DetailsPatch) ChangeAllocationStatusCommand {
	c.details = patch
	return c
}

// Details returns the details edit applied with the transition, if any.
func (c ChangeAllocationStatusCommand) Details() allocation.DetailsPatch {
	return c.details
}

// Requested returns the target status.
func (c ChangeAllocationStatusCommand) Requested() allocation.Status {
	return c.requested
}

func (c *ChangeAllocationStatusCommand) setAllocationID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.allocationID = id
	return nil
}

func (c *ChangeAllocationStatusCommand) setRequested(status allocation.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	c.requested = status
	return nil
}
