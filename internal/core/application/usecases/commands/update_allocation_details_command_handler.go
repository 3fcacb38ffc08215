package commands

import (
	"context"

	"freight/internal/core/domain/model/allocation"
)

// UpdateAllocationDetailsCommandHandler edits allocation annotations in any status.
type UpdateAllocationDetailsCommandHandler struct {
	uowFactory UoWFactory
}

// NewUpdateAllocationDetailsCommandHandler creates a handler for detail edits.
func NewUpdateAllocationDetailsCommandHandler(uowFactory UoWFactory) UpdateAllocationDetailsCommandHandler {
	return UpdateAllocationDetailsCommandHandler{uowFactory: uowFactory}
}

// Handle locks the allocation row, merges the patch into the stored details
// and writes it back in the same transaction.
func (h UpdateAllocationDetailsCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateAllocationDetailsCommand,
) (*allocation.Allocation, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	allocationRepo := uow.AllocationRepository()
	a, err := allocationRepo.GetForUpdate(ctx, cmd.AllocationID())
	if err != nil {
		return nil, err
	}

	if err = a.PatchDetails(cmd.Patch()); err != nil {
		return nil, err
	}

	if err = allocationRepo.Update(ctx, a); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return a, nil
}
