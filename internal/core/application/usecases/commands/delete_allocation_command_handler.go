package commands

import (
	"context"
	"log/slog"

	"freight/internal/core/domain/services"
)

// DeleteAllocationCommandHandler removes a Planned allocation. Its truck
// becomes Available and its consignments rejoin the route backlog in the same
// transaction.
type DeleteAllocationCommandHandler struct {
	uowFactory   UoWFactory
	stateMachine services.AllocationStateMachine
	metrics      EngineMetrics
	logger       *slog.Logger
}

// NewDeleteAllocationCommandHandler creates a handler for allocation deletion.
func NewDeleteAllocationCommandHandler(
	uowFactory UoWFactory,
	metrics EngineMetrics,
	logger *slog.Logger,
) DeleteAllocationCommandHandler {
	return DeleteAllocationCommandHandler{
		uowFactory:   uowFactory,
		stateMachine: services.NewAllocationStateMachine(),
		metrics:      metrics,
		logger:       logger.With("component", "delete_allocation"),
	}
}

// Handle rejects deleting anything but a Planned allocation with an
// InvalidTransitionError.
func (h DeleteAllocationCommandHandler) Handle(ctx context.Context, cmd DeleteAllocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	allocationRepo := uow.AllocationRepository()
	a, err := allocationRepo.GetForUpdate(ctx, cmd.AllocationID())
	if err != nil {
		return err
	}
	if err = a.ValidateDelete(); err != nil {
		return err
	}

	if err = uow.LockRoute(ctx, a.Route()); err != nil {
		return err
	}

	t, err := uow.TruckRepository().GetForUpdate(ctx, a.Truck())
	if err != nil {
		return err
	}

	consignments, err := uow.ConsignmentRepository().GetManyForUpdate(ctx, a.Consignments())
	if err != nil {
		return err
	}

	if err = h.stateMachine.ReleaseForDelete(a, t, consignments); err != nil {
		return err
	}

	if err = saveAll(ctx, uow, t, consignments); err != nil {
		return err
	}
	if err = allocationRepo.Delete(ctx, a); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.metrics.RecordAllocationTransition("delete")
	h.logger.InfoContext(ctx, "Planned allocation deleted",
		"allocation_id", a.ID().String(),
		"route", a.Route().String(),
		"truck_id", t.ID().String())

	return nil
}
