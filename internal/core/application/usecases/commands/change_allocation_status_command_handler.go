package commands

import (
	"context"
	"log/slog"
	"time"

	"freight/internal/core/domain/model/allocation"
	"freight/internal/core/domain/model/consignment"
	"freight/internal/core/domain/model/truck"
	"freight/internal/core/domain/services"
)

// AllocationView is an allocation together with the truck and consignments
// it binds, as stored after the operation.
type AllocationView struct {
	Allocation   *allocation.Allocation
	Truck        *truck.Truck
	Consignments []*consignment.Consignment
}

// ChangeAllocationStatusCommandHandler applies dispatch, complete and cancel.
// The allocation, its truck and all of its consignments are written in one
// transaction, or none of them is.
type ChangeAllocationStatusCommandHandler struct {
	uowFactory   UoWFactory
	stateMachine services.AllocationStateMachine
	metrics      EngineMetrics
	logger       *slog.Logger
	now          func() time.Time
}

// NewChangeAllocationStatusCommandHandler creates a handler for allocation
// status changes.
func NewChangeAllocationStatusCommandHandler(
	uowFactory UoWFactory,
	metrics EngineMetrics,
	logger *slog.Logger,
) ChangeAllocationStatusCommandHandler {
	return ChangeAllocationStatusCommandHandler{
		uowFactory:   uowFactory,
		stateMachine: services.NewAllocationStateMachine(),
		metrics:      metrics,
		logger:       logger.With("component", "change_allocation_status"),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Handle rejects a transition outside the allocation table with an
// InvalidTransitionError, and an invalid details edit, before reading the
// truck or consignments.
func (h ChangeAllocationStatusCommandHandler) Handle(
	ctx context.Context,
	cmd ChangeAllocationStatusCommand,
) (AllocationView, error) {
	if err := cmd.Validate(); err != nil {
		return AllocationView{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AllocationView{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	a, err := uow.AllocationRepository().GetForUpdate(ctx, cmd.AllocationID())
	if err != nil {
		return AllocationView{}, err
	}

	from := a.Status()
	action, err := a.ActionFor(cmd.Requested())
	if err != nil {
		return AllocationView{}, err
	}
	if !cmd.Details().IsEmpty() {
		if err = a.PatchDetails(cmd.Details()); err != nil {
			return AllocationView{}, err
		}
	}

	if err = uow.LockRoute(ctx, a.Route()); err != nil {
		return AllocationView{}, err
	}

	t, err := uow.TruckRepository().GetForUpdate(ctx, a.Truck())
	if err != nil {
		return AllocationView{}, err
	}

	consignments, err := uow.ConsignmentRepository().GetManyForUpdate(ctx, a.Consignments())
	if err != nil {
		return AllocationView{}, err
	}

	if err = h.stateMachine.Transition(a, cmd.Requested(), t, consignments, h.now()); err != nil {
		return AllocationView{}, err
	}

	if err = uow.AllocationRepository().Update(ctx, a); err != nil {
		return AllocationView{}, err
	}
	if err = saveAll(ctx, uow, t, consignments); err != nil {
		return AllocationView{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return AllocationView{}, err
	}

	h.metrics.RecordAllocationTransition(action.String())
	h.logger.InfoContext(ctx, "Allocation status changed",
		"allocation_id", a.ID().String(),
		"route", a.Route().String(),
		"truck_id", t.ID().String(),
		"from", from.String(),
		"to", a.Status().String())

	return AllocationView{Allocation: a, Truck: t, Consignments: consignments}, nil
}
