package commands

import (
	"context"
	"log/slog"
	"time"

	"freight/internal/core/domain/model/allocation"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/services"
)

// CreateAllocationCommandHandler commits an operator-chosen truck to an
// operator-chosen consignment set. Every precondition of the automatic path
// is re-checked: the truck is available at the source office, all
// consignments are unclaimed backlog of the route and the summed volume fits.
type CreateAllocationCommandHandler struct {
	uowFactory   UoWFactory
	stateMachine services.AllocationStateMachine
	metrics      EngineMetrics
	logger       *slog.Logger
	now          func() time.Time
}

// NewCreateAllocationCommandHandler creates a handler for manual allocations.
func NewCreateAllocationCommandHandler(
	uowFactory UoWFactory,
	metrics EngineMetrics,
	logger *slog.Logger,
) CreateAllocationCommandHandler {
	return CreateAllocationCommandHandler{
		uowFactory:   uowFactory,
		stateMachine: services.NewAllocationStateMachine(),
		metrics:      metrics,
		logger:       logger.With("component", "create_allocation"),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Handle validates and persists the allocation with its truck and
// consignments in one transaction. Nothing is written when any check fails.
func (h CreateAllocationCommandHandler) Handle(
	ctx context.Context,
	cmd CreateAllocationCommand,
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

	if err := uow.LockRoute(ctx, cmd.Route()); err != nil {
		return nil, err
	}

	t, err := uow.TruckRepository().GetForUpdate(ctx, cmd.Truck())
	if err != nil {
		return nil, err
	}

	consignments, err := uow.ConsignmentRepository().GetManyForUpdate(ctx, cmd.Consignments())
	if err != nil {
		return nil, err
	}

	created, err := h.stateMachine.Create(kernel.NewUUID(), t, cmd.Route(), consignments, h.now(), cmd.Details())
	if err != nil {
		return nil, err
	}

	if err = saveAll(ctx, uow, t, consignments); err != nil {
		return nil, err
	}
	if err = uow.AllocationRepository().Add(ctx, created); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.metrics.RecordAllocationCreated(created.TotalVolume().Float64())
	h.logger.InfoContext(ctx, "Truck allocated by operator",
		"allocation_id", created.ID().String(),
		"route", cmd.Route().String(),
		"truck_id", t.ID().String(),
		"consignments", len(consignments),
		"total_volume", created.TotalVolume().Float64())

	return created, nil
}
