package commands

import (
	"context"
	"log/slog"

	"freight/internal/core/domain/model/consignment"
	"freight/internal/core/domain/model/kernel"
)

// CancelConsignmentCommandHandler withdraws an unclaimed consignment so it no
// longer counts towards its route backlog.
//
// The route lock is held while the consignment is re-read, so a concurrent
// intake on the same route either allocates it first or no longer sees it.
type CancelConsignmentCommandHandler struct {
	uowFactory UoWFactory
	metrics    EngineMetrics
	logger     *slog.Logger
}

// NewCancelConsignmentCommandHandler creates a handler for consignment cancellation.
func NewCancelConsignmentCommandHandler(
	uowFactory UoWFactory,
	metrics EngineMetrics,
	logger *slog.Logger,
) CancelConsignmentCommandHandler {
	return CancelConsignmentCommandHandler{
		uowFactory: uowFactory,
		metrics:    metrics,
		logger:     logger.With("component", "cancel_consignment"),
	}
}

// Handle rejects cancelling a consignment an allocation has claimed with an
// InvalidTransitionError.
func (h CancelConsignmentCommandHandler) Handle(
	ctx context.Context,
	cmd CancelConsignmentCommand,
) (*consignment.Consignment, error) {
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

	consignmentRepo := uow.ConsignmentRepository()
	current, err := consignmentRepo.GetByTrackingNumber(ctx, cmd.TrackingNumber())
	if err != nil {
		return nil, err
	}

	if err = uow.LockRoute(ctx, current.Route()); err != nil {
		return nil, err
	}

	locked, err := consignmentRepo.GetManyForUpdate(ctx, []kernel.UUID{current.ID()})
	if err != nil {
		return nil, err
	}
	c := locked[0]

	if err = c.Cancel(); err != nil {
		return nil, err
	}
	if err = consignmentRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.metrics.RecordConsignmentCancelled()
	h.logger.InfoContext(ctx, "Consignment cancelled",
		"consignment_id", c.ID().String(),
		"tracking_number", c.TrackingNumber().String(),
		"route", c.Route().String())

	return c, nil
}
