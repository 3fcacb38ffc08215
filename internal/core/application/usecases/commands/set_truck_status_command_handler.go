package commands

import (
	"context"
	"log/slog"
	"time"

	"freight/internal/core/domain/model/truck"
)

// SetTruckStatusCommandHandler applies operator status changes. A truck held
// by an allocation (Loading or InTransit) cannot be changed this way.
type SetTruckStatusCommandHandler struct {
	uowFactory TruckUoWFactory
	logger     *slog.Logger
	now        func() time.Time
}

// NewSetTruckStatusCommandHandler creates a handler for operator status changes.
func NewSetTruckStatusCommandHandler(uowFactory TruckUoWFactory, logger *slog.Logger) SetTruckStatusCommandHandler {
	return SetTruckStatusCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "set_truck_status"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Handle loads the truck under a row lock, changes its status and stores it.
func (h SetTruckStatusCommandHandler) Handle(ctx context.Context, cmd SetTruckStatusCommand) (*truck.Truck, error) {
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

	truckRepo := uow.TruckRepository()
	t, err := truckRepo.GetForUpdate(ctx, cmd.TruckID())
	if err != nil {
		return nil, err
	}

	from := t.Status()
	if err = t.SetOperationalStatus(cmd.Target(), h.now()); err != nil {
		return nil, err
	}

	if err = truckRepo.Update(ctx, t); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "Truck status changed",
		"truck_id", t.ID().String(),
		"from", from.String(),
		"to", t.Status().String())

	return t, nil
}
