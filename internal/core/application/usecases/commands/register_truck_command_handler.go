package commands

import (
	"context"
	"log/slog"
	"time"

	"freight/internal/core/domain/model/truck"
)

// RegisterTruckCommandHandler persists newly registered trucks.
type RegisterTruckCommandHandler struct {
	uowFactory TruckUoWFactory
	logger     *slog.Logger
	now        func() time.Time
}

// NewRegisterTruckCommandHandler creates a handler for truck registration.
func NewRegisterTruckCommandHandler(uowFactory TruckUoWFactory, logger *slog.Logger) RegisterTruckCommandHandler {
	return RegisterTruckCommandHandler{
		uowFactory: uowFactory,
		logger:     logger.With("component", "register_truck"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Handle stores the truck. A duplicate registration number is rejected by
// the repository.
func (h RegisterTruckCommandHandler) Handle(ctx context.Context, cmd RegisterTruckCommand) (*truck.Truck, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	registered, err := truck.NewTruck(
		cmd.TruckID(),
		cmd.Registration(),
		cmd.Model(),
		cmd.Capacity(),
		cmd.Office(),
		h.now(),
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.TruckRepository().Add(ctx, registered); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "Truck registered",
		"truck_id", registered.ID().String(),
		"registration", registered.Registration(),
		"capacity", registered.Capacity().Float64())

	return registered, nil
}
