package commands

import (
	"context"
	"errors"
	"time"

	"freight/internal/core/domain/model/allocation"
	"freight/internal/core/domain/model/consignment"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/services"
	"freight/internal/core/ports"
)

// trackingNumberAttempts bounds how often intake draws a new tracking number
// after a collision before reporting the conflict.
const trackingNumberAttempts = 3

// IntakeConsignmentResult is the stored consignment and the allocation
// decision its intake triggered.
type IntakeConsignmentResult struct {
	Consignment *consignment.Consignment
	Decision    RouteAllocation
}

// Allocation returns the allocation created by this intake, if any.
func (r IntakeConsignmentResult) Allocation() *allocation.Allocation {
	return r.Decision.Allocation
}

// IntakeConsignmentCommandHandler prices and stores a new consignment, then
// runs the allocation decision for its route in the same transaction.
//
// The route lock is taken before the consignment is written, so two intakes
// on the same route evaluate the backlog one after the other and the second
// one sees the first one's consignment.
type IntakeConsignmentCommandHandler struct {
	uowFactory UoWFactory
	charges    services.ChargeCalculator
	allocator  *RouteAllocator
	metrics    EngineMetrics
	now        func() time.Time
}

// NewIntakeConsignmentCommandHandler creates a handler for consignment intake.
func NewIntakeConsignmentCommandHandler(
	uowFactory UoWFactory,
	charges services.ChargeCalculator,
	allocator *RouteAllocator,
	metrics EngineMetrics,
) IntakeConsignmentCommandHandler {
	return IntakeConsignmentCommandHandler{
		uowFactory: uowFactory,
		charges:    charges,
		allocator:  allocator,
		metrics:    metrics,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Handle processes the intake command.
func (h IntakeConsignmentCommandHandler) Handle(
	ctx context.Context,
	cmd IntakeConsignmentCommand,
) (IntakeConsignmentResult, error) {
	if err := cmd.Validate(); err != nil {
		return IntakeConsignmentResult{}, err
	}

	charge, err := h.charges.Charge(cmd.Volume(), cmd.Route())
	if err != nil {
		return IntakeConsignmentResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return IntakeConsignmentResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.LockRoute(ctx, cmd.Route()); err != nil {
		return IntakeConsignmentResult{}, err
	}

	received, err := h.add(ctx, uow, cmd, charge)
	if err != nil {
		return IntakeConsignmentResult{}, err
	}

	decision, err := h.allocator.Allocate(ctx, uow, cmd.Route())
	if err != nil {
		return IntakeConsignmentResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return IntakeConsignmentResult{}, err
	}
	h.metrics.RecordConsignmentReceived()
	h.allocator.Report(ctx, decision)

	for _, c := range decision.Consignments {
		if c.ID().IsEqual(received.ID()) {
			received = c
		}
	}
	return IntakeConsignmentResult{Consignment: received, Decision: decision}, nil
}

// add stores a new Received consignment, drawing a fresh tracking number when
// the previous one is already taken.
func (h IntakeConsignmentCommandHandler) add(
	ctx context.Context,
	uow UoW,
	cmd IntakeConsignmentCommand,
	charge kernel.Money,
) (*consignment.Consignment, error) {
	var err error
	for range trackingNumberAttempts {
		now := h.now()
		var received *consignment.Consignment
		received, err = consignment.NewConsignment(
			kernel.NewUUID(),
			consignment.GenerateTrackingNumber(now),
			cmd.Route(),
			cmd.Volume(),
			charge,
			cmd.Sender(),
			cmd.Receiver(),
			now,
		)
		if err != nil {
			return nil, err
		}

		err = uow.ConsignmentRepository().Add(ctx, received)
		if err == nil {
			return received, nil
		}
		if !errors.Is(err, ports.ErrTrackingNumberTaken) {
			return nil, err
		}
	}
	return nil, err
}
