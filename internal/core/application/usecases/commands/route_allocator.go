package commands

import (
	"context"
	"log/slog"
	"time"

	"freight/internal/core/domain/model/allocation"
	"freight/internal/core/domain/model/consignment"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/truck"
	"freight/internal/core/domain/services"
)

// RouteAllocation is the result of one allocation decision. Allocation,
// Truck and Consignments are set only when the outcome is allocated.
type RouteAllocation struct {
	Route         kernel.Route
	Outcome       services.Outcome
	BacklogVolume kernel.Volume
	Allocation    *allocation.Allocation
	Truck         *truck.Truck
	Consignments  []*consignment.Consignment
}

// RouteAllocator runs the allocation decision for a route inside the caller's
// unit of work. Intake and explicit re-evaluation share it, so both follow
// the same locking and commit order.
type RouteAllocator struct {
	planner      services.AllocationPlanner
	stateMachine services.AllocationStateMachine
	metrics      EngineMetrics
	logger       *slog.Logger
	now          func() time.Time
}

// NewRouteAllocator creates a RouteAllocator using planner's trigger and
// truck selection policy.
func NewRouteAllocator(planner services.AllocationPlanner, metrics EngineMetrics, logger *slog.Logger) *RouteAllocator {
	return &RouteAllocator{
		planner:      planner,
		stateMachine: services.NewAllocationStateMachine(),
		metrics:      metrics,
		logger:       logger.With("component", "route_allocator"),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Allocate reads the backlog of route and, when it reached the trigger and a
// truck can carry it, creates a Planned allocation and writes the truck,
// consignments and allocation through uow. The caller must hold the route
// lock in uow, commits, and then passes the result to Report.
func (a *RouteAllocator) Allocate(ctx context.Context, uow UoW, route kernel.Route) (RouteAllocation, error) {
	consignmentRepo := uow.ConsignmentRepository()
	candidates, err := consignmentRepo.GetBacklog(ctx, route)
	if err != nil {
		return RouteAllocation{}, err
	}
	backlog, err := services.NewBacklog(route, candidates)
	if err != nil {
		return RouteAllocation{}, err
	}

	result := RouteAllocation{Route: route, Outcome: services.OutcomeBelowTrigger, BacklogVolume: backlog.Volume()}
	if !a.planner.IsTriggered(backlog) {
		return result, nil
	}

	truckRepo := uow.TruckRepository()
	trucks, err := truckRepo.GetAvailableAt(ctx, route.Source())
	if err != nil {
		return RouteAllocation{}, err
	}

	decision, err := a.planner.Decide(backlog, trucks)
	if err != nil {
		return RouteAllocation{}, err
	}
	result.Outcome = decision.Outcome
	if !decision.ShouldAllocate() {
		return result, nil
	}

	now := a.now()
	consignments := backlog.Consignments()
	created, err := a.stateMachine.Create(
		kernel.NewUUID(),
		decision.Truck,
		route,
		consignments,
		now,
		allocation.Details{WaitingDays: backlog.AverageWaitingDays(now)},
	)
	if err != nil {
		return RouteAllocation{}, err
	}

	if err = saveAll(ctx, uow, decision.Truck, consignments); err != nil {
		return RouteAllocation{}, err
	}
	if err = uow.AllocationRepository().Add(ctx, created); err != nil {
		return RouteAllocation{}, err
	}

	result.Allocation = created
	result.Truck = decision.Truck
	result.Consignments = consignments
	return result, nil
}

// Report records and logs a decision once the transaction that made it has
// committed.
func (a *RouteAllocator) Report(ctx context.Context, result RouteAllocation) {
	a.metrics.RecordAllocationDecision(string(result.Outcome))

	switch result.Outcome {
	case services.OutcomeAllocated:
		a.metrics.RecordAllocationCreated(result.Allocation.TotalVolume().Float64())
		a.logger.InfoContext(ctx, "Truck allocated to route backlog",
			"allocation_id", result.Allocation.ID().String(),
			"route", result.Route.String(),
			"truck_id", result.Truck.ID().String(),
			"consignments", len(result.Consignments),
			"total_volume", result.Allocation.TotalVolume().Float64())
	case services.OutcomeNoTruck:
		a.logger.InfoContext(ctx, "Route backlog reached trigger but no truck is available",
			"route", result.Route.String(), "backlog_volume", result.BacklogVolume.Float64())
	case services.OutcomeOverCapacity:
		a.logger.WarnContext(ctx, "Route backlog exceeds every available truck, allocate a subset manually",
			"route", result.Route.String(), "backlog_volume", result.BacklogVolume.Float64())
	}
}

// saveAll writes a truck and consignments changed by one state machine step.
func saveAll(ctx context.Context, uow UoW, t *truck.Truck, consignments []*consignment.Consignment) error {
	if err := uow.TruckRepository().Update(ctx, t); err != nil {
		return err
	}
	consignmentRepo := uow.ConsignmentRepository()
	for _, c := range consignments {
		if err := consignmentRepo.Update(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
