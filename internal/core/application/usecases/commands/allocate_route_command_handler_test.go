package commands_test

import (
	"log/slog"
	"testing"
	"time"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/consignment"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/truck"
	"freight/internal/core/domain/services"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAllocateRouteCommandHandler_Handle_UsesBestFitPolicy(t *testing.T) {
	ctx := t.Context()
	e := newEngine()
	route := newRoute(t)
	backlog := []*consignment.Consignment{
		newConsignment(t, route, 300, now.Add(-2*time.Hour)),
		newConsignment(t, route, 250, now.Add(-time.Hour)),
	}
	large := newTruck(t, 2000, route.Source())
	snug := newTruck(t, 600, route.Source())

	planner, err := services.NewAllocationPlanner(services.DefaultTriggerVolume, services.BestFit)
	require.NoError(t, err)
	allocator := commands.NewRouteAllocator(planner, e.metrics, slog.New(slog.DiscardHandler))

	mock.InOrder(
		e.uow.On("Begin", ctx).Return(nil).Once(),
		e.uow.On("LockRoute", ctx, route).Return(nil).Once(),
		e.consignments.On("GetBacklog", ctx, route).Return(backlog, nil).Once(),
		e.trucks.On("GetAvailableAt", ctx, route.Source()).Return([]*truck.Truck{large, snug}, nil).Once(),
		e.trucks.On("Update", ctx, snug).Return(nil).Once(),
		e.consignments.On("Update", ctx, mock.AnythingOfType("*consignment.Consignment")).Return(nil).Twice(),
		e.allocations.On("Add", ctx, mock.AnythingOfType("*allocation.Allocation")).Return(nil).Once(),
		e.uow.On("Commit", ctx).Return(nil).Once(),
		e.metrics.On("RecordAllocationDecision", "allocated").Return().Once(),
		e.metrics.On("RecordAllocationCreated", 550.0).Return().Once(),
		e.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	cmd, err := commands.NewAllocateRouteCommand(route.Source(), route.Destination())
	require.NoError(t, err)

	result, err := commands.NewAllocateRouteCommandHandler(e.factory, allocator).Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, result.Allocation)
	assert.Same(t, snug, result.Truck)
	assert.Equal(t, truck.Available, large.Status())
	assert.Positive(t, result.Allocation.Details().WaitingDays)
	e.assertExpectations(t)
}

func TestAllocateRouteCommandHandler_Handle_EmptyBacklog(t *testing.T) {
	ctx := t.Context()
	e := newEngine()
	route := newRoute(t)

	planner, err := services.NewAllocationPlanner(services.DefaultTriggerVolume, services.LowestID)
	require.NoError(t, err)
	allocator := commands.NewRouteAllocator(planner, e.metrics, slog.New(slog.DiscardHandler))

	mock.InOrder(
		e.uow.On("Begin", ctx).Return(nil).Once(),
		e.uow.On("LockRoute", ctx, route).Return(nil).Once(),
		e.consignments.On("GetBacklog", ctx, route).Return([]*consignment.Consignment{}, nil).Once(),
		e.uow.On("Commit", ctx).Return(nil).Once(),
		e.metrics.On("RecordAllocationDecision", "below_trigger").Return().Once(),
		e.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	cmd, err := commands.NewAllocateRouteCommand(route.Source(), route.Destination())
	require.NoError(t, err)

	result, err := commands.NewAllocateRouteCommandHandler(e.factory, allocator).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, services.OutcomeBelowTrigger, result.Outcome)
	assert.True(t, result.BacklogVolume.IsZero())
	e.assertExpectations(t)
}

func TestAllocateRouteCommandHandler_Handle_CommitErrorRecordsNothing(t *testing.T) {
	ctx := t.Context()
	e := newEngine()
	route := newRoute(t)
	backlog := []*consignment.Consignment{newConsignment(t, route, 550, now.Add(-time.Hour))}
	tr := newTruck(t, 600, route.Source())

	planner, err := services.NewAllocationPlanner(services.DefaultTriggerVolume, services.LowestID)
	require.NoError(t, err)
	allocator := commands.NewRouteAllocator(planner, e.metrics, slog.New(slog.DiscardHandler))

	mock.InOrder(
		e.uow.On("Begin", ctx).Return(nil).Once(),
		e.uow.On("LockRoute", ctx, route).Return(nil).Once(),
		e.consignments.On("GetBacklog", ctx, route).Return(backlog, nil).Once(),
		e.trucks.On("GetAvailableAt", ctx, route.Source()).Return([]*truck.Truck{tr}, nil).Once(),
		e.trucks.On("Update", ctx, tr).Return(nil).Once(),
		e.consignments.On("Update", ctx, backlog[0]).Return(nil).Once(),
		e.allocations.On("Add", ctx, mock.AnythingOfType("*allocation.Allocation")).Return(nil).Once(),
		e.uow.On("Commit", ctx).Return(errs.NewConcurrencyConflictError("truck", tr.ID().String())).Once(),
		e.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	cmd, err := commands.NewAllocateRouteCommand(route.Source(), route.Destination())
	require.NoError(t, err)

	_, err = commands.NewAllocateRouteCommandHandler(e.factory, allocator).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConcurrencyConflict)
	e.metrics.AssertNotCalled(t, "RecordAllocationDecision", mock.Anything)
	e.metrics.AssertNotCalled(t, "RecordAllocationCreated", mock.Anything)
	e.assertExpectations(t)
}

func TestNewAllocateRouteCommand_SameOffice(t *testing.T) {
	office := kernel.NewUUID()
	_, err := commands.NewAllocateRouteCommand(office, office)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}
