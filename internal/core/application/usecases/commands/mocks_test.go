package commands_test

import (
	"context"
	"testing"
	"time"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/allocation"
	"freight/internal/core/domain/model/consignment"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/truck"
	"freight/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTruckRepository struct{ mock.Mock }

func (m *MockTruckRepository) Add(ctx context.Context, t *truck.Truck) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTruckRepository) Update(ctx context.Context, t *truck.Truck) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTruckRepository) Get(ctx context.Context, id kernel.UUID) (*truck.Truck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*truck.Truck), args.Error(1)
}

func (m *MockTruckRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*truck.Truck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*truck.Truck), args.Error(1)
}

func (m *MockTruckRepository) GetAvailableAt(ctx context.Context, office kernel.UUID) ([]*truck.Truck, error) {
	args := m.Called(ctx, office)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*truck.Truck), args.Error(1)
}

type MockConsignmentRepository struct{ mock.Mock }

func (m *MockConsignmentRepository) Add(ctx context.Context, c *consignment.Consignment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockConsignmentRepository) Update(ctx context.Context, c *consignment.Consignment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockConsignmentRepository) Get(ctx context.Context, id kernel.UUID) (*consignment.Consignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consignment.Consignment), args.Error(1)
}

func (m *MockConsignmentRepository) GetByTrackingNumber(
	ctx context.Context,
	number consignment.TrackingNumber,
) (*consignment.Consignment, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consignment.Consignment), args.Error(1)
}

func (m *MockConsignmentRepository) GetManyForUpdate(
	ctx context.Context,
	ids []kernel.UUID,
) ([]*consignment.Consignment, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*consignment.Consignment), args.Error(1)
}

// GetBacklog also accepts a func returning the backlog, so tests can include
// a consignment the handler created during the same call.
func (m *MockConsignmentRepository) GetBacklog(
	ctx context.Context,
	route kernel.Route,
) ([]*consignment.Consignment, error) {
	args := m.Called(ctx, route)
	if fn, ok := args.Get(0).(func() []*consignment.Consignment); ok {
		return fn(), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*consignment.Consignment), args.Error(1)
}

type MockAllocationRepository struct{ mock.Mock }

func (m *MockAllocationRepository) Add(ctx context.Context, a *allocation.Allocation) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAllocationRepository) Update(ctx context.Context, a *allocation.Allocation) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAllocationRepository) Delete(ctx context.Context, a *allocation.Allocation) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAllocationRepository) Get(ctx context.Context, id kernel.UUID) (*allocation.Allocation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*allocation.Allocation), args.Error(1)
}

func (m *MockAllocationRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*allocation.Allocation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*allocation.Allocation), args.Error(1)
}

func (m *MockAllocationRepository) List(
	ctx context.Context,
	filter ports.AllocationFilter,
) ([]*allocation.Allocation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*allocation.Allocation), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) LockRoute(ctx context.Context, route kernel.Route) error {
	args := m.Called(ctx, route)
	return args.Error(0)
}

func (m *MockUoW) TruckRepository() ports.TruckRepository {
	args := m.Called()
	return args.Get(0).(ports.TruckRepository)
}

func (m *MockUoW) ConsignmentRepository() ports.ConsignmentRepository {
	args := m.Called()
	return args.Get(0).(ports.ConsignmentRepository)
}

func (m *MockUoW) AllocationRepository() ports.AllocationRepository {
	args := m.Called()
	return args.Get(0).(ports.AllocationRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockTruckUoW struct{ mock.Mock }

func (m *MockTruckUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTruckUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTruckUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTruckUoW) TruckRepository() ports.TruckRepository {
	args := m.Called()
	return args.Get(0).(ports.TruckRepository)
}

type MockTruckUoWFactory struct{ mock.Mock }

func (m *MockTruckUoWFactory) Create() commands.TruckUoW {
	args := m.Called()
	return args.Get(0).(commands.TruckUoW)
}

type MockMetrics struct{ mock.Mock }

func (m *MockMetrics) RecordConsignmentReceived() {
	m.Called()
}

func (m *MockMetrics) RecordConsignmentCancelled() {
	m.Called()
}

func (m *MockMetrics) RecordAllocationDecision(outcome string) {
	m.Called(outcome)
}

func (m *MockMetrics) RecordAllocationCreated(volume float64) {
	m.Called(volume)
}

func (m *MockMetrics) RecordAllocationTransition(action string) {
	m.Called(action)
}

// engine bundles the mocks behind one UoW. Repository accessors may be
// called any number of times.
type engine struct {
	factory      *MockUoWFactory
	uow          *MockUoW
	trucks       *MockTruckRepository
	consignments *MockConsignmentRepository
	allocations  *MockAllocationRepository
	metrics      *MockMetrics
}

func newEngine() *engine {
	e := &engine{
		factory:      new(MockUoWFactory),
		uow:          new(MockUoW),
		trucks:       new(MockTruckRepository),
		consignments: new(MockConsignmentRepository),
		allocations:  new(MockAllocationRepository),
		metrics:      new(MockMetrics),
	}
	e.factory.On("Create").Return(e.uow).Once()
	e.uow.On("TruckRepository").Return(e.trucks).Maybe()
	e.uow.On("ConsignmentRepository").Return(e.consignments).Maybe()
	e.uow.On("AllocationRepository").Return(e.allocations).Maybe()
	return e
}

func (e *engine) assertExpectations(t *testing.T) {
	t.Helper()
	e.factory.AssertExpectations(t)
	e.uow.AssertExpectations(t)
	e.trucks.AssertExpectations(t)
	e.consignments.AssertExpectations(t)
	e.allocations.AssertExpectations(t)
	e.metrics.AssertExpectations(t)
}

var now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newRoute(t *testing.T) kernel.Route {
	t.Helper()
	route, err := kernel.NewRoute(kernel.NewUUID(), kernel.NewUUID())
	require.NoError(t, err)
	return route
}

func newTruck(t *testing.T, capacity float64, office kernel.UUID) *truck.Truck {
	t.Helper()
	tr, err := truck.NewTruck(kernel.NewUUID(), "KA-05-MX-0042", "Ashok Leyland 1616", kernel.MustNewVolume(capacity), office, now)
	require.NoError(t, err)
	return tr
}

func newConsignment(t *testing.T, route kernel.Route, volume float64, receivedAt time.Time) *consignment.Consignment {
	t.Helper()
	sender, err := consignment.NewParty("sender", "Asha", "asha@example.com")
	require.NoError(t, err)
	receiver, err := consignment.NewParty("receiver", "Ravi", "ravi@example.com")
	require.NoError(t, err)
	charge, err := kernel.NewMoney(volume * 100)
	require.NoError(t, err)

	c, err := consignment.NewConsignment(
		kernel.NewUUID(), consignment.GenerateTrackingNumber(receivedAt), route,
		kernel.MustNewVolume(volume), charge, sender, receiver, receivedAt,
	)
	require.NoError(t, err)
	return c
}

func ids(cs []*consignment.Consignment) []kernel.UUID {
	out := make([]kernel.UUID, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID())
	}
	return out
}
