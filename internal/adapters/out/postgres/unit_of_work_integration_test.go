package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "freight/internal/adapters/out/postgres"
	"freight/internal/adapters/out/postgres/pgtest"
	"freight/internal/core/domain/model/consignment"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/truck"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite tests the GORM unit of work against a real
// PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   *postgres_adapter.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.container = container
	suite.Require().NoError(err)
	suite.db = db
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(pgtest.Truncate(suite.db))
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

// TestUnitOfWorkFactory_Create verifies every call yields an independent unit of work.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2)
	suite.NotNil(uow1.TruckRepository())
	suite.NotNil(uow1.ConsignmentRepository())
	suite.NotNil(uow2.AllocationRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "a second Begin is a no-op")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Commit(ctx)
	suite.Require().ErrorIs(err, errs.ErrStore)

	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)

	route, err := kernel.NewRoute(kernel.NewUUID(), kernel.NewUUID())
	suite.Require().NoError(err)
	suite.Require().ErrorIs(uow.LockRoute(ctx, route), errs.ErrStore)
}

// TestUnitOfWork_RollbackDiscardsEveryRepository writes through two
// repositories and checks that nothing survives a rollback.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsEveryRepository() {
	ctx := context.Background()
	route, err := kernel.NewRoute(kernel.NewUUID(), kernel.NewUUID())
	suite.Require().NoError(err)
	t := newTruck(suite.T(), "KA-01-RB-0001", 600, route.Source())
	c := newConsignment(suite.T(), route, 120)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.LockRoute(ctx, route))
	suite.Require().NoError(uow.TruckRepository().Add(ctx, t))
	suite.Require().NoError(uow.ConsignmentRepository().Add(ctx, c))
	suite.Equal(2, uow.(*postgres_adapter.GormUnitOfWork).TrackedCount())

	_, err = uow.ConsignmentRepository().Get(ctx, c.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(uow.Rollback(ctx))
	suite.Zero(uow.(*postgres_adapter.GormUnitOfWork).TrackedCount())

	fresh := suite.factory.Create()
	_, err = fresh.TruckRepository().Get(ctx, t.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	_, err = fresh.ConsignmentRepository().Get(ctx, c.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

// TestUnitOfWork_RepositoryIsolation verifies uncommitted writes stay
// invisible to other units of work.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoryIsolation() {
	ctx := context.Background()
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()
	t1 := newTruck(suite.T(), "KA-01-IS-0001", 600, kernel.NewUUID())
	t2 := newTruck(suite.T(), "KA-01-IS-0002", 600, kernel.NewUUID())

	suite.Require().NoError(uow1.Begin(ctx))
	suite.Require().NoError(uow2.Begin(ctx))
	suite.Require().NoError(uow1.TruckRepository().Add(ctx, t1))
	suite.Require().NoError(uow2.TruckRepository().Add(ctx, t2))

	_, err := uow1.TruckRepository().Get(ctx, t2.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	_, err = uow2.TruckRepository().Get(ctx, t1.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	suite.Require().NoError(uow1.Commit(ctx))
	suite.Require().NoError(uow2.Rollback(ctx))

	fresh := suite.factory.Create()
	_, err = fresh.TruckRepository().Get(ctx, t1.ID())
	suite.Require().NoError(err)
	_, err = fresh.TruckRepository().Get(ctx, t2.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

// TestUnitOfWork_LockRouteSerializes holds a route lock in one transaction
// and checks a second transaction waits for it.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_LockRouteSerializes() {
	ctx := context.Background()
	route, err := kernel.NewRoute(kernel.NewUUID(), kernel.NewUUID())
	suite.Require().NoError(err)

	holder := suite.factory.Create()
	suite.Require().NoError(holder.Begin(ctx))
	suite.Require().NoError(holder.LockRoute(ctx, route))

	acquired := make(chan error, 1)
	go func() {
		waiter := suite.factory.Create()
		if beginErr := waiter.Begin(ctx); beginErr != nil {
			acquired <- beginErr
			return
		}
		defer func() { _ = waiter.Rollback(ctx) }()
		acquired <- waiter.LockRoute(ctx, route)
	}()

	select {
	case <-acquired:
		suite.Fail("route lock was granted while another transaction held it")
	case <-time.After(300 * time.Millisecond):
	}

	suite.Require().NoError(holder.Commit(ctx))

	select {
	case lockErr := <-acquired:
		suite.Require().NoError(lockErr)
	case <-time.After(5 * time.Second):
		suite.Fail("route lock was not granted after commit")
	}
}

// TestUnitOfWork_WithoutTransaction verifies repositories fall back to the
// plain connection outside Begin/Commit.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransaction() {
	ctx := context.Background()
	t := newTruck(suite.T(), "KA-01-NT-0001", 600, kernel.NewUUID())

	uow := suite.factory.Create()
	suite.Require().NoError(uow.TruckRepository().Add(ctx, t))

	got, err := suite.factory.Create().TruckRepository().Get(ctx, t.ID())
	suite.Require().NoError(err)
	suite.Equal(truck.Available, got.Status())
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}

func newTruck(t *testing.T, registration string, capacity float64, office kernel.UUID) *truck.Truck {
	t.Helper()
	tr, err := truck.NewTruck(
		kernel.NewUUID(), registration, "Eicher Pro 3015", kernel.MustNewVolume(capacity), office,
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func newConsignment(t *testing.T, route kernel.Route, volume float64) *consignment.Consignment {
	t.Helper()
	sender, err := consignment.NewParty("sender", "Asha Rao", "+91 98450 00000")
	if err != nil {
		t.Fatal(err)
	}
	receiver, err := consignment.NewParty("receiver", "Dev Nair", "dev@example.com")
	if err != nil {
		t.Fatal(err)
	}
	charge, err := kernel.NewMoney(volume * 100)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now().UTC()
	c, err := consignment.NewConsignment(
		kernel.NewUUID(), consignment.GenerateTrackingNumber(now), route,
		kernel.MustNewVolume(volume), charge, sender, receiver, now,
	)
	if err != nil {
		t.Fatal(err)
	}
	return c
}
