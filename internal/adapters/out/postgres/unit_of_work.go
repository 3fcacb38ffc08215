// Package postgres provides the GORM implementation of the Unit of Work used
// by every allocation engine command.
//
// One unit of work is one database transaction. Repositories obtained from it
// run inside that transaction, and LockRoute takes a transaction-scoped
// advisory lock so that only one transaction at a time evaluates a route's
// backlog.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.LockRoute(ctx, route); err != nil {
//	    return err
//	}
//	if err := uow.ConsignmentRepository().Add(ctx, c); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - Each UnitOfWork instance owns one transaction; do not share it between goroutines
//   - The route lock is taken before any consignment or truck row. Intake,
//     route evaluation and manual allocation lock the route first; status
//     changes and deletion lock the allocation row, then the route, then the
//     truck and consignments
//   - Repository updates are version checked; a lost race surfaces as errs.ErrConcurrencyConflict
package postgres

import (
	"context"

	"freight/internal/adapters/out/postgres/allocationrepo"
	"freight/internal/adapters/out/postgres/consignmentrepo"
	"freight/internal/adapters/out/postgres/pgerr"
	"freight/internal/adapters/out/postgres/truckrepo"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// Migrate creates or updates every table the repositories use.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&truckrepo.TruckDTO{},
		&consignmentrepo.ConsignmentDTO{},
		&allocationrepo.AllocationDTO{},
		&allocationrepo.AllocationConsignmentDTO{},
	)
}

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db)
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork with its own transaction state.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and records the
// aggregates written in it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling Begin twice is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return errs.NewStoreError("begin", tx.Error)
	}
	uow.tx = tx
	return nil
}

// Commit makes every change of the transaction permanent. A serialization
// failure or deadlock at commit is reported as a concurrency conflict.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return errs.NewStoreError("commit", gorm.ErrInvalidTransaction)
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return pgerr.Map("transaction", "commit", err)
}

// Rollback discards the transaction. It returns gorm.ErrInvalidTransaction
// after Commit, which handlers ignore in their deferred call.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// LockRoute takes pg_advisory_xact_lock on the route key. The lock is released
// by Commit or Rollback.
func (uow *GormUnitOfWork) LockRoute(ctx context.Context, route kernel.Route) error {
	if err := route.Validate(); err != nil {
		return err
	}
	if uow.tx == nil {
		return errs.NewStoreError("lock route", gorm.ErrInvalidTransaction)
	}

	err := uow.tx.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", route.Key()).
		Error
	return pgerr.Map("route", "lock route", err)
}

// TruckRepository returns a truck repository bound to the current transaction,
// or to the plain connection when none is active.
func (uow *GormUnitOfWork) TruckRepository() ports.TruckRepository {
	return truckrepo.NewGormTruckRepository(uow.conn(), uow)
}

// ConsignmentRepository returns a consignment repository bound to the current
// transaction.
func (uow *GormUnitOfWork) ConsignmentRepository() ports.ConsignmentRepository {
	return consignmentrepo.NewGormConsignmentRepository(uow.conn(), uow)
}

// AllocationRepository returns an allocation repository bound to the current
// transaction.
func (uow *GormUnitOfWork) AllocationRepository() ports.AllocationRepository {
	return allocationrepo.NewGormAllocationRepository(uow.conn(), uow)
}

// TrackAggregate registers an aggregate written within this unit of work.
// Repositories call it after each successful write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// TrackedCount returns how many writes the unit of work has recorded.
func (uow *GormUnitOfWork) TrackedCount() int {
	return len(uow.trackedAggregates)
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
