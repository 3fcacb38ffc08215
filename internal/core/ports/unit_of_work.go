package ports

import (
	"context"

	"freight/internal/core/domain/model/kernel"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Client code must explicitly manage transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// LockRoute serializes allocation decisions for route until the
	// transaction ends. Requires an active transaction.
	LockRoute(ctx context.Context, route kernel.Route) error

	// TruckRepository returns a TruckRepository bound to the current transaction.
	TruckRepository() TruckRepository

	// ConsignmentRepository returns a ConsignmentRepository bound to the current transaction.
	ConsignmentRepository() ConsignmentRepository

	// AllocationRepository returns an AllocationRepository bound to the current transaction.
	AllocationRepository() AllocationRepository
}
