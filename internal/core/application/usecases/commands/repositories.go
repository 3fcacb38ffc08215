// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// RouteLocker serializes allocation decisions per route for the lifetime
	// of the current transaction.
	RouteLocker interface {
		LockRoute(ctx context.Context, route kernel.Route) error
	}

	// TruckRepoFactory provides access to truck repository within a transaction.
	TruckRepoFactory interface {
		TruckRepository() ports.TruckRepository
	}

	// ConsignmentRepoFactory provides access to consignment repository within a transaction.
	ConsignmentRepoFactory interface {
		ConsignmentRepository() ports.ConsignmentRepository
	}

	// AllocationRepoFactory provides access to allocation repository within a transaction.
	AllocationRepoFactory interface {
		AllocationRepository() ports.AllocationRepository
	}

	// TruckUoW manages transactions for fleet operations that touch trucks only.
	TruckUoW interface {
		TxManager
		TruckRepoFactory
	}

	// TruckUoWFactory creates new truck unit of work instances.
	TruckUoWFactory interface {
		Create() TruckUoW
	}

	// UoW manages transactions across trucks, consignments and allocations.
	// Every allocation engine command runs inside one.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   err = uow.LockRoute(ctx, route)
	//   // ... read backlog, decide, write truck, consignments and allocation
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		RouteLocker
		TruckRepoFactory
		ConsignmentRepoFactory
		AllocationRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)

// EngineMetrics receives the business events of the allocation engine.
type EngineMetrics interface {
	RecordConsignmentReceived()
	RecordConsignmentCancelled()
	RecordAllocationDecision(outcome string)
	RecordAllocationCreated(volume float64)
	RecordAllocationTransition(action string)
}
