package ports

import (
	"context"

	"freight/internal/core/domain/model/allocation"
	"freight/internal/core/domain/model/kernel"
)

// AllocationFilter narrows ListAllocations. Nil fields match everything.
type AllocationFilter struct {
	Status      *allocation.Status
	Source      *kernel.UUID
	Destination *kernel.UUID
	Truck       *kernel.UUID
}

// AllocationRepository defines the persistence contract for truck allocations.
type AllocationRepository interface {
	// Add persists a new allocation together with its consignment set.
	Add(ctx context.Context, aggregate *allocation.Allocation) error

	// Update writes status, dates and details as a compare-and-set on the
	// allocation version. The consignment set is never rewritten.
	Update(ctx context.Context, aggregate *allocation.Allocation) error

	// Delete removes the allocation if its version is unchanged.
	Delete(ctx context.Context, aggregate *allocation.Allocation) error

	// Get retrieves an allocation by id or returns an ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*allocation.Allocation, error)

	// GetForUpdate is Get holding a row lock until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*allocation.Allocation, error)

	// List returns the allocations matching filter, newest start first.
	List(ctx context.Context, filter AllocationFilter) ([]*allocation.Allocation, error)
}
