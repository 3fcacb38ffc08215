// Package ports defines the persistence contracts of the allocation engine.
// Adapters implement them; command handlers depend only on these interfaces.
package ports

import (
	"context"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/truck"
)

// TruckRepository defines the persistence contract for truck aggregates.
type TruckRepository interface {
	// Add persists a newly registered truck. A duplicate registration number
	// is reported as a ValueIsInvalidError.
	Add(ctx context.Context, aggregate *truck.Truck) error

	// Update writes the truck only if its stored version still equals the
	// version it was read with; otherwise it returns a ConcurrencyConflictError.
	Update(ctx context.Context, aggregate *truck.Truck) error

	// Get retrieves a truck by id or returns an ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*truck.Truck, error)

	// GetForUpdate is Get holding a row lock until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*truck.Truck, error)

	// GetAvailableAt returns every Available truck parked at office, ordered
	// by id.
	GetAvailableAt(ctx context.Context, office kernel.UUID) ([]*truck.Truck, error)
}
