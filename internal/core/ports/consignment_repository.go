package ports

import (
	"context"
	"errors"

	"freight/internal/core/domain/model/consignment"
	"freight/internal/core/domain/model/kernel"
)

// ErrTrackingNumberTaken is the cause of the ConcurrencyConflictError Add
// returns when another consignment already holds the tracking number.
var ErrTrackingNumberTaken = errors.New("tracking number already taken")

// ConsignmentRepository defines the persistence contract for consignments.
type ConsignmentRepository interface {
	// Add persists a consignment accepted at intake. A tracking number
	// collision leaves the surrounding transaction usable.
	Add(ctx context.Context, aggregate *consignment.Consignment) error

	// Update is a compare-and-set on the consignment version; a lost race is
	// a ConcurrencyConflictError.
	Update(ctx context.Context, aggregate *consignment.Consignment) error

	// Get retrieves a consignment by id or returns an ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*consignment.Consignment, error)

	// GetByTrackingNumber retrieves a consignment by its public code.
	GetByTrackingNumber(ctx context.Context, number consignment.TrackingNumber) (*consignment.Consignment, error)

	// GetManyForUpdate locks and returns the consignments in the order of ids.
	// A missing id is an ObjectNotFoundError naming it.
	GetManyForUpdate(ctx context.Context, ids []kernel.UUID) ([]*consignment.Consignment, error)

	// GetBacklog locks and returns the Received, unclaimed consignments of
	// route, oldest first.
	GetBacklog(ctx context.Context, route kernel.Route) ([]*consignment.Consignment, error)
}
