package queries

import (
	"errors"

	"freight/internal/core/ports"
	"freight/internal/pkg/guard"
)

var ErrListAllocationsQueryIsNotConstructed = errors.New(
	"ListAllocationsQuery must be created via NewListAllocationsQuery constructor",
)

// ListAllocationsQuery lists allocations newest first. Every filter field is
// optional.
type ListAllocationsQuery struct {
	filter ports.AllocationFilter

	guard guard.ConstructorGuard
}

// NewListAllocationsQuery rejects an invalid status or identifier in filter.
func NewListAllocationsQuery(filter ports.AllocationFilter) (ListAllocationsQuery, error) {
	var statusErr, sourceErr, destinationErr, truckErr error
	if filter.Status != nil {
		statusErr = filter.Status.Validate()
	}
	if filter.Source != nil {
		sourceErr = filter.Source.Validate()
	}
	if filter.Destination != nil {
		destinationErr = filter.Destination.Validate()
	}
	if filter.Truck != nil {
		truckErr = filter.Truck.Validate()
	}
	if err := errors.Join(statusErr, sourceErr, destinationErr, truckErr); err != nil {
		return ListAllocationsQuery{}, err
	}

	return ListAllocationsQuery{filter: filter, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListAllocationsQuery) Validate() error {
	return q.guard.Validate(ErrListAllocationsQueryIsNotConstructed)
}

func (q ListAllocationsQuery) Filter() ports.AllocationFilter {
	return q.filter
}
