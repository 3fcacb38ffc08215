package queries

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrGetAllocationQueryIsNotConstructed = errors.New(
	"GetAllocationQuery must be created via NewGetAllocationQuery constructor",
)

// GetAllocationQuery reads one allocation populated with its truck and
// consignments.
type GetAllocationQuery struct {
	allocationID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetAllocationQuery(allocationID kernel.UUID) (GetAllocationQuery, error) {
	if err := allocationID.Validate(); err != nil {
		return GetAllocationQuery{}, errs.NewValueIsRequiredErrorWithCause("allocationID", err)
	}
	return GetAllocationQuery{allocationID: allocationID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetAllocationQuery) Validate() error {
	return q.guard.Validate(ErrGetAllocationQueryIsNotConstructed)
}

func (q GetAllocationQuery) AllocationID() kernel.UUID {
	return q.allocationID
}
