package queries

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/truck"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrListTrucksQueryIsNotConstructed = errors.New(
	"ListTrucksQuery must be created via NewListTrucksQuery constructor",
)

// ListTrucksQuery lists the fleet, optionally narrowed to one office and one
// status.
//
// Example:
//
//	available := truck.Available
//	query, err := NewListTrucksQuery(&office, &available)
//	if err != nil {
//	    return err
//	}
//	trucks, err := handler.Handle(ctx, query)
type ListTrucksQuery struct {
	office *kernel.UUID
	status *truck.Status

	guard guard.ConstructorGuard
}

func NewListTrucksQuery(office *kernel.UUID, status *truck.Status) (ListTrucksQuery, error) {
	var officeErr, statusErr error
	if office != nil {
		if err := office.Validate(); err != nil {
			officeErr = errs.NewValueIsInvalidErrorWithCause("office", err)
		}
	}
	if status != nil {
		statusErr = status.Validate()
	}
	if err := errors.Join(officeErr, statusErr); err != nil {
		return ListTrucksQuery{}, err
	}

	return ListTrucksQuery{office: office, status: status, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListTrucksQuery) Validate() error {
	return q.guard.Validate(ErrListTrucksQueryIsNotConstructed)
}

func (q ListTrucksQuery) Office() *kernel.UUID  { return q.office }
func (q ListTrucksQuery) Status() *truck.Status { return q.status }
