package queries

import (
	"errors"

	"freight/internal/core/domain/model/consignment"
	"freight/internal/pkg/guard"
)

var ErrGetConsignmentQueryIsNotConstructed = errors.New(
	"GetConsignmentQuery must be created via NewGetConsignmentQuery constructor",
)

// GetConsignmentQuery looks a consignment up by the tracking number printed
// on its note.
type GetConsignmentQuery struct {
	trackingNumber consignment.TrackingNumber

	guard guard.ConstructorGuard
}

// NewGetConsignmentQuery parses trackingNumber; lower case input is accepted.
func NewGetConsignmentQuery(trackingNumber string) (GetConsignmentQuery, error) {
	number, err := consignment.NewTrackingNumber(trackingNumber)
	if err != nil {
		return GetConsignmentQuery{}, err
	}
	return GetConsignmentQuery{trackingNumber: number, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetConsignmentQuery) Validate() error {
	return q.guard.Validate(ErrGetConsignmentQueryIsNotConstructed)
}

func (q GetConsignmentQuery) TrackingNumber() consignment.TrackingNumber {
	return q.trackingNumber
}
