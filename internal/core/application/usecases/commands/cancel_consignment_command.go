package commands

import (
	"errors"

	"freight/internal/core/domain/model/consignment"
	"freight/internal/pkg/guard"
)

var ErrCancelConsignmentCommandIsNotConstructed = errors.New(
	"CancelConsignmentCommand must be created via NewCancelConsignmentCommand constructor",
)

// CancelConsignmentCommand withdraws a consignment still waiting in its route
// backlog, identified by the tracking number the sender holds.
type CancelConsignmentCommand struct {
	trackingNumber consignment.TrackingNumber

	guard guard.ConstructorGuard
}

// NewCancelConsignmentCommand requires a well formed tracking number.
func NewCancelConsignmentCommand(trackingNumber string) (CancelConsignmentCommand, error) {
	number, err := consignment.NewTrackingNumber(trackingNumber)
	if err != nil {
		return CancelConsignmentCommand{}, err
	}
	return CancelConsignmentCommand{trackingNumber: number, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelConsignmentCommand) Validate() error {
	return c.guard.Validate(ErrCancelConsignmentCommandIsNotConstructed)
}

// TrackingNumber returns the consignment to cancel.
func (c CancelConsignmentCommand) TrackingNumber() consignment.TrackingNumber {
	return c.trackingNumber
}
