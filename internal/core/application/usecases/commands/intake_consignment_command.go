package commands

import (
	"errors"

	"freight/internal/core/domain/model/consignment"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrIntakeConsignmentCommandIsNotConstructed = errors.New(
	"IntakeConsignmentCommand must be created via NewIntakeConsignmentCommand constructor",
)

// IntakeConsignmentCommand accepts a consignment at its source office.
//
// Example:
//
//	cmd, err := NewIntakeConsignmentCommand(source, destination, 250, "Asha", "+91 98450 00000", "Dev", "dev@example.com")
//	if err != nil {
//	    return fmt.Errorf("invalid consignment: %w", err)
//	}
//	result, err := handler.Handle(ctx, cmd)
type IntakeConsignmentCommand struct { //nolint:recvcheck //using for validation
	route    kernel.Route
	volume   kernel.Volume
	sender   consignment.Party
	receiver consignment.Party

	guard guard.ConstructorGuard
}

// NewIntakeConsignmentCommand validates the route, the volume (at least
// consignment.MinVolume) and both parties. All problems are reported together.
func NewIntakeConsignmentCommand(
	source kernel.UUID,
	destination kernel.UUID,
	volume float64,
	senderName, senderContact string,
	receiverName, receiverContact string,
) (IntakeConsignmentCommand, error) {
	cmd := IntakeConsignmentCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setRoute(source, destination),
		cmd.setVolume(volume),
		cmd.setSender(senderName, senderContact),
		cmd.setReceiver(receiverName, receiverContact),
	); err != nil {
		return IntakeConsignmentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c IntakeConsignmentCommand) Validate() error {
	return c.guard.Validate(ErrIntakeConsignmentCommandIsNotConstructed)
}

func (c IntakeConsignmentCommand) Route() kernel.Route         { return c.route }
func (c IntakeConsignmentCommand) Volume() kernel.Volume       { return c.volume }
func (c IntakeConsignmentCommand) Sender() consignment.Party   { return c.sender }
func (c IntakeConsignmentCommand) Receiver() consignment.Party { return c.receiver }

func (c *IntakeConsignmentCommand) setRoute(source, destination kernel.UUID) error {
	route, err := kernel.NewRoute(source, destination)
	if err != nil {
		return err
	}
	c.route = route
	return nil
}

func (c *IntakeConsignmentCommand) setVolume(volume float64) error {
	v, err := kernel.NewVolume(volume)
	if err != nil {
		return err
	}
	if v.Float64() < consignment.MinVolume {
		return errs.NewValueIsOutOfRangeError("volume", volume, consignment.MinVolume, "unbounded")
	}
	c.volume = v
	return nil
}

func (c *IntakeConsignmentCommand) setSender(name, contact string) error {
	party, err := consignment.NewParty("sender", name, contact)
	if err != nil {
		return err
	}
	c.sender = party
	return nil
}

func (c *IntakeConsignmentCommand) setReceiver(name, contact string) error {
	party, err := consignment.NewParty("receiver", name, contact)
	if err != nil {
		return err
	}
	c.receiver = party
	return nil
}
