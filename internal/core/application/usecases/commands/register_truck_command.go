package commands

import (
	"errors"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrRegisterTruckCommandIsNotConstructed = errors.New(
	"RegisterTruckCommand must be created via NewRegisterTruckCommand constructor",
)

// RegisterTruckCommand adds a truck to the fleet, Available at office.
//
// Example:
//
//	cmd, err := NewRegisterTruckCommand("KA-01-AB-1234", "Tata 1613", 600, office)
//	if err != nil {
//	    return fmt.Errorf("invalid truck data: %w", err)
//	}
//	registered, err := handler.Handle(ctx, cmd)
type RegisterTruckCommand struct { //nolint:recvcheck //using for validation
	truckID      kernel.UUID
	registration string
	model        string
	capacity     kernel.Volume
	office       kernel.UUID

	guard guard.ConstructorGuard
}

// NewRegisterTruckCommand generates the truck id and checks that the
// registration and model are present, the capacity is positive and the office
// is set.
func NewRegisterTruckCommand(
	registration string,
	model string,
	capacity float64,
	office kernel.UUID,
) (RegisterTruckCommand, error) {
	cmd := RegisterTruckCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setTruckID(kernel.NewUUID()),
		cmd.setRegistration(registration),
		cmd.setModel(model),
		cmd.setCapacity(capacity),
		cmd.setOffice(office),
	); err != nil {
		return RegisterTruckCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterTruckCommand) Validate() error {
	return c.guard.Validate(ErrRegisterTruckCommandIsNotConstructed)
}

// TruckID returns the generated truck id.
func (c RegisterTruckCommand) TruckID() kernel.UUID {
	return c.truckID
}

// Registration returns the registration number.
func (c RegisterTruckCommand) Registration() string {
	return c.registration
}

// Model returns the truck model.
func (c RegisterTruckCommand) Model() string {
	return c.model
}

// Capacity returns the load capacity.
func (c RegisterTruckCommand) Capacity() kernel.Volume {
	return c.capacity
}

// Office returns the branch office the truck is parked at.
func (c RegisterTruckCommand) Office() kernel.UUID {
	return c.office
}

func (c *RegisterTruckCommand) setTruckID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.truckID = id
	return nil
}

func (c *RegisterTruckCommand) setRegistration(registration string) error {
	if strings.TrimSpace(registration) == "" {
		return errs.NewValueIsRequiredError("registrationNumber")
	}
	c.registration = registration
	return nil
}

func (c *RegisterTruckCommand) setModel(model string) error {
	if strings.TrimSpace(model) == "" {
		return errs.NewValueIsRequiredError("model")
	}
	c.model = model
	return nil
}

func (c *RegisterTruckCommand) setCapacity(capacity float64) error {
	volume, err := kernel.NewVolume(capacity)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("capacity", err)
	}
	if volume.IsZero() {
		return errs.NewValueIsRequiredError("capacity")
	}
	c.capacity = volume
	return nil
}

func (c *RegisterTruckCommand) setOffice(office kernel.UUID) error {
	if err := office.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("office", err)
	}
	c.office = office
	return nil
}
