package truck

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var (
	// ErrTruckIsNotConstructed is returned when a zero value Truck is used.
	ErrTruckIsNotConstructed = errors.New("Truck must be created via NewTruck constructor")
	// ErrRegistrationIsRequired is returned for a blank registration number.
	ErrRegistrationIsRequired = errs.NewValueIsRequiredError("registrationNumber")
	// ErrModelIsRequired is returned for a blank truck model.
	ErrModelIsRequired = errs.NewValueIsRequiredError("model")
)

// Truck is a fleet vehicle. Its registration, model and capacity are set by
// the fleet; status and current office change as side effects of allocation
// transitions, or by an operator while no allocation holds the truck.
type Truck struct {
	id              kernel.UUID
	registration    string
	model           string
	capacity        kernel.Volume
	office          kernel.UUID
	status          Status
	lastMaintenance time.Time
	version         int

	guard guard.ConstructorGuard
}

// NewTruck registers an available truck parked at office.
// The registration number is trimmed and upper-cased.
func NewTruck(
	id kernel.UUID,
	registration string,
	model string,
	capacity kernel.Volume,
	office kernel.UUID,
	now time.Time,
) (*Truck, error) {
	return RestoreTruck(id, registration, model, capacity, office, Available, now, 0)
}

// RestoreTruck rebuilds a truck from persisted state.
func RestoreTruck(
	id kernel.UUID,
	registration string,
	model string,
	capacity kernel.Volume,
	office kernel.UUID,
	status Status,
	lastMaintenance time.Time,
	version int,
) (*Truck, error) {
	t := &Truck{
		lastMaintenance: lastMaintenance,
		version:         version,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		t.setID(id),
		t.setRegistration(registration),
		t.setModel(model),
		t.setCapacity(capacity),
		t.setOffice(office),
		t.setStatus(status),
	); err != nil {
		return nil, err
	}

	return t, nil
}

// Validate ensures the truck was built by NewTruck or RestoreTruck.
func (t *Truck) Validate() error {
	if t == nil {
		return ErrTruckIsNotConstructed
	}
	return t.guard.Validate(ErrTruckIsNotConstructed)
}

func (t *Truck) ID() kernel.UUID            { return t.id }
func (t *Truck) Registration() string       { return t.registration }
func (t *Truck) Model() string              { return t.model }
func (t *Truck) Capacity() kernel.Volume    { return t.capacity }
func (t *Truck) CurrentOffice() kernel.UUID { return t.office }
func (t *Truck) Status() Status             { return t.status }
func (t *Truck) LastMaintenance() time.Time { return t.lastMaintenance }

// Version is the optimistic concurrency token last read from the store.
func (t *Truck) Version() int { return t.version }

// IsAvailableAt reports whether the truck can be committed to an allocation
// leaving office.
func (t *Truck) IsAvailableAt(office kernel.UUID) bool {
	return t.status == Available && t.office.IsEqual(office)
}

// CanCarry reports whether volume fits into the truck.
func (t *Truck) CanCarry(volume kernel.Volume) bool {
	return !volume.Exceeds(t.capacity)
}

// ValidateLoad checks, without side effects, that the truck can start loading
// volume at office.
func (t *Truck) ValidateLoad(office kernel.UUID, volume kernel.Volume) error {
	if _, err := t.status.Load(); err != nil {
		return t.transitionError(err)
	}
	if !t.office.IsEqual(office) {
		return errs.NewValueIsInvalidErrorWithCause(
			"truck",
			fmt.Errorf("truck %s is at office %s, not at %s", t.id, t.office, office),
		)
	}
	if !t.CanCarry(volume) {
		return errs.NewCapacityExceededError(t.id.String(), volume.Float64(), t.capacity.Float64())
	}
	return nil
}

// Load commits the truck to a new allocation.
func (t *Truck) Load(office kernel.UUID, volume kernel.Volume) error {
	if err := t.ValidateLoad(office, volume); err != nil {
		return err
	}
	t.status = Loading
	return nil
}

// Depart puts the loaded truck on the road.
func (t *Truck) Depart() error {
	next, err := t.status.Depart()
	if err != nil {
		return t.transitionError(err)
	}
	t.status = next
	return nil
}

// Arrive frees the truck at destination, which becomes its current office.
func (t *Truck) Arrive(destination kernel.UUID) error {
	if err := destination.Validate(); err != nil {
		return err
	}
	next, err := t.status.Arrive()
	if err != nil {
		return t.transitionError(err)
	}
	t.status = next
	t.office = destination
	return nil
}

// Release frees a loading truck whose allocation was called off.
func (t *Truck) Release() error {
	next, err := t.status.Release()
	if err != nil {
		return t.transitionError(err)
	}
	t.status = next
	return nil
}

// SetOperationalStatus applies an operator change among Available,
// Maintenance and OutOfService. Returning from maintenance stamps
// lastMaintenance with now.
func (t *Truck) SetOperationalStatus(target Status, now time.Time) error {
	next, err := t.status.SetOperational(target)
	if err != nil {
		return t.transitionError(err)
	}
	if t.status == Maintenance && next != Maintenance {
		t.lastMaintenance = now
	}
	t.status = next
	return nil
}

func (t *Truck) transitionError(err error) error {
	var transitionErr *errs.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		return errs.NewInvalidTransitionError("truck", t.id.String(), transitionErr.From, transitionErr.To)
	}
	return err
}

func (t *Truck) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	t.id = id
	return nil
}

func (t *Truck) setRegistration(registration string) error {
	registration = strings.ToUpper(strings.TrimSpace(registration))
	if registration == "" {
		return ErrRegistrationIsRequired
	}
	t.registration = registration
	return nil
}

func (t *Truck) setModel(model string) error {
	model = strings.TrimSpace(model)
	if model == "" {
		return ErrModelIsRequired
	}
	t.model = model
	return nil
}

func (t *Truck) setCapacity(capacity kernel.Volume) error {
	if capacity.IsZero() {
		return errs.NewValueIsRequiredError("capacity")
	}
	t.capacity = capacity
	return nil
}

func (t *Truck) setOffice(office kernel.UUID) error {
	if err := office.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("currentOffice", err)
	}
	t.office = office
	return nil
}

func (t *Truck) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	t.status = status
	return nil
}
