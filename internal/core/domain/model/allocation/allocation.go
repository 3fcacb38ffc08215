package allocation

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// ErrAllocationIsNotConstructed is returned when a zero value Allocation is used.
var ErrAllocationIsNotConstructed = errors.New("Allocation must be created via NewAllocation constructor")

// Details are the operator-editable annotations of an allocation.
type Details struct {
	Notes       string
	IdleHours   float64
	WaitingDays float64
}

// DetailsPatch edits some of the Details. A nil field keeps the stored value.
type DetailsPatch struct {
	Notes       *string
	IdleHours   *float64
	WaitingDays *float64
}

// IsEmpty reports whether the patch edits nothing.
func (p DetailsPatch) IsEmpty() bool {
	return p.Notes == nil && p.IdleHours == nil && p.WaitingDays == nil
}

// Apply returns current with the patched fields replaced.
func (p DetailsPatch) Apply(current Details) Details {
	if p.Notes != nil {
		current.Notes = *p.Notes
	}
	if p.IdleHours != nil {
		current.IdleHours = *p.IdleHours
	}
	if p.WaitingDays != nil {
		current.WaitingDays = *p.WaitingDays
	}
	return current
}

// Allocation binds one truck to a fixed set of consignments for one trip along
// one route. The consignment set and total volume are captured at creation
// and never change; a later backlog on the same route gets a new allocation.
type Allocation struct {
	id           kernel.UUID
	truckID      kernel.UUID
	route        kernel.Route
	consignments []kernel.UUID
	totalVolume  kernel.Volume
	status       Status
	startedAt    time.Time
	endedAt      *time.Time
	details      Details
	version      int

	guard guard.ConstructorGuard
}

// NewAllocation creates a Planned allocation.
func NewAllocation(
	id kernel.UUID,
	truckID kernel.UUID,
	route kernel.Route,
	consignments []kernel.UUID,
	totalVolume kernel.Volume,
	startedAt time.Time,
	details Details,
) (*Allocation, error) {
	return RestoreAllocation(id, truckID, route, consignments, totalVolume, Planned, startedAt, nil, details, 0)
}

// RestoreAllocation rebuilds an allocation from persisted state.
func RestoreAllocation(
	id kernel.UUID,
	truckID kernel.UUID,
	route kernel.Route,
	consignments []kernel.UUID,
	totalVolume kernel.Volume,
	status Status,
	startedAt time.Time,
	endedAt *time.Time,
	details Details,
	version int,
) (*Allocation, error) {
	a := &Allocation{
		endedAt: endedAt,
		version: version,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setTruck(truckID),
		a.setRoute(route),
		a.setConsignments(consignments),
		a.setTotalVolume(totalVolume),
		a.setStatus(status),
		a.setStartedAt(startedAt),
		a.setDetails(details),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// Validate ensures the allocation was built by a constructor.
func (a *Allocation) Validate() error {
	if a == nil {
		return ErrAllocationIsNotConstructed
	}
	return a.guard.Validate(ErrAllocationIsNotConstructed)
}

func (a *Allocation) ID() kernel.UUID            { return a.id }
func (a *Allocation) Truck() kernel.UUID         { return a.truckID }
func (a *Allocation) Route() kernel.Route        { return a.route }
func (a *Allocation) TotalVolume() kernel.Volume { return a.totalVolume }
func (a *Allocation) Status() Status             { return a.status }
func (a *Allocation) StartedAt() time.Time       { return a.startedAt }
func (a *Allocation) EndedAt() *time.Time        { return a.endedAt }
func (a *Allocation) Details() Details           { return a.details }
func (a *Allocation) Version() int               { return a.version }

// Consignments returns a copy of the bound consignment ids.
func (a *Allocation) Consignments() []kernel.UUID {
	return slices.Clone(a.consignments)
}

// Holds reports whether id is one of the bound consignments.
func (a *Allocation) Holds(id kernel.UUID) bool {
	return slices.ContainsFunc(a.consignments, id.IsEqual)
}

// ActionFor resolves a requested status into the lifecycle action, rejecting
// pairs outside the transition table with an InvalidTransitionError naming
// this allocation.
func (a *Allocation) ActionFor(requested Status) (Action, error) {
	action, err := ActionFor(a.status, requested)
	if err != nil {
		return NoAction, errs.NewInvalidTransitionError("allocation", a.id.String(), a.status.String(), requested.String())
	}
	return action, nil
}

// Dispatch moves a Planned allocation to InProgress.
func (a *Allocation) Dispatch() error {
	return a.apply(InProgress, Dispatch)
}

// Complete finishes an InProgress allocation and stamps its end.
func (a *Allocation) Complete(now time.Time) error {
	if err := a.apply(Completed, Complete); err != nil {
		return err
	}
	a.endedAt = &now
	return nil
}

// Cancel calls off a Planned allocation.
func (a *Allocation) Cancel() error {
	return a.apply(Cancelled, Cancel)
}

// ValidateDelete allows removing the allocation only while it is Planned.
func (a *Allocation) ValidateDelete() error {
	if err := a.status.ValidateDelete(); err != nil {
		return errs.NewInvalidTransitionError("allocation", a.id.String(), a.status.String(), "Deleted")
	}
	return nil
}

// UpdateDetails replaces the operator annotations. Status is never touched.
func (a *Allocation) UpdateDetails(details Details) error {
	return a.setDetails(details)
}

// PatchDetails applies patch on top of the current annotations.
func (a *Allocation) PatchDetails(patch DetailsPatch) error {
	return a.setDetails(patch.Apply(a.details))
}

func (a *Allocation) apply(to Status, want Action) error {
	action, err := a.ActionFor(to)
	if err != nil {
		return err
	}
	if action != want {
		return errs.NewInvalidTransitionError("allocation", a.id.String(), a.status.String(), to.String())
	}
	a.status = to
	return nil
}

func (a *Allocation) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Allocation) setTruck(truckID kernel.UUID) error {
	if err := truckID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("truck", err)
	}
	a.truckID = truckID
	return nil
}

func (a *Allocation) setRoute(route kernel.Route) error {
	if err := route.Validate(); err != nil {
		return err
	}
	a.route = route
	return nil
}

func (a *Allocation) setConsignments(ids []kernel.UUID) error {
	if len(ids) == 0 {
		return errs.NewValueIsRequiredError("consignments")
	}
	seen := make(map[kernel.UUID]struct{}, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("consignments", err)
		}
		if _, dup := seen[id]; dup {
			return errs.NewValueIsInvalidErrorWithCause("consignments", fmt.Errorf("%s is listed twice", id))
		}
		seen[id] = struct{}{}
	}
	a.consignments = slices.Clone(ids)
	return nil
}

func (a *Allocation) setTotalVolume(volume kernel.Volume) error {
	if volume.IsZero() {
		return errs.NewValueIsRequiredError("totalVolume")
	}
	a.totalVolume = volume
	return nil
}

func (a *Allocation) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	a.status = status
	return nil
}

func (a *Allocation) setStartedAt(startedAt time.Time) error {
	if startedAt.IsZero() {
		return errs.NewValueIsRequiredError("startDate")
	}
	a.startedAt = startedAt
	return nil
}

func (a *Allocation) setDetails(details Details) error {
	if isNegativeOrNaN(details.IdleHours) {
		return errs.NewValueIsOutOfRangeError("idleTime", details.IdleHours, 0, "unbounded")
	}
	if isNegativeOrNaN(details.WaitingDays) {
		return errs.NewValueIsOutOfRangeError("waitingTime", details.WaitingDays, 0, "unbounded")
	}
	details.Notes = strings.TrimSpace(details.Notes)
	a.details = details
	return nil
}

func isNegativeOrNaN(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0) || f < 0
}
