package services

import (
	"errors"
	"fmt"
	"time"

	"freight/internal/core/domain/model/allocation"
	"freight/internal/core/domain/model/consignment"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/truck"
	"freight/internal/pkg/errs"
)

// AllocationStateMachine drives a truck allocation through its lifecycle and
// applies the matching truck and consignment transitions.
//
//	create    -> Planned              truck Loading     consignments Waiting
//	dispatch  Planned -> InProgress   truck InTransit   consignments InTransit
//	complete  InProgress -> Completed truck Available   consignments Delivered
//	cancel    Planned -> Cancelled    truck Available   consignments Received
//	delete    Planned, removed        truck Available   consignments Received
//
// Completing moves the truck to the route's destination office. Cancel and
// delete clear the consignments' truck so they rejoin the route backlog.
//
// Every operation checks all three entities before changing any of them, so a
// rejected operation leaves the allocation, truck and consignments untouched.
// Persisting the result as one unit is the caller's job.
type AllocationStateMachine struct{}

// NewAllocationStateMachine creates a new AllocationStateMachine instance.
func NewAllocationStateMachine() AllocationStateMachine {
	return AllocationStateMachine{}
}

// Create binds consignments to t in a new Planned allocation on route. The
// truck must be available at the route's source office and able to carry the
// summed volume; every consignment must be unclaimed backlog of route.
func (AllocationStateMachine) Create(
	id kernel.UUID,
	t *truck.Truck,
	route kernel.Route,
	consignments []*consignment.Consignment,
	now time.Time,
	details allocation.Details,
) (*allocation.Allocation, error) {
	if err := route.Validate(); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("truck", err)
	}
	if len(consignments) == 0 {
		return nil, errs.NewValueIsRequiredError("consignments")
	}

	ids := make([]kernel.UUID, 0, len(consignments))
	total := kernel.ZeroVolume()
	for _, c := range consignments {
		if err := c.Validate(); err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("consignments", err)
		}
		if err := c.ValidateClaim(route); err != nil {
			return nil, err
		}
		ids = append(ids, c.ID())
		total = total.Add(c.Volume())
	}

	if err := t.ValidateLoad(route.Source(), total); err != nil {
		return nil, err
	}

	a, err := allocation.NewAllocation(id, t.ID(), route, ids, total, now, details)
	if err != nil {
		return nil, err
	}

	if err = t.Load(route.Source(), total); err != nil {
		return nil, err
	}
	for _, c := range consignments {
		if err = c.Claim(route, t.ID()); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Transition resolves the requested status through the allocation's
// transition table and applies the matching operation.
func (sm AllocationStateMachine) Transition(
	a *allocation.Allocation,
	requested allocation.Status,
	t *truck.Truck,
	consignments []*consignment.Consignment,
	now time.Time,
) error {
	if err := a.Validate(); err != nil {
		return err
	}
	action, err := a.ActionFor(requested)
	if err != nil {
		return err
	}

	switch action {
	case allocation.Dispatch:
		return sm.Dispatch(a, t, consignments, now)
	case allocation.Complete:
		return sm.Complete(a, t, consignments, now)
	case allocation.Cancel:
		return sm.Cancel(a, t, consignments)
	default:
		return errs.NewInvalidTransitionError("allocation", a.ID().String(), a.Status().String(), requested.String())
	}
}

// Dispatch puts a Planned allocation on the road.
func (sm AllocationStateMachine) Dispatch(
	a *allocation.Allocation,
	t *truck.Truck,
	consignments []*consignment.Consignment,
	now time.Time,
) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if _, err := a.ActionFor(allocation.InProgress); err != nil {
		return err
	}
	if err := sm.validateBound(a, t, consignments); err != nil {
		return err
	}
	if _, err := t.Status().Depart(); err != nil {
		return retag("truck", t.ID(), err)
	}
	for _, c := range consignments {
		if _, err := c.Status().Dispatch(); err != nil {
			return retag("consignment", c.ID(), err)
		}
	}

	return errors.Join(
		a.Dispatch(),
		t.Depart(),
		each(consignments, func(c *consignment.Consignment) error { return c.Dispatch(now) }),
	)
}

// Complete finishes an InProgress allocation at its destination office.
func (sm AllocationStateMachine) Complete(
	a *allocation.Allocation,
	t *truck.Truck,
	consignments []*consignment.Consignment,
	now time.Time,
) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if _, err := a.ActionFor(allocation.Completed); err != nil {
		return err
	}
	if err := sm.validateBound(a, t, consignments); err != nil {
		return err
	}
	if _, err := t.Status().Arrive(); err != nil {
		return retag("truck", t.ID(), err)
	}
	for _, c := range consignments {
		if _, err := c.Status().Deliver(); err != nil {
			return retag("consignment", c.ID(), err)
		}
	}

	return errors.Join(
		a.Complete(now),
		t.Arrive(a.Route().Destination()),
		each(consignments, func(c *consignment.Consignment) error { return c.Deliver(now) }),
	)
}

// Cancel calls off a Planned allocation and returns its consignments to the
// route backlog.
func (sm AllocationStateMachine) Cancel(
	a *allocation.Allocation,
	t *truck.Truck,
	consignments []*consignment.Consignment,
) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if _, err := a.ActionFor(allocation.Cancelled); err != nil {
		return err
	}
	if err := sm.validateRelease(a, t, consignments); err != nil {
		return err
	}

	return errors.Join(
		a.Cancel(),
		t.Release(),
		each(consignments, (*consignment.Consignment).Release),
	)
}

// ReleaseForDelete frees the truck and consignments of a Planned allocation
// that is about to be removed. The allocation itself is not changed.
func (sm AllocationStateMachine) ReleaseForDelete(
	a *allocation.Allocation,
	t *truck.Truck,
	consignments []*consignment.Consignment,
) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := a.ValidateDelete(); err != nil {
		return err
	}
	if err := sm.validateRelease(a, t, consignments); err != nil {
		return err
	}

	return errors.Join(
		t.Release(),
		each(consignments, (*consignment.Consignment).Release),
	)
}

func (sm AllocationStateMachine) validateRelease(
	a *allocation.Allocation,
	t *truck.Truck,
	consignments []*consignment.Consignment,
) error {
	if err := sm.validateBound(a, t, consignments); err != nil {
		return err
	}
	if _, err := t.Status().Release(); err != nil {
		return retag("truck", t.ID(), err)
	}
	for _, c := range consignments {
		if _, err := c.Status().Release(); err != nil {
			return retag("consignment", c.ID(), err)
		}
	}
	return nil
}

// validateBound checks that t and consignments are exactly the entities a
// refers to and that every consignment still points at the allocation's truck.
func (AllocationStateMachine) validateBound(
	a *allocation.Allocation,
	t *truck.Truck,
	consignments []*consignment.Consignment,
) error {
	if err := t.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("truck", err)
	}
	if !t.ID().IsEqual(a.Truck()) {
		return errs.NewValueIsInvalidErrorWithCause(
			"truck",
			fmt.Errorf("allocation %s is served by truck %s, not %s", a.ID(), a.Truck(), t.ID()),
		)
	}

	if len(consignments) != len(a.Consignments()) {
		return errs.NewValueIsInvalidErrorWithCause(
			"consignments",
			fmt.Errorf("allocation %s binds %d consignments, got %d", a.ID(), len(a.Consignments()), len(consignments)),
		)
	}
	seen := make(map[kernel.UUID]struct{}, len(consignments))
	for _, c := range consignments {
		if err := c.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("consignments", err)
		}
		if _, dup := seen[c.ID()]; dup || !a.Holds(c.ID()) {
			return errs.NewValueIsInvalidErrorWithCause(
				"consignments",
				fmt.Errorf("consignment %s is not bound to allocation %s", c.ID(), a.ID()),
			)
		}
		seen[c.ID()] = struct{}{}
		if c.Truck() == nil || !c.Truck().IsEqual(a.Truck()) {
			return errs.NewValueIsInvalidErrorWithCause(
				"consignments",
				fmt.Errorf("consignment %s is not loaded on truck %s", c.ID(), a.Truck()),
			)
		}
	}
	return nil
}

func each(consignments []*consignment.Consignment, apply func(*consignment.Consignment) error) error {
	var err error
	for _, c := range consignments {
		err = errors.Join(err, apply(c))
	}
	return err
}

func retag(entity string, id kernel.UUID, err error) error {
	var transitionErr *errs.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		return errs.NewInvalidTransitionError(entity, id.String(), transitionErr.From, transitionErr.To)
	}
	return err
}
