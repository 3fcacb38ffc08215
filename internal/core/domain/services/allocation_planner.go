package services

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"freight/internal/core/domain/model/consignment"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/truck"
	"freight/internal/pkg/errs"
)

// DefaultTriggerVolume is the backlog volume, in cubic metres, at which a
// route gets a truck when no trigger is configured.
const DefaultTriggerVolume = 500.0

var (
	// ErrNoTruckAvailable is returned when no truck is available at the
	// source office.
	ErrNoTruckAvailable = errors.New("no truck available")

	// ErrBacklogOverCapacity is returned when trucks are available at the
	// source office but the backlog exceeds the capacity of every one of them.
	// Waiting for more consignments never resolves it; an operator has to
	// allocate a subset of the backlog explicitly.
	ErrBacklogOverCapacity = errors.New("backlog exceeds every available truck")
)

// TruckSelectionPolicy decides between several trucks that could all carry a
// backlog.
type TruckSelectionPolicy string

const (
	// LowestID picks the truck with the lowest identifier.
	LowestID TruckSelectionPolicy = "lowest-id"
	// BestFit picks the smallest sufficient capacity, then the lowest identifier.
	BestFit TruckSelectionPolicy = "best-fit"
)

// ParseTruckSelectionPolicy accepts "lowest-id" and "best-fit". An empty
// string selects LowestID.
func ParseTruckSelectionPolicy(s string) (TruckSelectionPolicy, error) {
	switch TruckSelectionPolicy(s) {
	case "", LowestID:
		return LowestID, nil
	case BestFit:
		return BestFit, nil
	}
	return "", errs.NewValueIsInvalidErrorWithCause(
		"truckSelectionPolicy",
		fmt.Errorf("%q is not one of %q, %q", s, LowestID, BestFit),
	)
}

// Backlog is the set of received, unclaimed consignments of one route and
// their summed volume, oldest first.
type Backlog struct {
	route        kernel.Route
	consignments []*consignment.Consignment
	volume       kernel.Volume
}

// NewBacklog keeps only the candidates that are still backlog on route, so a
// consignment claimed by another allocation is never counted twice.
func NewBacklog(route kernel.Route, candidates []*consignment.Consignment) (Backlog, error) {
	if err := route.Validate(); err != nil {
		return Backlog{}, err
	}

	b := Backlog{route: route, volume: kernel.ZeroVolume()}
	for _, c := range candidates {
		if err := c.Validate(); err != nil {
			return Backlog{}, err
		}
		if !c.IsBacklog() || !c.Route().IsEqual(route) {
			continue
		}
		b.consignments = append(b.consignments, c)
		b.volume = b.volume.Add(c.Volume())
	}

	slices.SortFunc(b.consignments, func(a, c *consignment.Consignment) int {
		if n := a.ReceivedAt().Compare(c.ReceivedAt()); n != 0 {
			return n
		}
		return a.ID().Compare(c.ID())
	})
	return b, nil
}

func (b Backlog) Route() kernel.Route   { return b.route }
func (b Backlog) Volume() kernel.Volume { return b.volume }
func (b Backlog) Len() int              { return len(b.consignments) }
func (b Backlog) IsEmpty() bool         { return len(b.consignments) == 0 }

// Consignments returns the backlog, oldest first.
func (b Backlog) Consignments() []*consignment.Consignment {
	return slices.Clone(b.consignments)
}

// AverageWaitingDays is the mean age of the backlog at now, in days.
func (b Backlog) AverageWaitingDays(now time.Time) float64 {
	if b.IsEmpty() {
		return 0
	}
	var total time.Duration
	for _, c := range b.consignments {
		if age := now.Sub(c.ReceivedAt()); age > 0 {
			total += age
		}
	}
	days := total.Hours() / 24 / float64(len(b.consignments))
	return math.Round(days*100) / 100
}

// Outcome labels the result of one allocation decision.
type Outcome string

const (
	OutcomeAllocated    Outcome = "allocated"
	OutcomeBelowTrigger Outcome = "below_trigger"
	OutcomeNoTruck      Outcome = "no_truck"
	OutcomeOverCapacity Outcome = "over_capacity"
)

// Decision is the result of evaluating a route's backlog. Truck is set only
// when the outcome is OutcomeAllocated.
type Decision struct {
	Outcome Outcome
	Backlog Backlog
	Truck   *truck.Truck
}

// ShouldAllocate reports whether a truck should be committed to the backlog.
func (d Decision) ShouldAllocate() bool {
	return d.Outcome == OutcomeAllocated && d.Truck != nil
}

// AllocationPlanner is the threshold policy that decides when a route's
// backlog justifies committing a truck, and which truck.
type AllocationPlanner struct {
	trigger kernel.Volume
	policy  TruckSelectionPolicy
}

// NewAllocationPlanner requires a positive trigger volume and a known policy.
func NewAllocationPlanner(triggerVolume float64, policy TruckSelectionPolicy) (AllocationPlanner, error) {
	trigger, err := kernel.NewVolume(triggerVolume)
	if err != nil {
		return AllocationPlanner{}, errs.NewValueIsInvalidErrorWithCause("triggerVolume", err)
	}
	if _, err = ParseTruckSelectionPolicy(string(policy)); err != nil {
		return AllocationPlanner{}, err
	}
	if policy == "" {
		policy = LowestID
	}
	return AllocationPlanner{trigger: trigger, policy: policy}, nil
}

// Trigger is the backlog volume that commits a truck.
func (p AllocationPlanner) Trigger() kernel.Volume {
	return p.trigger
}

// Policy is the truck tie-break in use.
func (p AllocationPlanner) Policy() TruckSelectionPolicy {
	return p.policy
}

// IsTriggered reports whether the backlog volume reached the trigger.
func (p AllocationPlanner) IsTriggered(b Backlog) bool {
	return !b.IsEmpty() && b.Volume().GreaterOrEqual(p.trigger)
}

// Decide evaluates the backlog against the trigger and, once reached, picks a
// truck among trucks. Finding no truck is a regular outcome, not an error.
func (p AllocationPlanner) Decide(b Backlog, trucks []*truck.Truck) (Decision, error) {
	if !p.IsTriggered(b) {
		return Decision{Outcome: OutcomeBelowTrigger, Backlog: b}, nil
	}

	selected, err := p.SelectTruck(b, trucks)
	switch {
	case errors.Is(err, ErrNoTruckAvailable):
		return Decision{Outcome: OutcomeNoTruck, Backlog: b}, nil
	case errors.Is(err, ErrBacklogOverCapacity):
		return Decision{Outcome: OutcomeOverCapacity, Backlog: b}, nil
	case err != nil:
		return Decision{}, err
	}
	return Decision{Outcome: OutcomeAllocated, Backlog: b, Truck: selected}, nil
}

// SelectTruck returns the truck the policy prefers among those available at
// the route's source office with enough capacity for the whole backlog.
func (p AllocationPlanner) SelectTruck(b Backlog, trucks []*truck.Truck) (*truck.Truck, error) {
	var candidates []*truck.Truck
	available := 0
	for _, t := range trucks {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if !t.IsAvailableAt(b.Route().Source()) {
			continue
		}
		available++
		if t.CanCarry(b.Volume()) {
			candidates = append(candidates, t)
		}
	}
	if available == 0 {
		return nil, ErrNoTruckAvailable
	}
	if len(candidates) == 0 {
		return nil, ErrBacklogOverCapacity
	}

	return slices.MinFunc(candidates, p.compare), nil
}

func (p AllocationPlanner) compare(a, b *truck.Truck) int {
	if p.policy == BestFit {
		switch {
		case b.Capacity().Exceeds(a.Capacity()):
			return -1
		case a.Capacity().Exceeds(b.Capacity()):
			return 1
		}
	}
	return a.ID().Compare(b.ID())
}
