package truck

import (
	"fmt"

	"freight/internal/pkg/errs"
)

// Status is the fleet state of a truck.
//
//	Available ──load──> Loading ──depart──> InTransit ──arrive──> Available
//	    ^                  │
//	    └─────release──────┘
//
//	Available <──operator──> Maintenance <──operator──> OutOfService
//
// Loading and InTransit are owned by the allocation engine; operators can only
// move a truck between Available, Maintenance and OutOfService.
type Status int

const (
	Unknown Status = iota
	Available
	Loading
	InTransit
	Maintenance
	OutOfService
)

var statusNames = map[Status]string{
	Unknown:      "Unknown",
	Available:    "Available",
	Loading:      "Loading",
	InTransit:    "InTransit",
	Maintenance:  "Maintenance",
	OutOfService: "OutOfService",
}

// ParseStatus maps a status name back to its value.
func ParseStatus(name string) (Status, error) {
	for status, n := range statusNames {
		if status != Unknown && n == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a truck status", name))
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s <= Unknown || s > OutOfService {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid truck status", s))
	}
	return nil
}

// IsEngineOwned reports whether the status is controlled by an allocation.
func (s Status) IsEngineOwned() bool {
	return s == Loading || s == InTransit
}

// Load moves an available truck into loading for a new allocation.
func (s Status) Load() (Status, error) {
	return s.transition(Available, Loading)
}

// Depart moves a loaded truck onto the road.
func (s Status) Depart() (Status, error) {
	return s.transition(Loading, InTransit)
}

// Arrive frees a truck at the end of its trip.
func (s Status) Arrive() (Status, error) {
	return s.transition(InTransit, Available)
}

// Release frees a truck whose allocation was cancelled before departure.
func (s Status) Release() (Status, error) {
	return s.transition(Loading, Available)
}

// SetOperational applies an operator-requested change among Available,
// Maintenance and OutOfService.
func (s Status) SetOperational(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}
	if target.IsEngineOwned() {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is set by truck allocations only", target),
		)
	}
	if s.IsEngineOwned() || s.Validate() != nil {
		return Unknown, errs.NewInvalidTransitionError("truck status", "", s.String(), target.String())
	}
	return target, nil
}

func (s Status) transition(from, to Status) (Status, error) {
	if s != from {
		return Unknown, errs.NewInvalidTransitionError("truck status", "", s.String(), to.String())
	}
	return to, nil
}
