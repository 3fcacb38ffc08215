package allocation

import (
	"fmt"

	"freight/internal/pkg/errs"
)

// Status is the authoritative lifecycle state of a truck allocation. Truck
// and consignment statuses follow it as side effects.
//
//	Planned ──dispatch──> InProgress ──complete──> Completed
//	   │
//	   └──cancel──> Cancelled
type Status int

const (
	Unknown Status = iota
	Planned
	InProgress
	Completed
	Cancelled
)

var statusNames = map[Status]string{
	Unknown:    "Unknown",
	Planned:    "Planned",
	InProgress: "InProgress",
	Completed:  "Completed",
	Cancelled:  "Cancelled",
}

// ParseStatus maps a status name back to its value.
func ParseStatus(name string) (Status, error) {
	for status, n := range statusNames {
		if status != Unknown && n == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not an allocation status", name))
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid allocation status", s))
	}
	return nil
}

// IsLive reports whether the allocation still holds its truck and consignments.
func (s Status) IsLive() bool {
	return s == Planned || s == InProgress
}

// Action is an operator-driven step of the allocation lifecycle.
type Action int

const (
	NoAction Action = iota
	Dispatch
	Complete
	Cancel
)

func (a Action) String() string {
	switch a {
	case Dispatch:
		return "dispatch"
	case Complete:
		return "complete"
	case Cancel:
		return "cancel"
	default:
		return "none"
	}
}

// transitions is the complete table of permitted (from, to) pairs.
var transitions = map[Status]map[Status]Action{
	Planned: {
		InProgress: Dispatch,
		Cancelled:  Cancel,
	},
	InProgress: {
		Completed: Complete,
	},
}

// ActionFor resolves a requested status change into the action that performs
// it. Every pair outside the table, including unknown statuses and a request
// for the current status, yields an InvalidTransitionError.
func ActionFor(from, to Status) (Action, error) {
	if action, ok := transitions[from][to]; ok {
		return action, nil
	}
	return NoAction, errs.NewInvalidTransitionError("allocation status", "", from.String(), to.String())
}

// ValidateDelete allows removing an allocation only while it is Planned.
func (s Status) ValidateDelete() error {
	if s != Planned {
		return errs.NewInvalidTransitionError("allocation status", "", s.String(), "Deleted")
	}
	return nil
}
