package consignment

import (
	"fmt"

	"freight/internal/pkg/errs"
)

// Status represents where a consignment is in its journey.
//
//	Received ──claim──> Waiting ──dispatch──> InTransit ──deliver──> Delivered
//	   │  ^                │
//	   │  └────release─────┘
//	   └──cancel──> Cancelled
//
// A truck reference is held exactly while the status is Waiting, InTransit
// or Delivered.
type Status int

const (
	Unknown Status = iota
	Received
	Waiting
	InTransit
	Delivered
	Cancelled
)

var statusNames = map[Status]string{
	Unknown:   "Unknown",
	Received:  "Received",
	Waiting:   "Waiting",
	InTransit: "InTransit",
	Delivered: "Delivered",
	Cancelled: "Cancelled",
}

// ParseStatus maps a status name back to its value.
func ParseStatus(name string) (Status, error) {
	for status, n := range statusNames {
		if status != Unknown && n == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a consignment status", name))
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
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid consignment status", s))
	}
	return nil
}

// RequiresTruck reports whether a consignment in this status must reference a truck.
func (s Status) RequiresTruck() bool {
	return s == Waiting || s == InTransit || s == Delivered
}

// ValidateCanHaveTruck checks the truck reference invariant for status.
func (s Status) ValidateCanHaveTruck(hasTruck bool) error {
	if hasTruck && !s.RequiresTruck() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to have a truck", s),
		)
	}
	if !hasTruck && s.RequiresTruck() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to have no truck", s),
		)
	}
	return nil
}

// Claim binds a received consignment to an allocation.
func (s Status) Claim() (Status, error) {
	return s.transition(Received, Waiting)
}

// Release returns a waiting consignment to the backlog.
func (s Status) Release() (Status, error) {
	return s.transition(Waiting, Received)
}

// Dispatch moves a waiting consignment onto the road with its truck.
func (s Status) Dispatch() (Status, error) {
	return s.transition(Waiting, InTransit)
}

// Deliver finishes the journey.
func (s Status) Deliver() (Status, error) {
	return s.transition(InTransit, Delivered)
}

// Cancel withdraws a consignment that was never claimed.
func (s Status) Cancel() (Status, error) {
	return s.transition(Received, Cancelled)
}

func (s Status) transition(from, to Status) (Status, error) {
	if s != from {
		return Unknown, errs.NewInvalidTransitionError("consignment status", "", s.String(), to.String())
	}
	return to, nil
}
