package kernel

import (
	"errors"
	"fmt"

	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var (
	// ErrRouteIsNotConstructed is returned when a zero value Route is used.
	ErrRouteIsNotConstructed = errs.NewValueIsRequiredError("route must be created via NewRoute")
	// ErrRouteEndpointsMatch is returned when source and destination are the same office.
	ErrRouteEndpointsMatch = errs.NewValueIsInvalidErrorWithCause(
		"route",
		errors.New("source and destination office must differ"),
	)
)

// Route is an ordered (source office, destination office) pair. Consignments
// accumulate per route and an allocation always serves exactly one route.
type Route struct { //nolint:recvcheck //using for validation
	source      UUID
	destination UUID
	guard       guard.ConstructorGuard
}

// NewRoute validates both office references and that they differ.
func NewRoute(source, destination UUID) (Route, error) {
	if err := errors.Join(
		wrapParam("sourceOffice", source.Validate()),
		wrapParam("destinationOffice", destination.Validate()),
	); err != nil {
		return Route{}, err
	}
	if source.IsEqual(destination) {
		return Route{}, ErrRouteEndpointsMatch
	}

	return Route{
		source:      source,
		destination: destination,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Source returns the office consignments are collected at.
func (r Route) Source() UUID {
	return r.source
}

// Destination returns the office consignments are delivered to.
func (r Route) Destination() UUID {
	return r.destination
}

// Key is a stable textual identity of the route, used for per-route locking.
func (r Route) Key() string {
	return "route:" + r.source.String() + "->" + r.destination.String()
}

// IsEqual reports whether both routes join the same offices in the same direction.
func (r Route) IsEqual(other Route) bool {
	return r.source.IsEqual(other.source) && r.destination.IsEqual(other.destination)
}

// Validate fails for a zero value Route.
func (r Route) Validate() error {
	return r.guard.Validate(ErrRouteIsNotConstructed)
}

func (r Route) String() string {
	return fmt.Sprintf("%s -> %s", r.source, r.destination)
}

func wrapParam(param string, err error) error {
	if err == nil {
		return nil
	}
	return errs.NewValueIsRequiredErrorWithCause(param, err)
}
