package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrAllocateRouteCommandIsNotConstructed = errors.New(
	"AllocateRouteCommand must be created via NewAllocateRouteCommand constructor",
)

// AllocateRouteCommand re-evaluates a route's backlog on operator request,
// for example after a truck became available at the source office.
type AllocateRouteCommand struct {
	route kernel.Route

	guard guard.ConstructorGuard
}

// NewAllocateRouteCommand requires two distinct offices.
func NewAllocateRouteCommand(source, destination kernel.UUID) (AllocateRouteCommand, error) {
	route, err := kernel.NewRoute(source, destination)
	if err != nil {
		return AllocateRouteCommand{}, err
	}
	return AllocateRouteCommand{route: route, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c AllocateRouteCommand) Validate() error {
	return c.guard.Validate(ErrAllocateRouteCommandIsNotConstructed)
}

// Route returns the route to evaluate.
func (c AllocateRouteCommand) Route() kernel.Route {
	return c.route
}
