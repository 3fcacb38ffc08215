package commands

import (
	"context"
)

// AllocateRouteCommandHandler runs the same allocation decision as intake for
// a route without adding a consignment.
type AllocateRouteCommandHandler struct {
	uowFactory UoWFactory
	allocator  *RouteAllocator
}

// NewAllocateRouteCommandHandler creates a handler for explicit route evaluation.
func NewAllocateRouteCommandHandler(uowFactory UoWFactory, allocator *RouteAllocator) AllocateRouteCommandHandler {
	return AllocateRouteCommandHandler{
		uowFactory: uowFactory,
		allocator:  allocator,
	}
}

// Handle locks the route, evaluates its backlog and commits any allocation.
func (h AllocateRouteCommandHandler) Handle(ctx context.Context, cmd AllocateRouteCommand) (RouteAllocation, error) {
	if err := cmd.Validate(); err != nil {
		return RouteAllocation{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return RouteAllocation{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.LockRoute(ctx, cmd.Route()); err != nil {
		return RouteAllocation{}, err
	}

	result, err := h.allocator.Allocate(ctx, uow, cmd.Route())
	if err != nil {
		return RouteAllocation{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return RouteAllocation{}, err
	}
	h.allocator.Report(ctx, result)

	return result, nil
}
