package queries

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrGetRouteBacklogQueryIsNotConstructed = errors.New(
	"GetRouteBacklogQuery must be created via NewGetRouteBacklogQuery constructor",
)

// GetRouteBacklogQuery reads the unclaimed backlog of one route without
// locking it.
//
// Example:
//
//	query, err := NewGetRouteBacklogQuery(source, destination)
//	if err != nil {
//	    return err
//	}
//	backlog, err := handler.Handle(ctx, query)
//	fmt.Printf("%.1f of %.1f m3 waiting\n", backlog.Volume, backlog.Trigger)
type GetRouteBacklogQuery struct {
	route kernel.Route

	guard guard.ConstructorGuard
}

// NewGetRouteBacklogQuery requires two distinct offices.
func NewGetRouteBacklogQuery(source, destination kernel.UUID) (GetRouteBacklogQuery, error) {
	route, err := kernel.NewRoute(source, destination)
	if err != nil {
		return GetRouteBacklogQuery{}, err
	}
	return GetRouteBacklogQuery{route: route, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetRouteBacklogQuery) Validate() error {
	return q.guard.Validate(ErrGetRouteBacklogQueryIsNotConstructed)
}

func (q GetRouteBacklogQuery) Route() kernel.Route {
	return q.route
}

// GetRouteBacklogQueryResponse is the accumulated backlog of a route.
type GetRouteBacklogQueryResponse struct {
	Source         kernel.UUID
	Destination    kernel.UUID
	Consignments   []ConsignmentResponse
	Volume         float64
	Trigger        float64
	TriggerReached bool
}
