package http

import (
	"context"
	"time"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/allocation"
	"freight/internal/core/domain/model/consignment"
	"freight/internal/core/domain/model/truck"
)

// Handlers the server forwards requests to. Each is satisfied by the handler
// of the same name in the commands or queries package.
type (
	IntakeConsignmentHandler interface {
		Handle(ctx context.Context, cmd commands.IntakeConsignmentCommand) (commands.IntakeConsignmentResult, error)
	}

	CancelConsignmentHandler interface {
		Handle(ctx context.Context, cmd commands.CancelConsignmentCommand) (*consignment.Consignment, error)
	}

	AllocateRouteHandler interface {
		Handle(ctx context.Context, cmd commands.AllocateRouteCommand) (commands.RouteAllocation, error)
	}

	CreateAllocationHandler interface {
		Handle(ctx context.Context, cmd commands.CreateAllocationCommand) (*allocation.Allocation, error)
	}

	ChangeAllocationStatusHandler interface {
		Handle(ctx context.Context, cmd commands.ChangeAllocationStatusCommand) (commands.AllocationView, error)
	}

	UpdateAllocationDetailsHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateAllocationDetailsCommand) (*allocation.Allocation, error)
	}

	DeleteAllocationHandler interface {
		Handle(ctx context.Context, cmd commands.DeleteAllocationCommand) error
	}

	RegisterTruckHandler interface {
		Handle(ctx context.Context, cmd commands.RegisterTruckCommand) (*truck.Truck, error)
	}

	SetTruckStatusHandler interface {
		Handle(ctx context.Context, cmd commands.SetTruckStatusCommand) (*truck.Truck, error)
	}

	GetConsignmentHandler interface {
		Handle(ctx context.Context, query queries.GetConsignmentQuery) (queries.ConsignmentResponse, error)
	}

	GetRouteBacklogHandler interface {
		Handle(ctx context.Context, query queries.GetRouteBacklogQuery) (queries.GetRouteBacklogQueryResponse, error)
	}

	GetAllocationHandler interface {
		Handle(ctx context.Context, query queries.GetAllocationQuery) (queries.AllocationResponse, error)
	}

	ListAllocationsHandler interface {
		Handle(ctx context.Context, query queries.ListAllocationsQuery) ([]queries.AllocationResponse, error)
	}

	ListTrucksHandler interface {
		Handle(ctx context.Context, query queries.ListTrucksQuery) ([]queries.TruckResponse, error)
	}
)

// Handlers groups everything NewServer needs from the application layer.
type Handlers struct {
	// Command handlers
	IntakeConsignment       IntakeConsignmentHandler
	CancelConsignment       CancelConsignmentHandler
	AllocateRoute           AllocateRouteHandler
	CreateAllocation        CreateAllocationHandler
	ChangeAllocationStatus  ChangeAllocationStatusHandler
	UpdateAllocationDetails UpdateAllocationDetailsHandler
	DeleteAllocation        DeleteAllocationHandler
	RegisterTruck           RegisterTruckHandler
	SetTruckStatus          SetTruckStatusHandler

	// Query handlers
	GetConsignment  GetConsignmentHandler
	GetRouteBacklog GetRouteBacklogHandler
	GetAllocation   GetAllocationHandler
	ListAllocations ListAllocationsHandler
	ListTrucks      ListTrucksHandler
}

// Recorder receives HTTP level metrics.
type Recorder interface {
	RecordHTTPRequest(method, path string, status int, duration time.Duration)
	RecordRejected(operation, kind string)
}
