package http

import (
	"log/slog"
	"net/http"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/allocation"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/truck"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server translates HTTP requests into commands and queries of the
// allocation engine and maps the results back to JSON.
type Server struct {
	handlers Handlers
	metrics  Recorder
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(handlers Handlers, metrics Recorder, logger *slog.Logger) *Server {
	return &Server{
		handlers: handlers,
		metrics:  metrics,
		logger:   logger.With("component", "http"),
	}
}

// RegisterRoutes mounts the API under /api/v1 together with /health. It
// installs the request validator when e has none.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	if e.Validator == nil {
		e.Validator = NewRequestValidator()
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	api := e.Group("/api/v1")

	api.POST("/consignments", s.CreateConsignment)
	api.GET("/consignments/:trackingNumber", s.GetConsignment)
	api.DELETE("/consignments/:trackingNumber", s.CancelConsignment)

	api.GET("/routes/backlog", s.GetRouteBacklog)
	api.POST("/routes/allocate", s.AllocateRoute)

	api.POST("/trucks", s.RegisterTruck)
	api.GET("/trucks", s.ListTrucks)
	api.PUT("/trucks/:id/status", s.SetTruckStatus)

	api.POST("/allocations", s.CreateAllocation)
	api.GET("/allocations", s.ListAllocations)
	api.GET("/allocations/:id", s.GetAllocation)
	api.PATCH("/allocations/:id", s.PatchAllocation)
	api.DELETE("/allocations/:id", s.DeleteAllocation)
}

// bind decodes and validates the request into dst.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return err
	}
	return c.Validate(dst)
}

// CreateConsignment handles POST /api/v1/consignments. The consignment is
// stored and its route evaluated for allocation in one step.
func (s *Server) CreateConsignment(c echo.Context) error {
	const op = "intake_consignment"

	var req NewConsignment
	if err := bind(c, &req); err != nil {
		return s.badRequest(c, op, err)
	}

	source, err := parseID("sourceOffice", req.SourceOffice)
	if err != nil {
		return s.fail(c, op, err)
	}
	destination, err := parseID("destinationOffice", req.DestinationOffice)
	if err != nil {
		return s.fail(c, op, err)
	}

	cmd, err := commands.NewIntakeConsignmentCommand(
		source, destination, req.Volume,
		req.Sender.Name, req.Sender.Contact,
		req.Receiver.Name, req.Receiver.Contact,
	)
	if err != nil {
		return s.fail(c, op, err)
	}

	result, err := s.handlers.IntakeConsignment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, op, err)
	}

	return c.JSON(http.StatusCreated, IntakeResult{
		Consignment: consignmentFromDomain(result.Consignment),
		Decision:    decisionFromDomain(result.Decision),
	})
}

// GetConsignment handles GET /api/v1/consignments/:trackingNumber.
func (s *Server) GetConsignment(c echo.Context) error {
	const op = "get_consignment"

	query, err := queries.NewGetConsignmentQuery(c.Param("trackingNumber"))
	if err != nil {
		return s.fail(c, op, err)
	}

	resp, err := s.handlers.GetConsignment.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, op, err)
	}
	return c.JSON(http.StatusOK, consignmentFromReadModel(resp))
}

// CancelConsignment handles DELETE /api/v1/consignments/:trackingNumber.
// Only a consignment no allocation has claimed can be withdrawn.
func (s *Server) CancelConsignment(c echo.Context) error {
	const op = "cancel_consignment"

	cmd, err := commands.NewCancelConsignmentCommand(c.Param("trackingNumber"))
	if err != nil {
		return s.fail(c, op, err)
	}

	cancelled, err := s.handlers.CancelConsignment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, op, err)
	}
	return c.JSON(http.StatusOK, consignmentFromDomain(cancelled))
}

// GetRouteBacklog handles GET /api/v1/routes/backlog?source=&destination=.
func (s *Server) GetRouteBacklog(c echo.Context) error {
	const op = "get_route_backlog"

	var req RouteParams
	if err := bind(c, &req); err != nil {
		return s.badRequest(c, op, err)
	}

	source, err := parseID("source", req.SourceOffice)
	if err != nil {
		return s.fail(c, op, err)
	}
	destination, err := parseID("destination", req.DestinationOffice)
	if err != nil {
		return s.fail(c, op, err)
	}

	query, err := queries.NewGetRouteBacklogQuery(source, destination)
	if err != nil {
		return s.fail(c, op, err)
	}

	resp, err := s.handlers.GetRouteBacklog.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, op, err)
	}

	return c.JSON(http.StatusOK, Backlog{
		SourceOffice:      resp.Source.String(),
		DestinationOffice: resp.Destination.String(),
		Volume:            resp.Volume,
		Trigger:           resp.Trigger,
		TriggerReached:    resp.TriggerReached,
		Consignments:      consignmentsFromReadModel(resp.Consignments),
	})
}

// AllocateRoute handles POST /api/v1/routes/allocate.
func (s *Server) AllocateRoute(c echo.Context) error {
	const op = "allocate_route"

	var req RouteParams
	if err := bind(c, &req); err != nil {
		return s.badRequest(c, op, err)
	}

	source, err := parseID("sourceOffice", req.SourceOffice)
	if err != nil {
		return s.fail(c, op, err)
	}
	destination, err := parseID("destinationOffice", req.DestinationOffice)
	if err != nil {
		return s.fail(c, op, err)
	}

	cmd, err := commands.NewAllocateRouteCommand(source, destination)
	if err != nil {
		return s.fail(c, op, err)
	}

	decision, err := s.handlers.AllocateRoute.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, op, err)
	}
	return c.JSON(http.StatusOK, decisionFromDomain(decision))
}

// RegisterTruck handles POST /api/v1/trucks.
func (s *Server) RegisterTruck(c echo.Context) error {
	const op = "register_truck"

	var req NewTruck
	if err := bind(c, &req); err != nil {
		return s.badRequest(c, op, err)
	}

	office, err := parseID("currentOffice", req.CurrentOffice)
	if err != nil {
		return s.fail(c, op, err)
	}

	cmd, err := commands.NewRegisterTruckCommand(req.RegistrationNumber, req.Model, req.Capacity, office)
	if err != nil {
		return s.fail(c, op, err)
	}

	t, err := s.handlers.RegisterTruck.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, op, err)
	}
	return c.JSON(http.StatusCreated, truckFromDomain(t))
}

// ListTrucks handles GET /api/v1/trucks?office=&status=.
func (s *Server) ListTrucks(c echo.Context) error {
	const op = "list_trucks"

	var req TruckFilter
	if err := bind(c, &req); err != nil {
		return s.badRequest(c, op, err)
	}

	office, err := parseOptionalID("office", req.Office)
	if err != nil {
		return s.fail(c, op, err)
	}
	var status *truck.Status
	if req.Status != "" {
		parsed, parseErr := truck.ParseStatus(req.Status)
		if parseErr != nil {
			return s.fail(c, op, parseErr)
		}
		status = &parsed
	}

	query, err := queries.NewListTrucksQuery(office, status)
	if err != nil {
		return s.fail(c, op, err)
	}

	trucks, err := s.handlers.ListTrucks.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, op, err)
	}

	resp := make([]Truck, len(trucks))
	for i, t := range trucks {
		resp[i] = truckFromReadModel(t)
	}
	return c.JSON(http.StatusOK, resp)
}

// SetTruckStatus handles PUT /api/v1/trucks/:id/status.
func (s *Server) SetTruckStatus(c echo.Context) error {
	const op = "set_truck_status"

	var req TruckStatusChange
	if err := bind(c, &req); err != nil {
		return s.badRequest(c, op, err)
	}

	truckID, err := parseID("id", req.ID)
	if err != nil {
		return s.fail(c, op, err)
	}
	target, err := truck.ParseStatus(req.Status)
	if err != nil {
		return s.fail(c, op, err)
	}

	cmd, err := commands.NewSetTruckStatusCommand(truckID, target)
	if err != nil {
		return s.fail(c, op, err)
	}

	t, err := s.handlers.SetTruckStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, op, err)
	}
	return c.JSON(http.StatusOK, truckFromDomain(t))
}

// CreateAllocation handles POST /api/v1/allocations, the manual allocation
// of chosen consignments to a chosen truck.
func (s *Server) CreateAllocation(c echo.Context) error {
	const op = "create_allocation"

	var req NewAllocation
	if err := bind(c, &req); err != nil {
		return s.badRequest(c, op, err)
	}

	truckID, err := parseID("truckId", req.TruckID)
	if err != nil {
		return s.fail(c, op, err)
	}
	source, err := parseID("sourceOffice", req.SourceOffice)
	if err != nil {
		return s.fail(c, op, err)
	}
	destination, err := parseID("destinationOffice", req.DestinationOffice)
	if err != nil {
		return s.fail(c, op, err)
	}
	consignmentIDs, err := parseIDs("consignmentIds", req.ConsignmentIDs)
	if err != nil {
		return s.fail(c, op, err)
	}

	cmd, err := commands.NewCreateAllocationCommand(
		truckID, source, destination, consignmentIDs,
		allocation.Details{Notes: req.Notes, IdleHours: req.IdleTime, WaitingDays: req.WaitingTime},
	)
	if err != nil {
		return s.fail(c, op, err)
	}

	a, err := s.handlers.CreateAllocation.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, op, err)
	}
	return c.JSON(http.StatusCreated, allocationFromDomain(a))
}

// ListAllocations handles GET /api/v1/allocations?status=&source=&destination=&truck=.
func (s *Server) ListAllocations(c echo.Context) error {
	const op = "list_allocations"

	var req AllocationFilter
	if err := bind(c, &req); err != nil {
		return s.badRequest(c, op, err)
	}

	filter, err := allocationFilter(req)
	if err != nil {
		return s.fail(c, op, err)
	}

	query, err := queries.NewListAllocationsQuery(filter)
	if err != nil {
		return s.fail(c, op, err)
	}

	allocations, err := s.handlers.ListAllocations.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, op, err)
	}

	resp := make([]Allocation, len(allocations))
	for i, a := range allocations {
		resp[i] = allocationFromReadModel(a)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetAllocation handles GET /api/v1/allocations/:id and returns the
// allocation with its truck and consignments.
func (s *Server) GetAllocation(c echo.Context) error {
	const op = "get_allocation"

	allocationID, err := parseID("id", c.Param("id"))
	if err != nil {
		return s.fail(c, op, err)
	}

	resp, err := s.getAllocation(c, allocationID)
	if err != nil {
		return s.fail(c, op, err)
	}
	return c.JSON(http.StatusOK, allocationFromReadModel(resp))
}

// PatchAllocation handles PATCH /api/v1/allocations/:id. A status change and
// a details edit sent together are applied in one transaction. Details
// omitted from the body keep their stored value.
func (s *Server) PatchAllocation(c echo.Context) error {
	const op = "patch_allocation"
	ctx := c.Request().Context()

	var req AllocationPatch
	if err := bind(c, &req); err != nil {
		return s.badRequest(c, op, err)
	}
	if req.IsEmpty() {
		return s.fail(c, op, errs.NewValueIsRequiredError("status or details"))
	}

	allocationID, err := parseID("id", req.ID)
	if err != nil {
		return s.fail(c, op, err)
	}

	patch := allocation.DetailsPatch{Notes: req.Notes, IdleHours: req.IdleTime, WaitingDays: req.WaitingTime}

	if req.Status != nil {
		requested, parseErr := allocation.ParseStatus(*req.Status)
		if parseErr != nil {
			return s.fail(c, op, parseErr)
		}
		cmd, cmdErr := commands.NewChangeAllocationStatusCommand(allocationID, requested)
		if cmdErr != nil {
			return s.fail(c, op, cmdErr)
		}
		if _, err = s.handlers.ChangeAllocationStatus.Handle(ctx, cmd.WithDetails(patch)); err != nil {
			return s.fail(c, op, err)
		}
	} else {
		cmd, cmdErr := commands.NewUpdateAllocationDetailsCommand(allocationID, patch)
		if cmdErr != nil {
			return s.fail(c, op, cmdErr)
		}
		if _, err = s.handlers.UpdateAllocationDetails.Handle(ctx, cmd); err != nil {
			return s.fail(c, op, err)
		}
	}

	resp, err := s.getAllocation(c, allocationID)
	if err != nil {
		return s.fail(c, op, err)
	}
	return c.JSON(http.StatusOK, allocationFromReadModel(resp))
}

// DeleteAllocation handles DELETE /api/v1/allocations/:id.
func (s *Server) DeleteAllocation(c echo.Context) error {
	const op = "delete_allocation"

	allocationID, err := parseID("id", c.Param("id"))
	if err != nil {
		return s.fail(c, op, err)
	}

	cmd, err := commands.NewDeleteAllocationCommand(allocationID)
	if err != nil {
		return s.fail(c, op, err)
	}

	if err = s.handlers.DeleteAllocation.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, op, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) getAllocation(c echo.Context, allocationID kernel.UUID) (queries.AllocationResponse, error) {
	query, err := queries.NewGetAllocationQuery(allocationID)
	if err != nil {
		return queries.AllocationResponse{}, err
	}
	return s.handlers.GetAllocation.Handle(c.Request().Context(), query)
}

func allocationFilter(req AllocationFilter) (ports.AllocationFilter, error) {
	var (
		filter ports.AllocationFilter
		err    error
	)

	if req.Status != "" {
		status, parseErr := allocation.ParseStatus(req.Status)
		if parseErr != nil {
			return ports.AllocationFilter{}, parseErr
		}
		filter.Status = &status
	}
	if filter.Source, err = parseOptionalID("source", req.Source); err != nil {
		return ports.AllocationFilter{}, err
	}
	if filter.Destination, err = parseOptionalID("destination", req.Destination); err != nil {
		return ports.AllocationFilter{}, err
	}
	if filter.Truck, err = parseOptionalID("truck", req.Truck); err != nil {
		return ports.AllocationFilter{}, err
	}
	return filter, nil
}
