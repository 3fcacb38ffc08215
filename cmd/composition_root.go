package cmd

import (
	"fmt"
	"log/slog"

	httpin "freight/internal/adapters/in/http"
	"freight/internal/adapters/out/postgres"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/services"
	"freight/internal/pkg/metrics"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	metrics    *metrics.Metrics
	logger     *slog.Logger

	planner   services.AllocationPlanner
	charges   services.ChargeCalculator
	allocator *commands.RouteAllocator
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	planner, err := services.NewAllocationPlanner(config.AllocationTriggerVolume, config.TruckSelectionPolicy)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("allocation planner: %w", err)
	}
	charges, err := services.NewChargeCalculator(config.ChargeBaseRate)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("charge calculator: %w", err)
	}

	engineMetrics := metrics.New(metrics.DefaultConfig())

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		metrics:    engineMetrics,
		logger:     logger,
		planner:    planner,
		charges:    charges,
		allocator:  commands.NewRouteAllocator(planner, engineMetrics, logger),
	}, nil
}

func (c *CompositionRoot) Metrics() *metrics.Metrics {
	return c.metrics
}

func (c *CompositionRoot) unitOfWorkFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) truckUnitOfWorkFactory() commands.TruckUoWFactory {
	return FuncTruckUoWFactory(func() commands.TruckUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateIntakeConsignmentCommandHandler() commands.IntakeConsignmentCommandHandler {
	return commands.NewIntakeConsignmentCommandHandler(c.unitOfWorkFactory(), c.charges, c.allocator, c.metrics)
}

func (c *CompositionRoot) CreateCancelConsignmentCommandHandler() commands.CancelConsignmentCommandHandler {
	return commands.NewCancelConsignmentCommandHandler(c.unitOfWorkFactory(), c.metrics, c.logger)
}

func (c *CompositionRoot) CreateAllocateRouteCommandHandler() commands.AllocateRouteCommandHandler {
	return commands.NewAllocateRouteCommandHandler(c.unitOfWorkFactory(), c.allocator)
}

func (c *CompositionRoot) CreateCreateAllocationCommandHandler() commands.CreateAllocationCommandHandler {
	return commands.NewCreateAllocationCommandHandler(c.unitOfWorkFactory(), c.metrics, c.logger)
}

func (c *CompositionRoot) CreateChangeAllocationStatusCommandHandler() commands.ChangeAllocationStatusCommandHandler {
	return commands.NewChangeAllocationStatusCommandHandler(c.unitOfWorkFactory(), c.metrics, c.logger)
}

func (c *CompositionRoot) CreateUpdateAllocationDetailsCommandHandler() commands.UpdateAllocationDetailsCommandHandler {
	return commands.NewUpdateAllocationDetailsCommandHandler(c.unitOfWorkFactory())
}

func (c *CompositionRoot) CreateDeleteAllocationCommandHandler() commands.DeleteAllocationCommandHandler {
	return commands.NewDeleteAllocationCommandHandler(c.unitOfWorkFactory(), c.metrics, c.logger)
}

func (c *CompositionRoot) CreateRegisterTruckCommandHandler() commands.RegisterTruckCommandHandler {
	return commands.NewRegisterTruckCommandHandler(c.truckUnitOfWorkFactory(), c.logger)
}

func (c *CompositionRoot) CreateSetTruckStatusCommandHandler() commands.SetTruckStatusCommandHandler {
	return commands.NewSetTruckStatusCommandHandler(c.truckUnitOfWorkFactory(), c.logger)
}

func (c *CompositionRoot) CreateGetConsignmentQueryHandler() queries.GetConsignmentQueryHandler {
	return queries.NewGetConsignmentQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetRouteBacklogQueryHandler() queries.GetRouteBacklogQueryHandler {
	return queries.NewGetRouteBacklogQueryHandler(c.gormDB, c.planner.Trigger())
}

func (c *CompositionRoot) CreateGetAllocationQueryHandler() queries.GetAllocationQueryHandler {
	return queries.NewGetAllocationQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListAllocationsQueryHandler() queries.ListAllocationsQueryHandler {
	return queries.NewListAllocationsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListTrucksQueryHandler() queries.ListTrucksQueryHandler {
	return queries.NewListTrucksQueryHandler(c.gormDB)
}

// CreateServer wires every handler into the HTTP adapter.
func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		IntakeConsignment:       c.CreateIntakeConsignmentCommandHandler(),
		CancelConsignment:       c.CreateCancelConsignmentCommandHandler(),
		AllocateRoute:           c.CreateAllocateRouteCommandHandler(),
		CreateAllocation:        c.CreateCreateAllocationCommandHandler(),
		ChangeAllocationStatus:  c.CreateChangeAllocationStatusCommandHandler(),
		UpdateAllocationDetails: c.CreateUpdateAllocationDetailsCommandHandler(),
		DeleteAllocation:        c.CreateDeleteAllocationCommandHandler(),
		RegisterTruck:           c.CreateRegisterTruckCommandHandler(),
		SetTruckStatus:          c.CreateSetTruckStatusCommandHandler(),
		GetConsignment:          c.CreateGetConsignmentQueryHandler(),
		GetRouteBacklog:         c.CreateGetRouteBacklogQueryHandler(),
		GetAllocation:           c.CreateGetAllocationQueryHandler(),
		ListAllocations:         c.CreateListAllocationsQueryHandler(),
		ListTrucks:              c.CreateListTrucksQueryHandler(),
	}, c.metrics, c.logger)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncTruckUoWFactory func() commands.TruckUoW

func (f FuncTruckUoWFactory) Create() commands.TruckUoW {
	return f()
}
