package cmd

import (
	"log/slog"
	"time"

	"routesync/internal/adapters/out/postgres"
	"routesync/internal/adapters/out/postgres/orderrepo"
	"routesync/internal/core/application/usecases/commands"
	"routesync/internal/core/application/usecases/queries"
	"routesync/internal/core/domain/model/kernel"
	"routesync/internal/core/domain/services"
	"routesync/internal/core/ports"
	"routesync/internal/jobs"
	"routesync/internal/pkg/locker"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB      *gorm.DB
	uowFactory  postgres.GormUnitOfWorkFactory
	routeStore  ports.RouteStore
	locks       *locker.KeyedMutex
	planner     services.RoutePlanner
	depotOrigin kernel.Location
	routeMaxAge time.Duration

	getRouteHandler *queries.GetRouteQueryHandler
}

func NewCompositionRoot(
	_ Config,
	gormDB *gorm.DB,
	routeStore ports.RouteStore,
	depotOrigin kernel.Location,
	routeMaxAge time.Duration,
) CompositionRoot {
	root := CompositionRoot{
		gormDB:      gormDB,
		uowFactory:  *postgres.NewGormUnitOfWorkFactory(gormDB),
		routeStore:  routeStore,
		locks:       locker.NewKeyedMutex(),
		planner:     services.NewRoutePlanner(),
		depotOrigin: depotOrigin,
		routeMaxAge: routeMaxAge,
	}

	// The route query handler is shared: its singleflight group is what
	// collapses concurrent reads per driver.
	root.getRouteHandler = queries.NewGetRouteQueryHandler(
		routeStore,
		orderrepo.NewGormOrderRepository(gormDB, noopTracker{}),
	)

	return root
}

func (c *CompositionRoot) CreateRecordScanCommandHandler() commands.RecordScanCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecordScanCommandHandler(f, c.routeStore, c.locks)
}

func (c *CompositionRoot) CreateOptimizeRouteCommandHandler() commands.OptimizeRouteCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewOptimizeRouteCommandHandler(f, c.routeStore, c.planner, c.locks, c.depotOrigin)
}

func (c *CompositionRoot) CreateResetRouteCommandHandler() commands.ResetRouteCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewResetRouteCommandHandler(f, c.routeStore, c.locks)
}

func (c *CompositionRoot) CreateGetRouteQueryHandler() *queries.GetRouteQueryHandler {
	return c.getRouteHandler
}

func (c *CompositionRoot) CreateGetScanHistoryQueryHandler() queries.GetScanHistoryQueryHandler {
	return queries.NewGetScanHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager(logger *slog.Logger) *jobs.JobManager {
	return jobs.NewJobManager(c.routeStore, c.routeMaxAge, logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

// noopTracker satisfies the repository's tracker dependency for read-only use.
type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}
