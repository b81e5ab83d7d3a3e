package main

import (
	"go.uber.org/zap"

	"github.com/mfgplan/engine/pkg/application/services/netting"
	"github.com/mfgplan/engine/pkg/application/services/orchestration"
	"github.com/mfgplan/engine/pkg/application/services/scheduling"
	"github.com/mfgplan/engine/pkg/application/services/sourcing"
	"github.com/mfgplan/engine/pkg/domain/calendar"
	"github.com/mfgplan/engine/pkg/domain/entities"
	"github.com/mfgplan/engine/pkg/domain/services"
	"github.com/mfgplan/engine/pkg/infrastructure/config"
	api "github.com/mfgplan/engine/pkg/interfaces/http"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.LoadConfig(logger)

	cal := calendar.NewCalendar()
	cal.CountCalendarDays = cfg.Planning.CountCalendarDays

	stores := seedStores()

	granularity := calendar.Daily
	if cfg.Planning.Granularity == "weekly" {
		granularity = calendar.Weekly
	}

	engine := netting.NewEngine(
		services.NewResolver(stores.boms, cfg.Planning.MaxBOMDepth),
		stores.inventory,
		stores.suppliers,
		cal,
		logger,
	)
	orchestrator := orchestration.NewOrchestrator(
		stores.plans,
		stores.resources,
		stores.suppliers,
		engine,
		scheduling.NewScheduler(logger),
		sourcing.NewSelector(stores.suppliers, cal, logger),
		orchestration.Config{
			Policy:      netting.DistributionPolicy(cfg.Planning.DistributionPolicy),
			Granularity: granularity,
			Warehouse:   entities.WarehouseID(cfg.Planning.DefaultWarehouse),
			Timeout:     cfg.Planning.CollaboratorTimeout,
		},
		logger,
	)

	router := api.NewRouter(api.NewPlanningHandler(orchestrator, logger))

	logger.Info("mrpd listening", zap.String("addr", cfg.HTTP.Addr))
	if err := router.Run(cfg.HTTP.Addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
