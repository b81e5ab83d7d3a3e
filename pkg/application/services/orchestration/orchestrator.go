// Package orchestration coordinates one planning run: loading plan items and
// resources, running requirements netting and capacity scheduling in
// parallel, and assembling the derived result set callers atomically replace.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mfgplan/engine/pkg/application/dto"
	"github.com/mfgplan/engine/pkg/application/services/analysis"
	"github.com/mfgplan/engine/pkg/application/services/netting"
	"github.com/mfgplan/engine/pkg/application/services/scheduling"
	"github.com/mfgplan/engine/pkg/application/services/sourcing"
	"github.com/mfgplan/engine/pkg/domain/calendar"
	"github.com/mfgplan/engine/pkg/domain/entities"
	"github.com/mfgplan/engine/pkg/domain/planning"
	"github.com/mfgplan/engine/pkg/domain/repositories"
)

// Config holds orchestration-level policy
type Config struct {
	Policy      netting.DistributionPolicy
	Granularity calendar.Granularity
	Warehouse   entities.WarehouseID
	Timeout     time.Duration
}

// PlanningRequest selects what to plan. Exactly one of PlanID and Window
// must be set; AsOf is the run's reference date.
type PlanningRequest struct {
	PlanID entities.PlanID
	Window *calendar.TimeWindow
	AsOf   time.Time
}

// Orchestrator runs complete planning passes
type Orchestrator struct {
	planSource  repositories.PlanSource
	resourceDir repositories.ResourceDirectory
	suppliers   repositories.SupplierCatalog
	engine      *netting.Engine
	scheduler   *scheduling.Scheduler
	selector    *sourcing.Selector
	cfg         Config
	logger      *zap.Logger
}

// NewOrchestrator creates an Orchestrator
func NewOrchestrator(
	planSource repositories.PlanSource,
	resourceDir repositories.ResourceDirectory,
	suppliers repositories.SupplierCatalog,
	engine *netting.Engine,
	scheduler *scheduling.Scheduler,
	selector *sourcing.Selector,
	cfg Config,
	logger *zap.Logger,
) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = netting.DefaultCollaboratorTimeout
	}
	return &Orchestrator{
		planSource:  planSource,
		resourceDir: resourceDir,
		suppliers:   suppliers,
		engine:      engine,
		scheduler:   scheduler,
		selector:    selector,
		cfg:         cfg,
		logger:      logger,
	}
}

// Run executes one planning pass. Netting and scheduling share only the
// read-only plan-item input and run concurrently; cancellation yields a
// result marked partial rather than an error.
func (o *Orchestrator) Run(
	ctx context.Context,
	req PlanningRequest,
) (*dto.PlanningResult, *dto.CapacityPlan, error) {
	if req.PlanID == "" && req.Window == nil {
		return nil, nil, fmt.Errorf("%w: planning request needs a plan id or a date range",
			planning.ErrInvalidInput)
	}
	if req.AsOf.IsZero() {
		return nil, nil, fmt.Errorf("%w: planning request needs an as-of date",
			planning.ErrInvalidInput)
	}

	items, err := o.loadPlanItems(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	window, err := o.resolveWindow(req, items)
	if err != nil {
		return nil, nil, err
	}

	resources, err := o.loadResources(ctx)
	if err != nil {
		return nil, nil, err
	}

	runID := uuid.NewString()
	startedAt := time.Now().UTC()
	o.logger.Info("planning run started",
		zap.String("run_id", runID),
		zap.String("plan_id", string(req.PlanID)),
		zap.Int("plan_items", len(items)),
		zap.Int("resources", len(resources)))

	var (
		wg          sync.WaitGroup
		nettingRes  *dto.NettingResult
		nettingErr  error
		scheduleRes *dto.ScheduleResult
		scheduleErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		nettingRes, nettingErr = o.engine.ComputeRequirements(ctx, items, window, netting.Config{
			Policy:      o.cfg.Policy,
			Granularity: o.cfg.Granularity,
			Warehouse:   o.cfg.Warehouse,
			AsOf:        req.AsOf,
			Timeout:     o.cfg.Timeout,
		})
	}()
	go func() {
		defer wg.Done()
		scheduleRes, scheduleErr = o.scheduler.Schedule(ctx, items, resources, window)
	}()
	wg.Wait()

	if nettingErr != nil {
		return nil, nil, fmt.Errorf("requirements netting: %w", nettingErr)
	}
	if scheduleErr != nil {
		return nil, nil, fmt.Errorf("allocation scheduling: %w", scheduleErr)
	}

	requests, unresolved, err := o.selector.BuildPurchaseRequests(ctx, nettingRes.Requirements, req.AsOf)
	if err != nil && ctx.Err() == nil {
		return nil, nil, fmt.Errorf("building purchase requests: %w", err)
	}

	partial := nettingRes.Partial || scheduleRes.Partial || ctx.Err() != nil
	generatedAt := time.Now().UTC()

	mrp := &dto.PlanningResult{
		RunID:            runID,
		GeneratedAt:      generatedAt,
		Partial:          partial,
		Requirements:     nettingRes.Requirements,
		PurchaseRequests: requests,
		Unresolved:       unresolved,
		ItemErrors:       append(nettingRes.ItemErrors, scheduleRes.ItemErrors...),
		Analysis:         analysis.AnalyzeRequirements(nettingRes.Requirements, o.priceFunc(ctx)),
	}

	capacity := &dto.CapacityPlan{
		RunID:       runID,
		PlanID:      req.PlanID,
		GeneratedAt: generatedAt,
		Partial:     partial,
		Resources:   resources,
		Allocations: scheduleRes.Allocations,
		Bottlenecks: scheduleRes.Bottlenecks,
		Metrics:     analysis.AnalyzeCapacity(resources, scheduleRes, window, o.cfg.Granularity),
	}

	o.logger.Info("planning run finished",
		zap.String("run_id", runID),
		zap.Bool("partial", partial),
		zap.Int("requirements", len(mrp.Requirements)),
		zap.Int("allocations", len(capacity.Allocations)),
		zap.Int("bottlenecks", len(capacity.Bottlenecks)),
		zap.Duration("elapsed", generatedAt.Sub(startedAt)))

	return mrp, capacity, nil
}

func (o *Orchestrator) loadPlanItems(
	ctx context.Context,
	req PlanningRequest,
) ([]*entities.PlanItem, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	items, err := o.planSource.GetPlanItems(callCtx, repositories.PlanFilter{
		PlanID: req.PlanID,
		Window: req.Window,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: plan source", planning.ErrCollaboratorTimeout)
		}
		return nil, fmt.Errorf("loading plan items: %w", err)
	}
	if req.PlanID != "" && len(items) == 0 {
		return nil, fmt.Errorf("%w: plan %s", planning.ErrNotFound, req.PlanID)
	}
	return items, nil
}

func (o *Orchestrator) loadResources(ctx context.Context) ([]*entities.Resource, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	resources, err := o.resourceDir.GetResources(callCtx, repositories.ResourceFilter{})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: resource directory", planning.ErrCollaboratorTimeout)
		}
		return nil, fmt.Errorf("loading resources: %w", err)
	}
	return resources, nil
}

// resolveWindow takes the requested window or derives one from the items'
// combined date range.
func (o *Orchestrator) resolveWindow(
	req PlanningRequest,
	items []*entities.PlanItem,
) (calendar.TimeWindow, error) {
	if req.Window != nil {
		return *req.Window, nil
	}
	if len(items) == 0 {
		return calendar.TimeWindow{}, fmt.Errorf("%w: plan %s has no items to derive a window from",
			planning.ErrInvalidInput, req.PlanID)
	}

	start, end := items[0].StartDate, items[0].EndDate
	for _, item := range items[1:] {
		if item.StartDate.Before(start) {
			start = item.StartDate
		}
		if item.EndDate.After(end) {
			end = item.EndDate
		}
	}
	return calendar.NewTimeWindow(start, end)
}

// priceFunc resolves the latest known unit price per material via the
// top-ranked supplier, memoized for the run.
func (o *Orchestrator) priceFunc(ctx context.Context) analysis.PriceFunc {
	cache := make(map[entities.MaterialID]decimal.Decimal)
	return func(id entities.MaterialID) decimal.Decimal {
		if price, ok := cache[id]; ok {
			return price
		}
		price := decimal.Zero
		if suppliers, err := o.suppliers.GetSuppliers(ctx, id); err == nil && len(suppliers) > 0 {
			price = sourcing.Rank(suppliers)[0].UnitPrice
		}
		cache[id] = price
		return price
	}
}
