// Package netting turns plan items into time-phased material requirements:
// BOM explosion, demand distribution, netting against inventory snapshots,
// and lead-time offsetting of order dates.
package netting

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mfgplan/engine/pkg/application/dto"
	"github.com/mfgplan/engine/pkg/application/services/sourcing"
	"github.com/mfgplan/engine/pkg/domain/calendar"
	"github.com/mfgplan/engine/pkg/domain/entities"
	"github.com/mfgplan/engine/pkg/domain/planning"
	"github.com/mfgplan/engine/pkg/domain/repositories"
	"github.com/mfgplan/engine/pkg/domain/services"
)

// DefaultCollaboratorTimeout bounds each inventory snapshot call
const DefaultCollaboratorTimeout = 5 * time.Second

// Config holds one netting run's policy knobs. AsOf is the run's reference
// date for late-order detection; the engine never reads the wall clock so
// identical inputs reproduce identical output.
type Config struct {
	Policy      DistributionPolicy
	Granularity calendar.Granularity
	Warehouse   entities.WarehouseID
	AsOf        time.Time
	Timeout     time.Duration
}

// Engine computes net material requirements for a set of plan items
type Engine struct {
	resolver  *services.Resolver
	inventory repositories.InventoryProvider
	suppliers repositories.SupplierCatalog
	cal       *calendar.Calendar
	logger    *zap.Logger
}

// NewEngine creates a netting engine
func NewEngine(
	resolver *services.Resolver,
	inventory repositories.InventoryProvider,
	suppliers repositories.SupplierCatalog,
	cal *calendar.Calendar,
	logger *zap.Logger,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		resolver:  resolver,
		inventory: inventory,
		suppliers: suppliers,
		cal:       cal,
		logger:    logger,
	}
}

type grossKey struct {
	material entities.MaterialID
	bucket   int
}

// ComputeRequirements explodes, distributes and nets every plan item over
// the window. Structural BOM errors and collaborator timeouts degrade the
// affected unit of work, never the whole run; cancellation returns the
// complete records computed so far with Partial set.
func (e *Engine) ComputeRequirements(
	ctx context.Context,
	items []*entities.PlanItem,
	window calendar.TimeWindow,
	cfg Config,
) (*dto.NettingResult, error) {
	if cfg.AsOf.IsZero() {
		return nil, fmt.Errorf("%w: netting config needs an as-of date", planning.ErrInvalidInput)
	}
	if cfg.Policy != "" && !cfg.Policy.Valid() {
		return nil, fmt.Errorf("%w: unknown distribution policy %q", planning.ErrInvalidInput, cfg.Policy)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultCollaboratorTimeout
	}
	asOf := calendar.DateOf(cfg.AsOf)

	buckets := window.Buckets(cfg.Granularity)
	result := &dto.NettingResult{}

	gross := make(map[grossKey]decimal.Decimal)
	units := make(map[entities.MaterialID]string)

	// Deterministic item order regardless of the plan source
	ordered := make([]*entities.PlanItem, len(items))
	copy(ordered, items)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	for _, item := range ordered {
		if item.Status == entities.PlanItemCancelled {
			continue
		}
		if ctx.Err() != nil {
			result.Partial = true
			return result, nil
		}

		if err := e.accumulateItem(ctx, item, window, buckets, cfg, gross, units); err != nil {
			e.logger.Warn("plan item excluded from netting",
				zap.String("plan_item_id", string(item.ID)),
				zap.Error(err))
			result.ItemErrors = append(result.ItemErrors, dto.ItemError{
				PlanItemID: item.ID,
				Message:    err.Error(),
			})
		}
	}

	materials := make([]entities.MaterialID, 0, len(units))
	for id := range units {
		materials = append(materials, id)
	}
	sort.Slice(materials, func(i, j int) bool { return materials[i] < materials[j] })

	for _, materialID := range materials {
		leadTime, leadErr := e.leadTimeFor(ctx, materialID, cfg.Timeout)
		if leadErr != nil {
			e.logger.Warn("supplier catalog lookup failed",
				zap.String("material_id", string(materialID)),
				zap.Error(leadErr))
		}

		for idx, bucket := range buckets {
			qty, ok := gross[grossKey{materialID, idx}]
			if !ok || !qty.IsPositive() {
				continue
			}
			if ctx.Err() != nil {
				result.Partial = true
				return result, nil
			}

			req := e.netBucket(ctx, materialID, bucket, qty, leadTime, asOf, cfg)
			if leadErr != nil && req.Error == "" {
				req.Error = leadErr.Error()
			}
			result.Requirements = append(result.Requirements, req)
		}
	}

	return result, nil
}

// accumulateItem explodes one plan item and spreads its material demand into
// the shared gross buckets.
func (e *Engine) accumulateItem(
	ctx context.Context,
	item *entities.PlanItem,
	window calendar.TimeWindow,
	buckets []calendar.TimeBucket,
	cfg Config,
	gross map[grossKey]decimal.Decimal,
	units map[entities.MaterialID]string,
) error {
	demands, err := e.resolver.Explode(ctx, item.ProductID, item.Quantity)
	if err != nil {
		return err
	}

	itemWindow := item.Window()
	var indices []int
	for idx, bucket := range buckets {
		if !bucket.Overlaps(itemWindow) {
			continue
		}
		if !e.cal.CountCalendarDays && !e.cal.HasWorkingDay(bucket) {
			continue
		}
		indices = append(indices, idx)
	}
	if len(indices) == 0 {
		// Retry without the working-day filter before giving up
		for idx, bucket := range buckets {
			if bucket.Overlaps(itemWindow) {
				indices = append(indices, idx)
			}
		}
	}
	if len(indices) == 0 {
		return fmt.Errorf("%w: plan item %s does not overlap the planning window",
			planning.ErrInvalidInput, item.ID)
	}

	for _, demand := range demands {
		shares, err := distribute(demand.Quantity, len(indices), cfg.Policy)
		if err != nil {
			return err
		}
		for i, idx := range indices {
			key := grossKey{demand.MaterialID, idx}
			gross[key] = gross[key].Add(shares[i])
		}
		units[demand.MaterialID] = demand.Unit
	}
	return nil
}

// netBucket fetches the inventory snapshot for one material bucket and
// applies the netting invariant. A failed snapshot lookup annotates the
// record and assumes zero supply so the shortfall stays visible.
func (e *Engine) netBucket(
	ctx context.Context,
	materialID entities.MaterialID,
	bucket calendar.TimeBucket,
	qty decimal.Decimal,
	leadTime int,
	asOf time.Time,
	cfg Config,
) entities.MaterialRequirement {
	req := entities.MaterialRequirement{
		MaterialID: materialID,
		Bucket:     bucket,
		Gross:      qty,
		RequiredBy: bucket.Start,
	}

	callCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	stock, err := e.inventory.GetStock(callCtx, materialID, cfg.Warehouse, bucket.Start)
	cancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, planning.ErrCollaboratorTimeout) {
			req.Error = fmt.Sprintf("%v: inventory snapshot for %s", planning.ErrCollaboratorTimeout, materialID)
		} else {
			req.Error = fmt.Sprintf("inventory snapshot for %s: %v", materialID, err)
		}
		e.logger.Warn("inventory snapshot failed",
			zap.String("material_id", string(materialID)),
			zap.Error(err))
		stock = repositories.Stock{}
	}

	req.OnHand = stock.OnHand
	req.OnOrder = stock.OnOrder
	req.Net = entities.NetRequirement(req.Gross, req.OnHand, req.OnOrder)
	req.Status = entities.DeriveStatus(req.Gross, req.OnHand, req.OnOrder, req.Net)
	req.OrderBy = e.cal.SubWorkingDays(req.RequiredBy, leadTime)
	req.Late = req.Status == entities.StatusShortage && req.OrderBy.Before(asOf)
	return req
}

// leadTimeFor returns the lead time of the material's top-ranked supplier, or
// zero when none is configured (sourcing reports those as unresolvable). A
// failed catalog lookup falls back to zero lead time but returns the error so
// callers can annotate the affected requirements.
func (e *Engine) leadTimeFor(
	ctx context.Context,
	materialID entities.MaterialID,
	timeout time.Duration,
) (int, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	suppliers, err := e.suppliers.GetSuppliers(callCtx, materialID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, planning.ErrCollaboratorTimeout) {
			return 0, fmt.Errorf("%w: supplier catalog for %s", planning.ErrCollaboratorTimeout, materialID)
		}
		return 0, fmt.Errorf("supplier catalog for %s: %w", materialID, err)
	}
	if len(suppliers) == 0 {
		return 0, nil
	}
	return sourcing.Rank(suppliers)[0].LeadTimeDays, nil
}
