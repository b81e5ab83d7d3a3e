// Package scheduling assigns plan-item resource demands to finite resources
// across a time window, in strict priority order, surfacing infeasible
// demand as bottleneck reports instead of failures.
package scheduling

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mfgplan/engine/pkg/application/dto"
	"github.com/mfgplan/engine/pkg/domain/calendar"
	"github.com/mfgplan/engine/pkg/domain/entities"
)

// Scheduler performs one stateless allocation pass. Each run starts from an
// empty ledger; derived allocations are recomputed, never accumulated across
// runs.
type Scheduler struct {
	granularity calendar.Granularity
	logger      *zap.Logger
}

// NewScheduler creates a Scheduler with daily buckets
func NewScheduler(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{granularity: calendar.Daily, logger: logger}
}

// Schedule reserves each item's resource demands against the running
// capacity ledger. Items are processed high priority first, then by start
// date, then by id; the ordering decides who wins scarce capacity and must
// not be parallelized. Demand that cannot be met is allocated partially and
// reported as a bottleneck.
func (s *Scheduler) Schedule(
	ctx context.Context,
	items []*entities.PlanItem,
	resources []*entities.Resource,
	window calendar.TimeWindow,
) (*dto.ScheduleResult, error) {
	model := NewCapacityModel(resources, window, s.granularity)
	result := &dto.ScheduleResult{}
	bottlenecks := make(map[bucketKey]*entities.BottleneckReport)

	for _, item := range sortForScheduling(items) {
		if item.Status == entities.PlanItemCancelled {
			continue
		}
		if ctx.Err() != nil {
			result.Partial = true
			break
		}
		s.scheduleItem(item, window, model, result, bottlenecks)
	}

	keys := make([]bucketKey, 0, len(bottlenecks))
	for key := range bottlenecks {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].resource != keys[j].resource {
			return keys[i].resource < keys[j].resource
		}
		return keys[i].start < keys[j].start
	})
	for _, key := range keys {
		result.Bottlenecks = append(result.Bottlenecks, *bottlenecks[key])
	}

	return result, nil
}

// scheduleItem reserves one item's demands bucket by bucket
func (s *Scheduler) scheduleItem(
	item *entities.PlanItem,
	window calendar.TimeWindow,
	model *CapacityModel,
	result *dto.ScheduleResult,
	bottlenecks map[bucketKey]*entities.BottleneckReport,
) {
	itemWindow := item.Window()
	var itemBuckets []calendar.TimeBucket
	for _, bucket := range model.Buckets() {
		if bucket.Overlaps(itemWindow) {
			itemBuckets = append(itemBuckets, bucket)
		}
	}
	if len(itemBuckets) == 0 {
		result.ItemErrors = append(result.ItemErrors, dto.ItemError{
			PlanItemID: item.ID,
			Message:    fmt.Sprintf("plan item %s does not overlap the planning window", item.ID),
		})
		return
	}

	demands := make([]entities.ResourceDemand, len(item.ResourceDemands))
	copy(demands, item.ResourceDemands)
	sort.Slice(demands, func(i, j int) bool { return demands[i].ResourceID < demands[j].ResourceID })

	for _, demand := range demands {
		if !demand.Rate.IsPositive() {
			continue
		}
		if model.Resource(demand.ResourceID) == nil {
			result.ItemErrors = append(result.ItemErrors, dto.ItemError{
				PlanItemID: item.ID,
				Message:    fmt.Sprintf("unknown resource %s", demand.ResourceID),
			})
			continue
		}

		granted := decimal.Zero
		for _, bucket := range itemBuckets {
			available := model.AvailableCapacity(demand.ResourceID, bucket)
			grant := demand.Rate
			if grant.GreaterThan(available) {
				grant = available
			}
			if grant.IsPositive() {
				model.Reserve(demand.ResourceID, bucket, grant)
				granted = granted.Add(grant)
			}

			shortfall := demand.Rate.Sub(grant)
			if shortfall.IsPositive() {
				s.recordBottleneck(bottlenecks, demand.ResourceID, bucket, shortfall, item.ID)
			}
		}

		if granted.IsPositive() {
			result.Allocations = append(result.Allocations, entities.ResourceAllocation{
				ID:         string(item.ID) + "/" + string(demand.ResourceID),
				ResourceID: demand.ResourceID,
				PlanItemID: item.ID,
				Allocated:  granted,
				Window:     intersect(itemWindow, window),
				Priority:   item.Priority,
				Status:     entities.AllocationScheduled,
			})
		} else {
			s.logger.Debug("allocation rejected, no capacity available",
				zap.String("plan_item_id", string(item.ID)),
				zap.String("resource_id", string(demand.ResourceID)))
		}
	}
}

func (s *Scheduler) recordBottleneck(
	bottlenecks map[bucketKey]*entities.BottleneckReport,
	resourceID entities.ResourceID,
	bucket calendar.TimeBucket,
	shortfall decimal.Decimal,
	itemID entities.PlanItemID,
) {
	key := bucketKey{resourceID, bucket.Start.Unix()}
	report, exists := bottlenecks[key]
	if !exists {
		report = &entities.BottleneckReport{
			ResourceID: resourceID,
			Bucket:     bucket,
			Shortfall:  decimal.Zero,
		}
		bottlenecks[key] = report
	}
	report.Shortfall = report.Shortfall.Add(shortfall)
	report.AffectedPlanItems = append(report.AffectedPlanItems, itemID)
}

// sortForScheduling orders items by priority, start date, then id. Higher
// priority items claim capacity first, modeling expedite behavior.
func sortForScheduling(items []*entities.PlanItem) []*entities.PlanItem {
	ordered := make([]*entities.PlanItem, len(items))
	copy(ordered, items)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Priority.Rank() != ordered[j].Priority.Rank() {
			return ordered[i].Priority.Rank() < ordered[j].Priority.Rank()
		}
		if !ordered[i].StartDate.Equal(ordered[j].StartDate) {
			return ordered[i].StartDate.Before(ordered[j].StartDate)
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}

func intersect(a, b calendar.TimeWindow) calendar.TimeWindow {
	w := a
	if b.Start.After(w.Start) {
		w.Start = b.Start
	}
	if b.End.Before(w.End) {
		w.End = b.End
	}
	return w
}
