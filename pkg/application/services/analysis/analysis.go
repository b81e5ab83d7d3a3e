// Package analysis aggregates requirement and allocation sets into summary
// metrics for reporting callers. Pure aggregation: no side effects, no
// external calls.
package analysis

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mfgplan/engine/pkg/application/dto"
	"github.com/mfgplan/engine/pkg/domain/calendar"
	"github.com/mfgplan/engine/pkg/domain/entities"
)

// PriceFunc returns the latest known unit price for a material, or zero when
// no price is known.
type PriceFunc func(entities.MaterialID) decimal.Decimal

// AnalyzeRequirements summarizes a netted requirement set. Shortage value is
// the sum of shortage quantities priced at the latest known unit price.
func AnalyzeRequirements(requirements []entities.MaterialRequirement, priceOf PriceFunc) dto.MRPAnalysis {
	a := dto.MRPAnalysis{
		TotalRequirements:  len(requirements),
		TotalShortageQty:   decimal.Zero,
		TotalShortageValue: decimal.Zero,
	}

	for _, req := range requirements {
		switch req.Status {
		case entities.StatusSufficient:
			a.SufficientCount++
		case entities.StatusShortage:
			a.ShortageCount++
			a.TotalShortageQty = a.TotalShortageQty.Add(req.Net)
			if priceOf != nil {
				a.TotalShortageValue = a.TotalShortageValue.Add(req.Net.Mul(priceOf(req.MaterialID)))
			}
		case entities.StatusOrdered:
			a.OrderedCount++
		}
		if req.Late {
			a.LateCount++
		}
	}
	return a
}

// AnalyzeCapacity summarizes an allocation set against the resource pool
// over the window. Efficiency rates are resource-reported and passed through
// unmodified.
func AnalyzeCapacity(
	resources []*entities.Resource,
	schedule *dto.ScheduleResult,
	window calendar.TimeWindow,
	granularity calendar.Granularity,
) dto.CapacityMetrics {
	periods := decimal.NewFromInt(int64(len(window.Buckets(granularity))))

	usedBy := make(map[entities.ResourceID]decimal.Decimal)
	for _, alloc := range schedule.Allocations {
		if alloc.Status != entities.AllocationCancelled {
			usedBy[alloc.ResourceID] = usedBy[alloc.ResourceID].Add(alloc.Allocated)
		}
	}

	metrics := dto.CapacityMetrics{
		TotalCapacity:     decimal.Zero,
		UsedCapacity:      decimal.Zero,
		AvailableCapacity: decimal.Zero,
		BottleneckCount:   len(schedule.Bottlenecks),
	}

	ordered := make([]*entities.Resource, len(resources))
	copy(ordered, resources)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	for _, r := range ordered {
		nominal := decimal.Zero
		if r.Available() {
			nominal = r.CapacityPerPeriod.Mul(periods)
		}
		used := usedBy[r.ID]

		metrics.TotalCapacity = metrics.TotalCapacity.Add(nominal)
		metrics.UsedCapacity = metrics.UsedCapacity.Add(used)

		metrics.Resources = append(metrics.Resources, dto.ResourceUtilization{
			ResourceID:     r.ID,
			Utilization:    utilization(used, nominal),
			EfficiencyRate: r.EfficiencyRate,
		})
	}

	metrics.AvailableCapacity = metrics.TotalCapacity.Sub(metrics.UsedCapacity)
	if metrics.AvailableCapacity.IsNegative() {
		metrics.AvailableCapacity = decimal.Zero
	}
	metrics.OverallUtilization = utilization(metrics.UsedCapacity, metrics.TotalCapacity)
	return metrics
}

// utilization reports used/total as a percentage, treating zero total
// capacity as fully consumed.
func utilization(used, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 100
	}
	pct, _ := used.Div(total).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}
