// Package dto holds the result shapes the engine produces for UI and
// reporting consumers. Field names mirror the domain records exactly because
// existing callers deserialize them by name.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mfgplan/engine/pkg/domain/entities"
)

// ItemError annotates a unit of work that failed without aborting the run
type ItemError struct {
	PlanItemID entities.PlanItemID `json:"plan_item_id"`
	Message    string              `json:"message"`
}

// NettingResult is the complete output of one requirements netting pass
type NettingResult struct {
	Requirements []entities.MaterialRequirement `json:"requirements"`
	ItemErrors   []ItemError                    `json:"item_errors,omitempty"`
	// Partial is set when the pass was cut short by cancellation; every
	// requirement present is complete, none are torn.
	Partial bool `json:"partial"`
}

// ScheduleResult is the complete output of one allocation scheduling pass
type ScheduleResult struct {
	Allocations []entities.ResourceAllocation `json:"allocations"`
	Bottlenecks []entities.BottleneckReport   `json:"bottlenecks"`
	ItemErrors  []ItemError                   `json:"item_errors,omitempty"`
	Partial     bool                          `json:"partial"`
}

// MRPAnalysis summarizes a requirement set for reporting
type MRPAnalysis struct {
	TotalRequirements  int             `json:"total_requirements"`
	SufficientCount    int             `json:"sufficient_count"`
	ShortageCount      int             `json:"shortage_count"`
	OrderedCount       int             `json:"ordered_count"`
	LateCount          int             `json:"late_count"`
	TotalShortageQty   decimal.Decimal `json:"total_shortage_qty"`
	TotalShortageValue decimal.Decimal `json:"total_shortage_value"`
}

// ResourceUtilization is the per-resource slice of capacity metrics
type ResourceUtilization struct {
	ResourceID     entities.ResourceID `json:"resource_id"`
	Utilization    float64             `json:"utilization_pct"`
	EfficiencyRate float64             `json:"efficiency_rate"`
}

// CapacityMetrics summarizes an allocation set for reporting
type CapacityMetrics struct {
	TotalCapacity      decimal.Decimal       `json:"total_capacity"`
	UsedCapacity       decimal.Decimal       `json:"used_capacity"`
	AvailableCapacity  decimal.Decimal       `json:"available_capacity"`
	OverallUtilization float64               `json:"overall_utilization_pct"`
	BottleneckCount    int                   `json:"bottleneck_count"`
	Resources          []ResourceUtilization `json:"resources"`
}

// PlanningResult is the response body of a generate-mrp run
type PlanningResult struct {
	RunID            string                          `json:"run_id"`
	GeneratedAt      time.Time                       `json:"generated_at"`
	Partial          bool                            `json:"partial"`
	Requirements     []entities.MaterialRequirement  `json:"requirements"`
	PurchaseRequests []entities.PurchaseOrderRequest `json:"purchase_requests"`
	// Unresolved lists shortages with no configured supplier; they need
	// manual intervention.
	Unresolved []entities.MaterialRequirement `json:"unresolved"`
	ItemErrors []ItemError                    `json:"item_errors,omitempty"`
	Analysis   MRPAnalysis                    `json:"analysis"`
}

// CapacityPlan is the response body of a capacity-plan lookup
type CapacityPlan struct {
	RunID       string                        `json:"run_id"`
	PlanID      entities.PlanID               `json:"plan_id"`
	GeneratedAt time.Time                     `json:"generated_at"`
	Partial     bool                          `json:"partial"`
	Resources   []*entities.Resource          `json:"resources"`
	Allocations []entities.ResourceAllocation `json:"allocations"`
	Bottlenecks []entities.BottleneckReport   `json:"bottlenecks"`
	Metrics     CapacityMetrics               `json:"metrics"`
}
