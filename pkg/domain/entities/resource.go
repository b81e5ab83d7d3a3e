package entities

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mfgplan/engine/pkg/domain/calendar"
	"github.com/mfgplan/engine/pkg/domain/planning"
)

// ResourceID identifies a finite resource
type ResourceID string

// ResourceType classifies a resource
type ResourceType string

const (
	ResourceMachine   ResourceType = "machine"
	ResourceLabor     ResourceType = "labor"
	ResourceEquipment ResourceType = "equipment"
	ResourceFacility  ResourceType = "facility"
)

// Valid reports whether the type is one of the known kinds
func (t ResourceType) Valid() bool {
	switch t {
	case ResourceMachine, ResourceLabor, ResourceEquipment, ResourceFacility:
		return true
	}
	return false
}

// ResourceStatus tracks resource availability
type ResourceStatus string

const (
	ResourceActive      ResourceStatus = "active"
	ResourceMaintenance ResourceStatus = "maintenance"
	ResourceInactive    ResourceStatus = "inactive"
)

// Resource represents a finite capacity source. A resource in maintenance or
// inactive status contributes zero available capacity regardless of its
// nominal capacity per period.
type Resource struct {
	ID                ResourceID      `json:"id"`
	Name              string          `json:"name"`
	Type              ResourceType    `json:"type"`
	CapacityPerPeriod decimal.Decimal `json:"capacity_per_period"`
	CapacityUnit      string          `json:"capacity_unit"`
	Status            ResourceStatus  `json:"status"`
	// EfficiencyRate is reported by the resource itself and passed through
	// to analysis unmodified.
	EfficiencyRate float64 `json:"efficiency_rate"`
}

// NewResource creates a validated Resource
func NewResource(
	id ResourceID,
	name string,
	rtype ResourceType,
	capacity decimal.Decimal,
	unit string,
	status ResourceStatus,
) (*Resource, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: resource id cannot be empty", planning.ErrInvalidInput)
	}
	if !rtype.Valid() {
		return nil, fmt.Errorf("%w: resource %s has unknown type %q",
			planning.ErrInvalidInput, id, rtype)
	}
	if capacity.IsNegative() {
		return nil, fmt.Errorf("%w: resource %s capacity must not be negative, got %s",
			planning.ErrInvalidInput, id, capacity)
	}

	return &Resource{
		ID:                id,
		Name:              name,
		Type:              rtype,
		CapacityPerPeriod: capacity,
		CapacityUnit:      unit,
		Status:            status,
		EfficiencyRate:    100,
	}, nil
}

// Available reports whether the resource contributes capacity at all
func (r *Resource) Available() bool {
	return r.Status == ResourceActive
}

// AllocationStatus tracks the lifecycle of a resource allocation
type AllocationStatus string

const (
	AllocationScheduled  AllocationStatus = "scheduled"
	AllocationInProgress AllocationStatus = "in_progress"
	AllocationCompleted  AllocationStatus = "completed"
	AllocationCancelled  AllocationStatus = "cancelled"
)

// ResourceAllocation is a derived reservation of resource capacity by a plan
// item over a time range. Recomputed every run, never hand-edited.
type ResourceAllocation struct {
	ID         string              `json:"id"`
	ResourceID ResourceID          `json:"resource_id"`
	PlanItemID PlanItemID          `json:"plan_item_id"`
	Allocated  decimal.Decimal     `json:"allocated_capacity"`
	Window     calendar.TimeWindow `json:"time_range"`
	Priority   Priority            `json:"priority"`
	Status     AllocationStatus    `json:"status"`
}

// BottleneckReport surfaces an over-allocated resource period. Infeasibility
// is an expected, reportable scheduling outcome, never a crash.
type BottleneckReport struct {
	ResourceID        ResourceID          `json:"resource_id"`
	Bucket            calendar.TimeBucket `json:"bucket"`
	Shortfall         decimal.Decimal     `json:"shortfall"`
	AffectedPlanItems []PlanItemID        `json:"affected_plan_items"`
}
