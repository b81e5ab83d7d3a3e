package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mfgplan/engine/pkg/domain/calendar"
	"github.com/mfgplan/engine/pkg/domain/planning"
)

// PlanID identifies a production plan
type PlanID string

// PlanItemID identifies a single line of a production plan
type PlanItemID string

// Priority orders competing plan items for capacity. Higher priority items
// claim scarce capacity first.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns the sort rank of a priority, lower claims capacity first
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Valid reports whether the priority is one of the known levels
func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// PlanItemStatus tracks the lifecycle of a plan item
type PlanItemStatus string

const (
	PlanItemPlanned   PlanItemStatus = "planned"
	PlanItemActive    PlanItemStatus = "active"
	PlanItemCompleted PlanItemStatus = "completed"
	PlanItemCancelled PlanItemStatus = "cancelled"
)

// ResourceDemand is the configured consumption rate of a resource by a
// product, expressed as capacity units per period.
type ResourceDemand struct {
	ResourceID ResourceID      `json:"resource_id"`
	Rate       decimal.Decimal `json:"rate"`
}

// PlanItem drives both BOM explosion on the material side and resource
// demand on the capacity side.
type PlanItem struct {
	ID              PlanItemID       `json:"id"`
	PlanID          PlanID           `json:"plan_id"`
	ProductID       ProductID        `json:"product_id"`
	Quantity        decimal.Decimal  `json:"quantity"`
	Priority        Priority         `json:"priority"`
	StartDate       time.Time        `json:"start_date"`
	EndDate         time.Time        `json:"end_date"`
	Status          PlanItemStatus   `json:"status"`
	ResourceDemands []ResourceDemand `json:"resource_demands"`
}

// NewPlanItem creates a validated PlanItem. Dates are normalized to midnight
// UTC; a zero-duration item occupies exactly one day.
func NewPlanItem(
	id PlanItemID,
	planID PlanID,
	productID ProductID,
	quantity decimal.Decimal,
	priority Priority,
	startDate, endDate time.Time,
	demands []ResourceDemand,
) (*PlanItem, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: plan item id cannot be empty", planning.ErrInvalidInput)
	}
	if productID == "" {
		return nil, fmt.Errorf("%w: plan item %s has no product", planning.ErrInvalidInput, id)
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("%w: plan item %s quantity must be positive, got %s",
			planning.ErrInvalidInput, id, quantity)
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: plan item %s has unknown priority %q",
			planning.ErrInvalidInput, id, priority)
	}
	start := calendar.DateOf(startDate)
	end := calendar.DateOf(endDate)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: plan item %s ends before it starts", planning.ErrInvalidInput, id)
	}
	for _, d := range demands {
		if d.ResourceID == "" {
			return nil, fmt.Errorf("%w: plan item %s demands an unnamed resource",
				planning.ErrInvalidInput, id)
		}
		if d.Rate.IsNegative() {
			return nil, fmt.Errorf("%w: plan item %s has negative demand rate for %s",
				planning.ErrInvalidInput, id, d.ResourceID)
		}
	}

	return &PlanItem{
		ID:              id,
		PlanID:          planID,
		ProductID:       productID,
		Quantity:        quantity,
		Priority:        priority,
		StartDate:       start,
		EndDate:         end,
		Status:          PlanItemPlanned,
		ResourceDemands: demands,
	}, nil
}

// Window returns the item's date range as a TimeWindow
func (p *PlanItem) Window() calendar.TimeWindow {
	return calendar.TimeWindow{Start: p.StartDate, End: p.EndDate}
}
