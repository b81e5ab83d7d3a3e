package repositories

import (
	"context"

	"github.com/mfgplan/engine/pkg/domain/calendar"
	"github.com/mfgplan/engine/pkg/domain/entities"
)

// PlanFilter selects plan items by plan id or by date range. Exactly one of
// the two fields must be set.
type PlanFilter struct {
	PlanID entities.PlanID
	Window *calendar.TimeWindow
}

// PlanSource is the external collaborator that owns production plans
type PlanSource interface {
	GetPlanItems(ctx context.Context, filter PlanFilter) ([]*entities.PlanItem, error)
}
