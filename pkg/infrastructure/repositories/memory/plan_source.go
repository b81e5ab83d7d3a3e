package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mfgplan/engine/pkg/domain/entities"
	"github.com/mfgplan/engine/pkg/domain/planning"
	"github.com/mfgplan/engine/pkg/domain/repositories"
)

// PlanSource is an in-memory production plan store
type PlanSource struct {
	mu    sync.RWMutex
	items []entities.PlanItem
}

var _ repositories.PlanSource = (*PlanSource)(nil)

// NewPlanSource creates an empty in-memory plan source
func NewPlanSource() *PlanSource {
	return &PlanSource{}
}

// AddPlanItem adds a plan item
func (s *PlanSource) AddPlanItem(item entities.PlanItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
}

// LoadPlanItems loads a batch of plan items
func (s *PlanSource) LoadPlanItems(items []*entities.PlanItem) error {
	for _, item := range items {
		s.AddPlanItem(*item)
	}
	return nil
}

// GetPlanItems returns items matching the filter, sorted by id
// (PlanSource interface)
func (s *PlanSource) GetPlanItems(
	ctx context.Context,
	filter repositories.PlanFilter,
) ([]*entities.PlanItem, error) {
	if filter.PlanID == "" && filter.Window == nil {
		return nil, fmt.Errorf("%w: plan filter needs a plan id or a date range",
			planning.ErrInvalidInput)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*entities.PlanItem
	for i := range s.items {
		item := s.items[i]
		if filter.PlanID != "" && item.PlanID != filter.PlanID {
			continue
		}
		if filter.Window != nil && !item.Window().Overlaps(*filter.Window) {
			continue
		}
		matched = append(matched, &item)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, nil
}
