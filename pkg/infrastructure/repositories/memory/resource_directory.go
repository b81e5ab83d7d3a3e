package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mfgplan/engine/pkg/domain/entities"
	"github.com/mfgplan/engine/pkg/domain/repositories"
)

// ResourceDirectory is an in-memory resource store
type ResourceDirectory struct {
	mu        sync.RWMutex
	resources map[entities.ResourceID]entities.Resource
}

var _ repositories.ResourceDirectory = (*ResourceDirectory)(nil)

// NewResourceDirectory creates an empty in-memory resource directory
func NewResourceDirectory() *ResourceDirectory {
	return &ResourceDirectory{resources: make(map[entities.ResourceID]entities.Resource)}
}

// AddResource adds a resource
func (d *ResourceDirectory) AddResource(r entities.Resource) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resources[r.ID] = r
}

// LoadResources loads a batch of resources
func (d *ResourceDirectory) LoadResources(resources []*entities.Resource) error {
	for _, r := range resources {
		d.AddResource(*r)
	}
	return nil
}

// GetResources returns resources matching the filter, sorted by id
// (ResourceDirectory interface)
func (d *ResourceDirectory) GetResources(
	ctx context.Context,
	filter repositories.ResourceFilter,
) ([]*entities.Resource, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var matched []*entities.Resource
	for id := range d.resources {
		r := d.resources[id]
		if len(filter.Types) > 0 && !containsType(filter.Types, r.Type) {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, r.Status) {
			continue
		}
		matched = append(matched, &r)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, nil
}

func containsType(types []entities.ResourceType, t entities.ResourceType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

func containsStatus(statuses []entities.ResourceStatus, s entities.ResourceStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}
