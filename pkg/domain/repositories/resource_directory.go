package repositories

import (
	"context"

	"github.com/mfgplan/engine/pkg/domain/entities"
)

// ResourceFilter narrows a resource listing. Empty slices match everything.
type ResourceFilter struct {
	Types    []entities.ResourceType
	Statuses []entities.ResourceStatus
}

// ResourceDirectory is the external collaborator that owns resource
// definitions
type ResourceDirectory interface {
	GetResources(ctx context.Context, filter ResourceFilter) ([]*entities.Resource, error)
}
