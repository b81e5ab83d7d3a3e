package repositories

import (
	"context"

	"github.com/mfgplan/engine/pkg/domain/entities"
)

// BOMRepository provides access to product and Bill of Materials data
type BOMRepository interface {
	// GetProduct returns the product record, or an InvalidInput error when
	// the id is unknown.
	GetProduct(ctx context.Context, id entities.ProductID) (*entities.Product, error)

	// GetBOMLines returns the direct children of a product. A product with
	// no lines is a leaf material.
	GetBOMLines(ctx context.Context, id entities.ProductID) ([]*entities.BOMLine, error)
}
