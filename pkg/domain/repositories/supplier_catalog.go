package repositories

import (
	"context"

	"github.com/mfgplan/engine/pkg/domain/entities"
)

// SupplierCatalog is the external collaborator that owns supplier data
type SupplierCatalog interface {
	// GetSuppliers returns every supplier configured for the material.
	// An empty slice means the material has no source.
	GetSuppliers(ctx context.Context, materialID entities.MaterialID) ([]*entities.Supplier, error)
}
