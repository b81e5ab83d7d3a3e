package memory

import (
	"context"
	"sync"

	"github.com/mfgplan/engine/pkg/domain/entities"
	"github.com/mfgplan/engine/pkg/domain/repositories"
)

// SupplierCatalog is an in-memory supplier store
type SupplierCatalog struct {
	mu        sync.RWMutex
	suppliers map[entities.MaterialID][]entities.Supplier
}

var _ repositories.SupplierCatalog = (*SupplierCatalog)(nil)

// NewSupplierCatalog creates an empty in-memory supplier catalog
func NewSupplierCatalog() *SupplierCatalog {
	return &SupplierCatalog{suppliers: make(map[entities.MaterialID][]entities.Supplier)}
}

// AddSupplier adds a supplier for its material
func (c *SupplierCatalog) AddSupplier(s entities.Supplier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.suppliers[s.MaterialID] = append(c.suppliers[s.MaterialID], s)
}

// LoadSuppliers loads a batch of suppliers
func (c *SupplierCatalog) LoadSuppliers(suppliers []*entities.Supplier) error {
	for _, s := range suppliers {
		c.AddSupplier(*s)
	}
	return nil
}

// GetSuppliers returns every supplier for the material (SupplierCatalog
// interface)
func (c *SupplierCatalog) GetSuppliers(
	ctx context.Context,
	materialID entities.MaterialID,
) ([]*entities.Supplier, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stored := c.suppliers[materialID]
	suppliers := make([]*entities.Supplier, 0, len(stored))
	for i := range stored {
		s := stored[i]
		suppliers = append(suppliers, &s)
	}
	return suppliers, nil
}
