package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/mfgplan/engine/pkg/domain/entities"
	"github.com/mfgplan/engine/pkg/domain/planning"
	"github.com/mfgplan/engine/pkg/domain/repositories"
)

// BOMRepository is an in-memory product and BOM store
type BOMRepository struct {
	mu       sync.RWMutex
	products map[entities.ProductID]entities.Product
	lines    map[entities.ProductID][]entities.BOMLine
}

// Verify interface compliance
var _ repositories.BOMRepository = (*BOMRepository)(nil)

// NewBOMRepository creates an empty in-memory BOM repository
func NewBOMRepository() *BOMRepository {
	return &BOMRepository{
		products: make(map[entities.ProductID]entities.Product),
		lines:    make(map[entities.ProductID][]entities.BOMLine),
	}
}

// AddProduct adds a product to the repository
func (r *BOMRepository) AddProduct(p entities.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
}

// AddBOMLine adds a BOM line to the repository
func (r *BOMRepository) AddBOMLine(line entities.BOMLine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines[line.ParentID] = append(r.lines[line.ParentID], line)
}

// LoadProducts loads a batch of products
func (r *BOMRepository) LoadProducts(products []*entities.Product) error {
	for _, p := range products {
		r.AddProduct(*p)
	}
	return nil
}

// LoadBOMLines loads a batch of BOM lines
func (r *BOMRepository) LoadBOMLines(lines []*entities.BOMLine) error {
	for _, line := range lines {
		r.AddBOMLine(*line)
	}
	return nil
}

// GetProduct returns the product record (BOMRepository interface)
func (r *BOMRepository) GetProduct(ctx context.Context, id entities.ProductID) (*entities.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.products[id]
	if !exists {
		return nil, fmt.Errorf("%w: unknown product %s", planning.ErrInvalidInput, id)
	}
	return &p, nil
}

// GetBOMLines returns the direct children of a product (BOMRepository interface)
func (r *BOMRepository) GetBOMLines(ctx context.Context, id entities.ProductID) ([]*entities.BOMLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.lines[id]
	lines := make([]*entities.BOMLine, 0, len(stored))
	for i := range stored {
		line := stored[i]
		lines = append(lines, &line)
	}
	return lines, nil
}
