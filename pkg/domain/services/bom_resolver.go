package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mfgplan/engine/pkg/domain/entities"
	"github.com/mfgplan/engine/pkg/domain/planning"
	"github.com/mfgplan/engine/pkg/domain/repositories"
)

// DefaultMaxDepth bounds BOM recursion for pathological inputs
const DefaultMaxDepth = 32

// Resolver explodes a product's Bill of Materials into flat raw-material
// demand.
type Resolver struct {
	bomRepo  repositories.BOMRepository
	maxDepth int
}

// NewResolver creates a Resolver. A non-positive maxDepth selects
// DefaultMaxDepth.
func NewResolver(bomRepo repositories.BOMRepository, maxDepth int) *Resolver {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Resolver{bomRepo: bomRepo, maxDepth: maxDepth}
}

// Explode resolves the product's composition recursively and returns leaf
// material demand, summed per material and sorted by material id. Quantities
// are converted to the child product's unit of measure level by level.
func (r *Resolver) Explode(
	ctx context.Context,
	productID entities.ProductID,
	quantity decimal.Decimal,
) ([]entities.MaterialDemand, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: product id cannot be empty", planning.ErrInvalidInput)
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("%w: explosion quantity must be positive, got %s",
			planning.ErrInvalidInput, quantity)
	}
	if _, err := r.bomRepo.GetProduct(ctx, productID); err != nil {
		return nil, fmt.Errorf("resolving product %s: %w", productID, err)
	}

	acc := make(map[entities.MaterialID]*entities.MaterialDemand)
	visiting := make(map[entities.ProductID]bool)
	if err := r.explode(ctx, productID, quantity, visiting, nil, 0, acc); err != nil {
		return nil, err
	}

	demands := make([]entities.MaterialDemand, 0, len(acc))
	for _, demand := range acc {
		demands = append(demands, *demand)
	}
	sort.Slice(demands, func(i, j int) bool {
		return demands[i].MaterialID < demands[j].MaterialID
	})
	return demands, nil
}

func (r *Resolver) explode(
	ctx context.Context,
	productID entities.ProductID,
	quantity decimal.Decimal,
	visiting map[entities.ProductID]bool,
	path []entities.ProductID,
	depth int,
	acc map[entities.MaterialID]*entities.MaterialDemand,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth > r.maxDepth {
		return fmt.Errorf("%w: product %s at depth %d", planning.ErrTooDeep, productID, depth)
	}
	if visiting[productID] {
		cycle := make([]string, 0, len(path)+1)
		for _, pn := range path {
			cycle = append(cycle, string(pn))
		}
		cycle = append(cycle, string(productID))
		return &planning.CycleError{Path: cycle}
	}

	product, err := r.bomRepo.GetProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("resolving product %s: %w", productID, err)
	}
	lines, err := r.bomRepo.GetBOMLines(ctx, productID)
	if err != nil {
		return fmt.Errorf("loading bom lines for %s: %w", productID, err)
	}

	// No children: the product itself is a leaf material
	if len(lines) == 0 {
		materialID := entities.MaterialID(productID)
		if existing, ok := acc[materialID]; ok {
			existing.Quantity = existing.Quantity.Add(quantity)
		} else {
			acc[materialID] = &entities.MaterialDemand{
				MaterialID: materialID,
				Quantity:   quantity,
				Unit:       product.Unit,
			}
		}
		return nil
	}

	visiting[productID] = true
	path = append(path, productID)

	for _, line := range lines {
		child, err := r.bomRepo.GetProduct(ctx, line.ChildID)
		if err != nil {
			return fmt.Errorf("resolving child %s of %s: %w", line.ChildID, productID, err)
		}

		childQty, err := entities.ConvertQty(line.QtyPer.Mul(quantity), line.Unit, child.Unit)
		if err != nil {
			return fmt.Errorf("bom line %s -> %s: %w", productID, line.ChildID, err)
		}

		if err := r.explode(ctx, line.ChildID, childQty, visiting, path, depth+1, acc); err != nil {
			return err
		}
	}

	delete(visiting, productID)
	return nil
}
