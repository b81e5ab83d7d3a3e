package entities

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mfgplan/engine/pkg/domain/planning"
)

// ProductID identifies a finished product or sub-assembly
type ProductID string

// MaterialID identifies a raw material. Leaf products in a BOM graph are
// addressed as materials by the netting side.
type MaterialID string

// WarehouseID identifies a stock location
type WarehouseID string

// Product represents a sellable or buildable item
type Product struct {
	ID   ProductID `json:"id"`
	Name string    `json:"name"`
	Unit string    `json:"unit"`
}

// NewProduct creates a validated Product
func NewProduct(id ProductID, name, unit string) (*Product, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: product id cannot be empty", planning.ErrInvalidInput)
	}
	if unit == "" {
		return nil, fmt.Errorf("%w: product %s has no unit of measure", planning.ErrInvalidInput, id)
	}
	return &Product{ID: id, Name: name, Unit: unit}, nil
}

// MaterialDemand is a single line of BOM explosion output
type MaterialDemand struct {
	MaterialID MaterialID      `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit"`
}
