package entities

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mfgplan/engine/pkg/domain/planning"
)

// BOMLine represents a single line in a Bill of Materials: building one unit
// of the parent consumes QtyPer of the child, expressed in Unit.
type BOMLine struct {
	ParentID ProductID       `json:"parent_id"`
	ChildID  ProductID       `json:"child_id"`
	QtyPer   decimal.Decimal `json:"qty_per"`
	Unit     string          `json:"unit"`
}

// NewBOMLine creates a validated BOMLine
func NewBOMLine(parentID, childID ProductID, qtyPer decimal.Decimal, unit string) (*BOMLine, error) {
	if parentID == "" {
		return nil, fmt.Errorf("%w: parent product id cannot be empty", planning.ErrInvalidInput)
	}
	if childID == "" {
		return nil, fmt.Errorf("%w: child product id cannot be empty", planning.ErrInvalidInput)
	}
	if parentID == childID {
		return nil, fmt.Errorf("%w: bom line references itself: %s", planning.ErrInvalidInput, parentID)
	}
	if !qtyPer.IsPositive() {
		return nil, fmt.Errorf("%w: quantity per unit must be positive, got %s",
			planning.ErrInvalidInput, qtyPer)
	}

	return &BOMLine{
		ParentID: parentID,
		ChildID:  childID,
		QtyPer:   qtyPer,
		Unit:     unit,
	}, nil
}
