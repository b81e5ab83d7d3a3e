package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mfgplan/engine/pkg/domain/planning"
)

// SupplierID identifies a supplier
type SupplierID string

// Supplier represents one source for a material
type Supplier struct {
	ID           SupplierID      `json:"id"`
	Name         string          `json:"name"`
	MaterialID   MaterialID      `json:"material_id"`
	LeadTimeDays int             `json:"lead_time_days"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

// NewSupplier creates a validated Supplier
func NewSupplier(
	id SupplierID,
	name string,
	materialID MaterialID,
	leadTimeDays int,
	unitPrice decimal.Decimal,
) (*Supplier, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: supplier id cannot be empty", planning.ErrInvalidInput)
	}
	if materialID == "" {
		return nil, fmt.Errorf("%w: supplier %s supplies no material", planning.ErrInvalidInput, id)
	}
	if leadTimeDays < 0 {
		return nil, fmt.Errorf("%w: supplier %s lead time must not be negative, got %d",
			planning.ErrInvalidInput, id, leadTimeDays)
	}
	if unitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: supplier %s unit price must not be negative, got %s",
			planning.ErrInvalidInput, id, unitPrice)
	}

	return &Supplier{
		ID:           id,
		Name:         name,
		MaterialID:   materialID,
		LeadTimeDays: leadTimeDays,
		UnitPrice:    unitPrice,
	}, nil
}

// SupplierRecommendation is the ranked answer to a shortage
type SupplierRecommendation struct {
	Supplier     *Supplier       `json:"supplier"`
	OrderQty     decimal.Decimal `json:"order_qty"`
	OrderDate    time.Time       `json:"order_date"`
	ExpectedDate time.Time       `json:"expected_date"`
}
