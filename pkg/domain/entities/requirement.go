package entities

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mfgplan/engine/pkg/domain/calendar"
)

// RequirementStatus classifies a material requirement after netting
type RequirementStatus string

const (
	// StatusSufficient means on-hand stock alone covers the gross requirement
	StatusSufficient RequirementStatus = "sufficient"
	// StatusShortage means supply falls short and no covering order exists
	StatusShortage RequirementStatus = "shortage"
	// StatusOrdered means a scheduled receipt covers the remaining need
	StatusOrdered RequirementStatus = "ordered"
)

// MaterialRequirement is one derived netting record per material and bucket.
// Requirements are recomputed on every engine run and fully replace the prior
// derived set; they are never hand-edited.
type MaterialRequirement struct {
	MaterialID MaterialID          `json:"material_id"`
	Bucket     calendar.TimeBucket `json:"bucket"`
	Gross      decimal.Decimal     `json:"gross_requirement"`
	OnHand     decimal.Decimal     `json:"on_hand"`
	OnOrder    decimal.Decimal     `json:"on_order"`
	Net        decimal.Decimal     `json:"net_requirement"`
	RequiredBy time.Time           `json:"required_by"`
	OrderBy    time.Time           `json:"order_by"`
	Status     RequirementStatus   `json:"status"`
	// Late means the order-by date already passed at computation time. A
	// reportable condition, not an error.
	Late bool `json:"late"`
	// Error annotates a requirement whose snapshot lookup failed. Netting
	// then assumes zero supply so the shortfall stays visible.
	Error string `json:"error,omitempty"`
}

// NetRequirement applies the netting invariant: net = max(0, gross - onHand - onOrder)
func NetRequirement(gross, onHand, onOrder decimal.Decimal) decimal.Decimal {
	net := gross.Sub(onHand).Sub(onOrder)
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}

// DeriveStatus classifies a netted requirement. A requirement is a shortage
// iff net > 0; it is ordered iff on-order receipts close a gap that on-hand
// stock alone leaves open.
func DeriveStatus(gross, onHand, onOrder, net decimal.Decimal) RequirementStatus {
	if net.IsPositive() {
		return StatusShortage
	}
	if gross.Sub(onHand).IsPositive() && onOrder.IsPositive() {
		return StatusOrdered
	}
	return StatusSufficient
}

// PurchaseOrderRequest is the side effect the engine emits for a shortage
// with a recommended supplier. An external procurement service persists it;
// the engine never writes a purchase order itself.
type PurchaseOrderRequest struct {
	ID           string          `json:"id"`
	MaterialID   MaterialID      `json:"material_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	SupplierID   SupplierID      `json:"supplier_id"`
	ExpectedDate time.Time       `json:"expected_date"`
}
