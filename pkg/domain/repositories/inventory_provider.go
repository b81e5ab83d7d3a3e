package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mfgplan/engine/pkg/domain/entities"
)

// Stock is a point-in-time inventory snapshot for one material and warehouse
type Stock struct {
	OnHand  decimal.Decimal `json:"on_hand"`
	OnOrder decimal.Decimal `json:"on_order"`
}

// InventoryProvider is the external collaborator that answers stock queries.
// Calls block until the snapshot is available or ctx expires.
type InventoryProvider interface {
	GetStock(
		ctx context.Context,
		materialID entities.MaterialID,
		warehouseID entities.WarehouseID,
		asOf time.Time,
	) (Stock, error)
}
