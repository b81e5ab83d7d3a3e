package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mfgplan/engine/pkg/domain/entities"
	"github.com/mfgplan/engine/pkg/domain/planning"
	"github.com/mfgplan/engine/pkg/domain/repositories"
)

type stockKey struct {
	Material  entities.MaterialID
	Warehouse entities.WarehouseID
}

// InventoryProvider is an in-memory stock snapshot source. Stock levels are
// flat over time; asOf is accepted for interface fidelity.
type InventoryProvider struct {
	mu    sync.RWMutex
	stock map[stockKey]repositories.Stock
}

var _ repositories.InventoryProvider = (*InventoryProvider)(nil)

// NewInventoryProvider creates an empty in-memory inventory provider
func NewInventoryProvider() *InventoryProvider {
	return &InventoryProvider{stock: make(map[stockKey]repositories.Stock)}
}

// SetStock records the snapshot for a material and warehouse
func (p *InventoryProvider) SetStock(
	materialID entities.MaterialID,
	warehouseID entities.WarehouseID,
	stock repositories.Stock,
) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stock[stockKey{materialID, warehouseID}] = stock
}

// GetStock returns the snapshot; unknown materials report zero stock
// (InventoryProvider interface)
func (p *InventoryProvider) GetStock(
	ctx context.Context,
	materialID entities.MaterialID,
	warehouseID entities.WarehouseID,
	asOf time.Time,
) (repositories.Stock, error) {
	if err := ctx.Err(); err != nil {
		return repositories.Stock{}, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stock[stockKey{materialID, warehouseID}], nil
}

// SlowInventoryProvider wraps a provider with a fixed response delay so
// timeout degradation can be exercised in tests.
type SlowInventoryProvider struct {
	Inner repositories.InventoryProvider
	Delay time.Duration
}

var _ repositories.InventoryProvider = (*SlowInventoryProvider)(nil)

// GetStock waits for the configured delay before answering; an expiring ctx
// wins the race and maps to a collaborator timeout.
func (p *SlowInventoryProvider) GetStock(
	ctx context.Context,
	materialID entities.MaterialID,
	warehouseID entities.WarehouseID,
	asOf time.Time,
) (repositories.Stock, error) {
	select {
	case <-time.After(p.Delay):
		return p.Inner.GetStock(ctx, materialID, warehouseID, asOf)
	case <-ctx.Done():
		return repositories.Stock{}, planning.ErrCollaboratorTimeout
	}
}
