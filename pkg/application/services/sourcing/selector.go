// Package sourcing ranks suppliers for shortage materials and builds the
// purchase order requests an external procurement service persists.
package sourcing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mfgplan/engine/pkg/domain/calendar"
	"github.com/mfgplan/engine/pkg/domain/entities"
	"github.com/mfgplan/engine/pkg/domain/planning"
	"github.com/mfgplan/engine/pkg/domain/repositories"
)

// Selector recommends a supplier per shortage
type Selector struct {
	catalog repositories.SupplierCatalog
	cal     *calendar.Calendar
	logger  *zap.Logger
}

// NewSelector creates a Selector
func NewSelector(
	catalog repositories.SupplierCatalog,
	cal *calendar.Calendar,
	logger *zap.Logger,
) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{catalog: catalog, cal: cal, logger: logger}
}

// Rank orders suppliers by lead time ascending, then unit price ascending,
// then supplier id ascending. The input slice is not modified.
func Rank(suppliers []*entities.Supplier) []*entities.Supplier {
	ranked := make([]*entities.Supplier, len(suppliers))
	copy(ranked, suppliers)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].LeadTimeDays != ranked[j].LeadTimeDays {
			return ranked[i].LeadTimeDays < ranked[j].LeadTimeDays
		}
		if !ranked[i].UnitPrice.Equal(ranked[j].UnitPrice) {
			return ranked[i].UnitPrice.LessThan(ranked[j].UnitPrice)
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}

// SelectSupplier returns the top-ranked supplier for the material with the
// implied order and receipt dates. A material with no configured supplier
// fails with ErrNoSupplier; callers treat that as an unresolvable shortage.
func (s *Selector) SelectSupplier(
	ctx context.Context,
	materialID entities.MaterialID,
	shortageQty decimal.Decimal,
	asOf time.Time,
) (*entities.SupplierRecommendation, error) {
	if materialID == "" {
		return nil, fmt.Errorf("%w: material id cannot be empty", planning.ErrInvalidInput)
	}
	if !shortageQty.IsPositive() {
		return nil, fmt.Errorf("%w: shortage quantity must be positive, got %s",
			planning.ErrInvalidInput, shortageQty)
	}

	suppliers, err := s.catalog.GetSuppliers(ctx, materialID)
	if err != nil {
		return nil, fmt.Errorf("listing suppliers for %s: %w", materialID, err)
	}
	if len(suppliers) == 0 {
		return nil, fmt.Errorf("%w: material %s", planning.ErrNoSupplier, materialID)
	}

	best := Rank(suppliers)[0]
	orderDate := calendar.DateOf(asOf)
	return &entities.SupplierRecommendation{
		Supplier:     best,
		OrderQty:     shortageQty,
		OrderDate:    orderDate,
		ExpectedDate: s.cal.AddWorkingDays(orderDate, best.LeadTimeDays),
	}, nil
}

// BuildPurchaseRequests maps every shortage requirement to a purchase order
// request via the top-ranked supplier. Shortages with no supplier come back
// in the unresolved list instead of failing the batch.
func (s *Selector) BuildPurchaseRequests(
	ctx context.Context,
	requirements []entities.MaterialRequirement,
	asOf time.Time,
) ([]entities.PurchaseOrderRequest, []entities.MaterialRequirement, error) {
	var requests []entities.PurchaseOrderRequest
	var unresolved []entities.MaterialRequirement

	for _, req := range requirements {
		if req.Status != entities.StatusShortage || !req.Net.IsPositive() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return requests, unresolved, err
		}

		rec, err := s.SelectSupplier(ctx, req.MaterialID, req.Net, asOf)
		if err != nil {
			if errors.Is(err, planning.ErrNoSupplier) {
				s.logger.Warn("shortage has no configured supplier",
					zap.String("material_id", string(req.MaterialID)))
				unresolved = append(unresolved, req)
				continue
			}
			return requests, unresolved, err
		}

		requests = append(requests, entities.PurchaseOrderRequest{
			ID:           uuid.NewString(),
			MaterialID:   req.MaterialID,
			Quantity:     rec.OrderQty,
			SupplierID:   rec.Supplier.ID,
			ExpectedDate: rec.ExpectedDate,
		})
	}

	return requests, unresolved, nil
}
