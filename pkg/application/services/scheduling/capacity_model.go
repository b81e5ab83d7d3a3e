package scheduling

import (
	"github.com/shopspring/decimal"

	"github.com/mfgplan/engine/pkg/domain/calendar"
	"github.com/mfgplan/engine/pkg/domain/entities"
)

type bucketKey struct {
	resource entities.ResourceID
	start    int64
}

// CapacityModel tracks utilized versus available capacity per resource and
// bucket for one scheduling run. Reservations accumulate, so later items see
// availability already reduced by earlier-scheduled higher-priority items.
type CapacityModel struct {
	resources map[entities.ResourceID]*entities.Resource
	buckets   []calendar.TimeBucket
	ledger    map[bucketKey]decimal.Decimal
}

// NewCapacityModel creates a model over the window's buckets with an empty
// allocation ledger.
func NewCapacityModel(
	resources []*entities.Resource,
	window calendar.TimeWindow,
	granularity calendar.Granularity,
) *CapacityModel {
	m := &CapacityModel{
		resources: make(map[entities.ResourceID]*entities.Resource, len(resources)),
		buckets:   window.Buckets(granularity),
		ledger:    make(map[bucketKey]decimal.Decimal),
	}
	for _, r := range resources {
		m.resources[r.ID] = r
	}
	return m
}

// Resource returns the resource definition, or nil when unknown
func (m *CapacityModel) Resource(id entities.ResourceID) *entities.Resource {
	return m.resources[id]
}

// Buckets returns the model's planning buckets
func (m *CapacityModel) Buckets() []calendar.TimeBucket {
	return m.buckets
}

// AllocatedCapacity returns the ledger total for the resource and bucket
func (m *CapacityModel) AllocatedCapacity(id entities.ResourceID, bucket calendar.TimeBucket) decimal.Decimal {
	return m.ledger[bucketKey{id, bucket.Start.Unix()}]
}

// AvailableCapacity returns nominal capacity minus ledger reservations,
// floored at zero. A resource in maintenance or inactive status yields zero
// regardless of its nominal capacity.
func (m *CapacityModel) AvailableCapacity(id entities.ResourceID, bucket calendar.TimeBucket) decimal.Decimal {
	r, exists := m.resources[id]
	if !exists || !r.Available() {
		return decimal.Zero
	}

	available := r.CapacityPerPeriod.Sub(m.AllocatedCapacity(id, bucket))
	if available.IsNegative() {
		return decimal.Zero
	}
	return available
}

// UtilizationPercentage reports consumed capacity for the resource and
// bucket. A zero-capacity resource counts as fully consumed rather than a
// division error.
func (m *CapacityModel) UtilizationPercentage(id entities.ResourceID, bucket calendar.TimeBucket) float64 {
	r, exists := m.resources[id]
	if !exists {
		return 0
	}
	if r.CapacityPerPeriod.IsZero() {
		return 100
	}

	used := r.CapacityPerPeriod.Sub(m.AvailableCapacity(id, bucket))
	pct, _ := used.Div(r.CapacityPerPeriod).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}

// Reserve records a capacity reservation in the ledger. Callers must not
// reserve more than AvailableCapacity reports.
func (m *CapacityModel) Reserve(id entities.ResourceID, bucket calendar.TimeBucket, qty decimal.Decimal) {
	key := bucketKey{id, bucket.Start.Unix()}
	m.ledger[key] = m.ledger[key].Add(qty)
}
