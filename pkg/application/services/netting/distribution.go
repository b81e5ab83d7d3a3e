package netting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mfgplan/engine/pkg/domain/planning"
)

// DistributionPolicy selects how a plan item's exploded demand is spread
// across the time buckets of its date range.
type DistributionPolicy string

const (
	// DistributeLinear spreads demand evenly across the item's buckets
	DistributeLinear DistributionPolicy = "linear"
	// DistributeFrontLoaded places the full demand in the first bucket
	DistributeFrontLoaded DistributionPolicy = "front_loaded"
	// DistributeOnStart is the milestone-style alias of front-loaded
	DistributeOnStart DistributionPolicy = "on_start"
)

// Valid reports whether the policy is a known one
func (p DistributionPolicy) Valid() bool {
	switch p {
	case DistributeLinear, DistributeFrontLoaded, DistributeOnStart:
		return true
	}
	return false
}

// shareScale bounds the precision of linear shares so bucket sums reproduce
// the total exactly; the rounding remainder lands in the final bucket.
const shareScale = 6

// distribute splits total across n buckets per the policy. The returned
// shares always sum to total.
func distribute(total decimal.Decimal, n int, policy DistributionPolicy) ([]decimal.Decimal, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: cannot distribute over %d buckets", planning.ErrInvalidInput, n)
	}

	shares := make([]decimal.Decimal, n)
	switch policy {
	case DistributeFrontLoaded, DistributeOnStart:
		shares[0] = total
		for i := 1; i < n; i++ {
			shares[i] = decimal.Zero
		}
	case DistributeLinear, "":
		share := total.Div(decimal.NewFromInt(int64(n))).Truncate(shareScale)
		allocated := decimal.Zero
		for i := 0; i < n-1; i++ {
			shares[i] = share
			allocated = allocated.Add(share)
		}
		shares[n-1] = total.Sub(allocated)
	default:
		return nil, fmt.Errorf("%w: unknown distribution policy %q", planning.ErrInvalidInput, policy)
	}
	return shares, nil
}
