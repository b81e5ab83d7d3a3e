package entities

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mfgplan/engine/pkg/domain/planning"
)

// baseUnits maps a unit of measure to its base unit and the factor that
// converts one of it into the base.
var baseUnits = map[string]struct {
	base   string
	factor decimal.Decimal
}{
	"ea": {"ea", decimal.NewFromInt(1)},
	"pc": {"ea", decimal.NewFromInt(1)},
	"kg": {"kg", decimal.NewFromInt(1)},
	"g":  {"kg", decimal.NewFromFloat(0.001)},
	"l":  {"l", decimal.NewFromInt(1)},
	"ml": {"l", decimal.NewFromFloat(0.001)},
	"m":  {"m", decimal.NewFromInt(1)},
	"cm": {"m", decimal.NewFromFloat(0.01)},
	"mm": {"m", decimal.NewFromFloat(0.001)},
}

// ConvertQty converts a quantity between units of measure. Units convert only
// within the same dimension (mass, volume, length, count).
func ConvertQty(qty decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if from == to {
		return qty, nil
	}

	f, okFrom := baseUnits[from]
	t, okTo := baseUnits[to]
	if !okFrom || !okTo || f.base != t.base {
		return decimal.Zero, fmt.Errorf("%w: cannot convert %s to %s",
			planning.ErrInvalidInput, from, to)
	}

	return qty.Mul(f.factor).Div(t.factor), nil
}
