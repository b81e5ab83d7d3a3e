package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mfgplan/engine/pkg/domain/entities"
	"github.com/mfgplan/engine/pkg/domain/planning"
	"github.com/mfgplan/engine/pkg/infrastructure/repositories/memory"
)

func buildPumpBOM() *memory.BOMRepository {
	repo := memory.NewBOMRepository()

	repo.AddProduct(entities.Product{ID: "PUMP", Name: "Coolant Pump", Unit: "ea"})
	repo.AddProduct(entities.Product{ID: "HOUSING", Name: "Housing Assembly", Unit: "ea"})
	repo.AddProduct(entities.Product{ID: "IMPELLER", Name: "Impeller", Unit: "ea"})
	repo.AddProduct(entities.Product{ID: "CASTING", Name: "Aluminum Casting", Unit: "kg"})
	repo.AddProduct(entities.Product{ID: "BOLT", Name: "M6 Bolt", Unit: "ea"})

	repo.AddBOMLine(entities.BOMLine{ParentID: "PUMP", ChildID: "HOUSING", QtyPer: decimal.NewFromInt(1), Unit: "ea"})
	repo.AddBOMLine(entities.BOMLine{ParentID: "PUMP", ChildID: "IMPELLER", QtyPer: decimal.NewFromInt(1), Unit: "ea"})
	repo.AddBOMLine(entities.BOMLine{ParentID: "PUMP", ChildID: "BOLT", QtyPer: decimal.NewFromInt(4), Unit: "ea"})
	repo.AddBOMLine(entities.BOMLine{ParentID: "HOUSING", ChildID: "CASTING", QtyPer: decimal.NewFromInt(1200), Unit: "g"})
	repo.AddBOMLine(entities.BOMLine{ParentID: "HOUSING", ChildID: "BOLT", QtyPer: decimal.NewFromInt(2), Unit: "ea"})
	repo.AddBOMLine(entities.BOMLine{ParentID: "IMPELLER", ChildID: "CASTING", QtyPer: decimal.NewFromInt(300), Unit: "g"})

	return repo
}

func demandFor(demands []entities.MaterialDemand, id entities.MaterialID) *entities.MaterialDemand {
	for i := range demands {
		if demands[i].MaterialID == id {
			return &demands[i]
		}
	}
	return nil
}

func TestExplode_MultiLevelAccumulation(t *testing.T) {
	resolver := NewResolver(buildPumpBOM(), 0)

	demands, err := resolver.Explode(context.Background(), "PUMP", decimal.NewFromInt(10))
	if err != nil {
		t.Fatalf("Explode failed: %v", err)
	}

	// BOLT: 4 direct + 2 via HOUSING = 6 per pump
	bolt := demandFor(demands, "BOLT")
	if bolt == nil {
		t.Fatal("expected BOLT demand")
	}
	if !bolt.Quantity.Equal(decimal.NewFromInt(60)) {
		t.Errorf("BOLT quantity = %s, want 60", bolt.Quantity)
	}

	// CASTING: 1200g via HOUSING + 300g via IMPELLER = 1.5kg per pump
	casting := demandFor(demands, "CASTING")
	if casting == nil {
		t.Fatal("expected CASTING demand")
	}
	if !casting.Quantity.Equal(decimal.NewFromInt(15)) {
		t.Errorf("CASTING quantity = %s, want 15 (kg)", casting.Quantity)
	}
	if casting.Unit != "kg" {
		t.Errorf("CASTING unit = %s, want kg", casting.Unit)
	}
}

func TestExplode_OutputSortedByMaterial(t *testing.T) {
	resolver := NewResolver(buildPumpBOM(), 0)

	demands, err := resolver.Explode(context.Background(), "PUMP", decimal.NewFromInt(1))
	if err != nil {
		t.Fatalf("Explode failed: %v", err)
	}
	for i := 1; i < len(demands); i++ {
		if demands[i-1].MaterialID >= demands[i].MaterialID {
			t.Errorf("output not sorted at %d: %s >= %s",
				i, demands[i-1].MaterialID, demands[i].MaterialID)
		}
	}
}

func TestExplode_LeafProductIsItsOwnMaterial(t *testing.T) {
	resolver := NewResolver(buildPumpBOM(), 0)

	demands, err := resolver.Explode(context.Background(), "BOLT", decimal.NewFromInt(5))
	if err != nil {
		t.Fatalf("Explode failed: %v", err)
	}
	if len(demands) != 1 || demands[0].MaterialID != "BOLT" {
		t.Fatalf("expected single BOLT demand, got %+v", demands)
	}
	if !demands[0].Quantity.Equal(decimal.NewFromInt(5)) {
		t.Errorf("BOLT quantity = %s, want 5", demands[0].Quantity)
	}
}

func TestExplode_InvalidInput(t *testing.T) {
	resolver := NewResolver(buildPumpBOM(), 0)

	tests := []struct {
		name      string
		productID entities.ProductID
		quantity  decimal.Decimal
	}{
		{"zero_quantity", "PUMP", decimal.Zero},
		{"negative_quantity", "PUMP", decimal.NewFromInt(-1)},
		{"empty_product", "", decimal.NewFromInt(1)},
		{"unknown_product", "TURBINE", decimal.NewFromInt(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolver.Explode(context.Background(), tt.productID, tt.quantity)
			if !errors.Is(err, planning.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestExplode_DetectsCycle(t *testing.T) {
	repo := buildPumpBOM()
	// Close a loop: CASTING is built from HOUSING
	repo.AddBOMLine(entities.BOMLine{ParentID: "CASTING", ChildID: "HOUSING", QtyPer: decimal.NewFromInt(1), Unit: "ea"})

	resolver := NewResolver(repo, 0)
	_, err := resolver.Explode(context.Background(), "PUMP", decimal.NewFromInt(1))

	var cycleErr *planning.CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	if len(cycleErr.Path) < 3 {
		t.Errorf("cycle path too short: %v", cycleErr.Path)
	}
}

func TestExplode_DepthLimit(t *testing.T) {
	repo := memory.NewBOMRepository()
	repo.AddProduct(entities.Product{ID: "L0", Unit: "ea"})
	// Build a 10-deep chain L0 -> L1 -> ... -> L9
	prev := entities.ProductID("L0")
	for i := 1; i < 10; i++ {
		id := entities.ProductID("L" + string(rune('0'+i)))
		repo.AddProduct(entities.Product{ID: id, Unit: "ea"})
		repo.AddBOMLine(entities.BOMLine{ParentID: prev, ChildID: id, QtyPer: decimal.NewFromInt(2), Unit: "ea"})
		prev = id
	}

	resolver := NewResolver(repo, 5)
	_, err := resolver.Explode(context.Background(), "L0", decimal.NewFromInt(1))
	if !errors.Is(err, planning.ErrTooDeep) {
		t.Fatalf("expected ErrTooDeep, got %v", err)
	}

	deep := NewResolver(repo, 0)
	demands, err := deep.Explode(context.Background(), "L0", decimal.NewFromInt(1))
	if err != nil {
		t.Fatalf("Explode with default depth failed: %v", err)
	}
	// Quantities multiply down the chain: 2^9
	leaf := demandFor(demands, "L9")
	if leaf == nil || !leaf.Quantity.Equal(decimal.NewFromInt(512)) {
		t.Errorf("expected leaf demand 512, got %+v", leaf)
	}
}
