package netting

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mfgplan/engine/pkg/domain/calendar"
	"github.com/mfgplan/engine/pkg/domain/entities"
	"github.com/mfgplan/engine/pkg/domain/planning"
	"github.com/mfgplan/engine/pkg/domain/repositories"
	"github.com/mfgplan/engine/pkg/domain/services"
	"github.com/mfgplan/engine/pkg/infrastructure/repositories/memory"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	bom       *memory.BOMRepository
	inventory *memory.InventoryProvider
	catalog   *memory.SupplierCatalog
	cal       *calendar.Calendar
}

func newFixture() *fixture {
	f := &fixture{
		bom:       memory.NewBOMRepository(),
		inventory: memory.NewInventoryProvider(),
		catalog:   memory.NewSupplierCatalog(),
		cal:       calendar.NewCalendar(),
	}
	f.cal.CountCalendarDays = true

	f.bom.AddProduct(entities.Product{ID: "WIDGET", Name: "Widget", Unit: "ea"})
	f.bom.AddProduct(entities.Product{ID: "STEEL", Name: "Steel Rod", Unit: "ea"})
	f.bom.AddBOMLine(entities.BOMLine{
		ParentID: "WIDGET", ChildID: "STEEL",
		QtyPer: decimal.NewFromInt(1), Unit: "ea",
	})

	f.catalog.AddSupplier(entities.Supplier{
		ID: "SUP-1", MaterialID: "STEEL", LeadTimeDays: 7, UnitPrice: decimal.NewFromInt(10),
	})
	return f
}

func (f *fixture) engine() *Engine {
	resolver := services.NewResolver(f.bom, 0)
	return NewEngine(resolver, f.inventory, f.catalog, f.cal, nil)
}

func (f *fixture) engineWith(inv repositories.InventoryProvider) *Engine {
	resolver := services.NewResolver(f.bom, 0)
	return NewEngine(resolver, inv, f.catalog, f.cal, nil)
}

func planItem(id string, qty int64, start, end time.Time) *entities.PlanItem {
	return &entities.PlanItem{
		ID:        entities.PlanItemID(id),
		PlanID:    "PLAN-1",
		ProductID: "WIDGET",
		Quantity:  decimal.NewFromInt(qty),
		Priority:  entities.PriorityMedium,
		StartDate: start,
		EndDate:   end,
		Status:    entities.PlanItemPlanned,
	}
}

func baseConfig() Config {
	return Config{
		Policy:    DistributeLinear,
		Warehouse: "WH-1",
		AsOf:      date(2026, 3, 1),
	}
}

func findReq(reqs []entities.MaterialRequirement, id entities.MaterialID, day time.Time) *entities.MaterialRequirement {
	for i := range reqs {
		if reqs[i].MaterialID == id && reqs[i].Bucket.Start.Equal(day) {
			return &reqs[i]
		}
	}
	return nil
}

func TestComputeRequirements_NettingScenario(t *testing.T) {
	// gross 100, on-hand 50, on-order 20 -> net 30, shortage;
	// lead time 7, required day 20 -> order by day 13
	f := newFixture()
	f.inventory.SetStock("STEEL", "WH-1", repositories.Stock{
		OnHand:  decimal.NewFromInt(50),
		OnOrder: decimal.NewFromInt(20),
	})

	window, _ := calendar.NewTimeWindow(date(2026, 3, 20), date(2026, 3, 20))
	items := []*entities.PlanItem{planItem("PI-1", 100, date(2026, 3, 20), date(2026, 3, 20))}

	result, err := f.engine().ComputeRequirements(context.Background(), items, window, baseConfig())
	if err != nil {
		t.Fatalf("ComputeRequirements failed: %v", err)
	}

	req := findReq(result.Requirements, "STEEL", date(2026, 3, 20))
	if req == nil {
		t.Fatalf("no STEEL requirement in %+v", result.Requirements)
	}
	if !req.Gross.Equal(decimal.NewFromInt(100)) {
		t.Errorf("gross = %s, want 100", req.Gross)
	}
	if !req.Net.Equal(decimal.NewFromInt(30)) {
		t.Errorf("net = %s, want 30", req.Net)
	}
	if req.Status != entities.StatusShortage {
		t.Errorf("status = %s, want shortage", req.Status)
	}
	if !req.OrderBy.Equal(date(2026, 3, 13)) {
		t.Errorf("order_by = %v, want 2026-03-13", req.OrderBy)
	}
	if req.Late {
		t.Error("requirement should not be late with as-of 2026-03-01")
	}
}

func TestComputeRequirements_OnOrderCoverReportsOrdered(t *testing.T) {
	f := newFixture()
	f.inventory.SetStock("STEEL", "WH-1", repositories.Stock{
		OnHand:  decimal.NewFromInt(80),
		OnOrder: decimal.NewFromInt(20),
	})

	window, _ := calendar.NewTimeWindow(date(2026, 3, 20), date(2026, 3, 20))
	items := []*entities.PlanItem{planItem("PI-1", 100, date(2026, 3, 20), date(2026, 3, 20))}

	result, err := f.engine().ComputeRequirements(context.Background(), items, window, baseConfig())
	if err != nil {
		t.Fatalf("ComputeRequirements failed: %v", err)
	}

	req := findReq(result.Requirements, "STEEL", date(2026, 3, 20))
	if req == nil {
		t.Fatal("no STEEL requirement")
	}
	if !req.Net.IsZero() {
		t.Errorf("net = %s, want 0", req.Net)
	}
	if req.Status != entities.StatusOrdered {
		t.Errorf("status = %s, want ordered", req.Status)
	}
}

func TestComputeRequirements_LateFlag(t *testing.T) {
	f := newFixture()

	// Required 2026-03-05 with 7 days lead puts order-by before as-of
	window, _ := calendar.NewTimeWindow(date(2026, 3, 5), date(2026, 3, 5))
	items := []*entities.PlanItem{planItem("PI-1", 10, date(2026, 3, 5), date(2026, 3, 5))}

	result, err := f.engine().ComputeRequirements(context.Background(), items, window, baseConfig())
	if err != nil {
		t.Fatalf("ComputeRequirements failed: %v", err)
	}

	req := findReq(result.Requirements, "STEEL", date(2026, 3, 5))
	if req == nil {
		t.Fatal("no STEEL requirement")
	}
	if req.Status != entities.StatusShortage {
		t.Fatalf("status = %s, want shortage", req.Status)
	}
	if !req.Late {
		t.Error("expected late flag: order_by 2026-02-26 precedes as-of 2026-03-01")
	}
}

func TestComputeRequirements_LinearDistributionConservesTotal(t *testing.T) {
	f := newFixture()

	window, _ := calendar.NewTimeWindow(date(2026, 3, 2), date(2026, 3, 6))
	items := []*entities.PlanItem{planItem("PI-1", 100, date(2026, 3, 2), date(2026, 3, 6))}

	result, err := f.engine().ComputeRequirements(context.Background(), items, window, baseConfig())
	if err != nil {
		t.Fatalf("ComputeRequirements failed: %v", err)
	}

	total := decimal.Zero
	for _, req := range result.Requirements {
		if req.MaterialID == "STEEL" {
			total = total.Add(req.Gross)
		}
	}
	if !total.Equal(decimal.NewFromInt(100)) {
		t.Errorf("distributed gross sums to %s, want 100", total)
	}

	first := findReq(result.Requirements, "STEEL", date(2026, 3, 2))
	if first == nil || !first.Gross.Equal(decimal.NewFromInt(20)) {
		t.Errorf("expected 20 per bucket under linear distribution, got %+v", first)
	}
}

func TestComputeRequirements_FrontLoadedPolicy(t *testing.T) {
	f := newFixture()

	window, _ := calendar.NewTimeWindow(date(2026, 3, 2), date(2026, 3, 6))
	items := []*entities.PlanItem{planItem("PI-1", 100, date(2026, 3, 2), date(2026, 3, 6))}

	cfg := baseConfig()
	cfg.Policy = DistributeFrontLoaded

	result, err := f.engine().ComputeRequirements(context.Background(), items, window, cfg)
	if err != nil {
		t.Fatalf("ComputeRequirements failed: %v", err)
	}

	first := findReq(result.Requirements, "STEEL", date(2026, 3, 2))
	if first == nil || !first.Gross.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected full demand in first bucket, got %+v", first)
	}
	if len(result.Requirements) != 1 {
		t.Errorf("expected a single requirement row, got %d", len(result.Requirements))
	}
}

func TestComputeRequirements_Idempotent(t *testing.T) {
	f := newFixture()
	f.inventory.SetStock("STEEL", "WH-1", repositories.Stock{
		OnHand: decimal.NewFromInt(25),
	})

	window, _ := calendar.NewTimeWindow(date(2026, 3, 2), date(2026, 3, 10))
	items := []*entities.PlanItem{
		planItem("PI-2", 40, date(2026, 3, 4), date(2026, 3, 8)),
		planItem("PI-1", 60, date(2026, 3, 2), date(2026, 3, 6)),
	}

	engine := f.engine()
	first, err := engine.ComputeRequirements(context.Background(), items, window, baseConfig())
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := engine.ComputeRequirements(context.Background(), items, window, baseConfig())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("two runs with identical inputs produced different output")
	}
}

func TestComputeRequirements_CyclicBOMDegradesToItemError(t *testing.T) {
	f := newFixture()
	f.bom.AddProduct(entities.Product{ID: "LOOP", Unit: "ea"})
	f.bom.AddBOMLine(entities.BOMLine{ParentID: "LOOP", ChildID: "WIDGET", QtyPer: decimal.NewFromInt(1), Unit: "ea"})
	f.bom.AddBOMLine(entities.BOMLine{ParentID: "WIDGET", ChildID: "LOOP", QtyPer: decimal.NewFromInt(1), Unit: "ea"})

	broken := planItem("PI-BAD", 5, date(2026, 3, 2), date(2026, 3, 2))
	broken.ProductID = "LOOP"
	healthy := planItem("PI-GOOD", 5, date(2026, 3, 2), date(2026, 3, 2))
	healthy.ProductID = "STEEL"

	window, _ := calendar.NewTimeWindow(date(2026, 3, 2), date(2026, 3, 2))
	result, err := f.engine().ComputeRequirements(
		context.Background(),
		[]*entities.PlanItem{broken, healthy},
		window,
		baseConfig(),
	)
	if err != nil {
		t.Fatalf("ComputeRequirements failed: %v", err)
	}

	if len(result.ItemErrors) != 1 || result.ItemErrors[0].PlanItemID != "PI-BAD" {
		t.Fatalf("expected one item error for PI-BAD, got %+v", result.ItemErrors)
	}
	if findReq(result.Requirements, "STEEL", date(2026, 3, 2)) == nil {
		t.Error("healthy item should still produce requirements")
	}
}

func TestComputeRequirements_CollaboratorTimeoutAnnotates(t *testing.T) {
	f := newFixture()
	slow := &memory.SlowInventoryProvider{Inner: f.inventory, Delay: 100 * time.Millisecond}

	window, _ := calendar.NewTimeWindow(date(2026, 3, 20), date(2026, 3, 20))
	items := []*entities.PlanItem{planItem("PI-1", 100, date(2026, 3, 20), date(2026, 3, 20))}

	cfg := baseConfig()
	cfg.Timeout = 5 * time.Millisecond

	result, err := f.engineWith(slow).ComputeRequirements(context.Background(), items, window, cfg)
	if err != nil {
		t.Fatalf("ComputeRequirements failed: %v", err)
	}

	req := findReq(result.Requirements, "STEEL", date(2026, 3, 20))
	if req == nil {
		t.Fatal("timed-out material should still be reported")
	}
	if req.Error == "" {
		t.Error("expected a collaborator timeout annotation")
	}
	if !req.Net.Equal(req.Gross) {
		t.Errorf("timed-out requirement should assume zero supply, net = %s", req.Net)
	}
}

type timingOutCatalog struct{}

func (timingOutCatalog) GetSuppliers(ctx context.Context, id entities.MaterialID) ([]*entities.Supplier, error) {
	return nil, planning.ErrCollaboratorTimeout
}

func TestComputeRequirements_SupplierCatalogFailureAnnotates(t *testing.T) {
	f := newFixture()
	resolver := services.NewResolver(f.bom, 0)
	engine := NewEngine(resolver, f.inventory, timingOutCatalog{}, f.cal, nil)

	window, _ := calendar.NewTimeWindow(date(2026, 3, 20), date(2026, 3, 20))
	items := []*entities.PlanItem{planItem("PI-1", 100, date(2026, 3, 20), date(2026, 3, 20))}

	result, err := engine.ComputeRequirements(context.Background(), items, window, baseConfig())
	if err != nil {
		t.Fatalf("ComputeRequirements failed: %v", err)
	}

	req := findReq(result.Requirements, "STEEL", date(2026, 3, 20))
	if req == nil {
		t.Fatal("material with a failing catalog should still be reported")
	}
	if req.Error == "" {
		t.Error("expected a collaborator timeout annotation on the requirement")
	}
	// With the lead time unknown, the order date falls back to the need date
	// but the annotation makes the loss visible
	if !req.OrderBy.Equal(req.RequiredBy) {
		t.Errorf("order_by = %v, want need date %v", req.OrderBy, req.RequiredBy)
	}
}

func TestComputeRequirements_CancelledContextMarksPartial(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	window, _ := calendar.NewTimeWindow(date(2026, 3, 2), date(2026, 3, 2))
	items := []*entities.PlanItem{planItem("PI-1", 10, date(2026, 3, 2), date(2026, 3, 2))}

	result, err := f.engine().ComputeRequirements(ctx, items, window, baseConfig())
	if err != nil {
		t.Fatalf("ComputeRequirements failed: %v", err)
	}
	if !result.Partial {
		t.Error("expected partial result under cancelled context")
	}
}

func TestComputeRequirements_RequiresAsOf(t *testing.T) {
	f := newFixture()
	window, _ := calendar.NewTimeWindow(date(2026, 3, 2), date(2026, 3, 2))

	_, err := f.engine().ComputeRequirements(context.Background(), nil, window, Config{})
	if err == nil {
		t.Fatal("expected error for missing as-of date")
	}
}
