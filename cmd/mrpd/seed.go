package main

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mfgplan/engine/pkg/domain/entities"
	"github.com/mfgplan/engine/pkg/domain/repositories"
	"github.com/mfgplan/engine/pkg/infrastructure/repositories/memory"
)

type stores struct {
	boms      *memory.BOMRepository
	inventory *memory.InventoryProvider
	plans     *memory.PlanSource
	suppliers *memory.SupplierCatalog
	resources *memory.ResourceDirectory
}

// seedStores builds the in-memory world the server plans against: a small
// pump factory with a two-level BOM, two machines and a paint line.
func seedStores() *stores {
	s := &stores{
		boms:      memory.NewBOMRepository(),
		inventory: memory.NewInventoryProvider(),
		plans:     memory.NewPlanSource(),
		suppliers: memory.NewSupplierCatalog(),
		resources: memory.NewResourceDirectory(),
	}

	qty := func(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
	day := func(d int) time.Time { return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC) }

	s.boms.AddProduct(entities.Product{ID: "PUMP-100", Name: "Centrifugal pump", Unit: "ea"})
	s.boms.AddProduct(entities.Product{ID: "HOUSING", Name: "Pump housing", Unit: "ea"})
	s.boms.AddProduct(entities.Product{ID: "IMPELLER", Name: "Impeller", Unit: "ea"})
	s.boms.AddProduct(entities.Product{ID: "CASTING", Name: "Aluminum casting", Unit: "kg"})
	s.boms.AddProduct(entities.Product{ID: "BOLT-M8", Name: "M8 bolt", Unit: "ea"})

	s.boms.AddBOMLine(entities.BOMLine{ParentID: "PUMP-100", ChildID: "HOUSING", QtyPer: qty(1), Unit: "ea"})
	s.boms.AddBOMLine(entities.BOMLine{ParentID: "PUMP-100", ChildID: "IMPELLER", QtyPer: qty(1), Unit: "ea"})
	s.boms.AddBOMLine(entities.BOMLine{ParentID: "PUMP-100", ChildID: "BOLT-M8", QtyPer: qty(6), Unit: "ea"})
	s.boms.AddBOMLine(entities.BOMLine{ParentID: "HOUSING", ChildID: "CASTING", QtyPer: qty(2), Unit: "kg"})
	s.boms.AddBOMLine(entities.BOMLine{ParentID: "IMPELLER", ChildID: "CASTING", QtyPer: decimal.NewFromFloat(0.5), Unit: "kg"})

	s.inventory.SetStock("CASTING", "MAIN", repositories.Stock{OnHand: qty(80), OnOrder: qty(50)})
	s.inventory.SetStock("BOLT-M8", "MAIN", repositories.Stock{OnHand: qty(500)})

	s.suppliers.AddSupplier(entities.Supplier{
		ID: "SUP-ALU", Name: "Alumet Foundry", MaterialID: "CASTING",
		LeadTimeDays: 10, UnitPrice: decimal.NewFromFloat(3.2),
	})
	s.suppliers.AddSupplier(entities.Supplier{
		ID: "SUP-ALU2", Name: "Castwell", MaterialID: "CASTING",
		LeadTimeDays: 5, UnitPrice: decimal.NewFromFloat(4.1),
	})
	s.suppliers.AddSupplier(entities.Supplier{
		ID: "SUP-FAST", Name: "Fastener Direct", MaterialID: "BOLT-M8",
		LeadTimeDays: 2, UnitPrice: decimal.NewFromFloat(0.08),
	})

	s.resources.AddResource(entities.Resource{
		ID: "CNC-1", Name: "CNC mill 1", Type: entities.ResourceMachine,
		CapacityPerPeriod: qty(120), CapacityUnit: "units/day",
		Status: entities.ResourceActive, EfficiencyRate: 92,
	})
	s.resources.AddResource(entities.Resource{
		ID: "CNC-2", Name: "CNC mill 2", Type: entities.ResourceMachine,
		CapacityPerPeriod: qty(120), CapacityUnit: "units/day",
		Status: entities.ResourceMaintenance, EfficiencyRate: 88,
	})
	s.resources.AddResource(entities.Resource{
		ID: "PAINT-1", Name: "Paint line", Type: entities.ResourceEquipment,
		CapacityPerPeriod: qty(200), CapacityUnit: "units/day",
		Status: entities.ResourceActive, EfficiencyRate: 97,
	})

	s.plans.AddPlanItem(entities.PlanItem{
		ID: "ITEM-1001", PlanID: "PLAN-Q3", ProductID: "PUMP-100",
		Quantity: qty(60), Priority: entities.PriorityHigh,
		StartDate: day(7), EndDate: day(11),
		Status: entities.PlanItemPlanned,
		ResourceDemands: []entities.ResourceDemand{
			{ResourceID: "CNC-1", Rate: qty(90)},
			{ResourceID: "PAINT-1", Rate: qty(60)},
		},
	})
	s.plans.AddPlanItem(entities.PlanItem{
		ID: "ITEM-1002", PlanID: "PLAN-Q3", ProductID: "PUMP-100",
		Quantity: qty(40), Priority: entities.PriorityMedium,
		StartDate: day(9), EndDate: day(14),
		Status: entities.PlanItemPlanned,
		ResourceDemands: []entities.ResourceDemand{
			{ResourceID: "CNC-1", Rate: qty(60)},
			{ResourceID: "PAINT-1", Rate: qty(40)},
		},
	})

	return s
}
