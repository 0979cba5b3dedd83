package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/fashionbi/growth-engine/internal/domain"
)

func testSnapshot() Snapshot {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

	return Snapshot{
		RevenueFacts: revenueFacts(1_000_000, 90),
		Skus: []domain.SkuSummary{
			{SKU: "H1", Revenue: 45_000_000, QuantitySold: 450, COGS: 20_250_000, GrossProfit: 24_750_000, AvgUnitPrice: 100_000, AvgUnitCOGS: 45_000},
			{SKU: "N1", Revenue: 36_000_000, QuantitySold: 180, COGS: 21_600_000, GrossProfit: 14_400_000, AvgUnitPrice: 200_000, AvgUnitCOGS: 120_000},
			{SKU: "S1", Revenue: 2_700_000, QuantitySold: 18, COGS: 2_520_000, GrossProfit: 180_000, AvgUnitPrice: 150_000, AvgUnitCOGS: 140_000},
		},
		FamilyCodes: []domain.FamilyCode{
			{Code: "FC-HERO", Name: "Áo thun nữ M", IsManualHero: true},
			{Code: "FC-NORM", Name: "Quần jeans ống rộng"},
			{Code: "FC-SLOW", Name: "Đầm maxi L"},
		},
		Mappings: []domain.SkuMapping{
			{SKU: "H1", FCCode: "FC-HERO"},
			{SKU: "N1", FCCode: "FC-NORM"},
			{SKU: "S1", FCCode: "FC-SLOW"},
		},
		Inventory: []domain.InventoryRow{
			{FCCode: "FC-HERO", OnHand: 50},
			{FCCode: "FC-NORM", OnHand: 100},
			{FCCode: "FC-SLOW", OnHand: 40},
		},
		Demand: []domain.DemandRow{
			{FCCode: "FC-HERO", AvgDailySales: 5, Avg7DaySales: 5},
			{FCCode: "FC-NORM", AvgDailySales: 2, Avg7DaySales: 2},
			{FCCode: "FC-SLOW", AvgDailySales: 0.2, Avg7DaySales: 0.2},
		},
		Orders: []domain.OrderLine{
			{SKU: "H1", Quantity: 20, OrderedAt: now.AddDate(0, 0, -5)},
			{SKU: "H1", Quantity: 15, OrderedAt: now.AddDate(0, 0, -20)},
			{SKU: "N1", Quantity: 8, OrderedAt: now.AddDate(0, 0, -10)},
			{SKU: "S1", Quantity: 1, OrderedAt: now.AddDate(0, 0, -25)},
		},
		Now: now,
	}
}

func testParams() domain.SimulationParams {
	return domain.SimulationParams{
		GrowthPct:               20,
		HorizonMonths:           2,
		DOCTargetHero:           60,
		DOCTargetNonHero:        30,
		SafetyStockPct:          15,
		OverstockThresholdRatio: 1.5,
	}
}

func TestRunInsufficientData(t *testing.T) {
	resp, err := Run(Snapshot{}, testParams(), DefaultConfig())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if resp != nil {
		t.Fatalf("Run() = %+v, want nil for empty fashion set", resp)
	}
}

func TestRunInvariants(t *testing.T) {
	resp, err := Run(testSnapshot(), testParams(), DefaultConfig())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if resp == nil || resp.Simulation == nil || resp.GrowthShape == nil {
		t.Fatal("Run() returned nil sections for a populated snapshot")
	}

	sim := resp.Simulation
	if len(sim.Details) != 3 {
		t.Fatalf("len(Details) = %d, want 3", len(sim.Details))
	}

	var totalUnits int
	var totalCash float64
	for _, res := range sim.Details {
		if res.HeroScore < 0 || res.HeroScore > 100 {
			t.Errorf("%s HeroScore = %v, out of [0,100]", res.FCCode, res.HeroScore)
		}
		if res.ProductionQty < 0 {
			t.Errorf("%s ProductionQty = %d, want >= 0", res.FCCode, res.ProductionQty)
		}
		if res.Segment == domain.SegmentSlow && !res.IsHero && res.ProductionQty != 0 {
			t.Errorf("%s is a non-hero slow mover with ProductionQty %d", res.FCCode, res.ProductionQty)
		}
		if res.ProductionQty > 0 && res.DaysOfCoverAfterProduction > 120 {
			t.Errorf("%s DaysOfCoverAfterProduction = %v, want <= 120", res.FCCode, res.DaysOfCoverAfterProduction)
		}
		totalUnits += res.ProductionQty
		totalCash += res.CashRequired
	}

	if sim.TotalProductionUnits != totalUnits {
		t.Errorf("TotalProductionUnits = %d, want %d", sim.TotalProductionUnits, totalUnits)
	}
	if sim.TotalCashRequired != totalCash {
		t.Errorf("TotalCashRequired = %v, want %v", sim.TotalCashRequired, totalCash)
	}
	if sim.HeroCount != 1 {
		t.Errorf("HeroCount = %d, want 1", sim.HeroCount)
	}

	// The slow mover keeps its flag even with production forced to zero.
	var slow domain.FCResult
	for _, res := range sim.Details {
		if res.FCCode == "FC-SLOW" {
			slow = res
		}
	}
	if _, ok := findFlag(slow.Risks, domain.RiskSlowMoverHighStock); !ok {
		t.Errorf("FC-SLOW missing slow_mover_high_stock flag, risks = %+v", slow.Risks)
	}
}

func TestRunIdempotent(t *testing.T) {
	first, err := Run(testSnapshot(), testParams(), DefaultConfig())
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	second, err := Run(testSnapshot(), testParams(), DefaultConfig())
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different outputs")
	}
}

func TestRunRespectsCashCap(t *testing.T) {
	params := testParams()
	params.CashCap = 20_000_000

	resp, err := Run(testSnapshot(), params, DefaultConfig())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var totalCash float64
	for _, res := range resp.Simulation.Details {
		totalCash += res.CashRequired
	}
	if totalCash > params.CashCap {
		t.Errorf("total cash %v exceeds cap %v", totalCash, params.CashCap)
	}
}

func TestRunBeforeAfterConsistency(t *testing.T) {
	resp, err := Run(testSnapshot(), testParams(), DefaultConfig())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	sim := resp.Simulation
	ba := sim.BeforeAfter

	if got, want := ba.After.TotalUnits, ba.Before.TotalUnits+float64(sim.TotalProductionUnits); got != want {
		t.Errorf("After.TotalUnits = %v, want %v", got, want)
	}
	if got, want := ba.After.StockValue, ba.Before.StockValue+sim.TotalCashRequired; got != want {
		t.Errorf("After.StockValue = %v, want %v", got, want)
	}
	if ba.Before.MonthlyRevenue != 30_000_000 {
		t.Errorf("Before.MonthlyRevenue = %v, want 30000000", ba.Before.MonthlyRevenue)
	}
	if ba.After.MonthlyRevenue < ba.Before.MonthlyRevenue {
		t.Errorf("After.MonthlyRevenue = %v, should not shrink when production is planned", ba.After.MonthlyRevenue)
	}
}

func TestRunDefaultsHorizonToOneMonth(t *testing.T) {
	params := testParams()
	params.HorizonMonths = 0

	resp, err := Run(testSnapshot(), params, DefaultConfig())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if resp == nil || resp.Simulation == nil {
		t.Fatal("Run() with zero horizon should still simulate over one month")
	}
	if resp.Simulation.CurrentRevenue != 30_000_000 {
		t.Errorf("CurrentRevenue = %v, want one month of baseline", resp.Simulation.CurrentRevenue)
	}
}

func TestRunHeroGap(t *testing.T) {
	resp, err := Run(testSnapshot(), testParams(), DefaultConfig())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	gap := resp.Simulation.HeroGap
	if gap.HeroCount != 1 {
		t.Errorf("HeroCount = %d, want 1", gap.HeroCount)
	}
	if gap.GapRevenue != resp.Simulation.GapRevenue {
		t.Errorf("HeroGap.GapRevenue = %v, want %v", gap.GapRevenue, resp.Simulation.GapRevenue)
	}
	if gap.RemainingGap < 0 {
		t.Errorf("RemainingGap = %v, want >= 0", gap.RemainingGap)
	}
}
