package engine

import (
	"testing"

	"github.com/fashionbi/growth-engine/internal/domain"
)

func TestAggregateJoinsSkusToFamilyCodes(t *testing.T) {
	skus := []domain.SkuSummary{
		{SKU: "A1", Revenue: 100, QuantitySold: 10, COGS: 40, GrossProfit: 60, AvgUnitPrice: 10, AvgUnitCOGS: 4},
		{SKU: "A2", Revenue: 200, QuantitySold: 10, COGS: 80, GrossProfit: 120, AvgUnitPrice: 20, AvgUnitCOGS: 8},
		{SKU: "B1", Revenue: 50, QuantitySold: 5, COGS: 25, GrossProfit: 25, AvgUnitPrice: 10, AvgUnitCOGS: 5},
		{SKU: "ORPHAN", Revenue: 999, QuantitySold: 1},
	}
	registry := []domain.FamilyCode{
		{Code: "FC-A", Name: "Áo thun nữ"},
		{Code: "FC-B", Name: "Đầm maxi", IsManualHero: true},
	}
	mappings := []domain.SkuMapping{
		{SKU: "A1", FCCode: "FC-A"},
		{SKU: "A2", FCCode: "FC-A"},
		{SKU: "B1", FCCode: "FC-B"},
	}
	inventory := []domain.InventoryRow{
		{FCCode: "FC-A", OnHand: 30},
		{FCCode: "FC-A", OnHand: 20},
		{FCCode: "FC-B", OnHand: 5},
	}
	demand := []domain.DemandRow{
		{FCCode: "FC-A", AvgDailySales: 0.5, Avg7DaySales: 0.4, Trend: "down"},
		{FCCode: "FC-A", AvgDailySales: 2.0, Avg7DaySales: 2.5, Trend: "up"},
		{FCCode: "FC-B", AvgDailySales: 1.0, Avg7DaySales: 1.0},
	}

	aggs := Aggregate(skus, registry, mappings, inventory, demand)

	// The orphan SKU becomes a non-fashion pseudo code and is dropped.
	if len(aggs) != 2 {
		t.Fatalf("len(aggs) = %d, want 2", len(aggs))
	}
	if aggs[0].FCCode != "FC-A" || aggs[1].FCCode != "FC-B" {
		t.Fatalf("aggregate order = [%s, %s], want [FC-A, FC-B]", aggs[0].FCCode, aggs[1].FCCode)
	}

	a := aggs[0]
	if a.FCName != "Áo thun nữ" {
		t.Errorf("FCName = %q, want registry name", a.FCName)
	}
	if a.SkuCount != 2 {
		t.Errorf("SkuCount = %d, want 2", a.SkuCount)
	}
	if a.Revenue != 300 {
		t.Errorf("Revenue = %v, want 300", a.Revenue)
	}
	if a.AvgUnitPrice != 15 {
		t.Errorf("AvgUnitPrice = %v, want 15 (mean of constituents)", a.AvgUnitPrice)
	}
	if a.AvgUnitCOGS != 6 {
		t.Errorf("AvgUnitCOGS = %v, want 6", a.AvgUnitCOGS)
	}
	if a.OnHandQuantity != 50 {
		t.Errorf("OnHandQuantity = %v, want 50 (summed rows)", a.OnHandQuantity)
	}

	// The most active demand row wins.
	if a.VelocityDaily != 2.0 || a.Velocity7Day != 2.5 || a.Trend != "up" {
		t.Errorf("demand = (%v, %v, %q), want winning row (2, 2.5, up)", a.VelocityDaily, a.Velocity7Day, a.Trend)
	}

	b := aggs[1]
	if !b.IsManualHero {
		t.Errorf("FC-B should carry the manual hero flag")
	}
	if b.OnHandQuantity != 5 {
		t.Errorf("FC-B OnHandQuantity = %v, want 5", b.OnHandQuantity)
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	if got := Aggregate(nil, nil, nil, nil, nil); len(got) != 0 {
		t.Errorf("Aggregate(nil...) returned %d aggregates, want 0", len(got))
	}
}

func TestAggregateDemandTieKeepsFirstRow(t *testing.T) {
	skus := []domain.SkuSummary{{SKU: "A1"}}
	registry := []domain.FamilyCode{{Code: "FC-A", Name: "FC-A"}}
	mappings := []domain.SkuMapping{{SKU: "A1", FCCode: "FC-A"}}
	demand := []domain.DemandRow{
		{FCCode: "FC-A", AvgDailySales: 1, Avg7DaySales: 1.2},
		{FCCode: "FC-A", AvgDailySales: 1, Avg7DaySales: 0.8},
	}

	aggs := Aggregate(skus, registry, mappings, nil, demand)
	if len(aggs) != 1 {
		t.Fatalf("len(aggs) = %d, want 1", len(aggs))
	}
	if aggs[0].Velocity7Day != 1.2 {
		t.Errorf("Velocity7Day = %v, want first row on a tie", aggs[0].Velocity7Day)
	}
}
