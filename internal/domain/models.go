// internal/domain/models.go
package domain

import "time"

// FamilyCode represents a merchandising family code: one planning unit
// grouping SKU variants (same style across sizes).
type FamilyCode struct {
	ID           int64     `json:"id" db:"id"`
	StoreID      int64     `json:"store_id" db:"store_id"`
	Code         string    `json:"code" db:"code"`
	Name         string    `json:"name" db:"name"`
	IsManualHero bool      `json:"is_manual_hero" db:"is_manual_hero"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// SkuSummary is the per-SKU financial rollup supplied by the data store.
type SkuSummary struct {
	SKU          string  `json:"sku" db:"sku"`
	Category     string  `json:"category" db:"category"`
	Revenue      float64 `json:"revenue" db:"revenue"`
	QuantitySold float64 `json:"quantity_sold" db:"quantity_sold"`
	COGS         float64 `json:"cogs" db:"cogs"`
	GrossProfit  float64 `json:"gross_profit" db:"gross_profit"`
	AvgUnitPrice float64 `json:"avg_unit_price" db:"avg_unit_price"`
	AvgUnitCOGS  float64 `json:"avg_unit_cogs" db:"avg_unit_cogs"`
}

// SkuMapping joins a SKU to its family code. SKUs without a mapping are
// treated as their own pseudo family code and excluded from the simulation.
type SkuMapping struct {
	SKU    string `json:"sku" db:"sku"`
	FCCode string `json:"fc_code" db:"fc_code"`
}

// DailyRevenue is one day of realized revenue for a store.
type DailyRevenue struct {
	Date    time.Time `json:"date" db:"date"`
	Revenue float64   `json:"revenue" db:"revenue"`
}

// InventoryRow is an on-hand position for a family code. Multiple rows may
// exist per family code (e.g. per warehouse) and are summed.
type InventoryRow struct {
	FCCode string  `json:"fc_code" db:"fc_code"`
	OnHand float64 `json:"on_hand" db:"on_hand"`
}

// DemandRow is a demand-velocity signal for a family code. Multiple rows may
// exist; the one with the highest average daily sales wins.
type DemandRow struct {
	FCCode        string  `json:"fc_code" db:"fc_code"`
	AvgDailySales float64 `json:"avg_daily_sales" db:"avg_daily_sales"`
	Avg7DaySales  float64 `json:"avg_7day_sales" db:"avg_7day_sales"`
	Trend         string  `json:"trend" db:"trend"`
}

// OrderLine is a sold line item from the recent order history, used for the
// recent-vs-prior momentum comparison.
type OrderLine struct {
	SKU       string    `json:"sku" db:"sku"`
	Quantity  float64   `json:"quantity" db:"quantity"`
	OrderedAt time.Time `json:"ordered_at" db:"ordered_at"`
}

// SnapshotFilter scopes every snapshot query to one tenant store.
type SnapshotFilter struct {
	StoreID     int64
	RevenueDays int
	OrderDays   int
}
