package engine

import (
	"sort"

	"github.com/fashionbi/growth-engine/internal/domain"
)

// FCAggregate is the per-family-code rollup the pipeline operates on: sums
// and averages over the constituent SKUs plus the inventory position and the
// winning demand signal.
type FCAggregate struct {
	FCCode       string
	FCName       string
	IsFashion    bool
	IsManualHero bool

	SkuCount     int
	Skus         []string
	Categories   []string
	Revenue      float64
	QuantitySold float64
	COGS         float64
	GrossProfit  float64
	AvgUnitPrice float64
	AvgUnitCOGS  float64

	OnHandQuantity float64
	VelocityDaily  float64
	Velocity7Day   float64
	Trend          string
}

// Aggregate joins SKU summaries to family codes through the SKU mapping and
// rolls them up. Unmapped SKUs become their own pseudo family code with
// IsFashion=false; only fashion aggregates are returned, sorted by code so
// downstream iteration order is deterministic.
func Aggregate(
	skus []domain.SkuSummary,
	registry []domain.FamilyCode,
	mappings []domain.SkuMapping,
	inventory []domain.InventoryRow,
	demand []domain.DemandRow,
) []FCAggregate {
	fcBySku := make(map[string]string, len(mappings))
	for _, m := range mappings {
		if m.FCCode != "" {
			fcBySku[m.SKU] = m.FCCode
		}
	}

	fcInfo := make(map[string]domain.FamilyCode, len(registry))
	for _, fc := range registry {
		fcInfo[fc.Code] = fc
	}

	byCode := make(map[string]*FCAggregate)
	for _, sku := range skus {
		code, mapped := fcBySku[sku.SKU]
		if !mapped {
			code = sku.SKU
		}

		agg, ok := byCode[code]
		if !ok {
			agg = &FCAggregate{FCCode: code, FCName: code, IsFashion: mapped}
			if fc, known := fcInfo[code]; known {
				agg.FCName = fc.Name
				agg.IsManualHero = fc.IsManualHero
			}
			byCode[code] = agg
		}

		agg.SkuCount++
		agg.Skus = append(agg.Skus, sku.SKU)
		if sku.Category != "" {
			agg.Categories = append(agg.Categories, sku.Category)
		}
		agg.Revenue += sku.Revenue
		agg.QuantitySold += sku.QuantitySold
		agg.COGS += sku.COGS
		agg.GrossProfit += sku.GrossProfit
		agg.AvgUnitPrice += sku.AvgUnitPrice
		agg.AvgUnitCOGS += sku.AvgUnitCOGS
	}

	for _, agg := range byCode {
		if agg.SkuCount > 0 {
			agg.AvgUnitPrice /= float64(agg.SkuCount)
			agg.AvgUnitCOGS /= float64(agg.SkuCount)
		}
	}

	for _, row := range inventory {
		if agg, ok := byCode[row.FCCode]; ok {
			agg.OnHandQuantity += row.OnHand
		}
	}

	// Multiple demand rows may exist per family code; the most active one
	// wins (peak observed velocity, not an average).
	best := make(map[string]domain.DemandRow)
	for _, row := range demand {
		if _, ok := byCode[row.FCCode]; !ok {
			continue
		}
		cur, seen := best[row.FCCode]
		if !seen || row.AvgDailySales > cur.AvgDailySales {
			best[row.FCCode] = row
		}
	}
	for code, row := range best {
		agg := byCode[code]
		agg.VelocityDaily = row.AvgDailySales
		agg.Velocity7Day = row.Avg7DaySales
		agg.Trend = row.Trend
	}

	out := make([]FCAggregate, 0, len(byCode))
	for _, agg := range byCode {
		if agg.IsFashion {
			out = append(out, *agg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FCCode < out[j].FCCode })

	return out
}
