package engine

import (
	"sort"

	"github.com/fashionbi/growth-engine/internal/domain"
)

// EnforceCaps applies the portfolio-wide cash and capacity caps. Results are
// ordered heroes first, then descending hero score: that ordering defines
// who gets funded first under scarcity. Each cap is an all-or-nothing
// cumulative cutoff, not partial funding, and both can fire independently.
func EnforceCaps(results []domain.FCResult, params domain.SimulationParams, cfg Config) []domain.FCResult {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].IsHero != results[j].IsHero {
			return results[i].IsHero
		}
		return results[i].HeroScore > results[j].HeroScore
	})

	if params.CashCap > 0 {
		cumulative := 0.0
		cut := false
		for i := range results {
			cumulative += results[i].CashRequired
			if cumulative > params.CashCap {
				cut = true
			}
			if cut {
				results[i] = zeroProduction(results[i])
			}
		}
	}

	if params.CapacityCap > 0 {
		capUnits := params.CapacityCap * float64(params.HorizonMonths)
		cumulative := 0.0
		cut := false
		for i := range results {
			cumulative += float64(results[i].ProductionQty)
			if cumulative > capUnits {
				cut = true
			}
			if cut {
				results[i] = zeroProduction(results[i])
			}
		}
	}

	return results
}

func zeroProduction(res domain.FCResult) domain.FCResult {
	res.ProductionQty = 0
	res.CashRequired = 0
	res.ProjectedRevenue = 0
	res.ProjectedMargin = 0
	res.DaysOfCoverAfterProduction = res.DaysOfCoverCurrent
	return res
}
