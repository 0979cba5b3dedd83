package engine

import (
	"math"

	"github.com/fashionbi/growth-engine/internal/domain"
)

// Plan runs the tiered production rules for one family code. Each tier is a
// pure transform over the result record and can override the previous one:
// target days-of-cover, required supply, raw quantity, the slow-mover gate,
// then the cash-recovery cap. Financial projections are derived last from
// whatever quantity survives.
func Plan(res domain.FCResult, agg FCAggregate, params domain.SimulationParams, cfg Config) domain.FCResult {
	res = planRawQuantity(res, params, cfg)
	res = gateSlowMovers(res)
	res = capCashRecovery(res, cfg)

	res.CashRequired = float64(res.ProductionQty) * agg.AvgUnitCOGS
	res.ProjectedRevenue = float64(res.ProductionQty) * agg.AvgUnitPrice
	res.ProjectedMargin = float64(res.ProductionQty) * (agg.AvgUnitPrice - agg.AvgUnitCOGS)

	return res
}

// targetDaysOfCover picks the replenishment target. A hero in the slow
// segment still gets a capped target: a decelerating bestseller should not
// soak up cash at the full hero horizon.
func targetDaysOfCover(res domain.FCResult, params domain.SimulationParams, cfg Config) float64 {
	if !res.IsHero {
		return params.DOCTargetNonHero
	}
	if res.Segment == domain.SegmentSlow {
		return math.Min(params.DOCTargetHero, cfg.SlowHeroDOCCap)
	}
	return params.DOCTargetHero
}

// planRawQuantity computes required supply (forecast demand + safety stock +
// target-cover buffer) and the raw production quantity net of on-hand stock.
func planRawQuantity(res domain.FCResult, params domain.SimulationParams, cfg Config) domain.FCResult {
	targetDOC := targetDaysOfCover(res, params, cfg)
	required := res.ForecastDemand +
		params.SafetyStockPct/100*res.ForecastDemand +
		targetDOC*res.ForecastVelocity

	res.ProductionQty = int(math.Max(0, math.Round(required-res.OnHandQuantity)))
	res.DaysOfCoverAfterProduction = daysOfCover(res.OnHandQuantity+float64(res.ProductionQty), res.ForecastVelocity)

	return res
}

// gateSlowMovers refuses to fund replenishment of non-hero slow movers.
func gateSlowMovers(res domain.FCResult) domain.FCResult {
	if res.Segment == domain.SegmentSlow && !res.IsHero {
		res.ProductionQty = 0
		res.DaysOfCoverAfterProduction = res.DaysOfCoverCurrent
	}
	return res
}

// capCashRecovery pulls production back to the recovery horizon when the
// post-production cover would lock cash into slow-turning stock.
func capCashRecovery(res domain.FCResult, cfg Config) domain.FCResult {
	if res.ProductionQty == 0 || res.DaysOfCoverAfterProduction <= cfg.MaxDOCAfterProduction {
		return res
	}

	res.ProductionQty = int(math.Max(0, math.Round(cfg.CashRecoveryDOC*res.ForecastVelocity-res.OnHandQuantity)))
	res.DaysOfCoverAfterProduction = daysOfCover(res.OnHandQuantity+float64(res.ProductionQty), res.ForecastVelocity)

	return res
}
