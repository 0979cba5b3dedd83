package engine

import (
	"math"
	"sort"

	"github.com/fashionbi/growth-engine/internal/domain"
)

// summarize folds the finalized per-FC results into the aggregate simulation
// output: totals, hero-gap analysis, the before/after comparison, the
// bounded risk list and the candidate bench.
func summarize(results []domain.FCResult, baseline Baseline, report RiskReport, params domain.SimulationParams, cfg Config) *domain.Simulation {
	sim := &domain.Simulation{
		CurrentRevenue: baseline.CurrentRevenue,
		TargetRevenue:  baseline.TargetRevenue,
		GapRevenue:     baseline.GapRevenue,
		RiskScore:      report.Score,
		Details:        results,
	}

	var (
		totalRevenue   float64
		heroRevenue    float64
		heroProjected  float64
		sumMargin      float64
		beforeUnits    float64
		beforeValue    float64
		beforeDOC      float64
		afterDOC       float64
		totalProjected float64
	)

	for _, res := range results {
		sim.TotalProductionUnits += res.ProductionQty
		sim.TotalCashRequired += res.CashRequired
		sim.TotalProjectedMargin += res.ProjectedMargin
		totalProjected += res.ProjectedRevenue
		sumMargin += res.MarginPct
		totalRevenue += res.Revenue

		if res.IsHero {
			sim.HeroCount++
			heroRevenue += res.Revenue
			heroProjected += res.ProjectedRevenue
		}

		beforeUnits += res.OnHandQuantity
		beforeValue += res.OnHandQuantity * res.AvgUnitCOGS
		beforeDOC += res.DaysOfCoverCurrent
		afterDOC += res.DaysOfCoverAfterProduction
	}

	n := float64(len(results))
	if n > 0 {
		sim.AvgMarginPct = sumMargin / n
	}
	if totalRevenue > 0 {
		sim.HeroRevenueSharePct = heroRevenue / totalRevenue * 100
	}

	sim.HeroGap = heroGap(sim, heroProjected, baseline, results, cfg)
	sim.BeforeAfter = beforeAfter(beforeUnits, beforeValue, beforeDOC, afterDOC, totalProjected, sim, baseline, n)

	sim.TopRisks = report.Summaries
	if len(sim.TopRisks) > cfg.TopListLimit {
		sim.TopRisks = sim.TopRisks[:cfg.TopListLimit]
	}

	sim.HeroCandidates = heroCandidates(results, cfg)

	return sim
}

func heroGap(sim *domain.Simulation, heroProjected float64, baseline Baseline, results []domain.FCResult, cfg Config) domain.HeroGap {
	gap := domain.HeroGap{
		HeroCount:            sim.HeroCount,
		HeroRevenueSharePct:  sim.HeroRevenueSharePct,
		HeroProjectedRevenue: heroProjected,
		GapRevenue:           baseline.GapRevenue,
		RemainingGap:         math.Max(0, baseline.GapRevenue-heroProjected),
	}

	if baseline.GapRevenue > 0 {
		gap.CoveragePct = heroProjected / baseline.GapRevenue * 100
	}

	for _, res := range results {
		if !res.IsHero && res.HeroScore >= cfg.CandidateScoreFloor {
			gap.CandidateCount++
		}
	}

	return gap
}

func beforeAfter(beforeUnits, beforeValue, beforeDOC, afterDOC, totalProjected float64, sim *domain.Simulation, baseline Baseline, n float64) domain.BeforeAfter {
	avgBefore, avgAfter := 0.0, 0.0
	if n > 0 {
		avgBefore = beforeDOC / n
		avgAfter = afterDOC / n
	}

	monthlyAfter := baseline.MonthlyRevenue
	if baseline.HorizonMonths > 0 {
		monthlyAfter += totalProjected / float64(baseline.HorizonMonths)
	}

	return domain.BeforeAfter{
		Before: domain.PortfolioSnapshot{
			TotalUnits:     beforeUnits,
			StockValue:     beforeValue,
			AvgDaysOfCover: avgBefore,
			MonthlyRevenue: baseline.MonthlyRevenue,
		},
		After: domain.PortfolioSnapshot{
			TotalUnits:     beforeUnits + float64(sim.TotalProductionUnits),
			StockValue:     beforeValue + sim.TotalCashRequired,
			AvgDaysOfCover: avgAfter,
			MonthlyRevenue: monthlyAfter,
		},
	}
}

// heroCandidates picks the strongest non-hero family codes: the bench that
// would be promoted first if the hero set needed widening.
func heroCandidates(results []domain.FCResult, cfg Config) []domain.FCResult {
	candidates := make([]domain.FCResult, 0)
	for _, res := range results {
		if !res.IsHero && res.HeroScore >= cfg.CandidateScoreFloor {
			candidates = append(candidates, res)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].HeroScore > candidates[j].HeroScore
	})

	if len(candidates) > cfg.TopListLimit {
		candidates = candidates[:cfg.TopListLimit]
	}

	return candidates
}
