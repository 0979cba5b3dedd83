// Package engine implements the growth simulation and production allocation
// pipeline. It is a pure function of its snapshot inputs: no I/O, no clock
// beyond the snapshot's Now, no randomness. The stages run strictly in
// order: aggregate -> baseline -> percentile bases -> scoring -> forecast ->
// planning -> global constraints -> risk -> growth shape.
package engine

import (
	"time"

	"github.com/creasty/defaults"
	"github.com/fashionbi/growth-engine/internal/domain"
)

// Config carries every tunable threshold the pipeline uses. Defaults match
// the documented business rules; tests override individual fields.
type Config struct {
	// Scoring / classification
	HeroScoreThreshold  float64 `default:"80"`
	HeroMarginThreshold float64 `default:"40"`
	FastPercentile      float64 `default:"70"`
	SlowPercentile      float64 `default:"30"`
	SlowVelocityFloor   float64 `default:"0.5"`
	FastVelocityFloor   float64 `default:"3"`
	BaseVelocityFloor   float64 `default:"1"`
	DOCHealthyMin       float64 `default:"30"`
	DOCHealthyMax       float64 `default:"90"`
	DOCScaleMax         float64 `default:"120"`

	// Forecasting
	TrendRatioMin float64 `default:"0.7"`
	TrendRatioMax float64 `default:"1.3"`

	// Planning
	SlowHeroDOCCap        float64 `default:"30"`
	MaxDOCAfterProduction float64 `default:"120"`
	CashRecoveryDOC       float64 `default:"90"`

	// Risk
	LeadTimeBufferDays         float64 `default:"14"`
	OverstockSevereRatio       float64 `default:"2"`
	SlowVelocityCritical       float64 `default:"0.2"`
	ConcentrationTopN          int     `default:"3"`
	ConcentrationShare         float64 `default:"0.5"`
	ConcentrationCriticalShare float64 `default:"0.7"`
	RiskExampleLimit           int     `default:"3"`

	// Growth shape
	MomentumWindowDays       int     `default:"30"`
	MomentumDeclineCutoffPct float64 `default:"-30"`
	MomentumExpandFloorPct   float64 `default:"0"`
	EfficiencyHighThreshold  float64 `default:"65"`
	EfficiencyLowThreshold   float64 `default:"40"`

	// Output shaping
	CandidateScoreFloor float64 `default:"65"`
	TopListLimit        int     `default:"10"`
}

// DefaultConfig returns a Config populated with the documented defaults.
func DefaultConfig() Config {
	var cfg Config
	_ = defaults.Set(&cfg)
	return cfg
}

// Snapshot bundles every upstream collection a run consumes, fetched once
// before the pipeline starts. Run never mutates it.
type Snapshot struct {
	RevenueFacts []domain.DailyRevenue
	Skus         []domain.SkuSummary
	FamilyCodes  []domain.FamilyCode
	Mappings     []domain.SkuMapping
	Inventory    []domain.InventoryRow
	Demand       []domain.DemandRow
	Orders       []domain.OrderLine
	ManualHeroes []string
	Now          time.Time
}

// Run executes the full simulation. A nil response with nil error is the
// distinguished "insufficient data" outcome: no fashion-mapped family code
// survived aggregation. Parameter validation happens upstream, before any
// snapshot is fetched.
func Run(snap Snapshot, params domain.SimulationParams, cfg Config) (*domain.SimulationResponse, error) {
	if params.HorizonMonths <= 0 {
		params.HorizonMonths = 1
	}

	aggs := Aggregate(snap.Skus, snap.FamilyCodes, snap.Mappings, snap.Inventory, snap.Demand)
	if len(aggs) == 0 {
		return nil, nil
	}

	baseline := ComputeBaseline(snap.RevenueFacts, params.GrowthPct, params.HorizonMonths)
	basis := BuildPortfolioBasis(aggs)

	manual := make(map[string]bool, len(snap.ManualHeroes))
	for _, code := range snap.ManualHeroes {
		manual[code] = true
	}

	results := make([]domain.FCResult, 0, len(aggs))
	for _, agg := range aggs {
		score := ScoreFC(agg, basis, manual, cfg)
		fc := Forecast(agg, baseline.HorizonDays, cfg)

		res := domain.FCResult{
			FCCode:             agg.FCCode,
			FCName:             agg.FCName,
			HeroScore:          score.Total,
			VelocityScore:      score.Velocity,
			MarginScore:        score.Margin,
			StabilityScore:     score.Stability,
			InventoryScore:     score.Inventory,
			IsHero:             score.IsHero,
			IsHeroManual:       score.IsHeroManual,
			IsHeroCalculated:   score.IsHeroCalculated,
			Segment:            score.Segment,
			VelocityDaily:      agg.VelocityDaily,
			ForecastVelocity:   fc.Velocity,
			ForecastDemand:     fc.Demand,
			DaysOfCoverCurrent: fc.DaysOfCoverCurrent,
			OnHandQuantity:     agg.OnHandQuantity,
			AvgUnitPrice:       agg.AvgUnitPrice,
			AvgUnitCOGS:        agg.AvgUnitCOGS,
			Revenue:            agg.Revenue,
			MarginPct:          score.MarginPct,
		}

		res = Plan(res, agg, params, cfg)
		results = append(results, res)
	}

	results = EnforceCaps(results, params, cfg)

	perFC, portfolio := AssessRisks(results, params, cfg)
	for i := range results {
		results[i].Risks = perFC[results[i].FCCode]
	}

	shape := ClassifyGrowthShape(aggs, results, snap.Orders, snap.Mappings, snap.Now, cfg)

	sim := summarize(results, baseline, portfolio, params, cfg)
	return &domain.SimulationResponse{Simulation: sim, GrowthShape: shape}, nil
}
