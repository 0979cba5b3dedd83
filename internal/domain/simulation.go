// internal/domain/simulation.go
package domain

// SimulationParams are the caller-supplied knobs for one simulation run.
// Caps of 0 mean unconstrained.
type SimulationParams struct {
	GrowthPct               float64 `json:"growth_pct"`
	HorizonMonths           int     `json:"horizon_months"`
	DOCTargetHero           float64 `json:"doc_hero"`
	DOCTargetNonHero        float64 `json:"doc_non_hero"`
	SafetyStockPct          float64 `json:"safety_stock_pct"`
	CashCap                 float64 `json:"cash_cap"`
	CapacityCap             float64 `json:"capacity_cap"`
	OverstockThresholdRatio float64 `json:"overstock_threshold"`
}

// Segment classifies a family code's mover speed.
type Segment string

const (
	SegmentFast   Segment = "fast"
	SegmentNormal Segment = "normal"
	SegmentSlow   Segment = "slow"
)

// RiskType identifies a detected risk condition.
type RiskType string

const (
	RiskStockout           RiskType = "stockout"
	RiskOverstock          RiskType = "overstock"
	RiskConcentration      RiskType = "concentration"
	RiskSlowMoverHighStock RiskType = "slow_mover_high_stock"
)

// Severity grades a risk flag.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// RiskFlag is a single detected risk on one family code.
type RiskFlag struct {
	Type       RiskType `json:"type"`
	Severity   Severity `json:"severity"`
	FCCode     string   `json:"fc_code,omitempty"`
	Detail     string   `json:"detail"`
	Suggestion string   `json:"suggestion"`
}

// PortfolioRisk is an aggregated view over all flags of one type: how many
// family codes carry it, the worst severity seen, and a few named examples.
type PortfolioRisk struct {
	Type       RiskType `json:"type"`
	Severity   Severity `json:"severity"`
	Count      int      `json:"count"`
	Examples   []string `json:"examples,omitempty"`
	Detail     string   `json:"detail"`
	Suggestion string   `json:"suggestion"`
}

// FCResult is the per-family-code outcome of a simulation run. It is created
// once per run and never mutated after constraint enforcement finalizes the
// production quantity.
type FCResult struct {
	FCCode string `json:"fc_code"`
	FCName string `json:"fc_name"`

	// Scores
	HeroScore        float64 `json:"hero_score"`
	VelocityScore    float64 `json:"velocity_score"`
	MarginScore      float64 `json:"margin_score"`
	StabilityScore   float64 `json:"stability_score"`
	InventoryScore   float64 `json:"inventory_score"`
	IsHero           bool    `json:"is_hero"`
	IsHeroManual     bool    `json:"is_hero_manual"`
	IsHeroCalculated bool    `json:"is_hero_calculated"`
	Segment          Segment `json:"segment"`

	// Forecast
	VelocityDaily              float64 `json:"velocity_daily"`
	ForecastVelocity           float64 `json:"forecast_velocity"`
	ForecastDemand             float64 `json:"forecast_demand"`
	DaysOfCoverCurrent         float64 `json:"days_of_cover_current"`
	DaysOfCoverAfterProduction float64 `json:"days_of_cover_after_production"`

	// Decision
	OnHandQuantity float64 `json:"on_hand_quantity"`
	AvgUnitPrice   float64 `json:"avg_unit_price"`
	AvgUnitCOGS    float64 `json:"avg_unit_cogs"`
	Revenue        float64 `json:"revenue"`
	ProductionQty  int     `json:"production_qty"`
	CashRequired   float64 `json:"cash_required"`

	// Financial projection
	ProjectedRevenue float64 `json:"projected_revenue"`
	ProjectedMargin  float64 `json:"projected_margin"`
	MarginPct        float64 `json:"margin_pct"`

	Risks []RiskFlag `json:"risks,omitempty"`
}

// HeroGap describes how much of the revenue gap planned hero production
// closes, and how deep the bench of near-hero candidates is.
type HeroGap struct {
	HeroCount            int     `json:"hero_count"`
	HeroRevenueSharePct  float64 `json:"hero_revenue_share_pct"`
	HeroProjectedRevenue float64 `json:"hero_projected_revenue"`
	GapRevenue           float64 `json:"gap_revenue"`
	CoveragePct          float64 `json:"coverage_pct"`
	RemainingGap         float64 `json:"remaining_gap"`
	CandidateCount       int     `json:"candidate_count"`
}

// PortfolioSnapshot is one side of the before/after comparison.
type PortfolioSnapshot struct {
	TotalUnits     float64 `json:"total_units"`
	StockValue     float64 `json:"stock_value"`
	AvgDaysOfCover float64 `json:"avg_days_of_cover"`
	MonthlyRevenue float64 `json:"monthly_revenue"`
}

// BeforeAfter compares the portfolio position before and after the planned
// production lands.
type BeforeAfter struct {
	Before PortfolioSnapshot `json:"before"`
	After  PortfolioSnapshot `json:"after"`
}

// Simulation is the aggregate simulation output.
type Simulation struct {
	TotalProductionUnits int             `json:"total_production_units"`
	TotalCashRequired    float64         `json:"total_cash_required"`
	HeroCount            int             `json:"hero_count"`
	HeroRevenueSharePct  float64         `json:"hero_revenue_share_pct"`
	RiskScore            float64         `json:"risk_score"`
	HeroGap              HeroGap         `json:"hero_gap"`
	BeforeAfter          BeforeAfter     `json:"before_after"`
	CurrentRevenue       float64         `json:"current_revenue"`
	TargetRevenue        float64         `json:"target_revenue"`
	GapRevenue           float64         `json:"gap_revenue"`
	AvgMarginPct         float64         `json:"avg_margin_pct"`
	TotalProjectedMargin float64         `json:"total_projected_margin"`
	Details              []FCResult      `json:"details"`
	TopRisks             []PortfolioRisk `json:"top_risks"`
	HeroCandidates       []FCResult      `json:"hero_candidates"`
}

// ShapeDirection is the recommendation for a growth-shape bucket.
type ShapeDirection string

const (
	DirectionExpand ShapeDirection = "expand"
	DirectionHold   ShapeDirection = "hold"
	DirectionAvoid  ShapeDirection = "avoid"
)

// GrowthShapeCategory scores one category/size/price-band bucket.
type GrowthShapeCategory struct {
	Category        string         `json:"category"`
	FCCount         int            `json:"fc_count"`
	AvgVelocity     float64        `json:"avg_velocity"`
	MomentumPct     float64        `json:"momentum_pct"`
	AvgMarginPct    float64        `json:"avg_margin_pct"`
	AvgDaysOfCover  float64        `json:"avg_days_of_cover"`
	OverstockRatio  float64        `json:"overstock_ratio"`
	RevenueShare    float64        `json:"revenue_share"`
	EfficiencyScore float64        `json:"efficiency_score"`
	EfficiencyLabel string         `json:"efficiency_label"`
	Direction       ShapeDirection `json:"direction"`
	Reason          string         `json:"reason"`
}

// GrowthShape recommends where growth should be allocated across categories,
// sizes and price bands.
type GrowthShape struct {
	ExpandCategories []GrowthShapeCategory `json:"expand_categories"`
	AvoidCategories  []GrowthShapeCategory `json:"avoid_categories"`
	SizeShifts       []GrowthShapeCategory `json:"size_shifts"`
	PriceBands       []GrowthShapeCategory `json:"price_bands"`
	GravitySummary   string                `json:"gravity_summary"`
	ShapeStatement   string                `json:"shape_statement"`
}

// SimulationResponse is the full response body. Both pointers are nil for the
// distinguished "insufficient data" outcome so callers can render "not enough
// data" instead of a zero-valued object.
type SimulationResponse struct {
	Simulation  *Simulation  `json:"simulation"`
	GrowthShape *GrowthShape `json:"growth_shape"`
}
