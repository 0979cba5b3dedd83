package engine

import "github.com/fashionbi/growth-engine/internal/domain"

// Score is the merchandising-health assessment of one family code: four
// sub-scores in [0,25] summing to a 0-100 total, plus the hero and mover
// classification derived from it.
type Score struct {
	Total     float64
	Velocity  float64
	Margin    float64
	Stability float64
	Inventory float64

	MarginPct          float64
	VelocityPercentile float64
	Segment            domain.Segment

	IsHero           bool
	IsHeroManual     bool
	IsHeroCalculated bool
}

// ScoreFC scores one aggregate against the portfolio basis and classifies
// it. The basis must cover the full fashion set so the result does not
// depend on what gets planned or capped later.
func ScoreFC(agg FCAggregate, basis PortfolioBasis, manualHeroes map[string]bool, cfg Config) Score {
	s := Score{
		MarginPct: marginPct(agg.AvgUnitPrice, agg.AvgUnitCOGS),
	}

	s.Velocity = scale(agg.VelocityDaily, basis.VelocityMin, basis.VelocityMax)
	s.Margin = scale(s.MarginPct, basis.MarginMin, basis.MarginMax)

	stability := 0.0
	if agg.VelocityDaily > 0 {
		stability = 1 - abs(agg.Velocity7Day-agg.VelocityDaily)/agg.VelocityDaily
	}
	stability = clamp(stability, 0, 1)
	s.Stability = stability * 25

	doc := daysOfCover(agg.OnHandQuantity, forecastVelocity(agg, cfg))
	if doc >= cfg.DOCHealthyMin && doc <= cfg.DOCHealthyMax {
		s.Inventory = 25
	} else {
		s.Inventory = scale(doc, 0, cfg.DOCScaleMax)
	}

	s.Total = s.Velocity + s.Margin + s.Stability + s.Inventory

	s.IsHeroManual = agg.IsManualHero || manualHeroes[agg.FCCode]
	s.IsHeroCalculated = s.Total >= cfg.HeroScoreThreshold && s.MarginPct >= cfg.HeroMarginThreshold
	s.IsHero = s.IsHeroManual || s.IsHeroCalculated

	s.VelocityPercentile = PercentileRank(agg.VelocityDaily, basis.Velocities)
	s.Segment = classifySegment(agg.VelocityDaily, s.VelocityPercentile, cfg)

	return s
}

// classifySegment applies the mover-speed rules in precedence order.
func classifySegment(velocity, percentile float64, cfg Config) domain.Segment {
	switch {
	case velocity < cfg.SlowVelocityFloor:
		return domain.SegmentSlow
	case (velocity >= cfg.FastVelocityFloor && percentile >= cfg.FastPercentile) ||
		(percentile >= cfg.FastPercentile && velocity >= cfg.BaseVelocityFloor):
		return domain.SegmentFast
	case percentile <= cfg.SlowPercentile || velocity < cfg.BaseVelocityFloor:
		return domain.SegmentSlow
	default:
		return domain.SegmentNormal
	}
}

// daysOfCover is on-hand divided by daily velocity, 0 when velocity is 0.
func daysOfCover(onHand, velocity float64) float64 {
	if velocity <= 0 {
		return 0
	}
	return onHand / velocity
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
