package engine

import (
	"testing"

	"github.com/fashionbi/growth-engine/internal/domain"
)

func TestClassifySegment(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name       string
		velocity   float64
		percentile float64
		want       domain.Segment
	}{
		{"BelowSlowFloor", 0.4, 90, domain.SegmentSlow},
		{"FastHighVelocity", 3.5, 80, domain.SegmentFast},
		{"FastHighPercentile", 1.5, 75, domain.SegmentFast},
		{"SlowLowPercentile", 2, 20, domain.SegmentSlow},
		{"SlowBelowBaseFloor", 0.8, 50, domain.SegmentSlow},
		{"Normal", 2, 50, domain.SegmentNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifySegment(tt.velocity, tt.percentile, cfg); got != tt.want {
				t.Errorf("classifySegment(%v, %v) = %v, want %v", tt.velocity, tt.percentile, got, tt.want)
			}
		})
	}
}

func TestScoreFCSubScoreBounds(t *testing.T) {
	cfg := DefaultConfig()

	aggs := []FCAggregate{
		{FCCode: "FC-A", VelocityDaily: 5, Velocity7Day: 5, AvgUnitPrice: 100, AvgUnitCOGS: 40, OnHandQuantity: 250},
		{FCCode: "FC-B", VelocityDaily: 1, Velocity7Day: 0.5, AvgUnitPrice: 80, AvgUnitCOGS: 70, OnHandQuantity: 10},
		{FCCode: "FC-C", VelocityDaily: 0.1, Velocity7Day: 0.1, AvgUnitPrice: 50, AvgUnitCOGS: 48, OnHandQuantity: 500},
	}
	basis := BuildPortfolioBasis(aggs)

	for _, agg := range aggs {
		s := ScoreFC(agg, basis, nil, cfg)

		for name, sub := range map[string]float64{
			"Velocity":  s.Velocity,
			"Margin":    s.Margin,
			"Stability": s.Stability,
			"Inventory": s.Inventory,
		} {
			if sub < 0 || sub > 25 {
				t.Errorf("%s: %s sub-score %v out of [0,25]", agg.FCCode, name, sub)
			}
		}
		if s.Total < 0 || s.Total > 100 {
			t.Errorf("%s: total %v out of [0,100]", agg.FCCode, s.Total)
		}
	}
}

func TestScoreFCHealthyCoverGetsFullInventoryScore(t *testing.T) {
	cfg := DefaultConfig()

	// 250 on hand at 5/day is 50 days of cover, inside the 30-90 band.
	agg := FCAggregate{FCCode: "FC-A", VelocityDaily: 5, Velocity7Day: 5, AvgUnitPrice: 100, AvgUnitCOGS: 40, OnHandQuantity: 250}
	basis := BuildPortfolioBasis([]FCAggregate{agg})

	s := ScoreFC(agg, basis, nil, cfg)
	if s.Inventory != 25 {
		t.Errorf("Inventory = %v, want 25 for healthy days of cover", s.Inventory)
	}
	if s.Stability != 25 {
		t.Errorf("Stability = %v, want 25 for steady velocity", s.Stability)
	}
}

func TestScoreFCHeroClassification(t *testing.T) {
	cfg := DefaultConfig()

	aggs := []FCAggregate{
		{FCCode: "FC-STRONG", VelocityDaily: 5, Velocity7Day: 5, AvgUnitPrice: 100, AvgUnitCOGS: 40, OnHandQuantity: 250},
		{FCCode: "FC-WEAK", VelocityDaily: 0.1, Velocity7Day: 0.3, AvgUnitPrice: 50, AvgUnitCOGS: 48, OnHandQuantity: 500},
	}
	basis := BuildPortfolioBasis(aggs)

	strong := ScoreFC(aggs[0], basis, nil, cfg)
	if !strong.IsHeroCalculated || !strong.IsHero {
		t.Errorf("FC-STRONG should be a calculated hero, got total=%v marginPct=%v", strong.Total, strong.MarginPct)
	}

	weak := ScoreFC(aggs[1], basis, nil, cfg)
	if weak.IsHero {
		t.Errorf("FC-WEAK should not be a hero, got total=%v", weak.Total)
	}

	// A manual pick is a hero regardless of score.
	manual := ScoreFC(aggs[1], basis, map[string]bool{"FC-WEAK": true}, cfg)
	if !manual.IsHero || !manual.IsHeroManual {
		t.Errorf("manual pick should be a hero: IsHero=%v IsHeroManual=%v", manual.IsHero, manual.IsHeroManual)
	}
	if manual.IsHeroCalculated {
		t.Errorf("manual pick should not also be calculated")
	}
}

func TestDaysOfCover(t *testing.T) {
	tests := []struct {
		name     string
		onHand   float64
		velocity float64
		want     float64
	}{
		{"Normal", 100, 5, 20},
		{"ZeroVelocity", 100, 0, 0},
		{"ZeroStock", 0, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := daysOfCover(tt.onHand, tt.velocity); got != tt.want {
				t.Errorf("daysOfCover(%v, %v) = %v, want %v", tt.onHand, tt.velocity, got, tt.want)
			}
		})
	}
}
