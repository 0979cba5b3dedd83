package engine

import (
	"testing"
	"time"

	"github.com/fashionbi/growth-engine/internal/domain"
)

func revenueFacts(avgDaily float64, days int) []domain.DailyRevenue {
	facts := make([]domain.DailyRevenue, days)
	base := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	for i := range facts {
		facts[i] = domain.DailyRevenue{Date: base.AddDate(0, 0, i), Revenue: avgDaily}
	}
	return facts
}

func TestComputeBaseline(t *testing.T) {
	b := ComputeBaseline(revenueFacts(1000, 90), 20, 3)

	if b.AvgDailyRevenue != 1000 {
		t.Errorf("AvgDailyRevenue = %v, want 1000", b.AvgDailyRevenue)
	}
	if b.MonthlyRevenue != 30000 {
		t.Errorf("MonthlyRevenue = %v, want 30000", b.MonthlyRevenue)
	}
	if b.CurrentRevenue != 90000 {
		t.Errorf("CurrentRevenue = %v, want 90000", b.CurrentRevenue)
	}
	if b.TargetRevenue != 108000 {
		t.Errorf("TargetRevenue = %v, want 108000", b.TargetRevenue)
	}
	if b.GapRevenue != 18000 {
		t.Errorf("GapRevenue = %v, want 18000", b.GapRevenue)
	}
	if b.HorizonDays != 90 {
		t.Errorf("HorizonDays = %v, want 90", b.HorizonDays)
	}
}

func TestComputeBaselineContraction(t *testing.T) {
	b := ComputeBaseline(revenueFacts(1000, 30), -50, 1)

	if b.GapRevenue != -15000 {
		t.Errorf("GapRevenue = %v, want -15000 for negative growth", b.GapRevenue)
	}
}

func TestComputeBaselineNoFacts(t *testing.T) {
	b := ComputeBaseline(nil, 20, 3)

	if b.AvgDailyRevenue != 0 || b.CurrentRevenue != 0 || b.GapRevenue != 0 {
		t.Errorf("empty facts should yield zero baseline, got %+v", b)
	}
}

func TestForecast(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name         string
		agg          FCAggregate
		wantRatio    float64
		wantVelocity float64
	}{
		{"Steady", FCAggregate{VelocityDaily: 2, Velocity7Day: 2}, 1, 2},
		{"Accelerating", FCAggregate{VelocityDaily: 2, Velocity7Day: 2.4}, 1.2, 2.4},
		{"ClampedUp", FCAggregate{VelocityDaily: 2, Velocity7Day: 6}, 1.3, 2.6},
		{"ClampedDown", FCAggregate{VelocityDaily: 2, Velocity7Day: 0.2}, 0.7, 1.4},
		{"ZeroVelocity", FCAggregate{VelocityDaily: 0, Velocity7Day: 3}, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := Forecast(tt.agg, 60, cfg)
			if fc.TrendRatio != tt.wantRatio {
				t.Errorf("TrendRatio = %v, want %v", fc.TrendRatio, tt.wantRatio)
			}
			if fc.Velocity != tt.wantVelocity {
				t.Errorf("Velocity = %v, want %v", fc.Velocity, tt.wantVelocity)
			}
			if fc.Demand != tt.wantVelocity*60 {
				t.Errorf("Demand = %v, want %v", fc.Demand, tt.wantVelocity*60)
			}
		})
	}
}

func TestForecastDaysOfCover(t *testing.T) {
	cfg := DefaultConfig()

	fc := Forecast(FCAggregate{VelocityDaily: 5, Velocity7Day: 5, OnHandQuantity: 50}, 60, cfg)
	if fc.DaysOfCoverCurrent != 10 {
		t.Errorf("DaysOfCoverCurrent = %v, want 10", fc.DaysOfCoverCurrent)
	}
}
