package engine

import "github.com/fashionbi/growth-engine/internal/domain"

// Baseline holds the revenue baseline and the growth gap to close. All
// downstream forecasting uses HorizonDays, not calendar months.
type Baseline struct {
	AvgDailyRevenue float64
	MonthlyRevenue  float64
	CurrentRevenue  float64
	TargetRevenue   float64
	GapRevenue      float64
	HorizonMonths   int
	HorizonDays     float64
}

// ComputeBaseline derives current and target revenue from the daily revenue
// facts. GapRevenue can be negative when growthPct is negative (contraction).
func ComputeBaseline(facts []domain.DailyRevenue, growthPct float64, horizonMonths int) Baseline {
	var total float64
	for _, f := range facts {
		total += f.Revenue
	}

	avgDaily := 0.0
	if len(facts) > 0 {
		avgDaily = total / float64(len(facts))
	}

	monthly := avgDaily * 30
	current := monthly * float64(horizonMonths)
	target := current * (1 + growthPct/100)

	return Baseline{
		AvgDailyRevenue: avgDaily,
		MonthlyRevenue:  monthly,
		CurrentRevenue:  current,
		TargetRevenue:   target,
		GapRevenue:      target - current,
		HorizonMonths:   horizonMonths,
		HorizonDays:     float64(horizonMonths) * 30,
	}
}
