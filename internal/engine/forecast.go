package engine

// ForecastResult is the demand extrapolation for one family code over the
// simulation horizon.
type ForecastResult struct {
	TrendRatio         float64
	Velocity           float64
	Demand             float64
	DaysOfCoverCurrent float64
}

// forecastVelocity extrapolates daily velocity using a bounded trend ratio.
// Bounding prevents runaway extrapolation from noisy short-window data.
func forecastVelocity(agg FCAggregate, cfg Config) float64 {
	return agg.VelocityDaily * trendRatio(agg, cfg)
}

func trendRatio(agg FCAggregate, cfg Config) float64 {
	ratio := 1.0
	if agg.VelocityDaily > 0 {
		ratio = agg.Velocity7Day / agg.VelocityDaily
	}
	return clamp(ratio, cfg.TrendRatioMin, cfg.TrendRatioMax)
}

// Forecast computes the horizon demand and the current days of cover for one
// family code.
func Forecast(agg FCAggregate, horizonDays float64, cfg Config) ForecastResult {
	ratio := trendRatio(agg, cfg)
	velocity := agg.VelocityDaily * ratio

	return ForecastResult{
		TrendRatio:         ratio,
		Velocity:           velocity,
		Demand:             velocity * horizonDays,
		DaysOfCoverCurrent: daysOfCover(agg.OnHandQuantity, velocity),
	}
}
