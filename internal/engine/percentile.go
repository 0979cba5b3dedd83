package engine

import "sort"

// PortfolioBasis holds the sorted distributions and min-max ranges every
// family code is scored against. It must be built from the full fashion set
// before any planning or capping so that iteration order and later
// exclusions cannot affect individual scores.
type PortfolioBasis struct {
	Velocities  []float64
	Margins     []float64
	VelocityMin float64
	VelocityMax float64
	MarginMin   float64
	MarginMax   float64
}

// BuildPortfolioBasis computes the velocity and margin distributions across
// all aggregates.
func BuildPortfolioBasis(aggs []FCAggregate) PortfolioBasis {
	basis := PortfolioBasis{
		Velocities: make([]float64, 0, len(aggs)),
		Margins:    make([]float64, 0, len(aggs)),
	}

	for i, agg := range aggs {
		v := agg.VelocityDaily
		m := marginPct(agg.AvgUnitPrice, agg.AvgUnitCOGS)
		basis.Velocities = append(basis.Velocities, v)
		basis.Margins = append(basis.Margins, m)

		if i == 0 {
			basis.VelocityMin, basis.VelocityMax = v, v
			basis.MarginMin, basis.MarginMax = m, m
			continue
		}
		if v < basis.VelocityMin {
			basis.VelocityMin = v
		}
		if v > basis.VelocityMax {
			basis.VelocityMax = v
		}
		if m < basis.MarginMin {
			basis.MarginMin = m
		}
		if m > basis.MarginMax {
			basis.MarginMax = m
		}
	}

	sort.Float64s(basis.Velocities)
	sort.Float64s(basis.Margins)

	return basis
}

// PercentileRank returns the percentage of values strictly below v. The
// slice must be sorted ascending.
func PercentileRank(v float64, sorted []float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	below := sort.SearchFloat64s(sorted, v)
	return float64(below) / float64(len(sorted)) * 100
}

// marginPct computes the unit margin percentage, 0 when price is 0.
func marginPct(price, cogs float64) float64 {
	if price == 0 {
		return 0
	}
	return (price - cogs) / price * 100
}

// scale linearly maps value from [min,max] into [0,25], clamped. A
// degenerate range maps everything to 0.
func scale(value, min, max float64) float64 {
	if max <= min {
		return 0
	}
	s := (value - min) / (max - min) * 25
	if s < 0 {
		return 0
	}
	if s > 25 {
		return 25
	}
	return s
}
