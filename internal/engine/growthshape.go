package engine

import (
	"sort"
	"strings"
	"time"

	"github.com/fashionbi/growth-engine/internal/domain"
)

// shapeBucket accumulates one category/size/price-band grouping before it is
// projected into a GrowthShapeCategory.
type shapeBucket struct {
	key         string
	count       int
	sumVelocity float64
	sumMargin   float64
	sumDOC      float64
	sumStab     float64
	overstocked int
	revenue     float64
	recentUnits float64
	priorUnits  float64
}

// ClassifyGrowthShape groups family codes by name-derived category, size
// suffix and unit-price band, scores each bucket's efficiency and momentum,
// and recommends expand/hold/avoid per bucket.
func ClassifyGrowthShape(
	aggs []FCAggregate,
	results []domain.FCResult,
	orders []domain.OrderLine,
	mappings []domain.SkuMapping,
	now time.Time,
	cfg Config,
) *domain.GrowthShape {
	resultByCode := make(map[string]domain.FCResult, len(results))
	for _, res := range results {
		resultByCode[res.FCCode] = res
	}

	recent, prior := momentumUnits(orders, mappings, now, cfg.MomentumWindowDays)

	totalRevenue := 0.0
	for _, agg := range aggs {
		totalRevenue += agg.Revenue
	}

	categories := make(map[string]*shapeBucket)
	sizes := make(map[string]*shapeBucket)
	bands := make(map[string]*shapeBucket)

	for _, agg := range aggs {
		res := resultByCode[agg.FCCode]

		accumulate(categories, categorizeName(agg.FCName), agg, res, recent, prior, cfg)
		if size, ok := extractSize(agg.FCName); ok {
			accumulate(sizes, size, agg, res, recent, prior, cfg)
		}
		accumulate(bands, priceBand(agg.AvgUnitPrice), agg, res, recent, prior, cfg)
	}

	catScored := scoreBuckets(categories, totalRevenue, cfg)
	sizeScored := scoreBuckets(sizes, totalRevenue, cfg)
	bandScored := scoreBuckets(bands, totalRevenue, cfg)

	shape := &domain.GrowthShape{
		SizeShifts: sizeScored,
		PriceBands: bandScored,
	}
	for _, c := range catScored {
		switch c.Direction {
		case domain.DirectionExpand:
			shape.ExpandCategories = append(shape.ExpandCategories, c)
		case domain.DirectionAvoid:
			shape.AvoidCategories = append(shape.AvoidCategories, c)
		}
	}

	shape.GravitySummary = gravitySummary(catScored)
	shape.ShapeStatement = shapeStatement(shape.ExpandCategories, shape.AvoidCategories)

	return shape
}

func accumulate(buckets map[string]*shapeBucket, key string, agg FCAggregate, res domain.FCResult, recent, prior map[string]float64, cfg Config) {
	b, ok := buckets[key]
	if !ok {
		b = &shapeBucket{key: key}
		buckets[key] = b
	}

	b.count++
	b.sumVelocity += agg.VelocityDaily
	b.sumMargin += marginPct(agg.AvgUnitPrice, agg.AvgUnitCOGS)
	b.sumDOC += res.DaysOfCoverCurrent
	if res.DaysOfCoverCurrent > cfg.DOCScaleMax {
		b.overstocked++
	}
	b.revenue += agg.Revenue
	b.recentUnits += recent[agg.FCCode]
	b.priorUnits += prior[agg.FCCode]

	stab := 0.0
	if agg.VelocityDaily > 0 {
		stab = clamp(1-abs(agg.Velocity7Day-agg.VelocityDaily)/agg.VelocityDaily, 0, 1)
	}
	b.sumStab += stab
}

// scoreBuckets projects accumulated buckets into scored categories, ordered
// by efficiency descending then key for determinism.
func scoreBuckets(buckets map[string]*shapeBucket, totalRevenue float64, cfg Config) []domain.GrowthShapeCategory {
	maxVelocity := 0.0
	for _, b := range buckets {
		if v := b.avgVelocity(); v > maxVelocity {
			maxVelocity = v
		}
	}

	out := make([]domain.GrowthShapeCategory, 0, len(buckets))
	for _, b := range buckets {
		n := float64(b.count)
		avgVelocity := b.avgVelocity()
		avgMargin := b.sumMargin / n
		avgDOC := b.sumDOC / n
		overstockRatio := float64(b.overstocked) / n
		stability := b.sumStab / n

		revenueShare := 0.0
		if totalRevenue > 0 {
			revenueShare = b.revenue / totalRevenue
		}

		velocityPart := 0.0
		if maxVelocity > 0 {
			velocityPart = avgVelocity / maxVelocity
		}

		// Up to 10 bonus points; a 20% revenue share maxes it out.
		bonus := clamp(revenueShare*100*0.5, 0, 10)

		efficiency := clamp(40*velocityPart+25*(avgMargin/100)+20*(1-overstockRatio)+15*stability+bonus, 0, 100)

		momentum := 0.0
		if b.priorUnits > 0 {
			momentum = (b.recentUnits - b.priorUnits) / b.priorUnits * 100
		}

		direction := domain.DirectionHold
		switch {
		case efficiency < cfg.EfficiencyLowThreshold || momentum < cfg.MomentumDeclineCutoffPct:
			direction = domain.DirectionAvoid
		case efficiency >= cfg.EfficiencyHighThreshold && momentum >= cfg.MomentumExpandFloorPct:
			direction = domain.DirectionExpand
		}

		out = append(out, domain.GrowthShapeCategory{
			Category:        b.key,
			FCCount:         b.count,
			AvgVelocity:     avgVelocity,
			MomentumPct:     momentum,
			AvgMarginPct:    avgMargin,
			AvgDaysOfCover:  avgDOC,
			OverstockRatio:  overstockRatio,
			RevenueShare:    revenueShare,
			EfficiencyScore: efficiency,
			EfficiencyLabel: efficiencyLabel(efficiency, cfg),
			Direction:       direction,
			Reason:          directionReason(direction, efficiency, momentum),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].EfficiencyScore != out[j].EfficiencyScore {
			return out[i].EfficiencyScore > out[j].EfficiencyScore
		}
		return out[i].Category < out[j].Category
	})

	return out
}

func (b *shapeBucket) avgVelocity() float64 {
	if b.count == 0 {
		return 0
	}
	return b.sumVelocity / float64(b.count)
}

// momentumUnits splits the order history into a recent and a prior window of
// equal length and sums units sold per family code through the SKU map.
func momentumUnits(orders []domain.OrderLine, mappings []domain.SkuMapping, now time.Time, windowDays int) (recent, prior map[string]float64) {
	fcBySku := make(map[string]string, len(mappings))
	for _, m := range mappings {
		fcBySku[m.SKU] = m.FCCode
	}

	half := time.Duration(windowDays) * 24 * time.Hour / 2
	midpoint := now.Add(-half)
	start := now.Add(-2 * half)

	recent = make(map[string]float64)
	prior = make(map[string]float64)
	for _, line := range orders {
		fc, ok := fcBySku[line.SKU]
		if !ok {
			continue
		}
		switch {
		case line.OrderedAt.After(midpoint) && !line.OrderedAt.After(now):
			recent[fc] += line.Quantity
		case line.OrderedAt.After(start) && !line.OrderedAt.After(midpoint):
			prior[fc] += line.Quantity
		}
	}

	return recent, prior
}

// categorizeName maps a family-code name to a merchandising category by
// keyword. Order matters: outerwear and sets are checked before the generic
// tops keywords so "áo khoác" does not land in tops.
func categorizeName(name string) string {
	n := strings.ToLower(name)

	switch {
	case containsAny(n, "set ", " set", "bộ ", "jumpsuit"):
		return "sets"
	case containsAny(n, "khoác", "jacket", "coat", "blazer", "cardigan"):
		return "outerwear"
	case containsAny(n, "đầm", "dress"):
		return "dresses"
	case containsAny(n, "chân váy", "váy", "skirt"):
		return "skirts"
	case containsAny(n, "quần", "pants", "jeans", "shorts"):
		return "bottoms"
	case containsAny(n, "áo", "top", "shirt", "tee", "blouse"):
		return "tops"
	default:
		return "other"
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

var knownSizes = map[string]bool{"XS": true, "S": true, "M": true, "L": true, "XL": true}

// extractSize pulls a trailing size token (XS..XL) off the family-code name.
func extractSize(name string) (string, bool) {
	fields := strings.Fields(strings.ToUpper(strings.ReplaceAll(name, "-", " ")))
	if len(fields) == 0 {
		return "", false
	}
	last := fields[len(fields)-1]
	if knownSizes[last] {
		return last, true
	}
	return "", false
}

// priceBand buckets the average unit price in the tenant currency's
// minor-unit-free value (thousands).
func priceBand(price float64) string {
	switch {
	case price < 300_000:
		return "<300K"
	case price < 500_000:
		return "300-500K"
	case price <= 1_000_000:
		return "500K-1M"
	default:
		return ">1M"
	}
}
