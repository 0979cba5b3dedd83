package engine

import (
	"sort"

	"github.com/fashionbi/growth-engine/internal/domain"
)

// RiskReport is the bounded portfolio-level risk summary: one aggregated
// entry per flag type plus the concentration check, never one entry per
// family code.
type RiskReport struct {
	Summaries             []domain.PortfolioRisk
	Score                 float64
	ConcentrationPresent  bool
	ConcentrationSeverity domain.Severity
}

var severityRank = map[domain.Severity]int{
	domain.SeverityLow:      0,
	domain.SeverityMedium:   1,
	domain.SeverityHigh:     2,
	domain.SeverityCritical: 3,
}

// AssessRisks evaluates every per-FC flag independently, then aggregates by
// type. An FC may carry multiple flags.
func AssessRisks(results []domain.FCResult, params domain.SimulationParams, cfg Config) (map[string][]domain.RiskFlag, RiskReport) {
	perFC := make(map[string][]domain.RiskFlag, len(results))
	flag := func(res domain.FCResult, f domain.RiskFlag) {
		f.FCCode = res.FCCode
		perFC[res.FCCode] = append(perFC[res.FCCode], f)
	}

	for _, res := range results {
		// Stockout only applies while the item is actually selling; a dead
		// item with stock on hand is a slow-mover problem, not a stockout.
		if res.ForecastVelocity > 0 {
			doc := res.OnHandQuantity / res.ForecastVelocity
			if doc < cfg.LeadTimeBufferDays {
				severity := domain.SeverityHigh
				if res.OnHandQuantity == 0 {
					severity = domain.SeverityCritical
				}
				flag(res, domain.RiskFlag{
					Type:       domain.RiskStockout,
					Severity:   severity,
					Detail:     stockoutDetail(res.FCName, doc),
					Suggestion: stockoutSuggestion(),
				})
			}
		}

		if res.ForecastDemand > 0 && res.OnHandQuantity > res.ForecastDemand*params.OverstockThresholdRatio {
			ratio := res.OnHandQuantity / res.ForecastDemand
			severity := domain.SeverityMedium
			if ratio > cfg.OverstockSevereRatio {
				severity = domain.SeverityHigh
			}
			flag(res, domain.RiskFlag{
				Type:       domain.RiskOverstock,
				Severity:   severity,
				Detail:     overstockDetail(res.FCName, ratio),
				Suggestion: overstockSuggestion(),
			})
		}

		if res.Segment == domain.SegmentSlow && res.OnHandQuantity > 0 {
			severity := domain.SeverityMedium
			if res.VelocityDaily < cfg.SlowVelocityCritical {
				severity = domain.SeverityHigh
			}
			flag(res, domain.RiskFlag{
				Type:       domain.RiskSlowMoverHighStock,
				Severity:   severity,
				Detail:     slowMoverDetail(res.FCName, res.OnHandQuantity, res.VelocityDaily),
				Suggestion: slowMoverSuggestion(),
			})
		}
	}

	report := aggregateRisks(results, perFC, cfg)
	return perFC, report
}

// aggregateRisks folds the per-FC flags into one summary per type and runs
// the portfolio concentration check.
func aggregateRisks(results []domain.FCResult, perFC map[string][]domain.RiskFlag, cfg Config) RiskReport {
	type bucket struct {
		count    int
		worst    domain.Severity
		examples []string
	}
	buckets := make(map[domain.RiskType]*bucket)

	// Walk results, not the map, so example ordering is deterministic.
	for _, res := range results {
		for _, f := range perFC[res.FCCode] {
			b, ok := buckets[f.Type]
			if !ok {
				b = &bucket{worst: f.Severity}
				buckets[f.Type] = b
			}
			b.count++
			if severityRank[f.Severity] > severityRank[b.worst] {
				b.worst = f.Severity
			}
			if len(b.examples) < cfg.RiskExampleLimit {
				b.examples = append(b.examples, res.FCCode)
			}
		}
	}

	var report RiskReport
	for _, t := range []domain.RiskType{domain.RiskStockout, domain.RiskOverstock, domain.RiskSlowMoverHighStock} {
		b, ok := buckets[t]
		if !ok {
			continue
		}
		report.Summaries = append(report.Summaries, domain.PortfolioRisk{
			Type:       t,
			Severity:   b.worst,
			Count:      b.count,
			Examples:   b.examples,
			Detail:     riskTypeDetail(t, b.count),
			Suggestion: riskTypeSuggestion(t),
		})
	}

	if share, ok := concentrationShare(results, cfg.ConcentrationTopN); ok && share > cfg.ConcentrationShare {
		severity := domain.SeverityHigh
		if share > cfg.ConcentrationCriticalShare {
			severity = domain.SeverityCritical
		}
		report.ConcentrationPresent = true
		report.ConcentrationSeverity = severity
		report.Summaries = append(report.Summaries, domain.PortfolioRisk{
			Type:       domain.RiskConcentration,
			Severity:   severity,
			Count:      cfg.ConcentrationTopN,
			Detail:     concentrationDetail(share),
			Suggestion: concentrationSuggestion(),
		})
	}

	sort.SliceStable(report.Summaries, func(i, j int) bool {
		if severityRank[report.Summaries[i].Severity] != severityRank[report.Summaries[j].Severity] {
			return severityRank[report.Summaries[i].Severity] > severityRank[report.Summaries[j].Severity]
		}
		return report.Summaries[i].Count > report.Summaries[j].Count
	})

	report.Score = riskScore(results, perFC, report.ConcentrationPresent)
	return report
}

// concentrationShare returns the share of planned units held by the top-N
// producers. ok is false when nothing is being produced.
func concentrationShare(results []domain.FCResult, topN int) (float64, bool) {
	quantities := make([]float64, 0, len(results))
	total := 0.0
	for _, res := range results {
		if res.ProductionQty > 0 {
			quantities = append(quantities, float64(res.ProductionQty))
			total += float64(res.ProductionQty)
		}
	}
	if total == 0 {
		return 0, false
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(quantities)))
	top := 0.0
	for i, q := range quantities {
		if i >= topN {
			break
		}
		top += q
	}

	return top / total, true
}

// riskScore folds the flag ratios into a 0-100 portfolio score:
// 40 x stockout ratio + 30 x overstock ratio + 30 if concentrated.
func riskScore(results []domain.FCResult, perFC map[string][]domain.RiskFlag, concentrated bool) float64 {
	if len(results) == 0 {
		return 0
	}

	stockouts, overstocks := 0, 0
	for _, res := range results {
		for _, f := range perFC[res.FCCode] {
			switch f.Type {
			case domain.RiskStockout:
				stockouts++
			case domain.RiskOverstock:
				overstocks++
			}
		}
	}

	n := float64(len(results))
	score := 40*float64(stockouts)/n + 30*float64(overstocks)/n
	if concentrated {
		score += 30
	}

	return clamp(score, 0, 100)
}
