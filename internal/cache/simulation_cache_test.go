package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/fashionbi/growth-engine/internal/config"
	"github.com/fashionbi/growth-engine/internal/domain"
)

func sampleParams() domain.SimulationParams {
	return domain.SimulationParams{
		GrowthPct:               20,
		HorizonMonths:           3,
		DOCTargetHero:           60,
		DOCTargetNonHero:        30,
		SafetyStockPct:          15,
		OverstockThresholdRatio: 1.5,
	}
}

func TestParamsHashStable(t *testing.T) {
	a := paramsHash(sampleParams())
	b := paramsHash(sampleParams())
	if a != b {
		t.Errorf("identical params hashed differently: %s vs %s", a, b)
	}
}

func TestParamsHashCoversEveryField(t *testing.T) {
	base := paramsHash(sampleParams())

	mutations := map[string]func(*domain.SimulationParams){
		"GrowthPct":               func(p *domain.SimulationParams) { p.GrowthPct = 25 },
		"HorizonMonths":           func(p *domain.SimulationParams) { p.HorizonMonths = 6 },
		"DOCTargetHero":           func(p *domain.SimulationParams) { p.DOCTargetHero = 45 },
		"DOCTargetNonHero":        func(p *domain.SimulationParams) { p.DOCTargetNonHero = 20 },
		"SafetyStockPct":          func(p *domain.SimulationParams) { p.SafetyStockPct = 10 },
		"CashCap":                 func(p *domain.SimulationParams) { p.CashCap = 1_000_000 },
		"CapacityCap":             func(p *domain.SimulationParams) { p.CapacityCap = 500 },
		"OverstockThresholdRatio": func(p *domain.SimulationParams) { p.OverstockThresholdRatio = 2 },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			params := sampleParams()
			mutate(&params)
			if paramsHash(params) == base {
				t.Errorf("changing %s did not change the cache key", name)
			}
		})
	}
}

func TestBuildSimulationKeyIsStoreScoped(t *testing.T) {
	a := buildSimulationKey(1, sampleParams())
	b := buildSimulationKey(2, sampleParams())

	if a == b {
		t.Errorf("different stores share a cache key: %s", a)
	}
	if !strings.HasPrefix(a, "growth_sim:result:1:") {
		t.Errorf("key = %s, want growth_sim:result:1: prefix", a)
	}
}

func TestNewSimulationCacheDisabled(t *testing.T) {
	c, err := NewSimulationCache(config.CacheConfig{Enabled: false})
	if err != nil {
		t.Fatalf("NewSimulationCache() error = %v", err)
	}
	if _, ok := c.(*noopSimulationCache); !ok {
		t.Errorf("disabled cache should be the noop implementation, got %T", c)
	}
}

func TestNoopCacheAlwaysMisses(t *testing.T) {
	c := NewNoopSimulationCache()
	ctx := context.Background()

	if err := c.Set(ctx, 1, sampleParams(), &domain.SimulationResponse{}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	resp, ok, err := c.Get(ctx, 1, sampleParams())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok || resp != nil {
		t.Errorf("noop cache returned a hit")
	}
}
