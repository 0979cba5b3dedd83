package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fashionbi/growth-engine/internal/config"
	"github.com/fashionbi/growth-engine/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	simulationKeyPrefix     = "growth_sim:result"
	simulationScanBatchSize = 100
)

// SimulationCache is a short-TTL read-through cache for simulation
// responses. The key covers the store and every parameter so results never
// leak across tenants or differing runs.
type SimulationCache interface {
	Get(ctx context.Context, storeID int64, params domain.SimulationParams) (*domain.SimulationResponse, bool, error)
	Set(ctx context.Context, storeID int64, params domain.SimulationParams, resp *domain.SimulationResponse) error
	InvalidateStore(ctx context.Context, storeID int64) error
	InvalidateAll(ctx context.Context) error
}

type redisSimulationCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopSimulationCache struct{}

func NewSimulationCache(cfg config.CacheConfig) (SimulationCache, error) {
	if !cfg.Enabled {
		return &noopSimulationCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisSimulationCache{client: client, ttl: ttl}, nil
}

func NewNoopSimulationCache() SimulationCache {
	return &noopSimulationCache{}
}

func (c *redisSimulationCache) Get(ctx context.Context, storeID int64, params domain.SimulationParams) (*domain.SimulationResponse, bool, error) {
	key := buildSimulationKey(storeID, params)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var resp domain.SimulationResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, false, fmt.Errorf("decode simulation cache: %w", err)
	}

	return &resp, true, nil
}

func (c *redisSimulationCache) Set(ctx context.Context, storeID int64, params domain.SimulationParams, resp *domain.SimulationResponse) error {
	if resp == nil {
		return nil
	}

	key := buildSimulationKey(storeID, params)
	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode simulation cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisSimulationCache) InvalidateStore(ctx context.Context, storeID int64) error {
	prefix := fmt.Sprintf("%s:%d:", simulationKeyPrefix, storeID)
	return deleteKeysWithPrefix(ctx, c.client, prefix, simulationScanBatchSize)
}

func (c *redisSimulationCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, simulationKeyPrefix, simulationScanBatchSize)
}

func (n *noopSimulationCache) Get(ctx context.Context, storeID int64, params domain.SimulationParams) (*domain.SimulationResponse, bool, error) {
	return nil, false, nil
}

func (n *noopSimulationCache) Set(ctx context.Context, storeID int64, params domain.SimulationParams, resp *domain.SimulationResponse) error {
	return nil
}

func (n *noopSimulationCache) InvalidateStore(ctx context.Context, storeID int64) error {
	return nil
}

func (n *noopSimulationCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildSimulationKey(storeID int64, params domain.SimulationParams) string {
	return fmt.Sprintf("%s:%d:%s", simulationKeyPrefix, storeID, paramsHash(params))
}

// paramsHash builds a stable digest over every simulation parameter.
func paramsHash(params domain.SimulationParams) string {
	raw := fmt.Sprintf("growth=%.4f|months=%d|doc_hero=%.4f|doc_non_hero=%.4f|safety=%.4f|cash=%.4f|capacity=%.4f|overstock=%.4f",
		params.GrowthPct,
		params.HorizonMonths,
		params.DOCTargetHero,
		params.DOCTargetNonHero,
		params.SafetyStockPct,
		params.CashCap,
		params.CapacityCap,
		params.OverstockThresholdRatio,
	)
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}
