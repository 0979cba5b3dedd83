package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fashionbi/growth-engine/internal/cache"
	"github.com/fashionbi/growth-engine/internal/domain"
	"github.com/fashionbi/growth-engine/internal/engine"
	"github.com/fashionbi/growth-engine/internal/repository"
	"github.com/fashionbi/growth-engine/pkg/metrics"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// SimulationService orchestrates one simulation run: cache lookup, parallel
// snapshot fetch, engine execution, cache fill. If any upstream collection
// fails to load the whole run aborts; no partial simulation is ever
// returned.
type SimulationService struct {
	repo      repository.SnapshotRepository
	cache     cache.SimulationCache
	recorder  *metrics.Recorder
	engineCfg engine.Config

	revenueDays int
	orderDays   int
}

func NewSimulationService(repo repository.SnapshotRepository, cacheImpl cache.SimulationCache, recorder *metrics.Recorder, revenueDays, orderDays int) *SimulationService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopSimulationCache()
	}
	if revenueDays <= 0 {
		revenueDays = 90
	}
	if orderDays <= 0 {
		orderDays = 30
	}
	return &SimulationService{
		repo:        repo,
		cache:       cacheImpl,
		recorder:    recorder,
		engineCfg:   engine.DefaultConfig(),
		revenueDays: revenueDays,
		orderDays:   orderDays,
	}
}

// EngineConfig exposes the engine defaults, e.g. for the defaults endpoint.
func (s *SimulationService) EngineConfig() engine.Config {
	return s.engineCfg
}

// InvalidateCache drops cached simulation results, for one store or for all
// stores when storeID is 0. Used after reseeding snapshot data.
func (s *SimulationService) InvalidateCache(ctx context.Context, storeID int64) error {
	if storeID > 0 {
		return s.cache.InvalidateStore(ctx, storeID)
	}
	return s.cache.InvalidateAll(ctx)
}

// Simulate runs one growth simulation for a store. A nil response with nil
// error is the "insufficient data" outcome.
func (s *SimulationService) Simulate(ctx context.Context, storeID int64, params domain.SimulationParams) (*domain.SimulationResponse, error) {
	start := time.Now()

	if resp, ok, err := s.cache.Get(ctx, storeID, params); err == nil && ok {
		s.recordCache("hit")
		return resp, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("simulation: cache get failed")
	}
	s.recordCache("miss")

	snap, err := s.fetchSnapshot(ctx, storeID)
	if err != nil {
		s.recordRun("error", start)
		return nil, err
	}

	resp, err := engine.Run(*snap, params, s.engineCfg)
	if err != nil {
		s.recordRun("error", start)
		return nil, err
	}
	if resp == nil {
		s.recordRun("insufficient_data", start)
		return nil, nil
	}

	if err := s.cache.Set(ctx, storeID, params, resp); err != nil {
		log.Warn().Err(err).Msg("simulation: cache set failed")
	}

	s.recordRun("ok", start)
	return resp, nil
}

// fetchSnapshot loads every input collection in parallel. The queries are
// independent reads with no ordering dependency on each other.
func (s *SimulationService) fetchSnapshot(ctx context.Context, storeID int64) (*engine.Snapshot, error) {
	filter := domain.SnapshotFilter{
		StoreID:     storeID,
		RevenueDays: s.revenueDays,
		OrderDays:   s.orderDays,
	}

	snap := &engine.Snapshot{Now: time.Now().UTC()}

	g, gctx := errgroup.WithContext(ctx)

	fetch := func(collection string, load func(context.Context) error) {
		g.Go(func() error {
			begun := time.Now()
			if err := load(gctx); err != nil {
				return fmt.Errorf("fetch %s: %w", collection, err)
			}
			if s.recorder != nil {
				s.recorder.RecordSnapshotFetch(collection, time.Since(begun))
			}
			return nil
		})
	}

	fetch("daily_revenue", func(ctx context.Context) (err error) {
		snap.RevenueFacts, err = s.repo.GetDailyRevenue(ctx, filter)
		return err
	})
	fetch("sku_summaries", func(ctx context.Context) (err error) {
		snap.Skus, err = s.repo.GetSkuSummaries(ctx, filter)
		return err
	})
	fetch("family_codes", func(ctx context.Context) (err error) {
		snap.FamilyCodes, err = s.repo.GetFamilyCodes(ctx, filter)
		return err
	})
	fetch("sku_mappings", func(ctx context.Context) (err error) {
		snap.Mappings, err = s.repo.GetSkuMappings(ctx, filter)
		return err
	})
	fetch("inventory", func(ctx context.Context) (err error) {
		snap.Inventory, err = s.repo.GetInventory(ctx, filter)
		return err
	})
	fetch("demand", func(ctx context.Context) (err error) {
		snap.Demand, err = s.repo.GetDemand(ctx, filter)
		return err
	})
	fetch("order_lines", func(ctx context.Context) (err error) {
		snap.Orders, err = s.repo.GetOrderLines(ctx, filter)
		return err
	})
	fetch("manual_heroes", func(ctx context.Context) (err error) {
		snap.ManualHeroes, err = s.repo.GetManualHeroCodes(ctx, filter)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return snap, nil
}

func (s *SimulationService) recordRun(outcome string, start time.Time) {
	if s.recorder != nil {
		s.recorder.RecordRun(outcome, time.Since(start))
	}
}

func (s *SimulationService) recordCache(result string) {
	if s.recorder != nil {
		s.recorder.RecordCacheLookup(result)
	}
}
