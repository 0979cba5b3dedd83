// internal/repository/postgres/snapshot_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/fashionbi/growth-engine/internal/domain"
	"github.com/fashionbi/growth-engine/internal/repository"
	"github.com/jmoiron/sqlx"
)

type snapshotRepository struct {
	db *sqlx.DB
}

// NewSnapshotRepository builds the Postgres-backed snapshot source.
func NewSnapshotRepository(db *sqlx.DB) repository.SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) GetDailyRevenue(ctx context.Context, filter domain.SnapshotFilter) ([]domain.DailyRevenue, error) {
	days := filter.RevenueDays
	if days <= 0 {
		days = 90
	}

	query := `
		SELECT date, SUM(revenue) AS revenue
		FROM daily_revenue_facts
		WHERE store_id = $1
		  AND date >= (current_date - ($2 || ' days')::interval)
		GROUP BY date
		ORDER BY date
	`

	var facts []domain.DailyRevenue
	if err := r.db.SelectContext(ctx, &facts, query, filter.StoreID, days); err != nil {
		return nil, fmt.Errorf("error getting daily revenue: %w", err)
	}

	return facts, nil
}

func (r *snapshotRepository) GetSkuSummaries(ctx context.Context, filter domain.SnapshotFilter) ([]domain.SkuSummary, error) {
	query := `
		SELECT sku, COALESCE(category, '') AS category, revenue, quantity_sold,
		       cogs, gross_profit, avg_unit_price, avg_unit_cogs
		FROM sku_financial_summaries
		WHERE store_id = $1
		ORDER BY sku
	`

	var skus []domain.SkuSummary
	if err := r.db.SelectContext(ctx, &skus, query, filter.StoreID); err != nil {
		return nil, fmt.Errorf("error getting sku summaries: %w", err)
	}

	return skus, nil
}

func (r *snapshotRepository) GetFamilyCodes(ctx context.Context, filter domain.SnapshotFilter) ([]domain.FamilyCode, error) {
	query := `
		SELECT id, store_id, code, name, is_manual_hero, created_at, updated_at
		FROM family_codes
		WHERE store_id = $1
		ORDER BY code
	`

	var codes []domain.FamilyCode
	if err := r.db.SelectContext(ctx, &codes, query, filter.StoreID); err != nil {
		return nil, fmt.Errorf("error getting family codes: %w", err)
	}

	return codes, nil
}

func (r *snapshotRepository) GetSkuMappings(ctx context.Context, filter domain.SnapshotFilter) ([]domain.SkuMapping, error) {
	query := `
		SELECT m.sku, fc.code AS fc_code
		FROM sku_fc_mappings m
		JOIN family_codes fc ON fc.id = m.fc_id
		WHERE fc.store_id = $1
		ORDER BY m.sku
	`

	var mappings []domain.SkuMapping
	if err := r.db.SelectContext(ctx, &mappings, query, filter.StoreID); err != nil {
		return nil, fmt.Errorf("error getting sku mappings: %w", err)
	}

	return mappings, nil
}

func (r *snapshotRepository) GetInventory(ctx context.Context, filter domain.SnapshotFilter) ([]domain.InventoryRow, error) {
	query := `
		SELECT fc.code AS fc_code, i.on_hand
		FROM inventory_positions i
		JOIN family_codes fc ON fc.id = i.fc_id
		WHERE fc.store_id = $1
		ORDER BY fc.code
	`

	var rows []domain.InventoryRow
	if err := r.db.SelectContext(ctx, &rows, query, filter.StoreID); err != nil {
		return nil, fmt.Errorf("error getting inventory positions: %w", err)
	}

	return rows, nil
}

func (r *snapshotRepository) GetDemand(ctx context.Context, filter domain.SnapshotFilter) ([]domain.DemandRow, error) {
	query := `
		SELECT fc.code AS fc_code, d.avg_daily_sales, d.avg_7day_sales,
		       COALESCE(d.trend, '') AS trend
		FROM demand_signals d
		JOIN family_codes fc ON fc.id = d.fc_id
		WHERE fc.store_id = $1
		ORDER BY fc.code, d.avg_daily_sales DESC
	`

	var rows []domain.DemandRow
	if err := r.db.SelectContext(ctx, &rows, query, filter.StoreID); err != nil {
		return nil, fmt.Errorf("error getting demand signals: %w", err)
	}

	return rows, nil
}

func (r *snapshotRepository) GetOrderLines(ctx context.Context, filter domain.SnapshotFilter) ([]domain.OrderLine, error) {
	days := filter.OrderDays
	if days <= 0 {
		days = 30
	}

	// The momentum comparison needs recent and prior windows, so fetch
	// twice the configured window.
	query := `
		SELECT li.sku, li.quantity, o.ordered_at
		FROM order_line_items li
		JOIN orders o ON o.id = li.order_id
		WHERE o.store_id = $1
		  AND o.ordered_at >= (now() - ($2 || ' days')::interval)
		ORDER BY o.ordered_at
	`

	var lines []domain.OrderLine
	if err := r.db.SelectContext(ctx, &lines, query, filter.StoreID, days*2); err != nil {
		return nil, fmt.Errorf("error getting order lines: %w", err)
	}

	return lines, nil
}

func (r *snapshotRepository) GetManualHeroCodes(ctx context.Context, filter domain.SnapshotFilter) ([]string, error) {
	query := `
		SELECT fc.code
		FROM manual_hero_picks p
		JOIN family_codes fc ON fc.id = p.fc_id
		WHERE fc.store_id = $1
		ORDER BY fc.code
	`

	var codes []string
	if err := r.db.SelectContext(ctx, &codes, query, filter.StoreID); err != nil {
		return nil, fmt.Errorf("error getting manual hero picks: %w", err)
	}

	return codes, nil
}
