// internal/repository/snapshot_repository.go
package repository

import (
	"context"

	"github.com/fashionbi/growth-engine/internal/domain"
)

// SnapshotRepository supplies the raw input collections one simulation run
// consumes. Every method scopes to the filter's store; implementations
// perform no aggregation beyond the query itself.
type SnapshotRepository interface {
	GetDailyRevenue(ctx context.Context, filter domain.SnapshotFilter) ([]domain.DailyRevenue, error)
	GetSkuSummaries(ctx context.Context, filter domain.SnapshotFilter) ([]domain.SkuSummary, error)
	GetFamilyCodes(ctx context.Context, filter domain.SnapshotFilter) ([]domain.FamilyCode, error)
	GetSkuMappings(ctx context.Context, filter domain.SnapshotFilter) ([]domain.SkuMapping, error)
	GetInventory(ctx context.Context, filter domain.SnapshotFilter) ([]domain.InventoryRow, error)
	GetDemand(ctx context.Context, filter domain.SnapshotFilter) ([]domain.DemandRow, error)
	GetOrderLines(ctx context.Context, filter domain.SnapshotFilter) ([]domain.OrderLine, error)
	GetManualHeroCodes(ctx context.Context, filter domain.SnapshotFilter) ([]string, error)
}
