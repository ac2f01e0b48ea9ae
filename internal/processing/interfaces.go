package processing

import (
	"context"

	"github.com/fleetsync/fleetsync/internal/domain/entity"
)

//go:generate mockgen -source=interfaces.go -package=mock -destination=./mock/mock_processing.go

// Backend is the monitoring server API used by the follow-up fetches.
type Backend interface {
	GetHosts(ctx context.Context) ([]entity.Host, error)
	GetClusters(ctx context.Context) ([]entity.Cluster, error)
	GetSAPSystems(ctx context.Context) ([]entity.SAPSystem, error)
	GetDatabases(ctx context.Context) ([]entity.Database, error)
	GetHealthSummary(ctx context.Context) ([]entity.SAPSystemHealth, error)
	GetSettings(ctx context.Context) (entity.Settings, error)
	GetCatalog(ctx context.Context, query entity.CatalogQuery) ([]entity.Check, error)
	GetLastExecution(ctx context.Context, groupID string) (*entity.Execution, error)
	SaveChecksSelection(ctx context.Context, targetType entity.TargetType, targetID string, checks []string) error
	RequestExecution(ctx context.Context, targetType entity.TargetType, targetID string) error
}

// Versioned exposes the version of a state, bumped on every change.
type Versioned interface {
	Version() uint64
}
