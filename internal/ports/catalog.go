package ports

import (
	"context"

	"github.com/haseebmalik18/switchr/internal/types"
)

// CatalogPort exposes the runtime/service template catalog as a
// search and status contributor.
type CatalogPort interface {
	ServiceTemplates() ([]types.ServiceTemplate, error)
	RuntimeStatus(ctx context.Context) ([]types.RuntimeStatus, error)
}

// ConfigStorePort loads and persists the project-scoped configuration.
type ConfigStorePort interface {
	Load() (types.Config, error)
	Save(cfg types.Config) error
}
