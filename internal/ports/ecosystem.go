package ports

import (
	"context"

	"github.com/haseebmalik18/switchr/internal/types"
)

// EcosystemPort is the capability set implemented once per managed
// runtime family. Registry-facing calls fail with a registry
// unavailable error on network or process failure; callers treat that
// as recoverable. Manifest reads return empty when no manifest is
// present and fail only on malformed content.
type EcosystemPort interface {
	Ecosystem() types.Ecosystem

	ListInstalled(ctx context.Context) ([]types.PackageRecord, error)
	QueryRegistry(ctx context.Context, name string) (types.RegistryInfo, error)
	Search(ctx context.Context, query string, limit int) ([]types.SearchResult, error)

	// Dependencies reports the direct dependency edges of a package
	// as the registry declares them, in declaration order.
	Dependencies(ctx context.Context, name string) ([]types.DependencyRef, error)

	Install(ctx context.Context, name string, constraint string) (types.PackageRecord, error)
	Remove(ctx context.Context, name string, force bool) (bool, error)
}
