package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/haseebmalik18/switchr/internal/shared"
	"github.com/haseebmalik18/switchr/internal/types"
)

// GetPackageStatus aggregates installed dependencies across every
// registered ecosystem with runtime and service catalog status. The
// result is cached for a short TTL; mutating operations invalidate it.
func (s *Service) GetPackageStatus(ctx context.Context) (StatusResult, error) {
	value, err := s.Cache.GetOrCompute(ctx, statusKey, s.Config.StatusTTL, func(ctx context.Context) (any, error) {
		return s.collectStatus(ctx), nil
	})
	if err != nil {
		return StatusResult{}, err
	}
	return value.(StatusResult), nil
}

// collectStatus never fails: a malformed manifest or missing catalog
// degrades to empty data for that contributor, logged per item.
func (s *Service) collectStatus(ctx context.Context) StatusResult {
	result := StatusResult{
		Dependencies: map[types.Ecosystem][]types.PackageRecord{},
	}

	for _, ecosystem := range s.ordered {
		records, err := s.adapters[ecosystem].ListInstalled(ctx)
		if err != nil {
			if shared.IsManifestRead(err) {
				log.Ctx(ctx).Warn().
					Str("ecosystem", string(ecosystem)).
					Err(err).
					Msg("manifest unreadable, reporting no packages")
				records = []types.PackageRecord{}
			} else {
				log.Ctx(ctx).Error().
					Str("ecosystem", string(ecosystem)).
					Err(err).
					Msg("list installed failed")
				records = []types.PackageRecord{}
			}
		}
		result.Dependencies[ecosystem] = records
	}

	if s.Catalog != nil {
		if runtimes, err := s.Catalog.RuntimeStatus(ctx); err == nil {
			result.Runtimes = runtimes
		} else {
			log.Ctx(ctx).Warn().Err(err).Msg("runtime status unavailable")
		}
		if templates, err := s.serviceTemplates(ctx); err == nil {
			result.Services = templates
		} else {
			log.Ctx(ctx).Warn().Err(err).Msg("service catalog unavailable")
		}
	}
	return result
}

// serviceTemplates caches the catalog under its own long TTL; the
// entry survives the status invalidation mutating operations perform,
// since template metadata does not change when packages do.
func (s *Service) serviceTemplates(ctx context.Context) ([]types.ServiceTemplate, error) {
	value, err := s.Cache.GetOrCompute(ctx, catalogKey, s.Config.CatalogTTL, func(context.Context) (any, error) {
		return s.Catalog.ServiceTemplates()
	})
	if err != nil {
		return nil, err
	}
	return value.([]types.ServiceTemplate), nil
}
