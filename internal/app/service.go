package app

import (
	"fmt"
	"time"

	"github.com/haseebmalik18/switchr/internal/adapters"
	"github.com/haseebmalik18/switchr/internal/core"
	"github.com/haseebmalik18/switchr/internal/ports"
	"github.com/haseebmalik18/switchr/internal/shared"
	"github.com/haseebmalik18/switchr/internal/types"
)

// Service is the package manager orchestrator: it owns the result
// cache and the adapter registry and is the sole entry point for
// CLI-layer callers. One instance per process, scoped to one project.
type Service struct {
	Config   types.Config
	Executor ports.ExecutorPort
	Catalog  ports.CatalogPort
	Cache    *core.ResultCache
	Updates  core.UpdateCheck
	Clock    func() time.Time

	adapters map[types.Ecosystem]ports.EcosystemPort
	ordered  []types.Ecosystem
}

// NewService wires the default adapter set for the configured project.
func NewService(cfg types.Config) *Service {
	cfg = cfg.Defaults()
	executor := adapters.NewExecAdapter()
	service := &Service{
		Config:   cfg,
		Executor: executor,
		Catalog:  adapters.NewCatalogAdapter(executor),
		Cache:    core.NewResultCache(time.Now),
		Updates:  core.NewUpdateCheck(),
		Clock:    time.Now,
		adapters: map[types.Ecosystem]ports.EcosystemPort{},
	}
	service.Register(adapters.NewNpmAdapter(executor, cfg.ProjectPath))
	service.Register(adapters.NewPipAdapter(executor, cfg.ProjectPath))
	service.Register(adapters.NewGoAdapter(executor, cfg.ProjectPath))
	service.Register(adapters.NewMavenAdapter(executor, cfg.ProjectPath))
	service.Register(adapters.NewAptAdapter(executor, cfg.ProjectPath))
	return service
}

// NewServiceWith builds an orchestrator from explicit collaborators;
// used by tests and by callers that swap adapters out.
func NewServiceWith(cfg types.Config, executor ports.ExecutorPort, catalog ports.CatalogPort, ecosystems ...ports.EcosystemPort) *Service {
	cfg = cfg.Defaults()
	service := &Service{
		Config:   cfg,
		Executor: executor,
		Catalog:  catalog,
		Cache:    core.NewResultCache(time.Now),
		Updates:  core.NewUpdateCheck(),
		Clock:    time.Now,
		adapters: map[types.Ecosystem]ports.EcosystemPort{},
	}
	for _, adapter := range ecosystems {
		service.Register(adapter)
	}
	return service
}

// Register adds an ecosystem adapter; later registrations for the
// same ecosystem replace earlier ones.
func (s *Service) Register(adapter ports.EcosystemPort) {
	ecosystem := adapter.Ecosystem()
	if _, exists := s.adapters[ecosystem]; !exists {
		s.ordered = append(s.ordered, ecosystem)
	}
	s.adapters[ecosystem] = adapter
}

// Adapter resolves the adapter for an ecosystem; an unknown ecosystem
// is a caller contract violation, never silently skipped.
func (s *Service) Adapter(ecosystem types.Ecosystem) (ports.EcosystemPort, error) {
	adapter, ok := s.adapters[ecosystem]
	if !ok {
		return nil, shared.UnknownEcosystemError(string(ecosystem))
	}
	return adapter, nil
}

func (s *Service) adapterList() []ports.EcosystemPort {
	list := make([]ports.EcosystemPort, 0, len(s.ordered))
	for _, ecosystem := range s.ordered {
		list = append(list, s.adapters[ecosystem])
	}
	return list
}

// GetStats reports the cache's process-lifetime counters.
func (s *Service) GetStats() types.Stats {
	return s.Cache.Stats()
}

// Cleanup releases cache resources. Safe on a never-used service and
// safe to call repeatedly.
func (s *Service) Cleanup() {
	if s.Cache != nil {
		s.Cache.Close()
	}
}

func registryKey(ecosystem types.Ecosystem, name string) string {
	return fmt.Sprintf("registry:%s:%s", ecosystem, name)
}

func treePrefix(ecosystem types.Ecosystem) string {
	return fmt.Sprintf("tree:%s:", ecosystem)
}

const statusKey = "status"

const catalogKey = "catalog"
