package app

import (
	"context"
	"sync"

	"github.com/haseebmalik18/switchr/internal/ports"
	"github.com/haseebmalik18/switchr/internal/shared"
	"github.com/haseebmalik18/switchr/internal/types"
)

// scriptedAdapter is a configurable EcosystemPort recording call
// counts so tests can observe caching and invalidation.
type scriptedAdapter struct {
	mu        sync.Mutex
	ecosystem types.Ecosystem

	installed   []types.PackageRecord
	registry    map[string]types.RegistryInfo
	registryErr map[string]error
	deps        map[string][]types.DependencyRef
	results     []types.SearchResult
	installErr  error
	removeOK    bool

	listCalls     int
	registryCalls int
	installCalls  int
}

func newScriptedAdapter(ecosystem types.Ecosystem) *scriptedAdapter {
	return &scriptedAdapter{
		ecosystem: ecosystem,
		registry:  map[string]types.RegistryInfo{},
		deps:      map[string][]types.DependencyRef{},
		removeOK:  true,
	}
}

func (a *scriptedAdapter) Ecosystem() types.Ecosystem {
	return a.ecosystem
}

func (a *scriptedAdapter) ListInstalled(_ context.Context) ([]types.PackageRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listCalls++
	return append([]types.PackageRecord{}, a.installed...), nil
}

func (a *scriptedAdapter) QueryRegistry(_ context.Context, name string) (types.RegistryInfo, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.registryCalls++
	if err, ok := a.registryErr[name]; ok {
		return types.RegistryInfo{}, err
	}
	if info, ok := a.registry[name]; ok {
		return info, nil
	}
	return types.RegistryInfo{}, shared.PackageNotFoundError(string(a.ecosystem), name)
}

func (a *scriptedAdapter) Search(_ context.Context, _ string, _ int) ([]types.SearchResult, error) {
	return a.results, nil
}

func (a *scriptedAdapter) Dependencies(_ context.Context, name string) ([]types.DependencyRef, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.deps[name], nil
}

func (a *scriptedAdapter) Install(_ context.Context, name string, constraint string) (types.PackageRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.installCalls++
	if a.installErr != nil {
		return types.PackageRecord{}, a.installErr
	}
	record := types.PackageRecord{
		Name:               name,
		Ecosystem:          a.ecosystem,
		InstalledVersion:   "1.0.0",
		DeclaredConstraint: constraint,
	}
	a.installed = append(a.installed, record)
	return record, nil
}

func (a *scriptedAdapter) Remove(_ context.Context, name string, _ bool) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.removeOK {
		return false, nil
	}
	kept := a.installed[:0]
	for _, record := range a.installed {
		if record.Name != name {
			kept = append(kept, record)
		}
	}
	a.installed = kept
	return true, nil
}

type staticCatalog struct {
	templates      []types.ServiceTemplate
	runtimes       []types.RuntimeStatus
	templatesCalls int
}

func (c *staticCatalog) ServiceTemplates() ([]types.ServiceTemplate, error) {
	c.templatesCalls++
	return c.templates, nil
}

func (c *staticCatalog) RuntimeStatus(_ context.Context) ([]types.RuntimeStatus, error) {
	return c.runtimes, nil
}

type noopExecutor struct{}

func (noopExecutor) Execute(_ context.Context, _ string, _ ...string) (ports.ExecResult, error) {
	return ports.ExecResult{}, nil
}

func (noopExecutor) ExecuteIn(_ context.Context, _ string, _ string, _ ...string) (ports.ExecResult, error) {
	return ports.ExecResult{}, nil
}

func (noopExecutor) LookPath(_ string) (string, bool) {
	return "", false
}
