package core

import (
	"context"

	"github.com/haseebmalik18/switchr/internal/shared"
	"github.com/haseebmalik18/switchr/internal/types"
)

// fakeEcosystem is a scripted EcosystemPort for core tests.
type fakeEcosystem struct {
	ecosystem types.Ecosystem
	installed []types.PackageRecord
	registry  map[string]types.RegistryInfo
	deps      map[string][]types.DependencyRef
	depsErr   map[string]error
	results   []types.SearchResult
	searchErr error
}

func (f *fakeEcosystem) Ecosystem() types.Ecosystem {
	return f.ecosystem
}

func (f *fakeEcosystem) ListInstalled(_ context.Context) ([]types.PackageRecord, error) {
	return f.installed, nil
}

func (f *fakeEcosystem) QueryRegistry(_ context.Context, name string) (types.RegistryInfo, error) {
	if info, ok := f.registry[name]; ok {
		return info, nil
	}
	return types.RegistryInfo{}, shared.PackageNotFoundError(string(f.ecosystem), name)
}

func (f *fakeEcosystem) Search(_ context.Context, _ string, _ int) ([]types.SearchResult, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results, nil
}

func (f *fakeEcosystem) Dependencies(_ context.Context, name string) ([]types.DependencyRef, error) {
	if err, ok := f.depsErr[name]; ok {
		return nil, err
	}
	return f.deps[name], nil
}

func (f *fakeEcosystem) Install(_ context.Context, name string, constraint string) (types.PackageRecord, error) {
	return types.PackageRecord{Name: name, Ecosystem: f.ecosystem, DeclaredConstraint: constraint}, nil
}

func (f *fakeEcosystem) Remove(_ context.Context, _ string, _ bool) (bool, error) {
	return true, nil
}

// fakeCatalog is a scripted CatalogPort.
type fakeCatalog struct {
	templates []types.ServiceTemplate
	runtimes  []types.RuntimeStatus
}

func (f *fakeCatalog) ServiceTemplates() ([]types.ServiceTemplate, error) {
	return f.templates, nil
}

func (f *fakeCatalog) RuntimeStatus(_ context.Context) ([]types.RuntimeStatus, error) {
	return f.runtimes, nil
}
