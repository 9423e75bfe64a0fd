package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/haseebmalik18/switchr/internal/ports"
	"github.com/haseebmalik18/switchr/internal/shared"
	"github.com/haseebmalik18/switchr/internal/types"
)

const defaultNpmRegistry = "https://registry.npmjs.org"

// NpmAdapter manages Node packages: declared state from package.json,
// installed state from node_modules, registry metadata from the npm
// registry, mutations through the npm CLI.
type NpmAdapter struct {
	Executor    ports.ExecutorPort
	ProjectPath string
	RegistryURL string
	Client      *http.Client
}

func NewNpmAdapter(executor ports.ExecutorPort, projectPath string) *NpmAdapter {
	return &NpmAdapter{
		Executor:    executor,
		ProjectPath: projectPath,
		RegistryURL: defaultNpmRegistry,
		Client:      newRegistryClient(),
	}
}

func (a *NpmAdapter) Ecosystem() types.Ecosystem {
	return types.EcosystemNpm
}

type packageJSON struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func (a *NpmAdapter) ListInstalled(ctx context.Context) ([]types.PackageRecord, error) {
	manifestPath := filepath.Join(a.ProjectPath, "package.json")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []types.PackageRecord{}, nil
		}
		return nil, shared.ManifestReadError(manifestPath, err)
	}
	var manifest packageJSON
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, shared.ManifestReadError(manifestPath, err)
	}

	names := make([]string, 0, len(manifest.Dependencies)+len(manifest.DevDependencies))
	constraints := map[string]string{}
	for name, constraint := range manifest.Dependencies {
		names = append(names, name)
		constraints[name] = constraint
	}
	for name, constraint := range manifest.DevDependencies {
		if _, seen := constraints[name]; seen {
			continue
		}
		names = append(names, name)
		constraints[name] = constraint
	}
	sort.Strings(names)

	records := make([]types.PackageRecord, 0, len(names))
	for _, name := range names {
		records = append(records, types.PackageRecord{
			Name:               name,
			Ecosystem:          types.EcosystemNpm,
			DeclaredConstraint: constraints[name],
			InstalledVersion:   a.installedVersion(name),
		})
	}
	return records, nil
}

// installedVersion reads node_modules/<name>/package.json; empty when
// the package is declared but not installed.
func (a *NpmAdapter) installedVersion(name string) string {
	path := filepath.Join(a.ProjectPath, "node_modules", filepath.FromSlash(name), "package.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var manifest packageJSON
	if err := json.Unmarshal(data, &manifest); err != nil {
		return ""
	}
	return manifest.Version
}

type npmPackumentAbbrev struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	DistTags    map[string]string `json:"dist-tags"`
	Homepage    string            `json:"homepage"`
	Repository  struct {
		URL string `json:"url"`
	} `json:"repository"`
	Time map[string]string `json:"time"`
}

func (a *NpmAdapter) QueryRegistry(ctx context.Context, name string) (types.RegistryInfo, error) {
	var packument npmPackumentAbbrev
	endpoint := a.RegistryURL + "/" + url.PathEscape(name)
	if err := fetchJSON(ctx, a.Client, "npm", name, endpoint, &packument); err != nil {
		return types.RegistryInfo{}, err
	}
	info := types.RegistryInfo{
		Name:          name,
		LatestVersion: packument.DistTags["latest"],
		Description:   packument.Description,
		Homepage:      packument.Homepage,
		Repository:    packument.Repository.URL,
	}
	if stamp, ok := packument.Time[info.LatestVersion]; ok {
		if at, err := time.Parse(time.RFC3339, stamp); err == nil {
			info.LastUpdated = &at
		}
	}
	return info, nil
}

type npmSearchResponse struct {
	Objects []struct {
		Package struct {
			Name        string `json:"name"`
			Version     string `json:"version"`
			Description string `json:"description"`
			Date        string `json:"date"`
			Links       struct {
				Homepage   string `json:"homepage"`
				Repository string `json:"repository"`
			} `json:"links"`
		} `json:"package"`
	} `json:"objects"`
}

func (a *NpmAdapter) Search(ctx context.Context, query string, limit int) ([]types.SearchResult, error) {
	endpoint, err := url.Parse(a.RegistryURL + "/-/v1/search")
	if err != nil {
		return nil, shared.RegistryUnavailableError("npm", err)
	}
	values := endpoint.Query()
	values.Set("text", query)
	values.Set("size", strconv.Itoa(limit))
	endpoint.RawQuery = values.Encode()

	var parsed npmSearchResponse
	if err := fetchJSON(ctx, a.Client, "npm", query, endpoint.String(), &parsed); err != nil {
		return nil, err
	}

	results := make([]types.SearchResult, 0, len(parsed.Objects))
	for _, object := range parsed.Objects {
		result := types.SearchResult{
			Name:        object.Package.Name,
			Type:        types.ResultTypeDependency,
			Ecosystem:   types.EcosystemNpm,
			Version:     object.Package.Version,
			Description: object.Package.Description,
			Repository:  object.Package.Links.Repository,
			Homepage:    object.Package.Links.Homepage,
		}
		if at, err := time.Parse(time.RFC3339, object.Package.Date); err == nil {
			result.LastUpdated = &at
		}
		results = append(results, result)
	}
	return results, nil
}

type npmLatestManifest struct {
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies"`
}

// Dependencies reports the latest manifest's dependency edges, sorted
// by name so repeated builds see a stable order.
func (a *NpmAdapter) Dependencies(ctx context.Context, name string) ([]types.DependencyRef, error) {
	var manifest npmLatestManifest
	endpoint := a.RegistryURL + "/" + url.PathEscape(name) + "/latest"
	if err := fetchJSON(ctx, a.Client, "npm", name, endpoint, &manifest); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(manifest.Dependencies))
	for dep := range manifest.Dependencies {
		names = append(names, dep)
	}
	sort.Strings(names)

	refs := make([]types.DependencyRef, 0, len(names))
	for _, dep := range names {
		refs = append(refs, types.DependencyRef{Name: dep, Constraint: manifest.Dependencies[dep]})
	}
	return refs, nil
}

func (a *NpmAdapter) Install(ctx context.Context, name string, constraint string) (types.PackageRecord, error) {
	spec := name
	if constraint != "" {
		// "==1.2.3" and "=1.2.3" pins map onto npm's exact form.
		spec = name + "@" + strings.TrimLeft(constraint, "=")
	}
	result, err := a.Executor.Execute(ctx, "npm", "install", spec, "--save", "--prefix", a.ProjectPath)
	if err != nil {
		return types.PackageRecord{}, shared.RegistryUnavailableError("npm", err)
	}
	if result.ExitCode != 0 {
		return types.PackageRecord{}, shared.OperationError("npm install",
			shared.CommandError([]byte(result.Stderr), shared.ExitStatusError(result.ExitCode, spec)))
	}
	record := types.PackageRecord{
		Name:               name,
		Ecosystem:          types.EcosystemNpm,
		DeclaredConstraint: constraint,
		InstalledVersion:   a.installedVersion(name),
	}
	log.Ctx(ctx).Info().Str("package", name).Str("version", record.InstalledVersion).Msg("npm package installed")
	return record, nil
}

func (a *NpmAdapter) Remove(ctx context.Context, name string, force bool) (bool, error) {
	if !force && !a.declared(name) {
		return false, nil
	}
	result, err := a.Executor.Execute(ctx, "npm", "uninstall", name, "--save", "--prefix", a.ProjectPath)
	if err != nil {
		return false, shared.OperationError("npm uninstall", err)
	}
	if result.ExitCode != 0 {
		return false, shared.OperationError("npm uninstall",
			shared.CommandError([]byte(result.Stderr), shared.ExitStatusError(result.ExitCode, name)))
	}
	return true, nil
}

func (a *NpmAdapter) declared(name string) bool {
	data, err := os.ReadFile(filepath.Join(a.ProjectPath, "package.json"))
	if err != nil {
		return false
	}
	var manifest packageJSON
	if err := json.Unmarshal(data, &manifest); err != nil {
		return false
	}
	if _, ok := manifest.Dependencies[name]; ok {
		return true
	}
	_, ok := manifest.DevDependencies[name]
	return ok
}
