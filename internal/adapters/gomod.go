package adapters

import (
	"bufio"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/haseebmalik18/switchr/internal/ports"
	"github.com/haseebmalik18/switchr/internal/shared"
	"github.com/haseebmalik18/switchr/internal/types"
)

const defaultGoProxy = "https://proxy.golang.org"

// GoAdapter manages Go module dependencies: declared state from
// go.mod, registry metadata from the module proxy, mutations through
// the go tool.
type GoAdapter struct {
	Executor    ports.ExecutorPort
	ProjectPath string
	ProxyURL    string
	Client      *http.Client
}

func NewGoAdapter(executor ports.ExecutorPort, projectPath string) *GoAdapter {
	return &GoAdapter{
		Executor:    executor,
		ProjectPath: projectPath,
		ProxyURL:    defaultGoProxy,
		Client:      newRegistryClient(),
	}
}

func (a *GoAdapter) Ecosystem() types.Ecosystem {
	return types.EcosystemGo
}

// ListInstalled parses the go.mod require block. Indirect requirements
// are skipped; they are transitive, not declared.
func (a *GoAdapter) ListInstalled(ctx context.Context) ([]types.PackageRecord, error) {
	manifestPath := filepath.Join(a.ProjectPath, "go.mod")
	file, err := os.Open(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []types.PackageRecord{}, nil
		}
		return nil, shared.ManifestReadError(manifestPath, err)
	}
	defer file.Close()

	records := []types.PackageRecord{}
	inBlock := false
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "require ("):
			inBlock = true
			continue
		case inBlock && line == ")":
			inBlock = false
			continue
		}
		entry := ""
		if inBlock {
			entry = line
		} else if rest, ok := strings.CutPrefix(line, "require "); ok {
			entry = rest
		}
		if entry == "" || strings.Contains(entry, "// indirect") {
			continue
		}
		fields := strings.Fields(entry)
		if len(fields) < 2 {
			continue
		}
		records = append(records, types.PackageRecord{
			Name:               fields[0],
			Ecosystem:          types.EcosystemGo,
			InstalledVersion:   strings.TrimPrefix(fields[1], "v"),
			DeclaredConstraint: fields[1],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, shared.ManifestReadError(manifestPath, err)
	}
	return records, nil
}

type goLatestInfo struct {
	Version string    `json:"Version"`
	Time    time.Time `json:"Time"`
}

func (a *GoAdapter) QueryRegistry(ctx context.Context, name string) (types.RegistryInfo, error) {
	var latest goLatestInfo
	endpoint := a.ProxyURL + "/" + escapeModulePath(name) + "/@latest"
	if err := fetchJSON(ctx, a.Client, "go", name, endpoint, &latest); err != nil {
		return types.RegistryInfo{}, err
	}
	info := types.RegistryInfo{
		Name:          name,
		LatestVersion: strings.TrimPrefix(latest.Version, "v"),
		Homepage:      "https://pkg.go.dev/" + name,
		Repository:    "https://" + name,
	}
	if !latest.Time.IsZero() {
		at := latest.Time
		info.LastUpdated = &at
	}
	return info, nil
}

// Search probes the proxy for the exact module path; the proxy
// protocol has no free-text search endpoint.
func (a *GoAdapter) Search(ctx context.Context, query string, limit int) ([]types.SearchResult, error) {
	if !strings.Contains(query, ".") {
		// Module paths always carry a host; skip the probe for
		// obviously non-path queries.
		return []types.SearchResult{}, nil
	}
	info, err := a.QueryRegistry(ctx, query)
	if err != nil {
		if shared.IsPackageNotFound(err) {
			return []types.SearchResult{}, nil
		}
		return nil, err
	}
	return []types.SearchResult{{
		Name:        info.Name,
		Type:        types.ResultTypeDependency,
		Ecosystem:   types.EcosystemGo,
		Version:     info.LatestVersion,
		Homepage:    info.Homepage,
		Repository:  info.Repository,
		LastUpdated: info.LastUpdated,
	}}, nil
}

// Dependencies fetches the module's .mod file for its latest version
// and reports the direct require entries in file order.
func (a *GoAdapter) Dependencies(ctx context.Context, name string) ([]types.DependencyRef, error) {
	var latest goLatestInfo
	escaped := escapeModulePath(name)
	if err := fetchJSON(ctx, a.Client, "go", name, a.ProxyURL+"/"+escaped+"/@latest", &latest); err != nil {
		return nil, err
	}

	endpoint := a.ProxyURL + "/" + escaped + "/@v/" + latest.Version + ".mod"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, shared.RegistryUnavailableError("go", err)
	}
	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, shared.RegistryUnavailableError("go", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, shared.PackageNotFoundError("go", name)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, shared.RegistryUnavailableError("go", shared.HTTPStatusError(resp.StatusCode, endpoint))
	}

	var refs []types.DependencyRef
	inBlock := false
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "require ("):
			inBlock = true
			continue
		case inBlock && line == ")":
			inBlock = false
			continue
		}
		entry := ""
		if inBlock {
			entry = line
		} else if rest, ok := strings.CutPrefix(line, "require "); ok {
			entry = rest
		}
		if entry == "" || strings.Contains(entry, "// indirect") {
			continue
		}
		fields := strings.Fields(entry)
		if len(fields) < 2 {
			continue
		}
		refs = append(refs, types.DependencyRef{Name: fields[0], Constraint: fields[1]})
	}
	if err := scanner.Err(); err != nil {
		return nil, shared.RegistryUnavailableError("go", err)
	}
	return refs, nil
}

func (a *GoAdapter) Install(ctx context.Context, name string, constraint string) (types.PackageRecord, error) {
	spec := name
	if constraint != "" {
		spec = name + "@" + strings.TrimPrefix(constraint, "==")
	}
	result, err := a.Executor.ExecuteIn(ctx, a.ProjectPath, "go", "get", spec)
	if err != nil {
		return types.PackageRecord{}, shared.RegistryUnavailableError("go", err)
	}
	if result.ExitCode != 0 {
		return types.PackageRecord{}, shared.OperationError("go get",
			shared.CommandError([]byte(result.Stderr), shared.ExitStatusError(result.ExitCode, spec)))
	}
	version := ""
	if records, err := a.ListInstalled(ctx); err == nil {
		for _, record := range records {
			if record.Name == name {
				version = record.InstalledVersion
			}
		}
	}
	log.Ctx(ctx).Info().Str("module", name).Str("version", version).Msg("go module added")
	return types.PackageRecord{
		Name:             name,
		Ecosystem:        types.EcosystemGo,
		InstalledVersion: version,
	}, nil
}

func (a *GoAdapter) Remove(ctx context.Context, name string, force bool) (bool, error) {
	if !force {
		declared := false
		if records, err := a.ListInstalled(ctx); err == nil {
			for _, record := range records {
				if record.Name == name {
					declared = true
				}
			}
		}
		if !declared {
			return false, nil
		}
	}
	result, err := a.Executor.ExecuteIn(ctx, a.ProjectPath, "go", "get", name+"@none")
	if err != nil {
		return false, shared.OperationError("go get @none", err)
	}
	if result.ExitCode != 0 {
		return false, shared.OperationError("go get @none",
			shared.CommandError([]byte(result.Stderr), shared.ExitStatusError(result.ExitCode, name)))
	}
	return true, nil
}

// escapeModulePath applies the proxy protocol's case encoding
// (uppercase letters become !lowercase).
func escapeModulePath(path string) string {
	var builder strings.Builder
	for _, r := range path {
		if r >= 'A' && r <= 'Z' {
			builder.WriteByte('!')
			builder.WriteRune(r + ('a' - 'A'))
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}
