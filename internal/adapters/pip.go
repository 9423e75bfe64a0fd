package adapters

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	pep440 "github.com/aquasecurity/go-pep440-version"
	"github.com/rs/zerolog/log"

	"github.com/haseebmalik18/switchr/internal/ports"
	"github.com/haseebmalik18/switchr/internal/shared"
	"github.com/haseebmalik18/switchr/internal/types"
)

const defaultPyPIURL = "https://pypi.org/pypi"

// PipAdapter manages Python packages: declared state from
// requirements.txt, installed state from `pip list`, registry metadata
// from the PyPI JSON API. Names are normalized per PEP 503 throughout.
type PipAdapter struct {
	Executor    ports.ExecutorPort
	ProjectPath string
	RegistryURL string
	Client      *http.Client
}

func NewPipAdapter(executor ports.ExecutorPort, projectPath string) *PipAdapter {
	return &PipAdapter{
		Executor:    executor,
		ProjectPath: projectPath,
		RegistryURL: defaultPyPIURL,
		Client:      newRegistryClient(),
	}
}

func (a *PipAdapter) Ecosystem() types.Ecosystem {
	return types.EcosystemPip
}

func (a *PipAdapter) ListInstalled(ctx context.Context) ([]types.PackageRecord, error) {
	manifestPath := filepath.Join(a.ProjectPath, "requirements.txt")
	file, err := os.Open(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []types.PackageRecord{}, nil
		}
		return nil, shared.ManifestReadError(manifestPath, err)
	}
	defer file.Close()

	installed := a.installedVersions(ctx)

	var records []types.PackageRecord
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		if idx := strings.Index(line, " #"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		name, constraint := splitRequirement(line)
		if name == "" {
			return nil, shared.ManifestReadError(manifestPath, shared.MalformedLineError(line))
		}
		normalized := shared.NormalizePipName(name)
		records = append(records, types.PackageRecord{
			Name:               normalized,
			Ecosystem:          types.EcosystemPip,
			DeclaredConstraint: constraint,
			InstalledVersion:   installed[normalized],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, shared.ManifestReadError(manifestPath, err)
	}
	if records == nil {
		records = []types.PackageRecord{}
	}
	return records, nil
}

// splitRequirement separates "name>=1.0" style requirement lines into
// name and constraint, dropping extras markers.
func splitRequirement(line string) (string, string) {
	if idx := strings.IndexByte(line, ';'); idx >= 0 {
		line = strings.TrimSpace(line[:idx])
	}
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '=', '>', '<', '~', '!':
			return strings.TrimSpace(strings.TrimSuffix(line[:i], "[")), strings.TrimSpace(line[i:])
		case '[':
			return strings.TrimSpace(line[:i]), strings.TrimSpace(line[strings.IndexByte(line, ']')+1:])
		}
	}
	return strings.TrimSpace(line), ""
}

type pipListEntry struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func (a *PipAdapter) installedVersions(ctx context.Context) map[string]string {
	versions := map[string]string{}
	result, err := a.Executor.Execute(ctx, "pip", "list", "--format=json")
	if err != nil || result.ExitCode != 0 {
		log.Ctx(ctx).Debug().Err(err).Msg("pip list unavailable, reporting declared state only")
		return versions
	}
	var entries []pipListEntry
	if err := json.Unmarshal([]byte(result.Stdout), &entries); err != nil {
		return versions
	}
	for _, entry := range entries {
		versions[shared.NormalizePipName(entry.Name)] = entry.Version
	}
	return versions
}

type pypiResponse struct {
	Info struct {
		Name         string            `json:"name"`
		Version      string            `json:"version"`
		Summary      string            `json:"summary"`
		HomePage     string            `json:"home_page"`
		ProjectURLs  map[string]string `json:"project_urls"`
		RequiresDist []string          `json:"requires_dist"`
	} `json:"info"`
	Releases map[string][]struct {
		UploadTime string `json:"upload_time_iso_8601"`
	} `json:"releases"`
}

func (a *PipAdapter) QueryRegistry(ctx context.Context, name string) (types.RegistryInfo, error) {
	normalized := shared.NormalizePipName(name)
	var payload pypiResponse
	endpoint := a.RegistryURL + "/" + url.PathEscape(normalized) + "/json"
	if err := fetchJSON(ctx, a.Client, "pip", normalized, endpoint, &payload); err != nil {
		return types.RegistryInfo{}, err
	}

	latest := payload.Info.Version
	// The info block tracks the latest release, but guard against
	// stale payloads by ranking release keys under PEP 440.
	if best := highestRelease(payload.Releases); best != "" {
		if current, err := pep440.Parse(latest); err == nil {
			if candidate, err := pep440.Parse(best); err == nil && current.LessThan(candidate) {
				latest = best
			}
		}
	}

	info := types.RegistryInfo{
		Name:          normalized,
		LatestVersion: latest,
		Description:   payload.Info.Summary,
		Homepage:      payload.Info.HomePage,
		Repository:    payload.Info.ProjectURLs["Source"],
	}
	if uploads, ok := payload.Releases[latest]; ok && len(uploads) > 0 {
		if at, err := time.Parse(time.RFC3339, uploads[0].UploadTime); err == nil {
			info.LastUpdated = &at
		}
	}
	return info, nil
}

func highestRelease(releases map[string][]struct {
	UploadTime string `json:"upload_time_iso_8601"`
}) string {
	best := ""
	var bestParsed pep440.Version
	for release := range releases {
		parsed, err := pep440.Parse(release)
		if err != nil {
			continue
		}
		if best == "" || bestParsed.LessThan(parsed) {
			best = release
			bestParsed = parsed
		}
	}
	return best
}

// Search probes the registry for the exact (normalized) name; PyPI
// retired its search API, so a direct metadata hit is the best signal
// available without scraping.
func (a *PipAdapter) Search(ctx context.Context, query string, limit int) ([]types.SearchResult, error) {
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
		Ecosystem:   types.EcosystemPip,
		Version:     info.LatestVersion,
		Description: info.Description,
		Homepage:    info.Homepage,
		Repository:  info.Repository,
		LastUpdated: info.LastUpdated,
	}}, nil
}

// Dependencies reports requires_dist entries in declaration order,
// skipping environment-marker-only requirements.
func (a *PipAdapter) Dependencies(ctx context.Context, name string) ([]types.DependencyRef, error) {
	normalized := shared.NormalizePipName(name)
	var payload pypiResponse
	endpoint := a.RegistryURL + "/" + url.PathEscape(normalized) + "/json"
	if err := fetchJSON(ctx, a.Client, "pip", normalized, endpoint, &payload); err != nil {
		return nil, err
	}
	var refs []types.DependencyRef
	for _, requirement := range payload.Info.RequiresDist {
		if strings.Contains(requirement, "extra ==") {
			continue
		}
		depName, constraint := splitRequirement(requirement)
		if depName == "" {
			continue
		}
		refs = append(refs, types.DependencyRef{
			Name:       shared.NormalizePipName(depName),
			Constraint: constraint,
		})
	}
	return refs, nil
}

func (a *PipAdapter) Install(ctx context.Context, name string, constraint string) (types.PackageRecord, error) {
	normalized := shared.NormalizePipName(name)
	spec := normalized + constraint
	result, err := a.Executor.Execute(ctx, "pip", "install", spec)
	if err != nil {
		return types.PackageRecord{}, shared.RegistryUnavailableError("pip", err)
	}
	if result.ExitCode != 0 {
		return types.PackageRecord{}, shared.OperationError("pip install",
			shared.CommandError([]byte(result.Stderr), shared.ExitStatusError(result.ExitCode, spec)))
	}
	installed := a.installedVersions(ctx)
	record := types.PackageRecord{
		Name:               normalized,
		Ecosystem:          types.EcosystemPip,
		DeclaredConstraint: constraint,
		InstalledVersion:   installed[normalized],
	}
	a.appendRequirement(ctx, normalized, constraint)
	log.Ctx(ctx).Info().Str("package", normalized).Str("version", record.InstalledVersion).Msg("pip package installed")
	return record, nil
}

// appendRequirement records the new dependency in requirements.txt
// when the manifest exists and does not already declare it.
func (a *PipAdapter) appendRequirement(ctx context.Context, name string, constraint string) {
	manifestPath := filepath.Join(a.ProjectPath, "requirements.txt")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		existing, _ := splitRequirement(strings.TrimSpace(line))
		if shared.NormalizePipName(existing) == name {
			return
		}
	}
	entry := name + constraint + "\n"
	if len(data) > 0 && data[len(data)-1] != '\n' {
		entry = "\n" + entry
	}
	if err := os.WriteFile(manifestPath, append(data, entry...), 0644); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("could not record requirement")
	}
}

func (a *PipAdapter) Remove(ctx context.Context, name string, force bool) (bool, error) {
	normalized := shared.NormalizePipName(name)
	if !force {
		installed := a.installedVersions(ctx)
		if _, ok := installed[normalized]; !ok {
			return false, nil
		}
	}
	result, err := a.Executor.Execute(ctx, "pip", "uninstall", "-y", normalized)
	if err != nil {
		return false, shared.OperationError("pip uninstall", err)
	}
	if result.ExitCode != 0 {
		return false, shared.OperationError("pip uninstall",
			shared.CommandError([]byte(result.Stderr), shared.ExitStatusError(result.ExitCode, normalized)))
	}
	a.removeRequirement(normalized)
	return true, nil
}

func (a *PipAdapter) removeRequirement(name string) {
	manifestPath := filepath.Join(a.ProjectPath, "requirements.txt")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return
	}
	var kept []string
	for _, line := range strings.Split(string(data), "\n") {
		existing, _ := splitRequirement(strings.TrimSpace(line))
		if shared.NormalizePipName(existing) == name {
			continue
		}
		kept = append(kept, line)
	}
	_ = os.WriteFile(manifestPath, []byte(strings.Join(kept, "\n")), 0644)
}
