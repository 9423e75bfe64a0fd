package adapters

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	debversion "github.com/knqyf263/go-deb-version"
	"github.com/rs/zerolog/log"

	"github.com/haseebmalik18/switchr/internal/ports"
	"github.com/haseebmalik18/switchr/internal/shared"
	"github.com/haseebmalik18/switchr/internal/types"
)

// AptAdapter manages Debian system packages the project declares in an
// Aptfile (one package per line, optional =version pin). Installed and
// candidate state comes from dpkg-query and apt-cache.
type AptAdapter struct {
	Executor    ports.ExecutorPort
	ProjectPath string
}

func NewAptAdapter(executor ports.ExecutorPort, projectPath string) *AptAdapter {
	return &AptAdapter{Executor: executor, ProjectPath: projectPath}
}

func (a *AptAdapter) Ecosystem() types.Ecosystem {
	return types.EcosystemApt
}

func (a *AptAdapter) ListInstalled(ctx context.Context) ([]types.PackageRecord, error) {
	manifestPath := filepath.Join(a.ProjectPath, "Aptfile")
	file, err := os.Open(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []types.PackageRecord{}, nil
		}
		return nil, shared.ManifestReadError(manifestPath, err)
	}
	defer file.Close()

	records := []types.PackageRecord{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name := line
		constraint := ""
		if idx := strings.IndexByte(line, '='); idx >= 0 {
			name = strings.TrimSpace(line[:idx])
			constraint = "=" + strings.TrimSpace(line[idx+1:])
		}
		if strings.ContainsAny(name, " \t") {
			return nil, shared.ManifestReadError(manifestPath, shared.MalformedLineError(line))
		}
		records = append(records, types.PackageRecord{
			Name:               name,
			Ecosystem:          types.EcosystemApt,
			DeclaredConstraint: constraint,
			InstalledVersion:   a.installedVersion(ctx, name),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, shared.ManifestReadError(manifestPath, err)
	}
	return records, nil
}

func (a *AptAdapter) installedVersion(ctx context.Context, name string) string {
	result, err := a.Executor.Execute(ctx, "dpkg-query", "-W", "-f=${Version}", name)
	if err != nil || result.ExitCode != 0 {
		return ""
	}
	return strings.TrimSpace(result.Stdout)
}

// QueryRegistry ranks the versions apt-cache madison reports using
// Debian version ordering and returns the highest.
func (a *AptAdapter) QueryRegistry(ctx context.Context, name string) (types.RegistryInfo, error) {
	result, err := a.Executor.Execute(ctx, "apt-cache", "madison", name)
	if err != nil {
		return types.RegistryInfo{}, shared.RegistryUnavailableError("apt", err)
	}
	if result.ExitCode != 0 {
		return types.RegistryInfo{}, shared.RegistryUnavailableError("apt",
			shared.CommandError([]byte(result.Stderr), shared.ExitStatusError(result.ExitCode, name)))
	}

	best := ""
	var bestParsed debversion.Version
	for _, line := range strings.Split(result.Stdout, "\n") {
		fields := strings.Split(line, "|")
		if len(fields) < 2 {
			continue
		}
		candidate := strings.TrimSpace(fields[1])
		parsed, err := debversion.NewVersion(candidate)
		if err != nil {
			continue
		}
		if best == "" || bestParsed.LessThan(parsed) {
			best = candidate
			bestParsed = parsed
		}
	}
	if best == "" {
		return types.RegistryInfo{}, shared.PackageNotFoundError("apt", name)
	}
	return types.RegistryInfo{
		Name:          name,
		LatestVersion: best,
		Description:   a.description(ctx, name),
	}, nil
}

func (a *AptAdapter) description(ctx context.Context, name string) string {
	result, err := a.Executor.Execute(ctx, "apt-cache", "show", "--no-all-versions", name)
	if err != nil || result.ExitCode != 0 {
		return ""
	}
	for _, line := range strings.Split(result.Stdout, "\n") {
		if rest, ok := strings.CutPrefix(line, "Description: "); ok {
			return strings.TrimSpace(rest)
		}
		if rest, ok := strings.CutPrefix(line, "Description-en: "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

func (a *AptAdapter) Search(ctx context.Context, query string, limit int) ([]types.SearchResult, error) {
	result, err := a.Executor.Execute(ctx, "apt-cache", "search", query)
	if err != nil {
		return nil, shared.RegistryUnavailableError("apt", err)
	}
	if result.ExitCode != 0 {
		return nil, shared.RegistryUnavailableError("apt",
			shared.CommandError([]byte(result.Stderr), shared.ExitStatusError(result.ExitCode, query)))
	}
	var results []types.SearchResult
	for _, line := range strings.Split(result.Stdout, "\n") {
		name, description, found := strings.Cut(line, " - ")
		if !found {
			continue
		}
		results = append(results, types.SearchResult{
			Name:        strings.TrimSpace(name),
			Type:        types.ResultTypeTool,
			Ecosystem:   types.EcosystemApt,
			Description: strings.TrimSpace(description),
		})
		if len(results) >= limit && limit > 0 {
			break
		}
	}
	return results, nil
}

// Dependencies parses apt-cache depends output, keeping hard Depends
// edges in reported order.
func (a *AptAdapter) Dependencies(ctx context.Context, name string) ([]types.DependencyRef, error) {
	result, err := a.Executor.Execute(ctx, "apt-cache", "depends", name)
	if err != nil {
		return nil, shared.RegistryUnavailableError("apt", err)
	}
	if result.ExitCode != 0 {
		return nil, shared.RegistryUnavailableError("apt",
			shared.CommandError([]byte(result.Stderr), shared.ExitStatusError(result.ExitCode, name)))
	}
	var refs []types.DependencyRef
	for _, line := range strings.Split(result.Stdout, "\n") {
		trimmed := strings.TrimSpace(line)
		rest, ok := strings.CutPrefix(trimmed, "Depends: ")
		if !ok {
			continue
		}
		dep := strings.TrimSpace(rest)
		if dep == "" || strings.HasPrefix(dep, "<") {
			continue
		}
		refs = append(refs, types.DependencyRef{Name: dep})
	}
	return refs, nil
}

func (a *AptAdapter) Install(ctx context.Context, name string, constraint string) (types.PackageRecord, error) {
	spec := name
	if pinned := strings.TrimLeft(constraint, "="); pinned != "" && pinned != constraint {
		spec = name + "=" + pinned
	}
	result, err := a.Executor.Execute(ctx, "apt-get", "install", "-y", spec)
	if err != nil {
		return types.PackageRecord{}, shared.RegistryUnavailableError("apt", err)
	}
	if result.ExitCode != 0 {
		return types.PackageRecord{}, shared.OperationError("apt-get install",
			shared.CommandError([]byte(result.Stderr), shared.ExitStatusError(result.ExitCode, spec)))
	}
	a.appendAptfile(ctx, name, constraint)
	record := types.PackageRecord{
		Name:               name,
		Ecosystem:          types.EcosystemApt,
		DeclaredConstraint: constraint,
		InstalledVersion:   a.installedVersion(ctx, name),
	}
	log.Ctx(ctx).Info().Str("package", name).Str("version", record.InstalledVersion).Msg("apt package installed")
	return record, nil
}

func (a *AptAdapter) appendAptfile(ctx context.Context, name string, constraint string) {
	manifestPath := filepath.Join(a.ProjectPath, "Aptfile")
	data, err := os.ReadFile(manifestPath)
	if err != nil && !os.IsNotExist(err) {
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		existing := strings.TrimSpace(line)
		if existing == name || strings.HasPrefix(existing, name+"=") {
			return
		}
	}
	entry := name + constraint + "\n"
	if len(data) > 0 && data[len(data)-1] != '\n' {
		entry = "\n" + entry
	}
	if err := os.WriteFile(manifestPath, append(data, entry...), 0644); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("could not record Aptfile entry")
	}
}

func (a *AptAdapter) Remove(ctx context.Context, name string, force bool) (bool, error) {
	if !force && a.installedVersion(ctx, name) == "" {
		return false, nil
	}
	result, err := a.Executor.Execute(ctx, "apt-get", "remove", "-y", name)
	if err != nil {
		return false, shared.OperationError("apt-get remove", err)
	}
	if result.ExitCode != 0 {
		return false, shared.OperationError("apt-get remove",
			shared.CommandError([]byte(result.Stderr), shared.ExitStatusError(result.ExitCode, name)))
	}
	a.removeAptfileEntry(name)
	return true, nil
}

func (a *AptAdapter) removeAptfileEntry(name string) {
	manifestPath := filepath.Join(a.ProjectPath, "Aptfile")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return
	}
	var kept []string
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == name || strings.HasPrefix(trimmed, name+"=") {
			continue
		}
		kept = append(kept, line)
	}
	_ = os.WriteFile(manifestPath, []byte(strings.Join(kept, "\n")), 0644)
}
