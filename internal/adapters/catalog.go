package adapters

import (
	"context"
	_ "embed"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/haseebmalik18/switchr/internal/ports"
	"github.com/haseebmalik18/switchr/internal/shared"
	"github.com/haseebmalik18/switchr/internal/types"
)

//go:embed services.yaml
var servicesYAML []byte

type serviceCatalogFile struct {
	Templates []types.ServiceTemplate `yaml:"templates"`
}

// runtimeProbe maps a runtime toolchain to the command that reports
// its version.
type runtimeProbe struct {
	name      string
	ecosystem types.Ecosystem
	command   string
	args      []string
}

var runtimeProbes = []runtimeProbe{
	{name: "node", ecosystem: types.EcosystemNpm, command: "node", args: []string{"--version"}},
	{name: "python", ecosystem: types.EcosystemPip, command: "python3", args: []string{"--version"}},
	{name: "go", ecosystem: types.EcosystemGo, command: "go", args: []string{"version"}},
	{name: "java", ecosystem: types.EcosystemMaven, command: "java", args: []string{"-version"}},
}

// CatalogAdapter serves the declarative service template catalog and
// probes installed runtime toolchains. Template metadata is static
// for the life of the process.
type CatalogAdapter struct {
	Executor ports.ExecutorPort

	once      sync.Once
	templates []types.ServiceTemplate
	parseErr  error
}

func NewCatalogAdapter(executor ports.ExecutorPort) *CatalogAdapter {
	return &CatalogAdapter{Executor: executor}
}

func (a *CatalogAdapter) ServiceTemplates() ([]types.ServiceTemplate, error) {
	a.once.Do(func() {
		var file serviceCatalogFile
		if err := yaml.Unmarshal(servicesYAML, &file); err != nil {
			a.parseErr = shared.ManifestReadError("services.yaml", err)
			return
		}
		a.templates = file.Templates
	})
	return a.templates, a.parseErr
}

func (a *CatalogAdapter) RuntimeStatus(ctx context.Context) ([]types.RuntimeStatus, error) {
	statuses := make([]types.RuntimeStatus, 0, len(runtimeProbes))
	for _, probe := range runtimeProbes {
		status := types.RuntimeStatus{Name: probe.name, Ecosystem: probe.ecosystem}
		if _, ok := a.Executor.LookPath(probe.command); ok {
			status.Available = true
			status.Version = a.probeVersion(ctx, probe)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func (a *CatalogAdapter) probeVersion(ctx context.Context, probe runtimeProbe) string {
	result, err := a.Executor.Execute(ctx, probe.command, probe.args...)
	if err != nil || result.ExitCode != 0 {
		return ""
	}
	output := result.Stdout
	if strings.TrimSpace(output) == "" {
		// java -version writes to stderr.
		output = result.Stderr
	}
	return normalizeVersionOutput(shared.FirstLine(output))
}

// normalizeVersionOutput strips tool banners down to the bare version
// ("v20.11.0" -> "20.11.0", "go version go1.25.0 linux/amd64" -> "1.25.0").
func normalizeVersionOutput(line string) string {
	fields := strings.Fields(line)
	for _, field := range fields {
		trimmed := strings.TrimPrefix(field, "v")
		trimmed = strings.TrimPrefix(trimmed, "go")
		trimmed = strings.Trim(trimmed, `"`)
		if trimmed == "" {
			continue
		}
		if trimmed[0] >= '0' && trimmed[0] <= '9' && strings.Contains(trimmed, ".") {
			return trimmed
		}
	}
	return strings.TrimPrefix(line, "v")
}
