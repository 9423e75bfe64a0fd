package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haseebmalik18/switchr/internal/shared"
)

func newPipTest(t *testing.T, registry http.Handler) (*PipAdapter, *fakeExecutor, string) {
	t.Helper()
	project := t.TempDir()
	executor := newFakeExecutor()
	adapter := NewPipAdapter(executor, project)
	if registry != nil {
		server := httptest.NewServer(registry)
		t.Cleanup(server.Close)
		adapter.RegistryURL = server.URL
	}
	return adapter, executor, project
}

func TestSplitRequirement(t *testing.T) {
	tests := []struct {
		line       string
		name       string
		constraint string
	}{
		{"flask", "flask", ""},
		{"flask==2.3.0", "flask", "==2.3.0"},
		{"requests>=2.28,<3", "requests", ">=2.28,<3"},
		{"uvicorn[standard]", "uvicorn", ""},
		{"django~=4.2", "django", "~=4.2"},
		{"pywin32>=300; sys_platform == 'win32'", "pywin32", ">=300"},
	}
	for _, tt := range tests {
		name, constraint := splitRequirement(tt.line)
		assert.Equal(t, tt.name, name, "line=%q", tt.line)
		assert.Equal(t, tt.constraint, constraint, "line=%q", tt.line)
	}
}

func TestPipListInstalled(t *testing.T) {
	adapter, executor, project := newPipTest(t, nil)
	writeFile(t, filepath.Join(project, "requirements.txt"), strings.Join([]string{
		"# web stack",
		"Flask==2.3.0",
		"requests>=2.28",
		"",
		"-r extra.txt",
	}, "\n"))
	executor.script("pip list", fakeExecResult(0,
		`[{"name": "Flask", "version": "2.3.0"}, {"name": "charset_normalizer", "version": "3.1.0"}]`, ""))

	records, err := adapter.ListInstalled(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "flask", records[0].Name, "PEP 503 normalized")
	assert.Equal(t, "2.3.0", records[0].InstalledVersion)
	assert.Equal(t, "requests", records[1].Name)
	assert.Empty(t, records[1].InstalledVersion, "declared but pip does not report it")
}

func TestPipListInstalledWithoutPip(t *testing.T) {
	adapter, executor, project := newPipTest(t, nil)
	writeFile(t, filepath.Join(project, "requirements.txt"), "flask==2.3.0\n")
	executor.failures["pip list"] = assertError("pip: not found")

	records, err := adapter.ListInstalled(context.Background())
	require.NoError(t, err, "missing pip degrades to declared-only state")
	require.Len(t, records, 1)
	assert.Empty(t, records[0].InstalledVersion)
}

func TestPipQueryRegistryRanksReleases(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/flask/json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"info": {"name": "Flask", "version": "2.3.0", "summary": "micro framework"},
			"releases": {
				"2.2.0": [{"upload_time_iso_8601": "2025-01-01T00:00:00Z"}],
				"2.3.0": [{"upload_time_iso_8601": "2026-01-01T00:00:00Z"}],
				"2.3.1": [{"upload_time_iso_8601": "2026-02-01T00:00:00Z"}]
			}
		}`))
	})
	adapter, _, _ := newPipTest(t, mux)

	info, err := adapter.QueryRegistry(context.Background(), "Flask")
	require.NoError(t, err)
	assert.Equal(t, "flask", info.Name)
	assert.Equal(t, "2.3.1", info.LatestVersion, "release keys outrank a stale info block")
	require.NotNil(t, info.LastUpdated)
}

func TestPipSearchIsExactProbe(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/flask/json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"info": {"name": "Flask", "version": "2.3.0", "summary": "micro framework"}, "releases": {}}`))
	})
	adapter, _, _ := newPipTest(t, mux)

	results, err := adapter.Search(context.Background(), "Flask", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "flask", results[0].Name)

	missing, err := adapter.Search(context.Background(), "definitely-not-published", 10)
	require.NoError(t, err)
	assert.Empty(t, missing, "unknown names are an empty result, not an error")
}

func TestPipDependenciesSkipExtras(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/flask/json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"info": {
				"name": "Flask", "version": "2.3.0",
				"requires_dist": [
					"Werkzeug>=2.3.0",
					"Jinja2>=3.1.2",
					"python-dotenv; extra == \"dotenv\""
				]
			},
			"releases": {}
		}`))
	})
	adapter, _, _ := newPipTest(t, mux)

	refs, err := adapter.Dependencies(context.Background(), "flask")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "werkzeug", refs[0].Name)
	assert.Equal(t, ">=2.3.0", refs[0].Constraint)
	assert.Equal(t, "jinja2", refs[1].Name)
}

func TestPipInstallRecordsRequirement(t *testing.T) {
	adapter, executor, project := newPipTest(t, nil)
	manifest := filepath.Join(project, "requirements.txt")
	writeFile(t, manifest, "requests>=2.28\n")
	executor.script("pip list", fakeExecResult(0, `[{"name": "flask", "version": "2.3.0"}]`, ""))

	record, err := adapter.Install(context.Background(), "Flask", "==2.3.0")
	require.NoError(t, err)
	assert.Equal(t, "flask", record.Name)
	assert.Equal(t, "2.3.0", record.InstalledVersion)
	assert.True(t, executor.ran("pip install flask==2.3.0"))

	data, err := os.ReadFile(manifest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "flask==2.3.0")
}

func TestPipRemoveUpdatesRequirements(t *testing.T) {
	adapter, executor, project := newPipTest(t, nil)
	manifest := filepath.Join(project, "requirements.txt")
	writeFile(t, manifest, "flask==2.3.0\nrequests>=2.28\n")
	executor.script("pip list", fakeExecResult(0, `[{"name": "flask", "version": "2.3.0"}]`, ""))

	removed, err := adapter.Remove(context.Background(), "flask", false)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.True(t, executor.ran("pip uninstall -y flask"))

	data, err := os.ReadFile(manifest)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "flask")
	assert.Contains(t, string(data), "requests>=2.28")
}

func TestPipRemoveNotInstalled(t *testing.T) {
	adapter, executor, _ := newPipTest(t, nil)
	executor.script("pip list", fakeExecResult(0, `[]`, ""))

	removed, err := adapter.Remove(context.Background(), "ghost", false)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.False(t, executor.ran("pip uninstall"))
}

func TestPipMalformedRequirementLine(t *testing.T) {
	adapter, _, project := newPipTest(t, nil)
	writeFile(t, filepath.Join(project, "requirements.txt"), "==2.3.0\n")

	_, err := adapter.ListInstalled(context.Background())
	require.Error(t, err)
	assert.True(t, shared.IsManifestRead(err))
}
