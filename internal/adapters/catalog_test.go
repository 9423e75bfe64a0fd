package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haseebmalik18/switchr/internal/types"
)

func TestCatalogServiceTemplates(t *testing.T) {
	catalog := NewCatalogAdapter(newFakeExecutor())

	templates, err := catalog.ServiceTemplates()
	require.NoError(t, err)
	require.NotEmpty(t, templates)

	byName := map[string]types.ServiceTemplate{}
	for _, template := range templates {
		byName[template.Name] = template
	}

	postgres, ok := byName["postgres"]
	require.True(t, ok)
	assert.Equal(t, "database", postgres.Category)
	assert.Equal(t, 5432, postgres.DefaultPort)
	assert.Contains(t, postgres.Aliases, "pg")

	redis, ok := byName["redis"]
	require.True(t, ok)
	assert.Equal(t, "cache", redis.Category)
}

func TestCatalogServiceTemplatesParsedOnce(t *testing.T) {
	catalog := NewCatalogAdapter(newFakeExecutor())

	first, err := catalog.ServiceTemplates()
	require.NoError(t, err)
	second, err := catalog.ServiceTemplates()
	require.NoError(t, err)
	assert.Equal(t, len(first), len(second))
}

func TestCatalogRuntimeStatus(t *testing.T) {
	executor := newFakeExecutor()
	executor.paths["node"] = "/usr/bin/node"
	executor.paths["go"] = "/usr/local/go/bin/go"
	executor.paths["java"] = "/usr/bin/java"
	executor.script("node --version", fakeExecResult(0, "v20.11.0\n", ""))
	executor.script("go version", fakeExecResult(0, "go version go1.25.0 linux/amd64\n", ""))
	// java -version reports on stderr.
	executor.script("java -version", fakeExecResult(0, "", `openjdk version "21.0.2" 2024-01-16`))

	catalog := NewCatalogAdapter(executor)
	statuses, err := catalog.RuntimeStatus(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 4)

	byName := map[string]types.RuntimeStatus{}
	for _, status := range statuses {
		byName[status.Name] = status
	}

	assert.True(t, byName["node"].Available)
	assert.Equal(t, "20.11.0", byName["node"].Version)

	assert.True(t, byName["go"].Available)
	assert.Equal(t, "1.25.0", byName["go"].Version)

	assert.True(t, byName["java"].Available)
	assert.Equal(t, "21.0.2", byName["java"].Version)

	assert.False(t, byName["python"].Available, "python3 is not on the fake path")
	assert.Empty(t, byName["python"].Version)
}

func TestCatalogRuntimeProbeFailure(t *testing.T) {
	executor := newFakeExecutor()
	executor.paths["node"] = "/usr/bin/node"
	executor.script("node --version", fakeExecResult(1, "", "segfault"))

	catalog := NewCatalogAdapter(executor)
	statuses, err := catalog.RuntimeStatus(context.Background())
	require.NoError(t, err)

	for _, status := range statuses {
		if status.Name != "node" {
			continue
		}
		assert.True(t, status.Available, "the binary exists even though probing failed")
		assert.Empty(t, status.Version)
	}
}

func TestNormalizeVersionOutput(t *testing.T) {
	cases := []struct {
		line string
		want string
	}{
		{"v20.11.0", "20.11.0"},
		{"Python 3.12.1", "3.12.1"},
		{"go version go1.25.0 linux/amd64", "1.25.0"},
		{`openjdk version "21.0.2" 2024-01-16`, "21.0.2"},
		{"8.15.4", "8.15.4"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, normalizeVersionOutput(tc.line), tc.line)
	}
}
