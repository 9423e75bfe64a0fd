package adapters

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haseebmalik18/switchr/internal/shared"
)

func newAptTest(t *testing.T) (*AptAdapter, *fakeExecutor, string) {
	t.Helper()
	project := t.TempDir()
	executor := newFakeExecutor()
	return NewAptAdapter(executor, project), executor, project
}

func TestAptListInstalled(t *testing.T) {
	adapter, executor, project := newAptTest(t)
	writeFile(t, filepath.Join(project, "Aptfile"), "# system deps\ncurl\nlibpq-dev=16.2-1\n")
	executor.script("dpkg-query -W -f=${Version} curl", fakeExecResult(0, "8.5.0-2ubuntu1", ""))
	executor.script("dpkg-query -W -f=${Version} libpq-dev", fakeExecResult(1, "", "no packages found"))

	records, err := adapter.ListInstalled(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "curl", records[0].Name)
	assert.Equal(t, "8.5.0-2ubuntu1", records[0].InstalledVersion)
	assert.Equal(t, "libpq-dev", records[1].Name)
	assert.Equal(t, "=16.2-1", records[1].DeclaredConstraint)
	assert.Empty(t, records[1].InstalledVersion)
}

func TestAptQueryRegistryRanksDebianVersions(t *testing.T) {
	adapter, executor, _ := newAptTest(t)
	executor.script("apt-cache madison curl", fakeExecResult(0,
		" curl | 8.5.0-2ubuntu1 | http://archive.ubuntu.com noble/main amd64 Packages\n"+
			" curl | 8.5.0-2ubuntu10.6 | http://security.ubuntu.com noble-security/main amd64 Packages\n", ""))
	executor.script("apt-cache show", fakeExecResult(0, "Package: curl\nDescription-en: command line URL transfer tool\n", ""))

	info, err := adapter.QueryRegistry(context.Background(), "curl")
	require.NoError(t, err)
	assert.Equal(t, "8.5.0-2ubuntu10.6", info.LatestVersion, "Debian ordering, not lexicographic")
	assert.Equal(t, "command line URL transfer tool", info.Description)
}

func TestAptQueryRegistryUnknownPackage(t *testing.T) {
	adapter, executor, _ := newAptTest(t)
	executor.script("apt-cache madison", fakeExecResult(0, "", ""))

	_, err := adapter.QueryRegistry(context.Background(), "no-such-package")
	require.Error(t, err)
	assert.True(t, shared.IsPackageNotFound(err))
}

func TestAptSearch(t *testing.T) {
	adapter, executor, _ := newAptTest(t)
	executor.script("apt-cache search", fakeExecResult(0,
		"curl - command line tool for transferring data\nlibcurl4 - easy-to-use client-side URL transfer library\n", ""))

	results, err := adapter.Search(context.Background(), "curl", 1)
	require.NoError(t, err)
	require.Len(t, results, 1, "limit applies")
	assert.Equal(t, "curl", results[0].Name)
	assert.Contains(t, results[0].Description, "transferring data")
}

func TestAptDependencies(t *testing.T) {
	adapter, executor, _ := newAptTest(t)
	executor.script("apt-cache depends", fakeExecResult(0,
		"curl\n  Depends: libc6\n  Depends: libcurl4\n  Recommends: ca-certificates\n", ""))

	refs, err := adapter.Dependencies(context.Background(), "curl")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "libc6", refs[0].Name)
	assert.Equal(t, "libcurl4", refs[1].Name)
}

func TestAptInstallPinsAndRecords(t *testing.T) {
	adapter, executor, project := newAptTest(t)
	writeFile(t, filepath.Join(project, "Aptfile"), "curl\n")
	executor.script("dpkg-query", fakeExecResult(0, "16.2-1", ""))

	record, err := adapter.Install(context.Background(), "libpq-dev", "==16.2-1")
	require.NoError(t, err)
	assert.True(t, executor.ran("apt-get install -y libpq-dev=16.2-1"))
	assert.Equal(t, "16.2-1", record.InstalledVersion)

	data, err := os.ReadFile(filepath.Join(project, "Aptfile"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "libpq-dev")
}

func TestAptRemoveNotInstalled(t *testing.T) {
	adapter, executor, _ := newAptTest(t)
	executor.script("dpkg-query", fakeExecResult(1, "", ""))

	removed, err := adapter.Remove(context.Background(), "ghost", false)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.False(t, executor.ran("apt-get remove"))
}
