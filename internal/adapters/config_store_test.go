package adapters

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haseebmalik18/switchr/internal/shared"
	"github.com/haseebmalik18/switchr/internal/types"
)

func TestConfigStoreLoadMissingFile(t *testing.T) {
	store := NewConfigStoreAdapter(t.TempDir())

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.StatusTTL)
	assert.Equal(t, 5*time.Minute, cfg.RegistryTTL)
	assert.Equal(t, 20, cfg.SearchLimit)
	assert.Equal(t, 8, cfg.TreeDepth)
}

func TestConfigStoreRoundtrip(t *testing.T) {
	project := t.TempDir()
	store := NewConfigStoreAdapter(project)

	saved := types.Config{
		ProjectPath: project,
		RegistryTTL: time.Minute,
		SearchLimit: 5,
		DetectionHints: []types.DetectionHint{
			{Framework: "django", Bonus: 25, Threshold: 30},
		},
	}.Defaults()
	require.NoError(t, store.Save(saved))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestConfigStoreLoadFillsProjectPath(t *testing.T) {
	project := t.TempDir()
	store := NewConfigStoreAdapter(project)
	writeFile(t, filepath.Join(project, ".switchr.yaml"), "search_limit: 10\n")

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, project, cfg.ProjectPath)
	assert.Equal(t, 10, cfg.SearchLimit)
}

func TestConfigStoreLoadMalformed(t *testing.T) {
	project := t.TempDir()
	store := NewConfigStoreAdapter(project)
	writeFile(t, filepath.Join(project, ".switchr.yaml"), "search_limit: [broken\n")

	_, err := store.Load()
	require.Error(t, err)
	assert.True(t, shared.IsManifestRead(err))
}

func TestConfigStoreDefaultsProjectPath(t *testing.T) {
	store := NewConfigStoreAdapter("")
	assert.Equal(t, ".", store.ProjectPath)
}
