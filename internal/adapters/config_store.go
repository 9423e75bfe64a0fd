package adapters

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/haseebmalik18/switchr/internal/shared"
	"github.com/haseebmalik18/switchr/internal/types"
)

const configFileName = ".switchr.yaml"

// ConfigStoreAdapter persists the project-scoped configuration as
// YAML next to the project it describes. A missing file yields
// defaults, not an error.
type ConfigStoreAdapter struct {
	ProjectPath string
}

func NewConfigStoreAdapter(projectPath string) *ConfigStoreAdapter {
	if projectPath == "" {
		projectPath = "."
	}
	return &ConfigStoreAdapter{ProjectPath: projectPath}
}

func (a *ConfigStoreAdapter) path() string {
	return filepath.Join(a.ProjectPath, configFileName)
}

func (a *ConfigStoreAdapter) Load() (types.Config, error) {
	cfg := types.Config{ProjectPath: a.ProjectPath}
	data, err := os.ReadFile(a.path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg.Defaults(), nil
		}
		return types.Config{}, shared.ManifestReadError(a.path(), err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return types.Config{}, shared.ManifestReadError(a.path(), err)
	}
	if cfg.ProjectPath == "" {
		cfg.ProjectPath = a.ProjectPath
	}
	return cfg.Defaults(), nil
}

func (a *ConfigStoreAdapter) Save(cfg types.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return shared.OperationError("config marshal", err)
	}
	if err := os.WriteFile(a.path(), data, 0644); err != nil {
		return shared.OperationError("config write", err)
	}
	return nil
}
