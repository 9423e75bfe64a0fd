package types

import "time"

// DetectionHint boosts catalog results whose name matches a framework
// the project detector flagged. The bonus values are deliberately
// configurable; the defaults mirror the detector's historical behavior.
type DetectionHint struct {
	Framework string `yaml:"framework" json:"framework"`
	Bonus     int    `yaml:"bonus" json:"bonus"`
	Threshold int    `yaml:"threshold" json:"threshold"`
}

// Config scopes one Service instance to a project checkout. It is
// constructed once at process start and passed in explicitly.
type Config struct {
	ProjectPath    string          `yaml:"project_path" json:"project_path"`
	StatusTTL      time.Duration   `yaml:"status_ttl" json:"status_ttl"`
	RegistryTTL    time.Duration   `yaml:"registry_ttl" json:"registry_ttl"`
	CatalogTTL     time.Duration   `yaml:"catalog_ttl" json:"catalog_ttl"`
	SearchLimit    int             `yaml:"search_limit" json:"search_limit"`
	TreeDepth      int             `yaml:"tree_depth" json:"tree_depth"`
	DetectionHints []DetectionHint `yaml:"detection_hints" json:"detection_hints"`
}

// Defaults fills zero-valued fields with workable defaults. Registry
// lookups get a short TTL; catalog metadata is static for the life of
// the process.
func (c Config) Defaults() Config {
	if c.ProjectPath == "" {
		c.ProjectPath = "."
	}
	if c.StatusTTL <= 0 {
		c.StatusTTL = 30 * time.Second
	}
	if c.RegistryTTL <= 0 {
		c.RegistryTTL = 5 * time.Minute
	}
	if c.CatalogTTL <= 0 {
		c.CatalogTTL = 24 * time.Hour
	}
	if c.SearchLimit <= 0 {
		c.SearchLimit = 20
	}
	if c.TreeDepth <= 0 {
		c.TreeDepth = 8
	}
	return c
}
