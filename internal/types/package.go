// Package types holds the shared data model for the package management
// core. Records are plain values; identity for a managed package is the
// (ecosystem, name) pair.
package types

import "time"

// PackageRecord is the normalized view of one managed package across
// every ecosystem.
type PackageRecord struct {
	Name               string    `json:"name" yaml:"name"`
	Ecosystem          Ecosystem `json:"ecosystem" yaml:"ecosystem"`
	InstalledVersion   string    `json:"installed_version,omitempty" yaml:"installed_version,omitempty"`
	LatestVersion      string    `json:"latest_version,omitempty" yaml:"latest_version,omitempty"`
	DeclaredConstraint string    `json:"declared_constraint,omitempty" yaml:"declared_constraint,omitempty"`
}

// RegistryInfo is the subset of registry metadata the core consumes.
type RegistryInfo struct {
	Name          string     `json:"name"`
	LatestVersion string     `json:"latest_version"`
	Description   string     `json:"description,omitempty"`
	Downloads     int64      `json:"downloads,omitempty"`
	Repository    string     `json:"repository,omitempty"`
	Homepage      string     `json:"homepage,omitempty"`
	LastUpdated   *time.Time `json:"last_updated,omitempty"`
}

// SearchResult is one ranked candidate from a search fan-out. Score is
// a relevance weight in [0,100], produced fresh per query.
type SearchResult struct {
	Name        string     `json:"name"`
	Type        ResultType `json:"type"`
	Ecosystem   Ecosystem  `json:"ecosystem,omitempty"`
	Version     string     `json:"version,omitempty"`
	Description string     `json:"description,omitempty"`
	Score       int        `json:"score"`
	Downloads   int64      `json:"downloads,omitempty"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
	Repository  string     `json:"repository,omitempty"`
	Homepage    string     `json:"homepage,omitempty"`
}

// UpdateCandidate is a derived update availability record; it is
// recomputed on every check and never stored.
type UpdateCandidate struct {
	Name           string    `json:"name"`
	Ecosystem      Ecosystem `json:"ecosystem"`
	CurrentVersion string    `json:"current_version"`
	LatestVersion  string    `json:"latest_version"`
	Breaking       bool      `json:"breaking"`
	Description    string    `json:"description,omitempty"`
}

// DependencyRef is one edge reported by an adapter: a dependency name
// with the constraint the parent declares on it.
type DependencyRef struct {
	Name       string `json:"name"`
	Constraint string `json:"constraint,omitempty"`
}

// DependencyNode is one node of a resolved dependency tree. A name may
// recur at different positions (diamonds); a name recurring on its own
// ancestor path is a cycle and is rejected by the builder.
type DependencyNode struct {
	Name         string            `json:"name"`
	Version      string            `json:"version,omitempty"`
	Dependencies []*DependencyNode `json:"dependencies,omitempty"`
}

// RuntimeStatus describes one runtime toolchain found on the
// workstation (node, python, go, java).
type RuntimeStatus struct {
	Name      string    `json:"name"`
	Version   string    `json:"version,omitempty"`
	Ecosystem Ecosystem `json:"ecosystem"`
	Available bool      `json:"available"`
}

// ServiceTemplate is one declarative service entry from the catalog.
type ServiceTemplate struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description,omitempty"`
	Category    string   `yaml:"category" json:"category,omitempty"`
	Image       string   `yaml:"image" json:"image,omitempty"`
	DefaultPort int      `yaml:"default_port" json:"default_port,omitempty"`
	Aliases     []string `yaml:"aliases" json:"aliases,omitempty"`
	Homepage    string   `yaml:"homepage" json:"homepage,omitempty"`
}

// Stats are process-lifetime cache counters, reset only when the cache
// is reinitialized.
type Stats struct {
	CacheHits     int64 `json:"cache_hits"`
	CacheMisses   int64 `json:"cache_misses"`
	TotalRequests int64 `json:"total_requests"`
}

// Constraint is a parsed version constraint attached to a package name.
type Constraint struct {
	Name    string
	Op      ConstraintOp
	Version string
	Source  string
}

// String renders the constraint back to its canonical entry form.
func (c Constraint) String() string {
	if c.Op == ConstraintOpNone {
		return c.Name
	}
	return c.Name + string(c.Op) + c.Version
}
