package app

import (
	"github.com/haseebmalik18/switchr/internal/policies"
	"github.com/haseebmalik18/switchr/internal/types"
)

type StatusResult struct {
	Runtimes     []types.RuntimeStatus                      `json:"runtimes"`
	Services     []types.ServiceTemplate                    `json:"services"`
	Dependencies map[types.Ecosystem][]types.PackageRecord  `json:"dependencies"`
}

type AddRequest struct {
	Name       string
	Ecosystem  types.Ecosystem
	Constraint string
}

// AddResult is a structured outcome; callers inspect Success instead
// of catching errors. Only contract violations (unknown ecosystem)
// surface as errors.
type AddResult struct {
	Success bool                 `json:"success"`
	Package *types.PackageRecord `json:"package,omitempty"`
	Error   string               `json:"error,omitempty"`
}

type RemoveRequest struct {
	Name      string
	Ecosystem types.Ecosystem
	Force     bool
}

type UpdateCheckRequest struct {
	Name      string
	Ecosystem types.Ecosystem
}

// ItemFailure reports one per-package recoverable failure inside a
// batch operation.
type ItemFailure struct {
	Name      string          `json:"name"`
	Ecosystem types.Ecosystem `json:"ecosystem"`
	Error     string          `json:"error"`
}

type UpdateCheckResult struct {
	Candidates []types.UpdateCandidate `json:"candidates"`
	Failures   []ItemFailure           `json:"failures,omitempty"`
}

type UpdateRequest struct {
	Name      string
	Ecosystem types.Ecosystem
	Latest    bool
	Force     bool
}

type UpdateResult struct {
	Applied  []types.UpdateCandidate   `json:"applied"`
	Skipped  []policies.UpdateDecision `json:"skipped,omitempty"`
	Failures []ItemFailure             `json:"failures,omitempty"`
}

type TreeRequest struct {
	Name      string
	Ecosystem types.Ecosystem
	MaxDepth  int
}
