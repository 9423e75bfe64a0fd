package core

import (
	"github.com/haseebmalik18/switchr/internal/types"
)

// UpdateCheck derives update candidates from installed state and
// registry metadata. Candidates are recomputed on each check, never
// stored.
type UpdateCheck struct {
	Comparator *Comparator
}

func NewUpdateCheck() UpdateCheck {
	return UpdateCheck{Comparator: NewComparator()}
}

// Candidate returns the update candidate for one installed package,
// or false when the registry's latest is not newer than the installed
// version. The breaking verdict follows the comparator's
// major-version/pre-release policy.
func (c UpdateCheck) Candidate(record types.PackageRecord, info types.RegistryInfo) (types.UpdateCandidate, bool) {
	if record.InstalledVersion == "" || info.LatestVersion == "" {
		return types.UpdateCandidate{}, false
	}
	if c.Comparator.Compare(record.InstalledVersion, info.LatestVersion) != types.OrderingLess {
		return types.UpdateCandidate{}, false
	}
	return types.UpdateCandidate{
		Name:           record.Name,
		Ecosystem:      record.Ecosystem,
		CurrentVersion: record.InstalledVersion,
		LatestVersion:  info.LatestVersion,
		Breaking:       c.Comparator.IsBreaking(record.InstalledVersion, info.LatestVersion),
		Description:    info.Description,
	}, true
}
