package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/haseebmalik18/switchr/internal/policies"
	"github.com/haseebmalik18/switchr/internal/types"
)

// CheckUpdates compares installed packages against registry metadata
// and reports every package whose latest published version is newer.
// Registry failures for individual packages are reported alongside the
// candidates, never aborting the batch.
func (s *Service) CheckUpdates(ctx context.Context, req UpdateCheckRequest) (UpdateCheckResult, error) {
	records, err := s.recordsForCheck(ctx, req)
	if err != nil {
		return UpdateCheckResult{}, err
	}

	result := UpdateCheckResult{Candidates: []types.UpdateCandidate{}}
	for _, record := range records {
		info, err := s.registryInfo(ctx, record.Ecosystem, record.Name)
		if err != nil {
			log.Ctx(ctx).Warn().
				Str("ecosystem", string(record.Ecosystem)).
				Str("package", record.Name).
				Err(err).
				Msg("update check skipped")
			result.Failures = append(result.Failures, ItemFailure{
				Name:      record.Name,
				Ecosystem: record.Ecosystem,
				Error:     errorMessage(err),
			})
			continue
		}
		if candidate, ok := s.Updates.Candidate(record, info); ok {
			result.Candidates = append(result.Candidates, candidate)
		}
	}
	return result, nil
}

// UpdatePackages applies the updates the policy allows and reports
// the rest. A failed install is a per-package failure; updates for
// other packages still proceed.
func (s *Service) UpdatePackages(ctx context.Context, req UpdateRequest) (UpdateResult, error) {
	check, err := s.CheckUpdates(ctx, UpdateCheckRequest{Name: req.Name, Ecosystem: req.Ecosystem})
	if err != nil {
		return UpdateResult{}, err
	}

	policy := policies.UpdatePolicy{Latest: req.Latest, Force: req.Force}
	result := UpdateResult{
		Applied:  []types.UpdateCandidate{},
		Failures: check.Failures,
	}
	for _, candidate := range check.Candidates {
		decision := policy.Decide(candidate)
		if decision.Action == policies.DecisionSkip {
			log.Ctx(ctx).Info().
				Str("package", candidate.Name).
				Str("reason", decision.Reason).
				Msg("update skipped")
			result.Skipped = append(result.Skipped, decision)
			continue
		}

		adapter, err := s.Adapter(candidate.Ecosystem)
		if err != nil {
			return UpdateResult{}, err
		}
		if _, err := adapter.Install(ctx, candidate.Name, "=="+candidate.LatestVersion); err != nil {
			log.Ctx(ctx).Warn().
				Str("ecosystem", string(candidate.Ecosystem)).
				Str("package", candidate.Name).
				Err(err).
				Msg("update apply failed")
			result.Failures = append(result.Failures, ItemFailure{
				Name:      candidate.Name,
				Ecosystem: candidate.Ecosystem,
				Error:     errorMessage(err),
			})
			continue
		}
		s.invalidateAfterMutation(candidate.Ecosystem, candidate.Name)
		result.Applied = append(result.Applied, candidate)
	}
	return result, nil
}

// recordsForCheck resolves the set of installed records an update
// request targets. An empty request means every registered ecosystem;
// naming a package narrows the check to its (ecosystem, name) record.
func (s *Service) recordsForCheck(ctx context.Context, req UpdateCheckRequest) ([]types.PackageRecord, error) {
	ecosystems := s.ordered
	if req.Ecosystem != "" {
		if _, err := s.Adapter(req.Ecosystem); err != nil {
			return nil, err
		}
		ecosystems = []types.Ecosystem{req.Ecosystem}
	}

	var records []types.PackageRecord
	for _, ecosystem := range ecosystems {
		installed, err := s.adapters[ecosystem].ListInstalled(ctx)
		if err != nil {
			log.Ctx(ctx).Warn().
				Str("ecosystem", string(ecosystem)).
				Err(err).
				Msg("manifest unreadable, skipping ecosystem in update check")
			continue
		}
		for _, record := range installed {
			if req.Name != "" && record.Name != req.Name {
				continue
			}
			records = append(records, record)
		}
	}
	return records, nil
}

// registryInfo fetches registry metadata through the result cache, so
// repeated checks inside the TTL window reuse one upstream call.
func (s *Service) registryInfo(ctx context.Context, ecosystem types.Ecosystem, name string) (types.RegistryInfo, error) {
	adapter, err := s.Adapter(ecosystem)
	if err != nil {
		return types.RegistryInfo{}, err
	}
	value, err := s.Cache.GetOrCompute(ctx, registryKey(ecosystem, name), s.Config.RegistryTTL, func(ctx context.Context) (any, error) {
		return adapter.QueryRegistry(ctx, name)
	})
	if err != nil {
		return types.RegistryInfo{}, err
	}
	return value.(types.RegistryInfo), nil
}
