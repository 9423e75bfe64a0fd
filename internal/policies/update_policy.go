package policies

import (
	"fmt"

	"github.com/haseebmalik18/switchr/internal/types"
)

const (
	DecisionApply = "apply"
	DecisionSkip  = "skip"
)

// UpdateDecision records what the policy decided for one candidate
// and why, so skipped packages are reported rather than silently
// left behind.
type UpdateDecision struct {
	Candidate types.UpdateCandidate
	Action    string
	Reason    string
}

// UpdatePolicy gates update application. Latest widens eligibility to
// breaking candidates; Force applies them without widening the
// default report.
type UpdatePolicy struct {
	Latest bool
	Force  bool
}

// Decide classifies one candidate. Non-breaking updates always apply.
// Breaking updates apply only when the caller asked for latest or
// forced; otherwise the package is skipped with a reason.
func (p UpdatePolicy) Decide(candidate types.UpdateCandidate) UpdateDecision {
	decision := UpdateDecision{Candidate: candidate, Action: DecisionApply}
	if !candidate.Breaking {
		return decision
	}
	if p.Latest || p.Force {
		decision.Reason = fmt.Sprintf("breaking %s -> %s applied on request",
			candidate.CurrentVersion, candidate.LatestVersion)
		return decision
	}
	decision.Action = DecisionSkip
	decision.Reason = fmt.Sprintf("breaking %s -> %s requires --latest or --force",
		candidate.CurrentVersion, candidate.LatestVersion)
	return decision
}
