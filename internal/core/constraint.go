package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/haseebmalik18/switchr/internal/types"
)

// opTokens is the ordered list of constraint operators tried during
// parsing. Longer tokens must precede shorter ones to avoid false matches
// (e.g. ">=" before ">").
var opTokens = []types.ConstraintOp{
	types.ConstraintOpGte,
	types.ConstraintOpLte,
	types.ConstraintOpCompat,
	types.ConstraintOpNe,
	types.ConstraintOpEq2,
	types.ConstraintOpEq,
	types.ConstraintOpGt,
	types.ConstraintOpLt,
}

// ParseConstraint splits a raw "name>=version" or "name@version" entry
// into a Constraint. When neither an operator nor an @pin is found the
// entry is treated as a bare name reference with ConstraintOpNone.
func ParseConstraint(raw string, source string) (types.Constraint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return types.Constraint{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("empty constraint")
	}
	for _, op := range opTokens {
		if strings.Contains(raw, string(op)) {
			parts := strings.SplitN(raw, string(op), 2)
			name := strings.TrimSpace(parts[0])
			version := strings.TrimSpace(parts[1])
			if name == "" || version == "" {
				return types.Constraint{}, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("invalid constraint: %s", raw))
			}
			return types.Constraint{
				Name:    name,
				Op:      op,
				Version: version,
				Source:  source,
			}, nil
		}
	}
	// "name@1.2.3" pins an exact version. The separator search starts
	// past index 0 so npm scopes ("@types/node") stay intact.
	if at := strings.Index(raw[1:], "@"); at >= 0 {
		name := strings.TrimSpace(raw[:at+1])
		version := strings.TrimSpace(raw[at+2:])
		if name == "" || version == "" {
			return types.Constraint{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid constraint: %s", raw))
		}
		return types.Constraint{
			Name:    name,
			Op:      types.ConstraintOpEq2,
			Version: version,
			Source:  source,
		}, nil
	}
	return types.Constraint{
		Name:    raw,
		Op:      types.ConstraintOpNone,
		Version: "",
		Source:  source,
	}, nil
}
