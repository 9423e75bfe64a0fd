package app

import (
	"context"
	"errors"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"github.com/haseebmalik18/switchr/internal/core"
	"github.com/haseebmalik18/switchr/internal/types"
)

// AddPackage installs a package through the ecosystem's adapter and
// invalidates the cache entries the new state affects, so an
// immediately following status call reflects it. Adapter failures are
// reported in the structured result; only an unknown ecosystem is
// returned as an error.
func (s *Service) AddPackage(ctx context.Context, req AddRequest) (AddResult, error) {
	adapter, err := s.Adapter(req.Ecosystem)
	if err != nil {
		return AddResult{}, err
	}

	name := strings.TrimSpace(req.Name)
	constraint := strings.TrimSpace(req.Constraint)
	if constraint == "" && strings.ContainsAny(name, "@=<>~!") {
		if parsed, parseErr := core.ParseConstraint(name, "add"); parseErr == nil {
			name = parsed.Name
			if parsed.Version != "" {
				constraint = string(parsed.Op) + parsed.Version
			}
		}
	}
	if name == "" {
		return AddResult{Success: false, Error: "package name is required"}, nil
	}

	record, err := adapter.Install(ctx, name, constraint)
	if err != nil {
		log.Ctx(ctx).Warn().
			Str("ecosystem", string(req.Ecosystem)).
			Str("package", name).
			Err(err).
			Msg("install failed")
		return AddResult{Success: false, Error: errorMessage(err)}, nil
	}

	s.invalidateAfterMutation(req.Ecosystem, name)
	return AddResult{Success: true, Package: &record}, nil
}

// RemovePackage reports whether removal actually occurred; removing a
// package that was never present returns false without error unless
// forced.
func (s *Service) RemovePackage(ctx context.Context, req RemoveRequest) (bool, error) {
	adapter, err := s.Adapter(req.Ecosystem)
	if err != nil {
		return false, err
	}
	removed, err := adapter.Remove(ctx, strings.TrimSpace(req.Name), req.Force)
	if err != nil {
		return false, err
	}
	if removed {
		s.invalidateAfterMutation(req.Ecosystem, req.Name)
	}
	return removed, nil
}

// invalidateAfterMutation evicts every cache entry the mutated
// (ecosystem, name) identity can have contributed to.
func (s *Service) invalidateAfterMutation(ecosystem types.Ecosystem, name string) {
	s.Cache.Invalidate(statusKey)
	s.Cache.Invalidate(registryKey(ecosystem, name))
	s.Cache.InvalidatePrefix(treePrefix(ecosystem))
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}
