package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/haseebmalik18/switchr/internal/core"
	"github.com/haseebmalik18/switchr/internal/types"
)

// DependencyTree resolves the transitive dependency tree for one
// package, or for the whole project when no name is given. Named
// trees are cached under the registry TTL keyed by ecosystem, name
// and depth; project trees are assembled from the live manifests.
func (s *Service) DependencyTree(ctx context.Context, req TreeRequest) (*types.DependencyNode, error) {
	depth := req.MaxDepth
	if depth <= 0 {
		depth = s.Config.TreeDepth
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return s.projectTree(ctx, depth)
	}

	adapter, err := s.Adapter(req.Ecosystem)
	if err != nil {
		return nil, err
	}
	key := treeKey(req.Ecosystem, name, depth)
	value, err := s.Cache.GetOrCompute(ctx, key, s.Config.RegistryTTL, func(ctx context.Context) (any, error) {
		return core.NewTreeBuilder(adapter).Build(ctx, name, depth)
	})
	if err != nil {
		return nil, err
	}
	return value.(*types.DependencyNode), nil
}

// projectTree roots one synthetic node at the project and expands
// every declared dependency underneath it, one level of manifest plus
// registry-resolved transitive levels per package. An unreadable
// manifest or unreachable registry prunes that branch.
func (s *Service) projectTree(ctx context.Context, depth int) (*types.DependencyNode, error) {
	root := &types.DependencyNode{Name: projectNodeName(s.Config.ProjectPath)}
	for _, ecosystem := range s.ordered {
		adapter := s.adapters[ecosystem]
		records, err := adapter.ListInstalled(ctx)
		if err != nil {
			log.Ctx(ctx).Warn().
				Str("ecosystem", string(ecosystem)).
				Err(err).
				Msg("manifest unreadable, omitting from project tree")
			continue
		}
		builder := core.NewTreeBuilder(adapter)
		for _, record := range records {
			if depth <= 1 {
				root.Dependencies = append(root.Dependencies, &types.DependencyNode{
					Name:    record.Name,
					Version: record.InstalledVersion,
				})
				continue
			}
			node, err := builder.Build(ctx, record.Name, depth-1)
			if err != nil {
				log.Ctx(ctx).Warn().
					Str("ecosystem", string(ecosystem)).
					Str("package", record.Name).
					Err(err).
					Msg("tree branch unresolved")
				node = &types.DependencyNode{Name: record.Name, Version: record.InstalledVersion}
			}
			if node.Version == "" {
				node.Version = record.InstalledVersion
			}
			root.Dependencies = append(root.Dependencies, node)
		}
	}
	return root, nil
}

func projectNodeName(path string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(path), "/")
	if idx := strings.LastIndexByte(trimmed, '/'); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	if trimmed == "" {
		return "project"
	}
	return trimmed
}

func treeKey(ecosystem types.Ecosystem, name string, depth int) string {
	return fmt.Sprintf("%s%s:%d", treePrefix(ecosystem), name, depth)
}
