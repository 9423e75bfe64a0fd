package core

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/haseebmalik18/switchr/internal/ports"
	"github.com/haseebmalik18/switchr/internal/shared"
	"github.com/haseebmalik18/switchr/internal/types"
)

// DefaultTreeDepth bounds expansion on pathological or incomplete
// registry metadata.
const DefaultTreeDepth = 8

// TreeBuilder resolves a root package into its direct and transitive
// dependency tree using adapter metadata.
type TreeBuilder struct {
	Adapter ports.EcosystemPort
}

func NewTreeBuilder(adapter ports.EcosystemPort) TreeBuilder {
	return TreeBuilder{Adapter: adapter}
}

type treeWorkItem struct {
	node  *types.DependencyNode
	path  []string
	depth int
}

// Build expands rootName breadth-first up to maxDepth levels. Sibling
// order preserves the adapter's reported order. A name recurring on
// its own ancestor path fails the whole call with a cyclic dependency
// error; diamonds (same name on sibling branches) are kept as
// distinct nodes.
func (b TreeBuilder) Build(ctx context.Context, rootName string, maxDepth int) (*types.DependencyNode, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultTreeDepth
	}

	rootVersion := ""
	if info, err := b.Adapter.QueryRegistry(ctx, rootName); err == nil {
		rootVersion = info.LatestVersion
	}
	root := &types.DependencyNode{Name: rootName, Version: rootVersion}

	queue := []treeWorkItem{{node: root, path: []string{rootName}, depth: 0}}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		if item.depth >= maxDepth {
			continue
		}

		refs, err := b.Adapter.Dependencies(ctx, item.node.Name)
		if err != nil {
			if shared.IsRegistryUnavailable(err) {
				// Incomplete metadata truncates this branch only.
				log.Ctx(ctx).Warn().
					Str("package", item.node.Name).
					Err(err).
					Msg("dependency metadata unavailable, truncating branch")
				continue
			}
			return nil, err
		}

		for _, ref := range refs {
			for _, ancestor := range item.path {
				if ancestor == ref.Name {
					cycle := append(append([]string{}, item.path...), ref.Name)
					return nil, shared.CyclicDependencyError(cycle)
				}
			}
			child := &types.DependencyNode{Name: ref.Name, Version: ref.Constraint}
			item.node.Dependencies = append(item.node.Dependencies, child)

			childPath := make([]string, 0, len(item.path)+1)
			childPath = append(childPath, item.path...)
			childPath = append(childPath, ref.Name)
			queue = append(queue, treeWorkItem{node: child, path: childPath, depth: item.depth + 1})
		}
	}

	return root, nil
}
