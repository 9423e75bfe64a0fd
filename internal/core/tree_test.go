package core

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haseebmalik18/switchr/internal/shared"
	"github.com/haseebmalik18/switchr/internal/types"
)

func TestBuildExpandsTransitively(t *testing.T) {
	adapter := &fakeEcosystem{
		ecosystem: types.EcosystemNpm,
		registry: map[string]types.RegistryInfo{
			"app": {Name: "app", LatestVersion: "1.0.0"},
		},
		deps: map[string][]types.DependencyRef{
			"app": {{Name: "lib", Constraint: "^2.0.0"}},
			"lib": {{Name: "leaf", Constraint: "~1.1.0"}},
		},
	}

	root, err := NewTreeBuilder(adapter).Build(context.Background(), "app", 8)
	require.NoError(t, err)

	expected := &types.DependencyNode{
		Name:    "app",
		Version: "1.0.0",
		Dependencies: []*types.DependencyNode{
			{
				Name:    "lib",
				Version: "^2.0.0",
				Dependencies: []*types.DependencyNode{
					{Name: "leaf", Version: "~1.1.0"},
				},
			},
		},
	}
	if diff := cmp.Diff(expected, root); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildRejectsCycle(t *testing.T) {
	adapter := &fakeEcosystem{
		ecosystem: types.EcosystemNpm,
		deps: map[string][]types.DependencyRef{
			"a": {{Name: "b"}},
			"b": {{Name: "c"}},
			"c": {{Name: "a"}},
		},
	}

	_, err := NewTreeBuilder(adapter).Build(context.Background(), "a", 8)
	require.Error(t, err)
	assert.True(t, shared.IsCyclicDependency(err))
	assert.Contains(t, err.Error(), "a -> b -> c -> a")
}

func TestBuildKeepsDiamondBranches(t *testing.T) {
	adapter := &fakeEcosystem{
		ecosystem: types.EcosystemNpm,
		deps: map[string][]types.DependencyRef{
			"root": {{Name: "b"}, {Name: "c"}},
			"b":    {{Name: "d"}},
			"c":    {{Name: "d"}},
		},
	}

	root, err := NewTreeBuilder(adapter).Build(context.Background(), "root", 8)
	require.NoError(t, err)
	require.Len(t, root.Dependencies, 2)
	require.Len(t, root.Dependencies[0].Dependencies, 1)
	require.Len(t, root.Dependencies[1].Dependencies, 1)
	assert.Equal(t, "d", root.Dependencies[0].Dependencies[0].Name)
	assert.Equal(t, "d", root.Dependencies[1].Dependencies[0].Name)
}

func TestBuildTruncatesAtMaxDepth(t *testing.T) {
	adapter := &fakeEcosystem{
		ecosystem: types.EcosystemNpm,
		deps: map[string][]types.DependencyRef{
			"a": {{Name: "b"}},
			"b": {{Name: "c"}},
			"c": {{Name: "d"}},
		},
	}

	root, err := NewTreeBuilder(adapter).Build(context.Background(), "a", 2)
	require.NoError(t, err)
	require.Len(t, root.Dependencies, 1)
	child := root.Dependencies[0]
	require.Len(t, child.Dependencies, 1)
	assert.Empty(t, child.Dependencies[0].Dependencies, "expansion should stop at the depth bound")
}

func TestBuildTruncatesUnavailableBranch(t *testing.T) {
	adapter := &fakeEcosystem{
		ecosystem: types.EcosystemNpm,
		deps: map[string][]types.DependencyRef{
			"a": {{Name: "b"}, {Name: "c"}},
			"c": {{Name: "leaf"}},
		},
		depsErr: map[string]error{
			"b": shared.RegistryUnavailableError("npm", assertableError("timeout")),
		},
	}

	root, err := NewTreeBuilder(adapter).Build(context.Background(), "a", 8)
	require.NoError(t, err)
	require.Len(t, root.Dependencies, 2)
	assert.Empty(t, root.Dependencies[0].Dependencies)
	require.Len(t, root.Dependencies[1].Dependencies, 1)
}

type assertableError string

func (e assertableError) Error() string { return string(e) }
