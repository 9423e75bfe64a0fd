package core

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/haseebmalik18/switchr/internal/ports"
	"github.com/haseebmalik18/switchr/internal/types"
)

// Relevance weights, strongest match first. The detection hint bonus
// from the project detector is added on top for catalog entries.
const (
	scoreExactName   = 100
	scorePrefixName  = 80
	scoreSubstring   = 60
	scoreDescription = 30
)

// SearchOptions filter and order one aggregated query.
type SearchOptions struct {
	Type      types.ResultType
	Category  string
	Ecosystem types.Ecosystem
	Limit     int
	SortBy    types.SortBy
}

// Aggregator fans a query out to every matching ecosystem adapter plus
// the runtime/service catalog, then dedupes, scores and ranks.
type Aggregator struct {
	Adapters []ports.EcosystemPort
	Catalog  ports.CatalogPort
	Hints    []types.DetectionHint
}

func NewAggregator(adapters []ports.EcosystemPort, catalog ports.CatalogPort, hints []types.DetectionHint) Aggregator {
	return Aggregator{Adapters: adapters, Catalog: catalog, Hints: hints}
}

// Search runs the fan-out concurrently and joins on all sources. A
// slow or failing source contributes nothing and is logged, never
// surfaced; the output is a total order so identical inputs produce
// identical output.
func (a Aggregator) Search(ctx context.Context, query string, opts SearchOptions) ([]types.SearchResult, error) {
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.SortBy == "" {
		opts.SortBy = types.SortByRelevance
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return []types.SearchResult{}, nil
	}

	sources := a.sources(opts)
	collected := make([][]types.SearchResult, len(sources))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, source := range sources {
		group.Go(func() error {
			results, err := source.fetch(groupCtx, query, opts)
			if err != nil {
				// Partial failure: omit this source's contribution.
				log.Ctx(ctx).Warn().
					Str("source", source.name).
					Err(err).
					Msg("search source failed")
				return nil
			}
			collected[i] = results
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	var raw []types.SearchResult
	for _, results := range collected {
		raw = append(raw, results...)
	}

	ranked := a.rank(query, raw, opts)
	if len(ranked) > opts.Limit {
		ranked = ranked[:opts.Limit]
	}
	return ranked, nil
}

type searchSource struct {
	name  string
	fetch func(ctx context.Context, query string, opts SearchOptions) ([]types.SearchResult, error)
}

func (a Aggregator) sources(opts SearchOptions) []searchSource {
	var sources []searchSource
	wantDeps := opts.Type == "" || opts.Type == types.ResultTypeDependency || opts.Type == types.ResultTypeTool
	if wantDeps {
		for _, adapter := range a.Adapters {
			if opts.Ecosystem != "" && adapter.Ecosystem() != opts.Ecosystem {
				continue
			}
			sources = append(sources, searchSource{
				name: string(adapter.Ecosystem()),
				fetch: func(ctx context.Context, query string, opts SearchOptions) ([]types.SearchResult, error) {
					return adapter.Search(ctx, query, opts.Limit)
				},
			})
		}
	}
	if a.Catalog != nil && (opts.Type == "" || opts.Type == types.ResultTypeService || opts.Type == types.ResultTypeRuntime) {
		sources = append(sources, searchSource{
			name:  "catalog",
			fetch: a.catalogResults,
		})
	}
	return sources
}

func (a Aggregator) catalogResults(ctx context.Context, query string, opts SearchOptions) ([]types.SearchResult, error) {
	var results []types.SearchResult
	if opts.Type == "" || opts.Type == types.ResultTypeService {
		templates, err := a.Catalog.ServiceTemplates()
		if err != nil {
			return nil, err
		}
		for _, template := range templates {
			if opts.Category != "" && !strings.EqualFold(template.Category, opts.Category) {
				continue
			}
			results = append(results, types.SearchResult{
				Name:        template.Name,
				Type:        types.ResultTypeService,
				Description: template.Description,
				Homepage:    template.Homepage,
			})
		}
	}
	if opts.Type == "" || opts.Type == types.ResultTypeRuntime {
		runtimes, err := a.Catalog.RuntimeStatus(ctx)
		if err != nil {
			return nil, err
		}
		for _, runtime := range runtimes {
			results = append(results, types.SearchResult{
				Name:      runtime.Name,
				Type:      types.ResultTypeRuntime,
				Ecosystem: runtime.Ecosystem,
				Version:   runtime.Version,
			})
		}
	}
	return results, nil
}

// rank scores, filters non-matches, dedupes by (name, type) keeping
// the higher score, and applies the requested total order.
func (a Aggregator) rank(query string, raw []types.SearchResult, opts SearchOptions) []types.SearchResult {
	type resultKey struct {
		name string
		typ  types.ResultType
	}
	best := map[resultKey]types.SearchResult{}
	var order []resultKey

	for _, result := range raw {
		if opts.Type != "" && result.Type != opts.Type {
			continue
		}
		score := ScoreMatch(query, result.Name, result.Description)
		if score == 0 {
			continue
		}
		if result.Type == types.ResultTypeService || result.Type == types.ResultTypeRuntime {
			score = a.applyHints(result.Name, score)
		}
		result.Score = score

		key := resultKey{name: result.Name, typ: result.Type}
		existing, ok := best[key]
		if !ok {
			best[key] = result
			order = append(order, key)
			continue
		}
		if result.Score > existing.Score {
			best[key] = result
		}
	}

	deduped := make([]types.SearchResult, 0, len(order))
	for _, key := range order {
		deduped = append(deduped, best[key])
	}
	sortResults(deduped, opts.SortBy)
	return deduped
}

// applyHints adds the configured detector bonus when a catalog entry
// matches a flagged framework and already scores at or above the
// hint's threshold.
func (a Aggregator) applyHints(name string, score int) int {
	for _, hint := range a.Hints {
		if !strings.EqualFold(hint.Framework, name) {
			continue
		}
		if score < hint.Threshold {
			continue
		}
		score += hint.Bonus
		if score > scoreExactName {
			score = scoreExactName
		}
	}
	return score
}

// ScoreMatch computes the weighted text relevance of a candidate for
// a query: exact name > name prefix > name substring > description
// substring. Zero means no match.
func ScoreMatch(query string, name string, description string) int {
	q := strings.ToLower(strings.TrimSpace(query))
	n := strings.ToLower(name)
	switch {
	case n == q:
		return scoreExactName
	case strings.HasPrefix(n, q):
		return scorePrefixName
	case strings.Contains(n, q):
		return scoreSubstring
	case strings.Contains(strings.ToLower(description), q):
		return scoreDescription
	default:
		return 0
	}
}

func sortResults(results []types.SearchResult, sortBy types.SortBy) {
	sort.SliceStable(results, func(i, j int) bool {
		left, right := results[i], results[j]
		switch sortBy {
		case types.SortByDownloads:
			if left.Downloads != right.Downloads {
				return left.Downloads > right.Downloads
			}
		case types.SortByUpdated:
			leftAt := updatedAt(left)
			rightAt := updatedAt(right)
			if !leftAt.Equal(rightAt) {
				return leftAt.After(rightAt)
			}
		case types.SortByName:
			if left.Name != right.Name {
				return left.Name < right.Name
			}
			return left.Ecosystem < right.Ecosystem
		default: // relevance
			if left.Score != right.Score {
				return left.Score > right.Score
			}
		}
		if left.Name != right.Name {
			return left.Name < right.Name
		}
		return left.Ecosystem < right.Ecosystem
	})
}

// updatedAt treats a missing timestamp as oldest.
func updatedAt(result types.SearchResult) time.Time {
	if result.LastUpdated != nil {
		return *result.LastUpdated
	}
	return time.Time{}
}
