package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/haseebmalik18/switchr/internal/core"
	"github.com/haseebmalik18/switchr/internal/types"
)

// SearchPackages fans one query out across the registered ecosystems
// and the runtime/service catalog. Options narrow the source set; an
// explicit ecosystem must be registered.
func (s *Service) SearchPackages(ctx context.Context, query string, opts core.SearchOptions) ([]types.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("search query is required")
	}
	if opts.Ecosystem != "" {
		if _, err := s.Adapter(opts.Ecosystem); err != nil {
			return nil, err
		}
	}
	if opts.Limit <= 0 {
		opts.Limit = s.Config.SearchLimit
	}
	aggregator := core.NewAggregator(s.adapterList(), s.Catalog, s.Config.DetectionHints)
	return aggregator.Search(ctx, query, opts)
}
