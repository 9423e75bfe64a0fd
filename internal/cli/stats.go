package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics for this invocation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStats(cmd)
		},
	}
}

// Stats are process-lifetime counters; a fresh CLI invocation reports
// whatever its own commands accumulated, which is mostly useful with
// the service embedded in a longer-lived caller.
func runStats(cmd *cobra.Command) error {
	service, err := newAppService()
	if err != nil {
		return err
	}
	defer service.Cleanup()

	stats := service.GetStats()
	if jsonOutput() {
		return printJSON(stats)
	}
	fmt.Printf("cache hits:     %d\n", stats.CacheHits)
	fmt.Printf("cache misses:   %d\n", stats.CacheMisses)
	fmt.Printf("total requests: %d\n", stats.TotalRequests)
	return nil
}
