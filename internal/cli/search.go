package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/haseebmalik18/switchr/internal/core"
	"github.com/haseebmalik18/switchr/internal/types"
)

type searchOptions struct {
	Type      string
	Category  string
	Ecosystem string
	Limit     int
	SortBy    string
}

func newSearchCommand() *cobra.Command {
	opts := searchOptions{}
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search packages, runtimes and service templates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts, args[0])
		},
	}
	cmd.Flags().StringVar(&opts.Type, "type", "", "Filter by result type (runtime, service, dependency, tool)")
	cmd.Flags().StringVar(&opts.Category, "category", "", "Filter service templates by category")
	cmd.Flags().StringVar(&opts.Ecosystem, "ecosystem", "", "Restrict to one ecosystem")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Maximum results (default from config)")
	cmd.Flags().StringVar(&opts.SortBy, "sort", string(types.SortByRelevance), "Sort order (relevance, downloads, updated, name)")
	_ = viper.BindPFlag("ecosystem", cmd.Flags().Lookup("ecosystem"))
	_ = viper.BindPFlag("search_limit", cmd.Flags().Lookup("limit"))
	return cmd
}

func runSearch(cmd *cobra.Command, opts searchOptions, query string) error {
	ecosystem, err := optionalEcosystem(resolveString(cmd, opts.Ecosystem, "ecosystem", "ecosystem"))
	if err != nil {
		return err
	}
	service, err := newAppService()
	if err != nil {
		return err
	}
	defer service.Cleanup()

	results, err := service.SearchPackages(commandContext(cmd), query, core.SearchOptions{
		Type:      types.ResultType(opts.Type),
		Category:  opts.Category,
		Ecosystem: ecosystem,
		Limit:     resolveInt(cmd, opts.Limit, "search_limit", "limit"),
		SortBy:    types.SortBy(opts.SortBy),
	})
	if err != nil {
		return err
	}
	if jsonOutput() {
		return printJSON(results)
	}
	if len(results) == 0 {
		fmt.Println("no results")
		return nil
	}
	for _, result := range results {
		line := fmt.Sprintf("%-3d %-10s %s", result.Score, result.Type, result.Name)
		if result.Ecosystem != "" {
			line += fmt.Sprintf(" (%s)", result.Ecosystem)
		}
		if result.Version != "" {
			line += " " + result.Version
		}
		fmt.Println(line)
		if result.Description != "" {
			fmt.Printf("    %s\n", result.Description)
		}
	}
	return nil
}
