package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/haseebmalik18/switchr/internal/app"
	"github.com/haseebmalik18/switchr/internal/types"
)

type updateOptions struct {
	Ecosystem string
	Apply     bool
	Latest    bool
	Force     bool
}

func newUpdateCommand() *cobra.Command {
	opts := updateOptions{}
	cmd := &cobra.Command{
		Use:   "update [package]",
		Short: "Check for updates, optionally applying them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return runUpdate(cmd, opts, name)
		},
	}
	cmd.Flags().StringVar(&opts.Ecosystem, "ecosystem", "", "Restrict to one ecosystem")
	cmd.Flags().BoolVar(&opts.Apply, "apply", false, "Apply eligible updates instead of only reporting")
	cmd.Flags().BoolVar(&opts.Latest, "latest", false, "Also apply breaking updates")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Apply breaking updates without widening the report")
	_ = viper.BindPFlag("ecosystem", cmd.Flags().Lookup("ecosystem"))
	return cmd
}

func runUpdate(cmd *cobra.Command, opts updateOptions, name string) error {
	ecosystem, err := optionalEcosystem(resolveString(cmd, opts.Ecosystem, "ecosystem", "ecosystem"))
	if err != nil {
		return err
	}
	service, err := newAppService()
	if err != nil {
		return err
	}
	defer service.Cleanup()
	ctx := commandContext(cmd)

	if opts.Apply || opts.Latest || opts.Force {
		result, err := service.UpdatePackages(ctx, app.UpdateRequest{
			Name:      name,
			Ecosystem: ecosystem,
			Latest:    opts.Latest,
			Force:     opts.Force,
		})
		if err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(result)
		}
		printUpdateApply(result)
		return nil
	}

	result, err := service.CheckUpdates(ctx, app.UpdateCheckRequest{Name: name, Ecosystem: ecosystem})
	if err != nil {
		return err
	}
	if jsonOutput() {
		return printJSON(result)
	}
	printUpdateCheck(result)
	return nil
}

func printUpdateCheck(result app.UpdateCheckResult) {
	if len(result.Candidates) == 0 {
		fmt.Println("everything is up to date")
	}
	for _, candidate := range result.Candidates {
		marker := ""
		if candidate.Breaking {
			marker = " [breaking]"
		}
		fmt.Printf("%s (%s): %s -> %s%s\n",
			candidate.Name, candidate.Ecosystem,
			candidate.CurrentVersion, candidate.LatestVersion, marker)
	}
	printFailures(result.Failures)
}

func printUpdateApply(result app.UpdateResult) {
	for _, candidate := range result.Applied {
		fmt.Printf("updated %s (%s): %s -> %s\n",
			candidate.Name, candidate.Ecosystem,
			candidate.CurrentVersion, candidate.LatestVersion)
	}
	for _, decision := range result.Skipped {
		fmt.Printf("skipped %s: %s\n", decision.Candidate.Name, decision.Reason)
	}
	if len(result.Applied) == 0 && len(result.Skipped) == 0 {
		fmt.Println("nothing to update")
	}
	printFailures(result.Failures)
}

func printFailures(failures []app.ItemFailure) {
	for _, failure := range failures {
		errorf("failed %s (%s): %s", failure.Name, failure.Ecosystem, failure.Error)
	}
}

func optionalEcosystem(value string) (types.Ecosystem, error) {
	if value == "" {
		return "", nil
	}
	return requireEcosystem(value)
}
