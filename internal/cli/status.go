package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haseebmalik18/switchr/internal/app"
	"github.com/haseebmalik18/switchr/internal/types"
)

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show installed packages, runtimes and service templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd)
		},
	}
}

func runStatus(cmd *cobra.Command) error {
	service, err := newAppService()
	if err != nil {
		return err
	}
	defer service.Cleanup()

	result, err := service.GetPackageStatus(commandContext(cmd))
	if err != nil {
		return err
	}
	if jsonOutput() {
		return printJSON(result)
	}
	printStatus(result)
	return nil
}

func printStatus(result app.StatusResult) {
	fmt.Println("runtimes:")
	for _, runtime := range result.Runtimes {
		marker := "missing"
		if runtime.Available {
			marker = runtime.Version
		}
		fmt.Printf("  %-10s %s\n", runtime.Name, marker)
	}

	fmt.Println("dependencies:")
	for _, ecosystem := range types.Ecosystems() {
		records := result.Dependencies[ecosystem]
		if len(records) == 0 {
			continue
		}
		fmt.Printf("  %s:\n", ecosystem)
		for _, record := range records {
			line := record.Name
			if record.InstalledVersion != "" {
				line += " " + record.InstalledVersion
			}
			if record.DeclaredConstraint != "" {
				line += " (" + record.DeclaredConstraint + ")"
			}
			fmt.Printf("    %s\n", line)
		}
	}

	if len(result.Services) > 0 {
		fmt.Printf("service templates: %d available\n", len(result.Services))
	}
}
