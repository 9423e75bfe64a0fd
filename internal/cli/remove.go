package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/haseebmalik18/switchr/internal/app"
)

type removeOptions struct {
	Ecosystem string
	Force     bool
}

func newRemoveCommand() *cobra.Command {
	opts := removeOptions{}
	cmd := &cobra.Command{
		Use:   "remove <package>",
		Short: "Remove a package from the project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd, opts, args[0])
		},
	}
	cmd.Flags().StringVar(&opts.Ecosystem, "ecosystem", "", "Target ecosystem (npm, pip, go, maven, apt)")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Remove even when the manifest does not declare the package")
	_ = viper.BindPFlag("ecosystem", cmd.Flags().Lookup("ecosystem"))
	return cmd
}

func runRemove(cmd *cobra.Command, opts removeOptions, name string) error {
	ecosystem, err := requireEcosystem(resolveString(cmd, opts.Ecosystem, "ecosystem", "ecosystem"))
	if err != nil {
		return err
	}
	service, err := newAppService()
	if err != nil {
		return err
	}
	defer service.Cleanup()

	removed, err := service.RemovePackage(commandContext(cmd), app.RemoveRequest{
		Name:      name,
		Ecosystem: ecosystem,
		Force:     opts.Force,
	})
	if err != nil {
		return err
	}
	if jsonOutput() {
		return printJSON(map[string]any{"removed": removed, "package": name})
	}
	if removed {
		fmt.Printf("removed %s (%s)\n", name, ecosystem)
	} else {
		fmt.Printf("%s is not declared in the %s manifest; use --force to remove anyway\n", name, ecosystem)
	}
	return nil
}
