package cli

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/haseebmalik18/switchr/internal/app"
	"github.com/haseebmalik18/switchr/internal/types"
)

type addOptions struct {
	Ecosystem  string
	Constraint string
}

func newAddCommand() *cobra.Command {
	opts := addOptions{}
	cmd := &cobra.Command{
		Use:   "add <package>",
		Short: "Install a package into the project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, opts, args[0])
		},
	}
	cmd.Flags().StringVar(&opts.Ecosystem, "ecosystem", "", "Target ecosystem (npm, pip, go, maven, apt)")
	cmd.Flags().StringVar(&opts.Constraint, "constraint", "", "Version constraint, e.g. ==1.2.3 or >=2.0")
	_ = viper.BindPFlag("ecosystem", cmd.Flags().Lookup("ecosystem"))
	return cmd
}

func runAdd(cmd *cobra.Command, opts addOptions, name string) error {
	ecosystem, err := requireEcosystem(resolveString(cmd, opts.Ecosystem, "ecosystem", "ecosystem"))
	if err != nil {
		return err
	}
	service, err := newAppService()
	if err != nil {
		return err
	}
	defer service.Cleanup()

	result, err := service.AddPackage(commandContext(cmd), app.AddRequest{
		Name:       name,
		Ecosystem:  ecosystem,
		Constraint: opts.Constraint,
	})
	if err != nil {
		return err
	}
	if jsonOutput() {
		return printJSON(result)
	}
	if !result.Success {
		errorf("add failed: %s", result.Error)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(result.Error)
	}
	line := result.Package.Name
	if result.Package.InstalledVersion != "" {
		line += " " + result.Package.InstalledVersion
	}
	fmt.Printf("added %s (%s)\n", line, ecosystem)
	return nil
}

func requireEcosystem(value string) (types.Ecosystem, error) {
	if value == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("--ecosystem is required")
	}
	candidate := types.Ecosystem(value)
	for _, known := range types.Ecosystems() {
		if candidate == known {
			return candidate, nil
		}
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("unknown ecosystem %q", value))
}
