package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/haseebmalik18/switchr/internal/app"
	"github.com/haseebmalik18/switchr/internal/types"
)

type treeOptions struct {
	Ecosystem string
	Depth     int
}

func newTreeCommand() *cobra.Command {
	opts := treeOptions{}
	cmd := &cobra.Command{
		Use:   "tree [package]",
		Short: "Show the dependency tree for a package or the whole project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return runTree(cmd, opts, name)
		},
	}
	cmd.Flags().StringVar(&opts.Ecosystem, "ecosystem", "", "Ecosystem of the named package")
	cmd.Flags().IntVar(&opts.Depth, "depth", 0, "Maximum expansion depth (default from config)")
	_ = viper.BindPFlag("ecosystem", cmd.Flags().Lookup("ecosystem"))
	_ = viper.BindPFlag("tree_depth", cmd.Flags().Lookup("depth"))
	return cmd
}

func runTree(cmd *cobra.Command, opts treeOptions, name string) error {
	ecosystem := types.Ecosystem("")
	if name != "" {
		resolved, err := requireEcosystem(resolveString(cmd, opts.Ecosystem, "ecosystem", "ecosystem"))
		if err != nil {
			return err
		}
		ecosystem = resolved
	}
	service, err := newAppService()
	if err != nil {
		return err
	}
	defer service.Cleanup()

	root, err := service.DependencyTree(commandContext(cmd), app.TreeRequest{
		Name:      name,
		Ecosystem: ecosystem,
		MaxDepth:  resolveInt(cmd, opts.Depth, "tree_depth", "depth"),
	})
	if err != nil {
		return err
	}
	if jsonOutput() {
		return printJSON(root)
	}
	printTree(root, 0)
	return nil
}

func printTree(node *types.DependencyNode, depth int) {
	line := node.Name
	if node.Version != "" {
		line += " " + node.Version
	}
	fmt.Printf("%s%s\n", strings.Repeat("  ", depth), line)
	for _, child := range node.Dependencies {
		printTree(child, depth+1)
	}
}
