package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/haseebmalik18/switchr/internal/adapters"
	"github.com/haseebmalik18/switchr/internal/app"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "SWITCHR"

type RootConfig struct {
	ConfigFile string
	LogLevel   string
	Project    string
	JSON       bool
}

func Execute() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	cmd := &cobra.Command{
		Use:     "switchr",
		Short:   "Workstation package and runtime manager",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			setupLogging(viper.GetString("log_level"))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	cmd.PersistentFlags().StringVar(&cfg.Project, "project", "", "Project directory")
	cmd.PersistentFlags().BoolVar(&cfg.JSON, "json", false, "Emit JSON instead of text")
	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("project", cmd.PersistentFlags().Lookup("project"))
	_ = viper.BindPFlag("json", cmd.PersistentFlags().Lookup("json"))

	cmd.AddCommand(newStatusCommand())
	cmd.AddCommand(newAddCommand())
	cmd.AddCommand(newRemoveCommand())
	cmd.AddCommand(newUpdateCommand())
	cmd.AddCommand(newSearchCommand())
	cmd.AddCommand(newTreeCommand())
	cmd.AddCommand(newStatsCommand())
	return cmd
}

func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName("switchr")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/switchr")
	if err := viper.ReadInConfig(); err != nil {
		return nil
	}
	return nil
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// newAppService builds one orchestrator from the project's stored
// config plus flag/env overrides. Callers own Cleanup.
func newAppService() (*app.Service, error) {
	project := viper.GetString("project")
	if project == "" {
		project = "."
	}
	cfg, err := adapters.NewConfigStoreAdapter(project).Load()
	if err != nil {
		return nil, err
	}
	cfg.ProjectPath = project
	return app.NewService(cfg), nil
}

// commandContext attaches the process logger so service-layer
// log.Ctx calls have a sink.
func commandContext(cmd *cobra.Command) context.Context {
	return log.Logger.WithContext(cmd.Context())
}

// jsonOutput reads the bound persistent flag; viper tracks the flag
// value, so subcommands need no plumbing.
func jsonOutput() bool {
	return viper.GetBool("json")
}

func printJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func exitCodeForError(err error) int {
	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeInvalidArgument:
		return 2
	case errbuilder.CodeFailedPrecondition:
		return 3
	case errbuilder.CodeUnavailable:
		return 4
	case errbuilder.CodeNotFound, errbuilder.CodeDataLoss:
		return 5
	case errbuilder.CodeInternal:
		return 6
	default:
		return 1
	}
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetBool(key)
}

func resolveInt(cmd *cobra.Command, value int, key string, flagName string) int {
	if cmd == nil {
		if value != 0 {
			return value
		}
		return viper.GetInt(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetInt(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}

func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
