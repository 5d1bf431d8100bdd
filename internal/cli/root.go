// Package cli implements the cragmatch command-line interface.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cragmatch/cragmatch/internal/config"
)

// app carries state shared by every subcommand. Configuration is loaded lazily
// so commands like version work without a valid config.
type app struct {
	configPath string
	debug      bool

	cfg    *config.Config
	logger zerolog.Logger
}

// NewRootCommand builds the cragmatch command tree.
func NewRootCommand(version string) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "cragmatch",
		Short:         "Climbing route catalog and recommender",
		Long:          `Import a climbing route catalog, inspect it and get route recommendations for a skill level and style.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $"+config.PathEnvVar+")")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newImportCommand(a),
		newRecommendCommand(a),
		newStatsCommand(a),
		newTokenCommand(a),
		newVersionCommand(version),
	)

	return root
}

// load reads configuration and sets up logging on stderr.
func (a *app) load(cmd *cobra.Command) error {
	if a.cfg != nil {
		return nil
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.cfg = cfg

	level := zerolog.WarnLevel
	if a.debug {
		level = zerolog.DebugLevel
	}
	a.logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true}).
		Level(level).
		With().
		Timestamp().
		Logger()

	return nil
}

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cragmatch version %s\n", version)
		},
	}
}
