// Package cmd implements the pursuit command line tool
package cmd

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/samuelfneumann/pursuit/config"
)

// Execute runs the pursuit command line tool
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand returns the root command of the pursuit command line
// tool along with all its subcommands
func NewRootCommand() *cobra.Command {
	var (
		path     string
		logLevel string
		cfg      = config.Default()
	)

	root := &cobra.Command{
		Use:   "pursuit",
		Short: "Predator/prey pursuit on a toroidal grid",
		Long: `Solve and learn policies for the predator/prey pursuit game.

Policies are planned with policy evaluation, policy iteration and value
iteration on the exact model of the game, or learned online with
Q-learning, SARSA, Monte Carlo control and Minimax-Q.

Settings are read from the file given by --config and may be
overridden by PURSUIT_* environment variables, e.g.
PURSUIT_EXPERIMENT_EPISODES=500.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(path)
			if err != nil {
				return err
			}
			*cfg = *loaded

			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			return setupLogging(cfg.LogLevel, cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&path, "config", "",
		"Configuration file (yaml, json or toml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", cfg.LogLevel,
		"Log level (debug, info, warn, error)")

	root.AddCommand(
		newPlanCommand(cfg, evaluate),
		newPlanCommand(cfg, iteratePolicy),
		newPlanCommand(cfg, iterateValues),
		newLearnCommand(cfg),
	)
	return root
}

// setupLogging points the global logger at w with the given level
func setupLogging(level string, w io.Writer) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
	}).With().Timestamp().Logger()
	return nil
}
