package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/samuelfneumann/pursuit/agent"
	"github.com/samuelfneumann/pursuit/config"
	"github.com/samuelfneumann/pursuit/experiment"
	"github.com/samuelfneumann/pursuit/experiment/trackers"

	// Register the agents that can be configured
	_ "github.com/samuelfneumann/pursuit/agent/tabular/minimaxq"
	_ "github.com/samuelfneumann/pursuit/agent/tabular/montecarlo"
	_ "github.com/samuelfneumann/pursuit/agent/tabular/planner"
	_ "github.com/samuelfneumann/pursuit/agent/tabular/qlearning"
	_ "github.com/samuelfneumann/pursuit/agent/tabular/sarsa"
)

func newLearnCommand(cfg *config.Config) *cobra.Command {
	var (
		episodes     int
		report, data string
	)

	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Learn a policy online with the configured agent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if flags.Changed("episodes") {
				cfg.Experiment.Episodes = episodes
			}
			if flags.Changed("report") {
				cfg.Experiment.Report = report
			}
			if flags.Changed("data-dir") {
				cfg.Experiment.DataDir = data
			}
			return learn(cmd, cfg)
		},
	}
	cmd.Flags().IntVar(&episodes, "episodes", 0,
		"Number of episodes, overriding the configuration")
	cmd.Flags().StringVar(&report, "report", "",
		"HTML file to write learning curves to")
	cmd.Flags().StringVar(&data, "data-dir", "",
		"Directory to save tracked data in")
	return cmd
}

func learn(cmd *cobra.Command, cfg *config.Config) error {
	conf, err := cfg.ExperimentConfig()
	if err != nil {
		return fmt.Errorf("learn: %w", err)
	}

	dir := cfg.Experiment.DataDir
	returns := trackers.NewReturn(filepath.Join(dir, "return.gob"))
	lengths := trackers.NewEpisodeLength(filepath.Join(dir,
		"episode_length.gob"))

	exp, err := conf.CreateExp(cfg.Experiment.Seed, returns, lengths)
	if err != nil {
		return fmt.Errorf("learn: %w", err)
	}
	online, _ := exp.(*experiment.Online)
	if online != nil && cfg.Experiment.Progress {
		online.ShowProgress(cmd.ErrOrStderr())
	}

	if err := exp.Run(); err != nil {
		return fmt.Errorf("learn: %w", err)
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("learn: %w", err)
		}
		if err := exp.Save(); err != nil {
			return fmt.Errorf("learn: %w", err)
		}
		log.Info().Str("run", exp.ID().String()).Msgf("data saved to %s", dir)
	}

	if path := cfg.Experiment.Report; path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("learn: %w", err)
		}
		defer f.Close()

		title := fmt.Sprintf("%s on %dx%d pursuit", cfg.Agent.Type,
			cfg.Environment.Width, cfg.Environment.Height)
		if err := experiment.Report(f, title, exp.ID(),
			exp.Trackers()...); err != nil {
			return fmt.Errorf("learn: %w", err)
		}
		log.Info().Str("run", exp.ID().String()).Msgf("report written to %s",
			path)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "run:       %v\n", exp.ID())
	fmt.Fprintf(w, "episodes:  %d\n", len(returns.Data()))
	if online != nil {
		fmt.Fprintf(w, "timeouts:  %d\n", online.Timeouts())
		if s, ok := online.Agent.(agent.Storer); ok {
			fmt.Fprintf(w, "states:    %d\n", s.Store().Len())
		}
	}

	recent := returns.Data()
	if len(recent) > experiment.Window {
		recent = recent[len(recent)-experiment.Window:]
	}
	fmt.Fprintf(w, "return:    %.4f (mean of last %d)\n",
		stat.Mean(recent, nil), len(recent))
	fmt.Fprintf(w, "length:    %.4f (mean of last %d)\n",
		experiment.MovingAverage(lengths.Data(), len(lengths.Data())-1,
			experiment.Window), len(recent))
	return nil
}
