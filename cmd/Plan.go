package cmd

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/samuelfneumann/pursuit/agent"
	"github.com/samuelfneumann/pursuit/config"
	"github.com/samuelfneumann/pursuit/dp"
	"github.com/samuelfneumann/pursuit/grid"
	"github.com/samuelfneumann/pursuit/policy"
)

// method is a dynamic programming method run by a plan command
type method struct {
	use   string
	short string
	run   func(s *dp.Solver, p *policy.Store) error
}

var (
	evaluate = method{
		use:   "evaluate",
		short: "Evaluate the uniform random policy",
		run:   (*dp.Solver).Evaluate,
	}
	iteratePolicy = method{
		use:   "iterate-policy",
		short: "Find the optimal policy with policy iteration",
		run:   (*dp.Solver).IteratePolicy,
	}
	iterateValues = method{
		use:   "iterate-values",
		short: "Find the optimal policy with value iteration",
		run:   (*dp.Solver).IterateValues,
	}
)

func newPlanCommand(cfg *config.Config, m method) *cobra.Command {
	return &cobra.Command{
		Use:   m.use,
		Short: m.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return plan(cmd.OutOrStdout(), cfg, m)
		},
	}
}

// plan runs m on the configured game and reports the value and policy
// of the starting state
func plan(w io.Writer, cfg *config.Config, m method) error {
	env, first, err := cfg.Environment.CreateEnv(cfg.Experiment.Seed)
	if err != nil {
		return fmt.Errorf("%s: %w", m.use, err)
	}

	model := env.Model()
	space, err := grid.NewSpace(model.Grid(), model.Roster()...)
	if err != nil {
		return fmt.Errorf("%s: %w", m.use, err)
	}
	solver, err := dp.New(model, space, dp.Config{
		Discount:  cfg.Planning.Discount,
		Threshold: cfg.Planning.Threshold,
		MaxSweeps: cfg.Planning.MaxSweeps,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", m.use, err)
	}

	store := policy.NewStore(agent.Keyer(env, cfg.Planning.Reduced), 0)
	store.SetDefaultProbabilities(policy.Uniform())

	log.Info().Msgf("%s: %d states on %v", m.use,
		space.Len(false), model.Grid())
	if err := m.run(solver, store); err != nil {
		return fmt.Errorf("%s: %w", m.use, err)
	}

	start := first.State
	fmt.Fprintf(w, "states:  %d\n", store.Len())
	fmt.Fprintf(w, "sweeps:  %d\n", solver.TotalSweeps())
	fmt.Fprintf(w, "start:   %v\n", start)
	fmt.Fprintf(w, "value:   %.6f\n", store.Value(start))

	e := store.Entry(start)
	for _, a := range grid.Actions {
		fmt.Fprintf(w, "  %-5v  π=%.4f\n", a, e.Probability(a))
	}
	return nil
}
