package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/nestegg/internal/calculation"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [plan-file]",
	Short: "Run a Monte Carlo simulation of a plan",
	Long: `Simulate the plan with normally distributed annual returns around the
plan's return rate. Every trial is seeded from --seed, so a run can be
reproduced exactly; the effective seed is always reported.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		flags := cmd.Flags()
		mc := &a.settings.MonteCarlo
		if flags.Changed("trials") {
			mc.Trials, _ = flags.GetInt("trials")
		}
		if flags.Changed("seed") {
			mc.Seed, _ = flags.GetInt64("seed")
		}
		if flags.Changed("volatility") {
			mc.Volatility, _ = flags.GetFloat64("volatility")
		}
		if flags.Changed("workers") {
			mc.Workers, _ = flags.GetInt("workers")
		}
		if err := a.settings.Validate(); err != nil {
			return err
		}
		for _, w := range a.settings.Warnings() {
			a.logger.Warn(w)
		}

		input, name, err := loadPlan(args[0])
		if err != nil {
			return err
		}

		cfg := mc.Simulation()
		if cfg.Seed == 0 {
			cfg.Seed = calculation.NewSeed()
		}
		if progress, _ := flags.GetBool("progress"); progress {
			cfg.Progress = newProgressPrinter(cmd.ErrOrStderr()).report
		}

		ctx, cancel := a.context()
		defer cancel()
		result, err := a.calc.RunScenario(ctx, name, input, &cfg)
		if err != nil {
			return err
		}
		a.logger.Debug("simulation complete",
			zap.Int("trials", result.MonteCarlo.Trials),
			zap.Int64("seed", result.MonteCarlo.Seed))
		return a.writeReport(cmd, result)
	},
}

// progressPrinter writes a line each time another tenth of the trials
// completes. Workers report concurrently and out of order.
type progressPrinter struct {
	mu   sync.Mutex
	w    io.Writer
	last int
}

func newProgressPrinter(w io.Writer) *progressPrinter {
	return &progressPrinter{w: w}
}

func (p *progressPrinter) report(done, total int) {
	if total <= 0 {
		return
	}
	step := done * 10 / total
	p.mu.Lock()
	defer p.mu.Unlock()
	if step <= p.last {
		return
	}
	p.last = step
	fmt.Fprintf(p.w, "simulated %d%% of %d trials\n", step*10, total)
}

func init() {
	addReportFlags(simulateCmd)
	simulateCmd.Flags().Int("trials", calculation.DefaultTrials, "number of trials")
	simulateCmd.Flags().Int64("seed", 0, "random seed (0 picks one)")
	simulateCmd.Flags().Float64("volatility", calculation.DefaultVolatility, "annual return standard deviation")
	simulateCmd.Flags().Int("workers", 0, "parallel workers (0 uses every CPU)")
	simulateCmd.Flags().Bool("progress", false, "report progress on stderr")
}
