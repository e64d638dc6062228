package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/nestegg/internal/breakeven"
)

var solveCmd = &cobra.Command{
	Use:   "solve [plan-file]",
	Short: "Solve for the maximum sustainable income or earliest retirement age",
	Long: `Search for the largest monthly income (today's dollars) or the earliest
retirement age that keeps the plan funded to age 100.

Targets:
  income          maximum sustainable monthly income
  retirement_age  earliest sustainable retirement age
  all             both (default)

With --success-rate the answer must also reach that simulated success
rate, which runs a Monte Carlo simulation at every step of the search.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		targetName, _ := flags.GetString("target")
		target, err := breakeven.ParseTarget(targetName)
		if err != nil {
			return err
		}
		constraints, err := parseConstraints(cmd)
		if err != nil {
			return err
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		input, _, err := loadPlan(args[0])
		if err != nil {
			return err
		}

		opts := breakeven.DefaultSolverOptions()
		if constraints.TargetSuccessRate > 0 {
			cfg := a.settings.MonteCarlo.Simulation()
			if trials, _ := flags.GetInt("trials"); trials > 0 {
				cfg.Trials = trials
			}
			opts.MonteCarlo = &cfg
		}
		solver := breakeven.NewSolver(a.calc, opts)

		ctx, cancel := a.context()
		defer cancel()
		result, err := solver.Solve(ctx, input, constraints, target)
		if err != nil {
			return err
		}

		format, _ := flags.GetString("format")
		var out string
		switch strings.ToLower(format) {
		case "", "table":
			out = (&breakeven.TableFormatter{Currency: a.settings.Output.Currency}).FormatMulti(result)
		case "json":
			out, err = (&breakeven.JSONFormatter{Pretty: true}).FormatMulti(result)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported solver format %q (available: table, json)", format)
		}
		_, err = io.WriteString(cmd.OutOrStdout(), out)
		return err
	},
}

// parseConstraints builds solver constraints from the flags that were set.
func parseConstraints(cmd *cobra.Command) (breakeven.Constraints, error) {
	flags := cmd.Flags()
	var c breakeven.Constraints

	money := func(name string) (*decimal.Decimal, error) {
		if !flags.Changed(name) {
			return nil, nil
		}
		s, _ := flags.GetString(name)
		d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
		if err != nil {
			return nil, fmt.Errorf("--%s: invalid amount %q", name, s)
		}
		return &d, nil
	}
	age := func(name string) *int {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetInt(name)
		return &v
	}

	var err error
	if c.MinIncome, err = money("min-income"); err != nil {
		return c, err
	}
	if c.MaxIncome, err = money("max-income"); err != nil {
		return c, err
	}
	balance, err := money("min-final-balance")
	if err != nil {
		return c, err
	}
	if balance != nil {
		c.MinFinalBalance = *balance
	}
	c.MinRetirementAge = age("min-age")
	c.MaxRetirementAge = age("max-age")

	if pct, _ := flags.GetFloat64("success-rate"); pct > 0 {
		c.TargetSuccessRate = pct / 100
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func init() {
	solveCmd.Flags().String("target", "all", "income, retirement_age or all")
	solveCmd.Flags().String("min-income", "", "lowest monthly income to search")
	solveCmd.Flags().String("max-income", "", "highest monthly income to search")
	solveCmd.Flags().Int("min-age", 0, "earliest retirement age to search")
	solveCmd.Flags().Int("max-age", 0, "latest retirement age to search")
	solveCmd.Flags().String("min-final-balance", "", "balance the plan must still hold at 100")
	solveCmd.Flags().Float64("success-rate", 0, "required Monte Carlo success rate in percent, e.g. 85")
	solveCmd.Flags().Int("trials", 2000, "trials per simulation when --success-rate is set")
	solveCmd.Flags().StringP("format", "f", "table", "output format: table, json")
}
