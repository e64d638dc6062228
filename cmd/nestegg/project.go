package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/nestegg/internal/calculation"
	"github.com/rgehrsitz/nestegg/internal/domain"
	"github.com/rgehrsitz/nestegg/internal/output"
)

var projectCmd = &cobra.Command{
	Use:   "project [plan-file]",
	Short: "Project a plan year by year to age 100",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		input, name, err := loadPlan(args[0])
		if err != nil {
			return err
		}

		var mc *calculation.MonteCarloConfig
		if simulate, _ := cmd.Flags().GetBool("simulate"); simulate {
			cfg := a.settings.MonteCarlo.Simulation()
			mc = &cfg
		}

		ctx, cancel := a.context()
		defer cancel()
		result, err := a.calc.RunScenario(ctx, name, input, mc)
		if err != nil {
			return err
		}
		return a.writeReport(cmd, result)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [plan-file]",
	Short: "Validate a plan file without running it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, name, err := loadPlan(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Plan %q is valid.\n", name)
		return nil
	},
}

// writeReport formats result with the --format flag (or the configured
// default) and writes it to --output, stdout, or for binary formats a
// timestamped file.
func (a *app) writeReport(cmd *cobra.Command, result *domain.ScenarioResult) error {
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = a.settings.Output.Format
	}
	f, err := output.NewFormatter(format, a.settings.Output.Currency)
	if err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" && f.Name() == "xlsx" {
		filename, err := output.WriteFormatted(f, result, output.Extension(f.Name()))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", filename)
		return nil
	}

	data, err := f.Format(result)
	if err != nil {
		return fmt.Errorf("failed to format %s report: %w", f.Name(), err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outputPath, err)
		}
		a.logger.Info("report written", zap.String("path", outputPath), zap.String("format", f.Name()))
		return nil
	}

	if render, _ := cmd.Flags().GetBool("render"); render && f.Name() == "markdown" {
		out, err := output.RenderTerminal(data, 100, "")
		if err != nil {
			return err
		}
		_, err = io.WriteString(cmd.OutOrStdout(), out)
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "", "output format: console, console-lite, csv, html, json, markdown, percentiles-csv, xlsx (default from settings)")
	cmd.Flags().StringP("output", "o", "", "write the report to this file instead of stdout")
	cmd.Flags().Bool("render", false, "render markdown output for the terminal")
}

func init() {
	addReportFlags(projectCmd)
	projectCmd.Flags().Bool("simulate", false, "also run a Monte Carlo simulation with the configured settings")
}
