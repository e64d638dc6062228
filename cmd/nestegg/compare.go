package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/nestegg/internal/calculation"
	"github.com/rgehrsitz/nestegg/internal/compare"
	"github.com/rgehrsitz/nestegg/internal/transform"
)

var compareCmd = &cobra.Command{
	Use:   "compare [plan-file]",
	Short: "Compare a plan against what-if alternatives",
	Long: `Compare a plan against alternatives built from templates (--with),
ad-hoc transforms (--transform) or other plan files (--against).

Examples:
  nestegg compare plan.yaml --with retire_later_2yr,delay_cpp_70
  nestegg compare plan.yaml --transform "set_income:monthly=4500" --simulate
  nestegg compare plan.yaml --against spouse-retires-first.yaml --format csv`,
	Args: func(cmd *cobra.Command, args []string) error {
		if list, _ := cmd.Flags().GetBool("list-templates"); list {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if list, _ := flags.GetBool("list-templates"); list {
			fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
			return nil
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		input, name, err := loadPlan(args[0])
		if err != nil {
			return err
		}

		withList, _ := flags.GetString("with")
		transforms, _ := flags.GetStringArray("transform")
		against, _ := flags.GetStringSlice("against")
		templates := transform.ParseTemplateList(withList)
		if len(templates) == 0 && len(transforms) == 0 && len(against) == 0 {
			return fmt.Errorf("nothing to compare: use --with, --transform or --against (see --list-templates)")
		}
		if base, _ := flags.GetString("base"); base != "" {
			name = base
		}

		var mc *calculation.MonteCarloConfig
		if simulate, _ := flags.GetBool("simulate"); simulate {
			cfg := a.settings.MonteCarlo.Simulation()
			mc = &cfg
		}

		ctx, cancel := a.context()
		defer cancel()

		engine := compare.NewCompareEngine(a.calc)
		var compSet *compare.ComparisonSet
		if len(against) > 0 {
			if len(templates) > 0 || len(transforms) > 0 {
				return fmt.Errorf("--against cannot be combined with --with or --transform")
			}
			alternatives := make([]compare.NamedInput, 0, len(against))
			for _, path := range against {
				altInput, altName, err := loadPlan(path)
				if err != nil {
					return err
				}
				alternatives = append(alternatives, compare.NamedInput{Name: altName, Input: altInput})
			}
			compSet, err = engine.CompareScenarios(ctx, compare.NamedInput{Name: name, Input: input}, alternatives, mc)
		} else {
			compSet, err = engine.Compare(ctx, input, compare.CompareOptions{
				BaseScenarioName: name,
				Templates:        templates,
				Transforms:       transforms,
				MonteCarlo:       mc,
			})
		}
		if err != nil {
			return err
		}
		compSet.Source = args[0]

		return writeComparison(cmd, compSet, a.settings.Output.Currency)
	},
}

func writeComparison(cmd *cobra.Command, compSet *compare.ComparisonSet, currency string) error {
	format, _ := cmd.Flags().GetString("format")

	var out string
	var err error
	switch strings.ToLower(format) {
	case "", "table":
		out = (&compare.TableFormatter{Currency: currency}).Format(compSet)
	case "compact":
		out = (&compare.TableFormatter{Currency: currency}).FormatCompact(compSet)
	case "csv":
		out, err = (&compare.CSVFormatter{}).Format(compSet)
	case "json":
		out, err = (&compare.JSONFormatter{Pretty: true}).Format(compSet)
	default:
		return fmt.Errorf("unsupported comparison format %q (available: table, compact, csv, json)", format)
	}
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("output"); path != "" {
		if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Comparison written to %s\n", path)
		return nil
	}
	_, err = io.WriteString(cmd.OutOrStdout(), out)
	return err
}

func init() {
	compareCmd.Flags().String("with", "", "comma-separated template names")
	compareCmd.Flags().StringArray("transform", nil, "transform spec, e.g. \"delay_pension:stream=cpp,age=70\"; repeat for more alternatives, join with ';' to combine")
	compareCmd.Flags().StringSlice("against", nil, "other plan files to compare with")
	compareCmd.Flags().String("base", "", "label for the base scenario (default: the plan's name)")
	compareCmd.Flags().StringP("format", "f", "table", "output format: table, compact, csv, json")
	compareCmd.Flags().StringP("output", "o", "", "write the comparison to this file instead of stdout")
	compareCmd.Flags().Bool("simulate", false, "include Monte Carlo success rates (same seed for every scenario)")
	compareCmd.Flags().Bool("list-templates", false, "list the available templates and exit")
}
