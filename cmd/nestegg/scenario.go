package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/nestegg/internal/output"
	"github.com/rgehrsitz/nestegg/internal/scenario"
	"github.com/rgehrsitz/nestegg/internal/transform"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Save, inspect and import scenario documents",
}

var scenarioSaveCmd = &cobra.Command{
	Use:   "save [plan-file] [dest]",
	Short: "Save a plan, optionally transformed, as a scenario document",
	Long: `Save a plan as a scenario document. The destination extension picks the
format: .yaml/.yml, .json or .toml. Transforms are applied before saving,
so a what-if can be kept as its own scenario:

  nestegg scenario save plan.yaml late.yaml --name "Retire at 62" --transform "set_retirement_age:age=62"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, name, err := loadPlan(args[0])
		if err != nil {
			return err
		}

		specs, _ := cmd.Flags().GetStringArray("transform")
		if len(specs) > 0 {
			registry := transform.NewTransformRegistry()
			transforms, err := registry.ParseTransformSpecs(strings.Join(specs, ";"))
			if err != nil {
				return err
			}
			if input, err = transform.ApplyTransforms(input, transforms); err != nil {
				return err
			}
		}
		if newName, _ := cmd.Flags().GetString("name"); newName != "" {
			name = newName
		}

		doc := scenario.New(name, input)
		if err := scenario.Save(args[1], doc); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved scenario %q (%s) to %s\n", doc.Name, doc.ID, args[1])
		return nil
	},
}

var scenarioShowCmd = &cobra.Command{
	Use:   "show [scenario-file]",
	Short: "Show a scenario document's identity and key inputs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := scenario.Load(args[0])
		if err != nil {
			return err
		}
		currency := output.DefaultCurrency
		if c, _ := cmd.Flags().GetString("currency"); c != "" {
			currency = strings.ToUpper(c)
		}

		in := doc.Input().Normalize()
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Scenario:        %s\n", doc.Name)
		fmt.Fprintf(w, "ID:              %s\n", doc.ID)
		fmt.Fprintf(w, "Last saved:      %s\n", doc.LastSaved)
		fmt.Fprintf(w, "Ages:            %d now, retiring at %d, contributing to %d\n",
			in.CurrentAge, in.RetirementAge, in.StopContributionAge)
		fmt.Fprintf(w, "Investments:     %s\n", output.FormatWholeMoney(in.StartingBalance(), currency))
		fmt.Fprintf(w, "Contribution:    %s/month\n", output.FormatWholeMoney(in.MonthlyContribution, currency))
		fmt.Fprintf(w, "Required income: %s/month\n", output.FormatWholeMoney(in.RequiredIncome.Monthly, currency))
		for _, p := range in.Persons {
			for _, s := range p.Pensions {
				fmt.Fprintf(w, "Pension:         %s %s %s/month from %d\n",
					p.Name, s.Name, output.FormatWholeMoney(s.Monthly, currency), s.StartAge)
			}
		}
		fmt.Fprintln(w, "\nAssumptions:")
		for _, line := range output.Assumptions(in, currency) {
			fmt.Fprintf(w, "  - %s\n", line)
		}
		return nil
	},
}

var scenarioImportCmd = &cobra.Command{
	Use:   "import [legacy-file] [dest]",
	Short: "Convert a legacy flat JSON scenario to the current format",
	Long: `Convert a scenario saved in the legacy flat format (total_investments,
monthly_pension, oas_*/cpp_* with _p2 suffixes, whole-number percentages)
to the persons-list format. The destination defaults to the source name
with a .yaml extension.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		src := args[0]
		dest := strings.TrimSuffix(src, filepath.Ext(src)) + ".yaml"
		if len(args) == 2 {
			dest = args[1]
		}
		if dest == src {
			return fmt.Errorf("destination %s would overwrite the source", dest)
		}

		doc, err := scenario.Load(src)
		if err != nil {
			return err
		}
		doc.Touch()
		if err := scenario.Save(dest, doc); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %s to %s\n", src, dest)
		return nil
	},
}

func init() {
	scenarioSaveCmd.Flags().String("name", "", "scenario name (default: the plan's name)")
	scenarioSaveCmd.Flags().StringArray("transform", nil, "transform spec to apply before saving; repeatable")

	scenarioCmd.AddCommand(scenarioSaveCmd)
	scenarioCmd.AddCommand(scenarioShowCmd)
	scenarioCmd.AddCommand(scenarioImportCmd)
}
