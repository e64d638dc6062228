package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/nestegg/internal/config"
	"github.com/rgehrsitz/nestegg/internal/logging"
	"github.com/rgehrsitz/nestegg/internal/tui"
	"github.com/rgehrsitz/nestegg/internal/tui/tuistyles"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var settingsPath, logFile string

	cmd := &cobra.Command{
		Use:          "nestegg-tui <plan-file>",
		Short:        "Interactive retirement planner",
		Long:         "Explore a retirement plan interactively: edit parameters, run Monte Carlo simulations, compare what-if templates and solve for break-even values.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			planPath := args[0]
			if _, err := os.Stat(planPath); err != nil {
				return fmt.Errorf("plan file not found: %s", planPath)
			}

			settings, err := config.LoadSettings(settingsPath)
			if err != nil {
				return err
			}
			if settings.Output.Currency != "" {
				tuistyles.Currency = settings.Output.Currency
			}

			opts := tui.Options{InputPath: planPath, Settings: settings}

			// The alternate screen owns the terminal, so engine logs only go
			// to a file when one is requested.
			if logFile != "" {
				logger, err := logging.NewWithOutput(settings.Log, logFile)
				if err != nil {
					return err
				}
				defer func() { _ = logger.Sync() }()
				opts.Logger = logger.Sugar()
			}

			p := tea.NewProgram(tui.NewModel(opts), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running TUI: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&settingsPath, "settings", "", "settings file (YAML); defaults plus NESTEGG_* environment variables when omitted")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write engine logs to this file")
	return cmd
}
