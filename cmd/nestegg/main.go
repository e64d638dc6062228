package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/nestegg/internal/calculation"
	"github.com/rgehrsitz/nestegg/internal/config"
	"github.com/rgehrsitz/nestegg/internal/domain"
	"github.com/rgehrsitz/nestegg/internal/logging"
	"github.com/rgehrsitz/nestegg/internal/scenario"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// defaultSettingsFile is picked up from the working directory when
// --settings is not given.
const defaultSettingsFile = "nestegg.yaml"

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "nestegg %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

// fileExists checks if a file exists
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

var rootCmd = &cobra.Command{
	Use:   "nestegg",
	Short: "Retirement projection and Monte Carlo calculator",
	Long: `nestegg projects a retirement portfolio year by year to age 100 and
stress-tests it with Monte Carlo simulation. Plans are YAML, JSON or TOML
documents; the legacy flat JSON format is imported automatically.`,
	SilenceUsage: true,
}

// app is the per-invocation state shared by the subcommands.
type app struct {
	settings config.Settings
	logger   *zap.Logger
	calc     *calculation.CalculationEngine
}

// newApp loads settings, applies the persistent flag overrides and builds
// the logger and calculation engine.
func newApp(cmd *cobra.Command) (*app, error) {
	flags := cmd.Flags()

	settingsPath, _ := flags.GetString("settings")
	if settingsPath == "" && fileExists(defaultSettingsFile) {
		settingsPath = defaultSettingsFile
	}
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return nil, err
	}

	debugMode, _ := flags.GetBool("debug")
	if debugMode {
		settings.Log.Level = "debug"
	}
	if flags.Changed("timeout") {
		settings.MonteCarlo.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("currency") {
		currency, _ := flags.GetString("currency")
		settings.Output.Currency = strings.ToUpper(currency)
	}

	logger, err := logging.New(settings.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	if settingsPath != "" {
		logger.Debug("loaded settings", zap.String("path", settingsPath))
	}

	calc := calculation.NewCalculationEngine()
	calc.SetLogger(logger.Sugar())
	calc.Debug = debugMode

	return &app{settings: settings, logger: logger, calc: calc}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

// context returns a context bounded by the configured timeout, if any.
func (a *app) context() (context.Context, context.CancelFunc) {
	if a.settings.MonteCarlo.Timeout > 0 {
		return context.WithTimeout(context.Background(), a.settings.MonteCarlo.Timeout)
	}
	return context.WithCancel(context.Background())
}

// loadPlan reads a plan file. The scenario name falls back to the file name.
func loadPlan(path string) (*domain.InputModel, string, error) {
	doc, err := scenario.Load(path)
	if err != nil {
		return nil, "", err
	}
	name := doc.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return doc.Input(), name, nil
}

func init() {
	rootCmd.PersistentFlags().String("settings", "", "settings file (default ./"+defaultSettingsFile+" when present)")
	rootCmd.PersistentFlags().Bool("debug", false, "log per-year detail at debug level")
	rootCmd.PersistentFlags().Duration("timeout", 5*time.Minute, "abort calculations that run longer than this")
	rootCmd.PersistentFlags().String("currency", "", "ISO currency code for displayed amounts (overrides settings)")

	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(scenarioCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
