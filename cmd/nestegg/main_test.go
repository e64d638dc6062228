package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rgehrsitz/nestegg/internal/scenario"
)

var (
	examplePlan = filepath.Join("..", "..", "internal", "config", "testdata", "example.yaml")
	legacyPlan  = filepath.Join("..", "..", "internal", "config", "testdata", "legacy.json")
)

// run executes the root command with args and returns its output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := rootCmd

	if cmd == nil {
		t.Fatal("Expected root command to be created")
	}

	if cmd.Use != "nestegg" {
		t.Errorf("Expected root command use to be 'nestegg', got %s", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("Expected root command to have a short description")
	}

	if cmd.Long == "" {
		t.Error("Expected root command to have a long description")
	}
}

func TestRootCommand_Help(t *testing.T) {
	out, err := run(t, "--help")
	if err != nil {
		t.Errorf("Expected no error for help command, got %v", err)
	}
	if !strings.Contains(out, "simulate") {
		t.Error("Expected help text to list the simulate command")
	}
}

func TestCommandSubcommands(t *testing.T) {
	expectedCommands := []string{
		"project",
		"simulate",
		"validate",
		"compare",
		"solve",
		"scenario",
		"templates",
		"version",
	}

	for _, expectedCmd := range expectedCommands {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == expectedCmd {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected command '%s' to be registered with root command", expectedCmd)
		}
	}

	for _, sub := range []string{"save", "show", "import"} {
		if c, _, err := rootCmd.Find([]string{"scenario", sub}); err != nil || c.Name() != sub {
			t.Errorf("Expected scenario %s to be registered", sub)
		}
	}
}

func TestRootCommandFlags(t *testing.T) {
	for _, name := range []string{"settings", "debug", "timeout", "currency"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected persistent flag --%s", name)
		}
	}
}

func TestFileExists(t *testing.T) {
	if !fileExists(examplePlan) {
		t.Error("Expected example plan to exist")
	}
	if fileExists("non_existing_file.txt") {
		t.Error("Expected non_existing_file.txt to not exist")
	}
}

func TestRootCommand_InvalidCommand(t *testing.T) {
	if _, err := run(t, "invalid-command"); err == nil {
		t.Error("Expected error for invalid command")
	}
}

func TestRootCommand_InvalidFlag(t *testing.T) {
	if _, err := run(t, "--invalid-flag"); err == nil {
		t.Error("Expected error for invalid flag")
	}
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, "validate", examplePlan)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(out, `Plan "example" is valid.`) {
		t.Errorf("unexpected output: %s", out)
	}

	if _, err := run(t, "validate", "missing.yaml"); err == nil {
		t.Error("Expected error for a missing plan")
	}
}

func TestProjectCommand_JSON(t *testing.T) {
	out, err := run(t, "project", examplePlan, "--format", "json")
	if err != nil {
		t.Fatalf("project failed: %v", err)
	}
	if !json.Valid([]byte(out)) {
		t.Errorf("Expected JSON output, got: %.200s", out)
	}
}

func TestScenarioImportAndShow(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "imported.yaml")
	out, err := run(t, "scenario", "import", legacyPlan, dest)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out, "Imported") {
		t.Errorf("unexpected output: %s", out)
	}

	doc, err := scenario.Load(dest)
	if err != nil {
		t.Fatalf("imported scenario does not load: %v", err)
	}
	if doc.Name != "Early retirement" {
		t.Errorf("Expected scenario name to survive import, got %q", doc.Name)
	}
	if doc.CurrentAge != 58 || doc.RetirementAge != 63 {
		t.Errorf("Expected ages 58/63, got %d/%d", doc.CurrentAge, doc.RetirementAge)
	}

	out, err = run(t, "scenario", "show", dest)
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(out, "Early retirement") || !strings.Contains(out, doc.ID) {
		t.Errorf("Expected show to print the name and id, got: %s", out)
	}
}

func TestScenarioSave_AppliesTransforms(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "later.toml")
	_, err := run(t, "scenario", "save", examplePlan, dest,
		"--name", "Retire at 64", "--transform", "set_retirement_age:age=64")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	doc, err := scenario.Load(dest)
	if err != nil {
		t.Fatalf("saved scenario does not load: %v", err)
	}
	if doc.Name != "Retire at 64" {
		t.Errorf("Expected name 'Retire at 64', got %q", doc.Name)
	}
	if doc.RetirementAge != 64 {
		t.Errorf("Expected retirement age 64, got %d", doc.RetirementAge)
	}
	if doc.ID == "" {
		t.Error("Expected a generated id")
	}
}

func TestTemplatesCommand(t *testing.T) {
	out, err := run(t, "templates")
	if err != nil {
		t.Fatalf("templates failed: %v", err)
	}
	for _, want := range []string{"delay_cpp_70", "set_retirement_age", "delay_pension"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected templates output to mention %s", want)
		}
	}
}

func TestProgressPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressPrinter(&buf)
	for _, done := range []int{5, 10, 3, 20, 100} {
		p.report(done, 100)
	}
	got := strings.Count(buf.String(), "\n")
	if got != 3 {
		t.Errorf("Expected 3 progress lines (10%%, 20%%, 100%%), got %d: %q", got, buf.String())
	}
}
