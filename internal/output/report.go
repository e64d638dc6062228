package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/nestegg/internal/domain"
)

// Formatter renders a scenario result into a byte representation.
type Formatter interface {
	Name() string
	Format(result *domain.ScenarioResult) ([]byte, error)
}

// FormatterFunc adapts a plain function to the Formatter interface.
type FormatterFunc struct {
	ID string
	F  func(*domain.ScenarioResult) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(result *domain.ScenarioResult) ([]byte, error) {
	return f.F(result)
}

// Extension returns the file extension for a formatter name.
func Extension(name string) string {
	switch name {
	case "csv", "percentiles-csv":
		return "csv"
	case "json":
		return "json"
	case "markdown":
		return "md"
	case "html":
		return "html"
	case "xlsx":
		return "xlsx"
	}
	return "txt"
}

// WriteFormatted formats result and writes it to a timestamped file in the
// working directory, returning the file name.
func WriteFormatted(f Formatter, result *domain.ScenarioResult, ext string) (string, error) {
	data, err := f.Format(result)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("retirement_report_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}

var formatAliases = map[string]string{
	"verbose":         "console",
	"console-verbose": "console",
	"summary":         "console-lite",
	"md":              "markdown",
	"excel":           "xlsx",
	"percentiles":     "percentiles-csv",
}

func formatterFor(name, currency string) Formatter {
	switch name {
	case "console-lite":
		return ConsoleFormatter{Currency: currency}
	case "console":
		return ConsoleVerboseFormatter{Currency: currency}
	case "csv":
		return CSVFormatter{}
	case "percentiles-csv":
		return PercentilesCSVFormatter{}
	case "json":
		return JSONFormatter{}
	case "markdown":
		return MarkdownFormatter{Currency: currency}
	case "html":
		return HTMLFormatter{Currency: currency}
	case "xlsx":
		return XLSXFormatter{}
	}
	return nil
}

// AvailableFormatterNames lists every canonical formatter name.
func AvailableFormatterNames() []string {
	return []string{"console", "console-lite", "csv", "html", "json", "markdown", "percentiles-csv", "xlsx"}
}

// AvailableFormatAliases lists the alternate names accepted by NewFormatter.
func AvailableFormatAliases() []string {
	out := make([]string, 0, len(formatAliases))
	for alias := range formatAliases {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}

// GetFormatterByName returns the formatter for name or alias using the
// default currency, or nil when the name is unknown.
func GetFormatterByName(name string) Formatter {
	f, err := NewFormatter(name, DefaultCurrency)
	if err != nil {
		return nil
	}
	return f
}

// NewFormatter resolves a formatter name or alias. Money is displayed in
// currency (an ISO code).
func NewFormatter(name, currency string) (Formatter, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := formatAliases[key]; ok {
		key = canonical
	}
	if f := formatterFor(key, currency); f != nil {
		return f, nil
	}
	return nil, fmt.Errorf("unsupported format %q (available: %s)", name, strings.Join(AvailableFormatterNames(), ", "))
}

func requireResult(result *domain.ScenarioResult) error {
	if result == nil || result.Projection == nil {
		return fmt.Errorf("no projection to format")
	}
	return nil
}

func scenarioName(result *domain.ScenarioResult) string {
	if result.Name == "" {
		return "scenario"
	}
	return result.Name
}
