package output

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/rgehrsitz/nestegg/internal/domain"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// MarkdownFormatter renders the report as GitHub-flavored Markdown. It is
// also the source of the HTML and terminal renderings.
type MarkdownFormatter struct {
	Currency string
}

func (m MarkdownFormatter) Name() string { return "markdown" }

func (m MarkdownFormatter) Format(result *domain.ScenarioResult) ([]byte, error) {
	if err := requireResult(result); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	p := result.Projection
	s := p.Summary

	fmt.Fprintf(&buf, "# Retirement Projection: %s\n\n", scenarioName(result))

	if assumptions := Assumptions(result.Input, m.Currency); len(assumptions) > 0 {
		fmt.Fprintln(&buf, "## Assumptions")
		fmt.Fprintln(&buf)
		for _, a := range assumptions {
			fmt.Fprintf(&buf, "- %s\n", a)
		}
		fmt.Fprintln(&buf)
	}

	fmt.Fprintln(&buf, "## Summary")
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "| Metric | Value |")
	fmt.Fprintln(&buf, "|---|---:|")
	row := func(k, v string) { fmt.Fprintf(&buf, "| %s | %s |\n", k, v) }
	row("Retirement age", fmt.Sprint(p.RetirementAge))
	row("Balance at retirement", FormatMoney(s.BalanceAtRetirement, m.Currency))
	row("Peak balance", FormatMoney(s.PeakBalance, m.Currency))
	row(fmt.Sprintf("Balance at %d", domain.MaxAge), FormatMoney(s.FinalBalance, m.Currency))
	if s.Depleted() {
		row("Depleted at", fmt.Sprintf("age %d", s.DepletionAge))
	} else {
		row("Depleted at", "never")
	}
	row("First-year withdrawal", FormatMoney(s.FirstYearWithdrawal, m.Currency)+"/month")
	row("4% rule baseline", FormatMoney(s.FourPercentBaseline, m.Currency)+"/year")
	row("Total withdrawals", FormatMoney(s.TotalWithdrawals, m.Currency))
	row("Total pension income", FormatMoney(s.TotalPension, m.Currency))
	row("Total clawback", FormatMoney(s.TotalClawback, m.Currency))
	row("Years with shortfall", fmt.Sprint(s.YearsWithShortfall))
	fmt.Fprintln(&buf)

	if mc := result.MonteCarlo; mc != nil {
		writeMarkdownMonteCarlo(&buf, mc, m.Currency)
	}

	fmt.Fprintln(&buf, "## Year by Year")
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "| Age | Phase | Start | Required/mo | Pension/mo | Withdrawal/mo | Clawback/mo | End |")
	fmt.Fprintln(&buf, "|---:|---|---:|---:|---:|---:|---:|---:|")
	for i := range p.Records {
		r := &p.Records[i]
		fmt.Fprintf(&buf, "| %d | %s | %s | %s | %s | %s | %s | %s |\n",
			r.Age, r.Phase,
			FormatWholeMoney(r.BalanceStart, m.Currency),
			FormatWholeMoney(r.RequiredIncome, m.Currency),
			FormatWholeMoney(r.MonthlyPension, m.Currency),
			FormatWholeMoney(r.Withdrawal, m.Currency),
			FormatWholeMoney(r.Clawback, m.Currency),
			FormatWholeMoney(r.BalanceEnd, m.Currency))
	}
	return buf.Bytes(), nil
}

func writeMarkdownMonteCarlo(w io.Writer, mc *domain.AggregateResult, currency string) {
	fmt.Fprintln(w, "## Monte Carlo")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "**%s success** over %d trials (%s volatility, seed %d): %s. %s\n\n",
		FormatPercent(mc.SuccessRate, 1), mc.Trials, FormatPercent(mc.Volatility, 0), mc.Seed,
		mc.Interpretation.Level, mc.Interpretation.Message)
	fmt.Fprintln(w, "| Age | P10 | P25 | Median | P75 | P90 |")
	fmt.Fprintln(w, "|---:|---:|---:|---:|---:|---:|")
	for _, p := range mc.Percentiles {
		if p.Age%5 != 0 && p.Age != domain.MaxAge {
			continue
		}
		fmt.Fprintf(w, "| %d | %s | %s | %s | %s | %s |\n", p.Age,
			FormatWholeMoney(p.P10, currency), FormatWholeMoney(p.P25, currency),
			FormatWholeMoney(p.P50, currency), FormatWholeMoney(p.P75, currency),
			FormatWholeMoney(p.P90, currency))
	}
	fmt.Fprintln(w)
}

// HTMLFormatter converts the Markdown report to a standalone HTML page.
type HTMLFormatter struct {
	Currency string
}

func (h HTMLFormatter) Name() string { return "html" }

var markdownHTML = goldmark.New(goldmark.WithExtensions(extension.GFM))

var htmlPage = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 960px; margin: 2em auto; color: #1f2933; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
th, td { border: 1px solid #cbd2d9; padding: 4px 8px; }
th { background: #e4e7eb; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

func (h HTMLFormatter) Format(result *domain.ScenarioResult) ([]byte, error) {
	md, err := MarkdownFormatter{Currency: h.Currency}.Format(result)
	if err != nil {
		return nil, err
	}
	var body bytes.Buffer
	if err := markdownHTML.Convert(md, &body); err != nil {
		return nil, fmt.Errorf("failed to render markdown: %w", err)
	}

	var buf bytes.Buffer
	err = htmlPage.Execute(&buf, struct {
		Title string
		Body  template.HTML
	}{
		Title: "Retirement Projection: " + scenarioName(result),
		Body:  template.HTML(body.String()),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderTerminal renders Markdown for a terminal of the given width. Style
// is a glamour standard style name ("dark", "light", "notty"); empty picks
// one from the terminal background.
func RenderTerminal(md []byte, width int, style string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}
	out, err := r.Render(string(md))
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}
