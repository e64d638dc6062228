package compare

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func testComparisonSet() *ComparisonSet {
	return &ComparisonSet{
		BaseScenarioName: "Base Scenario",
		Source:           "plan.yaml",
		BaseResult: &ComparisonResult{
			ScenarioName:        "Base Scenario",
			RetirementAge:       62,
			BalanceAtRetirement: decimal.NewFromInt(850000),
			FinalBalance:        decimal.NewFromInt(1250000),
			Longevity:           39,
			SuccessRate:         rate(0.82),
		},
		AlternativeResults: []ComparisonResult{
			{
				ScenarioName:        "Spend More",
				Description:         "Spend 20% more",
				RetirementAge:       62,
				BalanceAtRetirement: decimal.NewFromInt(850000),
				FinalBalance:        decimal.Zero,
				DepletionAge:        88,
				Longevity:           26,
				TotalClawback:       decimal.NewFromInt(-1500),
				SuccessRate:         rate(0.55),
				FinalBalanceDiff:    decimal.NewFromInt(-1250000),
				FinalBalancePct:     decimal.NewFromInt(-100),
				LongevityDiff:       -13,
				ClawbackDiff:        decimal.NewFromInt(-1500),
				SuccessRateDiff:     rate(-0.27),
			},
		},
		Recommendations: []string{"Most Robust: Base Scenario"},
	}
}

func TestTableFormatter_Format(t *testing.T) {
	formatter := &TableFormatter{Currency: "CAD"}
	result := formatter.Format(testComparisonSet())

	for _, want := range []string{
		"RETIREMENT SCENARIO COMPARISON",
		"Base Scenario: Base Scenario",
		"Input: plan.yaml",
		"Base Scenario (base)",
		"$850.0K",
		"$1.25M",
		"100+",
		"age 88",
		"82.0%",
		"Spend 20% more",
		"-$1,250,000.00 (-100.0%)",
		"-13 years",
		"-27.0 points",
		"RECOMMENDATIONS",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("Expected output to contain %q\n%s", want, result)
		}
	}
}

func TestTableFormatter_FormatCompact(t *testing.T) {
	got := (&TableFormatter{}).FormatCompact(testComparisonSet())
	want := "Base: Base Scenario | Spend More: -$1.25M"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestCSVFormatter_Format(t *testing.T) {
	out, err := (&CSVFormatter{}).Format(testComparisonSet())
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d", len(rows))
	}
	if rows[1][1] != "base" || rows[2][1] != "alternative" {
		t.Errorf("Unexpected type column: %v / %v", rows[1][1], rows[2][1])
	}
	if rows[1][5] != "" || rows[2][5] != "88" {
		t.Errorf("Unexpected depletion column: %q / %q", rows[1][5], rows[2][5])
	}
	if rows[1][10] != "0.8200" {
		t.Errorf("Unexpected success column %q", rows[1][10])
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		out, err := (&JSONFormatter{Pretty: pretty}).Format(testComparisonSet())
		if err != nil {
			t.Fatalf("Format() error: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal([]byte(out), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded["baseScenarioName"] != "Base Scenario" {
			t.Errorf("Unexpected base name %v", decoded["baseScenarioName"])
		}
		alts := decoded["alternativeResults"].([]any)
		if alts[0].(map[string]any)["depletionAge"] != float64(88) {
			t.Errorf("Unexpected depletion age %v", alts[0])
		}
	}
}
