package compare

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func rate(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func TestMetricsCalculator_CalculateComparison(t *testing.T) {
	mc := NewMetricsCalculator()
	base := ComparisonResult{
		ScenarioName:  "base",
		FinalBalance:  decimal.NewFromInt(400000),
		Longevity:     30,
		TotalClawback: decimal.NewFromInt(12000),
		SuccessRate:   rate(0.8),
	}
	alt := ComparisonResult{
		ScenarioName:  "alt",
		FinalBalance:  decimal.NewFromInt(500000),
		Longevity:     35,
		TotalClawback: decimal.NewFromInt(9000),
		SuccessRate:   rate(0.9),
	}

	got := mc.CalculateComparison(alt, base)

	if !got.FinalBalanceDiff.Equal(decimal.NewFromInt(100000)) {
		t.Errorf("Expected diff 100000, got %s", got.FinalBalanceDiff)
	}
	if got.FinalBalancePct.StringFixed(1) != "25.0" {
		t.Errorf("Expected 25.0%%, got %s", got.FinalBalancePct)
	}
	if got.LongevityDiff != 5 {
		t.Errorf("Expected longevity diff 5, got %d", got.LongevityDiff)
	}
	if !got.ClawbackDiff.Equal(decimal.NewFromInt(-3000)) {
		t.Errorf("Expected clawback diff -3000, got %s", got.ClawbackDiff)
	}
	if got.SuccessRateDiff == nil || got.SuccessRateDiff.StringFixed(2) != "0.10" {
		t.Errorf("Expected success diff 0.10, got %v", got.SuccessRateDiff)
	}

	base.FinalBalance = decimal.Zero
	base.SuccessRate = nil
	got = mc.CalculateComparison(alt, base)
	if !got.FinalBalancePct.IsZero() {
		t.Errorf("Expected zero percent against a zero base, got %s", got.FinalBalancePct)
	}
	if got.SuccessRateDiff != nil {
		t.Error("Expected no success diff without a base rate")
	}
}

func TestGenerateRecommendations(t *testing.T) {
	compSet := &ComparisonSet{
		BaseScenarioName: "base",
		BaseResult: &ComparisonResult{
			ScenarioName:  "base",
			FinalBalance:  decimal.NewFromInt(100000),
			Longevity:     20,
			TotalClawback: decimal.NewFromInt(5000),
			SuccessRate:   rate(0.7),
		},
		AlternativeResults: []ComparisonResult{
			{ScenarioName: "rich", FinalBalance: decimal.NewFromInt(300000), Longevity: 22, TotalClawback: decimal.NewFromInt(8000), SuccessRate: rate(0.75)},
			{ScenarioName: "safe", FinalBalance: decimal.NewFromInt(200000), Longevity: 25, TotalClawback: decimal.NewFromInt(1000), SuccessRate: rate(0.95)},
		},
	}

	recs := GenerateRecommendations(compSet)
	want := []string{
		"Largest Estate: rich leaves $200000 more",
		"Best Longevity: safe extends the portfolio by 5 years",
		"Most Robust: safe raises the success rate by 25.0 points",
		"Lowest Clawback: safe keeps $4000 more",
	}
	if len(recs) != len(want) {
		t.Fatalf("Expected %d recommendations, got %d: %v", len(want), len(recs), recs)
	}
	for i, w := range want {
		if !strings.HasPrefix(recs[i], w) {
			t.Errorf("Recommendation %d = %q, want prefix %q", i, recs[i], w)
		}
	}

	if got := GenerateRecommendations(&ComparisonSet{BaseResult: compSet.BaseResult}); len(got) != 0 {
		t.Errorf("Expected no recommendations without alternatives, got %v", got)
	}
}
