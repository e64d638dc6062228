package compare

import (
	"context"
	"strings"
	"testing"

	"github.com/rgehrsitz/nestegg/internal/calculation"
	"github.com/rgehrsitz/nestegg/internal/domain"
	"github.com/shopspring/decimal"
)

func sustainableInput() *domain.InputModel {
	return &domain.InputModel{
		CurrentAge:          55,
		RetirementAge:       60,
		StopContributionAge: 59,
		TotalInvestments:    decimal.NewFromInt(1000000),
		ReturnRate:          decimal.NewFromFloat(0.05),
		InflationRate:       decimal.NewFromFloat(0.02),
		RequiredIncome: domain.RequiredIncome{
			Monthly:          decimal.NewFromInt(3000),
			InflationIndexed: true,
		},
	}
}

func TestCompareEngine_Templates(t *testing.T) {
	engine := NewCompareEngine(nil)

	compSet, err := engine.Compare(context.Background(), sustainableInput(), CompareOptions{
		BaseScenarioName: "plan",
		Templates:        []string{"spend_less_10pct", "retire_later_1yr"},
	})
	if err != nil {
		t.Fatalf("Compare() error: %v", err)
	}

	if compSet.BaseScenarioName != "plan" {
		t.Errorf("Expected base name plan, got %s", compSet.BaseScenarioName)
	}
	if len(compSet.AlternativeResults) != 2 {
		t.Fatalf("Expected 2 alternatives, got %d", len(compSet.AlternativeResults))
	}

	spendLess := compSet.AlternativeResults[0]
	if spendLess.ScenarioName != "plan_spend_less_10pct" {
		t.Errorf("Unexpected name %s", spendLess.ScenarioName)
	}
	if spendLess.Description == "" {
		t.Error("Expected template description on the result")
	}
	if !spendLess.FinalBalanceDiff.IsPositive() {
		t.Errorf("Spending less should leave more at 100, diff %s", spendLess.FinalBalanceDiff)
	}
	if spendLess.SuccessRate != nil {
		t.Error("Expected no success rate without Monte Carlo")
	}

	later := compSet.AlternativeResults[1]
	if later.RetirementAge != 61 {
		t.Errorf("Expected retirement age 61, got %d", later.RetirementAge)
	}
	if !later.BalanceAtRetirement.GreaterThan(compSet.BaseResult.BalanceAtRetirement) {
		t.Error("Retiring later should grow the balance at retirement")
	}

	if len(compSet.Recommendations) == 0 {
		t.Error("Expected at least one recommendation")
	}
}

func TestCompareEngine_TransformSpecs(t *testing.T) {
	engine := NewCompareEngine(calculation.NewCalculationEngine())

	compSet, err := engine.Compare(context.Background(), sustainableInput(), CompareOptions{
		Transforms: []string{"set_return:rate=0.03", "postpone_retirement:years=2;adjust_income:percent=-5"},
	})
	if err != nil {
		t.Fatalf("Compare() error: %v", err)
	}
	if compSet.BaseScenarioName != "base" {
		t.Errorf("Expected default base name, got %s", compSet.BaseScenarioName)
	}
	if got := compSet.AlternativeResults[0].ScenarioName; got != "base_set_return" {
		t.Errorf("Unexpected name %s", got)
	}
	if got := compSet.AlternativeResults[1].ScenarioName; got != "base_postpone_retirement_adjust_income" {
		t.Errorf("Unexpected name %s", got)
	}
	if got := compSet.AlternativeResults[0].Description; got != "Change expected return to 3.0%" {
		t.Errorf("Unexpected description %q", got)
	}
	if !compSet.AlternativeResults[0].FinalBalanceDiff.IsNegative() {
		t.Error("Lower returns should shrink the final balance")
	}
}

func TestCompareEngine_MonteCarlo(t *testing.T) {
	engine := NewCompareEngine(nil)
	mc := &calculation.MonteCarloConfig{Trials: 50, Volatility: 0.1, Seed: 7}

	compSet, err := engine.Compare(context.Background(), sustainableInput(), CompareOptions{
		Templates:  []string{"spend_less_5pct"},
		MonteCarlo: mc,
	})
	if err != nil {
		t.Fatalf("Compare() error: %v", err)
	}
	for _, r := range compSet.All() {
		if r.SuccessRate == nil {
			t.Fatalf("Expected success rate for %s", r.ScenarioName)
		}
	}
	if compSet.AlternativeResults[0].SuccessRateDiff == nil {
		t.Error("Expected success rate difference")
	}
	if compSet.AlternativeResults[0].SuccessRateDiff.IsNegative() {
		t.Error("Spending less with the same seed should not lower the success rate")
	}
}

func TestCompareEngine_Errors(t *testing.T) {
	engine := NewCompareEngine(nil)
	ctx := context.Background()

	if _, err := engine.Compare(ctx, nil, CompareOptions{}); err == nil {
		t.Error("Expected error for nil base")
	}

	_, err := engine.Compare(ctx, sustainableInput(), CompareOptions{Templates: []string{"nope"}})
	if err == nil || !strings.Contains(err.Error(), "template nope not found") {
		t.Errorf("Expected unknown template error, got %v", err)
	}

	_, err = engine.Compare(ctx, sustainableInput(), CompareOptions{Transforms: []string{"bogus:x=1"}})
	if err == nil {
		t.Error("Expected error for unknown transform")
	}

	specs := make([]string, MaxScenarios)
	for i := range specs {
		specs[i] = "reinvest_surplus"
	}
	_, err = engine.Compare(ctx, sustainableInput(), CompareOptions{Transforms: specs})
	if err == nil || !strings.Contains(err.Error(), "at most 10") {
		t.Errorf("Expected scenario limit error, got %v", err)
	}
}

func TestCompareScenarios_Explicit(t *testing.T) {
	engine := NewCompareEngine(nil)

	lean := sustainableInput()
	lean.RequiredIncome.Monthly = decimal.NewFromInt(9000)

	compSet, err := engine.CompareScenarios(context.Background(),
		NamedInput{Name: "current", Input: sustainableInput()},
		[]NamedInput{{Name: "lavish", Input: lean}},
		nil)
	if err != nil {
		t.Fatalf("CompareScenarios() error: %v", err)
	}

	lavish := compSet.AlternativeResults[0]
	if !lavish.Depleted() {
		t.Fatal("Expected lavish spending to deplete the portfolio")
	}
	if lavish.LongevityDiff >= 0 {
		t.Errorf("Expected shorter longevity, got diff %d", lavish.LongevityDiff)
	}
	if compSet.BaseResult.Longevity != domain.MaxAge-60+1 {
		t.Errorf("Expected base funded through %d, got longevity %d", domain.MaxAge, compSet.BaseResult.Longevity)
	}
}
