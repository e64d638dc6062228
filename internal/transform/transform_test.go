package transform

import (
	"errors"
	"strings"
	"testing"

	"github.com/rgehrsitz/nestegg/internal/domain"
	"github.com/shopspring/decimal"
)

// Helper function to create a basic test input
func createTestInput() *domain.InputModel {
	return &domain.InputModel{
		CurrentAge:          55,
		RetirementAge:       62,
		StopContributionAge: 61,
		Accounts:            domain.Accounts{RRSP: decimal.NewFromInt(400000), TFSA: decimal.NewFromInt(100000)},
		MonthlyContribution: decimal.NewFromInt(1500),
		ReturnRate:          decimal.NewFromFloat(0.06),
		InflationRate:       decimal.NewFromFloat(0.02),
		RequiredIncome: domain.RequiredIncome{
			Monthly:          decimal.NewFromInt(5000),
			InflationIndexed: true,
		},
		Persons: []domain.Person{
			{
				Name: "alex",
				Pensions: []domain.PensionStream{
					{Name: "oas", Monthly: decimal.NewFromInt(700), StartAge: 65, InflationIndexed: true, ClawbackEligible: true},
					{Name: "cpp", Monthly: decimal.NewFromInt(900), StartAge: 65, InflationIndexed: true},
				},
			},
			{
				Name: "jordan",
				Pensions: []domain.PensionStream{
					{Name: "cpp", Monthly: decimal.NewFromInt(600), StartAge: 65, InflationIndexed: true},
				},
			},
		},
	}
}

func TestApplyTransforms_NilInput(t *testing.T) {
	_, err := ApplyTransforms(nil, []ScenarioTransform{&PostponeRetirement{Years: 1}})
	if err == nil {
		t.Error("Expected error for nil input, got nil")
	}
}

func TestApplyTransforms_EmptyTransforms(t *testing.T) {
	base := createTestInput()

	result, err := ApplyTransforms(base, nil)
	if err != nil {
		t.Fatalf("Expected no error for empty transforms, got: %v", err)
	}
	if result == base {
		t.Error("Expected a copy, got the base pointer")
	}
	if result.RetirementAge != base.RetirementAge {
		t.Errorf("Expected retirement age %d, got %d", base.RetirementAge, result.RetirementAge)
	}
}

func TestApplyTransforms_NilTransform(t *testing.T) {
	_, err := ApplyTransforms(createTestInput(), []ScenarioTransform{nil})
	if err == nil || !strings.Contains(err.Error(), "index 0") {
		t.Errorf("Expected nil transform error, got %v", err)
	}
}

func TestApplyTransforms_ValidationFailure(t *testing.T) {
	_, err := ApplyTransforms(createTestInput(), []ScenarioTransform{&PostponeRetirement{Years: -1}})
	if err == nil {
		t.Fatal("Expected validation error, got nil")
	}
	var terr *TransformError
	if !errors.As(err, &terr) {
		t.Fatalf("Expected TransformError in chain, got %T", err)
	}
	if terr.TransformName != "postpone_retirement" {
		t.Errorf("Expected transform name postpone_retirement, got %s", terr.TransformName)
	}
}

func TestApplyTransforms_Chaining(t *testing.T) {
	base := createTestInput()
	transforms := []ScenarioTransform{
		&PostponeRetirement{Years: 2},
		&AdjustRequiredIncome{Percent: decimal.NewFromInt(-10)},
		&DelayPension{Stream: "cpp", Age: 70},
		&DisableClawback{},
	}

	result, err := ApplyTransforms(base, transforms)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.RetirementAge != 64 || result.StopContributionAge != 63 {
		t.Errorf("Expected retirement 64 / stop 63, got %d / %d", result.RetirementAge, result.StopContributionAge)
	}
	if !result.RequiredIncome.Monthly.Equal(decimal.NewFromInt(4500)) {
		t.Errorf("Expected income 4500, got %s", result.RequiredIncome.Monthly)
	}
	if result.Persons[0].Pensions[1].StartAge != 70 || result.Persons[1].Pensions[0].StartAge != 70 {
		t.Error("Expected cpp to start at 70 for both persons")
	}
	if result.Persons[0].Pensions[0].StartAge != 65 {
		t.Error("Expected oas to be unchanged")
	}
	if !result.Clawback.Disabled {
		t.Error("Expected clawback disabled")
	}

	// Base is untouched
	if base.RetirementAge != 62 || !base.RequiredIncome.Monthly.Equal(decimal.NewFromInt(5000)) {
		t.Error("Base input was modified")
	}
	if base.Persons[0].Pensions[1].StartAge != 65 || base.Clawback.Disabled {
		t.Error("Base pensions were modified")
	}
}

func TestDescribe(t *testing.T) {
	got := Describe([]ScenarioTransform{&PostponeRetirement{Years: 1}, &DisableClawback{}})
	want := "Postpone retirement by 1 years; Ignore the benefit clawback"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestTransformError(t *testing.T) {
	err := NewTransformError("set_return", "validate", "out of range", nil)
	expected := "transform set_return (validate): out of range"
	if err.Error() != expected {
		t.Errorf("Expected %q, got %q", expected, err.Error())
	}
}

func TestTransformError_WithWrappedError(t *testing.T) {
	inner := errors.New("boom")
	err := NewTransformError("set_return", "apply", "failed", inner)
	if !errors.Is(err, inner) {
		t.Error("Expected wrapped error to be reachable with errors.Is")
	}
	if !strings.HasSuffix(err.Error(), ": boom") {
		t.Errorf("Expected message to end with wrapped error, got %q", err.Error())
	}
}
