package breakeven

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in      string
		want    OptimizationTarget
		wantErr bool
	}{
		{"income", TargetIncome, false},
		{"retirement_age", TargetRetirementAge, false},
		{"all", TargetAll, false},
		{"", TargetAll, false},
		{"tsp_rate", "", true},
	}
	for _, tt := range tests {
		got, err := ParseTarget(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTarget(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTarget(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestConstraints_Validate(t *testing.T) {
	dec := func(v int64) *decimal.Decimal {
		d := decimal.NewFromInt(v)
		return &d
	}
	age := func(v int) *int { return &v }

	tests := []struct {
		name    string
		c       Constraints
		wantErr bool
	}{
		{"empty", Constraints{}, false},
		{"income range", Constraints{MinIncome: dec(1000), MaxIncome: dec(5000)}, false},
		{"negative min income", Constraints{MinIncome: dec(-1)}, true},
		{"inverted income", Constraints{MinIncome: dec(5000), MaxIncome: dec(1000)}, true},
		{"age range", Constraints{MinRetirementAge: age(55), MaxRetirementAge: age(70)}, false},
		{"inverted ages", Constraints{MinRetirementAge: age(70), MaxRetirementAge: age(55)}, true},
		{"age past 100", Constraints{MaxRetirementAge: age(101)}, true},
		{"negative estate", Constraints{MinFinalBalance: decimal.NewFromInt(-1)}, true},
		{"success rate above 1", Constraints{TargetSuccessRate: 90}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var serr *SolverError
				if !errors.As(err, &serr) || serr.Operation != "validate_constraints" {
					t.Errorf("Expected validate_constraints SolverError, got %v", err)
				}
			}
		})
	}
}

func TestSolverError(t *testing.T) {
	cause := errors.New("boom")
	err := &SolverError{Operation: "max_income", Message: "evaluation failed", Cause: cause}

	if err.Error() != "max_income: evaluation failed: boom" {
		t.Errorf("Unexpected message %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("Expected Unwrap to expose the cause")
	}

	bare := &SolverError{Operation: "solve", Message: "unsupported target: x"}
	if bare.Error() != "solve: unsupported target: x" {
		t.Errorf("Unexpected message %q", bare.Error())
	}
}
