package transform

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestReturnTransforms(t *testing.T) {
	base := createTestInput()

	tests := []struct {
		name      string
		transform ScenarioTransform
		want      string
		wantErr   bool
	}{
		{"set return", &SetReturnRate{Rate: decimal.NewFromFloat(0.04)}, "0.04", false},
		{"set return too high", &SetReturnRate{Rate: decimal.NewFromFloat(0.5)}, "", true},
		{"lower return", &AdjustReturnRate{Delta: decimal.NewFromFloat(-0.02)}, "0.04", false},
		{"total loss", &AdjustReturnRate{Delta: decimal.NewFromFloat(-1.06)}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ApplyTransforms(base, []ScenarioTransform{tt.transform})
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if result.ReturnRate.String() != tt.want {
				t.Errorf("Expected return %s, got %s", tt.want, result.ReturnRate)
			}
		})
	}

	if d := (&AdjustReturnRate{Delta: decimal.NewFromFloat(-0.02)}).Description(); d != "Lower expected return by 2.0 points" {
		t.Errorf("Unexpected description %q", d)
	}
}

func TestModifyInflation(t *testing.T) {
	base := createTestInput()

	if err := (&ModifyInflation{NewRate: decimal.NewFromFloat(0.15)}).Validate(base); err == nil {
		t.Error("Expected error for inflation above 10%")
	}
	if err := (&ModifyInflation{NewRate: decimal.NewFromFloat(-0.01)}).Validate(base); err == nil {
		t.Error("Expected error for negative inflation")
	}

	tr := &ModifyInflation{NewRate: decimal.NewFromFloat(0.035)}
	result, err := tr.Apply(base)
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if !result.InflationRate.Equal(decimal.NewFromFloat(0.035)) {
		t.Errorf("Expected 0.035, got %s", result.InflationRate)
	}
	if tr.Description() != "Change inflation rate to 3.5%" {
		t.Errorf("Unexpected description %q", tr.Description())
	}
}
