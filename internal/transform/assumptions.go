package transform

import (
	"fmt"

	"github.com/rgehrsitz/nestegg/internal/domain"
	"github.com/shopspring/decimal"
)

// SetReturnRate replaces the expected annual return.
type SetReturnRate struct {
	Rate decimal.Decimal // e.g. 0.05 for 5%
}

func (sr *SetReturnRate) Name() string {
	return "set_return"
}

func (sr *SetReturnRate) Description() string {
	return fmt.Sprintf("Change expected return to %s%%", sr.Rate.Mul(decimal.NewFromInt(100)).StringFixed(1))
}

func (sr *SetReturnRate) Validate(base *domain.InputModel) error {
	if sr.Rate.LessThanOrEqual(decimal.NewFromInt(-1)) || sr.Rate.GreaterThan(decimal.NewFromFloat(0.30)) {
		return NewTransformError(sr.Name(), "validate", fmt.Sprintf("return rate must be in (-1, 0.30], got %s", sr.Rate), nil)
	}
	return requireBase(sr.Name(), base)
}

func (sr *SetReturnRate) Apply(base *domain.InputModel) (*domain.InputModel, error) {
	modified := base.DeepCopy()
	modified.ReturnRate = sr.Rate
	return modified, nil
}

// AdjustReturnRate shifts the expected return by Delta (e.g. -0.01).
type AdjustReturnRate struct {
	Delta decimal.Decimal
}

func (ar *AdjustReturnRate) Name() string {
	return "adjust_return"
}

func (ar *AdjustReturnRate) Description() string {
	points := ar.Delta.Mul(decimal.NewFromInt(100))
	if points.IsNegative() {
		return fmt.Sprintf("Lower expected return by %s points", points.Neg().StringFixed(1))
	}
	return fmt.Sprintf("Raise expected return by %s points", points.StringFixed(1))
}

func (ar *AdjustReturnRate) Validate(base *domain.InputModel) error {
	if err := requireBase(ar.Name(), base); err != nil {
		return err
	}
	if base.ReturnRate.Add(ar.Delta).LessThanOrEqual(decimal.NewFromInt(-1)) {
		return NewTransformError(ar.Name(), "validate", "resulting return rate must be greater than -100%", nil)
	}
	return nil
}

func (ar *AdjustReturnRate) Apply(base *domain.InputModel) (*domain.InputModel, error) {
	modified := base.DeepCopy()
	modified.ReturnRate = modified.ReturnRate.Add(ar.Delta)
	return modified, nil
}

// ModifyInflation changes the general inflation rate assumption.
// This affects required income, indexed streams, the clawback threshold and
// the 4% comparison.
type ModifyInflation struct {
	NewRate decimal.Decimal // New inflation rate (e.g., 0.025 for 2.5%)
}

func (mi *ModifyInflation) Name() string {
	return "set_inflation"
}

func (mi *ModifyInflation) Description() string {
	percentage := mi.NewRate.Mul(decimal.NewFromInt(100))
	return fmt.Sprintf("Change inflation rate to %s%%", percentage.StringFixed(1))
}

func (mi *ModifyInflation) Validate(base *domain.InputModel) error {
	if mi.NewRate.LessThan(decimal.Zero) || mi.NewRate.GreaterThan(decimal.NewFromFloat(0.10)) {
		return NewTransformError(mi.Name(), "validate", fmt.Sprintf("inflation rate must be between 0 and 0.10, got %s", mi.NewRate.String()), nil)
	}
	return requireBase(mi.Name(), base)
}

func (mi *ModifyInflation) Apply(base *domain.InputModel) (*domain.InputModel, error) {
	modified := base.DeepCopy()
	modified.InflationRate = mi.NewRate
	return modified, nil
}
