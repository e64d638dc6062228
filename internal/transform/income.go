package transform

import (
	"fmt"

	"github.com/rgehrsitz/nestegg/internal/domain"
	"github.com/shopspring/decimal"
)

// AdjustRequiredIncome scales the monthly income requirement by a percentage.
// Percent is whole-number: -10 spends 10% less.
type AdjustRequiredIncome struct {
	Percent decimal.Decimal
}

func (ari *AdjustRequiredIncome) Name() string {
	return "adjust_income"
}

func (ari *AdjustRequiredIncome) Description() string {
	if ari.Percent.IsNegative() {
		return fmt.Sprintf("Spend %s%% less", ari.Percent.Neg().String())
	}
	return fmt.Sprintf("Spend %s%% more", ari.Percent.String())
}

func (ari *AdjustRequiredIncome) Validate(base *domain.InputModel) error {
	if ari.Percent.LessThanOrEqual(decimal.NewFromInt(-100)) {
		return NewTransformError(ari.Name(), "validate", fmt.Sprintf("percent must be greater than -100, got %s", ari.Percent), nil)
	}
	return requireBase(ari.Name(), base)
}

func (ari *AdjustRequiredIncome) Apply(base *domain.InputModel) (*domain.InputModel, error) {
	modified := base.DeepCopy()
	factor := decimal.NewFromInt(1).Add(ari.Percent.Div(decimal.NewFromInt(100)))
	modified.RequiredIncome.Monthly = modified.RequiredIncome.Monthly.Mul(factor).Round(2)
	return modified, nil
}

// SetRequiredIncome replaces the monthly income requirement.
type SetRequiredIncome struct {
	Monthly decimal.Decimal
}

func (sri *SetRequiredIncome) Name() string {
	return "set_income"
}

func (sri *SetRequiredIncome) Description() string {
	return fmt.Sprintf("Require $%s per month", sri.Monthly.StringFixed(2))
}

func (sri *SetRequiredIncome) Validate(base *domain.InputModel) error {
	if sri.Monthly.IsNegative() {
		return NewTransformError(sri.Name(), "validate", "monthly income cannot be negative", nil)
	}
	return requireBase(sri.Name(), base)
}

func (sri *SetRequiredIncome) Apply(base *domain.InputModel) (*domain.InputModel, error) {
	modified := base.DeepCopy()
	modified.RequiredIncome.Monthly = sri.Monthly
	return modified, nil
}

// SetContribution replaces the monthly contribution.
type SetContribution struct {
	Monthly decimal.Decimal
}

func (sc *SetContribution) Name() string {
	return "set_contribution"
}

func (sc *SetContribution) Description() string {
	return fmt.Sprintf("Contribute $%s per month", sc.Monthly.StringFixed(2))
}

func (sc *SetContribution) Validate(base *domain.InputModel) error {
	if sc.Monthly.IsNegative() {
		return NewTransformError(sc.Name(), "validate", "monthly contribution cannot be negative", nil)
	}
	return requireBase(sc.Name(), base)
}

func (sc *SetContribution) Apply(base *domain.InputModel) (*domain.InputModel, error) {
	modified := base.DeepCopy()
	modified.MonthlyContribution = sc.Monthly
	return modified, nil
}

// AddLumpSum schedules a one-time deposit or, with Withdrawal set, a
// one-time withdrawal.
type AddLumpSum struct {
	Age        int
	Amount     decimal.Decimal
	Withdrawal bool
}

func (al *AddLumpSum) Name() string {
	return "add_lump_sum"
}

func (al *AddLumpSum) Description() string {
	kind := "deposit"
	if al.Withdrawal {
		kind = "withdrawal"
	}
	return fmt.Sprintf("Add $%s %s at age %d", al.Amount.StringFixed(0), kind, al.Age)
}

func (al *AddLumpSum) Validate(base *domain.InputModel) error {
	if !al.Amount.IsPositive() {
		return NewTransformError(al.Name(), "validate", "amount must be positive", nil)
	}
	if al.Age < 0 || al.Age > domain.MaxAge {
		return NewTransformError(al.Name(), "validate", fmt.Sprintf("age must be between 0 and %d, got %d", domain.MaxAge, al.Age), nil)
	}
	if err := requireBase(al.Name(), base); err != nil {
		return err
	}
	list := base.LumpSums.Deposits
	if al.Withdrawal {
		list = base.LumpSums.Withdrawals
	}
	if len(list) >= domain.MaxLumpSums {
		return NewTransformError(al.Name(), "validate", fmt.Sprintf("already %d entries scheduled", len(list)), nil)
	}
	return nil
}

func (al *AddLumpSum) Apply(base *domain.InputModel) (*domain.InputModel, error) {
	modified := base.DeepCopy()
	entry := domain.LumpSum{Age: al.Age, Amount: al.Amount}
	if al.Withdrawal {
		modified.LumpSums.Withdrawals = append(modified.LumpSums.Withdrawals, entry)
	} else {
		modified.LumpSums.Deposits = append(modified.LumpSums.Deposits, entry)
	}
	return modified, nil
}

// EnableSurplusReinvestment turns on reinvesting income above the requirement.
type EnableSurplusReinvestment struct{}

func (esr *EnableSurplusReinvestment) Name() string {
	return "reinvest_surplus"
}

func (esr *EnableSurplusReinvestment) Description() string {
	return "Reinvest surplus income"
}

func (esr *EnableSurplusReinvestment) Validate(base *domain.InputModel) error {
	return requireBase(esr.Name(), base)
}

func (esr *EnableSurplusReinvestment) Apply(base *domain.InputModel) (*domain.InputModel, error) {
	modified := base.DeepCopy()
	modified.ReinvestSurplus = true
	return modified, nil
}
