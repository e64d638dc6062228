package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rgehrsitz/nestegg/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ValidationError reports an input field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads an input model from a YAML or JSON file. Documents in
// the legacy flat schema are converted before validation.
func (ip *InputParser) LoadFromFile(filename string) (*domain.InputModel, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	input, err := ip.ParseInput(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(filename), err)
	}
	return input, nil
}

// ParseInput decodes and validates an input document.
func (ip *InputParser) ParseInput(data []byte) (*domain.InputModel, error) {
	var probe map[string]any
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}
	if probe == nil {
		return nil, fmt.Errorf("input document is empty")
	}

	var input *domain.InputModel
	if IsLegacy(probe) {
		legacy, err := ParseLegacy(data)
		if err != nil {
			return nil, err
		}
		input = legacy
	} else {
		input = &domain.InputModel{}
		if err := yaml.Unmarshal(data, input); err != nil {
			return nil, fmt.Errorf("failed to parse input: %w", err)
		}
	}

	if err := ip.ValidateInput(input); err != nil {
		return nil, fmt.Errorf("input validation failed: %w", err)
	}
	return input, nil
}

// ValidateInput checks ranges and structural limits. It returns the first
// *ValidationError found.
func (ip *InputParser) ValidateInput(input *domain.InputModel) error {
	if input == nil {
		return invalid("input", "is required")
	}
	if err := validateAges(input); err != nil {
		return err
	}
	if err := validateMoney(input); err != nil {
		return err
	}
	if err := validateRates(input); err != nil {
		return err
	}
	if err := validateReductions(input.RequiredIncome.Reductions); err != nil {
		return err
	}
	if err := validatePersons(input.Persons); err != nil {
		return err
	}
	if len(input.LumpSums.Deposits) > domain.MaxLumpSums {
		return invalid("lump_sums.deposits", "at most %d entries allowed, got %d", domain.MaxLumpSums, len(input.LumpSums.Deposits))
	}
	if len(input.LumpSums.Withdrawals) > domain.MaxLumpSums {
		return invalid("lump_sums.withdrawals", "at most %d entries allowed, got %d", domain.MaxLumpSums, len(input.LumpSums.Withdrawals))
	}
	return nil
}

func validateAges(input *domain.InputModel) error {
	if input.CurrentAge < 0 || input.CurrentAge > domain.MaxAge {
		return invalid("current_age", "must be between 0 and %d", domain.MaxAge)
	}
	if input.RetirementAge < 0 || input.RetirementAge > domain.MaxAge {
		return invalid("retirement_age", "must be between 0 and %d", domain.MaxAge)
	}
	if input.StopContributionAge < 0 || input.StopContributionAge > domain.MaxAge {
		return invalid("stop_contribution_age", "must be between 0 and %d", domain.MaxAge)
	}
	return nil
}

func validateMoney(input *domain.InputModel) error {
	checks := []struct {
		field string
		value decimal.Decimal
	}{
		{"accounts.tfsa", input.Accounts.TFSA},
		{"accounts.rrsp", input.Accounts.RRSP},
		{"accounts.non_registered", input.Accounts.NonRegistered},
		{"accounts.lira", input.Accounts.LIRA},
		{"total_investments", input.TotalInvestments},
		{"monthly_contribution", input.MonthlyContribution},
		{"required_income.monthly", input.RequiredIncome.Monthly},
		{"clawback.threshold", input.Clawback.Threshold},
	}
	for _, c := range checks {
		if c.value.IsNegative() {
			return invalid(c.field, "cannot be negative")
		}
	}
	return nil
}

func validateRates(input *domain.InputModel) error {
	if input.ReturnRate.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return invalid("return_rate", "must be greater than -100%%")
	}
	if input.ReturnRate.GreaterThan(decimal.NewFromInt(1)) {
		return invalid("return_rate", "must be a fraction (0.06 for 6%%), got %s", input.ReturnRate)
	}
	if input.InflationRate.LessThan(decimal.NewFromFloat(-0.10)) {
		return invalid("inflation_rate", "cannot be less than -10%% (extreme deflation)")
	}
	if input.InflationRate.GreaterThan(decimal.NewFromInt(1)) {
		return invalid("inflation_rate", "must be a fraction (0.02 for 2%%), got %s", input.InflationRate)
	}
	if input.Clawback.Rate.IsNegative() || input.Clawback.Rate.GreaterThan(decimal.NewFromInt(1)) {
		return invalid("clawback.rate", "must be between 0 and 1")
	}
	return nil
}

func validateReductions(reductions []domain.SpendingReduction) error {
	for i, r := range reductions {
		field := fmt.Sprintf("required_income.reductions[%d]", i)
		if r.Age < 0 || r.Age > domain.MaxAge {
			return invalid(field+".age", "must be between 0 and %d", domain.MaxAge)
		}
		if r.Percent.IsNegative() || r.Percent.GreaterThan(decimal.NewFromInt(1)) {
			return invalid(field+".percent", "must be between 0 and 1")
		}
	}
	return nil
}

func validatePersons(persons []domain.Person) error {
	if len(persons) > domain.MaxPersons {
		return invalid("persons", "at most %d persons allowed, got %d", domain.MaxPersons, len(persons))
	}

	eligible := 0
	for i, p := range persons {
		for j, s := range p.Pensions {
			field := fmt.Sprintf("persons[%d].pensions[%d]", i, j)
			if s.Monthly.IsNegative() {
				return invalid(field+".monthly", "cannot be negative")
			}
			if s.ClawbackEligible {
				eligible++
			}
			if b := s.Bridge; b != nil {
				if b.Monthly.IsNegative() {
					return invalid(field+".bridge.monthly", "cannot be negative")
				}
				if b.StartAge > 0 && b.EndAge > 0 && b.EndAge < b.StartAge {
					return invalid(field+".bridge.end_age", "must not precede start_age")
				}
			}
		}
		if pt := p.PartTime; pt != nil {
			field := fmt.Sprintf("persons[%d].part_time", i)
			if pt.Monthly.IsNegative() {
				return invalid(field+".monthly", "cannot be negative")
			}
			if pt.StartAge > 0 && pt.EndAge > 0 && pt.EndAge < pt.StartAge {
				return invalid(field+".end_age", "must not precede start_age")
			}
		}
	}
	if eligible > 1 {
		return invalid("persons", "only one pension stream can be clawback eligible, got %d", eligible)
	}
	return nil
}

// IsLegacy reports whether a decoded document uses the old flat schema,
// recognized by its percentage-valued rate keys.
func IsLegacy(doc map[string]any) bool {
	for _, key := range []string{"investment_return", "yearly_inflation", "retirement_year_one_income"} {
		if _, ok := doc[key]; ok {
			return true
		}
	}
	return false
}
