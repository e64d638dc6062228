package config

import (
	"fmt"
	"time"

	"github.com/rgehrsitz/nestegg/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// nowFunc anchors birthdate-derived ages; tests replace it.
var nowFunc = time.Now

// legacyDocument is the flat scenario schema written by earlier releases.
// Rates and reductions are whole percentages. Optional keys are pointers so
// absent values can fall back to the historical defaults.
type legacyDocument struct {
	ScenarioName string `yaml:"scenario_name"`
	CurrentAge   *int   `yaml:"current_age"`
	Birthdate    string `yaml:"birthdate"`

	RetirementAge      int  `yaml:"retirement_age"`
	StopInvestmentsAge *int `yaml:"stop_investments_age"`
	CoupleMode         bool `yaml:"couple_mode"`

	TotalInvestments   decimal.Decimal `yaml:"total_investments"`
	TFSA               decimal.Decimal `yaml:"tfsa"`
	RRSP               decimal.Decimal `yaml:"rrsp"`
	NonRegistered      decimal.Decimal `yaml:"non_registered"`
	LIRA               decimal.Decimal `yaml:"lira"`
	MonthlyInvestments decimal.Decimal `yaml:"monthly_investments"`
	InvestmentReturn   decimal.Decimal `yaml:"investment_return"`
	YearlyInflation    decimal.Decimal `yaml:"yearly_inflation"`

	RetirementYearOneIncome    decimal.Decimal `yaml:"retirement_year_one_income"`
	InflationAdjustmentEnabled *bool           `yaml:"inflation_adjustment_enabled"`
	Age77Threshold             *int            `yaml:"age_77_threshold"`
	Age77Reduction             decimal.Decimal `yaml:"age_77_reduction"`
	Reduction1Enabled          *bool           `yaml:"reduction_1_enabled"`
	Age83Threshold             *int            `yaml:"age_83_threshold"`
	Age83Reduction             decimal.Decimal `yaml:"age_83_reduction"`
	Reduction2Enabled          *bool           `yaml:"reduction_2_enabled"`

	PartTimeIncome            decimal.Decimal `yaml:"part_time_income"`
	PartTimeStartAge          int             `yaml:"part_time_start_age"`
	PartTimeEndAge            int             `yaml:"part_time_end_age"`
	PartTimeInflationAdjusted bool            `yaml:"part_time_inflation_adjusted"`

	// Single government pension from before couple mode existed.
	MonthlyPension           *decimal.Decimal `yaml:"monthly_pension"`
	PensionStartAge          *int             `yaml:"pension_start_age"`
	PensionInflationAdjusted *bool            `yaml:"pension_inflation_adjusted"`

	MonthlyPrivatePension           decimal.Decimal `yaml:"monthly_private_pension"`
	PrivatePensionStartAge          int             `yaml:"private_pension_start_age"`
	PrivatePensionInflationAdjusted bool            `yaml:"private_pension_inflation_adjusted"`

	MonthlyOAS             *decimal.Decimal `yaml:"monthly_oas"`
	OASStartAge            *int             `yaml:"oas_start_age"`
	OASInflationAdjusted   *bool            `yaml:"oas_inflation_adjusted"`
	MonthlyOASP2           decimal.Decimal  `yaml:"monthly_oas_p2"`
	OASStartAgeP2          int              `yaml:"oas_start_age_p2"`
	OASInflationAdjustedP2 *bool            `yaml:"oas_inflation_adjusted_p2"`
	MonthlyCPP             decimal.Decimal  `yaml:"monthly_cpp"`
	CPPStartAge            *int             `yaml:"cpp_start_age"`
	CPPInflationAdjusted   *bool            `yaml:"cpp_inflation_adjusted"`
	MonthlyCPPP2           decimal.Decimal  `yaml:"monthly_cpp_p2"`
	CPPStartAgeP2          int              `yaml:"cpp_start_age_p2"`
	CPPInflationAdjustedP2 *bool            `yaml:"cpp_inflation_adjusted_p2"`

	LumpSums           domain.LumpSumList `yaml:"lump_sums"`
	LumpSumWithdrawals domain.LumpSumList `yaml:"lump_sum_withdrawals"`
}

var hundred = decimal.NewFromInt(100)

// ParseLegacy converts a legacy flat document (JSON or YAML) into an
// InputModel. It does not validate the result.
func ParseLegacy(data []byte) (*domain.InputModel, error) {
	var doc legacyDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse legacy scenario: %w", err)
	}
	return doc.toInput()
}

func (d *legacyDocument) toInput() (*domain.InputModel, error) {
	currentAge, err := d.currentAge()
	if err != nil {
		return nil, err
	}

	input := &domain.InputModel{
		CurrentAge:          currentAge,
		RetirementAge:       d.RetirementAge,
		StopContributionAge: intOr(d.StopInvestmentsAge, d.RetirementAge-1),
		Accounts: domain.Accounts{
			TFSA:          d.TFSA,
			RRSP:          d.RRSP,
			NonRegistered: d.NonRegistered,
			LIRA:          d.LIRA,
		},
		TotalInvestments:    d.TotalInvestments,
		MonthlyContribution: d.MonthlyInvestments,
		ReturnRate:          d.InvestmentReturn.Div(hundred),
		InflationRate:       d.YearlyInflation.Div(hundred),
		RequiredIncome: domain.RequiredIncome{
			Monthly:          d.RetirementYearOneIncome,
			InflationIndexed: boolOr(d.InflationAdjustmentEnabled, true),
			Reductions: []domain.SpendingReduction{
				{
					Enabled: boolOr(d.Reduction1Enabled, true),
					Age:     intOr(d.Age77Threshold, 77),
					Percent: d.Age77Reduction.Div(hundred),
				},
				{
					Enabled: boolOr(d.Reduction2Enabled, true),
					Age:     intOr(d.Age83Threshold, 83),
					Percent: d.Age83Reduction.Div(hundred),
				},
			},
		},
		LumpSums: domain.LumpSums{
			Deposits:    d.LumpSums,
			Withdrawals: d.LumpSumWithdrawals,
		},
	}

	primary := domain.Person{Name: "primary", Pensions: d.primaryPensions()}
	if d.PartTimeIncome.IsPositive() {
		primary.PartTime = &domain.PartTimeIncome{
			Monthly:          d.PartTimeIncome,
			StartAge:         d.PartTimeStartAge,
			EndAge:           d.PartTimeEndAge,
			InflationIndexed: d.PartTimeInflationAdjusted,
		}
	}
	input.Persons = []domain.Person{primary}

	if partner := d.partnerPensions(); d.CoupleMode || len(partner) > 0 {
		input.Persons = append(input.Persons, domain.Person{Name: "partner", Pensions: partner})
	}
	return input, nil
}

// primaryPensions maps the government benefit (migrating the single-pension
// fields when the couple-mode keys are absent), CPP and the private pension.
func (d *legacyDocument) primaryPensions() []domain.PensionStream {
	var streams []domain.PensionStream

	switch {
	case d.MonthlyOAS != nil:
		streams = append(streams, domain.PensionStream{
			Name:             "oas",
			Monthly:          *d.MonthlyOAS,
			StartAge:         intOr(d.OASStartAge, 65),
			InflationIndexed: boolOr(d.OASInflationAdjusted, true),
			ClawbackEligible: true,
		})
	case d.MonthlyPension != nil:
		streams = append(streams, domain.PensionStream{
			Name:             "oas",
			Monthly:          *d.MonthlyPension,
			StartAge:         intOr(d.PensionStartAge, 65),
			InflationIndexed: boolOr(d.PensionInflationAdjusted, true),
			ClawbackEligible: true,
		})
	}

	if d.MonthlyCPP.IsPositive() {
		streams = append(streams, domain.PensionStream{
			Name:             "cpp",
			Monthly:          d.MonthlyCPP,
			StartAge:         intOr(d.CPPStartAge, 70),
			InflationIndexed: boolOr(d.CPPInflationAdjusted, true),
		})
	}
	if d.MonthlyPrivatePension.IsPositive() {
		streams = append(streams, domain.PensionStream{
			Name:             "private",
			Monthly:          d.MonthlyPrivatePension,
			StartAge:         d.PrivatePensionStartAge,
			InflationIndexed: d.PrivatePensionInflationAdjusted,
		})
	}
	return streams
}

// partnerPensions maps the _p2 fields. Only the primary's government
// benefit is subject to clawback.
func (d *legacyDocument) partnerPensions() []domain.PensionStream {
	var streams []domain.PensionStream
	if d.MonthlyOASP2.IsPositive() {
		streams = append(streams, domain.PensionStream{
			Name:             "oas",
			Monthly:          d.MonthlyOASP2,
			StartAge:         d.OASStartAgeP2,
			InflationIndexed: boolOr(d.OASInflationAdjustedP2, true),
		})
	}
	if d.MonthlyCPPP2.IsPositive() {
		streams = append(streams, domain.PensionStream{
			Name:             "cpp",
			Monthly:          d.MonthlyCPPP2,
			StartAge:         d.CPPStartAgeP2,
			InflationIndexed: boolOr(d.CPPInflationAdjustedP2, true),
		})
	}
	return streams
}

// currentAge prefers the stored age, then the birthdate, then five years
// before retirement.
func (d *legacyDocument) currentAge() (int, error) {
	if d.CurrentAge != nil {
		return *d.CurrentAge, nil
	}
	if d.Birthdate != "" {
		born, err := time.Parse("2006-01-02", d.Birthdate)
		if err != nil {
			return 0, fmt.Errorf("invalid birthdate %q: %w", d.Birthdate, err)
		}
		return ageAt(born, nowFunc()), nil
	}
	return d.RetirementAge - 5, nil
}

func ageAt(born, now time.Time) int {
	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	return age
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
