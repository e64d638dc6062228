package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

const (
	// MaxAge is the last age included in every projection.
	MaxAge = 100

	// SentinelAge marks an unset start age. It is beyond MaxAge so it never triggers.
	SentinelAge = 999

	// MaxLumpSums bounds the deposit and withdrawal lists independently.
	MaxLumpSums = 10

	// MaxPersons bounds the household size (couple mode).
	MaxPersons = 2
)

var (
	// DefaultClawbackThreshold is the annual income above which the designated benefit is reduced.
	DefaultClawbackThreshold = decimal.NewFromInt(95323)
	// DefaultClawbackRate is the share of excess income recovered from the designated benefit.
	DefaultClawbackRate = decimal.NewFromFloat(0.15)
	// FourPercentRate is the safe-withdrawal heuristic used for comparison only.
	FourPercentRate = decimal.NewFromFloat(0.04)
)

// Accounts holds the starting balance broken down by account type.
type Accounts struct {
	TFSA          decimal.Decimal `yaml:"tfsa" json:"tfsa" toml:"tfsa"`
	RRSP          decimal.Decimal `yaml:"rrsp" json:"rrsp" toml:"rrsp"`
	NonRegistered decimal.Decimal `yaml:"non_registered" json:"non_registered" toml:"non_registered"`
	LIRA          decimal.Decimal `yaml:"lira" json:"lira" toml:"lira"`
}

// Total returns the sum of all accounts.
func (a Accounts) Total() decimal.Decimal {
	return a.TFSA.Add(a.RRSP).Add(a.NonRegistered).Add(a.LIRA)
}

// SpendingReduction cuts required income by Percent from Age onward.
type SpendingReduction struct {
	Enabled bool            `yaml:"enabled" json:"enabled" toml:"enabled"`
	Age     int             `yaml:"age" json:"age" toml:"age"`
	Percent decimal.Decimal `yaml:"percent" json:"percent" toml:"percent"`
}

// RequiredIncome is the monthly spending target, entered in today's dollars.
type RequiredIncome struct {
	Monthly          decimal.Decimal     `yaml:"monthly" json:"monthly" toml:"monthly"`
	InflationIndexed bool                `yaml:"inflation_indexed" json:"inflation_indexed" toml:"inflation_indexed"`
	Reductions       []SpendingReduction `yaml:"reductions,omitempty" json:"reductions,omitempty" toml:"reductions,omitempty"`
}

// Bridge is a temporary top-up paid on a pension stream within its own age window.
type Bridge struct {
	Monthly  decimal.Decimal `yaml:"monthly" json:"monthly" toml:"monthly"`
	StartAge int             `yaml:"start_age" json:"start_age" toml:"start_age"`
	EndAge   int             `yaml:"end_age" json:"end_age" toml:"end_age"`
}

// PensionStream is any pension-like monthly income: government benefits,
// employer pensions or annuities.
type PensionStream struct {
	Name             string          `yaml:"name" json:"name" toml:"name"`
	Monthly          decimal.Decimal `yaml:"monthly" json:"monthly" toml:"monthly"`
	StartAge         int             `yaml:"start_age" json:"start_age" toml:"start_age"`
	InflationIndexed bool            `yaml:"inflation_indexed" json:"inflation_indexed" toml:"inflation_indexed"`
	ClawbackEligible bool            `yaml:"clawback_eligible,omitempty" json:"clawback_eligible,omitempty" toml:"clawback_eligible,omitempty"`
	Bridge           *Bridge         `yaml:"bridge,omitempty" json:"bridge,omitempty" toml:"bridge,omitempty"`
}

// PartTimeIncome is earned income received during retirement within [StartAge, EndAge].
type PartTimeIncome struct {
	Monthly          decimal.Decimal `yaml:"monthly" json:"monthly" toml:"monthly"`
	StartAge         int             `yaml:"start_age" json:"start_age" toml:"start_age"`
	EndAge           int             `yaml:"end_age" json:"end_age" toml:"end_age"`
	InflationIndexed bool            `yaml:"inflation_indexed" json:"inflation_indexed" toml:"inflation_indexed"`
}

// Person carries the income streams owned by one member of the household.
type Person struct {
	Name     string          `yaml:"name" json:"name" toml:"name"`
	Pensions []PensionStream `yaml:"pensions,omitempty" json:"pensions,omitempty" toml:"pensions,omitempty"`
	PartTime *PartTimeIncome `yaml:"part_time,omitempty" json:"part_time,omitempty" toml:"part_time,omitempty"`
}

// ClawbackPolicy configures the means-tested reduction of the designated benefit.
// Normalize treats a zero Threshold or Rate as unset and substitutes
// DefaultClawbackThreshold or DefaultClawbackRate, so a rate of 0 cannot turn
// the clawback off. Set Disabled for that.
type ClawbackPolicy struct {
	Disabled  bool            `yaml:"disabled" json:"disabled" toml:"disabled"`
	Threshold decimal.Decimal `yaml:"threshold,omitempty" json:"threshold" toml:"threshold"`
	Rate      decimal.Decimal `yaml:"rate,omitempty" json:"rate" toml:"rate"`
}

// InputModel is the complete, normalized parameter set for one computation.
// Rates are fractions (0.06 is 6%). Callers treat it as immutable once handed
// to an engine; use DeepCopy before modifying.
type InputModel struct {
	CurrentAge          int             `yaml:"current_age" json:"current_age" toml:"current_age"`
	RetirementAge       int             `yaml:"retirement_age" json:"retirement_age" toml:"retirement_age"`
	StopContributionAge int             `yaml:"stop_contribution_age" json:"stop_contribution_age" toml:"stop_contribution_age"`
	Accounts            Accounts        `yaml:"accounts" json:"accounts" toml:"accounts"`
	TotalInvestments    decimal.Decimal `yaml:"total_investments,omitempty" json:"total_investments" toml:"total_investments"`
	MonthlyContribution decimal.Decimal `yaml:"monthly_contribution" json:"monthly_contribution" toml:"monthly_contribution"`
	ReturnRate          decimal.Decimal `yaml:"return_rate" json:"return_rate" toml:"return_rate"`
	InflationRate       decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate" toml:"inflation_rate"`
	RequiredIncome      RequiredIncome  `yaml:"required_income" json:"required_income" toml:"required_income"`
	Persons             []Person        `yaml:"persons,omitempty" json:"persons,omitempty" toml:"persons,omitempty"`
	LumpSums            LumpSums        `yaml:"lump_sums" json:"lump_sums" toml:"lump_sums"`
	Clawback            ClawbackPolicy  `yaml:"clawback" json:"clawback" toml:"clawback"`
	ReinvestSurplus     bool            `yaml:"reinvest_surplus" json:"reinvest_surplus" toml:"reinvest_surplus"`
}

// StartingBalance returns the portfolio value at current age. The account
// breakdown wins when present; the legacy scalar is used otherwise.
func (in *InputModel) StartingBalance() decimal.Decimal {
	total := in.Accounts.Total()
	if total.IsZero() {
		return in.TotalInvestments
	}
	return total
}

// ProjectionYears returns the number of YearRecords a projection produces.
func (in *InputModel) ProjectionYears() int {
	if in.CurrentAge > MaxAge {
		return 0
	}
	return MaxAge - in.CurrentAge + 1
}

// IsCouple reports whether two persons share the portfolio.
func (in *InputModel) IsCouple() bool {
	return len(in.Persons) > 1
}

// DefaultReductions returns the two spending cuts applied when none are configured.
func DefaultReductions() []SpendingReduction {
	return []SpendingReduction{
		{Enabled: true, Age: 77, Percent: decimal.NewFromFloat(0.10)},
		{Enabled: true, Age: 83, Percent: decimal.NewFromFloat(0.10)},
	}
}

// Normalize returns a copy with defaults filled in:
//   - unset pension and bridge start ages become SentinelAge
//   - part-time start defaults to retirement age, end to MaxAge
//   - lump sums are aggregated by age, sorted, and non-positive amounts dropped
//   - clawback threshold and rate fall back to the defaults
//   - persons get positional names when unnamed
func (in *InputModel) Normalize() *InputModel {
	out := in.DeepCopy()

	for i := range out.Persons {
		p := &out.Persons[i]
		if p.Name == "" {
			if i == 0 {
				p.Name = "primary"
			} else {
				p.Name = "partner"
			}
		}
		for j := range p.Pensions {
			s := &p.Pensions[j]
			if s.StartAge <= 0 {
				s.StartAge = SentinelAge
			}
			if s.Bridge != nil {
				if s.Bridge.StartAge <= 0 {
					s.Bridge.StartAge = SentinelAge
				}
				if s.Bridge.EndAge <= 0 {
					s.Bridge.EndAge = s.Bridge.StartAge
				}
			}
		}
		if p.PartTime != nil {
			if p.PartTime.StartAge <= 0 {
				p.PartTime.StartAge = out.RetirementAge
			}
			if p.PartTime.EndAge <= 0 {
				p.PartTime.EndAge = MaxAge
			}
		}
	}

	out.LumpSums.Deposits = out.LumpSums.Deposits.Aggregate()
	out.LumpSums.Withdrawals = out.LumpSums.Withdrawals.Aggregate()

	if out.Clawback.Threshold.IsZero() {
		out.Clawback.Threshold = DefaultClawbackThreshold
	}
	if out.Clawback.Rate.IsZero() {
		out.Clawback.Rate = DefaultClawbackRate
	}

	return out
}

// DesignatedBenefit returns the single clawback-eligible stream, if any.
func (in *InputModel) DesignatedBenefit() (*PensionStream, bool) {
	for i := range in.Persons {
		for j := range in.Persons[i].Pensions {
			if in.Persons[i].Pensions[j].ClawbackEligible {
				return &in.Persons[i].Pensions[j], true
			}
		}
	}
	return nil, false
}

// DeepCopy returns an independent copy of the input.
func (in *InputModel) DeepCopy() *InputModel {
	if in == nil {
		return nil
	}
	out := *in

	if in.RequiredIncome.Reductions != nil {
		out.RequiredIncome.Reductions = append([]SpendingReduction(nil), in.RequiredIncome.Reductions...)
	}
	if in.Persons != nil {
		out.Persons = make([]Person, len(in.Persons))
		for i, p := range in.Persons {
			cp := p
			if p.Pensions != nil {
				cp.Pensions = make([]PensionStream, len(p.Pensions))
				for j, s := range p.Pensions {
					cs := s
					if s.Bridge != nil {
						b := *s.Bridge
						cs.Bridge = &b
					}
					cp.Pensions[j] = cs
				}
			}
			if p.PartTime != nil {
				pt := *p.PartTime
				cp.PartTime = &pt
			}
			out.Persons[i] = cp
		}
	}
	if in.LumpSums.Deposits != nil {
		out.LumpSums.Deposits = append(LumpSumList(nil), in.LumpSums.Deposits...)
	}
	if in.LumpSums.Withdrawals != nil {
		out.LumpSums.Withdrawals = append(LumpSumList(nil), in.LumpSums.Withdrawals...)
	}
	return &out
}

// sortedAges returns the keys of m in ascending order.
func sortedAges(m map[int]decimal.Decimal) []int {
	ages := make([]int, 0, len(m))
	for age := range m {
		ages = append(ages, age)
	}
	sort.Ints(ages)
	return ages
}
