package domain

import (
	"github.com/shopspring/decimal"
)

// Phase is the portfolio state at a given age.
type Phase string

const (
	PhaseAccumulation Phase = "accumulation"
	PhaseRetirement   Phase = "retirement"
)

// StreamAmount is one pension stream's monthly contribution to income in a year.
type StreamAmount struct {
	Person  string          `json:"person"`
	Name    string          `json:"name"`
	Monthly decimal.Decimal `json:"monthly"`
}

// YearRecord is the complete cash flow for a single age. Monthly figures are
// in nominal dollars of that year; all money is rounded to cents.
type YearRecord struct {
	Age   int   `json:"age"`
	Phase Phase `json:"phase"`

	BalanceStart        decimal.Decimal `json:"balanceStart"`
	LumpSum             decimal.Decimal `json:"lumpSum"`
	LumpSumWithdrawal   decimal.Decimal `json:"lumpSumWithdrawal"`
	MonthlyContribution decimal.Decimal `json:"monthlyContribution"`
	YearlyReturn        decimal.Decimal `json:"yearlyReturn"`
	BalanceEnd          decimal.Decimal `json:"balanceEnd"`

	// Retirement phase only
	RequiredIncome      decimal.Decimal `json:"requiredIncome"`
	PartTimeIncome      decimal.Decimal `json:"partTimeIncome"`
	MonthlyPension      decimal.Decimal `json:"monthlyPension"`
	YearlyPension       decimal.Decimal `json:"yearlyPension"`
	StreamIncome        []StreamAmount  `json:"streamIncome,omitempty"`
	Withdrawal          decimal.Decimal `json:"withdrawal"`
	WithdrawalPass2     decimal.Decimal `json:"withdrawalPass2"`
	Clawback            decimal.Decimal `json:"clawback"`
	TotalMonthlyIncome  decimal.Decimal `json:"totalMonthlyIncome"`
	MonthlyShortfall    decimal.Decimal `json:"monthlyShortfall"`
	MonthlySurplus      decimal.Decimal `json:"monthlySurplus"`
	SurplusReinvested   decimal.Decimal `json:"surplusReinvested"`
	IncomeTodaysDollars decimal.Decimal `json:"incomeTodaysDollars"`

	// 4% rule comparison, reporting only
	FourPercentAmount       decimal.Decimal `json:"fourPercentAmount"`
	WithdrawalVsFourPercent decimal.Decimal `json:"withdrawalVsFourPercent"`
	PercentOverFourPercent  decimal.Decimal `json:"percentOverFourPercent"`
}

// IsRetired reports whether the record belongs to the retirement phase.
func (yr *YearRecord) IsRetired() bool {
	return yr.Phase == PhaseRetirement
}

// IsDepleted reports whether the portfolio is empty at year end.
func (yr *YearRecord) IsDepleted() bool {
	return !yr.BalanceEnd.IsPositive()
}

// HasShortfall reports whether income fell short of the requirement.
func (yr *YearRecord) HasShortfall() bool {
	return yr.MonthlyShortfall.IsPositive()
}

// ProjectionSummary aggregates a projection into headline figures.
type ProjectionSummary struct {
	TotalWithdrawals        decimal.Decimal `json:"totalWithdrawals"`
	TotalPension            decimal.Decimal `json:"totalPension"`
	TotalLumpSums           decimal.Decimal `json:"totalLumpSums"`
	TotalLumpSumWithdrawals decimal.Decimal `json:"totalLumpSumWithdrawals"`
	TotalClawback           decimal.Decimal `json:"totalClawback"`
	BalanceAtRetirement     decimal.Decimal `json:"balanceAtRetirement"`
	FourPercentBaseline     decimal.Decimal `json:"fourPercentBaseline"`
	FinalBalance            decimal.Decimal `json:"finalBalance"`
	PeakBalance             decimal.Decimal `json:"peakBalance"`
	DepletionAge            int             `json:"depletionAge,omitempty"`
	YearsWithShortfall      int             `json:"yearsWithShortfall"`
	FirstYearRequiredIncome decimal.Decimal `json:"firstYearRequiredIncome"`
	FirstYearWithdrawal     decimal.Decimal `json:"firstYearWithdrawal"`
}

// Depleted reports whether the portfolio ran out before MaxAge.
func (s ProjectionSummary) Depleted() bool {
	return s.DepletionAge > 0
}

// Projection is the ordered sequence of YearRecords from current age to MaxAge.
// Records[i].Age == StartAge + i.
type Projection struct {
	StartAge      int               `json:"startAge"`
	RetirementAge int               `json:"retirementAge"`
	Records       []YearRecord      `json:"records"`
	Summary       ProjectionSummary `json:"summary"`
}

// RecordAt returns the record for age, if it is inside the projection.
func (p *Projection) RecordAt(age int) (*YearRecord, bool) {
	idx := age - p.StartAge
	if idx < 0 || idx >= len(p.Records) {
		return nil, false
	}
	return &p.Records[idx], true
}

// RetirementRecords returns the retirement-phase slice of the projection.
func (p *Projection) RetirementRecords() []YearRecord {
	for i := range p.Records {
		if p.Records[i].IsRetired() {
			return p.Records[i:]
		}
	}
	return nil
}

// FinalRecord returns the age-100 record.
func (p *Projection) FinalRecord() *YearRecord {
	if len(p.Records) == 0 {
		return nil
	}
	return &p.Records[len(p.Records)-1]
}

// Summarize computes the ProjectionSummary from the records.
func (p *Projection) Summarize() ProjectionSummary {
	twelve := decimal.NewFromInt(12)
	s := ProjectionSummary{
		TotalWithdrawals:        decimal.Zero,
		TotalPension:            decimal.Zero,
		TotalLumpSums:           decimal.Zero,
		TotalLumpSumWithdrawals: decimal.Zero,
		TotalClawback:           decimal.Zero,
		PeakBalance:             decimal.Zero,
	}

	firstRetired := true
	for i := range p.Records {
		r := &p.Records[i]
		s.TotalWithdrawals = s.TotalWithdrawals.Add(r.Withdrawal.Mul(twelve))
		s.TotalPension = s.TotalPension.Add(r.YearlyPension)
		s.TotalLumpSums = s.TotalLumpSums.Add(r.LumpSum)
		s.TotalLumpSumWithdrawals = s.TotalLumpSumWithdrawals.Add(r.LumpSumWithdrawal)
		s.TotalClawback = s.TotalClawback.Add(r.Clawback.Mul(twelve))
		if r.BalanceEnd.GreaterThan(s.PeakBalance) {
			s.PeakBalance = r.BalanceEnd
		}
		if !r.IsRetired() {
			continue
		}
		if firstRetired {
			firstRetired = false
			s.BalanceAtRetirement = r.BalanceStart
			s.FourPercentBaseline = r.FourPercentAmount
			s.FirstYearRequiredIncome = r.RequiredIncome
			s.FirstYearWithdrawal = r.Withdrawal
		}
		if r.HasShortfall() {
			s.YearsWithShortfall++
		}
		if s.DepletionAge == 0 && r.IsDepleted() && r.Age < MaxAge {
			s.DepletionAge = r.Age
		}
	}
	if final := p.FinalRecord(); final != nil {
		s.FinalBalance = final.BalanceEnd
	}
	return s
}
