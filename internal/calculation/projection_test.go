package calculation

import (
	"math"
	"testing"

	"github.com/rgehrsitz/nestegg/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_RetireeReferenceYear(t *testing.T) {
	proj, err := Project(retireeInput())
	require.NoError(t, err)
	require.Len(t, proj.Records, 36)

	first := proj.Records[0]
	assert.Equal(t, 65, first.Age)
	assert.Equal(t, domain.PhaseRetirement, first.Phase)
	assert.Equal(t, "1000000.00", first.BalanceStart.StringFixed(2))
	assert.Equal(t, "4000.00", first.RequiredIncome.StringFixed(2))
	assert.Equal(t, "4000.00", first.Withdrawal.StringFixed(2))
	assert.True(t, first.Clawback.IsZero())
	assert.True(t, first.MonthlyShortfall.IsZero())
	// (1,000,000 - 48,000) * 1.06
	assert.Equal(t, "1009120.00", first.BalanceEnd.StringFixed(2))
	assert.Equal(t, "3333.33", first.FourPercentAmount.StringFixed(2))
	assert.Equal(t, "666.67", first.WithdrawalVsFourPercent.StringFixed(2))
	assert.Equal(t, "20.0", first.PercentOverFourPercent.StringFixed(1))
}

func TestProject_AgesAndLength(t *testing.T) {
	input := accumulatorInput()
	proj, err := Project(input)
	require.NoError(t, err)

	assert.Len(t, proj.Records, domain.MaxAge-input.CurrentAge+1)
	for i, r := range proj.Records {
		assert.Equal(t, input.CurrentAge+i, r.Age, "ages increase by one")
	}
	assert.Equal(t, domain.MaxAge, proj.FinalRecord().Age)
}

func TestProject_BalanceNeverNegative(t *testing.T) {
	input := accumulatorInput()
	input.RequiredIncome.Monthly = decimal.NewFromInt(15000)
	input.LumpSums.Withdrawals = domain.LumpSumList{{Age: 60, Amount: decimal.NewFromInt(5000000)}}

	proj, err := Project(input)
	require.NoError(t, err)
	for _, r := range proj.Records {
		assert.False(t, r.BalanceEnd.IsNegative(), "age %d", r.Age)
		assert.False(t, r.BalanceStart.IsNegative(), "age %d", r.Age)
	}
	assert.True(t, proj.Summary.Depleted())
}

func TestProject_WithdrawalNeverExceedsBalance(t *testing.T) {
	input := retireeInput()
	input.RequiredIncome.Monthly = decimal.NewFromInt(20000)

	proj, err := Project(input)
	require.NoError(t, err)
	for _, r := range proj.Records {
		annual := r.Withdrawal.Mul(decimal.NewFromInt(12))
		assert.True(t, annual.LessThanOrEqual(r.BalanceStart.Add(decimal.NewFromFloat(0.06))),
			"age %d withdrew %s from %s", r.Age, annual, r.BalanceStart)
	}
	assert.True(t, proj.Summary.Depleted())
	assert.Positive(t, proj.Summary.YearsWithShortfall)
}

func TestProject_LumpSumEarnsSameYearReturn(t *testing.T) {
	input := &domain.InputModel{
		CurrentAge:          60,
		RetirementAge:       65,
		StopContributionAge: 59,
		TotalInvestments:    decimal.NewFromInt(100000),
		ReturnRate:          decimal.NewFromFloat(0.05),
		InflationRate:       decimal.NewFromFloat(0.02),
		LumpSums: domain.LumpSums{
			Deposits: domain.LumpSumList{{Age: 70, Amount: decimal.NewFromInt(50000)}},
		},
	}

	proj, err := Project(input)
	require.NoError(t, err)

	r, ok := proj.RecordAt(70)
	require.True(t, ok)
	assert.Equal(t, "50000.00", r.LumpSum.StringFixed(2))

	postDeposit := r.BalanceStart.Add(decimal.NewFromInt(50000)).InexactFloat64()
	assert.InDelta(t, postDeposit*0.05, r.YearlyReturn.InexactFloat64(), 0.01,
		"return is computed on the post-deposit balance")
	assert.InDelta(t, postDeposit*1.05, r.BalanceEnd.InexactFloat64(), 0.01)
}

func TestProject_LumpSumWithdrawalCappedAtBalance(t *testing.T) {
	input := accumulatorInput()
	input.Accounts = domain.Accounts{}
	input.TotalInvestments = decimal.NewFromInt(1000)
	input.MonthlyContribution = decimal.Zero
	input.LumpSums.Withdrawals = domain.LumpSumList{{Age: input.CurrentAge, Amount: decimal.NewFromInt(5000)}}

	proj, err := Project(input)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", proj.Records[0].LumpSumWithdrawal.StringFixed(2))
	assert.True(t, proj.Records[0].BalanceEnd.IsZero())
}

func TestProject_DuplicateLumpSumAgesAggregate(t *testing.T) {
	input := accumulatorInput()
	input.LumpSums.Deposits = domain.LumpSumList{
		{Age: 50, Amount: decimal.NewFromInt(10000)},
		{Age: 50, Amount: decimal.NewFromInt(5000)},
		{Age: 52, Amount: decimal.NewFromInt(-100)},
	}

	proj, err := Project(input)
	require.NoError(t, err)

	r50, _ := proj.RecordAt(50)
	r52, _ := proj.RecordAt(52)
	assert.Equal(t, "15000.00", r50.LumpSum.StringFixed(2))
	assert.True(t, r52.LumpSum.IsZero(), "non-positive amounts are ignored")
	assert.Equal(t, "15000.00", proj.Summary.TotalLumpSums.StringFixed(2))
}

func TestProject_AccumulationMidYearConvention(t *testing.T) {
	input := &domain.InputModel{
		CurrentAge:          40,
		RetirementAge:       65,
		StopContributionAge: 40,
		TotalInvestments:    decimal.NewFromInt(100000),
		MonthlyContribution: decimal.NewFromInt(1000),
		ReturnRate:          decimal.NewFromFloat(0.06),
		InflationRate:       decimal.NewFromFloat(0.02),
	}

	proj, err := Project(input)
	require.NoError(t, err)

	// 100,000 * 0.06 + 12,000 * 0.06 / 2
	first := proj.Records[0]
	assert.Equal(t, "6360.00", first.YearlyReturn.StringFixed(2))
	assert.Equal(t, "118360.00", first.BalanceEnd.StringFixed(2))
	assert.Equal(t, "1000.00", first.MonthlyContribution.StringFixed(2))

	second := proj.Records[1]
	assert.True(t, second.MonthlyContribution.IsZero(), "contributions stop after stop age")
	assert.Equal(t, "125461.60", second.BalanceEnd.StringFixed(2))
}

func TestProject_ContributionMonotonicity(t *testing.T) {
	low := accumulatorInput()
	low.MonthlyContribution = decimal.NewFromInt(500)
	high := accumulatorInput()
	high.MonthlyContribution = decimal.NewFromInt(1500)

	lowProj, err := Project(low)
	require.NoError(t, err)
	highProj, err := Project(high)
	require.NoError(t, err)

	for i := range lowProj.Records {
		assert.True(t, highProj.Records[i].BalanceEnd.GreaterThanOrEqual(lowProj.Records[i].BalanceEnd),
			"age %d", lowProj.Records[i].Age)
	}
}

func TestProject_FourPercentBaselineFixedAtRetirement(t *testing.T) {
	input := accumulatorInput()
	input.LumpSums.Deposits = domain.LumpSumList{{Age: 70, Amount: decimal.NewFromInt(250000)}}

	proj, err := Project(input)
	require.NoError(t, err)

	atRetirement, ok := proj.RecordAt(input.RetirementAge)
	require.True(t, ok)
	baseline := atRetirement.BalanceStart.InexactFloat64() * 0.04 / 12

	for _, r := range proj.RetirementRecords() {
		want := baseline * math.Pow(1.02, float64(r.Age-input.RetirementAge))
		assert.InDelta(t, want, r.FourPercentAmount.InexactFloat64(), 0.01, "age %d", r.Age)
	}
	for _, r := range proj.Records {
		if !r.IsRetired() {
			assert.True(t, r.FourPercentAmount.IsZero())
		}
	}
	assert.InDelta(t, baseline, proj.Summary.FourPercentBaseline.InexactFloat64(), 0.01)
}

func TestProject_ZeroBaselineReportsZeroPercent(t *testing.T) {
	input := retireeInput()
	input.TotalInvestments = decimal.Zero

	proj, err := Project(input)
	require.NoError(t, err)
	for _, r := range proj.Records {
		assert.True(t, r.PercentOverFourPercent.IsZero(), "age %d", r.Age)
		assert.True(t, r.Withdrawal.IsZero())
		assert.Equal(t, r.RequiredIncome.StringFixed(2), r.MonthlyShortfall.StringFixed(2))
	}
}

func TestProject_RequiredIncomeIndexing(t *testing.T) {
	input := accumulatorInput()
	input.RequiredIncome.Reductions = domain.DefaultReductions()

	t.Run("indexed from current age with compounding cuts", func(t *testing.T) {
		proj, err := Project(input)
		require.NoError(t, err)

		for _, age := range []int{65, 77, 83, 90} {
			r, _ := proj.RecordAt(age)
			want := 5000 * math.Pow(1.02, float64(age-45))
			if age >= 77 {
				want *= 0.9
			}
			if age >= 83 {
				want *= 0.9
			}
			assert.InDelta(t, want, r.RequiredIncome.InexactFloat64(), 0.01, "age %d", age)
		}
	})

	t.Run("held flat after retirement when not indexed", func(t *testing.T) {
		flat := input.DeepCopy()
		flat.RequiredIncome.InflationIndexed = false
		flat.RequiredIncome.Reductions = nil

		proj, err := Project(flat)
		require.NoError(t, err)

		want := 5000 * math.Pow(1.02, 20)
		for _, r := range proj.RetirementRecords() {
			assert.InDelta(t, want, r.RequiredIncome.InexactFloat64(), 0.01, "age %d", r.Age)
		}
	})

	t.Run("disabled reduction is ignored", func(t *testing.T) {
		partial := input.DeepCopy()
		partial.RequiredIncome.Reductions[1].Enabled = false

		proj, err := Project(partial)
		require.NoError(t, err)
		r, _ := proj.RecordAt(85)
		want := 5000 * math.Pow(1.02, 40) * 0.9
		assert.InDelta(t, want, r.RequiredIncome.InexactFloat64(), 0.01)
	})
}

func TestProject_IncomeStreams(t *testing.T) {
	input := accumulatorInput()
	input.Persons = []domain.Person{
		{
			Name: "alex",
			Pensions: []domain.PensionStream{
				{Name: "employer", Monthly: decimal.NewFromInt(2000), StartAge: 65, InflationIndexed: false,
					Bridge: &domain.Bridge{Monthly: decimal.NewFromInt(500), StartAge: 65, EndAge: 66}},
				{Name: "government", Monthly: decimal.NewFromInt(700), StartAge: 67, InflationIndexed: true},
				{Name: "unset", Monthly: decimal.NewFromInt(900)},
			},
			PartTime: &domain.PartTimeIncome{Monthly: decimal.NewFromInt(1000), StartAge: 65, EndAge: 66, InflationIndexed: true},
		},
	}

	proj, err := Project(input)
	require.NoError(t, err)

	r65, _ := proj.RecordAt(65)
	assert.Equal(t, "2500.00", r65.MonthlyPension.StringFixed(2), "pension plus bridge")
	assert.Equal(t, "30000.00", r65.YearlyPension.StringFixed(2))
	assert.Equal(t, "1000.00", r65.PartTimeIncome.StringFixed(2))
	require.Len(t, r65.StreamIncome, 1)
	assert.Equal(t, "employer", r65.StreamIncome[0].Name)
	assert.Equal(t, "alex", r65.StreamIncome[0].Person)

	r66, _ := proj.RecordAt(66)
	assert.Equal(t, "1020.00", r66.PartTimeIncome.StringFixed(2), "indexed from its own start age")

	r67, _ := proj.RecordAt(67)
	wantGov := 700 * math.Pow(1.02, 22)
	assert.InDelta(t, 2000+wantGov, r67.MonthlyPension.InexactFloat64(), 0.01, "bridge ended, government indexed from current age")
	assert.True(t, r67.PartTimeIncome.IsZero())

	r100, _ := proj.RecordAt(100)
	for _, s := range r100.StreamIncome {
		assert.NotEqual(t, "unset", s.Name, "unset start age never triggers")
	}
}

func TestProject_ClawbackAndSecondPass(t *testing.T) {
	input := retireeInput()
	input.TotalInvestments = decimal.NewFromInt(5000000)
	input.RequiredIncome.Monthly = decimal.NewFromInt(12000)
	input.Persons = []domain.Person{{
		Name: "alex",
		Pensions: []domain.PensionStream{
			{Name: "benefit", Monthly: decimal.NewFromInt(700), StartAge: 65, InflationIndexed: true, ClawbackEligible: true},
		},
	}}

	proj, err := Project(input)
	require.NoError(t, err)

	first := proj.Records[0]
	// (144,000 - 95,323) * 0.15 / 12, below the 700/month cap
	assert.Equal(t, "608.46", first.Clawback.StringFixed(2))
	assert.Equal(t, "608.46", first.WithdrawalPass2.StringFixed(2))
	assert.Equal(t, "11908.46", first.Withdrawal.StringFixed(2))
	assert.Equal(t, "12000.00", first.TotalMonthlyIncome.StringFixed(2))
	assert.True(t, first.MonthlyShortfall.IsZero())
}

func TestProject_ClawbackBound(t *testing.T) {
	for _, monthly := range []int64{2000, 8000, 15000, 40000} {
		input := retireeInput()
		input.TotalInvestments = decimal.NewFromInt(3000000)
		input.RequiredIncome.Monthly = decimal.NewFromInt(monthly)
		input.Persons = []domain.Person{{
			Pensions: []domain.PensionStream{
				{Name: "benefit", Monthly: decimal.NewFromInt(650), StartAge: 66, InflationIndexed: true, ClawbackEligible: true},
				{Name: "employer", Monthly: decimal.NewFromInt(3000), StartAge: 65},
			},
		}}

		proj, err := Project(input)
		require.NoError(t, err)
		for _, r := range proj.Records {
			eligible := decimal.Zero
			for _, s := range r.StreamIncome {
				if s.Name == "benefit" {
					eligible = s.Monthly
				}
			}
			assert.False(t, r.Clawback.IsNegative())
			assert.True(t, r.Clawback.LessThanOrEqual(eligible), "monthly %d age %d: %s > %s", monthly, r.Age, r.Clawback, eligible)
		}
	}
}

func TestProject_ClawbackDisabled(t *testing.T) {
	input := retireeInput()
	input.TotalInvestments = decimal.NewFromInt(5000000)
	input.RequiredIncome.Monthly = decimal.NewFromInt(20000)
	input.Persons = []domain.Person{{
		Pensions: []domain.PensionStream{
			{Name: "benefit", Monthly: decimal.NewFromInt(700), StartAge: 65, InflationIndexed: true, ClawbackEligible: true},
		},
	}}

	enabled, err := Project(input)
	require.NoError(t, err)
	assert.True(t, enabled.Summary.TotalClawback.IsPositive(), "high income triggers clawback when enabled")

	input.Clawback.Disabled = true
	disabled, err := Project(input)
	require.NoError(t, err)
	for _, r := range disabled.RetirementRecords() {
		assert.True(t, r.Clawback.IsZero(), "age %d", r.Age)
	}
}

func TestProject_SurplusReinvestment(t *testing.T) {
	input := retireeInput()
	input.RequiredIncome.Monthly = decimal.NewFromInt(1000)
	input.Persons = []domain.Person{{
		Pensions: []domain.PensionStream{{Name: "employer", Monthly: decimal.NewFromInt(1500), StartAge: 65}},
	}}

	kept, err := Project(input)
	require.NoError(t, err)
	first := kept.Records[0]
	assert.Equal(t, "500.00", first.MonthlySurplus.StringFixed(2))
	assert.True(t, first.SurplusReinvested.IsZero())
	assert.Equal(t, "1060000.00", first.BalanceEnd.StringFixed(2))

	input.ReinvestSurplus = true
	reinvested, err := Project(input)
	require.NoError(t, err)
	first = reinvested.Records[0]
	assert.Equal(t, "6000.00", first.SurplusReinvested.StringFixed(2))
	assert.Equal(t, "1066360.00", first.BalanceEnd.StringFixed(2))
}

func TestProject_Deterministic(t *testing.T) {
	input := accumulatorInput()
	input.RequiredIncome.Reductions = domain.DefaultReductions()

	a, err := Project(input)
	require.NoError(t, err)
	b, err := Project(input)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestProject_InvalidInput(t *testing.T) {
	_, err := Project(nil)
	assert.Error(t, err)

	input := retireeInput()
	input.CurrentAge = 101
	_, err = Project(input)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "current age")

	input = retireeInput()
	input.RetirementAge = 150
	_, err = Project(input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retirement age")

	input = retireeInput()
	input.RetirementAge = -1
	_, err = Project(input)
	assert.Error(t, err)
}

func TestProject_RetirementBeforeCurrentAge(t *testing.T) {
	input := retireeInput()
	input.CurrentAge = 68
	input.RetirementAge = 60

	proj, err := Project(input)
	require.NoError(t, err)
	require.NotEmpty(t, proj.Records)
	assert.Equal(t, 68, proj.Records[0].Age)
	assert.True(t, proj.Records[0].IsRetired())
}

func TestProject_AlreadyRetired(t *testing.T) {
	input := retireeInput()
	input.CurrentAge = 70

	proj, err := Project(input)
	require.NoError(t, err)
	first := proj.Records[0]
	assert.True(t, first.IsRetired())
	assert.Equal(t, "3333.33", first.FourPercentAmount.StringFixed(2), "baseline fixed at first projected year")
}

func TestProject_InputNotMutated(t *testing.T) {
	input := accumulatorInput()
	input.Persons = []domain.Person{{Pensions: []domain.PensionStream{{Name: "p", Monthly: decimal.NewFromInt(100)}}}}
	before := input.DeepCopy()

	_, err := Project(input)
	require.NoError(t, err)
	assert.Equal(t, before, input)
}

// accumulatorInput is a 45-year-old saving until 65.
func accumulatorInput() *domain.InputModel {
	return &domain.InputModel{
		CurrentAge:          45,
		RetirementAge:       65,
		StopContributionAge: 64,
		Accounts: domain.Accounts{
			TFSA: decimal.NewFromInt(100000),
			RRSP: decimal.NewFromInt(250000),
		},
		MonthlyContribution: decimal.NewFromInt(1000),
		ReturnRate:          decimal.NewFromFloat(0.06),
		InflationRate:       decimal.NewFromFloat(0.02),
		RequiredIncome: domain.RequiredIncome{
			Monthly:          decimal.NewFromInt(5000),
			InflationIndexed: true,
		},
	}
}
