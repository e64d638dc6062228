package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestProjection_Summarize(t *testing.T) {
	p := &Projection{
		StartAge:      98,
		RetirementAge: 99,
		Records: []YearRecord{
			{Age: 98, Phase: PhaseAccumulation, BalanceStart: d(100), BalanceEnd: d(150), LumpSum: d(20)},
			{Age: 99, Phase: PhaseRetirement, BalanceStart: d(150), BalanceEnd: d(0),
				RequiredIncome: d(40), Withdrawal: d(10), YearlyPension: d(120), Clawback: d(1),
				MonthlyShortfall: d(5), FourPercentAmount: d(3), LumpSumWithdrawal: d(7)},
			{Age: 100, Phase: PhaseRetirement, BalanceStart: d(0), BalanceEnd: d(0),
				RequiredIncome: d(40), MonthlyShortfall: d(40)},
		},
	}

	s := p.Summarize()
	assert.Equal(t, "120", s.TotalWithdrawals.String())
	assert.Equal(t, "120", s.TotalPension.String())
	assert.Equal(t, "20", s.TotalLumpSums.String())
	assert.Equal(t, "7", s.TotalLumpSumWithdrawals.String())
	assert.Equal(t, "12", s.TotalClawback.String())
	assert.Equal(t, "150", s.BalanceAtRetirement.String())
	assert.Equal(t, "3", s.FourPercentBaseline.String())
	assert.Equal(t, "150", s.PeakBalance.String())
	assert.Equal(t, "0", s.FinalBalance.String())
	assert.Equal(t, 99, s.DepletionAge)
	assert.True(t, s.Depleted())
	assert.Equal(t, 2, s.YearsWithShortfall)
	assert.Equal(t, "40", s.FirstYearRequiredIncome.String())
	assert.Equal(t, "10", s.FirstYearWithdrawal.String())
}

func TestProjection_Accessors(t *testing.T) {
	p := &Projection{
		StartAge: 64,
		Records: []YearRecord{
			{Age: 64, Phase: PhaseAccumulation, BalanceEnd: d(10)},
			{Age: 65, Phase: PhaseRetirement, BalanceEnd: d(5)},
		},
	}

	r, ok := p.RecordAt(65)
	require.True(t, ok)
	assert.Equal(t, 65, r.Age)
	_, ok = p.RecordAt(63)
	assert.False(t, ok)
	_, ok = p.RecordAt(66)
	assert.False(t, ok)

	retired := p.RetirementRecords()
	require.Len(t, retired, 1)
	assert.Equal(t, 65, retired[0].Age)
	assert.Equal(t, 65, p.FinalRecord().Age)

	assert.Nil(t, (&Projection{}).FinalRecord())
	assert.Nil(t, (&Projection{}).RetirementRecords())
}

func TestYearRecord_Flags(t *testing.T) {
	r := YearRecord{Phase: PhaseRetirement, BalanceEnd: decimal.Zero, MonthlyShortfall: d(1)}
	assert.True(t, r.IsRetired())
	assert.True(t, r.IsDepleted())
	assert.True(t, r.HasShortfall())

	r = YearRecord{Phase: PhaseAccumulation, BalanceEnd: d(1)}
	assert.False(t, r.IsRetired())
	assert.False(t, r.IsDepleted())
	assert.False(t, r.HasShortfall())
}
