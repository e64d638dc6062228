package calculation

import (
	"math"

	"github.com/rgehrsitz/nestegg/internal/domain"
	"github.com/shopspring/decimal"
)

// Project runs the deterministic year-by-year projection from current age to
// domain.MaxAge at the input's fixed return rate. Identical inputs produce
// identical projections. Depletion is reported in the records, never as an
// error; an error is returned only for a nil input or a current age outside
// [0, MaxAge].
//
// A retirement age at or below current age means the first projected year is
// already a retirement year and fixes the 4% baseline.
func Project(input *domain.InputModel) (*domain.Projection, error) {
	p, err := newPlan(input)
	if err != nil {
		return nil, err
	}

	proj := &domain.Projection{
		StartAge:      p.currentAge,
		RetirementAge: p.retirementAge,
		Records:       make([]domain.YearRecord, 0, p.years),
	}

	var st runState
	balance := p.startBalance
	for age := p.currentAge; age <= domain.MaxAge; age++ {
		f := p.step(age, balance, p.returnRate, &st, true)
		proj.Records = append(proj.Records, p.record(f))
		balance = f.balanceEnd
	}

	proj.Summary = proj.Summarize()
	return proj, nil
}

// record converts a year's flows into its immutable report form.
func (p *plan) record(f yearFlows) domain.YearRecord {
	yr := domain.YearRecord{
		Age:                 f.age,
		Phase:               domain.PhaseAccumulation,
		BalanceStart:        money(f.balanceStart),
		LumpSum:             money(f.lumpSum),
		LumpSumWithdrawal:   money(f.lumpWithdrawal),
		MonthlyContribution: money(f.contribution),
		YearlyReturn:        money(f.yearlyReturn),
		BalanceEnd:          money(f.balanceEnd),
	}
	if !f.retired {
		return yr
	}

	yr.Phase = domain.PhaseRetirement
	yr.RequiredIncome = money(f.required)
	yr.PartTimeIncome = money(f.partTime)
	yr.MonthlyPension = money(f.pension)
	yr.YearlyPension = money(f.pension * 12)
	yr.Withdrawal = money(f.withdrawal)
	yr.WithdrawalPass2 = money(f.pass2)
	yr.Clawback = money(f.clawback)
	yr.TotalMonthlyIncome = money(f.effective)
	yr.MonthlyShortfall = money(f.shortfall)
	yr.MonthlySurplus = money(f.surplus)
	yr.SurplusReinvested = money(f.surplusReinvested)
	yr.IncomeTodaysDollars = money(f.todaysDollars)
	yr.FourPercentAmount = money(f.fourPercent)
	yr.WithdrawalVsFourPercent = money(f.vsFourPercent)
	yr.PercentOverFourPercent = rounded(f.percentOverFour, 1)

	for i, amount := range f.streams {
		if amount == 0 {
			continue
		}
		yr.StreamIncome = append(yr.StreamIncome, domain.StreamAmount{
			Person:  p.streams[i].person,
			Name:    p.streams[i].name,
			Monthly: money(amount),
		})
	}
	return yr
}

// money converts a float amount to a cent-rounded decimal.
func money(v float64) decimal.Decimal {
	return rounded(v, 2)
}

// rounded converts v to a decimal with the given places. Non-finite values
// report as zero.
func rounded(v float64, places int32) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v).Round(places)
}
