package calculation

import "math"

// yearFlows holds one year's computed cash flow in float64 form. Monthly
// fields are per month; lump sums, returns and balances are annual.
type yearFlows struct {
	age     int
	retired bool

	balanceStart   float64
	lumpSum        float64
	lumpWithdrawal float64
	contribution   float64
	yearlyReturn   float64
	balanceEnd     float64

	required          float64
	partTime          float64
	pension           float64
	streams           []float64 // per plan.streams, only when detail is requested
	withdrawal        float64
	pass2             float64
	clawback          float64
	effective         float64
	shortfall         float64
	surplus           float64
	surplusReinvested float64
	todaysDollars     float64

	fourPercent     float64
	vsFourPercent   float64
	percentOverFour float64
}

// runState carries the values fixed once per run.
type runState struct {
	baselineSet        bool
	baseline           float64 // monthly 4% amount at first retirement year
	firstRetirementAge int
}

// step advances the portfolio through one age using the given annual return.
// It is the single cash-flow path for both the projection and every trial.
func (p *plan) step(age int, balance, rate float64, st *runState, detail bool) yearFlows {
	f := yearFlows{
		age:          age,
		retired:      age >= p.retirementAge,
		balanceStart: round2(balance),
	}

	if f.retired && !st.baselineSet {
		st.baselineSet = true
		st.firstRetirementAge = age
		st.baseline = f.balanceStart * 0.04 / 12
	}

	// Lump sums land before the return so they grow with the year.
	if amount, ok := p.deposits[age]; ok {
		balance += amount
		f.lumpSum = amount
	}
	if amount, ok := p.withdrawals[age]; ok {
		amount = math.Min(amount, math.Max(0, balance))
		balance -= amount
		f.lumpWithdrawal = amount
	}

	if !f.retired {
		ret := balance * rate
		balance += ret
		if age <= p.stopAge {
			// Mid-year convention: contributions earn half the year's return.
			annual := p.contribution * 12
			credit := annual * rate / 2
			balance += annual + credit
			ret += credit
			f.contribution = p.contribution
		}
		f.yearlyReturn = ret
	} else {
		balance = p.resolveRetirementYear(age, balance, st, &f, detail)
		ret := balance * rate
		balance += ret
		f.yearlyReturn = ret
	}

	f.balanceEnd = round2(math.Max(0, balance))
	return f
}

// requiredIncome returns the monthly spending target at age.
func (p *plan) requiredIncome(age int) float64 {
	years := age - p.currentAge
	if !p.requiredIndexed {
		years = max(p.retirementAge-p.currentAge, 0)
	}
	required := p.requiredMonthly * p.inflationFactor(years)
	for _, r := range p.reductions {
		if age >= r.age {
			required *= 1 - r.percent
		}
	}
	return required
}

// partTimeIncome returns household part-time income at age. Indexed
// part-time income grows from its own start age.
func (p *plan) partTimeIncome(age int) float64 {
	total := 0.0
	for _, pt := range p.partTimes {
		if age < pt.startAge || age > pt.endAge {
			continue
		}
		amount := pt.monthly
		if pt.indexed {
			amount *= p.inflationFactor(age - pt.startAge)
		}
		total += amount
	}
	return total
}

// pensionIncome returns the monthly total of all pension streams and bridges
// at age, plus the designated benefit's value for the clawback cap. Indexed
// streams grow from current age.
func (p *plan) pensionIncome(age int, f *yearFlows, detail bool) (total, designated float64) {
	if detail && len(p.streams) > 0 {
		f.streams = make([]float64, len(p.streams))
	}
	factor := p.inflationFactor(age - p.currentAge)
	for i, s := range p.streams {
		amount := 0.0
		if age >= s.startAge {
			amount = s.monthly
			if s.indexed {
				amount *= factor
			}
			if s.clawbackEligible {
				designated = amount
			}
		}
		if age >= s.bridgeStart && age <= s.bridgeEnd {
			bridge := s.bridgeMonthly
			if s.indexed {
				bridge *= factor
			}
			amount += bridge
		}
		if f.streams != nil {
			f.streams[i] = amount
		}
		total += amount
	}
	return total, designated
}

// resolveRetirementYear computes income, withdrawals and clawback for a
// retirement-phase year and returns the balance before the year's return.
func (p *plan) resolveRetirementYear(age int, balance float64, st *runState, f *yearFlows, detail bool) float64 {
	f.required = p.requiredIncome(age)
	f.partTime = p.partTimeIncome(age)
	pension, designated := p.pensionIncome(age, f, detail)
	f.pension = pension
	other := f.partTime + pension

	available := math.Max(0, balance)

	// Pass 1: cover the gap between other income and the requirement.
	withdrawal := 0.0
	if other < f.required {
		withdrawal = math.Min((f.required-other)*12, available) / 12
	}

	f.clawback = p.clawback(age, (other+withdrawal)*12, designated)

	// Pass 2: cover whatever the clawback opened up, from what is left.
	if effective := other - f.clawback + withdrawal; effective < f.required {
		remaining := math.Max(0, available-withdrawal*12)
		f.pass2 = math.Min((f.required-effective)*12, remaining) / 12
		withdrawal += f.pass2
	}

	balance -= withdrawal * 12
	f.withdrawal = withdrawal
	f.effective = other - f.clawback + withdrawal
	f.shortfall = math.Max(0, f.required-f.effective)
	f.surplus = math.Max(0, f.effective-f.required)
	if f.surplus > 0 && p.reinvestSurplus {
		f.surplusReinvested = f.surplus * 12
		balance += f.surplusReinvested
	}

	if factor := p.inflationFactor(age - p.currentAge); factor > 0 {
		f.todaysDollars = f.effective / factor
	}

	f.fourPercent = st.baseline * p.inflationFactor(age-st.firstRetirementAge)
	f.vsFourPercent = withdrawal - f.fourPercent
	if f.fourPercent > 0 {
		f.percentOverFour = f.vsFourPercent / f.fourPercent * 100
	}

	return balance
}
