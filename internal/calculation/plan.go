package calculation

import (
	"fmt"
	"math"

	"github.com/rgehrsitz/nestegg/internal/domain"
)

// plan is the float64 form of a normalized InputModel. Both engines run the
// same yearly step over it; decimal values are converted once here.
type plan struct {
	currentAge    int
	retirementAge int
	stopAge       int
	years         int

	startBalance float64
	contribution float64
	returnRate   float64
	inflation    float64

	requiredMonthly float64
	requiredIndexed bool
	reductions      []reduction

	streams   []incomeStream
	partTimes []partTime

	deposits    map[int]float64
	withdrawals map[int]float64

	clawbackEnabled   bool
	clawbackThreshold float64
	clawbackRate      float64

	reinvestSurplus bool

	// growth[k] = (1+inflation)^k for k in [0, years]
	growth []float64
}

type reduction struct {
	age     int
	percent float64
}

type incomeStream struct {
	person           string
	name             string
	monthly          float64
	startAge         int
	indexed          bool
	clawbackEligible bool

	bridgeMonthly float64
	bridgeStart   int
	bridgeEnd     int
}

type partTime struct {
	monthly  float64
	startAge int
	endAge   int
	indexed  bool
}

// newPlan normalizes input and converts it for the yearly step.
func newPlan(input *domain.InputModel) (*plan, error) {
	if input == nil {
		return nil, fmt.Errorf("input cannot be nil")
	}
	if input.CurrentAge < 0 || input.CurrentAge > domain.MaxAge {
		return nil, fmt.Errorf("current age must be between 0 and %d, got %d", domain.MaxAge, input.CurrentAge)
	}
	// A retirement age at or below the current age starts the projection retired.
	if input.RetirementAge < 0 || input.RetirementAge > domain.MaxAge {
		return nil, fmt.Errorf("retirement age must be between 0 and %d, got %d", domain.MaxAge, input.RetirementAge)
	}
	in := input.Normalize()

	p := &plan{
		currentAge:        in.CurrentAge,
		retirementAge:     in.RetirementAge,
		stopAge:           in.StopContributionAge,
		years:             in.ProjectionYears(),
		startBalance:      in.StartingBalance().InexactFloat64(),
		contribution:      in.MonthlyContribution.InexactFloat64(),
		returnRate:        in.ReturnRate.InexactFloat64(),
		inflation:         in.InflationRate.InexactFloat64(),
		requiredMonthly:   in.RequiredIncome.Monthly.InexactFloat64(),
		requiredIndexed:   in.RequiredIncome.InflationIndexed,
		deposits:          make(map[int]float64),
		withdrawals:       make(map[int]float64),
		clawbackEnabled:   !in.Clawback.Disabled,
		clawbackThreshold: in.Clawback.Threshold.InexactFloat64(),
		clawbackRate:      in.Clawback.Rate.InexactFloat64(),
		reinvestSurplus:   in.ReinvestSurplus,
	}

	for _, r := range in.RequiredIncome.Reductions {
		if !r.Enabled {
			continue
		}
		p.reductions = append(p.reductions, reduction{age: r.Age, percent: r.Percent.InexactFloat64()})
	}

	for _, person := range in.Persons {
		for _, s := range person.Pensions {
			stream := incomeStream{
				person:           person.Name,
				name:             s.Name,
				monthly:          s.Monthly.InexactFloat64(),
				startAge:         s.StartAge,
				indexed:          s.InflationIndexed,
				clawbackEligible: s.ClawbackEligible,
				bridgeStart:      domain.SentinelAge,
				bridgeEnd:        domain.SentinelAge,
			}
			if s.Bridge != nil {
				stream.bridgeMonthly = s.Bridge.Monthly.InexactFloat64()
				stream.bridgeStart = s.Bridge.StartAge
				stream.bridgeEnd = s.Bridge.EndAge
			}
			p.streams = append(p.streams, stream)
		}
		if person.PartTime != nil {
			p.partTimes = append(p.partTimes, partTime{
				monthly:  person.PartTime.Monthly.InexactFloat64(),
				startAge: person.PartTime.StartAge,
				endAge:   person.PartTime.EndAge,
				indexed:  person.PartTime.InflationIndexed,
			})
		}
	}

	for age, amount := range in.LumpSums.Deposits.ByAge() {
		p.deposits[age] = amount.InexactFloat64()
	}
	for age, amount := range in.LumpSums.Withdrawals.ByAge() {
		p.withdrawals[age] = amount.InexactFloat64()
	}

	p.growth = make([]float64, p.years+1)
	for k := range p.growth {
		p.growth[k] = math.Pow(1+p.inflation, float64(k))
	}

	return p, nil
}

// inflationFactor returns (1+inflation)^years.
func (p *plan) inflationFactor(years int) float64 {
	if years >= 0 && years < len(p.growth) {
		return p.growth[years]
	}
	return math.Pow(1+p.inflation, float64(years))
}

// round2 rounds to cents, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
