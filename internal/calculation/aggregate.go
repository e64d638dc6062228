package calculation

import (
	"math"
	"sort"

	"github.com/rgehrsitz/nestegg/internal/domain"
	"github.com/shopspring/decimal"
)

// Aggregate reduces completed trials into success rate, per-age percentile
// bands, failure statistics and final-balance extremes. startAge is the age
// of each trial's first balance. An empty trial set yields a zero result.
func Aggregate(trials []domain.SimulationTrial, startAge int) *domain.AggregateResult {
	n := len(trials)
	result := &domain.AggregateResult{
		Trials:      n,
		SuccessRate: decimal.Zero,
		FailureAges: []int{},
	}
	if n == 0 {
		result.Interpretation = domain.InterpretSuccessRate(0)
		return result
	}

	finals := make([]float64, n)
	failureSum := 0
	for i, t := range trials {
		finals[i] = t.FinalBalance
		if t.Failed {
			result.Failures++
			result.FailureAges = append(result.FailureAges, t.FailureAge)
			failureSum += t.FailureAge
		}
	}
	result.Successes = n - result.Failures
	result.SuccessRate = decimal.NewFromInt(int64(result.Successes)).Div(decimal.NewFromInt(int64(n)))
	if result.Failures > 0 {
		result.MeanFailureAge = decimal.NewFromInt(int64(failureSum)).
			Div(decimal.NewFromInt(int64(result.Failures))).Round(1)
	}

	sort.Float64s(finals)
	result.MedianFinalBalance = money(percentile(finals, 0.50))
	result.WorstFinalBalance = money(finals[0])
	result.BestFinalBalance = money(finals[n-1])

	years := len(trials[0].Balances)
	result.Percentiles = make([]domain.AgePercentiles, years)
	column := make([]float64, n)
	for y := 0; y < years; y++ {
		for i := range trials {
			column[i] = trials[i].Balances[y]
		}
		sort.Float64s(column)
		result.Percentiles[y] = domain.AgePercentiles{
			Age: startAge + y,
			P10: money(percentile(column, 0.10)),
			P25: money(percentile(column, 0.25)),
			P50: money(percentile(column, 0.50)),
			P75: money(percentile(column, 0.75)),
			P90: money(percentile(column, 0.90)),
		}
	}

	result.Interpretation = domain.InterpretSuccessRate(result.SuccessPercent().InexactFloat64())
	return result
}

// percentile interpolates linearly between the closest ranks of sorted values.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	index := p * float64(len(sorted)-1)
	lower := int(math.Floor(index))
	if lower >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	fraction := index - float64(lower)
	return sorted[lower] + (sorted[lower+1]-sorted[lower])*fraction
}
