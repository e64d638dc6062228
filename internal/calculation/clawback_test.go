package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeClawback(t *testing.T) {
	base := ClawbackParams{
		Age:                    65,
		CurrentAge:             65,
		EligibleBenefitMonthly: 700,
		ThresholdBase:          95323,
		Rate:                   0.15,
		InflationRate:          0.02,
		Enabled:                true,
	}

	tests := []struct {
		name   string
		modify func(*ClawbackParams)
		want   float64
	}{
		{
			name:   "below threshold",
			modify: func(cp *ClawbackParams) { cp.AnnualIncome = 90000 },
			want:   0,
		},
		{
			name:   "at threshold",
			modify: func(cp *ClawbackParams) { cp.AnnualIncome = 95323 },
			want:   0,
		},
		{
			name:   "partial recovery",
			modify: func(cp *ClawbackParams) { cp.AnnualIncome = 144000 },
			want:   (144000 - 95323) * 0.15 / 12,
		},
		{
			name:   "capped at the benefit",
			modify: func(cp *ClawbackParams) { cp.AnnualIncome = 500000 },
			want:   700,
		},
		{
			name: "disabled",
			modify: func(cp *ClawbackParams) {
				cp.AnnualIncome = 500000
				cp.Enabled = false
			},
			want: 0,
		},
		{
			name: "no eligible benefit",
			modify: func(cp *ClawbackParams) {
				cp.AnnualIncome = 500000
				cp.EligibleBenefitMonthly = 0
			},
			want: 0,
		},
		{
			name: "threshold indexed from current age",
			modify: func(cp *ClawbackParams) {
				cp.Age = 75
				cp.AnnualIncome = 120000
			},
			// 95,323 * 1.02^10 = 116,198.21
			want: (120000 - 116198.2051) * 0.15 / 12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cp := base
			tt.modify(&cp)
			got := ComputeClawback(cp)
			assert.InDelta(t, tt.want, got, 0.01)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, cp.EligibleBenefitMonthly+1e-9)
		})
	}
}
