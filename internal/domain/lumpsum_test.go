package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLumpSumList_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []int
	}{
		{
			name: "well formed",
			doc:  "deposits:\n  - age: 70\n    amount: 1000\n  - age: 72\n    amount: 500\n",
			want: []int{70, 72},
		},
		{
			name: "not a list",
			doc:  "deposits: lots\n",
			want: nil,
		},
		{
			name: "mapping instead of list",
			doc:  "deposits:\n  age: 70\n",
			want: nil,
		},
		{
			name: "bad entries skipped",
			doc:  "deposits:\n  - 12\n  - age: seventy\n    amount: 5\n  - age: 71\n    amount: 250\n",
			want: []int{71},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ls LumpSums
			require.NoError(t, yaml.Unmarshal([]byte(tt.doc), &ls))
			var ages []int
			for _, l := range ls.Deposits {
				ages = append(ages, l.Age)
			}
			assert.Equal(t, tt.want, ages)
		})
	}
}

func TestLumpSumList_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want int
	}{
		{"well formed", `{"deposits":[{"age":70,"amount":"1000"},{"age":71,"amount":2}]}`, 2},
		{"string", `{"deposits":"oops"}`, 0},
		{"object", `{"deposits":{"age":70}}`, 0},
		{"bad entries skipped", `{"deposits":[1,{"age":"x"},{"age":72,"amount":3}]}`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ls LumpSums
			require.NoError(t, json.Unmarshal([]byte(tt.doc), &ls))
			assert.Len(t, ls.Deposits, tt.want)
		})
	}
}

func TestLumpSumList_Aggregate(t *testing.T) {
	list := LumpSumList{
		{Age: 80, Amount: decimal.NewFromInt(10)},
		{Age: 70, Amount: decimal.NewFromInt(5)},
		{Age: 80, Amount: decimal.NewFromInt(15)},
		{Age: 75, Amount: decimal.Zero},
		{Age: 76, Amount: decimal.NewFromInt(-3)},
	}

	got := list.Aggregate()
	require.Len(t, got, 2)
	assert.Equal(t, 70, got[0].Age)
	assert.Equal(t, "5", got[0].Amount.String())
	assert.Equal(t, 80, got[1].Age)
	assert.Equal(t, "25", got[1].Amount.String())

	assert.Equal(t, "30", list.Total().String())
	assert.Empty(t, LumpSumList(nil).Aggregate())
}
