package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// LumpSum is a one-time deposit or withdrawal at the start of the year the
// person turns Age.
type LumpSum struct {
	Age    int             `yaml:"age" json:"age" toml:"age"`
	Amount decimal.Decimal `yaml:"amount" json:"amount" toml:"amount"`
}

// LumpSums groups scheduled deposits and withdrawals.
type LumpSums struct {
	Deposits    LumpSumList `yaml:"deposits,omitempty" json:"deposits" toml:"deposits,omitempty"`
	Withdrawals LumpSumList `yaml:"withdrawals,omitempty" json:"withdrawals" toml:"withdrawals,omitempty"`
}

// LumpSumList tolerates malformed documents: a node that is not a list
// decodes to an empty list and entries that fail to decode are skipped.
type LumpSumList []LumpSum

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *LumpSumList) UnmarshalYAML(value *yaml.Node) error {
	*l = LumpSumList{}
	if value.Kind != yaml.SequenceNode {
		return nil
	}
	for _, item := range value.Content {
		var ls LumpSum
		if item.Kind != yaml.MappingNode {
			continue
		}
		if err := item.Decode(&ls); err != nil {
			continue
		}
		*l = append(*l, ls)
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *LumpSumList) UnmarshalJSON(data []byte) error {
	*l = LumpSumList{}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	for _, raw := range items {
		var ls LumpSum
		if err := json.Unmarshal(raw, &ls); err != nil {
			continue
		}
		*l = append(*l, ls)
	}
	return nil
}

// Aggregate sums amounts that share an age, drops non-positive totals and
// returns the events ordered by age.
func (l LumpSumList) Aggregate() LumpSumList {
	byAge := l.ByAge()
	out := make(LumpSumList, 0, len(byAge))
	for _, age := range sortedAges(byAge) {
		out = append(out, LumpSum{Age: age, Amount: byAge[age]})
	}
	return out
}

// ByAge sums the positive amounts scheduled at each age.
func (l LumpSumList) ByAge() map[int]decimal.Decimal {
	byAge := make(map[int]decimal.Decimal, len(l))
	for _, ls := range l {
		if !ls.Amount.IsPositive() {
			continue
		}
		byAge[ls.Age] = byAge[ls.Age].Add(ls.Amount)
	}
	return byAge
}

// Total returns the sum of all positive amounts.
func (l LumpSumList) Total() decimal.Decimal {
	total := decimal.Zero
	for _, ls := range l {
		if ls.Amount.IsPositive() {
			total = total.Add(ls.Amount)
		}
	}
	return total
}
