package transform

import (
	"fmt"

	"github.com/rgehrsitz/nestegg/internal/domain"
)

// DelayPension changes the start age of a named pension stream. An empty
// Person matches the stream on every person.
type DelayPension struct {
	Person string
	Stream string
	Age    int
}

func (dp *DelayPension) Name() string {
	return "delay_pension"
}

func (dp *DelayPension) Description() string {
	if dp.Person == "" {
		return fmt.Sprintf("Start %s at %d", dp.Stream, dp.Age)
	}
	return fmt.Sprintf("Start %s's %s at %d", dp.Person, dp.Stream, dp.Age)
}

func (dp *DelayPension) Validate(base *domain.InputModel) error {
	if dp.Stream == "" {
		return NewTransformError(dp.Name(), "validate", "stream name cannot be empty", nil)
	}
	if dp.Age < 0 || dp.Age > domain.MaxAge {
		return NewTransformError(dp.Name(), "validate", fmt.Sprintf("age must be between 0 and %d, got %d", domain.MaxAge, dp.Age), nil)
	}
	if err := requireBase(dp.Name(), base); err != nil {
		return err
	}
	if len(dp.matches(base)) == 0 {
		return NewTransformError(dp.Name(), "validate", fmt.Sprintf("pension %s not found in input", dp.Stream), nil)
	}
	return nil
}

func (dp *DelayPension) Apply(base *domain.InputModel) (*domain.InputModel, error) {
	modified := base.DeepCopy()
	for _, s := range dp.matches(modified) {
		s.StartAge = dp.Age
	}
	return modified, nil
}

func (dp *DelayPension) matches(in *domain.InputModel) []*domain.PensionStream {
	var out []*domain.PensionStream
	for i := range in.Persons {
		p := &in.Persons[i]
		if dp.Person != "" && p.Name != dp.Person {
			continue
		}
		for j := range p.Pensions {
			if p.Pensions[j].Name == dp.Stream {
				out = append(out, &p.Pensions[j])
			}
		}
	}
	return out
}

// DisableClawback turns off the means-tested benefit reduction.
type DisableClawback struct{}

func (dc *DisableClawback) Name() string {
	return "disable_clawback"
}

func (dc *DisableClawback) Description() string {
	return "Ignore the benefit clawback"
}

func (dc *DisableClawback) Validate(base *domain.InputModel) error {
	return requireBase(dc.Name(), base)
}

func (dc *DisableClawback) Apply(base *domain.InputModel) (*domain.InputModel, error) {
	modified := base.DeepCopy()
	modified.Clawback.Disabled = true
	return modified, nil
}
