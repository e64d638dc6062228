package transform

import (
	"fmt"

	"github.com/rgehrsitz/nestegg/internal/domain"
)

// PostponeRetirement delays retirement by a number of years. Contributions
// continue through the extra working years.
// This is useful for exploring "work one more year" scenarios.
type PostponeRetirement struct {
	Years int // Number of years to postpone (non-negative)
}

func (pt *PostponeRetirement) Name() string {
	return "postpone_retirement"
}

func (pt *PostponeRetirement) Description() string {
	return fmt.Sprintf("Postpone retirement by %d years", pt.Years)
}

func (pt *PostponeRetirement) Validate(base *domain.InputModel) error {
	if pt.Years < 0 {
		return NewTransformError(pt.Name(), "validate", fmt.Sprintf("years must be non-negative, got %d", pt.Years), nil)
	}
	if err := requireBase(pt.Name(), base); err != nil {
		return err
	}
	if base.RetirementAge+pt.Years > domain.MaxAge {
		return NewTransformError(pt.Name(), "validate",
			fmt.Sprintf("retirement age %d is past %d", base.RetirementAge+pt.Years, domain.MaxAge), nil)
	}
	return nil
}

func (pt *PostponeRetirement) Apply(base *domain.InputModel) (*domain.InputModel, error) {
	modified := base.DeepCopy()
	modified.RetirementAge += pt.Years
	modified.StopContributionAge = min(modified.StopContributionAge+pt.Years, domain.MaxAge)
	return modified, nil
}

// SetRetirementAge sets retirement to an absolute age. Unlike
// PostponeRetirement it leaves the contribution stop age alone unless that
// would run past retirement. With AlignContributions, contributions run
// through the year before retirement.
type SetRetirementAge struct {
	Age                int
	AlignContributions bool
}

func (sra *SetRetirementAge) Name() string {
	return "set_retirement_age"
}

func (sra *SetRetirementAge) Description() string {
	return fmt.Sprintf("Retire at %d", sra.Age)
}

func (sra *SetRetirementAge) Validate(base *domain.InputModel) error {
	if sra.Age < 0 || sra.Age > domain.MaxAge {
		return NewTransformError(sra.Name(), "validate", fmt.Sprintf("age must be between 0 and %d, got %d", domain.MaxAge, sra.Age), nil)
	}
	return requireBase(sra.Name(), base)
}

func (sra *SetRetirementAge) Apply(base *domain.InputModel) (*domain.InputModel, error) {
	modified := base.DeepCopy()
	modified.RetirementAge = sra.Age
	if sra.AlignContributions || modified.StopContributionAge >= sra.Age {
		modified.StopContributionAge = max(sra.Age-1, 0)
	}
	return modified, nil
}
