package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/nestegg/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in scenario templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Category    string
	Description string
	Transforms  []ScenarioTransform
}

// Template categories, in help order.
const (
	CategoryTiming      = "Retirement Timing"
	CategorySpending    = "Spending"
	CategoryPensions    = "Pensions"
	CategoryMarkets     = "Market Assumptions"
	CategoryCombination = "Combination Strategies"
)

var categoryOrder = []string{CategoryTiming, CategorySpending, CategoryPensions, CategoryMarkets, CategoryCombination}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names in sorted order
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates creates a template registry with common what-if scenarios
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	for _, years := range []int{1, 2, 3} {
		registry.Register(Template{
			Name:        fmt.Sprintf("retire_later_%dyr", years),
			Category:    CategoryTiming,
			Description: fmt.Sprintf("Retire %d year(s) later and keep contributing", years),
			Transforms:  []ScenarioTransform{&PostponeRetirement{Years: years}},
		})
	}

	for _, pct := range []int64{5, 10, 20} {
		registry.Register(Template{
			Name:        fmt.Sprintf("spend_less_%dpct", pct),
			Category:    CategorySpending,
			Description: fmt.Sprintf("Reduce required income by %d%%", pct),
			Transforms:  []ScenarioTransform{&AdjustRequiredIncome{Percent: decimal.NewFromInt(-pct)}},
		})
	}
	registry.Register(Template{
		Name:        "reinvest_surplus",
		Category:    CategorySpending,
		Description: "Reinvest income above the requirement",
		Transforms:  []ScenarioTransform{&EnableSurplusReinvestment{}},
	})

	registry.Register(Template{
		Name:        "delay_cpp_70",
		Category:    CategoryPensions,
		Description: "Start CPP at 70 (maximum deferral)",
		Transforms:  []ScenarioTransform{&DelayPension{Stream: "cpp", Age: 70}},
	})
	registry.Register(Template{
		Name:        "delay_oas_70",
		Category:    CategoryPensions,
		Description: "Start OAS at 70 (maximum deferral)",
		Transforms:  []ScenarioTransform{&DelayPension{Stream: "oas", Age: 70}},
	})

	registry.Register(Template{
		Name:        "conservative_returns",
		Category:    CategoryMarkets,
		Description: "Lower the expected return by 2 points",
		Transforms:  []ScenarioTransform{&AdjustReturnRate{Delta: decimal.NewFromFloat(-0.02)}},
	})
	registry.Register(Template{
		Name:        "higher_inflation",
		Category:    CategoryMarkets,
		Description: "Assume 4% inflation",
		Transforms:  []ScenarioTransform{&ModifyInflation{NewRate: decimal.NewFromFloat(0.04)}},
	})

	registry.Register(Template{
		Name:        "retire_later_1yr_spend_less_5pct",
		Category:    CategoryCombination,
		Description: "Retire 1 year later + spend 5% less",
		Transforms: []ScenarioTransform{
			&PostponeRetirement{Years: 1},
			&AdjustRequiredIncome{Percent: decimal.NewFromInt(-5)},
		},
	})
	registry.Register(Template{
		Name:        "stress_test",
		Category:    CategoryCombination,
		Description: "Lower returns by 2 points + 4% inflation",
		Transforms: []ScenarioTransform{
			&AdjustReturnRate{Delta: decimal.NewFromFloat(-0.02)},
			&ModifyInflation{NewRate: decimal.NewFromFloat(0.04)},
		},
	})

	return registry
}

// ApplyTemplate applies a template to a base input. Pension templates whose
// stream is missing from base are skipped rather than failing the template.
func ApplyTemplate(base *domain.InputModel, template Template) (*domain.InputModel, error) {
	if base == nil {
		return nil, fmt.Errorf("base input cannot be nil")
	}
	transforms := make([]ScenarioTransform, 0, len(template.Transforms))
	for _, t := range template.Transforms {
		if dp, ok := t.(*DelayPension); ok && len(dp.matches(base)) == 0 {
			continue
		}
		transforms = append(transforms, t)
	}
	return ApplyTransforms(base, transforms)
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")

	categories := make(map[string][]Template)
	for _, name := range registry.List() {
		t := registry.templates[name]
		category := t.Category
		if category == "" {
			category = CategoryCombination
		}
		categories[category] = append(categories[category], t)
	}

	for _, category := range categoryOrder {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-34s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  nestegg compare plan.yaml --with retire_later_1yr,spend_less_10pct\n")
	sb.WriteString("  nestegg compare plan.yaml --transform 'delay_pension:stream=cpp,age=70'\n")

	return sb.String()
}
