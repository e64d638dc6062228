package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/nestegg/internal/calculation"
	"github.com/rgehrsitz/nestegg/internal/domain"
	"github.com/rgehrsitz/nestegg/internal/transform"
)

// CompareEngine orchestrates scenario comparison
type CompareEngine struct {
	CalcEngine        *calculation.CalculationEngine
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
	TransformRegistry *transform.TransformRegistry
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.CalculationEngine) *CompareEngine {
	if calcEngine == nil {
		calcEngine = calculation.NewCalculationEngine()
	}
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
		TransformRegistry: transform.NewTransformRegistry(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseScenarioName string   // Label for the base scenario
	Templates        []string // Built-in template names to apply
	Transforms       []string // Ad-hoc transform specs, each becoming one alternative

	// MonteCarlo, when set, also simulates every scenario so success rates
	// can be compared.
	MonteCarlo *calculation.MonteCarloConfig
}

// NamedInput is one explicitly supplied scenario.
type NamedInput struct {
	Name  string
	Input *domain.InputModel
}

// Compare runs the base input plus one alternative per template and
// transform spec.
func (ce *CompareEngine) Compare(
	ctx context.Context,
	base *domain.InputModel,
	options CompareOptions,
) (*ComparisonSet, error) {
	if base == nil {
		return nil, fmt.Errorf("base input cannot be nil")
	}
	baseName := options.BaseScenarioName
	if baseName == "" {
		baseName = "base"
	}
	if n := 1 + len(options.Templates) + len(options.Transforms); n > MaxScenarios {
		return nil, fmt.Errorf("at most %d scenarios can be compared, got %d", MaxScenarios, n)
	}

	alternatives := make([]NamedInput, 0, len(options.Templates)+len(options.Transforms))
	descriptions := make([]string, 0, cap(alternatives))

	for _, templateName := range options.Templates {
		template, ok := ce.TemplateRegistry.Get(templateName)
		if !ok {
			return nil, fmt.Errorf("template %s not found", templateName)
		}

		modified, err := transform.ApplyTemplate(base, template)
		if err != nil {
			return nil, fmt.Errorf("failed to apply template %s: %w", templateName, err)
		}
		alternatives = append(alternatives, NamedInput{Name: baseName + "_" + template.Name, Input: modified})
		descriptions = append(descriptions, template.Description)
	}

	for _, spec := range options.Transforms {
		transforms, err := ce.TransformRegistry.ParseTransformSpecs(spec)
		if err != nil {
			return nil, fmt.Errorf("failed to parse transform %q: %w", spec, err)
		}
		modified, err := transform.ApplyTransforms(base, transforms)
		if err != nil {
			return nil, err
		}
		name := baseName
		for _, t := range transforms {
			name += "_" + t.Name()
		}
		alternatives = append(alternatives, NamedInput{Name: name, Input: modified})
		descriptions = append(descriptions, transform.Describe(transforms))
	}

	compSet, err := ce.CompareScenarios(ctx, NamedInput{Name: baseName, Input: base}, alternatives, options.MonteCarlo)
	if err != nil {
		return nil, err
	}
	for i := range compSet.AlternativeResults {
		compSet.AlternativeResults[i].Description = descriptions[i]
	}
	return compSet, nil
}

// CompareScenarios compares explicit scenarios (not using templates)
func (ce *CompareEngine) CompareScenarios(
	ctx context.Context,
	base NamedInput,
	alternatives []NamedInput,
	mc *calculation.MonteCarloConfig,
) (*ComparisonSet, error) {
	if n := 1 + len(alternatives); n > MaxScenarios {
		return nil, fmt.Errorf("at most %d scenarios can be compared, got %d", MaxScenarios, n)
	}

	// Every scenario draws the same return sequences.
	if mc != nil && mc.Seed == 0 {
		fixed := *mc
		fixed.Seed = calculation.NewSeed()
		mc = &fixed
	}

	baseRun, err := ce.CalcEngine.RunScenario(ctx, base.Name, base.Input, mc)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}
	baseResult := ce.MetricsCalculator.CalculateMetrics(baseRun)

	results := make([]ComparisonResult, 0, len(alternatives))
	for _, alt := range alternatives {
		run, err := ce.CalcEngine.RunScenario(ctx, alt.Name, alt.Input, mc)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", alt.Name, err)
		}

		altResult := ce.MetricsCalculator.CalculateMetrics(run)
		altResult = ce.MetricsCalculator.CalculateComparison(altResult, baseResult)
		results = append(results, altResult)
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   base.Name,
		BaseResult:         &baseResult,
		AlternativeResults: results,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}
