package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ScenarioTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("postpone_retirement", createPostponeRetirement)
	registry.Register("set_retirement_age", createSetRetirementAge)
	registry.Register("adjust_income", createAdjustRequiredIncome)
	registry.Register("set_income", createSetRequiredIncome)
	registry.Register("set_contribution", createSetContribution)
	registry.Register("set_return", createSetReturnRate)
	registry.Register("adjust_return", createAdjustReturnRate)
	registry.Register("set_inflation", createModifyInflation)
	registry.Register("delay_pension", createDelayPension)
	registry.Register("disable_clawback", func(map[string]string) (ScenarioTransform, error) {
		return &DisableClawback{}, nil
	})
	registry.Register("add_lump_sum", createAddLumpSum)
	registry.Register("reinvest_surplus", func(map[string]string) (ScenarioTransform, error) {
		return &EnableSurplusReinvestment{}, nil
	})

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ScenarioTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered transforms in sorted order.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "delay_pension:stream=cpp,age=70"
// Transforms without parameters may omit the colon.
func (r *TransformRegistry) ParseTransformSpec(spec string) (ScenarioTransform, error) {
	name, paramsStr, _ := strings.Cut(spec, ":")
	name = strings.TrimSpace(name)
	paramsStr = strings.TrimSpace(paramsStr)
	if name == "" {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

// ParseTransformSpecs parses a semicolon-separated list of transform specs.
func (r *TransformRegistry) ParseTransformSpecs(specs string) ([]ScenarioTransform, error) {
	var out []ScenarioTransform
	for _, spec := range strings.Split(specs, ";") {
		if strings.TrimSpace(spec) == "" {
			continue
		}
		t, err := r.ParseTransformSpec(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func intParam(transform, key string, params map[string]string) (int, error) {
	raw, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func decimalParam(transform, key string, params map[string]string) (decimal.Decimal, error) {
	raw, ok := params[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

// Factory functions for each transform

func createPostponeRetirement(params map[string]string) (ScenarioTransform, error) {
	years, err := intParam("postpone_retirement", "years", params)
	if err != nil {
		return nil, err
	}
	return &PostponeRetirement{Years: years}, nil
}

func createSetRetirementAge(params map[string]string) (ScenarioTransform, error) {
	age, err := intParam("set_retirement_age", "age", params)
	if err != nil {
		return nil, err
	}
	align := false
	if raw, ok := params["align"]; ok {
		align = raw == "true" || raw == "yes" || raw == "1"
	}
	return &SetRetirementAge{Age: age, AlignContributions: align}, nil
}

func createAdjustRequiredIncome(params map[string]string) (ScenarioTransform, error) {
	percent, err := decimalParam("adjust_income", "percent", params)
	if err != nil {
		return nil, err
	}
	return &AdjustRequiredIncome{Percent: percent}, nil
}

func createSetRequiredIncome(params map[string]string) (ScenarioTransform, error) {
	monthly, err := decimalParam("set_income", "monthly", params)
	if err != nil {
		return nil, err
	}
	return &SetRequiredIncome{Monthly: monthly}, nil
}

func createSetContribution(params map[string]string) (ScenarioTransform, error) {
	monthly, err := decimalParam("set_contribution", "monthly", params)
	if err != nil {
		return nil, err
	}
	return &SetContribution{Monthly: monthly}, nil
}

func createSetReturnRate(params map[string]string) (ScenarioTransform, error) {
	rate, err := decimalParam("set_return", "rate", params)
	if err != nil {
		return nil, err
	}
	return &SetReturnRate{Rate: rate}, nil
}

func createAdjustReturnRate(params map[string]string) (ScenarioTransform, error) {
	delta, err := decimalParam("adjust_return", "delta", params)
	if err != nil {
		return nil, err
	}
	return &AdjustReturnRate{Delta: delta}, nil
}

func createModifyInflation(params map[string]string) (ScenarioTransform, error) {
	rate, err := decimalParam("set_inflation", "rate", params)
	if err != nil {
		return nil, err
	}
	return &ModifyInflation{NewRate: rate}, nil
}

func createDelayPension(params map[string]string) (ScenarioTransform, error) {
	stream, ok := params["stream"]
	if !ok {
		return nil, fmt.Errorf("delay_pension requires 'stream' parameter")
	}
	age, err := intParam("delay_pension", "age", params)
	if err != nil {
		return nil, err
	}
	return &DelayPension{Person: params["person"], Stream: stream, Age: age}, nil
}

func createAddLumpSum(params map[string]string) (ScenarioTransform, error) {
	age, err := intParam("add_lump_sum", "age", params)
	if err != nil {
		return nil, err
	}
	amount, err := decimalParam("add_lump_sum", "amount", params)
	if err != nil {
		return nil, err
	}

	withdrawal := false
	switch kind := params["kind"]; kind {
	case "", "deposit":
	case "withdrawal":
		withdrawal = true
	default:
		return nil, fmt.Errorf("invalid kind %q, expected deposit or withdrawal", kind)
	}
	return &AddLumpSum{Age: age, Amount: amount, Withdrawal: withdrawal}, nil
}
