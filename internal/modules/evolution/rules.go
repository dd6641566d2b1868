package evolution

import (
	"fmt"
	"math"
	"strings"

	"github.com/quantforge/macrosim/internal/domain"
)

// evaluateRules walks the rules whose origin matches the current scenario
// and returns the first one whose triggers hold and whose Bernoulli trial
// fires. The RNG is consumed only for rules whose triggers pass.
func (e *Engine) evaluateRules(condition domain.MarketCondition, haveCondition bool) *RegimeChangeRule {
	for i := range e.rules {
		rule := &e.rules[i]
		if rule.FromScenarioID != e.state.CurrentScenario.ID {
			continue
		}
		if !e.triggersHold(rule.Triggers, condition, haveCondition) {
			continue
		}
		if e.gen.Uniform() < rule.TransitionProbabilityPerTick {
			return rule
		}
	}
	return nil
}

// triggersHold checks every configured trigger condition
func (e *Engine) triggersHold(t TriggerConditions, condition domain.MarketCondition, haveCondition bool) bool {
	if t.TimeThresholdYears != nil && e.state.RegimeAgeYears < *t.TimeThresholdYears {
		return false
	}

	for _, pt := range t.ParameterThresholds {
		value, ok := e.state.CurrentParameters.Value(pt.Parameter)
		if !ok {
			return false
		}
		if !thresholdHolds(value, pt) {
			return false
		}
	}

	if len(t.MarketConditionFilter) > 0 {
		if !haveCondition {
			return false
		}
		allowed := false
		for _, c := range t.MarketConditionFilter {
			if c == condition {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}

	return true
}

// transitionReason renders the triggers that gated a fired rule, ending
// with the Bernoulli trial probability. A rule without triggers fired on
// the trial alone.
func transitionReason(rule *RegimeChangeRule) string {
	var parts []string
	t := rule.Triggers

	if t.TimeThresholdYears != nil {
		parts = append(parts, fmt.Sprintf("regime age >= %.2fy", *t.TimeThresholdYears))
	}
	for _, pt := range t.ParameterThresholds {
		parts = append(parts, fmt.Sprintf("%s %s %g", pt.Parameter, pt.Comparison, pt.Value))
	}
	if len(t.MarketConditionFilter) > 0 {
		conditions := make([]string, len(t.MarketConditionFilter))
		for i, c := range t.MarketConditionFilter {
			conditions[i] = string(c)
		}
		parts = append(parts, "market in ("+strings.Join(conditions, ", ")+")")
	}

	trial := fmt.Sprintf("trial p=%g", rule.TransitionProbabilityPerTick)
	if len(parts) == 0 {
		return trial
	}
	return strings.Join(parts, "; ") + "; " + trial
}

func thresholdHolds(value float64, pt ParameterThreshold) bool {
	switch pt.Comparison {
	case CompareGreater:
		return value > pt.Value
	case CompareLess:
		return value < pt.Value
	case CompareEqual:
		return math.Abs(value-pt.Value) <= equalTolerance
	}
	return false
}
