package main

import (
	"fmt"
	"math"
)

// Guyton-Klinger guardrails, evaluated as a pure decision function: every
// call recomputes from the supplied snapshot, no state survives between
// evaluations. Re-running with the previous result's withdrawal and an
// unchanged portfolio always yields Maintain.

// varianceEpsilon guards the variance division when the target value is zero
const varianceEpsilon = 1e-9

// EvaluateGuardrail decides whether to raise, lower or hold the withdrawal.
//
// variance = (current - target) / target. A variance at or beyond the upper
// threshold raises the withdrawal by the increase rate; at or beyond the
// (negative) lower threshold it cuts by the decrease rate; in between the
// withdrawal holds. Threshold comparisons are inclusive.
//
// essentialFloor is the retiree's essential annual expense. A result below
// it still applies, but carries a warning so the surrounding report can
// prompt for expense reduction or alternative income.
func EvaluateGuardrail(snapshot PortfolioSnapshot, essentialFloor float64, rules *GuardrailRules) (GuardrailResult, error) {
	if snapshot.TargetValue < 0 || snapshot.CurrentValue < 0 {
		return GuardrailResult{}, fmt.Errorf("portfolio values must not be negative (target %.0f, current %.0f)",
			snapshot.TargetValue, snapshot.CurrentValue)
	}
	if snapshot.CurrentWithdrawal < 0 {
		return GuardrailResult{}, fmt.Errorf("current withdrawal must not be negative: %.0f", snapshot.CurrentWithdrawal)
	}

	variance := (snapshot.CurrentValue - snapshot.TargetValue) / math.Max(varianceEpsilon, snapshot.TargetValue)

	result := GuardrailResult{Variance: variance}
	switch {
	case variance >= rules.GetUpperThreshold():
		result.Action = Increase
		result.NewWithdrawal = snapshot.CurrentWithdrawal * (1 + rules.GetIncreaseRate())
	case variance <= rules.GetLowerThreshold():
		result.Action = Decrease
		result.NewWithdrawal = snapshot.CurrentWithdrawal * (1 - rules.GetDecreaseRate())
	default:
		result.Action = Maintain
		result.NewWithdrawal = snapshot.CurrentWithdrawal
	}

	// Single-period adjustments never move beyond the per-period cap
	maxAdj := rules.GetMaxAdjustment()
	upperBound := snapshot.CurrentWithdrawal * (1 + maxAdj)
	lowerBound := snapshot.CurrentWithdrawal * (1 - maxAdj)
	if result.NewWithdrawal > upperBound {
		result.NewWithdrawal = upperBound
	}
	if result.NewWithdrawal < lowerBound {
		result.NewWithdrawal = lowerBound
	}

	if essentialFloor > 0 && result.NewWithdrawal < essentialFloor {
		result.FloorBreached = true
		result.FloorWarning = fmt.Sprintf(
			"adjusted withdrawal %s is below essential expenses %s; consider reducing spending or adding income",
			FormatKRW(result.NewWithdrawal), FormatKRW(essentialFloor))
	}

	return result, nil
}

// GuardrailMessage describes the decision for the report
func GuardrailMessage(r GuardrailResult) string {
	switch r.Action {
	case Increase:
		return fmt.Sprintf("Portfolio is %.1f%% above target; withdrawal raised to %s.",
			r.Variance*100, FormatKRW(r.NewWithdrawal))
	case Decrease:
		return fmt.Sprintf("Portfolio is %.1f%% below target; withdrawal cut to %s.",
			math.Abs(r.Variance)*100, FormatKRW(r.NewWithdrawal))
	default:
		return "Portfolio is within the target band; withdrawal unchanged."
	}
}
