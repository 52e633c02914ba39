package main

import (
	"math"
	"strings"
	"testing"
)

// Guyton-Klinger Guardrail Tests
//
// variance = (current - target) / target. At or beyond +20% the
// withdrawal rises by 10%; at or beyond -20% it falls by 10%; in the
// band between, it holds. Both threshold comparisons are inclusive.

func TestEvaluateGuardrail_Actions(t *testing.T) {
	rules := &GuardrailRules{}
	tests := []struct {
		name           string
		current        float64
		expectedAction GuardrailAction
		expectedNew    float64
	}{
		{"exactly at upper threshold", 120_000_000, Increase, 11_000_000},
		{"well above target", 150_000_000, Increase, 11_000_000},
		{"just inside upper band", 119_000_000, Maintain, 10_000_000},
		{"at target", 100_000_000, Maintain, 10_000_000},
		{"mild drawdown", 90_000_000, Maintain, 10_000_000},
		{"just inside lower band", 81_000_000, Maintain, 10_000_000},
		{"exactly at lower threshold", 80_000_000, Decrease, 9_000_000},
		{"deep drawdown", 50_000_000, Decrease, 9_000_000},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			snapshot := PortfolioSnapshot{
				TargetValue:       100_000_000,
				CurrentValue:      tc.current,
				CurrentWithdrawal: 10_000_000,
			}
			result, err := EvaluateGuardrail(snapshot, 0, rules)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Action != tc.expectedAction {
				t.Errorf("expected %s, got %s (variance %.3f)", tc.expectedAction, result.Action, result.Variance)
			}
			assertTaxEquals(t, tc.expectedNew, result.NewWithdrawal, "adjusted withdrawal")
		})
	}
}

func TestEvaluateGuardrail_VarianceComputation(t *testing.T) {
	snapshot := PortfolioSnapshot{TargetValue: 100_000_000, CurrentValue: 88_000_000, CurrentWithdrawal: 5_000_000}
	result, err := EvaluateGuardrail(snapshot, 0, &GuardrailRules{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(result.Variance-(-0.12)) > 1e-9 {
		t.Errorf("expected variance -0.12, got %.4f", result.Variance)
	}
}

func TestEvaluateGuardrail_FloorWarningNotError(t *testing.T) {
	// A decrease below essential expenses still applies; it only warns
	snapshot := PortfolioSnapshot{
		TargetValue:       100_000_000,
		CurrentValue:      70_000_000,
		CurrentWithdrawal: 25_000_000,
	}
	result, err := EvaluateGuardrail(snapshot, 24_000_000, &GuardrailRules{})
	if err != nil {
		t.Fatalf("floor breach must not be an error: %v", err)
	}
	if result.Action != Decrease {
		t.Fatalf("expected Decrease, got %s", result.Action)
	}
	assertTaxEquals(t, 22_500_000, result.NewWithdrawal, "cut withdrawal")
	if !result.FloorBreached {
		t.Error("expected FloorBreached")
	}
	if result.FloorWarning == "" || !strings.Contains(result.FloorWarning, "essential") {
		t.Errorf("expected an essential-expense warning, got %q", result.FloorWarning)
	}
}

func TestEvaluateGuardrail_NoFloorWarningAboveFloor(t *testing.T) {
	snapshot := PortfolioSnapshot{TargetValue: 100_000_000, CurrentValue: 100_000_000, CurrentWithdrawal: 30_000_000}
	result, err := EvaluateGuardrail(snapshot, 24_000_000, &GuardrailRules{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FloorBreached || result.FloorWarning != "" {
		t.Error("no warning expected when the withdrawal stays above the floor")
	}
}

func TestEvaluateGuardrail_RejectsNegativeInputs(t *testing.T) {
	rules := &GuardrailRules{}
	bad := []PortfolioSnapshot{
		{TargetValue: -1, CurrentValue: 100, CurrentWithdrawal: 10},
		{TargetValue: 100, CurrentValue: -1, CurrentWithdrawal: 10},
		{TargetValue: 100, CurrentValue: 100, CurrentWithdrawal: -10},
	}
	for _, snapshot := range bad {
		if _, err := EvaluateGuardrail(snapshot, 0, rules); err == nil {
			t.Errorf("expected an error for %+v", snapshot)
		}
	}
}

func TestEvaluateGuardrail_ZeroTarget(t *testing.T) {
	// A zero target with assets counts as far above target
	snapshot := PortfolioSnapshot{TargetValue: 0, CurrentValue: 1_000_000, CurrentWithdrawal: 100_000}
	result, err := EvaluateGuardrail(snapshot, 0, &GuardrailRules{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Action != Increase {
		t.Errorf("expected Increase, got %s", result.Action)
	}

	// Zero target and zero assets hold steady
	snapshot = PortfolioSnapshot{TargetValue: 0, CurrentValue: 0, CurrentWithdrawal: 100_000}
	result, err = EvaluateGuardrail(snapshot, 0, &GuardrailRules{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Action != Maintain {
		t.Errorf("expected Maintain, got %s", result.Action)
	}
}

func TestEvaluateGuardrail_CustomThresholds(t *testing.T) {
	// Positive lower_threshold config is taken as a magnitude
	rules := &GuardrailRules{UpperThreshold: 0.10, LowerThreshold: 0.10, IncreaseRate: 0.05, DecreaseRate: 0.05}
	snapshot := PortfolioSnapshot{TargetValue: 100_000_000, CurrentValue: 89_000_000, CurrentWithdrawal: 10_000_000}
	result, err := EvaluateGuardrail(snapshot, 0, rules)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Action != Decrease {
		t.Fatalf("expected Decrease at -11%% with a 10%% threshold, got %s", result.Action)
	}
	assertTaxEquals(t, 9_500_000, result.NewWithdrawal, "5% cut")
}
