package main

import (
	"math"
	"strings"
	"testing"
)

// Whole-plan orchestration tests against the default configuration:
// a 65-year-old with 590M across the five accounts, 36M/yr spending,
// a 14.4M national pension already flowing, and a 3-year bridge that
// ran from retirement at 62 to the pension start at 65.

func defaultPlan(t *testing.T) (*Config, *PlanResult) {
	t.Helper()
	config, err := LoadDefaultConfig()
	if err != nil {
		t.Fatalf("default config must load: %v", err)
	}
	result, err := EvaluatePlan(config)
	if err != nil {
		t.Fatalf("default plan must evaluate: %v", err)
	}
	return config, result
}

func TestEvaluatePlan_DefaultConfig(t *testing.T) {
	_, result := defaultPlan(t)

	// 590M at the 3.5% mid rate for a 30-year horizon
	assertTaxEquals(t, 20_650_000, result.Baseline.Moderate.Annual, "moderate baseline")

	// Current value defaults to the investable total, so the guardrail holds
	if result.Guardrail.Action != Maintain {
		t.Errorf("expected Maintain at target, got %s", result.Guardrail.Action)
	}
	assertTaxEquals(t, 20_650_000, result.Guardrail.NewWithdrawal, "adjusted withdrawal")

	// The pension is already flowing at 65
	assertTaxEquals(t, 14_400_000, result.GuaranteedNow, "guaranteed income")
	assertTaxEquals(t, 6_250_000, result.ResidualNeed, "residual need")

	// A residual this small comes entirely from the general taxable account
	if len(result.Withdrawal.Lines) != 1 {
		t.Fatalf("expected one withdrawal line, got %d", len(result.Withdrawal.Lines))
	}
	if result.Withdrawal.Lines[0].Kind != LineGeneralTaxable {
		t.Errorf("expected the general taxable account, got %s", result.Withdrawal.Lines[0].Kind)
	}
	if result.Withdrawal.TotalTax != 0 {
		t.Errorf("this withdrawal carries no tax, got %.0f", result.Withdrawal.TotalTax)
	}
	if !result.Withdrawal.FullyFunded {
		t.Error("the default plan is fully funded")
	}

	if result.Regime != NeutralMarket {
		t.Errorf("expected the neutral regime, got %s", result.Regime)
	}
}

func TestEvaluatePlan_BridgeFromDefaultProfile(t *testing.T) {
	_, result := defaultPlan(t)

	// Retired at 62, pension at 65: a 3-year bridge over the full 36M
	if result.Bridge.BridgeYears != 3 {
		t.Fatalf("expected a 3-year bridge, got %d", result.Bridge.BridgeYears)
	}
	assertTaxEquals(t, 36_000_000, result.Bridge.AnnualGap, "bridge gap is the full expense")
	assertTaxEquals(t, 108_000_000, result.Bridge.TotalCapital, "nominal bridge capital")
	if result.Bridge.PostBridgeSufficient {
		t.Error("14.4M of pension against 36M of spending is not sufficient")
	}
	assertTaxEquals(t, 21_600_000, result.Bridge.PostBridgeAnnualGap, "post-bridge gap")
}

func TestEvaluatePlan_AssetStructure(t *testing.T) {
	_, result := defaultPlan(t)

	a := result.Assets
	assertTaxEquals(t, 150_000_000, a.LiquidAssets, "liquid")
	assertTaxEquals(t, 80_000_000, a.InvestmentAssets, "investment")
	assertTaxEquals(t, 360_000_000, a.PensionAssets, "pension")
	assertTaxEquals(t, 590_000_000, a.TotalAssets, "total")

	// 14.4M of guaranteed income covers 60% of the 24M essential floor
	if math.Abs(a.SufficiencyRatio-0.6) > 1e-9 {
		t.Errorf("sufficiency ratio %.3f, want 0.600", a.SufficiencyRatio)
	}
	assertTaxEquals(t, 9_600_000, a.AnnualGap, "essential gap")
}

func TestEvaluatePlan_PortfolioOverrides(t *testing.T) {
	config, err := LoadDefaultConfig()
	if err != nil {
		t.Fatalf("default config must load: %v", err)
	}
	config.Portfolio.TargetValue = 500_000_000
	config.Portfolio.CurrentValue = 400_000_000 // -20%: at the lower guardrail
	config.Portfolio.CurrentWithdrawal = 20_000_000

	result, err := EvaluatePlan(config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Guardrail.Action != Decrease {
		t.Errorf("expected Decrease at -20%%, got %s", result.Guardrail.Action)
	}
	assertTaxEquals(t, 18_000_000, result.Guardrail.NewWithdrawal, "10% cut")
}

func TestEvaluatePlan_BearRegime(t *testing.T) {
	config, err := LoadDefaultConfig()
	if err != nil {
		t.Fatalf("default config must load: %v", err)
	}
	config.Retiree.MarketRegime = "bear"

	result, err := EvaluatePlan(config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Regime != BearMarket {
		t.Errorf("expected the bear regime, got %s", result.Regime)
	}
	if !strings.Contains(result.Policy.Rebalancing, "Paused") {
		t.Errorf("bear policy pauses rebalancing, got %q", result.Policy.Rebalancing)
	}
}

func TestEvaluatePlan_RejectsInvalidConfig(t *testing.T) {
	config, err := LoadDefaultConfig()
	if err != nil {
		t.Fatalf("default config must load: %v", err)
	}
	config.Retiree.PlanningHorizonYears = -5
	if _, err := EvaluatePlan(config); err == nil {
		t.Error("expected a validation error")
	}
}

func TestBuildExecutionPlan(t *testing.T) {
	plan := BuildExecutionPlan(24_000_000)

	if len(plan.MonthlySchedule) != 12 {
		t.Fatalf("expected 12 monthly entries, got %d", len(plan.MonthlySchedule))
	}
	for i, m := range plan.MonthlySchedule {
		if m.Month != i+1 {
			t.Errorf("entry %d has month %d", i, m.Month)
		}
		assertTaxEquals(t, 2_000_000, m.Amount, "equal monthly transfer")
		if m.Source == "" {
			t.Error("every transfer names its source bucket")
		}
	}
	if len(plan.Quarters) != 4 {
		t.Errorf("expected 4 quarterly checklists, got %d", len(plan.Quarters))
	}
	for _, q := range plan.Quarters {
		if len(q.Tasks) == 0 {
			t.Errorf("%s has no tasks", q.Quarter)
		}
	}
}

// =============================================================================
// Output Formatting
// =============================================================================

func TestFormatKRW(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "₩0"},
		{5_000, "₩5,000"},
		{360_000, "₩36만"},
		{36_000_000, "₩3,600만"},
		{150_000_000, "₩1.5억"},
		{1_234_000_000, "₩12.3억"},
	}
	for _, tc := range tests {
		if got := FormatKRW(tc.amount); got != tc.expected {
			t.Errorf("%.0f: expected %q, got %q", tc.amount, tc.expected, got)
		}
	}
}

func TestFormatKRWFull(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{0, "₩0"},
		{1_000, "₩1,000"},
		{36_000_000, "₩36,000,000"},
		{1_234_567_890, "₩1,234,567,890"},
	}
	for _, tc := range tests {
		if got := FormatKRWFull(tc.amount); got != tc.expected {
			t.Errorf("%.0f: expected %q, got %q", tc.amount, tc.expected, got)
		}
	}
}

func TestFormatKRWPDF_Latin1Safe(t *testing.T) {
	got := FormatKRWPDF(36_000_000)
	if got != "KRW 36,000,000" {
		t.Errorf("expected %q, got %q", "KRW 36,000,000", got)
	}
	for _, r := range got {
		if r > 255 {
			t.Errorf("non-Latin-1 rune %q in PDF output", r)
		}
	}
}
