package main

import (
	"math"
	"testing"
)

// Bucket Allocation Tests
//
// Cash covers 2 years of spending, income 8, growth the rest of the
// horizon. The healthcare reserve is need * 15% * min(30, horizon) *
// age factor. The market regime selects a policy, never an amount.

func TestPlanBuckets_StandardHorizon(t *testing.T) {
	plan, err := PlanBuckets(36_000_000, 65, 30, &BucketRules{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertTaxEquals(t, 72_000_000, plan.Cash.Amount, "cash: 2 years")
	assertTaxEquals(t, 288_000_000, plan.Income.Amount, "income: 8 years")
	assertTaxEquals(t, 720_000_000, plan.Growth.Amount, "growth: 20 years")
	if plan.Growth.Years != 20 {
		t.Errorf("expected 20 growth years, got %.0f", plan.Growth.Years)
	}

	// need * 15% * 30 * 1.0 (age 65 factor)
	assertTaxEquals(t, 162_000_000, plan.Healthcare.Amount, "healthcare reserve")
}

func TestPlanBuckets_Conservation(t *testing.T) {
	// For horizons of at least cash+income years the three tiers sum to
	// need * horizon exactly
	need := 24_000_000.0
	for _, horizon := range []int{10, 15, 25, 40} {
		plan, err := PlanBuckets(need, 70, horizon, &BucketRules{})
		if err != nil {
			t.Fatalf("horizon %d: %v", horizon, err)
		}
		want := need * float64(horizon)
		if math.Abs(plan.Invested()-want) > 1 {
			t.Errorf("horizon %d: tiers sum to %.0f, want %.0f", horizon, plan.Invested(), want)
		}
	}
}

func TestPlanBuckets_ShortHorizonZeroGrowth(t *testing.T) {
	// Cash and income keep their full year counts even when the horizon
	// is shorter; only growth floors at zero
	plan, err := PlanBuckets(36_000_000, 65, 8, &BucketRules{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTaxEquals(t, 72_000_000, plan.Cash.Amount, "cash stays at 2 years")
	assertTaxEquals(t, 288_000_000, plan.Income.Amount, "income stays at 8 years")
	if plan.Growth.Amount != 0 || plan.Growth.Years != 0 {
		t.Errorf("expected zero growth bucket, got %.0f over %.1f years", plan.Growth.Amount, plan.Growth.Years)
	}
}

func TestPlanBuckets_HealthcareHorizonCap(t *testing.T) {
	// A 40-year horizon counts as 30 for the reserve
	plan, err := PlanBuckets(36_000_000, 65, 40, &BucketRules{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTaxEquals(t, 162_000_000, plan.Healthcare.Amount, "capped healthcare horizon")
}

func TestPlanBuckets_RejectsInvalidInputs(t *testing.T) {
	if _, err := PlanBuckets(-1, 65, 30, &BucketRules{}); err == nil {
		t.Error("negative need must error")
	}
	if _, err := PlanBuckets(1_000_000, 65, 0, &BucketRules{}); err == nil {
		t.Error("zero horizon must error")
	}
}

func TestHealthcareFactor_AgeBands(t *testing.T) {
	rules := &BucketRules{}
	tests := []struct {
		age      int
		expected float64
	}{
		{60, 1.0}, // Below the first band: lowest weight
		{65, 1.0},
		{69, 1.0},
		{70, 1.3},
		{75, 1.6},
		{80, 2.0},
		{85, 2.5},
		{95, 2.5}, // Open-ended top band
	}
	for _, tc := range tests {
		if got := HealthcareFactor(tc.age, rules); got != tc.expected {
			t.Errorf("age %d: expected factor %.1f, got %.1f", tc.age, tc.expected, got)
		}
	}
}

func TestHealthcareFactor_Monotonic(t *testing.T) {
	rules := &BucketRules{}
	previous := 0.0
	for age := 40; age <= 100; age++ {
		factor := HealthcareFactor(age, rules)
		if factor < previous {
			t.Errorf("factor fell from %.2f to %.2f at age %d", previous, factor, age)
		}
		previous = factor
	}
}

func TestRegimePolicy(t *testing.T) {
	bear := RegimePolicy(BearMarket)
	if bear.GrowthAction == "" || bear.Rebalancing == "" {
		t.Error("bear policy must be fully populated")
	}
	bull := RegimePolicy(BullMarket)
	neutral := RegimePolicy(NeutralMarket)
	if bear.Action == bull.Action || bull.Action == neutral.Action {
		t.Error("regimes must carry distinct directives")
	}

	// Unknown regimes fall back to neutral
	if RegimePolicy(MarketRegime(99)) != neutral {
		t.Error("unknown regime should use the neutral policy")
	}
}

func TestRegimeNeverChangesAmounts(t *testing.T) {
	// The allocation depends only on need, age and horizon; evaluating
	// under different regimes must not move a single won
	base, err := PlanBuckets(30_000_000, 68, 25, &BucketRules{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, regime := range []MarketRegime{BearMarket, BullMarket, NeutralMarket} {
		_ = RegimePolicy(regime)
		again, err := PlanBuckets(30_000_000, 68, 25, &BucketRules{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again != base {
			t.Errorf("allocation changed under regime %s", regime)
		}
	}
}

func TestCashDepletionMonths(t *testing.T) {
	plan, err := PlanBuckets(36_000_000, 65, 30, &BucketRules{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 72M of cash at 36M/yr lasts 24 months
	if months := CashDepletionMonths(plan, 36_000_000); math.Abs(months-24) > 1e-9 {
		t.Errorf("expected 24 months, got %.1f", months)
	}
	if CashDepletionMonths(plan, 0) != 0 {
		t.Error("zero withdrawal pace reports zero months")
	}
}
