package main

import (
	"math"
	"testing"
)

// Safe Withdrawal Rate Band Tests
//
// The mid rate starts at 3.5% and moves with the planning horizon:
// +0.5%p for horizons of 20 years or less, unchanged for 21-30 years,
// -0.5%p (floored at 2.5%) beyond 30. Low and high sit 0.5%p either
// side, with low floored at 2.5% and high capped at 4%.

const rateTolerance = 1e-9

func TestRateBand_HorizonBands(t *testing.T) {
	rules := &SWRRules{}
	tests := []struct {
		horizon                    int
		expectedLow, expectedMid, expectedHigh float64
	}{
		{10, 0.035, 0.040, 0.040},
		{15, 0.035, 0.040, 0.040},
		{20, 0.035, 0.040, 0.040}, // Boundary: still the short-horizon band
		{21, 0.030, 0.035, 0.040},
		{25, 0.030, 0.035, 0.040},
		{30, 0.030, 0.035, 0.040}, // Boundary: still the base band
		{31, 0.025, 0.030, 0.035},
		{40, 0.025, 0.030, 0.035},
		{50, 0.025, 0.030, 0.035},
	}

	for _, tc := range tests {
		band := RateBand(tc.horizon, rules)
		if math.Abs(band.Low-tc.expectedLow) > rateTolerance {
			t.Errorf("horizon %d: low expected %.3f, got %.3f", tc.horizon, tc.expectedLow, band.Low)
		}
		if math.Abs(band.Mid-tc.expectedMid) > rateTolerance {
			t.Errorf("horizon %d: mid expected %.3f, got %.3f", tc.horizon, tc.expectedMid, band.Mid)
		}
		if math.Abs(band.High-tc.expectedHigh) > rateTolerance {
			t.Errorf("horizon %d: high expected %.3f, got %.3f", tc.horizon, tc.expectedHigh, band.High)
		}
	}
}

func TestRateBand_Ordering(t *testing.T) {
	rules := &SWRRules{}
	for horizon := 1; horizon <= 60; horizon++ {
		band := RateBand(horizon, rules)
		if !(band.Low <= band.Mid && band.Mid <= band.High) {
			t.Errorf("horizon %d: band not ordered: low %.4f mid %.4f high %.4f",
				horizon, band.Low, band.Mid, band.High)
		}
	}
}

func TestRateBand_MidNeverIncreasesWithHorizon(t *testing.T) {
	rules := &SWRRules{}
	previous := math.Inf(1)
	for horizon := 1; horizon <= 60; horizon++ {
		mid := RateBand(horizon, rules).Mid
		if mid > previous+rateTolerance {
			t.Errorf("mid rate rose from %.4f to %.4f at horizon %d", previous, mid, horizon)
		}
		previous = mid
	}
}

func TestRateBand_CustomFloor(t *testing.T) {
	// A 3% floor lifts the long-horizon mid and low
	rules := &SWRRules{FloorRate: 0.03}
	band := RateBand(40, rules)
	if math.Abs(band.Mid-0.03) > rateTolerance {
		t.Errorf("expected floored mid 0.030, got %.4f", band.Mid)
	}
	if math.Abs(band.Low-0.03) > rateTolerance {
		t.Errorf("expected floored low 0.030, got %.4f", band.Low)
	}
}

func TestCalculateWithdrawalBaseline(t *testing.T) {
	rules := &SWRRules{}
	baseline := CalculateWithdrawalBaseline(1_000_000_000, 25, rules)

	if baseline.HorizonYears != 25 {
		t.Errorf("expected horizon 25, got %d", baseline.HorizonYears)
	}
	assertTaxEquals(t, 30_000_000, baseline.Conservative.Annual, "conservative annual at 3.0%")
	assertTaxEquals(t, 35_000_000, baseline.Moderate.Annual, "moderate annual at 3.5%")
	assertTaxEquals(t, 40_000_000, baseline.Aggressive.Annual, "aggressive annual at 4.0%")
	assertTaxEquals(t, 35_000_000.0/12, baseline.Moderate.Monthly, "moderate monthly")

	recommended := baseline.Recommended()
	if recommended.Rate != baseline.Moderate.Rate {
		t.Errorf("recommended scenario should be moderate, got rate %.4f", recommended.Rate)
	}
}

func TestCalculateWithdrawalBaseline_ZeroPortfolio(t *testing.T) {
	baseline := CalculateWithdrawalBaseline(0, 30, &SWRRules{})
	if baseline.Moderate.Annual != 0 || baseline.Aggressive.Monthly != 0 {
		t.Error("zero portfolio should produce zero withdrawals")
	}
}
