package main

import (
	"fmt"
	"math"
)

// Bridge-period financing: the years between retirement and the start of a
// delayed guaranteed income stream (typically the national pension) must be
// funded entirely from the portfolio.

// BridgeGap computes the present value of the funding gap over the bridge
// years. The annual gap may be negative (guaranteed income already exceeds
// expenses), which discounts to a negative present value, i.e. a surplus.
// bridgeYears <= 0 means the income stream is already active at
// retirement: no bridge, zero present value.
func BridgeGap(annualExpense, guaranteedIncome float64, bridgeYears int, discountRate float64) float64 {
	if bridgeYears <= 0 {
		return 0
	}

	annualGap := annualExpense - guaranteedIncome

	pv := 0.0
	for year := 1; year <= bridgeYears; year++ {
		pv += annualGap / math.Pow(1+discountRate, float64(year))
	}
	return pv
}

// InflationAdjustBridgeCapital compounds the total bridge capital to the
// bridge midpoint: total * (1+inflation)^(years/2). This is the agreed
// approximation for the whole-period figure, not an exact per-year
// amortization.
func InflationAdjustBridgeCapital(totalCapital, inflationRate float64, bridgeYears int) float64 {
	if bridgeYears <= 0 {
		return totalCapital
	}
	return totalCapital * math.Pow(1+inflationRate, float64(bridgeYears)/2)
}

// AnalyzeBridgePeriod builds the full financing picture for the span
// between retirement and the start of the guaranteed income stream. The
// bridge capital gets its own bucket split, clamped to the bridge length
// so a short bridge holds no growth assets.
func AnalyzeBridgePeriod(retirementAge int, income GuaranteedIncomeStream, annualExpense float64,
	bridgeRules *BridgeRules, bucketRules *BucketRules) (BridgeAnalysis, error) {

	if annualExpense < 0 {
		return BridgeAnalysis{}, fmt.Errorf("annual expense must not be negative: %.0f", annualExpense)
	}

	bridgeYears := income.StartAge - retirementAge
	postBridgeGap := annualExpense - income.AnnualAmount

	analysis := BridgeAnalysis{
		BridgeYears:          bridgeYears,
		PostBridgeAnnualGap:  math.Max(0, postBridgeGap),
		PostBridgeSufficient: postBridgeGap <= 0,
	}
	if bridgeYears <= 0 {
		analysis.BridgeYears = 0
		return analysis, nil
	}

	// During the bridge the full expense comes out of the portfolio
	analysis.AnnualGap = annualExpense
	analysis.PresentValue = BridgeGap(annualExpense, 0, bridgeYears, bridgeRules.GetDiscountRate())
	analysis.TotalCapital = annualExpense * float64(bridgeYears)
	analysis.InflationAdjusted = InflationAdjustBridgeCapital(
		analysis.TotalCapital, bridgeRules.GetInflationRate(), bridgeYears)

	cashYears := math.Min(bucketRules.GetCashYears(), float64(bridgeYears))
	incomeYears := math.Max(0, math.Min(bucketRules.GetIncomeYears(), float64(bridgeYears)-cashYears))
	growthYears := math.Max(0, float64(bridgeYears)-cashYears-incomeYears)
	analysis.Buckets = BucketPlan{
		Cash:   BucketTier{Amount: annualExpense * cashYears, Years: cashYears},
		Income: BucketTier{Amount: annualExpense * incomeYears, Years: incomeYears},
		Growth: BucketTier{Amount: annualExpense * growthYears, Years: growthYears},
	}

	return analysis, nil
}

// ClaimFactor returns the national pension multiplier for claiming at a
// given age: reduced for early claims (60-64), increased for delayed
// claims (66-70), clamped to the claimable range.
func ClaimFactor(claimAge int, rules *NationalPensionRules) float64 {
	normal := rules.GetNormalClaimAge()
	earliest := rules.GetEarliestClaimAge()
	latest := rules.GetLatestClaimAge()

	if claimAge < earliest {
		claimAge = earliest
	}
	if claimAge > latest {
		claimAge = latest
	}

	switch {
	case claimAge < normal:
		return 1 - rules.GetEarlyReduction()*float64(normal-claimAge)
	case claimAge > normal:
		return 1 + rules.GetDelayedIncrease()*float64(claimAge-normal)
	default:
		return 1
	}
}

// AdjustedPension scales a normal-age pension amount by the claim factor
// for the chosen claim age
func AdjustedPension(normalAgeAnnual float64, claimAge int, rules *NationalPensionRules) float64 {
	return normalAgeAnnual * ClaimFactor(claimAge, rules)
}
