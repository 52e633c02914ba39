package main

import (
	"fmt"
	"math"
)

// Three-bucket liquidity allocation: two years of spending in cash, eight
// in income assets, the rest of the horizon in growth assets, plus an
// age-weighted healthcare reserve. Market regimes select a usage policy
// from a fixed table; they never change the computed amounts.

// HealthcareFactor returns the age weight for the medical reserve. Ages
// below the lowest band use the lowest band's factor so the weighting
// stays monotonic in age.
func HealthcareFactor(age int, rules *BucketRules) float64 {
	factors := rules.GetHealthcareAgeFactors()
	if len(factors) == 0 {
		return 1.0
	}
	if age < factors[0].FromAge {
		return factors[0].Factor
	}
	for _, f := range factors {
		if age >= f.FromAge && (f.ToAge <= 0 || age < f.ToAge) {
			return f.Factor
		}
	}
	return factors[len(factors)-1].Factor
}

// PlanBuckets partitions an annual withdrawal need across the liquidity
// tiers for a planning horizon.
//
// cash and income cover their configured year counts in full; growth
// absorbs whatever horizon remains, floored at zero. The healthcare
// reserve scales the need by the base ratio, the capped horizon and the
// retiree's age factor.
func PlanBuckets(annualWithdrawalNeed float64, age, horizonYears int, rules *BucketRules) (BucketPlan, error) {
	if annualWithdrawalNeed < 0 {
		return BucketPlan{}, fmt.Errorf("annual withdrawal need must not be negative: %.0f", annualWithdrawalNeed)
	}
	if horizonYears <= 0 {
		return BucketPlan{}, fmt.Errorf("horizon years must be positive, got %d", horizonYears)
	}

	cashYears := rules.GetCashYears()
	incomeYears := rules.GetIncomeYears()
	growthYears := math.Max(0, float64(horizonYears)-cashYears-incomeYears)

	healthcare := annualWithdrawalNeed * rules.GetHealthcareBaseRatio() *
		math.Min(rules.GetHealthcareHorizonCap(), float64(horizonYears)) *
		HealthcareFactor(age, rules)

	return BucketPlan{
		Cash:       BucketTier{Amount: annualWithdrawalNeed * cashYears, Years: cashYears},
		Income:     BucketTier{Amount: annualWithdrawalNeed * incomeYears, Years: incomeYears},
		Growth:     BucketTier{Amount: annualWithdrawalNeed * growthYears, Years: growthYears},
		Healthcare: BucketTier{Amount: healthcare},
	}, nil
}

// bucketPolicies maps each market regime to its usage directives. Regime
// only changes which bucket services withdrawals and whether rebalancing
// runs, never the allocation itself.
var bucketPolicies = map[MarketRegime]BucketPolicy{
	BearMarket: {
		Condition:    "Falling market",
		Action:       "Cover living costs from the cash and income buckets; defer growth sales.",
		CashUsage:    "Use first",
		IncomeUsage:  "Use once cash depletes",
		GrowthAction: "Defer sales, wait for recovery",
		Rebalancing:  "Paused until recovery",
	},
	BullMarket: {
		Condition:    "Rising market",
		Action:       "Realize some growth gains to refill the cash and income buckets.",
		CashUsage:    "Normal use",
		IncomeUsage:  "Standing by",
		GrowthAction: "Take profits, refill lower buckets",
		Rebalancing:  "Run now (restore target allocation)",
	},
	NeutralMarket: {
		Condition:    "Sideways market",
		Action:       "Normal bucket rotation.",
		CashUsage:    "Normal use",
		IncomeUsage:  "Standing by",
		GrowthAction: "Hold",
		Rebalancing:  "Once a year",
	},
}

// RegimePolicy returns the usage policy for a market regime
func RegimePolicy(regime MarketRegime) BucketPolicy {
	if p, ok := bucketPolicies[regime]; ok {
		return p
	}
	return bucketPolicies[NeutralMarket]
}

// CashDepletionMonths reports how many months the cash bucket covers at
// the given withdrawal pace
func CashDepletionMonths(plan BucketPlan, annualWithdrawal float64) float64 {
	if annualWithdrawal <= 0 {
		return 0
	}
	return plan.Cash.Amount / (annualWithdrawal / 12)
}
