package main

import "math"

// RateBand returns the safe-withdrawal-rate band for a planning horizon.
//
// The mid rate starts from the moderate base and shifts by the horizon
// delta: short horizons (<= 20 years) can withdraw more, long horizons
// (> 30 years) less, floored at the minimum rate. Low and high sit one
// band spread either side of mid, with low floored and high capped.
//
// horizonYears must be positive; the caller validates that precondition.
func RateBand(horizonYears int, rules *SWRRules) SWRBand {
	base := rules.GetBaseModerateRate()
	delta := rules.GetHorizonDelta()
	floor := rules.GetFloorRate()

	var mid float64
	switch {
	case horizonYears <= 20:
		mid = math.Min(rules.GetMidCeiling(), base+delta)
	case horizonYears <= 30:
		mid = base
	default:
		mid = math.Max(floor, base-delta)
	}

	spread := rules.GetBandSpread()
	return SWRBand{
		Low:  math.Max(floor, mid-spread),
		Mid:  mid,
		High: math.Min(rules.GetBandHighCeiling(), mid+spread),
	}
}

// WithdrawalScenario is one withdrawal sizing at a given rate
type WithdrawalScenario struct {
	Rate    float64
	Annual  float64
	Monthly float64
}

// WithdrawalBaseline sizes the annual withdrawal for each band rate and
// recommends the moderate one
type WithdrawalBaseline struct {
	HorizonYears int
	Band         SWRBand
	Conservative WithdrawalScenario
	Moderate     WithdrawalScenario
	Aggressive   WithdrawalScenario
}

// Recommended returns the moderate scenario, the default recommendation
func (w WithdrawalBaseline) Recommended() WithdrawalScenario {
	return w.Moderate
}

// CalculateWithdrawalBaseline turns the SWR band into concrete annual and
// monthly withdrawal amounts for a portfolio
func CalculateWithdrawalBaseline(portfolioValue float64, horizonYears int, rules *SWRRules) WithdrawalBaseline {
	band := RateBand(horizonYears, rules)
	scenario := func(rate float64) WithdrawalScenario {
		annual := portfolioValue * rate
		return WithdrawalScenario{Rate: rate, Annual: annual, Monthly: annual / 12}
	}
	return WithdrawalBaseline{
		HorizonYears: horizonYears,
		Band:         band,
		Conservative: scenario(band.Low),
		Moderate:     scenario(band.Mid),
		Aggressive:   scenario(band.High),
	}
}
