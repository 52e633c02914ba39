package main

import (
	"fmt"
	"math"
)

// Tax-efficient withdrawal sequencing across the five Korean account
// kinds. The walk order is fixed, cheapest effective tax first:
//
//  1. General taxable  - interest/dividends already withheld, nothing due
//  2. ISA              - 9.9% on the gain share above the allowance
//  3. Pension (non-taxable)  - non-deductible principal, 0%
//  4. Pension (deferred retirement income) - 70% of the retirement-income rate
//  5. Pension (taxable) - separated withholding up to the annual cap,
//     excess at the cheaper of incremental comprehensive tax or the flat
//     separated alternative
//
// Each step withdraws min(remaining need, balance); the walk stops as soon
// as the need is met. Reordering the walk is a correctness violation: a
// later account is never cheaper than an earlier one for the same amount.

// SequenceWithdrawal allocates a residual funding need (total need minus
// guaranteed income) across the account balances and returns the ordered
// plan with its tax bill. otherIncome is the retiree's other comprehensive
// income, which determines where excess pension income stacks into the
// progressive brackets.
func SequenceWithdrawal(residualNeed float64, balances AccountBalances, otherIncome float64, rules *TaxRules) (*WithdrawalPlan, error) {
	if residualNeed < 0 {
		return nil, fmt.Errorf("residual need must not be negative: %.0f", residualNeed)
	}
	if otherIncome < 0 {
		return nil, fmt.Errorf("other comprehensive income must not be negative: %.0f", otherIncome)
	}
	if err := balances.Validate(); err != nil {
		return nil, err
	}

	plan := &WithdrawalPlan{Need: residualNeed, FullyFunded: true}
	if residualNeed == 0 {
		return plan, nil
	}

	remaining := residualNeed
	order := 0
	appendLine := func(kind LineKind, amount, tax float64, rationale string) {
		order++
		rate := 0.0
		if amount > 0 {
			rate = tax / amount
		}
		plan.Lines = append(plan.Lines, WithdrawalPlanLine{
			Order:     order,
			Kind:      kind,
			Amount:    amount,
			TaxAmount: tax,
			TaxRate:   rate,
			Rationale: rationale,
		})
		plan.TotalWithdrawal += amount
		plan.TotalTax += tax
		remaining -= amount
	}

	// 1. General taxable
	if amount := math.Min(remaining, balances.GeneralTaxable); amount > 0 {
		appendLine(LineGeneralTaxable, amount, 0,
			fmt.Sprintf("Principal is tax-free; interest and dividends were withheld at %.1f%% at source.",
				rules.GetInterestDividendRate()*100))
	}

	// 2. ISA
	if amount := math.Min(remaining, balances.ISA); amount > 0 {
		tax := isaWithdrawalTax(amount, balances.ISA, balances.ISAGain, rules)
		appendLine(LineISA, amount, tax,
			fmt.Sprintf("Gains above the %s allowance are taxed at a flat %.1f%%, apportioned pro-rata.",
				FormatKRW(rules.GetISAAllowance()), rules.GetISARate()*100))
	}

	// 3. Pension, non-taxable principal
	if amount := math.Min(remaining, balances.PensionNontaxable); amount > 0 {
		appendLine(LinePensionNontaxable, amount, 0,
			"Non-deductible contributions and ISA-transferred principal withdraw tax-free and do not count toward the separated-tax cap.")
	}

	// 4. Pension, deferred retirement income
	if amount := math.Min(remaining, balances.PensionDeferredRetirementIncome); amount > 0 {
		rate := rules.GetRetirementIncomeRate() * rules.GetRetirementPensionFactor()
		appendLine(LinePensionDeferredRetirementIncome, amount, amount*rate,
			fmt.Sprintf("Retirement income drawn as a pension pays %.0f%% of the %.1f%% retirement-income rate.",
				rules.GetRetirementPensionFactor()*100, rules.GetRetirementIncomeRate()*100))
	}

	// 5. Pension, taxable
	if amount := math.Min(remaining, balances.PensionTaxable); amount > 0 {
		tax, advice := pensionTaxableTax(amount, otherIncome, rules)
		rationale := "Separated withholding applies up to the annual cap."
		if advice != nil {
			plan.CapExceeded = advice
			chosen := "incremental comprehensive taxation"
			if advice.ChoseFlat {
				chosen = fmt.Sprintf("the %.1f%% flat separated alternative", rules.GetFlatSeparatedRate()*100)
			}
			rationale = fmt.Sprintf("Withdrawal exceeds the %s separated-tax cap; the excess %s uses %s.",
				FormatKRW(rules.GetSeparatedCap()), FormatKRW(advice.ExcessAmount), chosen)
		}
		appendLine(LinePensionTaxable, amount, tax, rationale)
	}

	// Accounts exhausted before the need was met: report the shortfall
	// rather than dropping it.
	if remaining > 0 {
		plan.Shortfall = remaining
		plan.FullyFunded = false
		order++
		plan.Lines = append(plan.Lines, WithdrawalPlanLine{
			Order:     order,
			Kind:      LineUnfulfilled,
			Amount:    remaining,
			Rationale: "All accounts exhausted; cover from real-estate conversion, a housing pension, or by reducing spending.",
		})
	}

	plan.AfterTax = plan.TotalWithdrawal - plan.TotalTax
	return plan, nil
}

// isaWithdrawalTax taxes the gain share of an ISA withdrawal. The
// cumulative gain above the tax-free allowance is apportioned pro-rata by
// the withdrawn fraction of the balance.
func isaWithdrawalTax(amount, balance, cumulativeGain float64, rules *TaxRules) float64 {
	if balance <= 0 || amount <= 0 {
		return 0
	}
	taxableGain := cumulativeGain - rules.GetISAAllowance()
	if taxableGain <= 0 {
		return 0
	}
	return taxableGain * (amount / balance) * rules.GetISARate()
}

// pensionTaxableTax taxes a taxable-pension withdrawal. The capped portion
// pays the separated withholding rate. For any excess both alternatives are
// computed - incremental comprehensive tax (full bracket integration, tax
// on other income plus excess minus tax on other income alone) and the
// flat separated alternative - and the cheaper applies. Both figures are
// returned so the caller can present the comparison.
func pensionTaxableTax(amount, otherIncome float64, rules *TaxRules) (float64, *CapExceededAdvice) {
	sepCap := rules.GetSeparatedCap()
	capped := math.Min(amount, sepCap)
	separatedTax := SeparatedWithholdingTax(capped, rules.GetPensionSeparatedBrackets())

	excess := amount - capped
	if excess <= 0 {
		return separatedTax, nil
	}

	comprehensiveTax := CalculateIncrementalTax(excess, otherIncome, rules.GetComprehensiveBrackets())
	flatTax := excess * rules.GetFlatSeparatedRate()

	advice := &CapExceededAdvice{
		CappedAmount:     capped,
		ExcessAmount:     excess,
		ComprehensiveTax: comprehensiveTax,
		FlatTax:          flatTax,
		ChoseFlat:        flatTax < comprehensiveTax,
	}
	return separatedTax + advice.Recommended(), advice
}
