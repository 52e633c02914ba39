package main

import "math"

// Bracket tables are (upper bound, rate) pairs with the final upper bound
// at +Inf. Two lookups exist on purpose: the progressive integral for
// comprehensive taxation, and the single-bracket rate for separated
// withholding, which Korean pension withholding applies to the whole
// amount rather than slice by slice.

// MarginalRateFromBrackets returns the rate of the first bracket whose
// upper bound covers the amount, falling back to the last bracket
func MarginalRateFromBrackets(amount float64, brackets []TaxBracket) float64 {
	if len(brackets) == 0 {
		return 0
	}
	for _, b := range brackets {
		if amount <= b.Upper {
			return b.Rate
		}
	}
	return brackets[len(brackets)-1].Rate
}

// CalculateTaxOnIncome integrates tax across every bracket the income
// crosses. This is the exact progressive computation, not the
// final-bracket shortcut.
func CalculateTaxOnIncome(income float64, brackets []TaxBracket) float64 {
	if income <= 0 {
		return 0
	}

	var totalTax float64
	lower := 0.0

	for _, b := range brackets {
		if income <= lower {
			break
		}
		taxableInBracket := math.Min(income, b.Upper) - lower
		if taxableInBracket > 0 {
			totalTax += taxableInBracket * b.Rate
		}
		lower = b.Upper
	}

	return totalTax
}

// CalculateIncrementalTax calculates the additional comprehensive tax from
// stacking an amount on top of existing taxable income
func CalculateIncrementalTax(amount, existingIncome float64, brackets []TaxBracket) float64 {
	if amount <= 0 {
		return 0
	}
	if existingIncome < 0 {
		existingIncome = 0
	}
	taxWith := CalculateTaxOnIncome(existingIncome+amount, brackets)
	taxWithout := CalculateTaxOnIncome(existingIncome, brackets)
	return taxWith - taxWithout
}

// SeparatedWithholdingTax applies the separated withholding rate for the
// amount's bracket to the whole amount
func SeparatedWithholdingTax(amount float64, brackets []TaxBracket) float64 {
	if amount <= 0 {
		return 0
	}
	return amount * MarginalRateFromBrackets(amount, brackets)
}
