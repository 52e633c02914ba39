package main

import "math"

// AnalyzeAssetStructure summarizes the retiree's position at the start of
// retirement: asset totals by category, the annual gap between essential
// expenses and guaranteed income, and how much of the essential spending
// the guaranteed income covers on its own.
func AnalyzeAssetStructure(accounts AccountsConfig, guaranteedAnnual, essentialAnnual float64) AssetStructure {
	liquid := accounts.GeneralTaxable
	investment := accounts.ISA
	pension := accounts.PensionNontaxable + accounts.PensionDeferredRetirement + accounts.PensionTaxable

	s := AssetStructure{
		LiquidAssets:     liquid,
		InvestmentAssets: investment,
		PensionAssets:    pension,
		RealEstateAssets: accounts.RealEstate,
		TotalAssets:      liquid + investment + pension + accounts.RealEstate,
		GuaranteedIncome: guaranteedAnnual,
		EssentialExpense: essentialAnnual,
		AnnualGap:        math.Max(0, essentialAnnual-guaranteedAnnual),
	}

	if essentialAnnual > 0 {
		s.SufficiencyRatio = guaranteedAnnual / essentialAnnual
	} else {
		s.SufficiencyRatio = 1
	}

	return s
}
