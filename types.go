package main

import "fmt"

// AccountKind identifies the account types a Korean retiree draws from.
// The order of the constants is the tax-efficient withdrawal priority:
// cheapest effective tax first.
type AccountKind int

const (
	GeneralTaxable                  AccountKind = iota // Brokerage/deposit account, interest and dividends already withheld
	ISA                                                // 개인종합자산관리계좌 - flat tax on gains above the allowance
	PensionNontaxable                                  // Non-deductible contributions and ISA-transferred principal
	PensionDeferredRetirementIncome                    // Retirement income (퇴직금) deferred into a pension account
	PensionTaxable                                     // Tax-deducted contributions and accumulated earnings
)

func (a AccountKind) String() string {
	switch a {
	case GeneralTaxable:
		return "General Taxable"
	case ISA:
		return "ISA"
	case PensionNontaxable:
		return "Pension (Non-taxable)"
	case PensionDeferredRetirementIncome:
		return "Pension (Deferred Retirement Income)"
	case PensionTaxable:
		return "Pension (Taxable)"
	default:
		return "Unknown"
	}
}

// LineKind is the closed set of withdrawal plan line variants.
// It extends AccountKind with the terminal Unfulfilled marker that carries
// a shortfall the accounts could not cover.
type LineKind int

const (
	LineGeneralTaxable LineKind = iota
	LineISA
	LinePensionNontaxable
	LinePensionDeferredRetirementIncome
	LinePensionTaxable
	LineUnfulfilled
)

func (l LineKind) String() string {
	switch l {
	case LineGeneralTaxable:
		return GeneralTaxable.String()
	case LineISA:
		return ISA.String()
	case LinePensionNontaxable:
		return PensionNontaxable.String()
	case LinePensionDeferredRetirementIncome:
		return PensionDeferredRetirementIncome.String()
	case LinePensionTaxable:
		return PensionTaxable.String()
	case LineUnfulfilled:
		return "Unfulfilled"
	default:
		return "Unknown"
	}
}

// GuardrailAction is the decision of a Guyton-Klinger guardrail evaluation
type GuardrailAction int

const (
	Maintain GuardrailAction = iota
	Increase
	Decrease
)

func (g GuardrailAction) String() string {
	switch g {
	case Increase:
		return "Increase"
	case Decrease:
		return "Decrease"
	case Maintain:
		return "Maintain"
	default:
		return "Unknown"
	}
}

// MarketRegime selects the bucket usage policy. Regimes never change the
// computed bucket amounts, only which bucket services withdrawals and
// whether rebalancing runs.
type MarketRegime int

const (
	NeutralMarket MarketRegime = iota
	BearMarket
	BullMarket
)

func (m MarketRegime) String() string {
	switch m {
	case BearMarket:
		return "Bear"
	case BullMarket:
		return "Bull"
	case NeutralMarket:
		return "Neutral"
	default:
		return "Unknown"
	}
}

// ParseMarketRegime converts a config string ("bear"/"bull"/"neutral")
func ParseMarketRegime(s string) (MarketRegime, error) {
	switch s {
	case "bear":
		return BearMarket, nil
	case "bull":
		return BullMarket, nil
	case "neutral", "":
		return NeutralMarket, nil
	default:
		return NeutralMarket, fmt.Errorf("unknown market regime %q (want bear, bull or neutral)", s)
	}
}

// SWRBand is the safe-withdrawal-rate band for a planning horizon
type SWRBand struct {
	Low  float64 // Conservative rate
	Mid  float64 // Moderate rate (recommended)
	High float64 // Aggressive rate
}

// PortfolioSnapshot is one guardrail evaluation's view of the portfolio.
// Constructed fresh per evaluation, never mutated.
type PortfolioSnapshot struct {
	TargetValue       float64 // Portfolio value the plan was sized against
	CurrentValue      float64 // Portfolio value now
	CurrentWithdrawal float64 // This year's withdrawal before adjustment
}

// GuardrailResult is the outcome of one guardrail evaluation
type GuardrailResult struct {
	Action        GuardrailAction
	Variance      float64 // (current - target) / target
	NewWithdrawal float64
	FloorBreached bool   // New withdrawal fell below the essential-expense floor
	FloorWarning  string // Human-readable warning when FloorBreached
}

// AccountBalances holds the retiree's balance per account kind.
// ISAGain is the cumulative gain portion of the ISA balance; the gain is
// apportioned pro-rata across ISA withdrawals when taxing them.
type AccountBalances struct {
	GeneralTaxable                  float64
	ISA                             float64
	ISAGain                         float64
	PensionNontaxable               float64
	PensionDeferredRetirementIncome float64
	PensionTaxable                  float64
}

// Total returns the sum of all withdrawable balances
func (b AccountBalances) Total() float64 {
	return b.GeneralTaxable + b.ISA + b.PensionNontaxable +
		b.PensionDeferredRetirementIncome + b.PensionTaxable
}

// Validate rejects negative balances and an ISA gain exceeding the ISA balance
func (b AccountBalances) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"general taxable", b.GeneralTaxable},
		{"ISA", b.ISA},
		{"ISA gain", b.ISAGain},
		{"pension non-taxable", b.PensionNontaxable},
		{"pension deferred retirement income", b.PensionDeferredRetirementIncome},
		{"pension taxable", b.PensionTaxable},
	}
	for _, c := range checks {
		if c.value < 0 {
			return fmt.Errorf("negative %s balance: %.0f", c.name, c.value)
		}
	}
	if b.ISAGain > b.ISA {
		return fmt.Errorf("ISA gain %.0f exceeds ISA balance %.0f", b.ISAGain, b.ISA)
	}
	return nil
}

// WithdrawalPlanLine is one step of a withdrawal plan
type WithdrawalPlanLine struct {
	Order     int // 1-based, strictly increasing
	Kind      LineKind
	Amount    float64
	TaxAmount float64
	TaxRate   float64 // Effective rate on this line (TaxAmount / Amount)
	Rationale string
}

// CapExceededAdvice reports both taxation alternatives for the portion of a
// taxable-pension withdrawal above the separated-tax cap, plus the choice
// the sequencer made. Both figures are always present so the caller can
// show the comparison rather than a bare number.
type CapExceededAdvice struct {
	CappedAmount     float64 // Portion taxed at the separated rate
	ExcessAmount     float64 // Portion above the cap
	ComprehensiveTax float64 // Incremental comprehensive tax on the excess
	FlatTax          float64 // Flat separated alternative on the excess
	ChoseFlat        bool    // True if the flat alternative was cheaper
}

// Recommended returns the tax figure the sequencer applied to the excess
func (c CapExceededAdvice) Recommended() float64 {
	if c.ChoseFlat {
		return c.FlatTax
	}
	return c.ComprehensiveTax
}

// WithdrawalPlan is an ordered per-account funding plan for one year
type WithdrawalPlan struct {
	Need            float64 // Residual need the plan was asked to fund
	Lines           []WithdrawalPlanLine
	TotalWithdrawal float64
	TotalTax        float64
	AfterTax        float64
	Shortfall       float64 // > 0 when accounts were exhausted before the need was met
	CapExceeded     *CapExceededAdvice
	FullyFunded     bool
}

// EffectiveTaxRate returns total tax as a fraction of total withdrawal
func (p *WithdrawalPlan) EffectiveTaxRate() float64 {
	if p.TotalWithdrawal <= 0 {
		return 0
	}
	return p.TotalTax / p.TotalWithdrawal
}

// BucketTier is one liquidity tier of a bucket plan
type BucketTier struct {
	Amount float64
	Years  float64
}

// BucketPlan partitions a withdrawal need into liquidity tiers plus an
// age-weighted healthcare reserve
type BucketPlan struct {
	Cash       BucketTier // Deposits, MMF, short bonds
	Income     BucketTier // Mid-term bonds, dividend equity, REITs
	Growth     BucketTier // Equity, growth funds
	Healthcare BucketTier // Medical reserve (no year horizon; Years stays 0)
}

// Invested returns the sum of the three liquidity tiers (healthcare excluded)
func (b BucketPlan) Invested() float64 {
	return b.Cash.Amount + b.Income.Amount + b.Growth.Amount
}

// BucketPolicy is the usage policy for a market regime. Policies are text
// directives for the retiree, keyed by regime in a lookup table.
type BucketPolicy struct {
	Condition    string
	Action       string
	CashUsage    string
	IncomeUsage  string
	GrowthAction string
	Rebalancing  string
}

// GuaranteedIncomeStream is a delayed guaranteed income such as the
// national pension
type GuaranteedIncomeStream struct {
	AnnualAmount float64
	StartAge     int
}

// AssetStructure summarizes the retiree's starting position
type AssetStructure struct {
	LiquidAssets     float64
	InvestmentAssets float64
	PensionAssets    float64
	RealEstateAssets float64
	TotalAssets      float64
	GuaranteedIncome float64 // Annual
	EssentialExpense float64 // Annual
	AnnualGap        float64 // max(0, essential - guaranteed)
	SufficiencyRatio float64 // guaranteed / essential, as a fraction
}

// BridgeAnalysis is the financing picture for the years between retirement
// and the start of a guaranteed income stream
type BridgeAnalysis struct {
	BridgeYears          int
	AnnualGap            float64 // Expense minus income during the bridge (may be negative)
	PresentValue         float64 // PV of the per-year gaps at the discount rate
	TotalCapital         float64 // Undiscounted bridge capital
	InflationAdjusted    float64 // TotalCapital compounded to the bridge midpoint
	Buckets              BucketPlan
	PostBridgeAnnualGap  float64 // Residual gap once the income stream starts
	PostBridgeSufficient bool
}
