package main

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed default-config.yaml
var defaultConfigYAML string

// TaxBracket is one progressive or separated tax bracket.
// Upper <= 0 in YAML means unbounded; it is normalized to +Inf on load.
type TaxBracket struct {
	Upper float64 `yaml:"upper" json:"upper"`
	Rate  float64 `yaml:"rate" json:"rate"`
}

// ValidateBrackets checks a bracket table: non-empty, strictly increasing
// upper bounds, final entry unbounded, rates in [0,1]. When progressive is
// true the rates must also be non-decreasing.
func ValidateBrackets(brackets []TaxBracket, progressive bool) error {
	if len(brackets) == 0 {
		return fmt.Errorf("empty bracket table")
	}
	prevUpper := 0.0
	prevRate := -1.0
	for i, b := range brackets {
		if b.Rate < 0 || b.Rate > 1 {
			return fmt.Errorf("bracket %d: rate %.3f outside [0,1]", i+1, b.Rate)
		}
		if i < len(brackets)-1 && b.Upper <= prevUpper {
			return fmt.Errorf("bracket %d: upper bound %.0f not increasing", i+1, b.Upper)
		}
		if progressive && b.Rate < prevRate {
			return fmt.Errorf("bracket %d: rate %.3f decreases in a progressive table", i+1, b.Rate)
		}
		prevUpper = b.Upper
		prevRate = b.Rate
	}
	if !math.IsInf(brackets[len(brackets)-1].Upper, 1) {
		return fmt.Errorf("final bracket must be unbounded")
	}
	return nil
}

// normalizeBrackets converts the YAML convention (upper <= 0 on the last
// entry) into an explicit +Inf bound
func normalizeBrackets(brackets []TaxBracket) []TaxBracket {
	out := make([]TaxBracket, len(brackets))
	copy(out, brackets)
	if n := len(out); n > 0 && out[n-1].Upper <= 0 {
		out[n-1].Upper = math.Inf(1)
	}
	return out
}

// DefaultComprehensiveBrackets returns the 2025 Korean comprehensive income
// brackets (종합소득세)
func DefaultComprehensiveBrackets() []TaxBracket {
	return []TaxBracket{
		{Upper: 14_000_000, Rate: 0.06},
		{Upper: 50_000_000, Rate: 0.15},
		{Upper: 88_000_000, Rate: 0.24},
		{Upper: 150_000_000, Rate: 0.35},
		{Upper: 300_000_000, Rate: 0.38},
		{Upper: 500_000_000, Rate: 0.40},
		{Upper: 1_000_000_000, Rate: 0.42},
		{Upper: math.Inf(1), Rate: 0.45},
	}
}

// DefaultPensionSeparatedBrackets returns the pension separated withholding
// brackets (연금소득 분리과세, 2024 revision)
func DefaultPensionSeparatedBrackets() []TaxBracket {
	return []TaxBracket{
		{Upper: 14_000_000, Rate: 0.033},
		{Upper: 45_000_000, Rate: 0.044},
		{Upper: 100_000_000, Rate: 0.055},
		{Upper: math.Inf(1), Rate: 0.055},
	}
}

// TaxRules holds the Korean tax parameters for one tax year.
// All values are configuration, not literals; zero values fall back to the
// 2025 defaults via the accessors.
type TaxRules struct {
	ComprehensiveBrackets    []TaxBracket `yaml:"comprehensive_brackets,omitempty" json:"comprehensive_brackets,omitempty"`
	PensionSeparatedBrackets []TaxBracket `yaml:"pension_separated_brackets,omitempty" json:"pension_separated_brackets,omitempty"`
	SeparatedCap             float64      `yaml:"pension_separated_cap" json:"pension_separated_cap"`                 // 14,000,000 KRW/yr
	FlatSeparatedRate        float64      `yaml:"flat_separated_rate" json:"flat_separated_rate"`                     // 16.5% alternative above the cap
	ISARate                  float64      `yaml:"isa_rate" json:"isa_rate"`                                           // 9.9% on ISA gains above the allowance
	ISAAllowance             float64      `yaml:"isa_allowance" json:"isa_allowance"`                                 // 2,000,000 KRW tax-free gain
	InterestDividendRate     float64      `yaml:"interest_dividend_rate" json:"interest_dividend_rate"`               // 15.4% withheld at source
	RetirementIncomeRate     float64      `yaml:"retirement_income_rate" json:"retirement_income_rate"`               // Effective retirement-income rate
	RetirementPensionFactor  float64      `yaml:"retirement_pension_factor" json:"retirement_pension_factor"`         // Fraction payable when drawn as pension
}

func (t *TaxRules) GetComprehensiveBrackets() []TaxBracket {
	if len(t.ComprehensiveBrackets) == 0 {
		return DefaultComprehensiveBrackets()
	}
	return normalizeBrackets(t.ComprehensiveBrackets)
}

func (t *TaxRules) GetPensionSeparatedBrackets() []TaxBracket {
	if len(t.PensionSeparatedBrackets) == 0 {
		return DefaultPensionSeparatedBrackets()
	}
	return normalizeBrackets(t.PensionSeparatedBrackets)
}

func (t *TaxRules) GetSeparatedCap() float64 {
	if t.SeparatedCap <= 0 {
		return 14_000_000
	}
	return t.SeparatedCap
}

func (t *TaxRules) GetFlatSeparatedRate() float64 {
	if t.FlatSeparatedRate <= 0 {
		return 0.165
	}
	return t.FlatSeparatedRate
}

func (t *TaxRules) GetISARate() float64 {
	if t.ISARate <= 0 {
		return 0.099
	}
	return t.ISARate
}

func (t *TaxRules) GetISAAllowance() float64 {
	if t.ISAAllowance <= 0 {
		return 2_000_000
	}
	return t.ISAAllowance
}

func (t *TaxRules) GetInterestDividendRate() float64 {
	if t.InterestDividendRate <= 0 {
		return 0.154
	}
	return t.InterestDividendRate
}

func (t *TaxRules) GetRetirementIncomeRate() float64 {
	if t.RetirementIncomeRate <= 0 {
		return 0.055
	}
	return t.RetirementIncomeRate
}

func (t *TaxRules) GetRetirementPensionFactor() float64 {
	if t.RetirementPensionFactor <= 0 {
		return 0.70
	}
	return t.RetirementPensionFactor
}

// Validate checks both bracket tables up front so the sequencer never sees
// a malformed table
func (t *TaxRules) Validate() error {
	if err := ValidateBrackets(t.GetComprehensiveBrackets(), true); err != nil {
		return fmt.Errorf("comprehensive brackets: %w", err)
	}
	if err := ValidateBrackets(t.GetPensionSeparatedBrackets(), false); err != nil {
		return fmt.Errorf("pension separated brackets: %w", err)
	}
	return nil
}

// SWRRules holds the safe-withdrawal-rate parameters
type SWRRules struct {
	BaseModerateRate float64 `yaml:"base_moderate_rate" json:"base_moderate_rate"` // 3.5%
	FloorRate        float64 `yaml:"floor_rate" json:"floor_rate"`                 // 2.5%
	HorizonDelta     float64 `yaml:"horizon_delta" json:"horizon_delta"`           // ±0.5%p for short/long horizons
	MidCeiling       float64 `yaml:"mid_ceiling" json:"mid_ceiling"`               // Mid never exceeds 6%
	BandSpread       float64 `yaml:"band_spread" json:"band_spread"`               // Low/high offset from mid
	BandHighCeiling  float64 `yaml:"band_high_ceiling" json:"band_high_ceiling"`   // High never exceeds 4%
}

func (s *SWRRules) GetBaseModerateRate() float64 {
	if s.BaseModerateRate <= 0 {
		return 0.035
	}
	return s.BaseModerateRate
}

func (s *SWRRules) GetFloorRate() float64 {
	if s.FloorRate <= 0 {
		return 0.025
	}
	return s.FloorRate
}

func (s *SWRRules) GetHorizonDelta() float64 {
	if s.HorizonDelta <= 0 {
		return 0.005
	}
	return s.HorizonDelta
}

func (s *SWRRules) GetMidCeiling() float64 {
	if s.MidCeiling <= 0 {
		return 0.06
	}
	return s.MidCeiling
}

func (s *SWRRules) GetBandSpread() float64 {
	if s.BandSpread <= 0 {
		return 0.005
	}
	return s.BandSpread
}

func (s *SWRRules) GetBandHighCeiling() float64 {
	if s.BandHighCeiling <= 0 {
		return 0.04
	}
	return s.BandHighCeiling
}

// GuardrailRules holds the Guyton-Klinger thresholds and adjustment rates
type GuardrailRules struct {
	UpperThreshold float64 `yaml:"upper_threshold" json:"upper_threshold"` // +20% variance triggers an increase
	LowerThreshold float64 `yaml:"lower_threshold" json:"lower_threshold"` // -20% variance triggers a decrease
	IncreaseRate   float64 `yaml:"increase_rate" json:"increase_rate"`     // 10% raise
	DecreaseRate   float64 `yaml:"decrease_rate" json:"decrease_rate"`     // 10% cut
	MaxAdjustment  float64 `yaml:"max_adjustment" json:"max_adjustment"`   // Per-period adjustment cap
}

func (g *GuardrailRules) GetUpperThreshold() float64 {
	if g.UpperThreshold <= 0 {
		return 0.20
	}
	return g.UpperThreshold
}

// GetLowerThreshold returns a negative threshold. A positive config value is
// taken as a magnitude.
func (g *GuardrailRules) GetLowerThreshold() float64 {
	if g.LowerThreshold == 0 {
		return -0.20
	}
	return -math.Abs(g.LowerThreshold)
}

func (g *GuardrailRules) GetIncreaseRate() float64 {
	if g.IncreaseRate <= 0 {
		return 0.10
	}
	return g.IncreaseRate
}

func (g *GuardrailRules) GetDecreaseRate() float64 {
	if g.DecreaseRate <= 0 {
		return 0.10
	}
	return g.DecreaseRate
}

func (g *GuardrailRules) GetMaxAdjustment() float64 {
	if g.MaxAdjustment <= 0 {
		return 0.20
	}
	return g.MaxAdjustment
}

// AgeFactor is one band of the healthcare age weighting
type AgeFactor struct {
	FromAge int     `yaml:"from_age" json:"from_age"`
	ToAge   int     `yaml:"to_age" json:"to_age"` // Exclusive; <= 0 means unbounded
	Factor  float64 `yaml:"factor" json:"factor"`
}

// DefaultHealthcareAgeFactors returns the age-band weights for the medical
// reserve. Ages below the first band use the first band's factor; the
// original data keyed bands from 65 up and fell through to the oldest
// band's weight for younger ages, which made the weighting non-monotonic.
func DefaultHealthcareAgeFactors() []AgeFactor {
	return []AgeFactor{
		{FromAge: 65, ToAge: 70, Factor: 1.0},
		{FromAge: 70, ToAge: 75, Factor: 1.3},
		{FromAge: 75, ToAge: 80, Factor: 1.6},
		{FromAge: 80, ToAge: 85, Factor: 2.0},
		{FromAge: 85, ToAge: 0, Factor: 2.5},
	}
}

// BucketRules holds the three-bucket strategy parameters
type BucketRules struct {
	CashYears            float64     `yaml:"cash_years" json:"cash_years"`                         // Years of spending held in cash
	IncomeYears          float64     `yaml:"income_years" json:"income_years"`                     // Years held in income assets
	HealthcareBaseRatio  float64     `yaml:"healthcare_base_ratio" json:"healthcare_base_ratio"`   // Medical reserve vs annual spending
	HealthcareHorizonCap float64     `yaml:"healthcare_horizon_cap" json:"healthcare_horizon_cap"` // Horizon years counted for the reserve
	HealthcareAgeFactors []AgeFactor `yaml:"healthcare_age_factors,omitempty" json:"healthcare_age_factors,omitempty"`
}

func (b *BucketRules) GetCashYears() float64 {
	if b.CashYears <= 0 {
		return 2
	}
	return b.CashYears
}

func (b *BucketRules) GetIncomeYears() float64 {
	if b.IncomeYears <= 0 {
		return 8
	}
	return b.IncomeYears
}

func (b *BucketRules) GetHealthcareBaseRatio() float64 {
	if b.HealthcareBaseRatio <= 0 {
		return 0.15
	}
	return b.HealthcareBaseRatio
}

func (b *BucketRules) GetHealthcareHorizonCap() float64 {
	if b.HealthcareHorizonCap <= 0 {
		return 30
	}
	return b.HealthcareHorizonCap
}

func (b *BucketRules) GetHealthcareAgeFactors() []AgeFactor {
	if len(b.HealthcareAgeFactors) == 0 {
		return DefaultHealthcareAgeFactors()
	}
	return b.HealthcareAgeFactors
}

// BridgeRules holds the bridge-period financing assumptions
type BridgeRules struct {
	DiscountRate  float64 `yaml:"discount_rate" json:"discount_rate"`   // PV discounting of the per-year gap
	InflationRate float64 `yaml:"inflation_rate" json:"inflation_rate"` // Midpoint compounding of the total capital
}

func (b *BridgeRules) GetDiscountRate() float64 {
	if b.DiscountRate <= 0 {
		return 0.025
	}
	return b.DiscountRate
}

func (b *BridgeRules) GetInflationRate() float64 {
	if b.InflationRate <= 0 {
		return 0.020
	}
	return b.InflationRate
}

// NationalPensionRules holds national pension claim-timing parameters
type NationalPensionRules struct {
	NormalClaimAge   int     `yaml:"normal_claim_age" json:"normal_claim_age"`     // 65
	EarliestClaimAge int     `yaml:"earliest_claim_age" json:"earliest_claim_age"` // 60
	LatestClaimAge   int     `yaml:"latest_claim_age" json:"latest_claim_age"`     // 70
	EarlyReduction   float64 `yaml:"early_reduction" json:"early_reduction"`       // 6% reduction per early year
	DelayedIncrease  float64 `yaml:"delayed_increase" json:"delayed_increase"`     // 7.2% increase per delayed year
}

func (n *NationalPensionRules) GetNormalClaimAge() int {
	if n.NormalClaimAge <= 0 {
		return 65
	}
	return n.NormalClaimAge
}

func (n *NationalPensionRules) GetEarliestClaimAge() int {
	if n.EarliestClaimAge <= 0 {
		return 60
	}
	return n.EarliestClaimAge
}

func (n *NationalPensionRules) GetLatestClaimAge() int {
	if n.LatestClaimAge <= 0 {
		return 70
	}
	return n.LatestClaimAge
}

func (n *NationalPensionRules) GetEarlyReduction() float64 {
	if n.EarlyReduction <= 0 {
		return 0.06
	}
	return n.EarlyReduction
}

func (n *NationalPensionRules) GetDelayedIncrease() float64 {
	if n.DelayedIncrease <= 0 {
		return 0.072
	}
	return n.DelayedIncrease
}

// RetireeConfig is the retiree's profile from YAML
type RetireeConfig struct {
	Age                      int     `yaml:"age" json:"age"`
	RetirementAge            int     `yaml:"retirement_age" json:"retirement_age"`
	PlanningHorizonYears     int     `yaml:"planning_horizon_years" json:"planning_horizon_years"`
	AnnualExpense            float64 `yaml:"annual_expense" json:"annual_expense"`
	EssentialExpense         float64 `yaml:"essential_expense" json:"essential_expense"`
	OtherComprehensiveIncome float64 `yaml:"other_comprehensive_income" json:"other_comprehensive_income"`
	MarketRegime             string  `yaml:"market_regime" json:"market_regime"` // bear / bull / neutral

	NationalPensionAnnual   float64 `yaml:"national_pension_annual" json:"national_pension_annual"`
	NationalPensionStartAge int     `yaml:"national_pension_start_age" json:"national_pension_start_age"`
	OtherGuaranteedIncome   float64 `yaml:"other_guaranteed_income" json:"other_guaranteed_income"` // Annuities etc., active from retirement
}

// AccountsConfig is the per-account balances from YAML
type AccountsConfig struct {
	GeneralTaxable           float64 `yaml:"general_taxable" json:"general_taxable"`
	ISA                      float64 `yaml:"isa" json:"isa"`
	ISAGain                  float64 `yaml:"isa_gain" json:"isa_gain"`
	PensionNontaxable        float64 `yaml:"pension_nontaxable" json:"pension_nontaxable"`
	PensionDeferredRetirement float64 `yaml:"pension_deferred_retirement" json:"pension_deferred_retirement"`
	PensionTaxable           float64 `yaml:"pension_taxable" json:"pension_taxable"`
	RealEstate               float64 `yaml:"real_estate" json:"real_estate"` // Informational; never sequenced
}

// Balances converts the config into the sequencer's balance set
func (a AccountsConfig) Balances() AccountBalances {
	return AccountBalances{
		GeneralTaxable:                  a.GeneralTaxable,
		ISA:                             a.ISA,
		ISAGain:                         a.ISAGain,
		PensionNontaxable:               a.PensionNontaxable,
		PensionDeferredRetirementIncome: a.PensionDeferredRetirement,
		PensionTaxable:                  a.PensionTaxable,
	}
}

// PortfolioConfig is the guardrail evaluation inputs. Zero values are
// derived from the account balances and SWR baseline at plan time.
type PortfolioConfig struct {
	TargetValue       float64 `yaml:"target_value" json:"target_value"`
	CurrentValue      float64 `yaml:"current_value" json:"current_value"`
	CurrentWithdrawal float64 `yaml:"current_withdrawal" json:"current_withdrawal"`
}

// Config holds the complete configuration
type Config struct {
	Retiree         RetireeConfig        `yaml:"retiree" json:"retiree"`
	Accounts        AccountsConfig       `yaml:"accounts" json:"accounts"`
	Portfolio       PortfolioConfig      `yaml:"portfolio" json:"portfolio"`
	SWR             SWRRules             `yaml:"swr" json:"swr"`
	Guardrails      GuardrailRules       `yaml:"guardrails" json:"guardrails"`
	Tax             TaxRules             `yaml:"tax" json:"tax"`
	Buckets         BucketRules          `yaml:"buckets" json:"buckets"`
	Bridge          BridgeRules          `yaml:"bridge" json:"bridge"`
	NationalPension NationalPensionRules `yaml:"national_pension" json:"national_pension"`
}

// Validate checks the profile preconditions before any computation runs
func (c *Config) Validate() error {
	if c.Retiree.PlanningHorizonYears <= 0 {
		return fmt.Errorf("planning_horizon_years must be positive, got %d", c.Retiree.PlanningHorizonYears)
	}
	if c.Retiree.AnnualExpense < 0 {
		return fmt.Errorf("annual_expense must not be negative")
	}
	if c.Retiree.EssentialExpense < 0 {
		return fmt.Errorf("essential_expense must not be negative")
	}
	if err := c.Accounts.Balances().Validate(); err != nil {
		return err
	}
	if _, err := ParseMarketRegime(c.Retiree.MarketRegime); err != nil {
		return err
	}
	return c.Tax.Validate()
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config Config
	err = yaml.Unmarshal([]byte(preprocessPercentages(string(data))), &config)
	if err != nil {
		return nil, err
	}

	return &config, nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	header := []byte(`# Retirement Drawdown Plan Configuration (KOR 2025)
#
# Money values are KRW. Rates are decimals (0.035 = 3.5%) or "3.5%".
# Any rule left at 0 falls back to the built-in 2025 Korean default.
#
# Run commands:
#   ./retirement-plan                 Evaluate the plan (console)
#   ./retirement-plan -details        Include the year-one withdrawal detail
#   ./retirement-plan -html -pdf      Write report files
#   ./retirement-plan -help           Show all options

`)
	content := append(header, data...)
	return os.WriteFile(filename, content, 0644)
}

// LoadDefaultConfig loads the default configuration from the embedded
// default-config.yaml. It handles percentage format (e.g., "3.5%" -> 0.035).
func LoadDefaultConfig() (*Config, error) {
	content := preprocessPercentages(defaultConfigYAML)

	var config Config
	err := yaml.Unmarshal([]byte(content), &config)
	if err != nil {
		return nil, err
	}

	return &config, nil
}

// preprocessPercentages converts percentage values like "3.5%" to decimal "0.035"
func preprocessPercentages(content string) string {
	re := regexp.MustCompile(`(:\s*)(\d+\.?\d*)%`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) >= 3 {
			num, err := strconv.ParseFloat(parts[2], 64)
			if err == nil {
				return parts[1] + strconv.FormatFloat(num/100.0, 'f', -1, 64)
			}
		}
		return match
	})
}
