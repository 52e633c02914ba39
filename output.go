package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// groupThousands inserts comma separators into a non-negative integer string
func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// FormatKRW formats an amount as abbreviated KRW (억/만 units).
// Amounts are rounded to whole won at this output boundary only.
func FormatKRW(amount float64) string {
	abs := math.Abs(amount)
	switch {
	case abs >= 1e8:
		return fmt.Sprintf("₩%.1f억", amount/1e8)
	case abs >= 1e4:
		return fmt.Sprintf("₩%s만", groupThousands(int64(math.Round(amount/1e4))))
	default:
		return "₩" + groupThousands(int64(math.Round(amount)))
	}
}

// FormatKRWFull formats an amount as full comma-grouped won
func FormatKRWFull(amount float64) string {
	return "₩" + groupThousands(int64(math.Round(amount)))
}

// FormatPercent formats a fraction as a percentage
func FormatPercent(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}

// PrintHeader prints the evaluation header
func PrintHeader(config *Config) {
	fmt.Println("╔══════════════════════════════════════════════════════════════════════════════╗")
	fmt.Println("║               RETIREMENT DRAWDOWN OPTIMIZATION  (KOR 2025)                   ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Println("Profile:")
	fmt.Println("────────")

	r := config.Retiree
	fmt.Printf("  Age %d, retired at %d, planning horizon %d years\n",
		r.Age, r.RetirementAge, r.PlanningHorizonYears)
	fmt.Printf("  Spending: %s/yr total, %s/yr essential\n",
		FormatKRW(r.AnnualExpense), FormatKRW(r.EssentialExpense))
	if r.NationalPensionAnnual > 0 {
		fmt.Printf("  National pension: %s/yr from age %d\n",
			FormatKRW(r.NationalPensionAnnual), r.NationalPensionStartAge)
	}
	fmt.Printf("  Market regime: %s\n", r.MarketRegime)
	fmt.Println()

	a := config.Accounts
	fmt.Println("Accounts:")
	fmt.Println("─────────")
	fmt.Printf("  General taxable: %-12s ISA: %s (gain %s)\n",
		FormatKRW(a.GeneralTaxable), FormatKRW(a.ISA), FormatKRW(a.ISAGain))
	fmt.Printf("  Pension: non-taxable %s, deferred retirement %s, taxable %s\n",
		FormatKRW(a.PensionNontaxable), FormatKRW(a.PensionDeferredRetirement), FormatKRW(a.PensionTaxable))
	fmt.Printf("  Investable total: %s\n", FormatKRW(a.Balances().Total()))
	fmt.Println()
}

// PrintPlan prints the full evaluation. withDetails adds the per-line
// withdrawal breakdown and the monthly execution schedule.
func PrintPlan(result *PlanResult, withDetails bool) {
	fmt.Println("Safe Withdrawal Baseline")
	fmt.Println("────────────────────────")
	b := result.Baseline
	fmt.Printf("  Horizon %d years → SWR band %s / %s / %s (low/mid/high)\n",
		b.HorizonYears, FormatPercent(b.Band.Low), FormatPercent(b.Band.Mid), FormatPercent(b.Band.High))
	fmt.Printf("  Conservative: %s/yr (%s/month)\n", FormatKRW(b.Conservative.Annual), FormatKRW(b.Conservative.Monthly))
	fmt.Printf("  Moderate:     %s/yr (%s/month)  ← recommended\n", FormatKRW(b.Moderate.Annual), FormatKRW(b.Moderate.Monthly))
	fmt.Printf("  Aggressive:   %s/yr (%s/month)\n", FormatKRW(b.Aggressive.Annual), FormatKRW(b.Aggressive.Monthly))
	fmt.Println()

	fmt.Println("Guardrail Check")
	fmt.Println("───────────────")
	g := result.Guardrail
	fmt.Printf("  Target %s vs current %s → variance %+.1f%%\n",
		FormatKRW(result.Snapshot.TargetValue), FormatKRW(result.Snapshot.CurrentValue), g.Variance*100)
	fmt.Printf("  Action: %s → withdrawal %s/yr\n", g.Action, FormatKRW(g.NewWithdrawal))
	fmt.Printf("  %s\n", GuardrailMessage(g))
	if g.FloorBreached {
		fmt.Printf("  ⚠ %s\n", g.FloorWarning)
	}
	fmt.Println()

	fmt.Println("Tax-Efficient Withdrawal Sequence")
	fmt.Println("─────────────────────────────────")
	fmt.Printf("  Guaranteed income %s/yr → residual need %s/yr\n",
		FormatKRW(result.GuaranteedNow), FormatKRW(result.ResidualNeed))
	p := result.Withdrawal
	for _, line := range p.Lines {
		if line.Kind == LineUnfulfilled {
			fmt.Printf("  %d. UNFULFILLED: %s short\n", line.Order, FormatKRW(line.Amount))
		} else {
			fmt.Printf("  %d. %-38s %12s  tax %s (%s)\n",
				line.Order, line.Kind, FormatKRWFull(line.Amount), FormatKRWFull(line.TaxAmount), FormatPercent(line.TaxRate))
		}
		if withDetails {
			fmt.Printf("     %s\n", line.Rationale)
		}
	}
	fmt.Printf("  Total withdrawal %s, tax %s, after tax %s (effective %s)\n",
		FormatKRW(p.TotalWithdrawal), FormatKRWFull(p.TotalTax), FormatKRW(p.AfterTax), FormatPercent(p.EffectiveTaxRate()))
	if adv := p.CapExceeded; adv != nil {
		choice := "comprehensive"
		if adv.ChoseFlat {
			choice = "flat separated"
		}
		fmt.Printf("  Cap exceeded: %s over the cap; comprehensive %s vs flat %s → %s\n",
			FormatKRW(adv.ExcessAmount), FormatKRWFull(adv.ComprehensiveTax), FormatKRWFull(adv.FlatTax), choice)
	}
	if !p.FullyFunded {
		fmt.Printf("  ⚠ Accounts cover only part of the need; shortfall %s/yr\n", FormatKRW(p.Shortfall))
	}
	fmt.Println()

	fmt.Println("Bucket Allocation")
	fmt.Println("─────────────────")
	bk := result.Buckets
	fmt.Printf("  Cash (%.0fy):    %s\n", bk.Cash.Years, FormatKRW(bk.Cash.Amount))
	fmt.Printf("  Income (%.0fy):  %s\n", bk.Income.Years, FormatKRW(bk.Income.Amount))
	fmt.Printf("  Growth (%.0fy):  %s\n", bk.Growth.Years, FormatKRW(bk.Growth.Amount))
	fmt.Printf("  Healthcare reserve: %s\n", FormatKRW(bk.Healthcare.Amount))
	fmt.Printf("  Regime policy (%s): %s\n", result.Regime, result.Policy.Action)
	fmt.Printf("  Rebalancing: %s\n", result.Policy.Rebalancing)
	fmt.Println()

	fmt.Println("Bridge Period")
	fmt.Println("─────────────")
	br := result.Bridge
	if br.BridgeYears <= 0 {
		fmt.Println("  No bridge period; guaranteed income starts at retirement.")
	} else {
		fmt.Printf("  %d years before the pension starts; gap PV %s (total %s, inflation-adjusted %s)\n",
			br.BridgeYears, FormatKRW(br.PresentValue), FormatKRW(br.TotalCapital), FormatKRW(br.InflationAdjusted))
		fmt.Printf("  Bridge buckets: cash %s / income %s / growth %s\n",
			FormatKRW(br.Buckets.Cash.Amount), FormatKRW(br.Buckets.Income.Amount), FormatKRW(br.Buckets.Growth.Amount))
	}
	if br.PostBridgeSufficient {
		fmt.Println("  After the pension starts, guaranteed income covers spending.")
	} else {
		fmt.Printf("  After the pension starts, %s/yr still comes from the portfolio.\n",
			FormatKRW(br.PostBridgeAnnualGap))
	}
	fmt.Println()

	if withDetails {
		fmt.Println("Execution Schedule")
		fmt.Println("──────────────────")
		for _, m := range result.Execution.MonthlySchedule {
			fmt.Printf("  Month %2d: %s from %s\n", m.Month, FormatKRWFull(m.Amount), m.Source)
		}
		for _, q := range result.Execution.Quarters {
			fmt.Printf("  %s: %s\n", q.Quarter, strings.Join(q.Tasks, "; "))
		}
		fmt.Println()
	}
}
