package main

import (
	"fmt"
	"math"
)

// PlanResult is one full evaluation of the drawdown plan: baseline,
// guardrail adjustment, per-account withdrawal sequence, bucket
// allocation, and bridge financing, in that order.
type PlanResult struct {
	Assets        AssetStructure
	Baseline      WithdrawalBaseline
	Snapshot      PortfolioSnapshot
	Guardrail     GuardrailResult
	GuaranteedNow float64 // Annual guaranteed income already flowing
	ResidualNeed  float64 // Adjusted withdrawal minus guaranteed income
	Withdrawal    *WithdrawalPlan
	Regime        MarketRegime
	Buckets       BucketPlan
	Policy        BucketPolicy
	Bridge        BridgeAnalysis
	Execution     ExecutionPlan
}

// EvaluatePlan runs the whole engine for one configuration. Each component
// is a pure function of its inputs; this wiring is the only place the
// pieces meet.
func EvaluatePlan(cfg *Config) (*PlanResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	balances := cfg.Accounts.Balances()
	investable := balances.Total()
	retiree := cfg.Retiree

	// SWR baseline against the portfolio the plan was sized for
	target := cfg.Portfolio.TargetValue
	if target <= 0 {
		target = investable
	}
	baseline := CalculateWithdrawalBaseline(target, retiree.PlanningHorizonYears, &cfg.SWR)

	// Guardrail adjustment against realized performance
	snapshot := PortfolioSnapshot{
		TargetValue:       target,
		CurrentValue:      cfg.Portfolio.CurrentValue,
		CurrentWithdrawal: cfg.Portfolio.CurrentWithdrawal,
	}
	if snapshot.CurrentValue <= 0 {
		snapshot.CurrentValue = investable
	}
	if snapshot.CurrentWithdrawal <= 0 {
		snapshot.CurrentWithdrawal = baseline.Recommended().Annual
	}
	guardrail, err := EvaluateGuardrail(snapshot, retiree.EssentialExpense, &cfg.Guardrails)
	if err != nil {
		return nil, err
	}

	// Guaranteed income already flowing this year
	guaranteedNow := retiree.OtherGuaranteedIncome
	if retiree.NationalPensionStartAge > 0 && retiree.Age >= retiree.NationalPensionStartAge {
		guaranteedNow += AdjustedPension(retiree.NationalPensionAnnual, retiree.NationalPensionStartAge, &cfg.NationalPension)
	}

	residual := math.Max(0, guardrail.NewWithdrawal-guaranteedNow)
	withdrawal, err := SequenceWithdrawal(residual, balances, retiree.OtherComprehensiveIncome, &cfg.Tax)
	if err != nil {
		return nil, err
	}

	regime, err := ParseMarketRegime(retiree.MarketRegime)
	if err != nil {
		return nil, err
	}
	buckets, err := PlanBuckets(guardrail.NewWithdrawal, retiree.Age, retiree.PlanningHorizonYears, &cfg.Buckets)
	if err != nil {
		return nil, err
	}

	bridge, err := AnalyzeBridgePeriod(retiree.RetirementAge,
		GuaranteedIncomeStream{
			AnnualAmount: AdjustedPension(retiree.NationalPensionAnnual, retiree.NationalPensionStartAge, &cfg.NationalPension),
			StartAge:     retiree.NationalPensionStartAge,
		},
		retiree.AnnualExpense, &cfg.Bridge, &cfg.Buckets)
	if err != nil {
		return nil, err
	}

	return &PlanResult{
		Assets: AnalyzeAssetStructure(cfg.Accounts,
			guaranteedNow, retiree.EssentialExpense),
		Baseline:      baseline,
		Snapshot:      snapshot,
		Guardrail:     guardrail,
		GuaranteedNow: guaranteedNow,
		ResidualNeed:  residual,
		Withdrawal:    withdrawal,
		Regime:        regime,
		Buckets:       buckets,
		Policy:        RegimePolicy(regime),
		Bridge:        bridge,
		Execution:     BuildExecutionPlan(guardrail.NewWithdrawal),
	}, nil
}

// MonthlyWithdrawal is one month of the execution schedule
type MonthlyWithdrawal struct {
	Month  int
	Amount float64
	Source string
}

// QuarterChecklist is the review tasks for one quarter
type QuarterChecklist struct {
	Quarter string
	Tasks   []string
}

// ExecutionPlan turns the adjusted annual withdrawal into a monthly
// transfer schedule and a review cadence
type ExecutionPlan struct {
	MonthlySchedule []MonthlyWithdrawal
	Quarters        []QuarterChecklist
	AnnualTasks     []string
}

// BuildExecutionPlan lays the adjusted withdrawal out across the year.
// Withdrawals always come from the cash bucket; refills and rebalancing
// happen at the quarterly reviews.
func BuildExecutionPlan(annualWithdrawal float64) ExecutionPlan {
	monthly := annualWithdrawal / 12

	schedule := make([]MonthlyWithdrawal, 0, 12)
	for month := 1; month <= 12; month++ {
		schedule = append(schedule, MonthlyWithdrawal{
			Month:  month,
			Amount: monthly,
			Source: "Cash bucket (deposits/MMF)",
		})
	}

	return ExecutionPlan{
		MonthlySchedule: schedule,
		Quarters: []QuarterChecklist{
			{Quarter: "Q1", Tasks: []string{
				"Confirm the cash bucket still holds two years of spending",
				"Settle last year's taxes",
				"Check the portfolio balance against target",
			}},
			{Quarter: "Q2", Tasks: []string{
				"Refill cash from the income bucket if needed",
				"Review first-half returns",
				"Check for upcoming large expenses",
			}},
			{Quarter: "Q3", Tasks: []string{
				"Review growth bucket returns",
				"Assess the market regime",
				"Run the guardrail check",
			}},
			{Quarter: "Q4", Tasks: []string{
				"Annual rebalancing",
				"Set next year's withdrawal plan",
				"Prepare tax payments",
			}},
		},
		AnnualTasks: []string{
			fmt.Sprintf("Transfer %s to the spending account on the 1st of each month", FormatKRW(monthly)),
			"Re-run the guardrail evaluation after the year-end statement",
			"Rebalance in December unless the bear-market policy pauses it",
		},
	}
}
