package main

import (
	"fmt"
	"os"
	"time"
)

// GenerateHTMLReport writes a self-contained HTML drawdown report
func GenerateHTMLReport(result *PlanResult, config *Config, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(f, `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Retirement Drawdown Plan</title>
    <style>
        :root {
            --primary: #2563eb;
            --success: #16a34a;
            --warning: #ea580c;
            --danger: #dc2626;
            --bg: #f8fafc;
            --card-bg: #ffffff;
            --text: #1e293b;
            --text-muted: #64748b;
            --border: #e2e8f0;
        }
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: var(--bg);
            color: var(--text);
            line-height: 1.6;
            padding: 2rem;
        }
        .container { max-width: 1100px; margin: 0 auto; }
        h1 { font-size: 1.75rem; margin-bottom: 0.5rem; color: var(--primary); }
        h2 {
            font-size: 1.25rem;
            margin: 1.5rem 0 1rem;
            padding-bottom: 0.5rem;
            border-bottom: 2px solid var(--primary);
        }
        .subtitle { color: var(--text-muted); margin-bottom: 1.5rem; }
        .card {
            background: var(--card-bg);
            border-radius: 8px;
            box-shadow: 0 1px 3px rgba(0,0,0,0.1);
            padding: 1.5rem;
            margin-bottom: 1.5rem;
        }
        .grid { display: grid; gap: 1rem; }
        .grid-4 { grid-template-columns: repeat(4, 1fr); }
        @media (max-width: 768px) { .grid-4 { grid-template-columns: 1fr; } }
        .metric { text-align: center; padding: 1rem; border-radius: 8px; background: var(--bg); }
        .metric-value { font-size: 1.35rem; font-weight: 700; color: var(--primary); }
        .metric-label { font-size: 0.875rem; color: var(--text-muted); }
        .metric.success .metric-value { color: var(--success); }
        .metric.warning .metric-value { color: var(--warning); }
        .metric.danger .metric-value { color: var(--danger); }
        table { width: 100%%; border-collapse: collapse; font-size: 0.875rem; }
        th, td {
            padding: 0.6rem 0.5rem;
            text-align: right;
            border-bottom: 1px solid var(--border);
        }
        th { background: var(--bg); font-weight: 600; }
        th:first-child, td:first-child { text-align: left; }
        td:nth-child(2) { text-align: left; }
        tr:hover { background: #f1f5f9; }
        .total-row { background: var(--bg); font-weight: 600; }
        .badge {
            display: inline-block;
            padding: 0.25rem 0.75rem;
            border-radius: 9999px;
            font-size: 0.75rem;
            font-weight: 600;
        }
        .badge-success { background: #dcfce7; color: var(--success); }
        .badge-warning { background: #ffedd5; color: var(--warning); }
        .badge-danger { background: #fee2e2; color: var(--danger); }
        .note { color: var(--text-muted); font-size: 0.875rem; margin-top: 0.5rem; }
        .footer {
            text-align: center;
            color: var(--text-muted);
            font-size: 0.75rem;
            margin-top: 2rem;
            padding-top: 1rem;
            border-top: 1px solid var(--border);
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>Retirement Drawdown Plan</h1>
        <p class="subtitle">Age %d, planning horizon %d years, %s regime</p>
`, config.Retiree.Age, config.Retiree.PlanningHorizonYears, result.Regime)

	// Summary metrics
	guardBadge := "success"
	if result.Guardrail.Action == Decrease {
		guardBadge = "warning"
	}
	fundedClass := "success"
	fundedText := "Yes"
	if !result.Withdrawal.FullyFunded {
		fundedClass = "danger"
		fundedText = fmt.Sprintf("Short %s", FormatKRW(result.Withdrawal.Shortfall))
	}
	fmt.Fprintf(f, `
        <div class="card">
            <h2>Summary</h2>
            <div class="grid grid-4">
                <div class="metric">
                    <div class="metric-value">%s</div>
                    <div class="metric-label">Adjusted Withdrawal / yr</div>
                </div>
                <div class="metric %s">
                    <div class="metric-value">%s</div>
                    <div class="metric-label">Guardrail Action</div>
                </div>
                <div class="metric">
                    <div class="metric-value">%s</div>
                    <div class="metric-label">Total Tax</div>
                </div>
                <div class="metric %s">
                    <div class="metric-value">%s</div>
                    <div class="metric-label">Fully Funded</div>
                </div>
            </div>
        </div>
`, FormatKRW(result.Guardrail.NewWithdrawal), guardBadge, result.Guardrail.Action,
		FormatKRWFull(result.Withdrawal.TotalTax), fundedClass, fundedText)

	// Asset structure
	a := result.Assets
	fmt.Fprintf(f, `
        <div class="card">
            <h2>Asset Structure</h2>
            <table>
                <tr><th>Category</th><th></th><th>Amount</th></tr>
                <tr><td>Liquid</td><td>deposits, taxable brokerage</td><td>%s</td></tr>
                <tr><td>Investment</td><td>ISA</td><td>%s</td></tr>
                <tr><td>Pension</td><td>non-taxable, deferred, taxable</td><td>%s</td></tr>
                <tr><td>Real estate</td><td>not sequenced</td><td>%s</td></tr>
                <tr class="total-row"><td>Total</td><td></td><td>%s</td></tr>
            </table>
            <p class="note">Guaranteed income %s/yr covers %.0f%% of essential spending (gap %s/yr).</p>
        </div>
`, FormatKRWFull(a.LiquidAssets), FormatKRWFull(a.InvestmentAssets), FormatKRWFull(a.PensionAssets),
		FormatKRWFull(a.RealEstateAssets), FormatKRWFull(a.TotalAssets),
		FormatKRW(a.GuaranteedIncome), a.SufficiencyRatio*100, FormatKRW(a.AnnualGap))

	// SWR band and guardrail
	b := result.Baseline
	fmt.Fprintf(f, `
        <div class="card">
            <h2>Safe Withdrawal Baseline</h2>
            <table>
                <tr><th>Scenario</th><th>Rate</th><th>Annual</th><th>Monthly</th></tr>
                <tr><td>Conservative</td><td>%s</td><td>%s</td><td>%s</td></tr>
                <tr><td>Moderate (recommended)</td><td>%s</td><td>%s</td><td>%s</td></tr>
                <tr><td>Aggressive</td><td>%s</td><td>%s</td><td>%s</td></tr>
            </table>
            <p class="note">Guardrail: portfolio variance %+.1f%% → %s. %s</p>
        </div>
`, FormatPercent(b.Conservative.Rate), FormatKRWFull(b.Conservative.Annual), FormatKRWFull(b.Conservative.Monthly),
		FormatPercent(b.Moderate.Rate), FormatKRWFull(b.Moderate.Annual), FormatKRWFull(b.Moderate.Monthly),
		FormatPercent(b.Aggressive.Rate), FormatKRWFull(b.Aggressive.Annual), FormatKRWFull(b.Aggressive.Monthly),
		result.Guardrail.Variance*100, result.Guardrail.Action, GuardrailMessage(result.Guardrail))

	// Withdrawal sequence
	fmt.Fprintf(f, `
        <div class="card">
            <h2>Withdrawal Sequence</h2>
            <table>
                <tr><th>#</th><th>Source</th><th>Amount</th><th>Tax</th><th>Rate</th></tr>
`)
	for _, line := range result.Withdrawal.Lines {
		fmt.Fprintf(f, "                <tr><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			line.Order, line.Kind, FormatKRWFull(line.Amount), FormatKRWFull(line.TaxAmount), FormatPercent(line.TaxRate))
	}
	fmt.Fprintf(f, `                <tr class="total-row"><td></td><td>Total</td><td>%s</td><td>%s</td><td>%s</td></tr>
            </table>
`, FormatKRWFull(result.Withdrawal.TotalWithdrawal), FormatKRWFull(result.Withdrawal.TotalTax),
		FormatPercent(result.Withdrawal.EffectiveTaxRate()))
	if adv := result.Withdrawal.CapExceeded; adv != nil {
		choice := "comprehensive filing"
		if adv.ChoseFlat {
			choice = "flat separated taxation"
		}
		fmt.Fprintf(f, `            <p class="note">Separated withholding cap exceeded by %s. Comprehensive tax %s vs flat %s → %s is cheaper.</p>
`, FormatKRW(adv.ExcessAmount), FormatKRWFull(adv.ComprehensiveTax), FormatKRWFull(adv.FlatTax), choice)
	}
	fmt.Fprintf(f, "        </div>\n")

	// Buckets
	bk := result.Buckets
	fmt.Fprintf(f, `
        <div class="card">
            <h2>Bucket Allocation</h2>
            <table>
                <tr><th>Bucket</th><th>Covers</th><th>Amount</th></tr>
                <tr><td>Cash</td><td>%.0f years</td><td>%s</td></tr>
                <tr><td>Income</td><td>%.0f years</td><td>%s</td></tr>
                <tr><td>Growth</td><td>%.0f years</td><td>%s</td></tr>
                <tr><td>Healthcare reserve</td><td></td><td>%s</td></tr>
            </table>
            <p class="note"><strong>%s regime:</strong> %s Rebalancing: %s</p>
        </div>
`, bk.Cash.Years, FormatKRWFull(bk.Cash.Amount),
		bk.Income.Years, FormatKRWFull(bk.Income.Amount),
		bk.Growth.Years, FormatKRWFull(bk.Growth.Amount),
		FormatKRWFull(bk.Healthcare.Amount),
		result.Regime, result.Policy.Action, result.Policy.Rebalancing)

	// Bridge period
	br := result.Bridge
	fmt.Fprintf(f, `
        <div class="card">
            <h2>Bridge Period</h2>
`)
	if br.BridgeYears <= 0 {
		fmt.Fprintf(f, "            <p>No bridge period: guaranteed income starts at retirement.</p>\n")
	} else {
		fmt.Fprintf(f, `            <table>
                <tr><td>Bridge length</td><td>%d years</td></tr>
                <tr><td>Annual gap</td><td>%s</td></tr>
                <tr><td>Present value of gap</td><td>%s</td></tr>
                <tr><td>Inflation-adjusted capital</td><td>%s</td></tr>
                <tr><td>Bridge buckets</td><td>cash %s / income %s / growth %s</td></tr>
            </table>
`, br.BridgeYears, FormatKRWFull(br.AnnualGap), FormatKRWFull(br.PresentValue), FormatKRWFull(br.InflationAdjusted),
			FormatKRW(br.Buckets.Cash.Amount), FormatKRW(br.Buckets.Income.Amount), FormatKRW(br.Buckets.Growth.Amount))
	}
	if br.PostBridgeSufficient {
		fmt.Fprintf(f, `            <p class="note"><span class="badge badge-success">Sufficient</span> guaranteed income covers spending after the pension starts.</p>
`)
	} else {
		fmt.Fprintf(f, `            <p class="note"><span class="badge badge-warning">Gap remains</span> %s/yr from the portfolio after the pension starts.</p>
`, FormatKRW(br.PostBridgeAnnualGap))
	}
	fmt.Fprintf(f, "        </div>\n")

	// Execution schedule
	fmt.Fprintf(f, `
        <div class="card">
            <h2>Execution Schedule</h2>
            <p>Monthly transfer: <strong>%s</strong> from the cash bucket.</p>
            <table>
                <tr><th>Quarter</th><th>Tasks</th></tr>
`, FormatKRWFull(result.Guardrail.NewWithdrawal/12))
	for _, q := range result.Execution.Quarters {
		fmt.Fprintf(f, "                <tr><td>%s</td><td>", q.Quarter)
		for i, task := range q.Tasks {
			if i > 0 {
				fmt.Fprintf(f, "<br>")
			}
			fmt.Fprintf(f, "%s", task)
		}
		fmt.Fprintf(f, "</td></tr>\n")
	}
	fmt.Fprintf(f, `            </table>
        </div>

        <div class="footer">Generated on %s</div>
    </div>
</body>
</html>
`, time.Now().Format("2006-01-02 15:04:05"))

	return nil
}
