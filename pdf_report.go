package main

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/go-pdf/fpdf"
)

// FormatKRWPDF formats money for PDF output. The standard PDF fonts are
// Latin-1 only, so the won sign and 억/만 units are spelled out.
func FormatKRWPDF(amount float64) string {
	return "KRW " + groupThousands(int64(math.Round(amount)))
}

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// PDFPlanReport generates the drawdown plan as a printable PDF
type PDFPlanReport struct {
	pdf    *fpdf.Fpdf
	config *Config
	result *PlanResult
}

// GeneratePlanPDFReport creates the PDF action plan for an evaluated plan
func GeneratePlanPDFReport(config *Config, result *PlanResult) ([]byte, error) {
	report := &PDFPlanReport{
		pdf:    fpdf.New("P", "mm", "A4", ""),
		config: config,
		result: result,
	}

	report.pdf.SetMargins(marginLeft, marginTop, marginRight)
	report.pdf.SetAutoPageBreak(true, marginBottom)

	report.addTitlePage()
	report.addWithdrawalPage()
	report.addAllocationPage()

	var buf bytes.Buffer
	if err := report.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *PDFPlanReport) addTitlePage() {
	r.pdf.AddPage()

	r.pdf.SetFont("Arial", "B", 28)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.Ln(50)
	r.pdf.CellFormat(contentWidth, 15, "Retirement Drawdown Plan", "", 1, "C", false, 0, "")

	r.pdf.SetFont("Arial", "", 14)
	r.pdf.SetTextColor(80, 80, 80)
	r.pdf.Ln(10)
	subtitle := fmt.Sprintf("Age %d, %d-year horizon, %s regime",
		r.config.Retiree.Age, r.config.Retiree.PlanningHorizonYears, r.result.Regime)
	r.pdf.CellFormat(contentWidth, 10, subtitle, "", 1, "C", false, 0, "")

	r.pdf.SetFont("Arial", "I", 11)
	r.pdf.Ln(15)
	r.pdf.CellFormat(contentWidth, 8, fmt.Sprintf("Generated: %s", time.Now().Format("2 January 2006")), "", 1, "C", false, 0, "")

	// Profile box
	r.pdf.Ln(20)
	r.pdf.SetFillColor(245, 247, 250)
	r.pdf.SetDrawColor(200, 200, 200)

	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 8, "Profile", "1", 1, "C", true, 0, "")

	r.pdf.SetFont("Arial", "", 11)
	r.pdf.SetTextColor(50, 50, 50)
	ret := r.config.Retiree
	rows := []string{
		fmt.Sprintf("Spending: %s/yr total, %s/yr essential",
			FormatKRWPDF(ret.AnnualExpense), FormatKRWPDF(ret.EssentialExpense)),
		fmt.Sprintf("Investable assets: %s", FormatKRWPDF(r.config.Accounts.Balances().Total())),
		fmt.Sprintf("Guaranteed income: %s/yr (national pension from age %d)",
			FormatKRWPDF(ret.NationalPensionAnnual+ret.OtherGuaranteedIncome), ret.NationalPensionStartAge),
	}
	for i, row := range rows {
		border := "LR"
		if i == len(rows)-1 {
			border = "LRB"
		}
		r.pdf.CellFormat(contentWidth, 7, row, border, 1, "C", true, 0, "")
	}

	// Headline numbers box
	r.pdf.Ln(10)
	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 8, "Plan Headlines", "1", 1, "C", true, 0, "")

	r.pdf.SetFont("Arial", "", 11)
	r.pdf.SetTextColor(50, 50, 50)
	g := r.result.Guardrail
	head := []string{
		fmt.Sprintf("Safe withdrawal band: %s / %s / %s",
			FormatPercent(r.result.Baseline.Band.Low), FormatPercent(r.result.Baseline.Band.Mid), FormatPercent(r.result.Baseline.Band.High)),
		fmt.Sprintf("Guardrail: %s (variance %+.1f%%) -> %s/yr", g.Action, g.Variance*100, FormatKRWPDF(g.NewWithdrawal)),
		fmt.Sprintf("Total tax on withdrawal: %s (effective %s)",
			FormatKRWPDF(r.result.Withdrawal.TotalTax), FormatPercent(r.result.Withdrawal.EffectiveTaxRate())),
	}
	for i, row := range head {
		border := "LR"
		if i == len(head)-1 {
			border = "LRB"
		}
		r.pdf.CellFormat(contentWidth, 7, row, border, 1, "C", true, 0, "")
	}

	r.pdf.Ln(15)
	r.pdf.SetFont("Arial", "I", 9)
	r.pdf.SetTextColor(120, 120, 120)
	r.pdf.MultiCell(contentWidth, 4.5,
		"This document is for informational purposes only and does not constitute financial or tax advice. "+
			"Korean tax rules and pension regulations are subject to change. "+
			"Please consult a qualified advisor before acting on this plan.", "", "C", false)
}

func (r *PDFPlanReport) addWithdrawalPage() {
	r.pdf.AddPage()
	r.drawSectionHeader("Withdrawal Sequence")

	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(50, 50, 50)
	r.pdf.MultiCell(contentWidth, 5, fmt.Sprintf(
		"Guaranteed income covers %s of the %s annual need; the remaining %s is drawn from accounts in tax-priority order.",
		FormatKRWPDF(r.result.GuaranteedNow), FormatKRWPDF(r.result.Guardrail.NewWithdrawal), FormatKRWPDF(r.result.ResidualNeed)),
		"", "L", false)
	r.pdf.Ln(3)

	widths := []float64{10, 75, 35, 35, 25}
	r.drawTableHeader([]string{"#", "Source", "Amount", "Tax", "Rate"}, widths)

	r.pdf.SetFont("Arial", "", 9)
	r.pdf.SetTextColor(50, 50, 50)
	fill := false
	for _, line := range r.result.Withdrawal.Lines {
		r.pdf.SetFillColor(245, 247, 250)
		r.pdf.CellFormat(widths[0], 7, fmt.Sprintf("%d", line.Order), "1", 0, "C", fill, 0, "")
		r.pdf.CellFormat(widths[1], 7, line.Kind.String(), "1", 0, "L", fill, 0, "")
		r.pdf.CellFormat(widths[2], 7, FormatKRWPDF(line.Amount), "1", 0, "R", fill, 0, "")
		r.pdf.CellFormat(widths[3], 7, FormatKRWPDF(line.TaxAmount), "1", 0, "R", fill, 0, "")
		r.pdf.CellFormat(widths[4], 7, FormatPercent(line.TaxRate), "1", 1, "R", fill, 0, "")
		fill = !fill
	}
	r.pdf.SetFont("Arial", "B", 9)
	r.pdf.CellFormat(widths[0]+widths[1], 7, "Total", "1", 0, "L", true, 0, "")
	r.pdf.CellFormat(widths[2], 7, FormatKRWPDF(r.result.Withdrawal.TotalWithdrawal), "1", 0, "R", true, 0, "")
	r.pdf.CellFormat(widths[3], 7, FormatKRWPDF(r.result.Withdrawal.TotalTax), "1", 0, "R", true, 0, "")
	r.pdf.CellFormat(widths[4], 7, FormatPercent(r.result.Withdrawal.EffectiveTaxRate()), "1", 1, "R", true, 0, "")

	if adv := r.result.Withdrawal.CapExceeded; adv != nil {
		choice := "comprehensive filing"
		if adv.ChoseFlat {
			choice = "flat separated taxation"
		}
		r.pdf.Ln(4)
		r.pdf.SetFont("Arial", "", 9)
		r.pdf.MultiCell(contentWidth, 5, fmt.Sprintf(
			"Pension withdrawals exceed the separated withholding cap by %s. "+
				"Comprehensive tax on the excess would be %s versus %s under the flat option; %s is cheaper.",
			FormatKRWPDF(adv.ExcessAmount), FormatKRWPDF(adv.ComprehensiveTax), FormatKRWPDF(adv.FlatTax), choice),
			"", "L", false)
	}
	if !r.result.Withdrawal.FullyFunded {
		r.pdf.Ln(4)
		r.pdf.SetFont("Arial", "B", 9)
		r.pdf.SetTextColor(180, 40, 40)
		r.pdf.MultiCell(contentWidth, 5, fmt.Sprintf(
			"Warning: accounts cover only part of the annual need. Shortfall: %s/yr.",
			FormatKRWPDF(r.result.Withdrawal.Shortfall)), "", "L", false)
		r.pdf.SetTextColor(50, 50, 50)
	}
}

func (r *PDFPlanReport) addAllocationPage() {
	r.pdf.AddPage()
	r.drawSectionHeader("Bucket Allocation")

	bk := r.result.Buckets
	widths := []float64{60, 60, 60}
	r.drawTableHeader([]string{"Bucket", "Covers", "Amount"}, widths)
	r.pdf.SetFont("Arial", "", 9)
	r.pdf.SetTextColor(50, 50, 50)
	r.pdf.SetFillColor(245, 247, 250)
	buckets := []struct {
		name   string
		covers string
		amount float64
	}{
		{"Cash (deposits, MMF)", fmt.Sprintf("years 1-%.0f", bk.Cash.Years), bk.Cash.Amount},
		{"Income (bonds, dividends)", fmt.Sprintf("%.0f years", bk.Income.Years), bk.Income.Amount},
		{"Growth (equities)", fmt.Sprintf("%.0f years", bk.Growth.Years), bk.Growth.Amount},
		{"Healthcare reserve", "held apart", bk.Healthcare.Amount},
	}
	for i, b := range buckets {
		fill := i%2 == 1
		r.pdf.CellFormat(widths[0], 7, b.name, "1", 0, "L", fill, 0, "")
		r.pdf.CellFormat(widths[1], 7, b.covers, "1", 0, "L", fill, 0, "")
		r.pdf.CellFormat(widths[2], 7, FormatKRWPDF(b.amount), "1", 1, "R", fill, 0, "")
	}

	r.pdf.Ln(6)
	r.pdf.SetFont("Arial", "B", 11)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 7, fmt.Sprintf("Market Regime: %s", r.result.Regime), "", 1, "L", false, 0, "")
	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(50, 50, 50)
	r.pdf.MultiCell(contentWidth, 5, r.result.Policy.Action+" "+r.result.Policy.Rebalancing, "", "L", false)

	br := r.result.Bridge
	r.pdf.Ln(6)
	r.drawSectionHeader("Bridge Period")
	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(50, 50, 50)
	if br.BridgeYears <= 0 {
		r.pdf.MultiCell(contentWidth, 5, "No bridge period: guaranteed income starts at retirement.", "", "L", false)
	} else {
		r.pdf.MultiCell(contentWidth, 5, fmt.Sprintf(
			"%d years between retirement and the pension start. Present value of the gap: %s. "+
				"Inflation-adjusted capital to set aside: %s (cash %s, income %s, growth %s).",
			br.BridgeYears, FormatKRWPDF(br.PresentValue), FormatKRWPDF(br.InflationAdjusted),
			FormatKRWPDF(br.Buckets.Cash.Amount), FormatKRWPDF(br.Buckets.Income.Amount), FormatKRWPDF(br.Buckets.Growth.Amount)),
			"", "L", false)
	}
	if br.PostBridgeSufficient {
		r.pdf.MultiCell(contentWidth, 5, "After the pension starts, guaranteed income covers spending.", "", "L", false)
	} else {
		r.pdf.MultiCell(contentWidth, 5, fmt.Sprintf(
			"After the pension starts, %s/yr still comes from the portfolio.", FormatKRWPDF(br.PostBridgeAnnualGap)),
			"", "L", false)
	}
}

func (r *PDFPlanReport) drawSectionHeader(title string) {
	r.pdf.SetFont("Arial", "B", 16)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 10, title, "", 1, "L", false, 0, "")
	r.pdf.SetDrawColor(0, 51, 102)
	r.pdf.Line(marginLeft, r.pdf.GetY(), marginLeft+contentWidth, r.pdf.GetY())
	r.pdf.Ln(5)
}

func (r *PDFPlanReport) drawTableHeader(headers []string, widths []float64) {
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetFont("Arial", "B", 9)
	for i, h := range headers {
		last := 0
		align := "C"
		if i == len(headers)-1 {
			last = 1
		}
		r.pdf.CellFormat(widths[i], 7, h, "1", last, align, true, 0, "")
	}
}
