package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Korean Retirement Drawdown Optimiser

Evaluates a retirement drawdown plan under Korean (2025) tax rules:

  - Safe withdrawal rate band for the planning horizon, with
    conservative / moderate / aggressive scenarios
  - Guyton-Klinger guardrail check against the portfolio target,
    adjusting the withdrawal by 10%% when variance reaches 20%%
  - Tax-efficient withdrawal sequencing across five account types
    (general taxable -> ISA -> non-taxable pension -> deferred
    retirement pension -> taxable pension), including the 14M won
    separated withholding cap comparison
  - Three-bucket allocation (cash / income / growth) with a
    healthcare reserve and a market-regime policy
  - Bridge period financing for the years before the national
    pension starts, with early/delayed claiming factors

Usage:
  %s [options]

Options:
`, os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  %s                           Evaluate plan with config.yaml (built-in defaults if missing)
  %s -config my.yaml           Use custom configuration file
  %s -details                  Show per-line rationale and the monthly schedule
  %s -html                     Write an HTML report next to the console output
  %s -pdf                      Write a PDF action plan
  %s -write-config             Write the built-in defaults to config.yaml and exit

Configuration:
  Edit config.yaml to set the retiree profile, account balances, and
  rule parameters. Rates accept percent notation ("3.5%%") or decimals.
`, os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0])
	}

	configFile := flag.String("config", "config.yaml", "Path to YAML configuration file")
	showDetails := flag.Bool("details", false, "Show line rationales and the monthly execution schedule")
	generateHTML := flag.Bool("html", false, "Generate an HTML report")
	generatePDF := flag.Bool("pdf", false, "Generate a PDF action plan")
	outDir := flag.String("out", ".", "Directory for generated reports")
	writeConfig := flag.Bool("write-config", false, "Write the built-in default config to the -config path and exit")
	flag.Parse()

	if *writeConfig {
		config, err := LoadDefaultConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error building default config: %v\n", err)
			os.Exit(1)
		}
		if err := SaveConfig(config, *configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote default configuration to %s\n", *configFile)
		return
	}

	config, err := LoadConfig(*configFile)
	if os.IsNotExist(err) {
		fmt.Printf("No %s found, using built-in defaults (run with -write-config to create one)\n\n", *configFile)
		config, err = LoadDefaultConfig()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	result, err := EvaluatePlan(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error evaluating plan: %v\n", err)
		os.Exit(1)
	}

	PrintHeader(config)
	PrintPlan(result, *showDetails)

	stamp := time.Now().Format("2006-01-02")
	if *generateHTML {
		filename := filepath.Join(*outDir, fmt.Sprintf("drawdown-plan-%s.html", stamp))
		if err := GenerateHTMLReport(result, config, filename); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing HTML report: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("HTML report written to %s\n", filename)
	}
	if *generatePDF {
		data, err := GeneratePlanPDFReport(config, result)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error building PDF report: %v\n", err)
			os.Exit(1)
		}
		filename := filepath.Join(*outDir, fmt.Sprintf("drawdown-plan-%s.pdf", stamp))
		if err := os.WriteFile(filename, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing PDF report: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("PDF report written to %s\n", filename)
	}
}
