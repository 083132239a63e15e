package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/regfix/internal/report"
	"github.com/joshuapare/regfix/pkg/hive"
	"github.com/joshuapare/regfix/pkg/types"
)

var (
	analyzePDF    string
	analyzeStrict bool
)

func init() {
	rootCmd.AddCommand(newAnalyzeCmd())
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <hive>",
		Short: "Analyze a hive header and report issues",
		Long: `Parses the base block of a registry hive, recomputes its checksum and
runs every validation rule. The file is only read.

Exit status is 0 whenever the analysis itself succeeds, unless --strict is
given, in which case critical issues exit with status 2.`,
		Example: `  regfix analyze SYSTEM
  regfix analyze --json SYSTEM
  regfix analyze --pdf system-report.pdf SYSTEM
  regfix analyze --strict SYSTEM || echo "hive needs attention"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(args)
		},
	}
	cmd.Flags().StringVar(&analyzePDF, "pdf", "", "Also write a PDF report to this file")
	cmd.Flags().BoolVar(&analyzeStrict, "strict", false, "Exit with status 2 when critical issues are found")
	return cmd
}

func runAnalyze(args []string) error {
	hivePath := args[0]
	printVerbose("Analyzing hive: %s\n", hivePath)

	result, err := hive.Analyze(hivePath, hiveOptions()...)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", hivePath, err)
	}

	if analyzePDF != "" {
		if err := report.SavePDF(result, analyzePDF); err != nil {
			return fmt.Errorf("write PDF report: %w", err)
		}
		printVerbose("PDF report written to: %s\n", analyzePDF)
	}

	if err := printAnalysis(result); err != nil {
		return err
	}
	return strictExit(analyzeStrict, result.HasCritical())
}

// printAnalysis writes result as JSON or text, honoring --quiet.
func printAnalysis(result *types.AnalysisResult) error {
	if jsonOut {
		return printJSON(result)
	}
	if quiet {
		return nil
	}
	return report.WriteText(os.Stdout, result, textOptions())
}

func strictExit(strict, critical bool) error {
	if strict && critical {
		return &exitError{code: 2, msg: "critical issues found"}
	}
	return nil
}
