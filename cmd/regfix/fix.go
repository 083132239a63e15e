package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/joshuapare/regfix/internal/report"
	"github.com/joshuapare/regfix/pkg/hive"
	"github.com/joshuapare/regfix/pkg/types"
)

var (
	fixTypes  []string
	fixAll    bool
	fixYes    bool
	fixDryRun bool
)

func init() {
	rootCmd.AddCommand(newFixCmd())
}

func newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix <hive>",
		Short: "Repair the fixable header fields of a hive",
		Long: `Analyzes a hive, then applies the selected fixes in place.

The fix command:
1. Runs the analysis and prints the report
2. Selects fixes from --fix, --all, or by asking for each one offered
3. Copies the hive to <hive>.backup
4. Writes the selected fields, then the recomputed checksum if needed
5. Analyzes again and prints the refreshed report

Fix types: checksum, hive-bins-size, sequence-numbers.`,
		Example: `  # Ask before each offered fix
  regfix fix SYSTEM

  # Apply every offered fix without asking
  regfix fix --all SYSTEM

  # Apply only the checksum fix
  regfix fix --fix checksum SYSTEM

  # Show what would be written
  regfix fix --all --dry-run SYSTEM`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(args)
		},
	}
	cmd.Flags().StringSliceVarP(&fixTypes, "fix", "f", nil, "Fix type to apply (repeatable)")
	cmd.Flags().BoolVarP(&fixAll, "all", "a", false, "Apply every fix the analysis offers")
	cmd.Flags().BoolVarP(&fixYes, "yes", "y", false, "Answer yes to every prompt")
	cmd.Flags().BoolVarP(&fixDryRun, "dry-run", "n", false, "Report what would be written without changing the file")
	return cmd
}

// fixOutput is the --json shape of a fix run.
type fixOutput struct {
	Analysis  *types.AnalysisResult `json:"analysis"`
	Fix       *types.FixResult      `json:"fix"`
	DryRun    bool                  `json:"dry_run"`
	Refreshed *types.AnalysisResult `json:"refreshed,omitempty"`
}

func runFix(args []string) error {
	hivePath := args[0]

	selected, err := parseFixFlags(fixTypes)
	if err != nil {
		return err
	}

	analysis, err := hive.Analyze(hivePath, hiveOptions()...)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", hivePath, err)
	}
	if !jsonOut {
		if err := printAnalysis(analysis); err != nil {
			return err
		}
		printInfo("\n")
	}

	if len(analysis.FixTypes()) == 0 {
		if jsonOut {
			return printJSON(fixOutput{Analysis: analysis, Fix: &types.FixResult{}, DryRun: fixDryRun})
		}
		printInfo("No fixable issues found.\n")
		return nil
	}

	switch {
	case len(selected) > 0:
	case fixAll || fixYes:
		selected = analysis.FixTypes()
	case jsonOut:
		return fmt.Errorf("--json needs --fix, --all or --yes")
	default:
		selected, err = promptFixes(analysis)
		if err != nil {
			return err
		}
	}
	if len(selected) == 0 {
		printInfo("No fixes selected.\n")
		return nil
	}

	opts := append(hiveOptions(), hive.WithDryRun(fixDryRun))
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " Applying fixes..."
	if !quiet && !jsonOut {
		s.Start()
	}
	res, fixErr := hive.ApplyFixes(hivePath, selected, analysis, opts...)
	s.Stop()

	if fixErr != nil {
		if res != nil && len(res.Applied) > 0 && !jsonOut {
			_ = report.WriteFixText(os.Stdout, res, fixDryRun, textOptions())
		}
		if res != nil && res.BackupPath != "" {
			return fmt.Errorf("fix %s: %w (original preserved at %s)", hivePath, fixErr, res.BackupPath)
		}
		return fmt.Errorf("fix %s: %w", hivePath, fixErr)
	}

	out := fixOutput{Analysis: analysis, Fix: res, DryRun: fixDryRun}
	if res.Changed() && !fixDryRun {
		out.Refreshed, err = hive.Analyze(hivePath, hiveOptions()...)
		if err != nil {
			return fmt.Errorf("re-analyze %s: %w", hivePath, err)
		}
	}

	if jsonOut {
		return printJSON(out)
	}
	if !quiet {
		if err := report.WriteFixText(os.Stdout, res, fixDryRun, textOptions()); err != nil {
			return err
		}
	}
	if out.Refreshed != nil {
		printInfo("\nRefreshed analysis:\n")
		return printAnalysis(out.Refreshed)
	}
	return nil
}

func parseFixFlags(values []string) ([]types.FixType, error) {
	var out []types.FixType
	for _, v := range values {
		t, err := types.ParseFixType(v)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// promptFixes asks about each offered fix on stdout and reads answers from
// stdin. Only "y" or "yes" selects a fix; end of input declines the rest.
func promptFixes(analysis *types.AnalysisResult) ([]types.FixType, error) {
	in := bufio.NewReader(stdin)
	var selected []types.FixType
	for _, t := range analysis.FixTypes() {
		fix, _ := analysis.FixFor(t)
		fmt.Fprintf(os.Stdout, "Apply %s fix (%s)? (y/n): ", t, fix)

		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(os.Stdout)
			if errors.Is(err, io.EOF) {
				return selected, nil
			}
			return nil, fmt.Errorf("read answer: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			selected = append(selected, t)
		}
	}
	return selected, nil
}
