package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/joshuapare/regfix/internal/repair"
	"github.com/joshuapare/regfix/internal/report"
	"github.com/joshuapare/regfix/internal/worker"
	"github.com/joshuapare/regfix/pkg/types"
)

var (
	scanConcurrency int
	scanStrict      bool
)

func init() {
	rootCmd.AddCommand(newScanCmd())
}

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <pattern>...",
		Short: "Analyze every hive matching the given patterns",
		Long: `Expands each pattern (** matches any number of directories) and analyzes
the matching files in parallel, printing one verdict line per file.

Files that are not hives are reported as errors and do not stop the scan.`,
		Example: `  regfix scan '/mnt/windows/System32/config/*'
  regfix scan --strict 'images/**/NTUSER.DAT'
  regfix scan --json 'hives/**'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(contextOf(cmd), args)
		},
	}
	cmd.Flags().IntVarP(&scanConcurrency, "concurrency", "c", 0, "Files analyzed at once (default from config)")
	cmd.Flags().BoolVar(&scanStrict, "strict", false, "Exit with status 2 when any file has critical issues")
	return cmd
}

// scanEntry is one line of scan --json output.
type scanEntry struct {
	Path   string                `json:"path"`
	Result *types.AnalysisResult `json:"result,omitempty"`
	Error  string                `json:"error,omitempty"`
}

func runScan(ctx context.Context, patterns []string) error {
	paths, err := expandPatterns(patterns)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files match %v", patterns)
	}

	workers := scanConcurrency
	if workers <= 0 {
		workers = cfg.Scan.Concurrency
	}
	printVerbose("Scanning %d file(s) with %d worker(s)\n", len(paths), workers)

	results := worker.AnalyzeAll(ctx, paths, workers, hiveOptions()...)

	var entries []scanEntry
	var failed, withIssues, critical int
	for _, res := range results {
		entry := scanEntry{Path: res.Path, Result: res.Analysis}
		if res.Err != nil {
			failed++
			entry.Error = res.Err.Error()
		} else if len(res.Analysis.Issues) > 0 {
			withIssues++
			if res.Analysis.HasCritical() {
				critical++
			}
		}
		entries = append(entries, entry)

		if jsonOut {
			continue
		}
		if res.Err != nil {
			printInfo("%s: %s\n", res.Path, report.ErrorSummary(res.Err, textOptions()))
		} else {
			printInfo("%s: %s\n", res.Path, report.Summary(res.Analysis, textOptions()))
		}
	}

	if jsonOut {
		if err := printJSON(entries); err != nil {
			return err
		}
	} else {
		printInfo("\nScanned %d file(s): %d clean, %d with issues, %d failed\n",
			len(results), len(results)-withIssues-failed, withIssues, failed)
	}
	return strictExit(scanStrict, critical > 0)
}

// expandPatterns globs each pattern, keeps regular files, and drops
// duplicates and our own .backup copies.
func expandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if seen[m] || isBackup(m) {
				continue
			}
			if info, err := os.Stat(m); err != nil || !info.Mode().IsRegular() {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}
	return out, nil
}

func isBackup(path string) bool {
	return strings.HasSuffix(path, repair.BackupSuffix)
}
