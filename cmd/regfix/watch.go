package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshuapare/regfix/internal/logging"
	"github.com/joshuapare/regfix/internal/report"
	"github.com/joshuapare/regfix/internal/watch"
	"github.com/joshuapare/regfix/pkg/types"
)

var watchDebounce time.Duration

func init() {
	rootCmd.AddCommand(newWatchCmd())
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <hive>...",
		Short: "Re-analyze hives whenever they change",
		Long: `Prints an analysis of each hive, then a fresh one every time the file is
written or replaced, until interrupted.`,
		Example: `  regfix watch SYSTEM
  regfix watch --json SYSTEM SOFTWARE`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, args)
		},
	}
	cmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Quiet period before re-analyzing")
	return cmd
}

// watchEntry is one line of watch --json output.
type watchEntry struct {
	Time   time.Time             `json:"time"`
	Path   string                `json:"path"`
	Result *types.AnalysisResult `json:"result,omitempty"`
	Error  string                `json:"error,omitempty"`
}

func runWatch(ctx context.Context, paths []string) error {
	w, err := watch.New(paths, watch.Options{
		Debounce:    watchDebounce,
		Logger:      logging.L,
		HiveOptions: hiveOptions(),
	})
	if err != nil {
		return err
	}
	defer w.Close()

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	for u := range w.Updates() {
		if err := printUpdate(u); err != nil {
			return err
		}
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printUpdate(u watch.Update) error {
	if jsonOut {
		entry := watchEntry{Time: u.At, Path: u.Path, Result: u.Result}
		if u.Err != nil {
			entry.Error = u.Err.Error()
		}
		return printJSON(entry)
	}

	printInfo("=== %s  %s ===\n", u.At.Format("15:04:05"), u.Path)
	if u.Err != nil {
		printInfo("%s\n\n", report.ErrorSummary(u.Err, textOptions()))
		return nil
	}
	if err := printAnalysis(u.Result); err != nil {
		return fmt.Errorf("print analysis: %w", err)
	}
	printInfo("\n")
	return nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
