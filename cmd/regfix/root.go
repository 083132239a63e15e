package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/joshuapare/regfix/internal/config"
	"github.com/joshuapare/regfix/internal/logging"
	"github.com/joshuapare/regfix/internal/metrics"
	"github.com/joshuapare/regfix/internal/report"
	"github.com/joshuapare/regfix/pkg/hive"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	noColor    bool
	configPath string

	// Set up by PersistentPreRunE
	cfg      = config.Default()
	recorder = metrics.New(nil)

	// stdin is where fix prompts read answers
	stdin io.Reader = os.Stdin
)

var rootCmd = &cobra.Command{
	Use:   "regfix",
	Short: "Inspect and repair Windows registry hive headers",
	Long: `regfix analyzes the 4096-byte base block of Windows registry hive files
and repairs the fields that can be recomputed: the header checksum, the hive
bins size and the sequence numbers. A .backup copy is written before any
change.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return teardown()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and debug logging")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $HOME/"+config.FileName+")")
}

// setup loads the config file and initializes logging.
func setup(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	} else if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("config file: %w", err)
	}

	loaded, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	cfg = loaded
	if !cfg.Color {
		noColor = true
	}
	color.NoColor = color.NoColor || noColor

	logOpts, err := logging.OptionsFromConfig(cfg.Log)
	if err != nil {
		return err
	}
	if verbose {
		logOpts.Enabled = true
		logOpts.Level = slog.LevelDebug
	}
	if err := logging.Init(logOpts); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	logging.Debug("regfix starting", "command", cmd.CommandPath(), "args", args, "config", path)
	return nil
}

// teardown exports metrics and closes the log.
func teardown() error {
	var errs []error
	if cfg.Metrics.Textfile != "" {
		if err := recorder.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	errs = append(errs, logging.Close())
	return errors.Join(errs...)
}

// exitError carries a non-zero exit status for a run that otherwise
// succeeded (e.g. --strict with critical issues).
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	var exit *exitError
	if errors.As(err, &exit) {
		_ = teardown()
		if exit.msg != "" && !quiet {
			fmt.Fprintln(os.Stderr, exit.msg)
		}
		os.Exit(exit.code)
	}
	_ = teardown()
	printError("%v\n", err)
	os.Exit(1)
}

// hiveOptions are the options every engine call gets.
func hiveOptions() []hive.Option {
	return []hive.Option{hive.WithLogger(logging.L), hive.WithMetrics(recorder)}
}

func textOptions() report.TextOptions {
	return report.TextOptions{NoColor: noColor}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	return report.WriteJSON(os.Stdout, v)
}
