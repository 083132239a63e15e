// Package metrics records analysis and repair activity in a Prometheus
// registry. A nil *Recorder is valid and records nothing, so library callers
// that do not care about metrics pay only a nil check.
package metrics

import (
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/joshuapare/regfix/pkg/types"
)

// Namespace prefixes every metric name.
const Namespace = "regfix"

// Outcome label values.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeApplied = "applied"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
	OutcomeDryRun  = "dry_run" // resolved by a dry run, nothing written
)

// Recorder owns a registry and the collectors registered in it.
type Recorder struct {
	registry *prometheus.Registry

	analyses *prometheus.CounterVec
	issues   *prometheus.CounterVec
	fixes    *prometheus.CounterVec
	backups  prometheus.Counter
	duration *prometheus.HistogramVec
}

// Config configures a Recorder.
type Config struct {
	// Registry receives the collectors (nil = new registry).
	Registry *prometheus.Registry

	// RuntimeMetrics also registers the Go and process collectors.
	RuntimeMetrics bool
}

// New creates a Recorder and registers its collectors.
func New(cfg *Config) *Recorder {
	if cfg == nil {
		cfg = &Config{}
	}
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.RuntimeMetrics {
		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	r := &Recorder{
		registry: registry,
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "analyses_total",
			Help:      "Header analyses by outcome.",
		}, []string{"outcome"}),
		issues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "issues_total",
			Help:      "Validation issues reported, by severity and whether a fix was offered.",
		}, []string{"severity", "fixable"}),
		fixes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "fixes_total",
			Help:      "Selected fixes by type and outcome.",
		}, []string{"type", "outcome"}),
		backups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "backups_total",
			Help:      "Backup files written before applying fixes.",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of analyze and fix operations.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"operation"}),
	}
	registry.MustRegister(r.analyses, r.issues, r.fixes, r.backups, r.duration)
	return r
}

// Registry returns the registry the collectors live in.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveAnalysis records one Analyze call.
func (r *Recorder) ObserveAnalysis(result *types.AnalysisResult, err error, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.duration.WithLabelValues("analyze").Observe(elapsed.Seconds())
	if err != nil {
		r.analyses.WithLabelValues(OutcomeError).Inc()
		return
	}
	r.analyses.WithLabelValues(OutcomeOK).Inc()
	for _, is := range result.Issues {
		fixable := "false"
		if is.Fixable() {
			fixable = "true"
		}
		r.issues.WithLabelValues(is.Severity.String(), fixable).Inc()
	}
}

// ObserveFixes records one ApplyFixes call. selected is what the caller
// asked for; result says what happened to it. Fixes resolved by a dry run
// are counted as OutcomeDryRun, never as applied.
func (r *Recorder) ObserveFixes(selected []types.FixType, result *types.FixResult, dryRun bool, err error, elapsed time.Duration) {
	if r == nil || result == nil {
		return
	}
	r.duration.WithLabelValues("fix").Observe(elapsed.Seconds())
	if result.BackupPath != "" {
		r.backups.Inc()
	}
	applied := OutcomeApplied
	if dryRun {
		applied = OutcomeDryRun
	}
	for _, t := range result.Applied {
		r.fixes.WithLabelValues(t.String(), applied).Inc()
	}
	for _, t := range result.Skipped {
		r.fixes.WithLabelValues(t.String(), OutcomeSkipped).Inc()
	}
	if err == nil {
		return
	}
	// The first selected type neither applied nor skipped is the one that failed.
	for _, t := range selected {
		if !slices.Contains(result.Applied, t) && !slices.Contains(result.Skipped, t) {
			r.fixes.WithLabelValues(t.String(), OutcomeFailed).Inc()
			return
		}
	}
}

// WriteTextfile writes the registry to path in the text exposition format
// read by node_exporter's textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
