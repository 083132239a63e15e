// Package worker runs hive analyses and repairs on background goroutines and
// delivers their outcomes on a channel. Jobs touching the same file run one
// at a time; jobs on different files run in parallel up to the worker count.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joshuapare/regfix/pkg/hive"
	"github.com/joshuapare/regfix/pkg/types"
)

// ErrStopped is returned by Submit after Stop.
var ErrStopped = errors.New("worker: runner stopped")

// Kind selects what a job does.
type Kind int

const (
	KindAnalyze Kind = iota
	KindFix
	KindRestore
)

func (k Kind) String() string {
	switch k {
	case KindAnalyze:
		return "analyze"
	case KindFix:
		return "fix"
	case KindRestore:
		return "restore"
	default:
		return "unknown"
	}
}

// Job is one unit of work.
type Job struct {
	Kind Kind
	Path string

	// Selected and Analysis are the ApplyFixes arguments for KindFix.
	Selected []types.FixType
	Analysis *types.AnalysisResult
}

// Result is the outcome of one job.
type Result struct {
	JobID    string
	Kind     Kind
	Path     string
	Analysis *types.AnalysisResult // KindAnalyze, and KindFix after a re-analysis
	Fix      *types.FixResult      // KindFix
	Err      error
	Elapsed  time.Duration
}

// Config configures a Runner.
type Config struct {
	// Workers is the number of jobs run at once. Default: runtime.NumCPU().
	Workers int

	// QueueSize bounds pending jobs. Default: 64.
	QueueSize int

	// Reanalyze runs Analyze after every successful restore and after every
	// fix that wrote bytes, including one that failed partway, so the result
	// carries the report of what is on disk. The job's own error is kept.
	Reanalyze bool

	// Options are passed to every hive call.
	Options []hive.Option

	// Logger receives job lifecycle events. Nil discards them.
	Logger *slog.Logger
}

type queued struct {
	ctx context.Context
	id  string
	job Job
}

// Runner is a fixed pool of workers.
type Runner struct {
	config  Config
	logger  *slog.Logger
	queue   chan queued
	results chan Result

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// New creates a runner and starts its workers.
func New(cfg *Config) *Runner {
	c := Config{}
	if cfg != nil {
		c = *cfg
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 64
	}
	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := &Runner{
		config:  c,
		logger:  logger,
		queue:   make(chan queued, c.QueueSize),
		results: make(chan Result, c.QueueSize),
		locks:   make(map[string]*sync.Mutex),
	}
	for i := 0; i < c.Workers; i++ {
		r.wg.Add(1)
		go r.worker()
	}
	return r
}

// Results returns the channel every job's Result is sent on. It is closed
// by Stop once all queued jobs have finished.
func (r *Runner) Results() <-chan Result {
	return r.results
}

// Submit queues job and returns its ID. ctx bounds the wait for queue space
// and is checked again just before the job starts; a job already running is
// never interrupted.
func (r *Runner) Submit(ctx context.Context, job Job) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.stopped {
		return "", ErrStopped
	}

	id := uuid.New().String()
	select {
	case r.queue <- queued{ctx: ctx, id: id, job: job}:
		r.logger.Debug("job queued", "job", id, "kind", job.Kind, "path", job.Path)
		return id, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Stop stops accepting jobs, waits for the queued ones, then closes
// Results. The caller must keep draining Results until it is closed.
func (r *Runner) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	close(r.queue)
	r.mu.Unlock()

	r.wg.Wait()
	close(r.results)
}

func (r *Runner) worker() {
	defer r.wg.Done()
	for q := range r.queue {
		r.results <- r.run(q)
	}
}

func (r *Runner) run(q queued) Result {
	res := Result{JobID: q.id, Kind: q.job.Kind, Path: q.job.Path}
	if err := q.ctx.Err(); err != nil {
		res.Err = err
		r.logger.Debug("job cancelled before start", "job", q.id, "error", err)
		return res
	}

	lock := r.pathLock(q.job.Path)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	opts := r.config.Options
	switch q.job.Kind {
	case KindAnalyze:
		res.Analysis, res.Err = hive.Analyze(q.job.Path, opts...)
	case KindFix:
		res.Fix, res.Err = hive.ApplyFixes(q.job.Path, q.job.Selected, q.job.Analysis, opts...)
	case KindRestore:
		res.Err = hive.RestoreBackup(q.job.Path, opts...)
	default:
		res.Err = errors.New("worker: unknown job kind")
	}
	if r.config.Reanalyze && needsReanalysis(q.job.Kind, res) {
		analysis, err := hive.Analyze(q.job.Path, opts...)
		res.Analysis = analysis
		switch {
		case res.Err == nil:
			res.Err = err
		case err != nil:
			r.logger.Warn("re-analysis after failed job failed", "job", q.id, "path", q.job.Path, "error", err)
		}
	}
	res.Elapsed = time.Since(start)

	r.logger.Debug("job finished",
		"job", q.id,
		"kind", q.job.Kind,
		"path", q.job.Path,
		"elapsed", res.Elapsed,
		"error", res.Err,
	)
	return res
}

// needsReanalysis reports whether the file may differ from the job's input
// analysis after res.
func needsReanalysis(kind Kind, res Result) bool {
	switch kind {
	case KindFix:
		return res.Err == nil || res.Fix.Changed()
	case KindRestore:
		return res.Err == nil
	default:
		return false
	}
}

// pathLock returns the mutex serializing jobs on path.
func (r *Runner) pathLock(path string) *sync.Mutex {
	key := filepath.Clean(path)
	if abs, err := filepath.Abs(key); err == nil {
		key = abs
	}

	r.locksMu.Lock()
	defer r.locksMu.Unlock()
	m, ok := r.locks[key]
	if !ok {
		m = &sync.Mutex{}
		r.locks[key] = m
	}
	return m
}

// AnalyzeAll analyzes every path with at most workers in flight and returns
// the results in input order.
func AnalyzeAll(ctx context.Context, paths []string, workers int, opts ...hive.Option) []Result {
	r := New(&Config{Workers: workers, QueueSize: len(paths) + 1, Options: opts})

	index := make(map[string]int, len(paths))
	out := make([]Result, len(paths))
	for i, p := range paths {
		id, err := r.Submit(ctx, Job{Kind: KindAnalyze, Path: p})
		if err != nil {
			out[i] = Result{Kind: KindAnalyze, Path: p, Err: err}
			continue
		}
		index[id] = i
	}
	go r.Stop()

	for res := range r.Results() {
		out[index[res.JobID]] = res
	}
	return out
}
