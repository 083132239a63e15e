// Package watch re-analyzes hive files whenever they change on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/joshuapare/regfix/pkg/hive"
	"github.com/joshuapare/regfix/pkg/types"
)

// DefaultDebounce is the quiet interval used when Options.Debounce is zero.
const DefaultDebounce = 250 * time.Millisecond

// Update is the analysis of a watched file after a change.
type Update struct {
	Path   string
	Result *types.AnalysisResult
	Err    error
	At     time.Time
}

// Options configures a Watcher.
type Options struct {
	Debounce    time.Duration
	Logger      *slog.Logger
	HiveOptions []hive.Option
}

// Watcher watches the parent directories of a set of hive files, so a file
// replaced by rename stays watched.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	targets   map[string]bool
	order     []string // targets as given to New, duplicates dropped
	logger    *slog.Logger
	hiveOpts  []hive.Option
	updates   chan Update
}

// New watches paths. Paths must name files in existing directories.
func New(paths []string, opts Options) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("watch: no paths given")
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		debouncer: NewDebouncer(opts.Debounce),
		targets:   make(map[string]bool, len(paths)),
		logger:    opts.Logger,
		hiveOpts:  opts.HiveOptions,
		updates:   make(chan Update, len(paths)),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsWatcher.Close()
			return nil, err
		}
		if !w.targets[abs] {
			w.order = append(w.order, abs)
		}
		w.targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsWatcher.Add(dir); err != nil {
			fsWatcher.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// Updates returns the channel analyses are delivered on. It is closed when
// Run returns.
func (w *Watcher) Updates() <-chan Update {
	return w.updates
}

// Run analyzes every target once in the order given to New, then again after each debounced change,
// until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.updates)
	defer w.debouncer.Stop()

	if !w.analyze(ctx, w.order) {
		return ctx.Err()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)

		case batch := <-w.debouncer.Output():
			if !w.analyze(ctx, batch) {
				return ctx.Err()
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path, err := filepath.Abs(event.Name)
	if err != nil || !w.targets[path] {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return
	}
	w.logger.Debug("hive changed", "path", path, "op", event.Op.String())
	w.debouncer.Add(path)
}

// analyze sends one Update per path. It reports false if ctx ended first.
func (w *Watcher) analyze(ctx context.Context, paths []string) bool {
	for _, p := range paths {
		res, err := hive.Analyze(p, w.hiveOpts...)
		u := Update{Path: p, Result: res, Err: err, At: time.Now()}
		select {
		case w.updates <- u:
		case <-ctx.Done():
			return false
		}
	}
	return true
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	return w.fsWatcher.Close()
}
