package watch

import (
	"sort"
	"sync"
	"time"
)

// Debouncer collects changed paths and emits them as one batch once no new
// change has arrived for the quiet interval. Repeated changes to a path
// inside the window collapse into one entry.
type Debouncer struct {
	interval time.Duration
	paths    map[string]struct{}
	mu       sync.Mutex
	timer    *time.Timer
	output   chan []string
}

// NewDebouncer creates a debouncer with the specified quiet interval.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		paths:    make(map[string]struct{}),
		output:   make(chan []string, 16),
	}
}

// Output returns the channel that receives batches, sorted by path.
func (d *Debouncer) Output() <-chan []string {
	return d.output
}

// Add records a change to path and restarts the quiet interval.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.paths[path] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.flush)
}

// Stop cancels a pending flush. Changes not yet emitted are dropped.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.paths = make(map[string]struct{})
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.paths) == 0 {
		return
	}
	batch := make([]string, 0, len(d.paths))
	for p := range d.paths {
		batch = append(batch, p)
	}
	sort.Strings(batch)
	d.paths = make(map[string]struct{})

	select {
	case d.output <- batch:
	default:
		// Reader is behind; requeue so the change is not lost.
		for _, p := range batch {
			d.paths[p] = struct{}{}
		}
		d.timer = time.AfterFunc(d.interval, d.flush)
	}
}
