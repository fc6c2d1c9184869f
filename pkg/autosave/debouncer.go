// Package autosave coalesces bursts of changes into a single delayed save.
package autosave

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period before a scheduled save runs.
const DefaultDelay = 5 * time.Second

// Timer is the handle returned by an AfterFunc.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Debouncer.
type Option func(*Debouncer)

// WithDelay sets the quiet period. Non-positive values are ignored.
func WithDelay(delay time.Duration) Option {
	return func(d *Debouncer) {
		if delay > 0 {
			d.delay = delay
		}
	}
}

// WithAfterFunc replaces time.AfterFunc, mainly for tests.
func WithAfterFunc(after AfterFunc) Option {
	return func(d *Debouncer) {
		if after != nil {
			d.after = after
		}
	}
}

// Debouncer holds at most one pending task. Scheduling again stops the
// pending timer and replaces the task.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	after   AfterFunc
	timer   Timer
	task    func()
	version uint64
}

// New returns a Debouncer with DefaultDelay.
func New(options ...Option) *Debouncer {
	d := &Debouncer{
		delay: DefaultDelay,
		after: realAfterFunc,
	}
	for _, opt := range options {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Delay returns the configured quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Schedule runs task after the delay unless another Schedule, Cancel or
// Flush happens first.
func (d *Debouncer) Schedule(task func()) {
	if task == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.version++
	version := d.version
	d.task = task
	d.timer = d.after(d.delay, func() { d.fire(version) })
}

// Cancel drops the pending task, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.task = nil
}

// Flush runs the pending task now. It reports whether a task ran.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	task := d.task
	d.stopLocked()
	d.task = nil
	d.mu.Unlock()

	if task == nil {
		return false
	}
	task()
	return true
}

// Pending reports whether a task is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.task != nil
}

func (d *Debouncer) fire(version uint64) {
	d.mu.Lock()
	if version != d.version || d.task == nil {
		d.mu.Unlock()
		return
	}
	task := d.task
	d.task = nil
	d.timer = nil
	d.mu.Unlock()

	task()
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.version++
}
