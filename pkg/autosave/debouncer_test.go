package autosave

import (
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeTimer struct {
	at      time.Duration
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	timer := &fakeTimer{at: c.now + d, fn: fn}
	c.timers = append(c.timers, timer)
	return timer
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	var rest []*fakeTimer
	for _, timer := range c.timers {
		switch {
		case timer.stopped:
		case timer.at <= c.now:
			due = append(due, timer)
		default:
			rest = append(rest, timer)
		}
	}
	c.timers = rest
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, timer := range due {
		timer.stopped = true
		timer.fn()
	}
}

func newTestDebouncer(delay time.Duration) (*Debouncer, *fakeClock) {
	clock := &fakeClock{}
	return New(WithDelay(delay), WithAfterFunc(clock.AfterFunc)), clock
}

func TestDebouncerCoalescesBursts(t *testing.T) {
	debouncer, clock := newTestDebouncer(5 * time.Second)

	var writes []int
	for i := 1; i <= 5; i++ {
		value := i
		debouncer.Schedule(func() { writes = append(writes, value) })
		clock.Advance(time.Second)
	}
	if len(writes) != 0 {
		t.Fatalf("expected no writes during the burst, got %v", writes)
	}
	if !debouncer.Pending() {
		t.Fatalf("expected a pending save")
	}

	clock.Advance(5 * time.Second)
	if len(writes) != 1 || writes[0] != 5 {
		t.Fatalf("expected a single write of the final state, got %v", writes)
	}
	if debouncer.Pending() {
		t.Fatalf("expected nothing pending after the write")
	}
}

func TestDebouncerCancel(t *testing.T) {
	debouncer, clock := newTestDebouncer(time.Second)
	ran := false
	debouncer.Schedule(func() { ran = true })
	debouncer.Cancel()
	clock.Advance(2 * time.Second)
	if ran {
		t.Fatalf("cancelled task ran")
	}
}

func TestDebouncerFlush(t *testing.T) {
	debouncer, clock := newTestDebouncer(time.Second)
	if debouncer.Flush() {
		t.Fatalf("flush with nothing pending reported a run")
	}

	runs := 0
	debouncer.Schedule(func() { runs++ })
	if !debouncer.Flush() {
		t.Fatalf("expected flush to run the task")
	}
	clock.Advance(2 * time.Second)
	if runs != 1 {
		t.Fatalf("expected exactly one run, got %d", runs)
	}
}

func TestDebouncerRealTimer(t *testing.T) {
	debouncer := New(WithDelay(10 * time.Millisecond))
	var runs atomic.Int32
	done := make(chan struct{})
	for i := 0; i < 3; i++ {
		debouncer.Schedule(func() {
			if runs.Add(1) == 1 {
				close(done)
			}
		})
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("task never ran")
	}
	time.Sleep(30 * time.Millisecond)
	if got := runs.Load(); got != 1 {
		t.Fatalf("expected one run, got %d", got)
	}
}

func TestDebouncerDefaults(t *testing.T) {
	if got := New(WithDelay(-1)).Delay(); got != DefaultDelay {
		t.Fatalf("delay = %v, want %v", got, DefaultDelay)
	}
}
