package application

import (
	"sync"
	"time"

	"github.com/bnema/fyp-cli/internal/ports"
)

// fakeTime is a manual clock and scheduler. Advance fires due callbacks synchronously in time order.
type fakeTime struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	owner   *fakeTime
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

var (
	_ ports.Clock     = (*fakeTime)(nil)
	_ ports.Scheduler = (*fakeTime)(nil)
)

func newFakeTime(now time.Time) *fakeTime {
	return &fakeTime{now: now}
}

func (f *fakeTime) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeTime) AfterFunc(d time.Duration, fn func()) ports.Timer {
	f.mu.Lock()
	defer f.mu.Unlock()

	timer := &fakeTimer{owner: f, at: f.now.Add(d), fn: fn}
	f.timers = append(f.timers, timer)
	return timer
}

func (f *fakeTime) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	for {
		next := f.nextDueLocked(target)
		if next == nil {
			f.now = target
			f.mu.Unlock()
			return
		}
		f.now = next.at
		next.fired = true
		f.mu.Unlock()

		next.fn()

		f.mu.Lock()
	}
}

// Pending returns the fire times of timers that are neither stopped nor fired.
func (f *fakeTime) Pending() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	var pending []time.Time
	for _, timer := range f.timers {
		if !timer.stopped && !timer.fired {
			pending = append(pending, timer.at)
		}
	}
	return pending
}

func (f *fakeTime) nextDueLocked(target time.Time) *fakeTimer {
	var next *fakeTimer
	for _, timer := range f.timers {
		if timer.stopped || timer.fired || timer.at.After(target) {
			continue
		}
		if next == nil || timer.at.Before(next.at) {
			next = timer
		}
	}
	return next
}

func (t *fakeTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}
