// Package debounce implements the quiet-period policy the edit → recompile
// → update pipeline needs between a file-watcher event and a recompile
// (SPEC_FULL.md's supplemented feature #4, grounded on
// watch/src/debounce.rs's DebouncedChanges): the watcher itself is out of
// scope for this module, but the coalescing policy it depends on is a
// small, independently testable piece of core-side logic.
package debounce

import (
	"context"
	"time"
)

// Debouncer coalesces a rapid burst of Notify calls into a single signal
// on Changes: any Notify arriving within delay of the previous one resets
// the wait, and only the first quiet period of at least delay causes a
// value to be forwarded.
type Debouncer struct {
	delay   time.Duration
	in      chan struct{}
	changes chan struct{}
}

// New starts a Debouncer that forwards to Changes no sooner than delay
// after the most recent Notify. ctx stops the background goroutine and
// closes Changes.
func New(ctx context.Context, delay time.Duration) *Debouncer {
	d := &Debouncer{
		delay:   delay,
		in:      make(chan struct{}, 1),
		changes: make(chan struct{}),
	}
	go d.run(ctx)
	return d
}

// Notify records that a change happened. It never blocks: a notification
// already queued and not yet picked up is enough, the same way the
// original's watch channel coalesces sends that arrive before the
// receiver observes the previous one.
func (d *Debouncer) Notify() {
	select {
	case d.in <- struct{}{}:
	default:
	}
}

// Changes receives one value per debounced batch of Notify calls. It is
// closed when ctx is done.
func (d *Debouncer) Changes() <-chan struct{} {
	return d.changes
}

func (d *Debouncer) run(ctx context.Context) {
	defer close(d.changes)
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.in:
		}

		if !d.waitOutQuietPeriod(ctx) {
			return
		}

		select {
		case d.changes <- struct{}{}:
		case <-ctx.Done():
			return
		}
	}
}

// waitOutQuietPeriod blocks until delay has passed without a Notify,
// restarting the wait on every Notify it observes in the meantime. It
// reports false if ctx ended first.
func (d *Debouncer) waitOutQuietPeriod(ctx context.Context) bool {
	timer := time.NewTimer(d.delay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-d.in:
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(d.delay)
		case <-timer.C:
			return true
		}
	}
}
