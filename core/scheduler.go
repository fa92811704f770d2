// Copyright © 2026 Texemoji contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: core/scheduler.go
// Summary: Defers work onto the UI-owning loop, optionally delayed.

package core

import (
	"sync"
	"time"
)

// Scheduler defers work onto the single UI-owning event loop.
// A zero delay means "next loop tick", never synchronous execution:
// callers rely on the text layout settling before the work runs.
// The returned cancel is best-effort: it only stops work that has not
// started yet.
type Scheduler interface {
	Schedule(work func(), delay time.Duration) (cancel func())
}

// task wraps queued work so a cancel issued before the loop drains the
// queue can still retract it.
type task struct {
	mu        sync.Mutex
	work      func()
	cancelled bool
}

func (t *task) cancel() {
	t.mu.Lock()
	t.cancelled = true
	t.mu.Unlock()
}

func (t *task) run() {
	t.mu.Lock()
	done := t.cancelled
	w := t.work
	t.mu.Unlock()
	if !done && w != nil {
		w()
	}
}

// LoopScheduler queues work for a run loop that drains it via
// RunPending on each tick. Delayed work re-enters the queue through a
// timer, so it still executes on the loop, never on the timer
// goroutine.
type LoopScheduler struct {
	mu     sync.Mutex
	queue  []*task
	notify chan<- bool
}

// NewLoopScheduler creates an empty scheduler.
func NewLoopScheduler() *LoopScheduler { return &LoopScheduler{} }

// SetWakeNotifier installs the channel poked whenever work becomes
// runnable, in the same non-blocking style as widget refresh
// notifiers.
func (s *LoopScheduler) SetWakeNotifier(ch chan<- bool) {
	s.mu.Lock()
	s.notify = ch
	s.mu.Unlock()
}

// Schedule queues work for the next tick, or after delay if non-zero.
func (s *LoopScheduler) Schedule(work func(), delay time.Duration) func() {
	t := &task{work: work}
	if delay <= 0 {
		s.enqueue(t)
		return t.cancel
	}
	timer := time.AfterFunc(delay, func() { s.enqueue(t) })
	return func() {
		timer.Stop()
		t.cancel()
	}
}

func (s *LoopScheduler) enqueue(t *task) {
	s.mu.Lock()
	s.queue = append(s.queue, t)
	ch := s.notify
	s.mu.Unlock()
	if ch != nil {
		select {
		case ch <- true:
		default:
		}
	}
}

// RunPending executes everything queued so far and returns how many
// tasks ran (cancelled ones included in the drain, not the count).
// Work scheduled by the tasks themselves lands in the next drain.
func (s *LoopScheduler) RunPending() int {
	s.mu.Lock()
	batch := s.queue
	s.queue = nil
	s.mu.Unlock()

	ran := 0
	for _, t := range batch {
		t.mu.Lock()
		cancelled := t.cancelled
		t.mu.Unlock()
		if cancelled {
			continue
		}
		t.run()
		ran++
	}
	return ran
}

// Pending reports how many tasks are currently queued.
func (s *LoopScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}
