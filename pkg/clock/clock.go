/* Copyright 2025 Dnote Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package clock provides an abstract layer over the standard time package
package clock

import (
	"sort"
	"sync"
	"time"
)

// Clock is an interface to the standard library time.
// It is used to implement a real or a mock clock. The latter is used in tests.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a handle to a pending function call scheduled by AfterFunc
type Timer interface {
	// Stop prevents the timer from firing. It returns false if the timer
	// already fired or was stopped.
	Stop() bool
}

type clock struct{}

func (c *clock) Now() time.Time {
	return time.Now()
}

func (c *clock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

func (c *clock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// New returns an instance of a real clock
func New() Clock {
	return &clock{}
}

// Mock is a mock instance of clock. Time only moves when SetNow or Advance
// is called, and timers fire synchronously inside Advance.
type Mock struct {
	mu          sync.RWMutex
	currentTime time.Time
	timers      []*mockTimer
	seq         int
}

type mockTimer struct {
	mock     *Mock
	deadline time.Time
	seq      int
	fn       func()
	ch       chan time.Time
	stopped  bool
}

func (t *mockTimer) Stop() bool {
	t.mock.mu.Lock()
	defer t.mock.mu.Unlock()

	for i, candidate := range t.mock.timers {
		if candidate == t {
			t.mock.timers = append(t.mock.timers[:i], t.mock.timers[i+1:]...)
			t.stopped = true
			return true
		}
	}

	return false
}

// NewMock returns an instance of a mock clock
func NewMock() *Mock {
	return &Mock{
		currentTime: time.Date(2009, time.November, 10, 23, 0, 0, 0, time.UTC),
	}
}

// SetNow sets the current time for the mock clock
func (c *Mock) SetNow(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentTime = t
}

// Now returns the current time
func (c *Mock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentTime
}

func (c *Mock) schedule(d time.Duration, fn func(), ch chan time.Time) *mockTimer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &mockTimer{
		mock:     c,
		deadline: c.currentTime.Add(d),
		seq:      c.seq,
		fn:       fn,
		ch:       ch,
	}
	c.timers = append(c.timers, t)

	return t
}

// After returns a channel that receives the mock time once the clock has been
// advanced by at least d
func (c *Mock) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	c.schedule(d, nil, ch)
	return ch
}

// AfterFunc calls f once the clock has been advanced by at least d
func (c *Mock) AfterFunc(d time.Duration, f func()) Timer {
	return c.schedule(d, f, nil)
}

// Pending returns the number of timers that have not fired yet
func (c *Mock) Pending() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.timers)
}

// popDue removes and returns the earliest timer due at or before the given time
func (c *Mock) popDue(until time.Time) *mockTimer {
	c.mu.Lock()
	defer c.mu.Unlock()

	sort.SliceStable(c.timers, func(i, j int) bool {
		if c.timers[i].deadline.Equal(c.timers[j].deadline) {
			return c.timers[i].seq < c.timers[j].seq
		}
		return c.timers[i].deadline.Before(c.timers[j].deadline)
	})

	if len(c.timers) == 0 || c.timers[0].deadline.After(until) {
		return nil
	}

	t := c.timers[0]
	c.timers = c.timers[1:]
	c.currentTime = t.deadline

	return t
}

// Advance moves the mock time forward by d, firing every timer that becomes
// due in deadline order
func (c *Mock) Advance(d time.Duration) {
	until := c.Now().Add(d)

	for {
		t := c.popDue(until)
		if t == nil {
			break
		}

		if t.fn != nil {
			t.fn()
		}
		if t.ch != nil {
			t.ch <- t.deadline
		}
	}

	c.SetNow(until)
}
