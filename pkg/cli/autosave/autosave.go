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
// Package autosave debounces rapid edits into a single save
package autosave

import (
	"sync"
	"time"

	"github.com/dnote/simplenote/pkg/cli/consts"
	"github.com/dnote/simplenote/pkg/clock"
)

// Debouncer delays a save until no new edit has arrived for Delay. Each
// Trigger cancels the pending save and restarts the timer.
type Debouncer struct {
	delay time.Duration
	clock clock.Clock

	mu      sync.Mutex
	timer   clock.Timer
	pending func()
	stopped bool
}

// New returns a debouncer. A zero delay means the default.
func New(delay time.Duration, c clock.Clock) *Debouncer {
	if delay <= 0 {
		delay = consts.DefaultAutosaveDelay
	}

	return &Debouncer{delay: delay, clock: c}
}

// Trigger schedules fn to run after the delay, replacing any pending call
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if d.timer != nil {
		d.timer.Stop()
	}

	d.pending = fn

	var timer clock.Timer
	timer = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.timer != timer {
			d.mu.Unlock()
			return
		}
		f := d.pending
		d.pending = nil
		d.timer = nil
		d.mu.Unlock()

		if f != nil {
			f()
		}
	})
	d.timer = timer
}

// Flush runs the pending call right away, if any
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	f := d.pending
	d.pending = nil
	d.mu.Unlock()

	if f != nil {
		f()
	}
}

// Stop discards the pending call. Later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.stopped = true
}
