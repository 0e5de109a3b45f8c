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
// Package scheduler runs the sync engine periodically while the server is
// reachable
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dnote/simplenote/pkg/cli/log"
	"github.com/dnote/simplenote/pkg/cli/syncer"
	"github.com/robfig/cron"
)

// Syncer runs a single sync
type Syncer interface {
	Sync(ctx context.Context) (syncer.Result, error)
}

// Connectivity reports whether the server can be reached
type Connectivity interface {
	Online(ctx context.Context) bool
}

// Scheduler triggers syncs on a fixed interval. Runs are skipped while
// offline and never overlap.
type Scheduler struct {
	syncer Syncer
	conn   Connectivity
	// OnRun is called after every completed run, if set
	OnRun func(syncer.Result, error)

	mu       sync.Mutex
	cron     *cron.Cron
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc

	running int32
}

// New returns a scheduler that is not scheduled yet
func New(s Syncer, conn Connectivity) *Scheduler {
	return &Scheduler{
		syncer: s,
		conn:   conn,
	}
}

// EnsureScheduled schedules the periodic sync with the given interval. An
// existing schedule with the same interval is kept. A schedule with a
// different interval is replaced.
func (s *Scheduler) EnsureScheduled(interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.interval == interval {
		log.Debug("scheduler: already scheduled every %s\n", interval)
		return
	}

	s.stop()

	ctx, cancel := context.WithCancel(context.Background())
	c := cron.New()
	c.Schedule(cron.Every(interval), cron.FuncJob(func() {
		s.run(ctx)
	}))
	c.Start()

	s.cron = c
	s.interval = interval
	s.ctx = ctx
	s.cancel = cancel

	log.Debug("scheduler: scheduled every %s\n", interval)
}

func (s *Scheduler) stop() {
	if s.cron == nil {
		return
	}

	s.cancel()
	s.cron.Stop()
	s.cron = nil
	s.interval = 0
}

// Stop cancels the schedule and any run in progress
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stop()
}

// Interval returns the current interval, or 0 if nothing is scheduled
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.interval
}

// RunNow runs a sync right away unless one is in progress or the server is
// unreachable. It returns false if the run was skipped.
func (s *Scheduler) RunNow(ctx context.Context) (syncer.Result, bool, error) {
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		log.Debug("scheduler: a sync is in progress. skipping\n")
		return syncer.Result{}, false, nil
	}
	defer atomic.StoreInt32(&s.running, 0)

	if s.conn != nil && !s.conn.Online(ctx) {
		log.Debug("scheduler: offline. skipping\n")
		return syncer.Result{}, false, nil
	}

	result, err := s.syncer.Sync(ctx)
	return result, true, err
}

func (s *Scheduler) run(ctx context.Context) {
	result, ran, err := s.RunNow(ctx)
	if !ran {
		return
	}

	if err != nil {
		log.Debug("scheduler: sync failed: %v\n", err)
	}
	if s.OnRun != nil {
		s.OnRun(result, err)
	}
}
