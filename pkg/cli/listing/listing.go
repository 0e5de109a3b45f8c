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
// Package listing loads the paged remote note listing. When a request times
// out it retries after a countdown that is reported to the caller.
package listing

import (
	"context"
	"sync"
	"time"

	"github.com/dnote/simplenote/pkg/cli/client"
	"github.com/dnote/simplenote/pkg/cli/consts"
	"github.com/dnote/simplenote/pkg/cli/log"
	"github.com/dnote/simplenote/pkg/clock"
	"github.com/pkg/errors"
)

// ErrClosed is an error for a loader that was closed
var ErrClosed = errors.New("loader is closed")

// Lister fetches a page of the remote listing
type Lister interface {
	ListNotes(ctx context.Context, page, pageSize int) (client.PagedNotes, error)
}

// State is the state of the loader
type State int

const (
	// StateIdle means nothing was requested yet
	StateIdle State = iota
	// StateLoading means a request is in flight
	StateLoading
	// StateLoaded means the last request succeeded
	StateLoaded
	// StateFailed means the last request failed and will not be retried
	StateFailed
	// StateRetrying means the last request timed out and a retry is counting down
	StateRetrying
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	case StateRetrying:
		return "retrying"
	}

	return "unknown"
}

// Status is an update emitted by the loader
type Status struct {
	State State
	// RetryIn is the time left before the next attempt while retrying
	RetryIn time.Duration
	Err     error
}

// Params are the parameters for a loader. Zero values mean the defaults.
type Params struct {
	PageSize  int
	Countdown time.Duration
	Tick      time.Duration
	Clock     clock.Clock
}

// Loader loads pages of the remote listing on demand
type Loader struct {
	lister    Lister
	pageSize  int
	countdown time.Duration
	tick      time.Duration
	clock     clock.Clock

	mu       sync.Mutex
	count    int
	loaded   bool
	pages    map[int][]client.Note
	retrying bool
	stop     chan struct{}
	closed   bool

	updates chan Status
	wg      sync.WaitGroup
}

// New returns a loader
func New(lister Lister, p Params) *Loader {
	if p.PageSize <= 0 {
		p.PageSize = consts.DefaultPageSize
	}
	if p.Countdown <= 0 {
		p.Countdown = consts.DefaultRetryCountdown
	}
	if p.Tick <= 0 {
		p.Tick = time.Second
	}
	if p.Clock == nil {
		p.Clock = clock.New()
	}

	return &Loader{
		lister:    lister,
		pageSize:  p.PageSize,
		countdown: p.Countdown,
		tick:      p.Tick,
		clock:     p.Clock,
		pages:     map[int][]client.Note{},
		stop:      make(chan struct{}),
		updates:   make(chan Status, 64),
	}
}

// Updates returns the channel of status updates. Updates are dropped if the
// channel is full.
func (l *Loader) Updates() <-chan Status {
	return l.updates
}

func (l *Loader) emit(s Status) {
	select {
	case l.updates <- s:
	default:
	}
}

// Count returns the total number of notes reported by the server
func (l *Loader) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.count
}

// TotalPages returns the number of pages, which is at least 1
func (l *Loader) TotalPages() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return client.PagedNotes{Count: l.count}.TotalPages(l.pageSize)
}

// Page returns the notes of a loaded page, or nil if the page is not loaded
func (l *Loader) Page(page int) []client.Note {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.pages[page]
}

func (l *Loader) fetch(ctx context.Context, page int) error {
	l.emit(Status{State: StateLoading})

	resp, err := l.lister.ListNotes(ctx, page, l.pageSize)
	if err != nil {
		return err
	}

	l.mu.Lock()
	if page == 1 {
		l.pages = map[int][]client.Note{}
	}
	l.count = resp.Count
	l.loaded = true
	l.pages[page] = resp.Results
	l.mu.Unlock()

	l.emit(Status{State: StateLoaded})
	return nil
}

// Load fetches the first page, discarding the pages loaded before. On a
// timeout it starts the retry countdown and returns the error.
func (l *Loader) Load(ctx context.Context) error {
	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return ErrClosed
	}

	err := l.fetch(ctx, 1)
	if err == nil {
		return nil
	}

	if client.IsTimeout(err) {
		l.startRetry(ctx)
		return err
	}

	l.emit(Status{State: StateFailed, Err: err})
	return err
}

// Ensure fetches the given page unless it is out of range or already loaded.
// It returns true if the page was fetched.
func (l *Loader) Ensure(ctx context.Context, page int) (bool, error) {
	l.mu.Lock()
	_, ok := l.pages[page]
	loaded := l.loaded
	total := client.PagedNotes{Count: l.count}.TotalPages(l.pageSize)
	l.mu.Unlock()

	if !loaded {
		if page != 1 {
			return false, nil
		}
		return true, l.Load(ctx)
	}
	if ok || page < 1 || page > total {
		log.Debug("listing: page %d of %d needs no fetch\n", page, total)
		return false, nil
	}

	if err := l.fetch(ctx, page); err != nil {
		l.emit(Status{State: StateFailed, Err: err})
		return false, err
	}

	return true, nil
}

func (l *Loader) startRetry(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.retrying || l.closed {
		return
	}
	l.retrying = true

	l.wg.Add(1)
	go l.retryLoop(ctx)
}

// retryLoop counts down and reloads the first page until a load succeeds,
// fails with an error other than a timeout, or the loader is stopped
func (l *Loader) retryLoop(ctx context.Context) {
	defer l.wg.Done()
	defer func() {
		l.mu.Lock()
		l.retrying = false
		l.mu.Unlock()
	}()

	remaining := l.countdown
	for {
		l.emit(Status{State: StateRetrying, RetryIn: remaining})

		select {
		case <-ctx.Done():
			return
		case <-l.stop:
			return
		case <-l.clock.After(l.tick):
		}

		remaining -= l.tick
		if remaining > 0 {
			continue
		}

		err := l.fetch(ctx, 1)
		if err == nil {
			return
		}
		if !client.IsTimeout(err) {
			l.emit(Status{State: StateFailed, Err: err})
			return
		}

		log.Debug("listing: retry timed out. counting down again\n")
		remaining = l.countdown
	}
}

// Close stops the retry countdown and waits for it to exit
func (l *Loader) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	close(l.stop)
	l.mu.Unlock()

	l.wg.Wait()
}
