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
package scheduler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dnote/simplenote/pkg/assert"
	"github.com/dnote/simplenote/pkg/cli/syncer"
)

type countingSyncer struct {
	calls   int32
	block   chan struct{}
	started chan struct{}
}

func (s *countingSyncer) Sync(ctx context.Context) (syncer.Result, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.block != nil {
		<-s.block
	}

	return syncer.Result{Pulled: 1}, nil
}

type staticConn bool

func (c staticConn) Online(ctx context.Context) bool {
	return bool(c)
}

func TestRunNow(t *testing.T) {
	s := &countingSyncer{}

	_, ran, err := New(s, staticConn(false)).RunNow(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, ran, false, "offline run should be skipped")
	assert.Equal(t, atomic.LoadInt32(&s.calls), int32(0), "sync should not run offline")

	result, ran, err := New(s, staticConn(true)).RunNow(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, ran, true, "online run should not be skipped")
	assert.Equal(t, result.Pulled, 1, "result mismatch")
}

func TestRunNowDoesNotOverlap(t *testing.T) {
	s := &countingSyncer{block: make(chan struct{}), started: make(chan struct{}, 1)}
	sch := New(s, staticConn(true))

	done := make(chan struct{})
	go func() {
		sch.RunNow(context.Background())
		close(done)
	}()
	<-s.started

	_, ran, err := sch.RunNow(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, ran, false, "overlapping run should be skipped")

	close(s.block)
	<-done
	assert.Equal(t, atomic.LoadInt32(&s.calls), int32(1), "sync calls mismatch")
}

func TestEnsureScheduled(t *testing.T) {
	s := &countingSyncer{}
	sch := New(s, staticConn(true))
	defer sch.Stop()

	ran := make(chan struct{}, 10)
	sch.OnRun = func(syncer.Result, error) { ran <- struct{}{} }

	sch.EnsureScheduled(time.Second)
	first := sch.cron
	sch.EnsureScheduled(time.Second)
	assert.Equal(t, sch.cron == first, true, "same interval should keep the schedule")
	assert.Equal(t, len(sch.cron.Entries()), 1, "entries mismatch")

	sch.EnsureScheduled(2 * time.Second)
	assert.Equal(t, sch.cron == first, false, "a new interval should replace the schedule")
	assert.Equal(t, len(sch.cron.Entries()), 1, "the schedule should not be duplicated")
	assert.Equal(t, sch.Interval(), 2*time.Second, "interval mismatch")

	sch.EnsureScheduled(time.Second)
	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("scheduled sync did not run")
	}

	sch.Stop()
	assert.Equal(t, sch.Interval(), time.Duration(0), "interval after stop")
}

func TestProbe(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())

	p, err := NewProbe(ts.URL+"/api/", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, p.Online(context.Background()), true, "running server should be online")

	ts.Close()
	assert.Equal(t, p.Online(context.Background()), false, "closed server should be offline")

	_, err = NewProbe("not a url", time.Second)
	assert.NotEqual(t, err, nil, "endpoint without a host should fail")
}

func TestProbeDefaultPort(t *testing.T) {
	p, err := NewProbe("https://example.com/", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, p.addr, "example.com:443", "https port mismatch")

	p, err = NewProbe("http://example.com", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, p.addr, "example.com:80", "http port mismatch")
}
