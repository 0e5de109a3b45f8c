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
package syncer

import (
	"context"
	"fmt"
	"net"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dnote/simplenote/pkg/assert"
	"github.com/dnote/simplenote/pkg/cli/cache"
	"github.com/dnote/simplenote/pkg/cli/client"
	"github.com/dnote/simplenote/pkg/cli/database"
	"github.com/dnote/simplenote/pkg/clock"
)

var errOffline = &client.NetworkError{Err: &net.OpError{Op: "dial", Err: fmt.Errorf("connection refused")}}

// fakeGateway is an in-memory notes server
type fakeGateway struct {
	mu     sync.Mutex
	nextID int64
	notes  map[int64]client.Note
	calls  []string

	failCreate bool
	failUpdate bool
	failList   bool
}

func newFakeGateway(notes ...client.Note) *fakeGateway {
	g := &fakeGateway{nextID: 100, notes: map[int64]client.Note{}}
	for _, n := range notes {
		g.notes[n.ID] = n
	}

	return g
}

func remoteNote(id int64, title string) client.Note {
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Minute)
	return client.Note{ID: id, Title: title, Description: title + " body", CreatedAt: ts, UpdatedAt: ts}
}

func (g *fakeGateway) CreateNote(ctx context.Context, p client.NotePayload) (client.Note, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls = append(g.calls, "create")
	if g.failCreate {
		return client.Note{}, errOffline
	}

	g.nextID++
	n := remoteNote(g.nextID, p.Title)
	n.Description = p.Description
	g.notes[n.ID] = n

	return n, nil
}

func (g *fakeGateway) UpdateNote(ctx context.Context, id int64, p client.NotePatch) (client.Note, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls = append(g.calls, fmt.Sprintf("update %d", id))
	if g.failUpdate {
		return client.Note{}, errOffline
	}

	n, ok := g.notes[id]
	if !ok {
		return client.Note{}, &client.HTTPError{StatusCode: 404, Body: `{"detail":"Not found."}`}
	}
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Description != nil {
		n.Description = *p.Description
	}
	n.UpdatedAt = n.UpdatedAt.Add(time.Hour)
	g.notes[id] = n

	return n, nil
}

func (g *fakeGateway) DeleteNote(ctx context.Context, id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls = append(g.calls, fmt.Sprintf("delete %d", id))
	if _, ok := g.notes[id]; !ok {
		return &client.HTTPError{StatusCode: 404, Body: `{"detail":"Not found."}`}
	}
	delete(g.notes, id)

	return nil
}

func (g *fakeGateway) ListNotes(ctx context.Context, page, pageSize int) (client.PagedNotes, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls = append(g.calls, fmt.Sprintf("list %d", page))
	if g.failList {
		return client.PagedNotes{}, errOffline
	}

	all := []client.Note{}
	for _, n := range g.notes {
		all = append(all, n)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	ret := client.PagedNotes{Count: len(all), Results: []client.Note{}}
	start := (page - 1) * pageSize
	end := start + pageSize
	if start < len(all) {
		if end > len(all) {
			end = len(all)
		}
		ret.Results = all[start:end]
	}
	if end < len(all) {
		next := fmt.Sprintf("http://x/api/notes/?page=%d", page+1)
		ret.Next = &next
	}

	return ret, nil
}

func (g *fakeGateway) resetCalls() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = nil
}

func setup(t *testing.T, gw *fakeGateway) (*Engine, *database.DB) {
	db := database.InitTestMemoryDB(t)
	return New(db, cache.New(db), gw, clock.NewMock()), db
}

func allNotes(t *testing.T, db *database.DB) []database.Note {
	notes, err := database.ListPendingNotes(db)
	if err != nil {
		t.Fatal(err)
	}
	synced, err := database.ListVisibleNotes(db)
	if err != nil {
		t.Fatal(err)
	}

	seen := map[int64]bool{}
	ret := []database.Note{}
	for _, n := range append(notes, synced...) {
		if !seen[n.ID] {
			seen[n.ID] = true
			ret = append(ret, n)
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })

	return ret
}

func TestSyncRoundTrip(t *testing.T) {
	gw := newFakeGateway()
	e, db := setup(t, gw)
	database.MustUpsertNote(t, db, database.NewNote(-1, "offline", "written offline", 10, database.ActionCreate))

	result, err := e.Sync(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, result.Created, 1, "created mismatch")
	assert.Equal(t, result.Pulled, 1, "pulled mismatch")

	notes := allNotes(t, db)
	assert.Equal(t, len(notes), 1, "note should be present exactly once")
	assert.Equal(t, notes[0].ID, int64(101), "id should be assigned by the server")
	assert.Equal(t, notes[0].Title, "offline", "title mismatch")
	assert.Equal(t, notes[0].PendingAction, database.ActionNone, "action mismatch")
}

func TestSyncIdempotent(t *testing.T) {
	gw := newFakeGateway(remoteNote(1, "one"), remoteNote(2, "two"), remoteNote(3, "three"))
	e, db := setup(t, gw)
	database.MustUpsertNote(t, db, database.NewNote(-1, "new", "", 10, database.ActionCreate))
	database.MustUpsertNote(t, db, database.NewNote(2, "two edited", "", 20, database.ActionUpdate))
	database.MustUpsertNote(t, db, database.NewNote(3, "three", "", 30, database.ActionDelete))

	if _, err := e.Sync(context.Background()); err != nil {
		t.Fatal(err)
	}
	first := allNotes(t, db)
	gw.resetCalls()

	result, err := e.Sync(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second := allNotes(t, db)

	assert.DeepEqual(t, second, first, "cache should be unchanged by the second sync")
	assert.DeepEqual(t, gw.calls, []string{"list 1"}, "the second sync should push nothing")
	assert.Equal(t, result, Result{Pulled: 3}, "second result mismatch")
}

func TestSyncPartialFailure(t *testing.T) {
	gw := newFakeGateway(remoteNote(5, "five"))
	gw.failCreate = true
	e, db := setup(t, gw)
	database.MustUpsertNote(t, db, database.NewNote(-1, "unsent", "", 10, database.ActionCreate))
	database.MustUpsertNote(t, db, database.NewNote(5, "five edited", "", 20, database.ActionUpdate))

	result, err := e.Sync(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, result.Failed, 1, "failed mismatch")
	assert.Equal(t, result.Updated, 1, "updated mismatch")
	assert.Equal(t, gw.calls[0], "create", "create should be attempted first")
	assert.Equal(t, gw.calls[1], "update 5", "update should be attempted after the failed create")

	created := database.MustGetNote(t, db, -1)
	assert.Equal(t, created.PendingAction, database.ActionCreate, "failed create should stay pending")

	updated := database.MustGetNote(t, db, 5)
	assert.Equal(t, updated.PendingAction, database.ActionNone, "update should be settled")
	assert.Equal(t, updated.Title, "five edited", "pulled title mismatch")
}

func TestSyncPullFailureKeepsCache(t *testing.T) {
	gw := newFakeGateway(remoteNote(1, "one"))
	gw.failList = true
	e, db := setup(t, gw)
	database.MustUpsertNote(t, db, database.NewNote(1, "cached one", "", 10, database.ActionNone))
	database.MustUpsertNote(t, db, database.NewNote(9, "cached nine", "", 10, database.ActionNone))

	result, err := e.Sync(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	assert.NotEqual(t, result.PullErr, nil, "pull error should be reported")
	assert.Equal(t, len(allNotes(t, db)), 2, "cache should be untouched")

	last, err := LastSyncAt(db)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, last, int64(0), "failed pull should not record a sync time")
}

func TestSyncReplacesSyncedNotes(t *testing.T) {
	gw := newFakeGateway(remoteNote(1, "server one"), remoteNote(2, "server two"))
	e, db := setup(t, gw)
	database.MustUpsertNote(t, db, database.NewNote(1, "stale one", "", 10, database.ActionNone))
	database.MustUpsertNote(t, db, database.NewNote(8, "removed on server", "", 10, database.ActionNone))

	if _, err := e.Sync(context.Background()); err != nil {
		t.Fatal(err)
	}

	notes := allNotes(t, db)
	assert.Equal(t, len(notes), 2, "note count mismatch")
	assert.Equal(t, notes[0].Title, "server one", "server should win")
	assert.Equal(t, notes[1].ID, int64(2), "new server note should be pulled")

	last, err := LastSyncAt(db)
	if err != nil {
		t.Fatal(err)
	}
	assert.NotEqual(t, last, int64(0), "sync time should be recorded")
}

func TestSyncDelete(t *testing.T) {
	gw := newFakeGateway(remoteNote(1, "one"))
	e, db := setup(t, gw)
	database.MustUpsertNote(t, db, database.NewNote(1, "one", "", 10, database.ActionDelete))
	// already removed on the server
	database.MustUpsertNote(t, db, database.NewNote(2, "two", "", 10, database.ActionDelete))
	// never reached the server
	database.MustUpsertNote(t, db, database.NewNote(-1, "temp", "", 10, database.ActionDelete))

	result, err := e.Sync(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, result.Deleted, 3, "deleted mismatch")
	assert.Equal(t, len(allNotes(t, db)), 0, "all notes should be removed")
	assert.DeepEqual(t, gw.calls, []string{"delete 1", "delete 2", "list 1"}, "calls mismatch")
}

func TestSyncUpdateOnDeletedNote(t *testing.T) {
	gw := newFakeGateway(remoteNote(1, "one"))
	e, db := setup(t, gw)
	database.MustUpsertNote(t, db, database.NewNote(1, "one", "", 10, database.ActionNone))
	// deleted on the server by another device
	database.MustUpsertNote(t, db, database.NewNote(7, "seven edited", "", 20, database.ActionUpdate))

	result, err := e.Sync(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, result.Discarded, 1, "discarded mismatch")
	assert.Equal(t, result.Failed, 0, "failed mismatch")
	assert.Equal(t, result.Updated, 0, "updated mismatch")

	notes := allNotes(t, db)
	assert.Equal(t, len(notes), 1, "note count mismatch")
	assert.Equal(t, notes[0].ID, int64(1), "remaining note mismatch")

	if _, err := e.Sync(context.Background()); err != nil {
		t.Fatal(err)
	}
	assert.DeepEqual(t, gw.calls, []string{"update 7", "list 1", "list 1"}, "the edit should not be pushed again")
}

func TestSyncPullsEveryPage(t *testing.T) {
	var notes []client.Note
	for i := int64(1); i <= 5; i++ {
		notes = append(notes, remoteNote(i, fmt.Sprintf("n%d", i)))
	}
	gw := newFakeGateway(notes...)
	e, db := setup(t, gw)
	e.pageSize = 2

	result, err := e.Sync(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, result.Pulled, 5, "pulled mismatch")
	assert.Equal(t, len(allNotes(t, db)), 5, "note count mismatch")
	assert.DeepEqual(t, gw.calls, []string{"list 1", "list 2", "list 3"}, "calls mismatch")
}
