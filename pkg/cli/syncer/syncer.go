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
// Package syncer reconciles the local note cache with the server. It pushes
// the pending local mutations, then pulls the server state into the cache.
package syncer

import (
	"context"
	"net/http"
	"sync"

	"github.com/dnote/simplenote/pkg/cli/cache"
	"github.com/dnote/simplenote/pkg/cli/client"
	"github.com/dnote/simplenote/pkg/cli/consts"
	"github.com/dnote/simplenote/pkg/cli/database"
	"github.com/dnote/simplenote/pkg/cli/log"
	"github.com/dnote/simplenote/pkg/clock"
	"github.com/pkg/errors"
)

// maxPullPages bounds the number of pages fetched in one pull
const maxPullPages = 1000

// Gateway is the subset of the API client used by the engine
type Gateway interface {
	CreateNote(ctx context.Context, payload client.NotePayload) (client.Note, error)
	UpdateNote(ctx context.Context, id int64, patch client.NotePatch) (client.Note, error)
	DeleteNote(ctx context.Context, id int64) error
	ListNotes(ctx context.Context, page, pageSize int) (client.PagedNotes, error)
}

// Result summarizes a sync
type Result struct {
	Created int
	Updated int
	Deleted int
	// Failed is the number of pending mutations left for the next sync
	Failed int
	// Discarded is the number of local edits dropped because the note no
	// longer exists on the server
	Discarded int
	// Pulled is the number of notes received from the server
	Pulled int
	// PullErr is the reason the pull failed, if it did. The cache is left
	// untouched in that case.
	PullErr error
}

// Engine syncs the cache with the server. Concurrent calls to Sync are
// serialized.
type Engine struct {
	db       *database.DB
	cache    *cache.Cache
	gateway  Gateway
	clock    clock.Clock
	pageSize int

	mu sync.Mutex
}

// New returns a sync engine
func New(db *database.DB, c *cache.Cache, gw Gateway, cl clock.Clock) *Engine {
	return &Engine{
		db:       db,
		cache:    c,
		gateway:  gw,
		clock:    cl,
		pageSize: consts.PullPageSize,
	}
}

// FromRemote converts a server note into a cache note without a pending action
func FromRemote(n client.Note) database.Note {
	return database.NewNote(n.ID, n.Title, n.Description, n.UpdatedAt.UnixNano(), database.ActionNone)
}

// Sync pushes every pending mutation in cache order, then replaces the synced
// part of the cache with the server state. A failed push leaves the note
// pending and does not stop the batch. The returned error is only set when
// the local cache could not be read or written.
func (e *Engine) Sync(ctx context.Context) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var ret Result

	if err := e.push(ctx, &ret); err != nil {
		return ret, errors.Wrap(err, "pushing pending notes")
	}

	if err := e.pull(ctx, &ret); err != nil {
		return ret, errors.Wrap(err, "pulling notes")
	}

	log.Debug("sync: created %d updated %d deleted %d failed %d discarded %d pulled %d\n",
		ret.Created, ret.Updated, ret.Deleted, ret.Failed, ret.Discarded, ret.Pulled)

	return ret, nil
}

func (e *Engine) push(ctx context.Context, ret *Result) error {
	pending, err := e.cache.GetPending()
	if err != nil {
		return err
	}

	log.Debug("sync: %d pending notes\n", len(pending))

	for _, n := range pending {
		outcome, err := e.pushNote(ctx, n)
		if err != nil {
			return err
		}
		if outcome == pushFailed {
			ret.Failed++
			continue
		}
		if outcome == pushDiscarded {
			ret.Discarded++
			continue
		}

		switch n.PendingAction {
		case database.ActionCreate:
			ret.Created++
		case database.ActionUpdate:
			ret.Updated++
		case database.ActionDelete:
			ret.Deleted++
		}
	}

	return nil
}

type pushOutcome int

const (
	pushDone pushOutcome = iota
	pushFailed
	pushDiscarded
)

// pushNote sends a single pending mutation. The error is only set for local
// failures.
func (e *Engine) pushNote(ctx context.Context, n database.Note) (pushOutcome, error) {
	switch n.PendingAction {
	case database.ActionCreate:
		remote, err := e.gateway.CreateNote(ctx, client.NotePayload{
			Title:       n.Title,
			Description: n.Description,
		})
		if err != nil {
			log.Debug("sync: creating note %d: %v\n", n.ID, err)
			return pushFailed, nil
		}

		confirmed := FromRemote(remote)
		return pushDone, e.cache.Settle(n, &confirmed)
	case database.ActionUpdate:
		title, desc := n.Title, n.Description
		remote, err := e.gateway.UpdateNote(ctx, n.ID, client.NotePatch{
			Title:       &title,
			Description: &desc,
		})
		// deleted on the server: the last pull wins over the local edit
		if client.StatusCode(err) == http.StatusNotFound {
			log.Debug("sync: note %d is gone from the server. discarding the local edit\n", n.ID)
			return pushDiscarded, e.cache.Settle(n, nil)
		}
		if err != nil {
			log.Debug("sync: updating note %d: %v\n", n.ID, err)
			return pushFailed, nil
		}

		confirmed := FromRemote(remote)
		return pushDone, e.cache.Settle(n, &confirmed)
	case database.ActionDelete:
		// never reached the server
		if n.IsTemporary() {
			return pushDone, e.cache.Settle(n, nil)
		}

		err := e.gateway.DeleteNote(ctx, n.ID)
		if err != nil && client.StatusCode(err) != http.StatusNotFound {
			log.Debug("sync: deleting note %d: %v\n", n.ID, err)
			return pushFailed, nil
		}

		return pushDone, e.cache.Settle(n, nil)
	}

	return pushFailed, errors.Errorf("unknown pending action '%s' on note %d", n.PendingAction, n.ID)
}

// fetchAll returns every note on the server, following the listing pages
func (e *Engine) fetchAll(ctx context.Context) ([]database.Note, error) {
	ret := []database.Note{}

	for page := 1; page <= maxPullPages; page++ {
		resp, err := e.gateway.ListNotes(ctx, page, e.pageSize)
		if err != nil {
			return nil, err
		}

		for _, n := range resp.Results {
			ret = append(ret, FromRemote(n))
		}

		if resp.Next == nil || page >= resp.TotalPages(e.pageSize) {
			break
		}
	}

	return ret, nil
}

func (e *Engine) pull(ctx context.Context, ret *Result) error {
	notes, err := e.fetchAll(ctx)
	if err != nil {
		log.Debug("sync: pull failed, keeping the cache: %v\n", err)
		ret.PullErr = err
		return nil
	}

	if err := e.cache.ReplaceSynced(notes); err != nil {
		return err
	}
	ret.Pulled = len(notes)

	if err := database.UpdateSystem(e.db, consts.SystemLastSyncAt, e.clock.Now().Unix()); err != nil {
		return errors.Wrap(err, "recording the sync time")
	}

	return nil
}

// LastSyncAt returns the unix time of the last successful pull, or 0
func LastSyncAt(db *database.DB) (int64, error) {
	var ret int64

	err := database.GetSystem(db, consts.SystemLastSyncAt, &ret)
	if err != nil && err != database.ErrNotFound {
		return 0, err
	}

	return ret, nil
}
