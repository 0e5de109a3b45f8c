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
// Package cache implements the local note cache. It is the single source of
// truth for what is rendered and records the pending mutations that the sync
// engine pushes to the server.
package cache

import (
	"context"
	"sync"

	"github.com/dnote/simplenote/pkg/cli/database"
	"github.com/dnote/simplenote/pkg/cli/log"
	"github.com/pkg/errors"
)

// ErrNotFound is an error for a note that does not exist in the cache or is
// pending deletion
var ErrNotFound = errors.New("note not found")

// Cache is the local note cache
type Cache struct {
	db *database.DB

	mu   sync.Mutex
	subs map[chan []database.Note]struct{}
}

// New returns a cache backed by the given database
func New(db *database.DB) *Cache {
	return &Cache{
		db:   db,
		subs: map[chan []database.Note]struct{}{},
	}
}

// GetAll returns the notes that are not pending deletion, most recently
// updated first
func (c *Cache) GetAll() ([]database.Note, error) {
	notes, err := database.ListVisibleNotes(c.db)
	if err != nil {
		return nil, errors.Wrap(err, "listing notes")
	}

	return notes, nil
}

// Subscribe returns a channel that receives the result of GetAll right away
// and again after every mutation of the cache. A subscriber that falls behind
// only receives the latest snapshot. The channel is closed when ctx is done.
func (c *Cache) Subscribe(ctx context.Context) (<-chan []database.Note, error) {
	initial, err := c.GetAll()
	if err != nil {
		return nil, err
	}

	ch := make(chan []database.Note, 1)
	ch <- initial

	c.mu.Lock()
	c.subs[ch] = struct{}{}
	c.mu.Unlock()

	go func() {
		<-ctx.Done()

		c.mu.Lock()
		delete(c.subs, ch)
		close(ch)
		c.mu.Unlock()
	}()

	return ch, nil
}

func (c *Cache) notify() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.subs) == 0 {
		return
	}

	notes, err := c.GetAll()
	if err != nil {
		log.Debug("cache: reading notes for subscribers: %v\n", err)
		return
	}

	for ch := range c.subs {
		// replace a snapshot the subscriber has not consumed yet
		select {
		case <-ch:
		default:
		}

		select {
		case ch <- notes:
		default:
		}
	}
}

// GetByID returns the note with the given id. Notes pending deletion are
// reported as not found.
func (c *Cache) GetByID(id int64) (database.Note, error) {
	n, err := database.GetNote(c.db, id)
	if err == database.ErrNotFound {
		return n, ErrNotFound
	} else if err != nil {
		return n, err
	}

	if n.PendingAction == database.ActionDelete {
		return database.Note{}, ErrNotFound
	}

	return n, nil
}

// Upsert inserts the note or replaces the note with the same id
func (c *Cache) Upsert(n database.Note) error {
	if err := n.Upsert(c.db); err != nil {
		return err
	}

	c.notify()
	return nil
}

// CreateTemporary inserts a note under a new temporary id that is lower than
// every id in the cache and returns the stored note
func (c *Cache) CreateTemporary(title, description string, updatedAt int64) (database.Note, error) {
	var n database.Note

	err := c.db.WithTx(func(tx *database.DB) error {
		minID, err := database.MinNoteID(tx)
		if err != nil {
			return err
		}

		id := int64(-1)
		if minID <= id {
			id = minID - 1
		}

		n = database.NewNote(id, title, description, updatedAt, database.ActionCreate)
		return n.Upsert(tx)
	})
	if err != nil {
		return n, errors.Wrap(err, "inserting a temporary note")
	}

	c.notify()
	return n, nil
}

// MarkPendingDelete marks the note for deletion without removing the row so
// that a sync can still find and propagate it
func (c *Cache) MarkPendingDelete(id int64, updatedAt int64) error {
	res, err := c.db.Exec("UPDATE notes SET pending_action = ?, updated_at = ? WHERE id = ?",
		string(database.ActionDelete), updatedAt, id)
	if err != nil {
		return errors.Wrapf(err, "marking note %d for deletion", id)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "counting affected rows")
	}
	if affected == 0 {
		return ErrNotFound
	}

	c.notify()
	return nil
}

// GetPending returns every note with a pending action in the order they were
// last modified
func (c *Cache) GetPending() ([]database.Note, error) {
	notes, err := database.ListPendingNotes(c.db)
	if err != nil {
		return nil, errors.Wrap(err, "listing pending notes")
	}

	return notes, nil
}

// DeleteByID hard-deletes the note with the given id
func (c *Cache) DeleteByID(id int64) error {
	if err := database.DeleteNote(c.db, id); err != nil {
		return err
	}

	c.notify()
	return nil
}

// ClearAll hard-deletes every note
func (c *Cache) ClearAll() error {
	if err := database.ClearNotes(c.db); err != nil {
		return err
	}

	c.notify()
	return nil
}

// ReplaceID atomically removes the note stored under oldID and stores n in
// its place. It is used once the server assigns an id to a note created offline.
func (c *Cache) ReplaceID(oldID int64, n database.Note) error {
	err := c.db.WithTx(func(tx *database.DB) error {
		if err := database.DeleteNote(tx, oldID); err != nil {
			return err
		}

		return n.Upsert(tx)
	})
	if err != nil {
		return errors.Wrapf(err, "replacing note %d with %d", oldID, n.ID)
	}

	c.notify()
	return nil
}

// ReplaceSynced replaces the synced contents of the cache with the given
// server state in a single transaction. Notes that still carry a pending
// action are kept as they are and take precedence over the server copy.
func (c *Cache) ReplaceSynced(notes []database.Note) error {
	err := c.db.WithTx(func(tx *database.DB) error {
		if err := database.DeleteSyncedNotes(tx); err != nil {
			return err
		}

		for _, n := range notes {
			_, err := database.GetNote(tx, n.ID)
			if err == nil {
				log.Debug("cache: keeping pending local copy of note %d\n", n.ID)
				continue
			} else if err != database.ErrNotFound {
				return err
			}

			n.PendingAction = database.ActionNone
			if err := n.Upsert(tx); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "replacing synced notes")
	}

	c.notify()
	return nil
}

// NextTempID returns a negative id that is lower than every id in the cache
func (c *Cache) NextTempID() (int64, error) {
	minID, err := database.MinNoteID(c.db)
	if err != nil {
		return 0, err
	}

	if minID <= -1 {
		return minID - 1, nil
	}

	return -1, nil
}

// Settle records that the server accepted the pending mutation captured in
// snapshot. confirmed is the server copy of the note, or nil when the
// mutation was a deletion. A local change made after the snapshot was taken
// is kept pending under the confirmed id.
func (c *Cache) Settle(snapshot database.Note, confirmed *database.Note) error {
	err := c.db.WithTx(func(tx *database.DB) error {
		cur, err := database.GetNote(tx, snapshot.ID)
		if err != nil && err != database.ErrNotFound {
			return err
		}
		missing := err == database.ErrNotFound
		unchanged := !missing && cur.UpdatedAt == snapshot.UpdatedAt && cur.PendingAction == snapshot.PendingAction

		if err := database.DeleteNote(tx, snapshot.ID); err != nil {
			return err
		}

		// a note pending deletion can not be edited, so a confirmed
		// deletion always removes the row
		if confirmed == nil {
			return nil
		}
		if missing && !snapshot.IsTemporary() {
			return nil
		}

		n := *confirmed
		switch {
		case unchanged:
			n.PendingAction = database.ActionNone
		case missing:
			// removed locally while the create was in flight
			n.PendingAction = database.ActionDelete
		case cur.PendingAction == database.ActionDelete:
			n.PendingAction = database.ActionDelete
			n.UpdatedAt = cur.UpdatedAt
		default:
			n.Title = cur.Title
			n.Description = cur.Description
			n.UpdatedAt = cur.UpdatedAt
			n.PendingAction = database.ActionUpdate
		}

		return n.Upsert(tx)
	})
	if err != nil {
		return errors.Wrapf(err, "settling note %d", snapshot.ID)
	}

	c.notify()
	return nil
}
