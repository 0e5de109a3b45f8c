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
// Package notes provides the offline-first note operations. Every change is
// written to the local cache right away and reaches the server on the next
// sync.
package notes

import (
	"context"
	"strings"

	"github.com/dnote/simplenote/pkg/cli/cache"
	"github.com/dnote/simplenote/pkg/cli/client"
	"github.com/dnote/simplenote/pkg/cli/database"
	"github.com/dnote/simplenote/pkg/cli/log"
	"github.com/dnote/simplenote/pkg/cli/syncer"
	"github.com/dnote/simplenote/pkg/clock"
	"github.com/pkg/errors"
)

// ErrEmptyNote is an error for a note with neither a title nor a description
var ErrEmptyNote = errors.New("note is empty")

// ErrNotFound is an error for a note that does not exist
var ErrNotFound = cache.ErrNotFound

// Gateway is the subset of the API client used by the service
type Gateway interface {
	syncer.Gateway
	FilterNotes(ctx context.Context, params client.FilterParams) (client.PagedNotes, error)
}

// Service provides the note operations
type Service struct {
	cache   *cache.Cache
	gateway Gateway
	engine  *syncer.Engine
	clock   clock.Clock
}

// New returns a note service
func New(c *cache.Cache, gw Gateway, e *syncer.Engine, cl clock.Clock) *Service {
	return &Service{
		cache:   c,
		gateway: gw,
		engine:  e,
		clock:   cl,
	}
}

func (s *Service) now() int64 {
	return s.clock.Now().UnixNano()
}

// List returns the notes to display, most recent first
func (s *Service) List() ([]database.Note, error) {
	return s.cache.GetAll()
}

// Watch returns a channel receiving the notes to display every time they change
func (s *Service) Watch(ctx context.Context) (<-chan []database.Note, error) {
	return s.cache.Subscribe(ctx)
}

// Get returns the note with the given id
func (s *Service) Get(id int64) (database.Note, error) {
	return s.cache.GetByID(id)
}

// Search returns the displayed notes whose title or description contains the
// query, ignoring case
func (s *Service) Search(query string) ([]database.Note, error) {
	all, err := s.cache.GetAll()
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	ret := []database.Note{}
	for _, n := range all {
		if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Description), q) {
			ret = append(ret, n)
		}
	}

	return ret, nil
}

// Filter queries the server for notes matching the params
func (s *Service) Filter(ctx context.Context, params client.FilterParams) (client.PagedNotes, error) {
	return s.gateway.FilterNotes(ctx, params)
}

func isBlank(title, description string) bool {
	return strings.TrimSpace(title) == "" && strings.TrimSpace(description) == ""
}

// Create stores a new note under a temporary id, pending creation
func (s *Service) Create(title, description string) (database.Note, error) {
	if isBlank(title, description) {
		return database.Note{}, ErrEmptyNote
	}

	n, err := s.cache.CreateTemporary(title, description, s.now())
	if err != nil {
		return n, errors.Wrap(err, "creating a note")
	}

	return n, nil
}

// Update changes a note, pending update. A note that was never synced stays
// pending creation.
func (s *Service) Update(id int64, title, description string) (database.Note, error) {
	n, err := s.cache.GetByID(id)
	if err != nil {
		return n, err
	}

	n.Title = title
	n.Description = description
	n.UpdatedAt = s.now()
	if n.PendingAction != database.ActionCreate {
		n.PendingAction = database.ActionUpdate
	}

	if err := s.cache.Upsert(n); err != nil {
		return n, errors.Wrapf(err, "updating note %d", id)
	}

	return n, nil
}

// Delete removes a note, pending deletion. A note that was never synced is
// removed right away.
func (s *Service) Delete(id int64) error {
	n, err := s.cache.GetByID(id)
	if err != nil {
		return err
	}

	if n.PendingAction == database.ActionCreate {
		log.Debug("notes: expunging unsynced note %d\n", id)
		return s.cache.DeleteByID(id)
	}

	return s.cache.MarkPendingDelete(id, s.now())
}

// Sync pushes the pending changes and pulls the server state
func (s *Service) Sync(ctx context.Context) (syncer.Result, error) {
	return s.engine.Sync(ctx)
}

// SaveRemote saves a note straight to the server, creating it if id is nil
// or if the note was never synced. Validation failures are returned as
// *client.HTTPError and leave the cache untouched. When the server can not
// be reached the change is written locally, pending the next sync, and no
// error is returned.
func (s *Service) SaveRemote(ctx context.Context, id *int64, title, description string) (database.Note, error) {
	if isBlank(title, description) {
		return database.Note{}, ErrEmptyNote
	}

	var existing *database.Note
	if id != nil {
		n, err := s.cache.GetByID(*id)
		if err != nil {
			return n, err
		}
		existing = &n
	}

	var remote client.Note
	var err error
	if existing == nil || existing.IsTemporary() {
		remote, err = s.gateway.CreateNote(ctx, client.NotePayload{Title: title, Description: description})
	} else {
		remote, err = s.gateway.UpdateNote(ctx, existing.ID, client.NotePatch{Title: &title, Description: &description})
	}

	if client.IsNetwork(err) {
		log.Debug("notes: server unreachable. saving locally: %v\n", err)
		if existing == nil {
			return s.Create(title, description)
		}
		return s.Update(existing.ID, title, description)
	}
	if err != nil {
		return database.Note{}, err
	}

	confirmed := syncer.FromRemote(remote)
	if existing != nil && existing.ID != confirmed.ID {
		err = s.cache.ReplaceID(existing.ID, confirmed)
	} else {
		err = s.cache.Upsert(confirmed)
	}
	if err != nil {
		return confirmed, errors.Wrap(err, "saving the confirmed note")
	}

	return confirmed, nil
}
