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

package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dnote/simplenote/pkg/server/app"
	"github.com/dnote/simplenote/pkg/server/context"
	"github.com/dnote/simplenote/pkg/server/database"
	mw "github.com/dnote/simplenote/pkg/server/middleware"
	"github.com/dnote/simplenote/pkg/server/presenters"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// NewNotes creates a new Notes controller.
func NewNotes(app *app.App) *Notes {
	return &Notes{
		app: app,
	}
}

// Notes is a note controller.
type Notes struct {
	app *app.App
}

func parsePagination(r *http.Request) (app.GetNotesParams, error) {
	q := r.URL.Query()

	page, ok := parseIntParam(q.Get("page"), 1)
	if !ok {
		return app.GetNotesParams{}, app.ErrInvalidPage
	}
	// an unusable page size falls back to the default
	perPage, ok := parseIntParam(q.Get("page_size"), app.DefaultPerPage)
	if !ok {
		perPage = app.DefaultPerPage
	}

	return app.GetNotesParams{
		Page:    page,
		PerPage: perPage,
	}, nil
}

// parseDateParam parses a date filter given either as RFC3339 or as a day
func parseDateParam(v *app.ValidationError, attr, s string) *time.Time {
	if s == "" {
		return nil
	}

	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}

	v.Add(attr, app.CodeInvalid, "Enter a valid date/time.")
	return nil
}

func parseFilterParams(r *http.Request) (app.GetNotesParams, error) {
	p, err := parsePagination(r)
	if err != nil {
		return p, err
	}

	q := r.URL.Query()
	p.Title = q.Get("title")
	p.Description = q.Get("description")

	v := &app.ValidationError{}
	p.UpdatedGTE = parseDateParam(v, "updated__gte", q.Get("updated__gte"))
	p.UpdatedLTE = parseDateParam(v, "updated__lte", q.Get("updated__lte"))
	if err := v.Err(); err != nil {
		return p, err
	}

	return p, nil
}

func (n *Notes) respondPage(w http.ResponseWriter, r *http.Request, user database.User, p app.GetNotesParams) {
	result, err := n.app.GetNotes(user.ID, p)
	if err != nil {
		handleJSONError(w, err, "getting notes")
		return
	}

	results := presenters.PresentNotes(result.Notes, user)
	mw.RespondJSON(w, http.StatusOK, presenters.PresentPage(r, result.Total, result.Page, result.HasNext(), result.HasPrevious(), results))
}

// Index handles GET /api/notes/
func (n *Notes) Index(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrNotFound, "getting user")
		return
	}

	p, err := parsePagination(r)
	if err != nil {
		handleJSONError(w, err, "parsing pagination")
		return
	}

	n.respondPage(w, r, *user, p)
}

// Filter handles GET /api/notes/filter
func (n *Notes) Filter(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrNotFound, "getting user")
		return
	}

	p, err := parseFilterParams(r)
	if err != nil {
		handleJSONError(w, err, "parsing filter")
		return
	}

	n.respondPage(w, r, *user, p)
}

// CreateNoteForm is the payload for creating a note
type CreateNoteForm struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Create handles POST /api/notes/
func (n *Notes) Create(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrNotFound, "getting user")
		return
	}

	var form CreateNoteForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	note, err := n.app.CreateNote(*user, form.Title, form.Description)
	if err != nil {
		handleJSONError(w, err, "creating note")
		return
	}

	mw.RespondJSON(w, http.StatusCreated, presenters.PresentNote(note, *user))
}

// getNote finds the note of the authenticated user named by the route
func (n *Notes) getNote(r *http.Request) (database.User, database.Note, error) {
	user := context.User(r.Context())
	if user == nil {
		return database.User{}, database.Note{}, app.ErrNotFound
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return *user, database.Note{}, errors.Wrap(app.ErrNotFound, "parsing id")
	}

	note, err := n.app.GetUserNote(user, id)
	if err != nil {
		return *user, database.Note{}, err
	}

	return *user, note, nil
}

// Show handles GET /api/notes/{id}/
func (n *Notes) Show(w http.ResponseWriter, r *http.Request) {
	user, note, err := n.getNote(r)
	if err != nil {
		handleJSONError(w, err, "finding note")
		return
	}

	mw.RespondJSON(w, http.StatusOK, presenters.PresentNote(note, user))
}

// UpdateNoteForm is the payload for updating a note. Absent fields are
// left untouched.
type UpdateNoteForm struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// Update handles PATCH and PUT /api/notes/{id}/
func (n *Notes) Update(w http.ResponseWriter, r *http.Request) {
	user, note, err := n.getNote(r)
	if err != nil {
		handleJSONError(w, err, "finding note")
		return
	}

	var form UpdateNoteForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	note, err = n.app.UpdateNote(note, app.NoteParams{
		Title:       form.Title,
		Description: form.Description,
	})
	if err != nil {
		handleJSONError(w, err, "updating note")
		return
	}

	mw.RespondJSON(w, http.StatusOK, presenters.PresentNote(note, user))
}

// Delete handles DELETE /api/notes/{id}/
func (n *Notes) Delete(w http.ResponseWriter, r *http.Request) {
	_, note, err := n.getNote(r)
	if err != nil {
		handleJSONError(w, err, "finding note")
		return
	}

	if err := n.app.DeleteNote(note); err != nil {
		handleJSONError(w, err, "deleting note")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
