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

package app

import (
	"strings"
	"time"

	"github.com/dnote/simplenote/pkg/server/database"
	"github.com/dnote/simplenote/pkg/server/permissions"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	maxTitleLength = 255

	// DefaultPerPage is the page size of a listing that does not ask for one
	DefaultPerPage = 10
	// MaxPerPage is the largest page size a listing can ask for
	MaxPerPage = 100
)

// NoteParams are the fields of a note to write. Nil fields are left unchanged.
type NoteParams struct {
	Title       *string
	Description *string
}

func validateNote(title, description string) error {
	v := &ValidationError{}

	if len([]rune(title)) > maxTitleLength {
		v.Add("title", CodeMaxLen, "Ensure this field has no more than 255 characters.")
	}
	if strings.TrimSpace(title) == "" && strings.TrimSpace(description) == "" {
		v.Add("", CodeBlank, "A note needs a title or a description.")
	}

	return v.Err()
}

// CreateNote creates a note of the user
func (a *App) CreateNote(user database.User, title, description string) (database.Note, error) {
	if err := validateNote(title, description); err != nil {
		return database.Note{}, err
	}

	now := a.now()
	note := database.Note{
		Model: database.Model{
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:      user.ID,
		Title:       title,
		Description: description,
	}
	if err := a.DB.Create(&note).Error; err != nil {
		return note, errors.Wrap(err, "inserting note")
	}

	return note, nil
}

// UpdateNote writes the given fields of the note
func (a *App) UpdateNote(note database.Note, p NoteParams) (database.Note, error) {
	if p.Title != nil {
		note.Title = *p.Title
	}
	if p.Description != nil {
		note.Description = *p.Description
	}

	if err := validateNote(note.Title, note.Description); err != nil {
		return note, err
	}

	note.UpdatedAt = a.now()

	if err := a.DB.Model(&note).Updates(map[string]interface{}{
		"title":       note.Title,
		"description": note.Description,
		"updated_at":  note.UpdatedAt,
	}).Error; err != nil {
		return note, errors.Wrap(err, "editing note")
	}

	return note, nil
}

// DeleteNote deletes the note
func (a *App) DeleteNote(note database.Note) error {
	if err := a.DB.Delete(&note).Error; err != nil {
		return errors.Wrap(err, "deleting note")
	}

	return nil
}

// GetUserNote returns the note with the given id if the user may view it.
// A note of another user is reported as missing.
func (a *App) GetUserNote(user *database.User, id int) (database.Note, error) {
	var ret database.Note

	err := a.DB.Where("id = ?", id).First(&ret).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.Note{}, ErrNotFound
	} else if err != nil {
		return database.Note{}, errors.Wrap(err, "finding note")
	}

	if !permissions.ViewNote(user, ret) {
		return database.Note{}, ErrNotFound
	}

	return ret, nil
}

// GetNotesParams is params for finding notes
type GetNotesParams struct {
	// Title and Description match case-insensitively anywhere in the field
	Title       string
	Description string
	UpdatedGTE  *time.Time
	UpdatedLTE  *time.Time
	Page        int
	PerPage     int
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return "%" + r.Replace(s) + "%"
}

func getNotesBaseQuery(db *gorm.DB, userID int, q GetNotesParams) *gorm.DB {
	conn := db.Model(&database.Note{}).Where("notes.user_id = ?", userID)

	if q.Title != "" {
		conn = conn.Where(`notes.title LIKE ? ESCAPE '\'`, escapeLike(q.Title))
	}
	if q.Description != "" {
		conn = conn.Where(`notes.description LIKE ? ESCAPE '\'`, escapeLike(q.Description))
	}
	if q.UpdatedGTE != nil {
		conn = conn.Where("notes.updated_at >= ?", q.UpdatedGTE.UTC())
	}
	if q.UpdatedLTE != nil {
		conn = conn.Where("notes.updated_at <= ?", q.UpdatedLTE.UTC())
	}

	return conn
}

func orderGetNotes(conn *gorm.DB) *gorm.DB {
	return conn.Order("notes.updated_at DESC, notes.id DESC")
}

func paginate(conn *gorm.DB, page, perPage int) *gorm.DB {
	if page > 0 {
		offset := perPage * (page - 1)
		conn = conn.Offset(offset)
	}

	conn = conn.Limit(perPage)

	return conn
}

// normalizePerPage clamps the requested page size
func normalizePerPage(perPage int) int {
	if perPage <= 0 {
		return DefaultPerPage
	}
	if perPage > MaxPerPage {
		return MaxPerPage
	}

	return perPage
}

// GetNotesResult is the result of getting notes
type GetNotesResult struct {
	Notes   []database.Note
	Total   int64
	Page    int
	PerPage int
}

// HasNext returns true if a page follows the result
func (r GetNotesResult) HasNext() bool {
	return int64(r.Page*r.PerPage) < r.Total
}

// HasPrevious returns true if a page precedes the result
func (r GetNotesResult) HasPrevious() bool {
	return r.Page > 1
}

// GetNotes returns a page of the matching notes of the user, most recently
// updated first. A page past the last one is an ErrInvalidPage, except for
// the first page of an empty listing.
func (a *App) GetNotes(userID int, params GetNotesParams) (GetNotesResult, error) {
	page := params.Page
	if page == 0 {
		page = 1
	}
	if page < 0 {
		return GetNotesResult{}, ErrInvalidPage
	}
	perPage := normalizePerPage(params.PerPage)

	conn := getNotesBaseQuery(a.DB, userID, params)

	var total int64
	if err := conn.Count(&total).Error; err != nil {
		return GetNotesResult{}, errors.Wrap(err, "counting total")
	}

	if page > 1 && int64((page-1)*perPage) >= total {
		return GetNotesResult{}, ErrInvalidPage
	}

	notes := []database.Note{}
	if total != 0 {
		conn = orderGetNotes(getNotesBaseQuery(a.DB, userID, params))
		conn = paginate(conn, page, perPage)

		if err := conn.Find(&notes).Error; err != nil {
			return GetNotesResult{}, errors.Wrap(err, "finding notes")
		}
	}

	res := GetNotesResult{
		Notes:   notes,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}

	return res, nil
}
