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
package database

import (
	"database/sql"

	"github.com/pkg/errors"
)

// PendingAction marks a local mutation that has not been confirmed by the server
type PendingAction string

const (
	// ActionNone marks a note that matches the server state
	ActionNone PendingAction = ""
	// ActionCreate marks a note that only exists locally under a temporary id
	ActionCreate PendingAction = "create"
	// ActionUpdate marks a note edited locally
	ActionUpdate PendingAction = "update"
	// ActionDelete marks a note deleted locally. It is hidden from reads
	// until the server confirms the deletion.
	ActionDelete PendingAction = "delete"
)

// IsValid returns true if the action is one of the known values
func (a PendingAction) IsValid() bool {
	switch a {
	case ActionNone, ActionCreate, ActionUpdate, ActionDelete:
		return true
	}

	return false
}

// Note represents a cached note. Notes with a negative id have not been
// created on the server yet.
type Note struct {
	ID            int64         `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	UpdatedAt     int64         `json:"updated_at"`
	PendingAction PendingAction `json:"pending_action"`
}

// NewNote constructs a note with the given data
func NewNote(id int64, title, description string, updatedAt int64, action PendingAction) Note {
	return Note{
		ID:            id,
		Title:         title,
		Description:   description,
		UpdatedAt:     updatedAt,
		PendingAction: action,
	}
}

// IsTemporary returns true if the note has not been assigned an id by the server
func (n Note) IsTemporary() bool {
	return n.ID < 0
}

// Upsert inserts the note or replaces the note with the same id
func (n Note) Upsert(db *DB) error {
	if !n.PendingAction.IsValid() {
		return errors.Errorf("invalid pending action '%s'", n.PendingAction)
	}

	_, err := db.Exec(`INSERT INTO notes (id, title, description, updated_at, pending_action) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			updated_at = excluded.updated_at,
			pending_action = excluded.pending_action`,
		n.ID, n.Title, n.Description, n.UpdatedAt, string(n.PendingAction))
	if err != nil {
		return errors.Wrapf(err, "upserting note with id %d", n.ID)
	}

	return nil
}

// Expunge hard-deletes the note from the database
func (n Note) Expunge(db *DB) error {
	if err := DeleteNote(db, n.ID); err != nil {
		return errors.Wrap(err, "expunging a note locally")
	}

	return nil
}

const noteColumns = "id, title, description, updated_at, pending_action"

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanNote(s scanner) (Note, error) {
	var n Note
	var action string

	if err := s.Scan(&n.ID, &n.Title, &n.Description, &n.UpdatedAt, &action); err != nil {
		return n, err
	}
	n.PendingAction = PendingAction(action)

	return n, nil
}

func queryNotes(db *DB, query string, args ...interface{}) ([]Note, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying notes")
	}
	defer rows.Close()

	ret := []Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning a note")
		}

		ret = append(ret, n)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating notes")
	}

	return ret, nil
}

// GetNote finds the note with the given id, including notes pending deletion.
// It returns ErrNotFound if no such note exists.
func GetNote(db *DB, id int64) (Note, error) {
	row := db.QueryRow("SELECT "+noteColumns+" FROM notes WHERE id = ?", id)

	n, err := scanNote(row)
	if err == sql.ErrNoRows {
		return n, ErrNotFound
	} else if err != nil {
		return n, errors.Wrapf(err, "finding note %d", id)
	}

	return n, nil
}

// ListVisibleNotes returns the notes that are not pending deletion, most
// recently updated first
func ListVisibleNotes(db *DB) ([]Note, error) {
	return queryNotes(db, "SELECT "+noteColumns+" FROM notes WHERE pending_action != ? ORDER BY updated_at DESC, id DESC", string(ActionDelete))
}

// ListPendingNotes returns the notes carrying a pending action in the order
// they were last modified
func ListPendingNotes(db *DB) ([]Note, error) {
	return queryNotes(db, "SELECT "+noteColumns+" FROM notes WHERE pending_action != ? ORDER BY updated_at ASC, id ASC", string(ActionNone))
}

// DeleteNote hard-deletes the note with the given id
func DeleteNote(db *DB, id int64) error {
	if _, err := db.Exec("DELETE FROM notes WHERE id = ?", id); err != nil {
		return errors.Wrapf(err, "deleting note %d", id)
	}

	return nil
}

// DeleteSyncedNotes hard-deletes every note without a pending action
func DeleteSyncedNotes(db *DB) error {
	if _, err := db.Exec("DELETE FROM notes WHERE pending_action = ?", string(ActionNone)); err != nil {
		return errors.Wrap(err, "deleting synced notes")
	}

	return nil
}

// ClearNotes hard-deletes every note
func ClearNotes(db *DB) error {
	if _, err := db.Exec("DELETE FROM notes"); err != nil {
		return errors.Wrap(err, "clearing notes")
	}

	return nil
}

// MinNoteID returns the smallest note id, or 0 if there are no notes
func MinNoteID(db *DB) (int64, error) {
	var ret sql.NullInt64
	if err := db.QueryRow("SELECT min(id) FROM notes").Scan(&ret); err != nil {
		return 0, errors.Wrap(err, "finding the minimum note id")
	}

	return ret.Int64, nil
}
