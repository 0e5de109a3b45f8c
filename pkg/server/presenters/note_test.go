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

package presenters

import (
	"testing"
	"time"

	"github.com/dnote/simplenote/pkg/assert"
	"github.com/dnote/simplenote/pkg/server/database"
)

func TestPresentNote(t *testing.T) {
	createdAt := time.Date(2025, 1, 15, 10, 30, 45, 123456789, time.UTC)
	updatedAt := time.Date(2025, 2, 20, 14, 45, 30, 987654321, time.UTC)

	input := database.Note{
		Model: database.Model{
			ID:        1,
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
		},
		UserID:      42,
		Title:       "Groceries",
		Description: "Test note content",
	}

	t.Run("with creator", func(t *testing.T) {
		creator := database.User{
			Model:     database.Model{ID: 42},
			Username:  "alice",
			FirstName: "Alice",
			LastName:  "Liddell",
		}

		got := PresentNote(input, creator)

		assert.Equal(t, got.ID, 1, "ID mismatch")
		assert.Equal(t, got.Title, "Groceries", "Title mismatch")
		assert.Equal(t, got.Description, "Test note content", "Description mismatch")
		assert.Equal(t, got.CreatedAt, FormatTS(createdAt), "CreatedAt mismatch")
		assert.Equal(t, got.UpdatedAt, FormatTS(updatedAt), "UpdatedAt mismatch")
		assert.Equal(t, *got.CreatorUsername, "alice", "CreatorUsername mismatch")
		assert.Equal(t, *got.CreatorName, "Alice Liddell", "CreatorName mismatch")
	})

	t.Run("creator without a name", func(t *testing.T) {
		got := PresentNote(input, database.User{Model: database.Model{ID: 42}, Username: "alice"})

		assert.Equal(t, *got.CreatorUsername, "alice", "CreatorUsername mismatch")
		assert.Equal(t, got.CreatorName, (*string)(nil), "CreatorName should be null")
	})

	t.Run("unrelated user", func(t *testing.T) {
		got := PresentNote(input, database.User{Model: database.Model{ID: 7}, Username: "bob"})

		assert.Equal(t, got.CreatorUsername, (*string)(nil), "CreatorUsername should be null")
	})
}

func TestPresentNotes(t *testing.T) {
	creator := database.User{Model: database.Model{ID: 1}, Username: "alice"}
	input := []database.Note{
		{Model: database.Model{ID: 1}, UserID: 1, Title: "First note"},
		{Model: database.Model{ID: 2}, UserID: 1, Title: "Second note"},
	}

	got := PresentNotes(input, creator)

	assert.Equal(t, len(got), 2, "Length mismatch")
	assert.Equal(t, got[0].Title, "First note", "Note 0 Title mismatch")
	assert.Equal(t, got[1].Title, "Second note", "Note 1 Title mismatch")

	assert.DeepEqual(t, PresentNotes(nil, creator), []Note{}, "empty notes should present as an empty list")
}

func TestFormatTS(t *testing.T) {
	ts := time.Date(2025, 1, 15, 10, 30, 45, 123456789, time.FixedZone("KST", 9*60*60))

	assert.Equal(t, FormatTS(ts), time.Date(2025, 1, 15, 1, 30, 45, 123457000, time.UTC), "FormatTS mismatch")
}
