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
	"time"

	"github.com/dnote/simplenote/pkg/server/database"
)

// Note is a result of PresentNote
type Note struct {
	ID              int       `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	CreatorName     *string   `json:"creator_name"`
	CreatorUsername *string   `json:"creator_username"`
}

// PresentNote presents a note written by the given user
func PresentNote(note database.Note, creator database.User) Note {
	ret := Note{
		ID:          note.ID,
		Title:       note.Title,
		Description: note.Description,
		CreatedAt:   FormatTS(note.CreatedAt),
		UpdatedAt:   FormatTS(note.UpdatedAt),
	}

	if creator.ID == note.UserID {
		username := creator.Username
		ret.CreatorUsername = &username

		if name := creator.FullName(); name != "" {
			ret.CreatorName = &name
		}
	}

	return ret
}

// PresentNotes presents notes written by the given user
func PresentNotes(notes []database.Note, creator database.User) []Note {
	ret := []Note{}

	for _, note := range notes {
		p := PresentNote(note, creator)
		ret = append(ret, p)
	}

	return ret
}
