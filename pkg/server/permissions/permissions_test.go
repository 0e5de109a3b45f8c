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

package permissions

import (
	"testing"
	"time"

	"github.com/dnote/simplenote/pkg/assert"
	"github.com/dnote/simplenote/pkg/server/database"
	"github.com/dnote/simplenote/pkg/server/testutils"
)

func TestViewNote(t *testing.T) {
	db := testutils.InitMemoryDB(t)

	user := testutils.SetupUserData(db, "alice", "password123")
	anotherUser := testutils.SetupUserData(db, "bob", "password123")
	note := testutils.SetupNoteData(db, user, "js", "note content", time.Now())

	testCases := []struct {
		name     string
		user     *database.User
		note     database.Note
		expected bool
	}{
		{"owner accessing note", &user, note, true},
		{"non-owner accessing note", &anotherUser, note, false},
		{"guest accessing note", nil, note, false},
		{"unsaved user", &database.User{}, database.Note{}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := ViewNote(tc.user, tc.note)
			assert.Equal(t, result, tc.expected, "result mismatch")
		})
	}
}
