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

package testutils

import (
	"testing"

	"github.com/dnote/simplenote/pkg/cli/database"
)

// Setup1 sets up a cache with two synced notes
func Setup1(t *testing.T, db *database.DB) {
	database.MustExec(t, "setting up note 1", db, "INSERT INTO notes (id, title, description, updated_at) VALUES (?, ?, ?, ?)", 1, "Booleans", "Booleans have toString()", 1515199943000000000)
	database.MustExec(t, "setting up note 2", db, "INSERT INTO notes (id, title, description, updated_at) VALUES (?, ?, ?, ?)", 2, "Dates", "Date object implements mathematical comparisons", 1515199951000000000)
}

// Setup2 sets up a cache with a synced note and a note pending creation
func Setup2(t *testing.T, db *database.DB) {
	database.MustExec(t, "setting up note 1", db, "INSERT INTO notes (id, title, description, updated_at) VALUES (?, ?, ?, ?)", 1, "Booleans", "Booleans have toString()", 1515199943000000000)
	database.MustExec(t, "setting up note 2", db, "INSERT INTO notes (id, title, description, updated_at, pending_action) VALUES (?, ?, ?, ?, ?)", -1, "draft", "not pushed yet", 1515199961000000000, string(database.ActionCreate))
}
