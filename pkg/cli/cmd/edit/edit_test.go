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
package edit

import (
	"testing"

	"github.com/dnote/simplenote/pkg/assert"
	"github.com/dnote/simplenote/pkg/cli/context"
	"github.com/dnote/simplenote/pkg/cli/database"
	"github.com/dnote/simplenote/pkg/cli/notes"
	"github.com/pkg/errors"
)

func TestDo(t *testing.T) {
	t.Run("synced note", func(t *testing.T) {
		ctx := context.InitTestCtx(t)
		n := database.NewNote(3, "title", "body", 1, database.ActionNone)
		database.MustUpsertNote(t, ctx.DB, n)

		changed, err := Do(ctx, n, "title", "new body")
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		got := database.MustGetNote(t, ctx.DB, 3)
		assert.Equal(t, changed, true, "changed mismatch")
		assert.Equal(t, got.Description, "new body", "description mismatch")
		assert.Equal(t, got.PendingAction, database.ActionUpdate, "action mismatch")
	})

	t.Run("unsynced note stays pending create", func(t *testing.T) {
		ctx := context.InitTestCtx(t)
		n := database.NewNote(-1, "title", "body", 1, database.ActionCreate)
		database.MustUpsertNote(t, ctx.DB, n)

		if _, err := Do(ctx, n, "new title", "body"); err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		got := database.MustGetNote(t, ctx.DB, -1)
		assert.Equal(t, got.Title, "new title", "title mismatch")
		assert.Equal(t, got.PendingAction, database.ActionCreate, "action mismatch")
	})

	t.Run("unchanged", func(t *testing.T) {
		ctx := context.InitTestCtx(t)
		n := database.NewNote(3, "title", "body", 1, database.ActionNone)
		database.MustUpsertNote(t, ctx.DB, n)

		changed, err := Do(ctx, n, "title", "body")
		if err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		got := database.MustGetNote(t, ctx.DB, 3)
		assert.Equal(t, changed, false, "changed mismatch")
		assert.Equal(t, got.PendingAction, database.ActionNone, "action mismatch")
	})

	t.Run("blank", func(t *testing.T) {
		ctx := context.InitTestCtx(t)
		n := database.NewNote(3, "title", "body", 1, database.ActionNone)
		database.MustUpsertNote(t, ctx.DB, n)

		_, err := Do(ctx, n, " ", "")
		assert.Equal(t, err, notes.ErrEmptyNote, "error mismatch")
	})
}
