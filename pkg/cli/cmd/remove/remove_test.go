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
package remove

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
		database.MustUpsertNote(t, ctx.DB, database.NewNote(5, "t", "d", 1, database.ActionNone))

		if err := Do(ctx, 5); err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		n := database.MustGetNote(t, ctx.DB, 5)
		assert.Equal(t, n.PendingAction, database.ActionDelete, "action mismatch")
	})

	t.Run("unsynced note", func(t *testing.T) {
		ctx := context.InitTestCtx(t)
		database.MustUpsertNote(t, ctx.DB, database.NewNote(-1, "t", "d", 1, database.ActionCreate))

		if err := Do(ctx, -1); err != nil {
			t.Fatal(errors.Wrap(err, "executing"))
		}

		var count int
		database.MustScan(t, "counting notes", ctx.DB.QueryRow("SELECT count(*) FROM notes"), &count)
		assert.Equal(t, count, 0, "unsynced note should be expunged")
	})

	t.Run("missing note", func(t *testing.T) {
		ctx := context.InitTestCtx(t)

		assert.Equal(t, Do(ctx, 3), notes.ErrNotFound, "error mismatch")
	})
}
