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
package add

import (
	"testing"

	"github.com/dnote/simplenote/pkg/assert"
	"github.com/dnote/simplenote/pkg/cli/context"
	"github.com/dnote/simplenote/pkg/cli/database"
	"github.com/dnote/simplenote/pkg/cli/notes"
	"github.com/pkg/errors"
)

func TestDo(t *testing.T) {
	ctx := context.InitTestCtx(t)

	if err := Do(ctx, "title", "body"); err != nil {
		t.Fatal(errors.Wrap(err, "executing"))
	}

	n := database.MustGetNote(t, ctx.DB, -1)
	assert.Equal(t, n.Title, "title", "title mismatch")
	assert.Equal(t, n.Description, "body", "description mismatch")
	assert.Equal(t, n.PendingAction, database.ActionCreate, "action mismatch")
	assert.Equal(t, n.UpdatedAt, ctx.Clock.Now().UnixNano(), "updated at mismatch")
}

func TestDoEmpty(t *testing.T) {
	ctx := context.InitTestCtx(t)

	assert.Equal(t, Do(ctx, " ", "\n"), notes.ErrEmptyNote, "error mismatch")

	var count int
	database.MustScan(t, "counting notes", ctx.DB.QueryRow("SELECT count(*) FROM notes"), &count)
	assert.Equal(t, count, 0, "no note should be written")
}
