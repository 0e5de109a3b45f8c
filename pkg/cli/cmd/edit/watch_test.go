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
	stdctx "context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dnote/simplenote/pkg/assert"
	"github.com/dnote/simplenote/pkg/cli/database"
	"github.com/dnote/simplenote/pkg/clock"
	"github.com/pkg/errors"
)

type saveCall struct {
	ID          int64
	Title       string
	Description string
}

type recorder struct {
	calls  []saveCall
	nextID int64
	err    error
}

func (r *recorder) save(ctx stdctx.Context, id *int64, title, description string) (database.Note, error) {
	r.calls = append(r.calls, saveCall{ID: *id, Title: title, Description: description})
	if r.err != nil {
		return database.Note{}, r.err
	}

	ret := *id
	if r.nextID != 0 {
		ret = r.nextID
	}

	return database.NewNote(ret, title, description, 1, database.ActionNone), nil
}

func mustWrite(t *testing.T, path, content string) {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(errors.Wrap(err, "writing the file"))
	}
}

func TestAutosaverDebounce(t *testing.T) {
	c := clock.NewMock()
	fpath := filepath.Join(t.TempDir(), "note.md")
	rec := &recorder{}

	n := database.NewNote(7, "title", "body", 1, database.ActionNone)
	s := newAutosaver(fpath, n, rec.save, 900*time.Millisecond, c)

	mustWrite(t, fpath, "title\n\nbody 1\n")
	s.changed()

	c.Advance(500 * time.Millisecond)
	mustWrite(t, fpath, "title\n\nbody 2\n")
	s.changed()

	c.Advance(899 * time.Millisecond)
	assert.Equal(t, len(rec.calls), 0, "no save before the quiet period ends")

	c.Advance(time.Millisecond)
	assert.DeepEqual(t, rec.calls, []saveCall{{ID: 7, Title: "title", Description: "body 2"}}, "calls mismatch")
}

func TestAutosaverSkips(t *testing.T) {
	t.Run("blank", func(t *testing.T) {
		c := clock.NewMock()
		fpath := filepath.Join(t.TempDir(), "note.md")
		rec := &recorder{}

		s := newAutosaver(fpath, database.NewNote(7, "title", "body", 1, database.ActionNone), rec.save, time.Second, c)

		mustWrite(t, fpath, "  \n\n \n")
		s.changed()
		c.Advance(time.Second)

		assert.Equal(t, len(rec.calls), 0, "blank content should not be saved")
	})

	t.Run("unchanged", func(t *testing.T) {
		c := clock.NewMock()
		fpath := filepath.Join(t.TempDir(), "note.md")
		rec := &recorder{}

		s := newAutosaver(fpath, database.NewNote(7, "title", "body", 1, database.ActionNone), rec.save, time.Second, c)

		mustWrite(t, fpath, "title\n\nbody\n")
		s.changed()
		c.Advance(time.Second)

		assert.Equal(t, len(rec.calls), 0, "unchanged content should not be saved")
	})
}

func TestAutosaverFollowsNewID(t *testing.T) {
	c := clock.NewMock()
	fpath := filepath.Join(t.TempDir(), "note.md")
	rec := &recorder{nextID: 42}

	s := newAutosaver(fpath, database.NewNote(-1, "draft", "", 1, database.ActionCreate), rec.save, time.Second, c)

	mustWrite(t, fpath, "draft\n\nfirst\n")
	s.changed()
	c.Advance(time.Second)

	rec.nextID = 0
	mustWrite(t, fpath, "draft\n\nsecond\n")
	s.changed()
	c.Advance(time.Second)

	assert.DeepEqual(t, rec.calls, []saveCall{
		{ID: -1, Title: "draft", Description: "first"},
		{ID: 42, Title: "draft", Description: "second"},
	}, "calls mismatch")
}

func TestAutosaverFinish(t *testing.T) {
	c := clock.NewMock()
	fpath := filepath.Join(t.TempDir(), "note.md")
	rec := &recorder{}

	s := newAutosaver(fpath, database.NewNote(7, "title", "body", 1, database.ActionNone), rec.save, time.Second, c)

	mustWrite(t, fpath, "title\n\nlast words\n")
	s.changed()

	if err := s.finish(); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, len(rec.calls), 1, "pending save should be flushed")

	s.changed()
	c.Advance(time.Second)
	assert.Equal(t, len(rec.calls), 1, "no save after finish")
}

func TestAutosaverError(t *testing.T) {
	c := clock.NewMock()
	fpath := filepath.Join(t.TempDir(), "note.md")
	rec := &recorder{err: errors.New("boom")}

	s := newAutosaver(fpath, database.NewNote(7, "title", "body", 1, database.ActionNone), rec.save, time.Second, c)

	mustWrite(t, fpath, "title\n\nchanged\n")
	s.changed()

	err := s.finish()
	assert.NotEqual(t, err, nil, "error should be reported")
}
