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
	"strings"
	"sync"
	"time"

	"github.com/dnote/simplenote/pkg/cli/app"
	"github.com/dnote/simplenote/pkg/cli/autosave"
	"github.com/dnote/simplenote/pkg/cli/client"
	"github.com/dnote/simplenote/pkg/cli/context"
	"github.com/dnote/simplenote/pkg/cli/database"
	"github.com/dnote/simplenote/pkg/cli/log"
	"github.com/dnote/simplenote/pkg/cli/output"
	"github.com/dnote/simplenote/pkg/cli/ui"
	"github.com/dnote/simplenote/pkg/clock"
	"github.com/pkg/errors"
	"github.com/radovskyb/watcher"
)

// pollInterval is how often the watcher checks the edited file
const pollInterval = 100 * time.Millisecond

// saveFunc saves the content of a note. A nil id creates the note.
type saveFunc func(ctx stdctx.Context, id *int64, title, description string) (database.Note, error)

// autosaver saves the edited file, at most once per quiet period
type autosaver struct {
	fpath     string
	save      saveFunc
	debouncer *autosave.Debouncer

	mu   sync.Mutex
	id   *int64
	last string
	err  error
}

func newAutosaver(fpath string, n database.Note, save saveFunc, delay time.Duration, c clock.Clock) *autosaver {
	id := n.ID

	return &autosaver{
		fpath:     fpath,
		save:      save,
		debouncer: autosave.New(delay, c),
		id:        &id,
		last:      ui.FormatContent(n.Title, n.Description),
	}
}

// changed is called on every write to the file
func (a *autosaver) changed() {
	a.debouncer.Trigger(a.saveNow)
}

// saveNow saves the file content if it differs from the last saved content.
// Blank content is never saved.
func (a *autosaver) saveNow() {
	b, err := os.ReadFile(a.fpath)
	if err != nil {
		log.Debug("autosave: reading %s: %v\n", a.fpath, err)
		return
	}

	title, description := ui.ParseContent(string(b))
	if strings.TrimSpace(title) == "" && strings.TrimSpace(description) == "" {
		log.Debug("autosave: skipping blank content\n")
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	content := ui.FormatContent(title, description)
	if content == a.last {
		return
	}

	n, err := a.save(stdctx.Background(), a.id, title, description)
	if err != nil {
		a.err = err
		var httpErr *client.HTTPError
		if errors.As(err, &httpErr) {
			if fields := httpErr.FieldErrors(); fields != nil {
				output.FieldErrors(fields)
				return
			}
		}
		log.Errorf("autosave failed: %s\n", client.Describe(err))
		return
	}

	output.Diff(a.last, content)
	log.Successf("saved\n")

	id := n.ID
	a.id = &id
	a.last = content
	a.err = nil
}

// finish saves any pending change and stops the autosave
func (a *autosaver) finish() error {
	a.debouncer.Flush()
	a.debouncer.Stop()

	a.mu.Lock()
	defer a.mu.Unlock()

	return a.err
}

func watchFile(fpath string, onChange func()) (*watcher.Watcher, error) {
	w := watcher.New()
	w.SetMaxEvents(1)
	w.FilterOps(watcher.Write, watcher.Create, watcher.Rename, watcher.Move)

	if err := w.Add(fpath); err != nil {
		return nil, errors.Wrapf(err, "watching %s", fpath)
	}

	go func() {
		for {
			select {
			case event := <-w.Event:
				log.Debug("autosave: %s\n", event.Op.String())
				onChange()
			case err := <-w.Error:
				log.Debug("autosave: watcher error: %v\n", err)
			case <-w.Closed:
				return
			}
		}
	}()

	go func() {
		if err := w.Start(pollInterval); err != nil {
			log.Debug("autosave: starting watcher: %v\n", err)
		}
	}()
	w.Wait()

	return w, nil
}

func runWatch(ctx context.SimplenoteCtx, n database.Note) error {
	fpath, err := ui.GetTmpContentPath(ctx)
	if err != nil {
		return errors.Wrap(err, "getting temporarily content file path")
	}
	if err := ui.WriteTmpContent(fpath, ui.FormatContent(n.Title, n.Description)); err != nil {
		return err
	}
	defer os.Remove(fpath)

	a := app.New(ctx)
	saver := newAutosaver(fpath, n, a.Notes.SaveRemote, ctx.Settings.AutosaveDelay, ctx.Clock)

	w, err := watchFile(fpath, saver.changed)
	if err != nil {
		return err
	}
	defer w.Close()

	cmd, err := ui.StartEditor(ctx, fpath)
	if err != nil {
		return err
	}
	if err := cmd.Wait(); err != nil {
		return errors.Wrap(err, "waiting for the editor")
	}

	// catch a write made right before the editor exited
	time.Sleep(2 * pollInterval)
	saver.changed()

	if err := saver.finish(); err != nil {
		return errors.Wrap(err, "saving the note")
	}

	return nil
}
