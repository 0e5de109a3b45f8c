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
	"strings"

	"github.com/dnote/simplenote/pkg/cli/app"
	"github.com/dnote/simplenote/pkg/cli/context"
	"github.com/dnote/simplenote/pkg/cli/database"
	"github.com/dnote/simplenote/pkg/cli/infra"
	"github.com/dnote/simplenote/pkg/cli/log"
	"github.com/dnote/simplenote/pkg/cli/notes"
	"github.com/dnote/simplenote/pkg/cli/output"
	"github.com/dnote/simplenote/pkg/cli/ui"
	"github.com/dnote/simplenote/pkg/cli/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var titleFlag string
var contentFlag string
var watchFlag bool

var example = `
  * Edit a note by id
  simplenote edit 3

  * Edit a note without launching an editor
  simplenote edit 3 -c "new content"

  * Save to the server while editing
  simplenote edit 3 --watch`

// NewCmd returns a new edit command
func NewCmd(ctx context.SimplenoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edit <note id>",
		Short:   "Edit a note",
		Aliases: []string{"e"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&titleFlag, "title", "t", "", "a new title for the note")
	f.StringVarP(&contentFlag, "content", "c", "", "a new content for the note")
	f.BoolVarP(&watchFlag, "watch", "w", false, "save to the server every time the file is written in the editor")

	return cmd
}

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}
	if watchFlag && (titleFlag != "" || contentFlag != "") {
		return errors.New("--watch can not be used with --title or --content")
	}

	return nil
}

// Do applies the change to the cached note and reports the diff. It returns
// false if nothing changed.
func Do(ctx context.SimplenoteCtx, n database.Note, title, description string) (bool, error) {
	if strings.TrimSpace(title) == "" && strings.TrimSpace(description) == "" {
		return false, notes.ErrEmptyNote
	}

	before := ui.FormatContent(n.Title, n.Description)
	after := ui.FormatContent(title, description)
	if before == after {
		return false, nil
	}

	if _, err := app.New(ctx).Notes.Update(n.ID, title, description); err != nil {
		return false, errors.Wrap(err, "updating the note")
	}

	output.Diff(before, after)

	return true, nil
}

func getEditorContent(ctx context.SimplenoteCtx, n database.Note) (string, string, error) {
	fpath, err := ui.GetTmpContentPath(ctx)
	if err != nil {
		return "", "", errors.Wrap(err, "getting temporarily content file path")
	}
	if err := ui.WriteTmpContent(fpath, ui.FormatContent(n.Title, n.Description)); err != nil {
		return "", "", err
	}

	c, err := ui.GetEditorInput(ctx, fpath)
	if err != nil {
		return "", "", errors.Wrap(err, "getting editor input")
	}

	title, description := ui.ParseContent(c)
	return title, description, nil
}

func newRun(ctx context.SimplenoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		id, err := utils.ParseNoteID(args[0])
		if err != nil {
			return err
		}

		n, err := app.New(ctx).Notes.Get(id)
		if err == notes.ErrNotFound {
			return errors.Errorf("note %d not found", id)
		} else if err != nil {
			return errors.Wrap(err, "getting the note")
		}

		if watchFlag {
			return runWatch(ctx, n)
		}

		title, description := n.Title, n.Description
		if titleFlag != "" || contentFlag != "" {
			if titleFlag != "" {
				title = titleFlag
			}
			if contentFlag != "" {
				description = contentFlag
			}
		} else {
			title, description, err = getEditorContent(ctx, n)
			if err != nil {
				return err
			}
		}

		changed, err := Do(ctx, n, title, description)
		if err == notes.ErrEmptyNote {
			return errors.New("Empty content")
		} else if err != nil {
			return err
		}
		if !changed {
			log.Info("nothing changed\n")
			return nil
		}

		log.Success("edited the note\n")

		return nil
	}
}
