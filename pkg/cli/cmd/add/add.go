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
	"os"

	"github.com/dnote/simplenote/pkg/cli/app"
	"github.com/dnote/simplenote/pkg/cli/context"
	"github.com/dnote/simplenote/pkg/cli/infra"
	"github.com/dnote/simplenote/pkg/cli/log"
	"github.com/dnote/simplenote/pkg/cli/notes"
	"github.com/dnote/simplenote/pkg/cli/output"
	"github.com/dnote/simplenote/pkg/cli/ui"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var titleFlag string
var contentFlag string

var example = `
 * Open an editor to write a note. The first line is the title.
 simplenote add

 * Skip the editor by providing content directly
 simplenote add -t "groceries" -c "milk, eggs"

 * Send stdin content to a note
 echo "a branch is just a pointer to a commit" | simplenote add -t git`

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// NewCmd returns a new add command
func NewCmd(ctx context.SimplenoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a new note",
		Aliases: []string{"a", "n", "new"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&titleFlag, "title", "t", "", "The title of the note")
	f.StringVarP(&contentFlag, "content", "c", "", "The content of the note")

	return cmd
}

func getContent(ctx context.SimplenoteCtx) (string, string, error) {
	if contentFlag != "" {
		return titleFlag, contentFlag, nil
	}

	// check for piped content
	fInfo, _ := os.Stdin.Stat()
	if fInfo != nil && fInfo.Mode()&os.ModeCharDevice == 0 {
		c, err := ui.ReadStdInput()
		if err != nil {
			return "", "", errors.Wrap(err, "Failed to get piped input")
		}
		return titleFlag, c, nil
	}

	if titleFlag != "" {
		return titleFlag, "", nil
	}

	fpath, err := ui.GetTmpContentPath(ctx)
	if err != nil {
		return "", "", errors.Wrap(err, "getting temporarily content file path")
	}

	c, err := ui.GetEditorInput(ctx, fpath)
	if err != nil {
		return "", "", errors.Wrap(err, "Failed to get editor input")
	}

	title, description := ui.ParseContent(c)
	return title, description, nil
}

// Do stores a new note locally, pending creation on the server
func Do(ctx context.SimplenoteCtx, title, description string) error {
	a := app.New(ctx)

	n, err := a.Notes.Create(title, description)
	if err != nil {
		return err
	}

	log.Success("added\n")
	output.NoteInfo(color.Output, n)

	return nil
}

func newRun(ctx context.SimplenoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		title, description, err := getContent(ctx)
		if err != nil {
			return errors.Wrap(err, "getting content")
		}

		err = Do(ctx, title, description)
		if err == notes.ErrEmptyNote {
			return errors.New("Empty content")
		} else if err != nil {
			return errors.Wrap(err, "Failed to write note")
		}

		return nil
	}
}
