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
package cat

import (
	"io"

	"github.com/dnote/simplenote/pkg/cli/app"
	"github.com/dnote/simplenote/pkg/cli/context"
	"github.com/dnote/simplenote/pkg/cli/infra"
	"github.com/dnote/simplenote/pkg/cli/notes"
	"github.com/dnote/simplenote/pkg/cli/output"
	"github.com/dnote/simplenote/pkg/cli/utils"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
 * Print the content of the note with id 2
 simplenote cat 2
 `

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of arguments")
	}

	return nil
}

// NewCmd returns a new cat command
func NewCmd(ctx context.SimplenoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cat <note id>",
		Aliases: []string{"c"},
		Short:   "Print the content of a note",
		Example: example,
		RunE:    NewRun(ctx, true),
		PreRunE: preRun,
	}

	return cmd
}

// Do writes the note with the given id argument
func Do(ctx context.SimplenoteCtx, w io.Writer, idArg string, contentOnly bool) error {
	id, err := utils.ParseNoteID(idArg)
	if err != nil {
		return err
	}

	n, err := app.New(ctx).Notes.Get(id)
	if err == notes.ErrNotFound {
		return errors.Errorf("note %d not found", id)
	} else if err != nil {
		return errors.Wrapf(err, "getting note %d", id)
	}

	if contentOnly {
		output.NoteContent(w, n)
	} else {
		output.NoteInfo(w, n)
	}

	return nil
}

// NewRun returns a new run function
func NewRun(ctx context.SimplenoteCtx, contentOnly bool) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		return Do(ctx, color.Output, args[0], contentOnly)
	}
}
