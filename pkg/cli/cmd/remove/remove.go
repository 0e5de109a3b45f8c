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
	"github.com/dnote/simplenote/pkg/cli/app"
	"github.com/dnote/simplenote/pkg/cli/context"
	"github.com/dnote/simplenote/pkg/cli/infra"
	"github.com/dnote/simplenote/pkg/cli/log"
	"github.com/dnote/simplenote/pkg/cli/notes"
	"github.com/dnote/simplenote/pkg/cli/output"
	"github.com/dnote/simplenote/pkg/cli/ui"
	"github.com/dnote/simplenote/pkg/cli/utils"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var yesFlag bool

var example = `
  * Remove a note by id
  simplenote remove 1

  * Skip confirmation
  simplenote remove 1 -y`

func preRun(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("Incorrect number of argument")
	}

	return nil
}

// NewCmd returns a new remove command
func NewCmd(ctx context.SimplenoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <note id>",
		Short:   "Remove a note",
		Aliases: []string{"rm", "d"},
		Example: example,
		PreRunE: preRun,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.BoolVarP(&yesFlag, "yes", "y", false, "remove without confirmation")

	return cmd
}

// Do removes the note with the given id. The deletion reaches the server on
// the next sync.
func Do(ctx context.SimplenoteCtx, id int64) error {
	if err := app.New(ctx).Notes.Delete(id); err != nil {
		return err
	}

	return nil
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

		if !yesFlag {
			output.NoteInfo(color.Output, n)

			ok, err := ui.Confirm("remove this note?", false)
			if err != nil {
				return errors.Wrap(err, "getting confirmation")
			}
			if !ok {
				log.Warnf("aborted by user\n")
				return nil
			}
		}

		if err := Do(ctx, id); err != nil {
			return errors.Wrap(err, "removing the note")
		}

		log.Success("removed\n")

		return nil
	}
}
