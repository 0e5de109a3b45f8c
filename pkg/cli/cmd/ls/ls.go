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
package ls

import (
	stdctx "context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dnote/simplenote/pkg/cli/app"
	"github.com/dnote/simplenote/pkg/cli/client"
	"github.com/dnote/simplenote/pkg/cli/context"
	"github.com/dnote/simplenote/pkg/cli/infra"
	"github.com/dnote/simplenote/pkg/cli/listing"
	"github.com/dnote/simplenote/pkg/cli/log"
	"github.com/dnote/simplenote/pkg/cli/output"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
 * List the cached notes
 simplenote ls

 * List the second page of the notes on the server
 simplenote ls --remote --page 2`

var remoteFlag bool
var pageFlag int

// NewCmd returns a new ls command
func NewCmd(ctx context.SimplenoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"l"},
		Short:   "List notes",
		Example: example,
		RunE:    NewRun(ctx),
	}

	f := cmd.Flags()
	f.BoolVarP(&remoteFlag, "remote", "r", false, "list the notes on the server instead of the cache")
	f.IntVarP(&pageFlag, "page", "p", 1, "the page of the remote listing")

	return cmd
}

// NewRun returns a new run function for ls
func NewRun(ctx context.SimplenoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if remoteFlag {
			c, stop := signal.NotifyContext(stdctx.Background(), os.Interrupt)
			defer stop()

			return listRemote(c, app.New(ctx).Loader(), pageFlag)
		}

		a := app.New(ctx)
		notes, err := a.Notes.List()
		if err != nil {
			return errors.Wrap(err, "listing notes")
		}

		output.NoteList(notes)

		return nil
	}
}

// waitLoaded prints the retry countdown until the first page is loaded
func waitLoaded(ctx stdctx.Context, loader *listing.Loader) error {
	for {
		select {
		case <-ctx.Done():
			fmt.Println("")
			return ctx.Err()
		case s := <-loader.Updates():
			switch s.State {
			case listing.StateRetrying:
				log.Plainf("\r%s", log.ColorYellow.Sprintf("timeout, retrying in %ds ", int(s.RetryIn.Seconds())))
			case listing.StateLoaded:
				fmt.Println("")
				return nil
			case listing.StateFailed:
				fmt.Println("")
				return s.Err
			}
		}
	}
}

func listRemote(ctx stdctx.Context, loader *listing.Loader, page int) error {
	defer loader.Close()

	if err := loader.Load(ctx); err != nil {
		if !client.IsTimeout(err) {
			return errors.Wrap(err, "loading notes")
		}
		if err := waitLoaded(ctx, loader); err != nil {
			return errors.Wrap(err, "loading notes")
		}
	}

	total := loader.TotalPages()
	if page < 1 || page > total {
		log.Warnf("page %d is out of range. there are %d pages\n", page, total)
		return nil
	}

	if _, err := loader.Ensure(ctx, page); err != nil {
		return errors.Wrapf(err, "loading page %d", page)
	}

	output.RemotePage(page, total, loader.Count(), loader.Page(page))

	return nil
}
