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
package sync

import (
	stdctx "context"
	"os"
	"os/signal"
	"time"

	"github.com/dnote/simplenote/pkg/cli/app"
	"github.com/dnote/simplenote/pkg/cli/context"
	"github.com/dnote/simplenote/pkg/cli/infra"
	"github.com/dnote/simplenote/pkg/cli/log"
	"github.com/dnote/simplenote/pkg/cli/output"
	"github.com/dnote/simplenote/pkg/cli/syncer"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// ErrNotLoggedIn is an error for syncing without credentials
var ErrNotLoggedIn = errors.New("not logged in")

var example = `
  simplenote sync`

// NewCmd returns a new sync command
func NewCmd(ctx context.SimplenoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sync",
		Aliases: []string{"s"},
		Short:   "Sync data with the server",
		Example: example,
		RunE:    newRun(ctx),
	}

	return cmd
}

// Do pushes the local changes and pulls the notes from the server
func Do(c stdctx.Context, ctx context.SimplenoteCtx) (syncer.Result, error) {
	a := app.New(ctx)

	ok, err := a.Account.LoggedIn()
	if err != nil {
		return syncer.Result{}, errors.Wrap(err, "checking login state")
	}
	if !ok {
		return syncer.Result{}, ErrNotLoggedIn
	}

	lastSyncAt, err := syncer.LastSyncAt(ctx.DB)
	if err != nil {
		return syncer.Result{}, errors.Wrap(err, "getting the last sync time")
	}
	log.Debug("last sync at: %d\n", lastSyncAt)

	return a.Notes.Sync(c)
}

func newRun(ctx context.SimplenoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		c, stop := signal.NotifyContext(stdctx.Background(), os.Interrupt)
		defer stop()

		result, err := Do(c, ctx)
		if err != nil {
			return errors.Wrap(err, "syncing")
		}

		output.SyncResult(result)

		lastSyncAt, err := syncer.LastSyncAt(ctx.DB)
		if err != nil {
			return errors.Wrap(err, "getting the last sync time")
		}
		if lastSyncAt != 0 {
			log.Infof("last synced at %s\n", time.Unix(lastSyncAt, 0).Format("Jan 2, 2006 3:04pm (MST)"))
		}

		return nil
	}
}
