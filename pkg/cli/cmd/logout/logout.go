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
package logout

import (
	"github.com/dnote/simplenote/pkg/cli/app"
	"github.com/dnote/simplenote/pkg/cli/context"
	"github.com/dnote/simplenote/pkg/cli/infra"
	"github.com/dnote/simplenote/pkg/cli/log"
	"github.com/dnote/simplenote/pkg/cli/ui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// ErrNotLoggedIn is an error for logging out when not logged in
var ErrNotLoggedIn = errors.New("not logged in")

var example = `
  simplenote logout`

var yesFlag bool

// NewCmd returns a new logout command
func NewCmd(ctx context.SimplenoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "logout",
		Short:   "Logout from the server",
		Example: example,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.BoolVarP(&yesFlag, "yes", "y", false, "discard unsynced changes without asking")

	return cmd
}

// Do performs logout. The cached notes are discarded along with the tokens.
func Do(ctx context.SimplenoteCtx) error {
	a := app.New(ctx)

	ok, err := a.Account.LoggedIn()
	if err != nil {
		return errors.Wrap(err, "checking login state")
	}
	if !ok {
		return ErrNotLoggedIn
	}

	if err := a.Account.Logout(); err != nil {
		return errors.Wrap(err, "clearing the session")
	}

	return nil
}

func confirmDiscard(ctx context.SimplenoteCtx) (bool, error) {
	pending, err := app.New(ctx).Cache.GetPending()
	if err != nil {
		return false, errors.Wrap(err, "getting pending changes")
	}
	if len(pending) == 0 || yesFlag {
		return true, nil
	}

	log.Warnf("%d changes have not been synced and will be lost\n", len(pending))

	return ui.Confirm("log out anyway?", false)
}

func newRun(ctx context.SimplenoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		ok, err := confirmDiscard(ctx)
		if err != nil {
			return err
		}
		if !ok {
			log.Warnf("aborted by user\n")
			return nil
		}

		err = Do(ctx)
		if err == ErrNotLoggedIn {
			log.Error("not logged in\n")
			return nil
		} else if err != nil {
			return errors.Wrap(err, "logging out")
		}

		log.Success("logged out\n")

		return nil
	}
}
