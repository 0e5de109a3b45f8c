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
package passwd

import (
	stdctx "context"

	"github.com/dnote/simplenote/pkg/cli/app"
	"github.com/dnote/simplenote/pkg/cli/client"
	"github.com/dnote/simplenote/pkg/cli/context"
	"github.com/dnote/simplenote/pkg/cli/infra"
	"github.com/dnote/simplenote/pkg/cli/log"
	"github.com/dnote/simplenote/pkg/cli/output"
	"github.com/dnote/simplenote/pkg/cli/ui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// NewCmd returns a new passwd command
func NewCmd(ctx context.SimplenoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change the password",
		RunE:  newRun(ctx),
	}

	return cmd
}

func readPasswords() (string, string, error) {
	var oldPassword, newPassword, confirm string

	if err := ui.PromptPassword("current password", &oldPassword); err != nil {
		return "", "", errors.Wrap(err, "getting the current password")
	}
	if err := ui.PromptPassword("new password", &newPassword); err != nil {
		return "", "", errors.Wrap(err, "getting the new password")
	}
	if err := ui.PromptPassword("confirm new password", &confirm); err != nil {
		return "", "", errors.Wrap(err, "getting the confirmation")
	}
	if newPassword != confirm {
		return "", "", errors.New("passwords do not match")
	}

	return oldPassword, newPassword, nil
}

func newRun(ctx context.SimplenoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		oldPassword, newPassword, err := readPasswords()
		if err != nil {
			return err
		}

		a := app.New(ctx)
		detail, err := a.Account.ChangePassword(stdctx.Background(), oldPassword, newPassword)

		var httpErr *client.HTTPError
		if errors.As(err, &httpErr) {
			if fields := httpErr.FieldErrors(); fields != nil {
				output.FieldErrors(fields)
				return errors.New("could not change the password")
			}
		}
		if err != nil {
			return errors.Wrap(err, "changing the password")
		}

		if detail == "" {
			detail = "password changed"
		}
		log.Successf("%s\n", detail)

		return nil
	}
}
