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
package register

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

var example = `
  simplenote register

  * Provide the account details without prompts
  simplenote register --username alice --password secret --email alice@example.com`

var params client.RegisterParams

// NewCmd returns a new register command
func NewCmd(ctx context.SimplenoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "register",
		Short:   "Create an account and login",
		Example: example,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&params.Username, "username", "u", "", "username")
	f.StringVarP(&params.Password, "password", "p", "", "password")
	f.StringVar(&params.Email, "email", "", "email address")
	f.StringVar(&params.FirstName, "first-name", "", "first name")
	f.StringVar(&params.LastName, "last-name", "", "last name")

	return cmd
}

func fillParams(p *client.RegisterParams) error {
	if p.Username == "" {
		if err := ui.PromptRequired("username", &p.Username); err != nil {
			return errors.Wrap(err, "getting username input")
		}
	}
	if p.Password == "" {
		if err := ui.PromptPassword("password", &p.Password); err != nil {
			return errors.Wrap(err, "getting password input")
		}

		var confirm string
		if err := ui.PromptPassword("confirm password", &confirm); err != nil {
			return errors.Wrap(err, "getting password confirmation")
		}
		if confirm != p.Password {
			return errors.New("passwords do not match")
		}
	}
	if p.Email == "" {
		if err := ui.PromptInput("email (optional)", &p.Email); err != nil {
			return errors.Wrap(err, "getting email input")
		}
	}

	return nil
}

func newRun(ctx context.SimplenoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if err := fillParams(&params); err != nil {
			return err
		}

		a := app.New(ctx)
		user, err := a.Account.Register(stdctx.Background(), params)

		var httpErr *client.HTTPError
		if errors.As(err, &httpErr) {
			if fields := httpErr.FieldErrors(); fields != nil {
				output.FieldErrors(fields)
				return errors.New("could not register")
			}
		}
		if err != nil {
			return errors.Wrap(err, "registering")
		}

		log.Successf("registered and logged in as %s\n", user.Username)

		return nil
	}
}
