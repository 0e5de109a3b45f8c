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
package login

import (
	stdctx "context"
	"net/url"

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
  simplenote login

  * Provide the credentials without prompts
  simplenote login --username alice --password secret`

var usernameFlag string
var passwordFlag string

// NewCmd returns a new login command
func NewCmd(ctx context.SimplenoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "login",
		Short:   "Login to the server",
		Example: example,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&usernameFlag, "username", "u", "", "username")
	f.StringVarP(&passwordFlag, "password", "p", "", "password")

	return cmd
}

// getServerDisplayURL returns the scheme and host of the API endpoint
func getServerDisplayURL(ctx context.SimplenoteCtx) string {
	u, err := url.Parse(ctx.APIEndpoint)
	if err != nil {
		return ""
	}
	if u.Scheme == "" || u.Host == "" {
		return ""
	}

	return u.Scheme + "://" + u.Host
}

func getCredentials() (string, string, error) {
	username := usernameFlag
	if username == "" {
		if err := ui.PromptRequired("username", &username); err != nil {
			return "", "", errors.Wrap(err, "getting username input")
		}
	}

	password := passwordFlag
	if password == "" {
		if err := ui.PromptPassword("password", &password); err != nil {
			return "", "", errors.Wrap(err, "getting password input")
		}
	}
	if password == "" {
		return "", "", errors.New("Password is empty")
	}

	return username, password, nil
}

// Do logs in with the given credentials and stores the tokens
func Do(ctx context.SimplenoteCtx, username, password string) error {
	a := app.New(ctx)

	if err := a.Account.Login(stdctx.Background(), username, password); err != nil {
		return err
	}

	return nil
}

func newRun(ctx context.SimplenoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if display := getServerDisplayURL(ctx); display != "" {
			log.Infof("logging in to %s\n", display)
		}

		username, password, err := getCredentials()
		if err != nil {
			return err
		}

		err = Do(ctx, username, password)
		var httpErr *client.HTTPError
		if errors.As(err, &httpErr) {
			if fields := httpErr.FieldErrors(); fields != nil {
				output.FieldErrors(fields)
				return errors.New("could not log in")
			}
		}
		if err != nil {
			return errors.Wrap(err, "logging in")
		}

		log.Success("logged in\n")

		return nil
	}
}
