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
package daemon

import (
	stdctx "context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dnote/simplenote/pkg/cli/app"
	"github.com/dnote/simplenote/pkg/cli/config"
	"github.com/dnote/simplenote/pkg/cli/context"
	"github.com/dnote/simplenote/pkg/cli/infra"
	"github.com/dnote/simplenote/pkg/cli/log"
	"github.com/dnote/simplenote/pkg/cli/output"
	"github.com/dnote/simplenote/pkg/cli/scheduler"
	"github.com/dnote/simplenote/pkg/cli/syncer"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
  * Sync in the background on the configured interval
  simplenote daemon

  Send SIGHUP to reload the interval from the config file.`

// ErrSessionExpired is an error for a session that could not be refreshed
var ErrSessionExpired = errors.New("session expired. run 'simplenote login'")

// NewCmd returns a new daemon command
func NewCmd(ctx context.SimplenoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "daemon",
		Short:   "Sync periodically while the server is reachable",
		Example: example,
		RunE:    newRun(ctx),
	}

	return cmd
}

func reportRun(result syncer.Result, err error) {
	if err != nil {
		log.Errorf("sync failed: %s\n", err.Error())
		return
	}

	output.SyncResult(result)
}

// reload reads the sync interval from the config file and reschedules
func reload(ctx context.SimplenoteCtx, s *scheduler.Scheduler) error {
	cf, err := config.Read(ctx)
	if err != nil {
		return errors.Wrap(err, "reading config")
	}
	settings, err := config.Resolve(cf)
	if err != nil {
		return errors.Wrap(err, "resolving config")
	}

	s.EnsureScheduled(settings.SyncInterval)
	log.Infof("syncing every %s\n", settings.SyncInterval)

	return nil
}

// Run schedules the periodic sync and blocks until the context is done or
// the session expires
func Run(c stdctx.Context, ctx context.SimplenoteCtx, s *scheduler.Scheduler, hup <-chan os.Signal) error {
	logout := ctx.Logout.C()
	if ctx.Logout.Count() > 0 {
		return ErrSessionExpired
	}

	s.OnRun = reportRun
	s.EnsureScheduled(ctx.Settings.SyncInterval)
	defer s.Stop()

	log.Infof("syncing every %s\n", ctx.Settings.SyncInterval)

	result, ran, err := s.RunNow(c)
	if ran {
		reportRun(result, err)
	} else {
		log.Warnf("the server is not reachable. will retry on schedule\n")
	}

	for {
		select {
		case <-c.Done():
			log.Info("stopping\n")
			return nil
		case <-logout:
			return ErrSessionExpired
		case <-hup:
			if err := reload(ctx, s); err != nil {
				log.Errorf("%s\n", err.Error())
			}
		}
	}
}

func newRun(ctx context.SimplenoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		a := app.New(ctx)

		ok, err := a.Account.LoggedIn()
		if err != nil {
			return errors.Wrap(err, "checking login state")
		}
		if !ok {
			return errors.New("not logged in")
		}

		s, err := a.Scheduler()
		if err != nil {
			return err
		}

		c, stop := signal.NotifyContext(stdctx.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)

		return Run(c, ctx, s, hup)
	}
}
