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
// Package app wires the services used by the commands from a context
package app

import (
	"net/http"

	"github.com/dnote/simplenote/pkg/cli/account"
	"github.com/dnote/simplenote/pkg/cli/cache"
	"github.com/dnote/simplenote/pkg/cli/client"
	"github.com/dnote/simplenote/pkg/cli/context"
	"github.com/dnote/simplenote/pkg/cli/listing"
	"github.com/dnote/simplenote/pkg/cli/notes"
	"github.com/dnote/simplenote/pkg/cli/scheduler"
	"github.com/dnote/simplenote/pkg/cli/syncer"
	"github.com/pkg/errors"
)

// App holds the services built from a context
type App struct {
	Ctx     context.SimplenoteCtx
	Cache   *cache.Cache
	Client  *client.Client
	Engine  *syncer.Engine
	Notes   *notes.Service
	Account *account.Service
}

func transport(ctx context.SimplenoteCtx) http.RoundTripper {
	if ctx.HTTPClient == nil {
		return nil
	}

	return ctx.HTTPClient.Transport
}

// New builds the services. A failed token refresh fires the logout signal
// of the context.
func New(ctx context.SimplenoteCtx) *App {
	c := cache.New(ctx.DB)

	cl := client.New(client.Params{
		Endpoint:  ctx.APIEndpoint,
		Version:   ctx.Version,
		Timeout:   ctx.Settings.RequestTimeout,
		Tokens:    ctx.Tokens,
		OnLogout:  ctx.Logout.Fire,
		Transport: transport(ctx),
	})

	engine := syncer.New(ctx.DB, c, cl, ctx.Clock)

	return &App{
		Ctx:     ctx,
		Cache:   c,
		Client:  cl,
		Engine:  engine,
		Notes:   notes.New(c, cl, engine, ctx.Clock),
		Account: account.New(ctx.DB, cl, ctx.Tokens, c),
	}
}

// Scheduler returns a periodic sync scheduler that probes the API endpoint
// for connectivity
func (a *App) Scheduler() (*scheduler.Scheduler, error) {
	probe, err := scheduler.NewProbe(a.Ctx.APIEndpoint, a.Ctx.Settings.RequestTimeout)
	if err != nil {
		return nil, errors.Wrap(err, "initializing the connectivity probe")
	}

	return scheduler.New(a.Engine, probe), nil
}

// Loader returns a loader for the remote listing with the configured page
// size and retry countdown
func (a *App) Loader() *listing.Loader {
	return listing.New(a.Client, listing.Params{
		PageSize:  a.Ctx.Settings.PageSize,
		Countdown: a.Ctx.Settings.RetryCountdown,
		Clock:     a.Ctx.Clock,
	})
}
