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
// Package context defines the simplenote runtime context
package context

import (
	"net/http"
	"time"

	"github.com/dnote/simplenote/pkg/cli/consts"
	"github.com/dnote/simplenote/pkg/cli/credentials"
	"github.com/dnote/simplenote/pkg/cli/database"
	"github.com/dnote/simplenote/pkg/cli/session"
	"github.com/dnote/simplenote/pkg/clock"
)

// Paths contain directory definitions
type Paths struct {
	Home   string
	Config string
	Data   string
	Cache  string
}

// Settings holds the tunable behavior resolved from the config file
type Settings struct {
	RequestTimeout time.Duration
	SyncInterval   time.Duration
	PageSize       int
	RetryCountdown time.Duration
	AutosaveDelay  time.Duration
}

// DefaultSettings returns the settings used when the config file is silent
func DefaultSettings() Settings {
	return Settings{
		RequestTimeout: consts.DefaultRequestTimeout,
		SyncInterval:   consts.DefaultSyncInterval,
		PageSize:       consts.DefaultPageSize,
		RetryCountdown: consts.DefaultRetryCountdown,
		AutosaveDelay:  consts.DefaultAutosaveDelay,
	}
}

// SimplenoteCtx is a context holding the information of the current runtime
type SimplenoteCtx struct {
	Paths       Paths
	APIEndpoint string
	Version     string
	DB          *database.DB
	Editor      string
	Clock       clock.Clock
	HTTPClient  *http.Client
	Settings    Settings
	Tokens      *credentials.Manager
	// Logout is raised when the session expires and can not be refreshed
	Logout *session.Signal
}

// Redacted is a loggable view of the context that holds no secrets
type Redacted struct {
	Paths       Paths
	APIEndpoint string
	Version     string
	Editor      string
	Settings    Settings
	LoggedIn    bool
}

// Redact returns a view of the context with private information replaced
// by placeholder values
func Redact(ctx SimplenoteCtx) Redacted {
	ret := Redacted{
		Paths:       ctx.Paths,
		APIEndpoint: ctx.APIEndpoint,
		Version:     ctx.Version,
		Editor:      ctx.Editor,
		Settings:    ctx.Settings,
	}

	if ctx.Tokens != nil {
		loggedIn, err := ctx.Tokens.LoggedIn()
		ret.LoggedIn = err == nil && loggedIn
	}

	return ret
}
