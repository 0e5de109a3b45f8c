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
// Package infra provides operations and definitions for the
// local infrastructure for simplenote
package infra

import (
	"fmt"
	"net/http"

	"github.com/dnote/simplenote/pkg/cli/config"
	"github.com/dnote/simplenote/pkg/cli/consts"
	"github.com/dnote/simplenote/pkg/cli/context"
	"github.com/dnote/simplenote/pkg/cli/credentials"
	"github.com/dnote/simplenote/pkg/cli/database"
	"github.com/dnote/simplenote/pkg/cli/log"
	"github.com/dnote/simplenote/pkg/cli/session"
	"github.com/dnote/simplenote/pkg/cli/ui"
	"github.com/dnote/simplenote/pkg/cli/utils"
	"github.com/dnote/simplenote/pkg/clock"
	"github.com/dnote/simplenote/pkg/dirs"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	// DefaultAPIEndpoint is the default API endpoint used when none is configured
	DefaultAPIEndpoint = "http://localhost:8000/"
)

// RunEFunc is a function type of simplenote commands
type RunEFunc func(*cobra.Command, []string) error

func getDBPath(paths context.Paths, customPath string) string {
	if customPath != "" {
		return customPath
	}

	return fmt.Sprintf("%s/%s/%s", paths.Data, consts.SimplenoteDirName, consts.SimplenoteDBFileName)
}

// newBaseCtx creates a minimal context with paths and database connection.
// This base context is used for file and database initialization before
// being enriched with config values by setupCtx.
func newBaseCtx(versionTag, customDBPath string) (context.SimplenoteCtx, error) {
	base, err := dirs.Resolve()
	if err != nil {
		return context.SimplenoteCtx{}, errors.Wrap(err, "resolving base directories")
	}

	paths := context.Paths{
		Home:   base.Home,
		Config: base.Config,
		Data:   base.Data,
		Cache:  base.Cache,
	}

	db, err := database.Open(getDBPath(paths, customDBPath))
	if err != nil {
		return context.SimplenoteCtx{}, errors.Wrap(err, "connecting to db")
	}

	ctx := context.SimplenoteCtx{
		Paths:   paths,
		Version: versionTag,
		DB:      db,
	}

	return ctx, nil
}

// Init initializes the simplenote environment and returns a new context.
// apiEndpoint is used when creating a new config file.
func Init(versionTag, apiEndpoint, dbPath string) (*context.SimplenoteCtx, error) {
	ctx, err := newBaseCtx(versionTag, dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "initializing a context")
	}

	if err := initFiles(ctx, apiEndpoint); err != nil {
		return nil, errors.Wrap(err, "initializing files")
	}

	if err := database.InitSchema(ctx.DB); err != nil {
		return nil, errors.Wrap(err, "initializing database")
	}

	ctx, err = setupCtx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "setting up the context")
	}

	log.Debug("context: %+v\n", context.Redact(ctx))

	return &ctx, nil
}

// setupCtx enriches the base context with values from the config file.
// This is called after files and database have been initialized.
func setupCtx(ctx context.SimplenoteCtx) (context.SimplenoteCtx, error) {
	cf, err := config.Read(ctx)
	if err != nil {
		return ctx, errors.Wrap(err, "reading config")
	}

	settings, err := config.Resolve(cf)
	if err != nil {
		return ctx, errors.Wrap(err, "resolving config")
	}

	ret := context.SimplenoteCtx{
		Paths:       ctx.Paths,
		Version:     ctx.Version,
		DB:          ctx.DB,
		APIEndpoint: cf.APIEndpoint,
		Editor:      cf.Editor,
		Clock:       clock.New(),
		HTTPClient:  &http.Client{Timeout: settings.RequestTimeout},
		Settings:    settings,
		Tokens:      credentials.NewManager(credentials.NewSystemStore(ctx.DB)),
		Logout:      session.NewSignal(),
	}

	return ret, nil
}

// initConfigFile populates a new config file if it does not exist yet
func initConfigFile(ctx context.SimplenoteCtx, apiEndpoint string) error {
	path := config.GetPath(ctx)
	ok, err := utils.FileExists(path)
	if err != nil {
		return errors.Wrap(err, "checking if config exists")
	}
	if ok {
		return nil
	}

	endpoint := apiEndpoint
	if endpoint == "" {
		endpoint = DefaultAPIEndpoint
	}

	if err := config.Write(ctx, config.Default(ui.GetEditorCommand(), endpoint)); err != nil {
		return errors.Wrap(err, "writing config")
	}

	return nil
}

// initFiles creates, if necessary, the simplenote directories and files inside
func initFiles(ctx context.SimplenoteCtx, apiEndpoint string) error {
	if err := context.InitDirs(ctx.Paths); err != nil {
		return errors.Wrap(err, "creating the simplenote dir")
	}
	if err := initConfigFile(ctx, apiEndpoint); err != nil {
		return errors.Wrap(err, "generating the config file")
	}

	return nil
}
