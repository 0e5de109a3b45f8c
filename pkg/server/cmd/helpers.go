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

package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/dnote/simplenote/pkg/clock"
	"github.com/dnote/simplenote/pkg/server/app"
	"github.com/dnote/simplenote/pkg/server/config"
	"github.com/dnote/simplenote/pkg/server/database"
	"github.com/dnote/simplenote/pkg/server/helpers"
	"github.com/dnote/simplenote/pkg/server/token"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const dbPathUsage = "Path to SQLite database file (env: DBPath, default: $XDG_DATA_HOME/simplenote/server.db)"

func initDB(cfg config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg.DBPath, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if err := database.InitSchema(db); err != nil {
		database.Close(db)
		return nil, err
	}

	return db, nil
}

func initApp(cfg config.Config) (app.App, error) {
	db, err := initDB(cfg)
	if err != nil {
		return app.App{}, errors.Wrap(err, "initializing the database")
	}

	c := clock.New()

	return app.App{
		DB:        db,
		Clock:     c,
		Tokens:    token.NewIssuer(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL, c),
		RateLimit: cfg.RateLimit,
	}, nil
}

// printFlags prints flags with -- prefix for consistency with CLI
func printFlags(fs *flag.FlagSet) {
	fs.VisitAll(func(f *flag.Flag) {
		fmt.Printf("  --%s", f.Name)

		// Print type hint for non-boolean flags
		name, usage := flag.UnquoteUsage(f)
		if name != "" {
			fmt.Printf(" %s", name)
		}
		fmt.Println()

		if usage != "" {
			fmt.Printf("    \t%s", usage)
			if f.DefValue != "" && f.DefValue != "false" {
				fmt.Printf(" (default: %s)", f.DefValue)
			}
			fmt.Println()
		}
	})
}

// setupFlagSet creates a FlagSet with standard usage format
func setupFlagSet(name, usageCmd string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Printf(`Usage:
  %s [flags]

Flags:
`, usageCmd)
		printFlags(fs)
	}
	return fs
}

// requireString validates that a required string flag is not empty
func requireString(fs *flag.FlagSet, value, fieldName string) {
	if value == "" {
		fmt.Printf("Error: %s is required\n", fieldName)
		fs.Usage()
		os.Exit(1)
	}
}

// setupAppWithDB creates config, initializes app, and returns cleanup function
func setupAppWithDB(fs *flag.FlagSet, dbPath string) (*app.App, func()) {
	// managing users signs no tokens, so the server secret is not needed
	secret, err := helpers.GenUUID()
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}

	cfg, err := config.New(config.Params{
		DBPath:    dbPath,
		JWTSecret: secret,
	})
	if err != nil {
		fmt.Printf("Error: %s\n\n", err)
		fs.Usage()
		os.Exit(1)
	}

	a, err := initApp(cfg)
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
	cleanup := func() {
		database.Close(a.DB)
	}

	return &a, cleanup
}
