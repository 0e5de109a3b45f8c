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
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dnote/simplenote/pkg/server/buildinfo"
	"github.com/dnote/simplenote/pkg/server/config"
	"github.com/dnote/simplenote/pkg/server/controllers"
	"github.com/dnote/simplenote/pkg/server/database"
	"github.com/dnote/simplenote/pkg/server/log"
	"github.com/pkg/errors"
)

const shutdownTimeout = 10 * time.Second

func startCmd(args []string) {
	fs := setupFlagSet("start", "simplenote-server start")

	port := fs.String("port", "", "Server port (env: PORT, default: 8000)")
	dbPath := fs.String("dbPath", "", dbPathUsage)
	logLevel := fs.String("logLevel", "", "Log level: debug, info, warn, or error (env: LOG_LEVEL, default: info)")
	jwtSecret := fs.String("jwtSecret", "", "Secret for signing tokens (env: JWT_SECRET, required)")
	accessTTL := fs.String("accessTTL", "", "Lifetime of access tokens (env: ACCESS_TTL, default: 5m)")
	refreshTTL := fs.String("refreshTTL", "", "Lifetime of refresh tokens (env: REFRESH_TTL, default: 24h)")
	rateLimit := fs.String("rateLimit", "", "Requests per second allowed from an IP, 0 to disable (env: RATE_LIMIT, default: 50)")

	fs.Parse(args)

	cfg, err := config.New(config.Params{
		Port:       *port,
		DBPath:     *dbPath,
		LogLevel:   *logLevel,
		JWTSecret:  *jwtSecret,
		AccessTTL:  *accessTTL,
		RefreshTTL: *refreshTTL,
		RateLimit:  *rateLimit,
	})
	if err != nil {
		fmt.Printf("Error: %s\n\n", err)
		fs.Usage()
		os.Exit(1)
	}

	log.SetLevel(cfg.LogLevel)

	app, err := initApp(cfg)
	if err != nil {
		log.ErrorWrap(err, "initializing app")
		os.Exit(1)
	}
	defer database.Close(app.DB)

	ctl := controllers.New(&app)
	rc := controllers.RouteConfig{
		APIRoutes:   controllers.NewAPIRoutes(&app, ctl),
		Controllers: ctl,
	}

	r, stop, err := controllers.NewRouter(&app, rc)
	if err != nil {
		panic(errors.Wrap(err, "initializing router"))
	}
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.ErrorWrap(err, "shutting down the server")
		}
	}()

	log.WithFields(log.Fields{
		"version": buildinfo.Version,
		"port":    cfg.Port,
		"dbPath":  cfg.DBPath,
	}).Info("Simplenote server starting")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorWrap(err, "server failed")
		os.Exit(1)
	}

	log.Info("Simplenote server stopped")
}
