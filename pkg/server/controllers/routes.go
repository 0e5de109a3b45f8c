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

package controllers

import (
	"net/http"

	"github.com/dnote/simplenote/pkg/server/app"
	mw "github.com/dnote/simplenote/pkg/server/middleware"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// Route represents a single route
type Route struct {
	Methods   []string
	Pattern   string
	Handler   http.HandlerFunc
	RateLimit bool
}

// RouteConfig is the configuration for routes
type RouteConfig struct {
	Controllers *Controllers
	APIRoutes   []Route
}

// NewAPIRoutes returns a new api routes
func NewAPIRoutes(a *app.App, c *Controllers) []Route {
	get := []string{http.MethodGet}
	post := []string{http.MethodPost}

	return []Route{
		{get, "/health", c.Health.Index, false},

		// auth
		{post, "/api/auth/token/", c.Users.Login, true},
		{post, "/api/auth/token/refresh/", c.Users.Refresh, true},
		{post, "/api/auth/register/", c.Users.Register, true},
		{get, "/api/auth/userinfo/", mw.Auth(a, c.Users.UserInfo), true},
		{post, "/api/auth/change-password/", mw.Auth(a, c.Users.ChangePassword), true},

		// notes
		{get, "/api/notes/", mw.Auth(a, c.Notes.Index), true},
		{post, "/api/notes/", mw.Auth(a, c.Notes.Create), true},
		{get, "/api/notes/filter", mw.Auth(a, c.Notes.Filter), true},
		{get, "/api/notes/filter/", mw.Auth(a, c.Notes.Filter), true},
		{get, "/api/notes/{id:[0-9]+}/", mw.Auth(a, c.Notes.Show), true},
		{[]string{http.MethodPatch, http.MethodPut}, "/api/notes/{id:[0-9]+}/", mw.Auth(a, c.Notes.Update), true},
		{[]string{http.MethodDelete}, "/api/notes/{id:[0-9]+}/", mw.Auth(a, c.Notes.Delete), true},
	}
}

func registerRoutes(router *mux.Router, wrapper mw.Middleware, rl *mw.RateLimiter, routes []Route) {
	for _, route := range routes {
		wrappedHandler := wrapper(route.Handler, rl, route.RateLimit)

		router.
			Handle(route.Pattern, wrappedHandler).
			Methods(route.Methods...)
	}
}

// NewRouter creates and returns a new router. The returned function stops
// the background work of the router.
func NewRouter(a *app.App, rc RouteConfig) (http.Handler, func(), error) {
	if err := a.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "validating the app parameters")
	}

	var rl *mw.RateLimiter
	if a.RateLimit > 0 {
		rl = mw.NewRateLimiter(a.RateLimit, a.RateLimit*2)
	}

	router := mux.NewRouter()
	registerRoutes(router, mw.APIMw, rl, rc.APIRoutes)

	router.NotFoundHandler = http.HandlerFunc(mw.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(mw.MethodNotAllowed)

	stop := func() {
		if rl != nil {
			rl.Stop()
		}
	}

	return mw.Global(router), stop, nil
}
