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

package middleware

import (
	"net/http"

	"github.com/dnote/simplenote/pkg/server/app"
	"github.com/dnote/simplenote/pkg/server/context"
	"github.com/dnote/simplenote/pkg/server/database"
	"github.com/dnote/simplenote/pkg/server/log"
	"github.com/pkg/errors"
)

// The reasons of an unauthorized response
const (
	CodeNotAuthenticated = "not_authenticated"
	CodeTokenNotValid    = "token_not_valid"
	CodeUserNotFound     = "user_not_found"
)

// authWithToken returns the user of the access token carried by the request
func authWithToken(a *app.App, r *http.Request) (database.User, string, error) {
	access, err := GetCredential(r)
	if err != nil {
		return database.User{}, CodeTokenNotValid, nil
	}
	if access == "" {
		return database.User{}, CodeNotAuthenticated, nil
	}

	userID, err := a.Tokens.ParseAccess(access)
	if err != nil {
		log.WithFields(log.Fields{
			"path": r.URL.Path,
		}).Debug(err.Error())

		return database.User{}, CodeTokenNotValid, nil
	}

	user, err := a.GetUserByID(userID)
	if errors.Is(err, app.ErrNotFound) {
		return database.User{}, CodeUserNotFound, nil
	} else if err != nil {
		return database.User{}, "", errors.Wrap(err, "finding user from token")
	}

	return user, "", nil
}

var unauthorizedDetails = map[string]string{
	CodeNotAuthenticated: "Authentication credentials were not provided.",
	CodeTokenNotValid:    "Given token not valid for any token type",
	CodeUserNotFound:     "User not found",
}

// Auth is an authentication middleware. It responds with 401 unless the
// request carries a valid access token of an existing user.
func Auth(a *app.App, next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, code, err := authWithToken(a, r)
		if err != nil {
			DoError(w, "authenticating with token", err, http.StatusInternalServerError)
			return
		}
		if code != "" {
			RespondUnauthorized(w, unauthorizedDetails[code], code)
			return
		}

		ctx := context.WithUser(r.Context(), &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
