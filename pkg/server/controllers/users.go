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
	"github.com/dnote/simplenote/pkg/server/context"
	"github.com/dnote/simplenote/pkg/server/log"
	mw "github.com/dnote/simplenote/pkg/server/middleware"
	"github.com/dnote/simplenote/pkg/server/presenters"
)

// NewUsers creates a new Users controller.
func NewUsers(app *app.App) *Users {
	return &Users{
		app: app,
	}
}

// Users is a user controller.
type Users struct {
	app *app.App
}

// LoginForm is the payload for obtaining a pair of tokens
type LoginForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenPairResponse is the response carrying a pair of tokens
type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login handles POST /api/auth/token/
func (u *Users) Login(w http.ResponseWriter, r *http.Request) {
	var form LoginForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	user, err := u.app.Authenticate(form.Username, form.Password)
	if err != nil {
		handleJSONError(w, err, "authenticating")
		return
	}

	pair, err := u.app.SignIn(user)
	if err != nil {
		handleJSONError(w, err, "signing in")
		return
	}

	log.WithFields(log.Fields{
		"userID": user.ID,
	}).Info("signed in")

	mw.RespondJSON(w, http.StatusOK, TokenPairResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
}

// RegisterForm is the payload for registering
type RegisterForm struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Register handles POST /api/auth/register/
func (u *Users) Register(w http.ResponseWriter, r *http.Request) {
	var form RegisterForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	user, err := u.app.CreateUser(app.RegisterParams{
		Username:  form.Username,
		Password:  form.Password,
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	})
	if err != nil {
		handleJSONError(w, err, "creating user")
		return
	}

	mw.RespondJSON(w, http.StatusCreated, presenters.PresentUser(user))
}

// RefreshForm is the payload for refreshing an access token
type RefreshForm struct {
	Refresh string `json:"refresh"`
}

// RefreshResponse is the response carrying a new access token
type RefreshResponse struct {
	Access string `json:"access"`
}

// Refresh handles POST /api/auth/token/refresh/
func (u *Users) Refresh(w http.ResponseWriter, r *http.Request) {
	var form RefreshForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	access, err := u.app.RefreshAccess(form.Refresh)
	if err != nil {
		handleJSONError(w, err, "refreshing access token")
		return
	}

	mw.RespondJSON(w, http.StatusOK, RefreshResponse{Access: access})
}

// UserInfo handles GET /api/auth/userinfo/
func (u *Users) UserInfo(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrNotFound, "getting user")
		return
	}

	mw.RespondJSON(w, http.StatusOK, presenters.PresentUser(*user))
}

// ChangePasswordForm is the payload for changing the password
type ChangePasswordForm struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword handles POST /api/auth/change-password/
func (u *Users) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrNotFound, "getting user")
		return
	}

	var form ChangePasswordForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	if err := u.app.ChangePassword(*user, form.OldPassword, form.NewPassword); err != nil {
		handleJSONError(w, err, "changing password")
		return
	}

	log.WithFields(log.Fields{
		"userID": user.ID,
	}).Info("password changed")

	mw.RespondDetail(w, http.StatusOK, "Password updated successfully.", "")
}
