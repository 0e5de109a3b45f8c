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
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// TokenPair is the response of the login endpoint
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges the credentials for a token pair. It does not store the tokens.
func (c *Client) Login(ctx context.Context, username, password string) (TokenPair, error) {
	var ret TokenPair

	err := c.do(ctx, c.public, http.MethodPost, "api/auth/token/", nil, loginPayload{
		Username: username,
		Password: password,
	}, &ret)
	if err != nil {
		return ret, errors.Wrap(err, "logging in")
	}

	return ret, nil
}

// RegisterParams is the payload of the register endpoint
type RegisterParams struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// User is a user account as reported by the server
type User struct {
	ID        int64  `json:"id,omitempty"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Register creates a user account
func (c *Client) Register(ctx context.Context, params RegisterParams) (User, error) {
	var ret User

	if err := c.do(ctx, c.public, http.MethodPost, "api/auth/register/", nil, params, &ret); err != nil {
		return ret, errors.Wrap(err, "registering")
	}

	return ret, nil
}

type refreshPayload struct {
	Refresh string `json:"refresh"`
}

// RefreshResp is the response of the refresh endpoint
type RefreshResp struct {
	Access string `json:"access"`
}

// RefreshAccess exchanges the refresh token for a new access token
func (c *Client) RefreshAccess(ctx context.Context, refreshToken string) (RefreshResp, error) {
	var ret RefreshResp

	err := c.do(ctx, c.public, http.MethodPost, "api/auth/token/refresh/", nil, refreshPayload{Refresh: refreshToken}, &ret)
	if err != nil {
		return ret, errors.Wrap(err, "refreshing the access token")
	}
	if ret.Access == "" {
		return ret, &DecodeError{Err: errors.New("empty access token")}
	}

	return ret, nil
}

// GetUserInfo returns the logged in user
func (c *Client) GetUserInfo(ctx context.Context) (User, error) {
	var ret User

	if err := c.doAuthorized(ctx, http.MethodGet, "api/auth/userinfo/", nil, nil, &ret); err != nil {
		return ret, errors.Wrap(err, "getting user info")
	}

	return ret, nil
}

type changePasswordPayload struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePasswordResp is the response of the change password endpoint
type ChangePasswordResp struct {
	Detail string `json:"detail"`
}

// ChangePassword changes the password of the logged in user
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) (ChangePasswordResp, error) {
	var ret ChangePasswordResp

	err := c.doAuthorized(ctx, http.MethodPost, "api/auth/change-password/", nil, changePasswordPayload{
		OldPassword: oldPassword,
		NewPassword: newPassword,
	}, &ret)
	if err != nil {
		return ret, errors.Wrap(err, "changing the password")
	}

	return ret, nil
}

// Note is a note as represented by the server
type Note struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	CreatorName     *string   `json:"creator_name"`
	CreatorUsername *string   `json:"creator_username"`
}

// NotePayload is the payload for creating a note
type NotePayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// NotePatch is the payload for a partial update of a note. Nil fields are
// left unchanged.
type NotePatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// GetNote returns the note with the given id
func (c *Client) GetNote(ctx context.Context, id int64) (Note, error) {
	var ret Note

	if err := c.doAuthorized(ctx, http.MethodGet, fmt.Sprintf("api/notes/%d/", id), nil, nil, &ret); err != nil {
		return ret, errors.Wrapf(err, "getting note %d", id)
	}

	return ret, nil
}

// CreateNote creates a note
func (c *Client) CreateNote(ctx context.Context, payload NotePayload) (Note, error) {
	var ret Note

	if err := c.doAuthorized(ctx, http.MethodPost, "api/notes/", nil, payload, &ret); err != nil {
		return ret, errors.Wrap(err, "creating a note")
	}

	return ret, nil
}

// UpdateNote applies a partial update to the note with the given id
func (c *Client) UpdateNote(ctx context.Context, id int64, patch NotePatch) (Note, error) {
	var ret Note

	if err := c.doAuthorized(ctx, http.MethodPatch, fmt.Sprintf("api/notes/%d/", id), nil, patch, &ret); err != nil {
		return ret, errors.Wrapf(err, "updating note %d", id)
	}

	return ret, nil
}

// DeleteNote deletes the note with the given id
func (c *Client) DeleteNote(ctx context.Context, id int64) error {
	if err := c.doAuthorized(ctx, http.MethodDelete, fmt.Sprintf("api/notes/%d/", id), nil, nil, nil); err != nil {
		return errors.Wrapf(err, "deleting note %d", id)
	}

	return nil
}

// PagedNotes is a page of a note listing
type PagedNotes struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []Note  `json:"results"`
}

// TotalPages returns the number of pages of the given size needed to hold
// every note in the listing. An empty listing has one page.
func (p PagedNotes) TotalPages(pageSize int) int {
	if pageSize <= 0 || p.Count <= 0 {
		return 1
	}

	return (p.Count + pageSize - 1) / pageSize
}

func pageQuery(page, pageSize int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}

	return q
}

// ListNotes returns a page of the notes of the logged in user
func (c *Client) ListNotes(ctx context.Context, page, pageSize int) (PagedNotes, error) {
	var ret PagedNotes

	if err := c.doAuthorized(ctx, http.MethodGet, "api/notes/", pageQuery(page, pageSize), nil, &ret); err != nil {
		return ret, errors.Wrap(err, "listing notes")
	}

	return ret, nil
}

// FilterParams narrows a note listing. Zero values are not sent.
type FilterParams struct {
	Title       string
	Description string
	UpdatedGTE  time.Time
	UpdatedLTE  time.Time
	Page        int
	PageSize    int
}

func (p FilterParams) query() url.Values {
	q := pageQuery(p.Page, p.PageSize)
	if p.Title != "" {
		q.Set("title", p.Title)
	}
	if p.Description != "" {
		q.Set("description", p.Description)
	}
	if !p.UpdatedGTE.IsZero() {
		q.Set("updated__gte", p.UpdatedGTE.UTC().Format(time.RFC3339))
	}
	if !p.UpdatedLTE.IsZero() {
		q.Set("updated__lte", p.UpdatedLTE.UTC().Format(time.RFC3339))
	}

	return q
}

// FilterNotes returns a page of the notes matching the given filter
func (c *Client) FilterNotes(ctx context.Context, params FilterParams) (PagedNotes, error) {
	var ret PagedNotes

	if err := c.doAuthorized(ctx, http.MethodGet, "api/notes/filter", params.query(), nil, &ret); err != nil {
		return ret, errors.Wrap(err, "filtering notes")
	}

	return ret, nil
}
