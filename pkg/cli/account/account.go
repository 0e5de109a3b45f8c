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
// Package account implements login, registration and the other account flows
package account

import (
	"context"

	"github.com/dnote/simplenote/pkg/cli/cache"
	"github.com/dnote/simplenote/pkg/cli/client"
	"github.com/dnote/simplenote/pkg/cli/consts"
	"github.com/dnote/simplenote/pkg/cli/credentials"
	"github.com/dnote/simplenote/pkg/cli/database"
	"github.com/dnote/simplenote/pkg/cli/log"
	"github.com/pkg/errors"
)

// Gateway is the subset of the API client used by the service
type Gateway interface {
	Login(ctx context.Context, username, password string) (client.TokenPair, error)
	Register(ctx context.Context, params client.RegisterParams) (client.User, error)
	GetUserInfo(ctx context.Context) (client.User, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) (client.ChangePasswordResp, error)
}

// Service provides the account flows
type Service struct {
	db      *database.DB
	gateway Gateway
	tokens  *credentials.Manager
	cache   *cache.Cache
}

// New returns an account service
func New(db *database.DB, gw Gateway, tokens *credentials.Manager, c *cache.Cache) *Service {
	return &Service{
		db:      db,
		gateway: gw,
		tokens:  tokens,
		cache:   c,
	}
}

// Login obtains and stores a token pair
func (s *Service) Login(ctx context.Context, username, password string) error {
	pair, err := s.gateway.Login(ctx, username, password)
	if err != nil {
		return err
	}

	if err := s.tokens.SaveTokens(pair.Access, pair.Refresh); err != nil {
		return errors.Wrap(err, "storing the tokens")
	}

	return nil
}

// Register creates an account and logs into it
func (s *Service) Register(ctx context.Context, params client.RegisterParams) (client.User, error) {
	user, err := s.gateway.Register(ctx, params)
	if err != nil {
		return user, err
	}

	if err := s.Login(ctx, params.Username, params.Password); err != nil {
		return user, errors.Wrap(err, "logging in after registration")
	}

	return user, nil
}

// Logout discards the tokens and every cached note, including the changes
// that were not synced
func (s *Service) Logout() error {
	if err := s.tokens.Clear(); err != nil {
		return err
	}

	if err := s.ClearLocal(); err != nil {
		return err
	}

	log.Debug("account: logged out\n")
	return nil
}

// ClearLocal discards the cached notes and the sync state
func (s *Service) ClearLocal() error {
	if err := s.cache.ClearAll(); err != nil {
		return errors.Wrap(err, "clearing the note cache")
	}

	if err := database.DeleteSystem(s.db, consts.SystemLastSyncAt); err != nil {
		return errors.Wrap(err, "clearing the last sync time")
	}

	return nil
}

// UserInfo returns the logged in user
func (s *Service) UserInfo(ctx context.Context) (client.User, error) {
	return s.gateway.GetUserInfo(ctx)
}

// ChangePassword changes the password and returns the server message
func (s *Service) ChangePassword(ctx context.Context, oldPassword, newPassword string) (string, error) {
	resp, err := s.gateway.ChangePassword(ctx, oldPassword, newPassword)
	if err != nil {
		return "", err
	}

	return resp.Detail, nil
}

// LoggedIn returns true if the credentials are stored
func (s *Service) LoggedIn() (bool, error) {
	return s.tokens.LoggedIn()
}
