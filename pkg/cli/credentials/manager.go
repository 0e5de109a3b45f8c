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
package credentials

import (
	"sync"

	"github.com/dnote/simplenote/pkg/cli/consts"
	"github.com/pkg/errors"
)

// Manager reads and writes the token pair. Writes are serialized so that
// concurrent callers never lose an update, and reads observe the last
// completed write.
type Manager struct {
	store Store
	mu    sync.RWMutex
}

// NewManager returns a manager persisting to the given store
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// SaveTokens stores a new token pair
func (m *Manager) SaveTokens(access, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.store.Set(map[string]string{
		consts.SystemAccessToken:  access,
		consts.SystemRefreshToken: refresh,
	})
	if err != nil {
		return errors.Wrap(err, "saving tokens")
	}

	return nil
}

// SaveAccess replaces the access token and leaves the refresh token unchanged
func (m *Manager) SaveAccess(access string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Set(map[string]string{consts.SystemAccessToken: access}); err != nil {
		return errors.Wrap(err, "saving the access token")
	}

	return nil
}

// Access returns the access token, or an empty string if there is none
func (m *Manager) Access() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.store.Get(consts.SystemAccessToken)
}

// Refresh returns the refresh token, or an empty string if there is none
func (m *Manager) Refresh() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.store.Get(consts.SystemRefreshToken)
}

// Clear removes both tokens
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Delete(consts.SystemAccessToken, consts.SystemRefreshToken); err != nil {
		return errors.Wrap(err, "clearing tokens")
	}

	return nil
}

// LoggedIn returns true if a refresh token is stored
func (m *Manager) LoggedIn() (bool, error) {
	refresh, err := m.Refresh()
	if err != nil {
		return false, err
	}

	return refresh != "", nil
}
