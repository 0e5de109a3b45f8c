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
// Package credentials persists the access and refresh token pair
package credentials

import (
	"sync"

	"github.com/dnote/simplenote/pkg/cli/database"
	"github.com/pkg/errors"
)

// Store is a durable key-value store of named credential strings.
// Get returns an empty string for a key that is not set.
type Store interface {
	Get(key string) (string, error)
	// Set writes every key in kv atomically
	Set(kv map[string]string) error
	Delete(keys ...string) error
}

// SystemStore keeps credentials in the system table of the local database
type SystemStore struct {
	DB *database.DB
}

// NewSystemStore returns a store backed by the given database
func NewSystemStore(db *database.DB) *SystemStore {
	return &SystemStore{DB: db}
}

// Get returns the value stored under key
func (s *SystemStore) Get(key string) (string, error) {
	var ret string

	err := database.GetSystem(s.DB, key, &ret)
	if err == database.ErrNotFound {
		return "", nil
	} else if err != nil {
		return "", errors.Wrapf(err, "reading %s", key)
	}

	return ret, nil
}

// Set writes the given values in a single transaction
func (s *SystemStore) Set(kv map[string]string) error {
	return s.DB.WithTx(func(tx *database.DB) error {
		for k, v := range kv {
			if err := database.UpdateSystem(tx, k, v); err != nil {
				return err
			}
		}

		return nil
	})
}

// Delete removes the given keys in a single transaction
func (s *SystemStore) Delete(keys ...string) error {
	return s.DB.WithTx(func(tx *database.DB) error {
		for _, k := range keys {
			if err := database.DeleteSystem(tx, k); err != nil {
				return err
			}
		}

		return nil
	})
}

// MemoryStore is a non-durable store used in tests
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore returns an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

// Get returns the value stored under key
func (s *MemoryStore) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.values[key], nil
}

// Set writes the given values
func (s *MemoryStore) Set(kv map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range kv {
		s.values[k] = v
	}

	return nil
}

// Delete removes the given keys
func (s *MemoryStore) Delete(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		delete(s.values, k)
	}

	return nil
}
