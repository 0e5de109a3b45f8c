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


package database

import (
	"path/filepath"
	"testing"

	"github.com/dnote/simplenote/pkg/assert"
	"github.com/dnote/simplenote/pkg/server/log"
	"github.com/pkg/errors"
	"gorm.io/gorm/logger"
)

func TestGetDBLogLevel(t *testing.T) {
	testCases := []struct {
		name     string
		level    string
		expected logger.LogLevel
	}{
		{
			name:     "debug level maps to Info",
			level:    log.LevelDebug,
			expected: logger.Info,
		},
		{
			name:     "info level maps to Silent",
			level:    log.LevelInfo,
			expected: logger.Silent,
		},
		{
			name:     "warn level maps to Warn",
			level:    log.LevelWarn,
			expected: logger.Warn,
		},
		{
			name:     "error level maps to Error",
			level:    log.LevelError,
			expected: logger.Error,
		},
		{
			name:     "unknown level maps to Silent",
			level:    "unknown",
			expected: logger.Silent,
		},
		{
			name:     "empty string maps to Silent",
			level:    "",
			expected: logger.Silent,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := getDBLogLevel(tc.level)
			assert.Equal(t, result, tc.expected, "log level mismatch")
		})
	}
}

func TestOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "server.db")

	db, err := Open(dbPath, log.LevelInfo)
	if err != nil {
		t.Fatal(errors.Wrap(err, "opening"))
	}
	defer Close(db)

	if err := InitSchema(db); err != nil {
		t.Fatal(errors.Wrap(err, "initializing the schema"))
	}

	if err := db.Create(&User{Username: "alice"}).Error; err != nil {
		t.Fatal(errors.Wrap(err, "creating a user"))
	}
	err = db.Create(&User{Username: "alice"}).Error
	assert.NotEqual(t, err, nil, "duplicate username should be rejected")
}

func TestUserFullName(t *testing.T) {
	testCases := []struct {
		user     User
		expected string
	}{
		{User{FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{User{FirstName: "Ada"}, "Ada"},
		{User{LastName: "Lovelace"}, "Lovelace"},
		{User{}, ""},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.user.FullName(), tc.expected, "full name mismatch")
	}
}
