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

// Package testutils provides utilities used in tests
package testutils

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dnote/simplenote/pkg/server/database"
	"github.com/dnote/simplenote/pkg/server/helpers"
	"github.com/dnote/simplenote/pkg/server/log"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens a database at the given path and initializes the schema
func InitDB(dbPath string) *gorm.DB {
	db, err := database.Open(dbPath, log.LevelInfo)
	if err != nil {
		panic(err)
	}
	if err := database.InitSchema(db); err != nil {
		panic(err)
	}

	return db
}

// InitMemoryDB creates an in-memory SQLite database with the schema initialized
func InitMemoryDB(t *testing.T) *gorm.DB {
	// Use file-based in-memory database with unique UUID per test to avoid sharing
	uuid, err := helpers.GenUUID()
	if err != nil {
		t.Fatalf("failed to generate UUID for test database: %v", err)
	}
	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid)
	db, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}

	if err := database.InitSchema(db); err != nil {
		t.Fatalf("failed to initialize the schema: %v", err)
	}

	t.Cleanup(func() {
		database.Close(db)
	})

	return db
}

// MustUUID generates a UUID and fails the test on error
func MustUUID(t *testing.T) string {
	uuid, err := helpers.GenUUID()
	if err != nil {
		t.Fatal(errors.Wrap(err, "Failed to generate UUID"))
	}
	return uuid
}

// SetupUserData creates and returns a new user with username and password for testing purposes
func SetupUserData(db *gorm.DB, username, password string) database.User {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(errors.Wrap(err, "Failed to hash password"))
	}

	now := time.Now().UTC()
	user := database.User{
		Model: database.Model{
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashedPassword),
	}

	if err := db.Save(&user).Error; err != nil {
		panic(errors.Wrap(err, "Failed to prepare user"))
	}

	return user
}

// SetupNoteData creates and returns a note of the given user updated at the given time
func SetupNoteData(db *gorm.DB, user database.User, title, description string, updatedAt time.Time) database.Note {
	note := database.Note{
		Model: database.Model{
			CreatedAt: updatedAt.UTC(),
			UpdatedAt: updatedAt.UTC(),
		},
		UserID:      user.ID,
		Title:       title,
		Description: description,
	}

	if err := db.Save(&note).Error; err != nil {
		panic(errors.Wrap(err, "Failed to prepare note"))
	}

	return note
}

// AccessIssuer creates access tokens
type AccessIssuer interface {
	CreateAccess(userID int) (string, error)
}

// HTTPDo makes an HTTP request and returns a response
func HTTPDo(t *testing.T, req *http.Request) *http.Response {
	hc := http.Client{
		// Do not follow redirects so that the routes are tested as they are
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	res, err := hc.Do(req)
	if err != nil {
		t.Fatal(errors.Wrap(err, "performing http request"))
	}

	return res
}

// SetReqAuthHeader sets the authorization header in the given request with a new access token of the given user
func SetReqAuthHeader(t *testing.T, iss AccessIssuer, req *http.Request, user database.User) {
	access, err := iss.CreateAccess(user.ID)
	if err != nil {
		t.Fatal(errors.Wrap(err, "creating an access token"))
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", access))
}

// HTTPAuthDo makes an HTTP request with an appropriate authorization header for a user
func HTTPAuthDo(t *testing.T, iss AccessIssuer, req *http.Request, user database.User) *http.Response {
	SetReqAuthHeader(t, iss, req, user)

	return HTTPDo(t, req)
}

// MakeReq makes an HTTP request and returns a response
func MakeReq(endpoint string, method, path, data string) *http.Request {
	u := fmt.Sprintf("%s%s", endpoint, path)

	req, err := http.NewRequest(method, u, strings.NewReader(data))
	if err != nil {
		panic(errors.Wrap(err, "constructing http request"))
	}
	if data != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	return req
}

// MustExec fails the test if the given database query has error
func MustExec(t *testing.T, db *gorm.DB, message string) {
	if err := db.Error; err != nil {
		t.Fatalf("%s: %s", message, err.Error())
	}
}
