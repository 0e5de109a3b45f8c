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
	"time"
)

// Model is the base model definition. The timestamps are set by the app so
// that they follow its clock.
type Model struct {
	ID        int       `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index;autoUpdateTime:false"`
}

// User is a model for a user
type User struct {
	Model
	Username    string     `gorm:"uniqueIndex;not null"`
	Email       string     `gorm:"index"`
	FirstName   string
	LastName    string
	Password    string     `json:"-"`
	LastLoginAt *time.Time `json:"-"`
}

// FullName returns the first and last names of the user separated by a space
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}

	return u.FirstName + " " + u.LastName
}

// Note is a model for a note
type Note struct {
	Model
	UserID      int    `gorm:"index"`
	User        User   `json:"-"`
	Title       string
	Description string
}

// Token is a model for an issued refresh token. Value is the id of the
// token, not the token itself.
type Token struct {
	Model
	UserID    int    `gorm:"index"`
	Value     string `gorm:"uniqueIndex"`
	Type      string
	ExpiresAt time.Time
	RevokedAt *time.Time
}
