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

package app

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/dnote/simplenote/pkg/server/database"
	"github.com/dnote/simplenote/pkg/server/log"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	minPasswordLength = 8
	maxUsernameLength = 150
	maxNameLength     = 150
)

var usernameRegexp = regexp.MustCompile(`^[\w.@+-]+$`)

// TokenPair is the pair of credentials handed out on sign in
type TokenPair struct {
	Access  string
	Refresh string
}

// RegisterParams are the parameters for creating a user
type RegisterParams struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

func validatePassword(v *ValidationError, attr, password string) {
	if password == "" {
		v.Add(attr, CodeBlank, "This field may not be blank.")
	} else if len(password) < minPasswordLength {
		v.Add(attr, CodeTooShort, "This password is too short. It must contain at least 8 characters.")
	}
}

func validateRegisterParams(p RegisterParams) *ValidationError {
	v := &ValidationError{}

	switch {
	case p.Username == "":
		v.Add("username", CodeBlank, "This field may not be blank.")
	case len(p.Username) > maxUsernameLength:
		v.Add("username", CodeMaxLen, "Ensure this field has no more than 150 characters.")
	case !usernameRegexp.MatchString(p.Username):
		v.Add("username", CodeInvalid, "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}

	validatePassword(v, "password", p.Password)

	if p.Email != "" {
		if _, err := mail.ParseAddress(p.Email); err != nil {
			v.Add("email", CodeInvalid, "Enter a valid email address.")
		}
	}
	if len(p.FirstName) > maxNameLength {
		v.Add("first_name", CodeMaxLen, "Ensure this field has no more than 150 characters.")
	}
	if len(p.LastName) > maxNameLength {
		v.Add("last_name", CodeMaxLen, "Ensure this field has no more than 150 characters.")
	}

	return v
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hashing password")
	}

	return string(hashed), nil
}

// CreateUser creates a user
func (a *App) CreateUser(p RegisterParams) (database.User, error) {
	p.Username = strings.TrimSpace(p.Username)
	p.Email = strings.TrimSpace(p.Email)

	v := validateRegisterParams(p)

	tx := a.DB.Begin()
	defer tx.Rollback()

	if !v.Has("username") {
		var count int64
		if err := tx.Model(&database.User{}).Where("username = ?", p.Username).Count(&count).Error; err != nil {
			return database.User{}, errors.Wrap(err, "counting user")
		}
		if count > 0 {
			v.Add("username", CodeUnique, "A user with that username already exists.")
		}
	}

	if err := v.Err(); err != nil {
		return database.User{}, err
	}

	hashedPassword, err := hashPassword(p.Password)
	if err != nil {
		return database.User{}, err
	}

	now := a.now()
	user := database.User{
		Model: database.Model{
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:  p.Username,
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Password:  hashedPassword,
	}
	if err := tx.Create(&user).Error; err != nil {
		return database.User{}, errors.Wrap(err, "saving user")
	}

	if err := tx.Commit().Error; err != nil {
		return database.User{}, errors.Wrap(err, "committing a transaction")
	}

	return user, nil
}

// GetUserByID returns the user with the given id
func (a *App) GetUserByID(id int) (database.User, error) {
	var user database.User

	err := a.DB.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, ErrNotFound
	} else if err != nil {
		return user, errors.Wrap(err, "finding user")
	}

	return user, nil
}

// GetUserByUsername returns the user with the given username
func (a *App) GetUserByUsername(username string) (database.User, error) {
	var user database.User

	err := a.DB.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, ErrNotFound
	} else if err != nil {
		return user, errors.Wrap(err, "finding user")
	}

	return user, nil
}

// Authenticate authenticates a user
func (a *App) Authenticate(username, password string) (*database.User, error) {
	v := &ValidationError{}
	if username == "" {
		v.Add("username", CodeBlank, "This field may not be blank.")
	}
	if password == "" {
		v.Add("password", CodeBlank, "This field may not be blank.")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	user, err := a.GetUserByUsername(username)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrLoginInvalid
	} else if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrLoginInvalid
	}

	return &user, nil
}

// TouchLastLoginAt updates the last login timestamp
func (a *App) TouchLastLoginAt(user database.User, tx *gorm.DB) error {
	t := a.now()
	if err := tx.Model(&user).Update("last_login_at", &t).Error; err != nil {
		return errors.Wrap(err, "updating last_login_at")
	}

	return nil
}

// SignIn issues a new pair of tokens for the user
func (a *App) SignIn(user *database.User) (TokenPair, error) {
	if err := a.TouchLastLoginAt(*user, a.DB); err != nil {
		log.ErrorWrap(err, "touching login timestamp")
	}

	access, err := a.Tokens.CreateAccess(user.ID)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := a.Tokens.CreateRefresh(a.DB, user.ID)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{Access: access, Refresh: refresh}, nil
}

// RefreshAccess exchanges a refresh token for a new access token
func (a *App) RefreshAccess(refresh string) (string, error) {
	if refresh == "" {
		return "", NewValidationError("refresh", CodeBlank, "This field may not be blank.")
	}

	tok, err := a.Tokens.ParseRefresh(a.DB, refresh)
	if err != nil {
		return "", err
	}

	if _, err := a.GetUserByID(tok.UserID); err != nil {
		return "", err
	}

	access, err := a.Tokens.CreateAccess(tok.UserID)
	if err != nil {
		return "", err
	}

	return access, nil
}

// UpdateUserPassword sets the password of the user and revokes the refresh
// tokens issued before
func (a *App) UpdateUserPassword(user database.User, password string) error {
	hashedPassword, err := hashPassword(password)
	if err != nil {
		return err
	}

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Updates(map[string]interface{}{
			"password":   hashedPassword,
			"updated_at": a.now(),
		}).Error; err != nil {
			return errors.Wrap(err, "updating password")
		}

		return a.Tokens.RevokeAll(tx, user.ID)
	})
	if err != nil {
		return err
	}

	return nil
}

// ChangePassword verifies the old password of the user and replaces it
func (a *App) ChangePassword(user database.User, oldPassword, newPassword string) error {
	v := &ValidationError{}

	if oldPassword == "" {
		v.Add("old_password", CodeBlank, "This field may not be blank.")
	} else if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		v.Add("old_password", CodeInvalid, "Old password is not correct.")
	}
	validatePassword(v, "new_password", newPassword)

	if err := v.Err(); err != nil {
		return err
	}

	return a.UpdateUserPassword(user, newPassword)
}

// RemoveUser removes the user with the given username along with the
// tokens. It refuses to remove a user who still owns notes.
func (a *App) RemoveUser(username string) error {
	user, err := a.GetUserByUsername(username)
	if err != nil {
		return err
	}

	return a.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&database.Note{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
			return errors.Wrap(err, "counting notes")
		}
		if count > 0 {
			return errors.Wrapf(ErrUserHasExistingResources, "%d notes", count)
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&database.Token{}).Error; err != nil {
			return errors.Wrap(err, "deleting tokens")
		}
		if err := tx.Delete(&user).Error; err != nil {
			return errors.Wrap(err, "deleting user")
		}

		return nil
	})
}
